package engine

import (
	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
)

// Confidence score constants. Deterministic suggestions use only threshold
// math, so they carry a fixed baseline below what a demand-forecasting
// model would claim.
const (
	DeterministicConfidence = 70
	DefaultAIConfidence     = 85
)

// ConfidenceScorer attaches a 0-100 confidence score to suggestions.
// The score is informational only and never changes quantity or urgency.
type ConfidenceScorer struct{}

// Score returns the confidence for a suggestion of the given provenance.
// External scores pass through clamped to [0,100]; a missing external score
// defaults to DefaultAIConfidence.
func (ConfidenceScorer) Score(source domain.Source, supplied *int) int {
	if source == domain.SourceDeterministic {
		return DeterministicConfidence
	}
	if supplied == nil {
		return DefaultAIConfidence
	}
	return clampScore(*supplied)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
