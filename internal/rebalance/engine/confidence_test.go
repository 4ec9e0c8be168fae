package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
	"github.com/wardstock/wardstock-backend/internal/rebalance/engine"
)

func intPtr(i int) *int { return &i }

func TestScore(t *testing.T) {
	var scorer engine.ConfidenceScorer

	tests := []struct {
		name     string
		source   domain.Source
		supplied *int
		want     int
	}{
		{"deterministic gets fixed baseline", domain.SourceDeterministic, nil, 70},
		{"deterministic ignores supplied score", domain.SourceDeterministic, intPtr(99), 70},
		{"ai without score gets default", domain.SourceAI, nil, 85},
		{"ai score passes through", domain.SourceAI, intPtr(92), 92},
		{"ai score clamped high", domain.SourceAI, intPtr(140), 100},
		{"ai score clamped low", domain.SourceAI, intPtr(-5), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.Score(tt.source, tt.supplied))
		})
	}
}
