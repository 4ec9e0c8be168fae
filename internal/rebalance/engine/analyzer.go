package engine

import (
	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
)

// DefaultSurplusMultiplier marks a location as a donor candidate only when
// its available stock clears the minimum threshold with 50% headroom.
const DefaultSurplusMultiplier = 1.5

// Analyzer classifies per-location stock states of an item as deficit,
// surplus, or normal. It is a pure function of the snapshot it is given.
type Analyzer struct {
	surplusMultiplier float64
}

// NewAnalyzer creates an analyzer. A non-positive multiplier falls back to
// the default.
func NewAnalyzer(surplusMultiplier float64) *Analyzer {
	if surplusMultiplier <= 0 {
		surplusMultiplier = DefaultSurplusMultiplier
	}
	return &Analyzer{surplusMultiplier: surplusMultiplier}
}

// Analyze splits the item's locations into deficits and surpluses.
//
// A location is in deficit when its available stock is below the minimum
// threshold. It is in surplus when available stock exceeds the threshold
// times the surplus multiplier. Locations that are neither are excluded
// from both lists. A location with no configured threshold (0) can never
// be in deficit.
func (a *Analyzer) Analyze(item domain.Item) (deficits, surpluses []domain.LocationStockState) {
	for _, state := range item.Stock {
		available := state.Available()

		switch {
		case available < state.MinimumThreshold:
			deficits = append(deficits, state)
		case float64(available) > float64(state.MinimumThreshold)*a.surplusMultiplier:
			surpluses = append(surpluses, state)
		}
	}

	return deficits, surpluses
}
