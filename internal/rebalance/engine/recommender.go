package engine

import (
	"fmt"
	"sort"

	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
)

// DefaultSafetyMargin is added to every computed shortfall so a transfer
// does not land exactly on the threshold and re-trigger on the next cycle.
const DefaultSafetyMargin = 10

// Recommender pairs deficit locations with the best-matching surplus
// location of the same item and emits bounded transfer suggestions.
type Recommender struct {
	safetyMargin int
}

// NewRecommender creates a recommender. A negative margin falls back to the
// default.
func NewRecommender(safetyMargin int) *Recommender {
	if safetyMargin < 0 {
		safetyMargin = DefaultSafetyMargin
	}
	return &Recommender{safetyMargin: safetyMargin}
}

// Recommend emits at most one suggestion per deficit location. The donor is
// the surplus location with the largest transferable amount; ties go to the
// lexicographically smaller location ID so output is deterministic. Items
// with no surplus anywhere yield no suggestions, which is a normal outcome.
func (r *Recommender) Recommend(item domain.Item, deficits, surpluses []domain.LocationStockState) []domain.TransferSuggestion {
	if len(deficits) == 0 || len(surpluses) == 0 {
		return nil
	}

	donor, donorSurplus := pickDonor(surpluses)

	var suggestions []domain.TransferSuggestion
	for _, deficit := range deficits {
		if deficit.LocationID == donor.LocationID {
			continue
		}

		available := deficit.Available()
		needed := deficit.MinimumThreshold - available + r.safetyMargin

		quantity := needed
		if donorSurplus < quantity {
			quantity = donorSurplus
		}
		if quantity <= 0 {
			continue
		}

		urgency := domain.UrgencyHigh
		if available == 0 {
			urgency = domain.UrgencyCritical
		}

		suggestions = append(suggestions, domain.TransferSuggestion{
			ItemID:            item.ID,
			ItemName:          item.Name,
			FromLocation:      donor.LocationID,
			ToLocation:        deficit.LocationID,
			SuggestedQuantity: quantity,
			Urgency:           urgency,
			Reason: fmt.Sprintf(
				"%s at %s is short by %d (available %d, minimum %d); %s holds a surplus of %d",
				item.Name, deficit.LocationID, deficit.MinimumThreshold-available,
				available, deficit.MinimumThreshold, donor.LocationID, donorSurplus,
			),
			Source: domain.SourceDeterministic,
		})
	}

	return suggestions
}

// pickDonor selects the surplus location with the largest transferable
// amount, breaking ties on location ID.
func pickDonor(surpluses []domain.LocationStockState) (domain.LocationStockState, int) {
	donor := surpluses[0]
	best := donor.SurplusAmount()

	for _, candidate := range surpluses[1:] {
		amount := candidate.SurplusAmount()
		if amount > best || (amount == best && candidate.LocationID < donor.LocationID) {
			donor = candidate
			best = amount
		}
	}

	return donor, best
}

// SortSuggestions orders suggestions critical-first, then by item name
// ascending. Further tie-breaks on locations keep the order fully
// deterministic for identical inputs.
func SortSuggestions(suggestions []domain.TransferSuggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Urgency != b.Urgency {
			return a.Urgency.MoreUrgent(b.Urgency)
		}
		if a.ItemName != b.ItemName {
			return a.ItemName < b.ItemName
		}
		if a.ToLocation != b.ToLocation {
			return a.ToLocation < b.ToLocation
		}
		return a.FromLocation < b.FromLocation
	})
}
