package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
	"github.com/wardstock/wardstock-backend/pkg/errors"
)

func TestLocationStockState_Available(t *testing.T) {
	tests := []struct {
		name  string
		state domain.LocationStockState
		want  int
	}{
		{"no reservation", domain.LocationStockState{Quantity: 10}, 10},
		{"partial reservation", domain.LocationStockState{Quantity: 10, Reserved: 4}, 6},
		{"over-reserved clamps to zero", domain.LocationStockState{Quantity: 3, Reserved: 9}, 0},
		{"negative quantity clamps to zero", domain.LocationStockState{Quantity: -5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Available())
		})
	}
}

func TestLocationStockState_SurplusAmount(t *testing.T) {
	state := domain.LocationStockState{Quantity: 80, MinimumThreshold: 20}
	assert.Equal(t, 60, state.SurplusAmount())

	below := domain.LocationStockState{Quantity: 10, MinimumThreshold: 20}
	assert.Equal(t, 0, below.SurplusAmount())
}

func TestTransferSuggestion_Valid(t *testing.T) {
	valid := domain.TransferSuggestion{
		FromLocation:      "loc-a",
		ToLocation:        "loc-b",
		SuggestedQuantity: 5,
	}
	assert.True(t, valid.Valid())

	selfTransfer := valid
	selfTransfer.ToLocation = "loc-a"
	assert.False(t, selfTransfer.Valid())

	zeroQuantity := valid
	zeroQuantity.SuggestedQuantity = 0
	assert.False(t, zeroQuantity.Valid())
}

func TestTimeRange_Validate(t *testing.T) {
	now := time.Now()

	ok := domain.TimeRange{From: now.Add(-time.Hour), To: now}
	require.NoError(t, ok.Validate())

	// Degenerate single-instant range is allowed.
	point := domain.TimeRange{From: now, To: now}
	require.NoError(t, point.Validate())

	inverted := domain.TimeRange{From: now, To: now.Add(-time.Hour)}
	err := inverted.Validate()
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "BAD_REQUEST", appErr.Code)
}

func TestTimeRange_ContainsInclusiveBounds(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
	tr := domain.TimeRange{From: from, To: to}

	assert.True(t, tr.Contains(from))
	assert.True(t, tr.Contains(to))
	assert.True(t, tr.Contains(from.Add(12*time.Hour)))
	assert.False(t, tr.Contains(from.Add(-time.Second)))
	assert.False(t, tr.Contains(to.Add(time.Second)))
}

func TestUrgency_MoreUrgent(t *testing.T) {
	assert.True(t, domain.UrgencyCritical.MoreUrgent(domain.UrgencyHigh))
	assert.True(t, domain.UrgencyHigh.MoreUrgent(domain.UrgencyMedium))
	assert.False(t, domain.UrgencyLow.MoreUrgent(domain.UrgencyMedium))
	assert.False(t, domain.UrgencyHigh.MoreUrgent(domain.UrgencyHigh))
}
