package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
	"github.com/wardstock/wardstock-backend/internal/rebalance/service"
	"github.com/wardstock/wardstock-backend/pkg/logger"
)

// fakeRecommender is a scriptable stand-in for the external AI service.
type fakeRecommender struct {
	suggestions []domain.RemoteSuggestion
	available   bool
	err         error
	calls       int
}

func (f *fakeRecommender) Recommend(_ context.Context, _ []domain.Item) ([]domain.RemoteSuggestion, bool, error) {
	f.calls++
	return f.suggestions, f.available, f.err
}

func newService(remote service.RemoteRecommender, opts service.Options) *service.RebalanceService {
	return service.NewRebalanceService(remote, nil, nil, nil, opts, logger.New("test", "test"))
}

func snapshot() []domain.Item {
	return []domain.Item{
		{
			ID:   "item-x",
			Name: "Item X",
			Stock: []domain.LocationStockState{
				{LocationID: "loc-a", Quantity: 0, MinimumThreshold: 20},
				{LocationID: "loc-b", Quantity: 80, MinimumThreshold: 20},
			},
		},
	}
}

func TestGenerateSuggestions_DeterministicWithoutRemote(t *testing.T) {
	svc := newService(nil, service.Options{})

	set := svc.GenerateSuggestions(context.Background(), snapshot())

	assert.Equal(t, domain.SourceDeterministic, set.Source)
	require.Len(t, set.Suggestions, 1)
	s := set.Suggestions[0]
	assert.Equal(t, "loc-b", s.FromLocation)
	assert.Equal(t, "loc-a", s.ToLocation)
	assert.Equal(t, 30, s.SuggestedQuantity)
	assert.Equal(t, domain.UrgencyCritical, s.Urgency)
	assert.Equal(t, 70, s.ConfidenceScore)
}

func TestGenerateSuggestions_RemotePreferred(t *testing.T) {
	confidence := 91
	remote := &fakeRecommender{
		available: true,
		suggestions: []domain.RemoteSuggestion{
			{
				ItemID: "item-x", ItemName: "Item X",
				FromLocation: "loc-b", ToLocation: "loc-a",
				SuggestedQuantity: 25, Urgency: domain.UrgencyCritical,
				Reason: "forecasted depletion within 24h", ConfidenceScore: &confidence,
			},
		},
	}

	svc := newService(remote, service.Options{})
	set := svc.GenerateSuggestions(context.Background(), snapshot())

	assert.Equal(t, domain.SourceAI, set.Source)
	require.Len(t, set.Suggestions, 1)
	assert.Equal(t, 91, set.Suggestions[0].ConfidenceScore)
	assert.Equal(t, domain.SourceAI, set.Suggestions[0].Source)
}

func TestGenerateSuggestions_FallbackOnRemoteError(t *testing.T) {
	remote := &fakeRecommender{err: errors.New("connection refused")}

	svc := newService(remote, service.Options{})
	set := svc.GenerateSuggestions(context.Background(), snapshot())

	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, domain.SourceDeterministic, set.Source)
	require.Len(t, set.Suggestions, 1)
}

func TestGenerateSuggestions_FallbackOnUnavailable(t *testing.T) {
	// The source answered but flagged itself unavailable. This must not be
	// confused with a legitimate empty suggestion list.
	remote := &fakeRecommender{available: false}

	svc := newService(remote, service.Options{})
	set := svc.GenerateSuggestions(context.Background(), snapshot())

	assert.Equal(t, domain.SourceDeterministic, set.Source)
}

func TestGenerateSuggestions_EmptyButAvailableRemoteWins(t *testing.T) {
	remote := &fakeRecommender{available: true, suggestions: nil}

	svc := newService(remote, service.Options{})
	set := svc.GenerateSuggestions(context.Background(), snapshot())

	// An available source with zero suggestions is a real answer; no
	// fallback happens.
	assert.Equal(t, domain.SourceAI, set.Source)
	assert.Empty(t, set.Suggestions)
}

func TestGenerateSuggestions_InvalidRemoteSuggestionsDropped(t *testing.T) {
	remote := &fakeRecommender{
		available: true,
		suggestions: []domain.RemoteSuggestion{
			// Self transfer
			{ItemID: "item-x", FromLocation: "loc-a", ToLocation: "loc-a", SuggestedQuantity: 5},
			// Non-positive quantity
			{ItemID: "item-x", FromLocation: "loc-b", ToLocation: "loc-a", SuggestedQuantity: 0},
			// Valid
			{ItemID: "item-x", ItemName: "Item X", FromLocation: "loc-b", ToLocation: "loc-a",
				SuggestedQuantity: 10, Urgency: domain.UrgencyHigh},
		},
	}

	svc := newService(remote, service.Options{})
	set := svc.GenerateSuggestions(context.Background(), snapshot())

	require.Len(t, set.Suggestions, 1)
	assert.Equal(t, 10, set.Suggestions[0].SuggestedQuantity)
	assert.Equal(t, 85, set.Suggestions[0].ConfidenceScore)
}

func TestGenerateSuggestions_Deterministic(t *testing.T) {
	svc := newService(nil, service.Options{})

	first := svc.GenerateSuggestions(context.Background(), snapshot())
	second := svc.GenerateSuggestions(context.Background(), snapshot())

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON)
}

func TestGenerateSuggestions_MaxSuggestionsCapsWithoutReordering(t *testing.T) {
	items := []domain.Item{
		{
			ID:   "item-1",
			Name: "Aspirin",
			Stock: []domain.LocationStockState{
				{LocationID: "loc-a", Quantity: 5, MinimumThreshold: 20},
				{LocationID: "loc-b", Quantity: 80, MinimumThreshold: 20},
			},
		},
		{
			ID:   "item-2",
			Name: "Bandages",
			Stock: []domain.LocationStockState{
				{LocationID: "loc-a", Quantity: 0, MinimumThreshold: 20},
				{LocationID: "loc-b", Quantity: 80, MinimumThreshold: 20},
			},
		},
	}

	unbounded := newService(nil, service.Options{})
	all := unbounded.GenerateSuggestions(context.Background(), items)
	require.Len(t, all.Suggestions, 2)

	capped := newService(nil, service.Options{MaxSuggestions: 1})
	limited := capped.GenerateSuggestions(context.Background(), items)
	require.Len(t, limited.Suggestions, 1)

	// The cap keeps the head of the ordered list: the critical Bandages
	// transfer outranks the high-urgency Aspirin one.
	assert.Equal(t, all.Suggestions[0], limited.Suggestions[0])
	assert.Equal(t, "Bandages", limited.Suggestions[0].ItemName)
}

func TestGenerateSuggestions_EmptySnapshot(t *testing.T) {
	svc := newService(nil, service.Options{})

	set := svc.GenerateSuggestions(context.Background(), nil)

	assert.Equal(t, domain.SourceDeterministic, set.Source)
	assert.NotNil(t, set.Suggestions)
	assert.Empty(t, set.Suggestions)
}

func TestGenerateReport_DelegatesToAggregator(t *testing.T) {
	svc := newService(nil, service.Options{})

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.TransferRecord{
		{TransferID: "t1", FromLocation: "central", ToLocation: "ward-a",
			Priority: domain.UrgencyHigh, Status: domain.StatusCompleted,
			Automated: true, CreatedAt: from.Add(time.Hour)},
	}

	report, err := svc.GenerateReport(context.Background(),
		records, domain.TimeRange{From: from, To: from.AddDate(0, 1, 0)})
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalTransfers)
	assert.Equal(t, 100, report.Efficiency)
	assert.Equal(t, 100, report.AutomationRate)
}

func TestGenerateReport_InvertedRange(t *testing.T) {
	svc := newService(nil, service.Options{})

	from := time.Now()
	_, err := svc.GenerateReport(context.Background(), nil,
		domain.TimeRange{From: from, To: from.Add(-time.Hour)})
	require.Error(t, err)
}
