package service

import (
	"context"
	"time"

	"github.com/wardstock/wardstock-backend/internal/rebalance/analytics"
	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
	"github.com/wardstock/wardstock-backend/internal/rebalance/engine"
	"github.com/wardstock/wardstock-backend/internal/rebalance/events"
	"github.com/wardstock/wardstock-backend/pkg/logger"
)

// RemoteRecommender is the external AI recommendation source. The bool
// result is the explicit availability flag: false means the source cannot
// recommend right now, which is not the same as an empty suggestion list.
type RemoteRecommender interface {
	Recommend(ctx context.Context, items []domain.Item) ([]domain.RemoteSuggestion, bool, error)
}

// SnapshotProvider supplies the current inventory snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) ([]domain.Item, error)
}

// TransferHistory supplies historical transfer records.
type TransferHistory interface {
	ListByRange(ctx context.Context, from, to time.Time) ([]domain.TransferRecord, error)
}

// Options are the engine tunables, typically taken from config.EngineConfig.
type Options struct {
	SurplusMultiplier float64
	SafetyMargin      int
	TopRoutes         int
	MaxSuggestions    int // 0 means unbounded
	RemoteTimeout     time.Duration
}

// SuggestionSet is the result of one recommendation cycle.
type SuggestionSet struct {
	Suggestions []domain.TransferSuggestion `json:"suggestions"`
	Source      domain.Source               `json:"source"`
}

// RebalanceService generates transfer suggestions and analytics reports.
//
// Suggestion generation tries the external AI source first and falls back
// to the deterministic engine when the source fails, times out, or reports
// itself unavailable. Every invocation starts fresh on the primary path;
// there is no circuit state carried between calls.
type RebalanceService struct {
	remote         RemoteRecommender
	stockRepo      SnapshotProvider
	transferRepo   TransferHistory
	analyzer       *engine.Analyzer
	recommender    *engine.Recommender
	scorer         engine.ConfidenceScorer
	aggregator     *analytics.Aggregator
	publisher      *events.RebalanceEventPublisher
	maxSuggestions int
	remoteTimeout  time.Duration
	logger         *logger.Logger
}

// NewRebalanceService creates a new rebalance service. remote may be nil to
// run deterministic-only; stockRepo and transferRepo may be nil when only
// the inline-snapshot entry points are used.
func NewRebalanceService(
	remote RemoteRecommender,
	stockRepo SnapshotProvider,
	transferRepo TransferHistory,
	publisher *events.RebalanceEventPublisher,
	opts Options,
	log *logger.Logger,
) *RebalanceService {
	timeout := opts.RemoteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &RebalanceService{
		remote:         remote,
		stockRepo:      stockRepo,
		transferRepo:   transferRepo,
		analyzer:       engine.NewAnalyzer(opts.SurplusMultiplier),
		recommender:    engine.NewRecommender(opts.SafetyMargin),
		aggregator:     analytics.NewAggregator(opts.TopRoutes),
		publisher:      publisher,
		maxSuggestions: opts.MaxSuggestions,
		remoteTimeout:  timeout,
		logger:         log,
	}
}

// GenerateSuggestions runs one recommendation cycle over the given
// snapshot. It never fails: external problems degrade to the deterministic
// fallback and an empty snapshot yields an empty, source-tagged result.
func (s *RebalanceService) GenerateSuggestions(ctx context.Context, items []domain.Item) *SuggestionSet {
	if set, ok := s.tryRemote(ctx, items); ok {
		s.publisher.PublishSuggestionsGenerated(ctx, set.Source, set.Suggestions)
		return set
	}

	set := s.deterministic(items)
	s.publisher.PublishSuggestionsGenerated(ctx, set.Source, set.Suggestions)
	return set
}

// GenerateSuggestionsFromStore loads the snapshot from the stock
// repository and runs a recommendation cycle over it.
func (s *RebalanceService) GenerateSuggestionsFromStore(ctx context.Context) (*SuggestionSet, error) {
	items, err := s.stockRepo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.GenerateSuggestions(ctx, items), nil
}

// tryRemote is the primary path. The ok result is false whenever the
// deterministic fallback should take over.
func (s *RebalanceService) tryRemote(ctx context.Context, items []domain.Item) (*SuggestionSet, bool) {
	if s.remote == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	remote, available, err := s.remote.Recommend(ctx, items)
	if err != nil {
		s.logger.Warn().Err(err).Msg("AI recommender failed, falling back to deterministic engine")
		return nil, false
	}
	if !available {
		s.logger.Info().Msg("AI recommender reported unavailable, falling back to deterministic engine")
		return nil, false
	}

	suggestions := make([]domain.TransferSuggestion, 0, len(remote))
	for _, r := range remote {
		suggestion := domain.TransferSuggestion{
			ItemID:            r.ItemID,
			ItemName:          r.ItemName,
			FromLocation:      r.FromLocation,
			ToLocation:        r.ToLocation,
			SuggestedQuantity: r.SuggestedQuantity,
			Urgency:           r.Urgency,
			Reason:            r.Reason,
			ConfidenceScore:   s.scorer.Score(domain.SourceAI, r.ConfidenceScore),
			Source:            domain.SourceAI,
		}
		if !suggestion.Valid() {
			s.logger.Warn().
				Str("item_id", r.ItemID).
				Str("from", r.FromLocation).
				Str("to", r.ToLocation).
				Int("quantity", r.SuggestedQuantity).
				Msg("dropping invalid remote suggestion")
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	engine.SortSuggestions(suggestions)

	return &SuggestionSet{
		Suggestions: s.cap(suggestions),
		Source:      domain.SourceAI,
	}, true
}

// deterministic is the fallback path: threshold analysis plus donor
// matching, a pure function of the snapshot.
func (s *RebalanceService) deterministic(items []domain.Item) *SuggestionSet {
	suggestions := make([]domain.TransferSuggestion, 0)

	for _, item := range items {
		deficits, surpluses := s.analyzer.Analyze(item)
		for _, suggestion := range s.recommender.Recommend(item, deficits, surpluses) {
			suggestion.ConfidenceScore = s.scorer.Score(domain.SourceDeterministic, nil)
			suggestions = append(suggestions, suggestion)
		}
	}

	engine.SortSuggestions(suggestions)

	return &SuggestionSet{
		Suggestions: s.cap(suggestions),
		Source:      domain.SourceDeterministic,
	}
}

// cap truncates to the configured maximum without reordering.
func (s *RebalanceService) cap(suggestions []domain.TransferSuggestion) []domain.TransferSuggestion {
	if s.maxSuggestions > 0 && len(suggestions) > s.maxSuggestions {
		return suggestions[:s.maxSuggestions]
	}
	return suggestions
}

// GenerateReport aggregates the given transfer records over the time range.
func (s *RebalanceService) GenerateReport(ctx context.Context, records []domain.TransferRecord, timeRange domain.TimeRange) (*domain.AnalyticsReport, error) {
	report, err := s.aggregator.Aggregate(records, timeRange)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishReportGenerated(ctx, report)
	return report, nil
}

// GenerateReportFromStore loads the records for the time range from the
// transfer repository and aggregates them.
func (s *RebalanceService) GenerateReportFromStore(ctx context.Context, timeRange domain.TimeRange) (*domain.AnalyticsReport, error) {
	if err := timeRange.Validate(); err != nil {
		return nil, err
	}

	records, err := s.transferRepo.ListByRange(ctx, timeRange.From, timeRange.To)
	if err != nil {
		return nil, err
	}

	return s.GenerateReport(ctx, records, timeRange)
}
