package events

import (
	"context"
	"time"

	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
	"github.com/wardstock/wardstock-backend/pkg/logger"
	"github.com/wardstock/wardstock-backend/pkg/messaging"
)

// RebalanceEventPublisher publishes rebalancing events. Publishing is
// fire-and-forget: failures are logged, never surfaced to the request.
type RebalanceEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewRebalanceEventPublisher creates a new rebalance event publisher
func NewRebalanceEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*RebalanceEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeRebalanceEvents, "rebalance-service", log)
	if err != nil {
		return nil, err
	}

	return &RebalanceEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishSuggestionsGenerated publishes a summary of a recommendation cycle.
// Nil-safe so tests and messaging-less deployments can pass nil.
func (p *RebalanceEventPublisher) PublishSuggestionsGenerated(ctx context.Context, source domain.Source, suggestions []domain.TransferSuggestion) {
	if p == nil {
		return
	}

	critical := 0
	for _, suggestion := range suggestions {
		if suggestion.Urgency == domain.UrgencyCritical {
			critical++
		}
	}

	data := messaging.SuggestionsGeneratedEvent{
		Source:          string(source),
		SuggestionCount: len(suggestions),
		CriticalCount:   critical,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	if err := p.publisher.Publish(ctx, messaging.EventSuggestionsGenerated, data); err != nil {
		p.logger.Error().Err(err).Str("source", string(source)).Msg("failed to publish suggestions generated event")
	}
}

// PublishReportGenerated publishes a summary of an analytics report.
func (p *RebalanceEventPublisher) PublishReportGenerated(ctx context.Context, report *domain.AnalyticsReport) {
	if p == nil {
		return
	}

	data := messaging.ReportGeneratedEvent{
		From:           report.TimeRange.From.UTC().Format(time.RFC3339),
		To:             report.TimeRange.To.UTC().Format(time.RFC3339),
		TotalTransfers: report.TotalTransfers,
		Efficiency:     report.Efficiency,
	}

	if err := p.publisher.Publish(ctx, messaging.EventReportGenerated, data); err != nil {
		p.logger.Error().Err(err).Msg("failed to publish report generated event")
	}
}
