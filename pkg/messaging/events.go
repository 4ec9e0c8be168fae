package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventSuggestionsGenerated = "rebalance.suggestions.generated"
	EventReportGenerated      = "rebalance.report.generated"
)

// Exchange names
const (
	ExchangeRebalanceEvents = "rebalance.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// SuggestionsGeneratedEvent is published after a recommendation cycle
type SuggestionsGeneratedEvent struct {
	Source          string `json:"source"` // "ai" or "deterministic"
	SuggestionCount int    `json:"suggestion_count"`
	CriticalCount   int    `json:"critical_count"`
	GeneratedAt     string `json:"generated_at"`
}

// ReportGeneratedEvent is published after an analytics report is built
type ReportGeneratedEvent struct {
	From           string `json:"from"`
	To             string `json:"to"`
	TotalTransfers int    `json:"total_transfers"`
	Efficiency     int    `json:"efficiency"`
}
