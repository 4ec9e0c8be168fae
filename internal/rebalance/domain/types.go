package domain

import (
	"time"

	"github.com/wardstock/wardstock-backend/pkg/errors"
)

// Urgency classifies how soon a suggested transfer should happen.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// rank orders urgencies for sorting, lower is more urgent.
func (u Urgency) rank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyHigh:
		return 1
	case UrgencyMedium:
		return 2
	default:
		return 3
	}
}

// MoreUrgent reports whether u should be acted on before other.
func (u Urgency) MoreUrgent(other Urgency) bool {
	return u.rank() < other.rank()
}

// Priorities reflects all known priority tiers, most urgent first.
var Priorities = []Urgency{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow}

// Source tags where a suggestion came from.
type Source string

const (
	SourceAI            Source = "ai"
	SourceDeterministic Source = "deterministic"
)

// TransferStatus is the lifecycle state of a historical transfer.
type TransferStatus string

const (
	StatusPending   TransferStatus = "pending"
	StatusCompleted TransferStatus = "completed"
	StatusFailed    TransferStatus = "failed"
	StatusCancelled TransferStatus = "cancelled"
)

// LocationStockState is the stock situation of one item at one location.
type LocationStockState struct {
	LocationID       string `db:"location_id" json:"location_id"`
	ItemID           string `db:"item_id" json:"item_id"`
	Quantity         int    `db:"quantity" json:"quantity"`
	Reserved         int    `db:"reserved" json:"reserved,omitempty"`
	MinimumThreshold int    `db:"minimum_threshold" json:"minimum_threshold"`
}

// Available returns the freely usable quantity. Inconsistent upstream data
// (reserved exceeding quantity, negative counts) clamps to 0 instead of
// poisoning downstream math.
func (s LocationStockState) Available() int {
	available := s.Quantity - s.Reserved
	if available < 0 {
		return 0
	}
	return available
}

// SurplusAmount returns the transferable quantity above the minimum
// threshold, never negative.
func (s LocationStockState) SurplusAmount() int {
	surplus := s.Available() - s.MinimumThreshold
	if surplus < 0 {
		return 0
	}
	return surplus
}

// Item is a tracked supply item with its per-location stock states.
// There is at most one state per location.
type Item struct {
	ID    string               `json:"item_id"`
	Name  string               `json:"name"`
	Stock []LocationStockState `json:"stock"`
}

// TransferSuggestion is a proposed stock movement between two locations.
type TransferSuggestion struct {
	ItemID            string  `json:"item_id"`
	ItemName          string  `json:"item_name"`
	FromLocation      string  `json:"from_location"`
	ToLocation        string  `json:"to_location"`
	SuggestedQuantity int     `json:"suggested_quantity"`
	Urgency           Urgency `json:"urgency"`
	Reason            string  `json:"reason"`
	ConfidenceScore   int     `json:"confidence_score"`
	Source            Source  `json:"source"`
}

// Valid reports whether the suggestion satisfies its basic invariants:
// a positive quantity and no self-transfer. Used to filter responses from
// the external recommender before they reach callers.
func (s TransferSuggestion) Valid() bool {
	return s.SuggestedQuantity > 0 &&
		s.FromLocation != "" &&
		s.ToLocation != "" &&
		s.FromLocation != s.ToLocation
}

// RemoteSuggestion is the wire shape returned by the external recommender.
// It matches TransferSuggestion except that the confidence score is
// optional and the source tag is implied by provenance.
type RemoteSuggestion struct {
	ItemID            string  `json:"item_id"`
	ItemName          string  `json:"item_name"`
	FromLocation      string  `json:"from_location"`
	ToLocation        string  `json:"to_location"`
	SuggestedQuantity int     `json:"suggested_quantity"`
	Urgency           Urgency `json:"urgency"`
	Reason            string  `json:"reason"`
	ConfidenceScore   *int    `json:"confidence_score,omitempty"`
}

// TransferRecord is a historical transfer owned by the execution system.
// The engine only reads these to build analytics reports.
type TransferRecord struct {
	TransferID   string         `db:"id" json:"transfer_id"`
	ItemID       string         `db:"item_id" json:"item_id"`
	FromLocation string         `db:"from_location" json:"from_location"`
	ToLocation   string         `db:"to_location" json:"to_location"`
	Quantity     int            `db:"quantity" json:"quantity"`
	Priority     Urgency        `db:"priority" json:"priority"`
	Status       TransferStatus `db:"status" json:"status"`
	Automated    bool           `db:"automated" json:"automated"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	CompletedAt  *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
}

// Route returns the grouping key used for route frequency analytics.
func (r TransferRecord) Route() string {
	return r.FromLocation + " → " + r.ToLocation
}

// TimeRange is an inclusive [From, To] window over record creation times.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate rejects an inverted range. This is the only top-level input
// error the analytics aggregator reports.
func (t TimeRange) Validate() error {
	if t.To.Before(t.From) {
		return errors.BadRequest("time range end must not be before start")
	}
	return nil
}

// Contains reports whether ts falls inside the range, bounds included.
func (t TimeRange) Contains(ts time.Time) bool {
	return !ts.Before(t.From) && !ts.After(t.To)
}

// RouteStat is one entry of the route frequency breakdown.
type RouteStat struct {
	Route      string `json:"route"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// AnalyticsReport summarizes a window of historical transfers. All numeric
// fields are 0 when no transfers fall into the range.
type AnalyticsReport struct {
	TimeRange              TimeRange       `json:"time_range"`
	TotalTransfers         int             `json:"total_transfers"`
	Efficiency             int             `json:"efficiency"`
	SuccessRate            int             `json:"success_rate"`
	AutomationRate         int             `json:"automation_rate"`
	AvgProcessingTimeHours float64         `json:"avg_processing_time_hours"`
	TransferRoutes         []RouteStat     `json:"transfer_routes"`
	PriorityBreakdown      map[Urgency]int `json:"priority_breakdown"`
	Insights               []string        `json:"insights"`
}
