package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
)

// DefaultTopRoutes bounds the route frequency breakdown.
const DefaultTopRoutes = 5

// Aggregator computes analytics reports over windows of historical
// transfer records. It is a pure function of its input; reports are
// disposable and recomputed on demand.
type Aggregator struct {
	topRoutes int
}

// NewAggregator creates an aggregator. A non-positive topRoutes falls back
// to the default.
func NewAggregator(topRoutes int) *Aggregator {
	if topRoutes <= 0 {
		topRoutes = DefaultTopRoutes
	}
	return &Aggregator{topRoutes: topRoutes}
}

// Aggregate filters records to the given time range (inclusive bounds on
// created_at) and computes the report. The only reportable input error is
// an inverted range; an empty window produces a zeroed report with an
// explanatory insight, never a division by zero.
func (a *Aggregator) Aggregate(records []domain.TransferRecord, timeRange domain.TimeRange) (*domain.AnalyticsReport, error) {
	if err := timeRange.Validate(); err != nil {
		return nil, err
	}

	var filtered []domain.TransferRecord
	for _, record := range records {
		if timeRange.Contains(record.CreatedAt) {
			filtered = append(filtered, record)
		}
	}

	report := &domain.AnalyticsReport{
		TimeRange:         timeRange,
		TotalTransfers:    len(filtered),
		TransferRoutes:    []domain.RouteStat{},
		PriorityBreakdown: emptyBreakdown(),
	}

	if len(filtered) == 0 {
		report.Insights = []string{"no transfers recorded in the selected time range"}
		return report, nil
	}

	total := len(filtered)
	completed := 0
	automated := 0
	processingHours := 0.0
	processingSamples := 0
	routeCounts := make(map[string]int)
	priorityCounts := make(map[domain.Urgency]int)

	for _, record := range filtered {
		if record.Status == domain.StatusCompleted {
			completed++
			if record.CompletedAt != nil {
				processingHours += record.CompletedAt.Sub(record.CreatedAt).Hours()
				processingSamples++
			}
		}
		if record.Automated {
			automated++
		}
		routeCounts[record.Route()]++
		priorityCounts[record.Priority]++
	}

	report.Efficiency = percentage(completed, total)
	report.SuccessRate = report.Efficiency
	report.AutomationRate = percentage(automated, total)

	if processingSamples > 0 {
		// Two decimals keeps repeated runs byte-identical in JSON.
		report.AvgProcessingTimeHours = math.Round(processingHours/float64(processingSamples)*100) / 100
	}

	report.TransferRoutes = a.topRouteStats(routeCounts, total)
	report.PriorityBreakdown = priorityBreakdown(priorityCounts, total)

	report.Insights = buildInsights(report)

	return report, nil
}

// topRouteStats converts route counts into the top-N breakdown, sorted
// descending by count with route name as tie-break.
func (a *Aggregator) topRouteStats(routeCounts map[string]int, total int) []domain.RouteStat {
	stats := make([]domain.RouteStat, 0, len(routeCounts))
	for route, count := range routeCounts {
		stats = append(stats, domain.RouteStat{
			Route:      route,
			Count:      count,
			Percentage: percentage(count, total),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Route < stats[j].Route
	})

	if len(stats) > a.topRoutes {
		stats = stats[:a.topRoutes]
	}

	return stats
}

// buildInsights derives heuristic commentary from the computed metrics.
// These are rules of thumb for the dashboard, not statistically validated
// claims.
func buildInsights(report *domain.AnalyticsReport) []string {
	var insights []string

	if report.AutomationRate < 50 {
		insights = append(insights, fmt.Sprintf(
			"automation rate is %d%%, consider increasing auto-approval scope", report.AutomationRate))
	}
	if report.SuccessRate >= 90 {
		insights = append(insights, fmt.Sprintf(
			"transfer success rate is strong at %d%%", report.SuccessRate))
	} else if report.SuccessRate < 60 {
		insights = append(insights, fmt.Sprintf(
			"success rate is %d%%; review failed and cancelled transfers on frequent routes", report.SuccessRate))
	}
	if len(report.TransferRoutes) > 0 && report.TransferRoutes[0].Percentage >= 40 {
		top := report.TransferRoutes[0]
		insights = append(insights, fmt.Sprintf(
			"route %s accounts for %d%% of transfers; a standing replenishment schedule may help", top.Route, top.Percentage))
	}
	if report.PriorityBreakdown[domain.UrgencyCritical] >= 30 {
		insights = append(insights, fmt.Sprintf(
			"%d%% of transfers were critical; thresholds may be set too low to reorder in time", report.PriorityBreakdown[domain.UrgencyCritical]))
	}

	if len(insights) == 0 {
		insights = append(insights, "transfer operations are within expected ranges")
	}

	return insights
}

// priorityBreakdown apportions 100 percentage points across the priority
// tiers by largest remainder, so the breakdown always sums to exactly 100
// when total > 0. All known tiers appear even at 0%.
func priorityBreakdown(counts map[domain.Urgency]int, total int) map[domain.Urgency]int {
	breakdown := emptyBreakdown()
	if total == 0 {
		return breakdown
	}

	type share struct {
		priority  domain.Urgency
		remainder float64
	}

	assigned := 0
	shares := make([]share, 0, len(domain.Priorities))
	for _, priority := range domain.Priorities {
		exact := 100 * float64(counts[priority]) / float64(total)
		floor := int(exact)
		breakdown[priority] = floor
		assigned += floor
		shares = append(shares, share{priority: priority, remainder: exact - float64(floor)})
	}

	// Hand out the leftover points to the largest remainders; ties go to
	// the more urgent tier, which Priorities already orders first.
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].remainder > shares[j].remainder
	})
	for i := 0; i < 100-assigned && i < len(shares); i++ {
		breakdown[shares[i].priority]++
	}

	return breakdown
}

func emptyBreakdown() map[domain.Urgency]int {
	breakdown := make(map[domain.Urgency]int, len(domain.Priorities))
	for _, priority := range domain.Priorities {
		breakdown[priority] = 0
	}
	return breakdown
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}
