package services

import (
	"fmt"
	"math"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// BidInfo is the bid-level context a health pass needs.
type BidInfo struct {
	ID          string
	Name        string
	ProjectType string
	Status      string
	DueDate     *time.Time
}

// BidInfoFromRecord maps a bids record into a BidInfo.
func BidInfoFromRecord(r *core.Record) BidInfo {
	info := BidInfo{
		ID:          r.Id,
		Name:        r.GetString("name"),
		ProjectType: r.GetString("project_type"),
		Status:      r.GetString("status"),
	}
	if due := r.GetDateTime("bid_due_date"); !due.IsZero() {
		t := due.Time()
		info.DueDate = &t
	}
	return info
}

// MetricsDisplay carries the formatted strings the dashboard renders.
// Per-ton values show an em-dash when the bid has no tonnage.
type MetricsDisplay struct {
	MaterialCost string `json:"material_cost"`
	LaborCost    string `json:"labor_cost"`
	CoatingCost  string `json:"coating_cost"`
	HardwareCost string `json:"hardware_cost"`
	DirectCost   string `json:"direct_cost"`
	Tons         string `json:"tons"`
	LaborHours   string `json:"labor_hours"`
	CostPerTon   string `json:"cost_per_ton"`
	HoursPerTon  string `json:"hours_per_ton"`
}

// DisplayMetrics formats aggregated metrics for presentation.
func DisplayMetrics(m AggregatedMetrics) MetricsDisplay {
	d := MetricsDisplay{
		MaterialCost: FormatUSD(m.MaterialCost),
		LaborCost:    FormatUSD(m.LaborCost),
		CoatingCost:  FormatUSD(m.CoatingCost),
		HardwareCost: FormatUSD(m.HardwareCost),
		DirectCost:   FormatUSD(m.DirectCost),
		Tons:         FormatTons(m.Tons),
		LaborHours:   FormatHours(m.LaborHours),
		CostPerTon:   Dash,
		HoursPerTon:  Dash,
	}
	if m.HasTonnage {
		d.CostPerTon = FormatUSD(m.CostPerTon) + "/T"
		d.HoursPerTon = fmt.Sprintf("%.1f hrs/T", m.HoursPerTon)
	}
	return d
}

// HealthReport is the full output of one health computation pass over a
// bid. It is derived data: recomputed on every request, never stored.
type HealthReport struct {
	BidID         string     `json:"bid_id"`
	BidName       string     `json:"bid_name"`
	ProjectType   string     `json:"project_type"`
	BidStatus     string     `json:"bid_status"`
	DueDate       *time.Time `json:"bid_due_date,omitempty"`
	ConfigVersion string     `json:"config_version"`

	Baseline   Baseline `json:"baseline"`
	BaselineOK bool     `json:"baseline_resolved"`

	Metrics AggregatedMetrics `json:"metrics"`
	Display MetricsDisplay    `json:"display"`

	CostPosition  float64         `json:"cost_position"`
	HoursPosition float64         `json:"hours_position"`
	Coverage      Coverage        `json:"coverage"`
	Concentration float64         `json:"concentration"`
	Categories    []CategoryShare `json:"categories"`

	Alerts        []AlertItem `json:"alerts"`
	Score         float64     `json:"score"`
	WorstSeverity Severity    `json:"worst_severity"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

// ComputeHealth runs the whole engine over a resolved snapshot: aggregation,
// percentile positioning, alert rules and the health score. It is pure; the
// caller supplies the clock.
func ComputeHealth(bid BidInfo, lines []EstimateLine, documentCount int, now time.Time, cfg ScoringConfig) *HealthReport {
	metrics := Aggregate(lines)
	coverage := ComputeCoverage(lines)
	concentration, categories := CategoryConcentration(lines)
	baseline, baselineOK := cfg.ResolveBaseline(bid.ProjectType, metrics.Tons)

	costPos := PercentilePosition(metrics.CostPerTon, baseline.CostPerTon)
	hoursPos := PercentilePosition(metrics.HoursPerTon, baseline.HoursPerTon)

	alerts := BuildAlerts(AlertInput{
		Metrics:       metrics,
		Baseline:      baseline,
		Coverage:      coverage,
		Concentration: concentration,
		TopCategories: categories,
		DueDate:       bid.DueDate,
		Now:           now,
		DocumentCount: documentCount,
	}, cfg.Thresholds)

	score := ComputeScore(costPos, hoursPos, coverage, concentration, cfg.Weights)

	return &HealthReport{
		BidID:         bid.ID,
		BidName:       bid.Name,
		ProjectType:   bid.ProjectType,
		BidStatus:     bid.Status,
		DueDate:       bid.DueDate,
		ConfigVersion: cfg.Version,
		Baseline:      baseline,
		BaselineOK:    baselineOK,
		Metrics:       metrics,
		Display:       DisplayMetrics(metrics),
		CostPosition:  costPos,
		HoursPosition: hoursPos,
		Coverage:      coverage,
		Concentration: concentration,
		Categories:    categories,
		Alerts:        alerts,
		Score:         math.Round(score*10) / 10,
		WorstSeverity: WorstSeverity(alerts),
		GeneratedAt:   now,
	}
}

// BuildHealthReport loads a bid's active lines and document count and runs
// ComputeHealth over them.
func BuildHealthReport(app *pocketbase.PocketBase, bid *core.Record, cfg ScoringConfig) (*HealthReport, error) {
	lineRecords, err := app.FindRecordsByFilter(
		"estimate_lines",
		"bid = {:bid} && status = 'active'",
		"sort_order", 0, 0,
		map[string]any{"bid": bid.Id},
	)
	if err != nil {
		return nil, fmt.Errorf("load lines for bid %s: %w", bid.Id, err)
	}

	docs, err := app.FindRecordsByFilter(
		"documents",
		"bid = {:bid}",
		"", 0, 0,
		map[string]any{"bid": bid.Id},
	)
	if err != nil {
		docs = nil
	}

	return ComputeHealth(BidInfoFromRecord(bid), LinesFromRecords(lineRecords), len(docs), time.Now(), cfg), nil
}
