package services

import (
	"strings"
	"testing"
	"time"
)

func testBaseline() Baseline {
	return Baseline{
		ProjectType:      "commercial",
		Bin:              "medium",
		CostPerTon:       fv(2000, 2500, 3000, 3500, 4000),
		HoursPerTon:      fv(8, 10, 12, 15, 19),
		MaterialSharePct: 45,
	}
}

func findAlert(t *testing.T, alerts []AlertItem, key string) *AlertItem {
	t.Helper()
	for i := range alerts {
		if alerts[i].Key == key {
			return &alerts[i]
		}
	}
	return nil
}

func healthyInput() AlertInput {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 20)
	return AlertInput{
		Metrics: AggregatedMetrics{
			MaterialCost: 13500, LaborCost: 12000, CoatingCost: 3000, HardwareCost: 1500,
			DirectCost: 30000, TotalWeightLbs: 20000, Tons: 10, LaborHours: 120,
			ActiveLines: 8, CostPerTon: 3000, HoursPerTon: 12, HasTonnage: true,
		},
		Baseline:      testBaseline(),
		Coverage:      Coverage{Weight: 1, Labor: 1, Rate: 1, Coating: 1},
		Concentration: 40,
		TopCategories: []CategoryShare{
			{Category: "main_steel", Label: "Main Steel", Cost: 12000, SharePct: 40},
		},
		DueDate:       &due,
		Now:           now,
		DocumentCount: 3,
	}
}

func TestBuildAlertsHealthyBid(t *testing.T) {
	alerts := BuildAlerts(healthyInput(), DefaultScoringConfig().Thresholds)

	if worst := WorstSeverity(alerts); worst != SeverityOK {
		for _, a := range alerts {
			if a.Severity != SeverityOK {
				t.Logf("non-ok alert: %s (%s): %s", a.Key, a.Severity, a.Detail)
			}
		}
		t.Fatalf("healthy bid worst severity = %s, want ok", worst)
	}

	for _, key := range []string{"cost-position", "hours-position", "concentration", "coverage", "schedule", "documents"} {
		if findAlert(t, alerts, key) == nil {
			t.Errorf("missing %s finding on healthy bid", key)
		}
	}
}

func TestBuildAlertsBelowMinScenario(t *testing.T) {
	// One line: $1000 material + $500 labor on 2000 lbs and 40 hrs gives
	// $1500/ton, below the baseline minimum, so the position clamps to 1
	// and the cost position rule must warn.
	lines := []EstimateLine{
		{
			Category: "main_steel", Kind: KindMaterial, Status: LineActive,
			MaterialCost: 1000, LaborCost: 500,
			TotalWeightLbs: 2000, LaborHours: 40,
		},
	}
	m := Aggregate(lines)
	concentration, top := CategoryConcentration(lines)
	in := AlertInput{
		Metrics:       m,
		Baseline:      testBaseline(),
		Coverage:      ComputeCoverage(lines),
		Concentration: concentration,
		TopCategories: top,
		Now:           time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)

	costPos := findAlert(t, alerts, "cost-position")
	if costPos == nil {
		t.Fatal("missing cost-position alert")
	}
	if costPos.Severity != SeverityWarning {
		t.Errorf("cost-position severity = %s, want warning", costPos.Severity)
	}
	if !strings.Contains(costPos.Title, "below market band") {
		t.Errorf("cost-position title = %q, want below-band wording", costPos.Title)
	}
	if !strings.Contains(costPos.Detail, "P1") {
		t.Errorf("cost-position detail should carry the clamped position, got %q", costPos.Detail)
	}
}

func TestBuildAlertsPositionAboveBand(t *testing.T) {
	in := healthyInput()
	in.Metrics.CostPerTon = 3950 // P94 against the test baseline

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)

	costPos := findAlert(t, alerts, "cost-position")
	if costPos == nil || costPos.Severity != SeverityWarning {
		t.Fatalf("expected warning for above-band position, got %+v", costPos)
	}
	if !strings.Contains(costPos.Title, "above market band") {
		t.Errorf("title = %q", costPos.Title)
	}
}

func TestBuildAlertsCostDeviation(t *testing.T) {
	in := healthyInput()
	in.Metrics.CostPerTon = 3450 // +15% vs median 3000

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)
	if findAlert(t, alerts, "cost-deviation") == nil {
		t.Error("expected cost-deviation warning at +15%")
	}

	in.Metrics.CostPerTon = 3300 // +10%, under the cutoff
	alerts = BuildAlerts(in, DefaultScoringConfig().Thresholds)
	if findAlert(t, alerts, "cost-deviation") != nil {
		t.Error("unexpected cost-deviation warning at +10%")
	}
}

func TestBuildAlertsHoursDeviation(t *testing.T) {
	in := healthyInput()
	in.Metrics.HoursPerTon = 14.5 // +20.8% vs median 12

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)
	if findAlert(t, alerts, "hours-deviation") == nil {
		t.Error("expected hours-deviation warning above +20%")
	}
}

func TestBuildAlertsDivergence(t *testing.T) {
	in := healthyInput()
	in.Metrics.CostPerTon = 4050 // +35% vs median
	in.Metrics.HoursPerTon = 12  // on the median

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)
	div := findAlert(t, alerts, "cost-hours-divergence")
	if div == nil {
		t.Fatal("expected divergence warning for a 35 point gap")
	}
	if div.Severity != SeverityWarning {
		t.Errorf("divergence severity = %s, want warning", div.Severity)
	}
}

func TestBuildAlertsConcentrationLevels(t *testing.T) {
	tests := []struct {
		name          string
		concentration float64
		expect        Severity
	}{
		{"well distributed", 40, SeverityOK},
		{"elevated", 56, SeverityInfo},
		{"concentrated", 70, SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := healthyInput()
			in.Concentration = tt.concentration

			alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)
			conc := findAlert(t, alerts, "concentration")
			if conc == nil {
				t.Fatal("missing concentration alert")
			}
			if conc.Severity != tt.expect {
				t.Errorf("severity = %s, want %s", conc.Severity, tt.expect)
			}
		})
	}
}

func TestBuildAlertsCoverageGaps(t *testing.T) {
	in := healthyInput()
	in.Coverage = Coverage{Weight: 0.7, Labor: 0.9, Rate: 1, Coating: 1}

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)

	weight := findAlert(t, alerts, "coverage-weight")
	if weight == nil || weight.Severity != SeverityWarning {
		t.Errorf("weight coverage at 70%% should warn, got %+v", weight)
	}
	labor := findAlert(t, alerts, "coverage-labor")
	if labor == nil || labor.Severity != SeverityInfo {
		t.Errorf("labor coverage at 90%% should be info, got %+v", labor)
	}
	if findAlert(t, alerts, "coverage-rate") != nil {
		t.Error("full rate coverage should not alert")
	}
	if findAlert(t, alerts, "coverage") != nil {
		t.Error("healthy-coverage summary should not appear alongside gap alerts")
	}
}

func TestBuildAlertsScheduleStates(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		due    time.Time
		expect Severity
	}{
		{"past due", now.Add(-36 * time.Hour), SeverityCritical},
		{"due in two days", now.Add(49 * time.Hour), SeverityWarning},
		{"due this week", now.AddDate(0, 0, 5).Add(time.Hour), SeverityInfo},
		{"comfortable lead", now.AddDate(0, 0, 20), SeverityOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := healthyInput()
			due := tt.due
			in.DueDate = &due
			in.Now = now

			alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)

			var schedule []AlertItem
			for _, a := range alerts {
				if a.Title == "Schedule pressure" {
					schedule = append(schedule, a)
				}
				if a.Title == "No bid due date" {
					t.Error("no-due-date alert must not appear when a due date is set")
				}
			}
			if len(schedule) != 1 {
				t.Fatalf("got %d schedule pressure alerts, want exactly 1", len(schedule))
			}
			if schedule[0].Severity != tt.expect {
				t.Errorf("severity = %s, want %s", schedule[0].Severity, tt.expect)
			}
		})
	}
}

func TestBuildAlertsNoDueDate(t *testing.T) {
	in := healthyInput()
	in.DueDate = nil

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)

	var noDue, pressure int
	for _, a := range alerts {
		switch a.Title {
		case "No bid due date":
			noDue++
		case "Schedule pressure":
			pressure++
		}
	}
	if noDue != 1 || pressure != 0 {
		t.Errorf("got %d no-due-date and %d schedule-pressure alerts, want 1 and 0", noDue, pressure)
	}
}

func TestBuildAlertsEmptyBid(t *testing.T) {
	in := AlertInput{
		Metrics:  Aggregate(nil),
		Baseline: testBaseline(),
		Coverage: ComputeCoverage(nil),
		Now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)

	noLines := findAlert(t, alerts, "coverage")
	if noLines == nil || noLines.Title != "No active lines" {
		t.Fatalf("expected a no-active-lines finding, got %+v", noLines)
	}
	if findAlert(t, alerts, "cost-position") != nil {
		t.Error("positional rules must be skipped with no lines")
	}
	if findAlert(t, alerts, "coverage-weight") != nil {
		t.Error("per-field coverage alerts must be skipped with no lines")
	}
}

func TestBuildAlertsNoTonnage(t *testing.T) {
	in := healthyInput()
	in.Metrics.HasTonnage = false
	in.Metrics.Tons = 0
	in.Metrics.TotalWeightLbs = 0
	in.Metrics.CostPerTon = 0
	in.Metrics.HoursPerTon = 0

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)

	tonnage := findAlert(t, alerts, "tonnage")
	if tonnage == nil || tonnage.Severity != SeverityInfo {
		t.Fatalf("expected tonnage info alert, got %+v", tonnage)
	}
	if tonnage.Value != Dash {
		t.Errorf("tonnage value = %q, want %q", tonnage.Value, Dash)
	}
	if findAlert(t, alerts, "cost-position") != nil {
		t.Error("positional rules must be skipped without tonnage")
	}
}

func TestBuildAlertsMaterialMix(t *testing.T) {
	in := healthyInput()
	in.Metrics.MaterialCost = 18600 // 62% of 30000 direct, 17 pts over the 45% share

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)
	if findAlert(t, alerts, "material-mix") == nil {
		t.Error("expected material-mix finding at 17 points of drift")
	}

	in.Metrics.MaterialCost = 13500 // back to 45%
	alerts = BuildAlerts(in, DefaultScoringConfig().Thresholds)
	if findAlert(t, alerts, "material-mix") != nil {
		t.Error("unexpected material-mix finding at baseline share")
	}
}

func TestBuildAlertsDocuments(t *testing.T) {
	in := healthyInput()
	in.DocumentCount = 0

	alerts := BuildAlerts(in, DefaultScoringConfig().Thresholds)
	docs := findAlert(t, alerts, "documents")
	if docs == nil || docs.Severity != SeverityInfo {
		t.Fatalf("expected info alert for zero documents, got %+v", docs)
	}

	in.DocumentCount = 1
	alerts = BuildAlerts(in, DefaultScoringConfig().Thresholds)
	docs = findAlert(t, alerts, "documents")
	if docs == nil || docs.Severity != SeverityOK || docs.Value != "1 document" {
		t.Errorf("expected ok alert valued \"1 document\", got %+v", docs)
	}
}

func TestWorstSeverity(t *testing.T) {
	alerts := []AlertItem{
		{Severity: SeverityOK},
		{Severity: SeverityInfo},
		{Severity: SeverityWarning},
	}
	if got := WorstSeverity(alerts); got != SeverityWarning {
		t.Errorf("WorstSeverity = %s, want warning", got)
	}
	if got := WorstSeverity(nil); got != SeverityOK {
		t.Errorf("WorstSeverity(nil) = %s, want ok", got)
	}
}
