package services

import (
	"fmt"
	"math"
	"time"
)

// Severity classifies an alert finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeverityOK       Severity = "ok"
)

// Rank orders severities for worst-of comparisons: critical > warning >
// info > ok.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// AlertItem is one transient finding from a health computation pass. Key is
// stable across passes so the client can track a finding; Value carries the
// formatted metric ("—" when it cannot be computed).
type AlertItem struct {
	Key      string   `json:"key"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Value    string   `json:"value"`
}

// WorstSeverity returns the highest-ranked severity in the list, SeverityOK
// for an empty list.
func WorstSeverity(alerts []AlertItem) Severity {
	worst := SeverityOK
	for _, a := range alerts {
		if a.Severity.Rank() > worst.Rank() {
			worst = a.Severity
		}
	}
	return worst
}

// AlertInput carries everything the alert rules evaluate. All fields are
// read-only snapshots; BuildAlerts never mutates them.
type AlertInput struct {
	Metrics       AggregatedMetrics
	Baseline      Baseline
	Coverage      Coverage
	Concentration float64
	TopCategories []CategoryShare
	DueDate       *time.Time
	Now           time.Time
	DocumentCount int
}

// BuildAlerts evaluates every health rule and returns the findings in a
// fixed order: data-availability notices, market position, deviations,
// divergence, material mix, concentration, coverage, schedule, documents.
// Rules that cannot compute (no tonnage, no baseline median) are skipped
// rather than reported as failures; schedule always yields exactly one item.
func BuildAlerts(in AlertInput, th Thresholds) []AlertItem {
	var alerts []AlertItem

	m := in.Metrics

	if m.ActiveLines == 0 {
		alerts = append(alerts, AlertItem{
			Key:      "coverage",
			Severity: SeverityWarning,
			Title:    "No active lines",
			Detail:   "The bid has no active estimate lines; add lines or import a take-off to begin scoring.",
			Value:    Dash,
		})
	} else if !m.HasTonnage {
		alerts = append(alerts, AlertItem{
			Key:      "tonnage",
			Severity: SeverityInfo,
			Title:    "No tonnage recorded",
			Detail:   "Cost-per-ton and hours-per-ton are unavailable until lines carry weight.",
			Value:    Dash,
		})
	}

	if m.HasTonnage {
		costPos := PercentilePosition(m.CostPerTon, in.Baseline.CostPerTon)
		hoursPos := PercentilePosition(m.HoursPerTon, in.Baseline.HoursPerTon)

		alerts = append(alerts, positionAlert("cost-position",
			"Cost per ton", costPos, FormatUSD(m.CostPerTon)+"/T", in.Baseline, th))
		alerts = append(alerts, positionAlert("hours-position",
			"Shop hours per ton", hoursPos, fmt.Sprintf("%.1f hrs/T", m.HoursPerTon), in.Baseline, th))

		costDev, costDevOK := DeviationFromMedian(m.CostPerTon, in.Baseline.CostPerTon.P50)
		hoursDev, hoursDevOK := DeviationFromMedian(m.HoursPerTon, in.Baseline.HoursPerTon.P50)

		if costDevOK && math.Abs(costDev) >= th.CostDeviationPct {
			alerts = append(alerts, AlertItem{
				Key:      "cost-deviation",
				Severity: SeverityWarning,
				Title:    "Cost per ton far from baseline median",
				Detail: fmt.Sprintf("%s per ton deviates %s from the %s median of %s.",
					FormatUSD(m.CostPerTon), FormatSignedPct(costDev),
					in.Baseline.Label(), FormatUSD(in.Baseline.CostPerTon.P50)),
				Value: FormatSignedPct(costDev),
			})
		}
		if hoursDevOK && math.Abs(hoursDev) >= th.HoursDeviationPct {
			alerts = append(alerts, AlertItem{
				Key:      "hours-deviation",
				Severity: SeverityWarning,
				Title:    "Hours per ton far from baseline median",
				Detail: fmt.Sprintf("%.1f hrs per ton deviates %s from the %s median of %.1f hrs.",
					m.HoursPerTon, FormatSignedPct(hoursDev),
					in.Baseline.Label(), in.Baseline.HoursPerTon.P50),
				Value: FormatSignedPct(hoursDev),
			})
		}
		if costDevOK && hoursDevOK {
			gap := math.Abs(costDev - hoursDev)
			if gap > th.DivergencePts {
				alerts = append(alerts, AlertItem{
					Key:      "cost-hours-divergence",
					Severity: SeverityWarning,
					Title:    "Cost and hours moving inconsistently",
					Detail: fmt.Sprintf("Cost per ton deviates %s while hours per ton deviates %s; a gap this wide often points to a data-entry error.",
						FormatSignedPct(costDev), FormatSignedPct(hoursDev)),
					Value: fmt.Sprintf("%.0f pts", gap),
				})
			}
		}
	}

	if m.DirectCost > 0 && in.Baseline.MaterialSharePct > 0 {
		actualShare := m.MaterialCost / m.DirectCost * 100
		drift := actualShare - in.Baseline.MaterialSharePct
		if math.Abs(drift) > th.MaterialMixDriftPts {
			alerts = append(alerts, AlertItem{
				Key:      "material-mix",
				Severity: SeverityInfo,
				Title:    "Material cost mix off baseline",
				Detail: fmt.Sprintf("Material is %s of direct cost; %s jobs average %s.",
					FormatPct(actualShare), in.Baseline.Label(),
					FormatPct(in.Baseline.MaterialSharePct)),
				Value: FormatSignedPct(drift),
			})
		}
	}

	if m.ActiveLines > 0 {
		alerts = append(alerts, concentrationAlert(in.Concentration, in.TopCategories, th))
		alerts = append(alerts, coverageAlerts(in.Coverage, th)...)
	}

	alerts = append(alerts, scheduleAlert(in.DueDate, in.Now, th))
	alerts = append(alerts, documentsAlert(in.DocumentCount))

	return alerts
}

func positionAlert(key, label string, position float64, value string, b Baseline, th Thresholds) AlertItem {
	detail := fmt.Sprintf("%s sits at %s of the %s baseline.",
		label, FormatPosition(position), b.Label())

	switch {
	case position < th.PositionLow:
		return AlertItem{
			Key:      key,
			Severity: SeverityWarning,
			Title:    label + " below market band",
			Detail:   detail + fmt.Sprintf(" The acceptable band starts at P%.0f.", th.PositionLow),
			Value:    value,
		}
	case position > th.PositionHigh:
		return AlertItem{
			Key:      key,
			Severity: SeverityWarning,
			Title:    label + " above market band",
			Detail:   detail + fmt.Sprintf(" The acceptable band ends at P%.0f.", th.PositionHigh),
			Value:    value,
		}
	default:
		return AlertItem{
			Key:      key,
			Severity: SeverityOK,
			Title:    label + " within market band",
			Detail:   detail,
			Value:    value,
		}
	}
}

func concentrationAlert(concentration float64, top []CategoryShare, th Thresholds) AlertItem {
	item := AlertItem{
		Key:   "concentration",
		Value: FormatPct(concentration),
	}

	switch {
	case concentration >= th.ConcentrationWarnPct:
		item.Severity = SeverityWarning
		item.Title = "Cost concentrated in few categories"
	case concentration >= th.ConcentrationInfoPct:
		item.Severity = SeverityInfo
		item.Title = "Cost concentration elevated"
	default:
		item.Severity = SeverityOK
		item.Title = "Cost well distributed"
	}
	item.Detail = fmt.Sprintf("Top 3 categories hold %s of direct cost%s.",
		FormatPct(concentration), topCategorySummary(top))
	return item
}

func topCategorySummary(shares []CategoryShare) string {
	if len(shares) == 0 {
		return ""
	}
	s := " ("
	for i, share := range shares {
		if i >= 3 {
			break
		}
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s %s", share.Label, FormatPct(share.SharePct))
	}
	return s + ")"
}

func coverageAlerts(c Coverage, th Thresholds) []AlertItem {
	type field struct {
		key   string
		title string
		what  string
		ratio float64
	}
	fields := []field{
		{"coverage-weight", "Weight data incomplete", "a total weight", c.Weight},
		{"coverage-labor", "Labor hours incomplete", "labor hours", c.Labor},
		{"coverage-rate", "Labor rates incomplete", "a labor rate", c.Rate},
		{"coverage-coating", "Coating pricing incomplete", "coating pricing", c.Coating},
	}

	var alerts []AlertItem
	for _, f := range fields {
		if f.ratio >= th.CoverageInfo {
			continue
		}
		severity := SeverityInfo
		if f.ratio < th.CoverageWarn {
			severity = SeverityWarning
		}
		alerts = append(alerts, AlertItem{
			Key:      f.key,
			Severity: severity,
			Title:    f.title,
			Detail: fmt.Sprintf("Only %s of active lines carry %s (target %s).",
				FormatPct(f.ratio*100), f.what, FormatPct(th.CoverageInfo*100)),
			Value: FormatPct(f.ratio * 100),
		})
	}

	if len(alerts) == 0 {
		alerts = append(alerts, AlertItem{
			Key:      "coverage",
			Severity: SeverityOK,
			Title:    "Line data coverage healthy",
			Detail: fmt.Sprintf("All pricing inputs are present on at least %s of active lines.",
				FormatPct(th.CoverageInfo*100)),
			Value: FormatPct(c.Mean() * 100),
		})
	}
	return alerts
}

func scheduleAlert(due *time.Time, now time.Time, th Thresholds) AlertItem {
	if due == nil {
		return AlertItem{
			Key:      "schedule",
			Severity: SeverityWarning,
			Title:    "No bid due date",
			Detail:   "Set a bid due date to track schedule pressure.",
			Value:    Dash,
		}
	}

	days := int(math.Floor(due.Sub(now).Hours() / 24))
	item := AlertItem{
		Key:   "schedule",
		Title: "Schedule pressure",
	}

	switch {
	case days < 0:
		item.Severity = SeverityCritical
		item.Detail = fmt.Sprintf("The bid date passed on %s.", due.Format("Jan 2, 2006"))
		if days == -1 {
			item.Value = "1 day overdue"
		} else {
			item.Value = fmt.Sprintf("%d days overdue", -days)
		}
	case days <= th.DueWarnDays:
		item.Severity = SeverityWarning
		item.Detail = fmt.Sprintf("Bid due %s.", due.Format("Jan 2, 2006"))
		item.Value = daysLeft(days)
	case days <= th.DueInfoDays:
		item.Severity = SeverityInfo
		item.Detail = fmt.Sprintf("Bid due %s.", due.Format("Jan 2, 2006"))
		item.Value = daysLeft(days)
	default:
		item.Severity = SeverityOK
		item.Detail = fmt.Sprintf("Bid due %s.", due.Format("Jan 2, 2006"))
		item.Value = daysLeft(days)
	}
	return item
}

func daysLeft(days int) string {
	switch days {
	case 0:
		return "due today"
	case 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

func documentsAlert(count int) AlertItem {
	if count == 0 {
		return AlertItem{
			Key:      "documents",
			Severity: SeverityInfo,
			Title:    "No bid documents on file",
			Detail:   "Attach drawings or specifications so the estimate can be checked against the contract set.",
			Value:    "0 documents",
		}
	}
	value := fmt.Sprintf("%d documents", count)
	if count == 1 {
		value = "1 document"
	}
	return AlertItem{
		Key:      "documents",
		Severity: SeverityOK,
		Title:    "Documents on file",
		Detail:   "The bid has reference documents attached.",
		Value:    value,
	}
}
