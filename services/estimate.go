// Package services implements the estimate aggregation and health-scoring
// engine along with the import, export and formatting helpers built on it.
package services

import (
	"sort"

	"github.com/pocketbase/pocketbase/core"
)

// PoundsPerTon converts total weight in pounds to short tons.
const PoundsPerTon = 2000.0

// LineKind discriminates how a line is priced: rolled material carries a
// unit weight, plate work is priced off its total weight.
type LineKind string

const (
	KindMaterial LineKind = "material"
	KindPlate    LineKind = "plate"
)

// LineStatus marks a line as live or logically deleted. Voided lines stay
// in the database but are excluded from every computation.
type LineStatus string

const (
	LineActive LineStatus = "active"
	LineVoid   LineStatus = "void"
)

// EstimateLine is one priced item in a bid.
type EstimateLine struct {
	ID             string
	SortOrder      float64
	Category       string
	Subcategory    string
	Description    string
	Kind           LineKind
	Qty            float64
	UOM            string
	UnitWeightLbs  float64
	TotalWeightLbs float64
	MaterialCost   float64
	LaborHours     float64
	LaborRate      float64
	LaborCost      float64
	CoatingPrice   float64
	CoatingCost    float64
	HardwareCost   float64
	Status         LineStatus
}

// IsVoid reports whether the line has been logically deleted.
func (l EstimateLine) IsVoid() bool {
	return l.Status == LineVoid
}

// DirectCost returns the line's total of the four cost buckets.
func (l EstimateLine) DirectCost() float64 {
	return l.MaterialCost + l.LaborCost + l.CoatingCost + l.HardwareCost
}

// LineFromRecord maps an estimate_lines record into an EstimateLine.
func LineFromRecord(r *core.Record) EstimateLine {
	return EstimateLine{
		ID:             r.Id,
		SortOrder:      r.GetFloat("sort_order"),
		Category:       r.GetString("category"),
		Subcategory:    r.GetString("subcategory"),
		Description:    r.GetString("description"),
		Kind:           LineKind(r.GetString("kind")),
		Qty:            r.GetFloat("qty"),
		UOM:            r.GetString("uom"),
		UnitWeightLbs:  r.GetFloat("unit_weight_lbs"),
		TotalWeightLbs: r.GetFloat("total_weight_lbs"),
		MaterialCost:   r.GetFloat("material_cost"),
		LaborHours:     r.GetFloat("labor_hours"),
		LaborRate:      r.GetFloat("labor_rate"),
		LaborCost:      r.GetFloat("labor_cost"),
		CoatingPrice:   r.GetFloat("coating_price"),
		CoatingCost:    r.GetFloat("coating_cost"),
		HardwareCost:   r.GetFloat("hardware_cost"),
		Status:         LineStatus(r.GetString("status")),
	}
}

// LinesFromRecords maps a slice of estimate_lines records.
func LinesFromRecords(records []*core.Record) []EstimateLine {
	lines := make([]EstimateLine, 0, len(records))
	for _, r := range records {
		lines = append(lines, LineFromRecord(r))
	}
	return lines
}

// AggregatedMetrics holds the totals derived from a bid's active lines.
// It is recomputed from the live line set on every request and never
// persisted.
type AggregatedMetrics struct {
	MaterialCost   float64 `json:"material_cost"`
	LaborCost      float64 `json:"labor_cost"`
	CoatingCost    float64 `json:"coating_cost"`
	HardwareCost   float64 `json:"hardware_cost"`
	DirectCost     float64 `json:"direct_cost"`
	TotalWeightLbs float64 `json:"total_weight_lbs"`
	Tons           float64 `json:"tons"`
	LaborHours     float64 `json:"labor_hours"`
	ActiveLines    int     `json:"active_lines"`

	// CostPerTon and HoursPerTon are meaningful only when HasTonnage is
	// true. With zero weight they stay 0 and render as "no data".
	CostPerTon  float64 `json:"cost_per_ton"`
	HoursPerTon float64 `json:"hours_per_ton"`
	HasTonnage  bool    `json:"has_tonnage"`
}

// Aggregate reduces a line collection into totals. Voided lines are skipped.
// An empty collection yields all-zero totals.
func Aggregate(lines []EstimateLine) AggregatedMetrics {
	var m AggregatedMetrics
	for _, l := range lines {
		if l.IsVoid() {
			continue
		}
		m.ActiveLines++
		m.MaterialCost += l.MaterialCost
		m.LaborCost += l.LaborCost
		m.CoatingCost += l.CoatingCost
		m.HardwareCost += l.HardwareCost
		m.TotalWeightLbs += l.TotalWeightLbs
		m.LaborHours += l.LaborHours
	}

	m.DirectCost = m.MaterialCost + m.LaborCost + m.CoatingCost + m.HardwareCost
	m.Tons = m.TotalWeightLbs / PoundsPerTon
	if m.Tons > 0 {
		m.HasTonnage = true
		m.CostPerTon = m.DirectCost / m.Tons
		m.HoursPerTon = m.LaborHours / m.Tons
	}
	return m
}

// Coverage holds the fraction of active lines carrying each of the four
// pricing inputs. Each ratio is in [0, 1]; all ratios are 0 when there are
// no active lines.
type Coverage struct {
	Weight  float64 `json:"weight"`
	Labor   float64 `json:"labor"`
	Rate    float64 `json:"rate"`
	Coating float64 `json:"coating"`
}

// Mean returns the average of the four coverage ratios.
func (c Coverage) Mean() float64 {
	return (c.Weight + c.Labor + c.Rate + c.Coating) / 4
}

// ComputeCoverage measures how complete the pricing data is across the
// active lines. A coating entry counts as covered when either a coating
// price or a computed coating cost is present.
func ComputeCoverage(lines []EstimateLine) Coverage {
	var active, weight, labor, rate, coating int
	for _, l := range lines {
		if l.IsVoid() {
			continue
		}
		active++
		if l.TotalWeightLbs > 0 {
			weight++
		}
		if l.LaborHours > 0 {
			labor++
		}
		if l.LaborRate > 0 {
			rate++
		}
		if l.CoatingPrice > 0 || l.CoatingCost > 0 {
			coating++
		}
	}

	if active == 0 {
		return Coverage{}
	}
	n := float64(active)
	return Coverage{
		Weight:  float64(weight) / n,
		Labor:   float64(labor) / n,
		Rate:    float64(rate) / n,
		Coating: float64(coating) / n,
	}
}

// CategoryShare is one category's slice of the bid's direct cost.
type CategoryShare struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Cost     float64 `json:"cost"`
	SharePct float64 `json:"share_pct"`
}

// CategoryConcentration returns the share of direct cost held by the top 3
// categories (as a percentage) along with the full per-category breakdown,
// highest cost first. Zero total cost yields zero concentration.
func CategoryConcentration(lines []EstimateLine) (float64, []CategoryShare) {
	costs := make(map[string]float64)
	var total float64
	for _, l := range lines {
		if l.IsVoid() {
			continue
		}
		costs[l.Category] += l.DirectCost()
		total += l.DirectCost()
	}

	shares := make([]CategoryShare, 0, len(costs))
	for cat, cost := range costs {
		s := CategoryShare{Category: cat, Label: CategoryLabel(cat), Cost: cost}
		if total > 0 {
			s.SharePct = cost / total * 100
		}
		shares = append(shares, s)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Cost != shares[j].Cost {
			return shares[i].Cost > shares[j].Cost
		}
		return shares[i].Category < shares[j].Category
	})

	var concentration float64
	for i, s := range shares {
		if i >= 3 {
			break
		}
		concentration += s.SharePct
	}
	return concentration, shares
}
