package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
)

// BidRollup carries the per-bid totals the bid list needs, computed in one
// grouped query instead of loading every line set.
type BidRollup struct {
	BidID          string  `db:"bid" json:"bid_id"`
	ActiveLines    int     `db:"active_lines" json:"active_lines"`
	TotalWeightLbs float64 `db:"total_weight_lbs" json:"total_weight_lbs"`
	LaborHours     float64 `db:"labor_hours" json:"labor_hours"`
	DirectCost     float64 `db:"direct_cost" json:"direct_cost"`
}

// Tons returns the rollup weight in short tons.
func (r BidRollup) Tons() float64 {
	return r.TotalWeightLbs / PoundsPerTon
}

// BidRollups sums the active lines of every bid, keyed by bid id. Bids with
// no active lines are absent from the map.
func BidRollups(app *pocketbase.PocketBase) (map[string]BidRollup, error) {
	var rows []BidRollup
	err := app.DB().NewQuery(`
		SELECT bid,
		       COUNT(*) AS active_lines,
		       COALESCE(SUM(total_weight_lbs), 0) AS total_weight_lbs,
		       COALESCE(SUM(labor_hours), 0) AS labor_hours,
		       COALESCE(SUM(material_cost + labor_cost + coating_cost + hardware_cost), 0) AS direct_cost
		FROM estimate_lines
		WHERE status = 'active'
		GROUP BY bid
	`).All(&rows)
	if err != nil {
		return nil, fmt.Errorf("bid rollup query: %w", err)
	}

	rollups := make(map[string]BidRollup, len(rows))
	for _, r := range rows {
		rollups[r.BidID] = r
	}
	return rollups, nil
}
