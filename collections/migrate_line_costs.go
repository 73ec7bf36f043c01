package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateBackfillLaborCosts finds estimate lines that carry labor hours and a
// labor rate but no extended labor cost (data entered before the derived-cost
// rules, or imported with the column blank) and fills in hours times rate.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateBackfillLaborCosts(app *pocketbase.PocketBase) error {
	linesCol, err := app.FindCollectionByNameOrId("estimate_lines")
	if err != nil {
		return fmt.Errorf("migrate: could not find estimate_lines collection: %w", err)
	}

	stale, err := app.FindRecordsByFilter(
		linesCol,
		"labor_cost = 0 && labor_hours > 0 && labor_rate > 0",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query lines missing labor cost: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	log.Printf("migrate: found %d line(s) with hours and rate but no labor cost -- backfilling...\n", len(stale))

	for _, line := range stale {
		hours := line.GetFloat("labor_hours")
		rate := line.GetFloat("labor_rate")

		line.Set("labor_cost", hours*rate)
		if err := app.Save(line); err != nil {
			log.Printf("migrate: failed to backfill labor cost for line %s (%q): %v\n", line.Id, line.GetString("description"), err)
			continue
		}

		log.Printf("migrate: line %q -> labor cost %.2f\n", line.GetString("description"), hours*rate)
	}

	log.Println("migrate: labor cost backfill complete.")
	return nil
}
