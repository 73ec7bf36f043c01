package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"steelbid/services"
)

// HandleBidView returns a bid with its active lines and the totals derived
// from them.
func HandleBidView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}

		bid, err := app.FindRecordById("bids", bidID)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		lineRecords, err := app.FindRecordsByFilter(
			"estimate_lines",
			"bid = {:bid} && status = 'active'",
			"sort_order", 0, 0,
			map[string]any{"bid": bidID},
		)
		if err != nil {
			log.Printf("bid_view: could not load lines for %s: %v", bidID, err)
			lineRecords = nil
		}

		metrics := services.Aggregate(services.LinesFromRecords(lineRecords))

		return e.JSON(http.StatusOK, map[string]any{
			"bid":     bid,
			"lines":   lineRecords,
			"metrics": metrics,
			"display": services.DisplayMetrics(metrics),
		})
	}
}
