package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"steelbid/services"
)

// HandleBidHealth computes the bid's health report on demand: aggregated
// totals, baseline positions, findings, and the 0-100 score.
func HandleBidHealth(app *pocketbase.PocketBase, cfg services.ScoringConfig) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}

		bid, err := app.FindRecordById("bids", bidID)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		report, err := services.BuildHealthReport(app, bid, cfg)
		if err != nil {
			log.Printf("bid_health: error building report for %s: %v", bidID, err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		return e.JSON(http.StatusOK, report)
	}
}
