package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleBidDelete hard-deletes a bid. Cascade delete removes its lines and
// documents.
func HandleBidDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}

		record, err := app.FindRecordById("bids", bidID)
		if err != nil {
			log.Printf("bid_delete: could not find bid %s: %v", bidID, err)
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("bid_delete: failed to delete bid %s: %v", bidID, err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		return e.NoContent(http.StatusNoContent)
	}
}
