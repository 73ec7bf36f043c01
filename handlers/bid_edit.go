package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"steelbid/services"
)

// HandleBidUpdate applies a partial update to a bid. Only keys present in
// the JSON body are touched.
func HandleBidUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}

		record, err := app.FindRecordById("bids", bidID)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		var payload map[string]any
		if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid JSON body")
		}

		errors := make(map[string]string)
		updated := false
		for key, raw := range payload {
			switch key {
			case "name":
				if s, ok := raw.(string); ok {
					name := strings.TrimSpace(s)
					if name == "" {
						errors["name"] = "Bid name is required"
						continue
					}
					record.Set("name", name)
					updated = true
				}
			case "client_name":
				if s, ok := raw.(string); ok {
					record.Set("client_name", strings.TrimSpace(s))
					updated = true
				}
			case "reference_number":
				if s, ok := raw.(string); ok {
					record.Set("reference_number", strings.TrimSpace(s))
					updated = true
				}
			case "project_type":
				if s, ok := raw.(string); ok {
					if !isOption(s, services.ProjectTypeOptions) {
						errors["project_type"] = "Unknown project type"
						continue
					}
					record.Set("project_type", s)
					updated = true
				}
			case "status":
				if s, ok := raw.(string); ok {
					if !isOption(s, services.BidStatusOptions) {
						errors["status"] = "Unknown bid status"
						continue
					}
					record.Set("status", s)
					updated = true
				}
			case "bid_due_date":
				if s, ok := raw.(string); ok {
					s = strings.TrimSpace(s)
					if s != "" {
						if dt, err := types.ParseDateTime(s); err != nil || dt.IsZero() {
							errors["bid_due_date"] = "Invalid due date"
							continue
						}
					}
					record.Set("bid_due_date", s)
					updated = true
				}
			case "notes":
				if s, ok := raw.(string); ok {
					record.Set("notes", s)
					updated = true
				}
			}
		}

		if len(errors) > 0 {
			return apiFieldErrors(e, errors)
		}

		if updated {
			if err := app.Save(record); err != nil {
				log.Printf("bid_edit: error saving %s: %v", bidID, err)
				return apiError(e, http.StatusInternalServerError, genericErrorMsg)
			}
		}

		return e.JSON(http.StatusOK, record)
	}
}
