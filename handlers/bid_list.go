package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"steelbid/services"
)

// bidListItem is one row of the bid list: bid fields plus the rollup totals
// computed from its active lines.
type bidListItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	ClientName      string  `json:"client_name"`
	ReferenceNumber string  `json:"reference_number"`
	ProjectType     string  `json:"project_type"`
	Status          string  `json:"status"`
	BidDueDate      string  `json:"bid_due_date"`
	ActiveLines     int     `json:"active_lines"`
	Tons            float64 `json:"tons"`
	LaborHours      float64 `json:"labor_hours"`
	DirectCost      float64 `json:"direct_cost"`
	DirectCostUSD   string  `json:"direct_cost_display"`
}

// HandleBidList lists bids newest first, optionally filtered by status, with
// per-bid line rollups merged in.
func HandleBidList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		status := e.Request.URL.Query().Get("status")
		if status != "" && !isOption(status, services.BidStatusOptions) {
			return apiError(e, http.StatusBadRequest, "Unknown status filter")
		}

		filter := "id != ''"
		params := map[string]any{}
		if status != "" {
			filter = "status = {:status}"
			params["status"] = status
		}

		records, err := app.FindRecordsByFilter("bids", filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("bid_list: query failed: %v", err)
			records = nil
		}

		rollups, err := services.BidRollups(app)
		if err != nil {
			log.Printf("bid_list: rollup query failed: %v", err)
			rollups = map[string]services.BidRollup{}
		}

		items := make([]bidListItem, 0, len(records))
		for _, rec := range records {
			item := bidListItem{
				ID:              rec.Id,
				Name:            rec.GetString("name"),
				ClientName:      rec.GetString("client_name"),
				ReferenceNumber: rec.GetString("reference_number"),
				ProjectType:     rec.GetString("project_type"),
				Status:          rec.GetString("status"),
				BidDueDate:      rec.GetString("bid_due_date"),
			}
			if r, ok := rollups[rec.Id]; ok {
				item.ActiveLines = r.ActiveLines
				item.Tons = r.Tons()
				item.LaborHours = r.LaborHours
				item.DirectCost = r.DirectCost
			}
			item.DirectCostUSD = services.FormatUSD(item.DirectCost)
			items = append(items, item)
		}

		return e.JSON(http.StatusOK, map[string]any{"bids": items})
	}
}
