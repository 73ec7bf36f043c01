package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"steelbid/services"
)

// bidPayload is the JSON body accepted by bid create and update.
type bidPayload struct {
	Name            string `json:"name"`
	ClientName      string `json:"client_name"`
	ReferenceNumber string `json:"reference_number"`
	ProjectType     string `json:"project_type"`
	Status          string `json:"status"`
	BidDueDate      string `json:"bid_due_date"`
	Notes           string `json:"notes"`
}

// HandleBidCreate creates a bid. A blank reference number gets the next
// auto-assigned BID-{year}-{seq} reference.
func HandleBidCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload bidPayload
		if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid JSON body")
		}

		name := strings.TrimSpace(payload.Name)
		clientName := strings.TrimSpace(payload.ClientName)
		refNumber := strings.TrimSpace(payload.ReferenceNumber)
		projectType := strings.TrimSpace(payload.ProjectType)
		status := strings.TrimSpace(payload.Status)
		dueDate := strings.TrimSpace(payload.BidDueDate)

		errors := make(map[string]string)
		if name == "" {
			errors["name"] = "Bid name is required"
		}
		if !isOption(projectType, services.ProjectTypeOptions) {
			errors["project_type"] = "Project type must be one of: " + strings.Join(services.ProjectTypeOptions, ", ")
		}
		if status == "" {
			status = "draft"
		}
		if !isOption(status, services.BidStatusOptions) {
			errors["status"] = "Unknown bid status"
		}
		if dueDate != "" {
			// ParseDateTime falls back to a zero time on unparseable input.
			if dt, err := types.ParseDateTime(dueDate); err != nil || dt.IsZero() {
				errors["bid_due_date"] = "Invalid due date"
			}
		}

		if name != "" {
			existing, _ := app.FindRecordsByFilter(
				"bids",
				"name = {:name}",
				"", 1, 0,
				map[string]any{"name": name},
			)
			if len(existing) > 0 {
				errors["name"] = "A bid with this name already exists"
			}
		}

		if len(errors) > 0 {
			return apiFieldErrors(e, errors)
		}

		if refNumber == "" {
			refNumber = services.NextBidReference(app, time.Now())
		}

		bidsCol, err := app.FindCollectionByNameOrId("bids")
		if err != nil {
			log.Printf("bid_create: could not find bids collection: %v", err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		record := core.NewRecord(bidsCol)
		record.Set("name", name)
		record.Set("client_name", clientName)
		record.Set("reference_number", refNumber)
		record.Set("project_type", projectType)
		record.Set("status", status)
		record.Set("bid_due_date", dueDate)
		record.Set("notes", strings.TrimSpace(payload.Notes))

		if err := app.Save(record); err != nil {
			log.Printf("bid_create: could not save bid: %v", err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		return e.JSON(http.StatusOK, record)
	}
}

func isOption(v string, options []string) bool {
	for _, opt := range options {
		if v == opt {
			return true
		}
	}
	return false
}
