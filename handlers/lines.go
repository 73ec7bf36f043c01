package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"steelbid/services"
)

// linePayload carries the client-supplied fields for creating an estimate line.
type linePayload struct {
	SortOrder      float64 `json:"sort_order"`
	Category       string  `json:"category"`
	Subcategory    string  `json:"subcategory"`
	Description    string  `json:"description"`
	Kind           string  `json:"kind"`
	Qty            float64 `json:"qty"`
	UOM            string  `json:"uom"`
	UnitWeightLbs  float64 `json:"unit_weight_lbs"`
	TotalWeightLbs float64 `json:"total_weight_lbs"`
	MaterialCost   float64 `json:"material_cost"`
	LaborHours     float64 `json:"labor_hours"`
	LaborRate      float64 `json:"labor_rate"`
	LaborCost      float64 `json:"labor_cost"`
	CoatingPrice   float64 `json:"coating_price"`
	CoatingCost    float64 `json:"coating_cost"`
	HardwareCost   float64 `json:"hardware_cost"`
}

// loadBidLine fetches a line and verifies it belongs to the bid in the
// request path. On failure the error response is already written and
// ok is false.
func loadBidLine(app *pocketbase.PocketBase, e *core.RequestEvent) (record *core.Record, ok bool, resp error) {
	bidID := e.Request.PathValue("bidId")
	lineID := e.Request.PathValue("lineId")
	if bidID == "" || lineID == "" {
		return nil, false, apiError(e, http.StatusBadRequest, "Missing bid or line ID")
	}

	record, err := app.FindRecordById("estimate_lines", lineID)
	if err != nil {
		return nil, false, apiError(e, http.StatusNotFound, "Line not found")
	}
	if record.GetString("bid") != bidID {
		return nil, false, apiError(e, http.StatusForbidden, "Line does not belong to this bid")
	}
	return record, true, nil
}

// HandleLineList returns a bid's estimate lines ordered by sort_order.
// Voided lines are excluded unless include_void=true is passed.
func HandleLineList(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}
		if _, err := app.FindRecordById("bids", bidID); err != nil {
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		filter := "bid = {:bid} && status = 'active'"
		if e.Request.URL.Query().Get("include_void") == "true" {
			filter = "bid = {:bid}"
		}

		records, err := app.FindRecordsByFilter("estimate_lines", filter,
			"sort_order", 0, 0, map[string]any{"bid": bidID})
		if err != nil {
			log.Printf("line_list: error loading lines for bid %s: %v", bidID, err)
			records = nil
		}

		return e.JSON(http.StatusOK, map[string]any{"lines": records})
	}
}

// HandleLineCreate adds a manual estimate line to a bid. Derived costs are
// recomputed before saving, so a line posted with hours and a rate comes
// back with its labor cost filled in.
func HandleLineCreate(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}
		if _, err := app.FindRecordById("bids", bidID); err != nil {
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		var payload linePayload
		if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid JSON body")
		}

		payload.Description = strings.TrimSpace(payload.Description)
		payload.Subcategory = strings.TrimSpace(payload.Subcategory)

		errs := make(map[string]string)
		if payload.Description == "" {
			errs["description"] = "Description is required"
		}
		if payload.Category == "" {
			errs["category"] = "Category is required"
		} else if !isOption(payload.Category, services.LineCategoryOptions) {
			errs["category"] = "Unknown category. Must be one of: " + strings.Join(services.LineCategoryOptions, ", ")
		}
		if payload.Kind == "" {
			errs["kind"] = "Kind is required"
		} else if !isOption(payload.Kind, services.LineKindOptions) {
			errs["kind"] = "Unknown kind. Must be one of: " + strings.Join(services.LineKindOptions, ", ")
		}
		if payload.UOM != "" && !isOption(payload.UOM, services.UOMOptions) {
			errs["uom"] = "Unknown unit of measure"
		}
		for key, value := range map[string]float64{
			"sort_order":       payload.SortOrder,
			"qty":              payload.Qty,
			"unit_weight_lbs":  payload.UnitWeightLbs,
			"total_weight_lbs": payload.TotalWeightLbs,
			"material_cost":    payload.MaterialCost,
			"labor_hours":      payload.LaborHours,
			"labor_rate":       payload.LaborRate,
			"labor_cost":       payload.LaborCost,
			"coating_price":    payload.CoatingPrice,
			"coating_cost":     payload.CoatingCost,
			"hardware_cost":    payload.HardwareCost,
		} {
			if value < 0 {
				errs[key] = "Must be a non-negative number"
			}
		}
		if len(errs) > 0 {
			return apiFieldErrors(e, errs)
		}

		col, err := app.FindCollectionByNameOrId("estimate_lines")
		if err != nil {
			log.Printf("line_create: estimate_lines collection not found: %v", err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		if payload.SortOrder == 0 {
			payload.SortOrder = services.NextLineSortOrder(app, bidID)
		}

		record := core.NewRecord(col)
		record.Set("bid", bidID)
		record.Set("sort_order", payload.SortOrder)
		record.Set("category", payload.Category)
		record.Set("subcategory", payload.Subcategory)
		record.Set("description", payload.Description)
		record.Set("kind", payload.Kind)
		record.Set("qty", payload.Qty)
		record.Set("uom", payload.UOM)
		record.Set("unit_weight_lbs", payload.UnitWeightLbs)
		record.Set("total_weight_lbs", payload.TotalWeightLbs)
		record.Set("material_cost", payload.MaterialCost)
		record.Set("labor_hours", payload.LaborHours)
		record.Set("labor_rate", payload.LaborRate)
		record.Set("labor_cost", payload.LaborCost)
		record.Set("coating_price", payload.CoatingPrice)
		record.Set("coating_cost", payload.CoatingCost)
		record.Set("hardware_cost", payload.HardwareCost)
		record.Set("status", "active")
		record.Set("source", "manual")

		services.ApplyLineDerivations(record)

		if err := app.Save(record); err != nil {
			log.Printf("line_create: error saving line for bid %s: %v", bidID, err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		return e.JSON(http.StatusOK, record)
	}
}

// HandleLineUpdate applies a partial update to an estimate line. Status is
// managed by the void/restore endpoints and cannot be set here. Unknown
// fields are ignored.
func HandleLineUpdate(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, ok, resp := loadBidLine(app, e)
		if !ok {
			return resp
		}

		var payload map[string]any
		if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid JSON body")
		}

		errs := make(map[string]string)
		updated := false

		for key, raw := range payload {
			switch key {
			case "description":
				value, ok := raw.(string)
				if !ok || strings.TrimSpace(value) == "" {
					errs[key] = "Description is required"
					continue
				}
				record.Set(key, strings.TrimSpace(value))
				updated = true
			case "subcategory":
				value, ok := raw.(string)
				if !ok {
					errs[key] = "Must be text"
					continue
				}
				record.Set(key, strings.TrimSpace(value))
				updated = true
			case "category":
				value, ok := raw.(string)
				if !ok || !isOption(value, services.LineCategoryOptions) {
					errs[key] = "Unknown category"
					continue
				}
				record.Set(key, value)
				updated = true
			case "kind":
				value, ok := raw.(string)
				if !ok || !isOption(value, services.LineKindOptions) {
					errs[key] = "Unknown kind"
					continue
				}
				record.Set(key, value)
				updated = true
			case "uom":
				value, ok := raw.(string)
				if !ok || (value != "" && !isOption(value, services.UOMOptions)) {
					errs[key] = "Unknown unit of measure"
					continue
				}
				record.Set(key, value)
				updated = true
			case "sort_order", "qty", "unit_weight_lbs", "total_weight_lbs",
				"material_cost", "labor_hours", "labor_rate", "labor_cost",
				"coating_price", "coating_cost", "hardware_cost":
				value, ok := raw.(float64)
				if !ok || value < 0 {
					errs[key] = "Must be a non-negative number"
					continue
				}
				record.Set(key, value)
				updated = true
			}
		}

		if len(errs) > 0 {
			return apiFieldErrors(e, errs)
		}

		if updated {
			services.ApplyLineDerivations(record)
			if err := app.Save(record); err != nil {
				log.Printf("line_update: error saving line %s: %v", record.Id, err)
				return apiError(e, http.StatusInternalServerError, genericErrorMsg)
			}
		}

		return e.JSON(http.StatusOK, record)
	}
}

// HandleLineVoid marks a line as void. Voided lines drop out of every
// aggregate but stay on the bid for audit.
func HandleLineVoid(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, ok, resp := loadBidLine(app, e)
		if !ok {
			return resp
		}

		record.Set("status", "void")
		if err := app.Save(record); err != nil {
			log.Printf("line_void: error saving line %s: %v", record.Id, err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		return e.JSON(http.StatusOK, record)
	}
}

// HandleLineRestore returns a voided line to active.
func HandleLineRestore(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, ok, resp := loadBidLine(app, e)
		if !ok {
			return resp
		}

		record.Set("status", "active")
		if err := app.Save(record); err != nil {
			log.Printf("line_restore: error saving line %s: %v", record.Id, err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		return e.JSON(http.StatusOK, record)
	}
}
