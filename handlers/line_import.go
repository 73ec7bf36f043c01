package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"steelbid/services"
)

// HandleLineImportTemplate serves a blank spreadsheet in the layout the
// import validator expects.
func HandleLineImportTemplate() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		fileBytes, err := services.GenerateLineImportTemplate()
		if err != nil {
			log.Printf("line_import_template: error generating template: %v", err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Estimate_Lines_Template.xlsx"`)
		e.Response.Write(fileBytes)
		return nil
	}
}

// HandleLineImportValidate parses an uploaded CSV or Excel file and returns
// row-level validation results without touching the database.
func HandleLineImportValidate(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}
		if _, err := app.FindRecordById("bids", bidID); err != nil {
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return apiError(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return apiError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ValidateLineImport(file, header.Filename)
		if err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		return e.JSON(http.StatusOK, result)
	}
}

// HandleLineImportErrors converts a validation error list back into a
// downloadable spreadsheet so estimators can fix rows offline.
func HandleLineImportErrors() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var validationErrors []services.ValidationError
		if err := json.NewDecoder(e.Request.Body).Decode(&validationErrors); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid error data")
		}

		fileBytes, err := services.GenerateErrorReport(validationErrors)
		if err != nil {
			log.Printf("line_import_errors: error generating report: %v", err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		fileName := fmt.Sprintf("Line_Import_Errors_%s.xlsx", time.Now().Format("2006-01-02"))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
		e.Response.Write(fileBytes)
		return nil
	}
}

// lineImportCommitPayload is the body for the commit endpoint: the parsed
// rows the client got back from validation, possibly edited.
type lineImportCommitPayload struct {
	Rows []map[string]string `json:"rows"`
}

// HandleLineImportCommit re-validates and batch-inserts the submitted rows.
// A failed chunk rolls back and reports per-row errors.
func HandleLineImportCommit(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}
		if _, err := app.FindRecordById("bids", bidID); err != nil {
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		var payload lineImportCommitPayload
		if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid JSON body")
		}
		if len(payload.Rows) == 0 {
			return apiError(e, http.StatusBadRequest, "No rows to import")
		}

		result, err := services.CommitLineImport(app, bidID, payload.Rows)
		if err != nil {
			log.Printf("line_import_commit: error committing rows for bid %s: %v", bidID, err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		if result.RolledBack {
			return e.JSON(http.StatusBadRequest, result)
		}
		return e.JSON(http.StatusOK, result)
	}
}
