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

// documentPayload carries the client-supplied fields for attaching a
// document reference to a bid.
type documentPayload struct {
	Title     string `json:"title"`
	DocType   string `json:"doc_type"`
	SourceURL string `json:"source_url"`
	Notes     string `json:"notes"`
}

// HandleDocumentList returns a bid's document references, newest first.
func HandleDocumentList(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}
		if _, err := app.FindRecordById("bids", bidID); err != nil {
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		records, err := app.FindRecordsByFilter("documents",
			"bid = {:bid}", "-created", 0, 0, map[string]any{"bid": bidID})
		if err != nil {
			log.Printf("document_list: error loading documents for bid %s: %v", bidID, err)
			records = nil
		}

		return e.JSON(http.StatusOK, map[string]any{"documents": records})
	}
}

// HandleDocumentCreate attaches a document reference to a bid. Documents
// are tracked by title and type only; the files themselves live elsewhere.
func HandleDocumentCreate(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}
		if _, err := app.FindRecordById("bids", bidID); err != nil {
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		var payload documentPayload
		if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid JSON body")
		}

		payload.Title = strings.TrimSpace(payload.Title)

		errs := make(map[string]string)
		if payload.Title == "" {
			errs["title"] = "Title is required"
		}
		if payload.DocType == "" {
			errs["doc_type"] = "Document type is required"
		} else if !isOption(payload.DocType, services.DocTypeOptions) {
			errs["doc_type"] = "Unknown document type. Must be one of: " + strings.Join(services.DocTypeOptions, ", ")
		}
		if len(errs) > 0 {
			return apiFieldErrors(e, errs)
		}

		col, err := app.FindCollectionByNameOrId("documents")
		if err != nil {
			log.Printf("document_create: documents collection not found: %v", err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		record := core.NewRecord(col)
		record.Set("bid", bidID)
		record.Set("title", payload.Title)
		record.Set("doc_type", payload.DocType)
		record.Set("source_url", strings.TrimSpace(payload.SourceURL))
		record.Set("notes", payload.Notes)

		if err := app.Save(record); err != nil {
			log.Printf("document_create: error saving document for bid %s: %v", bidID, err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		return e.JSON(http.StatusOK, record)
	}
}

// HandleDocumentDelete removes a document reference from a bid.
func HandleDocumentDelete(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		docID := e.Request.PathValue("docId")
		if bidID == "" || docID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid or document ID")
		}

		record, err := app.FindRecordById("documents", docID)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Document not found")
		}
		if record.GetString("bid") != bidID {
			return apiError(e, http.StatusForbidden, "Document does not belong to this bid")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("document_delete: error deleting document %s: %v", docID, err)
			return apiError(e, http.StatusInternalServerError, genericErrorMsg)
		}

		return e.NoContent(http.StatusNoContent)
	}
}
