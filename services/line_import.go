package services

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

const lineImportBatchSize = 100

// ImportResult holds the outcome of a batch import operation.
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Imported   int              `json:"imported"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
	RolledBack bool             `json:"rolled_back"`
	BatchID    string           `json:"batch_id,omitempty"`
}

// ImportRowError represents a failure to insert a specific row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CommitLineImport re-validates and batch-inserts parsed estimate line rows
// for a bid. All inserted rows share a generated import batch id and are
// appended after the bid's existing sort order.
//
// Strategy: Process in chunks. Within each chunk, if any insert fails,
// roll back the entire chunk and record errors. Continue with next chunk.
func CommitLineImport(
	app *pocketbase.PocketBase,
	bidID string,
	parsedRows []map[string]string,
) (*ImportResult, error) {
	// 1. Re-validate all rows before committing
	revalidationErrors := revalidateLineRows(parsedRows)
	if len(revalidationErrors) > 0 {
		errorRowSet := make(map[int]bool)
		for _, e := range revalidationErrors {
			errorRowSet[e.Row] = true
		}
		return &ImportResult{
			TotalRows:  len(parsedRows),
			Imported:   0,
			Failed:     len(errorRowSet),
			Errors:     toImportRowErrors(revalidationErrors),
			RolledBack: true,
		}, nil
	}

	// 2. Get the estimate_lines collection
	col, err := app.FindCollectionByNameOrId("estimate_lines")
	if err != nil {
		return nil, fmt.Errorf("estimate_lines collection not found: %w", err)
	}

	// 3. Imported rows get appended after the bid's current lines and share
	// one batch id so a bad import can be traced or cleaned up later.
	batchID := uuid.NewString()
	sortStart := NextLineSortOrder(app, bidID)

	// 4. Process in chunks
	result := &ImportResult{
		TotalRows: len(parsedRows),
		BatchID:   batchID,
	}

	for chunkStart := 0; chunkStart < len(parsedRows); chunkStart += lineImportBatchSize {
		chunkEnd := chunkStart + lineImportBatchSize
		if chunkEnd > len(parsedRows) {
			chunkEnd = len(parsedRows)
		}
		chunk := parsedRows[chunkStart:chunkEnd]

		chunkErrors := insertLineChunk(app, col, bidID, batchID, chunk, chunkStart, sortStart)
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += len(chunk) // entire chunk failed
			result.RolledBack = true
		} else {
			result.Imported += len(chunk)
		}
	}

	return result, nil
}

// insertLineChunk inserts a batch of rows within a RunInTransaction block.
// If any row fails, the entire chunk is rolled back and errors are returned.
func insertLineChunk(
	app *pocketbase.PocketBase,
	col *core.Collection,
	bidID string,
	batchID string,
	rows []map[string]string,
	startOffset int,
	sortStart float64,
) []ImportRowError {
	var chunkErrors []ImportRowError

	err := app.RunInTransaction(func(txApp core.App) error {
		for i, rowData := range rows {
			rowNum := startOffset + i + 2 // 1-indexed + header row

			record := core.NewRecord(col)
			record.Set("bid", bidID)
			record.Set("sort_order", sortStart+float64(startOffset+i))
			record.Set("status", "active")
			record.Set("source", "import")
			record.Set("import_batch", batchID)

			for _, f := range LineImportTemplateFields() {
				val, ok := rowData[f.Key]
				if !ok || val == "" {
					continue
				}
				if f.Numeric {
					n, err := parseImportNumber(val)
					if err != nil {
						chunkErrors = append(chunkErrors, ImportRowError{
							Row:     rowNum,
							Field:   f.Label,
							Message: fmt.Sprintf("%s must be a non-negative number", f.Label),
						})
						return fmt.Errorf("number parse failed at row %d", rowNum)
					}
					record.Set(f.Key, n)
				} else {
					record.Set(f.Key, val)
				}
			}

			ApplyLineDerivations(record)

			if err := txApp.Save(record); err != nil {
				chunkErrors = append(chunkErrors, ImportRowError{
					Row:     rowNum,
					Field:   "",
					Message: fmt.Sprintf("Failed to save: %s", err.Error()),
				})
				return fmt.Errorf("save failed at row %d: %w", rowNum, err)
			}
		}
		return nil
	})

	if err != nil {
		log.Printf("line_import: chunk insert rolled back: %v", err)
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, ImportRowError{
				Row:     startOffset + 2,
				Field:   "",
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
	}

	return chunkErrors
}

// revalidateLineRows re-runs row validation on already-parsed data. This
// catches rows that were edited client-side between validation and commit.
func revalidateLineRows(parsedRows []map[string]string) []ValidationError {
	var allErrors []ValidationError
	for rowIdx, rowData := range parsedRows {
		normalizeLineRow(rowData)
		allErrors = append(allErrors, validateLineRow(rowIdx+2, rowData)...)
	}
	return allErrors
}

// NextLineSortOrder returns one past the highest sort_order on the bid's
// lines, voided lines included. An empty bid starts at 1.
func NextLineSortOrder(app *pocketbase.PocketBase, bidID string) float64 {
	col, err := app.FindCollectionByNameOrId("estimate_lines")
	if err != nil {
		return 1
	}

	records, err := app.FindRecordsByFilter(col,
		"bid = {:bidId}", "-sort_order", 1, 0,
		map[string]any{"bidId": bidID},
	)
	if err != nil || len(records) == 0 {
		return 1
	}
	return records[0].GetFloat("sort_order") + 1
}

// toImportRowErrors converts ValidationErrors to ImportRowErrors.
func toImportRowErrors(ve []ValidationError) []ImportRowError {
	result := make([]ImportRowError, len(ve))
	for i, e := range ve {
		result[i] = ImportRowError{
			Row:     e.Row,
			Field:   e.Field,
			Message: e.Message,
		}
	}
	return result
}
