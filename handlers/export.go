package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"steelbid/services"
)

// buildBidExportData loads everything the export generators need: the bid,
// its lines (voided ones included so they can be shown struck through), and
// a freshly computed health report. A report failure is logged and the
// export proceeds without the health section.
func buildBidExportData(app *pocketbase.PocketBase, bidID string, cfg services.ScoringConfig) (services.BidExportData, error) {
	bid, err := app.FindRecordById("bids", bidID)
	if err != nil {
		return services.BidExportData{}, fmt.Errorf("bid not found: %w", err)
	}

	lineRecords, err := app.FindRecordsByFilter("estimate_lines",
		"bid = {:bid}", "sort_order", 0, 0, map[string]any{"bid": bidID})
	if err != nil {
		lineRecords = nil
	}

	report, err := services.BuildHealthReport(app, bid, cfg)
	if err != nil {
		log.Printf("export: health report unavailable for bid %s: %v", bidID, err)
		report = nil
	}

	dueDate := services.Dash
	if dt := bid.GetDateTime("bid_due_date"); !dt.IsZero() {
		dueDate = dt.Time().Format("Jan 2, 2006")
	}

	return services.BidExportData{
		BidName:         bid.GetString("name"),
		ClientName:      bid.GetString("client_name"),
		ReferenceNumber: bid.GetString("reference_number"),
		ProjectType:     bid.GetString("project_type"),
		BidStatus:       bid.GetString("status"),
		DueDate:         dueDate,
		GeneratedDate:   time.Now().Format("Jan 2, 2006"),
		Lines:           services.LinesFromRecords(lineRecords),
		Report:          report,
	}, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleBidExportExcel generates and downloads the full estimate workbook
// for a bid: every line plus the health summary sheet.
func HandleBidExportExcel(app *pocketbase.PocketBase, cfg services.ScoringConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}

		data, err := buildBidExportData(app, bidID, cfg)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		xlsxBytes, err := services.GenerateBidExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Bid_%s_%d.xlsx", sanitizeFilename(data.BidName), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleBidExportPDF generates and downloads the health report as a PDF.
func HandleBidExportPDF(app *pocketbase.PocketBase, cfg services.ScoringConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}

		data, err := buildBidExportData(app, bidID, cfg)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		pdfBytes, err := services.GenerateHealthPDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Bid_%s_Health_%d.pdf", sanitizeFilename(data.BidName), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleBidExportLines generates and downloads the bid's active lines in
// the import template layout, so an exported file can be re-imported into
// another bid without edits.
func HandleBidExportLines(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bidID := e.Request.PathValue("bidId")
		if bidID == "" {
			return apiError(e, http.StatusBadRequest, "Missing bid ID")
		}

		bid, err := app.FindRecordById("bids", bidID)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Bid not found")
		}

		lineRecords, err := app.FindRecordsByFilter("estimate_lines",
			"bid = {:bid}", "sort_order", 0, 0, map[string]any{"bid": bidID})
		if err != nil {
			lineRecords = nil
		}

		xlsxBytes, err := services.GenerateLineReimportExcel(bid.GetString("name"), services.LinesFromRecords(lineRecords))
		if err != nil {
			log.Printf("export_lines: failed to generate: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Bid_%s_Lines.xlsx", sanitizeFilename(bid.GetString("name")))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
