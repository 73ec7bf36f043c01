package services

// BidExportData holds all data needed for a bid workbook or health report
// PDF export. Lines include voided entries; renderers mark them instead of
// hiding them.
type BidExportData struct {
	BidName         string
	ClientName      string
	ReferenceNumber string
	ProjectType     string
	BidStatus       string
	DueDate         string // formatted, Dash when unset
	GeneratedDate   string
	Lines           []EstimateLine
	Report          *HealthReport
}
