package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateBidExcel creates an Excel workbook from the given BidExportData:
// one sheet with the full line detail and one with the health summary. It
// returns the file contents as a byte slice.
func GenerateBidExcel(data BidExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Estimate Lines"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Column references (A through P).
	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O", "P"}
	lastCol := columns[len(columns)-1] // "P"

	widths := []float64{6, 14, 40, 9, 9, 7, 13, 13, 14, 10, 9, 14, 13, 13, 15, 8}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	lineStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create line style: %w", err)
	}

	// Voided lines stay visible but struck through.
	voidStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   10,
			Italic: true,
			Strike: true,
			Color:  "#9CA3AF",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create void style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-4) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.BidName))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if data.ClientName != "" {
		if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
			return nil, fmt.Errorf("merge client: %w", err)
		}
		f.SetCellValue(sheetName, "A2", "Client: "+sanitizeExcelCell(data.ClientName))
		f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)
	}

	if data.ReferenceNumber != "" {
		if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
			return nil, fmt.Errorf("merge ref: %w", err)
		}
		f.SetCellValue(sheetName, "A3", "Ref: "+sanitizeExcelCell(data.ReferenceNumber))
		f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)
	}

	if err := f.MergeCell(sheetName, "A4", lastCol+"4"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheetName, "A4", fmt.Sprintf("Exported: %s   Due: %s", data.GeneratedDate, data.DueDate))
	f.SetCellStyle(sheetName, "A4", lastCol+"4", subtitleStyle)

	// ── Row 6: Column Headers ───────────────────────────────────────────

	headers := []string{
		"#", "Category", "Description", "Kind", "Qty", "UOM",
		"Unit Wt (lbs)", "Total Wt (lbs)", "Material", "Hours", "Rate",
		"Labor", "Coating", "Hardware", "Line Total", "Status",
	}
	for i, h := range headers {
		cell := fmt.Sprintf("%s6", columns[i])
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A6", lastCol+"6", headerStyle)

	// ── Data Rows (starting row 7) ──────────────────────────────────────

	row := 7
	for _, l := range data.Lines {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, l.SortOrder)
		f.SetCellValue(sheetName, "B"+rowStr, CategoryLabel(l.Category))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(l.Description))
		f.SetCellValue(sheetName, "D"+rowStr, string(l.Kind))
		f.SetCellValue(sheetName, "E"+rowStr, l.Qty)
		f.SetCellValue(sheetName, "F"+rowStr, sanitizeExcelCell(l.UOM))
		f.SetCellValue(sheetName, "G"+rowStr, l.UnitWeightLbs)
		f.SetCellValue(sheetName, "H"+rowStr, l.TotalWeightLbs)
		f.SetCellValue(sheetName, "I"+rowStr, FormatUSD(l.MaterialCost))
		f.SetCellValue(sheetName, "J"+rowStr, l.LaborHours)
		f.SetCellValue(sheetName, "K"+rowStr, l.LaborRate)
		f.SetCellValue(sheetName, "L"+rowStr, FormatUSD(l.LaborCost))
		f.SetCellValue(sheetName, "M"+rowStr, FormatUSD(l.CoatingCost))
		f.SetCellValue(sheetName, "N"+rowStr, FormatUSD(l.HardwareCost))
		f.SetCellValue(sheetName, "O"+rowStr, FormatUSD(l.DirectCost()))
		f.SetCellValue(sheetName, "P"+rowStr, string(l.Status))

		style := lineStyle
		if l.IsVoid() {
			style = voidStyle
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)

		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	if data.Report != nil {
		row++
		d := data.Report.Display

		summaries := []struct {
			label string
			value string
		}{
			{"Total Weight:", d.Tons},
			{"Labor Hours:", d.LaborHours},
			{"Direct Cost:", d.DirectCost},
			{"Cost per Ton:", d.CostPerTon},
			{"Hours per Ton:", d.HoursPerTon},
			{"Health Score:", fmt.Sprintf("%.1f", data.Report.Score)},
		}
		for _, s := range summaries {
			rowStr := fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "N"+rowStr, s.label)
			f.SetCellStyle(sheetName, "N"+rowStr, "N"+rowStr, summaryLabelStyle)
			f.SetCellValue(sheetName, "O"+rowStr, s.value)
			f.SetCellStyle(sheetName, "O"+rowStr, "O"+rowStr, summaryValueStyle)
			row++
		}

		if err := addHealthSummarySheet(f, data); err != nil {
			return nil, err
		}
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// addHealthSummarySheet writes the score, findings and category breakdown
// onto a second sheet.
func addHealthSummarySheet(f *excelize.File, data BidExportData) error {
	sheet := "Health Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create health sheet: %w", err)
	}

	report := data.Report

	widths := []float64{12, 36, 70, 18}
	cols := []string{"A", "B", "C", "D"}
	for i, col := range cols {
		f.SetColWidth(sheet, col, col, widths[i])
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	scoreStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Health Summary")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	f.SetCellValue(sheet, "A2", fmt.Sprintf("Score: %.1f", report.Score))
	f.SetCellStyle(sheet, "A2", "A2", scoreStyle)
	f.SetCellValue(sheet, "B2", fmt.Sprintf("Worst finding: %s", report.WorstSeverity))

	// Findings table
	findingHeaders := []string{"Severity", "Finding", "Detail", "Value"}
	for i, h := range findingHeaders {
		cell := fmt.Sprintf("%s4", cols[i])
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	severityStyles := make(map[Severity]int, 4)
	for severity, color := range severityFills {
		style, _ := f.NewStyle(&excelize.Style{
			Font:   &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 10},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorders(),
		})
		severityStyles[severity] = style
	}

	row := 5
	for _, a := range report.Alerts {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+rowStr, string(a.Severity))
		if style, ok := severityStyles[a.Severity]; ok {
			f.SetCellStyle(sheet, "A"+rowStr, "A"+rowStr, style)
		}
		f.SetCellValue(sheet, "B"+rowStr, sanitizeExcelCell(a.Title))
		f.SetCellValue(sheet, "C"+rowStr, sanitizeExcelCell(a.Detail))
		f.SetCellValue(sheet, "D"+rowStr, sanitizeExcelCell(a.Value))
		f.SetCellStyle(sheet, "B"+rowStr, "D"+rowStr, cellStyle)
		row++
	}

	// Category breakdown
	row += 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Cost by Category")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), scoreStyle)
	row++

	catHeaders := []string{"Category", "Cost", "Share"}
	catHeaderRow := row
	for i, h := range catHeaders {
		cell := fmt.Sprintf("%s%d", cols[i], catHeaderRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	row++

	for _, share := range report.Categories {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+rowStr, share.Label)
		f.SetCellValue(sheet, "B"+rowStr, FormatUSD(share.Cost))
		f.SetCellValue(sheet, "C"+rowStr, FormatPct(share.SharePct))
		f.SetCellStyle(sheet, "A"+rowStr, "C"+rowStr, cellStyle)
		row++
	}

	return nil
}

// severityFills maps alert severities onto the fill colors used in exports.
var severityFills = map[Severity]string{
	SeverityCritical: "#DC2626",
	SeverityWarning:  "#D97706",
	SeverityInfo:     "#2563EB",
	SeverityOK:       "#16A34A",
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
