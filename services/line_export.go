package services

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// LineExportColumn defines a column in the line export spreadsheet.
type LineExportColumn struct {
	Header string
	Key    string  // template field key the cell value is taken from
	Width  float64 // column width in Excel units
}

// lineExportColumns returns the export columns in import-template order so
// the generated file can be edited and fed straight back through the
// validate/commit flow.
func lineExportColumns() []LineExportColumn {
	fields := LineImportTemplateFields()
	columns := make([]LineExportColumn, 0, len(fields))
	for _, field := range fields {
		width := float64(len(field.Label)) * 1.3
		if width < 15 {
			width = 15
		}
		columns = append(columns, LineExportColumn{
			Header: field.Label,
			Key:    field.Key,
			Width:  width,
		})
	}
	return columns
}

// LineExportRows converts a bid's lines into template-keyed string rows.
// Voided lines are skipped; re-importing them would resurrect dead scope.
func LineExportRows(lines []EstimateLine) []map[string]string {
	rows := make([]map[string]string, 0, len(lines))
	for _, l := range lines {
		if l.IsVoid() {
			continue
		}
		rows = append(rows, map[string]string{
			"category":         CategoryLabel(l.Category),
			"subcategory":      l.Subcategory,
			"description":      l.Description,
			"kind":             string(l.Kind),
			"qty":              formatExportNumber(l.Qty),
			"uom":              l.UOM,
			"unit_weight_lbs":  formatExportNumber(l.UnitWeightLbs),
			"total_weight_lbs": formatExportNumber(l.TotalWeightLbs),
			"material_cost":    formatExportNumber(l.MaterialCost),
			"labor_hours":      formatExportNumber(l.LaborHours),
			"labor_rate":       formatExportNumber(l.LaborRate),
			"coating_price":    formatExportNumber(l.CoatingPrice),
			"coating_cost":     formatExportNumber(l.CoatingCost),
			"hardware_cost":    formatExportNumber(l.HardwareCost),
		})
	}
	return rows
}

// GenerateLineReimportExcel creates an Excel file holding a bid's active
// lines in the import template layout: headers on row 1, data from row 2,
// no title block, so the importer's header mapping accepts it unchanged.
func GenerateLineReimportExcel(bidName string, lines []EstimateLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := bidName + " Lines"
	if bidName == "" {
		sheetName = "Estimate Lines"
	}
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := lineExportColumns()
	lastCol := lineColName(len(columns) - 1)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	dataStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		Alignment: &excelize.Alignment{
			Vertical: "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create data style: %w", err)
	}

	// --- Column widths ---
	for i, col := range columns {
		colLetter := lineColName(i)
		f.SetColWidth(sheetName, colLetter, colLetter, col.Width)
	}

	// --- Row 1: headers (the importer reads this row) ---
	for i, col := range columns {
		cell := fmt.Sprintf("%s1", lineColName(i))
		f.SetCellValue(sheetName, cell, col.Header)
	}
	f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)

	// --- Freeze header row ---
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	// --- Data rows starting at row 2 ---
	rows := LineExportRows(lines)
	for rowIdx, rowData := range rows {
		rowNum := rowIdx + 2
		rowStr := fmt.Sprintf("%d", rowNum)
		for colIdx, col := range columns {
			cell := fmt.Sprintf("%s%s", lineColName(colIdx), rowStr)
			f.SetCellValue(sheetName, cell, sanitizeExcelCell(rowData[col.Key]))
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, dataStyle)
	}

	// --- Write to buffer ---
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// formatExportNumber renders a numeric cell with minimal digits; zeros come
// out blank so untouched template fields stay empty on re-import.
func formatExportNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// lineColName converts a 0-based column index to an Excel column letter (A, B, ..., Z, AA, ...).
func lineColName(index int) string {
	name := ""
	for index >= 0 {
		name = string(rune('A'+index%26)) + name
		index = index/26 - 1
	}
	return name
}
