package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateHealthPDF creates a PDF health report for a bid using maroto/v2.
// It returns the raw PDF bytes or an error. Unlike the workbook export, the
// report is the document here, so it cannot be omitted.
func GenerateHealthPDF(data BidExportData) ([]byte, error) {
	if data.Report == nil {
		return nil, fmt.Errorf("health report missing for bid %q", data.BidName)
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	// --- Header Section ---
	addHealthHeader(m, data)

	// --- Score ---
	addScoreRow(m, data.Report)

	// --- Metrics Section ---
	addMetricsSection(m, data.Report)

	// --- Findings Table ---
	addFindingsTable(m, data.Report)

	// --- Category Breakdown ---
	addCategorySection(m, data.Report)

	// --- Footer with generated date ---
	addHealthFooter(m, data)

	// Generate PDF bytes
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHealthHeader adds the bid name, client, reference and due date to the PDF.
func addHealthHeader(m core.Maroto, data BidExportData) {
	// Title row
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.BidName, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	subtitle := props.Text{
		Size:  9,
		Align: align.Left,
		Color: &props.Color{Red: 80, Green: 80, Blue: 80},
	}
	subtitleRight := subtitle
	subtitleRight.Align = align.Right

	// Client and reference row
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Client: %s", data.ClientName), subtitle),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Ref: %s", data.ReferenceNumber), subtitleRight),
			),
		),
	)

	// Project type and due date row
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Project: %s | Status: %s", data.ProjectType, data.BidStatus), subtitle),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Due: %s", data.DueDate), subtitleRight),
			),
		),
	)

	// Spacer
	m.AddRows(row.New(4))
}

// addScoreRow adds the health score with the worst-finding severity coloring.
func addScoreRow(m core.Maroto, report *HealthReport) {
	scoreColor := severityColor(report.WorstSeverity)

	m.AddRows(
		row.New(12).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Health Score: %.1f / 100", report.Score), props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: scoreColor,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Worst finding: %s", report.WorstSeverity), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: scoreColor,
				}),
			),
		),
	)

	if !report.BaselineOK {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New("No market baseline available for this project type; positions use a neutral default.", props.Text{
						Size:  8,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					}),
				),
			),
		)
	}

	m.AddRows(row.New(4))
}

// addMetricsSection adds the key per-ton metrics row.
func addMetricsSection(m core.Maroto, report *HealthReport) {
	d := report.Display

	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 80, Green: 80, Blue: 80},
	}
	valueStyle := props.Text{
		Size:  10,
		Style: fontstyle.Bold,
		Align: align.Center,
	}

	metrics := []struct {
		label string
		value string
	}{
		{"Total Weight", d.Tons},
		{"Direct Cost", d.DirectCost},
		{"Cost / Ton", d.CostPerTon},
		{"Hours / Ton", d.HoursPerTon},
		{"Cost Position", FormatPosition(report.CostPosition)},
		{"Hours Position", FormatPosition(report.HoursPosition)},
	}

	labelCols := make([]core.Col, 0, len(metrics))
	valueCols := make([]core.Col, 0, len(metrics))
	for _, metric := range metrics {
		labelCols = append(labelCols, col.New(2).Add(text.New(metric.label, labelStyle)))
		valueCols = append(valueCols, col.New(2).Add(text.New(metric.value, valueStyle)))
	}

	m.AddRows(row.New(5).Add(labelCols...))
	m.AddRows(row.New(7).Add(valueCols...))

	// Spacer
	m.AddRows(row.New(4))
}

// addFindingsTable adds the findings table header and one row per alert.
func addFindingsTable(m core.Maroto, report *HealthReport) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(2).Add(
				text.New("Severity", headerText),
			).WithStyle(&headerCell),
			col.New(3).Add(
				text.New("Finding", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(5).Add(
				text.New("Detail", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Value", headerText),
			).WithStyle(&headerCell),
		),
	)

	zebra := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}

	for i, a := range report.Alerts {
		severityText := props.Text{
			Size:  8,
			Style: fontstyle.Bold,
			Align: align.Center,
			Color: severityColor(a.Severity),
		}
		bodyText := props.Text{
			Size:  8,
			Align: align.Left,
		}
		valueText := props.Text{
			Size:  8,
			Align: align.Center,
		}

		colSeverity := col.New(2).Add(text.New(string(a.Severity), severityText))
		colTitle := col.New(3).Add(text.New(a.Title, bodyText))
		colDetail := col.New(5).Add(text.New(a.Detail, bodyText))
		colValue := col.New(2).Add(text.New(a.Value, valueText))

		if i%2 == 1 {
			colSeverity = colSeverity.WithStyle(zebra)
			colTitle = colTitle.WithStyle(zebra)
			colDetail = colDetail.WithStyle(zebra)
			colValue = colValue.WithStyle(zebra)
		}

		m.AddRows(
			row.New(7).Add(
				colSeverity,
				colTitle,
				colDetail,
				colValue,
			),
		)
	}
}

// addCategorySection adds the cost-by-category breakdown below the findings.
func addCategorySection(m core.Maroto, report *HealthReport) {
	if len(report.Categories) == 0 {
		return
	}

	// Spacer before section
	m.AddRows(row.New(6))

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New("Cost by Category", props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
	)

	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(4).Add(
				text.New("Category", headerText),
			).WithStyle(&headerCell),
			col.New(4).Add(
				text.New("Cost", headerText),
			).WithStyle(&headerCell),
			col.New(4).Add(
				text.New("Share", headerText),
			).WithStyle(&headerCell),
		),
	)

	bodyText := props.Text{
		Size:  8,
		Align: align.Center,
	}
	leftText := bodyText
	leftText.Align = align.Left
	rightText := bodyText
	rightText.Align = align.Right

	for _, share := range report.Categories {
		m.AddRows(
			row.New(7).Add(
				col.New(4).Add(text.New(share.Label, leftText)),
				col.New(4).Add(text.New(FormatUSD(share.Cost), rightText)),
				col.New(4).Add(text.New(FormatPct(share.SharePct), bodyText)),
			),
		)
	}
}

// addHealthFooter adds the generated-date line at the bottom.
func addHealthFooter(m core.Maroto, data BidExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.GeneratedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

// severityColor maps an alert severity onto its report color.
func severityColor(s Severity) *props.Color {
	switch s {
	case SeverityCritical:
		return &props.Color{Red: 220, Green: 38, Blue: 38}
	case SeverityWarning:
		return &props.Color{Red: 217, Green: 119, Blue: 6}
	case SeverityInfo:
		return &props.Color{Red: 37, Green: 99, Blue: 235}
	default:
		return &props.Color{Red: 22, Green: 163, Blue: 74}
	}
}
