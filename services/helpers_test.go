package services

import (
	"bytes"
	"time"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// sampleBidExportData builds export data for a small commercial bid with two
// active lines and one voided line, with the health report computed over it.
func sampleBidExportData() BidExportData {
	lines := []EstimateLine{
		{
			SortOrder:      1,
			Category:       "main_steel",
			Description:    "W12x26 columns",
			Kind:           KindMaterial,
			Qty:            64,
			UOM:            "EA",
			UnitWeightLbs:  1950,
			TotalWeightLbs: 124800,
			MaterialCost:   98200,
			LaborHours:     540,
			LaborRate:      86,
			LaborCost:      46440,
			CoatingPrice:   185,
			CoatingCost:    11544,
			Status:         LineActive,
		},
		{
			SortOrder:      2,
			Category:       "misc_steel",
			Description:    "Stair stringers",
			Kind:           KindPlate,
			TotalWeightLbs: 9600,
			MaterialCost:   8400,
			LaborHours:     120,
			LaborRate:      86,
			LaborCost:      10320,
			CoatingCost:    900,
			HardwareCost:   350,
			Status:         LineActive,
		},
		{
			SortOrder:      3,
			Category:       "main_steel",
			Description:    "Superseded girder run",
			Kind:           KindMaterial,
			TotalWeightLbs: 22000,
			MaterialCost:   15500,
			Status:         LineVoid,
		},
	}

	due := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	bid := BidInfo{
		ID:          "bid_fixture",
		Name:        "Riverside Distribution Center",
		ProjectType: "commercial",
		Status:      "in_review",
		DueDate:     &due,
	}
	report := ComputeHealth(bid, lines, 2, now, DefaultScoringConfig())

	return BidExportData{
		BidName:         "Riverside Distribution Center",
		ClientName:      "Hartwell Construction",
		ReferenceNumber: "BID-2026-041",
		ProjectType:     "commercial",
		BidStatus:       "in_review",
		DueDate:         "Mar 20, 2026",
		GeneratedDate:   "Mar 2, 2026",
		Lines:           lines,
		Report:          report,
	}
}
