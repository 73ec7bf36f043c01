package services

import (
	"fmt"
	"testing"

	"steelbid/testhelpers"
)

func TestCommitLineImport_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Import Bid", "commercial")

	rows := []map[string]string{
		{
			"category":        "main_steel",
			"description":     "W12x26 beams",
			"kind":            "material",
			"qty":             "64",
			"uom":             "EA",
			"unit_weight_lbs": "1950",
			"material_cost":   "98200",
			"labor_hours":     "540",
			"labor_rate":      "86",
		},
		{
			"category":         "plate_work",
			"description":      "Base plates 1in",
			"kind":             "plate",
			"qty":              "24",
			"uom":              "EA",
			"total_weight_lbs": "4800",
			"material_cost":    "6100",
		},
	}

	result, err := CommitLineImport(app, bid.Id, rows)
	if err != nil {
		t.Fatalf("CommitLineImport() error: %v", err)
	}
	if result.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", result.TotalRows)
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, want 0", result.Failed)
	}
	if result.BatchID == "" {
		t.Error("expected a batch id")
	}

	// Verify records in DB
	col, _ := app.FindCollectionByNameOrId("estimate_lines")
	records, _ := app.FindRecordsByFilter(col,
		"bid = {:b}", "sort_order", 0, 0,
		map[string]any{"b": bid.Id},
	)
	if len(records) != 2 {
		t.Fatalf("expected 2 lines in DB, got %d", len(records))
	}
	for _, r := range records {
		if r.GetString("source") != "import" {
			t.Errorf("source = %q, want import", r.GetString("source"))
		}
		if r.GetString("import_batch") != result.BatchID {
			t.Errorf("import_batch = %q, want %q", r.GetString("import_batch"), result.BatchID)
		}
		if r.GetString("status") != "active" {
			t.Errorf("status = %q, want active", r.GetString("status"))
		}
	}

	// Derived values: material total weight and labor cost
	first := records[0]
	if first.GetFloat("total_weight_lbs") != 64*1950 {
		t.Errorf("total_weight_lbs = %v, want %v", first.GetFloat("total_weight_lbs"), 64*1950)
	}
	if first.GetFloat("labor_cost") != 540*86 {
		t.Errorf("labor_cost = %v, want %v", first.GetFloat("labor_cost"), 540*86)
	}

	// Plate line keeps its explicit total weight
	second := records[1]
	if second.GetFloat("total_weight_lbs") != 4800 {
		t.Errorf("plate total_weight_lbs = %v, want 4800", second.GetFloat("total_weight_lbs"))
	}
}

func TestCommitLineImport_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Empty Import", "commercial")

	result, err := CommitLineImport(app, bid.Id, []map[string]string{})
	if err != nil {
		t.Fatalf("CommitLineImport() error: %v", err)
	}
	if result.TotalRows != 0 {
		t.Errorf("TotalRows = %d, want 0", result.TotalRows)
	}
	if result.Imported != 0 {
		t.Errorf("Imported = %d, want 0", result.Imported)
	}
}

func TestCommitLineImport_ValidationErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Invalid Import", "commercial")

	// Missing description and kind
	rows := []map[string]string{
		{
			"category": "main_steel",
		},
	}

	result, err := CommitLineImport(app, bid.Id, rows)
	if err != nil {
		t.Fatalf("CommitLineImport() error: %v", err)
	}
	if result.Imported != 0 {
		t.Errorf("Imported = %d, want 0 (should fail validation)", result.Imported)
	}
	if result.Failed == 0 {
		t.Error("expected failed rows due to validation")
	}
	if !result.RolledBack {
		t.Error("expected RolledBack = true")
	}
	if len(result.Errors) == 0 {
		t.Error("expected validation errors")
	}

	// Nothing should hit the database
	col, _ := app.FindCollectionByNameOrId("estimate_lines")
	records, _ := app.FindRecordsByFilter(col,
		"bid = {:b}", "", 0, 0,
		map[string]any{"b": bid.Id},
	)
	if len(records) != 0 {
		t.Errorf("expected 0 lines in DB, got %d", len(records))
	}
}

func TestCommitLineImport_AppendsAfterExistingLines(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Append Import", "commercial")
	testhelpers.CreateTestLine(t, app, bid.Id, map[string]any{"sort_order": 7})

	rows := []map[string]string{
		{"category": "misc_steel", "description": "Stair stringers", "kind": "material"},
		{"category": "misc_steel", "description": "Handrail", "kind": "material"},
	}

	result, err := CommitLineImport(app, bid.Id, rows)
	if err != nil {
		t.Fatalf("CommitLineImport() error: %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("Imported = %d, want 2", result.Imported)
	}

	col, _ := app.FindCollectionByNameOrId("estimate_lines")
	records, _ := app.FindRecordsByFilter(col,
		"bid = {:b} && source = 'import'", "sort_order", 0, 0,
		map[string]any{"b": bid.Id},
	)
	if len(records) != 2 {
		t.Fatalf("expected 2 imported lines, got %d", len(records))
	}
	if records[0].GetFloat("sort_order") != 8 {
		t.Errorf("first imported sort_order = %v, want 8", records[0].GetFloat("sort_order"))
	}
	if records[1].GetFloat("sort_order") != 9 {
		t.Errorf("second imported sort_order = %v, want 9", records[1].GetFloat("sort_order"))
	}
}

func TestCommitLineImport_CoatingCostDerived(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Coating Import", "commercial")

	rows := []map[string]string{
		{
			"category":         "coatings",
			"description":      "Shop primer on trusses",
			"kind":             "plate",
			"total_weight_lbs": "10000",
			"coating_price":    "185",
		},
	}

	result, err := CommitLineImport(app, bid.Id, rows)
	if err != nil {
		t.Fatalf("CommitLineImport() error: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("Imported = %d, want 1", result.Imported)
	}

	col, _ := app.FindCollectionByNameOrId("estimate_lines")
	records, _ := app.FindRecordsByFilter(col,
		"bid = {:b}", "", 0, 0,
		map[string]any{"b": bid.Id},
	)
	if len(records) != 1 {
		t.Fatalf("expected 1 line, got %d", len(records))
	}
	// 185 $/ton x 5 tons
	if records[0].GetFloat("coating_cost") != 925 {
		t.Errorf("coating_cost = %v, want 925", records[0].GetFloat("coating_cost"))
	}
}

func TestCommitLineImport_LargeBatch(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Large Import", "commercial")

	// Generate 150 rows (exceeds lineImportBatchSize of 100, tests chunking)
	rows := make([]map[string]string, 150)
	for i := range rows {
		rows[i] = map[string]string{
			"category":    "misc_steel",
			"description": fmt.Sprintf("Embed plate %d", i+1),
			"kind":        "plate",
			"qty":         "1",
		}
	}

	result, err := CommitLineImport(app, bid.Id, rows)
	if err != nil {
		t.Fatalf("CommitLineImport() error: %v", err)
	}
	if result.TotalRows != 150 {
		t.Errorf("TotalRows = %d, want 150", result.TotalRows)
	}
	if result.Imported != 150 {
		t.Errorf("Imported = %d, want 150", result.Imported)
	}
}

func TestNextLineSortOrder_EmptyBid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Fresh Bid", "commercial")

	if got := NextLineSortOrder(app, bid.Id); got != 1 {
		t.Errorf("NextLineSortOrder = %v, want 1", got)
	}
}

func TestNextLineSortOrder_CountsVoidLines(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Voided Bid", "commercial")
	testhelpers.CreateTestLine(t, app, bid.Id, map[string]any{"sort_order": 4, "status": "void"})

	if got := NextLineSortOrder(app, bid.Id); got != 5 {
		t.Errorf("NextLineSortOrder = %v, want 5", got)
	}
}
