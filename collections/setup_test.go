package collections_test

import (
	"testing"

	"steelbid/collections"
	"steelbid/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"bids",
	"estimate_lines",
	"documents",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	// Collect IDs from first run
	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	// Run Setup() again
	collections.Setup(app)

	// IDs should not change
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_BidsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("bids")

	requiredFields := []string{"name", "project_type", "status"}
	optionalFields := []string{"client_name", "reference_number", "bid_due_date", "notes", "created", "updated"}

	for _, f := range requiredFields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("bids: missing required field %q", f)
		}
	}
	for _, f := range optionalFields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("bids: missing field %q", f)
		}
	}

	// Verify project_type is a select field with expected values
	ptField := col.Fields.GetByName("project_type")
	if sf, ok := ptField.(*core.SelectField); ok {
		expected := map[string]bool{"commercial": true, "industrial": true, "bridge": true, "institutional": true}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected project_type value: %q", v)
			}
			delete(expected, v)
		}
		for v := range expected {
			t.Errorf("missing project_type value: %q", v)
		}
	} else {
		t.Errorf("project_type field is not a SelectField")
	}

	// Verify status is a select field with expected values
	statusField := col.Fields.GetByName("status")
	if sf, ok := statusField.(*core.SelectField); ok {
		expected := map[string]bool{"draft": true, "in_review": true, "submitted": true, "won": true, "lost": true}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected status value: %q", v)
			}
			delete(expected, v)
		}
		for v := range expected {
			t.Errorf("missing status value: %q", v)
		}
	} else {
		t.Errorf("status field is not a SelectField")
	}
}

func TestSetup_EstimateLinesFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("estimate_lines")

	fields := []string{
		"bid", "sort_order", "category", "subcategory", "description", "kind",
		"qty", "uom", "unit_weight_lbs", "total_weight_lbs",
		"material_cost", "labor_hours", "labor_rate", "labor_cost",
		"coating_price", "coating_cost", "hardware_cost",
		"status", "source", "import_batch",
		"created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("estimate_lines: missing field %q", f)
		}
	}

	// bid relation with cascade delete
	bidField := col.Fields.GetByName("bid")
	if rf, ok := bidField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("estimate_lines.bid: expected CascadeDelete=true")
		}
		if rf.MaxSelect != 1 {
			t.Errorf("estimate_lines.bid: expected MaxSelect=1, got %d", rf.MaxSelect)
		}
	} else {
		t.Errorf("estimate_lines.bid is not a RelationField")
	}

	// kind discriminates material vs plate pricing
	kindField := col.Fields.GetByName("kind")
	if sf, ok := kindField.(*core.SelectField); ok {
		if len(sf.Values) != 2 {
			t.Errorf("estimate_lines.kind: expected 2 values, got %d", len(sf.Values))
		}
	} else {
		t.Errorf("estimate_lines.kind is not a SelectField")
	}

	// status is the active/void toggle
	statusField := col.Fields.GetByName("status")
	if sf, ok := statusField.(*core.SelectField); ok {
		expected := map[string]bool{"active": true, "void": true}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected line status value: %q", v)
			}
		}
	} else {
		t.Errorf("estimate_lines.status is not a SelectField")
	}

	// category covers the nine estimating buckets
	catField := col.Fields.GetByName("category")
	if sf, ok := catField.(*core.SelectField); ok {
		if len(sf.Values) != 9 {
			t.Errorf("estimate_lines.category: expected 9 values, got %d", len(sf.Values))
		}
	}
}

func TestSetup_DocumentsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("documents")

	fields := []string{"bid", "title", "doc_type", "source_url", "notes", "created"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("documents: missing field %q", f)
		}
	}

	// bid relation with cascade delete
	bidField := col.Fields.GetByName("bid")
	if rf, ok := bidField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("documents.bid: expected CascadeDelete=true")
		}
	} else {
		t.Errorf("documents.bid is not a RelationField")
	}
}

func TestSetup_LineCascadeDeleteOnBid(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	bid := testhelpers.CreateTestBid(t, app, "Cascade Test", "commercial")
	line := testhelpers.CreateTestLine(t, app, bid.Id, nil)
	doc := testhelpers.CreateTestDocument(t, app, bid.Id, "Drawings", "drawings")

	if err := app.Delete(bid); err != nil {
		t.Fatalf("failed to delete bid: %v", err)
	}

	if _, err := app.FindRecordById("estimate_lines", line.Id); err == nil {
		t.Error("estimate line should have been cascade-deleted with bid")
	}
	if _, err := app.FindRecordById("documents", doc.Id); err == nil {
		t.Error("document should have been cascade-deleted with bid")
	}
}
