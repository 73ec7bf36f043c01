// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"steelbid/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestBid creates a bid record with the given name and project type.
func CreateTestBid(t *testing.T, app *pocketbase.PocketBase, name, projectType string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("bids")
	if err != nil {
		t.Fatalf("failed to find bids collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("project_type", projectType)
	record.Set("status", "draft")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test bid: %v", err)
	}

	return record
}

// CreateTestLine creates an estimate line under a bid. Sensible defaults are
// applied first and the overrides map then replaces any of them, so tests set
// only the fields they care about.
func CreateTestLine(t *testing.T, app *pocketbase.PocketBase, bidID string, overrides map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimate_lines")
	if err != nil {
		t.Fatalf("failed to find estimate_lines collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("bid", bidID)
	record.Set("sort_order", 1)
	record.Set("category", "main_steel")
	record.Set("description", "W12x26 beams")
	record.Set("kind", "material")
	record.Set("qty", 10)
	record.Set("uom", "EA")
	record.Set("status", "active")
	record.Set("source", "manual")
	for field, value := range overrides {
		record.Set(field, value)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimate line: %v", err)
	}

	return record
}

// CreateTestDocument creates a document record linked to a bid.
func CreateTestDocument(t *testing.T, app *pocketbase.PocketBase, bidID, title, docType string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("documents")
	if err != nil {
		t.Fatalf("failed to find documents collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("bid", bidID)
	record.Set("title", title)
	record.Set("doc_type", docType)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test document: %v", err)
	}

	return record
}

// AssertBodyContains checks that body contains all specified fragments.
func AssertBodyContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
