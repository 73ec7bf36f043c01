package services

import (
	"testing"
	"time"

	"steelbid/testhelpers"
)

func TestFormatBidReference(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		sequence int
		want     string
	}{
		{"first of year", 2026, 1, "BID-2026-0001"},
		{"mid sequence", 2026, 42, "BID-2026-0042"},
		{"high number", 2027, 1204, "BID-2027-1204"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatBidReference(tt.year, tt.sequence)
			if got != tt.want {
				t.Errorf("formatBidReference(%d, %d) = %q, want %q", tt.year, tt.sequence, got, tt.want)
			}
		})
	}
}

func TestNextBidReference_EmptyDatabase(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	got := NextBidReference(app, now)
	if got != "BID-2026-0001" {
		t.Errorf("NextBidReference() = %q, want 'BID-2026-0001'", got)
	}
}

func TestNextBidReference_Increments(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	b1 := testhelpers.CreateTestBid(t, app, "First", "commercial")
	b1.Set("reference_number", "BID-2026-0001")
	if err := app.Save(b1); err != nil {
		t.Fatalf("failed to set reference: %v", err)
	}
	b2 := testhelpers.CreateTestBid(t, app, "Second", "industrial")
	b2.Set("reference_number", "BID-2026-0002")
	if err := app.Save(b2); err != nil {
		t.Fatalf("failed to set reference: %v", err)
	}

	got := NextBidReference(app, now)
	if got != "BID-2026-0003" {
		t.Errorf("NextBidReference() = %q, want 'BID-2026-0003'", got)
	}
}

func TestNextBidReference_IgnoresManualReferences(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	manual := testhelpers.CreateTestBid(t, app, "Manual Ref", "commercial")
	manual.Set("reference_number", "HARTWELL-RFQ-88")
	if err := app.Save(manual); err != nil {
		t.Fatalf("failed to set reference: %v", err)
	}

	got := NextBidReference(app, now)
	if got != "BID-2026-0001" {
		t.Errorf("NextBidReference() = %q, want 'BID-2026-0001'", got)
	}
}

func TestNextBidReference_SequencesPerYear(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	old := testhelpers.CreateTestBid(t, app, "Last Year", "bridge")
	old.Set("reference_number", "BID-2025-0044")
	if err := app.Save(old); err != nil {
		t.Fatalf("failed to set reference: %v", err)
	}

	now := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	got := NextBidReference(app, now)
	if got != "BID-2026-0001" {
		t.Errorf("NextBidReference() = %q, want fresh sequence for the new year", got)
	}
}
