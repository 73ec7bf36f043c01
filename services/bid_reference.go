package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// formatBidReference constructs the reference string from components.
// Uses "-" as separator so references stay safe in filenames and URLs.
func formatBidReference(year, sequence int) string {
	return fmt.Sprintf("BID-%d-%04d", year, sequence)
}

// NextBidReference creates the next auto-assigned bid reference.
// Format: BID-{year}-{sequence}, with a 4-digit zero-padded sequence per
// calendar year. Manually entered references are left alone; callers invoke
// this only when the field arrives blank.
func NextBidReference(app *pocketbase.PocketBase, now time.Time) string {
	year := now.Year()
	prefix := fmt.Sprintf("BID-%d-", year)

	existing, err := app.FindRecordsByFilter(
		"bids",
		"reference_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		// No matches yet; start the year at 1.
		existing = nil
	}

	return formatBidReference(year, len(existing)+1)
}
