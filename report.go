package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"steelbid/collections"
	"steelbid/services"
)

const reportConcurrency = 4

// registerReportCommand adds `steelbid report`: a terminal health summary
// across bids, worst first, for a quick scan without opening the dashboard.
func registerReportCommand(app *pocketbase.PocketBase, cfg services.ScoringConfig) {
	var bidID string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a health summary of every bid, worst first",
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)
			return runHealthReport(app, cfg, bidID, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&bidID, "bid", "", "limit the report to one bid id")

	app.RootCmd.AddCommand(cmd)
}

// bidHealth pairs a bid record with its computed report so rows can be
// sorted without losing bid fields the report does not carry.
type bidHealth struct {
	bid    *core.Record
	report *services.HealthReport
}

func runHealthReport(app *pocketbase.PocketBase, cfg services.ScoringConfig, bidID string, out io.Writer) error {
	var bids []*core.Record
	q := app.RecordQuery("bids")
	if bidID != "" {
		q.AndWhere(dbx.HashExp{"id": bidID})
	}
	if err := q.OrderBy("created DESC").All(&bids); err != nil {
		return fmt.Errorf("load bids: %w", err)
	}
	if len(bids) == 0 {
		if bidID != "" {
			return fmt.Errorf("bid %q not found", bidID)
		}
		fmt.Fprintln(out, "No bids yet.")
		return nil
	}

	rows := make([]bidHealth, len(bids))
	var g errgroup.Group
	g.SetLimit(reportConcurrency)
	for i, bid := range bids {
		g.Go(func() error {
			report, err := services.BuildHealthReport(app, bid, cfg)
			if err != nil {
				return fmt.Errorf("bid %s: %w", bid.Id, err)
			}
			rows[i] = bidHealth{bid: bid, report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(rows, func(i, j int) bool {
		ri, rj := rows[i].report, rows[j].report
		if ri.WorstSeverity.Rank() != rj.WorstSeverity.Rank() {
			return ri.WorstSeverity.Rank() > rj.WorstSeverity.Rank()
		}
		return ri.Score < rj.Score
	})

	fmt.Fprintf(out, "%-15s %-34s %10s %14s %7s  %s\n",
		"REFERENCE", "BID", "TONS", "COST/TON", "SCORE", "WORST")
	for _, row := range rows {
		ref := row.bid.GetString("reference_number")
		if ref == "" {
			ref = services.Dash
		}
		r := row.report
		fmt.Fprintf(out, "%-15.15s %-34.34s %10s %14s %7.1f  %s\n",
			ref, r.BidName, r.Display.Tons, r.Display.CostPerTon, r.Score,
			severityPrinter(r.WorstSeverity)(string(r.WorstSeverity)))
	}
	return nil
}

// severityPrinter colorizes severity words on the terminal; color is
// disabled automatically when stdout is not a TTY.
func severityPrinter(s services.Severity) func(a ...interface{}) string {
	switch s {
	case services.SeverityCritical:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case services.SeverityWarning:
		return color.New(color.FgYellow).SprintFunc()
	case services.SeverityInfo:
		return color.New(color.FgCyan).SprintFunc()
	default:
		return color.New(color.FgGreen).SprintFunc()
	}
}
