package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"steelbid/collections"
	"steelbid/handlers"
	"steelbid/services"
)

// loadScoringConfig resolves the active scoring configuration: an explicit
// path from STEELBID_SCORING_CONFIG, else ./scoring.yml when present, else
// the tuned defaults compiled into the binary. An explicitly requested file
// that fails to load or validate is fatal; silently estimating against the
// wrong baselines would be worse than not starting.
func loadScoringConfig() services.ScoringConfig {
	if path := os.Getenv("STEELBID_SCORING_CONFIG"); path != "" {
		cfg, err := services.LoadScoringConfig(path)
		if err != nil {
			log.Fatalf("scoring config: %v", err)
		}
		log.Printf("Using scoring config %s (version %s)", path, cfg.Version)
		return cfg
	}

	if _, err := os.Stat("scoring.yml"); err == nil {
		cfg, err := services.LoadScoringConfig("scoring.yml")
		if err != nil {
			log.Fatalf("scoring config: %v", err)
		}
		log.Printf("Using scoring config scoring.yml (version %s)", cfg.Version)
		return cfg
	}

	return services.DefaultScoringConfig()
}

func main() {
	app := pocketbase.New()
	cfg := loadScoringConfig()

	registerReportCommand(app, cfg)

	// Create collections, seed sample data and run data migrations on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateBackfillLaborCosts(app); err != nil {
			log.Printf("Warning: labor cost backfill failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Bids ─────────────────────────────────────────────────
		se.Router.GET("/api/bids", handlers.HandleBidList(app))
		se.Router.POST("/api/bids", handlers.HandleBidCreate(app))
		se.Router.GET("/api/bids/{bidId}", handlers.HandleBidView(app))
		se.Router.PATCH("/api/bids/{bidId}", handlers.HandleBidUpdate(app))
		se.Router.DELETE("/api/bids/{bidId}", handlers.HandleBidDelete(app))

		// ── Health report ────────────────────────────────────────
		se.Router.GET("/api/bids/{bidId}/health", handlers.HandleBidHealth(app, cfg))
		se.Router.GET("/api/scoring-config", handlers.HandleScoringConfig(cfg))

		// ── Estimate lines ───────────────────────────────────────
		se.Router.GET("/api/bids/{bidId}/lines", handlers.HandleLineList(app))
		se.Router.POST("/api/bids/{bidId}/lines", handlers.HandleLineCreate(app))
		se.Router.PATCH("/api/bids/{bidId}/lines/{lineId}", handlers.HandleLineUpdate(app))
		se.Router.DELETE("/api/bids/{bidId}/lines/{lineId}", handlers.HandleLineVoid(app))
		se.Router.POST("/api/bids/{bidId}/lines/{lineId}/restore", handlers.HandleLineRestore(app))

		// ── Documents ────────────────────────────────────────────
		se.Router.GET("/api/bids/{bidId}/documents", handlers.HandleDocumentList(app))
		se.Router.POST("/api/bids/{bidId}/documents", handlers.HandleDocumentCreate(app))
		se.Router.DELETE("/api/bids/{bidId}/documents/{docId}", handlers.HandleDocumentDelete(app))

		// ── Line import ──────────────────────────────────────────
		se.Router.GET("/api/import/lines/template", handlers.HandleLineImportTemplate())
		se.Router.POST("/api/import/lines/errors", handlers.HandleLineImportErrors())
		se.Router.POST("/api/bids/{bidId}/import/lines/validate", handlers.HandleLineImportValidate(app))
		se.Router.POST("/api/bids/{bidId}/import/lines/commit", handlers.HandleLineImportCommit(app))

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/api/bids/{bidId}/export/excel", handlers.HandleBidExportExcel(app, cfg))
		se.Router.GET("/api/bids/{bidId}/export/pdf", handlers.HandleBidExportPDF(app, cfg))
		se.Router.GET("/api/bids/{bidId}/export/lines", handlers.HandleBidExportLines(app))

		// Dashboard SPA assets; unknown paths fall back to index.html
		se.Router.GET("/{path...}", apis.Static(os.DirFS("./pb_public"), true))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
