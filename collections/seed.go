package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type lineDef struct {
	sortOrder      int
	category       string
	subcategory    string
	description    string
	kind           string
	qty            float64
	uom            string
	unitWeightLbs  float64
	totalWeightLbs float64 // plate lines only; material lines derive it
	materialCost   float64
	laborHours     float64
	laborRate      float64
	coatingPrice   float64
	coatingCost    float64
	hardwareCost   float64
	status         string
	source         string
	importBatch    string
}

type documentDef struct {
	title     string
	docType   string
	sourceURL string
	notes     string
}

// Seed populates the collections with two realistic structural steel bids.
// It is safe to call on every startup because it returns early if any bid
// records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if bids already exist ──────────────────────
	bidsCol, err := app.FindCollectionByNameOrId("bids")
	if err != nil {
		return fmt.Errorf("seed: could not find bids collection: %w", err)
	}
	existing, err := app.FindAllRecords(bidsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query bids: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: bids collection is empty – inserting seed data …")

	linesCol, err := app.FindCollectionByNameOrId("estimate_lines")
	if err != nil {
		return fmt.Errorf("seed: could not find estimate_lines collection: %w", err)
	}
	documentsCol, err := app.FindCollectionByNameOrId("documents")
	if err != nil {
		return fmt.Errorf("seed: could not find documents collection: %w", err)
	}

	// ── helper: create estimate line ─────────────────────────────────
	createLine := func(bidID string, d lineDef) error {
		totalWeight := d.totalWeightLbs
		if d.kind == "material" {
			totalWeight = d.qty * d.unitWeightLbs
		}
		laborCost := d.laborHours * d.laborRate

		status := d.status
		if status == "" {
			status = "active"
		}
		source := d.source
		if source == "" {
			source = "manual"
		}

		r := core.NewRecord(linesCol)
		r.Set("bid", bidID)
		r.Set("sort_order", d.sortOrder)
		r.Set("category", d.category)
		r.Set("subcategory", d.subcategory)
		r.Set("description", d.description)
		r.Set("kind", d.kind)
		r.Set("qty", d.qty)
		r.Set("uom", d.uom)
		r.Set("unit_weight_lbs", d.unitWeightLbs)
		r.Set("total_weight_lbs", totalWeight)
		r.Set("material_cost", d.materialCost)
		r.Set("labor_hours", d.laborHours)
		r.Set("labor_rate", d.laborRate)
		r.Set("labor_cost", laborCost)
		r.Set("coating_price", d.coatingPrice)
		r.Set("coating_cost", d.coatingCost)
		r.Set("hardware_cost", d.hardwareCost)
		r.Set("status", status)
		r.Set("source", source)
		if d.importBatch != "" {
			r.Set("import_batch", d.importBatch)
		}
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save estimate line %q: %w", d.description, err)
		}
		return nil
	}

	// ── helper: create document ──────────────────────────────────────
	createDocument := func(bidID string, d documentDef) error {
		r := core.NewRecord(documentsCol)
		r.Set("bid", bidID)
		r.Set("title", d.title)
		r.Set("doc_type", d.docType)
		r.Set("source_url", d.sourceURL)
		r.Set("notes", d.notes)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save document %q: %w", d.title, err)
		}
		return nil
	}

	// ══════════════════════════════════════════════════════════════════
	// BID 1: Riverside Logistics Center — Phase 2 (commercial, ~234 T)
	// ══════════════════════════════════════════════════════════════════

	b1 := core.NewRecord(bidsCol)
	b1.Set("name", "Riverside Logistics Center — Phase 2")
	b1.Set("client_name", "Meridian Design-Build Group")
	b1.Set("reference_number", "MDB-2026-114")
	b1.Set("project_type", "commercial")
	b1.Set("status", "in_review")
	b1.Set("bid_due_date", time.Now().AddDate(0, 0, 18))
	b1.Set("notes", "420,000 sf tilt-up distribution center. Structural package per IFC set dated 2026-07-31.")
	if err := app.Save(b1); err != nil {
		return fmt.Errorf("seed: save bid 1: %w", err)
	}

	b1Lines := []lineDef{
		{sortOrder: 1, category: "main_steel", subcategory: "columns", description: "W12x65 columns, gridlines A-F", kind: "material", qty: 64, uom: "EA", unitWeightLbs: 1950, materialCost: 67400, laborHours: 540, laborRate: 86, coatingPrice: 130, coatingCost: 8112},
		{sortOrder: 2, category: "main_steel", subcategory: "beams", description: "W18x40 roof girders and purlins", kind: "material", qty: 88, uom: "EA", unitWeightLbs: 1300, materialCost: 60700, laborHours: 530, laborRate: 86, coatingPrice: 130, coatingCost: 7436},
		{sortOrder: 3, category: "main_steel", subcategory: "joists", description: "24K8 open-web joists, shop-primed by supplier", kind: "material", qty: 150, uom: "EA", unitWeightLbs: 240, materialCost: 41600, laborHours: 70, laborRate: 86},
		{sortOrder: 4, category: "misc_steel", subcategory: "stairs", description: "Stairs S1-S4 with landings and pans", kind: "material", qty: 4, uom: "EA", unitWeightLbs: 5600, materialCost: 21800, laborHours: 360, laborRate: 86, coatingPrice: 130, coatingCost: 1456},
		{sortOrder: 5, category: "misc_steel", subcategory: "railing", description: "Pipe guardrail at mezzanine edge", kind: "material", qty: 680, uom: "LF", unitWeightLbs: 20, materialCost: 17900, laborHours: 220, laborRate: 86, coatingPrice: 130, coatingCost: 884},
		{sortOrder: 6, category: "plate_work", subcategory: "base_plates", description: "Base plates 1.5 in A572 Gr. 50 with anchor assemblies", kind: "plate", qty: 64, uom: "EA", totalWeightLbs: 16000, materialCost: 10400, laborHours: 140, laborRate: 86, coatingPrice: 130, coatingCost: 1040, hardwareCost: 7700},
		{sortOrder: 7, category: "plate_work", subcategory: "gussets", description: "Gusset, stiffener and cap plates", kind: "plate", qty: 1, uom: "LOT", totalWeightLbs: 26000, materialCost: 16100, laborHours: 300, laborRate: 86, coatingPrice: 130, coatingCost: 1690},
		{sortOrder: 8, category: "connections", description: "Shear tabs, clip angles and moment end plates", kind: "plate", qty: 1, uom: "LOT", totalWeightLbs: 28000, materialCost: 18200, laborHours: 480, laborRate: 86, coatingPrice: 130, coatingCost: 1820},
		{sortOrder: 9, category: "fasteners", subcategory: "bolts", description: "A325 3/4 in bolt assemblies and deck screws", kind: "material", qty: 9200, uom: "EA", unitWeightLbs: 0.75, laborHours: 40, laborRate: 86, hardwareCost: 44300},
		{sortOrder: 10, category: "decking", subcategory: "roof_deck", description: "1.5 in Type B roof deck, 22 ga galvanized", kind: "material", qty: 40000, uom: "SF", unitWeightLbs: 2, materialCost: 92000, laborHours: 430, laborRate: 72},
		{sortOrder: 11, category: "coatings", description: "Field touch-up primer at connections", kind: "material", qty: 1, uom: "LOT", laborHours: 55, laborRate: 72, coatingCost: 4300},
		{sortOrder: 12, category: "erection", description: "Erection of structural frame and deck, incl. freight", kind: "material", qty: 1, uom: "LOT", laborHours: 720, laborRate: 78, hardwareCost: 26400},
		{sortOrder: 13, category: "decking", subcategory: "roof_deck", description: "ALT: 20 ga deck upgrade — superseded by Addendum 2", kind: "material", qty: 40000, uom: "SF", unitWeightLbs: 2.3, materialCost: 104000, laborHours: 430, laborRate: 72, status: "void"},
	}
	for _, d := range b1Lines {
		if err := createLine(b1.Id, d); err != nil {
			return err
		}
	}

	b1Docs := []documentDef{
		{title: "Structural drawings S-100 through S-412 (IFC set)", docType: "drawings", sourceURL: "https://plans.meridiandb.com/rlc2/structural", notes: "Issued for construction 2026-07-31."},
		{title: "Project manual — Division 05 structural steel", docType: "specification"},
		{title: "Addendum 2 — roof deck gauge revised to 22 ga", docType: "addendum", notes: "Supersedes deck upgrade alternate."},
	}
	for _, d := range b1Docs {
		if err := createDocument(b1.Id, d); err != nil {
			return err
		}
	}

	// ══════════════════════════════════════════════════════════════════
	// BID 2: Hwy 12 Overpass Girder Retrofit (bridge, ~74 T)
	// ══════════════════════════════════════════════════════════════════

	b2 := core.NewRecord(bidsCol)
	b2.Set("name", "Hwy 12 Overpass Girder Retrofit")
	b2.Set("client_name", "Cascade County DOT")
	b2.Set("reference_number", "CCDOT-R26-081")
	b2.Set("project_type", "bridge")
	b2.Set("status", "draft")
	b2.Set("bid_due_date", time.Now().AddDate(0, 0, 2))
	b2.Set("notes", "Fracture-critical girder web and flange replacement over live traffic. Night closures only.")
	if err := app.Save(b2); err != nil {
		return fmt.Errorf("seed: save bid 2: %w", err)
	}

	batch := uuid.NewString()
	b2Lines := []lineDef{
		{sortOrder: 1, category: "main_steel", subcategory: "girders", description: "Plate girder web and flange replacement sections, A709 Gr. 50W", kind: "plate", qty: 1, uom: "LOT", totalWeightLbs: 62000, materialCost: 78400, laborHours: 480, laborRate: 92, coatingPrice: 200, coatingCost: 6200},
		{sortOrder: 2, category: "main_steel", subcategory: "diaphragms", description: "Diaphragms and cross-frames", kind: "material", qty: 46, uom: "EA", unitWeightLbs: 700, materialCost: 27500, laborHours: 260, laborRate: 92, coatingPrice: 200, coatingCost: 3220},
		{sortOrder: 3, category: "plate_work", subcategory: "splices", description: "Splice plates and fills", kind: "plate", qty: 1, uom: "LOT", totalWeightLbs: 18400, materialCost: 17100, laborHours: 200, laborRate: 92, coatingPrice: 200, coatingCost: 1840},
		{sortOrder: 4, category: "plate_work", subcategory: "stiffeners", description: "Bearing stiffeners and jacking stiffeners", kind: "plate", qty: 1, uom: "LOT", totalWeightLbs: 12600, materialCost: 11300, laborHours: 170, laborRate: 92, coatingPrice: 200, coatingCost: 1260},
		{sortOrder: 5, category: "connections", description: "Field splice bolted connections", kind: "plate", qty: 1, uom: "LOT", totalWeightLbs: 9000, materialCost: 8200, laborHours: 160, laborRate: 92, coatingPrice: 200, coatingCost: 900},
		{sortOrder: 6, category: "fasteners", subcategory: "bolts", description: "A490 7/8 in TC bolt assemblies, galvanized", kind: "material", qty: 6400, uom: "EA", hardwareCost: 52500, source: "import", importBatch: batch},
		{sortOrder: 7, category: "misc_steel", subcategory: "falsework", description: "Temporary support brackets and falsework connections", kind: "material", qty: 1, uom: "LOT", unitWeightLbs: 14200, materialCost: 13600, laborHours: 210, laborRate: 92},
		{sortOrder: 8, category: "coatings", description: "Zone painting system, 3-coat, SSPC SP-10 prep", kind: "material", qty: 1, uom: "LOT", coatingCost: 88000, source: "import", importBatch: batch},
		{sortOrder: 9, category: "erection", description: "Girder jacking, removal and setting — night closures", kind: "material", qty: 1, uom: "LOT", laborHours: 300, laborRate: 105, hardwareCost: 18900},
		{sortOrder: 10, category: "freight", description: "Permit loads to site, escorted", kind: "material", qty: 3, uom: "EA", hardwareCost: 9800},
	}
	for _, d := range b2Lines {
		if err := createLine(b2.Id, d); err != nil {
			return err
		}
	}

	log.Println("seed: all seed data inserted successfully (2 bids, 23 estimate lines, 3 documents)")
	return nil
}
