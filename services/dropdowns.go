package services

// LineCategoryOptions returns the list of cost category options for
// estimate lines.
var LineCategoryOptions = []string{
	"main_steel",
	"misc_steel",
	"plate_work",
	"connections",
	"decking",
	"fasteners",
	"coatings",
	"freight",
	"erection",
}

// CategoryLabels maps category keys to their display labels.
var CategoryLabels = map[string]string{
	"main_steel":  "Main Steel",
	"misc_steel":  "Misc Steel",
	"plate_work":  "Plate Work",
	"connections": "Connections",
	"decking":     "Decking",
	"fasteners":   "Fasteners",
	"coatings":    "Coatings",
	"freight":     "Freight",
	"erection":    "Erection",
}

// CategoryLabel returns the display label for a category key, falling back
// to the key itself for unknown values.
func CategoryLabel(category string) string {
	if label, ok := CategoryLabels[category]; ok {
		return label
	}
	return category
}

// LineKindOptions returns the list of line kind options.
var LineKindOptions = []string{"material", "plate"}

// LineStatusOptions returns the list of line status options.
var LineStatusOptions = []string{"active", "void"}

// LineSourceOptions returns the list of line source options.
var LineSourceOptions = []string{"manual", "import"}

// ProjectTypeOptions returns the list of bid project type options.
var ProjectTypeOptions = []string{"commercial", "industrial", "bridge", "institutional"}

// BidStatusOptions returns the list of bid status options.
var BidStatusOptions = []string{"draft", "in_review", "submitted", "won", "lost"}

// DocTypeOptions returns the list of bid document type options.
var DocTypeOptions = []string{"drawings", "specification", "addendum", "geotech", "other"}

// UOMOptions returns the list of Unit of Measurement options.
var UOMOptions = []string{
	"EA",
	"LBS",
	"TON",
	"LF",
	"SF",
	"HR",
	"GAL",
	"LOT",
	"PCS",
}
