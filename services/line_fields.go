package services

// TemplateField describes one column in an estimate line import template.
type TemplateField struct {
	Key            string // internal name, matches PocketBase field name
	Label          string // human-readable header shown in Excel
	Description    string // shown on the Instructions sheet
	FormatRule     string // e.g. "Non-negative number", ""
	ExampleValue   string // shown on the Instructions sheet
	AlwaysRequired bool   // true = the import rejects rows missing this value
	Numeric        bool   // true = value is parsed as a number on import
}

// LineImportTemplateFields returns the ordered list of columns for the
// estimate line import template. Labor cost is never imported directly;
// it is derived from hours and rate on commit.
func LineImportTemplateFields() []TemplateField {
	return []TemplateField{
		{Key: "category", Label: "Category", Description: "Cost category (select from dropdown)", FormatRule: "One of the category options", ExampleValue: "Main Steel", AlwaysRequired: true},
		{Key: "subcategory", Label: "Subcategory", Description: "Free-form grouping under the category", ExampleValue: "Wide flange"},
		{Key: "description", Label: "Description", Description: "What the line covers", ExampleValue: "W12x26 beams, typ. floor framing", AlwaysRequired: true},
		{Key: "kind", Label: "Kind", Description: "material = priced per unit weight, plate = priced off total weight", FormatRule: "material or plate", ExampleValue: "material", AlwaysRequired: true},
		{Key: "qty", Label: "Qty", Description: "Quantity in the unit of measure", FormatRule: "Non-negative number", ExampleValue: "64", Numeric: true},
		{Key: "uom", Label: "UOM", Description: "Unit of measure (select from dropdown)", ExampleValue: "EA"},
		{Key: "unit_weight_lbs", Label: "Unit Weight (lbs)", Description: "Weight per unit; material lines derive total weight as Qty x Unit Weight", FormatRule: "Non-negative number", ExampleValue: "1950", Numeric: true},
		{Key: "total_weight_lbs", Label: "Total Weight (lbs)", Description: "Total line weight; leave blank on material lines to derive it", FormatRule: "Non-negative number", ExampleValue: "124800", Numeric: true},
		{Key: "material_cost", Label: "Material Cost", Description: "Purchased material cost in dollars", FormatRule: "Non-negative number", ExampleValue: "98200", Numeric: true},
		{Key: "labor_hours", Label: "Labor Hours", Description: "Shop and field hours for the line", FormatRule: "Non-negative number", ExampleValue: "540", Numeric: true},
		{Key: "labor_rate", Label: "Labor Rate", Description: "Dollars per hour; labor cost is derived as Hours x Rate", FormatRule: "Non-negative number", ExampleValue: "86", Numeric: true},
		{Key: "coating_price", Label: "Coating Price ($/ton)", Description: "Coating price per ton of line weight", FormatRule: "Non-negative number", ExampleValue: "185", Numeric: true},
		{Key: "coating_cost", Label: "Coating Cost", Description: "Lump-sum coating cost; derived from price and weight when blank", FormatRule: "Non-negative number", ExampleValue: "11544", Numeric: true},
		{Key: "hardware_cost", Label: "Hardware Cost", Description: "Bolts, fasteners and misc hardware in dollars", FormatRule: "Non-negative number", ExampleValue: "2600", Numeric: true},
	}
}
