package model

// PlanSchemaVersion is the version stamped on every plan document we emit.
const PlanSchemaVersion = "1.0"

// MenuType identifies one of the three fixed menu lines in the weekly template.
type MenuType string

const (
	MenuTypeMischkost   MenuType = "mischkost"
	MenuTypeVegetarisch MenuType = "vegetarisch"
	MenuTypeDessert     MenuType = "dessert"
)

// Plan is the root document describing one week of lunch menus. It is created
// by the plan parser, enriched in place by the enrichment pipeline, and
// read-only once it reaches rule evaluation.
type Plan struct {
	SchemaVersion string  `json:"schema_version"`
	Source        Source  `json:"source"`
	Context       Context `json:"context"`
	Days          []Day   `json:"days"`
}

// Source describes where the plan document came from.
type Source struct {
	Type  string  `json:"type"`
	File  *string `json:"file"`
	Sheet string  `json:"sheet"`
}

// Context carries school/week metadata. The parser does not derive any of
// these from the spreadsheet; they stay null until someone fills them in.
type Context struct {
	School    *string `json:"school"`
	WeekLabel *string `json:"week_label"`
	Year      *int    `json:"year"`
	MealType  string  `json:"meal_type"`
	Timezone  string  `json:"timezone"`
}

// Day is one weekday block of the plan.
type Day struct {
	Date    *string `json:"date"`
	Weekday string  `json:"weekday"`
	Menus   []Menu  `json:"menus"`
}

// Menu is one menu line within a day.
type Menu struct {
	MenuType MenuType `json:"menu_type"`
	Items    []Item   `json:"items"`
}

// Item is a single dish. RawText is never empty; items that would end up
// empty are dropped during parsing.
type Item struct {
	RawText string   `json:"raw_text"`
	Portion *Portion `json:"portion"`
	Notes   []string `json:"notes"`
	Links   Links    `json:"links"`
	Tags    []string `json:"tags"`
}

// Portion is a parsed serving size. Only grams and milliliters are recognized.
type Portion struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Links holds the classification results attached to an item. BLSID and
// BLSName are only set when the lookup-store fallback produced the match.
type Links struct {
	BLSID      *string  `json:"bls_id"`
	BLSName    *string  `json:"bls_name,omitempty"`
	FoodGroup  *string  `json:"food_group"`
	Confidence *float64 `json:"confidence"`
}

// TotalItems counts every item across all days and menus.
func (p *Plan) TotalItems() int {
	n := 0
	for _, day := range p.Days {
		for _, menu := range day.Menus {
			n += len(menu.Items)
		}
	}
	return n
}
