package enrich

import "github.com/genau-project/speisecheck/internal/model"

// canonical label fixes applied by NormalizePlan.
const (
	groupVegetables = "vegetables"
	tagRawVeg       = "raw_veg"
)

// NormalizePlan fixes known label inconsistencies on an enriched plan so the
// rule evaluation sees canonical values:
//
//  1. the aliases "vegetable"/"vegetables" unify to "vegetables"
//  2. a food group literally equal to "raw_veg" is not a valid group in the
//     target schema; it becomes group "vegetables" plus tag "raw_veg"
//
// The plan is mutated in place and returned for chaining. The pass is
// idempotent: applying it twice yields the same plan as applying it once.
func NormalizePlan(plan *model.Plan) *model.Plan {
	for di := range plan.Days {
		day := &plan.Days[di]
		for mi := range day.Menus {
			menu := &day.Menus[mi]
			for ii := range menu.Items {
				item := &menu.Items[ii]
				if item.Links.FoodGroup == nil {
					continue
				}

				switch *item.Links.FoodGroup {
				case "vegetable", groupVegetables:
					group := groupVegetables
					item.Links.FoodGroup = &group
				case tagRawVeg:
					group := groupVegetables
					item.Links.FoodGroup = &group
					item.Tags = mergeSorted(item.Tags, []string{tagRawVeg})
				}
			}
		}
	}
	return plan
}
