// Package enrich orchestrates classification over a parsed plan and applies
// the plan-level normalization pass.
package enrich

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/classify"
	"github.com/genau-project/speisecheck/internal/model"
)

// Stats summarizes one enrichment run.
type Stats struct {
	TotalItems           int `json:"total_items"`
	MappedGroups         int `json:"mapped_groups"`
	UnmappedBeforeLookup int `json:"unmapped_before_lookup"`
	MappedViaLookup      int `json:"mapped_via_lookup"`
	StillUnmapped        int `json:"still_unmapped"`
}

// Enrich classifies every item in the plan and writes food group, confidence
// and tags back onto it. The plan is mutated in place; the caller hands over
// ownership for the duration of the call and the fields are written exactly
// once per item.
func Enrich(ctx context.Context, plan *model.Plan, classifier *classify.Classifier) Stats {
	var stats Stats

	for di := range plan.Days {
		day := &plan.Days[di]
		for mi := range day.Menus {
			menu := &day.Menus[mi]
			for ii := range menu.Items {
				item := &menu.Items[ii]
				stats.TotalItems++

				res := classifier.Classify(ctx, item.RawText)

				if res.FoodGroup == "" {
					stats.StillUnmapped++
				} else {
					stats.MappedGroups++
				}
				if res.FoodGroup == "" || res.UsedLookup {
					stats.UnmappedBeforeLookup++
				}
				if res.UsedLookup && res.FoodGroup != "" {
					stats.MappedViaLookup++
				}

				confidence := res.Confidence
				item.Links.Confidence = &confidence
				item.Links.FoodGroup = nil
				if res.FoodGroup != "" {
					group := res.FoodGroup
					item.Links.FoodGroup = &group
				}
				if res.UsedLookup {
					id, name := res.BLSID, res.BLSName
					item.Links.BLSID = &id
					item.Links.BLSName = &name
				}

				item.Tags = mergeSorted(item.Tags, res.Tags)
			}
		}
	}

	zap.L().Info("enrich: plan classified",
		zap.Int("total_items", stats.TotalItems),
		zap.Int("mapped_groups", stats.MappedGroups),
		zap.Int("mapped_via_lookup", stats.MappedViaLookup),
		zap.Int("still_unmapped", stats.StillUnmapped),
	)
	return stats
}

// mergeSorted unions two tag lists into a sorted, duplicate-free sequence.
func mergeSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, lst := range [][]string{a, b} {
		for _, t := range lst {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
