// Package rules evaluates an enriched plan against a rule document and
// produces scored, explainable reports per diet line.
package rules

import (
	"context"
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/genau-project/speisecheck/internal/model"
)

// evidenceSampleLimit caps the evidence attached to a rule result.
const evidenceSampleLimit = 10

// aggregation holds the per-diet counts and evidence one evaluation run is
// scored against.
type aggregation struct {
	groupCounts   map[string]int
	tagCounts     map[string]int
	groupEvidence map[string][]model.Evidence
	tagEvidence   map[string][]model.Evidence
}

// aggregate walks every item included in the diet's run and accumulates
// food-group counts, tag counts and their evidence entries.
func aggregate(plan *model.Plan, diet model.Diet) aggregation {
	agg := aggregation{
		groupCounts:   map[string]int{},
		tagCounts:     map[string]int{},
		groupEvidence: map[string][]model.Evidence{},
		tagEvidence:   map[string][]model.Evidence{},
	}

	for _, day := range plan.Days {
		for _, menu := range day.Menus {
			if !model.MenuIncludedForDiet(menu.MenuType, diet) {
				continue
			}
			for _, item := range menu.Items {
				ev := model.Evidence{
					Weekday:  day.Weekday,
					MenuType: menu.MenuType,
					RawText:  item.RawText,
				}

				if item.Links.FoodGroup != nil {
					group := *item.Links.FoodGroup
					agg.groupCounts[group]++
					agg.groupEvidence[group] = append(agg.groupEvidence[group], ev)
				}

				for _, tag := range item.Tags {
					agg.tagCounts[tag]++
					agg.tagEvidence[tag] = append(agg.tagEvidence[tag], ev)
				}
			}
		}
	}

	return agg
}

// evaluateOperator applies a rule's comparison. Unknown operators are a
// fatal configuration error.
func evaluateOperator(actual int, operator string, threshold int) (bool, error) {
	switch operator {
	case model.OperatorMin:
		return actual >= threshold, nil
	case model.OperatorMax:
		return actual <= threshold, nil
	case model.OperatorEquals:
		return actual == threshold, nil
	default:
		return false, eris.Errorf("rules: unsupported operator %q", operator)
	}
}

// expectedText renders the operator/threshold pair for display.
func expectedText(operator string, threshold int) string {
	switch operator {
	case model.OperatorMin:
		return fmt.Sprintf("mind. %d", threshold)
	case model.OperatorMax:
		return fmt.Sprintf("max. %d", threshold)
	case model.OperatorEquals:
		return fmt.Sprintf("genau %d", threshold)
	default:
		return fmt.Sprintf("%s %d", operator, threshold)
	}
}

// evaluateRule computes the result of one rule against the aggregation. The
// actual count sums over all target values; evidence is the concatenation of
// each value's samples, capped per value and again after concatenation.
func evaluateRule(rule model.Rule, diet model.Diet, agg aggregation) (model.RuleResult, error) {
	actual := 0
	evidence := []model.Evidence{}

	switch rule.Target.CountBy {
	case model.CountByFoodGroup:
		for _, v := range rule.Target.Value {
			actual += agg.groupCounts[v]
			evidence = append(evidence, capEvidence(agg.groupEvidence[v])...)
		}
	case model.CountByTag:
		for _, v := range rule.Target.Value {
			actual += agg.tagCounts[v]
			evidence = append(evidence, capEvidence(agg.tagEvidence[v])...)
		}
	default:
		return model.RuleResult{}, eris.Errorf("rules: unsupported target.count_by %q in rule %s", rule.Target.CountBy, rule.ID)
	}

	passed, err := evaluateOperator(actual, rule.Operator, rule.Threshold)
	if err != nil {
		return model.RuleResult{}, eris.Wrapf(err, "rule %s", rule.ID)
	}

	return model.RuleResult{
		ID:             rule.ID,
		Label:          rule.Label,
		Diet:           rule.Diet,
		Applies:        rule.AppliesTo(diet),
		Target:         rule.Target,
		Operator:       rule.Operator,
		Threshold:      rule.Threshold,
		Expected:       expectedText(rule.Operator, rule.Threshold),
		Actual:         actual,
		Passed:         passed,
		Notes:          rule.Notes,
		EvidenceSample: capEvidence(evidence),
	}, nil
}

func capEvidence(ev []model.Evidence) []model.Evidence {
	if len(ev) > evidenceSampleLimit {
		return ev[:evidenceSampleLimit]
	}
	return ev
}

// EvaluateDiet produces the scored report for one diet. Every rule in the
// document is evaluated and reported, but only rules applicable to the diet
// contribute to the score.
func EvaluateDiet(plan *model.Plan, doc *model.RuleDoc, diet model.Diet) (*model.Report, error) {
	agg := aggregate(plan, diet)

	results := []model.RuleResult{}
	applicable := 0
	passed := 0
	for _, rule := range doc.Rules {
		res, err := evaluateRule(rule, diet, agg)
		if err != nil {
			return nil, err
		}
		if res.Applies {
			applicable++
			if res.Passed {
				passed++
			}
		}
		results = append(results, res)
	}

	score := 0.0
	if applicable > 0 {
		score = math.Round(float64(passed)/float64(applicable)*1000) / 1000
	}

	zap.L().Info("evaluate: diet scored",
		zap.String("diet", string(diet)),
		zap.Int("passed", passed),
		zap.Int("applicable", applicable),
		zap.Float64("score", score),
	)

	return &model.Report{
		SchemaVersion: model.ReportSchemaVersion,
		Diet:          diet,
		Scope:         doc.Scope,
		Summary: model.ReportSummary{
			ApplicableRules: applicable,
			PassedRules:     passed,
			Score:           score,
		},
		Counts: model.ReportCounts{
			FoodGroups: agg.groupCounts,
			Tags:       agg.tagCounts,
		},
		Rules: results,
	}, nil
}

// EvaluateDual runs both diet evaluations against the same enriched plan and
// rule document. The runs share no state, so they execute concurrently.
func EvaluateDual(ctx context.Context, plan *model.Plan, doc *model.RuleDoc) (*model.DualReport, error) {
	var mixed, veg *model.Report

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := EvaluateDiet(plan, doc, model.DietMixed)
		mixed = r
		return err
	})
	g.Go(func() error {
		r, err := EvaluateDiet(plan, doc, model.DietOvoLactoVegetarian)
		veg = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.DualReport{
		SchemaVersion:      model.ReportSchemaVersion,
		Mode:               "dual",
		Mixed:              mixed,
		OvoLactoVegetarian: veg,
	}, nil
}
