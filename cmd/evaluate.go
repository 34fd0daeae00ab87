package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/model"
	"github.com/genau-project/speisecheck/internal/pipeline"
	"github.com/genau-project/speisecheck/internal/rules"
)

var (
	evaluateIn  string
	evaluateOut string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score an enriched plan document against the lunch rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := pipeline.New(cfg)
		if err != nil {
			return err
		}

		var plan model.Plan
		if err := readJSONFile(evaluateIn, &plan); err != nil {
			return err
		}

		report, err := rules.EvaluateDual(cmd.Context(), &plan, analyzer.RuleDoc())
		if err != nil {
			return err
		}

		if err := writeJSONFile(evaluateOut, report); err != nil {
			return err
		}

		zap.L().Info("evaluate: report written", zap.String("out", evaluateOut))
		fmt.Printf("mixed: %.3f  ovo_lacto_vegetarian: %.3f\n",
			report.Mixed.Summary.Score, report.OvoLactoVegetarian.Summary.Score)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateIn, "in", "", "input enriched plan document")
	evaluateCmd.Flags().StringVar(&evaluateOut, "out", "foodplan.report.json", "output report document")
	_ = evaluateCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(evaluateCmd)
}
