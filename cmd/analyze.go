package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/pipeline"
)

var (
	analyzeIn  string
	analyzeOut string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis over a weekly plan spreadsheet",
	Long: `Parses the spreadsheet, classifies every dish into food groups and
tags, and scores both diet lines against the lunch rules in one run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := pipeline.New(cfg)
		if err != nil {
			return err
		}

		report, err := analyzer.AnalyzeFile(cmd.Context(), analyzeIn)
		if err != nil {
			return err
		}

		if err := writeJSONFile(analyzeOut, report); err != nil {
			return err
		}

		zap.L().Info("analyze: report written",
			zap.String("in", analyzeIn),
			zap.String("out", analyzeOut),
		)
		fmt.Printf("mixed: %.3f  ovo_lacto_vegetarian: %.3f\n",
			report.Mixed.Summary.Score, report.OvoLactoVegetarian.Summary.Score)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeIn, "in", "", "input plan spreadsheet (.xlsx)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "foodplan.report.json", "output report document")
	_ = analyzeCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(analyzeCmd)
}
