package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/fetcher"
	"github.com/genau-project/speisecheck/internal/planparse"
)

var (
	parseIn  string
	parseOut string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a weekly plan spreadsheet into a plan document",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := fetcher.ReadXLSX(parseIn, fetcher.XLSXOptions{
			SheetName:  cfg.Plan.Sheet,
			MaxColumns: planparse.UsedColumns,
		})
		if err != nil {
			return err
		}

		name := filepath.Base(parseIn)
		plan, err := planparse.Parse(rows, &name, cfg.Plan.Sheet)
		if err != nil {
			return err
		}

		if err := writeJSONFile(parseOut, plan); err != nil {
			return err
		}
		zap.L().Info("parse: plan written",
			zap.String("in", parseIn),
			zap.String("out", parseOut),
			zap.Int("items", plan.TotalItems()),
		)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseIn, "in", "", "input weekly plan .xlsx")
	parseCmd.Flags().StringVar(&parseOut, "out", "foodplan.json", "output plan document")
	_ = parseCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(parseCmd)
}
