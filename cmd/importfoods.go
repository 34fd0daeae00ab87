package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/fetcher"
	"github.com/genau-project/speisecheck/internal/importer"
	"github.com/genau-project/speisecheck/internal/store"
)

var importXLSXPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the BLS nutrient spreadsheet into the lookup store",
	Long: `Replaces the whole foods table with the rows of the given BLS
export. The import is destructive and reproducible: running it twice
against the same file yields the same store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rows, err := fetcher.ReadXLSX(importXLSXPath, fetcher.XLSXOptions{})
		if err != nil {
			return err
		}

		s, err := store.Open(ctx, store.Config{
			Driver:      cfg.Store.Driver,
			DatabaseURL: cfg.Store.DatabaseURL,
		})
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := importer.Import(ctx, s, rows)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.Int("imported", n),
			zap.String("xlsx", importXLSXPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importXLSXPath, "xlsx", "", "path to the BLS spreadsheet (required)")
	_ = importCmd.MarkFlagRequired("xlsx")
	rootCmd.AddCommand(importCmd)
}
