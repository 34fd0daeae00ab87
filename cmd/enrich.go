package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/enrich"
	"github.com/genau-project/speisecheck/internal/model"
	"github.com/genau-project/speisecheck/internal/pipeline"
)

var (
	enrichIn       string
	enrichOut      string
	enrichNoLookup bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Classify the dishes of a plan document into food groups and tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := pipeline.New(cfg)
		if err != nil {
			return err
		}

		var plan model.Plan
		if err := readJSONFile(enrichIn, &plan); err != nil {
			return err
		}

		classifier := analyzer.Classifier(nil)
		if !enrichNoLookup {
			lookup, closeLookup := analyzer.OpenLookup(cmd.Context())
			defer closeLookup()
			classifier = analyzer.Classifier(lookup)
		}

		stats := enrich.Enrich(cmd.Context(), &plan, classifier)
		enrich.NormalizePlan(&plan)

		if err := writeJSONFile(enrichOut, &plan); err != nil {
			return err
		}

		zap.L().Info("enrich: plan written", zap.String("out", enrichOut))
		fmt.Printf("items: %d  mapped: %d  via lookup: %d  unmapped: %d\n",
			stats.TotalItems, stats.MappedGroups, stats.MappedViaLookup, stats.StillUnmapped)
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichIn, "in", "", "input plan document")
	enrichCmd.Flags().StringVar(&enrichOut, "out", "foodplan.enriched.json", "output enriched plan document")
	enrichCmd.Flags().BoolVar(&enrichNoLookup, "no-lookup", false, "disable the lookup-store fallback")
	_ = enrichCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(enrichCmd)
}
