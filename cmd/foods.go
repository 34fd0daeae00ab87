package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/genau-project/speisecheck/internal/store"
)

var foodsLimit int

var foodsCmd = &cobra.Command{
	Use:   "foods <query>",
	Short: "Search the lookup store by food name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")

		s, err := store.Open(ctx, store.Config{
			Driver:      cfg.Store.Driver,
			DatabaseURL: cfg.Store.DatabaseURL,
		})
		if err != nil {
			return err
		}
		defer s.Close()

		foods, err := s.SearchByName(ctx, query, foodsLimit)
		if err != nil {
			return err
		}
		if len(foods) == 0 {
			fmt.Println("no matches")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tKCAL\tWATER\tPROTEIN\tFAT\tCARBS")
		for _, f := range foods {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				f.ID, f.NameDE,
				fmtNutrient(f.Per100g.EnergyKcal),
				fmtNutrient(f.Per100g.WaterG),
				fmtNutrient(f.Per100g.ProteinG),
				fmtNutrient(f.Per100g.FatG),
				fmtNutrient(f.Per100g.CarbsG),
			)
		}
		return w.Flush()
	},
}

func fmtNutrient(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func init() {
	foodsCmd.Flags().IntVar(&foodsLimit, "limit", 20, "maximum number of results")
	rootCmd.AddCommand(foodsCmd)
}
