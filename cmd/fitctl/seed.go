package main

import (
	"github.com/2beens/fittrack/internal/workouts"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert reference data",
}

var seedCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Insert the default workout categories into an empty category table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		inserted, err := workouts.NewRepo(pool).SeedDefaultCategories(ctx)
		if err != nil {
			return err
		}
		if inserted == 0 {
			color.Yellow("categories already present, nothing inserted")
			return nil
		}
		color.Green("✓ inserted %d categories", inserted)
		for _, c := range workouts.DefaultCategories {
			color.New(color.Faint).Printf("  %s\n", c.Name)
		}
		return nil
	},
}

func init() {
	seedCmd.AddCommand(seedCategoriesCmd)
	rootCmd.AddCommand(seedCmd)
}
