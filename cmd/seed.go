package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/dataset"
)

var (
	seedReplace bool
	seedValue   uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a generated sample dataset for local development",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("seed"); err != nil {
			return err
		}
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		im := dataset.NewImporter(e.Store, e.Cache, cfg.Dataset.BatchSize)
		n, err := im.Seed(ctx, seedValue, seedReplace)
		if err != nil {
			return eris.Wrap(err, "seed dataset")
		}

		zap.L().Info("seed complete", zap.Int64("records", n), zap.Uint64("seed", seedValue))
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedReplace, "replace", false, "delete existing records before seeding")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 42, "random seed for the generated records")
	rootCmd.AddCommand(seedCmd)
}
