package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/dataset"
)

var (
	importH1BPath  string
	importBLSPath  string
	importH1BLimit int
	importBLSLimit int
	importReplace  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load H-1B LCA and BLS OEWS files into the compensation table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if importH1BPath != "" {
			cfg.Dataset.H1BPath = importH1BPath
		}
		if importBLSPath != "" {
			cfg.Dataset.BLSPath = importBLSPath
		}
		if cmd.Flags().Changed("limit-h1b") {
			cfg.Dataset.H1BLimit = importH1BLimit
		}
		if cmd.Flags().Changed("limit-bls") {
			cfg.Dataset.BLSLimit = importBLSLimit
		}
		if err := cfg.Validate("import"); err != nil {
			return err
		}

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		im := dataset.NewImporter(e.Store, e.Cache, cfg.Dataset.BatchSize)
		sum, err := im.Run(ctx, dataset.SourcesFromConfig(cfg.Dataset), importReplace)
		if err != nil {
			return eris.Wrap(err, "import datasets")
		}

		zap.L().Info("import complete",
			zap.Int64("inserted", sum.Inserted),
			zap.Bool("replaced", sum.Replaced),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importH1BPath, "h1b", "", "path to the H-1B LCA disclosure CSV")
	importCmd.Flags().StringVar(&importBLSPath, "bls", "", "path to the BLS OEWS all-data file (.csv or .xlsx)")
	importCmd.Flags().IntVar(&importH1BLimit, "limit-h1b", 0, "max H-1B records to load (default from config)")
	importCmd.Flags().IntVar(&importBLSLimit, "limit-bls", 0, "max BLS records to load (default from config)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "delete existing records before loading")
	rootCmd.AddCommand(importCmd)
}
