package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "Salary negotiation coaching service",
	Long:  "Evaluates job offers against market compensation data, scores negotiation leverage and drafts counter-offer scripts. Also loads the H-1B and BLS OEWS datasets that back the market ranges.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
