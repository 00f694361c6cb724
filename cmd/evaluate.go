package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

var (
	evalTitle    string
	evalLocation string
	evalOffer    int
	evalRemote   bool
	evalYears    int
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score one offer against the market and print the result as JSON",
	Long:  "Runs the same evaluation as POST /api/scorecard without storing a session.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("evaluate"); err != nil {
			return err
		}
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.Service.Evaluate(ctx, model.ScorecardInput{
			JobTitle:          evalTitle,
			Location:          evalLocation,
			IsRemote:          evalRemote,
			BaseSalaryOffered: evalOffer,
			YearsExperience:   evalYears,
		})
		if err != nil {
			return eris.Wrap(err, "evaluate offer")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evalTitle, "title", "", "job title (required)")
	evaluateCmd.Flags().StringVar(&evalLocation, "location", "", "city, state or remote (required)")
	evaluateCmd.Flags().IntVar(&evalOffer, "offer", 0, "offered base salary in USD (required)")
	evaluateCmd.Flags().BoolVar(&evalRemote, "remote", false, "the role is remote")
	evaluateCmd.Flags().IntVar(&evalYears, "years", 0, "years of experience")
	_ = evaluateCmd.MarkFlagRequired("title")
	_ = evaluateCmd.MarkFlagRequired("location")
	_ = evaluateCmd.MarkFlagRequired("offer")
	rootCmd.AddCommand(evaluateCmd)
}
