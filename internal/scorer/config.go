// Package scorer turns the eight-question negotiation survey into a leverage
// score, tier and coaching advice.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

// TierAdvice is the fixed coaching text and suggested counter range for one
// leverage tier.
type TierAdvice struct {
	Label   string
	Tagline string
	Tactics []string
	Risk    string
	Range   model.PercentRange
}

// LeverageConfig holds everything the scorer needs. It is treated as
// immutable once handed to NewLeverageScorer.
type LeverageConfig struct {
	// Weights maps question -> answer -> points.
	Weights map[string]map[string]float64

	// Scores at or below LowMax are low; at or below ModerateMax are moderate.
	LowMax      int
	ModerateMax int

	Advice map[model.Tier]TierAdvice
}

// DefaultLeverageConfig returns the standard weight table and advice.
func DefaultLeverageConfig() LeverageConfig {
	return LeverageConfig{
		Weights: map[string]map[string]float64{
			model.QOtherOffers: {
				"none": 0, "one": 15, "two": 22, "three_plus": 30,
			},
			model.QCompanyUrgency: {
				"no_rush": 0, "normal": 6, "urgent": 15,
			},
			model.QSkillUniqueness: {
				"many_qualified": 0, "some_unique": 8, "rare_critical": 15,
			},
			model.QEmploymentStatus: {
				"unemployed": 0, "employed_looking": 5, "employed_happy": 10, "retention_offer": 12,
			},
			model.QPipelineProgress: {
				"not_interviewing": 0, "early_stages": 4, "final_rounds": 8, "deadlines_approaching": 12,
			},
			model.QManagerInvestment: {
				"standard_process": 0, "moderately_interested": 4, "very_invested": 8,
			},
			model.QCompanyFinancials: {
				"struggling": -5, "stable": 3, "growing_funded": 8,
			},
			model.QWillingnessToWalk: {
				"need_this_job": -10, "prefer_but_options": 5, "genuinely_indifferent": 10,
			},
		},
		LowMax:      33,
		ModerateMax: 66,
		Advice: map[model.Tier]TierAdvice{
			model.TierLow: {
				Label:   "Low Leverage",
				Tagline: "Focus on demonstrating value and building rapport.",
				Tactics: []string{
					"Lead with enthusiasm and genuine excitement about the role",
					"Frame your ask as 'bringing the offer closer to market' rather than demanding more",
					"Emphasize non-salary improvements: title, scope, flexibility, or start date",
					"Keep your counter modest and well-researched",
					"Focus on building rapport and demonstrating long-term value",
				},
				Risk: "Proceed carefully. There is increased risk of pushback if you push too hard. " +
					"Keep your ask modest, collaborative, and framed around mutual fit. " +
					"Employers rarely rescind offers for reasonable negotiation, but your position limits how boldly you can counter.",
				Range: model.PercentRange{Min: 5, Max: 10},
			},
			model.TierModerate: {
				Label:   "Moderate Leverage",
				Tagline: "You have room to negotiate confidently.",
				Tactics: []string{
					"Open with appreciation, then transition firmly to your market research",
					"Present your counter with confidence backed by specific data points",
					"Mention (without ultimatums) that you're evaluating other opportunities",
					"Negotiate multiple components: base, bonus, equity, sign-on",
					"Set a reasonable decision timeline that creates urgency",
				},
				Risk: "Low to moderate risk. A reasonable, well-framed ask is unlikely to jeopardize the offer. " +
					"You have enough leverage to negotiate confidently without appearing demanding. " +
					"Focus on professionalism and clear communication.",
				Range: model.PercentRange{Min: 10, Max: 15},
			},
			model.TierHigh: {
				Label:   "High Leverage",
				Tagline: "You're in the driver's seat – be bold.",
				Tactics: []string{
					"Lead with your competing offers and timeline constraints",
					"Anchor high: ask for 15-25% above their initial offer",
					"Negotiate aggressively on equity and sign-on bonus",
					"Request accelerated review timelines",
					"Be willing to walk away and let them know it",
				},
				Risk: "Low risk of offer withdrawal. You're in high demand; the main risk is misalignment on expectations " +
					"or burning bridges if you come across as arrogant. Be bold but respectful, and remember they want you.",
				Range: model.PercentRange{Min: 15, Max: 25},
			},
		},
	}
}

// ValidateConfig checks that a LeverageConfig is internally consistent.
func ValidateConfig(c LeverageConfig) error {
	var errs []string

	for _, q := range model.Questions {
		if len(c.Weights[q]) == 0 {
			errs = append(errs, fmt.Sprintf("no answers configured for %s", q))
		}
	}

	if c.LowMax < 0 || c.ModerateMax <= c.LowMax || c.ModerateMax >= 100 {
		errs = append(errs, fmt.Sprintf("tier thresholds must satisfy 0 <= low (%d) < moderate (%d) < 100", c.LowMax, c.ModerateMax))
	}

	for _, tier := range []model.Tier{model.TierLow, model.TierModerate, model.TierHigh} {
		a, ok := c.Advice[tier]
		if !ok {
			errs = append(errs, fmt.Sprintf("missing advice for %s tier", tier))
			continue
		}
		if a.Label == "" {
			errs = append(errs, fmt.Sprintf("%s tier label is empty", tier))
		}
		if len(a.Tactics) == 0 {
			errs = append(errs, fmt.Sprintf("%s tier has no tactics", tier))
		}
		if a.Range.Min < 0 || a.Range.Max < a.Range.Min {
			errs = append(errs, fmt.Sprintf("%s tier range must satisfy 0 <= min <= max", tier))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
