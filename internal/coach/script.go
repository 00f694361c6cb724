package coach

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/estimate"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/script"
)

// ScriptInput asks for a negotiation email. When SessionID names a stored
// scorecard, missing offer, market and leverage details are taken from it.
// A market median left at zero is resolved from the dataset.
type ScriptInput struct {
	SessionID       string              `json:"sessionId,omitempty"`
	JobTitle        string              `json:"jobTitle"`
	CompanyName     string              `json:"companyName,omitempty"`
	YearsExperience *int                `json:"yearsExperience,omitempty"`
	Location        string              `json:"location"`
	CurrentOffer    int                 `json:"currentOffer"`
	BonusSummary    string              `json:"bonusSummary,omitempty"`
	MarketLow       int                 `json:"marketLow,omitempty"`
	MarketMedian    int                 `json:"marketMedian"`
	MarketHigh      int                 `json:"marketHigh,omitempty"`
	LeverageTier    model.Tier          `json:"leverageTier,omitempty"`
	SuggestedRange  *model.PercentRange `json:"suggestedRange,omitempty"`
	Scenario        model.Scenario      `json:"scenario,omitempty"`
	Tone            model.Tone          `json:"tone,omitempty"`
	AskAmount       *int                `json:"askAmount,omitempty"`
}

func validateScript(in ScriptInput) error {
	var issues []string
	if strings.TrimSpace(in.JobTitle) == "" {
		issues = append(issues, "jobTitle is required")
	}
	if in.CurrentOffer <= 0 {
		issues = append(issues, "currentOffer must be positive")
	}
	if in.MarketMedian < 0 || in.MarketLow < 0 || in.MarketHigh < 0 {
		issues = append(issues, "market figures must not be negative")
	}
	if y := in.YearsExperience; y != nil && (*y < 0 || *y > maxYearsExperience) {
		issues = append(issues, "yearsExperience must be between 0 and 50")
	}
	if in.Scenario != "" && !in.Scenario.Valid() {
		issues = append(issues, "scenario must be one of external, internal_raise, retention")
	}
	if in.Tone != "" && !in.Tone.Valid() {
		issues = append(issues, "tone must be one of polite, professional, aggressive")
	}
	if in.LeverageTier != "" && !in.LeverageTier.Valid() {
		issues = append(issues, "leverageTier must be one of low, moderate, high")
	}
	if in.AskAmount != nil && *in.AskAmount <= 0 {
		issues = append(issues, "askAmount must be positive")
	}
	if r := in.SuggestedRange; r != nil && (r.Min < 0 || r.Max < r.Min) {
		issues = append(issues, "suggestedRange must satisfy 0 <= minPercent <= maxPercent")
	}
	return invalid(issues)
}

// fillFromEvaluation copies offer details the caller left blank from a
// stored scorecard.
func fillFromEvaluation(in ScriptInput, ev *model.OfferEvaluation) ScriptInput {
	if in.JobTitle == "" {
		in.JobTitle = ev.JobTitle
	}
	if in.CompanyName == "" {
		in.CompanyName = ev.CompanyName
	}
	if in.YearsExperience == nil {
		years := ev.YearsExperience
		in.YearsExperience = &years
	}
	if in.Location == "" {
		in.Location = ev.Location
	}
	if in.CurrentOffer == 0 {
		in.CurrentOffer = ev.BaseSalaryOffered
	}
	if in.MarketMedian == 0 {
		in.MarketLow, in.MarketMedian, in.MarketHigh = ev.MarketMin, ev.MarketMedian, ev.MarketMax
	}
	if in.LeverageTier == "" && ev.LeverageTier.Valid() {
		in.LeverageTier = ev.LeverageTier
	}
	if in.BonusSummary == "" && ev.BonusPercent != nil && *ev.BonusPercent > 0 {
		in.BonusSummary = "a " + strconv.FormatFloat(*ev.BonusPercent, 'f', -1, 64) + "% annual bonus"
	}
	return in
}

// fillMarket resolves the market range for a request that carried none.
func (s *Service) fillMarket(ctx context.Context, in ScriptInput) ScriptInput {
	q := estimate.Query{
		JobTitle: strings.TrimSpace(in.JobTitle),
		Location: strings.TrimSpace(in.Location),
	}
	if in.YearsExperience != nil {
		q.YearsExperience = *in.YearsExperience
	}
	mr := s.resolver.Resolve(ctx, q)
	in.MarketMedian = mr.Median
	if in.MarketLow == 0 {
		in.MarketLow = mr.Min
	}
	if in.MarketHigh == 0 {
		in.MarketHigh = mr.Max
	}
	zap.L().Debug("coach: resolved market for script",
		zap.String("job_title", q.JobTitle),
		zap.String("tier", mr.MatchTier),
		zap.Int("median", mr.Median),
	)
	return in
}

// Script composes a negotiation email and stores it.
func (s *Service) Script(ctx context.Context, in ScriptInput) (*model.ScriptResult, error) {
	in.SessionID = strings.TrimSpace(in.SessionID)
	if in.SessionID != "" {
		ev, err := s.store.GetOfferEvaluation(ctx, in.SessionID)
		if err != nil {
			return nil, storeErr(err, "coach: load evaluation for script")
		}
		in = fillFromEvaluation(in, ev)
	}
	if err := validateScript(in); err != nil {
		return nil, err
	}

	if in.Scenario == "" {
		in.Scenario = model.ScenarioExternal
	}
	if in.Tone == "" {
		in.Tone = model.ToneProfessional
	}
	if in.LeverageTier == "" {
		in.LeverageTier = model.TierModerate
	}
	if in.MarketMedian == 0 {
		in = s.fillMarket(ctx, in)
	}
	years := 0
	if in.YearsExperience != nil {
		years = *in.YearsExperience
	}
	rng, _ := s.scorer.SuggestedRange(in.LeverageTier)
	if in.SuggestedRange != nil {
		rng = *in.SuggestedRange
	}

	res := s.composer.Compose(script.Context{
		JobTitle:        strings.TrimSpace(in.JobTitle),
		CompanyName:     strings.TrimSpace(in.CompanyName),
		YearsExperience: years,
		Location:        strings.TrimSpace(in.Location),
		CurrentOffer:    in.CurrentOffer,
		BonusSummary:    in.BonusSummary,
		MarketLow:       in.MarketLow,
		MarketMedian:    in.MarketMedian,
		MarketHigh:      in.MarketHigh,
		LeverageTier:    in.LeverageTier,
		SuggestedRange:  rng,
		Scenario:        in.Scenario,
		Tone:            in.Tone,
		AskAmount:       in.AskAmount,
	})

	ss := &model.ScriptSession{
		ID:           s.newID(),
		SessionID:    in.SessionID,
		Scenario:     in.Scenario,
		Tone:         res.Tone,
		CurrentOffer: in.CurrentOffer,
		TargetAmount: res.TargetAmount,
		Body:         res.Body,
		CreatedAt:    s.now(),
	}
	if err := s.store.SaveScriptSession(ctx, ss); err != nil {
		return nil, storeErr(err, "coach: save script session")
	}
	res.ScriptID = ss.ID

	zap.L().Info("coach: script composed",
		zap.String("script_id", ss.ID),
		zap.String("scenario", string(ss.Scenario)),
		zap.String("tone", string(ss.Tone)),
		zap.Int("target_amount", ss.TargetAmount),
	)
	return &res, nil
}
