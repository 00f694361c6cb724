package coach

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/estimate"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

// Experience bounds accepted for an offer.
const maxYearsExperience = 50

func validateScorecard(in model.ScorecardInput) error {
	var issues []string
	if strings.TrimSpace(in.JobTitle) == "" {
		issues = append(issues, "jobTitle is required")
	}
	if !in.IsRemote && strings.TrimSpace(in.Location) == "" {
		issues = append(issues, "location is required unless isRemote is set")
	}
	if in.BaseSalaryOffered <= 0 {
		issues = append(issues, "baseSalaryOffered must be positive")
	}
	if in.YearsExperience < 0 || in.YearsExperience > maxYearsExperience {
		issues = append(issues, "yearsExperience must be between 0 and 50")
	}
	if in.BonusPercent != nil && (*in.BonusPercent < 0 || *in.BonusPercent > 100) {
		issues = append(issues, "bonusPercent must be between 0 and 100")
	}
	return invalid(issues)
}

// Evaluate resolves the market range for in and places the offer in it
// without persisting anything.
func (s *Service) Evaluate(ctx context.Context, in model.ScorecardInput) (*model.ScorecardResult, error) {
	if err := validateScorecard(in); err != nil {
		return nil, err
	}
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.Location = strings.TrimSpace(in.Location)

	mr := s.resolver.Resolve(ctx, estimate.Query{
		JobTitle:        in.JobTitle,
		Location:        in.Location,
		IsRemote:        in.IsRemote,
		YearsExperience: in.YearsExperience,
	})
	pos := s.scale.Classify(in.BaseSalaryOffered, mr)
	narrative := s.narrator.Narrative(pos, estimate.NarrativeInput{
		JobTitle:        in.JobTitle,
		YearsExperience: in.YearsExperience,
		Location:        in.Location,
	})

	return &model.ScorecardResult{
		Input:       in,
		MarketRange: mr,
		Position:    pos,
		Narrative:   narrative,
		SampleSize:  mr.SampleSize,
		Confidence:  mr.Confidence,
	}, nil
}

// Scorecard evaluates in and stores the evaluation under a new session id.
func (s *Service) Scorecard(ctx context.Context, in model.ScorecardInput) (*model.ScorecardResult, error) {
	res, err := s.Evaluate(ctx, in)
	if err != nil {
		return nil, err
	}

	res.SessionID = s.newID()
	ev := &model.OfferEvaluation{
		SessionID:      res.SessionID,
		ScorecardInput: res.Input,
		MarketMin:      res.MarketRange.Min,
		MarketMedian:   res.MarketRange.Median,
		MarketMax:      res.MarketRange.Max,
		Difference:     res.Position.Difference,
		Percentile:     res.Position.Percentile,
		Zone:           res.Position.Zone,
		SampleSize:     res.SampleSize,
		Confidence:     res.Confidence,
		CreatedAt:      s.now(),
	}
	if err := s.store.SaveOfferEvaluation(ctx, ev); err != nil {
		return nil, storeErr(err, "coach: save offer evaluation")
	}

	zap.L().Info("coach: scorecard created",
		zap.String("session_id", res.SessionID),
		zap.String("job_title", res.Input.JobTitle),
		zap.String("zone", string(res.Position.Zone)),
		zap.Int("percentile", res.Position.Percentile),
		zap.String("match_tier", res.MarketRange.MatchTier),
	)
	return res, nil
}

// GetEvaluation returns a stored evaluation, with the leverage fields taken
// from the newest quiz response linked to it.
func (s *Service) GetEvaluation(ctx context.Context, sessionID string) (*model.OfferEvaluation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, invalid([]string{"sessionId is required"})
	}
	ev, err := s.store.GetOfferEvaluation(ctx, sessionID)
	if err != nil {
		return nil, storeErr(err, "coach: get offer evaluation")
	}
	return ev, nil
}
