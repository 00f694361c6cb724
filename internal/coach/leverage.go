package coach

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

// LeverageInput is a survey submission, optionally linked to a scorecard
// session and a concrete offer.
type LeverageInput struct {
	model.LeverageAnswers
	CurrentOffer *int   `json:"currentOffer,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
}

func (s *Service) validateLeverage(in LeverageInput) error {
	var issues []string
	for q, ans := range in.ByQuestion() {
		allowed := s.scorer.AllowedAnswers(q)
		if ans == "" {
			issues = append(issues, q+" is required")
			continue
		}
		if !slices.Contains(allowed, ans) {
			issues = append(issues, fmt.Sprintf("%s must be one of %s", q, strings.Join(allowed, ", ")))
		}
	}
	if in.CurrentOffer != nil && *in.CurrentOffer <= 0 {
		issues = append(issues, "currentOffer must be positive")
	}
	slices.Sort(issues)
	return invalid(issues)
}

// Leverage scores the survey and stores the response.
func (s *Service) Leverage(ctx context.Context, in LeverageInput) (*model.LeverageResult, error) {
	if err := s.validateLeverage(in); err != nil {
		return nil, err
	}

	var res model.LeverageResult
	if in.CurrentOffer != nil {
		res = s.scorer.ScoreWithOffer(in.LeverageAnswers, *in.CurrentOffer)
	} else {
		res = s.scorer.Score(in.LeverageAnswers)
	}

	qr := &model.QuizResponse{
		ID:           s.newID(),
		SessionID:    strings.TrimSpace(in.SessionID),
		Answers:      in.LeverageAnswers,
		CurrentOffer: in.CurrentOffer,
		Score:        res.Score,
		Tier:         res.Tier,
		CreatedAt:    s.now(),
	}
	if err := s.store.SaveQuizResponse(ctx, qr); err != nil {
		return nil, storeErr(err, "coach: save quiz response")
	}
	res.QuizResponseID = qr.ID
	res.LinkedSessionID = qr.SessionID

	zap.L().Info("coach: leverage scored",
		zap.String("quiz_id", qr.ID),
		zap.String("session_id", qr.SessionID),
		zap.Int("score", res.Score),
		zap.String("tier", string(res.Tier)),
	)
	return &res, nil
}
