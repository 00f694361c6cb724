package coach

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

var feedbackTools = map[string]bool{"scorecard": true, "quiz": true, "script": true}

const maxCommentLen = 2000

// FeedbackInput is a rating of one coaching tool.
type FeedbackInput struct {
	SessionID string `json:"sessionId,omitempty"`
	Tool      string `json:"tool"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// Feedback stores a tool rating.
func (s *Service) Feedback(ctx context.Context, in FeedbackInput) error {
	var issues []string
	if !feedbackTools[in.Tool] {
		issues = append(issues, "tool must be one of scorecard, quiz, script")
	}
	if in.Rating < 1 || in.Rating > 5 {
		issues = append(issues, "rating must be between 1 and 5")
	}
	if len(in.Comment) > maxCommentLen {
		issues = append(issues, "comment must be at most 2000 characters")
	}
	if err := invalid(issues); err != nil {
		return err
	}

	fb := &model.Feedback{
		ID:        s.newID(),
		SessionID: strings.TrimSpace(in.SessionID),
		Tool:      in.Tool,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: s.now(),
	}
	if err := s.store.SaveFeedback(ctx, fb); err != nil {
		return storeErr(err, "coach: save feedback")
	}
	zap.L().Info("coach: feedback recorded", zap.String("tool", fb.Tool), zap.Int("rating", fb.Rating))
	return nil
}
