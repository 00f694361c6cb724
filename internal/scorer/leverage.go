package scorer

import (
	"cmp"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

// LeverageScorer scores survey answers against a LeverageConfig.
type LeverageScorer struct {
	cfg LeverageConfig
}

// NewLeverageScorer creates a scorer for cfg. Callers should run
// ValidateConfig on non-default configs first.
func NewLeverageScorer(cfg LeverageConfig) *LeverageScorer {
	return &LeverageScorer{cfg: cfg}
}

// AllowedAnswers returns the accepted answers for question in a stable
// order, or nil for an unknown question.
func (s *LeverageScorer) AllowedAnswers(question string) []string {
	answers, ok := s.cfg.Weights[question]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(answers[a], answers[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return keys
}

// Tier returns the band a clamped score falls in.
func (s *LeverageScorer) Tier(score int) model.Tier {
	switch {
	case score <= s.cfg.LowMax:
		return model.TierLow
	case score <= s.cfg.ModerateMax:
		return model.TierModerate
	default:
		return model.TierHigh
	}
}

// Score sums the answer weights, clamps to [0, 100] and attaches the tier
// advice. Unknown answers contribute nothing.
func (s *LeverageScorer) Score(a model.LeverageAnswers) model.LeverageResult {
	var sum float64
	for q, ans := range a.ByQuestion() {
		sum += s.cfg.Weights[q][ans]
	}
	score := int(math.Round(math.Min(math.Max(sum, 0), 100)))
	tier := s.Tier(score)
	adv := s.cfg.Advice[tier]

	zap.L().Debug("scorer: leverage scored",
		zap.Float64("raw", sum),
		zap.Int("score", score),
		zap.String("tier", string(tier)),
	)

	return model.LeverageResult{
		Score:          score,
		Tier:           tier,
		TierLabel:      adv.Label,
		Tagline:        adv.Tagline,
		Tactics:        slices.Clone(adv.Tactics),
		SuggestedRange: model.SuggestedRange{MinPercent: adv.Range.Min, MaxPercent: adv.Range.Max},
		RiskAssessment: adv.Risk,
	}
}

// ScoreWithOffer is Score plus the suggested range applied to offer.
func (s *LeverageScorer) ScoreWithOffer(a model.LeverageAnswers, offer int) model.LeverageResult {
	res := s.Score(a)
	lo := int(math.Round(float64(offer) * res.SuggestedRange.MinPercent / 100))
	hi := int(math.Round(float64(offer) * res.SuggestedRange.MaxPercent / 100))
	res.SuggestedRange.MinDollars, res.SuggestedRange.MaxDollars = &lo, &hi
	return res
}

// SuggestedRange returns the counter range configured for tier.
func (s *LeverageScorer) SuggestedRange(tier model.Tier) (model.PercentRange, bool) {
	adv, ok := s.cfg.Advice[tier]
	return adv.Range, ok
}
