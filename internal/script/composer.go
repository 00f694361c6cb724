// Package script composes negotiation emails from a phrase bank.
package script

import (
	"math"
	"strconv"
	"strings"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/interp"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/money"
)

// Context is everything known about the negotiation a script is written for.
type Context struct {
	JobTitle        string
	CompanyName     string
	YearsExperience int
	Location        string
	CurrentOffer    int
	BonusSummary    string // e.g. "a 10% annual bonus"; empty when none

	MarketLow    int
	MarketMedian int
	MarketHigh   int

	LeverageTier   model.Tier
	SuggestedRange model.PercentRange
	Scenario       model.Scenario
	Tone           model.Tone
	AskAmount      *int
}

// Weights drive the ask interpolation for tone and tier pairings without a
// hand-written ask.
type Weights struct {
	Tone map[model.Tone]float64
	Tier map[model.Tier]float64
}

// DefaultWeights returns the 0.3/0.5/0.8 blend weights.
func DefaultWeights() Weights {
	return Weights{
		Tone: map[model.Tone]float64{model.TonePolite: 0.3, model.ToneProfessional: 0.5, model.ToneAggressive: 0.8},
		Tier: map[model.Tier]float64{model.TierLow: 0.3, model.TierModerate: 0.5, model.TierHigh: 0.8},
	}
}

// Above-market percentage floors.
const (
	aboveMarketMinFloor = 2.0
	aboveMarketMaxFloor = 5.0
)

// Composer builds scripts from a phrase bank.
type Composer struct {
	phrases *PhraseBank
	weights Weights
}

// NewComposer creates a composer over phrases.
func NewComposer(phrases *PhraseBank, weights Weights) *Composer {
	return &Composer{phrases: phrases, weights: weights}
}

// normalize fills unset enums with the professional, moderate, external
// defaults.
func normalize(c Context) Context {
	if !c.Scenario.Valid() {
		c.Scenario = model.ScenarioExternal
	}
	if !c.Tone.Valid() {
		c.Tone = model.ToneProfessional
	}
	if !c.LeverageTier.Valid() {
		c.LeverageTier = model.TierModerate
	}
	return c
}

func aboveMarket(c Context) bool {
	return c.CurrentOffer >= c.MarketMedian
}

// TargetAmount computes the dollar figure the script asks for.
func (cp *Composer) TargetAmount(c Context) int {
	c = normalize(c)
	if c.AskAmount != nil {
		return *c.AskAmount
	}

	lo, hi := c.SuggestedRange.Min, c.SuggestedRange.Max
	if aboveMarket(c) {
		lo = math.Max(lo/2, aboveMarketMinFloor)
		hi = math.Max(hi/2, aboveMarketMaxFloor)
	}

	var pct float64
	switch comboKey(c.Tone, c.LeverageTier) {
	case comboKey(model.TonePolite, model.TierLow):
		pct = lo
	case comboKey(model.ToneProfessional, model.TierModerate):
		pct = (lo + hi) / 2
	case comboKey(model.ToneAggressive, model.TierHigh):
		pct = hi
	default:
		factor := (cp.weights.Tone[c.Tone] + cp.weights.Tier[c.LeverageTier]) / 2
		pct = interp.Lerp(lo, hi, factor)
	}

	return int(math.Round(float64(c.CurrentOffer) * (1 + pct/100)))
}

// Compose renders the subject and body for c. It always produces a body.
func (cp *Composer) Compose(c Context) model.ScriptResult {
	c = normalize(c)
	target := cp.TargetAmount(c)
	r := cp.replacer(c, target)

	sections := cp.sections(c)
	for i, s := range sections {
		sections[i] = r.Replace(s)
	}

	return model.ScriptResult{
		Subject:        r.Replace(cp.phrases.Subject[c.Scenario][c.Tone]),
		Body:           strings.Join(sections, "\n\n"),
		Tone:           c.Tone,
		TargetAmount:   target,
		ContextSummary: Summary(c),
	}
}

// sections returns the unrendered templates in message order.
func (cp *Composer) sections(c Context) []string {
	pb := cp.phrases
	above := aboveMarket(c)

	out := []string{pb.Opener[c.Scenario][c.Tone]}
	if c.Scenario == model.ScenarioExternal {
		recap := pb.Recap[c.Tone]
		if c.BonusSummary != "" {
			recap += " " + pb.RecapBonus[c.Tone]
		}
		out = append(out, recap)
	}
	out = append(out, pb.Framing[c.Scenario][c.Tone])
	if !above {
		out = append(out, pb.Gap[c.Tone])
	}
	out = append(out, cp.ask(c, above), pb.Collaboration[c.Tone], pb.Closing[c.Scenario][c.Tone])
	return out
}

func (cp *Composer) ask(c Context, above bool) string {
	if above {
		return cp.phrases.Ask.AboveMarket[c.Tone]
	}
	key := comboKey(c.Tone, c.LeverageTier)
	if pureCombos[key] {
		return cp.phrases.Ask.Pure[key]
	}
	return cp.phrases.Ask.Mixed[key]
}

func (cp *Composer) replacer(c Context, target int) *strings.Replacer {
	company := strings.TrimSpace(c.CompanyName)
	companyRef := ""
	if company != "" {
		companyRef = " at " + company
	} else {
		company = "the company"
	}
	location := strings.TrimSpace(c.Location)
	if location == "" {
		location = "my area"
	}

	gap := max(c.MarketMedian-c.CurrentOffer, 0)
	gapPct := 0
	if c.MarketMedian > 0 {
		gapPct = interp.RoundHalfUp(float64(gap) / float64(c.MarketMedian) * 100)
	}

	return strings.NewReplacer(
		"{title}", c.JobTitle,
		"{company_ref}", companyRef,
		"{company}", company,
		"{years}", strconv.Itoa(c.YearsExperience),
		"{location}", location,
		"{offer}", money.Format(c.CurrentOffer),
		"{median}", money.Format(c.MarketMedian),
		"{low}", money.Format(c.MarketLow),
		"{high}", money.Format(c.MarketHigh),
		"{target}", money.Format(target),
		"{gap}", money.Format(gap),
		"{gap_pct}", money.Percent(gapPct),
		"{bonus}", c.BonusSummary,
	)
}

// Summary is the one-line description shown next to a script, e.g.
// "Software Engineer · 5 yrs · Austin, TX · offer $90,000 vs median $100,000 · moderate leverage".
func Summary(c Context) string {
	c = normalize(c)
	var parts []string
	if c.JobTitle != "" {
		parts = append(parts, c.JobTitle)
	}
	parts = append(parts, strconv.Itoa(c.YearsExperience)+" yrs")
	if c.Location != "" {
		parts = append(parts, c.Location)
	}
	parts = append(parts,
		"offer "+money.Format(c.CurrentOffer)+" vs median "+money.Format(c.MarketMedian),
		string(c.LeverageTier)+" leverage",
	)
	return strings.Join(parts, " · ")
}
