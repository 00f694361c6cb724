// Package estimate resolves the market salary range for an offer and places
// the offer inside it.
package estimate

import (
	"context"
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/store"
)

// Dataset is the read side of the compensation store the resolver needs.
type Dataset interface {
	SalaryPercentiles(ctx context.Context, filter store.RangeFilter) (*model.Percentiles, error)
}

// Query describes the offer a market range is resolved for.
type Query struct {
	JobTitle        string
	Location        string
	IsRemote        bool
	YearsExperience int
}

// Match is the normalized form of a Query handed to each tier's filter.
type Match struct {
	Title  string   // trimmed job title
	Tokens []string // lowercased title words longer than two characters
	State  string   // two-letter state, empty when remote or not present
}

// Tier is one step of the fallback chain: how to filter the dataset, how
// many samples make the result acceptable, and how confident it is.
type Tier struct {
	Name       string
	MinSamples int
	Filter     func(m Match) (store.RangeFilter, bool) // false skips the tier
	Confidence func(n int) float64
}

// Fallback is used when no tier accepts. Defaults apply when the dataset is
// empty or unavailable.
type Fallback struct {
	Name       string
	Confidence float64
	Defaults   model.Percentiles
}

// DefaultTiers returns the title+state, title, exact-title chain.
func DefaultTiers() []Tier {
	return []Tier{
		{
			Name:       "title_location",
			MinSamples: 5,
			Filter: func(m Match) (store.RangeFilter, bool) {
				if len(m.Tokens) == 0 || m.State == "" {
					return store.RangeFilter{}, false
				}
				return store.RangeFilter{TitleTokens: m.Tokens, State: m.State}, true
			},
			Confidence: func(n int) float64 { return math.Min(0.95, 0.7+float64(n)/200*0.25) },
		},
		{
			Name:       "title",
			MinSamples: 3,
			Filter: func(m Match) (store.RangeFilter, bool) {
				if len(m.Tokens) == 0 {
					return store.RangeFilter{}, false
				}
				return store.RangeFilter{TitleTokens: m.Tokens}, true
			},
			Confidence: func(n int) float64 { return math.Min(0.85, 0.5+float64(n)/300*0.35) },
		},
		{
			Name:       "exact_title",
			MinSamples: 1,
			Filter: func(m Match) (store.RangeFilter, bool) {
				if m.Title == "" {
					return store.RangeFilter{}, false
				}
				return store.RangeFilter{ExactTitle: m.Title}, true
			},
			Confidence: func(n int) float64 { return math.Min(0.9, 0.6+float64(n)/100*0.3) },
		},
	}
}

// DefaultFallback returns the broad whole-dataset fallback.
func DefaultFallback() Fallback {
	return Fallback{
		Name:       "broad",
		Confidence: 0.2,
		Defaults:   model.Percentiles{P10: 70000, P25: 85000, P50: 100000, P75: 130000, P90: 175000},
	}
}

// Resolver walks its tiers in order and returns the first acceptable range.
type Resolver struct {
	data     Dataset
	tiers    []Tier
	fallback Fallback
}

// NewResolver creates a resolver. A nil dataset always yields the fallback
// defaults.
func NewResolver(data Dataset, tiers []Tier, fallback Fallback) *Resolver {
	return &Resolver{data: data, tiers: tiers, fallback: fallback}
}

var statePattern = regexp.MustCompile(`\b([A-Z]{2})\b`)

// ParseState extracts the first standalone two-letter uppercase code from a
// location such as "Austin, TX".
func ParseState(location string) string {
	m := statePattern.FindStringSubmatch(location)
	if m == nil {
		return ""
	}
	return m[1]
}

// TitleTokens lowercases title and keeps whitespace-separated words longer
// than two characters.
func TitleTokens(title string) []string {
	var tokens []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if len(w) > 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// Resolve never fails: dataset errors are logged and the tier is treated as
// empty, ending at the fallback.
func (r *Resolver) Resolve(ctx context.Context, q Query) model.MarketRange {
	m := Match{
		Title:  strings.TrimSpace(q.JobTitle),
		Tokens: TitleTokens(q.JobTitle),
	}
	if !q.IsRemote {
		m.State = ParseState(q.Location)
	}

	if r.data != nil {
		for _, t := range r.tiers {
			filter, ok := t.Filter(m)
			if !ok {
				continue
			}
			p, err := r.data.SalaryPercentiles(ctx, filter)
			if err != nil {
				zap.L().Warn("estimate: tier query failed",
					zap.String("tier", t.Name),
					zap.String("job_title", q.JobTitle),
					zap.Error(err),
				)
				continue
			}
			if p.Count < t.MinSamples {
				continue
			}

			mr := rangeFrom(*p, p.Count, t.Confidence(p.Count), t.Name)
			zap.L().Info("estimate: market range resolved",
				zap.String("tier", t.Name),
				zap.String("job_title", q.JobTitle),
				zap.String("state", m.State),
				zap.Int("years_experience", q.YearsExperience),
				zap.Int("sample_size", mr.SampleSize),
				zap.Float64("confidence", mr.Confidence),
			)
			return mr
		}
	}

	return r.resolveFallback(ctx, q)
}

func (r *Resolver) resolveFallback(ctx context.Context, q Query) model.MarketRange {
	p := r.fallback.Defaults
	if r.data != nil {
		got, err := r.data.SalaryPercentiles(ctx, store.RangeFilter{})
		switch {
		case err != nil:
			zap.L().Warn("estimate: fallback query failed, using defaults", zap.Error(err))
		case got.Count > 0:
			p = *got
		}
	}

	zap.L().Info("estimate: market range fell back",
		zap.String("tier", r.fallback.Name),
		zap.String("job_title", q.JobTitle),
		zap.String("location", q.Location),
	)
	return rangeFrom(p, 0, r.fallback.Confidence, r.fallback.Name)
}

// rangeFrom maps p10..p90 onto min..max and forces the breakpoints to be
// non-decreasing.
func rangeFrom(p model.Percentiles, sampleSize int, confidence float64, tier string) model.MarketRange {
	vals := []int{p.P10, p.P25, p.P50, p.P75, p.P90}
	for i := 1; i < len(vals); i++ {
		vals[i] = max(vals[i], vals[i-1])
	}
	return model.MarketRange{
		Min:        vals[0],
		P25:        vals[1],
		Median:     vals[2],
		P75:        vals[3],
		Max:        vals[4],
		SampleSize: sampleSize,
		Confidence: confidence,
		MatchTier:  tier,
	}
}
