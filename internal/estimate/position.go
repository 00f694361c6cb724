package estimate

import (
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/interp"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

// ZoneBand assigns Zone to percentiles below Below.
type ZoneBand struct {
	Below int
	Zone  model.Zone
}

// Scale maps an offer onto a percentile and zone.
type Scale struct {
	BelowMin float64    // percentile for offers at or below the market min
	AboveMax float64    // percentile for offers above the market max
	Anchors  [5]float64 // percentiles at min, p25, median, p75, max
	Bands    []ZoneBand // ascending by Below
	Top      model.Zone // zone at or above the last band
}

// DefaultScale returns the 10/25/50/75/95 anchored scale.
func DefaultScale() Scale {
	return Scale{
		BelowMin: 5,
		AboveMax: 95,
		Anchors:  [5]float64{10, 25, 50, 75, 95},
		Bands: []ZoneBand{
			{Below: 20, Zone: model.ZoneVeryUnderpaid},
			{Below: 40, Zone: model.ZoneUnderpaid},
			{Below: 60, Zone: model.ZoneFair},
			{Below: 80, Zone: model.ZoneAboveMarket},
		},
		Top: model.ZoneWellAboveMarket,
	}
}

// Classify places offer inside mr. The result is non-decreasing in offer.
// An offer equal to an interior median lands on the median anchor; offers at
// or below the min clamp to BelowMin even when the median equals the min.
func (s Scale) Classify(offer int, mr model.MarketRange) model.Position {
	pct := s.percentile(float64(offer), mr)
	p := min(max(interp.RoundHalfUp(pct), 0), 100)

	diff := offer - mr.Median
	diffPct := 0
	if mr.Median != 0 {
		diffPct = interp.RoundHalfUp(float64(diff) / float64(mr.Median) * 100)
	}

	return model.Position{
		Percentile:        p,
		Zone:              s.zone(p),
		Difference:        diff,
		DifferencePercent: diffPct,
	}
}

func (s Scale) percentile(offer float64, mr model.MarketRange) float64 {
	switch {
	case offer == float64(mr.Median) && mr.Median > mr.Min:
		return s.Anchors[2]
	case offer <= float64(mr.Min):
		return s.BelowMin
	case offer > float64(mr.Max):
		return s.AboveMax
	}
	xs := []float64{float64(mr.Min), float64(mr.P25), float64(mr.Median), float64(mr.P75), float64(mr.Max)}
	return interp.Piecewise(offer, xs, s.Anchors[:])
}

func (s Scale) zone(p int) model.Zone {
	for _, b := range s.Bands {
		if p < b.Below {
			return b.Zone
		}
	}
	return s.Top
}
