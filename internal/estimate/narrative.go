package estimate

import (
	"strconv"
	"strings"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/money"
)

// NarrativeInput is the offer context a narrative sentence refers to.
type NarrativeInput struct {
	JobTitle        string
	YearsExperience int
	Location        string
}

// Narrator renders the explanatory sentence for each zone. Templates may use
// {title}, {years}, {location}, {gap} and {pct}.
type Narrator struct {
	Templates map[model.Zone]string
}

// DefaultNarrator returns the scorecard wording.
func DefaultNarrator() Narrator {
	return Narrator{Templates: map[model.Zone]string{
		model.ZoneVeryUnderpaid: "Based on your role as {title} with {years} years of experience in {location}, " +
			"you're significantly below market. You're leaving approximately {gap} ({pct}) on the table. " +
			"Strong negotiation is recommended.",
		model.ZoneUnderpaid: "Based on market data for {title} roles with your experience level, " +
			"this offer is {pct} below the median. You could potentially negotiate {gap} more.",
		model.ZoneFair: "This offer is within the typical range for {title} roles with {years} years of experience. " +
			"You're within {gap} of the market median, a fair starting point.",
		model.ZoneAboveMarket: "This is a competitive offer, {pct} above market median for {title} roles. " +
			"You may still negotiate, but recognize this is already strong.",
		model.ZoneWellAboveMarket: "Excellent offer! This is {pct} above the market median for similar roles. " +
			"You're in a strong position, so any negotiation should focus on non-salary benefits.",
	}}
}

// Narrative returns the sentence for pos.Zone, or "" for an unknown zone.
// Gap and percentage are rendered as magnitudes.
func (n Narrator) Narrative(pos model.Position, in NarrativeInput) string {
	tmpl, ok := n.Templates[pos.Zone]
	if !ok {
		return ""
	}
	location := in.Location
	if strings.TrimSpace(location) == "" {
		location = "your area"
	}
	r := strings.NewReplacer(
		"{title}", in.JobTitle,
		"{years}", strconv.Itoa(in.YearsExperience),
		"{location}", location,
		"{gap}", money.Format(abs(pos.Difference)),
		"{pct}", money.Percent(abs(pos.DifferencePercent)),
	)
	return r.Replace(tmpl)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
