package model

import "time"

// Zone is the qualitative bucket of an offer's market percentile.
type Zone string

const (
	ZoneVeryUnderpaid   Zone = "very_underpaid"
	ZoneUnderpaid       Zone = "underpaid"
	ZoneFair            Zone = "fair"
	ZoneAboveMarket     Zone = "above_market"
	ZoneWellAboveMarket Zone = "well_above_market"
)

// MarketRange is the salary distribution resolved for one offer.
type MarketRange struct {
	Min        int     `json:"min"`
	P25        int     `json:"p25"`
	Median     int     `json:"median"`
	P75        int     `json:"p75"`
	Max        int     `json:"max"`
	SampleSize int     `json:"sampleSize"`
	Confidence float64 `json:"confidence"`
	MatchTier  string  `json:"matchTier,omitempty"`
}

// Position places an offer inside a MarketRange.
type Position struct {
	Percentile        int  `json:"percentile"`
	Zone              Zone `json:"zone"`
	Difference        int  `json:"difference"`
	DifferencePercent int  `json:"differencePercent"`
}

// ScorecardInput is the offer a user submits for evaluation.
type ScorecardInput struct {
	JobTitle          string   `json:"jobTitle"`
	CompanyName       string   `json:"companyName,omitempty"`
	YearsExperience   int      `json:"yearsExperience"`
	Seniority         string   `json:"seniority,omitempty"`
	Location          string   `json:"location"`
	IsRemote          bool     `json:"isRemote"`
	BaseSalaryOffered int      `json:"baseSalaryOffered"`
	BonusPercent      *float64 `json:"bonusPercent,omitempty"`
	EquityDetails     string   `json:"equityDetails,omitempty"`
}

// OfferEvaluation is the persisted record of one scorecard run. It is
// written once; the leverage fields are filled on read from the newest
// quiz response linked to the session.
type OfferEvaluation struct {
	SessionID string `json:"sessionId"`
	ScorecardInput
	MarketMin     int       `json:"marketMin"`
	MarketMedian  int       `json:"marketMedian"`
	MarketMax     int       `json:"marketMax"`
	Difference    int       `json:"difference"`
	Percentile    int       `json:"percentile"`
	Zone          Zone      `json:"zone"`
	SampleSize    int       `json:"sampleSize"`
	Confidence    float64   `json:"confidence"`
	LeverageScore *int      `json:"leverageScore,omitempty"`
	LeverageTier  Tier      `json:"leverageTier,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ScorecardResult is returned for an evaluated offer.
type ScorecardResult struct {
	SessionID   string         `json:"sessionId"`
	Input       ScorecardInput `json:"input"`
	MarketRange MarketRange    `json:"marketRange"`
	Position    Position       `json:"position"`
	Narrative   string         `json:"narrative"`
	SampleSize  int            `json:"sampleSize"`
	Confidence  float64        `json:"confidence"`
}

// Feedback is a user's rating of one of the coaching tools.
type Feedback struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId,omitempty"`
	Tool      string    `json:"tool"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
