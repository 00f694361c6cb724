package model

import "time"

// Tier is the coarse leverage band.
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
)

// Valid reports whether t is one of the three leverage tiers.
func (t Tier) Valid() bool {
	return t == TierLow || t == TierModerate || t == TierHigh
}

// Question keys of the leverage survey, in presentation order.
const (
	QOtherOffers       = "otherOffers"
	QCompanyUrgency    = "companyUrgency"
	QSkillUniqueness   = "skillUniqueness"
	QEmploymentStatus  = "employmentStatus"
	QPipelineProgress  = "pipelineProgress"
	QManagerInvestment = "managerInvestment"
	QCompanyFinancials = "companyFinancials"
	QWillingnessToWalk = "willingnessToWalk"
)

// Questions lists every survey question key.
var Questions = []string{
	QOtherOffers,
	QCompanyUrgency,
	QSkillUniqueness,
	QEmploymentStatus,
	QPipelineProgress,
	QManagerInvestment,
	QCompanyFinancials,
	QWillingnessToWalk,
}

// LeverageAnswers holds one categorical answer per survey question.
type LeverageAnswers struct {
	OtherOffers       string `json:"otherOffers"`
	CompanyUrgency    string `json:"companyUrgency"`
	SkillUniqueness   string `json:"skillUniqueness"`
	EmploymentStatus  string `json:"employmentStatus"`
	PipelineProgress  string `json:"pipelineProgress"`
	ManagerInvestment string `json:"managerInvestment"`
	CompanyFinancials string `json:"companyFinancials"`
	WillingnessToWalk string `json:"willingnessToWalk"`
}

// ByQuestion returns the answers keyed by question.
func (a LeverageAnswers) ByQuestion() map[string]string {
	return map[string]string{
		QOtherOffers:       a.OtherOffers,
		QCompanyUrgency:    a.CompanyUrgency,
		QSkillUniqueness:   a.SkillUniqueness,
		QEmploymentStatus:  a.EmploymentStatus,
		QPipelineProgress:  a.PipelineProgress,
		QManagerInvestment: a.ManagerInvestment,
		QCompanyFinancials: a.CompanyFinancials,
		QWillingnessToWalk: a.WillingnessToWalk,
	}
}

// PercentRange is a suggested counter-offer increase in percent.
type PercentRange struct {
	Min float64 `json:"minPercent"`
	Max float64 `json:"maxPercent"`
}

// SuggestedRange is the counter-offer increase reported with a leverage
// score. The dollar bounds are set only when a current offer was given.
type SuggestedRange struct {
	MinPercent float64 `json:"minPercent"`
	MaxPercent float64 `json:"maxPercent"`
	MinDollars *int    `json:"minDollars,omitempty"`
	MaxDollars *int    `json:"maxDollars,omitempty"`
}

// LeverageResult is the scored survey.
type LeverageResult struct {
	Score           int            `json:"score"`
	Tier            Tier           `json:"tier"`
	TierLabel       string         `json:"tierLabel"`
	Tagline         string         `json:"tagline"`
	Tactics         []string       `json:"tactics"`
	SuggestedRange  SuggestedRange `json:"suggestedRange"`
	RiskAssessment  string         `json:"riskAssessment"`
	QuizResponseID  string         `json:"quizResponseId,omitempty"`
	LinkedSessionID string         `json:"sessionId,omitempty"`
}

// QuizResponse is the persisted survey submission.
type QuizResponse struct {
	ID           string          `json:"id"`
	SessionID    string          `json:"sessionId,omitempty"`
	Answers      LeverageAnswers `json:"answers"`
	CurrentOffer *int            `json:"currentOffer,omitempty"`
	Score        int             `json:"score"`
	Tier         Tier            `json:"tier"`
	CreatedAt    time.Time       `json:"createdAt"`
}
