package store

import (
	"context"
	"errors"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("store: not found")

// Listing bounds for ListCompensation.
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// CompensationFilter specifies criteria for listing compensation records.
type CompensationFilter struct {
	Search          string                `json:"search,omitempty"` // substring of job title or industry
	Industry        string                `json:"industry,omitempty"`
	State           string                `json:"state,omitempty"`
	ManagementLevel model.ManagementLevel `json:"managementLevel,omitempty"`
	MinSalary       int                   `json:"minSalary,omitempty"`
	MaxSalary       int                   `json:"maxSalary,omitempty"`
	Limit           int                   `json:"limit,omitempty"`
	Offset          int                   `json:"offset,omitempty"`
}

// Normalized returns f with Limit clamped to [1, MaxListLimit] (0 means
// DefaultListLimit) and a non-negative Offset.
func (f CompensationFilter) Normalized() CompensationFilter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultListLimit
	case f.Limit > MaxListLimit:
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// RangeFilter selects the slice of the dataset a salary distribution is
// computed over. Empty fields do not constrain; an empty filter matches
// every record.
type RangeFilter struct {
	TitleTokens []string // any token appears in the job title, case-insensitive
	ExactTitle  string   // job title equals this, case-insensitive
	State       string   // exact two-letter state
}

// Store defines the persistence interface for the coaching backend.
type Store interface {
	// Compensation dataset
	ListCompensation(ctx context.Context, filter CompensationFilter) ([]model.CompensationRecord, int, error)
	GetCompensation(ctx context.Context, id int64) (*model.CompensationRecord, error)
	CreateCompensation(ctx context.Context, rec model.CompensationRecord) (*model.CompensationRecord, error)
	BulkCreateCompensation(ctx context.Context, recs []model.CompensationRecord) (int64, error)
	ReplaceCompensation(ctx context.Context, recs []model.CompensationRecord) (int64, error)
	SalaryPercentiles(ctx context.Context, filter RangeFilter) (*model.Percentiles, error)
	JobTitleSuggestions(ctx context.Context, query string, limit int) ([]string, error)

	// Analytics
	AggregateStats(ctx context.Context) (*model.AggregateStats, error)
	SalaryByRole(ctx context.Context, limit int) ([]model.NamedValue, error)
	IndustryDistribution(ctx context.Context) ([]model.NamedValue, error)
	RecentCompensation(ctx context.Context, limit int) ([]model.CompensationRecord, error)

	// Coaching sessions
	SaveOfferEvaluation(ctx context.Context, ev *model.OfferEvaluation) error
	GetOfferEvaluation(ctx context.Context, sessionID string) (*model.OfferEvaluation, error)
	SaveQuizResponse(ctx context.Context, qr *model.QuizResponse) error
	SaveScriptSession(ctx context.Context, ss *model.ScriptSession) error
	SaveFeedback(ctx context.Context, fb *model.Feedback) error

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}
