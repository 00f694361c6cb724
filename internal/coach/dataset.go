package coach

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/cache"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/store"
)

// Listing and analytics limits.
const (
	suggestionLimit    = 10
	minSuggestionQuery = 2
	salaryByRoleLimit  = 5
	defaultRecentLimit = 5
	maxRecentLimit     = 50
	analyticsKeyPrefix = "analytics"
)

// CompensationPage is one page of a filtered listing.
type CompensationPage struct {
	Records []model.CompensationRecord `json:"records"`
	Total   int                        `json:"total"`
}

// ListCompensation returns a page of records matching filter.
func (s *Service) ListCompensation(ctx context.Context, filter store.CompensationFilter) (*CompensationPage, error) {
	var issues []string
	if filter.Limit < 0 || filter.Limit > store.MaxListLimit {
		issues = append(issues, "limit must be between 1 and 500")
	}
	if filter.Offset < 0 {
		issues = append(issues, "offset must not be negative")
	}
	if filter.ManagementLevel != "" && !filter.ManagementLevel.Valid() {
		issues = append(issues, "managementLevel is not recognized")
	}
	if filter.MinSalary < 0 || filter.MaxSalary < 0 {
		issues = append(issues, "salary bounds must not be negative")
	}
	if err := invalid(issues); err != nil {
		return nil, err
	}

	recs, total, err := s.store.ListCompensation(ctx, filter.Normalized())
	if err != nil {
		return nil, storeErr(err, "coach: list compensation")
	}
	if recs == nil {
		recs = []model.CompensationRecord{}
	}
	return &CompensationPage{Records: recs, Total: total}, nil
}

// GetCompensation returns one record by id.
func (s *Service) GetCompensation(ctx context.Context, id int64) (*model.CompensationRecord, error) {
	rec, err := s.store.GetCompensation(ctx, id)
	if err != nil {
		return nil, storeErr(err, "coach: get compensation")
	}
	return rec, nil
}

// CreateCompensation validates and stores a record, then drops cached
// analytics.
func (s *Service) CreateCompensation(ctx context.Context, rec model.CompensationRecord) (*model.CompensationRecord, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	rec.ApplyDefaults(s.now())
	created, err := s.store.CreateCompensation(ctx, rec)
	if err != nil {
		return nil, storeErr(err, "coach: create compensation")
	}
	s.invalidate(ctx)
	return created, nil
}

// JobTitles suggests up to ten distinct titles containing q. Queries shorter
// than two characters return nothing.
func (s *Service) JobTitles(ctx context.Context, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < minSuggestionQuery {
		return []string{}, nil
	}
	titles, err := s.store.JobTitleSuggestions(ctx, q, suggestionLimit)
	if err != nil {
		return nil, storeErr(err, "coach: job title suggestions")
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

// Stats returns dataset-wide aggregates.
func (s *Service) Stats(ctx context.Context) (*model.AggregateStats, error) {
	v, err := cache.Fetch(ctx, s.cache, cache.Key(analyticsKeyPrefix, "stats"), s.store.AggregateStats)
	if err != nil {
		return nil, storeErr(err, "coach: aggregate stats")
	}
	return v, nil
}

// SalaryByRole returns the five highest-paying titles by average median.
func (s *Service) SalaryByRole(ctx context.Context) ([]model.NamedValue, error) {
	v, err := cache.Fetch(ctx, s.cache, cache.Key(analyticsKeyPrefix, "salary-by-role"),
		func(ctx context.Context) ([]model.NamedValue, error) {
			return s.store.SalaryByRole(ctx, salaryByRoleLimit)
		})
	if err != nil {
		return nil, storeErr(err, "coach: salary by role")
	}
	return nonNil(v), nil
}

// IndustryDistribution returns record counts per industry.
func (s *Service) IndustryDistribution(ctx context.Context) ([]model.NamedValue, error) {
	v, err := cache.Fetch(ctx, s.cache, cache.Key(analyticsKeyPrefix, "industry-distribution"), s.store.IndustryDistribution)
	if err != nil {
		return nil, storeErr(err, "coach: industry distribution")
	}
	return nonNil(v), nil
}

// Recent returns the newest records. A limit of zero means five; larger
// limits are capped at fifty.
func (s *Service) Recent(ctx context.Context, limit int) ([]model.CompensationRecord, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	v, err := cache.Fetch(ctx, s.cache, cache.Key(analyticsKeyPrefix, "recent", strconv.Itoa(limit)),
		func(ctx context.Context) ([]model.CompensationRecord, error) {
			return s.store.RecentCompensation(ctx, limit)
		})
	if err != nil {
		return nil, storeErr(err, "coach: recent compensation")
	}
	return nonNil(v), nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		zap.L().Warn("coach: cache invalidate failed", zap.Error(err))
	}
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
