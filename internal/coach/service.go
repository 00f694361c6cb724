// Package coach ties the market estimate, leverage scorer and script composer
// to persistence. HTTP handlers and CLI commands call into a Service.
package coach

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/cache"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/estimate"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/scorer"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/script"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/store"
)

// Service implements the coaching operations.
type Service struct {
	store      store.Store
	resolver   *estimate.Resolver
	scale      estimate.Scale
	narrator   estimate.Narrator
	calculator estimate.Calculator
	scorer     *scorer.LeverageScorer
	composer   *script.Composer
	cache      cache.Cache

	now   func() time.Time
	newID func() string
}

// New creates a Service with the default estimate tables and leverage
// config. A nil cache disables caching.
func New(st store.Store, composer *script.Composer, c cache.Cache) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		store:      st,
		resolver:   estimate.NewResolver(st, estimate.DefaultTiers(), estimate.DefaultFallback()),
		scale:      estimate.DefaultScale(),
		narrator:   estimate.DefaultNarrator(),
		calculator: estimate.DefaultCalculator(),
		scorer:     scorer.NewLeverageScorer(scorer.DefaultLeverageConfig()),
		composer:   composer,
		cache:      c,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Scorer exposes the leverage scorer so callers can list allowed answers.
func (s *Service) Scorer() *scorer.LeverageScorer { return s.scorer }

// Cache returns the analytics cache.
func (s *Service) Cache() cache.Cache { return s.cache }

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// storeErr passes store.ErrNotFound through untouched and wraps anything
// else with msg.
func storeErr(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	return eris.Wrap(err, msg)
}

// invalid builds a ValidationError from issues, or nil when there are none.
func invalid(issues []string) error {
	if len(issues) == 0 {
		return nil
	}
	return &model.ValidationError{Issues: issues}
}
