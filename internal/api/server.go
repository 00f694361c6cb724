// Package api exposes the coaching service over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/coach"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/config"
)

// Server routes HTTP requests to the coaching service.
type Server struct {
	svc *coach.Service
	cfg config.ServerConfig
}

// New creates a Server backed by svc.
func New(svc *coach.Service, cfg config.ServerConfig) *Server {
	return &Server{svc: svc, cfg: cfg}
}

// Routes returns the full router including middleware.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if s.cfg.RateLimit > 0 {
		r.Use(rateLimit(s.cfg.RateLimit, s.cfg.RateBurst))
	}
	if s.cfg.RequestTimeoutSecs > 0 {
		r.Use(middleware.Timeout(time.Duration(s.cfg.RequestTimeoutSecs) * time.Second))
	}

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/compensation", func(r chi.Router) {
			r.Get("/", s.listCompensation)
			r.Post("/", s.createCompensation)
			r.Get("/{id}", s.getCompensation)
		})
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/stats", s.stats)
			r.Get("/salary-by-role", s.salaryByRole)
			r.Get("/industry-distribution", s.industryDistribution)
			r.Get("/recent", s.recent)
		})
		r.Get("/job-titles", s.jobTitles)

		r.Post("/scorecard", s.scorecard)
		r.Get("/scorecard/{sessionId}", s.getScorecard)
		r.Post("/leverage-score", s.leverage)
		r.Post("/scripts", s.script)
		r.Post("/feedback", s.feedback)
		r.Post("/benchmark", s.benchmark)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.cfg.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.CORSOrigins
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
