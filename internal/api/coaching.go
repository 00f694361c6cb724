package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/coach"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/estimate"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

func (s *Server) scorecard(w http.ResponseWriter, r *http.Request) {
	var in model.ScorecardInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.svc.Scorecard(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getScorecard(w http.ResponseWriter, r *http.Request) {
	ev, err := s.svc.GetEvaluation(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) leverage(w http.ResponseWriter, r *http.Request) {
	var in coach.LeverageInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.svc.Leverage(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) script(w http.ResponseWriter, r *http.Request) {
	var in coach.ScriptInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.svc.Script(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) feedback(w http.ResponseWriter, r *http.Request) {
	var in coach.FeedbackInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.svc.Feedback(r.Context(), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) benchmark(w http.ResponseWriter, r *http.Request) {
	var req estimate.BenchmarkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.svc.Benchmark(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
