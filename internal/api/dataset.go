package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/store"
)

// queryInts parses the named integer parameters that are present. Each
// unparsable one is reported as an issue.
func queryInts(r *http.Request, names ...string) (map[string]int, []string) {
	q := r.URL.Query()
	out := make(map[string]int, len(names))
	var issues []string
	for _, name := range names {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, name+" must be an integer")
			continue
		}
		out[name] = n
	}
	return out, issues
}

func (s *Server) listCompensation(w http.ResponseWriter, r *http.Request) {
	ints, issues := queryInts(r, "minSalary", "maxSalary", "limit", "offset")
	if len(issues) > 0 {
		badRequest(w, issues...)
		return
	}
	q := r.URL.Query()
	filter := store.CompensationFilter{
		Search:          strings.TrimSpace(q.Get("search")),
		Industry:        strings.TrimSpace(q.Get("industry")),
		State:           strings.ToUpper(strings.TrimSpace(q.Get("state"))),
		ManagementLevel: model.ManagementLevel(strings.TrimSpace(q.Get("managementLevel"))),
		MinSalary:       ints["minSalary"],
		MaxSalary:       ints["maxSalary"],
		Limit:           ints["limit"],
		Offset:          ints["offset"],
	}

	page, err := s.svc.ListCompensation(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getCompensation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "id must be a positive integer")
		return
	}
	rec, err := s.svc.GetCompensation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) createCompensation(w http.ResponseWriter, r *http.Request) {
	var rec model.CompensationRecord
	if !decodeBody(w, r, &rec) {
		return
	}
	created, err := s.svc.CreateCompensation(r.Context(), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) jobTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := s.svc.JobTitles(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, titles)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) salaryByRole(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.SalaryByRole(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) industryDistribution(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.IndustryDistribution(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) recent(w http.ResponseWriter, r *http.Request) {
	ints, issues := queryInts(r, "limit")
	if len(issues) > 0 {
		badRequest(w, issues...)
		return
	}
	v, err := s.svc.Recent(r.Context(), ints["limit"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
