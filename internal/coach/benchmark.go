package coach

import (
	"slices"
	"strings"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/estimate"
)

const maxBenchmarkExperience = 30

// Benchmark returns the rule-of-thumb range for req.
func (s *Service) Benchmark(req estimate.BenchmarkRequest) (*estimate.Benchmark, error) {
	var issues []string
	for name, v := range map[string]string{
		"jobTitle": req.JobTitle, "industry": req.Industry, "location": req.Location, "level": req.Level,
	} {
		if strings.TrimSpace(v) == "" {
			issues = append(issues, name+" is required")
		}
	}
	if req.Experience < 0 || req.Experience > maxBenchmarkExperience {
		issues = append(issues, "experience must be between 0 and 30")
	}
	slices.Sort(issues)
	if err := invalid(issues); err != nil {
		return nil, err
	}
	b := s.calculator.Benchmark(req)
	return &b, nil
}
