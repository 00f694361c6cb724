package estimate

import (
	"math"
	"strings"
)

// BenchmarkRequest is the input of the quick benchmark calculator.
type BenchmarkRequest struct {
	JobTitle   string `json:"jobTitle"`
	Industry   string `json:"industry"`
	Location   string `json:"location"`
	Experience int    `json:"experience"`
	Level      string `json:"level"`
}

// BenchmarkFactors reports each adjustment in whole percent.
type BenchmarkFactors struct {
	Industry   int `json:"industry"`
	Location   int `json:"location"`
	Experience int `json:"experience"`
}

// Benchmark is a rule-of-thumb salary range that does not touch the dataset.
type Benchmark struct {
	Min     int              `json:"min"`
	P25     int              `json:"p25"`
	Median  int              `json:"median"`
	P75     int              `json:"p75"`
	Max     int              `json:"max"`
	Factors BenchmarkFactors `json:"factors"`
}

// Calculator holds the multipliers behind Benchmark.
type Calculator struct {
	Base               float64
	Industry           map[string]float64
	Location           map[string]float64
	ExperiencePerYear  float64
	MinRatio, P25Ratio float64
	P75Ratio, MaxRatio float64
}

// DefaultCalculator returns the standard multipliers.
func DefaultCalculator() Calculator {
	return Calculator{
		Base:              80000,
		Industry:          map[string]float64{"tech": 1.25, "finance": 1.2, "health": 1.1, "retail": 0.9},
		Location:          map[string]float64{"sf": 1.35, "ny": 1.3, "austin": 1.1, "remote": 0.95},
		ExperiencePerYear: 0.04,
		MinRatio:          0.85,
		P25Ratio:          0.92,
		P75Ratio:          1.15,
		MaxRatio:          1.25,
	}
}

func factor(m map[string]float64, key string) float64 {
	if f, ok := m[strings.ToLower(strings.TrimSpace(key))]; ok {
		return f
	}
	return 1
}

// Benchmark scales the base salary by industry, location and experience.
// Unknown industries and locations apply no adjustment.
func (c Calculator) Benchmark(req BenchmarkRequest) Benchmark {
	ind := factor(c.Industry, req.Industry)
	loc := factor(c.Location, req.Location)
	exp := 1 + float64(req.Experience)*c.ExperiencePerYear

	median := math.Round(c.Base * ind * loc * exp)
	at := func(r float64) int { return int(math.Round(median * r)) }

	return Benchmark{
		Min:    at(c.MinRatio),
		P25:    at(c.P25Ratio),
		Median: int(median),
		P75:    at(c.P75Ratio),
		Max:    at(c.MaxRatio),
		Factors: BenchmarkFactors{
			Industry:   int(math.Round(ind*100 - 100)),
			Location:   int(math.Round(loc*100 - 100)),
			Experience: int(math.Round((exp - 1) * 100)),
		},
	}
}
