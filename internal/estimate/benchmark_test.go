package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculator_Benchmark(t *testing.T) {
	t.Parallel()

	got := DefaultCalculator().Benchmark(BenchmarkRequest{
		JobTitle: "Software Engineer", Industry: "tech", Location: "SF", Experience: 5, Level: "IC",
	})
	assert.Equal(t, Benchmark{
		Min: 137700, P25: 149040, Median: 162000, P75: 186300, Max: 202500,
		Factors: BenchmarkFactors{Industry: 25, Location: 35, Experience: 20},
	}, got)
}

func TestCalculator_UnknownFactors(t *testing.T) {
	t.Parallel()

	got := DefaultCalculator().Benchmark(BenchmarkRequest{Industry: "mining", Location: "Boise"})
	assert.Equal(t, 80000, got.Median)
	assert.Equal(t, BenchmarkFactors{}, got.Factors)
	assert.Equal(t, 68000, got.Min)
	assert.Equal(t, 100000, got.Max)
}
