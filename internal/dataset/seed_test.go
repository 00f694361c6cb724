package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	recs := Generate(42, now)
	require.GreaterOrEqual(t, len(recs), len(seedRoles)*len(seedIndustries)*2)
	require.LessOrEqual(t, len(recs), len(seedRoles)*len(seedIndustries)*3)

	ids := map[string]bool{}
	titles := map[string]bool{}
	for _, r := range recs {
		require.NoError(t, r.Validate(), r.RecordID)
		assert.False(t, ids[r.RecordID], "duplicate id %s", r.RecordID)
		ids[r.RecordID] = true
		titles[r.JobTitle] = true

		assert.LessOrEqual(t, r.ConfidenceScore, 0.99)
		assert.GreaterOrEqual(t, len(r.Skills), 3)
		assert.True(t, !r.LastUpdated.After(now) && r.LastUpdated.After(now.AddDate(0, 0, -91)))
		assert.Equal(t, 2025, r.DataYear)
	}
	assert.Len(t, titles, len(seedRoles))
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, Generate(7, now), Generate(7, now))
	assert.NotEqual(t, Generate(7, now), Generate(8, now))
}

func TestGenerate_ColAdjustedMedian(t *testing.T) {
	t.Parallel()

	for _, r := range Generate(1, time.Now()) {
		if r.JobTitle != "Software Engineer" || r.MSA != "Austin-Round Rock, TX" {
			continue
		}
		// (75000+180000)/2 * 1.12
		assert.Equal(t, 142800, r.BaseSalaryMedian)
		assert.Equal(t, 112.0, r.CostOfLivingIndex)
	}
}
