package model

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() CompensationRecord {
	return CompensationRecord{
		RecordID:         "SEED-0001",
		JobTitle:         "Software Engineer",
		Industry:         "Technology",
		State:            "CA",
		BaseSalaryMin:    120000,
		BaseSalaryMedian: 150000,
		BaseSalaryMax:    190000,
		ManagementLevel:  LevelIC,
		DataSource:       SourceBLS,
		ConfidenceScore:  0.9,
	}
}

func TestCompensationRecord_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(r *CompensationRecord)
		wantErr string
	}{
		{"valid", func(r *CompensationRecord) {}, ""},
		{"missing title", func(r *CompensationRecord) { r.JobTitle = "  " }, "jobTitle is required"},
		{"missing record id", func(r *CompensationRecord) { r.RecordID = "" }, "recordId is required"},
		{"min above median", func(r *CompensationRecord) { r.BaseSalaryMin = 160000 }, "min <= median <= max"},
		{"median above max", func(r *CompensationRecord) { r.BaseSalaryMax = 140000 }, "min <= median <= max"},
		{"zero salary", func(r *CompensationRecord) { r.BaseSalaryMin = 0 }, "must be positive"},
		{"bad level", func(r *CompensationRecord) { r.ManagementLevel = "Intern" }, "managementLevel"},
		{"bad source", func(r *CompensationRecord) { r.DataSource = "Reddit" }, "dataSource"},
		{"confidence out of range", func(r *CompensationRecord) { r.ConfidenceScore = 1.5 }, "confidenceScore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := validRecord()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestIsValidation_Wrapped(t *testing.T) {
	t.Parallel()

	err := eris.Wrap(&ValidationError{Issues: []string{"x"}}, "api: decode")
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(eris.New("boom")))
}

func TestCompensationRecord_ApplyDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	r := validRecord()
	r.ApplyDefaults(now)

	assert.Equal(t, "USD", r.Currency)
	assert.Equal(t, 100.0, r.CostOfLivingIndex)
	assert.Equal(t, 1, r.SampleSize)
	assert.Equal(t, 2025, r.DataYear)
	assert.Equal(t, now, r.LastUpdated)

	r.Currency = "CAD"
	r.ApplyDefaults(now)
	assert.Equal(t, "CAD", r.Currency)
}

func TestLeverageAnswers_ByQuestion(t *testing.T) {
	t.Parallel()

	a := LeverageAnswers{OtherOffers: "two", WillingnessToWalk: "need_this_job"}
	m := a.ByQuestion()

	assert.Len(t, m, len(Questions))
	assert.Equal(t, "two", m[QOtherOffers])
	assert.Equal(t, "need_this_job", m[QWillingnessToWalk])
	for _, q := range Questions {
		_, ok := m[q]
		assert.True(t, ok, q)
	}
}

func TestEnumValidity(t *testing.T) {
	t.Parallel()

	assert.True(t, TierModerate.Valid())
	assert.False(t, Tier("extreme").Valid())
	assert.True(t, ScenarioRetention.Valid())
	assert.False(t, Scenario("promotion").Valid())
	assert.True(t, ToneAggressive.Valid())
	assert.False(t, Tone("rude").Valid())
}
