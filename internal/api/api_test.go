package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/cache"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/coach"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/config"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/script"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/store"
)

func newTestHandler(t *testing.T, cfg config.ServerConfig) http.Handler {
	t.Helper()
	ctx := context.Background()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	var recs []model.CompensationRecord
	for i, m := range []int{100000, 110000, 120000, 130000, 140000} {
		recs = append(recs, model.CompensationRecord{
			RecordID:         fmt.Sprintf("tx-%d", i),
			JobTitle:         "Software Engineer",
			Industry:         "Technology",
			State:            "TX",
			BaseSalaryMin:    m * 85 / 100,
			BaseSalaryMedian: m,
			BaseSalaryMax:    m * 125 / 100,
			ManagementLevel:  model.LevelIC,
			DataSource:       model.SourceBLS,
			ConfidenceScore:  0.9,
		})
	}
	_, err = st.BulkCreateCompensation(ctx, recs)
	require.NoError(t, err)

	pb, err := script.DefaultPhraseBank()
	require.NoError(t, err)
	svc := coach.New(st, script.NewComposer(pb, script.DefaultWeights()), cache.NewMemory(time.Minute))
	return New(svc, cfg).Routes()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{})

	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestCompensationRoutes(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{})

	rec := do(t, h, http.MethodGet, "/api/compensation?state=tx&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[coach.CompensationPage](t, rec)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Records, 2)

	id := page.Records[0].ID
	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/compensation/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode[model.CompensationRecord](t, rec).ID)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"bad id", "/api/compensation/abc", http.StatusBadRequest},
		{"missing id", "/api/compensation/99999", http.StatusNotFound},
		{"bad limit", "/api/compensation?limit=many", http.StatusBadRequest},
		{"limit too large", "/api/compensation?limit=501", http.StatusBadRequest},
		{"bad level", "/api/compensation?managementLevel=Wizard", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[errorBody](t, rec).Error)
		})
	}
}

func TestCreateCompensation(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{})

	rec := do(t, h, http.MethodPost, "/api/compensation", model.CompensationRecord{
		RecordID:         "manual-1",
		JobTitle:         "Staff Engineer",
		Industry:         "Technology",
		State:            "CA",
		BaseSalaryMin:    180000,
		BaseSalaryMedian: 210000,
		BaseSalaryMax:    250000,
		ManagementLevel:  model.LevelIC,
		DataSource:       model.SourceBLS,
		ConfidenceScore:  0.8,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.CompensationRecord](t, rec)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "USD", created.Currency)

	rec = do(t, h, http.MethodPost, "/api/compensation", map[string]any{"jobTitle": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Contains(t, body.Details, "recordId is required")

	rec = do(t, h, http.MethodPost, "/api/compensation", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/compensation", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Details, "request body is required")
}

func TestAnalyticsAndTitles(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{})

	rec := do(t, h, http.MethodGet, "/api/analytics/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[model.AggregateStats](t, rec)
	assert.Equal(t, 5, stats.TotalRecords)
	assert.Equal(t, 1, stats.UniqueRoles)

	rec = do(t, h, http.MethodGet, "/api/analytics/salary-by-role", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	roles := decode[[]model.NamedValue](t, rec)
	require.Len(t, roles, 1)
	assert.Equal(t, "Software Engineer", roles[0].Name)

	rec = do(t, h, http.MethodGet, "/api/analytics/industry-distribution", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.NamedValue](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/analytics/recent?limit=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.CompensationRecord](t, rec), 3)

	rec = do(t, h, http.MethodGet, "/api/analytics/recent?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/job-titles?q=soft", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Software Engineer"}, decode[[]string](t, rec))

	rec = do(t, h, http.MethodGet, "/api/job-titles?q=s", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestCoachingFlow(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{})

	rec := do(t, h, http.MethodPost, "/api/scorecard", model.ScorecardInput{
		JobTitle:          "Software Engineer",
		YearsExperience:   5,
		Location:          "Austin, TX",
		BaseSalaryOffered: 110000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sc := decode[model.ScorecardResult](t, rec)
	require.NotEmpty(t, sc.SessionID)
	assert.Equal(t, 120000, sc.MarketRange.Median)
	assert.Equal(t, model.ZoneUnderpaid, sc.Position.Zone)

	rec = do(t, h, http.MethodGet, "/api/scorecard/"+sc.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sc.SessionID, decode[model.OfferEvaluation](t, rec).SessionID)

	rec = do(t, h, http.MethodGet, "/api/scorecard/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	offer := 110000
	rec = do(t, h, http.MethodPost, "/api/leverage-score", coach.LeverageInput{
		LeverageAnswers: model.LeverageAnswers{
			OtherOffers:       "none",
			CompanyUrgency:    "no_rush",
			SkillUniqueness:   "many_qualified",
			EmploymentStatus:  "unemployed",
			PipelineProgress:  "not_interviewing",
			ManagerInvestment: "standard_process",
			CompanyFinancials: "struggling",
			WillingnessToWalk: "need_this_job",
		},
		CurrentOffer: &offer,
		SessionID:    sc.SessionID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	lev := decode[model.LeverageResult](t, rec)
	assert.Equal(t, 0, lev.Score)
	assert.Equal(t, model.TierLow, lev.Tier)
	assert.Equal(t, sc.SessionID, lev.LinkedSessionID)

	rec = do(t, h, http.MethodPost, "/api/leverage-score", map[string]string{"otherOffers": "none"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode[errorBody](t, rec).Details)

	rec = do(t, h, http.MethodPost, "/api/scripts", coach.ScriptInput{SessionID: sc.SessionID, Tone: model.TonePolite})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sr := decode[model.ScriptResult](t, rec)
	assert.NotEmpty(t, sr.Subject)
	assert.Contains(t, sr.Body, "Software Engineer")
	assert.NotEmpty(t, sr.ScriptID)
	assert.Greater(t, sr.TargetAmount, 110000)

	rec = do(t, h, http.MethodPost, "/api/scripts", coach.ScriptInput{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/feedback", coach.FeedbackInput{SessionID: sc.SessionID, Tool: "script", Rating: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"success": true}, decode[map[string]bool](t, rec))

	rec = do(t, h, http.MethodPost, "/api/feedback", coach.FeedbackInput{Tool: "email", Rating: 9})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decode[errorBody](t, rec).Details, 2)
}

func TestScorecardValidation(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{})

	rec := do(t, h, http.MethodPost, "/api/scorecard", model.ScorecardInput{BaseSalaryOffered: -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "invalid request", body.Error)
	assert.Contains(t, body.Details, "jobTitle is required")
}

func TestLeverageScore_SuggestedRangeKeys(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{})

	answers := model.LeverageAnswers{
		OtherOffers:       "none",
		CompanyUrgency:    "no_rush",
		SkillUniqueness:   "many_qualified",
		EmploymentStatus:  "unemployed",
		PipelineProgress:  "not_interviewing",
		ManagerInvestment: "standard_process",
		CompanyFinancials: "struggling",
		WillingnessToWalk: "need_this_job",
	}

	rec := do(t, h, http.MethodPost, "/api/leverage-score", coach.LeverageInput{LeverageAnswers: answers})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.NotContains(t, body, "suggestedDollars")
	rng, ok := body["suggestedRange"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	assert.Equal(t, map[string]any{"minPercent": 5.0, "maxPercent": 10.0}, rng)

	offer := 100000
	rec = do(t, h, http.MethodPost, "/api/leverage-score", coach.LeverageInput{LeverageAnswers: answers, CurrentOffer: &offer})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rng, ok = decode[map[string]any](t, rec)["suggestedRange"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	assert.Equal(t, map[string]any{
		"minPercent": 5.0, "maxPercent": 10.0, "minDollars": 5000.0, "maxDollars": 10000.0,
	}, rng)
}

func TestScripts_SuggestedRangeInput(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{})

	rec := do(t, h, http.MethodPost, "/api/scripts", `{
		"jobTitle": "Software Engineer", "currentOffer": 100000, "marketMedian": 120000,
		"marketLow": 100000, "marketHigh": 140000, "tone": "aggressive", "leverageTier": "high",
		"suggestedRange": {"minPercent": 15, "maxPercent": 25}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 125000, decode[model.ScriptResult](t, rec).TargetAmount)

	rec = do(t, h, http.MethodPost, "/api/scripts", `{
		"jobTitle": "Software Engineer", "currentOffer": 100000, "marketMedian": 120000,
		"tone": "polite", "leverageTier": "low", "suggestedRange": {"minPercent": 10, "maxPercent": 5}
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Details, "suggestedRange must satisfy 0 <= minPercent <= maxPercent")
}

func TestBenchmarkRoute(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{})

	rec := do(t, h, http.MethodPost, "/api/benchmark", map[string]any{
		"jobTitle": "Engineer", "industry": "Tech", "location": "SF", "experience": 5, "level": "Senior",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 162000, decode[map[string]any](t, rec)["median"].(float64))

	rec = do(t, h, http.MethodPost, "/api/benchmark", map[string]any{"experience": 40})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{RateLimit: 0.001, RateBurst: 2})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestCORSAndUnknownRoutes(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, config.ServerConfig{CORSOrigins: []string{"https://coach.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/scorecard", nil)
	req.Header.Set("Origin", "https://coach.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://coach.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
}
