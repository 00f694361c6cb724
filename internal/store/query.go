package store

import (
	"fmt"
	"strings"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

// dialect captures the SQL differences between Postgres and SQLite that the
// shared WHERE builders care about.
type dialect struct {
	placeholder func(n int) string
	like        string // case-insensitive LIKE operator
	escape      string // appended after a LIKE pattern
}

var (
	postgresDialect = dialect{
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		like:        "ILIKE",
	}
	sqliteDialect = dialect{
		placeholder: func(int) string { return "?" },
		like:        "LIKE",
		escape:      ` ESCAPE '\'`,
	}
)

// whereBuilder accumulates AND-ed conditions with positional args.
type whereBuilder struct {
	d     dialect
	conds []string
	args  []any
}

func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return w.d.placeholder(len(w.args))
}

func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) likeExpr(col, pattern string) string {
	return col + " " + w.d.like + " " + w.arg(pattern) + w.d.escape
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

func compensationWhere(d dialect, f CompensationFilter) (string, []any) {
	w := &whereBuilder{d: d}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := containsPattern(s)
		w.add("(" + w.likeExpr("job_title", p) + " OR " + w.likeExpr("industry", p) + ")")
	}
	if f.Industry != "" {
		w.add("industry = " + w.arg(f.Industry))
	}
	if f.State != "" {
		w.add("state = " + w.arg(strings.ToUpper(f.State)))
	}
	if f.ManagementLevel != "" {
		w.add("management_level = " + w.arg(string(f.ManagementLevel)))
	}
	if f.MinSalary > 0 {
		w.add("base_salary_median >= " + w.arg(f.MinSalary))
	}
	if f.MaxSalary > 0 {
		w.add("base_salary_median <= " + w.arg(f.MaxSalary))
	}
	return w.sql(), w.args
}

func rangeWhere(d dialect, f RangeFilter) (string, []any) {
	w := &whereBuilder{d: d}
	if len(f.TitleTokens) > 0 {
		ors := make([]string, 0, len(f.TitleTokens))
		for _, tok := range f.TitleTokens {
			ors = append(ors, w.likeExpr("job_title", containsPattern(tok)))
		}
		w.add("(" + strings.Join(ors, " OR ") + ")")
	}
	if f.ExactTitle != "" {
		w.add("lower(job_title) = lower(" + w.arg(f.ExactTitle) + ")")
	}
	if f.State != "" {
		w.add("state = " + w.arg(f.State))
	}
	return w.sql(), w.args
}

// compensationColumns is the column order used by every insert and select of
// compensation_data, excluding the serial id.
var compensationColumns = []string{
	"record_id", "job_title", "soc_code", "industry", "company_size", "company_type",
	"state", "msa", "cost_of_living_index", "remote_eligible",
	"base_salary_min", "base_salary_median", "base_salary_max", "total_comp_median",
	"currency", "pay_type", "data_year", "min_years_experience", "education_level",
	"skills", "management_level", "data_source", "confidence_score", "sample_size",
	"last_updated", "created_at",
}

// compensationUpdateColumns are overwritten when an import re-delivers a
// record_id that already exists.
var compensationUpdateColumns = compensationColumns[1 : len(compensationColumns)-1]

var selectCompensation = "SELECT id, " + strings.Join(compensationColumns, ", ") + " FROM compensation_data"

// compensationValues returns rec in compensationColumns order. skills is
// passed through so each driver can encode it.
func compensationValues(rec model.CompensationRecord, skills any) []any {
	return []any{
		rec.RecordID, rec.JobTitle, rec.SOCCode, rec.Industry, rec.CompanySize, rec.CompanyType,
		rec.State, rec.MSA, rec.CostOfLivingIndex, rec.RemoteEligible,
		rec.BaseSalaryMin, rec.BaseSalaryMedian, rec.BaseSalaryMax, rec.TotalCompMedian,
		rec.Currency, rec.PayType, rec.DataYear, rec.MinYearsExperience, rec.EducationLevel,
		skills, string(rec.ManagementLevel), string(rec.DataSource), rec.ConfidenceScore, rec.SampleSize,
		rec.LastUpdated, rec.CreatedAt,
	}
}

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanCompensation reads one row produced by selectCompensation. skills
// receives the driver-specific encoding and is decoded by the caller.
func scanCompensation(row scanner, skills any) (model.CompensationRecord, error) {
	var r model.CompensationRecord
	var level, source string
	err := row.Scan(
		&r.ID, &r.RecordID, &r.JobTitle, &r.SOCCode, &r.Industry, &r.CompanySize, &r.CompanyType,
		&r.State, &r.MSA, &r.CostOfLivingIndex, &r.RemoteEligible,
		&r.BaseSalaryMin, &r.BaseSalaryMedian, &r.BaseSalaryMax, &r.TotalCompMedian,
		&r.Currency, &r.PayType, &r.DataYear, &r.MinYearsExperience, &r.EducationLevel,
		skills, &level, &source, &r.ConfidenceScore, &r.SampleSize,
		&r.LastUpdated, &r.CreatedAt,
	)
	r.ManagementLevel = model.ManagementLevel(level)
	r.DataSource = model.DataSource(source)
	return r, err
}

const (
	insertEvaluationSQL = `INSERT INTO offer_evaluations (
	session_id, job_title, company_name, years_experience, seniority, location, is_remote,
	base_salary_offered, bonus_percent, equity_details, market_min, market_median, market_max,
	difference, percentile, zone, sample_size, confidence, created_at
) VALUES (%s)`

	selectEvaluationSQL = `SELECT e.session_id, e.job_title, e.company_name, e.years_experience, e.seniority,
	e.location, e.is_remote, e.base_salary_offered, e.bonus_percent, e.equity_details,
	e.market_min, e.market_median, e.market_max, e.difference, e.percentile, e.zone,
	e.sample_size, e.confidence, e.created_at,
	(SELECT q.score FROM quiz_responses q WHERE q.session_id = e.session_id ORDER BY q.created_at DESC LIMIT 1),
	(SELECT q.tier FROM quiz_responses q WHERE q.session_id = e.session_id ORDER BY q.created_at DESC LIMIT 1)
FROM offer_evaluations e WHERE e.session_id = %s`

	insertQuizSQL     = `INSERT INTO quiz_responses (id, session_id, answers, current_offer, score, tier, created_at) VALUES (%s)`
	insertScriptSQL   = `INSERT INTO script_sessions (id, session_id, scenario, tone, current_offer, target_amount, body, created_at) VALUES (%s)`
	insertFeedbackSQL = `INSERT INTO feedback (id, session_id, tool, rating, comment, created_at) VALUES (%s)`
)

// placeholders renders n comma-separated placeholders.
func placeholders(d dialect, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = d.placeholder(i + 1)
	}
	return strings.Join(ps, ", ")
}

func evaluationArgs(ev *model.OfferEvaluation) []any {
	return []any{
		ev.SessionID, ev.JobTitle, ev.CompanyName, ev.YearsExperience, ev.Seniority, ev.Location, ev.IsRemote,
		ev.BaseSalaryOffered, ev.BonusPercent, ev.EquityDetails, ev.MarketMin, ev.MarketMedian, ev.MarketMax,
		ev.Difference, ev.Percentile, string(ev.Zone), ev.SampleSize, ev.Confidence, ev.CreatedAt,
	}
}

func scanEvaluation(row scanner) (*model.OfferEvaluation, error) {
	var ev model.OfferEvaluation
	var zone string
	var score *int
	var tier *string
	err := row.Scan(
		&ev.SessionID, &ev.JobTitle, &ev.CompanyName, &ev.YearsExperience, &ev.Seniority,
		&ev.Location, &ev.IsRemote, &ev.BaseSalaryOffered, &ev.BonusPercent, &ev.EquityDetails,
		&ev.MarketMin, &ev.MarketMedian, &ev.MarketMax, &ev.Difference, &ev.Percentile, &zone,
		&ev.SampleSize, &ev.Confidence, &ev.CreatedAt,
		&score, &tier,
	)
	if err != nil {
		return nil, err
	}
	ev.Zone = model.Zone(zone)
	ev.LeverageScore = score
	if tier != nil {
		ev.LeverageTier = model.Tier(*tier)
	}
	return &ev, nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
