package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/interp"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Percentiles are
// computed in Go since SQLite has no ordered-set aggregates.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS compensation_data (
	id                   INTEGER PRIMARY KEY,
	record_id            TEXT NOT NULL UNIQUE,
	job_title            TEXT NOT NULL,
	soc_code             TEXT NOT NULL DEFAULT '',
	industry             TEXT NOT NULL,
	company_size         TEXT NOT NULL DEFAULT '',
	company_type         TEXT NOT NULL DEFAULT '',
	state                TEXT NOT NULL,
	msa                  TEXT NOT NULL DEFAULT '',
	cost_of_living_index REAL NOT NULL DEFAULT 100,
	remote_eligible      INTEGER NOT NULL DEFAULT 0,
	base_salary_min      INTEGER NOT NULL,
	base_salary_median   INTEGER NOT NULL,
	base_salary_max      INTEGER NOT NULL,
	total_comp_median    INTEGER NOT NULL DEFAULT 0,
	currency             TEXT NOT NULL DEFAULT 'USD',
	pay_type             TEXT NOT NULL DEFAULT '',
	data_year            INTEGER NOT NULL,
	min_years_experience INTEGER NOT NULL DEFAULT 0,
	education_level      TEXT NOT NULL DEFAULT '',
	skills               TEXT NOT NULL DEFAULT '[]',
	management_level     TEXT NOT NULL,
	data_source          TEXT NOT NULL,
	confidence_score     REAL NOT NULL DEFAULT 0.5,
	sample_size          INTEGER NOT NULL DEFAULT 1,
	last_updated         DATETIME NOT NULL DEFAULT (datetime('now')),
	created_at           DATETIME NOT NULL DEFAULT (datetime('now')),
	CHECK (base_salary_min <= base_salary_median AND base_salary_median <= base_salary_max)
);

CREATE INDEX IF NOT EXISTS idx_compensation_title_lower ON compensation_data(lower(job_title));
CREATE INDEX IF NOT EXISTS idx_compensation_state ON compensation_data(state);
CREATE INDEX IF NOT EXISTS idx_compensation_industry ON compensation_data(industry);

CREATE TABLE IF NOT EXISTS offer_evaluations (
	session_id          TEXT PRIMARY KEY,
	job_title           TEXT NOT NULL,
	company_name        TEXT NOT NULL DEFAULT '',
	years_experience    INTEGER NOT NULL,
	seniority           TEXT NOT NULL DEFAULT '',
	location            TEXT NOT NULL,
	is_remote           INTEGER NOT NULL DEFAULT 0,
	base_salary_offered INTEGER NOT NULL,
	bonus_percent       REAL,
	equity_details      TEXT NOT NULL DEFAULT '',
	market_min          INTEGER NOT NULL,
	market_median       INTEGER NOT NULL,
	market_max          INTEGER NOT NULL,
	difference          INTEGER NOT NULL,
	percentile          INTEGER NOT NULL,
	zone                TEXT NOT NULL,
	sample_size         INTEGER NOT NULL,
	confidence          REAL NOT NULL,
	created_at          DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS quiz_responses (
	id            TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL DEFAULT '',
	answers       TEXT NOT NULL,
	current_offer INTEGER,
	score         INTEGER NOT NULL,
	tier          TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_quiz_responses_session ON quiz_responses(session_id, created_at DESC);

CREATE TABLE IF NOT EXISTS script_sessions (
	id            TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL DEFAULT '',
	scenario      TEXT NOT NULL,
	tone          TEXT NOT NULL,
	current_offer INTEGER NOT NULL,
	target_amount INTEGER NOT NULL,
	body          TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS feedback (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL DEFAULT '',
	tool       TEXT NOT NULL,
	rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment    TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListCompensation(ctx context.Context, filter CompensationFilter) ([]model.CompensationRecord, int, error) {
	f := filter.Normalized()
	where, args := compensationWhere(sqliteDialect, f)
	pageArgs := append(append([]any{}, args...), f.Limit, f.Offset)

	var (
		recs  []model.CompensationRecord
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recs, err = s.queryCompensation(gctx, selectCompensation+where+` ORDER BY last_updated DESC, id DESC LIMIT ? OFFSET ?`, pageArgs...)
		return eris.Wrap(err, "sqlite: list compensation")
	})
	g.Go(func() error {
		err := s.db.QueryRowContext(gctx, `SELECT count(*) FROM compensation_data`+where, args...).Scan(&total)
		return eris.Wrap(err, "sqlite: count compensation")
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func (s *SQLiteStore) queryCompensation(ctx context.Context, query string, args ...any) ([]model.CompensationRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []model.CompensationRecord{}
	for rows.Next() {
		r, err := scanSQLiteCompensation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func scanSQLiteCompensation(row scanner) (model.CompensationRecord, error) {
	var skills string
	r, err := scanCompensation(row, &skills)
	if err != nil {
		return r, err
	}
	if skills != "" {
		if err := json.Unmarshal([]byte(skills), &r.Skills); err != nil {
			return r, eris.Wrap(err, "sqlite: unmarshal skills")
		}
	}
	return r, nil
}

func (s *SQLiteStore) GetCompensation(ctx context.Context, id int64) (*model.CompensationRecord, error) {
	r, err := scanSQLiteCompensation(s.db.QueryRowContext(ctx, selectCompensation+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get compensation %d", id)
	}
	return &r, nil
}

func sqliteSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	return string(b), err
}

var sqliteInsertCompensation = fmt.Sprintf(`INSERT INTO compensation_data (%s) VALUES (%s)`,
	joinColumns(compensationColumns), placeholders(sqliteDialect, len(compensationColumns)))

func (s *SQLiteStore) CreateCompensation(ctx context.Context, rec model.CompensationRecord) (*model.CompensationRecord, error) {
	rec.ApplyDefaults(time.Now().UTC())
	skills, err := sqliteSkills(rec.Skills)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal skills")
	}
	err = s.db.QueryRowContext(ctx, sqliteInsertCompensation+` RETURNING id`,
		compensationValues(rec, skills)...).Scan(&rec.ID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create compensation")
	}
	return &rec, nil
}

func sqliteUpsertCompensation() string {
	sets := make([]string, 0, len(compensationUpdateColumns))
	for _, c := range compensationUpdateColumns {
		sets = append(sets, c+" = excluded."+c)
	}
	return sqliteInsertCompensation + ` ON CONFLICT(record_id) DO UPDATE SET ` + strings.Join(sets, ", ")
}

func (s *SQLiteStore) BulkCreateCompensation(ctx context.Context, recs []model.CompensationRecord) (int64, error) {
	n, err := s.insertAll(ctx, recs, false)
	return n, eris.Wrap(err, "sqlite: bulk create compensation")
}

func (s *SQLiteStore) ReplaceCompensation(ctx context.Context, recs []model.CompensationRecord) (int64, error) {
	n, err := s.insertAll(ctx, recs, true)
	return n, eris.Wrap(err, "sqlite: replace compensation")
}

func (s *SQLiteStore) insertAll(ctx context.Context, recs []model.CompensationRecord, replace bool) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	query := sqliteUpsertCompensation()
	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM compensation_data`); err != nil {
			return 0, eris.Wrap(err, "delete existing")
		}
		query = sqliteInsertCompensation
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, eris.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	var n int64
	for _, rec := range recs {
		rec.ApplyDefaults(now)
		skills, err := sqliteSkills(rec.Skills)
		if err != nil {
			return 0, eris.Wrap(err, "marshal skills")
		}
		if _, err := stmt.ExecContext(ctx, compensationValues(rec, skills)...); err != nil {
			return 0, eris.Wrapf(err, "insert %s", rec.RecordID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "commit")
	}
	return n, nil
}

func (s *SQLiteStore) SalaryPercentiles(ctx context.Context, filter RangeFilter) (*model.Percentiles, error) {
	where, args := rangeWhere(sqliteDialect, filter)
	rows, err := s.db.QueryContext(ctx, `SELECT base_salary_median FROM compensation_data`+where+` ORDER BY base_salary_median`, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: salary percentiles")
	}
	defer rows.Close()

	var medians []float64
	for rows.Next() {
		var m float64
		if err := rows.Scan(&m); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan median")
		}
		medians = append(medians, m)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: salary percentiles iterate")
	}

	at := func(p float64) int { return int(math.Round(interp.Percentile(medians, p))) }
	return &model.Percentiles{
		P10:   at(0.10),
		P25:   at(0.25),
		P50:   at(0.50),
		P75:   at(0.75),
		P90:   at(0.90),
		Count: len(medians),
	}, nil
}

func (s *SQLiteStore) JobTitleSuggestions(ctx context.Context, query string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT job_title FROM compensation_data WHERE job_title LIKE ?`+sqliteDialect.escape+` ORDER BY job_title LIMIT ?`,
		containsPattern(query), limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: job title suggestions")
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan job title")
		}
		titles = append(titles, t)
	}
	return titles, eris.Wrap(rows.Err(), "sqlite: job title suggestions iterate")
}

func (s *SQLiteStore) AggregateStats(ctx context.Context) (*model.AggregateStats, error) {
	var st model.AggregateStats
	err := s.db.QueryRowContext(ctx, `SELECT count(*),
	CAST(COALESCE(ROUND(AVG(base_salary_median)), 0) AS INTEGER),
	count(DISTINCT job_title),
	count(DISTINCT industry)
FROM compensation_data`).Scan(&st.TotalRecords, &st.AvgSalary, &st.UniqueRoles, &st.UniqueIndustries)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: aggregate stats")
	}
	return &st, nil
}

func (s *SQLiteStore) SalaryByRole(ctx context.Context, limit int) ([]model.NamedValue, error) {
	return s.namedValues(ctx, "salary by role", `SELECT job_title, ROUND(AVG(base_salary_median)) AS avg_salary, count(*)
FROM compensation_data GROUP BY job_title ORDER BY avg_salary DESC, job_title LIMIT ?`, limit)
}

func (s *SQLiteStore) IndustryDistribution(ctx context.Context) ([]model.NamedValue, error) {
	return s.namedValues(ctx, "industry distribution", `SELECT industry, CAST(count(*) AS REAL), count(*)
FROM compensation_data GROUP BY industry ORDER BY count(*) DESC, industry`)
}

func (s *SQLiteStore) namedValues(ctx context.Context, what, query string, args ...any) ([]model.NamedValue, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: %s", what)
	}
	defer rows.Close()

	out := []model.NamedValue{}
	for rows.Next() {
		var nv model.NamedValue
		if err := rows.Scan(&nv.Name, &nv.Value, &nv.Count); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", what)
		}
		out = append(out, nv)
	}
	return out, eris.Wrapf(rows.Err(), "sqlite: %s iterate", what)
}

func (s *SQLiteStore) RecentCompensation(ctx context.Context, limit int) ([]model.CompensationRecord, error) {
	recs, err := s.queryCompensation(ctx, selectCompensation+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	return recs, eris.Wrap(err, "sqlite: recent compensation")
}

func (s *SQLiteStore) SaveOfferEvaluation(ctx context.Context, ev *model.OfferEvaluation) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(insertEvaluationSQL, placeholders(sqliteDialect, 19)), evaluationArgs(ev)...)
	return eris.Wrapf(err, "sqlite: save offer evaluation %s", ev.SessionID)
}

func (s *SQLiteStore) GetOfferEvaluation(ctx context.Context, sessionID string) (*model.OfferEvaluation, error) {
	ev, err := scanEvaluation(s.db.QueryRowContext(ctx, fmt.Sprintf(selectEvaluationSQL, "?"), sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get offer evaluation %s", sessionID)
	}
	return ev, nil
}

func (s *SQLiteStore) SaveQuizResponse(ctx context.Context, qr *model.QuizResponse) error {
	answers, err := json.Marshal(qr.Answers)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal quiz answers")
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(insertQuizSQL, placeholders(sqliteDialect, 7)),
		qr.ID, qr.SessionID, string(answers), qr.CurrentOffer, qr.Score, string(qr.Tier), qr.CreatedAt)
	return eris.Wrapf(err, "sqlite: save quiz response %s", qr.ID)
}

func (s *SQLiteStore) SaveScriptSession(ctx context.Context, ss *model.ScriptSession) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(insertScriptSQL, placeholders(sqliteDialect, 8)),
		ss.ID, ss.SessionID, string(ss.Scenario), string(ss.Tone), ss.CurrentOffer, ss.TargetAmount, ss.Body, ss.CreatedAt)
	return eris.Wrapf(err, "sqlite: save script session %s", ss.ID)
}

func (s *SQLiteStore) SaveFeedback(ctx context.Context, fb *model.Feedback) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(insertFeedbackSQL, placeholders(sqliteDialect, 6)),
		fb.ID, fb.SessionID, fb.Tool, fb.Rating, fb.Comment, fb.CreatedAt)
	return eris.Wrapf(err, "sqlite: save feedback %s", fb.ID)
}
