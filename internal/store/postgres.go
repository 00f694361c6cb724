package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/db"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/resilience"
)

const compensationTable = "compensation_data"

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool      db.Pool
	closeFn   func()
	batchSize int
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns  int32
	MinConns  int32
	BatchSize int // rows per COPY batch when replacing the dataset
}

// NewPostgres creates a PostgresStore with a connection pool. The initial
// connect and ping are retried on transient errors so the service can start
// while the database is still coming up.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	batchSize := 500
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
		if poolCfg.BatchSize > 0 {
			batchSize = poolCfg.BatchSize
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute
	// Queries run in pgx's default cache-statement mode, which prepares each
	// distinct SQL text once per connection.
	pgxCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := resilience.Value(ctx, resilience.ConnectPolicy("postgres connect"), func(ctx context.Context) (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: create pool")
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, eris.Wrap(err, "postgres: ping")
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close, batchSize: batchSize}, nil
}

// Pool exposes the underlying pool.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS compensation_data (
	id                   BIGSERIAL PRIMARY KEY,
	record_id            TEXT NOT NULL UNIQUE,
	job_title            TEXT NOT NULL,
	soc_code             TEXT NOT NULL DEFAULT '',
	industry             TEXT NOT NULL,
	company_size         TEXT NOT NULL DEFAULT '',
	company_type         TEXT NOT NULL DEFAULT '',
	state                TEXT NOT NULL,
	msa                  TEXT NOT NULL DEFAULT '',
	cost_of_living_index DOUBLE PRECISION NOT NULL DEFAULT 100,
	remote_eligible      BOOLEAN NOT NULL DEFAULT false,
	base_salary_min      INTEGER NOT NULL,
	base_salary_median   INTEGER NOT NULL,
	base_salary_max      INTEGER NOT NULL,
	total_comp_median    INTEGER NOT NULL DEFAULT 0,
	currency             TEXT NOT NULL DEFAULT 'USD',
	pay_type             TEXT NOT NULL DEFAULT '',
	data_year            INTEGER NOT NULL,
	min_years_experience INTEGER NOT NULL DEFAULT 0,
	education_level      TEXT NOT NULL DEFAULT '',
	skills               TEXT[] NOT NULL DEFAULT '{}',
	management_level     TEXT NOT NULL,
	data_source          TEXT NOT NULL,
	confidence_score     DOUBLE PRECISION NOT NULL DEFAULT 0.5,
	sample_size          INTEGER NOT NULL DEFAULT 1,
	last_updated         TIMESTAMPTZ NOT NULL DEFAULT now(),
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (base_salary_min <= base_salary_median AND base_salary_median <= base_salary_max)
);

CREATE INDEX IF NOT EXISTS idx_compensation_title_lower ON compensation_data(lower(job_title));
CREATE INDEX IF NOT EXISTS idx_compensation_state ON compensation_data(state);
CREATE INDEX IF NOT EXISTS idx_compensation_industry ON compensation_data(industry);
CREATE INDEX IF NOT EXISTS idx_compensation_last_updated ON compensation_data(last_updated DESC);

CREATE TABLE IF NOT EXISTS offer_evaluations (
	session_id          TEXT PRIMARY KEY,
	job_title           TEXT NOT NULL,
	company_name        TEXT NOT NULL DEFAULT '',
	years_experience    INTEGER NOT NULL,
	seniority           TEXT NOT NULL DEFAULT '',
	location            TEXT NOT NULL,
	is_remote           BOOLEAN NOT NULL DEFAULT false,
	base_salary_offered INTEGER NOT NULL,
	bonus_percent       DOUBLE PRECISION,
	equity_details      TEXT NOT NULL DEFAULT '',
	market_min          INTEGER NOT NULL,
	market_median       INTEGER NOT NULL,
	market_max          INTEGER NOT NULL,
	difference          INTEGER NOT NULL,
	percentile          INTEGER NOT NULL,
	zone                TEXT NOT NULL,
	sample_size         INTEGER NOT NULL,
	confidence          DOUBLE PRECISION NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS quiz_responses (
	id            TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL DEFAULT '',
	answers       JSONB NOT NULL,
	current_offer INTEGER,
	score         INTEGER NOT NULL,
	tier          TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
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
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS feedback (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL DEFAULT '',
	tool       TEXT NOT NULL,
	rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) ListCompensation(ctx context.Context, filter CompensationFilter) ([]model.CompensationRecord, int, error) {
	f := filter.Normalized()
	where, args := compensationWhere(postgresDialect, f)

	pageSQL := selectCompensation + where +
		fmt.Sprintf(` ORDER BY last_updated DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	pageArgs := append(append([]any{}, args...), f.Limit, f.Offset)

	var (
		recs  []model.CompensationRecord
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.pool.Query(gctx, pageSQL, pageArgs...)
		if err != nil {
			return eris.Wrap(err, "postgres: list compensation")
		}
		defer rows.Close()
		for rows.Next() {
			var skills []string
			r, err := scanCompensation(rows, &skills)
			if err != nil {
				return eris.Wrap(err, "postgres: scan compensation")
			}
			r.Skills = skills
			recs = append(recs, r)
		}
		return eris.Wrap(rows.Err(), "postgres: list compensation iterate")
	})
	g.Go(func() error {
		err := s.pool.QueryRow(gctx, `SELECT count(*) FROM compensation_data`+where, args...).Scan(&total)
		return eris.Wrap(err, "postgres: count compensation")
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func (s *PostgresStore) GetCompensation(ctx context.Context, id int64) (*model.CompensationRecord, error) {
	var skills []string
	r, err := scanCompensation(s.pool.QueryRow(ctx, selectCompensation+` WHERE id = $1`, id), &skills)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get compensation %d", id)
	}
	r.Skills = skills
	return &r, nil
}

func (s *PostgresStore) CreateCompensation(ctx context.Context, rec model.CompensationRecord) (*model.CompensationRecord, error) {
	rec.ApplyDefaults(time.Now().UTC())
	sql := fmt.Sprintf(`INSERT INTO compensation_data (%s) VALUES (%s) RETURNING id`,
		joinColumns(compensationColumns), placeholders(postgresDialect, len(compensationColumns)))

	err := s.pool.QueryRow(ctx, sql, compensationValues(rec, pgSkills(rec.Skills))...).Scan(&rec.ID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create compensation")
	}
	return &rec, nil
}

func (s *PostgresStore) BulkCreateCompensation(ctx context.Context, recs []model.CompensationRecord) (int64, error) {
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        compensationTable,
		Columns:      compensationColumns,
		ConflictKeys: []string{"record_id"},
		UpdateCols:   compensationUpdateColumns,
	}, copyRows(recs))
	return n, eris.Wrap(err, "postgres: bulk create compensation")
}

func (s *PostgresStore) ReplaceCompensation(ctx context.Context, recs []model.CompensationRecord) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: replace compensation: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE compensation_data RESTART IDENTITY`); err != nil {
		return 0, eris.Wrap(err, "postgres: replace compensation: truncate")
	}
	n, err := db.CopyBatched(ctx, tx, compensationTable, compensationColumns, copyRows(recs), s.batchSize)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: replace compensation")
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: replace compensation: commit")
	}
	return n, nil
}

// percentile_cont yields float8; rounding via numeric keeps ties away from
// zero, matching the SQLite path.
const postgresPercentiles = `SELECT
	round(COALESCE(percentile_cont(0.10) WITHIN GROUP (ORDER BY base_salary_median), 0)::numeric)::int,
	round(COALESCE(percentile_cont(0.25) WITHIN GROUP (ORDER BY base_salary_median), 0)::numeric)::int,
	round(COALESCE(percentile_cont(0.50) WITHIN GROUP (ORDER BY base_salary_median), 0)::numeric)::int,
	round(COALESCE(percentile_cont(0.75) WITHIN GROUP (ORDER BY base_salary_median), 0)::numeric)::int,
	round(COALESCE(percentile_cont(0.90) WITHIN GROUP (ORDER BY base_salary_median), 0)::numeric)::int,
	count(*)::int
FROM compensation_data`

func (s *PostgresStore) SalaryPercentiles(ctx context.Context, filter RangeFilter) (*model.Percentiles, error) {
	where, args := rangeWhere(postgresDialect, filter)
	var p model.Percentiles
	err := s.pool.QueryRow(ctx, postgresPercentiles+where, args...).
		Scan(&p.P10, &p.P25, &p.P50, &p.P75, &p.P90, &p.Count)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: salary percentiles")
	}
	return &p, nil
}

func (s *PostgresStore) JobTitleSuggestions(ctx context.Context, query string, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT job_title FROM compensation_data WHERE job_title ILIKE $1 ORDER BY job_title LIMIT $2`,
		containsPattern(query), limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: job title suggestions")
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, eris.Wrap(err, "postgres: scan job title")
		}
		titles = append(titles, t)
	}
	return titles, eris.Wrap(rows.Err(), "postgres: job title suggestions iterate")
}

func (s *PostgresStore) AggregateStats(ctx context.Context) (*model.AggregateStats, error) {
	var st model.AggregateStats
	err := s.pool.QueryRow(ctx, `SELECT count(*)::int,
	COALESCE(round(avg(base_salary_median)), 0)::int,
	count(DISTINCT job_title)::int,
	count(DISTINCT industry)::int
FROM compensation_data`).Scan(&st.TotalRecords, &st.AvgSalary, &st.UniqueRoles, &st.UniqueIndustries)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: aggregate stats")
	}
	return &st, nil
}

func (s *PostgresStore) SalaryByRole(ctx context.Context, limit int) ([]model.NamedValue, error) {
	return s.namedValues(ctx, "salary by role", `SELECT job_title, round(avg(base_salary_median))::float8 AS avg_salary, count(*)::int
FROM compensation_data GROUP BY job_title ORDER BY avg_salary DESC, job_title LIMIT $1`, limit)
}

func (s *PostgresStore) IndustryDistribution(ctx context.Context) ([]model.NamedValue, error) {
	return s.namedValues(ctx, "industry distribution", `SELECT industry, count(*)::float8, count(*)::int
FROM compensation_data GROUP BY industry ORDER BY count(*) DESC, industry`)
}

func (s *PostgresStore) namedValues(ctx context.Context, what, sql string, args ...any) ([]model.NamedValue, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: %s", what)
	}
	defer rows.Close()

	out := []model.NamedValue{}
	for rows.Next() {
		var nv model.NamedValue
		if err := rows.Scan(&nv.Name, &nv.Value, &nv.Count); err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s", what)
		}
		out = append(out, nv)
	}
	return out, eris.Wrapf(rows.Err(), "postgres: %s iterate", what)
}

func (s *PostgresStore) RecentCompensation(ctx context.Context, limit int) ([]model.CompensationRecord, error) {
	rows, err := s.pool.Query(ctx, selectCompensation+` ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: recent compensation")
	}
	defer rows.Close()

	recs := []model.CompensationRecord{}
	for rows.Next() {
		var skills []string
		r, err := scanCompensation(rows, &skills)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan compensation")
		}
		r.Skills = skills
		recs = append(recs, r)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: recent compensation iterate")
}

func (s *PostgresStore) SaveOfferEvaluation(ctx context.Context, ev *model.OfferEvaluation) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(insertEvaluationSQL, placeholders(postgresDialect, 19)), evaluationArgs(ev)...)
	return eris.Wrapf(err, "postgres: save offer evaluation %s", ev.SessionID)
}

func (s *PostgresStore) GetOfferEvaluation(ctx context.Context, sessionID string) (*model.OfferEvaluation, error) {
	ev, err := scanEvaluation(s.pool.QueryRow(ctx, fmt.Sprintf(selectEvaluationSQL, "$1"), sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get offer evaluation %s", sessionID)
	}
	return ev, nil
}

func (s *PostgresStore) SaveQuizResponse(ctx context.Context, qr *model.QuizResponse) error {
	answers, err := json.Marshal(qr.Answers)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal quiz answers")
	}
	_, err = s.pool.Exec(ctx, fmt.Sprintf(insertQuizSQL, placeholders(postgresDialect, 7)),
		qr.ID, qr.SessionID, answers, qr.CurrentOffer, qr.Score, string(qr.Tier), qr.CreatedAt)
	return eris.Wrapf(err, "postgres: save quiz response %s", qr.ID)
}

func (s *PostgresStore) SaveScriptSession(ctx context.Context, ss *model.ScriptSession) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(insertScriptSQL, placeholders(postgresDialect, 8)),
		ss.ID, ss.SessionID, string(ss.Scenario), string(ss.Tone), ss.CurrentOffer, ss.TargetAmount, ss.Body, ss.CreatedAt)
	return eris.Wrapf(err, "postgres: save script session %s", ss.ID)
}

func (s *PostgresStore) SaveFeedback(ctx context.Context, fb *model.Feedback) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(insertFeedbackSQL, placeholders(postgresDialect, 6)),
		fb.ID, fb.SessionID, fb.Tool, fb.Rating, fb.Comment, fb.CreatedAt)
	return eris.Wrapf(err, "postgres: save feedback %s", fb.ID)
}

// pgSkills keeps a nil slice from becoming a NULL array.
func pgSkills(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}

func copyRows(recs []model.CompensationRecord) [][]any {
	now := time.Now().UTC()
	rows := make([][]any, len(recs))
	for i, rec := range recs {
		rec.ApplyDefaults(now)
		rows[i] = compensationValues(rec, pgSkills(rec.Skills))
	}
	return rows
}
