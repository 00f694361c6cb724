package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/cache"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/coach"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/script"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/store"
)

const defaultSQLitePath = "coach.db"

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns:  cfg.Store.MaxConns,
			MinConns:  cfg.Store.MinConns,
			BatchSize: cfg.Dataset.BatchSize,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// env bundles what the service commands share.
type env struct {
	Store   store.Store
	Cache   cache.Cache
	Service *coach.Service
}

func (e *env) Close() {
	if e.Cache != nil {
		_ = e.Cache.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initEnv(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	e := &env{Store: st}

	// Migrations are idempotent, so every command brings the schema current.
	if err := st.Migrate(ctx); err != nil {
		e.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	c, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		e.Close()
		return nil, eris.Wrap(err, "open cache")
	}
	e.Cache = c

	phrases, err := script.LoadPhraseBank(cfg.Script.PhrasesPath)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.Service = coach.New(st, script.NewComposer(phrases, script.DefaultWeights()), e.Cache)
	return e, nil
}
