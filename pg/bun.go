// Package pg provides PostgreSQL database connection and utility functions.
//
// It offers abstractions for creating connection pools, working with the Bun ORM,
// running scoped transactions, classifying PostgreSQL-specific errors and managing
// database models with generated identifiers and automatic timestamp tracking.
// The package integrates with OpenTelemetry for observability.
package pg

import (
	"context"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rise-and-shine/popreg/pg/hooks"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bunotel"
)

// NewBunDB creates a new Bun database connection with the provided configuration.
// The connection is verified with a ping before it is returned.
func NewBunDB(ctx context.Context, cfg Config) (*bun.DB, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	sqldb := stdlib.OpenDBFromPool(pool)

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	applyHooks(bunDB, cfg)

	err = bunDB.PingContext(ctx)
	if err != nil {
		_ = bunDB.Close()
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"host": cfg.Host, "database": cfg.Database}))
	}

	return bunDB, nil
}

// applyHooks adds the query logging hook (active only when cfg.Debug is set, apart from
// slow and failed queries) and the OpenTelemetry hook.
func applyHooks(db *bun.DB, cfg Config) {
	db.AddQueryHook(
		hooks.NewDebugHook(
			hooks.WithEnabled(true),
			hooks.WithVerbose(cfg.Debug),
			hooks.WithSlowQueryThreshold(cfg.SlowQueryThreshold),
		),
	)

	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(cfg.Database)))
}
