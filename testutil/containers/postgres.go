//go:build integration

// Package containers starts disposable infrastructure for integration tests.
package containers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rise-and-shine/popreg/pg"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
)

const (
	postgresImage    = "postgres:17-alpine"
	postgresDatabase = "popreg"
	postgresUser     = "popreg"
	postgresPassword = "popreg"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container testcontainers.Container
	Config    pg.Config
	DB        *bun.DB
}

// NewPostgresContainer starts a PostgreSQL container and connects to it with
// searchPath as the connection search path. The container is terminated on test cleanup.
func NewPostgresContainer(t *testing.T, searchPath string) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(postgresDatabase),
		tcpostgres.WithUsername(postgresUser),
		tcpostgres.WithPassword(postgresPassword),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get postgres port: %v", err)
	}

	cfg := pg.Config{
		Host:                host,
		Port:                port.Int(),
		User:                postgresUser,
		Password:            postgresPassword,
		Database:            postgresDatabase,
		SSLMode:             "disable",
		SearchPath:          searchPath,
		ConnectTimeout:      10 * time.Second,
		SlowQueryThreshold:  time.Second,
		PoolMaxConns:        16,
		PoolMinConns:        1,
		PoolMaxConnLifetime: time.Hour,
		PoolMaxConnIdleTime: 30 * time.Minute,
	}

	db, err := pg.NewBunDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return &PostgresContainer{
		Container: container,
		Config:    cfg,
		DB:        db,
	}
}

// TruncateTables empties the given tables of schema.
// Use between tests to ensure isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, schema string, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	qualified := make([]string, 0, len(tables))
	for _, table := range tables {
		qualified = append(qualified, fmt.Sprintf("%q.%q", schema, table))
	}

	_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(qualified, ", ")+" CASCADE")
	return err
}
