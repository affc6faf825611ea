// Package database owns the Postgres connection pool, the schema migrations
// and the seed of the provisioned accounts.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andrenbrandao/rinha-ledger/pkg/config"
	"github.com/andrenbrandao/rinha-ledger/pkg/logging"
	"github.com/andrenbrandao/rinha-ledger/pkg/repositories"
	"github.com/cenkalti/backoff/v4"
	"github.com/exaring/otelpgx"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

//go:embed seed.sql
var seedSql string

// Connect opens a pool and pings it until the database answers or the
// configured number of retries is exhausted.
func Connect(ctx context.Context, cfg config.Database, logger *logging.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	err = backoff.RetryNotify(
		func() error { return pool.Ping(ctx) },
		backoff.WithContext(backoff.WithMaxRetries(b, cfg.ConnectRetries), ctx),
		func(err error, next time.Duration) {
			logger.WithError(err).Warnf("Unable to reach database, retrying in %v", next)
		},
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return pool, nil
}

// Migrate brings the schema up to date. It is a no-op when nothing changed.
func Migrate(databaseURL string) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(databaseURL))
	if err != nil {
		return fmt.Errorf("instantiate the database schema migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up to the latest database schema: %w", err)
	}
	return nil
}

// migrateURL points the migrator at its pgx v5 driver.
func migrateURL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, scheme)
		}
	}
	return databaseURL
}

// Seed provisions the fixed set of accounts. Existing rows are left alone.
func Seed(ctx context.Context, q repositories.Querier) error {
	if _, err := q.Exec(ctx, seedSql); err != nil {
		return fmt.Errorf("unable to seed database: %w", err)
	}
	return nil
}

// VerifyCustomers fails unless every configured customer id exists.
func VerifyCustomers(ctx context.Context, q repositories.Querier, ids []int) error {
	count, err := repositories.CountAccounts(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if count != len(ids) {
		return fmt.Errorf("found %d of %d configured customers in the database", count, len(ids))
	}
	return nil
}
