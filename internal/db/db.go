// Package db provides database access.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/starquake/quizdesk/internal/migrations"
)

// ErrUnsupportedDriver is returned when the database driver is not supported. We only support sqlite for now.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Open opens a database connection and verifies it is reachable.
func Open(
	ctx context.Context,
	driver, uri string,
	dbMaxOpenConns, dbMaxIdleConns int,
	dbConnMaxLifetime time.Duration,
) (*sql.DB, error) {
	var err error
	var conn *sql.DB
	conn, err = sql.Open(driver, uri)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("error pinging database: %w (close error: %w)", err, closeErr)
		}

		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	conn.SetMaxOpenConns(dbMaxOpenConns)
	conn.SetMaxIdleConns(dbMaxIdleConns)
	conn.SetConnMaxLifetime(dbConnMaxLifetime)

	return conn, nil
}

// Migrate applies all pending migrations. It uses a goose Provider instead of the package-level goose state, so
// tests can migrate several databases in parallel.
func Migrate(ctx context.Context, conn *sql.DB, dbDriver string) error {
	var dialect goose.Dialect
	switch dbDriver {
	case "sqlite", "sqlite3":
		dialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDriver, dbDriver)
	}

	provider, err := goose.NewProvider(dialect, conn, migrations.FS)
	if err != nil {
		return fmt.Errorf("error creating migration provider: %w", err)
	}
	if _, err = provider.Up(ctx); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	return nil
}

// ExecTx runs fn within a transaction. The transaction is committed when fn returns nil and rolled back otherwise.
func ExecTx(ctx context.Context, conn *sql.DB, fn func(*sql.Tx) error) error {
	var err error
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %w (rollback error: %w)", err, rbErr)
		}

		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
