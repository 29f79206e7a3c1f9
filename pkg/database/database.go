// Package database owns the PostgreSQL connection used as the wishlist record
// store. It opens database/sql through the pgx stdlib driver so that sqlc
// queries, goose migrations and the Watermill SQL transport share one driver.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ghuser/wishlist/pkg/logger"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
	connMaxIdleTime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Database wraps *sql.DB with transaction and query-tracing helpers.
type Database struct {
	db     *sql.DB
	log    logger.Logger
	tracer *queryTracer
}

// Option customises a Database.
type Option func(*Database)

// WithSlowQueryThreshold logs queries that take at least d as warnings.
// Zero disables slow query logging.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(db *Database) {
		db.tracer.slowThreshold = d
	}
}

// NewPool opens a pooled connection to dsn and verifies it with a ping.
func NewPool(ctx context.Context, dsn string, log logger.Logger, opts ...Option) (*Database, error) {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connCfg)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return New(sqlDB, log, opts...), nil
}

// New wraps an already opened *sql.DB.
func New(sqlDB *sql.DB, log logger.Logger, opts ...Option) *Database {
	d := &Database{
		db:     sqlDB,
		log:    log,
		tracer: &queryTracer{log: log},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DB returns the underlying *sql.DB.
func (d *Database) DB() *sql.DB {
	return d.db
}

// WithTx runs fn inside a transaction. The transaction commits when fn returns
// nil and rolls back otherwise.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				d.log.ErrorContext(ctx, "rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// TraceQuery starts a client span for a store operation. Call the returned
// function with the operation's error when it finishes:
//
//	ctx, end := r.db.TraceQuery(ctx, "ListWishes", listWishesSQL)
//	defer func() { end(err) }()
func (d *Database) TraceQuery(ctx context.Context, operation, statement string) (context.Context, func(error)) {
	return d.tracer.start(ctx, operation, statement)
}

// Ping checks the connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Close closes the pool.
func (d *Database) Close() {
	if err := d.db.Close(); err != nil {
		d.log.Error("database close", "error", err)
	}
}
