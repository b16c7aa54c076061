package repository

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Global error declarations.
var (
	ErrQuoteNotFound        = errors.New("not found in catalogue")
	ErrQuoteExists          = errors.New("already in catalogue")
	ErrPositionNotFound     = errors.New("not held in portfolio")
	ErrInsufficientFunds    = errors.New("insufficient balance")
	ErrInsufficientQuantity = errors.New("sell quantity exceeds held quantity")
	ErrNegativeAmount       = errors.New("amount must not be negative")
)

// querier is the query surface shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the query API, bound either to the pool for standalone calls or
// to an open transaction inside InTx.
type Store struct {
	q              querier
	initialBalance decimal.Decimal
}

// Database holds the connection pool. The embedded Store runs each call in
// its own implicit transaction.
type Database struct {
	Store
	pool *pgxpool.Pool
}

// NewDatabase connects, registers the decimal codec, verifies connectivity
// and applies the schema. initialBalance seeds the cash singleton on first
// access.
func NewDatabase(ctx context.Context, dbURL string, initialBalance decimal.Decimal) (*Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	// Ensure the connection is established.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Database{
		Store: Store{q: pool, initialBalance: initialBalance},
		pool:  pool,
	}, nil
}

// InTx runs fn within a single database transaction. The Store handed to fn
// is bound to that transaction; any error from fn rolls the whole unit back,
// so callers never observe a partial mutation.
func (db *Database) InTx(ctx context.Context, fn func(s *Store) error) error {
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		return fn(&Store{q: tx, initialBalance: db.initialBalance})
	})
}

func (db *Database) Close() {
	db.pool.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
