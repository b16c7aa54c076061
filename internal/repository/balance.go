package repository

import (
	"context"
	"errors"
	"fmt"
	"papertrader/types"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Balance returns the cash balance, creating it with the configured starting
// amount on first access. The insert is guarded by the singleton primary
// key, so two concurrent first reads cannot produce two rows.
func (s *Store) Balance(ctx context.Context) (types.Balance, error) {
	if err := s.ensureBalance(ctx); err != nil {
		return types.Balance{}, err
	}
	var b types.Balance
	err := s.q.QueryRow(ctx,
		`SELECT amount, last_updated FROM balance WHERE id = 1`,
	).Scan(&b.Amount, &b.LastUpdated)
	if err != nil {
		return types.Balance{}, fmt.Errorf("read balance: %w", err)
	}
	return b, nil
}

// SetBalance overwrites the balance unconditionally. The schema still
// refuses negative amounts.
func (s *Store) SetBalance(ctx context.Context, amount decimal.Decimal) (types.Balance, error) {
	if amount.IsNegative() {
		return types.Balance{}, fmt.Errorf("set balance %s: %w", amount, ErrNegativeAmount)
	}
	if err := s.ensureBalance(ctx); err != nil {
		return types.Balance{}, err
	}
	return s.scanBalanceUpdate(ctx,
		`UPDATE balance SET amount = $1, last_updated = now() WHERE id = 1
		 RETURNING amount, last_updated`, amount)
}

// Credit adds amount to the balance.
func (s *Store) Credit(ctx context.Context, amount decimal.Decimal) (types.Balance, error) {
	if amount.IsNegative() {
		return types.Balance{}, fmt.Errorf("credit %s: %w", amount, ErrNegativeAmount)
	}
	if err := s.ensureBalance(ctx); err != nil {
		return types.Balance{}, err
	}
	return s.scanBalanceUpdate(ctx,
		`UPDATE balance SET amount = amount + $1, last_updated = now() WHERE id = 1
		 RETURNING amount, last_updated`, amount)
}

// Debit subtracts amount, refusing to take the balance below zero. The
// conditional update holds the row lock until the surrounding transaction
// ends, so two concurrent debits serialize and the second one sees the
// already-debited amount.
func (s *Store) Debit(ctx context.Context, amount decimal.Decimal) (types.Balance, error) {
	if amount.IsNegative() {
		return types.Balance{}, fmt.Errorf("debit %s: %w", amount, ErrNegativeAmount)
	}
	if err := s.ensureBalance(ctx); err != nil {
		return types.Balance{}, err
	}
	b, err := s.scanBalanceUpdate(ctx,
		`UPDATE balance SET amount = amount - $1, last_updated = now()
		 WHERE id = 1 AND amount >= $1
		 RETURNING amount, last_updated`, amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Balance{}, fmt.Errorf("debit %s: %w", amount, ErrInsufficientFunds)
	}
	return b, err
}

func (s *Store) ensureBalance(ctx context.Context) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO balance (id, amount, last_updated) VALUES (1, $1, now())
		 ON CONFLICT (id) DO NOTHING`, s.initialBalance)
	if err != nil {
		return fmt.Errorf("init balance: %w", err)
	}
	return nil
}

func (s *Store) scanBalanceUpdate(ctx context.Context, sql string, args ...any) (types.Balance, error) {
	var b types.Balance
	if err := s.q.QueryRow(ctx, sql, args...).Scan(&b.Amount, &b.LastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Balance{}, err
		}
		return types.Balance{}, fmt.Errorf("update balance: %w", err)
	}
	return b, nil
}
