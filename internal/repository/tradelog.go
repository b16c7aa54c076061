package repository

import (
	"context"
	"fmt"
	"papertrader/types"
)

// RecordTrade appends one trade to the audit log. Called inside the same
// transaction as the balance and position mutations it describes.
func (s *Store) RecordTrade(ctx context.Context, t *types.TradeRecord) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO trade_log (id, symbol, side, quantity, unit_price, amount, executed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.Id, t.Symbol, t.Side, t.Quantity, t.UnitPrice, t.Amount, t.ExecutedAt)
	if err != nil {
		return fmt.Errorf("record trade %s %s: %w", t.Side, t.Symbol, err)
	}
	return nil
}

// ListTrades returns the trade log, newest first. ULIDs sort by creation
// time, so ordering by id is ordering by execution time.
func (s *Store) ListTrades(ctx context.Context) ([]types.TradeRecord, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, symbol, side, quantity, unit_price, amount, executed_at
		 FROM trade_log ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	var trades []types.TradeRecord
	for rows.Next() {
		var t types.TradeRecord
		if err := rows.Scan(&t.Id, &t.Symbol, &t.Side, &t.Quantity, &t.UnitPrice, &t.Amount, &t.ExecutedAt); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
