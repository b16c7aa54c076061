package repository

import (
	"context"
	"errors"
	"fmt"
	"papertrader/types"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const positionColumns = `symbol, name, type, quantity, avg_buy_price, last_traded_at`

// FindPosition returns the held position for symbol.
func (s *Store) FindPosition(ctx context.Context, symbol string) (*types.Position, error) {
	return s.scanPosition(symbol, s.q.QueryRow(ctx,
		`SELECT `+positionColumns+` FROM portfolio_asset WHERE symbol = $1`, symbol))
}

// findPositionForUpdate locks the row for the rest of the transaction so
// concurrent trades on the same symbol serialize.
func (s *Store) findPositionForUpdate(ctx context.Context, symbol string) (*types.Position, error) {
	return s.scanPosition(symbol, s.q.QueryRow(ctx,
		`SELECT `+positionColumns+` FROM portfolio_asset WHERE symbol = $1 FOR UPDATE`, symbol))
}

// UpsertBuy books quantity units bought at unitPrice. A first buy creates
// the row; a repeat buy adds to the quantity and recomputes the
// quantity-weighted average cost.
func (s *Store) UpsertBuy(ctx context.Context, symbol string, quantity int64, unitPrice decimal.Decimal, name string, assetType types.AssetType) (*types.Position, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("buy %s: quantity %d must be positive", symbol, quantity)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("buy %s: unit price %s must not be negative", symbol, unitPrice)
	}

	pos, err := s.findPositionForUpdate(ctx, symbol)
	if errors.Is(err, ErrPositionNotFound) {
		return s.scanPosition(symbol, s.q.QueryRow(ctx,
			`INSERT INTO portfolio_asset (`+positionColumns+`)
			 VALUES ($1, $2, $3, $4, $5, now())
			 RETURNING `+positionColumns,
			symbol, name, assetType, quantity, unitPrice))
	}
	if err != nil {
		return nil, err
	}

	newAvg := weightedAvg(pos.AvgBuyPrice, pos.Quantity, unitPrice, quantity)
	return s.scanPosition(symbol, s.q.QueryRow(ctx,
		`UPDATE portfolio_asset
		 SET quantity = $2, avg_buy_price = $3, last_traded_at = now()
		 WHERE symbol = $1
		 RETURNING `+positionColumns,
		symbol, pos.Quantity+quantity, newAvg))
}

// ReducePosition takes quantity units out of the position, deleting the row
// when it reaches zero. In that case the returned position is nil. The
// average buy price is left untouched by sells.
func (s *Store) ReducePosition(ctx context.Context, symbol string, quantity int64) (*types.Position, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("sell %s: quantity %d must be positive", symbol, quantity)
	}
	pos, err := s.findPositionForUpdate(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if quantity > pos.Quantity {
		return nil, fmt.Errorf("symbol %s held %d, requested %d: %w",
			symbol, pos.Quantity, quantity, ErrInsufficientQuantity)
	}
	if quantity == pos.Quantity {
		if _, err := s.q.Exec(ctx, `DELETE FROM portfolio_asset WHERE symbol = $1`, symbol); err != nil {
			return nil, fmt.Errorf("delete position %s: %w", symbol, err)
		}
		return nil, nil
	}
	return s.scanPosition(symbol, s.q.QueryRow(ctx,
		`UPDATE portfolio_asset SET quantity = quantity - $2 WHERE symbol = $1
		 RETURNING `+positionColumns,
		symbol, quantity))
}

// RemovePosition deletes the position outright and returns what was held,
// so the caller can compute proceeds from the pre-deletion quantity.
func (s *Store) RemovePosition(ctx context.Context, symbol string) (*types.Position, error) {
	return s.scanPosition(symbol, s.q.QueryRow(ctx,
		`DELETE FROM portfolio_asset WHERE symbol = $1 RETURNING `+positionColumns, symbol))
}

// ListPositions returns every held position in symbol order.
func (s *Store) ListPositions(ctx context.Context) ([]types.Position, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+positionColumns+` FROM portfolio_asset ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []types.Position
	for rows.Next() {
		var p types.Position
		if err := rows.Scan(&p.Symbol, &p.Name, &p.Type, &p.Quantity, &p.AvgBuyPrice, &p.LastTradedAt); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (s *Store) scanPosition(symbol string, row pgx.Row) (*types.Position, error) {
	var p types.Position
	err := row.Scan(&p.Symbol, &p.Name, &p.Type, &p.Quantity, &p.AvgBuyPrice, &p.LastTradedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("symbol %s %w", symbol, ErrPositionNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// weightedAvg recomputes the average cost after adding addQty units at price
// to qty units carried at avg.
func weightedAvg(avg decimal.Decimal, qty int64, price decimal.Decimal, addQty int64) decimal.Decimal {
	if qty <= 0 {
		return price
	}
	oldQty := decimal.NewFromInt(qty)
	newQty := decimal.NewFromInt(addQty)
	return avg.Mul(oldQty).
		Add(price.Mul(newQty)).
		Div(oldQty.Add(newQty))
}
