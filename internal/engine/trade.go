package engine

import (
	"context"
	"errors"
	"fmt"
	"papertrader/internal/repository"
	"papertrader/types"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Buy purchases quantity units of symbol at the current catalogue price.
// The debit, the position update and the audit row land in one database
// transaction; an insufficient balance leaves everything untouched.
func (e *Engine) Buy(ctx context.Context, symbol string, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("buy %s: %w", symbol, ErrInvalidQuantity)
	}
	return e.db.InTx(ctx, func(tx TradeStore) error {
		quote, err := tx.GetQuote(ctx, symbol)
		if err != nil {
			return err
		}
		cost := quote.Price.Mul(decimal.NewFromInt(quantity))
		if _, err := tx.Debit(ctx, cost); err != nil {
			return err
		}
		if _, err := tx.UpsertBuy(ctx, symbol, quantity, quote.Price, quote.Name, quote.Type); err != nil {
			return err
		}
		return tx.RecordTrade(ctx, newTradeRecord(symbol, types.TradeSideBuy, quantity, quote.Price, cost))
	})
}

// Sell disposes quantity units of a held position at the current catalogue
// price. Credit and quantity reduction are one transaction.
func (e *Engine) Sell(ctx context.Context, symbol string, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("sell %s: %w", symbol, ErrInvalidQuantity)
	}
	return e.db.InTx(ctx, func(tx TradeStore) error {
		pos, err := tx.FindPosition(ctx, symbol)
		if err != nil {
			return err
		}
		if quantity > pos.Quantity {
			return fmt.Errorf("symbol %s held %d, requested %d: %w",
				symbol, pos.Quantity, quantity, repository.ErrInsufficientQuantity)
		}
		quote, err := e.quoteForHolding(ctx, tx, symbol)
		if err != nil {
			return err
		}
		proceeds := quote.Price.Mul(decimal.NewFromInt(quantity))
		if _, err := tx.Credit(ctx, proceeds); err != nil {
			return err
		}
		if _, err := tx.ReducePosition(ctx, symbol, quantity); err != nil {
			return err
		}
		return tx.RecordTrade(ctx, newTradeRecord(symbol, types.TradeSideSell, quantity, quote.Price, proceeds))
	})
}

// SellAll liquidates the entire position for symbol at the current
// catalogue price. The deletion happens first: it locks the row and
// returns the quantity actually held at that instant, so the credit
// always matches what was removed even when another trade on the same
// symbol committed just before.
func (e *Engine) SellAll(ctx context.Context, symbol string) error {
	return e.db.InTx(ctx, func(tx TradeStore) error {
		pos, err := tx.RemovePosition(ctx, symbol)
		if err != nil {
			return err
		}
		quote, err := e.quoteForHolding(ctx, tx, symbol)
		if err != nil {
			return err
		}
		proceeds := quote.Price.Mul(decimal.NewFromInt(pos.Quantity))
		if _, err := tx.Credit(ctx, proceeds); err != nil {
			return err
		}
		return tx.RecordTrade(ctx, newTradeRecord(symbol, types.TradeSideSellAll, pos.Quantity, quote.Price, proceeds))
	})
}

// quoteForHolding prices a symbol the caller already verified is held. A
// missing quote here is an integrity fault, not a user error.
func (e *Engine) quoteForHolding(ctx context.Context, tx TradeStore, symbol string) (*types.Quote, error) {
	quote, err := tx.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrQuoteNotFound) {
			e.log.Error("position has no catalogue entry", "symbol", symbol)
			return nil, fmt.Errorf("symbol %s: %w", symbol, ErrCatalogueInconsistency)
		}
		return nil, err
	}
	return quote, nil
}

func newTradeRecord(symbol string, side types.TradeSide, quantity int64, unitPrice, amount decimal.Decimal) *types.TradeRecord {
	return &types.TradeRecord{
		Id:         ulid.Make().String(),
		Symbol:     symbol,
		Side:       side,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Amount:     amount,
		ExecutedAt: time.Now().UTC(),
	}
}
