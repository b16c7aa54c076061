package engine

import (
	"context"
	"errors"
	"log/slog"
	"papertrader/types"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrCatalogueInconsistency marks a held position whose symbol has no
	// catalogue entry. That is an internal defect, not a user error: a
	// position must never outlive its quote.
	ErrCatalogueInconsistency = errors.New("held position missing from catalogue")
)

// Engine owns all writes to the balance and the position book. The market
// provider and the analyzer are injected so everything is testable with
// deterministic stand-ins.
type Engine struct {
	db       dataStore
	market   marketProvider
	analyzer analyzer
	log      *slog.Logger
}

func NewEngine(db dataStore, market marketProvider, analyzer analyzer, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		db:       db,
		market:   market,
		analyzer: analyzer,
		log:      log,
	}
}

// Balance returns the cash balance, creating it on first access.
func (e *Engine) Balance(ctx context.Context) (types.Balance, error) {
	return e.db.Balance(ctx)
}

// SetBalance overwrites the cash balance. Administrative override, no
// lower-bound check against the current amount.
func (e *Engine) SetBalance(ctx context.Context, amount decimal.Decimal) (types.Balance, error) {
	return e.db.SetBalance(ctx, amount)
}

// AddBalance credits the cash balance by amount.
func (e *Engine) AddBalance(ctx context.Context, amount decimal.Decimal) (types.Balance, error) {
	return e.db.Credit(ctx, amount)
}

// SubtractBalance debits the cash balance by amount.
func (e *Engine) SubtractBalance(ctx context.Context, amount decimal.Decimal) (types.Balance, error) {
	return e.db.Debit(ctx, amount)
}

// Trades returns the executed-trade audit log, newest first.
func (e *Engine) Trades(ctx context.Context) ([]types.TradeRecord, error) {
	return e.db.ListTrades(ctx)
}
