package engine

import (
	"context"
	"encoding/json"
	"papertrader/types"

	"github.com/shopspring/decimal"
)

// TradeStore is the storage surface the engine drives. Inside InTx every
// call lands in the same database transaction.
type TradeStore interface {
	Balance(ctx context.Context) (types.Balance, error)
	SetBalance(ctx context.Context, amount decimal.Decimal) (types.Balance, error)
	Credit(ctx context.Context, amount decimal.Decimal) (types.Balance, error)
	Debit(ctx context.Context, amount decimal.Decimal) (types.Balance, error)

	FindPosition(ctx context.Context, symbol string) (*types.Position, error)
	UpsertBuy(ctx context.Context, symbol string, quantity int64, unitPrice decimal.Decimal, name string, assetType types.AssetType) (*types.Position, error)
	ReducePosition(ctx context.Context, symbol string, quantity int64) (*types.Position, error)
	RemovePosition(ctx context.Context, symbol string) (*types.Position, error)
	ListPositions(ctx context.Context) ([]types.Position, error)

	GetQuote(ctx context.Context, symbol string) (*types.Quote, error)
	InsertQuote(ctx context.Context, q *types.Quote) error
	UpsertQuote(ctx context.Context, q *types.Quote) error
	SearchCatalogue(ctx context.Context, query string) ([]types.Quote, error)
	ListCatalogue(ctx context.Context) ([]types.Quote, error)

	SaveBars(ctx context.Context, bars []types.Bar) error
	ListHistory(ctx context.Context) ([]types.Bar, error)
	ListHistoryBySymbol(ctx context.Context, symbol string) ([]types.Bar, error)

	RecordTrade(ctx context.Context, t *types.TradeRecord) error
	ListTrades(ctx context.Context) ([]types.TradeRecord, error)
}

type dataStore interface {
	TradeStore
	InTx(ctx context.Context, fn func(tx TradeStore) error) error
}

type marketProvider interface {
	Quote(ctx context.Context, symbol string) (*types.Quote, error)
	History(ctx context.Context, symbol string) ([]types.Bar, error)
}

type analyzer interface {
	Analyze(ctx context.Context, assets []types.AssetWeight) (json.RawMessage, error)
}
