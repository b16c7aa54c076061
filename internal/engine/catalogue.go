package engine

import (
	"context"
	"errors"
	"fmt"
	"papertrader/internal/repository"
	"papertrader/types"
)

// AddAsset pulls a fresh quote from the provider and inserts it as a new
// catalogue entry. Adding a symbol that is already tracked is an error.
func (e *Engine) AddAsset(ctx context.Context, symbol string) (*types.Quote, error) {
	if _, err := e.db.GetQuote(ctx, symbol); err == nil {
		return nil, fmt.Errorf("symbol %s %w", symbol, repository.ErrQuoteExists)
	} else if !errors.Is(err, repository.ErrQuoteNotFound) {
		return nil, err
	}
	quote, err := e.market.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := e.db.InsertQuote(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// UpdateAsset refreshes an existing catalogue entry from the provider.
func (e *Engine) UpdateAsset(ctx context.Context, symbol string) (*types.Quote, error) {
	if _, err := e.db.GetQuote(ctx, symbol); err != nil {
		return nil, err
	}
	quote, err := e.market.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := e.db.UpsertQuote(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// Catalogue lists every cached quote.
func (e *Engine) Catalogue(ctx context.Context) ([]types.Quote, error) {
	return e.db.ListCatalogue(ctx)
}

// Search matches cached quotes whose symbol or name starts with query.
func (e *Engine) Search(ctx context.Context, query string) ([]types.Quote, error) {
	return e.db.SearchCatalogue(ctx, query)
}

// ProviderQuote fetches a quote straight from the market data provider
// without touching the catalogue.
func (e *Engine) ProviderQuote(ctx context.Context, symbol string) (*types.Quote, error) {
	return e.market.Quote(ctx, symbol)
}

// ProviderHistory fetches the OHLC series straight from the provider.
func (e *Engine) ProviderHistory(ctx context.Context, symbol string) ([]types.Bar, error) {
	return e.market.History(ctx, symbol)
}

// RefreshHistory pulls the provider's OHLC series for symbol and persists
// it, returning what was fetched.
func (e *Engine) RefreshHistory(ctx context.Context, symbol string) ([]types.Bar, error) {
	bars, err := e.market.History(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := e.db.SaveBars(ctx, bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// History lists every stored bar.
func (e *Engine) History(ctx context.Context) ([]types.Bar, error) {
	return e.db.ListHistory(ctx)
}

// HistoryBySymbol lists the stored bars for one symbol.
func (e *Engine) HistoryBySymbol(ctx context.Context, symbol string) ([]types.Bar, error) {
	return e.db.ListHistoryBySymbol(ctx, symbol)
}
