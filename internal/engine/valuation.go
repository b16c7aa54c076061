package engine

import (
	"context"
	"errors"
	"fmt"
	"papertrader/internal/repository"
	"papertrader/types"

	"github.com/shopspring/decimal"
)

// Portfolio joins every held position with its catalogue quote and computes
// the unrealized profit or loss per holding. A held symbol without a quote
// fails the whole snapshot rather than render stale numbers.
func (e *Engine) Portfolio(ctx context.Context) ([]types.Holding, error) {
	positions, err := e.db.ListPositions(ctx)
	if err != nil {
		return nil, err
	}

	holdings := make([]types.Holding, 0, len(positions))
	for _, pos := range positions {
		quote, err := e.db.GetQuote(ctx, pos.Symbol)
		if err != nil {
			if errors.Is(err, repository.ErrQuoteNotFound) {
				e.log.Error("position has no catalogue entry", "symbol", pos.Symbol)
				return nil, fmt.Errorf("symbol %s: %w", pos.Symbol, ErrCatalogueInconsistency)
			}
			return nil, err
		}
		holdings = append(holdings, types.Holding{
			Symbol:       pos.Symbol,
			Name:         pos.Name,
			Type:         pos.Type,
			Quantity:     pos.Quantity,
			AvgBuyPrice:  pos.AvgBuyPrice,
			CurrentPrice: quote.Price,
			High:         quote.High,
			Low:          quote.Low,
			Volume:       quote.Volume,
			ProfitLoss:   quote.Price.Sub(pos.AvgBuyPrice).Mul(decimal.NewFromInt(pos.Quantity)),
			LastTradedAt: pos.LastTradedAt,
		})
	}
	return holdings, nil
}
