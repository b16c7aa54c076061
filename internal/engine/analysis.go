package engine

import (
	"context"
	"encoding/json"
	"papertrader/types"

	"github.com/shopspring/decimal"
)

// Analyze sends the min-max normalized position weights to the scoring
// service and relays its opaque payload. The raw weight of a holding is
// quantity times current price; when all weights are equal every normalized
// weight is zero.
func (e *Engine) Analyze(ctx context.Context) (json.RawMessage, error) {
	holdings, err := e.Portfolio(ctx)
	if err != nil {
		return nil, err
	}
	return e.analyzer.Analyze(ctx, normalizedWeights(holdings))
}

func normalizedWeights(holdings []types.Holding) []types.AssetWeight {
	raw := make([]float64, len(holdings))
	for i, h := range holdings {
		raw[i], _ = h.CurrentPrice.Mul(decimal.NewFromInt(h.Quantity)).Float64()
	}

	min, max := 0.0, 1.0
	if len(raw) > 0 {
		min, max = raw[0], raw[0]
		for _, w := range raw[1:] {
			if w < min {
				min = w
			}
			if w > max {
				max = w
			}
		}
	}

	assets := make([]types.AssetWeight, len(holdings))
	for i, h := range holdings {
		weight := 0.0
		if max > min {
			weight = (raw[i] - min) / (max - min)
		}
		assets[i] = types.AssetWeight{Ticker: h.Symbol, Weight: weight}
	}
	return assets
}
