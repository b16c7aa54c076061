package engine

import (
	"context"
	"errors"
	"papertrader/internal/repository"
	"papertrader/types"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEngineAddAsset(t *testing.T) {
	ctx := context.Background()
	db := newMockStore("0")
	provider := &mockProvider{quotes: map[string]types.Quote{
		"AAPL": quoteAt("AAPL", "Apple", types.AssetTypeStock, "180"),
	}}
	eng := NewEngine(db, provider, &mockAnalyzer{}, testLogger())

	quote, err := eng.AddAsset(ctx, "AAPL")
	if err != nil {
		t.Fatalf("AddAsset() error = %v", err)
	}
	if !quote.Price.Equal(decimal.RequireFromString("180")) {
		t.Errorf("AddAsset() price = %v, want 180", quote.Price)
	}
	if _, ok := db.quotes["AAPL"]; !ok {
		t.Fatalf("AddAsset() did not persist the quote")
	}

	// Second add of the same symbol must be refused without a provider call.
	calls := provider.calls
	if _, err := eng.AddAsset(ctx, "AAPL"); !errors.Is(err, repository.ErrQuoteExists) {
		t.Fatalf("AddAsset() duplicate error = %v, want ErrQuoteExists", err)
	}
	if provider.calls != calls {
		t.Errorf("duplicate AddAsset() still hit the provider")
	}
}

func TestEngineUpdateAsset(t *testing.T) {
	ctx := context.Background()
	db := newMockStore("0", quoteAt("AAPL", "Apple", types.AssetTypeStock, "180"))
	provider := &mockProvider{quotes: map[string]types.Quote{
		"AAPL": quoteAt("AAPL", "Apple", types.AssetTypeStock, "200"),
	}}
	eng := NewEngine(db, provider, &mockAnalyzer{}, testLogger())

	quote, err := eng.UpdateAsset(ctx, "AAPL")
	if err != nil {
		t.Fatalf("UpdateAsset() error = %v", err)
	}
	if !quote.Price.Equal(decimal.RequireFromString("200")) {
		t.Errorf("UpdateAsset() price = %v, want 200", quote.Price)
	}
	if !db.quotes["AAPL"].Price.Equal(decimal.RequireFromString("200")) {
		t.Errorf("UpdateAsset() did not persist the refreshed price")
	}

	if _, err := eng.UpdateAsset(ctx, "MSFT"); !errors.Is(err, repository.ErrQuoteNotFound) {
		t.Fatalf("UpdateAsset() unknown symbol error = %v, want ErrQuoteNotFound", err)
	}
}

func TestEngineSearch(t *testing.T) {
	db := newMockStore("0",
		quoteAt("AAPL", "Apple", types.AssetTypeStock, "180"),
		quoteAt("AMZN", "Amazon", types.AssetTypeStock, "190"),
		quoteAt("BTC-USD", "Bitcoin", types.AssetTypeCrypto, "60000"),
	)
	eng := newTestEngine(db)

	tests := []struct {
		query string
		want  []string
	}{
		{"aa", []string{"AAPL"}},
		{"a", []string{"AAPL", "AMZN"}},
		{"bit", []string{"BTC-USD"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		got, err := eng.Search(context.Background(), tt.query)
		if err != nil {
			t.Fatalf("Search(%q) error = %v", tt.query, err)
		}
		var symbols []string
		for _, q := range got {
			symbols = append(symbols, q.Symbol)
		}
		if len(symbols) != len(tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.query, symbols, tt.want)
			continue
		}
		for i := range tt.want {
			if symbols[i] != tt.want[i] {
				t.Errorf("Search(%q) = %v, want %v", tt.query, symbols, tt.want)
			}
		}
	}
}

func TestEngineRefreshHistory(t *testing.T) {
	db := newMockStore("0")
	provider := &mockProvider{history: map[string][]types.Bar{
		"AAPL": {
			{Symbol: "AAPL", Type: types.AssetTypeStock, Date: "2025-05-30",
				Open: decimal.RequireFromString("178"), High: decimal.RequireFromString("182"),
				Low: decimal.RequireFromString("177"), Close: decimal.RequireFromString("180"), Volume: 100},
			{Symbol: "AAPL", Type: types.AssetTypeStock, Date: "2025-06-02",
				Open: decimal.RequireFromString("181"), High: decimal.RequireFromString("185"),
				Low: decimal.RequireFromString("180"), Close: decimal.RequireFromString("184"), Volume: 120},
		},
	}}
	eng := NewEngine(db, provider, &mockAnalyzer{}, testLogger())

	bars, err := eng.RefreshHistory(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("RefreshHistory() error = %v", err)
	}
	if len(bars) != 2 || len(db.bars) != 2 {
		t.Fatalf("RefreshHistory() fetched %d, stored %d, want 2 and 2", len(bars), len(db.bars))
	}
}

func TestEngineCatalogueProviderDown(t *testing.T) {
	db := newMockStore("0")
	provider := &mockProvider{err: errors.New("connection refused")}
	eng := NewEngine(db, provider, &mockAnalyzer{}, testLogger())

	if _, err := eng.AddAsset(context.Background(), "AAPL"); err == nil {
		t.Fatalf("AddAsset() expected provider error, got nil")
	}
	if len(db.quotes) != 0 {
		t.Errorf("AddAsset() stored a quote despite provider failure")
	}
}
