package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"papertrader/internal/repository"
	"papertrader/types"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var mockTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// mockStore keeps the whole portfolio state in memory and emulates the
// transactional rollback: an error inside InTx restores the pre-call state.
type mockStore struct {
	balance   decimal.Decimal
	quotes    map[string]types.Quote
	positions map[string]types.Position
	bars      []types.Bar
	trades    []types.TradeRecord
}

func newMockStore(balance string, quotes ...types.Quote) *mockStore {
	m := &mockStore{
		balance:   decimal.RequireFromString(balance),
		quotes:    map[string]types.Quote{},
		positions: map[string]types.Position{},
	}
	for _, q := range quotes {
		m.quotes[q.Symbol] = q
	}
	return m
}

func (m *mockStore) InTx(_ context.Context, fn func(tx TradeStore) error) error {
	saved := mockStore{
		balance:   m.balance,
		quotes:    maps.Clone(m.quotes),
		positions: maps.Clone(m.positions),
		bars:      slices.Clone(m.bars),
		trades:    slices.Clone(m.trades),
	}
	if err := fn(m); err != nil {
		*m = saved
		return err
	}
	return nil
}

func (m *mockStore) Balance(context.Context) (types.Balance, error) {
	return types.Balance{Amount: m.balance, LastUpdated: mockTime}, nil
}

func (m *mockStore) SetBalance(_ context.Context, amount decimal.Decimal) (types.Balance, error) {
	if amount.IsNegative() {
		return types.Balance{}, repository.ErrNegativeAmount
	}
	m.balance = amount
	return types.Balance{Amount: m.balance, LastUpdated: mockTime}, nil
}

func (m *mockStore) Credit(_ context.Context, amount decimal.Decimal) (types.Balance, error) {
	if amount.IsNegative() {
		return types.Balance{}, repository.ErrNegativeAmount
	}
	m.balance = m.balance.Add(amount)
	return types.Balance{Amount: m.balance, LastUpdated: mockTime}, nil
}

func (m *mockStore) Debit(_ context.Context, amount decimal.Decimal) (types.Balance, error) {
	if amount.IsNegative() {
		return types.Balance{}, repository.ErrNegativeAmount
	}
	if m.balance.LessThan(amount) {
		return types.Balance{}, repository.ErrInsufficientFunds
	}
	m.balance = m.balance.Sub(amount)
	return types.Balance{Amount: m.balance, LastUpdated: mockTime}, nil
}

func (m *mockStore) FindPosition(_ context.Context, symbol string) (*types.Position, error) {
	pos, ok := m.positions[symbol]
	if !ok {
		return nil, fmt.Errorf("symbol %s %w", symbol, repository.ErrPositionNotFound)
	}
	return &pos, nil
}

func (m *mockStore) UpsertBuy(_ context.Context, symbol string, quantity int64, unitPrice decimal.Decimal, name string, assetType types.AssetType) (*types.Position, error) {
	pos, ok := m.positions[symbol]
	if !ok {
		pos = types.Position{Symbol: symbol, Name: name, Type: assetType, AvgBuyPrice: unitPrice}
	} else {
		oldQty := decimal.NewFromInt(pos.Quantity)
		addQty := decimal.NewFromInt(quantity)
		pos.AvgBuyPrice = pos.AvgBuyPrice.Mul(oldQty).
			Add(unitPrice.Mul(addQty)).
			Div(oldQty.Add(addQty))
	}
	pos.Quantity += quantity
	pos.LastTradedAt = mockTime
	m.positions[symbol] = pos
	return &pos, nil
}

func (m *mockStore) ReducePosition(ctx context.Context, symbol string, quantity int64) (*types.Position, error) {
	pos, err := m.FindPosition(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if quantity > pos.Quantity {
		return nil, repository.ErrInsufficientQuantity
	}
	if quantity == pos.Quantity {
		delete(m.positions, symbol)
		return nil, nil
	}
	pos.Quantity -= quantity
	m.positions[symbol] = *pos
	return pos, nil
}

func (m *mockStore) RemovePosition(ctx context.Context, symbol string) (*types.Position, error) {
	pos, err := m.FindPosition(ctx, symbol)
	if err != nil {
		return nil, err
	}
	delete(m.positions, symbol)
	return pos, nil
}

func (m *mockStore) ListPositions(context.Context) ([]types.Position, error) {
	var positions []types.Position
	for _, symbol := range slices.Sorted(maps.Keys(m.positions)) {
		positions = append(positions, m.positions[symbol])
	}
	return positions, nil
}

func (m *mockStore) GetQuote(_ context.Context, symbol string) (*types.Quote, error) {
	q, ok := m.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("symbol %s %w", symbol, repository.ErrQuoteNotFound)
	}
	return &q, nil
}

func (m *mockStore) InsertQuote(_ context.Context, q *types.Quote) error {
	if _, ok := m.quotes[q.Symbol]; ok {
		return repository.ErrQuoteExists
	}
	m.quotes[q.Symbol] = *q
	return nil
}

func (m *mockStore) UpsertQuote(_ context.Context, q *types.Quote) error {
	m.quotes[q.Symbol] = *q
	return nil
}

func (m *mockStore) SearchCatalogue(_ context.Context, query string) ([]types.Quote, error) {
	var quotes []types.Quote
	for _, symbol := range slices.Sorted(maps.Keys(m.quotes)) {
		q := m.quotes[symbol]
		if hasPrefixFold(q.Symbol, query) || hasPrefixFold(q.Name, query) {
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

func (m *mockStore) ListCatalogue(context.Context) ([]types.Quote, error) {
	var quotes []types.Quote
	for _, symbol := range slices.Sorted(maps.Keys(m.quotes)) {
		quotes = append(quotes, m.quotes[symbol])
	}
	return quotes, nil
}

func (m *mockStore) SaveBars(_ context.Context, bars []types.Bar) error {
	m.bars = append(m.bars, bars...)
	return nil
}

func (m *mockStore) ListHistory(context.Context) ([]types.Bar, error) {
	return slices.Clone(m.bars), nil
}

func (m *mockStore) ListHistoryBySymbol(_ context.Context, symbol string) ([]types.Bar, error) {
	var bars []types.Bar
	for _, b := range m.bars {
		if b.Symbol == symbol {
			bars = append(bars, b)
		}
	}
	return bars, nil
}

func (m *mockStore) RecordTrade(_ context.Context, t *types.TradeRecord) error {
	m.trades = append(m.trades, *t)
	return nil
}

func (m *mockStore) ListTrades(context.Context) ([]types.TradeRecord, error) {
	trades := slices.Clone(m.trades)
	slices.Reverse(trades)
	return trades, nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// contendedStore mutates the underlying state right before a chosen call,
// simulating another transaction on the same rows committing first. Each
// hook fires once.
type contendedStore struct {
	*mockStore
	beforeDebit  func(m *mockStore)
	beforeReduce func(m *mockStore)
	beforeRemove func(m *mockStore)
}

func (s *contendedStore) InTx(ctx context.Context, fn func(tx TradeStore) error) error {
	return s.mockStore.InTx(ctx, func(TradeStore) error { return fn(s) })
}

func (s *contendedStore) Debit(ctx context.Context, amount decimal.Decimal) (types.Balance, error) {
	if s.beforeDebit != nil {
		s.beforeDebit(s.mockStore)
		s.beforeDebit = nil
	}
	return s.mockStore.Debit(ctx, amount)
}

func (s *contendedStore) ReducePosition(ctx context.Context, symbol string, quantity int64) (*types.Position, error) {
	if s.beforeReduce != nil {
		s.beforeReduce(s.mockStore)
		s.beforeReduce = nil
	}
	return s.mockStore.ReducePosition(ctx, symbol, quantity)
}

func (s *contendedStore) RemovePosition(ctx context.Context, symbol string) (*types.Position, error) {
	if s.beforeRemove != nil {
		s.beforeRemove(s.mockStore)
		s.beforeRemove = nil
	}
	return s.mockStore.RemovePosition(ctx, symbol)
}

// mockProvider serves canned quotes and history rows.
type mockProvider struct {
	quotes  map[string]types.Quote
	history map[string][]types.Bar
	err     error
	calls   int
}

func (p *mockProvider) Quote(_ context.Context, symbol string) (*types.Quote, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("symbol %s unknown to provider", symbol)
	}
	return &q, nil
}

func (p *mockProvider) History(_ context.Context, symbol string) ([]types.Bar, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.history[symbol], nil
}

// mockAnalyzer records what it was asked to score.
type mockAnalyzer struct {
	gotAssets []types.AssetWeight
	payload   json.RawMessage
	err       error
}

func (a *mockAnalyzer) Analyze(_ context.Context, assets []types.AssetWeight) (json.RawMessage, error) {
	a.gotAssets = assets
	if a.err != nil {
		return nil, a.err
	}
	return a.payload, nil
}

func quoteAt(symbol, name string, assetType types.AssetType, price string) types.Quote {
	p := decimal.RequireFromString(price)
	return types.Quote{
		Symbol:      symbol,
		Name:        name,
		Type:        assetType,
		Open:        p,
		High:        p,
		Low:         p,
		Close:       p,
		Price:       p,
		Volume:      1000,
		Currency:    "USD",
		Exchange:    "NMS",
		LastUpdated: mockTime,
	}
}
