package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the single cash account backing all trades.
type Balance struct {
	Amount      decimal.Decimal `json:"amount"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Position is a held quantity of one symbol. Name and Type are copied from
// the quote at buy time so the book renders without a catalogue join.
// AvgBuyPrice is the quantity-weighted cost per unit over all buys; sells
// never change it.
type Position struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Type         AssetType       `json:"type"`
	Quantity     int64           `json:"quantity"`
	AvgBuyPrice  decimal.Decimal `json:"avgBuyPrice"`
	LastTradedAt time.Time       `json:"lastTradedAt"`
}

// Holding is one row of the portfolio valuation: a position enriched with
// its current quote and the unrealized profit or loss.
type Holding struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Type         AssetType       `json:"type"`
	Quantity     int64           `json:"quantity"`
	AvgBuyPrice  decimal.Decimal `json:"avgBuyPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	High         decimal.Decimal `json:"high"`
	Low          decimal.Decimal `json:"low"`
	Volume       int64           `json:"volume"`
	ProfitLoss   decimal.Decimal `json:"profitLoss"`
	LastTradedAt time.Time       `json:"lastTradedAt"`
}

type TradeSide string

const (
	TradeSideBuy     TradeSide = "BUY"
	TradeSideSell    TradeSide = "SELL"
	TradeSideSellAll TradeSide = "SELL_ALL"
)

// TradeRecord is the audit row written alongside every executed trade.
// Amount is the cash moved, always positive; Side tells the direction.
type TradeRecord struct {
	Id         string          `json:"id"`
	Symbol     string          `json:"symbol"`
	Side       TradeSide       `json:"side"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Amount     decimal.Decimal `json:"amount"`
	ExecutedAt time.Time       `json:"executedAt"`
}

// AssetWeight is one entry of the normalized weight vector sent to the
// analysis service.
type AssetWeight struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}
