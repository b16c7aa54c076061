package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetType string

const (
	AssetTypeStock    AssetType = "STOCK"
	AssetTypeCrypto   AssetType = "CRYPTO"
	AssetTypeBond     AssetType = "BOND"
	AssetTypeCurrency AssetType = "CURRENCY"
)

// Quote is the latest known market snapshot for a symbol. One row per symbol
// lives in the catalogue; Price is the value trades are costed at.
type Quote struct {
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	Type        AssetType       `json:"type"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
	Price       decimal.Decimal `json:"price"`
	Volume      int64           `json:"volume"`
	Currency    string          `json:"currency"`
	Exchange    string          `json:"exchange"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Bar is one daily OHLCV entry from the provider's history feed.
// Date uses the provider's YYYY-MM-DD form.
type Bar struct {
	Symbol string          `json:"symbol"`
	Type   AssetType       `json:"type"`
	Date   string          `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

const BarDateLayout = "2006-01-02"
