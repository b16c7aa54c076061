package repository

import (
	"context"
	"errors"
	"fmt"
	"papertrader/types"

	"github.com/jackc/pgx/v5"
)

const quoteColumns = `symbol, name, type, open, high, low, close, price, volume, currency, exchange, last_updated`

// GetQuote returns the cached snapshot for symbol.
func (s *Store) GetQuote(ctx context.Context, symbol string) (*types.Quote, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+quoteColumns+` FROM asset_catalogue WHERE symbol = $1`, symbol)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("symbol %s %w", symbol, ErrQuoteNotFound)
		}
		return nil, err
	}
	return q, nil
}

// InsertQuote adds a brand new catalogue entry. A symbol that is already
// tracked is rejected.
func (s *Store) InsertQuote(ctx context.Context, q *types.Quote) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO asset_catalogue (`+quoteColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())`,
		q.Symbol, q.Name, q.Type, q.Open, q.High, q.Low, q.Close, q.Price,
		q.Volume, q.Currency, q.Exchange)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("symbol %s %w", q.Symbol, ErrQuoteExists)
		}
		return fmt.Errorf("insert quote %s: %w", q.Symbol, err)
	}
	return nil
}

// UpsertQuote writes the latest snapshot for a symbol, replacing any
// previous one.
func (s *Store) UpsertQuote(ctx context.Context, q *types.Quote) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO asset_catalogue (`+quoteColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		 ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			price = EXCLUDED.price,
			volume = EXCLUDED.volume,
			currency = EXCLUDED.currency,
			exchange = EXCLUDED.exchange,
			last_updated = now()`,
		q.Symbol, q.Name, q.Type, q.Open, q.High, q.Low, q.Close, q.Price,
		q.Volume, q.Currency, q.Exchange)
	if err != nil {
		return fmt.Errorf("upsert quote %s: %w", q.Symbol, err)
	}
	return nil
}

// SearchCatalogue matches symbols or names starting with the query,
// case-insensitively.
func (s *Store) SearchCatalogue(ctx context.Context, query string) ([]types.Quote, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+quoteColumns+` FROM asset_catalogue
		 WHERE symbol ILIKE $1 || '%' OR name ILIKE $1 || '%'
		 ORDER BY symbol`, query)
	if err != nil {
		return nil, fmt.Errorf("search catalogue: %w", err)
	}
	return collectQuotes(rows)
}

// ListCatalogue returns every cached quote in symbol order.
func (s *Store) ListCatalogue(ctx context.Context) ([]types.Quote, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+quoteColumns+` FROM asset_catalogue ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("list catalogue: %w", err)
	}
	return collectQuotes(rows)
}

func collectQuotes(rows pgx.Rows) ([]types.Quote, error) {
	defer rows.Close()
	var quotes []types.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	return quotes, rows.Err()
}

func scanQuote(row pgx.Row) (*types.Quote, error) {
	var q types.Quote
	err := row.Scan(&q.Symbol, &q.Name, &q.Type, &q.Open, &q.High, &q.Low,
		&q.Close, &q.Price, &q.Volume, &q.Currency, &q.Exchange, &q.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &q, nil
}
