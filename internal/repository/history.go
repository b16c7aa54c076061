package repository

import (
	"context"
	"fmt"
	"papertrader/types"
	"time"

	"github.com/jackc/pgx/v5"
)

// SaveBars persists provider history rows, replacing any bar already stored
// for the same symbol and day.
func (s *Store) SaveBars(ctx context.Context, bars []types.Bar) error {
	for _, bar := range bars {
		day, err := time.Parse(types.BarDateLayout, bar.Date)
		if err != nil {
			return fmt.Errorf("bar %s %q: %w", bar.Symbol, bar.Date, err)
		}
		_, err = s.q.Exec(ctx,
			`INSERT INTO asset_history (symbol, type, day, open, high, low, close, volume)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (symbol, day) DO UPDATE SET
				type = EXCLUDED.type,
				open = EXCLUDED.open,
				high = EXCLUDED.high,
				low = EXCLUDED.low,
				close = EXCLUDED.close,
				volume = EXCLUDED.volume`,
			bar.Symbol, bar.Type, day, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		if err != nil {
			return fmt.Errorf("save bar %s %s: %w", bar.Symbol, bar.Date, err)
		}
	}
	return nil
}

// ListHistory returns every stored bar, oldest first.
func (s *Store) ListHistory(ctx context.Context) ([]types.Bar, error) {
	rows, err := s.q.Query(ctx,
		`SELECT symbol, type, day, open, high, low, close, volume
		 FROM asset_history ORDER BY symbol, day`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return collectBars(rows)
}

// ListHistoryBySymbol returns the stored bars for one symbol, oldest first.
func (s *Store) ListHistoryBySymbol(ctx context.Context, symbol string) ([]types.Bar, error) {
	rows, err := s.q.Query(ctx,
		`SELECT symbol, type, day, open, high, low, close, volume
		 FROM asset_history WHERE symbol = $1 ORDER BY day`, symbol)
	if err != nil {
		return nil, fmt.Errorf("list history %s: %w", symbol, err)
	}
	return collectBars(rows)
}

func collectBars(rows pgx.Rows) ([]types.Bar, error) {
	defer rows.Close()
	var bars []types.Bar
	for rows.Next() {
		var (
			b   types.Bar
			day time.Time
		)
		if err := rows.Scan(&b.Symbol, &b.Type, &day, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		b.Date = day.Format(types.BarDateLayout)
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
