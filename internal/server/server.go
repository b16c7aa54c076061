// Package server is the HTTP adapter over the trading engine. Routing and
// serialization live here; every decision of consequence is the engine's.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"papertrader/types"
	"time"

	"github.com/shopspring/decimal"
)

// tradingService is the engine surface exposed over HTTP.
type tradingService interface {
	Buy(ctx context.Context, symbol string, quantity int64) error
	Sell(ctx context.Context, symbol string, quantity int64) error
	SellAll(ctx context.Context, symbol string) error
	Portfolio(ctx context.Context) ([]types.Holding, error)
	Trades(ctx context.Context) ([]types.TradeRecord, error)

	Balance(ctx context.Context) (types.Balance, error)
	SetBalance(ctx context.Context, amount decimal.Decimal) (types.Balance, error)
	AddBalance(ctx context.Context, amount decimal.Decimal) (types.Balance, error)
	SubtractBalance(ctx context.Context, amount decimal.Decimal) (types.Balance, error)

	Catalogue(ctx context.Context) ([]types.Quote, error)
	Search(ctx context.Context, query string) ([]types.Quote, error)
	AddAsset(ctx context.Context, symbol string) (*types.Quote, error)
	UpdateAsset(ctx context.Context, symbol string) (*types.Quote, error)

	ProviderQuote(ctx context.Context, symbol string) (*types.Quote, error)
	ProviderHistory(ctx context.Context, symbol string) ([]types.Bar, error)
	History(ctx context.Context) ([]types.Bar, error)
	HistoryBySymbol(ctx context.Context, symbol string) ([]types.Bar, error)
	RefreshHistory(ctx context.Context, symbol string) ([]types.Bar, error)

	Analyze(ctx context.Context) (json.RawMessage, error)
}

type Server struct {
	svc        tradingService
	log        *slog.Logger
	httpServer *http.Server
}

func New(listen string, svc tradingService, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{svc: svc, log: log}
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /portfolio/assets", s.getPortfolio)
	mux.HandleFunc("PUT /portfolio/{symbol}/buy/{quantity}", s.buyAsset)
	mux.HandleFunc("PUT /portfolio/{symbol}/sell/{quantity}", s.sellAsset)
	mux.HandleFunc("PUT /portfolio/{symbol}/sellall", s.sellAllAsset)
	mux.HandleFunc("GET /portfolio/trades", s.getTrades)

	mux.HandleFunc("GET /balance", s.getBalance)
	mux.HandleFunc("POST /balance/add/{amount}", s.addBalance)
	mux.HandleFunc("POST /balance/subtract/{amount}", s.subtractBalance)
	mux.HandleFunc("PUT /balance/update/{amount}", s.updateBalance)

	mux.HandleFunc("GET /catalogue", s.getCatalogue)
	mux.HandleFunc("GET /catalogue/search", s.searchCatalogue)
	mux.HandleFunc("POST /catalogue/{symbol}", s.addCatalogueEntry)
	mux.HandleFunc("PUT /catalogue/{symbol}", s.updateCatalogueEntry)

	mux.HandleFunc("GET /market/quote/{ticker}", s.getMarketQuote)
	mux.HandleFunc("GET /market/history/{ticker}", s.getMarketHistory)

	mux.HandleFunc("GET /history", s.getHistory)
	mux.HandleFunc("GET /history/{symbol}", s.getHistoryBySymbol)
	mux.HandleFunc("POST /history/{symbol}/refresh", s.refreshHistory)

	mux.HandleFunc("GET /api/immune/analyze", s.analyze)
	mux.HandleFunc("POST /api/immune/analyze", s.analyze)

	return mux
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
