package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"papertrader/internal/analysis"
	"papertrader/internal/config"
	"papertrader/internal/engine"
	"papertrader/internal/market"
	"papertrader/internal/repository"
	"papertrader/internal/server"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP trading service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, dbase, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer dbase.Close()

	srv := server.New(cfg.Server.Listen, eng, log)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info("shut down cleanly")
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}

func buildEngine(ctx context.Context, cfg *config.Config, log *slog.Logger) (*engine.Engine, *repository.Database, error) {
	dbase, err := repository.NewDatabase(ctx, cfg.Database.URL, decimal.NewFromFloat(cfg.Account.StartingBalance))
	if err != nil {
		return nil, nil, err
	}

	marketTimeout, err := config.ParseTimeout(cfg.Market.Timeout, 10*time.Second)
	if err != nil {
		dbase.Close()
		return nil, nil, err
	}
	analysisTimeout, err := config.ParseTimeout(cfg.Analysis.Timeout, 10*time.Second)
	if err != nil {
		dbase.Close()
		return nil, nil, err
	}

	eng := engine.NewEngine(
		db{dbase},
		market.NewClient(cfg.Market.BaseURL, marketTimeout),
		analysis.NewClient(cfg.Analysis.URL, analysisTimeout),
		log,
	)
	return eng, dbase, nil
}

// db narrows the transaction callback to the store interface the engine
// works against.
type db struct {
	*repository.Database
}

func (d db) InTx(ctx context.Context, fn func(tx engine.TradeStore) error) error {
	return d.Database.InTx(ctx, func(s *repository.Store) error {
		return fn(s)
	})
}
