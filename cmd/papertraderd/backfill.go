package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Fetch price history for every catalogued asset",
	Long: `Backfill walks the asset catalogue and pulls each symbol's full
price history from the market data provider into the local store.
Already-stored days are overwritten with the provider's values.`,
	RunE: runBackfill,
}

func runBackfill(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	eng, dbase, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer dbase.Close()

	quotes, err := eng.Catalogue(ctx)
	if err != nil {
		return err
	}
	if len(quotes) == 0 {
		fmt.Println("catalogue is empty, nothing to backfill")
		return nil
	}

	bar := initProgressBar(len(quotes))
	var failed int
	for _, q := range quotes {
		if _, err := eng.RefreshHistory(ctx, q.Symbol); err != nil {
			log.Error("backfill symbol", "symbol", q.Symbol, "error", err)
			failed++
		}
		bar.Add(1)
	}
	fmt.Println()

	if failed > 0 {
		return fmt.Errorf("backfill finished with %d of %d symbols failed", failed, len(quotes))
	}
	return nil
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backfilling history..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
