package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "papertraderd",
	Short: "Paper trading portfolio service",
	Long: `Papertraderd manages a simulated brokerage account: a cash balance,
a position book with weighted-average cost tracking, and a catalogue of
tradable assets backed by an external market data provider.

It serves the portfolio over HTTP and records every executed trade.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.AddCommand(serveCmd, backfillCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
