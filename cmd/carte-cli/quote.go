package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/sebastiangueler-commits/cARTE/data/cache"
	"github.com/sebastiangueler-commits/cARTE/internal/converter/httpConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/converter/telebotConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/externalApi/yahooApi"
	"github.com/sebastiangueler-commits/cARTE/internal/service/priceService"
	"github.com/spf13/cobra"
)

var (
	quoteHistoryDays int
	quoteJSON        bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote SYMBOL",
	Short: "Look up the live price of a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().IntVar(&quoteHistoryDays, "history", 0, "Also print daily closes for the last N days")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "Print the quote as JSON")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := newCtx(cmd)
	prices := priceService.New(yahooApi.New(cfg), cache.NewMemoryCache(cfg.Cache.QuotesExpiration), cfg)

	quote, err := prices.GetQuote(ctx, args[0])
	if err != nil {
		return fmt.Errorf("quote %s: %w", args[0], err)
	}

	if quoteJSON {
		return writeJSON(cmd.OutOrStdout(), httpConverter.ConvertQuote(quote))
	}

	text, _ := telebotConverter.QuoteResponse(quote)
	fmt.Fprintln(cmd.OutOrStdout(), text)

	if quoteHistoryDays <= 0 {
		return nil
	}

	candles, err := prices.GetHistory(ctx, quote.Symbol, quoteHistoryDays)
	if err != nil {
		return fmt.Errorf("history %s: %w", quote.Symbol, err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nDATE\tCLOSE")
	for _, candle := range candles {
		fmt.Fprintf(tw, "%s\t%s\n", candle.Time.Format("2006-01-02"), telebotConverter.FormatMoney(candle.Close, quote.Currency))
	}
	return tw.Flush()
}
