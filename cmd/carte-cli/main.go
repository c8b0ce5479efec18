package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/internal/assetParser"
	"github.com/sebastiangueler-commits/cARTE/utils"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "carte-cli",
	Short: "Detect portfolio assets in broker statements",
	Long: `carte-cli runs the statement parser locally.

Examples:
  carte-cli detect statement.txt
  pbpaste | carte-cli detect - --explain
  carte-cli extract --ocr screenshot.png
  carte-cli quote AAPL --history 7`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write debug logs to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}

func newCtx(cmd *cobra.Command) context.Context {
	return utils.CtxWithRqID(cmd.Context(), "")
}

// readInput reads the file named by the first argument, or stdin for "-" and no arguments.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// loadSymbols prefers the flag, then PARSER_SYMBOLS_FILE, then the embedded list.
func loadSymbols(path string) (*assetParser.Symbols, error) {
	if path == "" {
		if cfg, err := loadConfig(); err == nil {
			path = cfg.Parser.SymbolsFile
		}
	}
	if path == "" {
		return assetParser.DefaultSymbols(), nil
	}
	return assetParser.LoadSymbols(path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
