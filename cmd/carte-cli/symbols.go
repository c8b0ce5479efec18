package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var symbolsFile string

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Print the symbol allow-list used by the parser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols, err := loadSymbols(symbolsFile)
		if err != nil {
			return fmt.Errorf("load symbols: %w", err)
		}

		for _, symbol := range symbols.List() {
			fmt.Fprintln(cmd.OutOrStdout(), symbol)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(symbolsCmd)

	symbolsCmd.Flags().StringVar(&symbolsFile, "symbols", "", "YAML file with the symbol allow-list")
}
