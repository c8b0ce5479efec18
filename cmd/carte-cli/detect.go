package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sebastiangueler-commits/cARTE/internal/assetParser"
	"github.com/sebastiangueler-commits/cARTE/internal/converter/httpConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/spf13/cobra"
)

var (
	detectSymbolsFile string
	detectExplain     bool
	detectJSON        bool
)

var detectCmd = &cobra.Command{
	Use:   "detect [file|-]",
	Short: "Parse statement text into asset candidates",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringVar(&detectSymbolsFile, "symbols", "", "YAML file with the symbol allow-list (default: PARSER_SYMBOLS_FILE or the built-in list)")
	detectCmd.Flags().BoolVar(&detectExplain, "explain", false, "Show which line template matched each candidate")
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "Print the detection as JSON")
}

func runDetect(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	symbols, err := loadSymbols(detectSymbolsFile)
	if err != nil {
		return fmt.Errorf("load symbols: %w", err)
	}

	detection := model.Detection{
		Text:       string(text),
		Source:     model.SourceManual,
		Candidates: assetParser.New(symbols).Parse(string(text)),
	}

	if detectJSON {
		return writeJSON(cmd.OutOrStdout(), httpConverter.ConvertDetection(detection))
	}

	return printCandidates(cmd.OutOrStdout(), detection.Candidates, detectExplain)
}

func printCandidates(w io.Writer, candidates []model.Candidate, explain bool) error {
	if len(candidates) == 0 {
		_, err := fmt.Fprintln(w, "no assets detected")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "SYMBOL\tQUANTITY\tPRICE"
	if explain {
		header += "\tTEMPLATE"
	}
	fmt.Fprintln(tw, header)

	for _, c := range candidates {
		row := fmt.Sprintf("%s\t%s\t%s", c.Symbol, c.Quantity.String(), c.PurchasePrice.StringFixed(2))
		if explain {
			row += "\t" + c.Template
		}
		fmt.Fprintln(tw, row)
	}

	return tw.Flush()
}
