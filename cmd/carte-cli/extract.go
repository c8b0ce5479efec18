package main

import (
	"errors"
	"fmt"

	"github.com/sebastiangueler-commits/cARTE/internal/assetParser"
	"github.com/sebastiangueler-commits/cARTE/internal/converter/httpConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/externalApi/visionApi"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/spf13/cobra"
)

var extractOCR bool

var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "Pull ISINs, quantities and prices out of statement text",
	Long: `extract prints the loose fields found in a statement as JSON.

With --ocr the input is an image that is sent to the Vision API first
(OCR_CREDENTIALS_FILE must be set).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractOCR, "ocr", false, "Treat the input as an image and recognize it with the Vision API")
}

func runExtract(cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	text, source := string(input), model.SourceManual

	if extractOCR {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.OCREnabled() {
			return errors.New("OCR_CREDENTIALS_FILE is not set")
		}

		ctx := newCtx(cmd)
		recognizer, err := visionApi.NewWithOptions(ctx, cfg)
		if err != nil {
			return fmt.Errorf("create vision client: %w", err)
		}

		text, err = recognizer.RecognizeText(ctx, input)
		if err != nil {
			return fmt.Errorf("recognize text: %w", err)
		}
		source = model.SourceOCR
	}

	return writeJSON(cmd.OutOrStdout(), httpConverter.ConvertTextExtraction(assetParser.Extract(text, source)))
}
