package assetParser

import (
	"regexp"
	"strings"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/shopspring/decimal"
)

var (
	isinRe     = regexp.MustCompile(`\b[A-Z]{2}[A-Z0-9]{9}[0-9]\b`)
	quantityRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:shares?|units?|pcs?|pieces?)\b`)
	priceRe    = regexp.MustCompile(`(?:\$|€|£|\bUSD|\bEUR|\bGBP)\s*(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`)
)

// Extract pulls ISIN codes, share quantities and currency-prefixed prices out of free text.
// Confidence is a provenance label: typed text is trusted, recognized text is not.
func Extract(text string, source model.TextSource) model.TextExtraction {
	res := model.TextExtraction{
		ISINs:      make([]string, 0),
		Quantities: make([]decimal.Decimal, 0),
		Prices:     make([]decimal.Decimal, 0),
		Confidence: source.Confidence(),
		Text:       text,
	}

	seen := make(map[string]struct{})
	for _, isin := range isinRe.FindAllString(text, -1) {
		if _, ok := seen[isin]; ok {
			continue
		}
		seen[isin] = struct{}{}
		res.ISINs = append(res.ISINs, isin)
	}

	for _, m := range quantityRe.FindAllStringSubmatch(text, -1) {
		if q, err := decimal.NewFromString(m[1]); err == nil {
			res.Quantities = append(res.Quantities, q)
		}
	}

	for _, m := range priceRe.FindAllStringSubmatch(text, -1) {
		if p, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "")); err == nil {
			res.Prices = append(res.Prices, p)
		}
	}

	return res
}
