package assetParser

import (
	"regexp"

	"github.com/shopspring/decimal"
)

const (
	symbolExpr   = `([A-Z]{1,5}(?:\.[A-Z])?)`
	exchangeExpr = `[A-Za-z]+`
	numberExpr   = `(\d+(?:\.\d+)?)`
	signedExpr   = `[+-]?\d+(?:\.\d+)?%?`
	changeExpr   = `[+-]\d+(?:\.\d+)?%?`
	clockExpr    = `\d+:\d+`
	noiseExpr    = `[A-Za-z]+`
)

// fields are the raw groups a template recovers from a line. Empty quantity means the layout has none.
type fields struct {
	symbol   string
	price    string
	quantity string
}

type template struct {
	name string
	re   *regexp.Regexp
	// multi templates collect every non-overlapping match in the line.
	multi   bool
	extract func(m []string, symbols *Symbols) (fields, bool)
}

// templates are ordered from the most specific broker layout to the loosest shape.
var templates = []template{
	{
		// SCHD Arca 27.50 +0.03 10 0.30 / SUPV nvysE 5.11 -0.49 2 -0.88
		name:    "exchange-price-change-quantity-trailing",
		re:      regexp.MustCompile(`^` + symbolExpr + `\s+` + exchangeExpr + `\s+` + numberExpr + `\s+` + signedExpr + `\s+` + numberExpr + `\s+` + signedExpr + `$`),
		extract: symbolPriceQuantity,
	},
	{
		// SPYI ATs 52.44 +0.12 3 0:33
		name:    "exchange-price-change-quantity-clock",
		re:      regexp.MustCompile(`^` + symbolExpr + `\s+` + exchangeExpr + `\s+` + numberExpr + `\s+` + signedExpr + `\s+` + numberExpr + `\s+` + clockExpr + `$`),
		extract: symbolPriceQuantity,
	},
	{
		// STLANYSE 9.90 +0.22 5 1.50 / STLAnyse 9.90 +0.22 5 1.50
		name:    "glued-exchange-price-change-quantity-trailing",
		re:      regexp.MustCompile(`^([A-Z]{1,5})[A-Za-z]*\s+` + numberExpr + `\s+` + signedExpr + `\s+` + numberExpr + `\s+` + signedExpr + `$`),
		extract: gluedSymbolPriceQuantity,
	},
	{
		// GOOGL woos 252.38 +2.85 al 2:91
		name:    "exchange-price-change-noise-clock",
		re:      regexp.MustCompile(`^` + symbolExpr + `\s+` + exchangeExpr + `\s+` + numberExpr + `\s+` + signedExpr + `\s+` + noiseExpr + `\s+` + clockExpr + `$`),
		extract: symbolPrice,
	},
	{
		// EWZ Arca 30.84 -0.10 al -0.10
		name:    "exchange-price-change-noise-trailing",
		re:      regexp.MustCompile(`^` + symbolExpr + `\s+` + exchangeExpr + `\s+` + numberExpr + `\s+` + signedExpr + `\s+` + noiseExpr + `\s+` + signedExpr + `$`),
		extract: symbolPrice,
	},
	{
		// NKE nyse 72.16 -0.15 ...
		name:    "exchange-price-change",
		re:      regexp.MustCompile(`^` + symbolExpr + `\s+` + exchangeExpr + `\s+` + numberExpr + `\s+` + changeExpr + `(?:\s|$)`),
		extract: symbolPrice,
	},
	{
		// AAPL 189.20 +1.25%
		name:    "price-change",
		re:      regexp.MustCompile(`^` + symbolExpr + `\s+\$?` + numberExpr + `\s+` + changeExpr + `(?:\s|$)`),
		extract: symbolPrice,
	},
	{
		// AAPL 10 150.00 / AAPL 10 / AAPL - 10 / AAPL: 10
		name:    "symbol-quantity-price",
		re:      regexp.MustCompile(`\b` + symbolExpr + `(?:\s*[-:]\s*|\s+)` + numberExpr + `(?:\s+\$?` + numberExpr + `)?`),
		multi:   true,
		extract: symbolQuantityPrice,
	},
}

func symbolPriceQuantity(m []string, _ *Symbols) (fields, bool) {
	return fields{symbol: m[1], price: m[2], quantity: m[3]}, true
}

func symbolPrice(m []string, _ *Symbols) (fields, bool) {
	return fields{symbol: m[1], price: m[2]}, true
}

func symbolQuantityPrice(m []string, _ *Symbols) (fields, bool) {
	return fields{symbol: m[1], quantity: m[2], price: m[3]}, true
}

// gluedSymbolPriceQuantity splits a token like STLANYSE into the longest known ticker prefix.
func gluedSymbolPriceQuantity(m []string, symbols *Symbols) (fields, bool) {
	token := m[1]
	for n := min(len(token), 5); n > 0; n-- {
		if symbols.Contains(token[:n]) {
			return fields{symbol: token[:n], price: m[2], quantity: m[3]}, true
		}
	}
	return fields{}, false
}

var (
	one  = decimal.NewFromInt(1)
	zero = decimal.Zero
)

// resolve validates the raw fields: quantity defaults to 1 when absent and must be positive,
// price defaults to 0 when absent and must be non-negative.
func (f fields) resolve() (quantity, price decimal.Decimal, ok bool) {
	quantity = one
	if f.quantity != "" {
		q, err := decimal.NewFromString(f.quantity)
		if err != nil {
			return zero, zero, false
		}
		quantity = q
	}

	price = zero
	if f.price != "" {
		p, err := decimal.NewFromString(f.price)
		if err != nil {
			return zero, zero, false
		}
		price = p
	}

	if !quantity.IsPositive() || price.IsNegative() {
		return zero, zero, false
	}

	return quantity, price, true
}
