package assetParser

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expected struct {
	symbol   string
	quantity string
	price    string
	template string
}

func assertCandidates(t *testing.T, want []expected, got []model.Candidate) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.symbol, got[i].Symbol)
		assert.Equal(t, w.symbol+" Inc.", got[i].Name)
		assert.Truef(t, decimal.RequireFromString(w.quantity).Equal(got[i].Quantity),
			"%s quantity: want %s, got %s", w.symbol, w.quantity, got[i].Quantity)
		assert.Truef(t, decimal.RequireFromString(w.price).Equal(got[i].PurchasePrice),
			"%s price: want %s, got %s", w.symbol, w.price, got[i].PurchasePrice)
		if w.template != "" {
			assert.Equal(t, w.template, got[i].Template)
		}
	}
}

func TestParser_Parse(t *testing.T) {
	p := New(nil)

	tests := []struct {
		name string
		text string
		want []expected
	}{
		{
			name: "full broker row",
			text: "SCHD Arca 27.50  +0.03 10 0.30",
			want: []expected{{"SCHD", "10", "27.50", "exchange-price-change-quantity-trailing"}},
		},
		{
			name: "row without quantity",
			text: "EWZ Arca 30.84 -0.10 al -0.10",
			want: []expected{{"EWZ", "1", "30.84", "exchange-price-change-noise-trailing"}},
		},
		{
			name: "signed trailing change",
			text: "SUPV nvysE 5.11 -0.49 2 -0.88",
			want: []expected{{"SUPV", "2", "5.11", "exchange-price-change-quantity-trailing"}},
		},
		{
			name: "trailing clock",
			text: "SPYI ATs 52.44  +0.12 3 0:33",
			want: []expected{{"SPYI", "3", "52.44", "exchange-price-change-quantity-clock"}},
		},
		{
			name: "exchange glued to symbol",
			text: "STLANYSE 9.90  +0.22 5 1.50",
			want: []expected{{"STLA", "5", "9.90", "glued-exchange-price-change-quantity-trailing"}},
		},
		{
			name: "lowercase exchange glued to symbol",
			text: "STLAnyse 9.90  +0.22 5 1.50",
			want: []expected{{"STLA", "5", "9.90", "glued-exchange-price-change-quantity-trailing"}},
		},
		{
			name: "percent change keeps quantity",
			text: "SCHD Arca 27.50 +0.11% 10 0.30",
			want: []expected{{"SCHD", "10", "27.50", "exchange-price-change-quantity-trailing"}},
		},
		{
			name: "noise token before clock",
			text: "GOOGL woos 252.38 +2.85 al 2:91",
			want: []expected{{"GOOGL", "1", "252.38", "exchange-price-change-noise-clock"}},
		},
		{
			name: "symbol price change",
			text: "AAPL 189.20 +1.25%",
			want: []expected{{"AAPL", "1", "189.20", "price-change"}},
		},
		{
			name: "loose quantity forms",
			text: "MSFT: 15\nNVDA - 3\nAMZN 7",
			want: []expected{
				{"MSFT", "15", "0", "symbol-quantity-price"},
				{"NVDA", "3", "0", "symbol-quantity-price"},
				{"AMZN", "7", "0", "symbol-quantity-price"},
			},
		},
		{
			name: "several holdings on one line",
			text: "AAPL 10 150.00 MSFT 5 $300.00",
			want: []expected{{"AAPL", "10", "150.00", ""}, {"MSFT", "5", "300", ""}},
		},
		{
			name: "class share ticker",
			text: "BRK.B 4 410.50",
			want: []expected{{"BRK.B", "4", "410.50", "symbol-quantity-price"}},
		},
		{
			name: "fractional quantity",
			text: "VOO 1.5 400",
			want: []expected{{"VOO", "1.5", "400", ""}},
		},
		{
			name: "first occurrence wins",
			text: "AAPL 10 150.00\nsomething else\nAAPL 20 160.00",
			want: []expected{{"AAPL", "10", "150.00", ""}},
		},
		{
			name: "unknown token with digits",
			text: "XYZ123 42",
			want: []expected{},
		},
		{
			name: "ocr garbage is stripped",
			text: "  SCHD® Arca 27.50 ★ +0.03 10 0.30  \r\n",
			want: []expected{{"SCHD", "10", "27.50", "exchange-price-change-quantity-trailing"}},
		},
		{
			name: "rejected quantity falls through to looser template",
			text: "SCHD Arca 27.50 +0.03 0 0.30",
			want: []expected{{"SCHD", "1", "27.50", "exchange-price-change"}},
		},
		{
			name: "fallback word pairs",
			text: "holding aapl 12 since 2020, msft +3",
			want: []expected{{"AAPL", "12", "0", FallbackTemplate}, {"MSFT", "3", "0", FallbackTemplate}},
		},
		{
			name: "fallback skipped when lines matched",
			text: "SCHD Arca 27.50 +0.03 10 0.30\nmsft 5",
			want: []expected{{"SCHD", "10", "27.50", ""}},
		},
		{
			name: "empty",
			text: "",
			want: []expected{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.text)
			require.NotNil(t, got)
			assertCandidates(t, tt.want, got)
		})
	}
}

func TestParser_FirstTemplateWins(t *testing.T) {
	line := "SCHD Arca 27.50 +0.03 10 0.30"

	var matched []string
	for _, tmpl := range templates {
		if tmpl.re.MatchString(line) {
			matched = append(matched, tmpl.name)
		}
	}
	// строка подходит под несколько шаблонов, выигрывает самый специфичный
	require.Greater(t, len(matched), 1)

	got := New(nil).Parse(line)
	require.Len(t, got, 1)
	assert.Equal(t, matched[0], got[0].Template)
	assert.True(t, got[0].Quantity.Equal(decimal.NewFromInt(10)))
}

func TestParser_CustomSymbols(t *testing.T) {
	p := New(NewSymbols("acme", " ACME ", "ZZ"))
	assert.Equal(t, 2, p.Symbols().Len())

	got := p.Parse("ACME 3 12.5\nAAPL 10 150")
	assertCandidates(t, []expected{{"ACME", "3", "12.5", ""}}, got)
}

func TestParser_AllowListGate(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	p := New(NewSymbols("AAPL"))

	for i := 0; i < 500; i++ {
		word := randomUpper(rnd, 1+rnd.Intn(5))
		if word == "AAPL" {
			continue
		}
		text := word + " 10 20.5\n" + word + " Arca 1.00 +0.10 3 0.20\n" + strings.ToLower(word) + " 4"
		for _, c := range p.Parse(text) {
			assert.Equal(t, "AAPL", c.Symbol, "unexpected symbol from %q", text)
		}
	}
}

func TestParser_SymbolsAreUnique(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	p := New(nil)
	pool := []string{"AAPL", "MSFT", "SCHD", "EWZ", "XYZ", "Arca", "al", "+0.10", "-1.5", "10", "27.50", "3", ":", "-", "\n", "$12"}

	for i := 0; i < 300; i++ {
		var sb strings.Builder
		for j := 0; j < 40; j++ {
			sb.WriteString(pool[rnd.Intn(len(pool))])
			sb.WriteByte(' ')
		}

		seen := map[string]bool{}
		for _, c := range p.Parse(sb.String()) {
			assert.False(t, seen[c.Symbol], "duplicate %s", c.Symbol)
			seen[c.Symbol] = true
			assert.True(t, c.Quantity.IsPositive())
			assert.False(t, c.PurchasePrice.IsNegative())
		}
	}
}

func TestParser_NeverPanics(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	p := New(nil)

	inputs := []string{"", " ", "\n\n\n", "AAPL", "12345", "$$$", "\xff\xfe\x00", "日本語 テキスト 123", strings.Repeat("A 1 ", 5000)}
	for i := 0; i < 200; i++ {
		b := make([]byte, rnd.Intn(256))
		rnd.Read(b)
		inputs = append(inputs, string(b))
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			got := p.Parse(in)
			assert.NotNil(t, got)
		})
	}
}

func randomUpper(rnd *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('A' + rnd.Intn(26))
	}
	return string(b)
}
