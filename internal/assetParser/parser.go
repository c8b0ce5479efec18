package assetParser

import (
	"regexp"
	"strings"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/shopspring/decimal"
)

const FallbackTemplate = "fallback-word-pair"

var leadingNumberRe = regexp.MustCompile(`^\+?(\d+(?:\.\d+)?|\.\d+)`)

// Parser turns statement text into candidate assets. Parse has no side effects,
// so one Parser may serve concurrent callers.
type Parser struct {
	symbols   *Symbols
	templates []template
}

// New builds a parser over the given allow-list, or the embedded one when symbols is nil.
func New(symbols *Symbols) *Parser {
	if symbols == nil {
		symbols = DefaultSymbols()
	}
	return &Parser{symbols: symbols, templates: templates}
}

func (p *Parser) Symbols() *Symbols {
	return p.symbols
}

// Parse never fails: unreadable input yields an empty list. Symbols are unique in the
// result and the first occurrence of a symbol wins.
func (p *Parser) Parse(text string) []model.Candidate {
	lines := Normalize(text)
	acc := newAccumulator(p.symbols)

	for _, line := range lines {
		for _, c := range p.matchLine(line) {
			acc.add(c)
		}
	}

	if len(acc.candidates) == 0 {
		p.scanWordPairs(strings.Join(lines, " "), acc)
	}

	return acc.candidates
}

// matchLine returns the candidates of the first template accepting the line.
// The allow-list is not consulted here except by templates that need it to split tokens.
func (p *Parser) matchLine(line string) []model.Candidate {
	for _, t := range p.templates {
		var matches [][]string
		if t.multi {
			matches = t.re.FindAllStringSubmatch(line, -1)
		} else if m := t.re.FindStringSubmatch(line); m != nil {
			matches = [][]string{m}
		}

		res := make([]model.Candidate, 0, len(matches))
		for _, m := range matches {
			f, ok := t.extract(m, p.symbols)
			if !ok {
				continue
			}
			quantity, price, ok := f.resolve()
			if !ok {
				continue
			}
			res = append(res, newCandidate(f.symbol, quantity, price, t.name))
		}

		if len(res) > 0 {
			return res
		}
	}

	return nil
}

// scanWordPairs recovers `SYMBOL NUMBER` pairs from text the line templates could not read.
func (p *Parser) scanWordPairs(text string, acc *accumulator) {
	words := strings.Fields(text)

	for i := 0; i+1 < len(words); i++ {
		symbol := strings.ToUpper(words[i])
		if !p.symbols.Contains(symbol) {
			continue
		}

		m := leadingNumberRe.FindStringSubmatch(words[i+1])
		if m == nil {
			continue
		}

		quantity, err := decimal.NewFromString(m[1])
		if err != nil || !quantity.IsPositive() {
			continue
		}

		acc.add(newCandidate(symbol, quantity, decimal.Zero, FallbackTemplate))
	}
}

func newCandidate(symbol string, quantity, price decimal.Decimal, templateName string) model.Candidate {
	return model.Candidate{
		Symbol:        symbol,
		Name:          symbol + " Inc.",
		Quantity:      quantity,
		PurchasePrice: price,
		Template:      templateName,
	}
}

// accumulator applies the allow-list and keeps the first candidate per symbol.
type accumulator struct {
	symbols    *Symbols
	seen       map[string]struct{}
	candidates []model.Candidate
}

func newAccumulator(symbols *Symbols) *accumulator {
	return &accumulator{
		symbols:    symbols,
		seen:       make(map[string]struct{}),
		candidates: make([]model.Candidate, 0),
	}
}

func (a *accumulator) add(c model.Candidate) {
	if !a.symbols.Contains(c.Symbol) {
		return
	}
	if _, ok := a.seen[c.Symbol]; ok {
		return
	}
	a.seen[c.Symbol] = struct{}{}
	a.candidates = append(a.candidates, c)
}
