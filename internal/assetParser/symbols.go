package assetParser

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed symbols.yaml
var defaultSymbolsYAML []byte

type symbolsFile struct {
	Groups  map[string][]string `yaml:"groups"`
	Symbols []string            `yaml:"symbols"`
}

// Symbols is a read-only ticker allow-list. It is safe for concurrent use.
type Symbols struct {
	set map[string]struct{}
}

func NewSymbols(symbols ...string) *Symbols {
	s := &Symbols{set: make(map[string]struct{}, len(symbols))}
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		s.set[symbol] = struct{}{}
	}
	return s
}

// ParseSymbols reads a YAML allow-list. Both a flat `symbols` list and named `groups` are accepted.
func ParseSymbols(data []byte) (*Symbols, error) {
	var f symbolsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse symbols yaml: %w", err)
	}

	all := append([]string(nil), f.Symbols...)
	for _, group := range f.Groups {
		all = append(all, group...)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("symbols yaml has no entries")
	}

	return NewSymbols(all...), nil
}

func LoadSymbols(path string) (*Symbols, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read symbols file: %w", err)
	}
	return ParseSymbols(data)
}

var defaultSymbols = sync.OnceValue(func() *Symbols {
	s, err := ParseSymbols(defaultSymbolsYAML)
	if err != nil {
		panic(err)
	}
	return s
})

// DefaultSymbols returns the embedded allow-list.
func DefaultSymbols() *Symbols {
	return defaultSymbols()
}

func (s *Symbols) Contains(symbol string) bool {
	_, ok := s.set[symbol]
	return ok
}

func (s *Symbols) Len() int {
	return len(s.set)
}

// List returns the symbols sorted alphabetically.
func (s *Symbols) List() []string {
	res := make([]string, 0, len(s.set))
	for symbol := range s.set {
		res = append(res, symbol)
	}
	sort.Strings(res)
	return res
}
