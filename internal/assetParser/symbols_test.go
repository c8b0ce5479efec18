package assetParser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSymbols(t *testing.T) {
	s := DefaultSymbols()
	for _, symbol := range []string{"AAPL", "SCHD", "EWZ", "STLA", "BRK.B", "BF.A", "SPYI",
		"EWR", "EWV", "AET", "RAD", "ABC", "CCH"} {
		assert.True(t, s.Contains(symbol), symbol)
	}
	assert.False(t, s.Contains("aapl"))
	assert.False(t, s.Contains("XYZ"))

	list := s.List()
	assert.Len(t, list, s.Len())
	assert.IsIncreasing(t, list)
}

func TestParseSymbols(t *testing.T) {
	s, err := ParseSymbols([]byte("symbols: [aapl, MSFT, AAPL]\ngroups:\n  etf: [spy, MSFT]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "SPY"}, s.List())

	_, err = ParseSymbols([]byte("groups: {}"))
	assert.Error(t, err)

	_, err = ParseSymbols([]byte("symbols: ["))
	assert.Error(t, err)
}

func TestLoadSymbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols:\n  - acme\n"), 0o600))

	s, err := LoadSymbols(path)
	require.NoError(t, err)
	assert.True(t, s.Contains("ACME"))

	_, err = LoadSymbols(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
