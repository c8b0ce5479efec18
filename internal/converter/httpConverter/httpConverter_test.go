package httpConverter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertAsset(t *testing.T) {
	asset := ConvertAsset(model.AssetValuation{
		Asset: model.Asset{
			ID:            1,
			PortfolioID:   2,
			Symbol:        "SCHD",
			Quantity:      decimal.NewFromInt(10),
			PurchasePrice: decimal.RequireFromString("27.50"),
			PurchaseDate:  time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
		},
		CurrentValue:  decimal.RequireFromString("275"),
		InvestedValue: decimal.RequireFromString("275"),
	})

	assert.Equal(t, 27.5, asset.PurchasePrice)
	assert.Equal(t, "2025-03-01", asset.PurchaseDate)
	assert.Nil(t, asset.CurrentPrice)

	raw, err := json.Marshal(asset)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"currentPrice":null`)
	assert.Contains(t, string(raw), `"purchasePrice":27.5`)
	assert.NotContains(t, string(raw), `"isin"`)
}

func TestConvertPortfolioSummary(t *testing.T) {
	summary := ConvertPortfolioSummary(model.PortfolioSummary{
		Portfolio:          model.Portfolio{ID: 3, Name: "Main"},
		AssetCount:         2,
		TotalValue:         decimal.RequireFromString("1050.25"),
		TotalInvested:      decimal.RequireFromString("1000"),
		TotalChange:        decimal.RequireFromString("50.25"),
		TotalChangePercent: decimal.RequireFromString("5.03"),
	})

	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	for _, field := range []string{`"assetCount":2`, `"totalValue":1050.25`, `"totalInvested":1000`, `"totalChange":50.25`, `"totalChangePercent":5.03`} {
		assert.Contains(t, string(raw), field)
	}
}

func TestConvertDetection(t *testing.T) {
	detection := ConvertDetection(model.Detection{
		Text:   "EWZ Arca 30.84",
		Source: model.SourceOCR,
		Candidates: []model.Candidate{
			{Symbol: "EWZ", Name: "EWZ Inc.", Quantity: decimal.NewFromInt(1), PurchasePrice: decimal.RequireFromString("30.84")},
		},
	})

	assert.Equal(t, 0.8, detection.Confidence)
	require.Len(t, detection.Assets, 1)
	assert.Equal(t, Candidate{Symbol: "EWZ", Name: "EWZ Inc.", Quantity: 1, PurchasePrice: 30.84}, detection.Assets[0])

	empty := ConvertDetection(model.Detection{})
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"assets":[]`)
}

func TestConvertTextExtraction(t *testing.T) {
	extraction := ConvertTextExtraction(model.TextExtraction{
		Quantities: []decimal.Decimal{decimal.NewFromInt(100), decimal.NewFromInt(50)},
		Confidence: 1,
	})

	assert.Equal(t, []string{}, extraction.ISINs)
	assert.Equal(t, []float64{100, 50}, extraction.Quantities)
	assert.Equal(t, []float64{}, extraction.Prices)
}

func TestConvertPriceUpdates(t *testing.T) {
	updates := ConvertPriceUpdates([]model.PriceUpdateResult{
		{AssetID: 1, Symbol: "AAPL", Price: decimal.NewNullDecimal(decimal.RequireFromString("190.1")), Success: true},
		{AssetID: 2, Symbol: "MSFT", Error: "price unavailable"},
	})

	require.Len(t, updates, 2)
	require.NotNil(t, updates[0].Price)
	assert.Equal(t, 190.1, *updates[0].Price)
	assert.Nil(t, updates[1].Price)
	assert.Equal(t, "price unavailable", updates[1].Error)
}
