package portfolioService

import (
	"testing"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValueAsset(t *testing.T) {
	tests := []struct {
		name          string
		asset         model.Asset
		currentValue  string
		invested      string
		change        string
		changePercent string
	}{
		{
			name:          "with current price",
			asset:         model.Asset{Quantity: d("10"), PurchasePrice: d("100"), CurrentPrice: decimal.NewNullDecimal(d("110"))},
			currentValue:  "1100",
			invested:      "1000",
			change:        "100",
			changePercent: "10",
		},
		{
			name:          "falls back to purchase price",
			asset:         model.Asset{Quantity: d("2.5"), PurchasePrice: d("40")},
			currentValue:  "100",
			invested:      "100",
			change:        "0",
			changePercent: "0",
		},
		{
			name:          "zero purchase price",
			asset:         model.Asset{Quantity: d("3"), PurchasePrice: d("0"), CurrentPrice: decimal.NewNullDecimal(d("5"))},
			currentValue:  "15",
			invested:      "0",
			change:        "15",
			changePercent: "0",
		},
		{
			name:          "loss",
			asset:         model.Asset{Quantity: d("4"), PurchasePrice: d("30"), CurrentPrice: decimal.NewNullDecimal(d("20"))},
			currentValue:  "80",
			invested:      "120",
			change:        "-40",
			changePercent: "-33.33",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValueAsset(tt.asset)
			assert.True(t, v.CurrentValue.Equal(d(tt.currentValue)), "currentValue %s", v.CurrentValue)
			assert.True(t, v.InvestedValue.Equal(d(tt.invested)), "invested %s", v.InvestedValue)
			assert.True(t, v.TotalChange.Equal(d(tt.change)), "change %s", v.TotalChange)
			assert.True(t, v.PriceChangePercent.Equal(d(tt.changePercent)), "percent %s", v.PriceChangePercent)
		})
	}
}

func TestSummarize(t *testing.T) {
	details := Summarize(model.Portfolio{ID: 1, Name: "main"}, []model.Asset{
		{Quantity: d("10"), PurchasePrice: d("100"), CurrentPrice: decimal.NewNullDecimal(d("110"))},
		{Quantity: d("1"), PurchasePrice: d("1000")},
	})

	assert.Equal(t, 2, details.AssetCount)
	assert.Len(t, details.Assets, 2)
	assert.True(t, details.TotalValue.Equal(d("2100")))
	assert.True(t, details.TotalInvested.Equal(d("2000")))
	assert.True(t, details.TotalChange.Equal(d("100")))
	assert.True(t, details.TotalChangePercent.Equal(d("5")))

	empty := Summarize(model.Portfolio{ID: 2}, nil)
	assert.Equal(t, 0, empty.AssetCount)
	assert.NotNil(t, empty.Assets)
	assert.True(t, empty.TotalChangePercent.IsZero())
}
