package telebotConverter

import (
	"testing"
	"time"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/tg/tgCallback"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$27.50", FormatMoney(decimal.RequireFromString("27.5"), "USD"))
	assert.Equal(t, "$1,234.57", FormatMoney(decimal.RequireFromString("1234.567"), "usd"))
	assert.Equal(t, "$0.00", FormatMoney(decimal.Zero, "???"))
}

func TestDetectionResponse(t *testing.T) {
	detection := model.Detection{
		Source: model.SourceOCR,
		Candidates: []model.Candidate{
			{Symbol: "SCHD", Name: "SCHD Inc.", Quantity: decimal.NewFromInt(10), PurchasePrice: decimal.RequireFromString("27.50")},
			{Symbol: "EWZ", Name: "EWZ Inc.", Quantity: decimal.NewFromInt(1)},
		},
	}

	text, markup := DetectionResponse(detection, map[string]decimal.Decimal{"SCHD": decimal.NewFromInt(28)})

	assert.Contains(t, text, "Detected assets: 2")
	assert.Contains(t, text, "1. SCHD (SCHD Inc.)")
	assert.Contains(t, text, "Statement price: $27.50")
	assert.Contains(t, text, "Value: $280.00")
	assert.Contains(t, text, "Live price: unavailable")
	assert.Contains(t, text, "Total value: $280.00")
	assert.Contains(t, text, "double check")

	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, tgCallback.DetectAgain, markup.InlineKeyboard[0][0].Unique)
}

func TestDetectionResponse_Empty(t *testing.T) {
	text, _ := DetectionResponse(model.Detection{}, nil)
	assert.Contains(t, text, "No text extracted")

	text, _ = DetectionResponse(model.Detection{Text: "hello"}, nil)
	assert.Contains(t, text, "No known assets")
}

func TestQuoteResponse(t *testing.T) {
	text, markup := QuoteResponse(model.Quote{
		Symbol:        "AAPL",
		ShortName:     "Apple Inc.",
		Currency:      "USD",
		Exchange:      "NMS",
		Price:         decimal.RequireFromString("190.5"),
		Change:        decimal.RequireFromString("-1.25"),
		ChangePercent: decimal.RequireFromString("-0.65"),
		UpdatedAt:     time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, text, "📉 AAPL (Apple Inc.)")
	assert.Contains(t, text, "Price: $190.50")
	assert.Contains(t, text, "Change: -$1.25 (-0.65%)")
	assert.Contains(t, text, "2025-03-01 21:00 UTC")

	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, tgCallback.RefreshQuotePrefix+"AAPL", markup.InlineKeyboard[0][0].Unique)
}
