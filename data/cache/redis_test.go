package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_SetQuote(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCache(db, time.Minute)

	updatedAt := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	quote := model.Quote{Symbol: "AAPL", Currency: "USD", Price: decimal.RequireFromString("189.5"), UpdatedAt: updatedAt}

	payload, err := json.Marshal(cachedQuote{
		Symbol:        "AAPL",
		Currency:      "USD",
		Price:         "189.5",
		PreviousClose: "0",
		Change:        "0",
		ChangePercent: "0",
		UpdatedAt:     updatedAt,
	})
	require.NoError(t, err)

	mock.ExpectSet("quote:AAPL", payload, time.Minute).SetVal("OK")

	require.NoError(t, c.SetQuote(context.Background(), quote))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetQuote(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCache(db, time.Minute)
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		mock.ExpectGet("quote:SCHD").SetVal(`{"symbol":"SCHD","price":"27.5","previousClose":"27.47","change":"0.03","changePercent":"0.11"}`)

		quote, err := c.GetQuote(ctx, "SCHD")
		require.NoError(t, err)
		assert.Equal(t, "SCHD", quote.Symbol)
		assert.True(t, quote.Price.Equal(decimal.RequireFromString("27.5")))
		assert.True(t, quote.Change.Equal(decimal.RequireFromString("0.03")))
	})

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet("quote:EWZ").RedisNil()

		_, err := c.GetQuote(ctx, "EWZ")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGet("quote:NKE").SetErr(errors.New("connection refused"))

		_, err := c.GetQuote(ctx, "NKE")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNotFound))
	})

	t.Run("corrupted value", func(t *testing.T) {
		mock.ExpectGet("quote:XOM").SetVal("not json")

		_, err := c.GetQuote(ctx, "XOM")
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
