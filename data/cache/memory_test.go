package cache

import (
	"context"
	"testing"
	"time"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	_, err := c.GetQuote(ctx, "AAPL")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.SetQuote(ctx, model.Quote{Symbol: "AAPL", Price: decimal.RequireFromString("189.5")}))

	now = now.Add(59 * time.Second)
	quote, err := c.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("189.5")))

	now = now.Add(time.Second)
	_, err = c.GetQuote(ctx, "AAPL")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, c.Purge(ctx))
	assert.Equal(t, 0, c.Purge(ctx))
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = c.SetQuote(ctx, model.Quote{Symbol: "MSFT"})
				_, _ = c.GetQuote(ctx, "MSFT")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	_, err := c.GetQuote(ctx, "MSFT")
	assert.NoError(t, err)
}
