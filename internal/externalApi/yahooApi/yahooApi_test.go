package yahooApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/internal/externalApi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quoteBody = `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"AAPL","exchangeName":"NMS","shortName":"Apple Inc.",
"regularMarketPrice":190.5,"regularMarketTime":1736510400,"previousClose":188.0},"timestamp":[1736510400],
"indicators":{"quote":[{"open":[189.1],"high":[191.0],"low":[188.2],"close":[190.5],"volume":[1000]}]}}],"error":null}}`

const historyBody = `{"chart":{"result":[{"meta":{"symbol":"AAPL","regularMarketPrice":190.5},"timestamp":[1736337600,1736424000,1736510400],
"indicators":{"quote":[{"open":[180,null,189.1],"high":[181,null,191],"low":[179,null,188.2],"close":[180.5,null,190.5],"volume":[10,null,20]}]}}],"error":null}}`

const notFoundBody = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newTestApi(t *testing.T, handler http.HandlerFunc) *YahooApi {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = 2 * time.Second
	cfg.API.YahooApi = config.YahooApi{
		Url:                 srv.URL,
		RPS:                 100,
		Burst:               100,
		BreakerFailures:     2,
		BreakerOpenInterval: time.Minute,
	}
	return New(cfg)
}

func TestGetQuote(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(quoteBody))
	})

	quote, err := api.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "Apple Inc.", quote.ShortName)
	assert.Equal(t, "USD", quote.Currency)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("190.5")))
	assert.True(t, quote.Change.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, quote.ChangePercent.Equal(decimal.RequireFromString("1.33")))
	assert.Equal(t, int64(1736510400), quote.UpdatedAt.Unix())
}

func TestGetQuote_ClassShareSymbol(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/BRK-B", r.URL.Path)
		_, _ = w.Write([]byte(quoteBody))
	})

	_, err := api.GetQuote(context.Background(), "BRK.B")
	require.NoError(t, err)
}

func TestProviderSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AAPL", "AAPL"},
		{"BRK.B", "BRK-B"},
		{"BF.A", "BF-A"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ProviderSymbol(tt.in))
		})
	}
}

func TestGetQuote_NotFound(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(notFoundBody))
	})

	_, err := api.GetQuote(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, externalApi.ErrNotFound)
}

func TestGetQuote_ChartErrorInBody(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(notFoundBody))
	})

	_, err := api.GetQuote(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, externalApi.ErrNotFound)
}

func TestGetQuote_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 2; i++ {
		_, err := api.GetQuote(context.Background(), "AAPL")
		require.Error(t, err)
		assert.NotErrorIs(t, err, externalApi.ErrUnavailable)
	}

	_, err := api.GetQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, externalApi.ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetQuote_NotFoundDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 4; i++ {
		_, err := api.GetQuote(context.Background(), "NOPE")
		assert.ErrorIs(t, err, externalApi.ErrNotFound)
	}
	assert.Equal(t, int32(4), calls.Load())
}

func TestGetHistory_SkipsGaps(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		assert.NotEmpty(t, r.URL.Query().Get("period2"))
		_, _ = w.Write([]byte(historyBody))
	})

	candles, err := api.GetHistory(context.Background(), "AAPL", 3)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.True(t, candles[0].Close.Equal(decimal.RequireFromString("180.5")))
	assert.Equal(t, int64(20), candles[1].Volume)
}

func TestGetQuote_ContextCanceled(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(quoteBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.GetQuote(ctx, "AAPL")
	assert.Error(t, err)
}
