package yahooApi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/internal/externalApi"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/yahooModel"
	"github.com/sebastiangueler-commits/cARTE/utils"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	chartPath = "/v8/finance/chart/{symbol}"
	userAgent = "Mozilla/5.0 (X11; Linux x86_64)"
)

type YahooApi struct {
	client  *resty.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

func New(cfg *config.Config) *YahooApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.YahooApi.Url).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	failures := cfg.API.YahooApi.BreakerFailures
	settings := gobreaker.Settings{
		Name:    "yahoo-api",
		Timeout: cfg.API.YahooApi.BreakerOpenInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// неизвестный тикер это валидный ответ провайдера
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, externalApi.ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", slog.String("name", name), slog.String("from", from.String()), slog.String("to", to.String()))
		},
	}

	return &YahooApi{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.API.YahooApi.RPS), cfg.API.YahooApi.Burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// GetQuote returns the latest market price of symbol.
func (a *YahooApi) GetQuote(ctx context.Context, symbol string) (_ model.Quote, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "YahooApi.GetQuote"

	slog.Debug("GetQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		if err != nil && !errors.Is(err, externalApi.ErrNotFound) {
			slog.Error("GetQuote failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		}
	}()

	result, err := a.chart(ctx, symbol, map[string]string{"interval": "1d", "range": "1d"})
	if err != nil {
		return model.Quote{}, err
	}

	quote, err := convertQuote(result.Meta)
	if err != nil {
		return model.Quote{}, err
	}

	slog.Debug("GetQuote completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", quote.Symbol), slog.String("price", quote.Price.String()))

	return quote, nil
}

// GetHistory returns daily candles of symbol for the last days days. Empty candles are skipped.
func (a *YahooApi) GetHistory(ctx context.Context, symbol string, days int) (_ []model.Candle, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "YahooApi.GetHistory"

	slog.Debug("GetHistory start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.Int("days", days))
	defer func() {
		if err != nil && !errors.Is(err, externalApi.ErrNotFound) {
			slog.Error("GetHistory failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		}
	}()

	now := time.Now()
	params := map[string]string{
		"interval": "1d",
		"period1":  strconv.FormatInt(now.AddDate(0, 0, -days).Unix(), 10),
		"period2":  strconv.FormatInt(now.Unix(), 10),
	}

	result, err := a.chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	return convertCandles(result), nil
}

func (a *YahooApi) chart(ctx context.Context, symbol string, params map[string]string) (yahooModel.ChartResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return yahooModel.ChartResult{}, err
	}

	res, err := a.breaker.Execute(func() (interface{}, error) {
		return a.doChart(ctx, symbol, params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return yahooModel.ChartResult{}, fmt.Errorf("%w: %s", externalApi.ErrUnavailable, err.Error())
		}
		return yahooModel.ChartResult{}, err
	}

	return res.(yahooModel.ChartResult), nil
}

// ProviderSymbol maps a class share ticker to Yahoo's notation: BRK.B -> BRK-B.
func ProviderSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, ".", "-")
}

func (a *YahooApi) doChart(ctx context.Context, symbol string, params map[string]string) (yahooModel.ChartResult, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetPathParam("symbol", ProviderSymbol(symbol)).
		SetQueryParams(params).
		Get(chartPath)
	if err != nil {
		return yahooModel.ChartResult{}, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return yahooModel.ChartResult{}, externalApi.ErrNotFound
	}
	if resp.IsError() {
		return yahooModel.ChartResult{}, fmt.Errorf("unexpected status code %d", resp.StatusCode())
	}

	chartResponse := yahooModel.ChartResponse{}
	if err = json.Unmarshal(resp.Body(), &chartResponse); err != nil {
		return yahooModel.ChartResult{}, fmt.Errorf("can't unmarshal chart response: %w", err)
	}

	if chartResponse.Chart.Error != nil {
		if chartResponse.Chart.Error.Code == "Not Found" {
			return yahooModel.ChartResult{}, externalApi.ErrNotFound
		}
		return yahooModel.ChartResult{}, fmt.Errorf("chart error %s: %s", chartResponse.Chart.Error.Code, chartResponse.Chart.Error.Description)
	}

	if len(chartResponse.Chart.Result) == 0 {
		return yahooModel.ChartResult{}, externalApi.ErrNotFound
	}

	return chartResponse.Chart.Result[0], nil
}

func convertQuote(meta yahooModel.Meta) (model.Quote, error) {
	if meta.RegularMarketPrice == nil {
		return model.Quote{}, externalApi.ErrNotFound
	}

	quote := model.Quote{
		Symbol:    meta.Symbol,
		ShortName: meta.ShortName,
		Currency:  meta.Currency,
		Exchange:  meta.ExchangeName,
		Price:     decimal.NewFromFloat(*meta.RegularMarketPrice),
		UpdatedAt: time.Unix(meta.RegularMarketTime, 0).UTC(),
	}

	prevClose := meta.PreviousClose
	if prevClose == nil {
		prevClose = meta.ChartPreviousClose
	}
	if prevClose != nil {
		quote.PreviousClose = decimal.NewFromFloat(*prevClose)
		quote.Change = quote.Price.Sub(quote.PreviousClose)
		if !quote.PreviousClose.IsZero() {
			quote.ChangePercent = quote.Change.Div(quote.PreviousClose).Mul(decimal.NewFromInt(100)).Round(2)
		}
	}

	return quote, nil
}

func convertCandles(result yahooModel.ChartResult) []model.Candle {
	candles := make([]model.Candle, 0, len(result.Timestamp))
	if len(result.Indicators.Quote) == 0 {
		return candles
	}
	q := result.Indicators.Quote[0]

	for i, ts := range result.Timestamp {
		closePrice := at(q.Close, i)
		if closePrice == nil {
			continue
		}

		candle := model.Candle{
			Time:  time.Unix(ts, 0).UTC(),
			Close: decimal.NewFromFloat(*closePrice),
		}
		if v := at(q.Open, i); v != nil {
			candle.Open = decimal.NewFromFloat(*v)
		}
		if v := at(q.High, i); v != nil {
			candle.High = decimal.NewFromFloat(*v)
		}
		if v := at(q.Low, i); v != nil {
			candle.Low = decimal.NewFromFloat(*v)
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			candle.Volume = *q.Volume[i]
		}
		candles = append(candles, candle)
	}

	return candles
}

func at(series []*float64, i int) *float64 {
	if i >= len(series) {
		return nil
	}
	return series[i]
}
