package priceService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/internal/externalApi"
	"github.com/sebastiangueler-commits/cARTE/internal/metrics"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/service"
	"github.com/sebastiangueler-commits/cARTE/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	GetHistory(ctx context.Context, symbol string, days int) ([]model.Candle, error)
}

type QuoteCache interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	SetQuote(ctx context.Context, quote model.Quote) error
}

type PriceService struct {
	provider    QuoteProvider
	cache       QuoteCache
	timeout     time.Duration
	concurrency int
}

func New(provider QuoteProvider, cache QuoteCache, cfg *config.Config) *PriceService {
	concurrency := cfg.Price.LookupConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &PriceService{
		provider:    provider,
		cache:       cache,
		timeout:     cfg.Price.LookupTimeout,
		concurrency: concurrency,
	}
}

func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// GetQuote returns a cached quote or fetches a fresh one within the lookup timeout.
// Unknown symbols give service.ErrNotFound, every other failure service.ErrPriceUnavailable.
func (s *PriceService) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PriceService.GetQuote"
	symbol = NormalizeSymbol(symbol)

	slog.Debug("GetQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	if symbol == "" {
		return model.Quote{}, service.ErrNotFound
	}

	quote, err := s.cache.GetQuote(ctx, symbol)
	if err == nil {
		metrics.PriceLookups.WithLabelValues(metrics.LookupHit).Inc()
		return quote, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	quote, err = s.provider.GetQuote(lookupCtx, symbol)
	if err != nil {
		metrics.PriceLookups.WithLabelValues(metrics.LookupUnavailable).Inc()
		if errors.Is(err, externalApi.ErrNotFound) {
			slog.Warn("symbol not found by quote provider", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
			return model.Quote{}, service.ErrNotFound
		}
		slog.Warn("quote provider failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return model.Quote{}, fmt.Errorf("%w: %s", service.ErrPriceUnavailable, err.Error())
	}
	metrics.PriceLookups.WithLabelValues(metrics.LookupFetched).Inc()

	// провайдер может вернуть свою запись тикера (BRK-B), кэш держим по запрошенной
	quote.Symbol = symbol

	if err = s.cache.SetQuote(ctx, quote); err != nil {
		slog.Error("can't save quote to cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return quote, nil
}

// GetPrice never fails: ok is false when the price is unavailable for any reason.
func (s *PriceService) GetPrice(ctx context.Context, symbol string) (price decimal.Decimal, ok bool) {
	quote, err := s.GetQuote(ctx, symbol)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return quote.Price, true
}

// GetPrices looks up distinct symbols concurrently. Unavailable symbols are absent from the result.
func (s *PriceService) GetPrices(ctx context.Context, symbols []string) map[string]decimal.Decimal {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PriceService.GetPrices"

	unique := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		symbol = NormalizeSymbol(symbol)
		if _, ok := seen[symbol]; ok || symbol == "" {
			continue
		}
		seen[symbol] = struct{}{}
		unique = append(unique, symbol)
	}

	slog.Debug("GetPrices start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("symbols", len(unique)))

	var mu sync.Mutex
	prices := make(map[string]decimal.Decimal, len(unique))

	g := errgroup.Group{}
	g.SetLimit(s.concurrency)
	for _, symbol := range unique {
		g.Go(func() error {
			price, ok := s.GetPrice(ctx, symbol)
			if !ok {
				return nil
			}
			mu.Lock()
			prices[symbol] = price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	slog.Debug("GetPrices finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int("resolved", len(prices)))

	return prices
}

func (s *PriceService) GetHistory(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PriceService.GetHistory"

	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candles, err := s.provider.GetHistory(lookupCtx, NormalizeSymbol(symbol), days)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			return nil, service.ErrNotFound
		}
		slog.Warn("history lookup failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%w: %s", service.ErrPriceUnavailable, err.Error())
	}

	return candles, nil
}
