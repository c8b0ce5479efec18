package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/utils"
	"github.com/shopspring/decimal"
)

const quoteKeyPrefix = "quote:"

type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisCache(redisClient *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: redisClient, ttl: ttl}
}

// cachedQuote keeps decimals as strings so the stored JSON does not depend on decimal's global marshal settings.
type cachedQuote struct {
	Symbol        string    `json:"symbol"`
	ShortName     string    `json:"shortName"`
	Currency      string    `json:"currency"`
	Exchange      string    `json:"exchange"`
	Price         string    `json:"price"`
	PreviousClose string    `json:"previousClose"`
	Change        string    `json:"change"`
	ChangePercent string    `json:"changePercent"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func quoteKey(symbol string) string {
	return quoteKeyPrefix + symbol
}

func (r *RedisCache) SetQuote(ctx context.Context, quote model.Quote) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.SetQuote"

	slog.Debug("SetQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", quote.Symbol))
	defer func() {
		if err != nil {
			slog.Error("SetQuote failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("SetQuote completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	quoteJson, err := json.Marshal(cachedQuote{
		Symbol:        quote.Symbol,
		ShortName:     quote.ShortName,
		Currency:      quote.Currency,
		Exchange:      quote.Exchange,
		Price:         quote.Price.String(),
		PreviousClose: quote.PreviousClose.String(),
		Change:        quote.Change.String(),
		ChangePercent: quote.ChangePercent.String(),
		UpdatedAt:     quote.UpdatedAt,
	})
	if err != nil {
		return err
	}

	return r.redis.Set(ctx, quoteKey(quote.Symbol), quoteJson, r.ttl).Err()
}

func (r *RedisCache) GetQuote(ctx context.Context, symbol string) (quote model.Quote, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.GetQuote"

	slog.Debug("GetQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			slog.Error("GetQuote failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetQuote completed", slog.String("rqID", rqID), slog.String("op", op), slog.Bool("hit", err == nil))
		}
	}()

	res, err := r.redis.Get(ctx, quoteKey(symbol)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Quote{}, ErrNotFound
		}
		return model.Quote{}, err
	}

	cached := cachedQuote{}
	if err = json.Unmarshal([]byte(res), &cached); err != nil {
		return model.Quote{}, err
	}

	return model.Quote{
		Symbol:        cached.Symbol,
		ShortName:     cached.ShortName,
		Currency:      cached.Currency,
		Exchange:      cached.Exchange,
		Price:         parseDecimal(cached.Price),
		PreviousClose: parseDecimal(cached.PreviousClose),
		Change:        parseDecimal(cached.Change),
		ChangePercent: parseDecimal(cached.ChangePercent),
		UpdatedAt:     cached.UpdatedAt,
	}, nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
