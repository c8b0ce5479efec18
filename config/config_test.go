package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("PG_HOST", "localhost")
	t.Setenv("PG_DB_NAME", "carte")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_USER", "carte")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, time.Minute, cfg.Cache.QuotesExpiration)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 4, cfg.Price.LookupConcurrency)
	assert.Equal(t, 10*1024*1024, cfg.HTTP.BodyLimitBytes)
	assert.Equal(t, []string{"en", "es"}, cfg.OCR.LanguageHints)
	assert.False(t, cfg.OCREnabled())
	assert.False(t, cfg.GoogleDriveEnabled())
	assert.False(t, cfg.TelegramEnabled())
	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.False(t, cfg.RedisRequired())
}

func TestLoad_EmptySecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	// JWT_SECRET задан, но пустой
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("PRICE_LOOKUP_TIMEOUT", "2s")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("HTTP_CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 2*time.Second, cfg.Price.LookupTimeout)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CorsOrigins)
	assert.True(t, cfg.RedisRequired())
}

func TestLoad_MemoryStorageWithoutPostgres(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("STORAGE_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
}

func TestLoad_InvalidBackends(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("STORAGE_BACKEND", "sqlite")
	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_BACKEND")

	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("CACHE_BACKEND", "memcached")
	_, err = Load()
	assert.ErrorContains(t, err, "CACHE_BACKEND")

	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("PRICE_LOOKUP_CONCURRENCY", "0")
	_, err = Load()
	assert.ErrorContains(t, err, "PRICE_LOOKUP_CONCURRENCY")
}

func TestLoadClient_NoSecretsRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PARSER_SYMBOLS_FILE", "symbols.yaml")

	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.API.YahooApi.Url)
	assert.Equal(t, 5*time.Second, cfg.Price.LookupTimeout)
	assert.Equal(t, "symbols.yaml", cfg.Parser.SymbolsFile)
	assert.Empty(t, cfg.Auth.JWTSecret)
}
