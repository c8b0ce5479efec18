package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Storage     Storage
	Postgres    Postgres
	Redis       Redis
	HTTP        HTTP
	Auth        Auth
	API         API
	Price       Price
	Cache       Cache
	Parser      Parser
	OCR         OCR
	GoogleDrive GoogleDrive
	Telegram    Telegram
	Jobs        Jobs
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Storage struct {
	Backend string `env:"STORAGE_BACKEND" envDefault:"postgres"`
}

type Postgres struct {
	Host            string `env:"PG_HOST" envDefault:"localhost"`
	Port            int    `env:"PG_PORT" envDefault:"5432"`
	DbName          string `env:"PG_DB_NAME" envDefault:"carte"`
	Password        string `env:"PG_PASSWORD" envDefault:""`
	User            string `env:"PG_USER" envDefault:"postgres"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"data/migrations"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type HTTP struct {
	Port           int      `env:"HTTP_PORT" envDefault:"5000"`
	BodyLimitBytes int      `env:"HTTP_BODY_LIMIT_BYTES" envDefault:"10485760"`
	CorsOrigins    []string `env:"HTTP_CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

type Auth struct {
	JWTSecret     string        `env:"JWT_SECRET,notEmpty"`
	TokenTTL      time.Duration `env:"JWT_TTL" envDefault:"24h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`
	AdminEmail    string        `env:"ADMIN_EMAIL" envDefault:""`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:""`
}

type API struct {
	Debug    bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout  time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	YahooApi YahooApi
}

type YahooApi struct {
	Url                 string        `env:"YAHOO_API_URL" envDefault:"https://query1.finance.yahoo.com"`
	RPS                 float64       `env:"YAHOO_API_RPS" envDefault:"5"`
	Burst               int           `env:"YAHOO_API_BURST" envDefault:"5"`
	BreakerFailures     uint32        `env:"YAHOO_API_BREAKER_FAILURES" envDefault:"5"`
	BreakerOpenInterval time.Duration `env:"YAHOO_API_BREAKER_OPEN_INTERVAL" envDefault:"30s"`
}

type Price struct {
	LookupTimeout     time.Duration `env:"PRICE_LOOKUP_TIMEOUT" envDefault:"5s"`
	LookupConcurrency int           `env:"PRICE_LOOKUP_CONCURRENCY" envDefault:"4"`
}

type Cache struct {
	Backend          string        `env:"CACHE_BACKEND" envDefault:"memory"`
	QuotesExpiration time.Duration `env:"CACHE_QUOTES_EXPIRATION" envDefault:"1m"`
}

type Parser struct {
	SymbolsFile string `env:"PARSER_SYMBOLS_FILE" envDefault:""`
}

type OCR struct {
	CredentialsFile string   `env:"OCR_CREDENTIALS_FILE" envDefault:""`
	LanguageHints   []string `env:"OCR_LANGUAGE_HINTS" envDefault:"en,es" envSeparator:","`
	MaxImageBytes   int      `env:"OCR_MAX_IMAGE_BYTES" envDefault:"10485760"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"720h"`
}

type Telegram struct {
	Token             string        `env:"TELEGRAM_TOKEN" envDefault:""`
	UpdTimeout        time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
	SessionExpiration time.Duration `env:"SESSION_EXPIRATION" envDefault:"24h"`
}

type Jobs struct {
	RefreshPricesInterval  time.Duration `env:"REFRESH_PRICES_JOB_INTERVAL" envDefault:"5m"`
	DeleteOldFilesInterval time.Duration `env:"DELETE_OLD_FILES_JOB_INTERVAL" envDefault:"24h"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg, err := Load()
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

// Load parses the environment without exiting on error.
func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadClient parses only the sections used by the command line tool, so neither
// database settings nor JWT_SECRET are needed.
func LoadClient() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	for _, section := range []any{&cfg.API, &cfg.Price, &cfg.Cache, &cfg.Parser, &cfg.OCR} {
		if err := env.Parse(section); err != nil {
			return nil, err
		}
	}

	if cfg.Price.LookupConcurrency <= 0 {
		return nil, fmt.Errorf("PRICE_LOOKUP_CONCURRENCY must be positive, got %d", cfg.Price.LookupConcurrency)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}

	if c.Price.LookupConcurrency <= 0 {
		return fmt.Errorf("PRICE_LOOKUP_CONCURRENCY must be positive, got %d", c.Price.LookupConcurrency)
	}

	return nil
}

// RedisRequired reports whether any enabled component keeps state in Redis.
func (c *Config) RedisRequired() bool {
	return c.Cache.Backend == CacheRedis || c.TelegramEnabled()
}

// OCREnabled reports whether a Vision credentials file is configured.
func (c *Config) OCREnabled() bool {
	return c.OCR.CredentialsFile != ""
}

func (c *Config) GoogleDriveEnabled() bool {
	return c.GoogleDrive.CredentialsFile != ""
}

func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != ""
}
