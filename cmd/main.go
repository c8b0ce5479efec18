package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/data"
	"github.com/sebastiangueler-commits/cARTE/data/cache"
	"github.com/sebastiangueler-commits/cARTE/data/repository/memory"
	"github.com/sebastiangueler-commits/cARTE/data/repository/postgres"
	"github.com/sebastiangueler-commits/cARTE/data/session"
	"github.com/sebastiangueler-commits/cARTE/internal/assetParser"
	"github.com/sebastiangueler-commits/cARTE/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/sebastiangueler-commits/cARTE/internal/externalApi/visionApi"
	"github.com/sebastiangueler-commits/cARTE/internal/externalApi/yahooApi"
	"github.com/sebastiangueler-commits/cARTE/internal/reportGenerator/xslsxGenerator"
	"github.com/sebastiangueler-commits/cARTE/internal/scheduler"
	"github.com/sebastiangueler-commits/cARTE/internal/service/adminService"
	"github.com/sebastiangueler-commits/cARTE/internal/service/authService"
	"github.com/sebastiangueler-commits/cARTE/internal/service/detectionService"
	"github.com/sebastiangueler-commits/cARTE/internal/service/portfolioService"
	"github.com/sebastiangueler-commits/cARTE/internal/service/priceService"
	"github.com/sebastiangueler-commits/cARTE/internal/tgbot"
	"github.com/sebastiangueler-commits/cARTE/internal/transport/rest"
	"github.com/sebastiangueler-commits/cARTE/internal/transport/telegram"
)

const shutdownTimeout = 10 * time.Second

type store interface {
	authService.Repository
	adminService.Repository
	portfolioService.Repository
	detectionService.Repository
	Ping(ctx context.Context) error
}

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config",
		slog.String("storage", cfg.Storage.Backend),
		slog.String("cache", cfg.Cache.Backend),
		slog.Bool("ocr", cfg.OCREnabled()),
		slog.Bool("googleDrive", cfg.GoogleDriveEnabled()),
		slog.Bool("telegram", cfg.TelegramEnabled()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	health := make(map[string]rest.HealthCheck)

	var repo store
	if cfg.Storage.Backend == config.StorageMemory {
		slog.Warn("in-memory storage is used, data will be lost on restart")
		repo = memory.New()
	} else {
		pgClient := data.NewPostgresClient(ctx, cfg)
		defer pgClient.Close()
		repo = postgres.NewPostgres(pgClient)
	}
	health["database"] = repo.Ping

	var redisClient *redis.Client
	if cfg.RedisRequired() {
		redisClient = data.NewRedisClient(ctx, cfg)
		defer redisClient.Close()
		health["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	// nil интерфейсы, если компонент выключен
	var (
		quoteCache  priceService.QuoteCache
		quotePurger scheduler.QuotePurger
	)
	if cfg.Cache.Backend == config.CacheRedis {
		quoteCache = cache.NewRedisCache(redisClient, cfg.Cache.QuotesExpiration)
	} else {
		memoryCache := cache.NewMemoryCache(cfg.Cache.QuotesExpiration)
		quoteCache, quotePurger = memoryCache, memoryCache
	}

	symbols := assetParser.DefaultSymbols()
	if cfg.Parser.SymbolsFile != "" {
		loaded, err := assetParser.LoadSymbols(cfg.Parser.SymbolsFile)
		if err != nil {
			slog.Error("can't load symbols file", slog.String("path", cfg.Parser.SymbolsFile), slog.String("err", err.Error()))
			panic(err)
		}
		symbols = loaded
	}

	var recognizer detectionService.TextRecognizer
	if cfg.OCREnabled() {
		recognizer = visionApi.New(ctx, cfg)
	}

	var (
		fileStorage detectionService.FileStorage
		fileCleaner scheduler.FileCleaner
	)
	if cfg.GoogleDriveEnabled() {
		drive := googleDriveApi.New(ctx, cfg)
		fileStorage, fileCleaner = drive, drive
	}

	priceSrv := priceService.New(yahooApi.New(cfg), quoteCache, cfg)
	portfolioSrv := portfolioService.New(repo, priceSrv, xslsxGenerator.New())
	authSrv := authService.New(repo, cfg)
	adminSrv := adminService.New(repo, portfolioSrv)
	detectionSrv := detectionService.New(
		assetParser.New(symbols),
		assetParser.Extract,
		recognizer,
		fileStorage,
		repo,
		cfg.OCR.MaxImageBytes,
	)

	if cfg.Auth.AdminEmail != "" {
		if err := authSrv.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			slog.Error("can't ensure admin account", slog.String("err", err.Error()))
			panic(err)
		}
	}

	sched := scheduler.New(ctx)
	sched.RegisterJobs(cfg, portfolioSrv, fileCleaner, quotePurger)
	sched.Start()
	defer sched.Stop()

	httpServer := rest.New(cfg, rest.NewController(authSrv, portfolioSrv, detectionSrv, priceSrv, adminSrv, health))
	httpServer.Start()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		httpServer.Stop(shutdownCtx)
	}()

	if cfg.TelegramEnabled() {
		redisSession := session.NewRedisSession(redisClient, cfg.Telegram.SessionExpiration)
		tgController := telegram.NewController(detectionSrv, priceSrv, redisSession)

		tgBot := tgbot.New(cfg, tgController, redisSession)
		tgBot.Start()
		defer tgBot.Stop()
	}

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
