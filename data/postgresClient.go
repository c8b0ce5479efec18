package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
	"github.com/sebastiangueler-commits/cARTE/config"
)

const (
	defaultConnAttempts = 10
	connRetryDelay      = time.Second
)

func postgresDSN(cfg *config.Config) string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Postgres.User, cfg.Postgres.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Postgres.Host, cfg.Postgres.Port),
		Path:     cfg.Postgres.DbName,
		RawQuery: "sslmode=disable",
	}
	return dsn.String()
}

// NewPostgresClient connects with retries, applies pool settings and runs migrations.
// It panics when the database stays unreachable.
func NewPostgresClient(ctx context.Context, cfg *config.Config) *sqlx.DB {
	var (
		db  *sqlx.DB
		err error
	)

	for attempt := 1; attempt <= defaultConnAttempts; attempt++ {
		db, err = sqlx.ConnectContext(ctx, "pgx", postgresDSN(cfg))
		if err == nil {
			break
		}

		slog.Info(
			"Postgres is trying to connect",
			slog.Int("attempt", attempt),
			slog.Int("attempts left", defaultConnAttempts-attempt),
			slog.String("err", err.Error()),
		)

		select {
		case <-ctx.Done():
			panic(ctx.Err())
		case <-time.After(connRetryDelay):
		}
	}

	if err != nil {
		slog.Error("Postgres connection attempts exhausted")
		panic(err)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxIdleTime(time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second)

	if err = db.PingContext(ctx); err != nil {
		slog.Error("Postgres ping failed", slog.String("err", err.Error()))
		panic(err)
	}
	slog.Info("Postgres connected", slog.String("host", cfg.Postgres.Host), slog.String("db", cfg.Postgres.DbName))

	if err = migratePostgres(db, cfg.Postgres.MigrationDir); err != nil {
		panic(err)
	}
	slog.Info("postgres migrated successfully")

	return db
}

func migratePostgres(db *sqlx.DB, migrationDir string) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		slog.Error("postgres migration failed on postgres.WithInstance", slog.String("err", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationDir), "postgres", driver)
	if err != nil {
		slog.Error("postgres migration failed on migrate.NewWithDatabaseInstance", slog.String("err", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		slog.Error("postgres migration failed on m.Up()", slog.String("err", err.Error()))
		return err
	}

	version, dirty, vErr := m.Version()
	if vErr == nil {
		slog.Info("postgres schema version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}

	return nil
}
