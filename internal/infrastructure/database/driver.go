package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/infrastructure/config"
	"github.com/eslsoft/wordpicker/internal/infrastructure/database/migrate"
)

const pingTimeout = 5 * time.Second

// NewDriver opens the configured database and returns an ent SQL driver for it.
func NewDriver(cfg *config.Config, logger *logrus.Logger) (dialect.Driver, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}

	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}

	var (
		drv     dialect.Driver
		cleanup func()
	)
	switch driver {
	case config.DriverPostgres:
		drv, cleanup, err = newPostgresDriver(dsn)
	case config.DriverPgx:
		drv, cleanup, err = newPgxDriver(cfg, dsn, logger)
	case config.DriverSQLite:
		drv, cleanup, err = newSQLiteDriver(dsn)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, nil, err
	}

	// pgx traces through its own tracer; the database/sql drivers go through ent's debug driver.
	if cfg.Database.LogSQL && driver != config.DriverPgx {
		drv = dialect.DebugWithContext(drv, func(ctx context.Context, args ...any) {
			logger.WithContext(ctx).WithField("component", "sql").Debug(args...)
		})
	}
	return drv, cleanup, nil
}

// NewMigratedDriver opens the database and brings its schema up to date.
func NewMigratedDriver(cfg *config.Config, logger *logrus.Logger) (dialect.Driver, func(), error) {
	drv, cleanup, err := NewDriver(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout+pingTimeout)
	defer cancel()
	if err := migrate.Create(ctx, drv); err != nil {
		cleanup()
		return nil, nil, entity.NewStorageError("migrate schema", err)
	}
	return drv, cleanup, nil
}

func newPostgresDriver(dsn string) (dialect.Driver, func(), error) {
	rawDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, entity.NewStorageError("open postgres db", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, nil, entity.NewStorageError("ping postgres db", err)
	}

	drv := entsql.OpenDB(dialect.Postgres, rawDB)
	return drv, func() {
		_ = drv.Close()
	}, nil
}

func newPgxDriver(cfg *config.Config, dsn string, logger *logrus.Logger) (dialect.Driver, func(), error) {
	pool, closePool, err := NewConnection(cfg, dsn, logger)
	if err != nil {
		return nil, nil, err
	}
	rawDB := stdlib.OpenDBFromPool(pool)
	drv := entsql.OpenDB(dialect.Postgres, rawDB)
	return drv, func() {
		_ = drv.Close()
		closePool()
	}, nil
}

func newSQLiteDriver(dsn string) (dialect.Driver, func(), error) {
	rawDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, entity.NewStorageError("open sqlite db", err)
	}
	// A single connection serializes writers and keeps in-memory databases alive.
	rawDB.SetMaxOpenConns(1)
	rawDB.SetMaxIdleConns(1)
	rawDB.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, nil, entity.NewStorageError("ping sqlite db", err)
	}
	if _, err := rawDB.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		rawDB.Close()
		return nil, nil, entity.NewStorageError("enable sqlite foreign keys", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, rawDB)
	return drv, func() {
		_ = drv.Close()
	}, nil
}
