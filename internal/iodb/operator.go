// Package iodb implements database operations using GORM on top of
// pgxpool (PostgreSQL) or modernc SQLite.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/revatlas/revatlas/pkg/db"
	"github.com/revatlas/revatlas/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// operator implements db.Operator interface.
type operator struct {
	pool  *pgxpool.Pool
	sqlDB *sql.DB
	db    *gorm.DB
}

// NewOperator creates a new database operator
// (without connecting).
func NewOperator() db.Operator {
	return &operator{}
}

// Connect opens the store configured by cfg.Driver.
func (o *operator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	switch cfg.Driver {
	case "postgres", "":
		return o.connectPostgres(ctx, cfg)
	case "sqlite":
		return o.connectSQLite(ctx, cfg)
	default:
		return UnsupportedDriverError(cfg.Driver)
	}
}

func (o *operator) connectPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg, err)
	}

	// The importer writes from one goroutine and the gateway only
	// reads, a small pool is enough.
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		gormConfig(),
	)
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return ConnectionError(cfg, err)
	}

	o.pool = pool
	o.sqlDB = sqlDB
	o.db = gormDB
	return nil
}

func (o *operator) connectSQLite(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := cfg.Path +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
	gormDB, err := gorm.Open(
		sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}),
		gormConfig(),
	)
	if err != nil {
		return ConnectionError(cfg, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return ConnectionError(cfg, err)
	}
	// SQLite allows one writer, a single connection avoids
	// "database is locked" errors inside page transactions.
	sqlDB.SetMaxOpenConns(1)

	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return ConnectionError(cfg, err)
	}

	o.sqlDB = sqlDB
	o.db = gormDB
	return nil
}

// gormConfig routes GORM warnings (slow queries, errors) to slog.
func gormConfig() *gorm.Config {
	gormLog := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	return &gorm.Config{Logger: gormLog}
}

// Close releases all database connections.
func (o *operator) Close() error {
	if o.sqlDB != nil {
		o.sqlDB.Close()
	}
	if o.pool != nil {
		o.pool.Close()
	}
	return nil
}

// DB returns the GORM handle.
func (o *operator) DB() *gorm.DB {
	return o.db
}

// HasTables checks if the events table exists.
func (o *operator) HasTables(ctx context.Context) (bool, error) {
	if o.db == nil {
		return false, NotConnectedError()
	}

	var res bool
	for _, m := range schema.AllModels() {
		if o.db.WithContext(ctx).Migrator().HasTable(m) {
			res = true
			break
		}
	}
	return res, nil
}

// DropAllTables drops all revatlas tables.
func (o *operator) DropAllTables(ctx context.Context) error {
	if o.db == nil {
		return NotConnectedError()
	}

	for _, m := range schema.AllModels() {
		if err := o.db.WithContext(ctx).Migrator().DropTable(m); err != nil {
			return DropTableError(fmt.Sprintf("%T", m), err)
		}
	}
	return nil
}
