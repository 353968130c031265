package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Database wraps the gorm handle shared by every module repository.
// Transactions are carried through context (see WithTx and Conn) so modules
// never own transaction lifecycle.
type Database struct {
	DB     *gorm.DB
	Driver string
}

type Options struct {
	Driver          string
	DSN             string
	ApplicationName string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func Connect(ctx context.Context, opts Options) (*Database, error) {
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, errors.New("database dsn is required")
	}

	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case "", DriverPostgres, "postgresql":
		driver = DriverPostgres
		gdb, err = openPostgres(opts)
	case DriverSQLite, "sqlite3":
		driver = DriverSQLite
		gdb, err = gorm.Open(gormsqlite.Open(opts.DSN), &gorm.Config{})
		if err != nil {
			err = fmt.Errorf("open gorm sqlite: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve sql db handle: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &Database{DB: gdb, Driver: driver}, nil
}

func openPostgres(opts Options) (*gorm.DB, error) {
	connConfig, err := pgx.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if name := strings.TrimSpace(opts.ApplicationName); name != "" {
		connConfig.RuntimeParams["application_name"] = name
	}
	// Pin UTC so date_trunc and "start of day" comparisons never depend on the
	// server default.
	connConfig.RuntimeParams["timezone"] = "UTC"

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: stdlib.OpenDB(*connConfig),
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}
	return gdb, nil
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
