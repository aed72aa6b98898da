package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/001_master_schema.up.sql
var MasterSchema string

//go:embed migrations/002_tenant_schema.up.sql
var TenantSchema string

// DB wraps the connection pool for the master database.
type DB struct {
	pool *pgxpool.Pool
}

// Config holds database connection parameters. Database names the
// master database; tenant databases share every other parameter and are
// reached through TenantPools.
type Config struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

func (cfg Config) connString(database string) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d pool_min_conns=%d",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		database,
		cfg.SSLMode,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
	)
}

func newPool(ctx context.Context, cfg Config, database string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.connString(database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database %q: %w", database, err)
	}

	return pool, nil
}

// New connects to the master database.
func New(ctx context.Context, cfg Config) (*DB, error) {
	pool, err := newPool(ctx, cfg, cfg.Database)
	if err != nil {
		return nil, err
	}
	return &DB{pool: pool}, nil
}

// Close closes the master connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Migrate runs a SQL script against the master database.
func (db *DB) Migrate(ctx context.Context, script string) error {
	_, err := db.pool.Exec(ctx, script)
	return err
}
