package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/vdisk"
	"github.com/sagarc03/vdisk/database/postgres"
	"github.com/sagarc03/vdisk/database/redis"
	"github.com/sagarc03/vdisk/database/sqlite"
)

// TypeNone disables download statistics.
const TypeNone = "none"

// Config holds the configuration for connecting to a download counter backend.
type Config struct {
	// Type specifies the backend: "none", "sqlite", "postgres" or "redis"
	Type string `mapstructure:"type" validate:"required,oneof=none sqlite postgres redis"`
	// DSN is the data source name (connection string or redis:// URL)
	DSN string `mapstructure:"dsn" validate:"required_unless=Type none"`
	// Tables holds the table (or redis key prefix) names
	Tables vdisk.Tables `mapstructure:"tables"`
}

// Enabled reports whether a backend is configured.
func (c Config) Enabled() bool {
	return c.Type != "" && c.Type != TypeNone
}

// Database is a connected download counter backend.
type Database interface {
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// Migrate creates the tables the counter needs. It is idempotent.
	Migrate(ctx context.Context) error
	// Validate checks the existing schema matches what the counter expects.
	Validate(ctx context.Context) error
	// GetCounter returns the DownloadCounter backed by this database.
	GetCounter() vdisk.DownloadCounter
	// Close releases the connection.
	Close() error
}

// Connect opens a connection to the configured backend without running migrations.
// Table names are validated first.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "sqlite":
		return sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
	case "postgres":
		return postgres.Connect(ctx, cfg.DSN, cfg.Tables)
	case "redis":
		return redis.Connect(ctx, cfg.DSN, cfg.Tables)
	default:
		return nil, fmt.Errorf("connect: unsupported database type: %q", cfg.Type)
	}
}

// Open connects, pings, migrates and validates the backend, returning a
// ready-to-use database. Callers close it when done.
func Open(ctx context.Context, cfg Config) (Database, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Type, err)
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", cfg.Type, err)
	}

	if err := db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate %s: %w", cfg.Type, err)
	}

	return db, nil
}
