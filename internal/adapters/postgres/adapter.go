// Package postgres provides the PostgreSQL engine adapter over lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/canonica-labs/dbinit/internal/adapters"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Config configures the PostgreSQL adapter.
type Config struct {
	// ConnectTimeout bounds the initial connection check.
	ConnectTimeout time.Duration
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 30 * time.Second,
	}
}

// Adapter implements adapters.EngineAdapter for PostgreSQL.
// The target is a lib/pq DSN, either a postgres:// URL or key=value pairs.
type Adapter struct {
	config Config
}

var _ adapters.EngineAdapter = (*Adapter)(nil)

// NewAdapter creates a new PostgreSQL adapter.
func NewAdapter(config Config) *Adapter {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = DefaultConfig().ConnectTimeout
	}
	return &Adapter{config: config}
}

// Name returns the engine name.
func (a *Adapter) Name() string {
	return "postgres"
}

func (a *Adapter) FileBased() bool        { return false }
func (a *Adapter) TransactionalDDL() bool { return true }

// MultiStatement is true: without bind arguments lib/pq uses the simple query
// protocol, which accepts several statements per call.
func (a *Adapter) MultiStatement() bool { return true }

// Open connects to the database named by dsn.
func (a *Adapter) Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres: database.dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to connect: %w", err)
	}

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, a.config.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: connection test failed: %w", err)
	}
	return db, nil
}

// ScriptContext returns ctx unchanged.
func (a *Adapter) ScriptContext(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

// Tables lists base tables in the current schema.
func (a *Adapter) Tables(ctx context.Context, db *sql.DB) ([]string, error) {
	return adapters.QueryNames(ctx, db, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
}
