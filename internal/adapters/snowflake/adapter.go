// Package snowflake provides the Snowflake engine adapter over gosnowflake.
//
// Snowflake commits DDL implicitly, so scripts always run in autocommit mode.
// Multi-statement execution has to be enabled per call.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/snowflakedb/gosnowflake"

	"github.com/canonica-labs/dbinit/internal/adapters"
)

// Config configures the Snowflake adapter.
type Config struct {
	// ConnectTimeout bounds the initial login.
	ConnectTimeout time.Duration
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 60 * time.Second,
	}
}

// Adapter implements adapters.EngineAdapter for Snowflake.
// The target is a gosnowflake DSN: user:password@account/database/schema?warehouse=wh
type Adapter struct {
	config Config
}

var _ adapters.EngineAdapter = (*Adapter)(nil)

// NewAdapter creates a new Snowflake adapter.
func NewAdapter(config Config) *Adapter {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = DefaultConfig().ConnectTimeout
	}
	return &Adapter{config: config}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "snowflake"
}

func (a *Adapter) FileBased() bool        { return false }
func (a *Adapter) TransactionalDDL() bool { return false }
func (a *Adapter) MultiStatement() bool   { return true }

// Open logs in with dsn and verifies the session.
func (a *Adapter) Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("snowflake: database.dsn is required")
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("snowflake: failed to open connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, a.config.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("snowflake: connection test failed: %w", err)
	}
	return db, nil
}

// ScriptContext enables multi-statement execution with an unbounded
// statement count for the script call.
func (a *Adapter) ScriptContext(ctx context.Context) (context.Context, error) {
	mctx, err := gosnowflake.WithMultiStatement(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("snowflake: enable multi-statement: %w", err)
	}
	return mctx, nil
}

// Tables lists base tables in the session's current schema.
func (a *Adapter) Tables(ctx context.Context, db *sql.DB) ([]string, error) {
	return adapters.QueryNames(ctx, db, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = CURRENT_SCHEMA() AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
}
