// Package trino provides the Trino engine adapter.
//
// Trino accepts one statement per request and has no transactional DDL, so
// scripts are executed statement by statement in autocommit mode.
package trino

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/canonica-labs/dbinit/internal/adapters"

	_ "github.com/trinodb/trino-go-client/trino" // Trino driver
)

// AdapterConfig configures the Trino adapter.
type AdapterConfig struct {
	// ConnectTimeout is the timeout for the initial connection check. Default: 10 seconds.
	ConnectTimeout time.Duration
}

// Adapter implements adapters.EngineAdapter for Trino.
// The target is a trino-go-client DSN: http[s]://user@host:port?catalog=X&schema=Y
type Adapter struct {
	config AdapterConfig
}

var _ adapters.EngineAdapter = (*Adapter)(nil)

// NewAdapter creates a new Trino adapter with the given configuration.
func NewAdapter(config AdapterConfig) *Adapter {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 10 * time.Second
	}
	return &Adapter{config: config}
}

// Name returns the engine name.
func (a *Adapter) Name() string {
	return "trino"
}

func (a *Adapter) FileBased() bool        { return false }
func (a *Adapter) TransactionalDDL() bool { return false }
func (a *Adapter) MultiStatement() bool   { return false }

// Open connects to the coordinator named by dsn.
func (a *Adapter) Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("trino: database.dsn is required")
	}

	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, fmt.Errorf("trino: failed to open connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, a.config.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("trino: connection test failed: %w", err)
	}
	return db, nil
}

// ScriptContext returns ctx unchanged.
func (a *Adapter) ScriptContext(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

// Tables lists the tables of the DSN's catalog and schema.
func (a *Adapter) Tables(ctx context.Context, db *sql.DB) ([]string, error) {
	return adapters.QueryNames(ctx, db, `SHOW TABLES`)
}
