// Package duckdb provides the DuckDB engine adapter.
// DuckDB is file-based like SQLite; the driver requires cgo.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/canonica-labs/dbinit/internal/adapters"

	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
)

// DriverName is the database/sql driver name registered by go-duckdb.
const DriverName = "duckdb"

// Adapter implements adapters.EngineAdapter for DuckDB database files.
type Adapter struct{}

var _ adapters.EngineAdapter = (*Adapter)(nil)

// NewAdapter creates a new DuckDB adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Name returns the engine name.
func (a *Adapter) Name() string {
	return "duckdb"
}

func (a *Adapter) FileBased() bool        { return true }
func (a *Adapter) TransactionalDDL() bool { return true }
func (a *Adapter) MultiStatement() bool   { return true }

// Open opens the DuckDB file at path, creating it if absent.
// ":memory:" opens an in-memory database.
func (a *Adapter) Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("DuckDB adapter: database path is empty")
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("DuckDB adapter: open %s: %w", path, err)
	}

	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("DuckDB adapter: connect %s: %w", path, err)
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
