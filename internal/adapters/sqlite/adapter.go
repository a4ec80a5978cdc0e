// Package sqlite provides the SQLite engine adapter, the default target.
// It uses the pure-Go modernc.org/sqlite driver, so no cgo is required.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/canonica-labs/dbinit/internal/adapters"

	_ "modernc.org/sqlite" // SQLite driver
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Adapter implements adapters.EngineAdapter for SQLite database files.
type Adapter struct{}

var _ adapters.EngineAdapter = (*Adapter)(nil)

// NewAdapter creates a new SQLite adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Name returns the engine name.
func (a *Adapter) Name() string {
	return "sqlite"
}

func (a *Adapter) FileBased() bool        { return true }
func (a *Adapter) TransactionalDDL() bool { return true }
func (a *Adapter) MultiStatement() bool   { return true }

// Open opens the database file at path, creating it if absent.
// The parent directory must already exist.
func (a *Adapter) Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: database path is empty")
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	// One writer; keeps the transaction and the connection it runs on together.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: connect %s: %w", path, err)
	}
	return db, nil
}

// ScriptContext returns ctx unchanged.
func (a *Adapter) ScriptContext(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

// Tables lists user tables, excluding SQLite's internal sqlite_* tables.
func (a *Adapter) Tables(ctx context.Context, db *sql.DB) ([]string, error) {
	return adapters.QueryNames(ctx, db,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
}
