// Package adapters defines the common interface for database engine adapters.
// Each adapter knows how to open its engine through database/sql and what the
// engine can do with a bootstrap script.
//
// Adapters are stateless and thin: no silent retries, no hidden fallbacks.
package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"sort"

	"github.com/canonica-labs/dbinit/internal/errors"
)

// EngineAdapter is the interface all engine adapters must implement.
type EngineAdapter interface {
	// Name returns the unique name of this engine, used as database.driver.
	Name() string

	// FileBased reports whether the target is a local file path. File-based
	// engines get their data directory created before Open.
	FileBased() bool

	// TransactionalDDL reports whether schema changes can be rolled back as
	// part of a transaction.
	TransactionalDDL() bool

	// MultiStatement reports whether one Exec call may carry several
	// statements.
	MultiStatement() bool

	// Open connects to target and verifies the connection. For file-based
	// engines the database file is created if absent.
	Open(ctx context.Context, target string) (*sql.DB, error)

	// ScriptContext returns the context under which the script is executed,
	// letting drivers attach per-call options.
	ScriptContext(ctx context.Context) (context.Context, error)

	// Tables lists the user tables visible in the connected database, sorted.
	Tables(ctx context.Context, db *sql.DB) ([]string, error)
}

// AdapterRegistry manages engine adapters.
type AdapterRegistry struct {
	adapters map[string]EngineAdapter
}

// NewAdapterRegistry creates a new adapter registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		adapters: make(map[string]EngineAdapter),
	}
}

// Register adds an adapter to the registry.
func (r *AdapterRegistry) Register(adapter EngineAdapter) {
	r.adapters[adapter.Name()] = adapter
}

// Get returns an adapter by name.
func (r *AdapterRegistry) Get(name string) (EngineAdapter, bool) {
	adapter, ok := r.adapters[name]
	return adapter, ok
}

// Lookup returns an adapter by name, or an ErrUnknownEngine.
func (r *AdapterRegistry) Lookup(name string) (EngineAdapter, error) {
	adapter, ok := r.Get(name)
	if !ok {
		return nil, errors.NewUnknownEngine(name, r.Available())
	}
	return adapter, nil
}

// Available returns the sorted names of all registered adapters.
func (r *AdapterRegistry) Available() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty returns true if no adapters are registered.
func (r *AdapterRegistry) IsEmpty() bool {
	return len(r.adapters) == 0
}

// QueryNames runs query and collects the first column of every row as a string.
func QueryNames(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

var (
	passwordPair = regexp.MustCompile(`(?i)(password\s*=\s*)('[^']*'|\S+)`)
	userInfo     = regexp.MustCompile(`^([^:/@]+):([^@]*)@`)
)

// RedactDSN hides credentials in a DSN so it can be printed or logged.
// It handles URL DSNs (postgres://, http://), user:pass@account DSNs and
// key=value DSNs.
func RedactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Host != "" && u.User != nil {
		return u.Redacted()
	}
	dsn = userInfo.ReplaceAllString(dsn, "${1}:xxxxx@")
	return passwordPair.ReplaceAllString(dsn, "${1}xxxxx")
}
