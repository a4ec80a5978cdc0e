// Package builtin wires every engine adapter shipped with dbinit into a registry.
package builtin

import (
	"github.com/canonica-labs/dbinit/internal/adapters"
	"github.com/canonica-labs/dbinit/internal/adapters/duckdb"
	"github.com/canonica-labs/dbinit/internal/adapters/postgres"
	"github.com/canonica-labs/dbinit/internal/adapters/snowflake"
	"github.com/canonica-labs/dbinit/internal/adapters/sqlite"
	"github.com/canonica-labs/dbinit/internal/adapters/trino"
)

// DefaultEngine is the engine used when database.driver is not set.
const DefaultEngine = sqlite.DriverName

// Registry returns a registry holding sqlite, duckdb, postgres, snowflake and trino.
func Registry() *adapters.AdapterRegistry {
	r := adapters.NewAdapterRegistry()
	r.Register(sqlite.NewAdapter())
	r.Register(duckdb.NewAdapter())
	r.Register(postgres.NewAdapter(postgres.DefaultConfig()))
	r.Register(snowflake.NewAdapter(snowflake.DefaultConfig()))
	r.Register(trino.NewAdapter(trino.AdapterConfig{}))
	return r
}
