// Package scripts provides the bundled SQL bootstrap script.
package scripts

import _ "embed"

// InitDBName is the file name of the bundled script.
const InitDBName = "init_db.sql"

// InitDBDialect is the only engine the bundled script is written for.
const InitDBDialect = "sqlite"

// InitDB is the bundled schema and seed data for the doctor analysis database.
//
//go:embed init_db.sql
var InitDB string
