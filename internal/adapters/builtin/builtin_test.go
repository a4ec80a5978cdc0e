package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := Registry()

	assert.Equal(t, []string{"duckdb", "postgres", "snowflake", "sqlite", "trino"}, r.Available())

	def, err := r.Lookup(DefaultEngine)
	require.NoError(t, err)
	assert.True(t, def.FileBased())
	assert.True(t, def.TransactionalDDL())
}
