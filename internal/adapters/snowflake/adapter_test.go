package snowflake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Capabilities(t *testing.T) {
	a := NewAdapter(Config{})
	assert.Equal(t, "snowflake", a.Name())
	assert.False(t, a.FileBased())
	assert.False(t, a.TransactionalDDL())
	assert.True(t, a.MultiStatement())
	assert.Equal(t, 60*time.Second, a.config.ConnectTimeout)
}

func TestAdapter_OpenRequiresDSN(t *testing.T) {
	_, err := NewAdapter(DefaultConfig()).Open(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn is required")
}

func TestAdapter_ScriptContextEnablesMultiStatement(t *testing.T) {
	base := context.Background()

	ctx, err := NewAdapter(DefaultConfig()).ScriptContext(base)
	require.NoError(t, err)
	assert.NotEqual(t, base, ctx)
}
