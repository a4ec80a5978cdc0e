package trino

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Capabilities(t *testing.T) {
	a := NewAdapter(AdapterConfig{})
	assert.Equal(t, "trino", a.Name())
	assert.False(t, a.FileBased())
	assert.False(t, a.TransactionalDDL())
	assert.False(t, a.MultiStatement())
	assert.Equal(t, 10*time.Second, a.config.ConnectTimeout)
}

func TestAdapter_OpenRequiresDSN(t *testing.T) {
	_, err := NewAdapter(AdapterConfig{}).Open(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn is required")
}
