package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Capabilities(t *testing.T) {
	a := NewAdapter()
	assert.Equal(t, "sqlite", a.Name())
	assert.True(t, a.FileBased())
	assert.True(t, a.TransactionalDDL())
	assert.True(t, a.MultiStatement())
}

func TestAdapter_OpenCreatesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doctors.db")

	db, err := NewAdapter().Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file should exist after Open")
}

func TestAdapter_OpenMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "doctors.db")

	_, err := NewAdapter().Open(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: connect")
}

func TestAdapter_OpenEmptyPath(t *testing.T) {
	_, err := NewAdapter().Open(context.Background(), "")
	require.Error(t, err)
}

func TestAdapter_Tables(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter()

	db, err := a.Open(ctx, filepath.Join(t.TempDir(), "t.db"))
	require.NoError(t, err)
	defer db.Close()

	tables, err := a.Tables(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, tables)

	_, err = db.ExecContext(ctx, `
		CREATE TABLE weight_configs (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT);
		CREATE TABLE doctors (id TEXT PRIMARY KEY);
		INSERT INTO weight_configs (name) VALUES ('default');
	`)
	require.NoError(t, err)

	tables, err = a.Tables(ctx, db)
	require.NoError(t, err)
	// AUTOINCREMENT creates sqlite_sequence, which is internal.
	assert.Equal(t, []string{"doctors", "weight_configs"}, tables)
}

type ctxKey struct{}

func TestAdapter_ScriptContextIsPassthrough(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	got, err := NewAdapter().ScriptContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, ctx, got)
}
