package duckdb

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
	assert.Equal(t, "duckdb", a.Name())
	assert.True(t, a.FileBased())
	assert.True(t, a.TransactionalDDL())
	assert.True(t, a.MultiStatement())
}

func TestAdapter_OpenCreatesFileAndListsTables(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter()
	path := filepath.Join(t.TempDir(), "analytics.duckdb")

	db, err := a.Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		CREATE TABLE doctors (id INTEGER PRIMARY KEY, name VARCHAR);
		CREATE TABLE calculated_indicators (doctor_id INTEGER, score DOUBLE);
		INSERT INTO doctors VALUES (1, 'Ava Li');
	`)
	require.NoError(t, err)

	tables, err := a.Tables(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"calculated_indicators", "doctors"}, tables)
}

func TestAdapter_TransactionRollsBackDDL(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter()

	db, err := a.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `CREATE TABLE doctors (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	tables, err := a.Tables(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, tables)
}
