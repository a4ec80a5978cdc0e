package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonica-labs/dbinit/internal/errors"
)

// isolate moves the test into an empty working directory and home so that no
// stray dbinit.yaml or .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, filepath.Join("data", "doctors.db"), cfg.DatabasePath())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "custom.yaml")
	content := `
database:
  dir: var/lib
  file: clinic.db
script:
  path: schema/setup.sql
exec:
  mode: autocommit
logging:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "var/lib", cfg.Database.Dir)
	assert.Equal(t, "clinic.db", cfg.Database.File)
	assert.Equal(t, "schema/setup.sql", cfg.Script.Path)
	assert.Equal(t, ModeAutocommit, cfg.Exec.Mode)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, DefaultMessage, cfg.Output.Message)
}

func TestLoad_DefaultLocationIsWorkingDirectory(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("database:\n  file: found.db\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "found.db", cfg.Database.File)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("database:\n  dir: from-file\n"), 0o644))
	t.Setenv("DBINIT_DATABASE_DIR", "from-env")
	t.Setenv("DBINIT_SCRIPT_BUNDLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Dir)
	assert.True(t, cfg.Script.Bundled)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DBINIT_DATABASE_FILE=dotenv.db\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DBINIT_DATABASE_FILE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv.db", cfg.Database.File)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unterminated\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot load configuration")
	assert.Equal(t, int(errors.CodeConfig), errors.ExitCode(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "missing driver",
			mutate:  func(c *Config) { c.Database.Driver = "" },
			wantErr: "database.driver",
		},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Exec.Mode = "batch" },
			wantErr: "exec.mode",
		},
		{
			name:    "missing script path",
			mutate:  func(c *Config) { c.Script.Path = " " },
			wantErr: "script.path",
		},
		{
			name: "bundled script needs no path",
			mutate: func(c *Config) {
				c.Script.Path = ""
				c.Script.Bundled = true
			},
		},
		{
			name: "bundled script on another engine",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.DSN = "postgres://localhost/clinic"
				c.Script.Bundled = true
			},
			wantErr: "script.bundled",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteExample(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "conf")

	path, err := WriteExample(out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, FileName), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = WriteExample(out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
