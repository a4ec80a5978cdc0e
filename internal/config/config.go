// Package config provides configuration loading for the dbinit CLI.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/canonica-labs/dbinit/internal/errors"
	"github.com/canonica-labs/dbinit/scripts"
)

// Execution modes.
const (
	ModeTransaction = "transaction"
	ModeAutocommit  = "autocommit"
)

// DefaultMessage is printed to stdout after a successful run.
const DefaultMessage = "Database initialization complete!"

// FileName is the config file name looked up in the default locations.
const FileName = "dbinit.yaml"

// Config holds the application configuration.
type Config struct {
	// Database target
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Script source
	Script ScriptConfig `mapstructure:"script" yaml:"script"`

	// Exec controls how the script is applied
	Exec ExecConfig `mapstructure:"exec" yaml:"exec"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// DatabaseConfig describes where the database lives.
// File-based engines use Dir and File; network engines use DSN.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Dir    string `mapstructure:"dir" yaml:"dir"`
	File   string `mapstructure:"file" yaml:"file"`
	DSN    string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

// ScriptConfig describes the SQL script to run.
type ScriptConfig struct {
	Path    string `mapstructure:"path" yaml:"path"`
	Bundled bool   `mapstructure:"bundled" yaml:"bundled"`
}

// ExecConfig holds execution settings.
type ExecConfig struct {
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// OutputConfig holds user-facing output settings.
type OutputConfig struct {
	Message string `mapstructure:"message" yaml:"message"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			Dir:    "data",
			File:   "doctors.db",
		},
		Script: ScriptConfig{
			Path: "init_db.sql",
		},
		Exec: ExecConfig{
			Mode: ModeTransaction,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Message: DefaultMessage,
		},
	}
}

// DatabasePath returns the database file path for file-based engines.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.File)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Database.Driver == "" {
		return errors.NewInvalidConfig("database.driver", "is required")
	}
	switch c.Exec.Mode {
	case ModeTransaction, ModeAutocommit:
	default:
		return errors.NewInvalidConfig("exec.mode",
			fmt.Sprintf("must be %q or %q, got %q", ModeTransaction, ModeAutocommit, c.Exec.Mode))
	}
	if !c.Script.Bundled && strings.TrimSpace(c.Script.Path) == "" {
		return errors.NewInvalidConfig("script.path", "is required unless script.bundled is set")
	}
	if c.Script.Bundled && c.Database.Driver != scripts.InitDBDialect {
		return errors.NewInvalidConfig("script.bundled",
			fmt.Sprintf("the bundled script is written for %s, not %s", scripts.InitDBDialect, c.Database.Driver))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return errors.NewInvalidConfig("logging.format",
			fmt.Sprintf("must be json or console, got %q", c.Logging.Format))
	}
	return nil
}

// Load loads configuration from file and environment.
// A .env file in the working directory is loaded first when present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".dbinit"))
		}
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
	}

	// Environment variables: DBINIT_DATABASE_DIR, DBINIT_SCRIPT_PATH, ...
	v.SetEnvPrefix("DBINIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file is optional
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigUnreadable(v.ConfigFileUsed(), err)
		}
	}

	// Unmarshal
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigUnreadable(v.ConfigFileUsed(), err)
	}

	return &cfg, nil
}

// WriteExample writes the default configuration as YAML into dir and returns
// the path of the written file. An existing file is never overwritten.
func WriteExample(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewDirectoryFailed(dir, err)
	}

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", errors.NewFileExists(path)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	header := "# dbinit configuration.\n" +
		"# Every key can be overridden with DBINIT_<SECTION>_<KEY>, e.g. DBINIT_DATABASE_DIR.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return "", errors.NewWriteFailed(path, err)
	}
	return path, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dir", d.Database.Dir)
	v.SetDefault("database.file", d.Database.File)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("script.path", d.Script.Path)
	v.SetDefault("script.bundled", d.Script.Bundled)
	v.SetDefault("exec.mode", d.Exec.Mode)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("output.message", d.Output.Message)
}
