// Package cli provides the command-line interface for dbinit.
// Running dbinit with no subcommand initializes the configured database.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/canonica-labs/dbinit/internal/adapters"
	"github.com/canonica-labs/dbinit/internal/adapters/builtin"
	"github.com/canonica-labs/dbinit/internal/config"
	"github.com/canonica-labs/dbinit/internal/errors"
	"github.com/canonica-labs/dbinit/internal/initializer"
	"github.com/canonica-labs/dbinit/internal/observability"
)

// Exit codes, one per error category.
const (
	ExitSuccess    = 0
	ExitConfig     = int(errors.CodeConfig)
	ExitFilesystem = int(errors.CodeFilesystem)
	ExitDatabase   = int(errors.CodeDatabase)
	ExitInternal   = int(errors.CodeInternal)
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd  *cobra.Command
	cfg      *config.Config
	logger   *zap.Logger
	registry *adapters.AdapterRegistry

	out    io.Writer
	errOut io.Writer

	// Global flags
	configPath string
	jsonOutput bool
	quiet      bool
	debug      bool

	// Target flags, applied over the loaded configuration when set
	driver  string
	dataDir string
	dbFile  string
	dsn     string
	script  string
	bundled bool
	mode    string
}

// New creates a new CLI instance with every built-in engine registered.
func New() *CLI {
	cli := &CLI{
		registry: builtin.Registry(),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

// SetOutput redirects standard output and standard error.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.out = out
	c.errOut = errOut
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

// SetArgs overrides the command-line arguments.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// Execute runs the CLI and returns the process exit code.
func (c *CLI) Execute() int {
	return c.ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI with ctx and returns the process exit code.
// Cancelling ctx aborts a run in progress.
func (c *CLI) ExecuteContext(ctx context.Context) int {
	err := c.rootCmd.ExecuteContext(ctx)
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	if err == nil {
		return ExitSuccess
	}

	code := errors.ExitCode(err)
	if c.jsonOutput {
		_ = c.outputJSON(map[string]interface{}{
			"success":   false,
			"error":     err.Error(),
			"exit_code": code,
		})
	}
	c.errorf("Error: %v\n", err)
	return code
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dbinit",
		Short: "dbinit - one-shot database bootstrap",
		Long: `dbinit creates a database and runs a SQL script against it, once.

It:
  • creates the data directory if needed
  • opens or creates the database
  • executes the script and commits
  • prints a confirmation and exits

Running dbinit without a subcommand is the same as 'dbinit run'.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewInvalidConfig("flags", err.Error())
	})

	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: ./dbinit.yaml or ~/.dbinit/dbinit.yaml)")
	pf.BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")
	pf.BoolVar(&c.quiet, "quiet", false, "suppress non-essential output")
	pf.BoolVar(&c.debug, "debug", false, "verbose debug logs")

	pf.StringVar(&c.driver, "driver", "", "database engine (sqlite, duckdb, postgres, snowflake, trino)")
	pf.StringVar(&c.dataDir, "data-dir", "", "directory holding the database file")
	pf.StringVar(&c.dbFile, "db-file", "", "database file name inside the data directory")
	pf.StringVar(&c.dsn, "dsn", "", "connection string for network engines")
	pf.StringVar(&c.script, "script", "", "path of the SQL script to run")
	pf.BoolVar(&c.bundled, "bundled", false, "run the built-in init_db.sql instead of a file")
	pf.StringVar(&c.mode, "mode", "", "execution mode: transaction or autocommit")

	cmd.AddCommand(c.newRunCmd())
	cmd.AddCommand(c.newPlanCmd())
	cmd.AddCommand(c.newInspectCmd())
	cmd.AddCommand(c.newDoctorCmd())
	cmd.AddCommand(c.newEngineCmd())
	cmd.AddCommand(c.newScriptCmd())
	cmd.AddCommand(c.newConfigCmd())
	cmd.AddCommand(c.newVersionCmd())

	return cmd
}

const configOptionalKey = "dbinit/config-optional"

// configOptional marks commands that still work when the configuration file
// cannot be read; they fall back to the defaults.
var configOptional = map[string]string{configOptionalKey: "true"}

func (c *CLI) initConfig(cmd *cobra.Command) error {
	cfg, loadErr := config.Load(c.configPath)
	if loadErr != nil {
		if cmd.Annotations[configOptionalKey] != "true" {
			return loadErr
		}
		cfg = config.DefaultConfig()
	}
	c.cfg = cfg

	// Override with flags
	flags := cmd.Flags()
	if flags.Changed("driver") {
		c.cfg.Database.Driver = c.driver
	}
	if flags.Changed("data-dir") {
		c.cfg.Database.Dir = c.dataDir
	}
	if flags.Changed("db-file") {
		c.cfg.Database.File = c.dbFile
	}
	if flags.Changed("dsn") {
		c.cfg.Database.DSN = c.dsn
	}
	if flags.Changed("script") {
		c.cfg.Script.Path = c.script
	}
	if flags.Changed("bundled") {
		c.cfg.Script.Bundled = c.bundled
	}
	if flags.Changed("mode") {
		c.cfg.Exec.Mode = c.mode
	}

	switch {
	case c.debug:
		c.cfg.Logging.Level = "debug"
	case c.quiet:
		c.cfg.Logging.Level = "warn"
	}

	logger, err := observability.NewLogger(observability.Options{
		Level:  c.cfg.Logging.Level,
		Format: c.cfg.Logging.Format,
		Output: c.errOut,
	})
	if err != nil {
		return errors.NewInvalidConfig("logging", err.Error())
	}
	c.logger = logger

	if loadErr != nil {
		c.logger.Warn("configuration ignored, using defaults", zap.Error(loadErr))
	}
	return nil
}

// newInitializer builds an Initializer from the effective configuration.
func (c *CLI) newInitializer() (*initializer.Initializer, error) {
	return initializer.New(c.cfg, c.registry, c.logger)
}

// Helper functions for output

func (c *CLI) printf(format string, args ...interface{}) {
	if !c.quiet {
		fmt.Fprintf(c.out, format, args...)
	}
}

func (c *CLI) println(args ...interface{}) {
	if !c.quiet {
		fmt.Fprintln(c.out, args...)
	}
}

func (c *CLI) errorf(format string, args ...interface{}) {
	fmt.Fprintf(c.errOut, format, args...)
}

func (c *CLI) debugf(format string, args ...interface{}) {
	if c.debug {
		fmt.Fprintf(c.errOut, "[DEBUG] "+format, args...)
	}
}
