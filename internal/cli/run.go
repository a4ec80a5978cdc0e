package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Initialize the database",
		Long: `Create the data directory, open the database and execute the SQL script.

The script runs inside one transaction unless --mode autocommit is given, the
script contains its own BEGIN/COMMIT, or the engine commits schema changes
implicitly. On success the confirmation message is printed to stdout.

Examples:
  dbinit run
  dbinit run --data-dir var/db --db-file clinic.db --script schema.sql
  dbinit run --bundled
  dbinit run --driver postgres --dsn "postgres://app@localhost/clinic?sslmode=disable"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(cmd)
		},
	}
}

func (c *CLI) runInit(cmd *cobra.Command) error {
	boot, err := c.newInitializer()
	if err != nil {
		return err
	}

	res, err := boot.Run(cmd.Context())
	if err != nil {
		return err
	}

	if c.jsonOutput {
		return c.outputJSON(map[string]interface{}{
			"success": true,
			"message": c.cfg.Output.Message,
			"result":  res,
		})
	}

	c.debugf("run %s: %d statement(s) on %s %s in %s mode\n",
		res.RunID, res.Statements, res.Engine, res.Target, res.Mode)
	c.debugf("tables: %s\n", strings.Join(res.Tables, ", "))

	// The confirmation is the one line always printed, even with --quiet.
	fmt.Fprintln(c.out, c.cfg.Output.Message)
	return nil
}
