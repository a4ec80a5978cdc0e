package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List the tables of the configured database",
		Long: `Open the configured database and list its tables.

A missing database file is reported, not created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			boot, err := c.newInitializer()
			if err != nil {
				return err
			}

			got, err := boot.Inspect(cmd.Context())
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return c.outputJSON(got)
			}

			c.printf("%s database: %s\n", got.Engine, got.Target)
			if len(got.Tables) == 0 {
				c.println("No tables.")
				return nil
			}
			c.printf("Tables (%d):\n", len(got.Tables))
			for _, t := range got.Tables {
				c.printf("  • %s\n", t)
			}
			return nil
		},
	}
}
