package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/canonica-labs/dbinit/internal/errors"
	"github.com/canonica-labs/dbinit/scripts"
)

func (c *CLI) newScriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Bundled script commands",
		Long:  `Work with the init_db.sql script built into dbinit.`,
	}

	cmd.AddCommand(c.newScriptExportCmd())
	cmd.AddCommand(c.newScriptShowCmd())

	return cmd
}

func (c *CLI) newScriptExportCmd() *cobra.Command {
	var (
		outputDir string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Annotations: configOptional,
		Short: "Write the bundled script to disk",
		Long: `Write the bundled init_db.sql into a directory so it can be edited and
passed back with --script. An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScriptExport(outputDir, force)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "output directory for the script")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func (c *CLI) runScriptExport(outputDir string, force bool) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.NewDirectoryFailed(outputDir, err)
	}

	path := filepath.Join(outputDir, scripts.InitDBName)
	if _, err := os.Stat(path); err == nil && !force {
		return errors.NewFileExists(path)
	}
	if err := os.WriteFile(path, []byte(scripts.InitDB), 0o644); err != nil {
		return errors.NewWriteFailed(path, err)
	}

	absPath, _ := filepath.Abs(path)
	if c.jsonOutput {
		return c.outputJSON(map[string]interface{}{
			"status": "created",
			"path":   absPath,
		})
	}

	c.printf("✓ Script written: %s\n", absPath)
	c.println("\nNext steps:")
	c.println("  1. Edit the script to match your schema")
	c.printf("  2. Run 'dbinit plan --script %s' to check it\n", path)
	c.printf("  3. Run 'dbinit --script %s' to apply it\n", path)
	return nil
}

func (c *CLI) newScriptShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Annotations: configOptional,
		Short: "Print the bundled script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(c.out, scripts.InitDB)
			return err
		},
	}
}
