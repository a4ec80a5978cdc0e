package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/canonica-labs/dbinit/internal/adapters"
	"github.com/canonica-labs/dbinit/internal/config"
	"github.com/canonica-labs/dbinit/scripts"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long: `Manage dbinit configuration.

Commands:
  init     - Generate example configuration
  validate - Validate the effective configuration
  show     - Print the effective configuration`,
	}

	cmd.AddCommand(c.newConfigInitCmd())
	cmd.AddCommand(c.newConfigValidateCmd())
	cmd.AddCommand(c.newConfigShowCmd())

	return cmd
}

func (c *CLI) newConfigInitCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "init",
		Annotations: configOptional,
		Short: "Generate example configuration",
		Long: `Generate an example dbinit.yaml holding every setting with its default.
This command does not touch any database; it only creates a template file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfigInit(outputDir)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "output directory for configuration file")

	return cmd
}

func (c *CLI) runConfigInit(outputDir string) error {
	configPath, err := config.WriteExample(outputDir)
	if err != nil {
		return err
	}

	absPath, _ := filepath.Abs(configPath)
	if c.jsonOutput {
		return c.outputJSON(map[string]interface{}{
			"status": "created",
			"path":   absPath,
		})
	}

	c.printf("✓ Configuration file created: %s\n", absPath)
	c.println("\nNext steps:")
	c.println("  1. Edit the configuration file to match your environment")
	c.println("  2. Run 'dbinit config validate' to check configuration")
	c.println("  3. Run 'dbinit' to initialize the database")
	return nil
}

func (c *CLI) newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long: `Validate the effective configuration (file, environment and flags) and
check that the configured engine is registered. Nothing is modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfigValidate()
		},
	}
}

func (c *CLI) runConfigValidate() error {
	c.debugf("Validating configuration\n")

	if err := c.cfg.Validate(); err != nil {
		return err
	}
	if _, err := c.registry.Lookup(c.cfg.Database.Driver); err != nil {
		return err
	}

	if c.jsonOutput {
		return c.outputJSON(map[string]interface{}{
			"status": "valid",
			"driver": c.cfg.Database.Driver,
			"mode":   c.cfg.Exec.Mode,
		})
	}

	c.println("✓ Configuration is valid")
	c.println("\nConfiguration summary:")
	c.printf("  Driver: %s\n", c.cfg.Database.Driver)
	c.printf("  Target: %s\n", c.target())
	c.printf("  Script: %s\n", c.scriptSource())
	c.printf("  Mode:   %s\n", c.cfg.Exec.Mode)
	return nil
}

func (c *CLI) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  `Print the configuration after defaults, file, environment and flags are applied. Credentials in the DSN are masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *c.cfg
			shown.Database.DSN = adapters.RedactDSN(shown.Database.DSN)

			if c.jsonOutput {
				return c.outputJSON(shown)
			}
			data, err := yaml.Marshal(&shown)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = c.out.Write(data)
			return err
		},
	}
}

func (c *CLI) target() string {
	if engine, ok := c.registry.Get(c.cfg.Database.Driver); ok && !engine.FileBased() {
		return adapters.RedactDSN(c.cfg.Database.DSN)
	}
	return c.cfg.DatabasePath()
}

func (c *CLI) scriptSource() string {
	if c.cfg.Script.Bundled {
		return "bundled " + scripts.InitDBName
	}
	return c.cfg.Script.Path
}
