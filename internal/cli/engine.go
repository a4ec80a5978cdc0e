package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonica-labs/dbinit/internal/adapters"
)

func (c *CLI) newEngineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engine",
		Short: "Engine inspection commands",
		Long:  `Inspect the database engines dbinit can bootstrap.`,
	}

	cmd.AddCommand(c.newEngineListCmd())
	cmd.AddCommand(c.newEngineDescribeCmd())

	return cmd
}

func (c *CLI) newEngineListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Annotations: configOptional,
		Short: "List available engines",
		Long: `List all registered engines and how they run scripts.

Shows:
  - engine name
  - target kind (file or DSN)
  - transactional DDL support
  - multi-statement support`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEngineList()
		},
	}
}

func (c *CLI) runEngineList() error {
	names := c.registry.Available()
	engines := make([]EngineInfo, 0, len(names))
	for _, name := range names {
		engine, _ := c.registry.Get(name)
		engines = append(engines, c.engineInfo(engine))
	}

	if c.jsonOutput {
		return c.outputJSON(map[string]interface{}{
			"engines": engines,
		})
	}
	if c.quiet {
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTARGET\tTX DDL\tMULTI-STATEMENT\tDEFAULT")
	fmt.Fprintln(w, "----\t------\t------\t---------------\t-------")

	for _, eng := range engines {
		def := ""
		if eng.Default {
			def = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			eng.Name,
			eng.Target,
			yesNo(eng.TransactionalDDL),
			yesNo(eng.MultiStatement),
			def,
		)
	}
	w.Flush()

	return nil
}

func (c *CLI) newEngineDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <engine_name>",
		Annotations: configOptional,
		Short: "Describe a specific engine",
		Long:  `Display how a specific engine is opened and how scripts run on it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEngineDescribe(args[0])
		},
	}
}

func (c *CLI) runEngineDescribe(engineName string) error {
	engine, err := c.registry.Lookup(engineName)
	if err != nil {
		return err
	}

	info := c.engineInfo(engine)
	if c.jsonOutput {
		return c.outputJSON(info)
	}

	c.printf("Engine: %s\n", info.Name)
	c.println("========" + strings.Repeat("=", len(info.Name)))
	c.println("")
	c.printf("Target:            %s\n", info.Target)
	c.printf("Transactional DDL: %s\n", yesNo(info.TransactionalDDL))
	c.printf("Multi-statement:   %s\n", yesNo(info.MultiStatement))
	c.println("")

	switch {
	case info.FileBased:
		c.printf("Configuration: database.dir + database.file (currently %s)\n", c.cfg.DatabasePath())
	default:
		c.println("Configuration: database.dsn (or --dsn)")
	}
	c.printf("Scripts run: %s\n", describeCapabilities(engine))

	return nil
}

// EngineInfo represents engine information for JSON output.
type EngineInfo struct {
	Name             string `json:"name"`
	Target           string `json:"target"`
	FileBased        bool   `json:"file_based"`
	TransactionalDDL bool   `json:"transactional_ddl"`
	MultiStatement   bool   `json:"multi_statement"`
	Default          bool   `json:"default"`
}

func (c *CLI) engineInfo(engine adapters.EngineAdapter) EngineInfo {
	target := "dsn"
	if engine.FileBased() {
		target = "file"
	}
	return EngineInfo{
		Name:             engine.Name(),
		Target:           target,
		FileBased:        engine.FileBased(),
		TransactionalDDL: engine.TransactionalDDL(),
		MultiStatement:   engine.MultiStatement(),
		Default:          c.cfg != nil && c.cfg.Database.Driver == engine.Name(),
	}
}

func describeCapabilities(engine adapters.EngineAdapter) string {
	tx := "in one transaction"
	if !engine.TransactionalDDL() {
		tx = "in autocommit mode"
	}
	batch := "as one batch"
	if !engine.MultiStatement() {
		batch = "statement by statement"
	}
	return batch + ", " + tx
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
