package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonica-labs/dbinit/internal/adapters"
	"github.com/canonica-labs/dbinit/internal/sqlscript"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	var showStatements bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a run would do",
		Long: `Load and analyze the SQL script without touching the database.

Shows:
  - engine and target
  - statement count per kind
  - the execution mode a run would use, and why`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(showStatements)
		},
	}

	cmd.Flags().BoolVar(&showStatements, "statements", false, "list every statement")

	return cmd
}

// PlanInfo represents a plan for JSON output.
type PlanInfo struct {
	Engine     string                `json:"engine"`
	Target     string                `json:"target"`
	Script     string                `json:"script"`
	Mode       string                `json:"mode"`
	Batch      bool                  `json:"batch"`
	Kinds      map[string]int        `json:"kinds"`
	Warnings   []string              `json:"warnings,omitempty"`
	Statements []sqlscript.Statement `json:"statements,omitempty"`
}

func (c *CLI) runPlan(showStatements bool) error {
	boot, err := c.newInitializer()
	if err != nil {
		return err
	}

	p, err := boot.Plan()
	if err != nil {
		return err
	}

	info := PlanInfo{
		Engine:   p.Engine.Name(),
		Target:   adapters.RedactDSN(p.Target),
		Script:   p.Script.Source,
		Mode:     p.Mode,
		Batch:    p.Batch,
		Kinds:    p.Script.Kinds(),
		Warnings: p.Warnings,
	}
	if showStatements {
		info.Statements = p.Script.Statements
	}

	if c.jsonOutput {
		return c.outputJSON(info)
	}

	c.printf("Engine:     %s\n", info.Engine)
	c.printf("Target:     %s\n", info.Target)
	c.printf("Script:     %s\n", info.Script)
	c.printf("Statements: %d\n", len(p.Script.Statements))

	kinds := make([]string, 0, len(info.Kinds))
	for k := range info.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		c.printf("  %-10s %d\n", k, info.Kinds[k])
	}

	execution := "one batch"
	if !info.Batch {
		execution = "one statement at a time"
	}
	c.printf("Mode:       %s (%s)\n", info.Mode, execution)
	for _, w := range info.Warnings {
		c.printf("  ! %s\n", w)
	}

	if showStatements && !c.quiet {
		c.println("")
		w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tKIND\tSTATEMENT")
		fmt.Fprintln(w, "-\t----\t---------")
		for _, st := range info.Statements {
			fmt.Fprintf(w, "%d\t%s\t%s\n", st.Index, st.Kind, firstLine(st.SQL))
		}
		w.Flush()
	}

	return nil
}

// firstLine shortens a statement for tabular display.
func firstLine(sql string) string {
	for i, r := range sql {
		if r == '\n' {
			return sql[:i] + " ..."
		}
	}
	return sql
}
