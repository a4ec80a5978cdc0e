package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostics",
		Long: `Check that a run can succeed, without changing anything.

Checks:
  - configuration
  - engine registration
  - script readability
  - data directory
  - existing database contents`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDoctor(cmd.Context())
		},
	}
}

func (c *CLI) runDoctor(ctx context.Context) error {
	checks := []DiagnosticCheck{
		c.checkConfig(),
		c.checkEngine(),
		c.checkScript(),
		c.checkDataDir(),
		c.checkDatabase(ctx),
	}

	allPassed := true
	for _, check := range checks {
		if !check.Passed {
			allPassed = false
		}
	}

	if c.jsonOutput {
		return c.outputJSON(map[string]interface{}{
			"checks":     checks,
			"all_passed": allPassed,
		})
	}

	c.println("dbinit Diagnostics")
	c.println("==================")
	c.println("")
	for _, check := range checks {
		c.printCheck(check)
	}
	c.println("")

	if allPassed {
		c.println("✓ All checks passed")
	} else {
		c.println("✗ Some checks failed - see above for details")
	}

	return nil
}

// DiagnosticCheck represents a single diagnostic check result.
type DiagnosticCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (c *CLI) printCheck(check DiagnosticCheck) {
	status := "✗"
	if check.Passed {
		status = "✓"
	}
	c.printf("%s %s: %s\n", status, check.Name, check.Message)
	if check.Details != "" && !check.Passed {
		c.printf("  → %s\n", check.Details)
	}
}

func (c *CLI) checkConfig() DiagnosticCheck {
	check := DiagnosticCheck{Name: "Configuration"}

	if err := c.cfg.Validate(); err != nil {
		check.Message = "Invalid configuration"
		check.Details = oneLine(err)
		return check
	}

	check.Passed = true
	source := c.configPath
	if source == "" {
		source = "defaults, dbinit.yaml search path and DBINIT_* environment"
	}
	check.Message = fmt.Sprintf("Loaded (%s)", source)
	return check
}

func (c *CLI) checkEngine() DiagnosticCheck {
	check := DiagnosticCheck{Name: "Engine"}

	engine, err := c.registry.Lookup(c.cfg.Database.Driver)
	if err != nil {
		check.Message = fmt.Sprintf("Unknown driver %q", c.cfg.Database.Driver)
		check.Details = fmt.Sprintf("Registered drivers: %s", strings.Join(c.registry.Available(), ", "))
		return check
	}

	check.Passed = true
	check.Message = fmt.Sprintf("%s (%s)", engine.Name(), describeCapabilities(engine))
	return check
}

func (c *CLI) checkScript() DiagnosticCheck {
	check := DiagnosticCheck{Name: "SQL Script"}

	boot, err := c.newInitializer()
	if err != nil {
		check.Message = "Skipped"
		check.Details = oneLine(err)
		return check
	}

	p, err := boot.Plan()
	if err != nil {
		check.Message = "Not usable"
		check.Details = oneLine(err)
		return check
	}

	check.Passed = true
	check.Message = fmt.Sprintf("%s: %d statement(s), %s mode", p.Script.Source, len(p.Script.Statements), p.Mode)
	return check
}

func (c *CLI) checkDataDir() DiagnosticCheck {
	check := DiagnosticCheck{Name: "Data Directory"}

	engine, err := c.registry.Lookup(c.cfg.Database.Driver)
	if err != nil {
		check.Message = "Skipped"
		check.Details = "engine is not registered"
		return check
	}
	if !engine.FileBased() {
		check.Passed = true
		check.Message = fmt.Sprintf("Not used by %s", engine.Name())
		return check
	}

	dir := c.cfg.Database.Dir
	if dir == "" {
		dir = "."
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		check.Passed = true
		check.Message = fmt.Sprintf("%s does not exist yet and will be created", dir)
		return check
	case err != nil:
		check.Message = fmt.Sprintf("Cannot stat %s", dir)
		check.Details = err.Error()
		return check
	case !info.IsDir():
		check.Message = fmt.Sprintf("%s is not a directory", dir)
		check.Details = "Set database.dir or --data-dir to a directory path"
		return check
	}

	probe, err := os.CreateTemp(dir, ".dbinit-doctor-*")
	if err != nil {
		check.Message = fmt.Sprintf("%s is not writable", dir)
		check.Details = err.Error()
		return check
	}
	probe.Close()
	os.Remove(probe.Name())

	abs, _ := filepath.Abs(dir)
	check.Passed = true
	check.Message = fmt.Sprintf("%s is writable", abs)
	return check
}

// checkDatabase reports what an existing database holds. A database that does
// not exist yet is not a failure.
func (c *CLI) checkDatabase(ctx context.Context) DiagnosticCheck {
	check := DiagnosticCheck{Name: "Database"}

	engine, err := c.registry.Lookup(c.cfg.Database.Driver)
	if err != nil {
		check.Message = "Skipped"
		check.Details = "engine is not registered"
		return check
	}
	if engine.FileBased() {
		if _, err := os.Stat(c.cfg.DatabasePath()); os.IsNotExist(err) {
			check.Passed = true
			check.Message = fmt.Sprintf("%s does not exist yet and will be created", c.cfg.DatabasePath())
			return check
		}
	}

	boot, err := c.newInitializer()
	if err != nil {
		check.Message = "Skipped"
		check.Details = oneLine(err)
		return check
	}

	got, err := boot.Inspect(ctx)
	if err != nil {
		check.Message = "Cannot open database"
		check.Details = oneLine(err)
		return check
	}

	check.Passed = true
	check.Message = fmt.Sprintf("%s holds %d table(s)", got.Target, len(got.Tables))
	return check
}

// oneLine flattens a multi-line error for a single diagnostic line.
func oneLine(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
