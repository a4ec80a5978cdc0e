package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Annotations: configOptional,
		Short: "Display version information",
		Long:  `Display dbinit version and build information.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVersion(short)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print a single line")

	return cmd
}

func (c *CLI) runVersion(short bool) error {
	if short && !c.jsonOutput {
		_, err := fmt.Fprintln(c.out, GetVersionString())
		return err
	}

	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Engines:   c.registry.Available(),
	}

	if c.jsonOutput {
		return c.outputJSON(info)
	}

	c.println("dbinit")
	c.printf("  Version:    %s\n", info.Version)
	c.printf("  Git Commit: %s\n", info.GitCommit)
	c.printf("  Build Date: %s\n", info.BuildDate)
	c.printf("  Go Version: %s\n", info.GoVersion)
	c.printf("  OS/Arch:    %s/%s\n", info.OS, info.Arch)
	c.printf("  Engines:    %v\n", info.Engines)

	return nil
}

// VersionInfo represents version information for JSON output.
type VersionInfo struct {
	Version   string   `json:"version"`
	GitCommit string   `json:"git_commit"`
	BuildDate string   `json:"build_date"`
	GoVersion string   `json:"go_version"`
	OS        string   `json:"os"`
	Arch      string   `json:"arch"`
	Engines   []string `json:"engines"`
}

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(version, commit, date string) {
	if version != "" {
		Version = version
	}
	if commit != "" {
		GitCommit = commit
	}
	if date != "" {
		BuildDate = date
	}
}

func init() {
	// Set default build info if not set by ldflags
	if GitCommit == "" || GitCommit == "unknown" {
		GitCommit = "dev"
	}
}

// GetVersionString returns a formatted version string.
func GetVersionString() string {
	return fmt.Sprintf("dbinit version %s (commit: %s, built: %s)",
		Version, GitCommit, BuildDate)
}
