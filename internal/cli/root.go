package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Called
// by the main package with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the taro CLI under ctx and returns an error if any command
// fails. The logger is attached to the command context so both commands
// and library code (via charmbracelet/log's FromContext) see the same one.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "taro",
		Short:        "taro builds and queries immutable binary routing models",
		Long:         `taro compiles road and transit networks into a single immutable binary model: a CSR graph with coordinates, an external-id index, landmark distance tables, and turn penalties.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			cmd.SetContext(charmlog.WithContext(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("taro %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newNearestCmd())

	return root.ExecuteContext(ctx)
}
