package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crewgen",
	Short: "Multi-agent code generation from a project brief",
	Long: `crewgen turns a one-line project brief into a plan, frontend code and
backend code. A coordinator model writes the plan, its "Frontend Tasks" and
"Backend Tasks" sections are handed to two specialist agents, and the results
are written to disk, including any file tree the backend agent annotated.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command; cancelling ctx aborts in-flight
// completion calls.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default ./crewgen.yaml if present)")
	pf.String("env-file", "", "env file loaded before the config (default ./.env if present)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.BoolP("verbose", "v", false, "debug logging with source locations")
}
