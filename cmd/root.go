package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/gmalette/rubymine-configurator/internal/idepath"
	"github.com/gmalette/rubymine-configurator/pkg/buildinfo"
	"github.com/gmalette/rubymine-configurator/pkg/exitcode"
	"github.com/gmalette/rubymine-configurator/pkg/logger"
	"github.com/gmalette/rubymine-configurator/pkg/rubymine"
	"github.com/gmalette/rubymine-configurator/pkg/tools"
	"github.com/gmalette/rubymine-configurator/pkg/xmlpatch"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rubymine-configurator",
		Short: "Configure RubyMine to run Ruby through shadowenv",
		Long: `rubymine-configurator patches RubyMine's XML configuration files in
place: it registers a shadowenv-wrapped interpreter, points the test
runner's RUBY_ARGS at the project's load paths, and declares the
project database as an IDE data source. Existing configuration the
tool did not generate is preserved untouched, and prior file contents
are backed up before every write.

Examples:
   rubymine-configurator interpreter    # Register the shadowenv interpreter
   rubymine-configurator apply          # Apply all configuration patches
   rubymine-configurator envinfo        # Show detected ruby/shadowenv/IDE paths
   rubymine-configurator --dry-run interpreter  # Print the result, write nothing`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("dry-run", false, "Print the resulting configuration to stdout instead of writing")
	cmd.PersistentFlags().String("project-dir", "", "Project directory (default: current directory)")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("rubymine-configurator {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(interpreterCmd)
	cmd.AddCommand(runArgsCmd)
	cmd.AddCommand(dataSourceCmd)
	cmd.AddCommand(applyCmd)
	cmd.AddCommand(envinfoCmd)
	cmd.AddCommand(configCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	switch {
	case xmlpatch.IsMalformed(err):
		return exitcode.MalformedError
	case errors.Is(err, rubymine.ErrMissingFact):
		return exitcode.ConfigError
	case errors.Is(err, idepath.ErrNotFound):
		return exitcode.FileSystemError
	case errors.Is(err, tools.ErrNotFound):
		return exitcode.ToolNotFound
	default:
		return exitcode.GeneralError
	}
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	logger.Initialize(logger.Config{
		Level:    logger.ParseLevel(logLevelStr),
		UseColor: !noColor,
		JSON:     jsonLogs,
		DryRun:   dryRun,
	})
}
