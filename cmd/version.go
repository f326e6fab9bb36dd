package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gmalette/rubymine-configurator/pkg/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		extended, _ := cmd.Flags().GetBool("extended")
		fmt.Fprintf(cmd.OutOrStdout(), "rubymine-configurator %s\n", buildinfo.BinaryVersion)
		if extended {
			if mv := buildinfo.ModuleVersion(); mv != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "module:     %s\n", mv)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "go:         %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show extended build information")
}
