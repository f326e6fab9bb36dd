package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmalette/rubymine-configurator/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configurator's own settings file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file populated with the defaults",
	Long: `Write config.yaml with the default settings to the configurator's settings
directory. An existing file is left untouched. Values in the file are
overridden by RUBYMINE_CONFIGURATOR_* environment variables and flags.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.WriteDefault()
		if err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "settings file: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
