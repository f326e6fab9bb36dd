package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmalette/rubymine-configurator/internal/idepath"
	"github.com/gmalette/rubymine-configurator/internal/rubyenv"
	"github.com/gmalette/rubymine-configurator/pkg/tools"
)

// EnvData represents the detected environment, as shown to the operator.
type EnvData struct {
	ProjectDir      string   `json:"projectDir"`
	RubyWrapper     string   `json:"rubyWrapper,omitempty"`
	RubyInterpreter string   `json:"rubyInterpreter,omitempty"`
	RubyVersion     string   `json:"rubyVersion,omitempty"`
	ShadowenvPath   string   `json:"shadowenvPath,omitempty"`
	IDEConfigDir    string   `json:"ideConfigDir,omitempty"`
	InterpreterFile string   `json:"interpreterFile,omitempty"`
	WorkspaceFile   string   `json:"workspaceFile"`
	DataSourcesFile string   `json:"dataSourcesFile"`
	Errors          []string `json:"errors,omitempty"`
}

var envinfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Show detected ruby, shadowenv, and RubyMine paths",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := newRunEnv(cmd)
		if err != nil {
			return err
		}

		data := EnvData{
			ProjectDir:      env.projectDir,
			WorkspaceFile:   idepath.WorkspacePath(env.projectDir),
			DataSourcesFile: idepath.DataSourcesPath(env.projectDir),
		}

		if runtime, err := rubyenv.Detect(cmd.Context()); err == nil {
			data.RubyWrapper = runtime.WrapperPath
			data.RubyInterpreter = runtime.InterpreterPath
			data.RubyVersion = runtime.Version
		} else {
			data.Errors = append(data.Errors, err.Error())
		}

		if path, err := tools.ResolveBinary("shadowenv", tools.ResolveOptions{
			Override:    env.cfg.Shadowenv.Path,
			EnvOverride: "RUBYMINE_CONFIGURATOR_SHADOWENV",
			AllowPath:   true,
			ExtraDirs:   tools.ShadowenvDirs(),
		}); err == nil {
			data.ShadowenvPath = path
		} else {
			data.Errors = append(data.Errors, err.Error())
		}

		if configDir, err := idepath.ConfigDir(env.cfg.IDEDirPattern); err == nil {
			data.IDEConfigDir = configDir
			data.InterpreterFile = idepath.InterpreterTablePath(configDir)
		} else {
			data.Errors = append(data.Errors, err.Error())
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			out, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Project directory:  %s\n", data.ProjectDir)
		fmt.Fprintf(w, "Ruby wrapper:       %s\n", orUnknown(data.RubyWrapper))
		fmt.Fprintf(w, "Ruby interpreter:   %s\n", orUnknown(data.RubyInterpreter))
		fmt.Fprintf(w, "Ruby version:       %s\n", orUnknown(data.RubyVersion))
		fmt.Fprintf(w, "Shadowenv:          %s\n", orUnknown(data.ShadowenvPath))
		fmt.Fprintf(w, "IDE config dir:     %s\n", orUnknown(data.IDEConfigDir))
		fmt.Fprintf(w, "Interpreter table:  %s\n", orUnknown(data.InterpreterFile))
		fmt.Fprintf(w, "Workspace file:     %s\n", data.WorkspaceFile)
		fmt.Fprintf(w, "Data sources file:  %s\n", data.DataSourcesFile)
		for _, e := range data.Errors {
			fmt.Fprintf(w, "Warning: %s\n", e)
		}
		return nil
	},
}

func orUnknown(s string) string {
	if s == "" {
		return "(not found)"
	}
	return s
}
