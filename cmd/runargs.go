package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmalette/rubymine-configurator/internal/idepath"
	"github.com/gmalette/rubymine-configurator/pkg/logger"
	"github.com/gmalette/rubymine-configurator/pkg/rubymine"
	"github.com/gmalette/rubymine-configurator/pkg/safeio"
)

var runArgsCmd = &cobra.Command{
	Use:   "run-args",
	Short: "Point the test runner's RUBY_ARGS at the project load paths",
	Long: `Overwrites the VALUE of the RUBY_ARGS element in the project's
.idea/workspace.xml with -I include arguments for the project's lib,
test, spec, and config directories. Only patches an existing element;
when none is present the file is left alone.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := newRunEnv(cmd)
		if err != nil {
			return err
		}
		return applyRunArgs(env)
	},
}

func applyRunArgs(env *runEnv) error {
	target := idepath.WorkspacePath(env.projectDir)

	old, err := safeio.ReadFileIfExists(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}
	if old == nil {
		logger.Warn("nothing updated: workspace file does not exist", logger.String("file", target))
		return nil
	}

	out, updated, err := rubymine.PatchRunArgs(old, rubymine.RunArgsFacts{WorkDir: env.projectDir})
	if err != nil {
		return fmt.Errorf("patching %s: %w", target, err)
	}
	if !updated {
		logger.Warn("nothing updated: no RUBY_ARGS element found", logger.String("file", target))
		return nil
	}

	logger.Info("updating RUBY_ARGS", logger.String("file", target))
	return env.writeResult(target, out)
}
