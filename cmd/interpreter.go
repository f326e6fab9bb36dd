package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmalette/rubymine-configurator/internal/idepath"
	"github.com/gmalette/rubymine-configurator/internal/rubyenv"
	"github.com/gmalette/rubymine-configurator/pkg/logger"
	"github.com/gmalette/rubymine-configurator/pkg/rubymine"
	"github.com/gmalette/rubymine-configurator/pkg/safeio"
	"github.com/gmalette/rubymine-configurator/pkg/tools"
)

var interpreterCmd = &cobra.Command{
	Use:   "interpreter",
	Short: "Register the shadowenv Ruby interpreter in RubyMine",
	Long: `Detects the active Ruby runtime and upserts a shadowenv-wrapped
interpreter entry into RubyMine's jdk.table.xml. Re-running replaces the
entry for this project; interpreters for other projects are untouched.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := newRunEnv(cmd)
		if err != nil {
			return err
		}
		return applyInterpreter(cmd.Context(), env)
	},
}

func applyInterpreter(ctx context.Context, env *runEnv) error {
	facts, err := gatherInterpreterFacts(ctx, env)
	if err != nil {
		return err
	}

	configDir, err := idepath.ConfigDir(env.cfg.IDEDirPattern)
	if err != nil {
		return err
	}
	target := idepath.InterpreterTablePath(configDir)

	old, err := safeio.ReadFileIfExists(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}

	logger.Info("registering interpreter",
		logger.String("ruby", facts.RubyPath),
		logger.String("version", facts.RubyVersion),
		logger.String("file", target))

	out, err := rubymine.UpsertInterpreter(old, *facts)
	if err != nil {
		return fmt.Errorf("merging %s: %w", target, err)
	}
	if err := env.writeResult(target, out); err != nil {
		return err
	}
	if !env.dryRun {
		logger.Info("restart RubyMine to see the interpreter under Project Settings > Project Interpreter")
	}
	return nil
}

func gatherInterpreterFacts(ctx context.Context, env *runEnv) (*rubymine.InterpreterFacts, error) {
	runtime, err := rubyenv.Detect(ctx)
	if err != nil {
		return nil, err
	}

	shadowenv, err := tools.ResolveBinary("shadowenv", tools.ResolveOptions{
		Override:    env.cfg.Shadowenv.Path,
		EnvOverride: "RUBYMINE_CONFIGURATOR_SHADOWENV",
		AllowPath:   true,
		ExtraDirs:   tools.ShadowenvDirs(),
	})
	if err != nil {
		return nil, err
	}

	return &rubymine.InterpreterFacts{
		RubyVersion:   runtime.Version,
		RubyPath:      runtime.InterpreterPath,
		ShadowenvPath: shadowenv,
		WorkDir:       env.projectDir,
		Scope:         env.cfg.Scope,
		Date:          env.now.Format("2006-01-02"),
	}, nil
}
