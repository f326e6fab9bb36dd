package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/gmalette/rubymine-configurator/pkg/config"
	"github.com/gmalette/rubymine-configurator/pkg/logger"
	"github.com/gmalette/rubymine-configurator/pkg/safeio"
)

// runEnv carries everything a patch operation needs besides its own
// facts: loaded configuration, the resolved project directory, and the
// single timestamp shared by backups and generated names within one run.
type runEnv struct {
	cfg        *config.Config
	projectDir string
	dryRun     bool
	now        time.Time
	out        io.Writer

	// writeMu serializes writes and dry-run output when operations run
	// concurrently under apply.
	writeMu sync.Mutex
}

func newRunEnv(cmd *cobra.Command) (*runEnv, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	projectDir, _ := cmd.Flags().GetString("project-dir")
	if projectDir == "" {
		projectDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving current directory: %w", err)
		}
	} else {
		projectDir, err = safeio.CleanUserPath(projectDir)
		if err != nil {
			return nil, fmt.Errorf("resolving project directory: %w", err)
		}
	}
	projectDir, err = filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	return &runEnv{
		cfg:        cfg,
		projectDir: projectDir,
		dryRun:     dryRun,
		now:        time.Now(),
		out:        cmd.OutOrStdout(),
	}, nil
}

// writeResult persists one merged document, honoring dry-run and the
// backup contract: prior contents are snapshotted before any overwrite.
func (env *runEnv) writeResult(target string, out []byte) error {
	env.writeMu.Lock()
	defer env.writeMu.Unlock()

	if env.dryRun {
		fmt.Fprintf(env.out, "# %s\n%s", target, out)
		logger.Info("dry run, not writing", logger.String("file", target))
		return nil
	}

	if env.cfg.Backup {
		backup, err := safeio.WriteWithBackup(target, out, env.now)
		if err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		if backup != "" {
			logger.Info("backup created", logger.String("file", backup))
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		if err := safeio.WriteFilePreservePerms(target, out); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
	}

	logger.Info("configuration written", logger.String("file", target))
	return nil
}
