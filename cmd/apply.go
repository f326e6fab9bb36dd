package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply all configuration patches",
	Long: `Runs interpreter, run-args, and data-source in one go. The three
operations target disjoint files, so they run concurrently; the first
failure cancels the rest of the run.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := newRunEnv(cmd)
		if err != nil {
			return err
		}
		conn := dataSourceFlags(cmd)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error { return applyInterpreter(ctx, env) })
		g.Go(func() error { return applyRunArgs(env) })
		g.Go(func() error { return applyDataSources(env, conn) })
		return g.Wait()
	},
}

func init() {
	registerDataSourceFlags(applyCmd)
}
