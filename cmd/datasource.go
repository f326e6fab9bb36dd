package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gmalette/rubymine-configurator/internal/idepath"
	"github.com/gmalette/rubymine-configurator/pkg/logger"
	"github.com/gmalette/rubymine-configurator/pkg/rubymine"
	"github.com/gmalette/rubymine-configurator/pkg/safeio"
)

var dataSourceCmd = &cobra.Command{
	Use:   "data-source",
	Short: "Declare the project database as a RubyMine data source",
	Long: `Upserts a MySQL data-source descriptor into the project's
.idea/dataSources.xml and its introspection scope into
.idea/dataSources.local.xml. Both halves share one uuid, which is kept
stable across re-runs. Connection details come from flags, then
DB_HOST/DB_PORT/DB_USER environment variables, then the config file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := newRunEnv(cmd)
		if err != nil {
			return err
		}
		return applyDataSources(env, dataSourceFlags(cmd))
	},
}

// dbConn is the flag-supplied slice of connection facts; empty fields fall
// back to environment, then configuration defaults.
type dbConn struct {
	host, port, user, name string
}

func registerDataSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("db-host", "", "Database host (default: $DB_HOST, then config)")
	cmd.Flags().String("db-port", "", "Database port (default: $DB_PORT, then config)")
	cmd.Flags().String("db-user", "", "Database user (default: $DB_USER, then config)")
	cmd.Flags().String("db-name", "", "Data source display name (default: project directory name)")
}

func dataSourceFlags(cmd *cobra.Command) dbConn {
	host, _ := cmd.Flags().GetString("db-host")
	port, _ := cmd.Flags().GetString("db-port")
	user, _ := cmd.Flags().GetString("db-user")
	name, _ := cmd.Flags().GetString("db-name")
	return dbConn{host: host, port: port, user: user, name: name}
}

func applyDataSources(env *runEnv, conn dbConn) error {
	facts := resolveDataSourceFacts(env, conn)

	mainPath := idepath.DataSourcesPath(env.projectDir)
	localPath := idepath.DataSourcesLocalPath(env.projectDir)

	oldMain, err := safeio.ReadFileIfExists(mainPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", mainPath, err)
	}
	oldLocal, err := safeio.ReadFileIfExists(localPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", localPath, err)
	}

	pair, err := rubymine.UpsertDataSources(oldMain, oldLocal, facts)
	if err != nil {
		return err
	}

	logger.Info("declaring data source",
		logger.String("name", facts.Name),
		logger.String("uuid", pair.UUID))

	if err := env.writeResult(mainPath, pair.Main); err != nil {
		return err
	}
	return env.writeResult(localPath, pair.Local)
}

func resolveDataSourceFacts(env *runEnv, conn dbConn) rubymine.DataSourceFacts {
	pick := func(flag, envVar, fallback string) string {
		if flag != "" {
			return flag
		}
		if v := os.Getenv(envVar); v != "" {
			return v
		}
		return fallback
	}

	name := conn.name
	if name == "" {
		name = filepath.Base(env.projectDir)
	}

	return rubymine.DataSourceFacts{
		Name: name,
		Host: pick(conn.host, "DB_HOST", env.cfg.DataSource.Host),
		Port: pick(conn.port, "DB_PORT", env.cfg.DataSource.Port),
		User: pick(conn.user, "DB_USER", env.cfg.DataSource.User),
	}
}

func init() {
	registerDataSourceFlags(dataSourceCmd)
}
