package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmalette/rubymine-configurator/internal/idepath"
	"github.com/gmalette/rubymine-configurator/pkg/config"
)

func TestResolveDataSourceFacts(t *testing.T) {
	env := testEnv(t, "/home/dev/src/billing", false)
	env.cfg.DataSource = config.DataSourceConfig{Host: "cfg-host", Port: "3306", User: "cfg-user"}

	t.Run("flags win", func(t *testing.T) {
		t.Setenv("DB_HOST", "env-host")
		facts := resolveDataSourceFacts(env, dbConn{host: "flag-host", user: "flag-user"})
		assert.Equal(t, "flag-host", facts.Host)
		assert.Equal(t, "flag-user", facts.User)
	})

	t.Run("environment beats config", func(t *testing.T) {
		t.Setenv("DB_HOST", "env-host")
		facts := resolveDataSourceFacts(env, dbConn{})
		assert.Equal(t, "env-host", facts.Host)
		assert.Equal(t, "cfg-user", facts.User)
	})

	t.Run("name defaults to project leaf", func(t *testing.T) {
		facts := resolveDataSourceFacts(env, dbConn{})
		assert.Equal(t, "billing", facts.Name)
	})
}

func TestApplyDataSourcesWritesPair(t *testing.T) {
	projectDir := t.TempDir()
	env := testEnv(t, projectDir, false)
	env.cfg.DataSource = config.DataSourceConfig{Host: "127.0.0.1", Port: "3306", User: "root"}

	require.NoError(t, applyDataSources(env, dbConn{}))

	mainData, err := os.ReadFile(idepath.DataSourcesPath(projectDir))
	require.NoError(t, err)
	localData, err := os.ReadFile(idepath.DataSourcesLocalPath(projectDir))
	require.NoError(t, err)

	assert.Contains(t, string(mainData), "DataSourceManagerImpl")
	assert.Contains(t, string(localData), "dataSourceStorageLocal")

	// Re-running keeps both files parseable and stable in shape.
	require.NoError(t, applyDataSources(env, dbConn{}))
	mainAgain, err := os.ReadFile(idepath.DataSourcesPath(projectDir))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(mainAgain), "<data-source"))
}
