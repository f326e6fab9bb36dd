// Package config loads the configurator's optional settings file. Every
// value has a working default; the file and environment only override.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the configurator
type Config struct {
	// IDEDirPattern matches versioned RubyMine directories under the
	// JetBrains configuration root, e.g. "RubyMine2024.1".
	IDEDirPattern string           `mapstructure:"ide_dir_pattern" yaml:"ide_dir_pattern"`
	Scope         string           `mapstructure:"scope" yaml:"scope"`
	Backup        bool             `mapstructure:"backup" yaml:"backup"`
	Shadowenv     ShadowenvConfig  `mapstructure:"shadowenv" yaml:"shadowenv"`
	DataSource    DataSourceConfig `mapstructure:"data_source" yaml:"data_source"`
}

// ShadowenvConfig holds shadowenv resolution options
type ShadowenvConfig struct {
	// Path pins the shadowenv executable, bypassing PATH discovery.
	Path string `mapstructure:"path" yaml:"path"`
}

// DataSourceConfig holds database connection defaults. Flags and
// environment variables resolved by the commands take precedence.
type DataSourceConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
	User string `mapstructure:"user" yaml:"user"`
}

var defaultConfig = Config{
	IDEDirPattern: "RubyMine*",
	Scope:         "shadowenv",
	Backup:        true,
	DataSource: DataSourceConfig{
		Host: "127.0.0.1",
		Port: "3306",
		User: "root",
	},
}

// LoadConfig loads configuration from defaults, the optional config file,
// and RUBYMINE_CONFIGURATOR_* environment variables, in that order.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("ide_dir_pattern", defaultConfig.IDEDirPattern)
	v.SetDefault("scope", defaultConfig.Scope)
	v.SetDefault("backup", defaultConfig.Backup)
	v.SetDefault("shadowenv.path", defaultConfig.Shadowenv.Path)
	v.SetDefault("data_source.host", defaultConfig.DataSource.Host)
	v.SetDefault("data_source.port", defaultConfig.DataSource.Port)
	v.SetDefault("data_source.user", defaultConfig.DataSource.User)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := ConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("RUBYMINE_CONFIGURATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is optional, but when one exists it must parse:
	// a typo'd file silently falling back to defaults is a debugging trap.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	return &config, nil
}

// ConfigDir returns the configurator's own settings directory
// (~/.config/rubymine-configurator on most systems).
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "rubymine-configurator"), nil
}

// WriteDefault writes the default configuration to the settings directory
// unless a config file already exists. Returns the file path.
func WriteDefault() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(defaultConfig)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
