// Package tools resolves auxiliary executables the configurator shells
// out to or embeds in generated configuration.
package tools

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gmalette/rubymine-configurator/pkg/logger"
)

// ErrNotFound reports that no candidate location yielded the tool.
var ErrNotFound = errors.New("tool not found")

// ResolveOptions configures how binary resolution works
type ResolveOptions struct {
	// Override pins the binary path outright (from config or a flag);
	// resolution fails if it does not exist.
	Override string
	// EnvOverride names an environment variable checked for an explicit
	// override, e.g. "RUBYMINE_CONFIGURATOR_SHADOWENV".
	EnvOverride string
	// ExtraDirs are well-known install locations probed after PATH.
	ExtraDirs []string
	// AllowPath determines whether PATH lookup is attempted.
	AllowPath bool
}

// ResolveBinary finds the path to a tool binary following the resolution order:
// 1. Explicit override (config/flag)
// 2. Environment variable override (if specified)
// 3. PATH lookup (if AllowPath is true)
// 4. Well-known install locations
//
// Returns the full path to the binary and any error encountered.
func ResolveBinary(toolName string, opts ResolveOptions) (string, error) {
	logger.Debug("starting binary resolution",
		logger.String("tool", toolName),
		logger.String("env_override", opts.EnvOverride),
		logger.Bool("allow_path", opts.AllowPath))

	if opts.Override != "" {
		if _, err := os.Stat(opts.Override); err == nil {
			logger.Debug("resolution successful: explicit override", logger.String("path", opts.Override))
			return opts.Override, nil
		}
		return "", fmt.Errorf("configured %s path %s does not exist", toolName, opts.Override)
	}

	if opts.EnvOverride != "" {
		if overridePath := os.Getenv(opts.EnvOverride); overridePath != "" {
			if _, err := os.Stat(overridePath); err == nil {
				logger.Debug("resolution successful: env override", logger.String("path", overridePath))
				return overridePath, nil
			}
			logger.Debug("env override path invalid", logger.String("path", overridePath))
		}
	}

	if opts.AllowPath {
		if pathBinary, err := exec.LookPath(toolName); err == nil {
			logger.Debug("resolution successful: PATH lookup", logger.String("path", pathBinary))
			return pathBinary, nil
		}
		logger.Debug("PATH lookup failed", logger.String("tool", toolName))
	}

	binaryName := toolName
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	for _, dir := range opts.ExtraDirs {
		candidate := filepath.Join(dir, binaryName)
		if _, err := os.Stat(candidate); err == nil {
			logger.Debug("resolution successful: well-known location", logger.String("path", candidate))
			return candidate, nil
		}
	}

	var suggestions []string
	if opts.EnvOverride != "" {
		suggestions = append(suggestions, fmt.Sprintf("set %s=/path/to/%s", opts.EnvOverride, toolName))
	}
	if opts.AllowPath {
		suggestions = append(suggestions, fmt.Sprintf("install %s and ensure it's in your PATH", toolName))
	}
	return "", fmt.Errorf("%w: %s: %s", ErrNotFound, toolName, strings.Join(suggestions, " or "))
}

// ShadowenvDirs are the install locations probed when shadowenv is not on
// PATH.
func ShadowenvDirs() []string {
	dirs := []string{"/usr/local/bin", "/opt/dev/bin"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".local", "bin"),
			filepath.Join(home, ".dev", "userprofile", "bin"),
		)
	}
	return dirs
}
