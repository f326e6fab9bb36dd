// Package idepath locates RubyMine's configuration files across the
// platform layouts JetBrains has used over the years. Discovery only ever
// returns paths; reading and writing them is the caller's business.
package idepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gmalette/rubymine-configurator/pkg/logger"
)

// ErrNotFound indicates no RubyMine configuration root exists for this user.
var ErrNotFound = errors.New("no RubyMine configuration directory found")

// ConfigDir finds the active RubyMine configuration root. pattern matches
// the versioned product directory name, e.g. "RubyMine*".
//
// Search order mirrors where each platform keeps JetBrains configuration:
// macOS prefers ~/Library/Application Support/JetBrains (most recently
// modified install wins) and falls back to the pre-2020
// ~/Library/Preferences layout; Linux honors XDG_CONFIG_HOME and falls
// back to legacy dot-directories in the home directory; Windows uses
// %APPDATA%\JetBrains.
func ConfigDir(pattern string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		if dir, ok := newestByModTime(filepath.Join(home, "Library", "Application Support", "JetBrains"), pattern); ok {
			return dir, nil
		}
		if dir, ok := newestByName(filepath.Join(home, "Library", "Preferences"), pattern); ok {
			return dir, nil
		}
	case "windows":
		appdata := os.Getenv("APPDATA")
		if appdata == "" {
			return "", errors.New("APPDATA environment variable not found")
		}
		if dir, ok := newestByName(filepath.Join(appdata, "JetBrains"), pattern); ok {
			return dir, nil
		}
	default:
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			configHome = filepath.Join(home, ".config")
		}
		if dir, ok := newestByName(filepath.Join(configHome, "JetBrains"), pattern); ok {
			return dir, nil
		}
		// Legacy layout: dot-prefixed version dirs straight in $HOME
		if dir, ok := newestByName(home, "."+pattern); ok {
			return dir, nil
		}
	}

	return "", ErrNotFound
}

// newestByName returns the lexically greatest directory matching pattern,
// which for JetBrains version-suffixed names is the newest release.
func newestByName(parent, pattern string) (string, bool) {
	matches := matchingDirs(parent, pattern)
	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return filepath.Join(parent, matches[len(matches)-1]), true
}

// newestByModTime returns the most recently modified directory matching
// pattern. Modification time beats name ordering here: the directory the
// running IDE touches last is the one in use.
func newestByModTime(parent, pattern string) (string, bool) {
	matches := matchingDirs(parent, pattern)
	if len(matches) == 0 {
		return "", false
	}

	best := ""
	var bestTime int64 = -1
	for _, name := range matches {
		full := filepath.Join(parent, name)
		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); mod > bestTime {
			best, bestTime = full, mod
		}
	}
	return best, best != ""
}

func matchingDirs(parent, pattern string) []string {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil
	}
	var matches []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ok, err := doublestar.Match(pattern, entry.Name())
		if err != nil {
			logger.Debug("bad ide dir pattern", logger.String("pattern", pattern), logger.Err(err))
			return nil
		}
		if ok {
			matches = append(matches, entry.Name())
		}
	}
	return matches
}

// OptionsDir is where RubyMine keeps IDE-level option files such as the
// interpreter table.
func OptionsDir(configDir string) string {
	return filepath.Join(configDir, "options")
}

// InterpreterTablePath returns the IDE-level jdk.table.xml path.
func InterpreterTablePath(configDir string) string {
	return filepath.Join(OptionsDir(configDir), "jdk.table.xml")
}

// ProjectIdeaDir is the per-project .idea directory.
func ProjectIdeaDir(projectDir string) string {
	return filepath.Join(projectDir, ".idea")
}

// WorkspacePath returns the per-project workspace.xml path.
func WorkspacePath(projectDir string) string {
	return filepath.Join(ProjectIdeaDir(projectDir), "workspace.xml")
}

// DataSourcesPath returns the per-project dataSources.xml path.
func DataSourcesPath(projectDir string) string {
	return filepath.Join(ProjectIdeaDir(projectDir), "dataSources.xml")
}

// DataSourcesLocalPath returns the per-project dataSources.local.xml path.
func DataSourcesLocalPath(projectDir string) string {
	return filepath.Join(ProjectIdeaDir(projectDir), "dataSources.local.xml")
}
