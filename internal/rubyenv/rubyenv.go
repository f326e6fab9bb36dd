// Package rubyenv discovers the active Ruby runtime: the wrapper script
// on PATH, the real interpreter it ultimately execs, and the version
// string. Results feed the payload builders as plain facts.
package rubyenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/gmalette/rubymine-configurator/pkg/logger"
)

// Runtime describes the detected Ruby installation.
type Runtime struct {
	// WrapperPath is what PATH resolution found, often a version-manager
	// shim or shadowenv wrapper script.
	WrapperPath string
	// InterpreterPath is the real executable, recovered from the
	// wrapper's exec line when possible.
	InterpreterPath string
	Version         string
}

var (
	execQuotedRe = regexp.MustCompile(`exec\s+"([^"]+)"`)
	execBareRe   = regexp.MustCompile(`exec\s+(\S+)`)
)

// Detect resolves ruby on PATH and asks it for its version.
func Detect(ctx context.Context) (*Runtime, error) {
	wrapper, err := exec.LookPath("ruby")
	if err != nil {
		return nil, fmt.Errorf("could not find ruby in PATH: %w", err)
	}

	out, err := exec.CommandContext(ctx, "ruby", "-e", "puts RUBY_VERSION").Output()
	if err != nil {
		return nil, fmt.Errorf("could not determine ruby version: %w", err)
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return nil, fmt.Errorf("ruby reported an empty version")
	}

	interpreter := resolveInterpreterPath(wrapper)
	logger.Debug("detected ruby runtime",
		logger.String("wrapper", wrapper),
		logger.String("interpreter", interpreter),
		logger.String("version", version))

	return &Runtime{
		WrapperPath:     wrapper,
		InterpreterPath: interpreter,
		Version:         version,
	}, nil
}

// resolveInterpreterPath reads a wrapper script and extracts the target of
// its exec line. Binaries and unreadable files fall back to the wrapper
// path itself, which is still a usable interpreter path.
func resolveInterpreterPath(wrapperPath string) string {
	content, err := os.ReadFile(wrapperPath) // #nosec G304 -- path comes from PATH lookup
	if err != nil {
		return wrapperPath
	}

	if m := execQuotedRe.FindSubmatch(content); m != nil {
		return string(m[1])
	}
	if m := execBareRe.FindSubmatch(content); m != nil {
		return string(m[1])
	}
	return wrapperPath
}
