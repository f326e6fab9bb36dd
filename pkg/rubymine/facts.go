// Package rubymine builds the RubyMine configuration payloads: the
// shadowenv interpreter descriptor, the RUBY_ARGS run-argument patch, and
// the project data-source pair. Each shape feeds the xmlpatch engine with
// a container spec, an identity predicate, and a freshly built subtree.
//
// Facts are gathered by the caller (process execution, environment,
// flags); nothing in this package reads the process environment, which
// keeps every transform deterministic under test.
package rubymine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingFact indicates a fact required by the chosen payload shape was
// not supplied. The invocation aborts; no partial output is produced.
var ErrMissingFact = errors.New("missing required fact")

// InterpreterFacts feeds the interpreter-descriptor shape.
type InterpreterFacts struct {
	// RubyVersion is the runtime version string, e.g. "3.2.0".
	RubyVersion string
	// RubyPath is the resolved real interpreter executable, not the
	// wrapper script.
	RubyPath string
	// ShadowenvPath is the resolved shadowenv executable.
	ShadowenvPath string
	// WorkDir is the project directory shadowenv should activate.
	WorkDir string
	// Scope groups interpreters by how they were provisioned. Empty
	// means DefaultScope.
	Scope string
	// Date is the run marker in 2006-01-02 form, supplied by the caller
	// so the transform stays deterministic.
	Date string
}

func (f InterpreterFacts) validate() error {
	for _, fact := range []struct{ name, value string }{
		{"ruby version", f.RubyVersion},
		{"ruby path", f.RubyPath},
		{"shadowenv path", f.ShadowenvPath},
		{"working directory", f.WorkDir},
		{"date", f.Date},
	} {
		if strings.TrimSpace(fact.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingFact, fact.name)
		}
	}
	return nil
}

// RunArgsFacts feeds the RUBY_ARGS attribute-patch shape.
type RunArgsFacts struct {
	// WorkDir is the project directory the include paths hang off.
	WorkDir string
}

func (f RunArgsFacts) validate() error {
	if strings.TrimSpace(f.WorkDir) == "" {
		return fmt.Errorf("%w: working directory", ErrMissingFact)
	}
	return nil
}

// DataSourceFacts feeds the data-source pair shape.
type DataSourceFacts struct {
	// Name is the data source's display name, also its identity key.
	Name string
	Host string
	Port string
	User string
	// PreviousUUID forces identifier reuse. When empty, the upsert first
	// tries to recover a uuid from the prior documents, then mints one.
	PreviousUUID string
}

func (f DataSourceFacts) validate() error {
	for _, fact := range []struct{ name, value string }{
		{"data source name", f.Name},
		{"database host", f.Host},
		{"database port", f.Port},
		{"database user", f.User},
	} {
		if strings.TrimSpace(fact.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingFact, fact.name)
		}
	}
	return nil
}
