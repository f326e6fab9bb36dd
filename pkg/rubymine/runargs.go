package rubymine

import (
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/gmalette/rubymine-configurator/pkg/xmlpatch"
)

// WorkspaceFileName is the per-project file carrying run configurations.
const WorkspaceFileName = "workspace.xml"

// includeSubdirs are the project sub-paths the test runner needs on the
// ruby load path.
var includeSubdirs = []string{"lib", "test", "spec", "config"}

// RunArgsValue computes the RUBY_ARGS include-path string: each sub-path
// prefixed with -I, joined with single spaces.
func RunArgsValue(workDir string) string {
	args := make([]string, 0, len(includeSubdirs))
	for _, sub := range includeSubdirs {
		args = append(args, "-I"+filepath.Join(workDir, sub))
	}
	return strings.Join(args, " ")
}

// PatchRunArgs overwrites the VALUE attribute of the first element
// carrying NAME="RUBY_ARGS" in the prior workspace.xml contents. Every
// other attribute of that element passes through untouched. This shape
// only patches existing elements: when none matches, old comes back
// unchanged and updated is false.
func PatchRunArgs(old []byte, f RunArgsFacts) (out []byte, updated bool, err error) {
	if err := f.validate(); err != nil {
		return nil, false, err
	}
	value := RunArgsValue(f.WorkDir)
	return xmlpatch.PatchAttr(old,
		func(el *etree.Element) bool {
			return el.SelectAttrValue("NAME", "") == "RUBY_ARGS"
		},
		func(el *etree.Element) {
			el.CreateAttr("VALUE", value)
		},
	)
}
