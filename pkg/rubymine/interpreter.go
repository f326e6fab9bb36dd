package rubymine

import (
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/gmalette/rubymine-configurator/pkg/xmlpatch"
)

// InterpreterFileName is the options file holding the interpreter table.
const InterpreterFileName = "jdk.table.xml"

// interpreterContainer is where RubyMine keeps registered SDKs. RubyMine
// inherits the "jdk" terminology from the IntelliJ platform; the entries
// are Ruby SDKs.
var interpreterContainer = xmlpatch.ContainerSpec{
	Tag:   "component",
	Attr:  "name",
	Value: "ProjectJdkTable",
}

// UpsertInterpreter merges a shadowenv interpreter descriptor into the
// prior jdk.table.xml contents (old may be nil when the file does not
// exist yet). Exactly one entry survives per scope/leaf identity; entries
// for other projects or rubies are preserved verbatim.
func UpsertInterpreter(old []byte, f InterpreterFacts) ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	scope := f.Scope
	if scope == "" {
		scope = DefaultScope
	}
	leaf := filepath.Base(f.WorkDir)
	name := DisplayName(f.RubyVersion, scope, leaf, f.Date)

	return xmlpatch.UpsertEntry(old, xmlpatch.UpsertSpec{
		Container: interpreterContainer,
		EntryTag:  "jdk",
		Key:       IdentityKey(scope, leaf),
		Identity:  interpreterIdentity,
		Build:     func() *etree.Element { return buildInterpreterEntry(f, name) },
		Skeleton:  xmlpatch.NewSkeleton("application", nil, interpreterContainer),
	})
}

// interpreterIdentity reads the identity key out of an existing jdk entry
// via its name child's value attribute. Entries without one (or with a
// name this tool did not generate) are never removed.
func interpreterIdentity(el *etree.Element) (string, bool) {
	nameEl := el.SelectElement("name")
	if nameEl == nil {
		return "", false
	}
	value := nameEl.SelectAttrValue("value", "")
	if value == "" {
		return "", false
	}
	return ParseIdentityKey(value)
}

func buildInterpreterEntry(f InterpreterFacts, name string) *etree.Element {
	jdk := etree.NewElement("jdk")
	jdk.CreateAttr("version", "2")

	jdk.CreateElement("name").CreateAttr("value", name)
	jdk.CreateElement("type").CreateAttr("value", "RUBY_SDK")
	jdk.CreateElement("version").CreateAttr("value", f.RubyVersion)
	jdk.CreateElement("homePath").CreateAttr("value", f.RubyPath)

	roots := jdk.CreateElement("roots")
	roots.CreateElement("classPath").CreateElement("root").CreateAttr("type", "composite")
	roots.CreateElement("sourcePath").CreateElement("root").CreateAttr("type", "composite")

	additional := jdk.CreateElement("additional")
	additional.CreateAttr("version", "1")
	additional.CreateAttr("GEMS_BIN_DIR_PATH", filepath.Dir(f.RubyPath))

	manager := additional.CreateElement("VERSION_MANAGER")
	manager.CreateAttr("ID", "system")
	list := manager.CreateElement("custom-configurator").CreateElement("list")
	for _, opt := range []string{f.ShadowenvPath, "exec", "--dir", f.WorkDir, "--"} {
		list.CreateElement("option").CreateAttr("value", opt)
	}

	return jdk
}
