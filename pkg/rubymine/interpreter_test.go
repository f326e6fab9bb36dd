package rubymine

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmalette/rubymine-configurator/pkg/xmlpatch"
)

func testFacts() InterpreterFacts {
	return InterpreterFacts{
		RubyVersion:   "3.2.0",
		RubyPath:      "/opt/rubies/3.2.0/bin/ruby",
		ShadowenvPath: "/usr/local/bin/shadowenv",
		WorkDir:       "/home/dev/src/app",
		Scope:         "main",
		Date:          "2024-06-01",
	}
}

func jdkEntries(t *testing.T, out []byte) []*etree.Element {
	t.Helper()
	doc, err := xmlpatch.Parse(out)
	require.NoError(t, err)
	container := xmlpatch.FindContainer(doc, xmlpatch.ContainerSpec{Tag: "component", Attr: "name", Value: "ProjectJdkTable"})
	require.NotNil(t, container)
	var entries []*etree.Element
	for _, el := range container.ChildElements() {
		if el.Tag == "jdk" {
			entries = append(entries, el)
		}
	}
	return entries
}

func entryName(el *etree.Element) string {
	nameEl := el.SelectElement("name")
	if nameEl == nil {
		return ""
	}
	return nameEl.SelectAttrValue("value", "")
}

func TestUpsertInterpreterReplacesMatchingEntry(t *testing.T) {
	prior := `<application>
  <component name="ProjectJdkTable">
    <jdk version="2">
      <name value="Ruby 3.2.0 (main/app) + marker 2024-01-01" />
      <type value="RUBY_SDK" />
    </jdk>
    <jdk version="2">
      <name value="Ruby 3.1.0 (main/other) + marker 2023-05-05" />
      <type value="RUBY_SDK" />
    </jdk>
  </component>
</application>`

	out, err := UpsertInterpreter([]byte(prior), testFacts())
	require.NoError(t, err)

	entries := jdkEntries(t, out)
	require.Len(t, entries, 2)

	// The other project's interpreter keeps its position and content.
	assert.Equal(t, "Ruby 3.1.0 (main/other) + marker 2023-05-05", entryName(entries[0]))
	// The stale same-identity entry is gone; the replacement is last.
	assert.Equal(t, "Ruby 3.2.0 (main/app) + marker 2024-06-01", entryName(entries[1]))
}

func TestUpsertInterpreterCreationPath(t *testing.T) {
	out, err := UpsertInterpreter(nil, testFacts())
	require.NoError(t, err)

	doc, err := xmlpatch.Parse(out)
	require.NoError(t, err)
	require.Equal(t, "application", doc.Root().Tag)
	require.Len(t, doc.Root().ChildElements(), 1)

	entries := jdkEntries(t, out)
	require.Len(t, entries, 1)
	entry := entries[0]

	assert.Equal(t, "2", entry.SelectAttrValue("version", ""))
	assert.Equal(t, "Ruby 3.2.0 (main/app) + marker 2024-06-01", entryName(entry))
	assert.Equal(t, "RUBY_SDK", entry.SelectElement("type").SelectAttrValue("value", ""))
	assert.Equal(t, "3.2.0", entry.SelectElement("version").SelectAttrValue("value", ""))
	assert.Equal(t, "/opt/rubies/3.2.0/bin/ruby", entry.SelectElement("homePath").SelectAttrValue("value", ""))

	additional := entry.SelectElement("additional")
	require.NotNil(t, additional)
	assert.Equal(t, "1", additional.SelectAttrValue("version", ""))
	assert.Equal(t, "/opt/rubies/3.2.0/bin", additional.SelectAttrValue("GEMS_BIN_DIR_PATH", ""))

	list := additional.FindElement("VERSION_MANAGER/custom-configurator/list")
	require.NotNil(t, list)
	var options []string
	for _, opt := range list.SelectElements("option") {
		options = append(options, opt.SelectAttrValue("value", ""))
	}
	assert.Equal(t, []string{"/usr/local/bin/shadowenv", "exec", "--dir", "/home/dev/src/app", "--"}, options)
}

func TestUpsertInterpreterIdempotent(t *testing.T) {
	facts := testFacts()
	first, err := UpsertInterpreter(nil, facts)
	require.NoError(t, err)

	// Later run, different marker date, same identity.
	facts.Date = "2024-07-15"
	second, err := UpsertInterpreter(first, facts)
	require.NoError(t, err)

	entries := jdkEntries(t, second)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ruby 3.2.0 (main/app) + marker 2024-07-15", entryName(entries[0]))
}

func TestUpsertInterpreterPreservesForeignEntries(t *testing.T) {
	// Interpreters registered by hand (names we cannot parse) are never
	// removed, even when the tag matches.
	prior := `<application>
  <component name="ProjectJdkTable">
    <jdk version="2">
      <name value="System Ruby" />
    </jdk>
    <jdk version="2" />
  </component>
</application>`

	out, err := UpsertInterpreter([]byte(prior), testFacts())
	require.NoError(t, err)

	entries := jdkEntries(t, out)
	require.Len(t, entries, 3)
	assert.Equal(t, "System Ruby", entryName(entries[0]))
}

func TestUpsertInterpreterDefaultScope(t *testing.T) {
	facts := testFacts()
	facts.Scope = ""

	out, err := UpsertInterpreter(nil, facts)
	require.NoError(t, err)

	entries := jdkEntries(t, out)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ruby 3.2.0 (shadowenv/app) + marker 2024-06-01", entryName(entries[0]))
}

func TestUpsertInterpreterMissingFacts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*InterpreterFacts)
	}{
		{"no version", func(f *InterpreterFacts) { f.RubyVersion = "" }},
		{"no ruby path", func(f *InterpreterFacts) { f.RubyPath = "" }},
		{"no shadowenv", func(f *InterpreterFacts) { f.ShadowenvPath = "" }},
		{"no workdir", func(f *InterpreterFacts) { f.WorkDir = "   " }},
		{"no date", func(f *InterpreterFacts) { f.Date = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := testFacts()
			tt.mutate(&facts)
			_, err := UpsertInterpreter(nil, facts)
			require.ErrorIs(t, err, ErrMissingFact)
		})
	}
}

func TestUpsertInterpreterMalformedPriorFile(t *testing.T) {
	_, err := UpsertInterpreter([]byte("<application><component"), testFacts())
	require.Error(t, err)
	assert.True(t, xmlpatch.IsMalformed(err))
}
