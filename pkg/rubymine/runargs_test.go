package rubymine

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmalette/rubymine-configurator/pkg/xmlpatch"
)

func TestRunArgsValue(t *testing.T) {
	value := RunArgsValue("/home/dev/src/app")
	assert.Equal(t,
		"-I/home/dev/src/app/lib -I/home/dev/src/app/test -I/home/dev/src/app/spec -I/home/dev/src/app/config",
		value)
}

func TestPatchRunArgsUpdatesExistingElement(t *testing.T) {
	prior := `<project version="4">
  <component name="RunManager">
    <configuration type="RubyRunConfigurationType">
      <option NAME="RUBY_ARGS" VALUE="-w" CHECKED="true" />
      <option NAME="WORK_DIR" VALUE="keep-me" />
    </configuration>
  </component>
</project>`

	out, updated, err := PatchRunArgs([]byte(prior), RunArgsFacts{WorkDir: "/proj"})
	require.NoError(t, err)
	assert.True(t, updated)

	doc, err := xmlpatch.Parse(out)
	require.NoError(t, err)

	var rubyArgs *etree.Element
	for _, el := range doc.FindElements("//option") {
		if el.SelectAttrValue("NAME", "") == "RUBY_ARGS" {
			rubyArgs = el
		}
	}
	require.NotNil(t, rubyArgs)
	assert.Equal(t, "-I/proj/lib -I/proj/test -I/proj/spec -I/proj/config", rubyArgs.SelectAttrValue("VALUE", ""))
	// Other attributes of the patched element pass through.
	assert.Equal(t, "true", rubyArgs.SelectAttrValue("CHECKED", ""))

	// Sibling options are untouched.
	for _, el := range doc.FindElements("//option") {
		if el.SelectAttrValue("NAME", "") == "WORK_DIR" {
			assert.Equal(t, "keep-me", el.SelectAttrValue("VALUE", ""))
		}
	}
}

func TestPatchRunArgsNothingToUpdate(t *testing.T) {
	prior := []byte(`<project version="4"><component name="RunManager"/></project>`)

	out, updated, err := PatchRunArgs(prior, RunArgsFacts{WorkDir: "/proj"})
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, prior, out, "document must come back unchanged")
}

func TestPatchRunArgsMissingWorkDir(t *testing.T) {
	_, _, err := PatchRunArgs([]byte(`<project/>`), RunArgsFacts{})
	require.ErrorIs(t, err, ErrMissingFact)
}
