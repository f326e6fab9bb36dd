package xmlpatch

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixtures treat <item id="..."> elements inside
// component[name="Registry"] as entries keyed by their id attribute.

var testContainer = ContainerSpec{Tag: "component", Attr: "name", Value: "Registry"}

func idIdentity(el *etree.Element) (string, bool) {
	id := el.SelectAttrValue("id", "")
	return id, id != ""
}

func testSpec(key, stamp string) UpsertSpec {
	return UpsertSpec{
		Container: testContainer,
		EntryTag:  "item",
		Key:       key,
		Identity:  idIdentity,
		Build: func() *etree.Element {
			el := etree.NewElement("item")
			el.CreateAttr("id", key)
			el.CreateAttr("stamp", stamp)
			return el
		},
		Skeleton: NewSkeleton("application", nil, testContainer),
	}
}

func containerItems(t *testing.T, doc []byte) []*etree.Element {
	t.Helper()
	parsed, err := Parse(doc)
	require.NoError(t, err)
	container := FindContainer(parsed, testContainer)
	require.NotNil(t, container)
	var items []*etree.Element
	for _, el := range container.ChildElements() {
		if el.Tag == "item" {
			items = append(items, el)
		}
	}
	return items
}

func TestUpsertEntryCreationPath(t *testing.T) {
	out, err := UpsertEntry(nil, testSpec("alpha", "1"))
	require.NoError(t, err)

	doc, err := Parse(out)
	require.NoError(t, err)
	require.Equal(t, "application", doc.Root().Tag)

	components := doc.Root().ChildElements()
	require.Len(t, components, 1)
	assert.True(t, testContainer.Matches(components[0]))

	items := containerItems(t, out)
	require.Len(t, items, 1)
	assert.Equal(t, "alpha", items[0].SelectAttrValue("id", ""))
}

func TestUpsertEntryIdempotence(t *testing.T) {
	first, err := UpsertEntry(nil, testSpec("alpha", "1"))
	require.NoError(t, err)

	// Same identity, different time-varying payload.
	second, err := UpsertEntry(first, testSpec("alpha", "2"))
	require.NoError(t, err)

	items := containerItems(t, second)
	require.Len(t, items, 1)
	assert.Equal(t, "alpha", items[0].SelectAttrValue("id", ""))
	assert.Equal(t, "2", items[0].SelectAttrValue("stamp", ""))
}

func TestUpsertEntryPreservesUnrelatedSiblings(t *testing.T) {
	prior := `<application>
  <component name="Registry">
    <item id="one" keep="yes" />
    <!-- operator note -->
    <item id="two" keep="also" />
    <unrelated tag="stays" />
  </component>
</application>`

	out, err := UpsertEntry([]byte(prior), testSpec("three", "1"))
	require.NoError(t, err)

	items := containerItems(t, out)
	require.Len(t, items, 3)
	assert.Equal(t, "one", items[0].SelectAttrValue("id", ""))
	assert.Equal(t, "yes", items[0].SelectAttrValue("keep", ""))
	assert.Equal(t, "two", items[1].SelectAttrValue("id", ""))
	// New entry appended last.
	assert.Equal(t, "three", items[2].SelectAttrValue("id", ""))

	doc, err := Parse(out)
	require.NoError(t, err)
	assert.NotNil(t, doc.Root().FindElement("//unrelated"), "unrelated sibling must survive")
	assert.Contains(t, string(out), "operator note", "comments must survive")
}

func TestUpsertEntryReplacementKeepsOthersInPlace(t *testing.T) {
	prior := `<application>
  <component name="Registry">
    <item id="other" stamp="old" />
    <item id="alpha" stamp="old" />
  </component>
</application>`

	out, err := UpsertEntry([]byte(prior), testSpec("alpha", "new"))
	require.NoError(t, err)

	items := containerItems(t, out)
	require.Len(t, items, 2)
	// The untouched entry keeps its original position; the replacement
	// goes last.
	assert.Equal(t, "other", items[0].SelectAttrValue("id", ""))
	assert.Equal(t, "old", items[0].SelectAttrValue("stamp", ""))
	assert.Equal(t, "alpha", items[1].SelectAttrValue("id", ""))
	assert.Equal(t, "new", items[1].SelectAttrValue("stamp", ""))
}

func TestUpsertEntryKeepsEntriesWithoutIdentity(t *testing.T) {
	// An entry whose identity cannot be extracted is never removed.
	prior := `<application>
  <component name="Registry">
    <item note="no id attribute at all" />
    <item id="alpha" stamp="old" />
  </component>
</application>`

	out, err := UpsertEntry([]byte(prior), testSpec("alpha", "new"))
	require.NoError(t, err)

	items := containerItems(t, out)
	require.Len(t, items, 2)
	assert.Equal(t, "no id attribute at all", items[0].SelectAttrValue("note", ""))
}

func TestUpsertEntryCreatesContainerInExistingDocument(t *testing.T) {
	prior := `<application>
  <component name="SomethingElse">
    <keep me="true" />
  </component>
</application>`

	out, err := UpsertEntry([]byte(prior), testSpec("alpha", "1"))
	require.NoError(t, err)

	doc, err := Parse(out)
	require.NoError(t, err)
	components := doc.Root().ChildElements()
	require.Len(t, components, 2)
	assert.Equal(t, "SomethingElse", components[0].SelectAttrValue("name", ""))
	assert.Equal(t, "Registry", components[1].SelectAttrValue("name", ""))

	items := containerItems(t, out)
	require.Len(t, items, 1)
}

func TestUpsertEntryRemovesAllCollidingEntries(t *testing.T) {
	prior := `<application>
  <component name="Registry">
    <item id="alpha" stamp="1" />
    <item id="alpha" stamp="2" />
    <item id="beta" stamp="1" />
  </component>
</application>`

	out, err := UpsertEntry([]byte(prior), testSpec("alpha", "3"))
	require.NoError(t, err)

	items := containerItems(t, out)
	require.Len(t, items, 2)
	assert.Equal(t, "beta", items[0].SelectAttrValue("id", ""))
	assert.Equal(t, "alpha", items[1].SelectAttrValue("id", ""))
	assert.Equal(t, "3", items[1].SelectAttrValue("stamp", ""))
}

func TestUpsertEntryMalformedInputAborts(t *testing.T) {
	_, err := UpsertEntry([]byte(`<application><component name="Registry">`), testSpec("alpha", "1"))
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestPatchAttrUpdatesInPlace(t *testing.T) {
	prior := `<project>
  <component name="RunManager">
    <option NAME="OTHER" VALUE="keep" />
    <option NAME="RUBY_ARGS" VALUE="stale" extra="survives" />
  </component>
</project>`

	out, updated, err := PatchAttr([]byte(prior),
		func(el *etree.Element) bool { return el.SelectAttrValue("NAME", "") == "RUBY_ARGS" },
		func(el *etree.Element) { el.CreateAttr("VALUE", "fresh") },
	)
	require.NoError(t, err)
	assert.True(t, updated)

	doc, err := Parse(out)
	require.NoError(t, err)
	var target *etree.Element
	for _, el := range doc.FindElements("//option") {
		if el.SelectAttrValue("NAME", "") == "RUBY_ARGS" {
			target = el
		}
	}
	require.NotNil(t, target)
	assert.Equal(t, "fresh", target.SelectAttrValue("VALUE", ""))
	assert.Equal(t, "survives", target.SelectAttrValue("extra", ""))

	// Sibling with a different NAME is untouched.
	for _, el := range doc.FindElements("//option") {
		if el.SelectAttrValue("NAME", "") == "OTHER" {
			assert.Equal(t, "keep", el.SelectAttrValue("VALUE", ""))
		}
	}
}

func TestPatchAttrNothingUpdated(t *testing.T) {
	prior := []byte(`<project><component name="RunManager"/></project>`)

	out, updated, err := PatchAttr(prior,
		func(el *etree.Element) bool { return el.SelectAttrValue("NAME", "") == "RUBY_ARGS" },
		func(el *etree.Element) { el.CreateAttr("VALUE", "fresh") },
	)
	require.NoError(t, err)
	assert.False(t, updated)
	// No element is created and the input comes back byte-identical.
	assert.Equal(t, prior, out)
}

func TestPatchAttrMalformedInputAborts(t *testing.T) {
	_, _, err := PatchAttr([]byte(`<project>`),
		func(el *etree.Element) bool { return true },
		func(el *etree.Element) {},
	)
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}
