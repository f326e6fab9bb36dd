package xmlpatch

import (
	"sort"

	"github.com/beevik/etree"
)

// EntryIdentity extracts the de-duplication key from an existing entry
// element. ok is false when the entry carries no recognizable identity;
// such entries are never removed.
type EntryIdentity func(el *etree.Element) (key string, ok bool)

// UpsertSpec describes one upsert: where the entry lives, how colliding
// prior entries are recognized, and how the replacement is built.
type UpsertSpec struct {
	// Container locates the element that holds the entries.
	Container ContainerSpec
	// EntryTag is the tag of the sibling entries managed by this upsert.
	EntryTag string
	// Key is the identity key of the entry being inserted.
	Key string
	// Identity extracts the key from an existing entry for comparison.
	Identity EntryIdentity
	// Build constructs the new entry subtree. Called exactly once; the
	// returned element is owned by the document afterwards.
	Build func() *etree.Element
	// Skeleton constructs a minimal document when no prior text exists.
	// It must contain the container (or a root the container can be
	// created under).
	Skeleton func() *etree.Document
}

// UpsertEntry applies spec against old, which may be nil or empty when no
// prior file exists. It removes every direct child of the container whose
// tag and identity key collide with the new entry, appends the new entry
// as the container's last child, and returns the serialized result.
// Unrelated siblings keep their position, attributes, and content.
//
// The transform is pure: no I/O, no retries. A parse failure aborts the
// whole operation.
func UpsertEntry(old []byte, spec UpsertSpec) ([]byte, error) {
	var doc *etree.Document
	if len(old) == 0 {
		doc = spec.Skeleton()
	} else {
		parsed, err := Parse(old)
		if err != nil {
			return nil, err
		}
		doc = parsed
	}

	container := EnsureContainer(doc, spec.Container)
	removeColliding(container, spec)
	container.AddChild(spec.Build())

	return Serialize(doc)
}

// removeColliding strips every direct child of container whose tag matches
// spec.EntryTag and whose extracted identity equals spec.Key. Children
// with the same tag but a different (or unreadable) identity are kept.
func removeColliding(container *etree.Element, spec UpsertSpec) {
	var doomed []*etree.Element
	for _, child := range container.ChildElements() {
		if child.Tag != spec.EntryTag {
			continue
		}
		key, ok := spec.Identity(child)
		if ok && key == spec.Key {
			doomed = append(doomed, child)
		}
	}
	for _, el := range doomed {
		container.RemoveChild(el)
	}
}

// PatchAttr applies an in-place attribute patch to the first descendant
// (document order) for which match returns true. It never creates
// elements: when no descendant matches, old is returned unchanged and
// updated is false. This is the "report nothing updated" path, not an
// error.
func PatchAttr(old []byte, match func(*etree.Element) bool, apply func(*etree.Element)) (out []byte, updated bool, err error) {
	doc, err := Parse(old)
	if err != nil {
		return nil, false, err
	}

	target := findMatching(doc.Root(), match)
	if target == nil {
		return old, false, nil
	}
	apply(target)

	out, err = Serialize(doc)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func findMatching(el *etree.Element, match func(*etree.Element) bool) *etree.Element {
	if match(el) {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := findMatching(child, match); found != nil {
			return found
		}
	}
	return nil
}

// NewSkeleton builds the conventional minimal document: an XML declaration,
// the given root tag with optional attributes, and one empty container per
// spec. Payload packages use this for their creation paths.
func NewSkeleton(rootTag string, rootAttrs map[string]string, spec ContainerSpec) func() *etree.Document {
	return func() *etree.Document {
		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		root := doc.CreateElement(rootTag)
		for _, k := range sortedKeys(rootAttrs) {
			root.CreateAttr(k, rootAttrs[k])
		}
		container := root.CreateElement(spec.Tag)
		container.CreateAttr(spec.Attr, spec.Value)
		return doc
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
