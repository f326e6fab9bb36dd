package xmlpatch

import "github.com/beevik/etree"

// ContainerSpec identifies the element that holds a family of upserted
// entries: a tag name plus one required attribute equality, for example
// component[name="ProjectJdkTable"].
type ContainerSpec struct {
	Tag   string
	Attr  string
	Value string
}

// Matches reports whether el has the tag and marker attribute.
func (s ContainerSpec) Matches(el *etree.Element) bool {
	if el.Tag != s.Tag {
		return false
	}
	attr := el.SelectAttr(s.Attr)
	return attr != nil && attr.Value == s.Value
}

// FindContainer walks the tree depth-first in document order and returns
// the first element matching spec, or nil. The target files are expected
// to hold at most one such container; picking the first when duplicates
// exist is deliberate policy.
func FindContainer(doc *etree.Document, spec ContainerSpec) *etree.Element {
	root := doc.Root()
	if root == nil {
		return nil
	}
	return findFirst(root, spec)
}

func findFirst(el *etree.Element, spec ContainerSpec) *etree.Element {
	if spec.Matches(el) {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := findFirst(child, spec); found != nil {
			return found
		}
	}
	return nil
}

// EnsureContainer returns the container matching spec, creating it as a
// new last child of the root when the document does not have one yet.
func EnsureContainer(doc *etree.Document, spec ContainerSpec) *etree.Element {
	if found := FindContainer(doc, spec); found != nil {
		return found
	}
	container := doc.Root().CreateElement(spec.Tag)
	container.CreateAttr(spec.Attr, spec.Value)
	return container
}
