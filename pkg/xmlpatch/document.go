// Package xmlpatch implements structural upserts against IDE-style XML
// configuration files. A document is parsed into a full element tree,
// patched in place, and re-serialized with stable indentation; everything
// the patch does not touch survives the round trip.
package xmlpatch

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// MalformedDocumentError reports input that is not well-formed XML. The
// operation that hit it must abort; no partial recovery is attempted.
type MalformedDocumentError struct {
	// Line is the 1-based input line where parsing failed, or 0 when the
	// underlying decoder did not report one.
	Line int
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed document at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed document: %v", e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// IsMalformed reports whether err is (or wraps) a MalformedDocumentError.
func IsMalformed(err error) bool {
	var m *MalformedDocumentError
	return errors.As(err, &m)
}

// Parse reads src into an element tree. Attribute order, element order,
// comments, and processing instructions are preserved.
func Parse(src []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(src); err != nil {
		return nil, wrapParseError(err)
	}
	if doc.Root() == nil {
		return nil, &MalformedDocumentError{Err: errors.New("no root element")}
	}
	return doc, nil
}

// Serialize renders doc with 2-space indentation and a trailing newline.
// Output formatting is deterministic and independent of how the input was
// indented; re-parsing the output yields an equivalent tree.
func Serialize(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

func wrapParseError(err error) error {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return &MalformedDocumentError{Line: syn.Line, Err: err}
	}
	return &MalformedDocumentError{Err: err}
}
