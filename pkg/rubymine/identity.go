package rubymine

import (
	"fmt"
	"regexp"
)

// DefaultScope groups interpreters registered by this tool.
const DefaultScope = "shadowenv"

// DisplayName renders the generated interpreter name:
//
//	Ruby {version} ({scope}/{leaf}) + marker {date}
//
// The parenthesized scope/leaf pair doubles as the identity key, so the
// name format and ParseIdentityKey must stay in lockstep. Timestamps and
// version numbers vary between runs; the key does not.
func DisplayName(version, scope, leaf, date string) string {
	return fmt.Sprintf("Ruby %s (%s/%s) + marker %s", version, scope, leaf, date)
}

// IdentityKey returns the de-duplication key for a scope/leaf pair.
func IdentityKey(scope, leaf string) string {
	return scope + "/" + leaf
}

var displayNameRe = regexp.MustCompile(`^Ruby \S+ \(([^()/]+/[^()]+)\) \+ marker \d{4}-\d{2}-\d{2}$`)

// ParseIdentityKey recovers the scope/leaf key from a generated display
// name. Names produced by other tools (or hand-edited out of shape) yield
// ok=false and are left alone by the merge.
func ParseIdentityKey(name string) (key string, ok bool) {
	m := displayNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}
