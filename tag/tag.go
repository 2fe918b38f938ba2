// Package tag implements tag-name normalization and the known/void-tag
// discriminator used by the tokenizer and tree builder.
package tag

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// Name is a case-normalized HTML tag name. Known tags resolve to a stable
// atom.Atom for O(1) comparison; unrecognized tags fall back to the plain
// lowercased string, mirroring the original implementation's closed enum
// with an Other(String) escape hatch.
type Name struct {
	atom atom.Atom
	raw  string
}

// New lowercases s and resolves it against the known-tag table.
func New(s string) Name {
	lower := strings.ToLower(s)
	if a := atom.Lookup([]byte(lower)); a != 0 {
		return Name{atom: a, raw: lower}
	}
	return Name{raw: lower}
}

// String returns the normalized tag name.
func (n Name) String() string {
	if n.atom != 0 {
		return n.atom.String()
	}
	return n.raw
}

// Known reports whether the tag name was recognized against the standard
// HTML tag table.
func (n Name) Known() bool {
	return n.atom != 0
}

// IsZero reports whether n was never assigned a name.
func (n Name) IsZero() bool {
	return n.atom == 0 && n.raw == ""
}

// voidTags is the normative void-tag list from the spec: these elements
// never have children and are always self-closing.
var voidTags = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {},
	"track": {}, "wbr": {},
}

// Void reports whether the tag never carries children or a closing tag.
func (n Name) Void() bool {
	_, ok := voidTags[n.String()]
	return ok
}

// Script and Style are the two tags the tokenizer treats specially,
// signaling a content-mode switch to the consuming tree builder.
func (n Name) Script() bool { return n.String() == "script" }
func (n Name) Style() bool  { return n.String() == "style" }
