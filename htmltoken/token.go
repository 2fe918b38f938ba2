// Package htmltoken implements the HTML tokenizer: a character-driven
// state machine (modeled on the original sleek_parser tokenizer/state.rs)
// that turns a charstream.Stream into a sequence of lexical tokens,
// tolerating malformed input and recording diagnostics rather than
// failing. It has no dependency on the tree builder — token delivery is a
// pluggable Sink, following the "don't couple the tokenizer to the
// builder" design note.
package htmltoken

import (
	"github.com/dpotapov/htmlkit/dom"
	"github.com/dpotapov/htmlkit/tag"
)

// Kind discriminates the Token variants from spec.md §3. Token is a flat
// struct with a Kind tag rather than a sum type, the same shape
// golang.org/x/net/html.Token uses.
type Kind int

const (
	OpeningTag Kind = iota
	ClosingTag
	Text
	Comment
	Doctype
	EOF
)

func (k Kind) String() string {
	switch k {
	case OpeningTag:
		return "OpeningTag"
	case ClosingTag:
		return "ClosingTag"
	case Text:
		return "Text"
	case Comment:
		return "Comment"
	case Doctype:
		return "Doctype"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is a single lexical event produced by the tokenizer.
type Token struct {
	Kind Kind

	// OpeningTag / ClosingTag
	Tag         tag.Name
	Attributes  []dom.Attribute
	SelfClosing bool

	// Text / Comment
	Content string

	// Doctype
	RootName    string
	Identifier  dom.DoctypeIdentifier
	ForceQuirks bool

	// Span is set for every variant except EOF.
	Span dom.Span

	// Position is set only for EOF.
	Position dom.Position
}

// IsEOF reports whether t is the terminal EOF token.
func (t Token) IsEOF() bool { return t.Kind == EOF }
