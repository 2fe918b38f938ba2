package htmltoken

import (
	"fmt"

	"github.com/dpotapov/htmlkit/dom"
)

// DiagnosticKind enumerates the recoverable-malformation kinds from
// spec.md §7. The list is normative but not exhaustive.
type DiagnosticKind int

const (
	InvalidCharacter DiagnosticKind = iota
	UnexpectedEndOfInput
	UnexpectedCharacter
	ExpectedTagName
	UnclosedComment
	IndecipherableDocType
	SelfClosingNonVoidTag
	VoidElementEndTag
	UnclosedTag
	UnexpectedCloseTag
)

func (k DiagnosticKind) String() string {
	switch k {
	case InvalidCharacter:
		return "InvalidCharacter"
	case UnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	case UnexpectedCharacter:
		return "UnexpectedCharacter"
	case ExpectedTagName:
		return "ExpectedTagName"
	case UnclosedComment:
		return "UnclosedComment"
	case IndecipherableDocType:
		return "IndecipherableDocType"
	case SelfClosingNonVoidTag:
		return "SelfClosingNonVoidTag"
	case VoidElementEndTag:
		return "VoidElementEndTag"
	case UnclosedTag:
		return "UnclosedTag"
	case UnexpectedCloseTag:
		return "UnexpectedCloseTag"
	default:
		return "Unknown"
	}
}

// Diagnostic is a single non-fatal parse-recovery record: { kind,
// position }, plus the payload some kinds carry (the offending character
// or tag name). Diagnostics never abort a parse (spec.md §7).
type Diagnostic struct {
	Kind     DiagnosticKind
	Position dom.Position

	// Char is set for InvalidCharacter and UnexpectedCharacter.
	Char rune

	// TagName is set for SelfClosingNonVoidTag, VoidElementEndTag,
	// UnclosedTag and UnexpectedCloseTag.
	TagName string
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case UnexpectedCharacter:
		return fmt.Sprintf("%s(%q) at %s", d.Kind, d.Char, d.Position)
	case VoidElementEndTag, UnclosedTag, UnexpectedCloseTag:
		return fmt.Sprintf("%s(%s) at %s", d.Kind, d.TagName, d.Position)
	default:
		return fmt.Sprintf("%s at %s", d.Kind, d.Position)
	}
}
