package htmlparse

import (
	"log/slog"

	"github.com/dpotapov/htmlkit/dom"
	"github.com/dpotapov/htmlkit/htmltoken"
)

// parent is satisfied by both *dom.Element and *dom.Document: the two
// kinds of node the builder can be appending into at any point.
type parent interface {
	dom.Container
	Append(dom.Node)
}

// builder holds the open-element stack and diagnostic log shared by both
// ingestion modes. The transition table itself (handleToken) is mode-
// agnostic; synchronous.go and speculative.go differ only in how tokens
// are fed into it.
type builder struct {
	doc   *dom.Document
	stack []*dom.Element
	diags []htmltoken.Diagnostic
	log   *slog.Logger
}

func newBuilder(logger *slog.Logger) *builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &builder{doc: dom.NewDocument(), log: logger}
}

// current returns whatever the builder should append the next node to: the
// innermost open element, or the document root if the stack is empty.
func (b *builder) current() parent {
	if len(b.stack) == 0 {
		return b.doc
	}
	return b.stack[len(b.stack)-1]
}

func (b *builder) diag(kind htmltoken.DiagnosticKind, pos dom.Position) {
	b.diags = append(b.diags, htmltoken.Diagnostic{Kind: kind, Position: pos})
}

func (b *builder) diagTag(kind htmltoken.DiagnosticKind, pos dom.Position, tagName string) {
	b.diags = append(b.diags, htmltoken.Diagnostic{Kind: kind, Position: pos, TagName: tagName})
}

// handleToken applies one token per spec.md §4.4's transition table. It is
// shared verbatim by the synchronous and speculative builders.
func (b *builder) handleToken(tok htmltoken.Token) {
	switch tok.Kind {
	case htmltoken.OpeningTag:
		b.openTag(tok)
	case htmltoken.ClosingTag:
		b.closeTag(tok)
	case htmltoken.Text:
		b.current().Append(dom.NewTextNode(tok.Content, tok.Span))
	case htmltoken.Comment:
		b.current().Append(dom.NewCommentNode(tok.Content, tok.Span))
	case htmltoken.Doctype:
		b.doc.Append(&dom.DoctypeNode{
			RootName:    tok.RootName,
			Identifier:  tok.Identifier,
			ForceQuirks: tok.ForceQuirks,
		})
	}
}

func (b *builder) openTag(tok htmltoken.Token) {
	el := dom.NewElement(tok.Tag.String())
	el.OpenTagSpan = tok.Span
	for _, a := range tok.Attributes {
		el.SetAttributeFull(a.Key, a.Value, a.QuoteKind)
	}
	b.current().Append(el)

	if tok.SelfClosing || tok.Tag.Void() {
		return
	}
	b.stack = append(b.stack, el)
}

func (b *builder) closeTag(tok htmltoken.Token) {
	if tok.Tag.Void() {
		b.diagTag(htmltoken.VoidElementEndTag, tok.Span.Start, tok.Tag.String())
		return
	}
	if len(b.stack) == 0 || b.stack[len(b.stack)-1].Tag.String() != tok.Tag.String() {
		b.diagTag(htmltoken.UnexpectedCloseTag, tok.Span.Start, tok.Tag.String())
		return
	}
	top := b.stack[len(b.stack)-1]
	span := tok.Span
	top.CloseTagSpan = &span
	b.stack = b.stack[:len(b.stack)-1]
}

// finish records an UnclosedTag diagnostic for the innermost still-open
// element, if any, matching spec.md §4.4's EOF transition.
func (b *builder) finish() {
	if len(b.stack) == 0 {
		return
	}
	top := b.stack[len(b.stack)-1]
	b.diagTag(htmltoken.UnclosedTag, top.OpenTagSpan.Start, top.Tag.String())
}

func (b *builder) result() Result {
	return Result{Document: b.doc, Diagnostics: b.diags}
}
