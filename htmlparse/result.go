// Package htmlparse implements the tree builder: it consumes the token
// stream produced by htmltoken and assembles a dom.Document, in either of
// two modes (spec.md §4.4). It depends on htmltoken and dom but is never
// imported by either, keeping the dependency graph a strict DAG.
package htmlparse

import (
	"github.com/dpotapov/htmlkit/dom"
	"github.com/dpotapov/htmlkit/htmltoken"
)

// Mode selects how the tokenizer and tree builder are wired together.
type Mode int

const (
	// Synchronous runs the tokenizer to completion, buffering every token,
	// then consumes the buffer front-to-back.
	Synchronous Mode = iota
	// Speculative registers the builder as the tokenizer's Sink, so the
	// tree is assembled incrementally as tokens are produced.
	Speculative
)

// Result is the outcome of a Parse call: a document plus every diagnostic
// collected along the way. A Result is always returned; there is no
// top-level fatal failure (spec.md §7).
type Result struct {
	Document    *dom.Document
	Diagnostics []htmltoken.Diagnostic
}
