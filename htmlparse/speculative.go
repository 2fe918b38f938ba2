package htmlparse

import (
	"log/slog"

	"github.com/dpotapov/htmlkit/htmltoken"
)

// speculativeBuilder is a builder that registers itself as the tokenizer's
// Sink, assembling the tree as tokens are produced rather than after the
// fact (spec.md §4.4, "Speculative (streaming) mode").
type speculativeBuilder struct {
	*builder
}

// Token implements htmltoken.Sink.
func (s *speculativeBuilder) Token(tok htmltoken.Token) htmltoken.SinkResponse {
	if tok.IsEOF() {
		s.finish()
		return htmltoken.Continue
	}
	s.handleToken(tok)
	return htmltoken.DefaultResponse(tok)
}

// ParseSpeculative drives the tokenizer and tree builder together: the
// builder reacts to each token as htmltoken.Run produces it, rather than
// waiting for a complete token buffer.
func ParseSpeculative(input string, logger *slog.Logger) Result {
	s := &speculativeBuilder{builder: newBuilder(logger)}
	tokenDiags := htmltoken.Run(input, s)
	s.diags = append(s.diags, tokenDiags...)

	s.log.Debug("htmlparse: speculative parse complete", "diagnostics", len(s.diags))

	return s.result()
}
