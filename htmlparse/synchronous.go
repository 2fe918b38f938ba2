package htmlparse

import (
	"log/slog"

	"github.com/dpotapov/htmlkit/htmltoken"
)

// ParseSynchronous runs the tokenizer to completion, buffering every token,
// then builds the tree front-to-back over the buffer (spec.md §4.4,
// "Synchronous mode").
func ParseSynchronous(input string, logger *slog.Logger) Result {
	var rec htmltoken.Recorder
	tokenDiags := htmltoken.Run(input, &rec)

	b := newBuilder(logger)
	b.diags = append(b.diags, tokenDiags...)

	for _, tok := range rec.Tokens {
		if tok.IsEOF() {
			continue
		}
		b.handleToken(tok)
	}
	b.finish()

	b.log.Debug("htmlparse: synchronous parse complete",
		"tokens", len(rec.Tokens), "diagnostics", len(b.diags))

	return b.result()
}
