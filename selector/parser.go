package selector

import (
	"strings"

	"github.com/dpotapov/htmlkit/charstream"
)

// state names the ten recognized parser states from spec.md §4.5. Most are
// dispatched one rune at a time through run's switch; AttributeValue is
// read as a single unit by readAttributeValue once '=' is seen, since a
// quoted value's embedded delimiters (spaces, even another quote type)
// must be consumed as one token rather than rune-by-rune through the
// boundary-character rules the other states share.
type state int

const (
	stStart state = iota
	stTagName
	stClass
	stID
	stAttributeName
	stAttributeValue
	stUniversal
	stPossibleEnd
	stPossibleNext
	stCompulsoryNext
)

// Parse parses a selector string into a Selector tree. Parsing is strict:
// the first malformation aborts with an *Error (spec.md §7), unlike
// htmltoken's diagnostics-and-continue policy.
func Parse(input string) (*Selector, error) {
	return parseAlternatives(input)
}

// parseAlternatives splits input on top-level ','s (outside [] and ())
// into a Group's alternatives and parses each as one combinator chain.
func parseAlternatives(input string) (*Selector, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &Error{Kind: EmptySelector}
	}
	parts := splitTopLevel(input, ',')
	sel := &Selector{}
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return nil, &Error{Kind: InvalidSelector}
		}
		p := &chainParser{stream: charstream.New(part)}
		chain, err := p.run()
		if err != nil {
			return nil, err
		}
		sel.alternatives = append(sel.alternatives, chain)
	}
	return sel, nil
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside () or
// [] (so a comma inside an attribute value, or inside a parenthesized
// group operand, does not start a new alternative).
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	var cur strings.Builder
	parenDepth, bracketDepth := 0, 0
	for _, r := range s {
		switch {
		case r == '(':
			parenDepth++
			cur.WriteRune(r)
		case r == ')':
			parenDepth--
			cur.WriteRune(r)
		case r == '[':
			bracketDepth++
			cur.WriteRune(r)
		case r == ']':
			bracketDepth--
			cur.WriteRune(r)
		case r == sep && parenDepth == 0 && bracketDepth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

// chainParser assembles one combinator chain (one comma-separated
// alternative) by walking the named states over a charstream.Stream,
// mirroring the tokenizer's own scratch-buffer-driven design.
type chainParser struct {
	stream *charstream.Stream

	steps []chainStep // finished compounds, in left-to-right order
	cur   compound    // compound currently being accumulated
	cache strings.Builder

	curHasID bool
	pending  combinator // combinator linking the previous finished step to cur
}

func (p *chainParser) offset() int {
	return p.stream.Locus().Column - 1
}

func (p *chainParser) run() ([]chainStep, error) {
	st := stStart
	for {
		switch st {
		case stStart:
			next, done, err := p.stepStart()
			if err != nil {
				return nil, err
			}
			if done {
				return p.finishAndReturn()
			}
			st = next

		case stTagName:
			next, done, err := p.stepTagName()
			if err != nil {
				return nil, err
			}
			if done {
				return p.finishAndReturn()
			}
			st = next

		case stClass:
			next, done, err := p.stepClass()
			if err != nil {
				return nil, err
			}
			if done {
				return p.finishAndReturn()
			}
			st = next

		case stID:
			next, done, err := p.stepID()
			if err != nil {
				return nil, err
			}
			if done {
				return p.finishAndReturn()
			}
			st = next

		case stAttributeName:
			next, err := p.stepAttributeName()
			if err != nil {
				return nil, err
			}
			st = next

		case stUniversal:
			next, done, err := p.stepUniversal()
			if err != nil {
				return nil, err
			}
			if done {
				return p.finishAndReturn()
			}
			st = next

		case stPossibleEnd:
			next, done, err := p.stepPossibleEnd()
			if err != nil {
				return nil, err
			}
			if done {
				return p.finishAndReturn()
			}
			st = next

		case stPossibleNext:
			next, done, err := p.stepPossibleNext()
			if err != nil {
				return nil, err
			}
			if done {
				return p.finishAndReturn()
			}
			st = next

		case stCompulsoryNext:
			next, err := p.stepCompulsoryNext()
			if err != nil {
				return nil, err
			}
			st = next
		}
	}
}

func (p *chainParser) stepStart() (state, bool, error) {
	r, ok := p.stream.Next()
	if !ok {
		return 0, true, nil
	}
	switch {
	case isSelectorSpace(r):
		return stStart, false, nil
	case r == '.':
		return stClass, false, nil
	case r == '*':
		return stUniversal, false, nil
	case r == '#':
		return stID, false, nil
	case r == '[':
		return stAttributeName, false, nil
	case r == '(':
		if err := p.readGroupOperand(); err != nil {
			return 0, false, err
		}
		return stPossibleEnd, false, nil
	case r >= '0' && r <= '9':
		return 0, false, &Error{Kind: InvalidTag, Pos: p.offset()}
	case isTagStart(r):
		p.cache.WriteRune(r)
		return stTagName, false, nil
	default:
		return 0, false, &Error{Kind: InvalidSelector, Pos: p.offset()}
	}
}

func (p *chainParser) stepTagName() (state, bool, error) {
	r, ok := p.stream.Next()
	switch {
	case !ok:
		if err := p.emitTag(); err != nil {
			return 0, false, err
		}
		return 0, true, nil
	case isSelectorSpace(r):
		if err := p.emitTag(); err != nil {
			return 0, false, err
		}
		return stPossibleNext, false, nil
	case isBoundary(r):
		if err := p.emitTag(); err != nil {
			return 0, false, err
		}
		p.stream.Push(r)
		return stStart, false, nil
	case isTagChar(r):
		p.cache.WriteRune(r)
		return stTagName, false, nil
	default:
		return 0, false, &Error{Kind: InvalidSelector, Pos: p.offset()}
	}
}

func (p *chainParser) stepClass() (state, bool, error) {
	r, ok := p.stream.Next()
	switch {
	case !ok:
		if err := p.emitClass(); err != nil {
			return 0, false, err
		}
		return 0, true, nil
	case isSelectorSpace(r):
		if err := p.emitClass(); err != nil {
			return 0, false, err
		}
		return stPossibleNext, false, nil
	case isBoundary(r):
		if err := p.emitClass(); err != nil {
			return 0, false, err
		}
		p.stream.Push(r)
		return stStart, false, nil
	default:
		p.cache.WriteRune(r)
		return stClass, false, nil
	}
}

func (p *chainParser) stepID() (state, bool, error) {
	r, ok := p.stream.Next()
	switch {
	case !ok:
		if err := p.emitID(); err != nil {
			return 0, false, err
		}
		return 0, true, nil
	case isSelectorSpace(r):
		if err := p.emitID(); err != nil {
			return 0, false, err
		}
		return stPossibleNext, false, nil
	case isBoundary(r):
		if err := p.emitID(); err != nil {
			return 0, false, err
		}
		p.stream.Push(r)
		return stStart, false, nil
	default:
		p.cache.WriteRune(r)
		return stID, false, nil
	}
}

func (p *chainParser) stepAttributeName() (state, error) {
	r, ok := p.stream.Next()
	switch {
	case !ok || isSelectorSpace(r):
		return 0, &Error{Kind: InvalidSelector, Pos: p.offset()}
	case r == '=':
		if p.cache.Len() == 0 {
			return 0, &Error{Kind: InvalidSelector, Pos: p.offset()}
		}
		key := p.cache.String()
		p.cache.Reset()
		val, err := p.readAttributeValue()
		if err != nil {
			return 0, err
		}
		p.cur.simples = append(p.cur.simples, simple{kind: simAttribute, value: key, attrV: &val})
		return stPossibleEnd, nil
	case r == ']':
		if p.cache.Len() == 0 {
			return 0, &Error{Kind: InvalidSelector, Pos: p.offset()}
		}
		p.cur.simples = append(p.cur.simples, simple{kind: simAttribute, value: p.cache.String()})
		p.cache.Reset()
		return stPossibleEnd, nil
	default:
		p.cache.WriteRune(r)
		return stAttributeName, nil
	}
}

// readAttributeValue reads an entire `= value` payload up to (but not
// including) the ']' that stepAttributeName's caller expects to see next,
// supporting unquoted (no whitespace/'>'// '/'), single-, and
// double-quoted forms per spec.md §4.5.
func (p *chainParser) readAttributeValue() (string, error) {
	for {
		r, ok := p.stream.Next()
		if !ok {
			return "", &Error{Kind: InvalidSelector, Pos: p.offset()}
		}
		if isSelectorSpace(r) {
			continue
		}
		if r == '\'' || r == '"' {
			return p.readQuotedValue(r)
		}
		p.stream.Push(r)
		return p.readUnquotedValue()
	}
}

func (p *chainParser) readQuotedValue(quote rune) (string, error) {
	var b strings.Builder
	for {
		r, ok := p.stream.Next()
		if !ok {
			return "", &Error{Kind: InvalidSelector, Pos: p.offset()}
		}
		if r == quote {
			break
		}
		b.WriteRune(r)
	}
	for {
		r, ok := p.stream.Next()
		if !ok {
			return "", &Error{Kind: InvalidSelector, Pos: p.offset()}
		}
		if isSelectorSpace(r) {
			continue
		}
		if r != ']' {
			return "", &Error{Kind: InvalidSelector, Pos: p.offset()}
		}
		break
	}
	return b.String(), nil
}

func (p *chainParser) readUnquotedValue() (string, error) {
	var b strings.Builder
	for {
		r, ok := p.stream.Next()
		if !ok {
			return "", &Error{Kind: InvalidSelector, Pos: p.offset()}
		}
		switch {
		case r == ']':
			return b.String(), nil
		case isSelectorSpace(r) || r == '>' || r == '/':
			return "", &Error{Kind: InvalidSelector, Pos: p.offset()}
		default:
			b.WriteRune(r)
		}
	}
}

func (p *chainParser) stepUniversal() (state, bool, error) {
	p.cur.simples = append(p.cur.simples, simple{kind: simUniversal})
	r, ok := p.stream.Next()
	switch {
	case !ok:
		return 0, true, nil
	case isSelectorSpace(r):
		return stPossibleNext, false, nil
	case isBoundary(r):
		p.stream.Push(r)
		return stStart, false, nil
	case r == '>' || r == '+' || r == '~':
		p.stream.Push(r)
		return stPossibleNext, false, nil
	default:
		return 0, false, &Error{Kind: InvalidSelector, Pos: p.offset()}
	}
}

func (p *chainParser) stepPossibleEnd() (state, bool, error) {
	r, ok := p.stream.Next()
	switch {
	case !ok:
		return 0, true, nil
	case isBoundary(r):
		p.stream.Push(r)
		return stStart, false, nil
	case isSelectorSpace(r) || r == '>' || r == '+' || r == '~':
		p.stream.Push(r)
		return stPossibleNext, false, nil
	default:
		return 0, false, &Error{Kind: InvalidSelector, Pos: p.offset()}
	}
}

func (p *chainParser) stepPossibleNext() (state, bool, error) {
	r, ok := p.stream.Next()
	switch {
	case !ok:
		return 0, true, nil
	case isSelectorSpace(r):
		return stPossibleNext, false, nil
	case r == '>':
		if err := p.finishCompound(combChild); err != nil {
			return 0, false, err
		}
		return stCompulsoryNext, false, nil
	case r == '+':
		if err := p.finishCompound(combAdjacentSibling); err != nil {
			return 0, false, err
		}
		return stCompulsoryNext, false, nil
	case r == '~':
		if err := p.finishCompound(combGeneralSibling); err != nil {
			return 0, false, err
		}
		return stCompulsoryNext, false, nil
	default:
		if err := p.finishCompound(combDescendant); err != nil {
			return 0, false, err
		}
		p.stream.Push(r)
		return stStart, false, nil
	}
}

func (p *chainParser) stepCompulsoryNext() (state, error) {
	r, ok := p.stream.Next()
	switch {
	case !ok:
		return 0, &Error{Kind: InvalidSelector, Pos: p.offset()}
	case isSelectorSpace(r):
		return stCompulsoryNext, nil
	default:
		p.stream.Push(r)
		return stStart, nil
	}
}

// readGroupOperand consumes a balanced "(...)" group starting just after
// its opening paren has already been read, recursively parsing its
// contents as a nested Selector used as a single chain operand
// (SPEC_FULL.md §7's "(A, B) > C" enrichment).
func (p *chainParser) readGroupOperand() error {
	if len(p.cur.simples) > 0 || p.cur.group != nil {
		return &Error{Kind: InvalidSelector, Pos: p.offset()}
	}
	depth := 1
	var b strings.Builder
	for {
		r, ok := p.stream.Next()
		if !ok {
			return &Error{Kind: InvalidSelector, Pos: p.offset()}
		}
		if r == '(' {
			depth++
		}
		if r == ')' {
			depth--
			if depth == 0 {
				break
			}
		}
		b.WriteRune(r)
	}
	inner, err := parseAlternatives(b.String())
	if err != nil {
		return err
	}
	p.cur.group = &group{inner: inner}
	return nil
}

func (p *chainParser) emitTag() error {
	if p.cache.Len() == 0 {
		return &Error{Kind: InvalidSelector, Pos: p.offset()}
	}
	p.cur.simples = append(p.cur.simples, simple{kind: simTag, value: p.cache.String()})
	p.cache.Reset()
	return nil
}

func (p *chainParser) emitClass() error {
	if p.cache.Len() == 0 {
		return &Error{Kind: InvalidSelector, Pos: p.offset()}
	}
	p.cur.simples = append(p.cur.simples, simple{kind: simClass, value: p.cache.String()})
	p.cache.Reset()
	return nil
}

func (p *chainParser) emitID() error {
	if p.cache.Len() == 0 {
		return &Error{Kind: InvalidSelector, Pos: p.offset()}
	}
	if p.curHasID {
		return &Error{Kind: MultipleIds, Pos: p.offset()}
	}
	p.curHasID = true
	p.cur.simples = append(p.cur.simples, simple{kind: simID, value: p.cache.String()})
	p.cache.Reset()
	return nil
}

// finishCompound closes the compound currently being built as a chainStep
// linked to the previous one by p.pending, and sets nextCombinator as the
// relation the NEXT compound will be linked by.
func (p *chainParser) finishCompound(nextCombinator combinator) error {
	if len(p.cur.simples) == 0 && p.cur.group == nil {
		return &Error{Kind: InvalidSelector, Pos: p.offset()}
	}
	p.steps = append(p.steps, chainStep{combinator: p.pending, filter: p.cur.asFilter()})
	p.cur = compound{}
	p.curHasID = false
	p.pending = nextCombinator
	return nil
}

func (p *chainParser) finishAndReturn() ([]chainStep, error) {
	if len(p.cur.simples) == 0 && p.cur.group == nil {
		if len(p.steps) == 0 {
			return nil, &Error{Kind: EmptySelector, Pos: p.offset()}
		}
		return nil, &Error{Kind: InvalidSelector, Pos: p.offset()}
	}
	p.steps = append(p.steps, chainStep{combinator: p.pending, filter: p.cur.asFilter()})
	return p.steps, nil
}

func isSelectorSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\f', ' ', '\r':
		return true
	}
	return false
}

func isTagStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == '_' || r == '-'
}

func isTagChar(r rune) bool {
	return isTagStart(r) || (r >= '0' && r <= '9')
}

func isBoundary(r rune) bool {
	switch r {
	case '[', '.', '#':
		return true
	}
	return false
}
