package htmltoken

import "github.com/dpotapov/htmlkit/dom"

// This file implements the eight tokenizer states from spec.md §4.2, each
// ported from the corresponding arm of the original tokenizer's state
// machine (sleek_parser/src/html/tokenizer/state.rs): Data, OpeningTag,
// ClosingTag, AttributeName, AttributeValue, Comment, BogusComment and
// Doctype. Every step function returns the next state and whether
// tokenizing is finished.

func (t *Tokenizer) pushAttrName(r rune)  { t.attrName.WriteRune(r) }
func (t *Tokenizer) pushAttrValue(r rune) {
	t.attrHasValue = true
	t.attrValue.WriteRune(r)
}

func (t *Tokenizer) stepData() (state, bool) {
	r, ok := t.stream.Next()
	if !ok {
		t.emitText()
		return stData, true
	}
	if r == '<' {
		t.emitText()
		t.markStart()
		return stOpeningTag, false
	}
	if r == 0 {
		t.diagChar(InvalidCharacter, r)
		return stData, false
	}
	t.startIfNeeded()
	t.push(r)
	return stData, false
}

func (t *Tokenizer) stepOpeningTag() (state, bool) {
	r, ok := t.stream.Next()
	if !ok {
		t.diag(UnexpectedEndOfInput)
		t.push('<')
		t.emitText()
		return stData, true
	}

	switch {
	case r == '/':
		if t.empty() {
			return stClosingTag, false
		}
		// Open tag is possibly self-closing: skip whitespace, looking for '>'.
		for {
			ch, ok := t.stream.Next()
			switch {
			case !ok:
				t.clear()
				t.diag(UnexpectedEndOfInput)
				return stData, false
			case isHTMLSpace(ch):
				continue
			case ch == '>':
				t.emitOpening(true)
				return stData, false
			default:
				t.diagChar(UnexpectedCharacter, ch)
				t.stream.Push(ch)
				return stAttributeName, false
			}
		}

	case r == '!':
		if !t.empty() {
			t.push('!')
			return stOpeningTag, false
		}
		return t.stepOpeningTagBang()

	case r == '>':
		if t.empty() {
			t.push('<')
			t.stream.Push('>')
			t.diagChar(UnexpectedCharacter, '>')
			return stData, false
		}
		t.emitOpening(false)
		return stData, false

	case isASCIIAlpha(r) || isASCIIDigit(r) || r == '-':
		if t.empty() && isASCIIDigit(r) {
			t.diagChar(UnexpectedCharacter, r)
			t.push('<')
			t.push(r)
			return stData, false
		}
		t.push(toLowerASCII(r))
		return stOpeningTag, false

	case isHTMLSpace(r):
		if t.empty() {
			t.push('<')
			t.stream.Push(r)
			t.diagChar(UnexpectedCharacter, r)
			return stData, false
		}
		t.stream.Push(r)
		return stAttributeName, false

	default:
		// Invalid character inside a tag name; skip it.
		return stOpeningTag, false
	}
}

// stepOpeningTagBang handles what follows "<!" when no tag name has
// started yet: a comment, a doctype, or a bogus comment.
func (t *Tokenizer) stepOpeningTagBang() (state, bool) {
	r, ok := t.stream.Next()
	if !ok {
		t.emitComment()
		t.diag(UnexpectedEndOfInput)
		return stData, true
	}
	switch {
	case r == '-':
		r2, ok2 := t.stream.Next()
		switch {
		case ok2 && r2 == '-':
			return stComment, false
		case ok2:
			t.push('-')
			t.push(r2)
			t.diagChar(UnexpectedCharacter, r2)
			return stComment, false
		default:
			t.push('-')
			t.emitComment()
			t.diag(UnexpectedEndOfInput)
			return stData, true
		}
	case r == 'd' || r == 'D':
		value := t.stream.TakeN(6)
		if eqFoldASCII(value, "octype") {
			return stDoctype, false
		}
		t.push(r)
		t.pushStr(value)
		t.diagChar(UnexpectedCharacter, r)
		return stComment, false
	default:
		t.push(r)
		t.diagChar(UnexpectedCharacter, r)
		return stBogusComment, false
	}
}

func eqFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	ar, br := []rune(a), []rune(b)
	for i := range ar {
		if toLowerASCII(ar[i]) != toLowerASCII(br[i]) {
			return false
		}
	}
	return true
}

func (t *Tokenizer) stepClosingTag() (state, bool) {
	r, ok := t.stream.Next()
	if !ok {
		t.diag(UnexpectedEndOfInput)
		return stData, true
	}
	switch {
	case isHTMLSpace(r):
		if t.empty() {
			t.diag(ExpectedTagName)
			return stData, false
		}
		return stClosingTag, false
	case isASCIIAlpha(r) || isASCIIDigit(r) || r == '-':
		if t.empty() && isASCIIDigit(r) {
			t.diagChar(UnexpectedCharacter, r)
			t.stream.Push(r)
			t.markStart()
			return stBogusComment, false
		}
		t.push(toLowerASCII(r))
		return stClosingTag, false
	case r == '>':
		if t.empty() {
			t.diag(ExpectedTagName)
		} else {
			t.emitClosing()
		}
		return stData, false
	default:
		t.diagChar(UnexpectedCharacter, r)
		for {
			ch, ok := t.stream.Next()
			if !ok {
				// No closing '>' ever arrived; stop rather than spin forever.
				return stData, true
			}
			if ch == '>' {
				return stData, false
			}
		}
	}
}

func (t *Tokenizer) stepAttributeName() (state, bool) {
	for {
		r, ok := t.stream.Next()
		switch {
		case !ok:
			t.diag(UnexpectedEndOfInput)
			t.clear()
			return stData, true
		case isHTMLSpace(r):
			// Whitespace always ends the current attribute name (with or
			// without a value to follow): collect whatever was scanned,
			// then let the next call to this state pick up the attribute
			// that follows, or the end of the attribute list.
			t.stream.SkipWhile(isHTMLSpace)
			if ch, ok := t.stream.Next(); ok {
				t.stream.Push(ch)
			} else {
				t.diag(UnexpectedEndOfInput)
				t.clear()
				return stData, true
			}
			if t.attrName.Len() > 0 {
				t.collectAttribute(dom.QuoteNone)
			}
			return stAttributeName, false
		case r == '=':
			return stAttributeValue, false
		case r == '>' || r == '/':
			t.stream.Push(r)
			if t.attrName.Len() > 0 {
				t.collectAttribute(dom.QuoteNone)
			}
			return stOpeningTag, false
		default:
			t.pushAttrName(r)
		}
	}
}

func (t *Tokenizer) stepAttributeValue() (state, bool) {
	quote := dom.QuoteNone
	r, ok := t.stream.Next()
	switch {
	case ok && r == '\'':
		quote = dom.QuoteSingle
	case ok && r == '"':
		quote = dom.QuoteDouble
	case ok:
		if r == '<' {
			t.diagChar(UnexpectedCharacter, r)
		}
		t.stream.Push(r)
		t.stream.Left()
	default:
		t.diag(UnexpectedEndOfInput)
		return stData, true
	}

	ended := false
gather:
	for {
		r, ok := t.stream.Next()
		switch {
		case ok && r == '\'' && quote == dom.QuoteSingle:
			break gather
		case ok && r == '"' && quote == dom.QuoteDouble:
			break gather
		case ok && isHTMLSpace(r) && quote == dom.QuoteNone:
			break gather
		case ok && (r == '>' || r == '/') && quote == dom.QuoteNone:
			t.stream.Push(r)
			break gather
		case ok:
			t.pushAttrValue(r)
		default:
			ended = true
			break gather
		}
	}

	if ended {
		t.diag(UnexpectedEndOfInput)
	} else {
		t.collectAttribute(quote)
	}
	return stAttributeName, false
}

func (t *Tokenizer) stepComment() (state, bool) {
	closed := false
loop:
	for {
		r, ok := t.stream.Next()
		if !ok {
			break loop
		}
		if r != '-' {
			t.push(r)
			continue
		}
		r2, ok2 := t.stream.Next()
		if !ok2 {
			t.push('-')
			break loop
		}
		if r2 != '-' {
			t.push('-')
			t.push(r2)
			continue
		}
		r3, ok3 := t.stream.Next()
		if ok3 && r3 == '>' {
			closed = true
			break loop
		}
		if ok3 {
			t.pushStr("--")
			t.push(r3)
			continue
		}
		t.pushStr("--")
		break loop
	}
	if !closed {
		t.diag(UnclosedComment)
	}
	t.emitComment()
	return stData, false
}

func (t *Tokenizer) stepBogusComment() (state, bool) {
	for {
		r, ok := t.stream.Next()
		if !ok || r == '>' {
			break
		}
		t.push(r)
	}
	t.emitComment()
	return stData, false
}

func (t *Tokenizer) stepDoctype() (state, bool) {
	ended := false

	if r, ok := t.stream.Next(); ok {
		if !isHTMLSpace(r) {
			t.stream.Push(r)
			t.diagChar(UnexpectedCharacter, r)
		} else {
			t.stream.SkipWhile(isHTMLSpace)
		}
	} else {
		ended = true
	}

	root := t.stream.TakeUntil(func(r rune) bool { return isHTMLSpace(r) || r == '>' })
	t.stream.SkipWhile(isHTMLSpace)

	identifier := dom.IdentifierNone
	forceQuirks := false

	r, ok := t.stream.Next()
	switch {
	case ok && r == '>':
		if root == "" {
			forceQuirks = true
		}
	case ok && (r == 'p' || r == 'P' || r == 's' || r == 'S'):
		rest := t.stream.TakeN(5)
		name := string(r) + rest
		switch {
		case eqFoldASCII(name, "system"):
			identifier = dom.IdentifierSystem
		case eqFoldASCII(name, "public"):
			identifier = dom.IdentifierPublic
		default:
			t.diag(IndecipherableDocType)
			forceQuirks = true
			t.skipThrough('>')
		}
	case ok:
		t.diag(IndecipherableDocType)
		forceQuirks = true
		t.skipThrough('>')
	default:
		ended = true
	}

	t.emitDoctype(root, identifier, forceQuirks)
	if ended {
		t.diag(UnexpectedEndOfInput)
		return stData, true
	}
	return stData, false
}
