// Package charstream implements the lazy, pushback-capable character
// iterator the tokenizer reads from: a rune stream with an unget queue and
// row/column locus tracking, ported from the original matrix/queue
// iterator pair (sleek_utils::MatrixIterator, sleek_utils::QueueIterator).
package charstream

import "github.com/dpotapov/htmlkit/dom"

// Stream is a forward iterator over the runes of a string, with pushback
// and locus tracking. The zero value is not usable; use New.
type Stream struct {
	runes []rune
	pos   int // index of the next rune in runes to read (if front is empty)

	front []rune // pushback queue; consumed before runes

	row, col int // locus of the next character to be consumed

	// rowLengths[i] is the column at which the newline ending row i+1 was
	// consumed, used by Left to retreat across a row boundary.
	rowLengths []int
}

// New returns a Stream over input, with the locus starting at (1, 1).
func New(input string) *Stream {
	return &Stream{
		runes: []rune(input),
		row:   1,
		col:   1,
	}
}

// Locus returns the position of the character about to be consumed.
func (s *Stream) Locus() dom.Position {
	return dom.Position{Row: s.row, Column: s.col}
}

// Push re-queues a rune so the next call to Next returns it. Pushes are
// FIFO relative to each other but always take priority over the
// underlying source (push(c) then push(d) yields c then d then resumes
// the source), matching the original QueueIterator semantics.
func (s *Stream) Push(r rune) {
	s.front = append(s.front, r)
}

// Next consumes and returns the next rune. The locus advances only when a
// rune is pulled fresh from the underlying source — replaying a pushed-back
// rune does not re-advance it, matching the original QueueIterator, whose
// pushback queue is served without ever calling back into the locus-
// tracking MatrixIterator underneath it. The second return value is false
// at end of input.
func (s *Stream) Next() (rune, bool) {
	if len(s.front) > 0 {
		r := s.front[0]
		s.front = s.front[1:]
		return r, true
	}
	if s.pos >= len(s.runes) {
		return 0, false
	}
	r := s.runes[s.pos]
	s.pos++
	s.advanceLocus(r)
	return r, true
}

// Peek returns the next rune without consuming it, or false at end of
// input. It never touches the locus or the pushback queue.
func (s *Stream) Peek() (rune, bool) {
	if len(s.front) > 0 {
		return s.front[0], true
	}
	if s.pos >= len(s.runes) {
		return 0, false
	}
	return s.runes[s.pos], true
}

func (s *Stream) advanceLocus(r rune) {
	if r == '\n' {
		s.rowLengths = append(s.rowLengths, s.col)
		s.row++
		s.col = 1
	} else {
		s.col++
	}
}

// Left retreats the *reported* locus by one column (or one row, across a
// newline boundary) without consuming from, or returning to, the
// underlying source. The attribute-value state uses this once, to
// classify an unquoted value's leading character by consuming it and then
// un-reporting the consumption so the main loop re-reads it in place.
func (s *Stream) Left() {
	if s.col > 1 {
		s.col--
		return
	}
	if len(s.rowLengths) == 0 {
		panic("charstream: Left called with no prior position to retreat to")
	}
	s.row--
	s.col = s.rowLengths[len(s.rowLengths)-1]
	s.rowLengths = s.rowLengths[:len(s.rowLengths)-1]
}

// TakeN consumes up to n runes and returns them collected into a string.
// It returns fewer than n runes at end of input.
func (s *Stream) TakeN(n int) string {
	out := make([]rune, 0, n)
	for i := 0; i < n; i++ {
		r, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, r)
	}
	return string(out)
}

// TakeWhile consumes runes while pred holds, pushing back the first rune
// that does not match (or doing nothing at end of input).
func (s *Stream) TakeWhile(pred func(rune) bool) string {
	return s.TakeUntil(func(r rune) bool { return !pred(r) })
}

// TakeUntil consumes runes until pred holds for one of them (that rune is
// pushed back, not consumed) or the input ends.
func (s *Stream) TakeUntil(pred func(rune) bool) string {
	var out []rune
	for {
		r, ok := s.Next()
		if !ok {
			break
		}
		if pred(r) {
			s.Push(r)
			break
		}
		out = append(out, r)
	}
	return string(out)
}

// SkipWhile discards runes while pred holds.
func (s *Stream) SkipWhile(pred func(rune) bool) {
	for {
		r, ok := s.Next()
		if !ok {
			return
		}
		if !pred(r) {
			s.Push(r)
			return
		}
	}
}
