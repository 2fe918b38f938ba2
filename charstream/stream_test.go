package charstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAdvancesLocus(t *testing.T) {
	s := New("ab\ncd")

	r, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, 'a', r)
	assert.Equal(t, 1, s.Locus().Row)
	assert.Equal(t, 2, s.Locus().Column)

	s.Next() // b
	s.Next() // \n
	assert.Equal(t, 2, s.Locus().Row)
	assert.Equal(t, 1, s.Locus().Column)
}

func TestPushReturnsBeforeSourceInFIFOOrder(t *testing.T) {
	s := New("xy")

	s.Next() // consumes 'x'
	s.Push('1')
	s.Push('2')

	r1, _ := s.Next()
	r2, _ := s.Next()
	r3, _ := s.Next()

	assert.Equal(t, []rune{'1', '2', 'y'}, []rune{r1, r2, r3})
}

func TestLeftRetreatsReportedLocusWithoutReconsuming(t *testing.T) {
	s := New("ab")

	s.Next() // 'a', locus now at col 2
	assert.Equal(t, 2, s.Locus().Column)

	s.Left()
	assert.Equal(t, 1, s.Locus().Column)

	r, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, 'b', r)
}

func TestLeftAcrossRowBoundary(t *testing.T) {
	s := New("a\nb")

	s.Next() // 'a'
	s.Next() // '\n', locus now row 2 col 1
	require.Equal(t, 2, s.Locus().Row)
	require.Equal(t, 1, s.Locus().Column)

	s.Left()
	assert.Equal(t, 1, s.Locus().Row)
	assert.Equal(t, 2, s.Locus().Column)
}

func TestSkipWhileAndTakeUntil(t *testing.T) {
	s := New("   hello, world")
	s.SkipWhile(func(r rune) bool { return r == ' ' })
	word := s.TakeUntil(func(r rune) bool { return r == ',' })
	assert.Equal(t, "hello", word)

	r, _ := s.Next()
	assert.Equal(t, ',', r)
}

func TestEndOfInputNeverFails(t *testing.T) {
	s := New("")
	_, ok := s.Next()
	assert.False(t, ok)
	_, ok = s.Peek()
	assert.False(t, ok)
}

func TestPeekIsTransparent(t *testing.T) {
	s := New("ab")
	r, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, 'a', r)
	assert.Equal(t, 1, s.Locus().Column)

	r, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, 'a', r)
}
