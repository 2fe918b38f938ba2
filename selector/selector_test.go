package selector_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/htmlkit/htmlparse"
	"github.com/dpotapov/htmlkit/selector"
)

func parseTree(t *testing.T, src string) *htmlparse.Result {
	t.Helper()
	res := htmlparse.ParseSynchronous(src, nil)
	require.Empty(t, res.Diagnostics)
	return &res
}

// TestMatchesScenario6 is spec.md §8 scenario 6: a compound id+class+attr
// selector against the innermost element of a three-level chain.
func TestMatchesScenario6(t *testing.T) {
	res := parseTree(t, `<div class="container"><button id="button-1" class="bg-transparent"><span class="text-red-500" title="Click Me!">Click</span></button></div>`)

	div := res.Document.Children()[0]
	button := div.Children()[0]
	span := button.Children()[0]

	ok, err := selector.Matches(span, `#button-1 .text-red-500[title]`)
	require.NoError(t, err)
	assert.True(t, ok)

	_ = button
}

// TestMatchesScenario7 is spec.md §8 scenario 7: a child combinator.
func TestMatchesScenario7(t *testing.T) {
	res := parseTree(t, `<div class="container"><button id="button-1"><span>x</span></button></div>`)

	div := res.Document.Children()[0]
	button := div.Children()[0]
	span := button.Children()[0]

	ok, err := selector.Matches(button, `div > button`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = selector.Matches(span, `div > button`)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestMultipleIdsRejected is spec.md §8 scenario 8.
func TestMultipleIdsRejected(t *testing.T) {
	_, err := selector.Parse(`#a#b`)
	require.Error(t, err)

	var selErr *selector.Error
	require.True(t, errors.As(err, &selErr))
	assert.Equal(t, selector.MultipleIds, selErr.Kind)
}

func TestEmptySelectorRejected(t *testing.T) {
	_, err := selector.Parse(``)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &selector.Error{Kind: selector.EmptySelector}))
}

func TestInvalidTagLeadingDigitRejected(t *testing.T) {
	_, err := selector.Parse(`1div`)
	require.Error(t, err)

	var selErr *selector.Error
	require.True(t, errors.As(err, &selErr))
	assert.Equal(t, selector.InvalidTag, selErr.Kind)
}

func TestUniversalMatchesEveryElement(t *testing.T) {
	res := parseTree(t, `<div><p>a</p><span>b</span></div>`)
	div := res.Document.Children()[0]

	all, err := selector.QuerySelectorAll(res.Document, `*`)
	require.NoError(t, err)
	assert.Len(t, all, 3) // div, p, span

	ok, err := selector.Matches(div, `*`)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDescendantCombinatorWalksFullAncestry(t *testing.T) {
	res := parseTree(t, `<section><article><div><p>deep</p></div></article></section>`)
	p := res.Document.Children()[0].Children()[0].Children()[0].Children()[0]

	ok, err := selector.Matches(p, `section p`)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAdjacentSiblingCombinator(t *testing.T) {
	res := parseTree(t, `<ul><li class="one">1</li><li class="two">2</li><li class="three">3</li></ul>`)
	items := res.Document.Children()[0].Children()

	ok, err := selector.Matches(items[1], `.one + .two`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = selector.Matches(items[2], `.one + .three`)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGeneralSiblingCombinator(t *testing.T) {
	res := parseTree(t, `<ul><li class="one">1</li><li class="two">2</li><li class="three">3</li></ul>`)
	items := res.Document.Children()[0].Children()

	ok, err := selector.Matches(items[2], `.one ~ .three`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = selector.Matches(items[0], `.one ~ .three`)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGroupMatchesAnyAlternative(t *testing.T) {
	res := parseTree(t, `<div><p class="a">x</p><span class="b">y</span><em class="c">z</em></div>`)
	p, span, em := res.Document.Children()[0].Children()[0], res.Document.Children()[0].Children()[1], res.Document.Children()[0].Children()[2]

	matches, err := selector.QuerySelectorAll(res.Document, `.a, .b`)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Same(t, p, matches[0])
	assert.Same(t, span, matches[1])

	ok, err := selector.Matches(em, `.a, .b`)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGroupComposesWithChildCombinator(t *testing.T) {
	res := parseTree(t, `<section><div><p>a</p></div></section><article><p>b</p></article><aside><p>c</p></aside>`)
	divP := res.Document.Children()[0].Children()[0]
	articleP := res.Document.Children()[1].Children()[0]
	asideP := res.Document.Children()[2].Children()[0]

	ok, err := selector.Matches(divP, `(div, article) > p`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = selector.Matches(articleP, `(div, article) > p`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = selector.Matches(asideP, `(div, article) > p`)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAttributeValueMatchingSupportsQuotedWhitespace(t *testing.T) {
	res := parseTree(t, `<span title="Click Me!">hi</span>`)
	span := res.Document.Children()[0]

	ok, err := selector.Matches(span, `[title="Click Me!"]`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = selector.Matches(span, `[title='Click Me!']`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = selector.Matches(span, `[title=nope]`)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetElementByIDAndByClassAndByTagName(t *testing.T) {
	res := parseTree(t, `<div id="root"><p class="note">one</p><p class="note">two</p></div>`)

	root := selector.GetElementByID(res.Document, "root")
	require.NotNil(t, root)

	notes := selector.GetElementsByClassName(res.Document, "note")
	assert.Len(t, notes, 2)

	ps := selector.GetElementsByTagName(res.Document, "p")
	assert.Len(t, ps, 2)
}

func TestQuerySelectorReturnsFirstPreOrderMatch(t *testing.T) {
	res := parseTree(t, `<div><p class="x">first</p><section><p class="x">second</p></section></div>`)

	found, err := selector.QuerySelector(res.Document, `.x`)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "first", found.TextContent())
}
