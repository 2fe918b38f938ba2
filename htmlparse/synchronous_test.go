package htmlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/htmlkit/dom"
	"github.com/dpotapov/htmlkit/htmltoken"
)

func TestParseSynchronousBuildsNestedTree(t *testing.T) {
	res := ParseSynchronous(`<div id="a"><p>hello <b>world</b></p></div>`, nil)
	require.Empty(t, res.Diagnostics)

	children := res.Document.Children()
	require.Len(t, children, 1)

	div := children[0]
	assert.Equal(t, "div", div.TagName())
	assert.Equal(t, "a", div.ID())

	p := div.Children()[0]
	assert.Equal(t, "p", p.TagName())
	assert.Equal(t, "hello world", p.TextContent())

	b := p.Children()[0]
	assert.Equal(t, "b", b.TagName())
	assert.Same(t, p, b.Parent())
}

func TestParseSynchronousVoidElementHasNoChildrenPushed(t *testing.T) {
	res := ParseSynchronous(`<div><img src="a.png">after</div>`, nil)
	div := res.Document.Children()[0]
	require.Len(t, div.ChildNodes(), 2)

	img, ok := div.ChildNodes()[0].(*dom.Element)
	require.True(t, ok)
	assert.Equal(t, "img", img.TagName())
	assert.Empty(t, img.ChildNodes())

	text, ok := div.ChildNodes()[1].(*dom.TextNode)
	require.True(t, ok)
	assert.Equal(t, "after", text.Content)
}

func TestParseSynchronousStrayCloseTagIsDiscarded(t *testing.T) {
	res := ParseSynchronous(`<div></span></div>`, nil)

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, htmltoken.UnexpectedCloseTag, res.Diagnostics[0].Kind)
	assert.Equal(t, "span", res.Diagnostics[0].TagName)

	div := res.Document.Children()[0]
	assert.Equal(t, "div", div.TagName())
	assert.Empty(t, div.Children())
}

func TestParseSynchronousUnclosedTagAtEOF(t *testing.T) {
	res := ParseSynchronous(`<div><p>no closing tags`, nil)

	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == htmltoken.UnclosedTag {
			found = true
			assert.Equal(t, "p", d.TagName)
		}
	}
	assert.True(t, found, "expected an UnclosedTag diagnostic for <p>")
}

func TestParseSynchronousVoidElementEndTagDiagnostic(t *testing.T) {
	res := ParseSynchronous(`<br></br>`, nil)

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, htmltoken.VoidElementEndTag, res.Diagnostics[0].Kind)
	assert.Equal(t, "br", res.Diagnostics[0].TagName)
}

func TestParseSynchronousDoctypeAttachesAtRoot(t *testing.T) {
	res := ParseSynchronous(`<!DOCTYPE html><html></html>`, nil)

	dt := res.Document.Doctype()
	require.NotNil(t, dt)
	assert.Equal(t, "html", dt.RootName)

	require.Len(t, res.Document.Children(), 1)
	assert.Equal(t, "html", res.Document.Children()[0].TagName())
}
