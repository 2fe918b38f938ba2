package dom

import (
	"strings"

	"github.com/dpotapov/htmlkit/tag"
)

// Element is a tagged node with attributes and children. Equality is
// identity: two Elements are "the same" iff they are the same pointer.
type Element struct {
	Tag tag.Name

	attrs     map[string]*Attribute
	attrOrder []string
	classList []string

	children []Node

	OpenTagSpan  Span
	CloseTagSpan *Span

	parent *Element
}

// NewElement creates a detached element with the given tag name.
func NewElement(tagName string) *Element {
	return &Element{
		Tag:   tag.New(tagName),
		attrs: make(map[string]*Attribute),
	}
}

func (e *Element) isNode()               {}
func (e *Element) Parent() *Element      { return e.parent }
func (e *Element) setParent(p *Element)  { e.parent = p }

// TagName returns the normalized tag name (e.g. "div").
func (e *Element) TagName() string { return e.Tag.String() }

// ID returns the value of the "id" attribute, or "" if absent.
func (e *Element) ID() string {
	v, _ := e.Attribute("id")
	return v
}

// Attribute returns the named attribute's value and whether it is present.
// An attribute present with no value (e.g. bare `disabled`) returns ("", true).
func (e *Element) Attribute(name string) (string, bool) {
	a, ok := e.attrs[name]
	if !ok {
		return "", false
	}
	return a.ValueOrEmpty(), true
}

// AttributeValuePtr returns the raw *string (nil if the attribute has no
// value), preserving the spec's None/empty distinction for callers that
// need it.
func (e *Element) AttributeValuePtr(name string) (*string, bool) {
	a, ok := e.attrs[name]
	if !ok {
		return nil, false
	}
	return a.Value, true
}

// HasAttribute reports whether name is present on the element.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// Attributes returns the element's attributes in first-write order.
func (e *Element) Attributes() []Attribute {
	out := make([]Attribute, 0, len(e.attrOrder))
	for _, k := range e.attrOrder {
		out = append(out, *e.attrs[k])
	}
	return out
}

// SetAttributeFull sets an attribute with full control over value and
// quoting, as produced by the tokenizer. Later writes overwrite earlier
// ones under the same key; a write to "class" rebuilds the class list.
func (e *Element) SetAttributeFull(key string, value *string, qk QuoteKind) {
	if _, exists := e.attrs[key]; !exists {
		e.attrOrder = append(e.attrOrder, key)
	}
	e.attrs[key] = &Attribute{Key: key, Value: value, QuoteKind: qk}
	if key == "class" {
		e.rebuildClassList()
	}
}

// SetAttribute sets a string-valued attribute (double-quoted by
// convention), matching the §4.3 DOM-operation surface.
func (e *Element) SetAttribute(name, value string) {
	e.SetAttributeFull(name, StringValue(value), QuoteDouble)
}

// RemoveAttribute removes the named attribute, if present.
func (e *Element) RemoveAttribute(name string) {
	if _, ok := e.attrs[name]; !ok {
		return
	}
	delete(e.attrs, name)
	for i, k := range e.attrOrder {
		if k == name {
			e.attrOrder = append(e.attrOrder[:i], e.attrOrder[i+1:]...)
			break
		}
	}
	if name == "class" {
		e.classList = nil
	}
}

func (e *Element) rebuildClassList() {
	v, _ := e.Attribute("class")
	e.classList = splitClassTokens(v)
}

func splitClassTokens(v string) []string {
	if v == "" {
		return nil
	}
	fields := strings.Fields(v)
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// ClassList returns the ordered, de-duplicated whitespace-split tokens of
// the "class" attribute.
func (e *Element) ClassList() []string {
	out := make([]string, len(e.classList))
	copy(out, e.classList)
	return out
}

// ClassName returns the space-joined class list.
func (e *Element) ClassName() string {
	return strings.Join(e.classList, " ")
}

// HasClass reports whether name is present in the class list.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.classList {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends a class token and keeps the "class" attribute in sync.
func (e *Element) AddClass(name string) {
	e.classList = append(e.classList, name)
	if _, exists := e.attrs["class"]; !exists {
		e.attrOrder = append(e.attrOrder, "class")
	}
	e.attrs["class"] = &Attribute{Key: "class", Value: StringValue(e.ClassName()), QuoteKind: QuoteDouble}
}

// RemoveClass removes all occurrences of name from the class list and
// rewrites the "class" attribute to match.
func (e *Element) RemoveClass(name string) {
	filtered := e.classList[:0]
	for _, c := range e.classList {
		if c != name {
			filtered = append(filtered, c)
		}
	}
	e.classList = filtered
	if _, ok := e.attrs["class"]; ok {
		e.attrs["class"].Value = StringValue(e.ClassName())
	}
}

// Append adds child as the last child of e, updating its parent back-link.
// If child was already attached elsewhere, it is detached first (the
// single-parent-ownership invariant in spec.md §3).
func (e *Element) Append(child Node) {
	detach(child)
	e.children = append(e.children, child)
	child.setParent(e)
}

// Prepend adds child as the first child of e.
func (e *Element) Prepend(child Node) {
	detach(child)
	e.children = append([]Node{child}, e.children...)
	child.setParent(e)
}

// After inserts sibling immediately after e in e's parent's children. It is
// a programming error to call After on a node with no parent (spec.md §4.3).
func (e *Element) After(sibling Node) {
	if e.parent == nil {
		panic("dom: After called on an element with no parent")
	}
	e.parent.insertAfter(e, sibling)
}

func (e *Element) insertAfter(anchor Node, sibling Node) {
	detach(sibling)
	idx := e.indexOfNode(anchor)
	if idx < 0 {
		panic("dom: After anchor is not a child of its reported parent")
	}
	e.children = append(e.children, nil)
	copy(e.children[idx+2:], e.children[idx+1:])
	e.children[idx+1] = sibling
	sibling.setParent(e)
}

// Remove detaches child from e's children, clearing its parent back-link.
func (e *Element) Remove(child Node) {
	idx := e.indexOfNode(child)
	if idx < 0 {
		return
	}
	e.children = append(e.children[:idx], e.children[idx+1:]...)
	child.setParent(nil)
}

func (e *Element) indexOfNode(n Node) int {
	for i, c := range e.children {
		if c == n {
			return i
		}
	}
	return -1
}

// detach removes n from its current parent, if any, without affecting the
// new destination; it is called before Append/Prepend/After to preserve
// the single-parent invariant.
func detach(n Node) {
	p := n.Parent()
	if p == nil {
		return
	}
	p.Remove(n)
}

// ChildNodes returns all child nodes (elements, text, comments) in order.
func (e *Element) ChildNodes() []Node {
	out := make([]Node, len(e.children))
	copy(out, e.children)
	return out
}

// Children returns only the element children, in document order.
func (e *Element) Children() []*Element {
	var out []*Element
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// IndexOf returns the index of childElement among e's element children, or
// -1 if it is not a child.
func (e *Element) IndexOf(childElement *Element) int {
	for i, el := range e.Children() {
		if el == childElement {
			return i
		}
	}
	return -1
}

// TextContent recursively concatenates all text descendants, pre-order.
func (e *Element) TextContent() string {
	var b strings.Builder
	writeTextContent(&b, e.children)
	return b.String()
}

func writeTextContent(b *strings.Builder, children []Node) {
	for _, c := range children {
		switch n := c.(type) {
		case *TextNode:
			b.WriteString(n.Content)
		case *Element:
			writeTextContent(b, n.children)
		}
	}
}

// Contains reports whether other is a transitive descendant of e.
func (e *Element) Contains(other *Element) bool {
	for p := other.Parent(); p != nil; p = p.Parent() {
		if p == e {
			return true
		}
	}
	return false
}

// matchHook lets the selector package register itself as the engine behind
// Element.Matches without dom importing selector (which would cycle), the
// same registration pattern the standard library uses for database/sql
// drivers and image format decoders.
var matchHook func(e *Element, selector string) (bool, error)

// RegisterMatcher installs the selector engine's match function. Called
// from the selector package's init.
func RegisterMatcher(f func(*Element, string) (bool, error)) {
	matchHook = f
}

// Matches reports whether e satisfies the given CSS-like selector string.
func (e *Element) Matches(selector string) (bool, error) {
	if matchHook == nil {
		return false, errNoMatcherRegistered
	}
	return matchHook(e, selector)
}

var errNoMatcherRegistered = matcherNotRegisteredError{}

type matcherNotRegisteredError struct{}

func (matcherNotRegisteredError) Error() string {
	return "dom: no selector engine registered (import htmlkit/selector for its side effect)"
}
