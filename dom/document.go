package dom

import "strings"

// Document is the top-level owner of a parsed tree's root-level nodes
// (elements, text, comments, a doctype). It has no parent and After is a
// programming error on it, just as it is on a parentless element.
type Document struct {
	nodes []Node
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Append adds n as the last top-level node.
func (d *Document) Append(n Node) {
	detach(n)
	d.nodes = append(d.nodes, n)
	n.setParent(nil)
}

// Prepend adds n as the first top-level node.
func (d *Document) Prepend(n Node) {
	detach(n)
	d.nodes = append([]Node{n}, d.nodes...)
	n.setParent(nil)
}

// After always panics: the document root has no parent to insert a
// following sibling into (spec.md §4.3).
func (d *Document) After(Node) {
	panic("dom: After called on the document root")
}

// Remove detaches n from the document's top-level nodes.
func (d *Document) Remove(n Node) {
	for i, c := range d.nodes {
		if c == n {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			return
		}
	}
}

// ChildNodes returns every top-level node in document order.
func (d *Document) ChildNodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Children returns only the top-level element nodes.
func (d *Document) Children() []*Element {
	var out []*Element
	for _, n := range d.nodes {
		if el, ok := n.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// TextContent recursively concatenates all text descendants, pre-order.
func (d *Document) TextContent() string {
	var b strings.Builder
	writeTextContent(&b, d.nodes)
	return b.String()
}

// Doctype returns the document's doctype node, if one was parsed.
func (d *Document) Doctype() *DoctypeNode {
	for _, n := range d.nodes {
		if dt, ok := n.(*DoctypeNode); ok {
			return dt
		}
	}
	return nil
}
