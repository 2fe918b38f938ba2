package selector

import (
	"golang.org/x/text/unicode/norm"

	"github.com/dpotapov/htmlkit/dom"
)

// simpleKind discriminates the five recognized simple patterns (spec.md
// §4.5): Universal, Tag, Class, Id, Attribute.
type simpleKind int

const (
	simUniversal simpleKind = iota
	simTag
	simClass
	simID
	simAttribute
)

// simple is one un-combined predicate within a compound selector (e.g. the
// ".box" in "div.box#a"), mirroring SelectorPattern's leaf variants from
// the original's pattern.rs.
type simple struct {
	kind  simpleKind
	value string  // tag name / class name / id / attribute key
	attrV *string // attribute value, nil for a bare [attr] test
}

// match evaluates one simple against e, ported from Selector::compare's
// per-pattern arms in the original mod.rs.
func (s simple) match(e *dom.Element) bool {
	switch s.kind {
	case simUniversal:
		return true
	case simTag:
		return e.TagName() == s.value
	case simClass:
		return e.HasClass(s.value)
	case simID:
		return e.ID() == s.value
	case simAttribute:
		v, ok := e.Attribute(s.value)
		if !ok {
			return false
		}
		if s.attrV == nil {
			return true
		}
		return normalizeAttr(v) == normalizeAttr(*s.attrV)
	}
	return false
}

// normalizeAttr NFC-normalizes an attribute value before comparison, the
// way browsers compare attribute strings (SPEC_FULL.md §6), so "café"
// written with a combining acute matches one written with the precomposed
// codepoint.
func normalizeAttr(v string) string {
	return norm.NFC.String(v)
}

// compound is a set of simples ANDed together with no combinator between
// them (e.g. "div.box#a[href]"). group is set instead of simples when the
// compound is a single parenthesized "(A, B)" operand.
type compound struct {
	simples []simple
	group   *group
}

func (c compound) match(e *dom.Element) bool {
	for _, s := range c.simples {
		if !s.match(e) {
			return false
		}
	}
	return true
}

// combinator is the relation connecting a chainStep to the step before it.
type combinator int

const (
	combNone combinator = iota // only valid on chain[0]
	combDescendant
	combChild
	combAdjacentSibling
	combGeneralSibling
)

// filter is whatever a chainStep matches against: a plain compound, or a
// parenthesized group standing in as a single operand (SPEC_FULL.md §7's
// "(A, B) > C" enrichment, grounded on the original's comment that Group
// composes arbitrarily with descendant/child relations).
type filter interface {
	match(e *dom.Element) bool
}

func (c compound) asFilter() filter {
	if c.group != nil {
		return *c.group
	}
	return c
}

// chainStep is one link of a combinator chain. combinator describes the
// relation between this step and the preceding one; chain[0].combinator is
// always combNone.
type chainStep struct {
	combinator combinator
	filter     filter
}

// Selector is a parsed selector: one or more alternative chains (a
// top-level "," union), each chain a left-to-right sequence of compound
// selectors joined by combinators.
type Selector struct {
	alternatives [][]chainStep
}

func (s *Selector) match(e *dom.Element) bool {
	for _, chain := range s.alternatives {
		if matchChain(chain, len(chain)-1, e) {
			return true
		}
	}
	return false
}

// Matches reports whether e satisfies s, per spec.md §4.6.
func (s *Selector) Matches(e *dom.Element) bool {
	if e == nil {
		return false
	}
	return s.match(e)
}

// matchChain evaluates chain[idx] against e, then (if idx > 0) the
// relation to chain[idx-1], exactly per spec.md §4.6's five combinator
// descriptions.
func matchChain(chain []chainStep, idx int, e *dom.Element) bool {
	if !chain[idx].filter.match(e) {
		return false
	}
	if idx == 0 {
		return true
	}
	switch chain[idx].combinator {
	case combDescendant:
		for p := e.Parent(); p != nil; p = p.Parent() {
			if matchChain(chain, idx-1, p) {
				return true
			}
		}
		return false
	case combChild:
		p := e.Parent()
		return p != nil && matchChain(chain, idx-1, p)
	case combAdjacentSibling:
		prev := previousElementSibling(e)
		return prev != nil && matchChain(chain, idx-1, prev)
	case combGeneralSibling:
		p := e.Parent()
		if p == nil {
			return false
		}
		for _, sib := range p.Children() {
			if sib == e {
				break
			}
			if matchChain(chain, idx-1, sib) {
				return true
			}
		}
		return false
	}
	return false
}

// previousElementSibling returns the element-type sibling immediately
// preceding e among its parent's children, or nil if e is first or has no
// parent, per §4.6's "adjacent sibling" description.
func previousElementSibling(e *dom.Element) *dom.Element {
	p := e.Parent()
	if p == nil {
		return nil
	}
	siblings := p.Children()
	for i, sib := range siblings {
		if sib == e {
			if i == 0 {
				return nil
			}
			return siblings[i-1]
		}
	}
	return nil
}

// group is a parenthesized alternation used as a single chainStep operand,
// e.g. the "(A, B)" in "(A, B) > C". It delegates to an inner Selector so
// nested groups and combinators compose freely.
type group struct {
	inner *Selector
}

func (g group) match(e *dom.Element) bool { return g.inner.match(e) }
