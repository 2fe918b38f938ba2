// Package selector implements the CSS-like selector parser and matcher:
// a second character-driven state machine (spec.md §4.5) producing a
// Selector tree, plus pre-order depth-first traversal helpers (§4.6).
package selector

import "github.com/dpotapov/htmlkit/dom"

func init() {
	dom.RegisterMatcher(matchHook)
}

// matchHook is the function dom.Element.Matches delegates to, installed at
// package init the way database/sql drivers and image decoders register
// themselves.
func matchHook(e *dom.Element, selector string) (bool, error) {
	sel, err := Parse(selector)
	if err != nil {
		return false, err
	}
	return sel.Matches(e), nil
}

// Matches reports whether element satisfies selector, per spec.md §4.6.
func Matches(element *dom.Element, selector string) (bool, error) {
	return matchHook(element, selector)
}

// walk calls visit for every element descendant of root, in pre-order
// depth-first document order, stopping early if visit returns false.
func walk(root interface{ Children() []*dom.Element }, visit func(*dom.Element) bool) bool {
	for _, child := range root.Children() {
		if !visit(child) {
			return false
		}
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

// QuerySelector returns the first element descendant of root (pre-order
// depth-first) matching selector, or nil if none does.
func QuerySelector(root interface{ Children() []*dom.Element }, selector string) (*dom.Element, error) {
	sel, err := Parse(selector)
	if err != nil {
		return nil, err
	}
	var found *dom.Element
	walk(root, func(e *dom.Element) bool {
		if sel.Matches(e) {
			found = e
			return false
		}
		return true
	})
	return found, nil
}

// QuerySelectorAll returns every element descendant of root matching
// selector, in pre-order depth-first document order.
func QuerySelectorAll(root interface{ Children() []*dom.Element }, selector string) ([]*dom.Element, error) {
	sel, err := Parse(selector)
	if err != nil {
		return nil, err
	}
	var out []*dom.Element
	walk(root, func(e *dom.Element) bool {
		if sel.Matches(e) {
			out = append(out, e)
		}
		return true
	})
	return out, nil
}

// GetElementByID returns the first element descendant of root whose "id"
// attribute equals id, or nil if none does.
func GetElementByID(root interface{ Children() []*dom.Element }, id string) *dom.Element {
	var found *dom.Element
	walk(root, func(e *dom.Element) bool {
		if e.ID() == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// GetElementsByClassName returns every element descendant of root whose
// class list contains name.
func GetElementsByClassName(root interface{ Children() []*dom.Element }, name string) []*dom.Element {
	var out []*dom.Element
	walk(root, func(e *dom.Element) bool {
		if e.HasClass(name) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// GetElementsByTagName returns every element descendant of root whose tag
// name equals name.
func GetElementsByTagName(root interface{ Children() []*dom.Element }, name string) []*dom.Element {
	var out []*dom.Element
	walk(root, func(e *dom.Element) bool {
		if e.TagName() == name {
			out = append(out, e)
		}
		return true
	})
	return out
}
