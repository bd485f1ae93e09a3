package extract

import (
	"strings"

	"boradedesconto/offerworker/internal/browse"
)

// Strategy is one independent extraction attempt against a page element.
// Strategies are pure: same element, same result.
type Strategy func(browse.Element) string

// Resolve evaluates strategies in order and returns the first result that is
// non-empty after trimming. Strict first-match-wins: once a strategy
// succeeds, later ones are not evaluated. Returns "" when all fail; callers
// decide fallback or rejection.
func Resolve(el browse.Element, strategies []Strategy) string {
	for _, strategy := range strategies {
		if strategy == nil {
			continue
		}
		if result := strings.TrimSpace(strategy(el)); result != "" {
			return result
		}
	}
	return ""
}

// Attr reads an attribute of the element itself.
func Attr(name string) Strategy {
	return func(el browse.Element) string {
		value, _ := el.Attr(name)
		return value
	}
}

// Text reads the inner text of the element itself.
func Text() Strategy {
	return func(el browse.Element) string {
		return el.Text()
	}
}

// ChildAttr reads an attribute of the first sub-element matching selector.
func ChildAttr(selector, name string) Strategy {
	return func(el browse.Element) string {
		child := el.Find(selector)
		if !child.Exists() {
			return ""
		}
		value, _ := child.Attr(name)
		return value
	}
}

// ChildText reads the inner text of the first sub-element matching selector.
func ChildText(selector string) Strategy {
	return func(el browse.Element) string {
		child := el.Find(selector)
		if !child.Exists() {
			return ""
		}
		return child.Text()
	}
}

// Map post-processes a strategy's result. An empty result stays empty, and a
// transform returning "" counts as failure so the resolver can move on.
func Map(strategy Strategy, transform func(string) string) Strategy {
	return func(el browse.Element) string {
		result := strings.TrimSpace(strategy(el))
		if result == "" {
			return ""
		}
		return transform(result)
	}
}
