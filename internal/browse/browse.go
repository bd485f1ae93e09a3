package browse

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a handle to one element on the current page.
type Element struct {
	sel *goquery.Selection
}

// NewElement wraps a goquery selection
func NewElement(sel *goquery.Selection) Element {
	return Element{sel: sel}
}

// Attr returns the value of the named attribute on the element itself.
func (e Element) Attr(name string) (string, bool) {
	if e.sel == nil {
		return "", false
	}
	return e.sel.Attr(name)
}

// Text returns the combined inner text of the element.
func (e Element) Text() string {
	if e.sel == nil {
		return ""
	}
	return e.sel.Text()
}

// Find returns the first sub-element matching selector.
func (e Element) Find(selector string) Element {
	if e.sel == nil {
		return Element{}
	}
	return Element{sel: e.sel.Find(selector).First()}
}

// Exists reports whether the handle points at an actual element.
func (e Element) Exists() bool {
	return e.sel != nil && e.sel.Length() > 0
}

// FetchFunc retrieves raw page content for a URL.
type FetchFunc func(ctx context.Context, url string) (io.Reader, error)

// Session is one browsing session: strictly sequential navigation plus
// element queries against the current page. A session is never shared
// across concurrent merchant runs.
type Session interface {
	Navigate(ctx context.Context, url string) error
	QueryAll(selector string) []Element
	Root() Element
	Location() string
}

// PageSession implements Session on top of a pluggable fetch function and a
// goquery document of the current page.
type PageSession struct {
	fetch FetchFunc
	doc   *goquery.Document
	url   string
}

// NewSession creates a session backed by the given fetch function
func NewSession(fetch FetchFunc) *PageSession {
	return &PageSession{fetch: fetch}
}

// Navigate fetches the URL and replaces the current page.
func (s *PageSession) Navigate(ctx context.Context, url string) error {
	body, err := s.fetch(ctx, url)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return fmt.Errorf("parse %s: %w", url, err)
	}

	s.doc = doc
	s.url = url
	return nil
}

// QueryAll returns handles to every element on the current page matching
// selector. Before the first navigation it returns nothing.
func (s *PageSession) QueryAll(selector string) []Element {
	if s.doc == nil || strings.TrimSpace(selector) == "" {
		return nil
	}

	var elements []Element
	s.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		elements = append(elements, Element{sel: sel})
	})
	return elements
}

// Root returns a handle to the current page's document root.
func (s *PageSession) Root() Element {
	if s.doc == nil {
		return Element{}
	}
	return Element{sel: s.doc.Selection}
}

// Location returns the URL of the current page.
func (s *PageSession) Location() string {
	return s.url
}
