package browser

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrElementNotFound is returned when a selector matches nothing.
var ErrElementNotFound = errors.New("element not found")

// Session navigates to pages. Each call returns a snapshot of the page so
// the caller can read the DOM without holding the session.
type Session interface {
	Navigate(ctx context.Context, target string) (*Page, error)
}

// Page is a parsed document and the URL it was loaded from.
type Page struct {
	URL string
	doc *goquery.Document
}

// Element is a single matched node.
type Element struct {
	page *Page
	sel  *goquery.Selection
}

func NewPage(pageURL string, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Page{URL: pageURL, doc: doc}, nil
}

func (p *Page) Find(selector string) (*Element, error) {
	return find(p, p.doc.Selection, selector)
}

func (p *Page) FindAll(selector string) []*Element {
	return findAll(p, p.doc.Selection, selector)
}

// Resolve turns href into an absolute URL relative to the page.
func (p *Page) Resolve(href string) string {
	return absoluteURL(p.URL, href)
}

func (e *Element) Find(selector string) (*Element, error) {
	return find(e.page, e.sel, selector)
}

func (e *Element) FindAll(selector string) []*Element {
	return findAll(e.page, e.sel, selector)
}

// Children returns the element's direct children matching selector.
func (e *Element) Children(selector string) []*Element {
	var out []*Element
	e.sel.ChildrenFiltered(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{page: e.page, sel: s})
	})
	return out
}

// Text is the rendered text with whitespace collapsed.
func (e *Element) Text() string {
	return strings.Join(strings.Fields(e.sel.Text()), " ")
}

func (e *Element) Attr(name string) (string, bool) {
	value, ok := e.sel.Attr(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// Href returns the absolute target of the element's href, if any.
func (e *Element) Href() string {
	href, ok := e.Attr("href")
	if !ok || href == "" {
		return ""
	}
	return e.page.Resolve(href)
}

// HTML returns the element's inner HTML.
func (e *Element) HTML() (string, error) {
	return e.sel.Html()
}

func find(page *Page, sel *goquery.Selection, selector string) (*Element, error) {
	match := sel.Find(selector).First()
	if match.Length() == 0 {
		return nil, ErrElementNotFound
	}
	return &Element{page: page, sel: match}, nil
}

func findAll(page *Page, sel *goquery.Selection, selector string) []*Element {
	var out []*Element
	sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{page: page, sel: s})
	})
	return out
}

func absoluteURL(base string, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

type timeoutSession struct {
	next    Session
	timeout time.Duration
}

// WithTimeout bounds every navigation on next by timeout.
func WithTimeout(next Session, timeout time.Duration) Session {
	if timeout <= 0 {
		return next
	}
	return &timeoutSession{next: next, timeout: timeout}
}

func (s *timeoutSession) Navigate(ctx context.Context, target string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Navigate(ctx, target)
}
