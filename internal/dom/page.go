// Package dom models a host page the widget is embedded into.
//
// A Page wraps a golang.org/x/net/html document. All mutation happens
// inside Mutate, which plays the role of the browser event loop: callbacks
// run one at a time, so check-then-act sequences need no further locking.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const blankDocument = `<!DOCTYPE html><html><head></head><body></body></html>`

// Page is a mutable HTML document plus its page-level style registry.
type Page struct {
	mu     sync.Mutex
	doc    *html.Node
	styles map[string]*html.Node
}

// NewPage returns an empty document with head and body.
func NewPage() *Page {
	p, err := ParsePage(strings.NewReader(blankDocument))
	if err != nil {
		panic(fmt.Sprintf("dom: parse blank document: %v", err))
	}
	return p
}

// ParsePage parses an existing host document.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{doc: doc, styles: make(map[string]*html.Node)}, nil
}

// Mutate runs fn with exclusive access to the document.
// Page methods other than Mutate, Render and String must be called from
// inside fn (or from a test that owns the page exclusively).
func (p *Page) Mutate(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

// Locker exposes the page lock to components that schedule their own
// updates, such as timers.
func (p *Page) Locker() sync.Locker {
	return &p.mu
}

// Document returns the root node.
func (p *Page) Document() *html.Node { return p.doc }

// Head returns the <head> element.
func (p *Page) Head() *html.Node {
	return FindFirst(p.doc, func(n *html.Node) bool { return n.DataAtom == atom.Head })
}

// Body returns the <body> element.
func (p *Page) Body() *html.Node {
	return FindFirst(p.doc, func(n *html.Node) bool { return n.DataAtom == atom.Body })
}

// GetElementByID returns the first element with the given id, or nil.
func (p *Page) GetElementByID(id string) *html.Node {
	return FindFirst(p.doc, func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return ok && v == id
	})
}

// Contains reports whether n is attached to this page's document.
func (p *Page) Contains(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == p.doc {
			return true
		}
	}
	return false
}

// Scripts returns every <script> element in document order.
func (p *Page) Scripts() []*html.Node {
	return FindAll(p.doc, func(n *html.Node) bool { return n.DataAtom == atom.Script })
}

// AppendScript adds <script src=src> to the end of body and returns it.
func (p *Page) AppendScript(src string) *html.Node {
	s := NewElement("script")
	SetAttr(s, "src", src)
	Append(p.Body(), s)
	return s
}

// EnsureStyle acquires the page-level stylesheet registered under id,
// creating it in <head> on first use. It reports whether a new element
// was inserted. A style element already present in the parsed document
// with the same id is adopted rather than duplicated.
func (p *Page) EnsureStyle(id, css string) (*html.Node, bool) {
	if n, ok := p.styles[id]; ok && p.Contains(n) {
		return n, false
	}
	if n := p.GetElementByID(id); n != nil {
		p.styles[id] = n
		return n, false
	}

	style := NewElement("style")
	SetAttr(style, "id", id)
	Append(style, Text(css))

	parent := p.Head()
	if parent == nil {
		parent = p.doc
	}
	Append(parent, style)
	p.styles[id] = style
	return style, true
}

// Render writes the document as HTML.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return html.Render(w, p.doc)
}

// String renders the document, returning "" on failure.
func (p *Page) String() string {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}
