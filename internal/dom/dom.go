// Package dom wraps a parsed HTML document so fragment injection and data
// binding operate on an explicit handle instead of a process-wide tree.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sentinel errors for document operations.
var (
	ErrElementNotFound = errors.New("element not found")
	ErrParse           = errors.New("failed to parse HTML")
)

// Document is a mutable HTML tree. All methods are safe for concurrent use;
// writes are serialized so only one mutation touches the tree at a time.
type Document struct {
	mu   sync.RWMutex
	root *html.Node
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// HasElement reports whether an element with the id exists.
func (d *Document) HasElement(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return findByID(d.root, id) != nil
}

// SetInnerHTML replaces the children of the element with the id by the
// parsed fragment. The tree is untouched when the element is missing or
// the fragment cannot be parsed.
func (d *Document) SetInnerHTML(id, markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := findByID(d.root, id)
	if el == nil {
		return fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}

	// Parse against a detached copy of the container so the live node is
	// not modified before parsing succeeds.
	parent := &html.Node{Type: html.ElementNode, Data: el.Data, DataAtom: el.DataAtom}
	if parent.DataAtom == 0 {
		parent.DataAtom = atom.Lookup([]byte(el.Data))
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return fmt.Errorf("%w: #%s: %v", ErrParse, id, err)
	}

	for c := el.FirstChild; c != nil; {
		next := c.NextSibling
		el.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		el.AppendChild(n)
	}
	return nil
}

// InnerHTML renders the children of the element with the id.
func (d *Document) InnerHTML(id string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	el := findByID(d.root, id)
	if el == nil {
		return "", fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}

	var buf bytes.Buffer
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// SetTextByClass sets the text content of every element carrying the class
// and returns how many elements were updated.
func (d *Document) SetTextByClass(class, text string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	matches := findByClass(d.root, class)
	for _, el := range matches {
		for c := el.FirstChild; c != nil; {
			next := c.NextSibling
			el.RemoveChild(c)
			c = next
		}
		el.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return len(matches)
}

// TextByClass returns the text content of every element carrying the class,
// in document order.
func (d *Document) TextByClass(class string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	matches := findByClass(d.root, class)
	texts := make([]string, 0, len(matches))
	for _, el := range matches {
		texts = append(texts, textContent(el))
	}
	return texts
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// findByID returns the first element whose id is id. An empty id matches
// nothing, not the first element without an id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	return findByIDIn(n, id)
}

func findByIDIn(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByIDIn(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findByClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && slices.Contains(strings.Fields(attr(n, "class")), class) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
