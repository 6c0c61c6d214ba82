// Package dom implements the toast backend interfaces over an HTML tree.
// It is used for headless rendering and as the reference backend in tests.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/toasty/internal/toast"
)

// DefaultPage is a minimal page carrying the toast markup with the default identifiers.
const DefaultPage = `<!DOCTYPE html>
<html>
<head><title>toasty</title></head>
<body>
<div class="toast-container position-fixed top-0 end-0 p-3">
<div id="toast" class="toast align-items-center" role="alert" aria-live="assertive" aria-atomic="true">
<div class="d-flex">
<div id="toast-body" class="toast-body"></div>
<button type="button" class="btn-close me-2 m-auto" data-bs-dismiss="toast" aria-label="Close"></button>
</div>
</div>
</div>
</body>
</html>
`

// Document is a parsed HTML document.
type Document struct {
	root *html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML document held in s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// NewDefaultDocument parses DefaultPage.
func NewDefaultDocument() *Document {
	doc, err := ParseString(DefaultPage)
	if err != nil {
		// DefaultPage is a constant; the HTML parser accepts any input
		panic(err)
	}
	return doc
}

// ElementByID returns the first element whose id attribute equals id.
func (d *Document) ElementByID(id string) (toast.Element, bool) {
	el := d.Find(id)
	if el == nil {
		return nil, false
	}
	return el, true
}

// Find is ElementByID returning the concrete type, or nil.
func (d *Document) Find(id string) *Element {
	if id == "" {
		return nil
	}
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	return &Element{node: found}
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String returns the rendered document.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// walk visits nodes depth-first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Element wraps an element node.
type Element struct {
	node *html.Node
}

// ID returns the element's id attribute.
func (e *Element) ID() string {
	return attr(e.node, "id")
}

// Classes returns the class list in document order.
func (e *Element) Classes() []string {
	return strings.Fields(attr(e.node, "class"))
}

// HasClass reports whether class is present.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.Classes(), class)
}

// AddClass appends classes that are not already present.
func (e *Element) AddClass(classes ...string) {
	list := e.Classes()
	for _, c := range classes {
		if c != "" && !slices.Contains(list, c) {
			list = append(list, c)
		}
	}
	e.setClasses(list)
}

// RemoveClass drops the given classes if present.
func (e *Element) RemoveClass(classes ...string) {
	list := slices.DeleteFunc(e.Classes(), func(c string) bool {
		return slices.Contains(classes, c)
	})
	e.setClasses(list)
}

func (e *Element) setClasses(list []string) {
	setAttr(e.node, "class", strings.Join(list, " "))
}

// SetText replaces all children with a single text node.
// The HTML renderer escapes it, so markup in text is shown literally.
func (e *Element) SetText(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	if text == "" {
		return
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	var sb strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		return true
	})
	return sb.String()
}

// ChildElementCount returns the number of element children.
func (e *Element) ChildElementCount() int {
	count := 0
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}
