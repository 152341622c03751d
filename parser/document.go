// Package parser turns fetched markup into a queryable HTML tree.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Document is a parsed HTML page. It is read-only after Parse and safe
// for concurrent queries.
type Document struct {
	doc *goquery.Document
	raw string
}

// Parse decodes body using the charset declared by contentType (or sniffed
// from the markup) and builds the tree. Malformed markup is recovered by
// the HTML5 parsing algorithm; Parse never fails.
func Parse(body []byte, contentType string) *Document {
	decoded := decode(body, contentType)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(decoded))
	if err != nil {
		slog.Warn("parser: tree construction failed, using empty document", "error", err)
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{doc: doc, raw: decoded}
}

// ParseString parses already-decoded markup.
func ParseString(markup string) *Document {
	return Parse([]byte(markup), "text/html; charset=utf-8")
}

func decode(body []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

// Raw returns the decoded markup the tree was built from.
func (d *Document) Raw() string { return d.raw }

// Root returns the document node.
func (d *Document) Root() *html.Node {
	if len(d.doc.Nodes) == 0 {
		return nil
	}
	return d.doc.Nodes[0]
}

// Find returns every element matching a CSS selector, in document order.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// FindMatcher returns every element matching a precompiled matcher.
func (d *Document) FindMatcher(m goquery.Matcher) *goquery.Selection {
	return d.doc.FindMatcher(m)
}

// Tag returns every element with the given tag name.
func (d *Document) Tag(name string) *goquery.Selection {
	sel, err := cascadia.Compile(name)
	if err != nil {
		return d.doc.FindNodes()
	}
	return d.doc.FindMatcher(sel)
}

// WithAttr returns every tag element carrying attr, whatever its value.
func (d *Document) WithAttr(tag, attr string) *goquery.Selection {
	sel, err := cascadia.Compile(fmt.Sprintf("%s[%s]", tag, attr))
	if err != nil {
		return d.doc.FindNodes()
	}
	return d.doc.FindMatcher(sel)
}

// WithAttrValue returns every tag element whose attr equals value exactly.
func (d *Document) WithAttrValue(tag, attr, value string) *goquery.Selection {
	return d.doc.FindMatcher(attrEquals{tag: tag, attr: attr, value: value})
}

// Text returns the concatenated text of the selection and its descendants.
func Text(s *goquery.Selection) string {
	return s.Text()
}

// Comments returns the text of every HTML comment node in document order.
func (d *Document) Comments() []string {
	comments := []string{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			comments = append(comments, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root := d.Root(); root != nil {
		walk(root)
	}
	return comments
}

// attrEquals matches elements by tag and exact attribute value without
// going through selector syntax, so values need no escaping.
type attrEquals struct {
	tag, attr, value string
}

func (m attrEquals) Match(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != m.tag {
		return false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == m.attr {
			return a.Val == m.value
		}
	}
	return false
}

// MatchAll returns n and its descendants that match, in document order.
func (m attrEquals) MatchAll(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if m.Match(c) {
			out = append(out, c)
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return out
}

func (m attrEquals) Filter(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		if m.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
