package htmlclean

import (
	"bytes"
	"io"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MaxDepth bounds how deeply nested an element may be. Elements nested
// deeper are dropped together with their subtree.
const MaxDepth = 512

// Sanitizer is a compiled Policy. It is immutable and safe for
// concurrent use.
type Sanitizer struct {
	tags         map[string]bool
	attrs        map[string]map[string]bool
	prefixes     []string
	attrValues   map[string]map[string]map[string]bool
	setAttrs     map[string][]html.Attribute
	classes      map[string]map[string]bool
	styleProps   map[string]bool
	urls         map[string]urlRule
	base         *url.URL
	cleanContent map[string]bool
	keepComments bool
	linkRel      []string
	filter       AttributeFilter
}

// decision is the fate of one element, computed once during traversal.
type decision int

const (
	decisionKeep decision = iota
	decisionUnwrap
	decisionDropSubtree
)

// New compiles p into a Sanitizer. If p is nil, DefaultPolicy is used.
func New(p *Policy) *Sanitizer {
	if p == nil {
		p = DefaultPolicy()
	}

	s := &Sanitizer{
		tags:         sliceToSet(p.AllowedTags),
		attrs:        make(map[string]map[string]bool, len(p.AllowedAttributes)),
		cleanContent: sliceToSet(p.CleanContentTags),
		keepComments: p.KeepComments,
		linkRel:      relTokens(p.LinkRel),
		filter:       p.AttributeFilter,
	}
	for tag, attrs := range p.AllowedAttributes {
		s.attrs[strings.ToLower(tag)] = sliceToSet(attrs)
	}
	for _, prefix := range p.AllowedAttributePrefixes {
		if prefix != "" {
			s.prefixes = append(s.prefixes, strings.ToLower(prefix))
		}
	}
	if len(p.AllowedAttributeValues) > 0 {
		s.attrValues = make(map[string]map[string]map[string]bool, len(p.AllowedAttributeValues))
		for tag, attrs := range p.AllowedAttributeValues {
			m := make(map[string]map[string]bool, len(attrs))
			for attr, values := range attrs {
				set := make(map[string]bool, len(values))
				for _, v := range values {
					set[v] = true
				}
				m[strings.ToLower(attr)] = set
			}
			s.attrValues[strings.ToLower(tag)] = m
		}
	}
	if len(p.SetAttributes) > 0 {
		s.setAttrs = make(map[string][]html.Attribute, len(p.SetAttributes))
		for tag, attrs := range p.SetAttributes {
			list := make([]html.Attribute, 0, len(attrs))
			for k, v := range attrs {
				list = append(list, html.Attribute{Key: strings.ToLower(k), Val: v})
			}
			slices.SortFunc(list, func(a, b html.Attribute) int {
				return strings.Compare(a.Key, b.Key)
			})
			s.setAttrs[strings.ToLower(tag)] = list
		}
	}
	if len(p.AllowedClasses) > 0 {
		s.classes = make(map[string]map[string]bool, len(p.AllowedClasses))
		for tag, classes := range p.AllowedClasses {
			set := make(map[string]bool, len(classes))
			for _, c := range classes {
				set[c] = true
			}
			s.classes[strings.ToLower(tag)] = set
		}
	}
	if p.AllowedStyleProperties != nil {
		s.styleProps = sliceToSet(p.AllowedStyleProperties)
	}

	rules := p.URLSchemes
	if rules == nil {
		rules = DefaultURLSchemes()
	}
	s.urls = make(map[string]urlRule, len(rules))
	for attr, r := range rules {
		s.urls[strings.ToLower(attr)] = urlRule{
			schemes:      sliceToSet(r.Schemes),
			denyRelative: r.DenyRelative,
		}
	}
	if p.BaseURL != nil {
		u := *p.BaseURL
		s.base = &u
	}
	return s
}

// Sanitize parses htmlStr as a body fragment, applies p, and returns
// the sanitized HTML. If p is nil, DefaultPolicy is used.
func Sanitize(htmlStr string, p *Policy) (string, error) {
	return New(p).Sanitize(htmlStr)
}

// SanitizeReader reads HTML from r, applies p, and returns the
// sanitized HTML string.
func SanitizeReader(r io.Reader, p *Policy) (string, error) {
	return New(p).SanitizeReader(r)
}

// Sanitize parses htmlStr as a body fragment and returns the sanitized
// HTML. The only possible error comes from the AttributeFilter.
func (s *Sanitizer) Sanitize(htmlStr string) (string, error) {
	return s.SanitizeReader(strings.NewReader(htmlStr))
}

// SanitizeReader reads an HTML fragment from r and returns the
// sanitized HTML.
func (s *Sanitizer) SanitizeReader(r io.Reader) (string, error) {
	nodes, err := parseFragment(r)
	if err != nil {
		return "", err
	}

	out := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		if err := s.walk(out, n, 1); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	render(&buf, out)
	return buf.String(), nil
}

// SanitizeTree sanitizes the tree rooted at root and returns a new
// document node holding the result. root is not modified. A document
// root contributes only its children.
func (s *Sanitizer) SanitizeTree(root *html.Node) (*html.Node, error) {
	out := &html.Node{Type: html.DocumentNode}
	if err := s.walk(out, root, 1); err != nil {
		return nil, err
	}
	return out, nil
}

// walk appends the sanitized form of n to parent. depth counts the
// elements enclosing n in the input, n included.
func (s *Sanitizer) walk(parent, n *html.Node, depth int) error {
	switch n.Type {
	case html.TextNode:
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: n.Data})

	case html.CommentNode:
		if s.keepComments && commentRoundTrips(n.Data) {
			parent.AppendChild(&html.Node{Type: html.CommentNode, Data: n.Data})
		}

	case html.DocumentNode:
		return s.walkChildren(parent, n, depth)

	case html.ElementNode:
		if depth > MaxDepth {
			return nil
		}
		tag := strings.ToLower(n.Data)
		switch s.decide(tag) {
		case decisionDropSubtree:
			return nil
		case decisionUnwrap:
			return s.walkChildren(parent, n, depth+1)
		}

		attrs, err := s.filterAttrs(tag, n.Attr)
		if err != nil {
			return err
		}
		el := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Lookup([]byte(tag)),
			Data:     tag,
			Attr:     attrs,
		}
		for _, a := range s.setAttrs[tag] {
			SetAttr(el, a.Key, a.Val)
		}
		s.injectRel(el)
		el.Namespace = elementNamespace(parent, el)
		parent.AppendChild(el)
		return s.walkChildren(el, n, depth+1)

	default:
		// doctype and raw nodes never reach the output
	}
	return nil
}

func (s *Sanitizer) walkChildren(parent, n *html.Node, depth int) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := s.walk(parent, c, depth); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sanitizer) decide(tag string) decision {
	switch {
	case s.tags[tag]:
		return decisionKeep
	case s.cleanContent[tag]:
		return decisionDropSubtree
	}
	return decisionUnwrap
}

// parseFragment parses r the way a browser parses innerHTML assigned to
// a <body> element.
func parseFragment(r io.Reader) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	return html.ParseFragment(r, context)
}

// SetAttr sets (or adds) the attribute key=val on node n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// GetAttr returns the value of the named attribute on n and whether it
// is present.
func GetAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func sliceToSet(s []string) map[string]bool {
	m := make(map[string]bool, len(s))
	for _, v := range s {
		m[strings.ToLower(v)] = true
	}
	return m
}
