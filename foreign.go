package htmlclean

import (
	"strings"

	"golang.org/x/net/html"
)

// elementNamespace returns the namespace the parser gives el when the
// output is parsed again. It follows from el's parent in the output,
// not from where el sat in the input: unwrapping <svg> or <math> moves
// their children back into HTML.
func elementNamespace(parent, el *html.Node) string {
	if parent.Type != html.ElementNode || parent.Namespace == "" || htmlIntegrationPoint(parent, el.Data) {
		switch el.Data {
		case "svg", "math":
			return el.Data
		}
		return ""
	}
	if parent.Namespace == "math" && parent.Data == "annotation-xml" && el.Data == "svg" {
		return "svg"
	}
	if breaksOutOfForeignContent(el) {
		return ""
	}
	return parent.Namespace
}

// htmlIntegrationPoint reports whether a child tag of parent is parsed
// with HTML rules although parent is a foreign element.
func htmlIntegrationPoint(parent *html.Node, tag string) bool {
	switch parent.Namespace {
	case "math":
		switch parent.Data {
		case "mi", "mo", "mn", "ms", "mtext":
			return tag != "mglyph" && tag != "malignmark"
		case "annotation-xml":
			enc, _ := GetAttr(parent, "encoding")
			enc = strings.ToLower(enc)
			return enc == "text/html" || enc == "application/xhtml+xml"
		}
	case "svg":
		switch parent.Data {
		case "foreignobject", "desc", "title":
			return true
		}
	}
	return false
}

// breaksOutOfForeignContent reports whether the parser closes open
// foreign elements when it meets el's start tag.
func breaksOutOfForeignContent(el *html.Node) bool {
	switch el.Data {
	case "b", "big", "blockquote", "body", "br", "center", "code", "dd", "div", "dl", "dt",
		"em", "embed", "h1", "h2", "h3", "h4", "h5", "h6", "head", "hr", "i", "img", "li",
		"listing", "menu", "meta", "nobr", "ol", "p", "pre", "ruby", "s", "small", "span",
		"strong", "strike", "sub", "sup", "table", "tt", "u", "ul", "var":
		return true
	case "font":
		for _, key := range []string{"color", "face", "size"} {
			if _, ok := GetAttr(el, key); ok {
				return true
			}
		}
	}
	return false
}

// literalText reports whether text node n may be written without
// escaping: its parent must be an HTML raw text element, and n must not
// contain anything that would end that element early.
func literalText(n *html.Node) bool {
	p := n.Parent
	if p == nil || p.Type != html.ElementNode || p.Namespace != "" || !isRawTextElement(p.Data) {
		return false
	}
	return !endsRawText(n.Data, p.Data)
}

// endsRawText reports whether text, written raw inside a tag element,
// could close it or switch the tokenizer out of raw text.
func endsRawText(text, tag string) bool {
	if tag == "script" && strings.Contains(text, "<!--") {
		return true
	}
	for i := 0; ; {
		j := strings.Index(text[i:], "</")
		if j < 0 {
			return false
		}
		i += j + 2
		if len(text)-i >= len(tag) && strings.EqualFold(text[i:i+len(tag)], tag) {
			return true
		}
	}
}
