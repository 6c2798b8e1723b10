package htmlclean

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ExtractText parses htmlStr and returns the concatenated text content
// with &, < and > escaped, so the result can be embedded as text. All
// markup, comments included, is discarded; no whitespace is added
// between elements.
func ExtractText(htmlStr string) string {
	nodes, err := parseFragment(strings.NewReader(htmlStr))
	if err != nil {
		// Only reader errors are possible, and a strings.Reader has none.
		return textEscaper.Replace(htmlStr)
	}
	return textOf(nodes)
}

// ExtractTextReader is ExtractText for an io.Reader.
func ExtractTextReader(r io.Reader) (string, error) {
	nodes, err := parseFragment(r)
	if err != nil {
		return "", err
	}
	return textOf(nodes), nil
}

func textOf(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		collectText(&b, n)
	}
	return textEscaper.Replace(b.String())
}

// collectText appends the text nodes below root in document order. It
// follows sibling and parent links instead of recursing, so input depth
// does not matter.
func collectText(b *strings.Builder, root *html.Node) {
	n := root
	for {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.FirstChild != nil {
			n = n.FirstChild
			continue
		}
		for n != root && n.NextSibling == nil {
			n = n.Parent
		}
		if n == root {
			return
		}
		n = n.NextSibling
	}
}

var strictEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
	"`", "&grave;",
	"/", "&#47;",
	"=", "&#61;",
	" ", "&#32;",
	"\t", "&#9;",
	"\n", "&#10;",
	"\f", "&#12;",
	"\r", "&#13;",
	"\x00", "&#65533;",
)

// EscapeText turns an arbitrary string into unformatted HTML. It
// encodes every character that has special meaning to the HTML parser,
// so the result is safe in text content and in quoted or unquoted
// attribute values alike.
func EscapeText(s string) string {
	return strictEscaper.Replace(s)
}
