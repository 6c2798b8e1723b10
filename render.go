package htmlclean

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
)

// render writes n and its descendants as HTML. Text is escaped except
// inside HTML raw text elements, whose content the parser never
// decodes; see literalText. Attribute values are always double-quoted.
func render(buf *bytes.Buffer, n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(buf, c)
		}

	case html.TextNode:
		if literalText(n) {
			buf.WriteString(n.Data)
		} else {
			buf.WriteString(textEscaper.Replace(n.Data))
		}

	case html.CommentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.Data)
		buf.WriteString("-->")

	case html.ElementNode:
		buf.WriteByte('<')
		buf.WriteString(n.Data)
		for _, a := range n.Attr {
			buf.WriteByte(' ')
			buf.WriteString(a.Key)
			buf.WriteString(`="`)
			buf.WriteString(attrEscaper.Replace(a.Val))
			buf.WriteByte('"')
		}
		buf.WriteByte('>')
		if n.Namespace == "" && isVoidElement(n.Data) {
			return
		}
		// The parser drops a newline directly after these start tags.
		if c := n.FirstChild; c != nil && c.Type == html.TextNode && strings.HasPrefix(c.Data, "\n") {
			switch n.Data {
			case "pre", "listing", "textarea":
				buf.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(buf, c)
		}
		buf.WriteString("</")
		buf.WriteString(n.Data)
		buf.WriteByte('>')
	}
}

func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"keygen", "link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

func isRawTextElement(tag string) bool {
	switch tag {
	case "iframe", "noembed", "noframes", "noscript", "plaintext", "script", "style", "xmp":
		return true
	}
	return false
}

// commentRoundTrips reports whether data, written as <!--data-->, parses
// back as that one comment. Parsed comments always do; built trees may not.
func commentRoundTrips(data string) bool {
	return !strings.HasPrefix(data, ">") && !strings.HasPrefix(data, "->") &&
		!strings.Contains(data, "-->") && !strings.Contains(data, "--!>") &&
		!strings.HasSuffix(data, "--!")
}
