package htmlclean

import "strings"

// commonEntities are the named character references LooksLikeHTML
// recognizes. Unknown names are not treated as markup.
var commonEntities = map[string]bool{
	"amp": true, "lt": true, "gt": true, "quot": true, "apos": true,
	"nbsp": true, "shy": true, "zwj": true, "zwnj": true,
	"copy": true, "reg": true, "trade": true,
	"hellip": true, "mdash": true, "ndash": true, "bull": true, "middot": true,
	"laquo": true, "raquo": true, "lsquo": true, "rsquo": true, "ldquo": true, "rdquo": true,
	"times": true, "divide": true, "plusmn": true, "deg": true,
	"euro": true, "pound": true, "yen": true, "cent": true,
	"sect": true, "para": true, "frac12": true, "frac14": true, "frac34": true,
}

// LooksLikeHTML reports whether s appears to contain markup: a tag, a
// comment or doctype, or a character reference. It is a cheap,
// non-allocating heuristic meant to decide whether parsing is worth it,
// not a security boundary.
func LooksLikeHTML(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			if tagAt(s, i) {
				return true
			}
		case '&':
			if referenceAt(s, i) {
				return true
			}
		}
	}
	return false
}

// tagAt reports whether s[i] == '<' opens something tag-shaped:
// <name ...>, </name>, or <!...>.
func tagAt(s string, i int) bool {
	j := i + 1
	if j < len(s) && s[j] == '!' {
		return strings.IndexByte(s[j:], '>') >= 0
	}
	if j < len(s) && s[j] == '/' {
		j++
	}
	if j >= len(s) || !isASCIIAlpha(s[j]) {
		return false
	}
	for j < len(s) && isTagNameByte(s[j]) {
		j++
	}
	if j >= len(s) {
		return false
	}
	switch s[j] {
	case '>':
		return true
	case ' ', '\t', '\n', '\f', '\r', '/':
		return strings.IndexByte(s[j:], '>') >= 0
	}
	return false
}

// referenceAt reports whether s[i] == '&' starts a terminated character
// reference: &#123;, &#x7B; or a common named one.
func referenceAt(s string, i int) bool {
	j := i + 1
	if j < len(s) && s[j] == '#' {
		j++
		hex := j < len(s) && (s[j] == 'x' || s[j] == 'X')
		if hex {
			j++
		}
		start := j
		for j < len(s) && (isASCIIDigit(s[j]) || hex && isHexLetter(s[j])) {
			j++
		}
		return j > start && j < len(s) && s[j] == ';'
	}

	start := j
	for j < len(s) && j-start <= 8 && (isASCIIAlpha(s[j]) || isASCIIDigit(s[j])) {
		j++
	}
	return j > start && j < len(s) && s[j] == ';' && commonEntities[s[start:j]]
}

func isASCIIAlpha(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexLetter(c byte) bool {
	return 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isTagNameByte(c byte) bool {
	return isASCIIAlpha(c) || isASCIIDigit(c) || c == '-' || c == ':'
}
