package htmlclean

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// injectRel merges the policy's rel tokens into anchor-like elements
// that kept an href. The configured tokens come first, in configured
// order, followed by the element's own tokens not already present.
// Tokens compare case-insensitively. Elements without an href keep
// their rel attribute untouched.
func (s *Sanitizer) injectRel(el *html.Node) {
	if len(s.linkRel) == 0 || !anchorLike(el.Data) || !hasHref(el) {
		return
	}

	tokens := slices.Clone(s.linkRel)
	if existing, ok := GetAttr(el, "rel"); ok {
		for _, t := range strings.Fields(existing) {
			if !slices.ContainsFunc(tokens, func(k string) bool { return strings.EqualFold(k, t) }) {
				tokens = append(tokens, t)
			}
		}
	}
	SetAttr(el, "rel", strings.Join(tokens, " "))
}

// relTokens splits a LinkRel value into distinct tokens, keeping the
// first occurrence of each.
func relTokens(rel string) []string {
	var tokens []string
	for _, t := range strings.Fields(rel) {
		if !slices.ContainsFunc(tokens, func(k string) bool { return strings.EqualFold(k, t) }) {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func anchorLike(tag string) bool {
	switch tag {
	case "a", "area", "link":
		return true
	}
	return false
}

func hasHref(el *html.Node) bool {
	if _, ok := GetAttr(el, "href"); ok {
		return true
	}
	_, ok := GetAttr(el, "xlink:href")
	return ok
}
