package htmlclean

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// ErrAttributeFilter wraps every error returned by an AttributeFilter.
var ErrAttributeFilter = errors.New("htmlclean: attribute filter failed")

// AttributeFilter can veto or rewrite attributes that survived the
// policy's allowlist and URL checks. It is called synchronously, once
// per surviving attribute, from whichever goroutine runs Sanitize.
//
// Returning keep=false drops the attribute; otherwise value replaces
// the attribute's value verbatim. An error aborts sanitization.
type AttributeFilter interface {
	FilterAttribute(tag, attr, value string) (newValue string, keep bool, err error)
}

// AttributeFilterFunc adapts a function to the AttributeFilter
// interface.
type AttributeFilterFunc func(tag, attr, value string) (string, bool, error)

// FilterAttribute calls f(tag, attr, value).
func (f AttributeFilterFunc) FilterAttribute(tag, attr, value string) (string, bool, error) {
	return f(tag, attr, value)
}

// filterAttrs returns the attributes of a kept tag that survive, in
// source order, with lowercased names. Only the first occurrence of a
// repeated attribute is considered, as browsers do.
func (s *Sanitizer) filterAttrs(tag string, attrs []html.Attribute) ([]html.Attribute, error) {
	var out []html.Attribute
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		name := attrName(a)
		if seen[name] {
			continue
		}
		seen[name] = true
		val, keep, err := s.decideAttr(tag, name, a.Val)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, html.Attribute{Key: name, Val: val})
		}
	}
	return out, nil
}

// decideAttr runs one attribute through the allowlist, the URL rules,
// the class and style reducers and finally the AttributeFilter.
func (s *Sanitizer) decideAttr(tag, name, val string) (string, bool, error) {
	if !s.attrAllowed(tag, name, val) {
		return "", false, nil
	}

	if rule, ok := s.urls[name]; ok {
		v, ok := rule.check(val, s.base)
		if !ok {
			return "", false, nil
		}
		val = v
	}

	switch name {
	case "class":
		if allowed, ok := s.classes[tag]; ok {
			val = filterClasses(val, allowed)
			if val == "" {
				return "", false, nil
			}
		}
	case "style":
		if s.styleProps != nil {
			val = filterStyle(val, s.styleProps)
		}
	}

	if s.filter == nil {
		return val, true, nil
	}
	v, keep, err := s.filter.FilterAttribute(tag, name, val)
	if err != nil {
		return "", false, fmt.Errorf("%w: <%s %s>: %w", ErrAttributeFilter, tag, name, err)
	}
	return v, keep, nil
}

func (s *Sanitizer) attrAllowed(tag, name, val string) bool {
	if s.attrs["*"][name] || s.attrs[tag][name] {
		return true
	}
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	if name == "class" && s.classes[tag] != nil {
		return true
	}
	return s.attrValues[tag][name][val]
}

// filterClasses keeps the class names present in allowed, in source
// order, without duplicates.
func filterClasses(val string, allowed map[string]bool) string {
	var kept []string
	for _, c := range strings.Fields(val) {
		if allowed[c] && !slices.Contains(kept, c) {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, " ")
}

// attrName is the lookup name of a: lowercased, with foreign attributes
// qualified by their namespace prefix (xlink:href).
func attrName(a html.Attribute) string {
	if a.Namespace != "" {
		return strings.ToLower(a.Namespace + ":" + a.Key)
	}
	return strings.ToLower(a.Key)
}
