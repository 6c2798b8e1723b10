package htmlclean

import (
	"net/url"
	"strings"
)

type urlRule struct {
	schemes      map[string]bool
	denyRelative bool
}

// check reports whether raw is acceptable under r and returns the value
// to keep. Whitespace and control characters are ignored when looking
// for the scheme so "java\tscript:" is seen as "javascript:". Values
// that do not parse are rejected.
func (r urlRule) check(raw string, base *url.URL) (string, bool) {
	u, err := url.Parse(stripURLNoise(raw))
	if err != nil {
		return "", false
	}
	if u.Scheme != "" {
		return raw, r.schemes[strings.ToLower(u.Scheme)]
	}
	if r.denyRelative {
		return "", false
	}
	if base != nil {
		return base.ResolveReference(u).String(), true
	}
	return raw, true
}

// stripURLNoise removes ASCII whitespace and control characters, which
// browsers skip or tolerate in URL schemes.
func stripURLNoise(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
