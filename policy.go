package htmlclean

import (
	"maps"
	"net/url"
	"slices"
	"strings"
)

// DefaultLinkRel is the rel value DefaultPolicy enforces on links.
const DefaultLinkRel = "noopener noreferrer"

// URLRule restricts the values a URL-bearing attribute may carry.
type URLRule struct {
	// Schemes lists the permitted URI schemes. Comparison is
	// case-insensitive.
	Schemes []string

	// DenyRelative rejects values without a scheme, protocol-relative
	// references ("//host/path") included.
	DenyRelative bool
}

// Policy defines what HTML is considered safe.
//
// A Policy is plain data: any tag or attribute name is accepted, and
// names that never occur in input simply never match. Empty allowlists
// are maximally restrictive. Policies are read by [New]; mutating a
// Policy afterwards does not affect Sanitizers built from it.
type Policy struct {
	// AllowedTags is the list of tag names that are kept in output.
	AllowedTags []string

	// AllowedAttributes maps tag names to the list of attribute names
	// that are kept on that tag. Use "*" as a key to allow attributes
	// on every tag.
	AllowedAttributes map[string][]string

	// AllowedAttributePrefixes allows every attribute whose name starts
	// with one of the prefixes, on every tag (e.g. "data-").
	AllowedAttributePrefixes []string

	// AllowedAttributeValues allows tag/attribute pairs only when the
	// value is one of the listed values, even if the attribute is not
	// otherwise allowed.
	AllowedAttributeValues map[string]map[string][]string

	// SetAttributes forces attribute values onto kept elements,
	// replacing whatever survived filtering.
	SetAttributes map[string]map[string]string

	// AllowedClasses reduces the class attribute of the keyed tags to
	// the listed class names. A tag listed here may carry a class
	// attribute even if AllowedAttributes does not mention it.
	AllowedClasses map[string][]string

	// AllowedStyleProperties reduces style attributes to the listed CSS
	// properties. Nil leaves allowed style attributes untouched.
	// Property values are not inspected.
	AllowedStyleProperties []string

	// URLSchemes maps URL-bearing attribute names to the rule their
	// values must satisfy. A nil map selects DefaultURLSchemes; use an
	// empty map to disable URL checks altogether.
	URLSchemes map[string]URLRule

	// BaseURL, when set, resolves every surviving relative URL against
	// it.
	BaseURL *url.URL

	// CleanContentTags lists disallowed tags whose whole subtree,
	// including text, is removed instead of unwrapped. Tags that are
	// also in AllowedTags are kept.
	CleanContentTags []string

	// KeepComments keeps comment nodes verbatim. Comments are stripped
	// by default, and a comment whose text would not parse back as the
	// same comment is always stripped.
	KeepComments bool

	// LinkRel is a whitespace-separated list of rel tokens enforced on
	// a, area and link elements that keep an href. Empty disables
	// injection.
	LinkRel string

	// AttributeFilter is consulted for every attribute that passed the
	// checks above. Its output is trusted and not re-validated.
	AttributeFilter AttributeFilter
}

var defaultTags = []string{
	"a", "abbr", "acronym", "area", "article", "aside",
	"b", "bdi", "bdo", "blockquote", "br",
	"caption", "center", "cite", "code", "col", "colgroup",
	"data", "dd", "del", "details", "dfn", "div", "dl", "dt",
	"em",
	"figcaption", "figure", "footer",
	"h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr",
	"i", "img", "ins",
	"kbd",
	"li",
	"map", "mark",
	"nav",
	"ol",
	"p", "pre",
	"q",
	"rp", "rt", "rtc", "ruby",
	"s", "samp", "small", "span", "strike", "strong", "sub", "summary", "sup",
	"table", "tbody", "td", "tfoot", "th", "thead", "time", "tr", "tt",
	"u", "ul",
	"var",
	"wbr",
}

var defaultAttributes = map[string][]string{
	"*":          {"lang", "title"},
	"a":          {"href", "hreflang"},
	"bdo":        {"dir"},
	"blockquote": {"cite"},
	"col":        {"align", "char", "charoff", "span"},
	"colgroup":   {"align", "char", "charoff", "span"},
	"del":        {"cite", "datetime"},
	"hr":         {"align", "size", "width"},
	"img":        {"align", "alt", "height", "src", "width"},
	"ins":        {"cite", "datetime"},
	"ol":         {"start"},
	"q":          {"cite"},
	"table":      {"align", "char", "charoff", "summary"},
	"tbody":      {"align", "char", "charoff"},
	"td":         {"align", "char", "charoff", "colspan", "headers", "rowspan"},
	"tfoot":      {"align", "char", "charoff"},
	"th":         {"align", "char", "charoff", "colspan", "headers", "rowspan", "scope"},
	"thead":      {"align", "char", "charoff"},
	"tr":         {"align", "char", "charoff"},
}

var defaultSchemes = []string{
	"bitcoin", "ftp", "ftps", "geo", "http", "https", "im", "irc",
	"ircs", "magnet", "mailto", "mms", "mx", "news", "nntp",
	"openpgp4fpr", "sip", "sms", "smsto", "ssh", "tel", "url",
	"webcal", "wtai", "xmpp",
}

var defaultURLAttributes = []string{
	"action", "cite", "formaction", "href", "longdesc", "poster", "src", "xlink:href",
}

// DefaultTags returns a copy of the tags allowed by DefaultPolicy.
func DefaultTags() []string {
	return slices.Clone(defaultTags)
}

// DefaultAttributes returns a copy of the attribute allowlist used by
// DefaultPolicy, including the "*" entry for global attributes.
func DefaultAttributes() map[string][]string {
	m := make(map[string][]string, len(defaultAttributes))
	for tag, attrs := range defaultAttributes {
		m[tag] = slices.Clone(attrs)
	}
	return m
}

// DefaultSchemes returns a copy of the URI schemes DefaultPolicy allows
// in URL attributes.
func DefaultSchemes() []string {
	return slices.Clone(defaultSchemes)
}

// DefaultURLSchemes returns the URL rules used by DefaultPolicy: every
// known URL attribute accepts DefaultSchemes and relative references.
func DefaultURLSchemes() map[string]URLRule {
	m := make(map[string]URLRule, len(defaultURLAttributes))
	for _, attr := range defaultURLAttributes {
		m[attr] = URLRule{Schemes: DefaultSchemes()}
	}
	return m
}

// DefaultPolicy returns a Policy that allows a common safe subset of
// HTML used in content: headings, paragraphs, formatting, lists, links,
// images and tables. Links get rel="noopener noreferrer". Disallowed
// tags are unwrapped, so the text of a <script> survives as escaped
// text; add it to CleanContentTags to remove it instead.
func DefaultPolicy() *Policy {
	return &Policy{
		AllowedTags:       DefaultTags(),
		AllowedAttributes: DefaultAttributes(),
		URLSchemes:        DefaultURLSchemes(),
		LinkRel:           DefaultLinkRel,
	}
}

// StrictPolicy returns a Policy that allows only the most basic inline
// formatting tags with no attributes at all, suitable for comment
// sections. Script-like elements are removed with their content.
func StrictPolicy() *Policy {
	return &Policy{
		AllowedTags:       []string{"b", "i", "em", "strong", "br", "p", "ul", "ol", "li"},
		AllowedAttributes: map[string][]string{},
		URLSchemes: map[string]URLRule{
			"href": {Schemes: []string{"https"}},
			"src":  {Schemes: []string{"https"}},
		},
		CleanContentTags: []string{"script", "style", "iframe", "object", "embed", "noscript", "template", "textarea"},
	}
}

// Clone returns a deep copy of p. The AttributeFilter is shared.
func (p *Policy) Clone() *Policy {
	c := *p
	c.AllowedTags = slices.Clone(p.AllowedTags)
	c.AllowedAttributePrefixes = slices.Clone(p.AllowedAttributePrefixes)
	c.AllowedStyleProperties = slices.Clone(p.AllowedStyleProperties)
	c.CleanContentTags = slices.Clone(p.CleanContentTags)
	if p.AllowedAttributes != nil {
		c.AllowedAttributes = make(map[string][]string, len(p.AllowedAttributes))
		for k, v := range p.AllowedAttributes {
			c.AllowedAttributes[k] = slices.Clone(v)
		}
	}
	if p.AllowedClasses != nil {
		c.AllowedClasses = make(map[string][]string, len(p.AllowedClasses))
		for k, v := range p.AllowedClasses {
			c.AllowedClasses[k] = slices.Clone(v)
		}
	}
	if p.AllowedAttributeValues != nil {
		c.AllowedAttributeValues = make(map[string]map[string][]string, len(p.AllowedAttributeValues))
		for tag, attrs := range p.AllowedAttributeValues {
			m := make(map[string][]string, len(attrs))
			for k, v := range attrs {
				m[k] = slices.Clone(v)
			}
			c.AllowedAttributeValues[tag] = m
		}
	}
	if p.SetAttributes != nil {
		c.SetAttributes = make(map[string]map[string]string, len(p.SetAttributes))
		for tag, attrs := range p.SetAttributes {
			c.SetAttributes[tag] = maps.Clone(attrs)
		}
	}
	if p.URLSchemes != nil {
		c.URLSchemes = make(map[string]URLRule, len(p.URLSchemes))
		for k, v := range p.URLSchemes {
			c.URLSchemes[k] = URLRule{Schemes: slices.Clone(v.Schemes), DenyRelative: v.DenyRelative}
		}
	}
	if p.BaseURL != nil {
		u := *p.BaseURL
		c.BaseURL = &u
	}
	return &c
}

// WithoutTags returns a copy of p whose AllowedTags no longer contain
// any of tags.
func (p *Policy) WithoutTags(tags ...string) *Policy {
	c := p.Clone()
	c.AllowedTags = slices.DeleteFunc(c.AllowedTags, func(t string) bool {
		return slices.ContainsFunc(tags, func(drop string) bool {
			return strings.EqualFold(drop, t)
		})
	})
	return c
}
