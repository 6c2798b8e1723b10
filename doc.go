// Package htmlclean provides a policy-driven HTML sanitizer for Go
// applications that embed untrusted rich text (comments, messages,
// rendered markdown) into trusted pages.
//
// # Overview
//
// htmlclean parses an HTML fragment with the golang.org/x/net/html
// tree builder, walks the resulting node tree once, and produces a new
// tree that contains only the tags, attributes, and URL schemes
// permitted by a [Policy]. The new tree is rendered back to a string.
//
// Every element is classified exactly once:
//   - allowed tags ([Policy.AllowedTags]) are kept with their
//     attributes filtered;
//   - tags listed in [Policy.CleanContentTags] are dropped together
//     with everything inside them, text included;
//   - any other tag is unwrapped: the tag disappears and its
//     sanitized children take its place.
//
// Text is always kept and escaped on output. Comments are dropped
// unless [Policy.KeepComments] is set.
//
// # Attributes
//
// An attribute survives when it is allowed for its tag or globally
// ([Policy.AllowedAttributes], [Policy.AllowedAttributePrefixes],
// [Policy.AllowedAttributeValues]), its URL passes the scheme rules in
// [Policy.URLSchemes], and the optional [AttributeFilter] does not veto
// it. Values returned by an AttributeFilter are trusted as-is and are
// not checked against the scheme rules again.
//
// Anchor-like elements (a, area, link) that keep an href get the
// tokens of [Policy.LinkRel] merged into their rel attribute.
//
// # Policies
//
// Two built-in policies are provided:
//   - [DefaultPolicy]: a permissive but safe policy covering common
//     content tags, links, images and tables.
//   - [StrictPolicy]: basic inline formatting with no attributes.
//
// The building blocks of the default policy are available as fresh
// copies ([DefaultTags], [DefaultAttributes], [DefaultURLSchemes]) so
// callers can derive their own.
//
// # Thread Safety
//
// [New] compiles a Policy into a [Sanitizer], which is immutable and
// safe for concurrent use. Package-level [Sanitize] compiles the policy
// on every call; prefer a shared Sanitizer on hot paths.
//
// # Example
//
//	s := htmlclean.New(htmlclean.DefaultPolicy())
//	clean, err := s.Sanitize(userInput)
package htmlclean
