// Package markdown renders Markdown to HTML and sanitizes the result,
// so raw HTML embedded in Markdown documents is held to the same
// policy as any other untrusted input.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/njchilds90/htmlclean"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown to sanitized HTML. It is safe for
// concurrent use.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *htmlclean.Sanitizer
}

// New returns a Renderer that sanitizes with s. If s is nil, a
// Sanitizer for the default policy is used.
func New(s *htmlclean.Sanitizer) *Renderer {
	if s == nil {
		s = htmlclean.New(nil)
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
			// Raw HTML and every link destination are passed through
			// here and judged by the sanitizer instead.
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
		sanitizer: s,
	}
}

// Render converts src to HTML and sanitizes it.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("markdown: render: %w", err)
	}
	out, err := r.sanitizer.SanitizeReader(&buf)
	if err != nil {
		return "", fmt.Errorf("markdown: sanitize: %w", err)
	}
	return out, nil
}

// Render converts src to HTML and sanitizes it with p. If p is nil,
// the default policy is used.
func Render(src []byte, p *htmlclean.Policy) (string, error) {
	return New(htmlclean.New(p)).Render(src)
}
