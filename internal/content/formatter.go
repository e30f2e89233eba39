// Package content renders share messages from templates and item fields.
package content

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxMessageRunes caps the rendered message length, counted in code
	// points rather than bytes so multibyte text is not over-trimmed.
	MaxMessageRunes = 280

	// ExcerptWordLimit bounds how many words of the excerpt survive rendering.
	ExcerptWordLimit = 10

	excerptEllipsis = "…"
)

// Fields carries the per-item values substituted into the template.
type Fields struct {
	Title   string
	Excerpt string
	Link    string
}

// Formatter renders templates with %title%, %excerpt% and %link% placeholders.
// Unknown placeholder-like tokens pass through verbatim.
type Formatter struct {
	template     string
	excerptWords int
}

// NewFormatter builds a formatter for the given template. A non-positive
// wordLimit falls back to ExcerptWordLimit.
func NewFormatter(template string, wordLimit int) *Formatter {
	if wordLimit <= 0 {
		wordLimit = ExcerptWordLimit
	}
	return &Formatter{template: template, excerptWords: wordLimit}
}

// Render substitutes the item fields into the template, trims the excerpt to
// the configured word limit, and truncates the result to MaxMessageRunes.
func (f *Formatter) Render(fields Fields) string {
	replacer := strings.NewReplacer(
		"%title%", fields.Title,
		"%excerpt%", TrimWords(fields.Excerpt, f.excerptWords),
		"%link%", fields.Link,
	)
	return TruncateRunes(replacer.Replace(f.template), MaxMessageRunes)
}

// TrimWords keeps at most limit whitespace-separated words and appends an
// ellipsis when anything was dropped. Surrounding whitespace collapses.
func TrimWords(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + excerptEllipsis
}

// TruncateRunes cuts text to at most limit code points.
func TruncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
