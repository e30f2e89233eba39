package content_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"xposter/internal/content"
)

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	formatter := content.NewFormatter("%title% — %excerpt% %link%", 10)
	got := formatter.Render(content.Fields{
		Title:   "Release notes",
		Excerpt: "Short summary",
		Link:    "https://blog.example.test/release-notes",
	})
	want := "Release notes — Short summary https://blog.example.test/release-notes"
	if got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	formatter := content.NewFormatter("%title% by %author%", 10)
	got := formatter.Render(content.Fields{Title: "Post"})
	if got != "Post by %author%" {
		t.Fatalf("expected unknown placeholder preserved, got %q", got)
	}
}

func TestRenderTrimsExcerpt(t *testing.T) {
	excerpt := "one two three four five six seven eight nine ten eleven twelve"
	formatter := content.NewFormatter("%excerpt%", 10)
	got := formatter.Render(content.Fields{Excerpt: excerpt})
	want := "one two three four five six seven eight nine ten…"
	if got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestRenderCapsAtLimit(t *testing.T) {
	formatter := content.NewFormatter("%title%", 10)
	got := formatter.Render(content.Fields{Title: strings.Repeat("ありがとう", 100)})
	if count := utf8.RuneCountInString(got); count != content.MaxMessageRunes {
		t.Fatalf("expected %d runes, got %d", content.MaxMessageRunes, count)
	}
	if !utf8.ValidString(got) {
		t.Fatal("expected truncation on rune boundaries")
	}
}

func TestTrimWords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"under limit", "a b c", 10, "a b c"},
		{"exact limit", "a b c", 3, "a b c"},
		{"over limit", "a b c d", 3, "a b c…"},
		{"collapses whitespace", "  a\t b \n c  ", 10, "a b c"},
		{"empty", "", 10, ""},
		{"zero limit", "a b", 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := content.TrimWords(tc.text, tc.limit); got != tc.want {
				t.Fatalf("TrimWords(%q, %d) = %q, want %q", tc.text, tc.limit, got, tc.want)
			}
		})
	}
}
