package textutil

import (
	"strings"
	"testing"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "hello world", "hello world"},
		{"simple tags", "<p>hello <b>world</b></p>", "hello world"},
		{"collapses whitespace", "a\n\n  b\tc", "a b c"},
		{"broken markup", "<p>unclosed <b>bold", "unclosed bold"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.input); got != tt.expected {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExcerptShortTextUnchanged(t *testing.T) {
	if got := Excerpt("short text", 100); got != "short text" {
		t.Errorf("Expected unchanged text, got %q", got)
	}
}

func TestExcerptCutsAtWordBoundary(t *testing.T) {
	text := strings.Repeat("word ", 100)
	got := Excerpt(text, 50)

	if !strings.HasSuffix(got, "…") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}
	if strings.HasSuffix(strings.TrimSuffix(got, "…"), "wor") {
		t.Errorf("Cut mid-word: %q", got)
	}
	if len([]rune(got)) > 51 {
		t.Errorf("Excerpt too long: %d runes", len([]rune(got)))
	}
}

func TestExcerptStripsMarkup(t *testing.T) {
	got := Excerpt("<h1>Title</h1><p>"+strings.Repeat("body ", 50)+"</p>", 30)
	if strings.ContainsAny(got, "<>") {
		t.Errorf("Markup leaked into excerpt: %q", got)
	}
}
