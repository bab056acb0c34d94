package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasicMarkdown(t *testing.T) {
	html := Render("# Heading\n\nSome **bold** text.")

	if !strings.Contains(html, "<h1") {
		t.Errorf("Expected heading in output: %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("Expected bold text in output: %q", html)
	}
}

func TestRenderStripsScripts(t *testing.T) {
	html := Render("hello <script>alert('xss')</script> world")

	if strings.Contains(html, "<script") {
		t.Errorf("Script tag survived sanitization: %q", html)
	}
}

func TestRenderStripsEventHandlers(t *testing.T) {
	html := Render(`<img src="x" onerror="alert(1)">`)

	if strings.Contains(html, "onerror") {
		t.Errorf("Event handler survived sanitization: %q", html)
	}
}
