// Package textutil derives plain-text snippets from user-submitted
// content that may contain HTML.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// StripHTML returns the text content of s with all markup removed.
// Invalid HTML degrades gracefully: the tokenizer emits whatever text
// it can recover.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return collapseWhitespace(s)
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
	return collapseWhitespace(b.String())
}

// Excerpt returns the first max runes of the plain text of s, cut at a
// word boundary with a trailing ellipsis when truncated
func Excerpt(s string, max int) string {
	text := StripHTML(s)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := max
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = max
	}
	return strings.TrimRight(string(runes[:cut]), " \t\n") + "…"
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
