// Package markdown renders user-submitted markdown (discussion posts,
// replies) to sanitized HTML.
package markdown

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var policy = bluemonday.UGCPolicy()

// Render converts markdown to HTML and strips anything the UGC policy
// does not allow. Content is user-supplied, so the sanitization step is
// not optional.
func Render(content string) string {
	extensions := blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})

	raw := blackfriday.Run([]byte(content), blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions))
	return string(policy.SanitizeBytes(raw))
}
