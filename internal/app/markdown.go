package app

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Blurbs and result texts are editor-authored markdown that may embed raw
// HTML, so the renderer runs in unsafe mode.
var markdown = goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))

func renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return buf.String()
}

// renderMarkdownInline renders a single-paragraph snippet without the
// wrapping <p> element, for result texts shown inside a sentence.
func renderMarkdownInline(src string) string {
	out := strings.TrimSpace(renderMarkdown(src))
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out
}
