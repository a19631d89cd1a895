// Package render converts a post's markdown body into a standalone HTML
// preview page.
package render

import (
	"fmt"
	"html"

	"github.com/gomarkdown/markdown"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/ecarvalho/scribe/internal/model"
)

// RenderMarkdown renders markdown source to an HTML fragment.
func RenderMarkdown(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)

	renderer := md_html.NewRenderer(md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.HrefTargetBlank,
	})

	return markdown.Render(doc, renderer)
}

const previewPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body { font-family: sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; line-height: 1.6; }
        code { background: #f4f4f4; padding: 2px 4px; }
        pre code { display: block; padding: 10px; overflow-x: auto; }
    </style>
</head>
<body>
<h1>%s</h1>
%s
</body>
</html>
`

// PreviewPage wraps the rendered body of a post in a minimal HTML page.
func PreviewPage(post *model.Post) []byte {
	title := html.EscapeString(post.Title)
	body := RenderMarkdown([]byte(post.Content))
	return []byte(fmt.Sprintf(previewPage, title, title, body))
}
