package dustdoc

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// markdownExtensions enables fenced code blocks, tables and footnotes on top
// of CommonMark parsing. NoIntraEmphasis and SpaceHeadings keep the CommonMark
// rules for snake_case words and ATX headings. Automatic heading IDs stay off
// so headings render as plain <hN> tags.
const markdownExtensions = parser.FencedCode | parser.Tables | parser.Footnotes |
	parser.NoIntraEmphasis | parser.SpaceHeadings

// MarkdownToHTML converts a Markdown document to an HTML fragment. Text is
// rendered as written: no typographic substitutions are applied.
func MarkdownToHTML(md string) string {
	p := parser.NewWithExtensions(markdownExtensions)
	doc := p.Parse(markdown.NormalizeNewlines([]byte(md)))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.FlagsNone})
	return string(markdown.Render(doc, renderer))
}
