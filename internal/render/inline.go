package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
)

// inlineMarkdown understands inline emphasis, code spans and links only.
// Block syntax is left as text and raw HTML is escaped, never passed through.
var inlineMarkdown = goldmark.New(
	goldmark.WithParser(parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(parser.NewAutoLinkParser(), 300),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
	)),
)

// tabWidth is the number of non-breaking spaces a leading tab becomes.
const tabWidth = 4

// Inline renders one line of text, without the enclosing <p>. Leading
// indentation is kept as non-breaking spaces.
func Inline(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	body := strings.TrimLeft(text, " \t")
	indent := indentation(text[:len(text)-len(body)])

	var buf bytes.Buffer
	if err := inlineMarkdown.Convert([]byte(body), &buf); err != nil {
		return indent + html.EscapeString(body)
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	if out == "" {
		out = html.EscapeString(body)
	}
	return indent + out
}

func indentation(ws string) string {
	n := 0
	for _, r := range ws {
		if r == '\t' {
			n += tabWidth
		} else {
			n++
		}
	}
	return strings.Repeat("&nbsp;", n)
}
