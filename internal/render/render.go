package render

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/gemrest/september/internal/gemtext"
)

// LinkSeparator joins links condensed into one paragraph.
const LinkSeparator = " | "

// Result is a rendered document.
type Result struct {
	// Title is the first level-1 heading, unescaped. It may be empty.
	Title string
	// Body is the HTML fragment for the document.
	Body string
	// Links is the number of links emitted.
	Links int
}

// condensation is the per-render link run state.
type condensation struct {
	previousWasLink bool
	trapActive      bool
}

// Render converts doc to HTML. It fails only with ErrMissingHost.
func Render(doc gemtext.Document, ctx *Context) (Result, error) {
	var (
		b        strings.Builder
		res      Result
		titleSet bool
		state    = condensation{trapActive: true}
		resolver = NewResolver(ctx)
	)

	closeRun := func() {
		if state.previousWasLink {
			b.WriteString("</p>\n")
			state.previousWasLink = false
		}
	}

	for _, node := range doc {
		if n, ok := node.(gemtext.Link); ok {
			link, err := resolver.Resolve(n.Target, n.Label)
			if err != nil {
				return Result{}, err
			}
			res.Links++

			if link.Image {
				closeRun()
				writeImage(&b, link, ctx)
				continue
			}
			if state.previousWasLink && condensing(ctx, state) {
				b.WriteString(LinkSeparator)
			} else {
				closeRun()
				b.WriteString("<p>")
				state.previousWasLink = true
			}
			writeAnchor(&b, link)
			continue
		}

		closeRun()

		switch n := node.(type) {
		case gemtext.Heading:
			if ctx.HeadingTriggers.Len() > 0 {
				state.trapActive = ctx.HeadingTriggers.Has(canonicalHeading(n)) || ctx.HeadingTriggers.Has(n.Text)
			}
			if n.Level == 1 && !titleSet {
				res.Title = n.Text
				titleSet = true
			}
			tag := "p"
			if n.Level >= 1 && n.Level <= 3 {
				tag = "h" + strconv.Itoa(n.Level)
			}
			b.WriteString("<" + tag + ">" + Inline(n.Text) + "</" + tag + ">\n")
		case gemtext.Text:
			b.WriteString("<p>" + Inline(n.Text) + "</p>\n")
		case gemtext.List:
			b.WriteString("<ul>\n")
			for _, item := range n.Items {
				b.WriteString("<li>" + Inline(item) + "</li>\n")
			}
			b.WriteString("</ul>\n")
		case gemtext.Blockquote:
			b.WriteString("<blockquote>" + Inline(n.Text) + "</blockquote>\n")
		case gemtext.Preformatted:
			writePreformatted(&b, n)
		case gemtext.Blank:
			// emits nothing
		}
	}
	closeRun()

	res.Body = b.String()
	return res, nil
}

func condensing(ctx *Context, st condensation) bool {
	return ctx.CondenseAll || (ctx.HeadingTriggers.Len() > 0 && st.trapActive)
}

func canonicalHeading(h gemtext.Heading) string {
	return strings.Repeat("#", h.Level) + " " + h.Text
}

func writeAnchor(b *strings.Builder, l Link) {
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(l.Href))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(l.Label))
	b.WriteString("</a>")
}

func writeImage(b *strings.Builder, l Link, ctx *Context) {
	if ctx.EmbedImages.KeepsLink() {
		b.WriteString("<p>")
		writeAnchor(b, l)
		b.WriteString(" <i>Embedded below</i></p>\n")
	}
	b.WriteString(`<p><img src="`)
	b.WriteString(html.EscapeString(l.Href))
	b.WriteString(`" alt="`)
	b.WriteString(html.EscapeString(l.Label))
	b.WriteString(`" /></p>` + "\n")
}

func writePreformatted(b *strings.Builder, p gemtext.Preformatted) {
	text := strings.TrimSuffix(p.Text, "\n")
	text = strings.TrimSuffix(text, "\r")
	if p.Alt != nil {
		b.WriteString(`<pre aria-label="` + html.EscapeString(*p.Alt) + `">`)
	} else {
		b.WriteString("<pre>")
	}
	b.WriteString(html.EscapeString(text))
	b.WriteString("</pre>\n")
}
