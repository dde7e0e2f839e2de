package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gemrest/september/internal/config"
	"github.com/gemrest/september/internal/gemtext"
	"github.com/gemrest/september/internal/route"
	"github.com/gemrest/september/internal/util/sets"
)

func baseContext(t *testing.T) *Context {
	t.Helper()
	return &Context{Base: mustURL(t, "gemini://example.org/"), ProxyEnabled: true, Mode: route.ModeDirect}
}

// topLevel parses an HTML fragment and returns its top-level elements.
func topLevel(t *testing.T, fragment string) []*html.Node {
	t.Helper()
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	require.NoError(t, err)

	var out []*html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
	}
	return out
}

func countElements(n *html.Node, a atom.Atom) int {
	count := 0
	if n.Type == html.ElementNode && n.DataAtom == a {
		count++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countElements(c, a)
	}
	return count
}

func TestRenderTitleFirstLevelOneWins(t *testing.T) {
	doc := gemtext.Document{
		gemtext.Heading{Level: 2, Text: "Not this"},
		gemtext.Heading{Level: 1, Text: "Hello"},
		gemtext.Heading{Level: 1, Text: "World"},
	}

	res, err := Render(doc, baseContext(t))
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.Title)
	assert.Contains(t, res.Body, "<h1>Hello</h1>")
	assert.Contains(t, res.Body, "<h1>World</h1>")
}

func TestRenderTitleIsUnescaped(t *testing.T) {
	res, err := Render(gemtext.Document{gemtext.Heading{Level: 1, Text: "Tom & Jerry"}}, baseContext(t))
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry", res.Title)
	assert.Contains(t, res.Body, "<h1>Tom &amp; Jerry</h1>")
}

func TestRenderCondenseAll(t *testing.T) {
	ctx := baseContext(t)
	ctx.CondenseAll = true
	doc := gemtext.Document{
		gemtext.Link{Target: "/a", Label: strPtr("A")},
		gemtext.Link{Target: "/b", Label: strPtr("B")},
	}

	res, err := Render(doc, ctx)
	require.NoError(t, err)

	nodes := topLevel(t, res.Body)
	require.Len(t, nodes, 1)
	assert.Equal(t, atom.P, nodes[0].DataAtom)
	assert.Equal(t, 2, countElements(nodes[0], atom.A))
	assert.Equal(t, 1, strings.Count(res.Body, LinkSeparator))
	assert.Equal(t, `<p><a href="/a">A</a> | <a href="/b">B</a></p>`+"\n", res.Body)
	assert.Equal(t, 2, res.Links)
}

func TestRenderWithoutCondensationOneParagraphPerLink(t *testing.T) {
	doc := gemtext.Document{
		gemtext.Link{Target: "/a"},
		gemtext.Link{Target: "/b"},
		gemtext.Link{Target: "/c"},
	}

	res, err := Render(doc, baseContext(t))
	require.NoError(t, err)

	nodes := topLevel(t, res.Body)
	require.Len(t, nodes, 3)
	for _, n := range nodes {
		assert.Equal(t, atom.P, n.DataAtom)
		assert.Equal(t, 1, countElements(n, atom.A))
	}
	assert.NotContains(t, res.Body, LinkSeparator)
}

func TestRenderNonLinkEndsRun(t *testing.T) {
	ctx := baseContext(t)
	ctx.CondenseAll = true
	doc := gemtext.Document{
		gemtext.Link{Target: "/a"},
		gemtext.Text{Text: "between"},
		gemtext.Link{Target: "/b"},
		gemtext.Blank{},
		gemtext.Link{Target: "/c"},
	}

	res, err := Render(doc, ctx)
	require.NoError(t, err)
	nodes := topLevel(t, res.Body)
	require.Len(t, nodes, 4)
	assert.NotContains(t, res.Body, LinkSeparator)
}

func TestRenderHeadingTriggers(t *testing.T) {
	ctx := baseContext(t)
	ctx.HeadingTriggers = sets.New("## Links", "Elsewhere")

	doc := gemtext.Document{
		// trap starts active
		gemtext.Link{Target: "/1"},
		gemtext.Link{Target: "/2"},
		gemtext.Heading{Level: 2, Text: "Prose"},
		gemtext.Link{Target: "/3"},
		gemtext.Link{Target: "/4"},
		gemtext.Heading{Level: 2, Text: "Links"},
		gemtext.Link{Target: "/5"},
		gemtext.Link{Target: "/6"},
		gemtext.Heading{Level: 3, Text: "Elsewhere"},
		gemtext.Link{Target: "/7"},
		gemtext.Link{Target: "/8"},
	}

	res, err := Render(doc, ctx)
	require.NoError(t, err)

	assert.Contains(t, res.Body, `<a href="/1">/1</a> | <a href="/2">/2</a>`)
	assert.Contains(t, res.Body, `<p><a href="/3">/3</a></p>`)
	assert.Contains(t, res.Body, `<p><a href="/4">/4</a></p>`)
	assert.Contains(t, res.Body, `<a href="/5">/5</a> | <a href="/6">/6</a>`)
	assert.Contains(t, res.Body, `<a href="/7">/7</a> | <a href="/8">/8</a>`)
}

func TestRenderNoTriggersNoCondensation(t *testing.T) {
	doc := gemtext.Document{
		gemtext.Heading{Level: 2, Text: "Links"},
		gemtext.Link{Target: "/1"},
		gemtext.Link{Target: "/2"},
	}
	res, err := Render(doc, baseContext(t))
	require.NoError(t, err)
	assert.NotContains(t, res.Body, LinkSeparator)
}

func TestRenderImages(t *testing.T) {
	doc := gemtext.Document{
		gemtext.Link{Target: "/a"},
		gemtext.Link{Target: "/cat.png", Label: strPtr("A cat")},
		gemtext.Link{Target: "/b"},
	}

	t.Run("link and image", func(t *testing.T) {
		ctx := baseContext(t)
		ctx.CondenseAll = true
		ctx.EmbedImages = config.EmbedLinkAndImage

		res, err := Render(doc, ctx)
		require.NoError(t, err)
		assert.Equal(t,
			`<p><a href="/a">/a</a></p>`+"\n"+
				`<p><a href="/cat.png">A cat</a> <i>Embedded below</i></p>`+"\n"+
				`<p><img src="/cat.png" alt="A cat" /></p>`+"\n"+
				`<p><a href="/b">/b</a></p>`+"\n",
			res.Body)
		assert.Equal(t, 3, res.Links)
	})

	t.Run("image only", func(t *testing.T) {
		ctx := baseContext(t)
		ctx.EmbedImages = config.EmbedImageOnly

		res, err := Render(doc, ctx)
		require.NoError(t, err)
		assert.Contains(t, res.Body, `<p><img src="/cat.png" alt="A cat" /></p>`)
		assert.NotContains(t, res.Body, "Embedded below")
		assert.NotContains(t, res.Body, `<a href="/cat.png"`)
	})
}

func TestRenderBlocks(t *testing.T) {
	alt := "a <box>"
	doc := gemtext.Document{
		gemtext.Heading{Level: 3, Text: "Three"},
		gemtext.Heading{Level: 4, Text: "Four"},
		gemtext.Text{Text: "some *emphasis* & <b>tags</b>"},
		gemtext.List{Items: []string{"one", "`two`"}},
		gemtext.Blockquote{Text: "quoted"},
		gemtext.Preformatted{Text: "x < y\n  z\n", Alt: &alt},
		gemtext.Preformatted{Text: "plain\n\n"},
		gemtext.Blank{},
	}

	res, err := Render(doc, baseContext(t))
	require.NoError(t, err)

	want := "<h3>Three</h3>\n" +
		"<p>Four</p>\n" +
		"<p>some <em>emphasis</em> &amp; &lt;b&gt;tags&lt;/b&gt;</p>\n" +
		"<ul>\n<li>one</li>\n<li><code>two</code></li>\n</ul>\n" +
		"<blockquote>quoted</blockquote>\n" +
		`<pre aria-label="a &lt;box&gt;">x &lt; y` + "\n  z</pre>\n" +
		"<pre>plain\n</pre>\n"
	assert.Equal(t, want, res.Body)
	assert.Empty(t, res.Title)
	assert.Zero(t, res.Links)
}

func TestRenderEscapesLinks(t *testing.T) {
	doc := gemtext.Document{
		gemtext.Link{Target: `https://example.com/?a=1&b="2"`, Label: strPtr("<script>")},
	}
	res, err := Render(doc, baseContext(t))
	require.NoError(t, err)
	assert.Equal(t, `<p><a href="https://example.com/?a=1&amp;b=&#34;2&#34;">&lt;script&gt;</a></p>`+"\n", res.Body)
}

func TestRenderMissingHostAborts(t *testing.T) {
	ctx := &Context{Base: mustURL(t, "gemini:///x"), ProxyEnabled: true}
	_, err := Render(gemtext.Document{gemtext.Text{Text: "fine"}, gemtext.Link{Target: "/a"}}, ctx)
	require.ErrorIs(t, err, ErrMissingHost)
}

func TestRenderStateIsPerCall(t *testing.T) {
	ctx := baseContext(t)
	ctx.HeadingTriggers = sets.New("Links")

	first := gemtext.Document{gemtext.Heading{Level: 2, Text: "Prose"}}
	_, err := Render(first, ctx)
	require.NoError(t, err)

	second := gemtext.Document{gemtext.Link{Target: "/a"}, gemtext.Link{Target: "/b"}}
	res, err := Render(second, ctx)
	require.NoError(t, err)
	assert.Contains(t, res.Body, LinkSeparator)
}

func TestInline(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"**bold**", "<strong>bold</strong>"},
		{"a < b", "a &lt; b"},
		{"# not a heading", "# not a heading"},
		{"1. not a list", "1. not a list"},
		{"[x](javascript:alert(1))", `<a href="">x</a>`},
		{"\tfoo", "&nbsp;&nbsp;&nbsp;&nbsp;foo"},
		{"    four spaces", "&nbsp;&nbsp;&nbsp;&nbsp;four spaces"},
		{"  two *spaces*", "&nbsp;&nbsp;two <em>spaces</em>"},
		{"        def main():", strings.Repeat("&nbsp;", 8) + "def main():"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Inline(tt.in))
		})
	}
}

func TestRenderKeepsIndentedText(t *testing.T) {
	doc := gemtext.Parse("Intro\n    indented line of prose\n\tx < y\n")

	res, err := Render(doc, baseContext(t))
	require.NoError(t, err)

	assert.Contains(t, res.Body, "<p>Intro</p>\n")
	assert.Contains(t, res.Body, "<p>&nbsp;&nbsp;&nbsp;&nbsp;indented line of prose</p>\n")
	assert.Contains(t, res.Body, "<p>&nbsp;&nbsp;&nbsp;&nbsp;x &lt; y</p>\n")
	assert.NotContains(t, res.Body, "<p></p>")
}
