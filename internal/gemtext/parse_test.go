package gemtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestParse(t *testing.T) {
	src := "# Title\r\n" +
		"Some text\n" +
		"\n" +
		"=> gemini://example.org/ Example\n" +
		"=>/relative\n" +
		"=>\tgemini://tab.example\tTabbed\tlabel\n" +
		"## Section\n" +
		"### Sub\n" +
		"#### Deep\n" +
		"* one\n" +
		"* two\n" +
		"> quoted\n" +
		"```ascii art\n" +
		"  /\\\n" +
		"# not a heading\n" +
		"```\n" +
		"*not a list\n" +
		"=>\n"

	want := Document{
		Heading{Level: 1, Text: "Title"},
		Text{Text: "Some text"},
		Blank{},
		Link{Target: "gemini://example.org/", Label: ptr("Example")},
		Link{Target: "/relative"},
		Link{Target: "gemini://tab.example", Label: ptr("Tabbed\tlabel")},
		Heading{Level: 2, Text: "Section"},
		Heading{Level: 3, Text: "Sub"},
		Heading{Level: 4, Text: "Deep"},
		List{Items: []string{"one", "two"}},
		Blockquote{Text: "quoted"},
		Preformatted{Text: "  /\\\n# not a heading\n", Alt: ptr("ascii art")},
		Text{Text: "*not a list"},
		Text{Text: "=>"},
	}

	assert.Equal(t, want, Parse(src))
}

func TestParseUnterminatedPreformatted(t *testing.T) {
	doc := Parse("```\nline one\nline two")
	require.Len(t, doc, 1)

	pre, ok := doc[0].(Preformatted)
	require.True(t, ok)
	assert.Equal(t, "line one\nline two\n", pre.Text)
	assert.Nil(t, pre.Alt)
}

func TestParseListAtEnd(t *testing.T) {
	doc := Parse("* a\n* b")
	assert.Equal(t, Document{List{Items: []string{"a", "b"}}}, doc)
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Label", Link{Target: "/x", Label: ptr("Label")}.DisplayLabel())
	assert.Equal(t, "/x", Link{Target: "/x"}.DisplayLabel())
}
