// Package gemtext holds the gemtext document model and its line parser.
package gemtext

// Document is a parsed gemtext document in source order.
type Document []Node

// Node is one line-level element of a document.
type Node interface {
	gemtextNode()
}

// Text is an ordinary paragraph line.
type Text struct {
	Text string
}

// Link is a "=>" line. Label is nil when the line carries no label.
type Link struct {
	Target string
	Label  *string
}

// Heading is a "#" line. Level is the number of leading '#' characters.
type Heading struct {
	Level int
	Text  string
}

// List groups consecutive "* " lines.
type List struct {
	Items []string
}

// Blockquote is a ">" line.
type Blockquote struct {
	Text string
}

// Preformatted is a fenced block. Text keeps every line terminator. Alt is
// nil when the opening fence carries no alt text.
type Preformatted struct {
	Text string
	Alt  *string
}

// Blank is an empty line.
type Blank struct{}

func (Text) gemtextNode()         {}
func (Link) gemtextNode()         {}
func (Heading) gemtextNode()      {}
func (List) gemtextNode()         {}
func (Blockquote) gemtextNode()   {}
func (Preformatted) gemtextNode() {}
func (Blank) gemtextNode()        {}

// DisplayLabel returns the label, or the target when there is none.
func (l Link) DisplayLabel() string {
	if l.Label != nil {
		return *l.Label
	}
	return l.Target
}
