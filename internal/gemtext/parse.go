package gemtext

import "strings"

const fence = "```"

// Parse splits src into document nodes. It never fails: anything that is not
// a recognised line type is Text, and an unterminated preformatted block
// runs to the end of the input.
func Parse(src string) Document {
	p := parser{}
	for line := range strings.Lines(src) {
		p.line(strings.TrimRight(line, "\r\n"))
	}
	p.finish()
	return p.doc
}

type parser struct {
	doc Document

	inPre  bool
	pre    strings.Builder
	preAlt *string

	list []string
}

func (p *parser) line(line string) {
	if p.inPre {
		if strings.HasPrefix(line, fence) {
			p.closePre()
			return
		}
		p.pre.WriteString(line)
		p.pre.WriteByte('\n')
		return
	}

	if item, ok := strings.CutPrefix(line, "* "); ok {
		p.list = append(p.list, strings.TrimSpace(item))
		return
	}
	p.flushList()

	switch {
	case strings.HasPrefix(line, fence):
		p.inPre = true
		p.preAlt = optional(strings.TrimSpace(line[len(fence):]))
	case strings.HasPrefix(line, "=>"):
		p.doc = append(p.doc, parseLink(line))
	case strings.HasPrefix(line, "#"):
		level := len(line) - len(strings.TrimLeft(line, "#"))
		p.doc = append(p.doc, Heading{Level: level, Text: strings.TrimSpace(line[level:])})
	case strings.HasPrefix(line, ">"):
		p.doc = append(p.doc, Blockquote{Text: strings.TrimSpace(line[1:])})
	case strings.TrimSpace(line) == "":
		p.doc = append(p.doc, Blank{})
	default:
		p.doc = append(p.doc, Text{Text: line})
	}
}

func (p *parser) finish() {
	if p.inPre {
		p.closePre()
	}
	p.flushList()
}

func (p *parser) closePre() {
	p.doc = append(p.doc, Preformatted{Text: p.pre.String(), Alt: p.preAlt})
	p.pre.Reset()
	p.preAlt = nil
	p.inPre = false
}

func (p *parser) flushList() {
	if len(p.list) == 0 {
		return
	}
	p.doc = append(p.doc, List{Items: p.list})
	p.list = nil
}

// parseLink handles "=>[ws]target[ws label]". A line with no target is Text.
func parseLink(line string) Node {
	rest := strings.TrimLeft(line[2:], " \t")
	if rest == "" {
		return Text{Text: line}
	}
	i := strings.IndexAny(rest, " \t")
	if i < 0 {
		return Link{Target: rest}
	}
	return Link{Target: rest[:i], Label: optional(strings.TrimSpace(rest[i:]))}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
