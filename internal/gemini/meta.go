package gemini

import (
	"mime"
	"strings"
)

// DefaultMediaType applies when a success response has an empty or
// unparseable meta.
const DefaultMediaType = "text/gemini"

// Meta is the parsed MIME type of a success response.
type Meta struct {
	MediaType string
	Params    map[string]string
}

// ParseMeta parses a success meta such as "text/gemini; charset=utf-8; lang=en".
func ParseMeta(raw string) Meta {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Meta{MediaType: DefaultMediaType, Params: map[string]string{}}
	}
	mt, params, err := mime.ParseMediaType(raw)
	if err != nil {
		head, _, _ := strings.Cut(raw, ";")
		mt = strings.ToLower(strings.TrimSpace(head))
		if mt == "" {
			mt = DefaultMediaType
		}
		params = map[string]string{}
	}
	return Meta{MediaType: mt, Params: params}
}

// Charset returns the declared charset, defaulting to utf-8.
func (m Meta) Charset() string {
	if cs := strings.TrimSpace(m.Params["charset"]); cs != "" {
		return strings.ToLower(cs)
	}
	return "utf-8"
}

// Lang returns the declared language, or "".
func (m Meta) Lang() string {
	return strings.TrimSpace(m.Params["lang"])
}

// IsGemtext reports whether the body is gemtext.
func (m Meta) IsGemtext() bool {
	return m.MediaType == DefaultMediaType
}

// IsText reports whether the body is any text/* type.
func (m Meta) IsText() bool {
	return strings.HasPrefix(m.MediaType, "text/")
}

// IsImage reports whether the body is an image/* type.
func (m Meta) IsImage() bool {
	return strings.HasPrefix(m.MediaType, "image/")
}
