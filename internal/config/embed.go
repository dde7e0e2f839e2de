package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gemrest/september/internal/foundation/normalization"
)

// EmbedMode selects how links to images are rendered.
type EmbedMode int

const (
	// EmbedOff renders image links as ordinary links.
	EmbedOff EmbedMode = iota
	// EmbedLinkAndImage keeps the link and places the image below it.
	EmbedLinkAndImage
	// EmbedImageOnly replaces the link with the image.
	EmbedImageOnly
)

var embedModeNormalizer = normalization.NewNormalizer(map[string]EmbedMode{
	"":           EmbedOff,
	"off":        EmbedOff,
	"false":      EmbedOff,
	"0":          EmbedOff,
	"1":          EmbedLinkAndImage,
	"true":       EmbedLinkAndImage,
	"on":         EmbedLinkAndImage,
	"link":       EmbedLinkAndImage,
	"2":          EmbedImageOnly,
	"image":      EmbedImageOnly,
	"only":       EmbedImageOnly,
	"image-only": EmbedImageOnly,
}, EmbedOff)

// ParseEmbedMode converts a configuration spelling to an EmbedMode. Unknown
// spellings yield EmbedOff and false.
func ParseEmbedMode(raw string) (EmbedMode, bool) {
	m, ok := embedModeNormalizer.Lookup(raw)
	if !ok {
		return EmbedOff, false
	}
	return m, true
}

// Enabled reports whether images are embedded at all.
func (m EmbedMode) Enabled() bool { return m != EmbedOff }

// KeepsLink reports whether the plain link is emitted alongside the image.
func (m EmbedMode) KeepsLink() bool { return m == EmbedLinkAndImage }

func (m EmbedMode) String() string {
	switch m {
	case EmbedLinkAndImage:
		return "link"
	case EmbedImageOnly:
		return "image-only"
	default:
		return "off"
	}
}

// UnmarshalYAML accepts the same spellings as the EMBED_IMAGES variable.
func (m *EmbedMode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("embed_images: expected a scalar, got %v", value.Tag)
	}
	parsed, err := embedModeNormalizer.NormalizeWithError(value.Value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
