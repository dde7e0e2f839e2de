package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type colour int

const (
	colourNone colour = iota
	colourRed
	colourBlue
)

func newColourNormalizer() *Normalizer[colour] {
	return NewNormalizer(map[string]colour{
		"red":     colourRed,
		"crimson": colourRed,
		"BLUE":    colourBlue,
	}, colourNone)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newColourNormalizer()

	tests := []struct {
		name  string
		input string
		want  colour
	}{
		{"exact", "red", colourRed},
		{"alias", "crimson", colourRed},
		{"case folded key", "blue", colourBlue},
		{"case folded input", "  ReD ", colourRed},
		{"unknown falls back", "green", colourNone},
		{"empty falls back", "", colourNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_Lookup(t *testing.T) {
	n := newColourNormalizer()

	v, ok := n.Lookup("Crimson")
	assert.True(t, ok)
	assert.Equal(t, colourRed, v)

	_, ok = n.Lookup("green")
	assert.False(t, ok)
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := newColourNormalizer()

	_, err := n.NormalizeWithError("green")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"green"`)
	assert.Contains(t, err.Error(), "[blue crimson red]")

	v, err := n.NormalizeWithError("BLUE")
	require.NoError(t, err)
	assert.Equal(t, colourBlue, v)
}
