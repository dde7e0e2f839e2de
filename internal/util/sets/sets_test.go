package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromListTrimsAndSkipsEmpty(t *testing.T) {
	s := FromList([]string{" a ", "", "b", "  ", "a"})

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has(""))
}

func TestAddAndHas(t *testing.T) {
	s := New[string]()
	s.Add("gemini://example.org/")
	s.Add("gemini://example.org/")

	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has("gemini://example.org/"))
}

func TestNilSetLookup(t *testing.T) {
	var s Set[string]
	assert.False(t, s.Has("anything"))
	assert.Equal(t, 0, s.Len())
}
