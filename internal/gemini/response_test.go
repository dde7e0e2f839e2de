package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromCode(t *testing.T) {
	tests := []struct {
		code int
		want Status
	}{
		{10, StatusInput},
		{11, StatusSensitiveInput},
		{20, StatusSuccess},
		{21, StatusSuccess},
		{30, StatusTemporaryRedirect},
		{31, StatusPermanentRedirect},
		{32, StatusTemporaryRedirect},
		{40, StatusOther},
		{51, StatusOther},
		{62, StatusOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFromCode(tt.code), "code %d", tt.code)
	}
}

func TestParseMeta(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		mt      string
		charset string
		lang    string
	}{
		{"empty", "", "text/gemini", "utf-8", ""},
		{"plain", "text/gemini", "text/gemini", "utf-8", ""},
		{"params", "text/gemini; charset=ISO-8859-1; lang=fr", "text/gemini", "iso-8859-1", "fr"},
		{"case", "Text/Plain", "text/plain", "utf-8", ""},
		{"image", "image/png", "image/png", "utf-8", ""},
		{"broken params", "text/gemini; charset", "text/gemini", "utf-8", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseMeta(tt.raw)
			assert.Equal(t, tt.mt, m.MediaType)
			assert.Equal(t, tt.charset, m.Charset())
			assert.Equal(t, tt.lang, m.Lang())
		})
	}

	assert.True(t, ParseMeta("").IsGemtext())
	assert.True(t, ParseMeta("text/plain").IsText())
	assert.True(t, ParseMeta("image/webp").IsImage())
	assert.False(t, ParseMeta("application/pdf").IsText())
}

func TestResponseMediaTypeIgnoresNonSuccessMeta(t *testing.T) {
	r := NewResponse(51, "Not found", nil)
	assert.Equal(t, "text/gemini", r.MediaType().MediaType)
	assert.False(t, r.IsRedirect())
	assert.False(t, r.IsInput())
	assert.True(t, NewResponse(11, "Password", nil).IsInput())
}

func TestDecodeText(t *testing.T) {
	latin1 := []byte{'c', 'a', 'f', 0xe9}

	s, err := DecodeText(latin1, "iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "café", s)

	s, err = DecodeText([]byte("plain"), "")
	require.NoError(t, err)
	assert.Equal(t, "plain", s)

	s, err = DecodeText(latin1, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "caf�", s)

	_, err = DecodeText(latin1, "x-no-such-charset")
	require.Error(t, err)
}

func TestResponseContentDecodesCharset(t *testing.T) {
	r := NewResponse(20, "text/plain; charset=windows-1252", []byte{0x93, 'q', 0x94})
	assert.Equal(t, "“q”", r.Content())

	unknown := NewResponse(20, "text/plain; charset=bogus", []byte("ok"))
	assert.Equal(t, "ok", unknown.Content())
}
