package media

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDataURIRoundTrip(t *testing.T) {
	uri := DataURI("image/png", pngHeader)
	assert.Contains(t, uri, "data:image/png;base64,")

	mime, data, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngHeader, data)
}

func TestParseDataURIRejects(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"no scheme", "image/png;base64,AAAA"},
		{"no comma", "data:image/png;base64"},
		{"not base64", "data:text/plain,hello"},
		{"bad payload", "data:image/png;base64,!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDataURI(tt.uri)
			assert.ErrorIs(t, err, ErrInvalidDataURI)
		})
	}
}

func TestParseDataURISniffsMissingType(t *testing.T) {
	mime, _, err := ParseDataURI(DataURI("", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		declared string
		want     string
	}{
		{"declared wins", []byte("hello"), "image/webp", "image/webp"},
		{"parameters stripped", []byte("hello"), "Text/Plain; charset=utf-8", "text/plain"},
		{"sniff png", pngHeader, "", "image/png"},
		{"sniff over octet stream", pngHeader, OctetStream, "image/png"},
		{"sniff text", []byte("just some words"), "", "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.data, tt.declared))
		})
	}
}

func TestKinds(t *testing.T) {
	assert.True(t, IsImage("image/png"))
	assert.False(t, IsImage("text/plain"))
	assert.True(t, IsText("text/markdown; charset=utf-8"))
	assert.True(t, IsText("application/json"))
	assert.False(t, IsText("application/pdf"))
}

func TestDecodeText(t *testing.T) {
	text, err := DecodeText([]byte("plain ütf-8"))
	require.NoError(t, err)
	assert.Equal(t, "plain ütf-8", text)

	latin1 := []byte("Le caf\xe9 est tr\xe8s bon, la cr\xe8me br\xfbl\xe9e aussi. " +
		"Nous avons mang\xe9 \xe0 la fen\xeatre pr\xe8s de la f\xeate.")
	text, err = DecodeText(latin1)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(text))
	assert.True(t, strings.HasPrefix(text, "Le caf"))
}
