// Package media handles data URIs and content type detection for desktop
// files, uploads and AI image payloads.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

const (
	// OctetStream is what callers receive when nothing better is known
	OctetStream = "application/octet-stream"
	// JPEG is the fallback for image bodies without a usable content type
	JPEG = "image/jpeg"
)

var (
	// ErrInvalidDataURI is returned for strings that are not base64 data URIs
	ErrInvalidDataURI = errors.New("invalid data uri")
	// ErrUnknownCharset is returned when text cannot be mapped to UTF-8
	ErrUnknownCharset = errors.New("unknown text encoding")
)

// DataURI encodes data as data:<mime>;base64,<payload>
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a base64 data URI into its MIME type and decoded bytes
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if mime == "" {
		mime = Detect(data, "")
	}
	return mime, data, nil
}

// Detect returns the declared type when it is meaningful, otherwise sniffs
// the content. Parameters such as charset are stripped.
func Detect(data []byte, declared string) string {
	if t := Essence(declared); t != "" && t != OctetStream {
		return t
	}
	return Essence(mimetype.Detect(data).String())
}

// Essence strips parameters and normalizes case
func Essence(contentType string) string {
	t, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

// IsImage reports whether the type is image/*
func IsImage(mime string) bool {
	return strings.HasPrefix(Essence(mime), "image/")
}

// IsText reports whether the type is text/* or a textual application type
func IsText(mime string) bool {
	t := Essence(mime)
	if strings.HasPrefix(t, "text/") {
		return true
	}
	switch t {
	case "application/json", "application/xml", "application/javascript":
		return true
	}
	return false
}

// DecodeText returns data as UTF-8, transcoding from the detected charset
// when the bytes are not already valid UTF-8.
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "", ErrUnknownCharset
	}
	enc, name := charset.Lookup(result.Charset)
	if enc == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownCharset, result.Charset)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s text: %w", name, err)
	}
	return string(out), nil
}
