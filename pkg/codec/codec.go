// Package codec converts file contents to and from the base64 transport
// encoding used by the contents API.
package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Encode returns the standard base64 encoding of data.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// EncodeText encodes the UTF-8 bytes of s.
func EncodeText(s string) string {
	return Encode([]byte(s))
}

// Decode decodes standard base64. Line breaks are ignored, since the API
// wraps the content it returns every 60 characters.
func Decode(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 content: %w", err)
	}
	return data, nil
}

// DecodeText decodes s and returns the bytes as a string without any
// re-encoding, so multi-byte UTF-8 survives unchanged.
func DecodeText(s string) (string, error) {
	data, err := Decode(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
