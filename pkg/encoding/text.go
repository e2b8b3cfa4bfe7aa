// Package encoding provides text encoding utilities for MSB captures and wire packets.
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// UTF16LEToUTF8 converts UTF-16LE encoded bytes to a UTF-8 string.
// Returns the input reinterpreted as a string if decoding fails.
func UTF16LEToUTF8(data []byte) string {
	result, _, err := transform.Bytes(utf16le.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToUTF16LE converts a UTF-8 string to UTF-16LE encoded bytes.
func UTF8ToUTF16LE(s string) []byte {
	result, _, err := transform.Bytes(utf16le.NewEncoder(), []byte(s))
	if err != nil {
		return nil
	}
	return result
}

// UTF16Len returns the number of UTF-16 code units needed to encode s.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// UTF8ToString decodes UTF-8 bytes, replacing invalid sequences with U+FFFD.
func UTF8ToString(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

// TrimNullString removes trailing null bytes and converts to string.
func TrimNullString(data []byte) string {
	return string(bytes.TrimRight(data, "\x00"))
}

// HexString formats data as space separated two digit hex bytes.
func HexString(data []byte, upper bool) string {
	digits := "0123456789abcdef"
	if upper {
		digits = "0123456789ABCDEF"
	}
	if len(data) == 0 {
		return ""
	}
	out := make([]byte, 0, len(data)*3-1)
	for i, b := range data {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[b>>4], digits[b&0x0f])
	}
	return string(out)
}
