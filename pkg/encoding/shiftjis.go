// Package encoding provides text encoding utilities for the level and model
// container formats. Labels are stored as Shift-JIS C strings.
//
// Runes without a Shift-JIS mapping are written as decimal character
// references ("&#233;"). '&' itself is always written as "&#38;", so every
// reference in stored text was produced by the encoder and decodes back to
// the original rune.
package encoding

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	textencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// ShiftJISToUTF8 converts Shift-JIS encoded bytes to a UTF-8 string and
// resolves character references.
// Returns the original bytes as a string if conversion fails.
func ShiftJISToUTF8(data []byte) string {
	decoder := japanese.ShiftJIS.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return unescapeReferences(string(result))
}

// UTF8ToShiftJIS converts a UTF-8 string to Shift-JIS encoded bytes,
// escaping runes Shift-JIS cannot represent.
func UTF8ToShiftJIS(s string) []byte {
	s = strings.ReplaceAll(s, "&", "&#38;")
	encoder := textencoding.HTMLEscapeUnsupported(japanese.ShiftJIS.NewEncoder())
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// unescapeReferences replaces decimal character references with their runes.
// Malformed references are kept as written.
func unescapeReferences(s string) string {
	if !strings.Contains(s, "&#") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for {
		start := strings.Index(s, "&#")
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start:], ';')
		if end < 0 {
			break
		}
		end += start

		n, err := strconv.Atoi(s[start+2 : end])
		if err != nil || n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
			b.WriteString(s[:start+2])
			s = s[start+2:]
			continue
		}
		b.WriteString(s[:start])
		b.WriteRune(rune(n))
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}

// TrimNullBytes removes trailing null bytes from a byte slice.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

// CString returns the Shift-JIS encoding of s followed by a null terminator.
func CString(s string) []byte {
	encoded := UTF8ToShiftJIS(s)
	out := make([]byte, len(encoded)+1)
	copy(out, encoded)
	return out
}

// FixedStringToUTF8 converts a fixed-size Shift-JIS byte array to UTF-8.
// Handles null termination and encoding conversion.
func FixedStringToUTF8(data []byte) string {
	nullIdx := bytes.IndexByte(data, 0)
	if nullIdx >= 0 {
		data = data[:nullIdx]
	}
	return ShiftJISToUTF8(data)
}
