// Package encoding provides text encoding helpers for fixed-size binary
// header fields.
package encoding

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Latin1ToUTF8 decodes ISO 8859-1 bytes. Every byte maps to one rune, so
// decoding never fails; the input is returned as-is if the transformer
// reports an error anyway.
func Latin1ToUTF8(data []byte) string {
	result, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToLatin1 encodes s as ISO 8859-1. Runes outside Latin-1 are replaced
// with '?'.
func UTF8ToLatin1(s string) []byte {
	enc := charmap.ISO8859_1.NewEncoder()
	result, _, err := transform.Bytes(enc, []byte(s))
	if err == nil {
		return result
	}
	var b bytes.Buffer
	for _, r := range s {
		if r > 0xff {
			b.WriteByte('?')
			continue
		}
		b.WriteByte(byte(r))
	}
	return b.Bytes()
}

// TrimNullBytes removes trailing null bytes from a byte slice.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

// FixedStringToUTF8 decodes a null-terminated, space-padded Latin-1 field.
func FixedStringToUTF8(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return strings.TrimRight(Latin1ToUTF8(data), " ")
}

// UTF8ToFixedString encodes s as Latin-1 into a field of exactly size bytes,
// truncating or padding with null bytes.
func UTF8ToFixedString(s string, size int) []byte {
	result := make([]byte, size)
	copy(result, UTF8ToLatin1(s))
	return result
}
