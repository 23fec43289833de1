// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultCharset is used for strings whose font (or font table) is unknown
const DefaultCharset = "iso-8859-1"

// CharsetEncoding resolves a CDXML charset name to a text encoding.
//
// iso-8859-1 is treated as Windows-1252, which is what producers actually write
// under that name. The x-mac-* names resolve where an encoding exists. ok is false
// when the charset has no known encoding.
func CharsetEncoding(name string) (enc encoding.Encoding, ok bool) {
	switch strings.ToLower(name) {
	case "", "unknown", "iso-8859-1":
		return charmap.Windows1252, true
	case "utf-8":
		return unicode.UTF8, true
	case "x-mac-roman":
		return charmap.Macintosh, true
	case "x-mac-cyrillic":
		return charmap.MacintoshCyrillic, true
	}

	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, true
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, true
	}
	return nil, false
}

// decodeText converts charset encoded bytes to a string, falling back to UTF-8
// (with replacement characters) when the charset is unknown or decoding fails.
func decodeText(b []byte, charset string, warn func(msg string, args ...interface{})) string {
	enc, ok := CharsetEncoding(charset)
	if !ok {
		warn("unsupported charset, decoding as UTF-8", "charset", charset)
		return strings.ToValidUTF8(string(b), "�")
	}
	if enc == unicode.UTF8 {
		return strings.ToValidUTF8(string(b), "�")
	}

	s, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		warn("text not valid in charset, decoding as UTF-8", "charset", charset, "error", err)
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(s)
}

// encodeText converts a string to the charset, reporting false if the charset
// is unknown or cannot represent s
func encodeText(s, charset string) ([]byte, bool) {
	enc, ok := CharsetEncoding(charset)
	if !ok {
		return nil, false
	}
	if enc == unicode.UTF8 {
		return []byte(s), true
	}
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, false
	}
	return b, true
}
