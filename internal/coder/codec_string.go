// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"fmt"
	"math"
	"strings"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/errors"
)

// FontStyle is the style of a run of text: font id, face bits, size in 1/20
// points and color table index
type FontStyle struct {
	Font, Face, Size, Color uint16
}

// PointSize returns the font size in points
func (s FontStyle) PointSize() float64 {
	return float64(s.Size) / 20
}

// SizeFromPoints converts a point size to 1/20 points
func SizeFromPoints(p float64) uint16 {
	return uint16(math.Round(p * 20))
}

type fontStyleCodec struct{}

var fontStyleCodecI xCodec = fontStyleCodec{}

func (_ fontStyleCodec) Name() string {
	return "CDXFontStyle"
}

func (_ fontStyleCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXFontStyle", 8); err != nil {
		return nil, err
	}
	return decodeFontStyle(d)
}

func decodeFontStyle(d cdxinterfaces.Decoder) (FontStyle, error) {
	var s FontStyle
	s.Font, _ = d.DecodeUint16()
	s.Face, _ = d.DecodeUint16()
	s.Size, _ = d.DecodeUint16()
	var err error
	s.Color, err = d.DecodeUint16()
	return s, err
}

// Parse reads the attribute form, e.g. `font="3" size="10.0" face="96" color="0"`
func (_ fontStyleCodec) Parse(s string) (cdxinterfaces.Value, error) {
	var fs FontStyle
	for _, f := range strings.Fields(s) {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 {
			return nil, errors.ValueError{Type: "CDXFontStyle", Value: s}
		}
		v := strings.Trim(kv[1], `"`)
		var err error
		switch kv[0] {
		case "font":
			fs.Font, err = parseUint16("CDXFontStyle", v)
		case "face":
			fs.Face, err = parseUint16("CDXFontStyle", v)
		case "color":
			fs.Color, err = parseUint16("CDXFontStyle", v)
		case "size":
			var p float64
			p, err = parseFloat("CDXFontStyle", v)
			fs.Size = SizeFromPoints(p)
		default:
			err = errors.ValueError{Type: "CDXFontStyle", Value: s}
		}
		if err != nil {
			return nil, err
		}
	}
	return fs, nil
}

func parseUint16(typ, s string) (uint16, error) {
	v, err := parseInt(typ, s, 0, math.MaxUint16)
	return uint16(v), err
}

func (s FontStyle) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeUint16(s.Font)
	e.EncodeUint16(s.Face)
	e.EncodeUint16(s.Size)
	e.EncodeUint16(s.Color)
	return nil
}

func (s FontStyle) String() string {
	return fmt.Sprintf(`font="%d" size="%s" face="%d" color="%d"`,
		s.Font, formatFloat(s.PointSize()), s.Face, s.Color)
}

// Span is a run of text in a single style
type Span struct {
	Style FontStyle
	Text  string
}

// StyledString is text with optional style runs. Line breaks are "\n" in Go and
// "\r" in the binary form.
type StyledString struct {
	// Spans holds the styled runs; when empty, the string is unstyled and its
	// text is Plain
	Spans []Span
	Plain string

	// Headerless is set for payloads lacking the style run count, which some
	// producers write when the referenced font is missing
	Headerless bool

	utf8 bool
}

// Text returns the full text of the string
func (s StyledString) Text() string {
	if len(s.Spans) == 0 {
		return s.Plain
	}
	var sb strings.Builder
	for _, sp := range s.Spans {
		sb.WriteString(sp.Text)
	}
	return sb.String()
}

func (s StyledString) String() string {
	return s.Text()
}

// stringCodec handles styled strings. utf8 strings ignore the font table.
type stringCodec struct {
	name string
	utf8 bool
}

var (
	stringCodecI     xCodec = stringCodec{"CDXString", false}
	utf8StringCodecI xCodec = stringCodec{"CDXUTF8String", true}
)

func (c stringCodec) Name() string {
	return c.name
}

func (c stringCodec) Parse(s string) (cdxinterfaces.Value, error) {
	return StyledString{Plain: s, utf8: c.utf8}, nil
}

type styleRun struct {
	start int
	style FontStyle
}

func (c stringCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	warn := d.Logger().Warn
	payload := d.Rest()

	headerless := func() StyledString {
		return StyledString{
			Plain:      fromWire(decodeText(payload, "utf-8", warn)),
			Headerless: true,
			utf8:       c.utf8,
		}
	}

	if len(payload) < 2 {
		return headerless(), nil
	}

	pd := NewDecoder(payload, nil, nil)
	n, _ := pd.DecodeUint16()
	if pd.Len() < int(n)*10 {
		warn("style runs exceed string payload, reading as plain text", "runs", n, "length", len(payload))
		return headerless(), nil
	}

	runs := make([]styleRun, n)
	for i := range runs {
		start, _ := pd.DecodeUint16()
		runs[i].start = int(start)
		runs[i].style, _ = decodeFontStyle(pd)
	}
	text := pd.Rest()

	charset := DefaultCharset
	switch {
	case c.utf8:
		charset = "utf-8"
	case n > 0 && d.Fonts() != nil:
		cs, ok := d.Fonts().Charset(runs[0].style.Font)
		if !ok {
			warn("string refers to font missing from font table, reading as plain text", "font", runs[0].style.Font)
			return headerless(), nil
		}
		charset = cs
	}

	if n == 0 {
		return StyledString{Plain: fromWire(decodeText(text, charset, warn)), utf8: c.utf8}, nil
	}

	s := StyledString{Spans: make([]Span, n), utf8: c.utf8}
	for i, r := range runs {
		start := r.start
		if i == 0 {
			start = 0
		}
		end := len(text)
		if i+1 < len(runs) {
			end = runs[i+1].start
		}
		start, end = clampRange(start, end, len(text))
		s.Spans[i] = Span{
			Style: r.style,
			Text:  fromWire(decodeText(text[start:end], charset, warn)),
		}
	}
	return s, nil
}

func clampRange(start, end, n int) (int, int) {
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

func (s StyledString) Encode(e cdxinterfaces.Encoder) error {
	charset := DefaultCharset
	switch {
	case s.utf8:
		charset = "utf-8"
	case len(s.Spans) > 0 && e.Fonts() != nil:
		if cs, ok := e.Fonts().Charset(s.Spans[0].Style.Font); ok {
			charset = cs
		}
	}

	texts := []string{s.Plain}
	if len(s.Spans) > 0 {
		texts = make([]string, len(s.Spans))
		for i, sp := range s.Spans {
			texts[i] = sp.Text
		}
	}

	encoded := make([][]byte, len(texts))
	for i, t := range texts {
		b, ok := encodeText(toWire(t), charset)
		if !ok {
			e.Logger().Warn("text not representable in charset, writing UTF-8", "charset", charset)
			for j, t := range texts {
				encoded[j] = []byte(toWire(t))
			}
			break
		}
		encoded[i] = b
	}

	if !s.Headerless || len(s.Spans) > 0 {
		if err := encodeCount(e, "CDXString", len(s.Spans)); err != nil {
			return err
		}
		start := 0
		for i, sp := range s.Spans {
			// Run offsets are 16 bits; text may run on past the last one
			if start > math.MaxUint16 {
				return errors.LengthError{Type: "CDXString", Actual: start, Expected: math.MaxUint16}
			}
			e.EncodeUint16(uint16(start))
			sp.Style.Encode(e)
			start += len(encoded[i])
		}
	}
	for _, b := range encoded {
		e.EncodeBytes(b)
	}
	return nil
}

// StyledText builds a styled string from spans
func StyledText(spans ...Span) StyledString {
	return StyledString{Spans: spans}
}

func fromWire(s string) string {
	return strings.ReplaceAll(s, "\r", "\n")
}

func toWire(s string) string {
	return strings.ReplaceAll(s, "\n", "\r")
}
