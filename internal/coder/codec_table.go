// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"fmt"
	"strings"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/errors"
	"go.e43.eu/cdx/internal/tags"
	"golang.org/x/text/encoding/charmap"
)

// Font table platforms
const (
	PlatformMacintosh uint16 = 0
	PlatformWindows   uint16 = 1
)

// Font is a font table entry
type Font struct {
	ID      uint16
	Charset uint16
	Name    string
}

// CharsetName returns the CDXML name of the font's charset
func (f Font) CharsetName() string {
	if c, ok := tags.CharsetByID(f.Charset); ok {
		return c.Name
	}
	return "Unknown"
}

// FontTable is the document font table
type FontTable struct {
	Platform uint16
	Fonts    []Font
}

var _ cdxinterfaces.FontTable = &FontTable{}

// Charset implements cdxinterfaces.FontTable
func (t *FontTable) Charset(id uint16) (string, bool) {
	for _, f := range t.Fonts {
		if f.ID == id {
			return f.CharsetName(), true
		}
	}
	return "", false
}

type fontTableCodec struct{}

var fontTableCodecI xCodec = fontTableCodec{}

func (_ fontTableCodec) Name() string {
	return "CDXFontTable"
}

func (_ fontTableCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	var t FontTable
	var err error
	if t.Platform, err = d.DecodeUint16(); err != nil {
		return nil, err
	}
	n, err := d.DecodeUint16()
	if err != nil {
		return nil, err
	}

	dec := charmap.Windows1252.NewDecoder()
	t.Fonts = make([]Font, n)
	for i := range t.Fonts {
		f := &t.Fonts[i]
		f.ID, _ = d.DecodeUint16()
		f.Charset, _ = d.DecodeUint16()
		l, err := d.DecodeUint16()
		if err != nil {
			return nil, err
		}
		name, err := d.DecodeBytes(int(l))
		if err != nil {
			return nil, err
		}
		if name, err = dec.Bytes(name); err != nil {
			return nil, errors.ValueError{Type: "CDXFontTable", Value: string(name), Underlying: err}
		}
		f.Name = string(name)
	}
	if d.Len() != 0 {
		return nil, errors.LengthError{Type: "CDXFontTable", Actual: d.Len(), Expected: 0}
	}
	return &t, nil
}

// Parse is unsupported: in CDXML the font table is a fonttable element
func (_ fontTableCodec) Parse(s string) (cdxinterfaces.Value, error) {
	return nil, errors.ValueError{Type: "CDXFontTable", Value: s}
}

func (t *FontTable) Encode(e cdxinterfaces.Encoder) error {
	enc := charmap.Windows1252.NewEncoder()
	e.EncodeUint16(t.Platform)
	e.EncodeUint16(uint16(len(t.Fonts)))
	for _, f := range t.Fonts {
		name, err := enc.Bytes([]byte(f.Name))
		if err != nil {
			return errors.ValueError{Type: "CDXFontTable", Value: f.Name, Underlying: err}
		}
		e.EncodeUint16(f.ID)
		e.EncodeUint16(f.Charset)
		e.EncodeUint16(uint16(len(name)))
		e.EncodeBytes(name)
	}
	return nil
}

func (t *FontTable) String() string {
	parts := make([]string, len(t.Fonts))
	for i, f := range t.Fonts {
		parts[i] = fmt.Sprintf("%d:%s:%s", f.ID, f.CharsetName(), f.Name)
	}
	return strings.Join(parts, ";")
}

// RGB is a color table entry, 16 bits per component
type RGB struct {
	R, G, B uint16
}

// ColorTable is the document color table. Color indices in styles count from 0,
// which is black; 1 is white; table entries start at index 2.
type ColorTable []RGB

type colorTableCodec struct{}

var colorTableCodecI xCodec = colorTableCodec{}

func (_ colorTableCodec) Name() string {
	return "CDXColorTable"
}

func (_ colorTableCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	n, err := d.DecodeUint16()
	if err != nil {
		return nil, err
	}
	if err := expectLen(d, "CDXColorTable", int(n)*6); err != nil {
		return nil, err
	}
	t := make(ColorTable, n)
	for i := range t {
		t[i].R, _ = d.DecodeUint16()
		t[i].G, _ = d.DecodeUint16()
		t[i].B, _ = d.DecodeUint16()
	}
	return t, nil
}

// Parse is unsupported: in CDXML the color table is a colortable element
func (_ colorTableCodec) Parse(s string) (cdxinterfaces.Value, error) {
	return nil, errors.ValueError{Type: "CDXColorTable", Value: s}
}

func (t ColorTable) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeUint16(uint16(len(t)))
	for _, c := range t {
		e.EncodeUint16(c.R)
		e.EncodeUint16(c.G)
		e.EncodeUint16(c.B)
	}
	return nil
}

func (t ColorTable) String() string {
	parts := make([]string, len(t))
	for i, c := range t {
		parts[i] = fmt.Sprintf("%s %s %s", FormatComponent(c.R), FormatComponent(c.G), FormatComponent(c.B))
	}
	return strings.Join(parts, ";")
}

// FormatComponent renders a color component as a fraction of 65535
func FormatComponent(c uint16) string {
	return formatFloat(float64(c) / 65535)
}

// ParseComponent reads a color component fraction
func ParseComponent(s string) (uint16, error) {
	f, err := parseFloat("CDXColorTable", s)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > 1 {
		return 0, errors.ValueError{Type: "CDXColorTable", Value: s}
	}
	return uint16(f*65535 + 0.5), nil
}
