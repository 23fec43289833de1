// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"strconv"
	"strings"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/errors"
)

// maskCodec handles bit sets rendered as space separated option names
type maskCodec struct {
	name            string
	width, minWidth int
	bits            []enumEntry
	// zero names the empty set, if it has a name
	zero string
	// empty is the value empty text parses to
	empty uint32
}

// Mask is a decoded bit set
type Mask struct {
	c     *maskCodec
	V     uint32
	width int
}

func newMask(name string, width int, bits ...enumEntry) *maskCodec {
	c := &maskCodec{name: name, width: width, minWidth: width}
	for _, b := range bits {
		if b.v == 0 {
			c.zero = b.name
		} else {
			c.bits = append(c.bits, b)
		}
	}
	return c
}

func (c *maskCodec) Name() string {
	return c.name
}

func (c *maskCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	width := d.Len()
	if width < c.minWidth || width > c.width {
		return nil, errors.LengthError{Type: c.name, Actual: width, Expected: c.width}
	}
	v, err := decodeWidth(d, width, false)
	if err != nil {
		return nil, err
	}

	m := Mask{c: c, V: uint32(v), width: width}
	rest := m.V
	for _, b := range c.bits {
		rest &^= uint32(b.v)
	}
	if rest != 0 {
		return nil, errors.InvalidEnumError{Type: c.name, Value: strconv.FormatUint(uint64(m.V), 10)}
	}
	return m, nil
}

func (c *maskCodec) Parse(s string) (cdxinterfaces.Value, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return Mask{c: c, V: c.empty, width: c.width}, nil
	}

	var v uint32
	for _, p := range parts {
		if p == c.zero && c.zero != "" {
			continue
		}
		found := false
		for _, b := range c.bits {
			if b.name == p {
				v |= uint32(b.v)
				found = true
				break
			}
		}
		if !found {
			return nil, errors.InvalidEnumError{Type: c.name, Value: p}
		}
	}
	return Mask{c: c, V: v, width: c.width}, nil
}

func (m Mask) Encode(e cdxinterfaces.Encoder) error {
	encodeWidth(e, int64(m.V), m.width)
	return nil
}

func (m Mask) String() string {
	if m.V == 0 {
		return m.c.zero
	}
	if m.c.empty != 0 && m.V == m.c.empty {
		return ""
	}
	var names []string
	for _, b := range m.c.bits {
		if m.V&uint32(b.v) != 0 {
			names = append(names, b.name)
		}
	}
	return strings.Join(names, " ")
}

// bits lists names for consecutive powers of two starting at 1
func bits(names ...string) []enumEntry {
	es := make([]enumEntry, len(names))
	for i, n := range names {
		es[i] = enumEntry{1 << uint(i), n}
	}
	return es
}

var (
	arrowTypeCodecI xCodec = newMask("CDXArrowType", 2,
		append([]enumEntry{{0, "NoHead"}},
			bits("HalfHead", "FullHead", "Resonance", "Equilibrium", "Hollow",
				"RetroSynthetic", "NoGo", "Dipole")...)...)

	fillTypeCodecI xCodec = newMask("CDXFillType", 2,
		append([]enumEntry{{0, "Unspecified"}},
			bits("None", "Solid", "Shaded", "Gradient", "Pattern")...)...)

	ovalTypeCodecI xCodec = func() *maskCodec {
		// ChemDraw 8 writes a single byte
		c := newMask("CDXOvalType", 2,
			bits("Circle", "Shaded", "Filled", "Dashed", "Bold", "Shadowed")...)
		c.minWidth = 1
		return c
	}()

	rectangleTypeCodecI xCodec = newMask("CDXRectangleType", 2,
		append([]enumEntry{{0, "Plain"}},
			bits("RoundEdge", "Shadow", "Shaded", "Filled", "Dashed", "Bold")...)...)

	lineTypeCodecI xCodec = newMask("CDXLineType", 2,
		append([]enumEntry{{0, "Solid"}},
			bits("Dashed", "Bold", "Wavy")...)...)

	// Bond orders combine for query bonds: "1 2" is single or double. Empty text
	// is the "any" order, 0xFFFF; the empty set is written "0".
	bondOrderCodecI xCodec = func() *maskCodec {
		c := newMask("CDXBondOrder", 2,
			append([]enumEntry{{0, "0"}},
				bits("1", "2", "3", "4", "5", "6", "0.5", "1.5", "2.5", "3.5", "4.5", "5.5",
					"dative", "ionic", "hydrogen", "threecenter")...)...)
		c.empty = 0xFFFF
		return c
	}()
)
