// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"encoding/binary"
	"strconv"

	"go.e43.eu/cdx/internal/coder"
	"go.e43.eu/cdx/internal/errors"
	"go.e43.eu/cdx/internal/tags"
)

// CDXML vocabulary which carries property values rather than objects
const (
	RootTag       = "CDXML"
	fontTableTag  = "fonttable"
	fontTag       = "font"
	colorTableTag = "colortable"
	colorTag      = "color"
	spanTag       = "s"
	representTag  = "represent"
	textTag       = "t"
)

func fontTableElement(ft *coder.FontTable) *Element {
	el := &Element{Tag: fontTableTag}
	for _, f := range ft.Fonts {
		el.Append(&Element{Tag: fontTag, Attrs: []Attr{
			{"id", strconv.Itoa(int(f.ID))},
			{"charset", f.CharsetName()},
			{"name", f.Name},
		}})
	}
	return el
}

// parseFontTable builds a font table from a fonttable element. The platform is
// not represented in CDXML and so must be supplied.
func parseFontTable(el *Element, platform uint16) (*coder.FontTable, error) {
	ft := &coder.FontTable{Platform: platform}
	for _, f := range el.ChildrenByTag(fontTag) {
		id, err := strconv.ParseUint(f.AttrOr("id", ""), 10, 16)
		if err != nil {
			return nil, errors.ValueError{Type: "CDXFontTable", Value: f.AttrOr("id", ""), Underlying: err}
		}

		name := f.AttrOr("charset", "iso-8859-1")
		cs, ok := tags.CharsetByName(name)
		if !ok {
			return nil, errors.ValueError{Type: "CDXFontTable", Value: name}
		}

		ft.Fonts = append(ft.Fonts, coder.Font{
			ID:      uint16(id),
			Charset: cs.ID,
			Name:    f.AttrOr("name", ""),
		})
	}
	return ft, nil
}

// rawPlatform recovers the font table platform from a CDX payload
func rawPlatform(el *Element) uint16 {
	if rp, ok := el.raw[fontTableTag]; ok && len(rp.data) >= 2 {
		return binary.LittleEndian.Uint16(rp.data)
	}
	return coder.PlatformWindows
}

func colorTableElement(ct coder.ColorTable) *Element {
	el := &Element{Tag: colorTableTag}
	for _, c := range ct {
		el.Append(&Element{Tag: colorTag, Attrs: []Attr{
			{"r", coder.FormatComponent(c.R)},
			{"g", coder.FormatComponent(c.G)},
			{"b", coder.FormatComponent(c.B)},
		}})
	}
	return el
}

func parseColorTable(el *Element) (coder.ColorTable, error) {
	var ct coder.ColorTable
	for _, c := range el.ChildrenByTag(colorTag) {
		var rgb coder.RGB
		var err error
		if rgb.R, err = coder.ParseComponent(c.AttrOr("r", "0")); err != nil {
			return nil, err
		}
		if rgb.G, err = coder.ParseComponent(c.AttrOr("g", "0")); err != nil {
			return nil, err
		}
		if rgb.B, err = coder.ParseComponent(c.AttrOr("b", "0")); err != nil {
			return nil, err
		}
		ct = append(ct, rgb)
	}
	return ct, nil
}
