// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/coder"
	"go.e43.eu/cdx/internal/errors"
	"go.e43.eu/cdx/internal/tags"
)

// Elements carrying property values, which are written as properties of their
// parent rather than as objects
var propertyElements = map[string]bool{
	spanTag:       true,
	fontTag:       true,
	colorTag:      true,
	fontTableTag:  true,
	colorTableTag: true,
	representTag:  true,
}

// Object tags which the drawing application renders a second time when they are
// present in a CDX file converted from CDXML
var suppressedObjectTags = map[string]bool{
	"stereo":         true,
	"enhancedstereo": true,
	"residueID":      true,
}

// Defaults for LabelStyle and CaptionStyle attributes which are not set
const (
	defaultStyleFont = "1"
	defaultStyleFace = "0"
	defaultStyleSize = "12"
)

type cdxWriter struct {
	buf     bytes.Buffer
	doc     *Document
	opts    *Options
	log     *slog.Logger
	fonts   cdxinterfaces.FontTable
	scratch [8]byte
}

type writeFrame struct {
	el   *Element
	next int
}

func (w *cdxWriter) write() error {
	root := w.doc.Root
	if root == nil || root.Tag != RootTag {
		return fmt.Errorf("cdx: document root must be a %s element", RootTag)
	}

	ft, err := w.doc.Fonts()
	if err != nil {
		return errors.WithPropertyError(err, root.Tag, idString(root), slotFontTable)
	}
	if ft != nil {
		w.fonts = ft
	}

	w.doc.reserveIDs()

	w.buf.Write(header)
	if err := w.object(root); err != nil {
		return err
	}

	stack := []writeFrame{{el: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.el.Children) {
			w.uint16(tags.Terminator)
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.el.Children[top.next]
		top.next++

		skip, err := w.skip(child)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		if err := w.object(child); err != nil {
			return err
		}
		stack = append(stack, writeFrame{el: child})
	}

	w.uint16(tags.Terminator)
	return nil
}

// skip reports whether el is not to be written as an object
func (w *cdxWriter) skip(el *Element) (bool, error) {
	if propertyElements[el.Tag] {
		return true, nil
	}
	if el.Tag == "objecttag" && !el.fromCDX() && suppressedObjectTags[el.AttrOr("Name", "")] {
		w.log.Debug("not writing object tag", "name", el.AttrOr("Name", ""), "id", el.ID)
		return true, nil
	}
	if _, ok := tags.ObjectByElement(el.Tag); !ok {
		if !w.opts.SkipUnknownObjects {
			return false, errors.UnknownObjectError{Element: el.Tag}
		}
		w.log.Warn("skipping element with no object tag", "element", el.Tag)
		return true, nil
	}
	return false, nil
}

func (w *cdxWriter) uint16(v uint16) {
	binary.LittleEndian.PutUint16(w.scratch[:2], v)
	w.buf.Write(w.scratch[:2])
}

func (w *cdxWriter) uint32(v uint32) {
	binary.LittleEndian.PutUint32(w.scratch[:4], v)
	w.buf.Write(w.scratch[:4])
}

// object writes the tag, id and properties of el
func (w *cdxWriter) object(el *Element) error {
	obj, ok := tags.ObjectByElement(el.Tag)
	if !ok {
		return errors.UnknownObjectError{Element: el.Tag}
	}
	if el.ID == 0 && el != w.doc.Root {
		el.ID = w.doc.allocate()
	}
	w.uint16(obj.Tag)
	w.uint32(el.ID)

	for _, slot := range slots(el) {
		if err := w.slot(el, slot); err != nil {
			return errors.WithPropertyError(err, el.Tag, idString(el), slot)
		}
	}
	return nil
}

func (w *cdxWriter) property(tag uint16, payload []byte) {
	w.uint16(tag)
	if len(payload) < longLength {
		w.uint16(uint16(len(payload)))
	} else {
		w.uint16(longLength)
		w.uint32(uint32(len(payload)))
	}
	w.buf.Write(payload)
}

func (w *cdxWriter) slot(el *Element, slot string) error {
	p, ok := tags.PropertyByName(slot)
	if !ok {
		if !w.opts.SkipUnknownAttributes {
			return errors.UnknownPropertyError{Name: slot, Object: el.Tag}
		}
		w.log.Warn("skipping attribute with no property", "attribute", slot, "element", el.Tag)
		return nil
	}

	if slot == slotRepresent {
		for _, rep := range el.ChildrenByTag(representTag) {
			r, err := coder.ParseRepresents(rep.AttrOr("object", ""), rep.AttrOr("attribute", ""))
			if err != nil {
				return err
			}
			payload, err := coder.Encode(r, w.fonts, w.log)
			if err != nil {
				return err
			}
			w.property(p.Tag, payload)
		}
		return nil
	}

	sig, _ := slotSignature(el, slot)
	if rp, ok := el.raw[slot]; ok && rp.sig == sig {
		w.property(p.Tag, rp.data)
		return nil
	}

	v, err := w.value(el, slot, p)
	if err != nil {
		return err
	}
	if o, ok := v.(cdxinterfaces.Omittable); ok && o.Omit() {
		return nil
	}
	payload, err := coder.Encode(v, w.fonts, w.log)
	if err != nil {
		return err
	}
	w.property(p.Tag, payload)
	return nil
}

// value builds the value of a slot from the text of el
func (w *cdxWriter) value(el *Element, slot string, p tags.Property) (cdxinterfaces.Value, error) {
	switch slot {
	case slotLabelStyle, slotCaptionStyle:
		names := styleAttrs[slot]
		return parseFontStyle(
			el.AttrOr(names[0], defaultStyleFont),
			el.AttrOr(names[1], defaultStyleSize),
			el.AttrOr(names[2], defaultStyleFace),
			"0",
		)

	case slotText:
		return textValue(el)

	case slotFontTable:
		return parseFontTable(el.Child(fontTableTag), rawPlatform(el))

	case slotColorTable:
		return parseColorTable(el.Child(colorTableTag))

	case slotValue:
		tagType, ok := el.Attr(slotTagType)
		if !ok {
			w.log.Warn("Value without TagType, writing it unformatted", "element", el.Tag, "id", el.ID)
		}
		return coder.ValueCodec(tagType).Parse(el.AttrOr(slotValue, ""))
	}

	typ := p.Type
	if el.Tag == "gepband" && (slot == "Height" || slot == "Width") {
		typ = "INT32"
	}
	c, ok := coder.Lookup(typ)
	if !ok {
		return nil, errors.ValueError{Type: typ, Value: slot}
	}
	return c.Parse(el.AttrOr(slot, ""))
}

func parseFontStyle(font, size, face, color string) (cdxinterfaces.Value, error) {
	c, _ := coder.Lookup("CDXFontStyle")
	return c.Parse(fmt.Sprintf(`font="%s" size="%s" face="%s" color="%s"`, font, size, face, color))
}

// textValue builds the styled string of a text element from its spans
func textValue(el *Element) (cdxinterfaces.Value, error) {
	spans := el.ChildrenByTag(spanTag)
	if len(spans) == 0 {
		return coder.StyledString{Plain: el.Text}, nil
	}

	s := coder.StyledText()
	for _, sp := range spans {
		font, ok := sp.Attr("font")
		if !ok {
			return nil, errors.ValueError{Type: "CDXString", Value: sp.Text}
		}
		v, err := parseFontStyle(font, sp.AttrOr("size", defaultStyleSize), sp.AttrOr("face", "0"), sp.AttrOr("color", "0"))
		if err != nil {
			return nil, err
		}
		s.Spans = append(s.Spans, coder.Span{Style: v.(coder.FontStyle), Text: sp.Text})
	}
	return s, nil
}
