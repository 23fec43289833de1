// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import "strings"

// A slot is one CDX property of an element. Most slots are a single attribute of
// the same name; the rest are spread over several attributes or child elements.
const (
	slotLabelStyle   = "LabelStyle"
	slotCaptionStyle = "CaptionStyle"
	slotText         = "Text"
	slotValue        = "Value"
	slotTagType      = "TagType"
	slotFontTable    = fontTableTag
	slotColorTable   = colorTableTag
	slotRepresent    = representTag
)

// Attributes holding the unpacked LabelStyle and CaptionStyle properties, in
// font, size, face order
var styleAttrs = map[string][3]string{
	slotLabelStyle:   {"LabelFont", "LabelSize", "LabelFace"},
	slotCaptionStyle: {"CaptionFont", "CaptionSize", "CaptionFace"},
}

// slotOf returns the slot an attribute belongs to
func slotOf(attr string) string {
	for slot, names := range styleAttrs {
		for _, n := range names {
			if n == attr {
				return slot
			}
		}
	}
	return attr
}

// slotSignature renders the text of a slot; ok is false when the element does
// not have the slot
func slotSignature(e *Element, slot string) (sig string, ok bool) {
	switch slot {
	case slotLabelStyle, slotCaptionStyle:
		var sb strings.Builder
		for _, n := range styleAttrs[slot] {
			if v, has := e.Attr(n); has {
				ok = true
				sb.WriteString(v)
			}
			sb.WriteByte(0)
		}
		return sb.String(), ok

	case slotText:
		spans := e.ChildrenByTag(spanTag)
		if len(spans) == 0 && e.Text == "" && !(e.Tag == textTag && !e.fromCDX()) {
			if _, has := e.raw[slotText]; !has {
				return "", false
			}
		}
		var sb strings.Builder
		sb.WriteString(e.Text)
		for _, s := range spans {
			sb.WriteByte(0)
			sb.WriteString(s.signature())
		}
		return sb.String(), true

	case slotFontTable, slotColorTable:
		if c := e.Child(slot); c != nil {
			return c.signature(), true
		}
		return "", false

	case slotRepresent:
		return "", e.Child(representTag) != nil

	case slotValue:
		v, has := e.Attr(slotValue)
		if !has {
			return "", false
		}
		return v + "\x00" + e.AttrOr(slotTagType, ""), true

	default:
		return e.Attr(slot)
	}
}

// slots returns the properties of e in the order they are to be written: the
// order they were read in, then any slots added since in attribute and child
// order. Reading the result back yields the attributes and children in the same
// order.
func slots(e *Element) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(slot string) {
		if seen[slot] {
			return
		}
		seen[slot] = true
		if _, ok := slotSignature(e, slot); ok {
			out = append(out, slot)
		}
	}

	for _, s := range e.order {
		add(s)
	}
	for _, a := range e.Attrs {
		add(slotOf(a.Name))
	}
	for _, c := range e.Children {
		switch c.Tag {
		case fontTableTag, colorTableTag, representTag:
			add(c.Tag)
		}
	}
	add(slotRepresent)
	add(slotText)
	add(slotLabelStyle)
	add(slotCaptionStyle)
	add(slotColorTable)
	add(slotFontTable)
	return out
}
