// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Prolog opens every CDXML document. The drawing application does not
// recognise documents which start any other way.
const Prolog = `<?xml version="1.0" encoding="UTF-8" ?>` + "\n" +
	`<!DOCTYPE CDXML SYSTEM "http://www.cambridgesoft.com/xml/cdxml.dtd" >` + "\n"

type xmlWriter struct {
	w   *bytes.Buffer
	log *slog.Logger
}

type xmlWriteFrame struct {
	el   *Element
	next int
}

func (x *xmlWriter) write(root *Element) error {
	x.w.WriteString(Prolog)

	x.start(root)
	stack := []xmlWriteFrame{{el: root}}
	if !hasContent(root) {
		stack = stack[:0]
	}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.el.Children) {
			x.w.WriteString("</")
			x.w.WriteString(top.el.Tag)
			x.w.WriteString(">")
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.el.Children[top.next]
		top.next++
		x.start(child)
		if hasContent(child) {
			stack = append(stack, xmlWriteFrame{el: child})
		}
	}
	return nil
}

func hasContent(el *Element) bool {
	return len(el.Children) > 0 || el.Text != ""
}

// start writes the start tag of el, and its text. Elements without content are
// closed immediately.
func (x *xmlWriter) start(el *Element) {
	x.w.WriteString("<")
	x.w.WriteString(el.Tag)
	if el.ID != 0 {
		x.w.WriteString(` id="`)
		x.w.WriteString(strconv.FormatUint(uint64(el.ID), 10))
		x.w.WriteString(`"`)
	}
	for _, a := range el.Attrs {
		x.w.WriteString(" ")
		x.w.WriteString(a.Name)
		x.w.WriteString(`="`)
		x.escape(a.Value, true)
		x.w.WriteString(`"`)
	}
	if !hasContent(el) {
		x.w.WriteString("/>")
		return
	}
	x.w.WriteString(">")
	x.escape(el.Text, false)
}

// isXMLChar reports whether r may appear in an XML 1.0 document
func isXMLChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= utf8.MaxRune)
}

func (x *xmlWriter) escape(s string, attr bool) {
	dropped := 0
	for _, r := range s {
		switch {
		case r == '&':
			x.w.WriteString("&amp;")
		case r == '<':
			x.w.WriteString("&lt;")
		case r == '>':
			x.w.WriteString("&gt;")
		case r == '"' && attr:
			x.w.WriteString("&quot;")
		case r == '\n' && attr:
			x.w.WriteString("&#10;")
		case r == '\t' && attr:
			x.w.WriteString("&#9;")
		case r == '\r':
			x.w.WriteString("&#13;")
		case !isXMLChar(r):
			dropped++
		default:
			x.w.WriteRune(r)
		}
	}
	if dropped > 0 {
		x.log.Warn("dropped characters not allowed in XML", "count", dropped, "text", strings.ToValidUTF8(s, ""))
	}
}
