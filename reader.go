// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"strconv"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/coder"
	"go.e43.eu/cdx/internal/errors"
	"go.e43.eu/cdx/internal/tags"
)

// header opens every CDX document: the magic, a byte order marker and reserved
// bytes
var header = []byte{
	'V', 'j', 'C', 'D', '0', '1', '0', '0',
	0x04, 0x03, 0x02, 0x01,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Legacy documents carry this many unexplained bytes after the document id
const legacyPadding = 23

// Property lengths of 0xFFFF are followed by the real 32-bit length
const longLength = 0xFFFF

type cdxReader struct {
	b    []byte
	off  int
	conv *Converter
	log  *slog.Logger

	fonts *coder.FontTable
	maxID uint32
}

func (r *cdxReader) formatError(reason string) error {
	return errors.FormatError{Offset: int64(r.off), Reason: reason}
}

func (r *cdxReader) next(n int) ([]byte, error) {
	if n < 0 || len(r.b)-r.off < n {
		return nil, r.formatError("unexpected end of document")
	}
	b := r.b[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *cdxReader) readUint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *cdxReader) readUint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *cdxReader) fontTable() cdxinterfaces.FontTable {
	if r.fonts == nil {
		return nil
	}
	return r.fonts
}

func (r *cdxReader) read() (*Document, error) {
	if !bytes.HasPrefix(r.b, header) {
		return nil, r.formatError("invalid header")
	}
	r.off = len(header)

	tag, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	legacy := tag != tags.DocumentTag
	if legacy {
		if !r.conv.opts.Legacy {
			return nil, errors.ErrLegacyDocument
		}
		r.log.Warn("document has a legacy header, conversion may be inaccurate")
		// In place of the document tag, legacy headers have three reserved bytes
		if _, err := r.next(1); err != nil {
			return nil, err
		}
	}

	docID, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if legacy {
		if _, err := r.next(legacyPadding); err != nil {
			return nil, err
		}
	}
	r.log.Debug("reading document", "id", docID)

	root := &Element{Tag: RootTag, ID: docID}
	r.maxID = docID
	if err := r.readProperties(root); err != nil {
		return nil, err
	}

	stack := []*Element{root}
	for len(stack) > 0 {
		start := r.off
		tag, err := r.readUint16()
		if err != nil {
			return nil, err
		}

		if tag == tags.Terminator {
			stack = stack[:len(stack)-1]
			continue
		}

		obj, ok := tags.ObjectByTag(tag)
		if !ok {
			if !r.conv.opts.SkipUnknownObjects {
				return nil, errors.UnknownObjectError{Tag: tag, Offset: int64(start)}
			}
			r.log.Warn("skipping unknown object", "tag", tag, "offset", start)
			if err := r.skipObject(); err != nil {
				return nil, err
			}
			continue
		}

		el, err := r.readObject(obj)
		if err != nil {
			return nil, err
		}
		parent := stack[len(stack)-1]
		parent.Append(el)
		stack = append(stack, el)
	}

	// The document is closed by a second terminator
	if r.off+2 <= len(r.b) {
		if tag, _ := r.readUint16(); tag != tags.Terminator {
			r.log.Warn("document end marker missing", "offset", r.off-2)
		}
	}
	if r.off < len(r.b) {
		r.log.Warn("ignoring trailing data after document", "bytes", len(r.b)-r.off)
	}

	r.log.Debug("finished reading document", "maxID", r.maxID)
	return r.conv.newDocument(root, r.maxID), nil
}

func (r *cdxReader) readObject(obj tags.Object) (*Element, error) {
	id, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if id > r.maxID {
		r.maxID = id
	}
	r.log.Debug("reading object", "element", obj.Element, "id", id)

	el := &Element{Tag: obj.Element, ID: id}
	if err := r.readProperties(el); err != nil {
		return nil, err
	}
	return el, nil
}

// skipObject skips the object whose tag has just been read, along with any
// objects nested inside it
func (r *cdxReader) skipObject() error {
	if _, err := r.readUint32(); err != nil {
		return err
	}
	for depth := 1; depth > 0; {
		tag, err := r.readUint16()
		if err != nil {
			return err
		}
		switch {
		case tag == tags.Terminator:
			depth--
		case tags.IsObject(tag):
			if _, err := r.readUint32(); err != nil {
				return err
			}
			depth++
		default:
			if _, err := r.readPayload(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *cdxReader) readPayload() ([]byte, error) {
	l16, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	l := int(l16)
	if l16 == longLength {
		l32, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		l = int(l32)
	}
	return r.next(l)
}

// readProperties reads the property list of el, stopping before the terminator
// or the first child object
func (r *cdxReader) readProperties(el *Element) error {
	el.raw = make(map[string]rawProp)
	payloads := make(map[string][]byte)

	for {
		start := r.off
		tag, err := r.readUint16()
		if err != nil {
			return err
		}
		if tag == tags.Terminator || tags.IsObject(tag) {
			r.off = start
			break
		}

		payload, err := r.readPayload()
		if err != nil {
			return err
		}

		p, ok := tags.PropertyByTag(tag)
		if !ok {
			if !r.conv.opts.SkipUnknownProperties {
				return errors.UnknownPropertyError{Tag: tag, Object: el.Tag}
			}
			r.log.Warn("skipping unknown property", "tag", tag, "length", len(payload), "element", el.Tag)
			continue
		}

		keep, err := r.property(el, p, payload, payloads)
		if err != nil {
			return errors.WithPropertyError(err, el.Tag, idString(el), p.Name)
		}
		if keep {
			payloads[p.Name] = payload
		}

		seen := false
		for _, s := range el.order {
			seen = seen || s == p.Name
		}
		if !seen {
			el.order = append(el.order, p.Name)
		}
	}

	for slot, payload := range payloads {
		if sig, ok := slotSignature(el, slot); ok {
			el.keepRaw(slot, sig, payload)
		}
	}
	return nil
}

func (r *cdxReader) decode(c cdxinterfaces.Codec, payload []byte) (cdxinterfaces.Value, error) {
	return coder.Decode(c, payload, r.fontTable(), r.log)
}

// property decodes one property into el, reporting whether its payload should
// be kept for reuse on write
func (r *cdxReader) property(el *Element, p tags.Property, payload []byte, payloads map[string][]byte) (bool, error) {
	c, ok := coder.Lookup(p.Type)
	if !ok {
		return false, errors.ValueError{Type: p.Type, Value: p.Name}
	}

	switch {
	case p.Name == slotValue:
		c = coder.ValueCodec(el.AttrOr(slotTagType, ""))

	case p.Name == slotTagType:
		// A Value read before its TagType is decoded again in its proper shape
		defer func() {
			if v, ok := payloads[slotValue]; ok {
				if val, err := r.decode(coder.ValueCodec(el.AttrOr(slotTagType, "")), v); err == nil {
					el.SetAttr(slotValue, val.String())
				} else {
					r.log.Warn("value does not match its tag type", "element", el.Tag, "id", el.ID, "error", err)
				}
			}
		}()

	case el.Tag == "gepband" && (p.Name == "Height" || p.Name == "Width"):
		// Plain integers here, not coordinates
		c, _ = coder.Lookup("INT32")

	case p.Name == colorTag && len(payload) == 4:
		r.log.Warn("color property has 4 bytes instead of 2, using the first 2", "element", el.Tag, "id", el.ID)
		v, err := r.decode(c, payload[:2])
		if err != nil {
			return false, err
		}
		el.SetAttr(p.Name, v.String())
		return false, nil
	}

	v, err := r.decode(c, payload)
	if err != nil {
		return false, err
	}

	switch p.Name {
	case slotLabelStyle, slotCaptionStyle:
		fs := v.(coder.FontStyle)
		names := styleAttrs[p.Name]
		el.SetAttr(names[0], strconv.Itoa(int(fs.Font)))
		el.SetAttr(names[1], coder.FormatFloat(fs.PointSize()))
		el.SetAttr(names[2], strconv.Itoa(int(fs.Face)))

	case slotFontTable:
		r.fonts = v.(*coder.FontTable)
		el.Append(fontTableElement(r.fonts))

	case slotColorTable:
		el.Append(colorTableElement(v.(coder.ColorTable)))

	case slotRepresent:
		rep := v.(coder.Represents)
		el.Append(&Element{Tag: representTag, Attrs: []Attr{
			{"object", strconv.FormatUint(uint64(rep.Object), 10)},
			{"attribute", rep.PropertyName()},
		}})
		return false, nil

	case slotText:
		s := v.(coder.StyledString)
		if len(s.Spans) == 0 {
			el.Text = s.Plain
		}
		for _, sp := range s.Spans {
			el.Append(spanElement(sp))
		}

	default:
		el.SetAttr(p.Name, v.String())
	}
	return true, nil
}

func spanElement(sp coder.Span) *Element {
	return &Element{
		Tag: spanTag,
		Attrs: []Attr{
			{"font", strconv.Itoa(int(sp.Style.Font))},
			{"size", coder.FormatFloat(sp.Style.PointSize())},
			{"face", strconv.Itoa(int(sp.Style.Face))},
			{"color", strconv.Itoa(int(sp.Style.Color))},
		},
		Text: sp.Text,
	}
}
