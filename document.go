// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"

	"go.e43.eu/cdx/internal/coder"
	"go.e43.eu/cdx/internal/errors"
	"go.e43.eu/cdx/internal/tags"
)

// Document is a drawing, held as a tree of elements rooted at a CDXML element.
//
// A document is not safe for concurrent use. It owns the id allocator used for
// elements created by collaborators or lacking ids when written.
type Document struct {
	Root *Element

	conv   *Converter
	nextID uint32
}

// NewElement creates an element with a freshly allocated id. The element is not
// attached to the tree.
func (d *Document) NewElement(tag string, attrs ...Attr) *Element {
	e := NewElement(tag, attrs...)
	e.ID = d.AllocateID()
	return e
}

// AllocateID returns an unused object id. Ids increase monotonically, starting
// above the largest id in the tree, including ids set directly on elements.
func (d *Document) AllocateID() uint32 {
	d.reserveIDs()
	return d.allocate()
}

func (d *Document) allocate() uint32 {
	id := d.nextID
	d.nextID++
	return id
}

// reserveIDs raises the allocator above every id present in the tree
func (d *Document) reserveIDs() {
	if d.Root == nil {
		return
	}
	d.Root.Walk(func(e *Element) bool {
		if e.ID >= d.nextID && e.ID != math.MaxUint32 {
			d.nextID = e.ID + 1
		}
		return true
	})
}

// ElementByID returns the element with the given id, or nil
func (d *Document) ElementByID(id uint32) *Element {
	var found *Element
	d.Root.Walk(func(e *Element) bool {
		if found != nil {
			return false
		}
		if e.ID == id && (e != d.Root || id != 0) {
			found = e
			return false
		}
		return true
	})
	return found
}

// Resolve follows a represent element to the object it refers to, returning
// that object and the name of the represented attribute
func (d *Document) Resolve(represent *Element) (*Element, string, error) {
	if represent.Tag != representTag {
		return nil, "", fmt.Errorf("cdx: resolving <%s>: not a represent element", represent.Tag)
	}
	r, err := coder.ParseRepresents(represent.AttrOr("object", ""), represent.AttrOr("attribute", ""))
	if err != nil {
		return nil, "", err
	}
	target := d.ElementByID(r.Object)
	if target == nil {
		return nil, "", fmt.Errorf("cdx: represented object %d does not exist", r.Object)
	}
	return target, r.PropertyName(), nil
}

// Fonts returns the document font table, or nil if there is none
func (d *Document) Fonts() (*FontTable, error) {
	el := d.Root.Child(fontTableTag)
	if el == nil {
		return nil, nil
	}
	return parseFontTable(el, rawPlatform(d.Root))
}

// Colors returns the document color table, or nil if there is none
func (d *Document) Colors() (ColorTable, error) {
	el := d.Root.Child(colorTableTag)
	if el == nil {
		return nil, nil
	}
	return parseColorTable(el)
}

// MarshalCDX renders the document as CDX. Elements without ids are assigned
// one.
func (d *Document) MarshalCDX() ([]byte, error) {
	w := &cdxWriter{doc: d, opts: &d.conv.opts, log: d.conv.log}
	if err := w.write(); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// WriteCDX writes the document as CDX. Nothing is written if rendering fails.
func (d *Document) WriteCDX(w io.Writer) error {
	b, err := d.MarshalCDX()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Base64CDX renders the document as base64 encoded CDX
func (d *Document) Base64CDX() (string, error) {
	b, err := d.MarshalCDX()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// MarshalCDXML renders the document as CDXML
func (d *Document) MarshalCDXML() ([]byte, error) {
	var buf bytes.Buffer
	x := &xmlWriter{w: &buf, log: d.conv.log}
	if err := x.write(d.Root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCDXML writes the document as CDXML. Nothing is written if rendering
// fails.
func (d *Document) WriteCDXML(w io.Writer) error {
	b, err := d.MarshalCDXML()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// PropertyCodec returns the codec for the named attribute, for typed access to
// attribute values
func PropertyCodec(name string) (Codec, error) {
	p, ok := tags.PropertyByName(name)
	if !ok {
		return nil, errors.UnknownPropertyError{Name: name}
	}
	c, ok := coder.Lookup(p.Type)
	if !ok {
		return nil, fmt.Errorf("cdx: property %s has no codec for type %s", name, p.Type)
	}
	return c, nil
}

func idString(e *Element) string {
	return strconv.FormatUint(uint64(e.ID), 10)
}
