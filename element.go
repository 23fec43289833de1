// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"strings"
)

// Attr is a single element attribute. Values are in their CDXML text form.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the document tree. The same type is used for documents
// read from CDX and from CDXML.
//
// Tag is the CDXML element name. ID is the object id; zero means no id has been
// assigned yet, and one will be allocated when the element is written as CDX.
type Element struct {
	Tag      string
	ID       uint32
	Attrs    []Attr
	Children []*Element

	// Text is the character data of the element. It is used by style spans
	// (s elements), and by t elements holding unstyled text.
	Text string

	// Payloads of the properties this element was read with, and the order
	// they were read in. Only set for elements read from CDX.
	raw   map[string]rawProp
	order []string
}

// rawProp is a property payload as read, along with the signature of the text
// it was decoded into. The payload is reused on write while the signature is
// unchanged.
type rawProp struct {
	sig  string
	data []byte
}

// NewElement returns an element without an id. Prefer Document.NewElement,
// which allocates one.
func NewElement(tag string, attrs ...Attr) *Element {
	return &Element{Tag: tag, Attrs: attrs}
}

// Attr returns the value of the named attribute
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the value of the named attribute, or def if it is not set
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// SetAttr sets an attribute, keeping its position if it already exists
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// DeleteAttr removes an attribute, reporting whether it existed
func (e *Element) DeleteAttr(name string) bool {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds children to the end of the child list
func (e *Element) Append(children ...*Element) {
	e.Children = append(e.Children, children...)
}

// Child returns the first direct child with the given tag
func (e *Element) Child(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenByTag returns the direct children with the given tag
func (e *Element) ChildrenByTag(tag string) []*Element {
	var cs []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			cs = append(cs, c)
		}
	}
	return cs
}

// Find returns the first descendant (in document order) with the given tag
func (e *Element) Find(tag string) *Element {
	var found *Element
	e.Walk(func(d *Element) bool {
		if found != nil {
			return false
		}
		if d != e && d.Tag == tag {
			found = d
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant with the given tag, in document order
func (e *Element) FindAll(tag string) []*Element {
	var found []*Element
	e.Walk(func(d *Element) bool {
		if d != e && d.Tag == tag {
			found = append(found, d)
		}
		return true
	})
	return found
}

// Walk calls fn for e and each of its descendants in document order. Returning
// false from fn skips the children of that element.
//
// The walk keeps its own stack, so arbitrarily deep trees may be walked.
func (e *Element) Walk(fn func(*Element) bool) {
	stack := []*Element{e}
	for len(stack) > 0 {
		el := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(el) {
			continue
		}
		for i := len(el.Children) - 1; i >= 0; i-- {
			stack = append(stack, el.Children[i])
		}
	}
}

// fromCDX reports whether the element was read from a CDX stream
func (e *Element) fromCDX() bool {
	return e.raw != nil
}

func (e *Element) keepRaw(slot, sig string, data []byte) {
	if e.raw == nil {
		e.raw = make(map[string]rawProp)
	}
	// Copied, as data may alias the caller's input buffer
	e.raw[slot] = rawProp{sig: sig, data: append([]byte(nil), data...)}
}

// signature renders the attributes, text and children of e into a string which
// changes whenever any of them do
func (e *Element) signature() string {
	var sb strings.Builder
	e.Walk(func(d *Element) bool {
		sb.WriteString("<")
		sb.WriteString(d.Tag)
		for _, a := range d.Attrs {
			sb.WriteString(" ")
			sb.WriteString(a.Name)
			sb.WriteString("\x1f")
			sb.WriteString(a.Value)
		}
		sb.WriteString(">")
		sb.WriteString(d.Text)
		return true
	})
	return sb.String()
}
