// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"math"
	"strconv"
	"strings"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/errors"
	"go.e43.eu/cdx/internal/tags"
)

// ObjectIDs is a list of object ids. Counted lists carry a 16-bit count prefix.
type ObjectIDs struct {
	IDs     []uint32
	counted bool
}

type objectIDArrayCodec struct {
	name    string
	counted bool
}

var (
	objectIDArrayCodecI           xCodec = objectIDArrayCodec{"CDXObjectIDArray", false}
	objectIDArrayWithCountsCodecI xCodec = objectIDArrayCodec{"CDXObjectIDArrayWithCounts", true}
)

func (c objectIDArrayCodec) Name() string {
	return c.name
}

func (c objectIDArrayCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	n := d.Len() / 4
	if c.counted {
		cnt, err := d.DecodeUint16()
		if err != nil {
			return nil, err
		}
		n = int(cnt)
	}
	if err := expectLen(d, c.name, n*4); err != nil {
		return nil, err
	}

	v := ObjectIDs{IDs: make([]uint32, n), counted: c.counted}
	for i := range v.IDs {
		v.IDs[i], _ = d.DecodeUint32()
	}
	return v, nil
}

func (c objectIDArrayCodec) Parse(s string) (cdxinterfaces.Value, error) {
	parts := strings.Fields(s)
	v := ObjectIDs{IDs: make([]uint32, len(parts)), counted: c.counted}
	for i, p := range parts {
		id, err := parseInt(c.name, p, 0, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		v.IDs[i] = uint32(id)
	}
	return v, nil
}

func (v ObjectIDs) Encode(e cdxinterfaces.Encoder) error {
	if v.counted {
		if err := encodeCount(e, "CDXObjectIDArrayWithCounts", len(v.IDs)); err != nil {
			return err
		}
	}
	for _, id := range v.IDs {
		e.EncodeUint32(id)
	}
	return nil
}

func (v ObjectIDs) String() string {
	parts := make([]string, len(v.IDs))
	for i, id := range v.IDs {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, " ")
}

// encodeCount writes a 16-bit element count, failing if n does not fit
func encodeCount(e cdxinterfaces.Encoder, typ string, n int) error {
	if n > math.MaxUint16 {
		return errors.LengthError{Type: typ, Actual: n, Expected: math.MaxUint16}
	}
	e.EncodeUint16(uint16(n))
	return nil
}

// Int16List is a counted list of 16-bit integers
type Int16List []int16

type int16ListCodec struct{}

var int16ListCodecI xCodec = int16ListCodec{}

func (_ int16ListCodec) Name() string {
	return "INT16ListWithCounts"
}

func (_ int16ListCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	n, err := d.DecodeUint16()
	if err != nil {
		return nil, err
	}
	if err := expectLen(d, "INT16ListWithCounts", int(n)*2); err != nil {
		return nil, err
	}
	l := make(Int16List, n)
	for i := range l {
		l[i], _ = d.DecodeInt16()
	}
	return l, nil
}

func (_ int16ListCodec) Parse(s string) (cdxinterfaces.Value, error) {
	parts := strings.Fields(s)
	l := make(Int16List, len(parts))
	for i, p := range parts {
		v, err := parseInt("INT16ListWithCounts", p, math.MinInt16, math.MaxInt16)
		if err != nil {
			return nil, err
		}
		l[i] = int16(v)
	}
	return l, nil
}

func (l Int16List) Encode(e cdxinterfaces.Encoder) error {
	if err := encodeCount(e, "INT16ListWithCounts", len(l)); err != nil {
		return err
	}
	for _, v := range l {
		e.EncodeInt16(v)
	}
	return nil
}

func (l Int16List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, " ")
}

// Represents says that the owning object depicts a property of another object.
// The text form is "<object id> <property name>".
type Represents struct {
	Object   uint32
	Property uint16
}

// PropertyName returns the CDXML name of the represented property
func (r Represents) PropertyName() string {
	if p, ok := tags.PropertyByTag(r.Property); ok {
		return p.Name
	}
	return strconv.Itoa(int(r.Property))
}

type representsCodec struct{}

var representsCodecI xCodec = representsCodec{}

func (_ representsCodec) Name() string {
	return "CDXRepresents"
}

func (_ representsCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXRepresents", 6); err != nil {
		return nil, err
	}
	var r Represents
	r.Object, _ = d.DecodeUint32()
	r.Property, _ = d.DecodeUint16()
	return r, nil
}

func (_ representsCodec) Parse(s string) (cdxinterfaces.Value, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return nil, errors.ValueError{Type: "CDXRepresents", Value: s}
	}
	return ParseRepresents(parts[0], parts[1])
}

// ParseRepresents builds a Represents from the object and attribute of a CDXML
// represent element. An unregistered property is named by its decimal tag.
func ParseRepresents(object, attribute string) (Represents, error) {
	id, err := parseInt("CDXRepresents", object, 0, math.MaxUint32)
	if err != nil {
		return Represents{}, err
	}
	if p, ok := tags.PropertyByName(attribute); ok {
		return Represents{Object: uint32(id), Property: p.Tag}, nil
	}
	if tag, err := strconv.ParseUint(attribute, 10, 16); err == nil && !tags.IsObject(uint16(tag)) && tag != uint64(tags.Terminator) {
		return Represents{Object: uint32(id), Property: uint16(tag)}, nil
	}
	return Represents{}, errors.UnknownPropertyError{Name: attribute, Object: "represent"}
}

func (r Represents) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeUint32(r.Object)
	e.EncodeUint16(r.Property)
	return nil
}

func (r Represents) String() string {
	return strconv.FormatUint(uint64(r.Object), 10) + " " + r.PropertyName()
}

// ValueCodec returns the codec of an object tag Value property, whose shape is
// chosen by the TagType property of the same object
func ValueCodec(tagType string) cdxinterfaces.Codec {
	switch tagType {
	case "Double":
		return float64CodecI
	case "Long":
		return int32CodecI
	default:
		return unformattedCodecI
	}
}
