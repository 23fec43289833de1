// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/errors"
)

// intCodec handles the fixed width INT8..UINT32 types
type intCodec struct {
	name   string
	width  int
	signed bool
}

var (
	int8CodecI   xCodec = intCodec{"INT8", 1, true}
	uint8CodecI  xCodec = intCodec{"UINT8", 1, false}
	int16CodecI  xCodec = intCodec{"INT16", 2, true}
	uint16CodecI xCodec = intCodec{"UINT16", 2, false}
	int32CodecI  xCodec = intCodec{"INT32", 4, true}
	uint32CodecI xCodec = intCodec{"UINT32", 4, false}
)

// Int is a decoded fixed width integer
type Int struct {
	c intCodec
	V int64
}

func (c intCodec) Name() string {
	return c.name
}

func (c intCodec) bounds() (int64, int64) {
	bits := uint(c.width * 8)
	if c.signed {
		return -1 << (bits - 1), 1<<(bits-1) - 1
	}
	return 0, 1<<bits - 1
}

func (c intCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, c.name, c.width); err != nil {
		return nil, err
	}

	var v int64
	switch {
	case c.width == 1 && c.signed:
		i, _ := d.DecodeInt8()
		v = int64(i)
	case c.width == 1:
		u, _ := d.DecodeUint8()
		v = int64(u)
	case c.width == 2 && c.signed:
		i, _ := d.DecodeInt16()
		v = int64(i)
	case c.width == 2:
		u, _ := d.DecodeUint16()
		v = int64(u)
	case c.signed:
		i, _ := d.DecodeInt32()
		v = int64(i)
	default:
		u, _ := d.DecodeUint32()
		v = int64(u)
	}
	return Int{c, v}, nil
}

func (c intCodec) Parse(s string) (cdxinterfaces.Value, error) {
	min, max := c.bounds()
	v, err := parseInt(c.name, s, min, max)
	if err != nil {
		return nil, err
	}
	return Int{c, v}, nil
}

func (v Int) Encode(e cdxinterfaces.Encoder) error {
	encodeWidth(e, v.V, v.c.width)
	return nil
}

func (v Int) String() string {
	return strconv.FormatInt(v.V, 10)
}

// encodeWidth writes the low width bytes of v
func encodeWidth(e cdxinterfaces.Encoder, v int64, width int) {
	switch width {
	case 1:
		e.EncodeUint8(uint8(v))
	case 2:
		e.EncodeUint16(uint16(v))
	default:
		e.EncodeUint32(uint32(v))
	}
}

// decodeWidth reads a width byte integer
func decodeWidth(d cdxinterfaces.Decoder, width int, signed bool) (int64, error) {
	switch width {
	case 1:
		u, err := d.DecodeUint8()
		if signed {
			return int64(int8(u)), err
		}
		return int64(u), err
	case 2:
		u, err := d.DecodeUint16()
		if signed {
			return int64(int16(u)), err
		}
		return int64(u), err
	default:
		u, err := d.DecodeUint32()
		if signed {
			return int64(int32(u)), err
		}
		return int64(u), err
	}
}

// float64Codec handles IEEE doubles
type float64Codec struct{}

var float64CodecI xCodec = float64Codec{}

type Float64 float64

func (_ float64Codec) Name() string {
	return "FLOAT64"
}

func (_ float64Codec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "FLOAT64", 8); err != nil {
		return nil, err
	}
	f, err := d.DecodeFloat64()
	return Float64(f), err
}

func (_ float64Codec) Parse(s string) (cdxinterfaces.Value, error) {
	f, err := parseFloat("FLOAT64", s)
	return Float64(f), err
}

func (v Float64) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeFloat64(float64(v))
	return nil
}

func (v Float64) String() string {
	return formatFloat(float64(v))
}

// unformattedCodec handles opaque payloads, rendered as hex
type unformattedCodec struct{}

var unformattedCodecI xCodec = unformattedCodec{}

type Unformatted []byte

func (_ unformattedCodec) Name() string {
	return "Unformatted"
}

func (_ unformattedCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	return Unformatted(d.Rest()), nil
}

func (_ unformattedCodec) Parse(s string) (cdxinterfaces.Value, error) {
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, errors.ValueError{Type: "Unformatted", Value: s, Underlying: err}
	}
	return Unformatted(b), nil
}

func (v Unformatted) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeBytes(v)
	return nil
}

func (v Unformatted) String() string {
	return hex.EncodeToString(v)
}

// compressedCodec handles embedded picture payloads, rendered as base64
type compressedCodec struct{}

var compressedCodecI xCodec = compressedCodec{}

type Compressed []byte

func (_ compressedCodec) Name() string {
	return "CDXCompressed"
}

func (_ compressedCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	return Compressed(d.Rest()), nil
}

func (_ compressedCodec) Parse(s string) (cdxinterfaces.Value, error) {
	b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, errors.ValueError{Type: "CDXCompressed", Value: s, Underlying: err}
	}
	return Compressed(b), nil
}

func (v Compressed) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeBytes(v)
	return nil
}

func (v Compressed) String() string {
	return base64.StdEncoding.EncodeToString(v)
}

// boolCodec handles one byte booleans
type boolCodec struct{}

var boolCodecI xCodec = boolCodec{}

// Boolean keeps the stored byte so that non-canonical true values round trip
type Boolean struct {
	B byte
}

func (v Boolean) Bool() bool {
	return v.B != 0
}

func (_ boolCodec) Name() string {
	return "CDXBoolean"
}

func (_ boolCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXBoolean", 1); err != nil {
		return nil, err
	}
	b, err := d.DecodeUint8()
	return Boolean{b}, err
}

func (_ boolCodec) Parse(s string) (cdxinterfaces.Value, error) {
	b, err := parseYesNo("CDXBoolean", s)
	if err != nil {
		return nil, err
	}
	if b {
		return Boolean{1}, nil
	}
	return Boolean{0}, nil
}

func (v Boolean) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeUint8(v.B)
	return nil
}

func (v Boolean) String() string {
	if v.Bool() {
		return "yes"
	}
	return "no"
}

func parseYesNo(typ, s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, errors.ValueError{Type: typ, Value: s}
	}
}

// impliedBoolCodec handles booleans which are true by presence
type impliedBoolCodec struct{}

var impliedBoolCodecI xCodec = impliedBoolCodec{}

// ImpliedBoolean is true when the (empty) property is present. Some producers
// write a one byte payload regardless; Explicit preserves it.
type ImpliedBoolean struct {
	Value    bool
	Explicit []byte
}

func (_ impliedBoolCodec) Name() string {
	return "CDXBooleanImplied"
}

func (_ impliedBoolCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if d.Len() == 0 {
		return ImpliedBoolean{Value: true}, nil
	}
	if d.Len() != 1 {
		return nil, errors.LengthError{Type: "CDXBooleanImplied", Actual: d.Len(), Expected: 0}
	}
	b, _ := d.DecodeUint8()
	d.Logger().Warn("implied boolean stored with explicit value", "value", b)
	return ImpliedBoolean{Value: b != 0, Explicit: []byte{b}}, nil
}

func (_ impliedBoolCodec) Parse(s string) (cdxinterfaces.Value, error) {
	b, err := parseYesNo("CDXBooleanImplied", s)
	return ImpliedBoolean{Value: b}, err
}

func (v ImpliedBoolean) Encode(e cdxinterfaces.Encoder) error {
	if v.Explicit != nil {
		e.EncodeBytes(v.Explicit)
	}
	return nil
}

// Omit reports that the property is represented by its absence
func (v ImpliedBoolean) Omit() bool {
	return !v.Value && v.Explicit == nil
}

func (v ImpliedBoolean) String() string {
	if v.Value {
		return "yes"
	}
	return "no"
}

// clampInt32 clamps v into the int32 range, reporting whether it had to
func clampInt32(v int64) (int32, bool) {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32, true
	case v < math.MinInt32:
		return math.MinInt32, true
	default:
		return int32(v), false
	}
}
