// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"math"
	"strconv"
	"strings"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
)

// BondSpacing is a double bond spacing in tenths of a percent of the bond length.
// The text form is truncated to whole percent.
type BondSpacing int16

type bondSpacingCodec struct{}

var bondSpacingCodecI xCodec = bondSpacingCodec{}

func (_ bondSpacingCodec) Name() string {
	return "CDXBondSpacing"
}

func (_ bondSpacingCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXBondSpacing", 2); err != nil {
		return nil, err
	}
	i, err := d.DecodeInt16()
	return BondSpacing(i), err
}

func (_ bondSpacingCodec) Parse(s string) (cdxinterfaces.Value, error) {
	f, err := parseFloat("CDXBondSpacing", s)
	if err != nil {
		return nil, err
	}
	return BondSpacing(f * 10), nil
}

func (v BondSpacing) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeInt16(int16(v))
	return nil
}

func (v BondSpacing) String() string {
	return strconv.Itoa(int(float64(v) / 10))
}

// LineHeight is a line height in 1/20 points, with the special values 0
// ("variable") and 1 ("auto")
type LineHeight int16

const (
	LineHeightVariable LineHeight = 0
	LineHeightAuto     LineHeight = 1
)

type lineHeightCodec struct{}

var lineHeightCodecI xCodec = lineHeightCodec{}

func (_ lineHeightCodec) Name() string {
	return "CDXLineHeight"
}

func (_ lineHeightCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXLineHeight", 2); err != nil {
		return nil, err
	}
	i, err := d.DecodeInt16()
	return LineHeight(i), err
}

func (_ lineHeightCodec) Parse(s string) (cdxinterfaces.Value, error) {
	switch strings.TrimSpace(s) {
	case "variable":
		return LineHeightVariable, nil
	case "auto":
		return LineHeightAuto, nil
	}
	f, err := parseFloat("CDXLineHeight", s)
	if err != nil {
		return nil, err
	}
	return LineHeight(math.Round(f * 20)), nil
}

func (v LineHeight) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeInt16(int16(v))
	return nil
}

func (v LineHeight) String() string {
	switch v {
	case LineHeightVariable:
		return "variable"
	case LineHeightAuto:
		return "auto"
	default:
		return formatFloat(roundTo(float64(v)/20, 1))
	}
}

// AngularSize is an angle in tenths of a degree
type AngularSize int16

type angularSizeCodec struct{}

var angularSizeCodecI xCodec = angularSizeCodec{}

func (_ angularSizeCodec) Name() string {
	return "CDXAngularSize"
}

func (_ angularSizeCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXAngularSize", 2); err != nil {
		return nil, err
	}
	i, err := d.DecodeInt16()
	return AngularSize(i), err
}

func (_ angularSizeCodec) Parse(s string) (cdxinterfaces.Value, error) {
	f, err := parseFloat("CDXAngularSize", s)
	if err != nil {
		return nil, err
	}
	return AngularSize(math.Round(f * 10)), nil
}

func (v AngularSize) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeInt16(int16(v))
	return nil
}

func (v AngularSize) String() string {
	return formatFloat(float64(v) / 10)
}

// FixedAngle is a 16.16 fixed point angle
type FixedAngle int32

type fixedAngleCodec struct{}

var fixedAngleCodecI xCodec = fixedAngleCodec{}

func (_ fixedAngleCodec) Name() string {
	return "CDXPositioningAngle"
}

func (_ fixedAngleCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXPositioningAngle", 4); err != nil {
		return nil, err
	}
	i, err := d.DecodeInt32()
	return FixedAngle(i), err
}

func (_ fixedAngleCodec) Parse(s string) (cdxinterfaces.Value, error) {
	f, err := parseFloat("CDXPositioningAngle", s)
	if err != nil {
		return nil, err
	}
	i, _ := clampInt32(int64(math.Round(f * 65536)))
	return FixedAngle(i), nil
}

func (v FixedAngle) Encode(e cdxinterfaces.Encoder) error {
	e.EncodeInt32(int32(v))
	return nil
}

func (v FixedAngle) String() string {
	return formatFloat(float64(v) / 65536)
}
