// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"math"
	"strings"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/errors"
)

// CoordinateUnit is the number of coordinate units per point
const CoordinateUnit = 65536

// corruptCoordinate is written by some producers in place of a missing coordinate
// (-1073741824 points); it is replaced by 0 on encode.
const corruptCoordinate = -70368744177664

// Coordinate is a fixed point distance in 1/65536 point units. It is held in an
// int64 so that out of range text values can be detected and clamped on encode.
type Coordinate int64

// Points returns the coordinate in points
func (c Coordinate) Points() float64 {
	return float64(c) / CoordinateUnit
}

// CoordinateFromPoints converts points to coordinate units, truncating.
// Values beyond the int64 range saturate so that encoding clamps them to the
// matching int32 bound.
func CoordinateFromPoints(p float64) Coordinate {
	u := p * CoordinateUnit
	switch {
	case u >= math.MaxInt64:
		return math.MaxInt64
	case u <= math.MinInt64:
		return math.MinInt64
	}
	return Coordinate(u)
}

func (c Coordinate) Encode(e cdxinterfaces.Encoder) error {
	v := int64(c)
	if v == corruptCoordinate {
		e.Logger().Warn("replacing corrupt coordinate with 0", "value", v)
		v = 0
	}
	i, clamped := clampInt32(v)
	if clamped {
		e.Logger().Warn("coordinate out of range, clamped", "value", v, "clamped", i)
	}
	e.EncodeInt32(i)
	return nil
}

func (c Coordinate) String() string {
	return formatFloat(roundTo(c.Points(), 2))
}

func decodeCoordinate(d cdxinterfaces.Decoder) (Coordinate, error) {
	i, err := d.DecodeInt32()
	return Coordinate(i), err
}

func parseCoordinate(typ, s string) (Coordinate, error) {
	f, err := parseFloat(typ, s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) {
		return 0, errors.ValueError{Type: typ, Value: s}
	}
	return CoordinateFromPoints(f), nil
}

// parseCoordinates parses exactly n whitespace separated coordinates
func parseCoordinates(typ, s string, n int) ([]Coordinate, error) {
	parts := strings.Fields(s)
	if len(parts) != n {
		return nil, errors.ValueError{Type: typ, Value: s}
	}
	cs := make([]Coordinate, n)
	for i, p := range parts {
		c, err := parseCoordinate(typ, p)
		if err != nil {
			return nil, errors.ValueError{Type: typ, Value: s}
		}
		cs[i] = c
	}
	return cs, nil
}

func joinCoordinates(cs ...Coordinate) string {
	var sb strings.Builder
	for i, c := range cs {
		if i != 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

type coordinateCodec struct{}

var coordinateCodecI xCodec = coordinateCodec{}

func (_ coordinateCodec) Name() string {
	return "CDXCoordinate"
}

func (_ coordinateCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXCoordinate", 4); err != nil {
		return nil, err
	}
	return decodeCoordinate(d)
}

func (_ coordinateCodec) Parse(s string) (cdxinterfaces.Value, error) {
	return parseCoordinate("CDXCoordinate", s)
}

// Point2D is stored y first; its text form is "x y"
type Point2D struct {
	X, Y Coordinate
}

type point2DCodec struct{}

var point2DCodecI xCodec = point2DCodec{}

func (_ point2DCodec) Name() string {
	return "CDXPoint2D"
}

func (_ point2DCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXPoint2D", 8); err != nil {
		return nil, err
	}
	y, _ := decodeCoordinate(d)
	x, err := decodeCoordinate(d)
	return Point2D{x, y}, err
}

func (_ point2DCodec) Parse(s string) (cdxinterfaces.Value, error) {
	cs, err := parseCoordinates("CDXPoint2D", s, 2)
	if err != nil {
		return nil, err
	}
	return Point2D{cs[0], cs[1]}, nil
}

func (p Point2D) Encode(e cdxinterfaces.Encoder) error {
	p.Y.Encode(e)
	return p.X.Encode(e)
}

func (p Point2D) String() string {
	return joinCoordinates(p.X, p.Y)
}

// Point3D is stored x, y, z. The published format documentation gives z, y, x;
// files written by ChemDraw use x, y, z.
type Point3D struct {
	X, Y, Z Coordinate
}

type point3DCodec struct{}

var point3DCodecI xCodec = point3DCodec{}

func (_ point3DCodec) Name() string {
	return "CDXPoint3D"
}

func (_ point3DCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXPoint3D", 12); err != nil {
		return nil, err
	}
	x, _ := decodeCoordinate(d)
	y, _ := decodeCoordinate(d)
	z, err := decodeCoordinate(d)
	return Point3D{x, y, z}, err
}

func (_ point3DCodec) Parse(s string) (cdxinterfaces.Value, error) {
	cs, err := parseCoordinates("CDXPoint3D", s, 3)
	if err != nil {
		return nil, err
	}
	return Point3D{cs[0], cs[1], cs[2]}, nil
}

func (p Point3D) Encode(e cdxinterfaces.Encoder) error {
	p.X.Encode(e)
	p.Y.Encode(e)
	return p.Z.Encode(e)
}

func (p Point3D) String() string {
	return joinCoordinates(p.X, p.Y, p.Z)
}

// Rectangle is stored top, left, bottom, right; its text form is
// "left top right bottom"
type Rectangle struct {
	Top, Left, Bottom, Right Coordinate
}

type rectangleCodec struct{}

var rectangleCodecI xCodec = rectangleCodec{}

func (_ rectangleCodec) Name() string {
	return "CDXRectangle"
}

func (_ rectangleCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	if err := expectLen(d, "CDXRectangle", 16); err != nil {
		return nil, err
	}
	var r Rectangle
	r.Top, _ = decodeCoordinate(d)
	r.Left, _ = decodeCoordinate(d)
	r.Bottom, _ = decodeCoordinate(d)
	var err error
	r.Right, err = decodeCoordinate(d)
	return r, err
}

func (_ rectangleCodec) Parse(s string) (cdxinterfaces.Value, error) {
	cs, err := parseCoordinates("CDXRectangle", s, 4)
	if err != nil {
		return nil, err
	}
	return Rectangle{Left: cs[0], Top: cs[1], Right: cs[2], Bottom: cs[3]}, nil
}

func (r Rectangle) Encode(e cdxinterfaces.Encoder) error {
	r.Top.Encode(e)
	r.Left.Encode(e)
	r.Bottom.Encode(e)
	return r.Right.Encode(e)
}

func (r Rectangle) String() string {
	return joinCoordinates(r.Left, r.Top, r.Right, r.Bottom)
}

// CurvePoints is a counted list of 2D points (each stored y first)
type CurvePoints []Point2D

type curvePointsCodec struct{}

var curvePointsCodecI xCodec = curvePointsCodec{}

func (_ curvePointsCodec) Name() string {
	return "CDXCurvePoints"
}

func (_ curvePointsCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	n, err := d.DecodeUint16()
	if err != nil {
		return nil, err
	}
	if err := expectLen(d, "CDXCurvePoints", int(n)*8); err != nil {
		return nil, err
	}
	ps := make(CurvePoints, n)
	for i := range ps {
		ps[i].Y, _ = decodeCoordinate(d)
		ps[i].X, _ = decodeCoordinate(d)
	}
	return ps, nil
}

func (_ curvePointsCodec) Parse(s string) (cdxinterfaces.Value, error) {
	parts := strings.Fields(s)
	if len(parts)%2 != 0 {
		return nil, errors.ValueError{Type: "CDXCurvePoints", Value: s}
	}
	ps := make(CurvePoints, len(parts)/2)
	for i := range ps {
		cs, err := parseCoordinates("CDXCurvePoints", parts[2*i]+" "+parts[2*i+1], 2)
		if err != nil {
			return nil, err
		}
		ps[i] = Point2D{cs[0], cs[1]}
	}
	return ps, nil
}

func (ps CurvePoints) Encode(e cdxinterfaces.Encoder) error {
	if err := encodeCount(e, "CDXCurvePoints", len(ps)); err != nil {
		return err
	}
	for _, p := range ps {
		p.Encode(e)
	}
	return nil
}

func (ps CurvePoints) String() string {
	cs := make([]Coordinate, 0, 2*len(ps))
	for _, p := range ps {
		cs = append(cs, p.X, p.Y)
	}
	return joinCoordinates(cs...)
}

// CurvePoints3D is a counted list of 3D points
type CurvePoints3D []Point3D

type curvePoints3DCodec struct{}

var curvePoints3DCodecI xCodec = curvePoints3DCodec{}

func (_ curvePoints3DCodec) Name() string {
	return "CDXCurvePoints3D"
}

func (_ curvePoints3DCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	n, err := d.DecodeUint16()
	if err != nil {
		return nil, err
	}
	if err := expectLen(d, "CDXCurvePoints3D", int(n)*12); err != nil {
		return nil, err
	}
	ps := make(CurvePoints3D, n)
	for i := range ps {
		ps[i].X, _ = decodeCoordinate(d)
		ps[i].Y, _ = decodeCoordinate(d)
		ps[i].Z, _ = decodeCoordinate(d)
	}
	return ps, nil
}

func (_ curvePoints3DCodec) Parse(s string) (cdxinterfaces.Value, error) {
	parts := strings.Fields(s)
	if len(parts)%3 != 0 {
		return nil, errors.ValueError{Type: "CDXCurvePoints3D", Value: s}
	}
	ps := make(CurvePoints3D, len(parts)/3)
	for i := range ps {
		cs, err := parseCoordinates("CDXCurvePoints3D", strings.Join(parts[3*i:3*i+3], " "), 3)
		if err != nil {
			return nil, err
		}
		ps[i] = Point3D{cs[0], cs[1], cs[2]}
	}
	return ps, nil
}

func (ps CurvePoints3D) Encode(e cdxinterfaces.Encoder) error {
	if err := encodeCount(e, "CDXCurvePoints3D", len(ps)); err != nil {
		return err
	}
	for _, p := range ps {
		p.Encode(e)
	}
	return nil
}

func (ps CurvePoints3D) String() string {
	cs := make([]Coordinate, 0, 3*len(ps))
	for _, p := range ps {
		cs = append(cs, p.X, p.Y, p.Z)
	}
	return joinCoordinates(cs...)
}
