// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"log/slog"
	"math"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/errors"
)

// Decoder is a cursor over the payload of one property
type Decoder struct {
	b     []byte
	off   int
	fonts cdxinterfaces.FontTable
	log   *slog.Logger
}

var _ cdxinterfaces.Decoder = &Decoder{}

// NewDecoder returns a decoder over payload. fonts may be nil.
func NewDecoder(payload []byte, fonts cdxinterfaces.FontTable, log *slog.Logger) *Decoder {
	if log == nil {
		log = discardLogger
	}
	return &Decoder{b: payload, fonts: fonts, log: log}
}

// Decode decodes payload using codec c
func Decode(c cdxinterfaces.Codec, payload []byte, fonts cdxinterfaces.FontTable, log *slog.Logger) (cdxinterfaces.Value, error) {
	return c.Decode(NewDecoder(payload, fonts, log))
}

func (d *Decoder) Fonts() cdxinterfaces.FontTable {
	return d.fonts
}

func (d *Decoder) Logger() *slog.Logger {
	return d.log
}

func (d *Decoder) Len() int {
	return len(d.b) - d.off
}

func (d *Decoder) next(n int) ([]byte, error) {
	if d.Len() < n {
		return nil, errors.ErrUnexpectedEOF
	}
	b := d.b[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) DecodeInt8() (int8, error) {
	u, err := d.DecodeUint8()
	return int8(u), err
}

func (d *Decoder) DecodeUint8() (uint8, error) {
	b, err := d.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) DecodeInt16() (int16, error) {
	u, err := d.DecodeUint16()
	return int16(u), err
}

func (d *Decoder) DecodeUint16() (uint16, error) {
	b, err := d.next(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

func (d *Decoder) DecodeInt32() (int32, error) {
	u, err := d.DecodeUint32()
	return int32(u), err
}

func (d *Decoder) DecodeUint32() (uint32, error) {
	b, err := d.next(4)
	if err != nil {
		return 0, err
	}
	// Compiler bounds check hint; see golang.org/issue/14808
	_ = b[3]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (d *Decoder) DecodeFloat64() (float64, error) {
	b, err := d.next(8)
	if err != nil {
		return 0, err
	}
	var u uint64
	for i := 7; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	return math.Float64frombits(u), nil
}

func (d *Decoder) DecodeBytes(n int) ([]byte, error) {
	b, err := d.next(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (d *Decoder) Rest() []byte {
	b := append([]byte(nil), d.b[d.off:]...)
	d.off = len(d.b)
	return b
}

// expectLen fails with a LengthError unless exactly n bytes remain
func expectLen(d cdxinterfaces.Decoder, typ string, n int) error {
	if d.Len() != n {
		return errors.LengthError{Type: typ, Actual: d.Len(), Expected: n}
	}
	return nil
}
