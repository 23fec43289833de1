// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"io"
	"log/slog"
	"math"
	"sync"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var encoderPool = sync.Pool{
	New: func() interface{} {
		return &Encoder{
			buf: make([]byte, 0, 64),
		}
	},
}

// Encoder accumulates the payload of one property
type Encoder struct {
	buf   []byte
	fonts cdxinterfaces.FontTable
	log   *slog.Logger

	// Small scratch buffer (avoids needing to ever allocate when writing primitives)
	scratch [8]byte
}

var _ cdxinterfaces.Encoder = &Encoder{}

// NewEncoder fetches an encoder from the pool. fonts may be nil.
// The encoder must be returned with Release once its Bytes are no longer needed.
func NewEncoder(fonts cdxinterfaces.FontTable, log *slog.Logger) *Encoder {
	e := encoderPool.Get().(*Encoder)
	e.reset(fonts, log)
	return e
}

func (e *Encoder) reset(fonts cdxinterfaces.FontTable, log *slog.Logger) {
	e.buf = e.buf[:0]
	e.fonts = fonts
	if log == nil {
		log = discardLogger
	}
	e.log = log
}

// Reset discards the accumulated payload, keeping the font table and logger
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Bytes returns the payload written so far. It is only valid until the next
// write, Reset or Release.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Release returns the encoder to the pool
func (e *Encoder) Release() {
	e.fonts = nil
	e.log = nil
	encoderPool.Put(e)
}

func (e *Encoder) Fonts() cdxinterfaces.FontTable {
	return e.fonts
}

func (e *Encoder) Logger() *slog.Logger {
	return e.log
}

func (e *Encoder) EncodeInt8(i int8) {
	e.buf = append(e.buf, byte(i))
}

func (e *Encoder) EncodeUint8(u uint8) {
	e.buf = append(e.buf, u)
}

func (e *Encoder) EncodeInt16(i int16) {
	e.EncodeUint16(uint16(i))
}

func (e *Encoder) EncodeUint16(u uint16) {
	e.scratch[0] = byte(u)
	e.scratch[1] = byte(u >> 8)
	e.buf = append(e.buf, e.scratch[0:2]...)
}

func (e *Encoder) EncodeInt32(i int32) {
	e.EncodeUint32(uint32(i))
}

func (e *Encoder) EncodeUint32(u uint32) {
	e.scratch[0] = byte(u)
	e.scratch[1] = byte(u >> 8)
	e.scratch[2] = byte(u >> 16)
	e.scratch[3] = byte(u >> 24)
	e.buf = append(e.buf, e.scratch[0:4]...)
}

func (e *Encoder) EncodeFloat64(f float64) {
	u := math.Float64bits(f)
	for i := range e.scratch {
		e.scratch[i] = byte(u >> (8 * i))
	}
	e.buf = append(e.buf, e.scratch[0:8]...)
}

func (e *Encoder) EncodeBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

// Encode renders v into a freshly allocated payload
func Encode(v cdxinterfaces.Value, fonts cdxinterfaces.FontTable, log *slog.Logger) ([]byte, error) {
	e := NewEncoder(fonts, log)
	defer e.Release()

	if err := v.Encode(e); err != nil {
		return nil, err
	}
	return append([]byte(nil), e.Bytes()...), nil
}
