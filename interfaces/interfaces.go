// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package cdxinterfaces defines the primary interfaces of the CDX property codecs
//
// (This package is primarily separated out in order to permit the implementation to
// be broken down into multiple packages)
package cdxinterfaces

import "log/slog"

// interface Value is a decoded property value.
//
// Values are produced either from a binary payload (Codec.Decode) or from CDXML
// attribute text (Codec.Parse) and can be rendered into either form.
type Value interface {
	// Encode writes the binary form of the value to e
	Encode(e Encoder) error

	// String returns the CDXML attribute text of the value
	String() string
}

// interface Omittable is implemented by values which may be represented by the
// absence of their property (implied booleans which are false)
type Omittable interface {
	Omit() bool
}

// interface Codec translates one property type between its binary and text forms.
//
// There is one Codec per registry type name; codecs hold no state and may be shared
// freely between goroutines.
type Codec interface {
	// Name returns the registry type name, e.g. "CDXCoordinate"
	Name() string

	// Decode reads a value from the property payload held by d. The whole payload
	// belongs to the property; fixed width types fail if any of it is left over.
	Decode(d Decoder) (Value, error)

	// Parse reads a value from its CDXML attribute text
	Parse(s string) (Value, error)
}

// interface FontTable resolves the charset of a font for styled string decoding
type FontTable interface {
	// Charset returns the CDXML charset name of font id, and whether the font exists
	Charset(id uint16) (string, bool)
}

// interface Encoder is the interface to the CDX property encoder. Values are written
// little-endian into an in-memory buffer, so writes cannot fail.
type Encoder interface {
	EncodeInt8(i int8)
	EncodeUint8(u uint8)
	EncodeInt16(i int16)
	EncodeUint16(u uint16)
	EncodeInt32(i int32)
	EncodeUint32(u uint32)

	// EncodeFloat64 writes an IEEE 754 double
	EncodeFloat64(f float64)

	// EncodeBytes writes b verbatim
	EncodeBytes(b []byte)

	// Fonts returns the document font table, or nil if the document has none
	Fonts() FontTable

	// Logger receives warnings about values repaired while encoding
	Logger() *slog.Logger
}

// interface Decoder is the interface to the CDX property decoder
type Decoder interface {
	// Len returns the number of payload bytes not yet consumed
	Len() int

	DecodeInt8() (int8, error)
	DecodeUint8() (uint8, error)
	DecodeInt16() (int16, error)
	DecodeUint16() (uint16, error)
	DecodeInt32() (int32, error)
	DecodeUint32() (uint32, error)

	// DecodeFloat64 reads an IEEE 754 double
	DecodeFloat64() (float64, error)

	// DecodeBytes reads the next n bytes. The returned slice is a copy.
	DecodeBytes(n int) ([]byte, error)

	// Rest consumes and returns the remainder of the payload (copied)
	Rest() []byte

	// Fonts returns the document font table read so far, or nil if none has been read
	Fonts() FontTable

	// Logger receives warnings about values repaired while decoding
	Logger() *slog.Logger
}
