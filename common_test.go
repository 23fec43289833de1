// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// comparingWriter is an io.Writer which immediately compares every byte
// written to it against the values read from the passed reader. This
// enables capturing the call stack at the time any discrepancy in the
// written data occurs
//
// It captures the written data so that a final comparison (which may somtimes
// be more informative) can also be made
type comparingWriter struct {
	T *testing.T

	// The reader
	R io.Reader

	// Error returned by reader
	Rerr error

	// Bytes written
	B []byte

	// Bytes expected
	X []byte
}

func newComparingWriter(t *testing.T, r io.Reader) *comparingWriter {
	return &comparingWriter{
		T: t,
		R: r,
	}
}

func (w *comparingWriter) Write(buf []byte) (int, error) {
	w.T.Helper()

	w.B = append(w.B, buf...)

	// Gather the expected bytes
	var expected []byte
	if w.Rerr == nil {
		expected = make([]byte, len(buf))
		nr, err := io.ReadFull(w.R, expected)
		expected = expected[0:nr]
		w.X = append(w.X, expected...)
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}

		if err != nil {
			require.Equal(w.T, io.EOF, err, "comparingWriter: Comparison reader returned non-EOF error")
			assert.Failf(w.T, "Attempt to write after end", "Attempt to write %d bytes after end of expected data", len(buf)-nr)
			w.Rerr = err
		}
	}

	// If we read any bytes, cross compare them
	if len(expected) != 0 {
		assert.Equalf(w.T, expected, buf[0:len(expected)], "Expected equal value during %d byte write", len(buf))
	}

	return len(buf), nil
}

func (w *comparingWriter) Assert() {
	buf := make([]byte, 1024)
	err := w.Rerr

	var n int
	for err == nil {
		n, err = w.R.Read(buf)
		w.X = append(w.X, buf[0:n]...)
		require.Equal(w.T, io.EOF, err, "comparingWriter: Comparison reader must only return io.EOF error")
	}

	assert.Equalf(w.T, w.X, w.B, "Expected written data to match expected")
}

// singleByteReader is a really annoying io.Reader which returns a single byte at a time
type singleByteReader struct {
	R io.Reader
}

func (r *singleByteReader) Read(buf []byte) (int, error) {
	switch {
	case len(buf) == 0:
		return 0, nil
	default:
		return r.R.Read(buf[0:1])
	}
}

// testConverter returns a converter whose log output is captured in the
// returned buffer
func testConverter(opts Options) (*Converter, *bytes.Buffer) {
	var buf bytes.Buffer
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return NewConverter(opts), &buf
}

// cdxBuilder assembles CDX streams for tests
type cdxBuilder struct {
	b []byte
}

func newCDX(docID uint32) *cdxBuilder {
	c := &cdxBuilder{b: append([]byte(nil), header...)}
	c.b = binary.LittleEndian.AppendUint16(c.b, 0x8000)
	c.b = binary.LittleEndian.AppendUint32(c.b, docID)
	return c
}

func (c *cdxBuilder) prop(tag uint16, payload ...[]byte) *cdxBuilder {
	p := cat(payload...)
	c.b = binary.LittleEndian.AppendUint16(c.b, tag)
	if len(p) < 0xFFFF {
		c.b = binary.LittleEndian.AppendUint16(c.b, uint16(len(p)))
	} else {
		c.b = binary.LittleEndian.AppendUint16(c.b, 0xFFFF)
		c.b = binary.LittleEndian.AppendUint32(c.b, uint32(len(p)))
	}
	c.b = append(c.b, p...)
	return c
}

func (c *cdxBuilder) object(tag uint16, id uint32) *cdxBuilder {
	c.b = binary.LittleEndian.AppendUint16(c.b, tag)
	c.b = binary.LittleEndian.AppendUint32(c.b, id)
	return c
}

func (c *cdxBuilder) end() *cdxBuilder {
	c.b = append(c.b, 0, 0)
	return c
}

// done closes the document and returns the stream
func (c *cdxBuilder) done() []byte {
	return append(c.end().b, 0, 0)
}

func u16(vs ...uint16) []byte {
	var b []byte
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint16(b, v)
	}
	return b
}

func u32(vs ...uint32) []byte {
	var b []byte
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}

func cat(bs ...[]byte) []byte {
	var b []byte
	for _, p := range bs {
		b = append(b, p...)
	}
	return b
}

// plain is an unstyled CDXString payload
func plain(s string) []byte {
	return cat(u16(0), []byte(s))
}

// pt converts points to coordinate units
func pt(p float64) uint32 {
	return uint32(int32(p * 65536))
}

// Object tags
const (
	tagPage      = 0x8001
	tagFragment  = 0x8003
	tagNode      = 0x8004
	tagBond      = 0x8005
	tagText      = 0x8006
	tagEmbedded  = 0x800C
	tagObjectTag = 0x8011
	tagGEPBand   = 0x8028
)

// Property tags
const (
	propCreationProgram = 0x0003
	propName            = 0x0008
	propZ               = 0x000A
	propRepresent       = 0x000E
	propFontTable       = 0x0100
	propP               = 0x0200
	propBoundingBox     = 0x0204
	propColorTable      = 0x0300
	propColor           = 0x0301
	propElement         = 0x0402
	propOrder           = 0x0600
	propB               = 0x0604
	propE               = 0x0605
	propText            = 0x0700
	propBondLength      = 0x0805
	propLabelStyle      = 0x080A
	propWidth           = 0x0812
	propHeight          = 0x0813
	propTagType         = 0x1100
	propValue           = 0x1105
)

// sampleCDX is a small but complete document: a font and color table, a
// fragment of two atoms joined by a bond, and a text label with two style
// runs. One coordinate is not representable at two decimal places.
func sampleCDX() []byte {
	return newCDX(1).
		prop(propCreationProgram, plain("cdx test")).
		prop(propFontTable, u16(1, 1), u16(3, 1252, 5), []byte("Arial")).
		prop(propColorTable, u16(2), u16(0xFFFF, 0xFFFF, 0xFFFF), u16(0, 0, 0xFFFF)).
		prop(propLabelStyle, u16(3, 0, 240, 0)).
		prop(propBondLength, u32(pt(14.4))).
		object(tagPage, 2).
		prop(propBoundingBox, u32(pt(10), pt(20), pt(110), pt(220))).
		object(tagFragment, 3).
		object(tagNode, 4).
		prop(propP, u32(pt(36), 0x00481234)).
		prop(propZ, u16(1)).
		end().
		object(tagNode, 5).
		prop(propP, u32(pt(36), pt(86.4))).
		prop(propElement, u16(8)).
		prop(propZ, u16(2)).
		object(tagText, 6).
		prop(propP, u32(pt(40), pt(84))).
		prop(propText, u16(2), u16(0, 3, 0x60, 200, 0), u16(1, 3, 0x20, 150, 3), []byte("OH")).
		end().
		end().
		object(tagBond, 7).
		prop(propB, u32(4)).
		prop(propE, u32(5)).
		prop(propOrder, u16(3)).
		end().
		end().
		end().
		done()
}
