// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"io"
	"log/slog"
	"strconv"
	"testing"
)

// benchDocument builds a document of n fragments of three atoms each
func benchDocument(n int) []byte {
	c := newCDX(1).
		prop(propCreationProgram, plain("bench")).
		prop(propFontTable, u16(1, 1), u16(3, 1252, 5), []byte("Arial")).
		object(tagPage, 2)
	id := uint32(3)
	for i := 0; i < n; i++ {
		c.object(tagFragment, id)
		for j := 0; j < 3; j++ {
			c.object(tagNode, id+1+uint32(j)).
				prop(propP, u32(pt(float64(j)*14.4), pt(float64(i)))).
				prop(propElement, u16(6)).
				end()
		}
		c.object(tagText, id+4).
			prop(propText, u16(1), u16(0, 3, 0, 200, 0), []byte("CH"+strconv.Itoa(i%10))).
			end()
		c.object(tagBond, id+5).prop(propB, u32(id+1)).prop(propE, u32(id+2)).end()
		c.end()
		id += 6
	}
	return c.end().done()
}

func benchConverter() *Converter {
	return NewConverter(Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func BenchmarkParseCDX(b *testing.B) {
	conv := benchConverter()
	data := benchDocument(500)
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		if _, err := conv.ParseCDX(data); err != nil {
			b.Fatalf("ParseCDX: %s", err)
		}
	}
}

func BenchmarkMarshalCDX(b *testing.B) {
	conv := benchConverter()
	doc, err := conv.ParseCDX(benchDocument(500))
	if err != nil {
		b.Fatalf("ParseCDX: %s", err)
	}

	b.Run("Unmodified", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := doc.MarshalCDX(); err != nil {
				b.Fatalf("MarshalCDX: %s", err)
			}
		}
	})

	x, err := doc.MarshalCDXML()
	if err != nil {
		b.Fatalf("MarshalCDXML: %s", err)
	}
	fromXML, err := conv.ParseCDXML(x)
	if err != nil {
		b.Fatalf("ParseCDXML: %s", err)
	}

	b.Run("FromCDXML", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := fromXML.MarshalCDX(); err != nil {
				b.Fatalf("MarshalCDX: %s", err)
			}
		}
	})
}

func BenchmarkMarshalCDXML(b *testing.B) {
	conv := benchConverter()
	doc, err := conv.ParseCDX(benchDocument(500))
	if err != nil {
		b.Fatalf("ParseCDX: %s", err)
	}
	for i := 0; i < b.N; i++ {
		if _, err := doc.MarshalCDXML(); err != nil {
			b.Fatalf("MarshalCDXML: %s", err)
		}
	}
}

func BenchmarkParseCDXML(b *testing.B) {
	conv := benchConverter()
	doc, err := conv.ParseCDX(benchDocument(500))
	if err != nil {
		b.Fatalf("ParseCDX: %s", err)
	}
	x, err := doc.MarshalCDXML()
	if err != nil {
		b.Fatalf("MarshalCDXML: %s", err)
	}

	b.SetBytes(int64(len(x)))
	for i := 0; i < b.N; i++ {
		if _, err := conv.ParseCDXML(x); err != nil {
			b.Fatalf("ParseCDXML: %s", err)
		}
	}
}
