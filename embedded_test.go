// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func deflate(t *testing.T, b []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(b)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const (
	propPNG                        = 0x0A68
	propCompressedEnhancedMetafile = 0x0A71
	propUncompressedEMFSize        = 0x0A75
)

func TestEmbeddedObjects(t *testing.T) {
	pic := testPNG(t, 3, 2)
	emf := bytes.Repeat([]byte("EMF metafile record "), 50)

	data := newCDX(1).
		object(tagPage, 2).
		object(tagEmbedded, 3).
		prop(propPNG, pic).
		end().
		object(tagEmbedded, 4).
		prop(propUncompressedEMFSize, u32(uint32(len(emf)))).
		prop(propCompressedEnhancedMetafile, deflate(t, emf)).
		end().
		end().
		done()

	conv, _ := testConverter(Options{})
	doc, err := conv.ParseCDX(data)
	require.NoError(t, err)

	objs, err := doc.EmbeddedObjects()
	require.NoError(t, err)
	require.Len(t, objs, 2)

	assert.Same(t, doc.ElementByID(3), objs[0].Element)
	assert.Equal(t, "PNG", objs[0].Kind)
	assert.False(t, objs[0].Compressed)
	assert.Equal(t, pic, objs[0].Data)
	assert.Equal(t, "png", objs[0].Format)
	assert.Equal(t, 3, objs[0].Width)
	assert.Equal(t, 2, objs[0].Height)

	assert.Equal(t, "EnhancedMetafile", objs[1].Kind)
	assert.True(t, objs[1].Compressed)
	assert.Equal(t, emf, objs[1].Data)
	assert.Empty(t, objs[1].Format)

	// The same objects are found through CDXML
	x, err := doc.MarshalCDXML()
	require.NoError(t, err)
	doc2, err := conv.ParseCDXML(x)
	require.NoError(t, err)
	objs2, err := doc2.EmbeddedObjects()
	require.NoError(t, err)
	require.Len(t, objs2, 2)
	assert.Equal(t, pic, objs2[0].Data)
	assert.Equal(t, emf, objs2[1].Data)
}

func TestEmbeddedObjectErrors(t *testing.T) {
	emf := []byte("EMF metafile")

	testcases := []struct {
		name  string
		attrs []Attr
		err   error
	}{
		{
			"SizeMismatch",
			[]Attr{
				{"CompressedEnhancedMetafile", base64.StdEncoding.EncodeToString(deflate(t, emf))},
				{"UncompressedEnhancedMetafileSize", "99"},
			},
			ErrLengthIncorrect,
		},
		{
			"CorruptStream",
			[]Attr{{"CompressedEnhancedMetafile", base64.StdEncoding.EncodeToString([]byte("not zlib"))}},
			ErrInvalidValue,
		},
		{
			"BadBase64",
			[]Attr{{"PNG", "!!"}},
			ErrInvalidValue,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			conv, _ := testConverter(Options{})
			doc := conv.NewDocument()
			doc.Root.Append(&Element{Tag: embeddedObjectTag, ID: 2, Attrs: tc.attrs})

			_, err := doc.EmbeddedObjects()
			require.Truef(t, errors.Is(err, tc.err), "Expected %v, got %v", tc.err, err)
		})
	}
}
