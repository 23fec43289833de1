// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCDXIdentity(t *testing.T) {
	conv, logs := testConverter(Options{})
	doc, err := conv.ParseCDX(sampleCDX())
	require.NoError(t, err)

	w := newComparingWriter(t, bytes.NewReader(sampleCDX()))
	require.NoError(t, doc.WriteCDX(w))
	w.Assert()
	assert.Empty(t, logs.String())
}

func TestWriteCDXModified(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc, err := conv.ParseCDX(sampleCDX())
	require.NoError(t, err)

	doc.ElementByID(4).SetAttr("p", "1 2")
	out, err := doc.MarshalCDX()
	require.NoError(t, err)

	// Only the changed property is re-encoded; the lossy coordinate it held is
	// replaced and everything else is written as read
	expected := bytes.Replace(sampleCDX(), u32(pt(36), 0x00481234), u32(pt(2), pt(1)), 1)
	assert.Equal(t, expected, out)
}

func TestWriteNewDocument(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc := conv.NewDocument()
	doc.Root.SetAttr("BondLength", "30")

	page := NewElement("page")
	node := NewElement("n", Attr{"p", "1 2"}, Attr{"IgnoreWarnings", "yes"}, Attr{"Visible", "no"})
	text := NewElement("t")
	text.Text = "Hello"
	page.Append(node, text)
	doc.Root.Append(page)

	out, err := doc.MarshalCDX()
	require.NoError(t, err)

	expected := newCDX(0).
		prop(propBondLength, u32(pt(30))).
		object(tagPage, 5000).
		object(tagNode, 5001).
		prop(propP, u32(pt(2), pt(1))).
		prop(0x000F).
		prop(0x0011, []byte{0}).
		end().
		object(tagText, 5002).
		prop(propText, plain("Hello")).
		end().
		end().
		done()
	assert.Equal(t, expected, out)

	assert.Equal(t, uint32(5000), page.ID)
	assert.Equal(t, uint32(5001), node.ID)
	assert.Equal(t, uint32(5002), text.ID)
	assert.Equal(t, uint32(0), doc.Root.ID)

	// Ids are only assigned once
	again, err := doc.MarshalCDX()
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestWriteFirstObjectID(t *testing.T) {
	conv, _ := testConverter(Options{FirstObjectID: 100})
	doc := conv.NewDocument()
	el := doc.NewElement("page")
	assert.Equal(t, uint32(100), el.ID)
	assert.Equal(t, uint32(101), doc.AllocateID())
}

func TestWriteExplicitIDs(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc := conv.NewDocument()
	fixed := &Element{Tag: "page", ID: 5000}
	fresh := &Element{Tag: "page"}
	doc.Root.Append(fixed, fresh)

	out, err := doc.MarshalCDX()
	require.NoError(t, err)
	assert.Equal(t, newCDX(0).object(tagPage, 5000).end().object(tagPage, 5001).end().done(), out)
	assert.Equal(t, uint32(5001), fresh.ID)

	// Allocation also skips ids set after earlier allocations
	doc.Root.Append(&Element{Tag: "page", ID: 9000})
	assert.Equal(t, uint32(9001), doc.NewElement("page").ID)
	assert.Equal(t, uint32(9002), doc.AllocateID())

	seen := map[uint32]bool{}
	doc.Root.Walk(func(e *Element) bool {
		if e != doc.Root {
			assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
			seen[e.ID] = true
		}
		return true
	})
}

func TestWriteImpliedBooleanOmitted(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc := conv.NewDocument()
	doc.Root.Append(&Element{Tag: "n", ID: 2, Attrs: []Attr{{"IgnoreWarnings", "no"}}})

	out, err := doc.MarshalCDX()
	require.NoError(t, err)
	assert.Equal(t, newCDX(0).object(tagNode, 2).end().done(), out)
}

func TestWriteStyleDefaults(t *testing.T) {
	testcases := []struct {
		name  string
		attrs []Attr
		style []byte
	}{
		{"SizeOnly", []Attr{{"LabelSize", "10"}}, u16(1, 0, 200, 0)},
		{"All", []Attr{{"LabelFont", "3"}, {"LabelSize", "7.5"}, {"LabelFace", "96"}}, u16(3, 96, 150, 0)},
		{"Rounded", []Attr{{"LabelFont", "2"}, {"LabelSize", "10.04"}}, u16(2, 0, 201, 0)},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			conv, _ := testConverter(Options{})
			doc := conv.NewDocument()
			doc.Root.Attrs = tc.attrs

			out, err := doc.MarshalCDX()
			require.NoError(t, err)
			assert.Equal(t, newCDX(0).prop(propLabelStyle, tc.style).done(), out)
		})
	}
}

func TestWriteUnknown(t *testing.T) {
	t.Run("Attribute", func(t *testing.T) {
		conv, _ := testConverter(Options{})
		doc := conv.NewDocument()
		doc.Root.Append(&Element{Tag: "n", ID: 2, Attrs: []Attr{{"Bogus", "1"}, {"Z", "3"}}})

		_, err := doc.MarshalCDX()
		require.Truef(t, errors.Is(err, ErrUnknownProperty), "Expected unknown property, got %v", err)
		assert.Contains(t, err.Error(), "Bogus")

		conv, logs := testConverter(Options{SkipUnknownAttributes: true})
		doc.conv = conv
		out, err := doc.MarshalCDX()
		require.NoError(t, err)
		assert.Equal(t, newCDX(0).object(tagNode, 2).prop(propZ, u16(3)).end().done(), out)
		assert.Contains(t, logs.String(), "Bogus")
	})

	t.Run("Element", func(t *testing.T) {
		conv, _ := testConverter(Options{})
		doc := conv.NewDocument()
		widget := &Element{Tag: "widget", ID: 2}
		widget.Append(&Element{Tag: "n", ID: 3})
		doc.Root.Append(widget, &Element{Tag: "n", ID: 4})

		_, err := doc.MarshalCDX()
		require.Truef(t, errors.Is(err, ErrUnknownObject), "Expected unknown object, got %v", err)

		conv, logs := testConverter(Options{SkipUnknownObjects: true})
		doc.conv = conv
		out, err := doc.MarshalCDX()
		require.NoError(t, err)
		assert.Equal(t, newCDX(0).object(tagNode, 4).end().done(), out)
		assert.Contains(t, logs.String(), "widget")
	})
}

func TestWriteInvalidValue(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc := conv.NewDocument()
	doc.Root.Append(&Element{Tag: "n", ID: 7, Attrs: []Attr{{"Z", "abc"}}})

	var buf bytes.Buffer
	err := doc.WriteCDX(&buf)
	require.Truef(t, errors.Is(err, ErrInvalidValue), "Expected invalid value, got %v", err)
	assert.Contains(t, err.Error(), "n(7).Z")
	assert.Zero(t, buf.Len())
}

func TestWriteRootTag(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc := conv.NewDocument()
	doc.Root = &Element{Tag: "page"}
	_, err := doc.MarshalCDX()
	assert.Error(t, err)
}

func TestWriteObjectTagSuppression(t *testing.T) {
	objectTag := func(name string) *Element {
		return &Element{Tag: "objecttag", ID: 3, Attrs: []Attr{{"Name", name}}}
	}

	t.Run("FromCDXML", func(t *testing.T) {
		for _, name := range []string{"stereo", "enhancedstereo", "residueID"} {
			conv, _ := testConverter(Options{})
			doc := conv.NewDocument()
			node := &Element{Tag: "n", ID: 2}
			node.Append(objectTag(name))
			doc.Root.Append(node)

			out, err := doc.MarshalCDX()
			require.NoError(t, err)
			assert.Equal(t, newCDX(0).object(tagNode, 2).end().done(), out, name)
		}

		conv, _ := testConverter(Options{})
		doc := conv.NewDocument()
		doc.Root.Append(objectTag("query"))
		out, err := doc.MarshalCDX()
		require.NoError(t, err)
		assert.Equal(t, newCDX(0).object(tagObjectTag, 3).prop(propName, plain("query")).end().done(), out)
	})

	t.Run("FromCDX", func(t *testing.T) {
		data := newCDX(1).
			object(tagNode, 2).
			object(tagObjectTag, 3).
			prop(propName, plain("stereo")).
			end().
			end().
			done()

		conv, _ := testConverter(Options{})
		doc, err := conv.ParseCDX(data)
		require.NoError(t, err)
		out, err := doc.MarshalCDX()
		require.NoError(t, err)
		assert.Equal(t, data, out)
	})
}

func TestWriteValue(t *testing.T) {
	double := binary.LittleEndian.AppendUint64(nil, math.Float64bits(1.5))

	testcases := []struct {
		name    string
		attrs   []Attr
		payload []byte
	}{
		{"Double", []Attr{{"TagType", "Double"}, {"Value", "1.5"}}, cat(u16(1), double)},
		{"Long", []Attr{{"TagType", "Long"}, {"Value", "-2"}}, cat(u16(2), u32(0xFFFFFFFE))},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			conv, _ := testConverter(Options{})
			doc := conv.NewDocument()
			doc.Root.Append(&Element{Tag: "objecttag", ID: 2, Attrs: tc.attrs})

			out, err := doc.MarshalCDX()
			require.NoError(t, err)
			expected := newCDX(0).
				object(tagObjectTag, 2).
				prop(propTagType, tc.payload[:2]).
				prop(propValue, tc.payload[2:]).
				end().
				done()
			assert.Equal(t, expected, out)
		})
	}

	t.Run("MissingTagType", func(t *testing.T) {
		conv, logs := testConverter(Options{})
		doc := conv.NewDocument()
		doc.Root.Append(&Element{Tag: "objecttag", ID: 2, Attrs: []Attr{{"Value", "beef"}}})

		out, err := doc.MarshalCDX()
		require.NoError(t, err)
		assert.Equal(t, newCDX(0).object(tagObjectTag, 2).prop(propValue, []byte{0xBE, 0xEF}).end().done(), out)
		assert.Contains(t, logs.String(), "without TagType")
	})
}

func TestWriteGEPBand(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc := conv.NewDocument()
	doc.Root.Append(&Element{Tag: "gepband", ID: 2, Attrs: []Attr{{"Width", "120"}, {"Height", "7"}}})

	out, err := doc.MarshalCDX()
	require.NoError(t, err)
	expected := newCDX(0).
		object(tagGEPBand, 2).
		prop(propWidth, u32(120)).
		prop(propHeight, u32(7)).
		end().
		done()
	assert.Equal(t, expected, out)
}

func TestWriteRepresent(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc := conv.NewDocument()
	text := &Element{Tag: "t", ID: 3}
	text.Append(
		&Element{Tag: representTag, Attrs: []Attr{{"object", "2"}, {"attribute", "Element"}}},
		&Element{Tag: representTag, Attrs: []Attr{{"object", "2"}, {"attribute", "Charge"}}},
	)
	doc.Root.Append(&Element{Tag: "n", ID: 2}, text)

	out, err := doc.MarshalCDX()
	require.NoError(t, err)
	expected := newCDX(0).
		object(tagNode, 2).
		end().
		object(tagText, 3).
		prop(propRepresent, u32(2), u16(propElement)).
		prop(propRepresent, u32(2), u16(0x0421)).
		prop(propText, plain("")).
		end().
		done()
	assert.Equal(t, expected, out)
}

func TestWriteRepresentUnregistered(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc := conv.NewDocument()
	text := &Element{Tag: "t", ID: 3}
	text.Append(&Element{Tag: representTag, Attrs: []Attr{{"object", "2"}, {"attribute", "32752"}}})
	doc.Root.Append(&Element{Tag: "n", ID: 2}, text)

	out, err := doc.MarshalCDX()
	require.NoError(t, err)
	expected := newCDX(0).
		object(tagNode, 2).
		end().
		object(tagText, 3).
		prop(propRepresent, u32(2), u16(0x7FF0)).
		prop(propText, plain("")).
		end().
		done()
	assert.Equal(t, expected, out)
}

func TestWriteStyledText(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc := conv.NewDocument()
	fonts := &Element{Tag: fontTableTag}
	fonts.Append(&Element{Tag: fontTag, Attrs: []Attr{{"id", "3"}, {"charset", "iso-8859-1"}, {"name", "Arial"}}})
	doc.Root.Append(fonts)

	text := &Element{Tag: "t", ID: 2}
	text.Append(
		&Element{Tag: spanTag, Attrs: []Attr{{"font", "3"}, {"size", "10"}, {"face", "96"}}, Text: "é"},
		&Element{Tag: spanTag, Attrs: []Attr{{"font", "3"}}, Text: "\n2"},
	)
	doc.Root.Append(text)

	out, err := doc.MarshalCDX()
	require.NoError(t, err)
	expected := newCDX(0).
		prop(propFontTable, u16(1, 1), u16(3, 1252, 5), []byte("Arial")).
		object(tagText, 2).
		prop(propText, u16(2), u16(0, 3, 96, 200, 0), u16(1, 3, 0, 240, 0), []byte{0xE9, '\r', '2'}).
		end().
		done()
	assert.Equal(t, expected, out)

	t.Run("MissingFont", func(t *testing.T) {
		text.Children[1].Attrs = nil
		_, err := doc.MarshalCDX()
		require.Truef(t, errors.Is(err, ErrInvalidValue), "Expected invalid value, got %v", err)
	})
}
