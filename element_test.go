// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementAttrs(t *testing.T) {
	e := NewElement("n", Attr{"p", "1 2"}, Attr{"Z", "3"})

	v, ok := e.Attr("p")
	assert.True(t, ok)
	assert.Equal(t, "1 2", v)
	_, ok = e.Attr("Element")
	assert.False(t, ok)
	assert.Equal(t, "6", e.AttrOr("Element", "6"))

	e.SetAttr("p", "3 4")
	e.SetAttr("Element", "8")
	assert.Equal(t, []Attr{{"p", "3 4"}, {"Z", "3"}, {"Element", "8"}}, e.Attrs)

	assert.True(t, e.DeleteAttr("Z"))
	assert.False(t, e.DeleteAttr("Z"))
	assert.Equal(t, []Attr{{"p", "3 4"}, {"Element", "8"}}, e.Attrs)
}

func TestElementSearch(t *testing.T) {
	conv, _ := testConverter(Options{})
	doc, err := conv.ParseCDX(sampleCDX())
	require.NoError(t, err)
	root := doc.Root

	assert.Equal(t, "page", root.Find("page").Tag)
	assert.Nil(t, root.Find("graphic"))
	assert.Nil(t, root.Child("fragment"))

	nodes := root.FindAll("n")
	require.Len(t, nodes, 2)
	assert.Equal(t, uint32(4), nodes[0].ID)
	assert.Equal(t, uint32(5), nodes[1].ID)

	frag := root.Find("fragment")
	assert.Len(t, frag.ChildrenByTag("n"), 2)
	assert.Len(t, frag.ChildrenByTag("t"), 0)

	var tags []string
	root.Walk(func(e *Element) bool {
		tags = append(tags, e.Tag)
		return e.Tag != "n"
	})
	assert.Equal(t, []string{"CDXML", "fonttable", "font", "colortable", "color", "color", "page", "fragment", "n", "n", "b"}, tags)
}

func TestDeepTree(t *testing.T) {
	const depth = 5000

	conv, _ := testConverter(Options{})
	doc := conv.NewDocument()
	el := doc.Root
	for i := 0; i < depth; i++ {
		child := &Element{Tag: "group", ID: uint32(i + 1)}
		el.Append(child)
		el = child
	}

	b, err := doc.MarshalCDX()
	require.NoError(t, err)
	doc2, err := conv.ParseCDX(b)
	require.NoError(t, err)
	assert.NotNil(t, doc2.ElementByID(depth))

	x, err := doc2.MarshalCDXML()
	require.NoError(t, err)
	doc3, err := conv.ParseCDXML(x)
	require.NoError(t, err)
	assert.Len(t, doc3.Root.FindAll("group"), depth)
}
