// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"go.e43.eu/cdx/internal/coder"
	"go.e43.eu/cdx/internal/errors"
	"go.e43.eu/cdx/internal/tags"
)

const embeddedObjectTag = "embeddedobject"

// EmbeddedObject is a picture or OLE object carried by an embeddedobject element
type EmbeddedObject struct {
	Element *Element

	// Kind is the payload kind, e.g. "PNG", "WindowsMetafile" or "OLEObject"
	Kind string
	// Data is the payload, decompressed if it was stored compressed
	Data []byte
	// Compressed is set when the payload was stored zlib compressed
	Compressed bool

	// Raster images which can be decoded also have their format and size set
	Format        string
	Width, Height int
}

// EmbeddedObjects returns the payloads of all embeddedobject elements in the
// document, in document order
func (d *Document) EmbeddedObjects() ([]EmbeddedObject, error) {
	var (
		objs []EmbeddedObject
		err  error
	)
	d.Root.Walk(func(e *Element) bool {
		if err != nil {
			return false
		}
		if e.Tag != embeddedObjectTag {
			return true
		}
		for _, a := range e.Attrs {
			var o *EmbeddedObject
			o, err = embeddedPayload(e, a)
			if err != nil {
				err = errors.WithPropertyError(err, e.Tag, idString(e), a.Name)
				return false
			}
			if o != nil {
				objs = append(objs, *o)
			}
		}
		return true
	})
	return objs, err
}

func embeddedPayload(e *Element, a Attr) (*EmbeddedObject, error) {
	p, ok := tags.PropertyByName(a.Name)
	if !ok || p.Type != "CDXCompressed" {
		return nil, nil
	}
	c, _ := coder.Lookup(p.Type)
	v, err := c.Parse(a.Value)
	if err != nil {
		return nil, err
	}

	o := &EmbeddedObject{Element: e, Kind: a.Name, Data: []byte(v.(coder.Compressed))}
	if kind := strings.TrimPrefix(a.Name, "Compressed"); kind != a.Name {
		o.Kind = kind
		o.Compressed = true
		if o.Data, err = inflate(o.Data); err != nil {
			return nil, err
		}
		if size, ok := e.Attr("Uncompressed" + kind + "Size"); ok {
			n, err := strconv.Atoi(size)
			if err != nil {
				return nil, errors.ValueError{Type: "INT32", Value: size, Underlying: err}
			}
			if n != len(o.Data) {
				return nil, errors.LengthError{Type: a.Name, Actual: len(o.Data), Expected: n}
			}
		}
	}

	if cfg, format, err := image.DecodeConfig(bytes.NewReader(o.Data)); err == nil {
		o.Format = format
		o.Width = cfg.Width
		o.Height = cfg.Height
	}
	return o, nil
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, errors.ValueError{Type: "CDXCompressed", Value: "zlib stream", Underlying: err}
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.ValueError{Type: "CDXCompressed", Value: "zlib stream", Underlying: err}
	}
	return out, nil
}
