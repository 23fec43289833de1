// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultFirstObjectID is the first id handed out for documents which carry no
// object ids at all
const DefaultFirstObjectID = 5000

// Options controls how documents are read and written
type Options struct {
	// Logger receives warnings about repaired input and debug output. If nil,
	// slog.Default() is used.
	Logger *slog.Logger

	// Legacy accepts documents with the old header lacking the document tag
	Legacy bool

	// SkipUnknownProperties skips (with a warning) CDX properties missing from
	// the registry, rather than failing
	SkipUnknownProperties bool

	// SkipUnknownObjects skips (with a warning) CDX objects missing from the
	// registry along with their children, rather than failing. Children are
	// found through the generic tag grammar, so this can misread documents in
	// which the unknown object uses a property layout the grammar does not
	// cover.
	//
	// When writing CDX, elements with no object tag are likewise skipped.
	SkipUnknownObjects bool

	// SkipUnknownAttributes skips (with a warning) attributes with no CDX
	// property when writing CDX, rather than failing
	SkipUnknownAttributes bool

	// FirstObjectID is the first id allocated in documents without any ids.
	// Zero means DefaultFirstObjectID.
	FirstObjectID uint32
}

// Converter reads documents in either format. A Converter holds no state beyond
// its options and may be shared between goroutines.
type Converter struct {
	opts Options
	log  *slog.Logger
}

// NewConverter constructs a converter with the given options
func NewConverter(opts Options) *Converter {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.FirstObjectID == 0 {
		opts.FirstObjectID = DefaultFirstObjectID
	}
	return &Converter{opts: opts, log: log}
}

// Options returns the options of the converter
func (c *Converter) Options() Options {
	return c.opts
}

// NewDocument returns an empty document
func (c *Converter) NewDocument() *Document {
	return c.newDocument(&Element{Tag: RootTag}, 0)
}

func (c *Converter) newDocument(root *Element, maxID uint32) *Document {
	d := &Document{Root: root, conv: c}
	if maxID == 0 {
		d.nextID = c.opts.FirstObjectID
	} else {
		d.nextID = maxID + 1
	}
	return d
}

// ParseCDX reads a CDX document from a byte slice
func (c *Converter) ParseCDX(b []byte) (*Document, error) {
	r := &cdxReader{b: b, conv: c, log: c.log}
	return r.read()
}

// ReadCDX reads a CDX document from r
func (c *Converter) ReadCDX(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cdx: reading document: %w", err)
	}
	return c.ParseCDX(b)
}

// ReadBase64CDX reads a base64 encoded CDX document, as found embedded in other
// file formats
func (c *Converter) ReadBase64CDX(s string) (*Document, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("cdx: decoding base64: %w", err)
	}
	return c.ParseCDX(b)
}

// ParseCDXML reads a CDXML document from a byte slice
func (c *Converter) ParseCDXML(b []byte) (*Document, error) {
	return c.ReadCDXML(bytes.NewReader(b))
}

// ReadCDXML reads a CDXML document from r
func (c *Converter) ReadCDXML(r io.Reader) (*Document, error) {
	x := &xmlReader{conv: c, log: c.log}
	return x.read(r)
}

// ReadFile reads a document, choosing the format by file extension: .cdxml is
// CDXML, .b64 is base64 CDX and anything else is CDX
func (c *Converter) ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch FormatOf(path) {
	case FormatCDXML:
		return c.ReadCDXML(f)
	case FormatBase64:
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("cdx: reading %s: %w", path, err)
		}
		return c.ReadBase64CDX(string(b))
	default:
		return c.ReadCDX(f)
	}
}

// Base64CDXToCDXML converts a base64 encoded CDX document to CDXML
func (c *Converter) Base64CDXToCDXML(s string) (string, error) {
	d, err := c.ReadBase64CDX(s)
	if err != nil {
		return "", err
	}
	b, err := d.MarshalCDXML()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
