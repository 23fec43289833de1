// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"io"
)

// The default converter (used by the package global functions)
//
// It logs to slog.Default() and is strict: legacy documents, unknown
// objects, properties and attributes are all errors.
var DefaultConverter = NewConverter(Options{})

// ParseCDX reads a CDX document from a byte slice
func ParseCDX(b []byte) (*Document, error) {
	return DefaultConverter.ParseCDX(b)
}

// ReadCDX reads a CDX document from r
func ReadCDX(r io.Reader) (*Document, error) {
	return DefaultConverter.ReadCDX(r)
}

// ReadBase64CDX reads a base64 encoded CDX document
func ReadBase64CDX(s string) (*Document, error) {
	return DefaultConverter.ReadBase64CDX(s)
}

// ParseCDXML reads a CDXML document from a byte slice
func ParseCDXML(b []byte) (*Document, error) {
	return DefaultConverter.ParseCDXML(b)
}

// ReadCDXML reads a CDXML document from r
func ReadCDXML(r io.Reader) (*Document, error) {
	return DefaultConverter.ReadCDXML(r)
}

// ReadFile reads a document from a file, choosing the format by extension
func ReadFile(path string) (*Document, error) {
	return DefaultConverter.ReadFile(path)
}

// Base64CDXToCDXML converts a base64 encoded CDX document to CDXML
func Base64CDXToCDXML(s string) (string, error) {
	return DefaultConverter.Base64CDXToCDXML(s)
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return DefaultConverter.NewDocument()
}
