// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is a document serialization
type Format int

const (
	FormatCDX Format = iota
	FormatCDXML
	// FormatBase64 is base64 encoded CDX
	FormatBase64
)

func (f Format) String() string {
	switch f {
	case FormatCDXML:
		return "cdxml"
	case FormatBase64:
		return "base64"
	default:
		return "cdx"
	}
}

// ParseFormat parses a format name as returned by Format.String
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "cdx":
		return FormatCDX, nil
	case "cdxml":
		return FormatCDXML, nil
	case "base64", "b64":
		return FormatBase64, nil
	}
	return FormatCDX, fmt.Errorf("cdx: unknown format %q", s)
}

// FormatOf picks a format by file extension
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cdxml", ".xml":
		return FormatCDXML
	case ".b64", ".base64":
		return FormatBase64
	default:
		return FormatCDX
	}
}

// Marshal renders the document in the given format
func (d *Document) Marshal(f Format) ([]byte, error) {
	switch f {
	case FormatCDXML:
		return d.MarshalCDXML()
	case FormatBase64:
		s, err := d.Base64CDX()
		return []byte(s), err
	default:
		return d.MarshalCDX()
	}
}

// WriteFile writes the document to path, choosing the format by extension (see
// FormatOf). The file is replaced atomically: on failure any existing file is
// left untouched.
func (d *Document) WriteFile(path string) error {
	b, err := d.Marshal(FormatOf(path))
	if err != nil {
		return err
	}
	return writeFileAtomic(path, b)
}

func writeFileAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cdx: creating temporary file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("cdx: writing %s: %w", path, err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("cdx: syncing %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("cdx: closing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("cdx: replacing %s: %w", path, err)
	}

	success = true
	return nil
}
