// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package errors

import (
	"fmt"
	"strings"
)

type cerror string

func (e cerror) Error() string {
	return string(e)
}

const (
	// Structurally invalid stream (bad magic, truncated data, dangling terminators)
	ErrFormat = cerror("cdx: Malformed document")

	// Document uses the old header layout without a document object tag, and legacy
	// conversion was not requested
	ErrLegacyDocument = cerror("cdx: Legacy document header")

	// Object tag absent from the registry
	ErrUnknownObject = cerror("cdx: Unknown object")

	// Property tag (or CDXML attribute name) absent from the registry
	ErrUnknownProperty = cerror("cdx: Unknown property")

	// Length of fixed length value incorrect
	//
	// Returned when a property payload does not match the width its type requires
	ErrLengthIncorrect = cerror("cdx: Length incorrect")

	// Enumeration value (or option name) outside the closed set of its type
	ErrInvalidEnum = cerror("cdx: Invalid enumeration value")

	// Invalid value for type
	ErrInvalidValue = cerror("cdx: Invalid value for type")

	// Property payload ended before the value was complete
	ErrUnexpectedEOF = cerror("cdx: Unexpected end of data")
)

type FormatError struct {
	Offset int64
	Reason string
}

func (e FormatError) Is(target error) bool {
	return target == ErrFormat
}

func (e FormatError) Error() string {
	return fmt.Sprintf("%s: %s (at offset %d)", ErrFormat, e.Reason, e.Offset)
}

// UnknownObjectError reports an object which cannot be mapped through the registry.
// Binary input sets Tag and Offset; trees being written set Element.
type UnknownObjectError struct {
	Tag     uint16
	Offset  int64
	Element string
}

func (e UnknownObjectError) Is(target error) bool {
	return target == ErrUnknownObject
}

func (e UnknownObjectError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("%s <%s>", ErrUnknownObject, e.Element)
	}
	return fmt.Sprintf("%s 0x%04x (at offset %d)", ErrUnknownObject, e.Tag, e.Offset)
}

// UnknownPropertyError reports a property which cannot be mapped through the registry.
// Binary input sets Tag; CDXML input sets Name.
type UnknownPropertyError struct {
	Tag    uint16
	Name   string
	Object string
}

func (e UnknownPropertyError) Is(target error) bool {
	return target == ErrUnknownProperty
}

func (e UnknownPropertyError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s '%s' on <%s>", ErrUnknownProperty, e.Name, e.Object)
	}
	return fmt.Sprintf("%s 0x%04x on <%s>", ErrUnknownProperty, e.Tag, e.Object)
}

type LengthError struct {
	Type             string
	Actual, Expected int
}

func (err LengthError) Is(target error) bool {
	return target == ErrLengthIncorrect
}

func (err LengthError) Error() string {
	return fmt.Sprintf("%s for %s (%d != %d)", ErrLengthIncorrect, err.Type, err.Actual, err.Expected)
}

type InvalidEnumError struct {
	Type  string
	Value string
}

func (err InvalidEnumError) Is(target error) bool {
	return target == ErrInvalidEnum
}

func (err InvalidEnumError) Error() string {
	return fmt.Sprintf("%s '%s' for %s", ErrInvalidEnum, err.Value, err.Type)
}

// ValueError wraps a parse failure of a text value
type ValueError struct {
	Type       string
	Value      string
	Underlying error
}

func (err ValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

func (err ValueError) Unwrap() error {
	return err.Underlying
}

func (err ValueError) Error() string {
	if err.Underlying == nil {
		return fmt.Sprintf("%s %s: '%s'", ErrInvalidValue, err.Type, err.Value)
	}
	return fmt.Sprintf("%s %s: '%s': %v", ErrInvalidValue, err.Type, err.Value, err.Underlying)
}

type PropertyError struct {
	Underlying error
	Path       string
}

func (err PropertyError) Unwrap() error {
	return err.Underlying
}

func (err PropertyError) Error() string {
	uerr := strings.TrimPrefix(err.Underlying.Error(), "cdx: ")
	return fmt.Sprintf("cdx: %s (at %s)", uerr, err.Path)
}

// WithPropertyError annotates err with the location of the property being processed,
// typically (element, id, property). Nested annotations are prepended.
func WithPropertyError(err error, parts ...string) error {
	if err == nil {
		return nil
	}

	var combined string
	if parts[0] == "" {
		parts[0] = "<anonymous>"
	}

	switch len(parts) {
	case 1:
		combined = parts[0]
	case 3:
		combined = fmt.Sprintf("%s(%s).%s", parts[0], parts[1], parts[2])
	default:
		combined = strings.Join(parts, ".")
	}

	switch err := err.(type) {
	case PropertyError:
		err.Path = fmt.Sprintf("%s %s", combined, err.Path)
		return err
	default:
		return PropertyError{err, combined}
	}
}
