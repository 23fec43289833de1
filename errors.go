// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import "go.e43.eu/cdx/internal/errors"

// Errors returned by this package. Test for them using errors.Is; the typed
// errors below match their corresponding sentinel.
const (
	ErrFormat          = errors.ErrFormat
	ErrLegacyDocument  = errors.ErrLegacyDocument
	ErrUnknownObject   = errors.ErrUnknownObject
	ErrUnknownProperty = errors.ErrUnknownProperty
	ErrLengthIncorrect = errors.ErrLengthIncorrect
	ErrInvalidEnum     = errors.ErrInvalidEnum
	ErrInvalidValue    = errors.ErrInvalidValue
	ErrUnexpectedEOF   = errors.ErrUnexpectedEOF
)

type (
	FormatError          = errors.FormatError
	UnknownObjectError   = errors.UnknownObjectError
	UnknownPropertyError = errors.UnknownPropertyError
	LengthError          = errors.LengthError
	InvalidEnumError     = errors.InvalidEnumError
	ValueError           = errors.ValueError
	PropertyError        = errors.PropertyError
)
