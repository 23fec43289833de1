// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package cdx implements reading and writing of chemical drawings in the tagged
// binary CDX format and its XML sibling CDXML.
//
// Both formats are read into the same tree of Elements. The root is a CDXML
// element; objects (pages, fragments, nodes, bonds...) become child elements
// named as in CDXML, and their properties become attributes holding the CDXML
// text form of the value:
//
//     CDX                          | Tree
//     -----------------------------+------------------------------------------
//     object tag + id              | Element{Tag: "n", ID: 12}
//     property                     | Attr{Name: "p", Value: "72.0 36.0"}
//     LabelStyle, CaptionStyle     | LabelFont/LabelSize/LabelFace attributes
//     fonttable, colortable        | fonttable/colortable child elements
//     Text (styled string)         | s child elements, one per style run
//     represent                    | represent child element
//
// Documents read from CDX remember the payload of every property. When written
// back to CDX, the original payload is reused for any property whose text has
// not changed, so that a document round trips byte for byte even where the
// text form is lossy (coordinates are rendered to two decimal places).
//
// The text form of each property is defined by its Codec, which can be obtained
// from PropertyCodec for typed access to attribute values.
//
// Repairs of known producer defects are logged as warnings to the Options
// Logger and are never fatal. Everything else which cannot be represented fails
// with one of the errors in this package, which may be tested using errors.Is.
package cdx

import (
	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/coder"
)

// interface Codec translates one property type between CDX and CDXML
type Codec = cdxinterfaces.Codec

// interface Value is a decoded property value
type Value = cdxinterfaces.Value

// interface Encoder is the interface to the property encoder
type Encoder = cdxinterfaces.Encoder

// interface Decoder is the interface to the property decoder
type Decoder = cdxinterfaces.Decoder

// Document level tables
type (
	FontTable  = coder.FontTable
	Font       = coder.Font
	ColorTable = coder.ColorTable
	RGB        = coder.RGB
)
