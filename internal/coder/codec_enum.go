// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"strconv"
	"strings"

	cdxinterfaces "go.e43.eu/cdx/interfaces"
	"go.e43.eu/cdx/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// enumCodec handles closed enumerations. Values outside the set fail with
// InvalidEnumError in both directions.
type enumCodec struct {
	name string
	// width is the canonical byte width; minWidth the smallest width accepted on
	// decode. Values remember the width they were read with.
	width, minWidth int
	// extra permits trailing bytes after the value, which are carried along
	extra bool
	// normalise is applied to text before lookup
	normalise func(string) string

	names  map[int64]string
	values map[string]int64
}

type enumEntry struct {
	v    int64
	name string
}

// newEnum builds an enumeration. Where several values share a name, the first
// listed is the one text parses to.
func newEnum(name string, width int, entries ...enumEntry) *enumCodec {
	c := &enumCodec{
		name:     name,
		width:    width,
		minWidth: width,
		names:    make(map[int64]string, len(entries)),
		values:   make(map[string]int64, len(entries)),
	}
	for _, e := range entries {
		c.names[e.v] = e.name
		if _, ok := c.values[e.name]; !ok {
			c.values[e.name] = e.v
		}
	}
	return c
}

// seq lists names for consecutive values starting at 0
func seq(names ...string) []enumEntry {
	es := make([]enumEntry, len(names))
	for i, n := range names {
		es[i] = enumEntry{int64(i), n}
	}
	return es
}

func (c *enumCodec) alias(name string, v int64) *enumCodec {
	c.values[name] = v
	return c
}

func (c *enumCodec) accepting(minWidth int) *enumCodec {
	c.minWidth = minWidth
	return c
}

func (c *enumCodec) withExtra() *enumCodec {
	c.extra = true
	return c
}

func (c *enumCodec) normalising(f func(string) string) *enumCodec {
	c.normalise = f
	return c
}

// Enum is a decoded enumeration value
type Enum struct {
	c     *enumCodec
	V     int64
	width int
	extra []byte
}

func (c *enumCodec) Name() string {
	return c.name
}

func (c *enumCodec) Decode(d cdxinterfaces.Decoder) (cdxinterfaces.Value, error) {
	width := d.Len()
	switch {
	case width >= c.minWidth && width <= c.width:
	case c.extra && width > c.width:
		width = c.width
	default:
		return nil, errors.LengthError{Type: c.name, Actual: d.Len(), Expected: c.width}
	}

	// Values are signed; no enumeration uses the top bit of its width otherwise
	v, err := decodeWidth(d, width, true)
	if err != nil {
		return nil, err
	}
	if _, ok := c.names[v]; !ok {
		return nil, errors.InvalidEnumError{Type: c.name, Value: strconv.FormatInt(v, 10)}
	}

	e := Enum{c: c, V: v, width: width}
	if d.Len() > 0 {
		e.extra = d.Rest()
		d.Logger().Debug("enumeration value with trailing bytes", "type", c.name, "extra", len(e.extra))
	}
	return e, nil
}

func (c *enumCodec) Parse(s string) (cdxinterfaces.Value, error) {
	t := strings.TrimSpace(s)
	if c.normalise != nil {
		t = c.normalise(t)
	}
	v, ok := c.values[t]
	if !ok {
		return nil, errors.InvalidEnumError{Type: c.name, Value: s}
	}
	return Enum{c: c, V: v, width: c.width}, nil
}

func (v Enum) Encode(e cdxinterfaces.Encoder) error {
	encodeWidth(e, v.V, v.width)
	e.EncodeBytes(v.extra)
	return nil
}

func (v Enum) String() string {
	return v.c.names[v.V]
}

// titleCase is used by enumerations whose producers vary the case of names.
// A Caser is stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

var (
	aminoAcidTerminiCodecI xCodec = newEnum("CDXAminoAcidTermini", 1,
		enumEntry{1, "HOH"}, enumEntry{2, "NH2COOH"}).
		alias("H/OH", 1)

	autonumberStyleCodecI xCodec = newEnum("CDXAutonumberStyle", 1,
		seq("Roman", "Arabic", "Alphabetic")...)

	doubleBondPositionCodecI xCodec = newEnum("CDXDoubleBondPosition", 2,
		enumEntry{0, "Center"}, enumEntry{1, "Right"}, enumEntry{2, "Left"},
		enumEntry{256, "Center"}, enumEntry{257, "Right"}, enumEntry{258, "Left"})

	bondDisplayCodecI xCodec = newEnum("CDXBondDisplay", 2,
		seq("Solid", "Dash", "Hash", "WedgedHashBegin", "WedgedHashEnd", "Bold",
			"WedgeBegin", "WedgeEnd", "Wavy", "HollowWedgeBegin", "HollowWedgeEnd",
			"WavyWedgeBegin", "WavyWedgeEnd", "Dot", "DashDot")...)

	atomStereoCodecI xCodec = newEnum("CDXAtomStereo", 1,
		seq("U", "N", "R", "S", "r", "s", "u")...)

	bondStereoCodecI xCodec = newEnum("CDXBondStereo", 1,
		seq("U", "N", "E", "Z")...)

	// Documented as one byte; ChemDraw writes two, and the second is kept as is
	bracketUsageCodecI xCodec = newEnum("CDXBracketUsage", 1,
		seq("Unspecified", "Unused1", "Unused2", "SRU", "Monomer", "Mer", "Copolymer",
			"CopolymerAlternating", "CopolymerRandom", "CopolymerBlock", "Crosslink",
			"Graft", "Modification", "Component", "MixtureUnordered", "MixtureOrdered",
			"MultipleGroup", "Generic", "Anypolymer")...).
		withExtra()

	bracketTypeCodecI xCodec = newEnum("CDXBracketType", 2,
		seq("RoundPair", "SquarePair", "CurlyPair", "Square", "Curly", "Round")...)

	graphicTypeCodecI xCodec = newEnum("CDXGraphicType", 2,
		seq("Undefined", "Line", "Arc", "Rectangle", "Oval", "Orbital", "Bracket", "Symbol")...)

	arrowHeadTypeCodecI xCodec = newEnum("CDXArrowHeadType", 2,
		seq("Unspecified", "Solid", "Hollow", "Angle")...)

	arrowHeadPositionCodecI xCodec = newEnum("CDXArrowHeadPosition", 2,
		seq("Unspecified", "None", "Full", "HalfLeft", "HalfRight")...)

	justificationCodecI xCodec = newEnum("CDXJustification", 1,
		enumEntry{-1, "Right"}, enumEntry{0, "Left"}, enumEntry{1, "Center"},
		enumEntry{2, "Full"}, enumEntry{3, "Above"}, enumEntry{4, "Below"},
		enumEntry{5, "Auto"}, enumEntry{6, "Best"})

	labelAlignmentCodecI xCodec = newEnum("CDXLabelAlignment", 1,
		seq("Auto", "Left", "Center", "Right", "Above", "Below", "Best")...)

	atomGeometryCodecI xCodec = newEnum("CDXAtomGeometry", 1,
		seq("Unknown", "1", "Linear", "Bent", "TrigonalPlanar", "TrigonalPyramidal",
			"SquarePlanar", "Tetrahedral", "TrigonalBipyramidal", "SquarePyramidal",
			"5", "Octahedral", "6", "7", "8", "9", "10")...)

	nodeTypeCodecI xCodec = newEnum("CDXNodeType", 2,
		seq("Unspecified", "Element", "ElementList", "ElementListNickname", "Nickname",
			"Fragment", "Formula", "GenericNickname", "AnonymousAlternativeGroup",
			"NamedAlternativeGroup", "MultiAttachment", "VariableAttachment",
			"ExternalConnectionPoint", "LinkNode", "Monomer")...)

	symbolTypeCodecI xCodec = newEnum("CDXSymbolType", 2,
		append(seq("LonePair", "Electron", "RadicalCation", "RadicalAnion", "CirclePlus",
			"CircleMinus", "Dagger", "DoubleDagger", "Plus", "Minus", "Racemic",
			"Absolute", "Relative"), enumEntry{13, "LonePair"})...)

	tagTypeCodecI xCodec = newEnum("CDXTagType", 2,
		seq("Unknown", "Double", "Long", "String")...)

	positioningTypeCodecI xCodec = newEnum("CDXPositioningType", 1,
		seq("auto", "angle", "offset", "absolute")...)

	orbitalTypeCodecI xCodec = newEnum("CDXOrbitalType", 2,
		append(append(seq("s", "oval", "lobe", "p", "hybridPlus", "hybridMinus",
			"dz2Plus", "dz2Minus", "dxy"),
			enumEntry{256, "sShaded"}, enumEntry{257, "ovalShaded"},
			enumEntry{258, "lobeShaded"}, enumEntry{259, "pShaded"}),
			enumEntry{512, "sFilled"}, enumEntry{513, "ovalFilled"},
			enumEntry{514, "lobeFilled"}, enumEntry{515, "pFilled"},
			enumEntry{516, "hybridPlusFilled"}, enumEntry{517, "hybridMinusFilled"},
			enumEntry{518, "dz2PlusFilled"}, enumEntry{519, "dz2MinusFilled"},
			enumEntry{520, "dxyFilled"})...)

	polymerRepeatPatternCodecI xCodec = newEnum("CDXPolymerRepeatPattern", 1,
		seq("HeadToTail", "HeadToHead", "EitherUnknown")...)

	polymerFlipTypeCodecI xCodec = newEnum("CDXPolymerFlipType", 1,
		seq("Unspecified", "NoFlip", "Flip")...)

	constraintTypeCodecI xCodec = newEnum("CDXConstraintType", 1,
		seq("Undefined", "Distance", "Angle", "ExclusionSphere")...)

	labelDisplayCodecI xCodec = newEnum("CDXLabelDisplay", 1,
		seq("Auto", "Left", "Center", "Right", "Above", "Below", "BestInitial")...)

	externalConnectionTypeCodecI xCodec = newEnum("CDXExternalConnectionType", 2,
		seq("Unspecified", "Diamond", "Star", "PolymerBead", "Wavy", "Residue",
			"Peptide", "DNA", "RNA", "Terminus", "Sulfide", "Nucleotide",
			"UnlinkedBranch")...).
		accepting(1)

	rxnParticipationCodecI xCodec = newEnum("CDXRxnParticipation", 1,
		seq("Unspecified", "ReactionCenter", "MakeOrBreak", "ChangeType",
			"MakeAndChange", "NotReactionCenter", "NoChange", "Unmapped")...)

	atomRadicalCodecI xCodec = newEnum("CDXAtomRadical", 1,
		seq("None", "Singlet", "Doublet", "Triplet")...)

	bioShapeTypeCodecI xCodec = newEnum("CDXBioShapeType", 2,
		seq("Undefined", "1SubstrateEnzyme", "2SubstrateEnzyme", "Receptor",
			"GProteinAlpha", "GProteinBeta", "GProteinGamma", "Immunoglobin",
			"IonChannel", "EndoplasmicReticulum", "Golgi", "MembraneLine",
			"MembraneArc", "MembraneEllipse", "MembraneMicelle", "DNA", "HelixProtein",
			"Mitochondrion", "Cloud", "tRNA", "RibosomeA", "RibosomeB")...).
		accepting(1)

	enhancedStereoTypeCodecI xCodec = newEnum("CDXEnhancedStereoType", 1,
		seq("Unspecified", "None", "Absolute", "Or", "And")...)

	drawingSpaceCodecI xCodec = newEnum("CDXDrawingSpace", 1,
		seq("pages", "poster")...)

	connectivityCodecI xCodec = newEnum("CDXConnectivity", 2,
		seq("Unspecified", "Linear", "Bridged", "Staggered", "Cyclic")...)

	sequenceTypeCodecI xCodec = newEnum("CDXSequenceType", 2,
		seq("Unknown", "Peptide", "Peptide1", "Peptide3", "DNA", "RNA", "Biopolymer")...)

	sideTypeCodecI xCodec = newEnum("CDXSideType", 2,
		seq("Undefined", "Top", "Left", "Bottom", "Right")...).
		normalising(titleCase)
)
