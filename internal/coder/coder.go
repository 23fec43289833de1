// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package coder implements the CDX property value codecs: one Codec per registry
// type name, plus the little-endian Encoder and Decoder they work through.
package coder

import cdxinterfaces "go.e43.eu/cdx/interfaces"

type xCodec = cdxinterfaces.Codec

// codecs maps registry type names to their codec. It is never modified.
var codecs = map[string]xCodec{
	"INT8":    int8CodecI,
	"UINT8":   uint8CodecI,
	"INT16":   int16CodecI,
	"UINT16":  uint16CodecI,
	"INT32":   int32CodecI,
	"UINT32":  uint32CodecI,
	"FLOAT64": float64CodecI,

	"Unformatted":   unformattedCodecI,
	"CDXCompressed": compressedCodecI,
	// Until the TagType is known; see ValueCodec
	"CDXValue": unformattedCodecI,

	"CDXBoolean":        boolCodecI,
	"CDXBooleanImplied": impliedBoolCodecI,

	"CDXCoordinate":    coordinateCodecI,
	"CDXPoint2D":       point2DCodecI,
	"CDXPoint3D":       point3DCodecI,
	"CDXRectangle":     rectangleCodecI,
	"CDXCurvePoints":   curvePointsCodecI,
	"CDXCurvePoints3D": curvePoints3DCodecI,

	"CDXBondSpacing":      bondSpacingCodecI,
	"CDXLineHeight":       lineHeightCodecI,
	"CDXAngularSize":      angularSizeCodecI,
	"CDXPositioningAngle": fixedAngleCodecI,

	"CDXObjectIDArray":           objectIDArrayCodecI,
	"CDXObjectIDArrayWithCounts": objectIDArrayWithCountsCodecI,
	"INT16ListWithCounts":        int16ListCodecI,
	"CDXRepresents":              representsCodecI,

	"CDXFontStyle":  fontStyleCodecI,
	"CDXString":     stringCodecI,
	"CDXUTF8String": utf8StringCodecI,
	"CDXFontTable":  fontTableCodecI,
	"CDXColorTable": colorTableCodecI,

	"CDXArrowType":     arrowTypeCodecI,
	"CDXFillType":      fillTypeCodecI,
	"CDXOvalType":      ovalTypeCodecI,
	"CDXRectangleType": rectangleTypeCodecI,
	"CDXLineType":      lineTypeCodecI,
	"CDXBondOrder":     bondOrderCodecI,

	"CDXAminoAcidTermini":       aminoAcidTerminiCodecI,
	"CDXAutonumberStyle":        autonumberStyleCodecI,
	"CDXDoubleBondPosition":     doubleBondPositionCodecI,
	"CDXBondDisplay":            bondDisplayCodecI,
	"CDXAtomStereo":             atomStereoCodecI,
	"CDXBondStereo":             bondStereoCodecI,
	"CDXBracketUsage":           bracketUsageCodecI,
	"CDXBracketType":            bracketTypeCodecI,
	"CDXGraphicType":            graphicTypeCodecI,
	"CDXArrowHeadType":          arrowHeadTypeCodecI,
	"CDXArrowHeadPosition":      arrowHeadPositionCodecI,
	"CDXJustification":          justificationCodecI,
	"CDXLabelAlignment":         labelAlignmentCodecI,
	"CDXAtomGeometry":           atomGeometryCodecI,
	"CDXNodeType":               nodeTypeCodecI,
	"CDXSymbolType":             symbolTypeCodecI,
	"CDXTagType":                tagTypeCodecI,
	"CDXPositioningType":        positioningTypeCodecI,
	"CDXOrbitalType":            orbitalTypeCodecI,
	"CDXPolymerRepeatPattern":   polymerRepeatPatternCodecI,
	"CDXPolymerFlipType":        polymerFlipTypeCodecI,
	"CDXConstraintType":         constraintTypeCodecI,
	"CDXLabelDisplay":           labelDisplayCodecI,
	"CDXExternalConnectionType": externalConnectionTypeCodecI,
	"CDXRxnParticipation":       rxnParticipationCodecI,
	"CDXAtomRadical":            atomRadicalCodecI,
	"CDXBioShapeType":           bioShapeTypeCodecI,
	"CDXEnhancedStereoType":     enhancedStereoTypeCodecI,
	"CDXDrawingSpace":           drawingSpaceCodecI,
	"CDXConnectivity":           connectivityCodecI,
	"CDXSequenceType":           sequenceTypeCodecI,
	"CDXSideType":               sideTypeCodecI,
}

// Lookup returns the codec for a registry type name
func Lookup(typeName string) (cdxinterfaces.Codec, bool) {
	c, ok := codecs[typeName]
	return c, ok
}

// TypeNames returns the names of all codecs, in no particular order
func TypeNames() []string {
	names := make([]string, 0, len(codecs))
	for n := range codecs {
		names = append(names, n)
	}
	return names
}
