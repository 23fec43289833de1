// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cdx

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"go.e43.eu/cdx/internal/errors"
)

type xmlReader struct {
	conv *Converter
	log  *slog.Logger
}

type xmlFrame struct {
	el   *Element
	text strings.Builder
}

func (x *xmlReader) read(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *Element
		stack []*xmlFrame
		maxID uint32
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.FormatError{Offset: dec.InputOffset(), Reason: err.Error()}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, errors.FormatError{Offset: dec.InputOffset(), Reason: "content after root element"}
			}

			el := &Element{Tag: t.Name.Local}
			for _, a := range t.Attr {
				// Font ids are part of the font table, not object ids
				if a.Name.Local != "id" || propertyElements[el.Tag] {
					el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
					continue
				}
				id, err := strconv.ParseUint(a.Value, 10, 32)
				if err != nil {
					return nil, errors.WithPropertyError(
						errors.ValueError{Type: "UINT32", Value: a.Value, Underlying: err},
						el.Tag, a.Value, "id")
				}
				el.ID = uint32(id)
				if el.ID > maxID {
					maxID = el.ID
				}
			}

			if root == nil {
				if el.Tag != RootTag {
					return nil, errors.FormatError{
						Offset: dec.InputOffset(),
						Reason: fmt.Sprintf("root element is <%s>, not <%s>", el.Tag, RootTag),
					}
				}
				root = el
			} else {
				stack[len(stack)-1].el.Append(el)
			}
			stack = append(stack, &xmlFrame{el: el})

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}

		case xml.EndElement:
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			text := f.text.String()
			switch {
			case f.el.Tag == spanTag:
				f.el.Text = text
			case len(f.el.Children) == 0 && strings.TrimSpace(text) != "":
				f.el.Text = text
			}
		}
	}

	if root == nil {
		return nil, errors.FormatError{Offset: dec.InputOffset(), Reason: "no root element"}
	}
	if len(stack) != 0 {
		return nil, errors.FormatError{Offset: dec.InputOffset(), Reason: "unterminated element"}
	}

	x.log.Debug("finished reading CDXML document", "maxID", maxID)
	return x.conv.newDocument(root, maxID), nil
}
