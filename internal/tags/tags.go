// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package tags holds the CDX tag registry: the object and property tag tables and
// the charset table used by styled strings.
//
// The tables are loaded once from embedded YAML when the package is initialised and
// are never modified afterwards, so they may be read from any goroutine.
package tags

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Terminator closes the property list of an object (and, repeated, its ancestors)
const Terminator uint16 = 0

// DocumentTag is the object tag of the document (root) object
const DocumentTag uint16 = 0x8000

// IsObject reports whether tag starts an object. Object tags have the most
// significant bit set; property tags have it clear.
func IsObject(tag uint16) bool {
	return tag&0x8000 != 0
}

// Object is an object tag registry entry
type Object struct {
	Tag  uint16 `yaml:"tag"`
	Name string `yaml:"name"`
	// Element is the CDXML element name
	Element string `yaml:"element"`
}

// Property is a property tag registry entry
type Property struct {
	Tag uint16 `yaml:"tag"`
	// Name is the CDXML attribute name
	Name string `yaml:"name"`
	// Type is the value codec name (see coder.Lookup)
	Type string `yaml:"type"`
}

type Charset struct {
	ID   uint16 `yaml:"id"`
	Name string `yaml:"name"`
}

var (
	//go:embed objects.yaml
	objectsYAML []byte
	//go:embed properties.yaml
	propertiesYAML []byte
	//go:embed charsets.yaml
	charsetsYAML []byte
)

type registry struct {
	objects          map[uint16]Object
	objectsByName    map[string]Object
	properties       map[uint16]Property
	propertiesByName map[string]Property
	charsets         map[uint16]Charset
	charsetsByName   map[string]Charset
}

var reg = mustLoad()

func mustLoad() *registry {
	r, err := load(objectsYAML, propertiesYAML, charsetsYAML)
	if err != nil {
		panic(err)
	}
	return r
}

func load(objects, properties, charsets []byte) (*registry, error) {
	var (
		os []Object
		ps []Property
		cs []Charset
	)
	if err := yaml.Unmarshal(objects, &os); err != nil {
		return nil, fmt.Errorf("tags: parsing object table: %w", err)
	}
	if err := yaml.Unmarshal(properties, &ps); err != nil {
		return nil, fmt.Errorf("tags: parsing property table: %w", err)
	}
	if err := yaml.Unmarshal(charsets, &cs); err != nil {
		return nil, fmt.Errorf("tags: parsing charset table: %w", err)
	}

	r := &registry{
		objects:          make(map[uint16]Object, len(os)),
		objectsByName:    make(map[string]Object, len(os)),
		properties:       make(map[uint16]Property, len(ps)),
		propertiesByName: make(map[string]Property, len(ps)),
		charsets:         make(map[uint16]Charset, len(cs)),
		charsetsByName:   make(map[string]Charset, len(cs)),
	}

	for _, o := range os {
		if !IsObject(o.Tag) {
			return nil, fmt.Errorf("tags: object %s has property tag 0x%04x", o.Name, o.Tag)
		}
		if _, ok := r.objects[o.Tag]; ok {
			return nil, fmt.Errorf("tags: duplicate object tag 0x%04x", o.Tag)
		}
		if _, ok := r.objectsByName[o.Element]; ok {
			return nil, fmt.Errorf("tags: duplicate object element %s", o.Element)
		}
		r.objects[o.Tag] = o
		r.objectsByName[o.Element] = o
	}

	for _, p := range ps {
		if IsObject(p.Tag) || p.Tag == Terminator {
			return nil, fmt.Errorf("tags: property %s has invalid tag 0x%04x", p.Name, p.Tag)
		}
		if _, ok := r.properties[p.Tag]; ok {
			return nil, fmt.Errorf("tags: duplicate property tag 0x%04x", p.Tag)
		}
		if _, ok := r.propertiesByName[p.Name]; ok {
			return nil, fmt.Errorf("tags: duplicate property name %s", p.Name)
		}
		r.properties[p.Tag] = p
		r.propertiesByName[p.Name] = p
	}

	for _, c := range cs {
		if _, ok := r.charsets[c.ID]; ok {
			return nil, fmt.Errorf("tags: duplicate charset id %d", c.ID)
		}
		r.charsets[c.ID] = c
		if _, ok := r.charsetsByName[c.Name]; !ok {
			r.charsetsByName[c.Name] = c
		}
	}

	return r, nil
}

// ObjectByTag looks up an object by its tag id
func ObjectByTag(tag uint16) (Object, bool) {
	o, ok := reg.objects[tag]
	return o, ok
}

// ObjectByElement looks up an object by its CDXML element name
func ObjectByElement(name string) (Object, bool) {
	o, ok := reg.objectsByName[name]
	return o, ok
}

// PropertyByTag looks up a property by its tag id
func PropertyByTag(tag uint16) (Property, bool) {
	p, ok := reg.properties[tag]
	return p, ok
}

// PropertyByName looks up a property by its CDXML attribute name
func PropertyByName(name string) (Property, bool) {
	p, ok := reg.propertiesByName[name]
	return p, ok
}

// CharsetByID maps a font table charset id to its CDXML name
func CharsetByID(id uint16) (Charset, bool) {
	c, ok := reg.charsets[id]
	return c, ok
}

// CharsetByName maps a CDXML charset name to its font table id
func CharsetByName(name string) (Charset, bool) {
	c, ok := reg.charsetsByName[name]
	return c, ok
}

// Objects returns every registered object, in no particular order
func Objects() []Object {
	os := make([]Object, 0, len(reg.objects))
	for _, o := range reg.objects {
		os = append(os, o)
	}
	return os
}

// Properties returns every registered property, in no particular order
func Properties() []Property {
	ps := make([]Property, 0, len(reg.properties))
	for _, p := range reg.properties {
		ps = append(ps, p)
	}
	return ps
}
