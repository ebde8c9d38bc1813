/*
Copyright 2026 The Climate Action Tool Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package dimension defines the catalog of physical quantity kinds.
//
// A Dimension carries a stable key, the type name used as a serialization
// tag, a canonical unit, the ordered list of units offered to users, and
// presentation metadata. Dimensions are collected into a Registry, which also
// answers which Dimension owns a given dimensionality so that arithmetic
// results can be typed.
package dimension

import (
	"strings"
	"unicode"

	"github.com/climact/climate-action-tool/pkg/units"
)

const (
	// DefaultColor is used when a definition leaves Color empty.
	DefaultColor = "#ffffff"
	// DefaultIcon is used when a definition leaves Icon empty.
	DefaultIcon = "mdi.help-circle"
)

// Definition describes a Dimension before registration.
type Definition struct {
	// Key is the stable lookup key, e.g. "mass_flow_rate".
	Key string
	// Name is the serialization tag; defaults to the CamelCase form of Key.
	Name string
	// Label is the display label; defaults to Name split into words.
	Label string
	// Canonical is the default unit expression.
	Canonical string
	// Units is the ordered list of units offered for this dimension.
	// Defaults to the canonical unit alone.
	Units []string
	Color string
	Icon  string
}

// Dimension is an immutable physical quantity kind.
type Dimension struct {
	key       string
	name      string
	label     string
	canonical string
	units     []string
	color     string
	icon      string

	// set on registration
	unit           units.Unit
	dimensionality units.Dimensionality
}

// New builds an unregistered Dimension, filling defaults for empty fields.
func New(def Definition) *Dimension {
	d := &Dimension{
		key:       def.Key,
		name:      def.Name,
		label:     def.Label,
		canonical: def.Canonical,
		units:     append([]string(nil), def.Units...),
		color:     def.Color,
		icon:      def.Icon,
	}
	if d.name == "" {
		d.name = camel(d.key)
	}
	if d.label == "" {
		d.label = words(d.name)
	}
	if len(d.units) == 0 {
		d.units = []string{d.canonical}
	}
	if d.color == "" {
		d.color = DefaultColor
	}
	if d.icon == "" {
		d.icon = DefaultIcon
	}
	return d
}

func (d *Dimension) Key() string       { return d.key }
func (d *Dimension) Name() string      { return d.name }
func (d *Dimension) Label() string     { return d.label }
func (d *Dimension) Canonical() string { return d.canonical }
func (d *Dimension) Color() string     { return d.color }
func (d *Dimension) Icon() string      { return d.icon }

// Units returns a copy of the offered units, canonical-compatible and in display order.
func (d *Dimension) Units() []string { return append([]string(nil), d.units...) }

// CanonicalUnit returns the parsed canonical unit. It is the zero Unit for
// dimensions that have not been registered.
func (d *Dimension) CanonicalUnit() units.Unit { return d.unit }

// Dimensionality returns the canonical unit's signature; empty before registration.
func (d *Dimension) Dimensionality() units.Dimensionality { return d.dimensionality }

func (d *Dimension) String() string { return d.key }

// Cross returns every "n/d" combination of the two unit lists, numerator-major.
// A dimension divided by itself is dimensionless and yields ["-"].
func Cross(num, den *Dimension) []string {
	if num.key == den.key {
		return []string{"-"}
	}
	out := make([]string, 0, len(num.units)*len(den.units))
	for _, n := range num.units {
		for _, d := range den.units {
			out = append(out, n+"/"+d)
		}
	}
	return out
}

func camel(key string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == ' ' }) {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

func words(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
