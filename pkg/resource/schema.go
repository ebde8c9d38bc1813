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

package resource

import (
	"errors"
	"fmt"
	"strings"

	"github.com/climact/climate-action-tool/pkg/dimension"
	"github.com/climact/climate-action-tool/pkg/parameter"
	"github.com/climact/climate-action-tool/pkg/quantity"
	"github.com/climact/climate-action-tool/pkg/units"
)

// CurrencyPlaceholder in a catalog unit expands to the base currency.
const CurrencyPlaceholder = "{currency}"

// FieldSpec is the catalog form of a field. Exactly one of Dimension, Ratio
// and Factor must be set.
type FieldSpec struct {
	Name string `yaml:"name"`
	// Dimension is a registry key.
	Dimension string `yaml:"dimension,omitempty"`
	// Ratio is a [numerator, denominator] pair of registry keys.
	Ratio []string `yaml:"ratio,omitempty"`
	// Factor marks a dimensionless 0-1 value.
	Factor bool `yaml:"factor,omitempty"`
	// Units is the default unit; derived from the dimension or ratio when empty.
	Units string `yaml:"units,omitempty"`
	// Default is the magnitude used when the field is omitted.
	Default float64 `yaml:"default,omitempty"`
	// Alternates are further dimensions accepted for this field, e.g. a mass
	// per modeling period for a mass flow.
	Alternates []string `yaml:"alternates,omitempty"`
	Group      string   `yaml:"group,omitempty"`
	// Variable fields may follow a time-varying profile.
	Variable bool `yaml:"variable,omitempty"`
}

// SchemaSpec is the catalog form of a composite type.
type SchemaSpec struct {
	Type    string      `yaml:"type"`
	Label   string      `yaml:"label,omitempty"`
	Color   string      `yaml:"color,omitempty"`
	Icon    string      `yaml:"icon,omitempty"`
	Primary FieldSpec   `yaml:"primary"`
	Fields  []FieldSpec `yaml:"fields,omitempty"`
}

// Field is a resolved FieldSpec.
type Field struct {
	spec           FieldSpec
	unit           string
	dim            *dimension.Dimension
	dimensionality units.Dimensionality
	alternates     []*dimension.Dimension
	num, den       *dimension.Dimension
}

func (f *Field) Name() string     { return f.spec.Name }
func (f *Field) Group() string    { return f.spec.Group }
func (f *Field) IsVariable() bool { return f.spec.Variable }
func (f *Field) Default() float64 { return f.spec.Default }

// Unit is the default unit expression.
func (f *Field) Unit() string { return f.unit }

// Dimension returns the field's dimension, or nil when no registered
// dimension owns a ratio's dimensionality.
func (f *Field) Dimension() *dimension.Dimension { return f.dim }

// Alternates returns the additional accepted dimensions.
func (f *Field) Alternates() []*dimension.Dimension {
	return append([]*dimension.Dimension(nil), f.alternates...)
}

// Spec returns the catalog form.
func (f *Field) Spec() FieldSpec { return f.spec }

// Parameter returns a fresh parameter describing the field's offered units.
// The field's default unit is always offered.
func (f *Field) Parameter() *parameter.Parameter {
	opts := []parameter.Option{parameter.WithLabel(f.spec.Name), parameter.Variable(f.spec.Variable)}
	var p *parameter.Parameter
	switch {
	case f.spec.Factor:
		p = parameter.NewFactor(f.spec.Name, opts...)
	case f.num != nil:
		p = parameter.NewRatio(f.num, f.den, opts...)
	case f.dim != nil && f.dim.Key() == dimension.Temperature && f.spec.Variable:
		p = parameter.Temperature()
	case f.dim != nil && f.dim.Key() == dimension.Pressure && f.spec.Variable:
		p = parameter.Pressure()
	case f.spec.Variable:
		p = parameter.NewVariable(f.spec.Name, f.dim.Units(), parameter.WithColor(f.dim.Color()), parameter.WithIcon(f.dim.Icon()))
	default:
		p = parameter.NewFixed(f.spec.Name, f.dim.Units(), parameter.WithColor(f.dim.Color()), parameter.WithIcon(f.dim.Icon()))
	}
	return p.Offering(f.unit)
}

// Quantity builds a value for this field. The unit must match the field's
// dimensionality or one of its alternates; an empty unit selects the default.
func (f *Field) Quantity(space *quantity.Space, m quantity.Magnitude, unit string) (quantity.Quantity, error) {
	if unit == "" {
		unit = f.unit
	}
	if f.dim == nil {
		q, err := space.Generic(m, unit)
		if err != nil {
			return quantity.Quantity{}, err
		}
		if q.Dimensionality() != f.dimensionality {
			return quantity.Quantity{}, &units.IncompatibleUnitError{
				From: unit, To: f.unit, FromDim: q.Dimensionality(), ToDim: f.dimensionality,
			}
		}
		return q, nil
	}
	q, err := space.Of(f.dim, m, unit)
	if err == nil || !errors.Is(err, units.ErrIncompatibleUnits) {
		return q, err
	}
	for _, alt := range f.alternates {
		if aq, altErr := space.Of(alt, m, unit); altErr == nil {
			return aq, nil
		}
	}
	return quantity.Quantity{}, err
}

func resolveField(reg *dimension.Registry, spec FieldSpec) (*Field, error) {
	f := &Field{spec: spec}
	sys := reg.System()
	unit := strings.ReplaceAll(spec.Units, CurrencyPlaceholder, sys.BaseCurrency())

	kinds := 0
	if spec.Dimension != "" {
		kinds++
	}
	if len(spec.Ratio) > 0 {
		kinds++
	}
	if spec.Factor {
		kinds++
	}
	if kinds != 1 {
		return nil, fmt.Errorf("%w: field %q needs exactly one of dimension, ratio or factor", ErrInvalidSchema, spec.Name)
	}

	switch {
	case spec.Dimension != "":
		d, err := reg.Get(spec.Dimension)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", spec.Name, err)
		}
		f.dim = d
		if unit == "" {
			unit = d.Canonical()
		}
		for _, key := range spec.Alternates {
			alt, err := reg.Get(key)
			if err != nil {
				return nil, fmt.Errorf("field %q alternate: %w", spec.Name, err)
			}
			f.alternates = append(f.alternates, alt)
		}
	case len(spec.Ratio) > 0:
		if len(spec.Ratio) != 2 {
			return nil, fmt.Errorf("%w: field %q ratio needs two dimensions, got %d", ErrInvalidSchema, spec.Name, len(spec.Ratio))
		}
		num, err := reg.Get(spec.Ratio[0])
		if err != nil {
			return nil, fmt.Errorf("field %q numerator: %w", spec.Name, err)
		}
		den, err := reg.Get(spec.Ratio[1])
		if err != nil {
			return nil, fmt.Errorf("field %q denominator: %w", spec.Name, err)
		}
		f.num, f.den = num, den
		if unit == "" {
			unit = num.Canonical() + "/" + den.Canonical()
			if num.Key() == den.Key() {
				unit = units.Dimensionless
			}
		}
	default:
		if unit == "" {
			unit = units.Dimensionless
		}
	}
	if len(spec.Alternates) > 0 && spec.Dimension == "" {
		return nil, fmt.Errorf("%w: field %q: alternates need a dimension", ErrInvalidSchema, spec.Name)
	}

	u, err := sys.Parse(unit)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", spec.Name, err)
	}
	f.unit = unit
	f.dimensionality = u.Dimensionality()

	var want units.Dimensionality
	switch {
	case f.dim != nil:
		want = f.dim.Dimensionality()
	case f.num != nil:
		want = f.num.CanonicalUnit().Div(f.den.CanonicalUnit()).Dimensionality()
	default:
		want = units.Dimensionless
	}
	if f.dimensionality != want {
		return nil, fmt.Errorf("field %q: %w", spec.Name, &units.IncompatibleUnitError{
			From: unit, To: string(want), FromDim: f.dimensionality, ToDim: want,
		})
	}
	if f.dim == nil {
		f.dim, _ = reg.Lookup(f.dimensionality)
	}
	return f, nil
}

// Schema is a resolved composite type: a primary field and ordered secondaries.
type Schema struct {
	spec    SchemaSpec
	primary *Field
	fields  []*Field
	byName  map[string]*Field
}

func (s *Schema) Type() string    { return s.spec.Type }
func (s *Schema) Label() string   { return s.spec.Label }
func (s *Schema) Color() string   { return s.spec.Color }
func (s *Schema) Icon() string    { return s.spec.Icon }
func (s *Schema) Primary() *Field { return s.primary }

// Fields returns the secondary fields in catalog order.
func (s *Schema) Fields() []*Field { return append([]*Field(nil), s.fields...) }

// Field returns a field by name, the primary included.
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Groups returns the secondary field names by group, groups in first-seen order.
func (s *Schema) Groups() ([]string, map[string][]string) {
	var order []string
	out := make(map[string][]string)
	for _, f := range s.fields {
		g := f.Group()
		if _, seen := out[g]; !seen {
			order = append(order, g)
		}
		out[g] = append(out[g], f.Name())
	}
	return order, out
}

func resolveSchema(reg *dimension.Registry, spec SchemaSpec) (*Schema, error) {
	if spec.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidSchema)
	}
	if spec.Label == "" {
		spec.Label = spec.Type
	}
	if spec.Color == "" {
		spec.Color = dimension.DefaultColor
	}
	if spec.Icon == "" {
		spec.Icon = dimension.DefaultIcon
	}
	s := &Schema{spec: spec, byName: make(map[string]*Field, len(spec.Fields)+1)}

	var errs []error
	primary, err := resolveField(reg, spec.Primary)
	if err != nil {
		errs = append(errs, fmt.Errorf("primary: %w", err))
	} else {
		s.primary = primary
		s.byName[primary.Name()] = primary
	}
	for _, fs := range spec.Fields {
		f, err := resolveField(reg, fs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := s.byName[f.Name()]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, f.Name()))
			continue
		}
		if reserved(f.Name()) {
			errs = append(errs, fmt.Errorf("%w: field name %q is reserved", ErrInvalidSchema, f.Name()))
			continue
		}
		s.fields = append(s.fields, f)
		s.byName[f.Name()] = f
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("composite %s: %w", spec.Type, errors.Join(errs...))
	}
	return s, nil
}

func reserved(name string) bool {
	switch name {
	case "type", "value", "units":
		return true
	}
	return false
}
