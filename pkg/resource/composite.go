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
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/climact/climate-action-tool/pkg/parameter"
	"github.com/climact/climate-action-tool/pkg/profile"
	"github.com/climact/climate-action-tool/pkg/quantity"
)

const (
	unitsSuffix   = "_units"
	profileSuffix = "_profile"

	// ValueKey and UnitsKey alias the primary field's magnitude and unit.
	ValueKey = "value"
	UnitsKey = "units"
	// TypeKey carries the composite type name in serialized form.
	TypeKey = "type"
	// ProfileKey carries a field's profile reference inside its nested record.
	ProfileKey = "profile"
)

// Kwargs are construction keywords: "{field}" for a magnitude,
// "{field}_units" for its unit and "{field}_profile" for a profile reference.
type Kwargs map[string]any

// Composite is an instance of a Schema.
type Composite struct {
	schema  *Schema
	space   *quantity.Space
	primary quantity.Quantity
	values  map[string]quantity.Quantity
	params  map[string]*parameter.Parameter
}

type fieldArgs struct {
	value   any
	units   string
	profile any
}

// New builds a composite of typeName. Omitted secondaries take their schema
// default in their default unit; unknown keywords fail with UnknownFieldError.
func (c *Catalog) New(typeName string, kw Kwargs) (*Composite, error) {
	s, err := c.Schema(typeName)
	if err != nil {
		return nil, err
	}
	args, err := s.collect(kw)
	if err != nil {
		return nil, err
	}

	comp := &Composite{
		schema: s,
		space:  c.space,
		values: make(map[string]quantity.Quantity, len(s.fields)),
		params: make(map[string]*parameter.Parameter),
	}
	var errs []error
	for _, f := range append([]*Field{s.primary}, s.fields...) {
		q, p, err := c.build(f, args[f.Name()])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", s.Type(), f.Name(), err))
			continue
		}
		if f == s.primary {
			comp.primary = q
		} else {
			comp.values[f.Name()] = q
		}
		if p != nil {
			comp.params[f.Name()] = p
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return comp, nil
}

// collect groups keywords by field, resolving the value/units aliases.
func (s *Schema) collect(kw Kwargs) (map[string]*fieldArgs, error) {
	args := make(map[string]*fieldArgs, len(kw))
	get := func(name string) *fieldArgs {
		a, ok := args[name]
		if !ok {
			a = &fieldArgs{}
			args[name] = a
		}
		return a
	}

	keys := make([]string, 0, len(kw))
	for k := range kw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	primary := s.primary.Name()
	var errs []error
	for _, k := range keys {
		v := kw[k]
		switch {
		case k == ValueKey:
			if _, dup := kw[primary]; dup {
				errs = append(errs, fmt.Errorf("%s: both %q and %q given", s.Type(), ValueKey, primary))
				continue
			}
			get(primary).value = v
		case k == UnitsKey:
			if _, dup := kw[primary+unitsSuffix]; dup {
				errs = append(errs, fmt.Errorf("%s: both %q and %q given", s.Type(), UnitsKey, primary+unitsSuffix))
				continue
			}
			u, err := unitString(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", s.Type(), k, err))
				continue
			}
			get(primary).units = u
		default:
			name, suffix := splitKey(k)
			if _, ok := s.byName[name]; !ok {
				errs = append(errs, &UnknownFieldError{Type: s.Type(), Field: k})
				continue
			}
			switch suffix {
			case unitsSuffix:
				u, err := unitString(v)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s.%s: %w", s.Type(), k, err))
					continue
				}
				get(name).units = u
			case profileSuffix:
				get(name).profile = v
			default:
				get(name).value = v
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return args, nil
}

// splitKey separates a "_units" or "_profile" suffix from a field name.
func splitKey(k string) (string, string) {
	for _, suffix := range []string{unitsSuffix, profileSuffix} {
		if name, ok := strings.CutSuffix(k, suffix); ok && name != "" {
			return name, suffix
		}
	}
	return k, ""
}

func unitString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("units must be a string, got %T", v)
	}
}

func (c *Catalog) build(f *Field, a *fieldArgs) (quantity.Quantity, *parameter.Parameter, error) {
	if a == nil {
		a = &fieldArgs{}
	}
	m := quantity.Scalar(f.Default())
	if a.value != nil {
		var err error
		if m, err = quantity.MagnitudeOf(a.value); err != nil {
			return quantity.Quantity{}, nil, err
		}
	}
	q, err := f.Quantity(c.space, m, a.units)
	if err != nil {
		return quantity.Quantity{}, nil, err
	}
	if a.profile == nil {
		return q, nil, nil
	}

	ref, err := profileRef(a.profile)
	if err != nil {
		return quantity.Quantity{}, nil, err
	}
	if ref.Units == "" {
		ref.Units = q.Units()
	}
	p := f.Parameter().Offering(q.Units())
	if err := p.SetProfile(ref); err != nil {
		return quantity.Quantity{}, nil, err
	}
	// the profile is evaluated in its own unit, which must fit the field
	if _, err := f.Quantity(c.space, quantity.Scalar(0), ref.Units); err != nil {
		return quantity.Quantity{}, nil, fmt.Errorf("profile: %w", err)
	}
	return q, p, nil
}

func profileRef(v any) (profile.Ref, error) {
	switch x := v.(type) {
	case profile.Ref:
		return x, nil
	case *profile.Ref:
		return *x, nil
	case map[string]any:
		if _, nested := x[ProfileKey]; nested {
			return profile.RefFromMap(x)
		}
		// a bare profile
		p, err := profile.FromMap(x)
		if err != nil {
			return profile.Ref{}, err
		}
		return profile.NewRef(p, "", ""), nil
	case profile.Profile:
		return profile.NewRef(x, "", ""), nil
	default:
		return profile.Ref{}, fmt.Errorf("%w: unsupported profile value %T", profile.ErrInvalidProfile, v)
	}
}

// Schema returns the composite's type description.
func (c *Composite) Schema() *Schema { return c.schema }

// Type returns the composite type name.
func (c *Composite) Type() string { return c.schema.Type() }

// Primary returns the principal quantity.
func (c *Composite) Primary() quantity.Quantity { return c.primary }

// Field returns a field's static quantity, the primary included.
func (c *Composite) Field(name string) (quantity.Quantity, bool) {
	if name == c.schema.primary.Name() {
		return c.primary, true
	}
	q, ok := c.values[name]
	return q, ok
}

// Parameter returns the parameter carrying a field's profile, if one was given.
func (c *Composite) Parameter(name string) (*parameter.Parameter, bool) {
	p, ok := c.params[name]
	return p, ok
}

// Profiled returns the names of fields with a profile, in schema order.
func (c *Composite) Profiled() []string {
	var out []string
	for _, f := range append([]*Field{c.schema.primary}, c.schema.fields...) {
		if _, ok := c.params[f.Name()]; ok {
			out = append(out, f.Name())
		}
	}
	return out
}

// ValueAt evaluates a field at model time t: its profile when one is set,
// otherwise its static quantity.
func (c *Composite) ValueAt(name string, t float64) (quantity.Quantity, error) {
	q, ok := c.Field(name)
	if !ok {
		return quantity.Quantity{}, &UnknownFieldError{Type: c.Type(), Field: name}
	}
	p, ok := c.params[name]
	if !ok {
		return q, nil
	}
	f, _ := c.schema.Field(name)
	return f.Quantity(c.space, quantity.Scalar(p.ValueAt(t)), p.Profile().Units)
}

// Kwargs returns construction keywords that rebuild c.
func (c *Composite) Kwargs() Kwargs {
	kw := Kwargs{
		c.schema.primary.Name():              c.primary.Magnitude(),
		c.schema.primary.Name() + unitsSuffix: c.primary.Units(),
	}
	for name, q := range c.values {
		kw[name] = q.Magnitude()
		kw[name+unitsSuffix] = q.Units()
	}
	for name, p := range c.params {
		kw[name+profileSuffix] = p.Profile()
	}
	return kw
}

// ToMap returns {"type", "value", "units", <field>: quantity record [+ "profile"]}.
func (c *Composite) ToMap() map[string]any {
	pm := c.primary.ToMap()
	out := map[string]any{
		TypeKey:  c.Type(),
		ValueKey: pm[ValueKey],
		UnitsKey: pm[UnitsKey],
	}
	if p, ok := c.params[c.schema.primary.Name()]; ok {
		out[ProfileKey] = p.Profile().ToMap()
	}
	for _, f := range c.schema.fields {
		m := c.values[f.Name()].ToMap()
		if p, ok := c.params[f.Name()]; ok {
			m[ProfileKey] = p.Profile().ToMap()
		}
		out[f.Name()] = m
	}
	return out
}

// MarshalJSON encodes the map form.
func (c *Composite) MarshalJSON() ([]byte, error) { return json.Marshal(c.ToMap()) }

// Equal reports whether both composites have the same type and every field
// carries the same value, unit and profile.
func (c *Composite) Equal(o *Composite) bool {
	if c.Type() != o.Type() || !sameQuantity(c.primary, o.primary) {
		return false
	}
	for name, q := range c.values {
		if !sameQuantity(q, o.values[name]) {
			return false
		}
	}
	if len(c.params) != len(o.params) {
		return false
	}
	for name, p := range c.params {
		op, ok := o.params[name]
		if !ok || !profileEqual(p.Profile(), op.Profile()) {
			return false
		}
	}
	return true
}

func sameQuantity(a, b quantity.Quantity) bool {
	if a.Units() != b.Units() || a.TypeName() != b.TypeName() {
		return false
	}
	av, bv := a.Magnitude().Values(), b.Magnitude().Values()
	if len(av) != len(bv) || a.Magnitude().IsArray() != b.Magnitude().IsArray() {
		return false
	}
	for i := range av {
		if av[i] != bv[i] {
			return false
		}
	}
	return true
}

func profileEqual(a, b profile.Ref) bool {
	if a.Units != b.Units || a.Description != b.Description {
		return false
	}
	am, err := profile.Marshal(a.Profile)
	if err != nil {
		return false
	}
	bm, err := profile.Marshal(b.Profile)
	if err != nil {
		return false
	}
	return string(am) == string(bm)
}

func (c *Composite) String() string {
	return fmt.Sprintf("%s(%s)", c.Type(), c.primary.String())
}
