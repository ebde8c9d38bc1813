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

package quantity

import (
	"fmt"
	"sync"

	"github.com/climact/climate-action-tool/pkg/dimension"
	"github.com/climact/climate-action-tool/pkg/units"
)

// GenericType is the serialization tag of quantities without a registered dimension.
const GenericType = "Quantity"

// Space binds quantities to a dimension registry and its unit system.
// It holds no mutable state.
type Space struct {
	reg *dimension.Registry
}

// NewSpace returns a Space over reg.
func NewSpace(reg *dimension.Registry) *Space {
	return &Space{reg: reg}
}

var (
	defaultOnce  sync.Once
	defaultSpace *Space
)

// Default returns the Space over dimension.Default().
func Default() *Space {
	defaultOnce.Do(func() { defaultSpace = NewSpace(dimension.Default()) })
	return defaultSpace
}

// Registry returns the dimension registry.
func (s *Space) Registry() *dimension.Registry { return s.reg }

// System returns the unit system.
func (s *Space) System() *units.System { return s.reg.System() }

// New builds a quantity of the dimension registered under key. An empty unit
// selects the dimension's canonical unit.
func (s *Space) New(key string, m Magnitude, unit string) (Quantity, error) {
	d, err := s.reg.Get(key)
	if err != nil {
		return Quantity{}, err
	}
	return s.Of(d, m, unit)
}

// Of builds a quantity of dimension d, which must belong to the registry.
// A nil d builds a generic quantity.
func (s *Space) Of(d *dimension.Dimension, m Magnitude, unit string) (Quantity, error) {
	if d == nil {
		return s.Generic(m, unit)
	}
	registered, err := s.reg.Get(d.Key())
	if err != nil {
		return Quantity{}, err
	}
	if unit == "" {
		unit = registered.Canonical()
	}
	u, err := s.System().Parse(unit)
	if err != nil {
		return Quantity{}, err
	}
	if !u.Compatible(registered.CanonicalUnit()) {
		return Quantity{}, &units.IncompatibleUnitError{
			From: unit, To: registered.Canonical(),
			FromDim: u.Dimensionality(), ToDim: registered.Dimensionality(),
		}
	}
	return Quantity{space: s, dim: registered, mag: m, unit: u}, nil
}

// Generic builds an untyped quantity.
func (s *Space) Generic(m Magnitude, unit string) (Quantity, error) {
	u, err := s.System().Parse(unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{space: s, mag: m, unit: u}, nil
}

// Infer builds a quantity typed by the owner of the unit's dimensionality,
// or a generic quantity when no dimension owns it.
func (s *Space) Infer(m Magnitude, unit string) (Quantity, error) {
	u, err := s.System().Parse(unit)
	if err != nil {
		return Quantity{}, err
	}
	return s.dispatch(m, u), nil
}

func (s *Space) dispatch(m Magnitude, u units.Unit) Quantity {
	d, _ := s.reg.Lookup(u.Dimensionality())
	return Quantity{space: s, dim: d, mag: m, unit: u}
}

// Quantity is an immutable magnitude with a unit, typed by a Dimension.
// A nil Dimension denotes the generic type.
type Quantity struct {
	space *Space
	dim   *dimension.Dimension
	mag   Magnitude
	unit  units.Unit
}

func (q Quantity) sp() *Space {
	if q.space == nil {
		return Default()
	}
	return q.space
}

// Dimension returns the quantity's dimension, or nil for generic quantities.
func (q Quantity) Dimension() *dimension.Dimension { return q.dim }

// TypeName returns the serialization tag.
func (q Quantity) TypeName() string {
	if q.dim == nil {
		return GenericType
	}
	return q.dim.Name()
}

// Magnitude returns the raw magnitude in the quantity's unit.
func (q Quantity) Magnitude() Magnitude { return q.mag }

// Value returns the scalar magnitude (first element for arrays).
func (q Quantity) Value() float64 { return q.mag.Float() }

// Units returns the unit expression.
func (q Quantity) Units() string { return q.unit.String() }

// Unit returns the parsed unit.
func (q Quantity) Unit() units.Unit { return q.unit }

// Dimensionality returns the unit's dimensionality.
func (q Quantity) Dimensionality() units.Dimensionality { return q.unit.Dimensionality() }

func (q Quantity) String() string {
	if u := q.Units(); u != "" {
		return q.mag.String() + " " + u
	}
	return q.mag.String()
}

// WithMagnitude returns a copy with the magnitude replaced, keeping unit and type.
func (q Quantity) WithMagnitude(m Magnitude) Quantity {
	q.mag = m
	return q
}

// Convert expresses q in another unit of the same dimensionality. The type is kept.
func (q Quantity) Convert(to string) (Quantity, error) {
	u, err := q.sp().System().Parse(to)
	if err != nil {
		return Quantity{}, err
	}
	m, err := convertMagnitude(q.mag, q.unit, u)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{space: q.space, dim: q.dim, mag: m, unit: u}, nil
}

// Canonical converts q to its dimension's canonical unit. Generic quantities are returned unchanged.
func (q Quantity) Canonical() (Quantity, error) {
	if q.dim == nil {
		return q, nil
	}
	return q.Convert(q.dim.Canonical())
}

func convertMagnitude(m Magnitude, from, to units.Unit) (Magnitude, error) {
	if !from.Compatible(to) {
		return Magnitude{}, &units.IncompatibleUnitError{
			From: from.String(), To: to.String(),
			FromDim: from.Dimensionality(), ToDim: to.Dimensionality(),
		}
	}
	// to.FromBase(from.ToBase(v)) folded into one affine map
	scale := from.Factor() / to.Factor()
	shift := (from.Offset() - to.Offset()) / to.Factor()
	return m.affine(scale, shift), nil
}

// Base returns the magnitude in SI base units.
func (q Quantity) Base() Magnitude {
	return q.mag.affine(q.unit.Factor(), q.unit.Offset())
}

// Describe is a one-line summary for logs and CLI output.
func (q Quantity) Describe() string {
	return fmt.Sprintf("%s(%s)", q.TypeName(), q.String())
}
