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

package units

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/unit"
)

// Dimensionless is the canonical spelling of the empty unit.
const Dimensionless = "dimensionless"

// CurrencyDim is the base dimension of money.
var CurrencyDim = unit.NewDimension("currency")

// Dimensionality is the normalized exponent signature of a unit,
// for example "kg s^-1" or "dimensionless".
type Dimensionality string

// DimensionalityOf formats a gonum dimension vector as a Dimensionality.
// Base symbols are sorted so equal vectors always give equal signatures.
func DimensionalityOf(d unit.Dimensions) Dimensionality {
	type entry struct {
		symbol string
		power  int
	}
	entries := make([]entry, 0, len(d))
	for dim, power := range d {
		if power == 0 {
			continue
		}
		entries = append(entries, entry{symbol: dim.String(), power: power})
	}
	if len(entries) == 0 {
		return Dimensionless
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].symbol < entries[j].symbol })

	parts := make([]string, len(entries))
	for i, e := range entries {
		if e.power == 1 {
			parts[i] = e.symbol
		} else {
			parts[i] = fmt.Sprintf("%s^%d", e.symbol, e.power)
		}
	}
	return Dimensionality(strings.Join(parts, " "))
}

// Unit is a parsed unit expression. The zero value is dimensionless.
// Units are immutable values; Mul, Div and Pow return new units.
type Unit struct {
	expr   string
	prod   product
	base   *unit.Unit // value is the factor to SI base units
	offset float64
}

// String returns the expression the unit was parsed from, or the canonical
// form for derived units.
func (u Unit) String() string { return u.expr }

func (u Unit) product() product {
	if u.prod.scale == 0 {
		return one()
	}
	return u.prod
}

// newCarrier builds a gonum unit that owns its dimension map. gonum stores the
// map it is given and Mul and Div write into it.
func newCarrier(value float64, dims unit.Dimensions) *unit.Unit {
	owned := make(unit.Dimensions, len(dims))
	for d, p := range dims {
		if p != 0 {
			owned[d] = p
		}
	}
	return unit.New(value, owned)
}

// gonum returns a private copy of the SI carrier.
func (u Unit) gonum() *unit.Unit {
	if u.base == nil {
		return newCarrier(1, nil)
	}
	return newCarrier(u.base.Value(), u.base.Dimensions())
}

// Factor is the multiplier from this unit to SI base units.
func (u Unit) Factor() float64 {
	if u.base == nil {
		return 1
	}
	return u.base.Value()
}

// Offset is the additive term applied after scaling (affine temperatures only).
func (u Unit) Offset() float64 { return u.offset }

// HasOffset reports whether the unit is an affine temperature scale.
func (u Unit) HasOffset() bool { return u.offset != 0 }

// Dimensions returns a copy of the unit's dimension vector.
func (u Unit) Dimensions() unit.Dimensions { return u.gonum().Dimensions() }

// Dimensionality returns the unit's normalized exponent signature.
func (u Unit) Dimensionality() Dimensionality { return DimensionalityOf(u.Dimensions()) }

// IsDimensionless reports whether the unit has no dimensions.
func (u Unit) IsDimensionless() bool { return u.Dimensionality() == Dimensionless }

// Compatible reports whether values can be converted between u and o.
func (u Unit) Compatible(o Unit) bool { return u.Dimensionality() == o.Dimensionality() }

// ToBase converts v from u to SI base units.
func (u Unit) ToBase(v float64) float64 { return v*u.Factor() + u.offset }

// FromBase converts v from SI base units to u.
func (u Unit) FromBase(v float64) float64 { return (v - u.offset) / u.Factor() }

// Mul returns the product unit u*o.
func (u Unit) Mul(o Unit) Unit {
	prod := u.product().times(o.product(), 1)
	return Unit{expr: prod.String(), prod: prod, base: u.gonum().Mul(o.gonum())}
}

// Div returns the quotient unit u/o.
func (u Unit) Div(o Unit) Unit {
	prod := u.product().times(o.product(), -1)
	return Unit{expr: prod.String(), prod: prod, base: u.gonum().Div(o.gonum())}
}

// Pow returns u raised to an integer power.
func (u Unit) Pow(n int) Unit {
	prod := u.product().pow(n)
	base := newCarrier(1, nil)
	src := u.gonum()
	for i := 0; i < abs(n); i++ {
		if n > 0 {
			base.Mul(src)
		} else {
			base.Div(src)
		}
	}
	return Unit{expr: prod.String(), prod: prod, base: base}
}

// ConvertValue converts v from one unit to another.
func ConvertValue(v float64, from, to Unit) (float64, error) {
	if !from.Compatible(to) {
		return 0, &IncompatibleUnitError{
			From: from.String(), To: to.String(),
			FromDim: from.Dimensionality(), ToDim: to.Dimensionality(),
		}
	}
	return to.FromBase(from.ToBase(v)), nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
