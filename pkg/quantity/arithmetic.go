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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/climact/climate-action-tool/pkg/units"
)

// DefaultTolerance is the relative tolerance used by Equal.
const DefaultTolerance = 1e-9

// Add returns q+o in q's unit. The result is typed by the owner of its dimensionality.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	return q.additive(o, "add", floats.AddTo)
}

// Sub returns q-o in q's unit. The result is typed by the owner of its dimensionality.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	return q.additive(o, "subtract", floats.SubTo)
}

func (q Quantity) additive(o Quantity, op string, k kernel) (Quantity, error) {
	if q.unit.HasOffset() || o.unit.HasOffset() {
		return Quantity{}, fmt.Errorf("%s %s and %s: %w", op, q.Units(), o.Units(), ErrOffsetArithmetic)
	}
	om, err := convertMagnitude(o.mag, o.unit, q.unit)
	if err != nil {
		return Quantity{}, fmt.Errorf("%s: %w", op, err)
	}
	m, err := apply(q.mag, om, k)
	if err != nil {
		return Quantity{}, fmt.Errorf("%s: %w", op, err)
	}
	return q.sp().dispatch(m, q.unit), nil
}

// Mul returns q*o with the product unit, typed by the owner of the product dimensionality.
func (q Quantity) Mul(o Quantity) (Quantity, error) {
	return q.multiplicative(o, "multiply", q.unit.Mul(o.unit), floats.MulTo)
}

// Div returns q/o with the quotient unit, typed by the owner of the quotient dimensionality.
// Division by zero follows IEEE 754.
func (q Quantity) Div(o Quantity) (Quantity, error) {
	return q.multiplicative(o, "divide", q.unit.Div(o.unit), floats.DivTo)
}

func (q Quantity) multiplicative(o Quantity, op string, u units.Unit, k kernel) (Quantity, error) {
	if q.unit.HasOffset() || o.unit.HasOffset() {
		return Quantity{}, fmt.Errorf("%s %s and %s: %w", op, q.Units(), o.Units(), ErrOffsetArithmetic)
	}
	m, err := apply(q.mag, o.mag, k)
	if err != nil {
		return Quantity{}, fmt.Errorf("%s: %w", op, err)
	}
	return q.sp().dispatch(m, u), nil
}

// Scale multiplies the magnitude by a plain number, keeping unit and type.
func (q Quantity) Scale(f float64) Quantity {
	return q.WithMagnitude(q.mag.affine(f, 0))
}

// Equal reports whether q and o denote the same physical value within DefaultTolerance.
// Type tags are ignored.
func (q Quantity) Equal(o Quantity) bool {
	return q.EqualWithin(o, DefaultTolerance)
}

// EqualWithin compares SI-normalized values with relative tolerance tol. There
// is no absolute floor, so tiny magnitudes are compared by ratio too.
func (q Quantity) EqualWithin(o Quantity, tol float64) bool {
	if !q.unit.Compatible(o.unit) || q.mag.IsArray() != o.mag.IsArray() {
		return false
	}
	a, b := q.Base().Values(), o.Base().Values()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !scalar.EqualWithinRel(a[i], b[i], tol) {
			return false
		}
	}
	return true
}
