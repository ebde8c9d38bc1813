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
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Magnitude is a scalar or a one-dimensional array of float64.
// The zero value is the scalar 0.
type Magnitude struct {
	values []float64
	array  bool
}

// Scalar returns a scalar magnitude.
func Scalar(v float64) Magnitude { return Magnitude{values: []float64{v}} }

// Array returns an array magnitude holding a copy of vs.
func Array(vs ...float64) Magnitude {
	return Magnitude{values: append(make([]float64, 0, len(vs)), vs...), array: true}
}

// IsArray reports whether m is an array.
func (m Magnitude) IsArray() bool { return m.array }

// Len returns the number of elements; scalars have length 1.
func (m Magnitude) Len() int {
	if !m.array {
		return 1
	}
	return len(m.values)
}

// Float returns the scalar value, or the first element of an array (0 when empty).
func (m Magnitude) Float() float64 {
	if len(m.values) == 0 {
		return 0
	}
	return m.values[0]
}

// Values returns a copy of the elements; a scalar yields one element.
func (m Magnitude) Values() []float64 {
	if !m.array && len(m.values) == 0 {
		return []float64{0}
	}
	return append(make([]float64, 0, len(m.values)), m.values...)
}

// Map applies f to every element.
func (m Magnitude) Map(f func(float64) float64) Magnitude {
	vs := m.Values()
	for i, v := range vs {
		vs[i] = f(v)
	}
	return Magnitude{values: vs, array: m.array}
}

// affine returns m*scale + shift using gonum's vector kernels.
func (m Magnitude) affine(scale, shift float64) Magnitude {
	src := m.Values()
	dst := make([]float64, len(src))
	floats.ScaleTo(dst, scale, src)
	if shift != 0 {
		floats.AddConst(shift, dst)
	}
	return Magnitude{values: dst, array: m.array}
}

func (m Magnitude) String() string {
	if !m.array {
		return strconv.FormatFloat(m.Float(), 'g', -1, 64)
	}
	parts := make([]string, len(m.values))
	for i, v := range m.values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// MarshalJSON writes a number for scalars and a list for arrays.
func (m Magnitude) MarshalJSON() ([]byte, error) {
	if m.array {
		if m.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(m.values)
	}
	return json.Marshal(m.Float())
}

// UnmarshalJSON accepts a number or a list of numbers.
func (m *Magnitude) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var vs []float64
		if err := json.Unmarshal(data, &vs); err != nil {
			return fmt.Errorf("magnitude: %w", err)
		}
		*m = Array(vs...)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("magnitude: %w", err)
	}
	*m = Scalar(v)
	return nil
}

// MagnitudeOf converts a decoded JSON/YAML value or a Go number/slice into a Magnitude.
func MagnitudeOf(v any) (Magnitude, error) {
	switch x := v.(type) {
	case Magnitude:
		return x, nil
	case float64:
		return Scalar(x), nil
	case float32:
		return Scalar(float64(x)), nil
	case int:
		return Scalar(float64(x)), nil
	case int64:
		return Scalar(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Magnitude{}, fmt.Errorf("magnitude %q: %w", x, err)
		}
		return Scalar(f), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return Magnitude{}, fmt.Errorf("magnitude %q: %w", x, err)
		}
		return Scalar(f), nil
	case []float64:
		return Array(x...), nil
	case []any:
		vs := make([]float64, len(x))
		for i, e := range x {
			em, err := MagnitudeOf(e)
			if err != nil {
				return Magnitude{}, fmt.Errorf("element %d: %w", i, err)
			}
			if em.IsArray() {
				return Magnitude{}, fmt.Errorf("element %d: nested arrays are not supported", i)
			}
			vs[i] = em.Float()
		}
		return Array(vs...), nil
	default:
		return Magnitude{}, fmt.Errorf("unsupported magnitude type %T", v)
	}
}

// broadcast aligns two magnitudes element-wise. A scalar stretches to the
// other operand's length; two arrays must have equal lengths.
func broadcast(a, b Magnitude) (x, y []float64, array bool, err error) {
	x, y = a.Values(), b.Values()
	switch {
	case a.array && b.array:
		if len(x) != len(y) {
			return nil, nil, false, &ShapeMismatchError{Left: len(x), Right: len(y)}
		}
	case a.array:
		y = fill(len(x), y[0])
	case b.array:
		x = fill(len(y), x[0])
	}
	return x, y, a.array || b.array, nil
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

type kernel func(dst, s, t []float64) []float64

func apply(a, b Magnitude, k kernel) (Magnitude, error) {
	x, y, array, err := broadcast(a, b)
	if err != nil {
		return Magnitude{}, err
	}
	dst := make([]float64, len(x))
	k(dst, x, y)
	return Magnitude{values: dst, array: array}, nil
}
