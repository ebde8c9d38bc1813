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

// Package profile describes how a value evolves over model time.
//
// Three shapes are supported: Fixed (constant), Linear (interpolated between
// breakpoints, clamped outside them) and Stepped (piecewise constant, zero
// before the first breakpoint). Profiles are immutable; replace a profile
// to change its shape.
package profile

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Type is the serialization tag of a profile.
type Type string

const (
	TypeFixed   Type = "fixed"
	TypeLinear  Type = "linear"
	TypeStepped Type = "stepped"
)

var (
	// ErrInvalidProfile is returned when breakpoints cannot form a profile.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrUnknownProfileType matches any UnknownProfileTypeError.
	ErrUnknownProfileType = errors.New("unknown profile type")
)

// UnknownProfileTypeError reports a serialized profile with an unsupported tag.
type UnknownProfileTypeError struct {
	Type string
}

func (e *UnknownProfileTypeError) Error() string {
	return fmt.Sprintf("unknown profile type %q", e.Type)
}

func (e *UnknownProfileTypeError) Is(target error) bool { return target == ErrUnknownProfileType }

// Profile maps a model time to a value.
type Profile interface {
	Type() Type
	ValueAt(t float64) float64
	ToMap() map[string]any
}

// Fixed is a constant profile.
type Fixed struct {
	value float64
}

// NewFixed returns a constant profile.
func NewFixed(v float64) Fixed { return Fixed{value: v} }

func (p Fixed) Type() Type                { return TypeFixed }
func (p Fixed) Value() float64            { return p.value }
func (p Fixed) ValueAt(_ float64) float64 { return p.value }

func (p Fixed) ToMap() map[string]any {
	return map[string]any{"type": string(TypeFixed), "value": p.value}
}

func (p Fixed) String() string { return fmt.Sprintf("Fixed(%g)", p.value) }

// breakpoints holds validated, non-decreasing time points and their values.
type breakpoints struct {
	times  []float64
	values []float64
}

func newBreakpoints(kind Type, times, values []float64, min int) (breakpoints, error) {
	if len(times) != len(values) {
		return breakpoints{}, fmt.Errorf("%w: %s profile has %d time points but %d values",
			ErrInvalidProfile, kind, len(times), len(values))
	}
	if len(times) < min {
		return breakpoints{}, fmt.Errorf("%w: %s profile needs at least %d points, got %d",
			ErrInvalidProfile, kind, min, len(times))
	}
	for i, t := range times {
		if !finite(t) {
			return breakpoints{}, fmt.Errorf("%w: time point %d is %v", ErrInvalidProfile, i, t)
		}
		if i > 0 && t < times[i-1] {
			return breakpoints{}, fmt.Errorf("%w: time points must be in ascending order (%g after %g)",
				ErrInvalidProfile, t, times[i-1])
		}
	}
	return breakpoints{
		times:  append([]float64(nil), times...),
		values: append([]float64(nil), values...),
	}, nil
}

// TimePoints returns a copy of the breakpoint times.
func (b breakpoints) TimePoints() []float64 { return append([]float64(nil), b.times...) }

// Values returns a copy of the breakpoint values.
func (b breakpoints) Values() []float64 { return append([]float64(nil), b.values...) }

// after returns the index of the first breakpoint strictly later than t.
func (b breakpoints) after(t float64) int {
	return sort.Search(len(b.times), func(i int) bool { return b.times[i] > t })
}

func (b breakpoints) toMap(kind Type) map[string]any {
	return map[string]any{
		"type":        string(kind),
		"time_points": b.TimePoints(),
		"values":      b.Values(),
	}
}

// Linear interpolates between breakpoints and clamps to the end values outside them.
type Linear struct {
	breakpoints
}

// NewLinear needs at least two points with non-decreasing times.
func NewLinear(times, values []float64) (*Linear, error) {
	b, err := newBreakpoints(TypeLinear, times, values, 2)
	if err != nil {
		return nil, err
	}
	return &Linear{breakpoints: b}, nil
}

func (p *Linear) Type() Type { return TypeLinear }

func (p *Linear) ValueAt(t float64) float64 {
	if math.IsNaN(t) {
		return t
	}
	n := len(p.times)
	if t <= p.times[0] {
		return p.values[0]
	}
	if t >= p.times[n-1] {
		return p.values[n-1]
	}
	j := p.after(t)
	i := j - 1
	t0, t1 := p.times[i], p.times[j]
	v0, v1 := p.values[i], p.values[j]
	return v0 + (v1-v0)*(t-t0)/(t1-t0)
}

func (p *Linear) ToMap() map[string]any { return p.toMap(TypeLinear) }

func (p *Linear) String() string {
	return fmt.Sprintf("Linear(%v, %v)", p.times, p.values)
}

// Stepped holds the value of the last breakpoint at or before t, and 0 before the first.
type Stepped struct {
	breakpoints
}

// NewStepped needs at least one point with non-decreasing times.
func NewStepped(times, values []float64) (*Stepped, error) {
	b, err := newBreakpoints(TypeStepped, times, values, 1)
	if err != nil {
		return nil, err
	}
	return &Stepped{breakpoints: b}, nil
}

func (p *Stepped) Type() Type { return TypeStepped }

func (p *Stepped) ValueAt(t float64) float64 {
	if math.IsNaN(t) {
		return t
	}
	if t < p.times[0] {
		return 0
	}
	return p.values[p.after(t)-1]
}

func (p *Stepped) ToMap() map[string]any { return p.toMap(TypeStepped) }

func (p *Stepped) String() string {
	return fmt.Sprintf("Stepped(%v, %v)", p.times, p.values)
}

// Sample evaluates p at each time.
func Sample(p Profile, times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = p.ValueAt(t)
	}
	return out
}

// MaxHorizonSamples bounds the number of times Horizon returns.
const MaxHorizonSamples = 1_000_000

// Horizon returns the times from start to end inclusive in increments of step.
func Horizon(start, end, step float64) ([]float64, error) {
	if step <= 0 || math.IsNaN(step) {
		return nil, fmt.Errorf("step must be positive, got %v", step)
	}
	if !finite(start) || !finite(end) {
		return nil, fmt.Errorf("horizon bounds must be finite, got %v and %v", start, end)
	}
	if end < start {
		return nil, fmt.Errorf("end %v is before start %v", end, start)
	}
	span := math.Floor((end-start)/step + 1e-9)
	if span >= MaxHorizonSamples {
		return nil, fmt.Errorf("horizon %v..%v step %v exceeds %d samples", start, end, step, MaxHorizonSamples)
	}
	n := int(span) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
