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

// Package parameter holds unit-typed properties of resources whose value
// may follow a profile over model time.
package parameter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/climact/climate-action-tool/pkg/dimension"
	"github.com/climact/climate-action-tool/pkg/profile"
)

const (
	DefaultLabel = "Parameter"
	DefaultColor = "#8b0000"
	DefaultIcon  = "mdi.pound"

	// FactorUnit is the only unit offered by a Factor.
	FactorUnit = "0-1"
)

// TimeUnits are the denominators offered for flow rates.
var TimeUnits = []string{"s", "min", "hr", "day", "yr"}

var (
	// ErrUnitNotOffered is returned when a profile uses a unit the parameter does not list.
	ErrUnitNotOffered = errors.New("unit not offered by parameter")
	// ErrFixedParameter is returned when a fixed parameter is given a time-varying profile.
	ErrFixedParameter = errors.New("parameter is fixed")
)

// Parameter is a named, unit-typed property evaluated through a profile reference.
type Parameter struct {
	label    string
	units    []string
	variable bool
	color    string
	icon     string
	ref      profile.Ref
}

// Option customizes a Parameter at construction.
type Option func(*Parameter)

// WithColor sets the display color.
func WithColor(c string) Option { return func(p *Parameter) { p.color = c } }

// WithIcon sets the display icon name.
func WithIcon(i string) Option { return func(p *Parameter) { p.icon = i } }

// WithLabel overrides the generated label.
func WithLabel(l string) Option {
	return func(p *Parameter) {
		if l != "" {
			p.label = l
		}
	}
}

// Variable overrides whether the parameter may vary with time.
func Variable(v bool) Option { return func(p *Parameter) { p.variable = v } }

func newParameter(label string, units []string, variable bool, opts []Option) *Parameter {
	p := &Parameter{
		label:    label,
		units:    append([]string(nil), units...),
		variable: variable,
		color:    DefaultColor,
		icon:     DefaultIcon,
	}
	if p.label == "" {
		p.label = DefaultLabel
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ref = profile.NewRef(profile.NewFixed(0), p.firstUnit(), "")
	return p
}

// NewFixed returns a parameter that only accepts constant profiles.
func NewFixed(label string, units []string, opts ...Option) *Parameter {
	return newParameter(label, units, false, opts)
}

// NewVariable returns a parameter that accepts any profile.
func NewVariable(label string, units []string, opts ...Option) *Parameter {
	return newParameter(label, units, true, opts)
}

// Temperature is a variable parameter in K, °C or °F.
func Temperature() *Parameter {
	return NewVariable("Temperature", []string{"K", "°C", "°F"},
		WithColor("#ff6347"), WithIcon("mdi.thermometer"))
}

// Pressure is a variable parameter in common pressure units.
func Pressure() *Parameter {
	return NewVariable("Pressure", []string{"Pa", "kPa", "MPa", "bar", "atm"},
		WithColor("#4682b4"), WithIcon("mdi.gauge"))
}

// NewFactor returns a variable dimensionless 0-1 factor such as an efficiency.
func NewFactor(label string, opts ...Option) *Parameter {
	if label == "" {
		label = "Factor"
	}
	base := []Option{WithColor("#808080"), WithIcon("mdi.percent")}
	return newParameter(label, []string{FactorUnit}, true, append(base, opts...))
}

// NewRatio derives a parameter from num/den. Its units are the cross product of
// both unit lists, its label is "<num>_per_<den>" and its presentation follows num.
// Ratios are variable unless Variable(false) is passed.
func NewRatio(num, den *dimension.Dimension, opts ...Option) *Parameter {
	label := strings.ToLower(num.Label()) + "_per_" + strings.ToLower(den.Label())
	base := []Option{WithColor(num.Color()), WithIcon(num.Icon())}
	return newParameter(label, dimension.Cross(num, den), true, append(base, opts...))
}

// FlowUnits returns every "<unit>/<time unit>" combination for d, unit-major.
func FlowUnits(d *dimension.Dimension, time []string) []string {
	if len(time) == 0 {
		time = TimeUnits
	}
	out := make([]string, 0, len(d.Units())*len(time))
	for _, u := range d.Units() {
		for _, t := range time {
			out = append(out, u+"/"+t)
		}
	}
	return out
}

func (p *Parameter) Label() string    { return p.label }
func (p *Parameter) Color() string    { return p.color }
func (p *Parameter) Icon() string     { return p.icon }
func (p *Parameter) IsVariable() bool { return p.variable }

// Units returns a copy of the offered units.
func (p *Parameter) Units() []string { return append([]string(nil), p.units...) }

// Offers reports whether u may be used with this parameter. An empty unit
// list accepts anything.
func (p *Parameter) Offers(u string) bool {
	return len(p.units) == 0 || slices.Contains(p.units, u)
}

// Offering adds u to the offered units when it is not already listed and returns p.
func (p *Parameter) Offering(u string) *Parameter {
	if u != "" && len(p.units) > 0 && !slices.Contains(p.units, u) {
		p.units = append(p.units, u)
	}
	return p
}

func (p *Parameter) firstUnit() string {
	if len(p.units) == 0 {
		return ""
	}
	return p.units[0]
}

// Profile returns the current profile reference.
func (p *Parameter) Profile() profile.Ref { return p.ref }

// SetProfile replaces the profile reference. A fixed parameter only accepts a
// Fixed profile. An empty unit selects the first offered unit.
func (p *Parameter) SetProfile(ref profile.Ref) error {
	if ref.Profile == nil {
		return fmt.Errorf("%w: %s: profile reference has no profile", profile.ErrInvalidProfile, p.label)
	}
	if !p.variable && ref.Profile.Type() != profile.TypeFixed {
		return fmt.Errorf("%w: %s cannot take a %s profile", ErrFixedParameter, p.label, ref.Profile.Type())
	}
	if ref.Units == "" {
		ref.Units = p.firstUnit()
	}
	if !p.Offers(ref.Units) {
		return fmt.Errorf("%w: %s offers %v, got %q", ErrUnitNotOffered, p.label, p.units, ref.Units)
	}
	p.ref = ref
	return nil
}

// ValueAt evaluates the profile at model time t.
func (p *Parameter) ValueAt(t float64) float64 { return p.ref.ValueAt(t) }

// ToMap returns the serialized form {"type", "label", "is_variable", "ref"}.
func (p *Parameter) ToMap() map[string]any {
	return map[string]any{
		"type":        "parameter",
		"label":       p.label,
		"is_variable": p.variable,
		"ref":         p.ref.ToMap(),
	}
}

func (p *Parameter) String() string {
	return fmt.Sprintf("%s(%s, %s)", p.label, p.ref.Profile, p.ref.Units)
}
