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

package profile

import (
	"encoding/json"
	"fmt"
)

// FromMap rebuilds a profile from its map form.
func FromMap(m map[string]any) (Profile, error) {
	raw, ok := m["type"]
	if !ok {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidProfile)
	}
	tag, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: type must be a string, got %T", ErrInvalidProfile, raw)
	}

	switch Type(tag) {
	case TypeFixed:
		v, err := number(m["value"])
		if err != nil {
			return nil, fmt.Errorf("%w: fixed value: %v", ErrInvalidProfile, err)
		}
		return NewFixed(v), nil
	case TypeLinear, TypeStepped:
		times, err := numbers(m["time_points"])
		if err != nil {
			return nil, fmt.Errorf("%w: time_points: %v", ErrInvalidProfile, err)
		}
		values, err := numbers(m["values"])
		if err != nil {
			return nil, fmt.Errorf("%w: values: %v", ErrInvalidProfile, err)
		}
		if Type(tag) == TypeLinear {
			return NewLinear(times, values)
		}
		return NewStepped(times, values)
	default:
		return nil, &UnknownProfileTypeError{Type: tag}
	}
}

// Unmarshal decodes a JSON profile.
func Unmarshal(data []byte) (Profile, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return FromMap(m)
}

// Marshal encodes a profile as JSON.
func Marshal(p Profile) ([]byte, error) {
	return json.Marshal(p.ToMap())
}

func number(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case nil:
		return 0, fmt.Errorf("missing")
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func numbers(v any) ([]float64, error) {
	switch x := v.(type) {
	case []float64:
		return x, nil
	case []any:
		out := make([]float64, len(x))
		for i, e := range x {
			f, err := number(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = f
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("missing")
	default:
		return nil, fmt.Errorf("expected a list of numbers, got %T", v)
	}
}

// Ref attaches units and a description to a profile.
type Ref struct {
	Profile     Profile
	Units       string
	Description string
}

// NewRef wraps p.
func NewRef(p Profile, units, description string) Ref {
	return Ref{Profile: p, Units: units, Description: description}
}

// ValueAt delegates to the wrapped profile; an empty Ref evaluates to 0.
func (r Ref) ValueAt(t float64) float64 {
	if r.Profile == nil {
		return 0
	}
	return r.Profile.ValueAt(t)
}

// ToMap returns {"profile", "units", "description"}.
func (r Ref) ToMap() map[string]any {
	var p any
	if r.Profile != nil {
		p = r.Profile.ToMap()
	}
	return map[string]any{"profile": p, "units": r.Units, "description": r.Description}
}

func (r Ref) MarshalJSON() ([]byte, error) { return json.Marshal(r.ToMap()) }

func (r *Ref) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	ref, err := RefFromMap(m)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// RefFromMap rebuilds a Ref. The nested profile is required; an unknown
// profile tag fails with UnknownProfileTypeError.
func RefFromMap(m map[string]any) (Ref, error) {
	raw, ok := m["profile"].(map[string]any)
	if !ok {
		return Ref{}, fmt.Errorf("%w: profile reference needs a profile object", ErrInvalidProfile)
	}
	p, err := FromMap(raw)
	if err != nil {
		return Ref{}, err
	}
	ref := Ref{Profile: p}
	if u, ok := m["units"].(string); ok {
		ref.Units = u
	}
	if d, ok := m["description"].(string); ok {
		ref.Description = d
	}
	return ref, nil
}
