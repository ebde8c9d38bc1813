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

package dimension

import (
	"errors"
	"fmt"

	"github.com/climact/climate-action-tool/pkg/units"
)

// Registry maps keys, type names and dimensionalities to Dimensions.
// It is immutable once built and safe for concurrent reads.
type Registry struct {
	system *units.System
	order  []*Dimension
	byKey  map[string]*Dimension
	byName map[string]*Dimension
	owners map[units.Dimensionality]*Dimension
}

// System returns the unit system the registry was validated against.
func (r *Registry) System() *units.System { return r.system }

// Get returns the Dimension registered under key.
func (r *Registry) Get(key string) (*Dimension, error) {
	d, ok := r.byKey[key]
	if !ok {
		return nil, &UnknownDimensionError{Key: key}
	}
	return d, nil
}

// MustGet is Get for keys known to be registered.
func (r *Registry) MustGet(key string) *Dimension {
	d, err := r.Get(key)
	if err != nil {
		panic(err)
	}
	return d
}

// ByName resolves a serialization tag such as "MassFlowRate".
func (r *Registry) ByName(name string) (*Dimension, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Lookup returns the Dimension that owns a dimensionality for result dispatch.
func (r *Registry) Lookup(d units.Dimensionality) (*Dimension, bool) {
	owner, ok := r.owners[d]
	return owner, ok
}

// All returns the registered dimensions in registration order.
func (r *Registry) All() []*Dimension { return append([]*Dimension(nil), r.order...) }

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.order))
	for i, d := range r.order {
		keys[i] = d.key
	}
	return keys
}

// Len returns the number of registered dimensions.
func (r *Registry) Len() int { return len(r.order) }

type entry struct {
	dim      *Dimension
	dispatch bool
}

// Builder collects dimensions and validates them into a Registry.
type Builder struct {
	system  *units.System
	entries []entry
}

// NewBuilder starts a registry resolved against sys.
func NewBuilder(sys *units.System) *Builder {
	return &Builder{system: sys}
}

// Add registers d as the owner of its dimensionality. Arithmetic results with
// that dimensionality are typed as d.
func (b *Builder) Add(defs ...*Dimension) *Builder {
	for _, d := range defs {
		b.entries = append(b.entries, entry{dim: d, dispatch: true})
	}
	return b
}

// AddVariant registers d by key and name only. Variants share an owner's
// dimensionality (Emissivity and Dimensionless) and never receive dispatched results.
func (b *Builder) AddVariant(defs ...*Dimension) *Builder {
	for _, d := range defs {
		b.entries = append(b.entries, entry{dim: d, dispatch: false})
	}
	return b
}

// Build validates every definition and returns the registry. All problems
// are reported together.
func (b *Builder) Build() (*Registry, error) {
	r := &Registry{
		system: b.system,
		byKey:  make(map[string]*Dimension, len(b.entries)),
		byName: make(map[string]*Dimension, len(b.entries)),
		owners: make(map[units.Dimensionality]*Dimension),
	}

	var errs []error
	for _, e := range b.entries {
		d, err := b.resolve(e.dim)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := r.byKey[d.key]; dup {
			errs = append(errs, fmt.Errorf("%w: key %q", ErrDuplicateDimension, d.key))
			continue
		}
		if _, dup := r.byName[d.name]; dup {
			errs = append(errs, fmt.Errorf("%w: name %q", ErrDuplicateDimension, d.name))
			continue
		}
		if e.dispatch {
			if owner, taken := r.owners[d.dimensionality]; taken {
				errs = append(errs, &DimensionalityConflictError{
					Dimensionality: d.dimensionality,
					Existing:       owner.key,
					Incoming:       d.key,
				})
				continue
			}
			r.owners[d.dimensionality] = d
		}
		r.byKey[d.key] = d
		r.byName[d.name] = d
		r.order = append(r.order, d)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// resolve parses the canonical unit and checks every offered unit against it.
func (b *Builder) resolve(src *Dimension) (*Dimension, error) {
	if src.key == "" {
		return nil, fmt.Errorf("dimension %q: empty key", src.name)
	}
	canonical, err := b.system.Parse(src.canonical)
	if err != nil {
		return nil, fmt.Errorf("dimension %q: canonical unit: %w", src.key, err)
	}
	d := *src
	d.units = append([]string(nil), src.units...)
	d.unit = canonical
	d.dimensionality = canonical.Dimensionality()

	for _, expr := range d.units {
		u, err := b.system.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("dimension %q: unit %q: %w", d.key, expr, err)
		}
		if !u.Compatible(canonical) {
			return nil, fmt.Errorf("dimension %q: %w", d.key, &units.IncompatibleUnitError{
				From: expr, To: d.canonical,
				FromDim: u.Dimensionality(), ToDim: d.dimensionality,
			})
		}
	}
	return &d, nil
}
