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
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/climact/climate-action-tool/internal/logging"
)

// Record is the serialized form of a Quantity: {"type", "value", "units"}.
type Record struct {
	Type  string    `json:"type"`
	Value Magnitude `json:"value"`
	Units string    `json:"units"`
}

// Record returns the serialized form of q.
func (q Quantity) Record() Record {
	return Record{Type: q.TypeName(), Value: q.mag, Units: q.Units()}
}

// ToMap returns the serialized form as a JSON-compatible map.
func (q Quantity) ToMap() map[string]any {
	var value any = q.mag.Float()
	if q.mag.IsArray() {
		value = q.mag.Values()
	}
	return map[string]any{"type": q.TypeName(), "value": value, "units": q.Units()}
}

// MarshalJSON encodes q as a Record.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Record())
}

// Codec rebuilds quantities from their serialized form.
type Codec struct {
	space  *Space
	strict bool
	log    logr.Logger
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// Strict makes unknown type tags an error instead of a generic fallback.
func Strict(strict bool) CodecOption {
	return func(c *Codec) { c.strict = strict }
}

// WithLogger sets the logger used to report lenient fallbacks.
func WithLogger(l logr.Logger) CodecOption {
	return func(c *Codec) { c.log = l }
}

// NewCodec returns a lenient codec over space.
func NewCodec(space *Space, opts ...CodecOption) *Codec {
	c := &Codec{space: space, log: logging.Log()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Space returns the codec's Space.
func (c *Codec) Space() *Space { return c.space }

// Decode rebuilds a quantity. A missing or "Quantity" tag yields a generic quantity.
func (c *Codec) Decode(rec Record) (Quantity, error) {
	if rec.Type == "" || rec.Type == GenericType {
		return c.space.Generic(rec.Value, rec.Units)
	}
	d, ok := c.space.Registry().ByName(rec.Type)
	if !ok {
		if c.strict {
			return Quantity{}, &UnknownQuantityTypeError{Type: rec.Type}
		}
		c.log.V(logging.DEBUG).Info("Unknown quantity type, decoding as generic",
			"type", rec.Type,
			"units", rec.Units)
		return c.space.Generic(rec.Value, rec.Units)
	}
	q, err := c.space.Of(d, rec.Value, rec.Units)
	if err != nil {
		return Quantity{}, fmt.Errorf("decoding %s: %w", rec.Type, err)
	}
	return q, nil
}

// FromMap decodes the map form produced by Quantity.ToMap.
func (c *Codec) FromMap(m map[string]any) (Quantity, error) {
	rec, err := RecordFromMap(m)
	if err != nil {
		return Quantity{}, err
	}
	return c.Decode(rec)
}

// Unmarshal decodes a JSON document.
func (c *Codec) Unmarshal(data []byte) (Quantity, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Quantity{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return c.FromMap(raw)
}

// RecordFromMap validates the generic map form of a quantity.
func RecordFromMap(m map[string]any) (Record, error) {
	var rec Record
	if t, ok := m["type"]; ok && t != nil {
		s, ok := t.(string)
		if !ok {
			return Record{}, fmt.Errorf("%w: type must be a string, got %T", ErrMalformedRecord, t)
		}
		rec.Type = s
	}
	v, ok := m["value"]
	if !ok {
		return Record{}, fmt.Errorf("%w: missing value", ErrMalformedRecord)
	}
	mag, err := MagnitudeOf(v)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	rec.Value = mag
	if u, ok := m["units"]; ok && u != nil {
		s, ok := u.(string)
		if !ok {
			return Record{}, fmt.Errorf("%w: units must be a string, got %T", ErrMalformedRecord, u)
		}
		rec.Units = s
	}
	return rec, nil
}
