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
	"fmt"
)

// FromMap rebuilds a composite from the map form produced by ToMap. The type
// must be in the catalog; nested records are validated by the catalog's codec
// and flattened back into keywords.
func (c *Catalog) FromMap(m map[string]any) (*Composite, error) {
	raw, ok := m[TypeKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedComposite)
	}
	typeName, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: type must be a string, got %T", ErrMalformedComposite, raw)
	}
	s, err := c.Schema(typeName)
	if err != nil {
		return nil, err
	}

	primary := s.Primary().Name()
	kw := Kwargs{}
	for k, v := range m {
		switch k {
		case TypeKey:
		case ValueKey:
			kw[primary] = v
		case UnitsKey:
			kw[primary+unitsSuffix] = v
		case ProfileKey:
			kw[primary+profileSuffix] = v
		default:
			nested, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s must be an object, got %T", ErrMalformedComposite, typeName, k, v)
			}
			if _, known := s.Field(k); !known {
				return nil, &UnknownFieldError{Type: typeName, Field: k}
			}
			q, err := c.codec.FromMap(nested)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", typeName, k, err)
			}
			kw[k] = q.Magnitude()
			kw[k+unitsSuffix] = q.Units()
			if p, ok := nested[ProfileKey]; ok && p != nil {
				kw[k+profileSuffix] = p
			}
		}
	}
	return c.New(typeName, kw)
}

// Unmarshal decodes a JSON composite.
func (c *Catalog) Unmarshal(data []byte) (*Composite, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedComposite, err)
	}
	return c.FromMap(m)
}
