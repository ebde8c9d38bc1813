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

// Package resource builds composite resources: a primary quantity plus named
// secondary quantities, optionally following profiles over model time.
//
// Composite types are described by schemas collected in a Catalog. The
// built-in catalog is embedded; user catalogs in the same YAML format can be
// layered on top.
package resource

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/climact/climate-action-tool/internal/logging"
	"github.com/climact/climate-action-tool/pkg/quantity"
)

//go:embed catalog.yaml
var builtinCatalog []byte

type catalogDocument struct {
	Composites []SchemaSpec `yaml:"composites"`
}

// ParseSpecs decodes a catalog document. Unknown keys are rejected.
func ParseSpecs(data []byte) ([]SchemaSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc catalogDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return doc.Composites, nil
}

// BuiltinSpecs returns the embedded catalog entries.
func BuiltinSpecs() []SchemaSpec {
	specs, err := ParseSpecs(builtinCatalog)
	if err != nil {
		panic(fmt.Sprintf("resource: embedded catalog: %v", err))
	}
	return specs
}

// Catalog is the registry of composite types. It is immutable once built.
type Catalog struct {
	space   *quantity.Space
	codec   *quantity.Codec
	log     logr.Logger
	order   []string
	schemas map[string]*Schema
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithCodec sets the codec used for nested quantities, e.g. a strict one.
func WithCodec(c *quantity.Codec) Option { return func(cat *Catalog) { cat.codec = c } }

// WithLogger sets the logger used while loading.
func WithLogger(l logr.Logger) Option { return func(cat *Catalog) { cat.log = l } }

// NewCatalog resolves specs against space. When two specs share a type the
// first one wins and the duplicate is logged. All resolution errors are
// reported together.
func NewCatalog(space *quantity.Space, specs []SchemaSpec, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		space:   space,
		log:     logging.Log(),
		schemas: make(map[string]*Schema, len(specs)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.codec == nil {
		c.codec = quantity.NewCodec(space, quantity.WithLogger(c.log))
	}

	var errs []error
	for _, spec := range specs {
		if _, exists := c.schemas[spec.Type]; exists {
			c.log.Info("Duplicate composite type in catalog - first definition wins",
				"type", spec.Type)
			continue
		}
		s, err := resolveSchema(space.Registry(), spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.schemas[s.Type()] = s
		c.order = append(c.order, s.Type())
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c.log.V(logging.DEBUG).Info("Loaded composite catalog",
		"typeCount", len(c.order))
	return c, nil
}

// LoadCatalog builds the embedded catalog followed by the YAML files at paths.
func LoadCatalog(space *quantity.Space, paths []string, opts ...Option) (*Catalog, error) {
	specs := BuiltinSpecs()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog: %w", err)
		}
		extra, err := ParseSpecs(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		specs = append(specs, extra...)
	}
	return NewCatalog(space, specs, opts...)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog is the embedded catalog over quantity.Default().
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := NewCatalog(quantity.Default(), BuiltinSpecs())
		if err != nil {
			panic(fmt.Sprintf("resource: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func (c *Catalog) Space() *quantity.Space { return c.space }
func (c *Catalog) Codec() *quantity.Codec { return c.codec }

// Types returns the composite type names in load order.
func (c *Catalog) Types() []string { return append([]string(nil), c.order...) }

// Schema looks up a composite type.
func (c *Catalog) Schema(typeName string) (*Schema, error) {
	s, ok := c.schemas[typeName]
	if !ok {
		return nil, &UnknownCompositeTypeError{Type: typeName}
	}
	return s, nil
}
