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

package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/climact/climate-action-tool/pkg/resource"
)

// DocumentVersion is the version written by Encode.
const DocumentVersion = 1

// ErrUnsupportedVersion is returned for documents newer than DocumentVersion.
var ErrUnsupportedVersion = errors.New("unsupported document version")

// Document is the JSON form of a graph.
type Document struct {
	Version int          `json:"version"`
	Nodes   []NodeRecord `json:"nodes"`
	Edges   []EdgeRecord `json:"edges"`
}

// NodeRecord is the JSON form of a node.
type NodeRecord struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	X            float64                     `json:"x"`
	Y            float64                     `json:"y"`
	Properties   map[string]any              `json:"properties,omitempty"`
	Technologies map[string]TechnologyRecord `json:"technologies,omitempty"`
}

// TechnologyRecord is the JSON form of a technology. Resources use the
// composite map form and params the quantity map form.
type TechnologyRecord struct {
	Consumed  map[string]map[string]any `json:"consumed,omitempty"`
	Produced  map[string]map[string]any `json:"produced,omitempty"`
	Params    map[string]map[string]any `json:"params,omitempty"`
	Equations []string                  `json:"equations,omitempty"`
}

// EdgeRecord is the JSON form of an edge.
type EdgeRecord struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Codec converts graphs to and from documents using a composite catalog.
type Codec struct {
	catalog *resource.Catalog
}

// NewCodec returns a codec over cat.
func NewCodec(cat *resource.Catalog) *Codec {
	return &Codec{catalog: cat}
}

// Catalog returns the composite catalog.
func (c *Codec) Catalog() *resource.Catalog { return c.catalog }

// Encode converts g into its document form.
func (c *Codec) Encode(g *Graph) Document {
	doc := Document{Version: DocumentVersion, Nodes: []NodeRecord{}, Edges: []EdgeRecord{}}
	for _, n := range g.Nodes() {
		rec := NodeRecord{ID: n.ID, Name: n.Name, X: n.X, Y: n.Y, Properties: n.Properties}
		if len(n.Technologies) > 0 {
			rec.Technologies = make(map[string]TechnologyRecord, len(n.Technologies))
			for name, t := range n.Technologies {
				rec.Technologies[name] = encodeTechnology(t)
			}
		}
		doc.Nodes = append(doc.Nodes, rec)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeRecord{
			ID: e.ID, Source: e.Source, Target: e.Target, Type: e.Type, Properties: e.Properties,
		})
	}
	return doc
}

func encodeTechnology(t *Technology) TechnologyRecord {
	composites := func(m map[string]*resource.Composite) map[string]map[string]any {
		if len(m) == 0 {
			return nil
		}
		out := make(map[string]map[string]any, len(m))
		for name, comp := range m {
			out[name] = comp.ToMap()
		}
		return out
	}
	rec := TechnologyRecord{
		Consumed:  composites(t.Consumed),
		Produced:  composites(t.Produced),
		Equations: t.Equations,
	}
	if len(t.Params) > 0 {
		rec.Params = make(map[string]map[string]any, len(t.Params))
		for name, q := range t.Params {
			rec.Params[name] = q.ToMap()
		}
	}
	return rec
}

// Decode builds a graph from doc. Every problem Validate finds is returned
// joined; nothing is built in that case.
func (c *Codec) Decode(doc Document) (*Graph, error) {
	report := c.Validate(doc)
	if err := report.Err(); err != nil {
		return nil, err
	}

	g := New()
	for _, rec := range doc.Nodes {
		n := newNode(rec.ID, rec.Name, rec.X, rec.Y)
		for k, v := range rec.Properties {
			n.Properties[k] = v
		}
		for name, trec := range rec.Technologies {
			t, err := c.decodeTechnology(trec)
			if err != nil {
				return nil, fmt.Errorf("node %s technology %s: %w", rec.ID, name, err)
			}
			n.Technologies[name] = t
		}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, rec := range doc.Edges {
		e := &Edge{ID: rec.ID, Source: rec.Source, Target: rec.Target, Type: rec.Type, Properties: make(map[string]any)}
		for k, v := range rec.Properties {
			e.Properties[k] = v
		}
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (c *Codec) decodeTechnology(rec TechnologyRecord) (*Technology, error) {
	t := NewTechnology()
	t.Equations = append(t.Equations, rec.Equations...)
	for _, dir := range []Direction{Consumed, Produced} {
		src := rec.Consumed
		if dir == Produced {
			src = rec.Produced
		}
		for _, name := range sortedKeys(src) {
			comp, err := c.catalog.FromMap(src[name])
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", dir, name, err)
			}
			t.Resources(dir)[name] = comp
		}
	}
	for _, name := range sortedKeys(rec.Params) {
		q, err := c.catalog.Codec().FromMap(rec.Params[name])
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
		t.Params[name] = q
	}
	return t, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ReadDocument parses a JSON document.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("reading graph document: %w", err)
	}
	return doc, nil
}

// Read parses and decodes a graph.
func (c *Codec) Read(r io.Reader) (*Graph, error) {
	doc, err := ReadDocument(r)
	if err != nil {
		return nil, err
	}
	return c.Decode(doc)
}

// Write encodes g as indented JSON.
func (c *Codec) Write(w io.Writer, g *Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Encode(g))
}

// Load reads a graph file.
func (c *Codec) Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.Read(f)
}

// Save writes g to path through a temporary file in the same directory.
func (c *Codec) Save(path string, g *Graph) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".graph-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := c.Write(tmp, g); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
