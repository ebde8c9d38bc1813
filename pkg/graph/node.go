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
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/climact/climate-action-tool/pkg/quantity"
	"github.com/climact/climate-action-tool/pkg/resource"
)

// Direction distinguishes the two resource maps of a technology.
type Direction string

const (
	Consumed Direction = "consumed"
	Produced Direction = "produced"
)

// Technology is one named production pathway of a node.
type Technology struct {
	Consumed  map[string]*resource.Composite
	Produced  map[string]*resource.Composite
	Params    map[string]quantity.Quantity
	Equations []string
}

// NewTechnology returns an empty technology.
func NewTechnology() *Technology {
	return &Technology{
		Consumed: make(map[string]*resource.Composite),
		Produced: make(map[string]*resource.Composite),
		Params:   make(map[string]quantity.Quantity),
	}
}

// Resources returns the map for dir.
func (t *Technology) Resources(dir Direction) map[string]*resource.Composite {
	if dir == Produced {
		return t.Produced
	}
	return t.Consumed
}

func (t *Technology) clone() *Technology {
	return &Technology{
		Consumed:  maps.Clone(t.Consumed),
		Produced:  maps.Clone(t.Produced),
		Params:    maps.Clone(t.Params),
		Equations: slices.Clone(t.Equations),
	}
}

// Node is a vertex of the graph.
type Node struct {
	ID           string
	Name         string
	X, Y         float64
	Properties   map[string]any
	Technologies map[string]*Technology
}

func newNode(id, name string, x, y float64) *Node {
	return &Node{
		ID:           id,
		Name:         name,
		X:            x,
		Y:            y,
		Properties:   make(map[string]any),
		Technologies: make(map[string]*Technology),
	}
}

// Technology returns the named technology, creating it when create is set.
func (n *Node) Technology(name string, create bool) (*Technology, error) {
	t, ok := n.Technologies[name]
	if ok {
		return t, nil
	}
	if !create {
		return nil, fmt.Errorf("%w: node %s has no technology %q", ErrNotFound, n.ID, name)
	}
	t = NewTechnology()
	n.Technologies[name] = t
	return t, nil
}

// TechnologyNames returns the technology names in sorted order.
func (n *Node) TechnologyNames() []string {
	names := make([]string, 0, len(n.Technologies))
	for name := range n.Technologies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetResource stores c under tech/name. Without create the technology and
// the stream must already exist.
func (n *Node) SetResource(dir Direction, tech, name string, c *resource.Composite, create bool) error {
	t, err := n.Technology(tech, create)
	if err != nil {
		return err
	}
	m := t.Resources(dir)
	if _, exists := m[name]; !exists && !create {
		return fmt.Errorf("%w: %s.%s has no %s stream %q", ErrNotFound, n.ID, tech, dir, name)
	}
	m[name] = c
	return nil
}

// SetParam stores q as a technology parameter.
func (n *Node) SetParam(tech, name string, q quantity.Quantity, create bool) error {
	t, err := n.Technology(tech, create)
	if err != nil {
		return err
	}
	if _, exists := t.Params[name]; !exists && !create {
		return fmt.Errorf("%w: %s.%s has no parameter %q", ErrNotFound, n.ID, tech, name)
	}
	t.Params[name] = q
	return nil
}

// AddEquation appends a free-text equation to a technology, creating it if needed.
func (n *Node) AddEquation(tech, eq string) {
	t, _ := n.Technology(tech, true)
	t.Equations = append(t.Equations, eq)
}

// Streams returns the set of stream names across all technologies for dir.
func (n *Node) Streams(dir Direction) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range n.Technologies {
		for name := range t.Resources(dir) {
			out[name] = struct{}{}
		}
	}
	return out
}

// clone copies the node and its maps; composites and quantities are shared
// since they are treated as values.
func (n *Node) clone() *Node {
	c := newNode(n.ID, n.Name, n.X, n.Y)
	maps.Copy(c.Properties, n.Properties)
	for name, t := range n.Technologies {
		c.Technologies[name] = t.clone()
	}
	return c
}
