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

// Package graph is the headless model behind the node-graph editor: nodes
// carrying technology branches of composite resources, directed edges
// between them, and JSON document persistence.
//
// A Graph is owned by a single goroutine. Every mutation goes through the
// Graph so observers see each change.
package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrNodeNotFound is returned for an unknown node ID.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeNotFound is returned for an unknown edge ID.
	ErrEdgeNotFound = errors.New("edge not found")
	// ErrNotFound is returned for a missing technology, stream or parameter.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when adding a node or edge whose ID is taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// EventKind names a graph mutation.
type EventKind string

const (
	NodeCreated EventKind = "node_created"
	NodeDeleted EventKind = "node_deleted"
	NodeMoved   EventKind = "node_moved"
	NodeChanged EventKind = "node_changed"
	EdgeCreated EventKind = "edge_created"
	EdgeDeleted EventKind = "edge_deleted"
	EdgeChanged EventKind = "edge_changed"
	GraphReset  EventKind = "graph_reset"
)

// Event describes one mutation. Key is set for property changes.
type Event struct {
	Kind   EventKind
	NodeID string
	EdgeID string
	Key    string
}

// Observer is notified synchronously after each mutation.
type Observer func(Event)

// Graph owns all nodes and edges.
type Graph struct {
	nodes     map[string]*Node
	edges     map[string]*Edge
	nodeOrder []string
	edgeOrder []string
	observers []Observer
	newID     func() string
}

// Option configures a Graph.
type Option func(*Graph)

// WithIDGenerator replaces the UUID generator, e.g. for deterministic tests.
func WithIDGenerator(f func() string) Option { return func(g *Graph) { g.newID = f } }

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Observe registers o for every later mutation.
func (g *Graph) Observe(o Observer) { g.observers = append(g.observers, o) }

func (g *Graph) notify(e Event) {
	for _, o := range g.observers {
		o(e)
	}
}

// CreateNode adds a node with a fresh ID.
func (g *Graph) CreateNode(name string, x, y float64, props map[string]any) *Node {
	n := newNode(g.newID(), name, x, y)
	for k, v := range props {
		n.Properties[k] = v
	}
	g.insertNode(n)
	return n
}

// AddNode inserts an existing node, keeping its ID.
func (g *Graph) AddNode(n *Node) error {
	if n.ID == "" {
		return fmt.Errorf("%w: node has an empty id", ErrDuplicateID)
	}
	if _, taken := g.nodes[n.ID]; taken {
		return fmt.Errorf("%w: node %s", ErrDuplicateID, n.ID)
	}
	if n.Properties == nil {
		n.Properties = make(map[string]any)
	}
	if n.Technologies == nil {
		n.Technologies = make(map[string]*Technology)
	}
	g.insertNode(n)
	return nil
}

func (g *Graph) insertNode(n *Node) {
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	g.notify(Event{Kind: NodeCreated, NodeID: n.ID})
}

// Node looks up a node.
func (g *Graph) Node(id string) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n, nil
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// MoveNode sets a node's position and returns the previous one.
func (g *Graph) MoveNode(id string, x, y float64) (oldX, oldY float64, err error) {
	n, err := g.Node(id)
	if err != nil {
		return 0, 0, err
	}
	oldX, oldY = n.X, n.Y
	n.X, n.Y = x, y
	g.notify(Event{Kind: NodeMoved, NodeID: id})
	return oldX, oldY, nil
}

// SetNodeProperty sets a property and returns the previous value, if any.
func (g *Graph) SetNodeProperty(id, key string, value any) (old any, had bool, err error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, false, err
	}
	old, had = n.Properties[key]
	n.Properties[key] = value
	g.notify(Event{Kind: NodeChanged, NodeID: id, Key: key})
	return old, had, nil
}

// DeleteNodeProperty removes a property.
func (g *Graph) DeleteNodeProperty(id, key string) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	delete(n.Properties, key)
	g.notify(Event{Kind: NodeChanged, NodeID: id, Key: key})
	return nil
}

// TouchNode reports an in-place change of a node's technologies.
func (g *Graph) TouchNode(id string) error {
	if _, err := g.Node(id); err != nil {
		return err
	}
	g.notify(Event{Kind: NodeChanged, NodeID: id})
	return nil
}

// DeleteNode removes a node and every edge touching it. The removed node and
// edges are returned so the deletion can be reverted.
func (g *Graph) DeleteNode(id string) (*Node, []*Edge, error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, nil, err
	}
	removed := g.ConnectedEdges(id)
	for _, e := range removed {
		g.removeEdge(e.ID)
	}
	delete(g.nodes, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(s string) bool { return s == id })
	g.notify(Event{Kind: NodeDeleted, NodeID: id})
	return n, removed, nil
}

// CreateEdge connects two existing nodes with a fresh edge ID.
func (g *Graph) CreateEdge(source, target, typ string, props map[string]any) (*Edge, error) {
	e := &Edge{ID: g.newID(), Source: source, Target: target, Type: typ, Properties: make(map[string]any)}
	for k, v := range props {
		e.Properties[k] = v
	}
	if err := g.AddEdge(e); err != nil {
		return nil, err
	}
	return e, nil
}

// AddEdge inserts an existing edge, keeping its ID. Both endpoints must exist.
func (g *Graph) AddEdge(e *Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return fmt.Errorf("%w: edge source %s", ErrNodeNotFound, e.Source)
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return fmt.Errorf("%w: edge target %s", ErrNodeNotFound, e.Target)
	}
	if _, taken := g.edges[e.ID]; taken || e.ID == "" {
		return fmt.Errorf("%w: edge %q", ErrDuplicateID, e.ID)
	}
	if e.Properties == nil {
		e.Properties = make(map[string]any)
	}
	g.edges[e.ID] = e
	g.edgeOrder = append(g.edgeOrder, e.ID)
	g.notify(Event{Kind: EdgeCreated, EdgeID: e.ID, NodeID: e.Source})
	return nil
}

// Edge looks up an edge.
func (g *Graph) Edge(id string) (*Edge, error) {
	e, ok := g.edges[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}
	return e, nil
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id])
	}
	return out
}

// EdgesFrom returns the edges leaving nodeID.
func (g *Graph) EdgesFrom(nodeID string) []*Edge {
	return g.filterEdges(func(e *Edge) bool { return e.Source == nodeID })
}

// EdgesTo returns the edges entering nodeID.
func (g *Graph) EdgesTo(nodeID string) []*Edge {
	return g.filterEdges(func(e *Edge) bool { return e.Target == nodeID })
}

// ConnectedEdges returns every edge touching nodeID.
func (g *Graph) ConnectedEdges(nodeID string) []*Edge {
	return g.filterEdges(func(e *Edge) bool { return e.Touches(nodeID) })
}

func (g *Graph) filterEdges(keep func(*Edge) bool) []*Edge {
	var out []*Edge
	for _, id := range g.edgeOrder {
		if e := g.edges[id]; keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// SetEdgeProperty sets a property and returns the previous value, if any.
func (g *Graph) SetEdgeProperty(id, key string, value any) (old any, had bool, err error) {
	e, err := g.Edge(id)
	if err != nil {
		return nil, false, err
	}
	old, had = e.Properties[key]
	e.Properties[key] = value
	g.notify(Event{Kind: EdgeChanged, EdgeID: id, Key: key})
	return old, had, nil
}

// DeleteEdge removes an edge and returns it.
func (g *Graph) DeleteEdge(id string) (*Edge, error) {
	e, err := g.Edge(id)
	if err != nil {
		return nil, err
	}
	g.removeEdge(id)
	return e, nil
}

func (g *Graph) removeEdge(id string) {
	delete(g.edges, id)
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, func(s string) bool { return s == id })
	g.notify(Event{Kind: EdgeDeleted, EdgeID: id})
}

// Reset removes every node and edge. Observers stay registered.
func (g *Graph) Reset() {
	clear(g.nodes)
	clear(g.edges)
	g.nodeOrder = nil
	g.edgeOrder = nil
	g.notify(Event{Kind: GraphReset})
}

// Clone returns a deep copy of the structure without observers.
func (g *Graph) Clone() *Graph {
	c := New(WithIDGenerator(g.newID))
	for _, n := range g.Nodes() {
		nc := n.clone()
		c.nodes[nc.ID] = nc
		c.nodeOrder = append(c.nodeOrder, nc.ID)
	}
	for _, e := range g.Edges() {
		ec := e.clone()
		c.edges[ec.ID] = ec
		c.edgeOrder = append(c.edgeOrder, ec.ID)
	}
	return c
}
