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

package actions

import (
	"fmt"

	"github.com/climact/climate-action-tool/pkg/graph"
)

// Editor applies undoable edits to a graph. Changes made to the graph
// directly, bypassing the editor, retire the affected handles so stale
// history entries are skipped.
type Editor struct {
	g        *graph.Graph
	stack    *Stack
	arena    *Arena
	applying bool
	batch    *Batch
}

// NewEditor wraps g with a fresh history.
func NewEditor(g *graph.Graph, opts ...StackOption) *Editor {
	e := &Editor{g: g, stack: NewStack(opts...), arena: NewArena()}
	g.Observe(e.observe)
	return e
}

func (e *Editor) Graph() *graph.Graph { return e.g }
func (e *Editor) Stack() *Stack       { return e.stack }
func (e *Editor) Arena() *Arena       { return e.arena }

func (e *Editor) observe(ev graph.Event) {
	if e.applying {
		return
	}
	switch ev.Kind {
	case graph.NodeDeleted:
		e.arena.RetireKey(nodeKey(ev.NodeID))
	case graph.EdgeDeleted:
		e.arena.RetireKey(edgeKey(ev.EdgeID))
	case graph.GraphReset:
		e.arena.RetireAll()
	}
}

func (e *Editor) apply(f func() error) error {
	prev := e.applying
	e.applying = true
	defer func() { e.applying = prev }()
	return f()
}

func (e *Editor) do(a Action) error {
	if e.batch == nil {
		return e.stack.Do(a)
	}
	if err := a.Execute(); err != nil {
		a.Cleanup()
		return err
	}
	e.batch.Add(a)
	return nil
}

func (e *Editor) nodeHandle(id string) (Handle, error) {
	if _, err := e.g.Node(id); err != nil {
		return 0, err
	}
	return e.arena.Issue(nodeKey(id)), nil
}

// CreateNode adds a node.
func (e *Editor) CreateNode(name string, x, y float64, props map[string]any) (*graph.Node, error) {
	a := &createNode{ed: e, name: name, x: x, y: y, props: props}
	if err := e.do(a); err != nil {
		return nil, err
	}
	return a.node, nil
}

// DeleteNode removes a node and its edges.
func (e *Editor) DeleteNode(id string) error {
	h, err := e.nodeHandle(id)
	if err != nil {
		return err
	}
	return e.do(&deleteNode{ed: e, h: h})
}

// MoveNode repositions a node.
func (e *Editor) MoveNode(id string, x, y float64) error {
	h, err := e.nodeHandle(id)
	if err != nil {
		return err
	}
	return e.do(&moveNode{ed: e, h: h, x: x, y: y})
}

// SetNodeProperty sets one node property.
func (e *Editor) SetNodeProperty(id, key string, value any) error {
	h, err := e.nodeHandle(id)
	if err != nil {
		return err
	}
	return e.do(&setNodeProperty{ed: e, h: h, key: key, value: value})
}

// CreateEdge connects two nodes.
func (e *Editor) CreateEdge(source, target, typ string, props map[string]any) (*graph.Edge, error) {
	src, err := e.nodeHandle(source)
	if err != nil {
		return nil, err
	}
	dst, err := e.nodeHandle(target)
	if err != nil {
		return nil, err
	}
	a := &createEdge{ed: e, source: src, target: dst, typ: typ, props: props}
	if err := e.do(a); err != nil {
		return nil, err
	}
	return a.edge, nil
}

// DeleteEdge removes an edge.
func (e *Editor) DeleteEdge(id string) error {
	if _, err := e.g.Edge(id); err != nil {
		return err
	}
	return e.do(&deleteEdge{ed: e, h: e.arena.Issue(edgeKey(id))})
}

// Group records every edit made by fn as one history entry. If fn fails the
// edits it made are reverted. Nested groups join the outer one.
func (e *Editor) Group(name string, fn func() error) error {
	if e.batch != nil {
		return fn()
	}
	e.batch = NewBatch(name)
	b := e.batch
	err := fn()
	e.batch = nil
	if err != nil {
		if uerr := b.Undo(); uerr != nil {
			err = fmt.Errorf("%w (rollback: %v)", err, uerr)
		}
		b.Cleanup()
		return err
	}
	if b.Len() > 0 {
		e.stack.Record(b)
	}
	return nil
}

// Undo reverts the latest edit.
func (e *Editor) Undo() (bool, error) { return e.stack.Undo() }

// Redo re-applies the latest reverted edit.
func (e *Editor) Redo() (bool, error) { return e.stack.Redo() }
