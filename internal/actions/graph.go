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
	"errors"
	"fmt"
	"strings"

	"github.com/climact/climate-action-tool/pkg/graph"
)

// ErrTargetRetired is returned when an action runs against a target that no
// longer exists.
var ErrTargetRetired = errors.New("action target retired")

func nodeKey(id string) string { return "node/" + id }
func edgeKey(id string) string { return "edge/" + id }

// target resolves a handle to the graph ID it was issued for.
func (e *Editor) target(h Handle) (string, error) {
	key, ok := e.arena.Key(h)
	if !ok {
		return "", ErrTargetRetired
	}
	_, id, _ := strings.Cut(key, "/")
	return id, nil
}

// restoreEdges re-inserts edges removed together with a node.
func (e *Editor) restoreEdges(edges []*graph.Edge) error {
	var errs []error
	for _, edge := range edges {
		if err := e.g.AddEdge(edge); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type createNode struct {
	ed    *Editor
	name  string
	x, y  float64
	props map[string]any
	node  *graph.Node
	edges []*graph.Edge
	h     Handle
}

func (a *createNode) Execute() error {
	return a.ed.apply(func() error {
		a.node = a.ed.g.CreateNode(a.name, a.x, a.y, a.props)
		a.h = a.ed.arena.Issue(nodeKey(a.node.ID))
		return nil
	})
}

func (a *createNode) Undo() error {
	return a.ed.apply(func() error {
		_, edges, err := a.ed.g.DeleteNode(a.node.ID)
		a.edges = edges
		return err
	})
}

func (a *createNode) Redo() error {
	return a.ed.apply(func() error {
		if err := a.ed.g.AddNode(a.node); err != nil {
			return err
		}
		return a.ed.restoreEdges(a.edges)
	})
}

func (a *createNode) Obsolete() bool { return !a.ed.arena.Alive(a.h) }

// Cleanup retires the node when it leaves the history while undone.
func (a *createNode) Cleanup() {
	if a.node == nil {
		return
	}
	if _, err := a.ed.g.Node(a.node.ID); err != nil {
		a.ed.arena.Retire(a.h)
	}
}

func (a *createNode) String() string { return fmt.Sprintf("CreateNode(%s)", a.name) }

type deleteNode struct {
	ed    *Editor
	h     Handle
	node  *graph.Node
	edges []*graph.Edge
}

func (a *deleteNode) Execute() error { return a.delete() }
func (a *deleteNode) Redo() error    { return a.delete() }

func (a *deleteNode) delete() error {
	return a.ed.apply(func() error {
		id, err := a.ed.target(a.h)
		if err != nil {
			return err
		}
		n, edges, err := a.ed.g.DeleteNode(id)
		if err != nil {
			return err
		}
		a.node, a.edges = n, edges
		return nil
	})
}

func (a *deleteNode) Undo() error {
	return a.ed.apply(func() error {
		if err := a.ed.g.AddNode(a.node); err != nil {
			return err
		}
		return a.ed.restoreEdges(a.edges)
	})
}

func (a *deleteNode) Obsolete() bool { return !a.ed.arena.Alive(a.h) }

// Cleanup retires the node when it leaves the history while deleted.
func (a *deleteNode) Cleanup() {
	if a.node == nil {
		return
	}
	if _, err := a.ed.g.Node(a.node.ID); err != nil {
		a.ed.arena.Retire(a.h)
		for _, edge := range a.edges {
			a.ed.arena.RetireKey(edgeKey(edge.ID))
		}
	}
}

func (a *deleteNode) String() string { return fmt.Sprintf("DeleteNode(%d)", a.h) }

type moveNode struct {
	ed         *Editor
	h          Handle
	x, y       float64
	oldX, oldY float64
}

func (a *moveNode) move(x, y float64, keep bool) error {
	return a.ed.apply(func() error {
		id, err := a.ed.target(a.h)
		if err != nil {
			return err
		}
		oldX, oldY, err := a.ed.g.MoveNode(id, x, y)
		if err == nil && keep {
			a.oldX, a.oldY = oldX, oldY
		}
		return err
	})
}

func (a *moveNode) Execute() error { return a.move(a.x, a.y, true) }
func (a *moveNode) Undo() error    { return a.move(a.oldX, a.oldY, false) }
func (a *moveNode) Redo() error    { return a.move(a.x, a.y, false) }
func (a *moveNode) Obsolete() bool { return !a.ed.arena.Alive(a.h) }
func (a *moveNode) Cleanup()       {}
func (a *moveNode) String() string { return fmt.Sprintf("MoveNode(%d -> %g,%g)", a.h, a.x, a.y) }

type setNodeProperty struct {
	ed    *Editor
	h     Handle
	key   string
	value any
	old   any
	had   bool
}

func (a *setNodeProperty) set(keep bool) error {
	return a.ed.apply(func() error {
		id, err := a.ed.target(a.h)
		if err != nil {
			return err
		}
		old, had, err := a.ed.g.SetNodeProperty(id, a.key, a.value)
		if err == nil && keep {
			a.old, a.had = old, had
		}
		return err
	})
}

func (a *setNodeProperty) Execute() error { return a.set(true) }
func (a *setNodeProperty) Redo() error    { return a.set(false) }

func (a *setNodeProperty) Undo() error {
	return a.ed.apply(func() error {
		id, err := a.ed.target(a.h)
		if err != nil {
			return err
		}
		if !a.had {
			return a.ed.g.DeleteNodeProperty(id, a.key)
		}
		_, _, err = a.ed.g.SetNodeProperty(id, a.key, a.old)
		return err
	})
}

func (a *setNodeProperty) Obsolete() bool { return !a.ed.arena.Alive(a.h) }
func (a *setNodeProperty) Cleanup()       {}
func (a *setNodeProperty) String() string { return fmt.Sprintf("SetNodeProperty(%d.%s)", a.h, a.key) }

type createEdge struct {
	ed             *Editor
	source, target Handle
	typ            string
	props          map[string]any
	edge           *graph.Edge
	h              Handle
}

func (a *createEdge) Execute() error {
	return a.ed.apply(func() error {
		src, err := a.ed.target(a.source)
		if err != nil {
			return err
		}
		dst, err := a.ed.target(a.target)
		if err != nil {
			return err
		}
		edge, err := a.ed.g.CreateEdge(src, dst, a.typ, a.props)
		if err != nil {
			return err
		}
		a.edge = edge
		a.h = a.ed.arena.Issue(edgeKey(edge.ID))
		return nil
	})
}

func (a *createEdge) Undo() error {
	return a.ed.apply(func() error {
		_, err := a.ed.g.DeleteEdge(a.edge.ID)
		return err
	})
}

func (a *createEdge) Redo() error {
	return a.ed.apply(func() error { return a.ed.g.AddEdge(a.edge) })
}

func (a *createEdge) Obsolete() bool {
	return !a.ed.arena.Alive(a.h) || !a.ed.arena.Alive(a.source) || !a.ed.arena.Alive(a.target)
}

func (a *createEdge) Cleanup() {
	if a.edge == nil {
		return
	}
	if _, err := a.ed.g.Edge(a.edge.ID); err != nil {
		a.ed.arena.Retire(a.h)
	}
}

func (a *createEdge) String() string { return fmt.Sprintf("CreateEdge(%d -> %d)", a.source, a.target) }

type deleteEdge struct {
	ed   *Editor
	h    Handle
	edge *graph.Edge
}

func (a *deleteEdge) Execute() error { return a.delete() }
func (a *deleteEdge) Redo() error    { return a.delete() }

func (a *deleteEdge) delete() error {
	return a.ed.apply(func() error {
		id, err := a.ed.target(a.h)
		if err != nil {
			return err
		}
		edge, err := a.ed.g.DeleteEdge(id)
		if err == nil {
			a.edge = edge
		}
		return err
	})
}

func (a *deleteEdge) Undo() error {
	return a.ed.apply(func() error { return a.ed.g.AddEdge(a.edge) })
}

func (a *deleteEdge) Obsolete() bool { return !a.ed.arena.Alive(a.h) }

func (a *deleteEdge) Cleanup() {
	if a.edge == nil {
		return
	}
	if _, err := a.ed.g.Edge(a.edge.ID); err != nil {
		a.ed.arena.Retire(a.h)
	}
}

func (a *deleteEdge) String() string { return fmt.Sprintf("DeleteEdge(%d)", a.h) }
