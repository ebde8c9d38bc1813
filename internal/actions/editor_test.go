package actions

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climact/climate-action-tool/pkg/graph"
)

func newEditor(t *testing.T, opts ...StackOption) *Editor {
	t.Helper()
	n := 0
	g := graph.New(graph.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	return NewEditor(g, opts...)
}

func undo(t *testing.T, e *Editor) {
	t.Helper()
	ok, err := e.Undo()
	require.NoError(t, err)
	require.True(t, ok)
}

func redo(t *testing.T, e *Editor) {
	t.Helper()
	ok, err := e.Redo()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEditorCreateNode(t *testing.T) {
	e := newEditor(t)
	n, err := e.CreateNode("Furnace", 1, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Graph().NodeCount())

	undo(t, e)
	assert.Zero(t, e.Graph().NodeCount())
	redo(t, e)
	got, err := e.Graph().Node(n.ID)
	require.NoError(t, err)
	assert.Same(t, n, got)
}

func TestEditorDeleteNodeRestoresEdges(t *testing.T) {
	e := newEditor(t)
	a, _ := e.CreateNode("a", 0, 0, nil)
	b, _ := e.CreateNode("b", 0, 0, nil)
	c, _ := e.CreateNode("c", 0, 0, nil)
	_, err := e.CreateEdge(a.ID, b.ID, "flow", nil)
	require.NoError(t, err)
	_, err = e.CreateEdge(b.ID, c.ID, "flow", nil)
	require.NoError(t, err)

	require.NoError(t, e.DeleteNode(b.ID))
	assert.Equal(t, 2, e.Graph().NodeCount())
	assert.Zero(t, e.Graph().EdgeCount())

	undo(t, e)
	assert.Equal(t, 3, e.Graph().NodeCount())
	assert.Equal(t, 2, e.Graph().EdgeCount())

	redo(t, e)
	assert.Zero(t, e.Graph().EdgeCount())
}

func TestEditorMoveAndProperty(t *testing.T) {
	e := newEditor(t)
	n, _ := e.CreateNode("a", 1, 1, map[string]any{"k": "before"})

	require.NoError(t, e.MoveNode(n.ID, 5, 7))
	require.NoError(t, e.SetNodeProperty(n.ID, "k", "after"))
	require.NoError(t, e.SetNodeProperty(n.ID, "fresh", 1))

	undo(t, e)
	assert.NotContains(t, n.Properties, "fresh")
	undo(t, e)
	assert.Equal(t, "before", n.Properties["k"])
	undo(t, e)
	assert.Equal(t, []float64{1, 1}, []float64{n.X, n.Y})

	redo(t, e)
	assert.Equal(t, []float64{5, 7}, []float64{n.X, n.Y})
}

func TestEditorEdges(t *testing.T) {
	e := newEditor(t)
	a, _ := e.CreateNode("a", 0, 0, nil)
	b, _ := e.CreateNode("b", 0, 0, nil)

	_, err := e.CreateEdge(a.ID, "ghost", "flow", nil)
	assert.True(t, errors.Is(err, graph.ErrNodeNotFound))

	edge, err := e.CreateEdge(a.ID, b.ID, "flow", map[string]any{"w": 2})
	require.NoError(t, err)
	require.NoError(t, e.DeleteEdge(edge.ID))
	assert.Zero(t, e.Graph().EdgeCount())

	undo(t, e)
	got, err := e.Graph().Edge(edge.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Properties["w"])
	undo(t, e)
	assert.Zero(t, e.Graph().EdgeCount())
	redo(t, e)
	assert.Equal(t, 1, e.Graph().EdgeCount())
}

func TestEditorExternalDeletionMakesActionsObsolete(t *testing.T) {
	e := newEditor(t)
	a, _ := e.CreateNode("a", 0, 0, nil)
	b, _ := e.CreateNode("b", 0, 0, nil)
	require.NoError(t, e.MoveNode(b.ID, 3, 3))

	// bypass the editor
	_, _, err := e.Graph().DeleteNode(b.ID)
	require.NoError(t, err)

	// the move and the creation of b are skipped, the creation of a is undone
	undo(t, e)
	assert.Zero(t, e.Graph().NodeCount())
	assert.False(t, e.Stack().CanUndo())

	redo(t, e)
	_, err = e.Graph().Node(a.ID)
	assert.NoError(t, err)
	assert.False(t, e.Stack().CanRedo())
}

func TestEditorResetRetiresEverything(t *testing.T) {
	e := newEditor(t)
	_, _ = e.CreateNode("a", 0, 0, nil)
	e.Graph().Reset()
	assert.Zero(t, e.Arena().Live())
	assert.False(t, e.Stack().CanUndo())
}

func TestEditorGroup(t *testing.T) {
	e := newEditor(t)
	err := e.Group("pair", func() error {
		a, err := e.CreateNode("a", 0, 0, nil)
		if err != nil {
			return err
		}
		b, err := e.CreateNode("b", 0, 0, nil)
		if err != nil {
			return err
		}
		_, err = e.CreateEdge(a.ID, b.ID, "flow", nil)
		return err
	})
	require.NoError(t, err)
	undoLen, _ := e.Stack().Len()
	assert.Equal(t, 1, undoLen)

	undo(t, e)
	assert.Zero(t, e.Graph().NodeCount())
	redo(t, e)
	assert.Equal(t, 2, e.Graph().NodeCount())
	assert.Equal(t, 1, e.Graph().EdgeCount())
}

func TestEditorGroupRollsBack(t *testing.T) {
	e := newEditor(t)
	err := e.Group("broken", func() error {
		a, _ := e.CreateNode("a", 0, 0, nil)
		_, err := e.CreateEdge(a.ID, "ghost", "flow", nil)
		return err
	})
	assert.True(t, errors.Is(err, graph.ErrNodeNotFound))
	assert.Zero(t, e.Graph().NodeCount())
	assert.False(t, e.Stack().CanUndo())
}

func TestEditorHistoryBound(t *testing.T) {
	e := newEditor(t, WithMaxUndo(2))
	n, _ := e.CreateNode("a", 0, 0, nil)
	for i := 1; i <= 3; i++ {
		require.NoError(t, e.MoveNode(n.ID, float64(i), 0))
	}
	undo(t, e)
	undo(t, e)
	ok, err := e.Undo()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1.0, n.X)
}
