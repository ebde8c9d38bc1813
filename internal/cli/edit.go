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

package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/climact/climate-action-tool/internal/actions"
	"github.com/climact/climate-action-tool/internal/logging"
	"github.com/climact/climate-action-tool/pkg/graph"
)

func (a *app) graphEditCommand() *cobra.Command {
	var (
		ops    []string
		out    string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "edit FILE --op OPERATION...",
		Short: "Apply editing operations to a graph document",
		Long: `Apply editing operations in order and save the result. Nodes are named by
id or by a unique name. Operations joined with ";" in one --op form a single
history entry, so a later undo reverts them together.

  add-node NAME X Y        delete-node NODE
  move NODE X Y            set NODE KEY VALUE
  connect SOURCE TARGET TYPE
  delete-edge EDGE         undo        redo`,
		Example: `  climact graph edit plant.json --op "add-node Mill 3 4" --op "connect Plant Mill material"
  climact graph edit plant.json --op "delete-node Mill" --op undo --out copy.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(ops) == 0 {
				return fmt.Errorf("no --op given")
			}
			g, err := a.loadGraph(args[0])
			if err != nil {
				return err
			}
			a.metrics.ObserveGraph(g)
			ed := actions.NewEditor(g,
				actions.WithMaxUndo(a.cfg.History.MaxUndo),
				actions.WithLogger(a.log.WithName("history")))

			for i, op := range ops {
				if err := a.applyOp(ed, op); err != nil {
					return fmt.Errorf("--op #%d %q: %w", i+1, op, err)
				}
			}
			undo, redo := ed.Stack().Len()
			a.log.V(logging.DEBUG).Info("Applied edits", "operations", len(ops), "undo", undo, "redo", redo)
			fmt.Fprintf(a.out, "%d nodes, %d edges (history: %d undo, %d redo)\n",
				g.NodeCount(), g.EdgeCount(), undo, redo)
			for _, w := range g.CheckStreams() {
				fmt.Fprintf(a.out, "warning: %v\n", w)
			}

			if dryRun {
				return nil
			}
			dest := out
			if dest == "" {
				dest = args[0]
			}
			if dest == "-" {
				return a.graphs.Write(a.out, g)
			}
			return a.graphs.Save(dest, g)
		},
	}
	fs := cmd.Flags()
	fs.StringArrayVar(&ops, "op", nil, "editing operation, repeatable")
	fs.StringVar(&out, "out", "", `write the result here instead of FILE ("-" for stdout)`)
	fs.BoolVar(&dryRun, "dry-run", false, "apply the operations without saving")
	return cmd
}

// applyOp runs one --op value; several ";"-separated steps are grouped.
func (a *app) applyOp(ed *actions.Editor, op string) error {
	var steps [][]string
	for _, s := range strings.Split(op, ";") {
		if fields := strings.Fields(s); len(fields) > 0 {
			steps = append(steps, fields)
		}
	}
	switch len(steps) {
	case 0:
		return fmt.Errorf("empty operation")
	case 1:
		return applyStep(ed, steps[0])
	}
	return ed.Group(op, func() error {
		for _, step := range steps {
			if step[0] == "undo" || step[0] == "redo" {
				return fmt.Errorf("%s cannot be grouped", step[0])
			}
			if err := applyStep(ed, step); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyStep(ed *actions.Editor, step []string) error {
	g := ed.Graph()
	verb, args := step[0], step[1:]
	want := map[string]int{
		"add-node": 3, "delete-node": 1, "move": 3, "set": 3,
		"connect": 3, "delete-edge": 1, "undo": 0, "redo": 0,
	}
	n, known := want[verb]
	if !known {
		return fmt.Errorf("unknown operation %q", verb)
	}
	if len(args) != n {
		return fmt.Errorf("%s takes %d argument(s), got %d", verb, n, len(args))
	}

	switch verb {
	case "add-node":
		x, y, err := position(args[1], args[2])
		if err != nil {
			return err
		}
		_, err = ed.CreateNode(args[0], x, y, nil)
		return err
	case "delete-node":
		id, err := resolveNode(g, args[0])
		if err != nil {
			return err
		}
		return ed.DeleteNode(id)
	case "move":
		id, err := resolveNode(g, args[0])
		if err != nil {
			return err
		}
		x, y, err := position(args[1], args[2])
		if err != nil {
			return err
		}
		return ed.MoveNode(id, x, y)
	case "set":
		id, err := resolveNode(g, args[0])
		if err != nil {
			return err
		}
		return ed.SetNodeProperty(id, args[1], propertyValue(args[2]))
	case "connect":
		src, err := resolveNode(g, args[0])
		if err != nil {
			return err
		}
		dst, err := resolveNode(g, args[1])
		if err != nil {
			return err
		}
		_, err = ed.CreateEdge(src, dst, args[2], nil)
		return err
	case "delete-edge":
		return ed.DeleteEdge(args[0])
	case "undo":
		ok, err := ed.Undo()
		if err == nil && !ok {
			err = fmt.Errorf("nothing to undo")
		}
		return err
	default:
		ok, err := ed.Redo()
		if err == nil && !ok {
			err = fmt.Errorf("nothing to redo")
		}
		return err
	}
}

// resolveNode accepts a node id or a name carried by exactly one node.
func resolveNode(g *graph.Graph, ref string) (string, error) {
	if n, err := g.Node(ref); err == nil {
		return n.ID, nil
	}
	var found []string
	for _, n := range g.Nodes() {
		if n.Name == ref {
			found = append(found, n.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s", graph.ErrNodeNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("node name %q is ambiguous (%d nodes)", ref, len(found))
	}
}

func position(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("x %q is not a number", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("y %q is not a number", ys)
	}
	return x, y, nil
}

// propertyValue keeps JSON literals typed and everything else as a string.
func propertyValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
