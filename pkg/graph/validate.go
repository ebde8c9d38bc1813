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
	"errors"
	"fmt"
)

var (
	// ErrDanglingEdge is reported for an edge whose endpoint is not a node.
	ErrDanglingEdge = errors.New("dangling edge")
	// ErrInvalidResource is reported for a resource or parameter record that
	// does not decode.
	ErrInvalidResource = errors.New("invalid resource")
	// ErrNoMatchingStream is reported, as a warning, for an edge whose source
	// produces nothing its target consumes.
	ErrNoMatchingStream = errors.New("no matching stream")
)

// DanglingEdgeError names the edge and the missing endpoint.
type DanglingEdgeError struct {
	EdgeID string
	NodeID string
}

func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("edge %s references missing node %q", e.EdgeID, e.NodeID)
}

func (e *DanglingEdgeError) Is(target error) bool { return target == ErrDanglingEdge }

// InvalidResourceError locates a record that failed to decode.
type InvalidResourceError struct {
	NodeID     string
	Technology string
	Section    string
	Name       string
	Err        error
}

func (e *InvalidResourceError) Error() string {
	return fmt.Sprintf("node %s technology %s %s %q: %v", e.NodeID, e.Technology, e.Section, e.Name, e.Err)
}

func (e *InvalidResourceError) Is(target error) bool { return target == ErrInvalidResource }

func (e *InvalidResourceError) Unwrap() error { return e.Err }

// ValidationReport is the outcome of validating a document. Problems prevent
// loading; warnings do not.
type ValidationReport struct {
	Problems []error
	Warnings []error
}

// Err joins the problems, or returns nil when there are none.
func (r ValidationReport) Err() error { return errors.Join(r.Problems...) }

// OK reports whether the document can be loaded.
func (r ValidationReport) OK() bool { return len(r.Problems) == 0 }

// Validate checks doc without building a graph. Every problem is reported,
// not only the first.
func (c *Codec) Validate(doc Document) ValidationReport {
	var r ValidationReport
	if doc.Version > DocumentVersion {
		r.Problems = append(r.Problems, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version))
	}

	nodes := make(map[string]NodeRecord, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.ID == "" {
			r.Problems = append(r.Problems, fmt.Errorf("%w: node %q has an empty id", ErrDuplicateID, n.Name))
			continue
		}
		if _, dup := nodes[n.ID]; dup {
			r.Problems = append(r.Problems, fmt.Errorf("%w: node %s", ErrDuplicateID, n.ID))
			continue
		}
		nodes[n.ID] = n
		r.Problems = append(r.Problems, c.validateNode(n)...)
	}

	edges := make(map[string]struct{}, len(doc.Edges))
	for _, e := range doc.Edges {
		if _, dup := edges[e.ID]; dup || e.ID == "" {
			r.Problems = append(r.Problems, fmt.Errorf("%w: edge %q", ErrDuplicateID, e.ID))
			continue
		}
		edges[e.ID] = struct{}{}

		src, srcOK := nodes[e.Source]
		dst, dstOK := nodes[e.Target]
		if !srcOK {
			r.Problems = append(r.Problems, &DanglingEdgeError{EdgeID: e.ID, NodeID: e.Source})
		}
		if !dstOK {
			r.Problems = append(r.Problems, &DanglingEdgeError{EdgeID: e.ID, NodeID: e.Target})
		}
		if srcOK && dstOK {
			if err := matchStreams(e.ID, recordStreams(src, Produced), recordStreams(dst, Consumed)); err != nil {
				r.Warnings = append(r.Warnings, err)
			}
		}
	}
	return r
}

func (c *Codec) validateNode(n NodeRecord) []error {
	var errs []error
	for _, tech := range sortedKeys(n.Technologies) {
		rec := n.Technologies[tech]
		sections := []struct {
			name    string
			records map[string]map[string]any
		}{
			{string(Consumed), rec.Consumed},
			{string(Produced), rec.Produced},
		}
		for _, s := range sections {
			for _, name := range sortedKeys(s.records) {
				if _, err := c.catalog.FromMap(s.records[name]); err != nil {
					errs = append(errs, &InvalidResourceError{NodeID: n.ID, Technology: tech, Section: s.name, Name: name, Err: err})
				}
			}
		}
		for _, name := range sortedKeys(rec.Params) {
			if _, err := c.catalog.Codec().FromMap(rec.Params[name]); err != nil {
				errs = append(errs, &InvalidResourceError{NodeID: n.ID, Technology: tech, Section: "params", Name: name, Err: err})
			}
		}
	}
	return errs
}

func recordStreams(n NodeRecord, dir Direction) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range n.Technologies {
		src := t.Consumed
		if dir == Produced {
			src = t.Produced
		}
		for name := range src {
			out[name] = struct{}{}
		}
	}
	return out
}

// matchStreams only complains when both ends declare streams; an empty side
// is a node still being edited.
func matchStreams(edgeID string, produced, consumed map[string]struct{}) error {
	if len(produced) == 0 || len(consumed) == 0 {
		return nil
	}
	for name := range produced {
		if _, ok := consumed[name]; ok {
			return nil
		}
	}
	return fmt.Errorf("%w: edge %s", ErrNoMatchingStream, edgeID)
}

// CheckStreams returns a warning for every edge of g whose endpoints share
// no stream.
func (g *Graph) CheckStreams() []error {
	var out []error
	for _, e := range g.Edges() {
		src, dst := g.nodes[e.Source], g.nodes[e.Target]
		if err := matchStreams(e.ID, src.Streams(Produced), dst.Streams(Consumed)); err != nil {
			out = append(out, err)
		}
	}
	return out
}
