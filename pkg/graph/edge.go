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

import "maps"

// Edge is a directed flow between two nodes.
type Edge struct {
	ID         string
	Source     string
	Target     string
	Type       string
	Properties map[string]any
}

// Touches reports whether the edge starts or ends at nodeID.
func (e *Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

func (e *Edge) clone() *Edge {
	c := *e
	c.Properties = maps.Clone(e.Properties)
	if c.Properties == nil {
		c.Properties = make(map[string]any)
	}
	return &c
}
