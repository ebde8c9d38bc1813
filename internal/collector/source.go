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

package collector

import (
	"context"
	"fmt"
	"slices"

	"github.com/climact/climate-action-tool/internal/metricscache"
	"github.com/climact/climate-action-tool/pkg/graph"
	"github.com/climact/climate-action-tool/pkg/resource"
)

// MetricSource is the interface for pluggable series sources.
type MetricSource interface {
	// Name returns the unique name of this source.
	Name() string

	// Collect samples every series the source provides at the given times.
	Collect(ctx context.Context, times []float64) ([]*metricscache.TimeSeries, error)
}

// GraphSource samples the time-varying fields of every composite in a graph.
type GraphSource struct {
	name string
	g    *graph.Graph
}

var _ MetricSource = (*GraphSource)(nil)

// NewGraphSource returns a source over g.
func NewGraphSource(name string, g *graph.Graph) *GraphSource {
	return &GraphSource{name: name, g: g}
}

func (s *GraphSource) Name() string { return s.name }

// Collect emits one series per sampled field. A field is sampled when its
// schema marks it variable or when it carries a profile.
func (s *GraphSource) Collect(ctx context.Context, times []float64) ([]*metricscache.TimeSeries, error) {
	var out []*metricscache.TimeSeries
	for _, n := range s.g.Nodes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, tech := range n.TechnologyNames() {
			t := n.Technologies[tech]
			for _, dir := range []graph.Direction{graph.Consumed, graph.Produced} {
				resources := t.Resources(dir)
				names := make([]string, 0, len(resources))
				for name := range resources {
					names = append(names, name)
				}
				slices.Sort(names)
				for _, name := range names {
					labels := map[string]string{
						LabelNode:       n.ID,
						LabelTechnology: tech,
						LabelDirection:  string(dir),
						LabelResource:   name,
					}
					series, err := sample(resources[name], labels, times)
					if err != nil {
						return nil, fmt.Errorf("node %s %s %s %q: %w", n.ID, tech, dir, name, err)
					}
					out = append(out, series...)
				}
			}
		}
	}
	return out, nil
}

// SampledFields returns the fields of c that vary over time, in schema order.
func SampledFields(c *resource.Composite) []string {
	schema := c.Schema()
	var out []string
	for _, f := range append([]*resource.Field{schema.Primary()}, schema.Fields()...) {
		_, profiled := c.Parameter(f.Name())
		if f.IsVariable() || profiled {
			out = append(out, f.Name())
		}
	}
	return out
}

func sample(c *resource.Composite, base map[string]string, times []float64) ([]*metricscache.TimeSeries, error) {
	var out []*metricscache.TimeSeries
	for _, field := range SampledFields(c) {
		labels := make(map[string]string, len(base)+2)
		for k, v := range base {
			labels[k] = v
		}
		labels[LabelField] = field
		labels[LabelType] = c.Type()

		var ts *metricscache.TimeSeries
		for _, t := range times {
			q, err := c.ValueAt(field, t)
			if err != nil {
				return nil, err
			}
			if ts == nil {
				ts = metricscache.NewTimeSeries(FieldMetric, labels, q.Units())
			}
			ts.AddPoint(t, q.Value())
		}
		if ts == nil {
			ts = metricscache.NewTimeSeries(FieldMetric, labels, "")
		}
		out = append(out, ts)
	}
	return out, nil
}
