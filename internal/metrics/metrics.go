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

// Package metrics counts tool activity on a private prometheus registry and
// exports it as a node-exporter textfile or in text exposition format.
package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"

	"github.com/climact/climate-action-tool/pkg/graph"
)

const namespace = "climact"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Record kinds counted by RecordDecode.
const (
	KindQuantity  = "quantity"
	KindProfile   = "profile"
	KindComposite = "composite"
	KindGraph     = "graph"
)

// Metrics holds every collector of the tool. It is safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	conversions  *prometheus.CounterVec
	decodes      *prometheus.CounterVec
	graphEvents  *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unit_conversions_total",
			Help:      "Unit conversions by outcome.",
		}, []string{"outcome"}),
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_decodes_total",
			Help:      "Serialized records decoded, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		graphEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_mutations_total",
			Help:      "Graph mutations by event kind.",
		}, []string{"event"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_load_duration_seconds",
			Help:      "Time spent loading documents, by kind.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.conversions,
		m.decodes,
		m.graphEvents,
		m.loadDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// RecordConversion counts one unit conversion.
func (m *Metrics) RecordConversion(err error) {
	m.conversions.WithLabelValues(outcome(err)).Inc()
}

// RecordDecode counts one decoded record of kind.
func (m *Metrics) RecordDecode(kind string, err error) {
	m.decodes.WithLabelValues(kind, outcome(err)).Inc()
}

// TimeLoad starts timing a document load; call the result when done.
func (m *Metrics) TimeLoad(kind string) func() {
	timer := prometheus.NewTimer(m.loadDuration.WithLabelValues(kind))
	return func() { timer.ObserveDuration() }
}

// ObserveGraph counts every later mutation of g.
func (m *Metrics) ObserveGraph(g *graph.Graph) {
	g.Observe(func(e graph.Event) {
		m.graphEvents.WithLabelValues(string(e.Kind)).Inc()
	})
}

// WriteTextfile writes the registry to path for the node-exporter textfile
// collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

// WriteText writes the tool's own metric families in text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
