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

package metricscache

import (
	"time"
)

// Reader provides read-only access to the metrics cache.
// This interface is used by reports to query sampled series.
type Reader interface {
	// GetTimeSeries returns the series stored under metric and the exact label set.
	// Returns nil if the series is not found in the cache.
	GetTimeSeries(metric string, labels map[string]string) *TimeSeries

	// Select returns every series of metric whose labels include matchers,
	// ordered by label set.
	Select(metric string, matchers map[string]string) []*TimeSeries

	// GetAggregated reduces the selected series per group. Series are grouped
	// by the values of the groupBy labels; the key of each group is its label
	// set key.
	GetAggregated(metric string, aggType AggregationType, matchers map[string]string, groupBy []string) (map[string]float64, error)

	// GetLatestValue returns the most recent value for a metric with the given labels.
	// Returns 0 if the metric is not found.
	GetLatestValue(metric string, labels map[string]string) float64

	// Metrics returns the stored metric names in sorted order.
	Metrics() []string

	// IsStale returns true if the cache has not been updated within the TTL.
	IsStale() bool

	// LastCollectionTime returns the timestamp of the last successful collection.
	LastCollectionTime() time.Time
}

// Writer provides write access to the metrics cache.
// This interface is used by the collector to store sampled series.
type Writer interface {
	// UpdateTimeSeries stores a series, replacing any with the same metric and labels.
	UpdateTimeSeries(ts *TimeSeries)

	// MarkCollectionComplete marks the collection cycle as complete.
	// This updates the last collection timestamp.
	MarkCollectionComplete()

	// Reset drops every stored series.
	Reset()
}

// ReadWriter combines both read and write access to the cache.
type ReadWriter interface {
	Reader
	Writer
}
