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
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoData is returned when aggregating an empty set of points.
var ErrNoData = errors.New("no data points")

// AggregationType defines supported aggregation functions.
type AggregationType string

const (
	// Basic aggregations
	AggSum   AggregationType = "sum"
	AggAvg   AggregationType = "avg"
	AggMax   AggregationType = "max"
	AggMin   AggregationType = "min"
	AggCount AggregationType = "count"
	AggLast  AggregationType = "last"

	// Percentile aggregations
	AggP50 AggregationType = "p50"
	AggP95 AggregationType = "p95"
	AggP99 AggregationType = "p99"

	// Change between the first and the last point
	AggDelta AggregationType = "delta"
)

// StandardAggregations are the aggregations offered on the command line.
var StandardAggregations = []AggregationType{
	AggSum,
	AggAvg,
	AggMin,
	AggMax,
	AggLast,
	AggCount,
	AggP50,
	AggP95,
	AggP99,
	AggDelta,
}

// ParseAggregation validates an aggregation name.
func ParseAggregation(s string) (AggregationType, error) {
	agg := AggregationType(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(StandardAggregations, agg) {
		return agg, nil
	}
	return "", fmt.Errorf("unsupported aggregation %q", s)
}

// Aggregate reduces values in point order.
func Aggregate(values []float64, agg AggregationType) (float64, error) {
	if agg == AggCount {
		return float64(len(values)), nil
	}
	if len(values) == 0 {
		return 0, ErrNoData
	}
	switch agg {
	case AggSum:
		return floats.Sum(values), nil
	case AggAvg:
		return stat.Mean(values, nil), nil
	case AggMin:
		return floats.Min(values), nil
	case AggMax:
		return floats.Max(values), nil
	case AggLast:
		return values[len(values)-1], nil
	case AggDelta:
		return values[len(values)-1] - values[0], nil
	case AggP50, AggP95, AggP99:
		sorted := slices.Clone(values)
		sort.Float64s(sorted)
		return stat.Quantile(percentile(agg), stat.Empirical, sorted, nil), nil
	default:
		return 0, fmt.Errorf("unsupported aggregation %q", agg)
	}
}

func percentile(agg AggregationType) float64 {
	switch agg {
	case AggP50:
		return 0.50
	case AggP95:
		return 0.95
	default:
		return 0.99
	}
}

// DataPoint is one sample at model time Time.
type DataPoint struct {
	Time  float64
	Value float64
}

// TimeSeries represents a sequence of data points over model time.
// Note: This type is not thread-safe. Concurrency control is handled by
// the Cache.
type TimeSeries struct {
	// Metric is the name of the metric.
	Metric string

	// Labels are the label key-value pairs identifying this time series.
	Labels map[string]string

	// Units of every value in the series.
	Units string

	// Points are the data points in chronological order.
	Points []DataPoint
}

// NewTimeSeries creates a new TimeSeries with the given metric name and labels.
func NewTimeSeries(metric string, labels map[string]string, units string) *TimeSeries {
	return &TimeSeries{
		Metric: metric,
		Labels: labels,
		Units:  units,
		Points: make([]DataPoint, 0),
	}
}

// AddPoint adds a data point to the time series.
func (ts *TimeSeries) AddPoint(t, value float64) {
	ts.Points = append(ts.Points, DataPoint{Time: t, Value: value})
}

// Latest returns the most recent data point, or nil if empty.
func (ts *TimeSeries) Latest() *DataPoint {
	if len(ts.Points) == 0 {
		return nil
	}
	return &ts.Points[len(ts.Points)-1]
}

// LatestValue returns the most recent value, or 0 if empty.
func (ts *TimeSeries) LatestValue() float64 {
	if len(ts.Points) == 0 {
		return 0
	}
	return ts.Points[len(ts.Points)-1].Value
}

// InWindow returns data points with from <= Time <= to.
func (ts *TimeSeries) InWindow(from, to float64) []DataPoint {
	var result []DataPoint
	for _, p := range ts.Points {
		if p.Time >= from && p.Time <= to {
			result = append(result, p)
		}
	}
	return result
}

// Values returns the point values in order.
func (ts *TimeSeries) Values() []float64 {
	out := make([]float64, len(ts.Points))
	for i, p := range ts.Points {
		out[i] = p.Value
	}
	return out
}

// Aggregate reduces the series.
func (ts *TimeSeries) Aggregate(agg AggregationType) (float64, error) {
	return Aggregate(ts.Values(), agg)
}

// LabelSetKey returns a string key representing the label set.
func (ts *TimeSeries) LabelSetKey() string {
	return LabelSetToKey(ts.Labels)
}

// LabelSetToKey converts a label map to a deterministic string key.
func LabelSetToKey(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, labels[k])
	}
	return strings.Join(parts, ",")
}

// Matches reports whether every matcher label is present with the same value.
func Matches(labels, matchers map[string]string) bool {
	for k, v := range matchers {
		if labels[k] != v {
			return false
		}
	}
	return true
}
