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

// Package metricscache stores sampled time series and aggregates them.
package metricscache

import (
	"sort"
	"sync"
	"time"
)

// Cache is a goroutine-safe in-memory ReadWriter.
type Cache struct {
	mu             sync.RWMutex
	series         map[string]map[string]*TimeSeries
	lastCollection time.Time
	ttl            time.Duration
	now            func() time.Time
}

var _ ReadWriter = (*Cache)(nil)

// NewCache returns an empty cache. A zero ttl never goes stale once filled.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		series: make(map[string]map[string]*TimeSeries),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *Cache) UpdateTimeSeries(ts *TimeSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byLabels, ok := c.series[ts.Metric]
	if !ok {
		byLabels = make(map[string]*TimeSeries)
		c.series[ts.Metric] = byLabels
	}
	byLabels[ts.LabelSetKey()] = ts
}

func (c *Cache) MarkCollectionComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastCollection = c.now()
}

func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.series)
	c.lastCollection = time.Time{}
}

func (c *Cache) GetTimeSeries(metric string, labels map[string]string) *TimeSeries {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.series[metric][LabelSetToKey(labels)]
}

func (c *Cache) Select(metric string, matchers map[string]string) []*TimeSeries {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byLabels := c.series[metric]
	keys := make([]string, 0, len(byLabels))
	for k, ts := range byLabels {
		if Matches(ts.Labels, matchers) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]*TimeSeries, len(keys))
	for i, k := range keys {
		out[i] = byLabels[k]
	}
	return out
}

func (c *Cache) GetAggregated(metric string, aggType AggregationType, matchers map[string]string, groupBy []string) (map[string]float64, error) {
	groups := make(map[string][]float64)
	for _, ts := range c.Select(metric, matchers) {
		group := make(map[string]string, len(groupBy))
		for _, l := range groupBy {
			group[l] = ts.Labels[l]
		}
		key := LabelSetToKey(group)
		groups[key] = append(groups[key], ts.Values()...)
	}
	out := make(map[string]float64, len(groups))
	for key, values := range groups {
		v, err := Aggregate(values, aggType)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func (c *Cache) GetLatestValue(metric string, labels map[string]string) float64 {
	ts := c.GetTimeSeries(metric, labels)
	if ts == nil {
		return 0
	}
	return ts.LatestValue()
}

func (c *Cache) Metrics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.series))
	for m := range c.series {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func (c *Cache) IsStale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastCollection.IsZero() {
		return true
	}
	return c.ttl > 0 && c.now().Sub(c.lastCollection) > c.ttl
}

func (c *Cache) LastCollectionTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastCollection
}
