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
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/climact/climate-action-tool/internal/logging"
	"github.com/climact/climate-action-tool/internal/metricscache"
)

// Collector runs its sources over a horizon and stores the result.
type Collector struct {
	sources []MetricSource
	cache   metricscache.Writer
}

// New returns a collector writing into cache.
func New(cache metricscache.Writer, sources ...MetricSource) *Collector {
	return &Collector{sources: sources, cache: cache}
}

// Collect samples every source concurrently. Nothing is stored unless all
// sources succeed.
func (c *Collector) Collect(ctx context.Context, h Horizon) error {
	log := logging.FromContext(ctx)
	times, err := h.Times()
	if err != nil {
		return err
	}

	start := time.Now()
	results := make([][]*metricscache.TimeSeries, len(c.sources))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, src := range c.sources {
		eg.Go(func() error {
			series, err := src.Collect(egCtx, times)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			results[i] = series
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	count := 0
	for _, series := range results {
		for _, ts := range series {
			c.cache.UpdateTimeSeries(ts)
			count++
		}
	}
	c.cache.MarkCollectionComplete()
	log.V(logging.DEBUG).Info("Collection complete",
		"sources", len(c.sources), "series", count, "samples", len(times), "duration", time.Since(start))
	return nil
}
