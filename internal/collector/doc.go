// Package collector samples the time-varying fields of a resource graph into
// labelled time series.
//
// # Architecture
//
// A Collector runs one or more MetricSource implementations over a model
// time Horizon and stores the series in a metricscache.Writer:
//
//	cache := metricscache.NewCache(0)
//	c := collector.New(cache, collector.NewGraphSource("plant", g))
//	err := c.Collect(ctx, collector.Horizon{From: 0, To: 10, Step: 1})
//
// # Series
//
// GraphSource emits one series per sampled field under the metric
// FieldMetric, labelled with:
//
//   - node: the node ID
//   - technology: the technology branch
//   - direction: consumed or produced
//   - resource: the stream name
//   - field: the composite field
//   - type: the composite type
//
// A field is sampled when its schema marks it variable or when a profile is
// attached to it. Fields without a profile repeat their static value.
//
// # Aggregation
//
// Stored series are reduced with metricscache.Cache.GetAggregated, grouping
// by any subset of the labels above:
//
//	byNode, err := cache.GetAggregated(collector.FieldMetric, metricscache.AggAvg,
//		map[string]string{"field": "cost"}, []string{"node"})
package collector
