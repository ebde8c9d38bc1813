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
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/climact/climate-action-tool/internal/collector"
	"github.com/climact/climate-action-tool/internal/logging"
	"github.com/climact/climate-action-tool/internal/metrics"
	"github.com/climact/climate-action-tool/internal/metricscache"
	"github.com/climact/climate-action-tool/pkg/graph"
)

func (a *app) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Work with process graph documents",
	}
	cmd.AddCommand(
		a.graphValidateCommand(),
		a.graphSummaryCommand(),
		a.graphSampleCommand(),
		a.graphEditCommand(),
	)
	return cmd
}

// loadGraph reads and decodes a graph document, counting the outcome.
func (a *app) loadGraph(path string) (g *graph.Graph, err error) {
	defer a.metrics.TimeLoad(metrics.KindGraph)()
	defer func() { a.metrics.RecordDecode(metrics.KindGraph, err) }()

	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err = a.graphs.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.log.V(logging.DEBUG).Info("Loaded graph", "path", path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

func (a *app) graphValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a graph document and report every problem",
		Long: `Check a graph document without loading it. Problems (dangling edges,
duplicate ids, undecodable resources) make the command fail; warnings
(connected nodes sharing no stream) do not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]
			f, err := openInput(path)
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := graph.ReadDocument(f)
			if err != nil {
				a.metrics.RecordDecode(metrics.KindGraph, err)
				return err
			}

			report := a.graphs.Validate(doc)
			a.metrics.RecordDecode(metrics.KindGraph, report.Err())
			for _, p := range report.Problems {
				fmt.Fprintf(a.out, "error: %v\n", p)
			}
			for _, w := range report.Warnings {
				fmt.Fprintf(a.out, "warning: %v\n", w)
			}
			if !report.OK() {
				return fmt.Errorf("%s: %d problem(s) found", path, len(report.Problems))
			}
			fmt.Fprintf(a.out, "%s: ok (%d nodes, %d edges, %d warnings)\n",
				path, len(doc.Nodes), len(doc.Edges), len(report.Warnings))
			return nil
		},
	}
}

func (a *app) graphSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary FILE",
		Short: "Print the nodes, technologies and edges of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g, err := a.loadGraph(args[0])
			if err != nil {
				return err
			}
			a.printSummary(g)
			return nil
		},
	}
}

func (a *app) printSummary(g *graph.Graph) {
	fmt.Fprintf(a.out, "%d nodes, %d edges\n\n", g.NodeCount(), g.EdgeCount())

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tNAME\tTECHNOLOGY\tCONSUMES\tPRODUCES")
	for _, n := range g.Nodes() {
		techs := n.TechnologyNames()
		if len(techs) == 0 {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\n", n.ID, n.Name)
			continue
		}
		for _, tech := range techs {
			t := n.Technologies[tech]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Name, tech,
				streamList(t, graph.Consumed), streamList(t, graph.Produced))
		}
	}
	_ = tw.Flush()

	if g.EdgeCount() > 0 {
		fmt.Fprintln(a.out)
		tw = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EDGE\tSOURCE\tTARGET\tTYPE")
		for _, e := range g.Edges() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Source, e.Target, e.Type)
		}
		_ = tw.Flush()
	}
	for _, w := range g.CheckStreams() {
		fmt.Fprintf(a.out, "warning: %v\n", w)
	}
}

func streamList(t *graph.Technology, dir graph.Direction) string {
	res := t.Resources(dir)
	if len(res) == 0 {
		return "-"
	}
	names := make([]string, 0, len(res))
	for name, comp := range res {
		names = append(names, fmt.Sprintf("%s(%s)", name, comp.Type()))
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}

func (a *app) graphSampleCommand() *cobra.Command {
	var (
		horizon collector.Horizon
		agg     string
		groupBy []string
		match   map[string]string
	)
	cmd := &cobra.Command{
		Use:   "sample FILE",
		Short: "Sample the time-varying resource fields of a graph",
		Long: fmt.Sprintf(`Sample every variable or profiled composite field of a graph over a model
time horizon and reduce each series with --agg. With --group-by, series are
pooled per distinct value of the given labels (%s).`,
			strings.Join(collector.SeriesLabels, ", ")),
		Example: `  climact graph sample plant.json --from 2025 --to 2050 --step 5 --agg avg
  climact graph sample plant.json --to 10 --step 1 --agg max --group-by node,field`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			aggType, err := metricscache.ParseAggregation(agg)
			if err != nil {
				return err
			}
			g, err := a.loadGraph(args[0])
			if err != nil {
				return err
			}

			cache := metricscache.NewCache(0)
			c := collector.New(cache, collector.NewGraphSource(args[0], g))
			if err := c.Collect(cmd.Context(), horizon); err != nil {
				return err
			}
			if len(groupBy) > 0 {
				return a.printGroups(cache, aggType, match, groupBy)
			}
			return a.printSeries(cache, aggType, match)
		},
	}
	fs := cmd.Flags()
	fs.Float64Var(&horizon.From, "from", 0, "first model time")
	fs.Float64Var(&horizon.To, "to", 0, "last model time")
	fs.Float64Var(&horizon.Step, "step", 1, "model time step")
	fs.StringVar(&agg, "agg", string(metricscache.AggAvg), "aggregation: "+aggregationNames())
	fs.StringSliceVar(&groupBy, "group-by", nil, "labels to pool series by")
	fs.StringToStringVar(&match, "match", nil, "only series with these label values, e.g. field=cost")
	return cmd
}

func aggregationNames() string {
	names := make([]string, len(metricscache.StandardAggregations))
	for i, agg := range metricscache.StandardAggregations {
		names[i] = string(agg)
	}
	return strings.Join(names, ", ")
}

func (a *app) printSeries(r metricscache.Reader, agg metricscache.AggregationType, match map[string]string) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	header := make([]string, 0, len(collector.SeriesLabels)+2)
	for _, l := range collector.SeriesLabels {
		header = append(header, strings.ToUpper(l))
	}
	fmt.Fprintln(tw, strings.Join(append(header, strings.ToUpper(string(agg)), "UNITS"), "\t"))
	for _, ts := range r.Select(collector.FieldMetric, match) {
		v, err := ts.Aggregate(agg)
		if err != nil {
			return fmt.Errorf("series %s: %w", ts.LabelSetKey(), err)
		}
		row := make([]string, 0, len(header)+2)
		for _, l := range collector.SeriesLabels {
			row = append(row, ts.Labels[l])
		}
		row = append(row, fmt.Sprintf("%g", v), ts.Units)
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func (a *app) printGroups(r metricscache.Reader, agg metricscache.AggregationType, match map[string]string, groupBy []string) error {
	for _, l := range groupBy {
		if !slices.Contains(collector.SeriesLabels, l) && l != collector.LabelType {
			return fmt.Errorf("unknown label %q", l)
		}
	}
	groups, err := r.GetAggregated(collector.FieldMetric, agg, match, groupBy)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "GROUP\t%s\n", strings.ToUpper(string(agg)))
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%g\n", k, groups[k])
	}
	return tw.Flush()
}
