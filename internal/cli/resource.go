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
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/climact/climate-action-tool/internal/metrics"
	"github.com/climact/climate-action-tool/pkg/resource"
)

func (a *app) resourceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Work with composite resources",
	}
	cmd.AddCommand(a.resourceTypesCommand(), a.resourceNewCommand())
	return cmd
}

func (a *app) resourceTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types [TYPE]",
		Short: "List the composite types, or the fields of one type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			if len(args) == 0 {
				fmt.Fprintln(tw, "TYPE\tPRIMARY\tFIELDS")
				for _, name := range a.catalog.Types() {
					s, err := a.catalog.Schema(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Type(), s.Primary().Name(), len(s.Fields()))
				}
				return tw.Flush()
			}

			s, err := a.catalog.Schema(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "FIELD\tGROUP\tUNIT\tDEFAULT\tVARIABLE")
			for _, f := range append([]*resource.Field{s.Primary()}, s.Fields()...) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%t\n", f.Name(), f.Group(), f.Unit(), f.Default(), f.IsVariable())
			}
			return tw.Flush()
		},
	}
}

func (a *app) resourceNewCommand() *cobra.Command {
	var at []float64
	cmd := &cobra.Command{
		Use:   "new TYPE [key=value...]",
		Short: "Build a composite resource and print its serialized form",
		Long: `Build a composite of TYPE from keywords and print it as JSON.

Keywords follow the composite construction rules: value/units (or the
primary field name) for the primary quantity, {field} and {field}_units for
secondary fields, and {field}_profile for variable fields. A value starting
with "[" or "{" is parsed as JSON. With --at, the profiled fields are
evaluated at the given model times instead.`,
		Example: `  climact resource new Fuel value=1000 units=kg cost=50 cost_units=INR/kg
  climact resource new Fuel cost=50 cost_units=INR/kg \
    'cost_profile={"type":"linear","time_points":[0,10],"values":[40,60]}' --at 0,5,10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			kw, err := parseKwargs(args[1:])
			if err != nil {
				return err
			}
			comp, err := a.catalog.New(args[0], kw)
			a.metrics.RecordDecode(metrics.KindComposite, err)
			if err != nil {
				return err
			}
			if len(at) == 0 {
				return a.printJSON(comp.ToMap())
			}
			return a.printProfiled(comp, at)
		},
	}
	cmd.Flags().Float64SliceVar(&at, "at", nil, "evaluate profiled fields at these model times")
	return cmd
}

// parseKwargs turns key=value arguments into construction keywords. Values
// stay strings unless they look like JSON arrays or objects.
func parseKwargs(args []string) (resource.Kwargs, error) {
	kw := make(resource.Kwargs, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		if _, dup := kw[key]; dup {
			return nil, fmt.Errorf("keyword %q given twice", key)
		}
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			var v any
			if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
				return nil, fmt.Errorf("keyword %q: %w", key, err)
			}
			kw[key] = v
			continue
		}
		kw[key] = raw
	}
	return kw, nil
}

func (a *app) printProfiled(comp *resource.Composite, at []float64) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tTIME\tVALUE")
	for _, name := range comp.Profiled() {
		for _, t := range at {
			q, err := comp.ValueAt(name, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%g\t%s\n", name, t, q)
		}
	}
	return tw.Flush()
}
