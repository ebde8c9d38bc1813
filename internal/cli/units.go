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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/climact/climate-action-tool/pkg/dimension"
)

func (a *app) unitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "units [dimension]",
		Short: "List the dimensions, or the units of one dimension",
		Long: `Without an argument, list every registered dimension with its canonical
unit and dimensionality. With a dimension key (mass) or type name (Mass),
list the units it converts between; the canonical unit is marked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reg := a.space.Registry()
			if len(args) == 0 {
				return a.listDimensions(reg)
			}
			d, err := lookupDimension(reg, args[0])
			if err != nil {
				return err
			}
			for _, u := range d.Units() {
				if u == d.Canonical() {
					fmt.Fprintf(a.out, "%s\t(canonical)\n", u)
					continue
				}
				fmt.Fprintln(a.out, u)
			}
			return nil
		},
	}
}

func lookupDimension(reg *dimension.Registry, ref string) (*dimension.Dimension, error) {
	if d, ok := reg.ByName(ref); ok {
		return d, nil
	}
	return reg.Get(ref)
}

func (a *app) listDimensions(reg *dimension.Registry) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTYPE\tCANONICAL\tDIMENSIONALITY")
	for _, d := range reg.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Key(), d.Name(), d.Canonical(), d.Dimensionality())
	}
	return tw.Flush()
}
