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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/climact/climate-action-tool/pkg/quantity"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func (a *app) convertCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "convert VALUE FROM TO",
		Short: "Convert a value between compatible units",
		Example: `  climact convert 1 t/h kg/s
  climact convert 25 degC K
  climact convert 10 USD INR -o json`,
		Args: cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("value %q is not a number", args[0])
			}
			q, err := a.convert(v, args[1], args[2])
			if err != nil {
				return err
			}
			switch output {
			case outputJSON:
				return a.printJSON(q.ToMap())
			case outputText:
				_, err := fmt.Fprintln(a.out, q.String())
				return err
			default:
				return fmt.Errorf("unsupported output %q (want %s or %s)", output, outputText, outputJSON)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}

// convert builds the quantity in from, typed by the unit's dimensionality,
// and expresses it in to. Every attempt is counted.
func (a *app) convert(v float64, from, to string) (q quantity.Quantity, err error) {
	defer func() { a.metrics.RecordConversion(err) }()
	q, err = a.space.Infer(quantity.Scalar(v), from)
	if err != nil {
		return quantity.Quantity{}, err
	}
	return q.Convert(to)
}
