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
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/climact/climate-action-tool/internal/collector"
	"github.com/climact/climate-action-tool/internal/metrics"
	"github.com/climact/climate-action-tool/pkg/profile"
)

func (a *app) profileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Work with time profiles",
	}
	cmd.AddCommand(a.profileEvalCommand())
	return cmd
}

func (a *app) profileEvalCommand() *cobra.Command {
	var (
		at      []float64
		horizon collector.Horizon
	)
	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a profile document at model times",
		Long: `Evaluate a profile reference ({"profile": {...}, "units": ...}) or a bare
profile ({"type": "linear", ...}) read from FILE, or stdin for "-".
Times come from --at, or from --from/--to/--step when --at is not given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.loadProfile(args[0])
			if err != nil {
				return err
			}
			times := at
			if len(times) == 0 {
				if !cmd.Flags().Changed("step") {
					return errors.New("either --at or --step is required")
				}
				if times, err = horizon.Times(); err != nil {
					return err
				}
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tVALUE\tUNITS")
			for i, v := range profile.Sample(ref.Profile, times) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n",
					strconv.FormatFloat(times[i], 'g', -1, 64),
					strconv.FormatFloat(v, 'g', -1, 64),
					ref.Units)
			}
			return tw.Flush()
		},
	}
	fs := cmd.Flags()
	fs.Float64SliceVar(&at, "at", nil, "model times to evaluate at")
	fs.Float64Var(&horizon.From, "from", 0, "first model time")
	fs.Float64Var(&horizon.To, "to", 0, "last model time")
	fs.Float64Var(&horizon.Step, "step", 0, "model time step")
	return cmd
}

// loadProfile reads a profile reference, accepting a bare profile too.
func (a *app) loadProfile(path string) (ref profile.Ref, err error) {
	defer a.metrics.TimeLoad(metrics.KindProfile)()
	defer func() { a.metrics.RecordDecode(metrics.KindProfile, err) }()

	m, err := readJSONObject(path)
	if err != nil {
		return profile.Ref{}, err
	}
	if _, nested := m["profile"]; nested {
		return profile.RefFromMap(m)
	}
	p, err := profile.FromMap(m)
	if err != nil {
		return profile.Ref{}, err
	}
	return profile.NewRef(p, "", ""), nil
}
