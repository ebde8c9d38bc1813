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

// Package cli implements the climact command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/climact/climate-action-tool/internal/config"
	"github.com/climact/climate-action-tool/internal/logging"
	"github.com/climact/climate-action-tool/internal/metrics"
	"github.com/climact/climate-action-tool/pkg/dimension"
	"github.com/climact/climate-action-tool/pkg/graph"
	"github.com/climact/climate-action-tool/pkg/quantity"
	"github.com/climact/climate-action-tool/pkg/resource"
	"github.com/climact/climate-action-tool/pkg/units"
)

const (
	flagConfig       = "config"
	flagPrintMetrics = "print-metrics"
)

// app carries what every command needs. It is filled by setup before any
// command runs.
type app struct {
	out    io.Writer
	errOut io.Writer

	v            *viper.Viper
	configPath   string
	printMetrics bool

	cfg     *config.Config
	log     logr.Logger
	metrics *metrics.Metrics
	space   *quantity.Space
	catalog *resource.Catalog
	graphs  *graph.Codec
}

// Execute runs the command line described by args. Metrics are exported
// after the command, whether or not it failed.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{out: out, errOut: errOut, v: config.NewViper(), log: logr.Discard()}
	cmd := a.rootCommand()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if ferr := a.finish(); ferr != nil {
		err = errors.Join(err, ferr)
	}
	return err
}

func (a *app) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "climact",
		Short:         "Unit-aware resources and process graphs for climate action planning",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	fs := cmd.PersistentFlags()
	fs.StringVar(&a.configPath, flagConfig, "", "configuration file (YAML)")
	fs.BoolVar(&a.printMetrics, flagPrintMetrics, false, "print the tool's metrics to stderr on exit")
	config.AddFlags(fs)

	cmd.AddCommand(
		a.unitsCommand(),
		a.convertCommand(),
		a.profileCommand(),
		a.resourceCommand(),
		a.graphCommand(),
	)
	return cmd
}

// setup loads the configuration and builds the unit system, the dimension
// registry and the composite catalog it describes.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return err
	}
	logging.SetLogger(log)
	a.log = log.WithName("climact")
	cmd.SetContext(logging.IntoContext(cmd.Context(), a.log))

	a.metrics = metrics.New()

	sys, err := units.NewSystem(cfg.UnitOptions()...)
	if err != nil {
		return fmt.Errorf("building unit system: %w", err)
	}
	reg, err := dimension.Standard(sys)
	if err != nil {
		return fmt.Errorf("building dimension registry: %w", err)
	}
	a.space = quantity.NewSpace(reg)
	codec := quantity.NewCodec(a.space, quantity.Strict(cfg.StrictDecode()), quantity.WithLogger(a.log))
	a.catalog, err = resource.LoadCatalog(a.space, cfg.Catalog.Paths,
		resource.WithCodec(codec), resource.WithLogger(a.log))
	if err != nil {
		return fmt.Errorf("loading composite catalog: %w", err)
	}
	a.graphs = graph.NewCodec(a.catalog)

	a.log.V(logging.DEBUG).Info("Command environment ready",
		"command", cmd.CommandPath(),
		"baseCurrency", sys.BaseCurrency(),
		"dimensions", reg.Len(),
		"compositeTypes", len(a.catalog.Types()))
	return nil
}

// finish exports metrics. Nothing is exported when setup never ran.
func (a *app) finish() error {
	if a.metrics == nil {
		return nil
	}
	var errs []error
	if path := a.cfg.Metrics.Textfile; path != "" {
		errs = append(errs, a.metrics.WriteTextfile(path))
	}
	if a.printMetrics {
		errs = append(errs, a.metrics.WriteText(a.errOut))
	}
	return errors.Join(errs...)
}

// openInput opens path, or stdin for "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// readJSONObject decodes a single JSON object keeping numbers exact.
func readJSONObject(path string) (map[string]any, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return m, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
