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

// Package config loads the tool configuration from defaults, an optional
// YAML file, CLIMACT_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/utils/ptr"

	"github.com/climact/climate-action-tool/internal/actions"
	"github.com/climact/climate-action-tool/internal/logging"
	"github.com/climact/climate-action-tool/pkg/units"
)

// EnvPrefix prefixes every environment variable read by the tool.
const EnvPrefix = "CLIMACT"

// MaxUndoLimit bounds history.maxUndo.
const MaxUndoLimit = 10000

// Config keys.
const (
	KeyCurrencyBase    = "currency.base"
	KeyCurrencyRates   = "currency.rates"
	KeyHistoryMaxUndo  = "history.maxUndo"
	KeyLoggingLevel    = "logging.level"
	KeyLoggingDev      = "logging.development"
	KeyMetricsTextfile = "metrics.textfile"
	KeyCatalogPath     = "catalog.path"
	KeyDecodeStrict    = "decode.strict"
)

// Config is the complete tool configuration.
type Config struct {
	Currency CurrencyConfig `mapstructure:"currency" yaml:"currency"`
	History  HistoryConfig  `mapstructure:"history" yaml:"history"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Decode   DecodeConfig   `mapstructure:"decode" yaml:"decode"`
}

// CurrencyConfig selects the base currency and the value of other
// currencies in base units.
type CurrencyConfig struct {
	Base  string             `mapstructure:"base" yaml:"base"`
	Rates map[string]float64 `mapstructure:"rates" yaml:"rates"`
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	MaxUndo int `mapstructure:"maxUndo" yaml:"maxUndo"`
}

// LoggingConfig selects verbosity and output format.
type LoggingConfig struct {
	// Level is one of info, debug or trace.
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// MetricsConfig controls the metrics export.
type MetricsConfig struct {
	// Textfile is written in node-exporter textfile format on exit when set.
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// CatalogConfig lists extra composite catalog files.
type CatalogConfig struct {
	Paths []string `mapstructure:"path" yaml:"path"`
}

// DecodeConfig controls record decoding.
type DecodeConfig struct {
	// Strict rejects unknown quantity type tags. Defaults to true.
	// Use pointer to tell an explicit false from an omitted value.
	Strict *bool `mapstructure:"strict" yaml:"strict"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Currency: CurrencyConfig{Base: units.DefaultBaseCurrency, Rates: units.DefaultExchangeRates()},
		History:  HistoryConfig{MaxUndo: actions.DefaultMaxUndo},
		Logging:  LoggingConfig{Level: "info"},
		Decode:   DecodeConfig{Strict: ptr.To(true)},
	}
}

// Validate checks for invalid configuration values. Every problem is reported.
func (c *Config) Validate() error {
	var errs []error
	if c.Currency.Base == "" {
		errs = append(errs, errors.New("currency.base must not be empty"))
	} else if err := units.CheckCurrencySymbol(c.Currency.Base); err != nil {
		errs = append(errs, fmt.Errorf("currency.base: %w", err))
	}
	for _, sym := range sortedKeys(c.Currency.Rates) {
		rate := c.Currency.Rates[sym]
		if sym != c.Currency.Base {
			if err := units.CheckCurrencySymbol(sym); err != nil {
				errs = append(errs, fmt.Errorf("currency.rates.%s: %w", sym, err))
			}
		}
		if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
			errs = append(errs, fmt.Errorf("currency.rates.%s must be > 0, got %v", sym, rate))
		}
	}
	if c.History.MaxUndo < 1 || c.History.MaxUndo > MaxUndoLimit {
		errs = append(errs, fmt.Errorf("history.maxUndo must be between 1 and %d, got %d", MaxUndoLimit, c.History.MaxUndo))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	for i, p := range c.Catalog.Paths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("catalog.path[%d] must not be empty", i))
		}
	}
	return errors.Join(errs...)
}

// StrictDecode reports whether unknown type tags are rejected.
func (c *Config) StrictDecode() bool { return ptr.Deref(c.Decode.Strict, true) }

// UnitOptions builds the unit system options. A rate for the base currency
// itself is ignored.
func (c *Config) UnitOptions() []units.Option {
	rates := make(map[string]float64, len(c.Currency.Rates))
	for sym, rate := range c.Currency.Rates {
		if sym == c.Currency.Base {
			logging.Log().V(logging.DEBUG).Info("Ignoring exchange rate for the base currency", "currency", sym)
			continue
		}
		rates[sym] = rate
	}
	return []units.Option{units.WithBaseCurrency(c.Currency.Base), units.WithExchangeRates(rates)}
}

// NewViper returns a viper instance carrying the defaults and the
// environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyCurrencyBase, d.Currency.Base)
	v.SetDefault(KeyCurrencyRates, d.Currency.Rates)
	v.SetDefault(KeyHistoryMaxUndo, d.History.MaxUndo)
	v.SetDefault(KeyLoggingLevel, d.Logging.Level)
	v.SetDefault(KeyLoggingDev, d.Logging.Development)
	v.SetDefault(KeyMetricsTextfile, "")
	v.SetDefault(KeyCatalogPath, []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// no default, so it has to be bound explicitly
	_ = v.BindEnv(KeyDecodeStrict)
	return v
}

// Flag names bound by BindFlags.
const (
	FlagLogLevel        = "log-level"
	FlagMetricsTextfile = "metrics-textfile"
	FlagCatalog         = "catalog"
	FlagBaseCurrency    = "base-currency"
	FlagMaxUndo         = "max-undo"
	FlagStrict          = "strict"
)

// AddFlags registers the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(FlagLogLevel, d.Logging.Level, "log level: info, debug or trace")
	fs.String(FlagMetricsTextfile, "", "write metrics to this node-exporter textfile on exit")
	fs.StringSlice(FlagCatalog, nil, "extra composite catalog YAML files")
	fs.String(FlagBaseCurrency, d.Currency.Base, "base currency symbol")
	fs.Int(FlagMaxUndo, d.History.MaxUndo, "undo history length")
	fs.Bool(FlagStrict, true, "reject unknown quantity type tags")
}

// BindFlags binds the flags registered by AddFlags. Only flags set on the
// command line override the file and the environment.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := map[string]string{
		FlagLogLevel:        KeyLoggingLevel,
		FlagMetricsTextfile: KeyMetricsTextfile,
		FlagCatalog:         KeyCatalogPath,
		FlagBaseCurrency:    KeyCurrencyBase,
		FlagMaxUndo:         KeyHistoryMaxUndo,
		FlagStrict:          KeyDecodeStrict,
	}
	var errs []error
	for _, name := range sortedKeys(bindings) {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(bindings[name], f); err != nil {
			errs = append(errs, fmt.Errorf("binding --%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Load reads path, when given, into v and returns the validated configuration.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logging.Log().V(logging.DEBUG).Info("Loaded configuration",
		"file", v.ConfigFileUsed(),
		"baseCurrency", cfg.Currency.Base,
		"currencies", len(cfg.Currency.Rates),
		"maxUndo", cfg.History.MaxUndo,
		"strict", cfg.StrictDecode())
	return &cfg, nil
}

// normalize restores upper-case currency symbols, which viper folds to lower
// case, and applies the pointer defaults.
func (c *Config) normalize() {
	c.Currency.Base = strings.ToUpper(strings.TrimSpace(c.Currency.Base))
	if len(c.Currency.Rates) > 0 {
		rates := make(map[string]float64, len(c.Currency.Rates))
		for _, sym := range sortedKeys(c.Currency.Rates) {
			upper := strings.ToUpper(sym)
			if _, dup := rates[upper]; dup {
				logging.Log().Info("Duplicate exchange rate - first key wins", "currency", upper, "duplicateKey", sym)
				continue
			}
			rates[upper] = c.Currency.Rates[sym]
		}
		c.Currency.Rates = rates
	}
	if c.Decode.Strict == nil {
		c.Decode.Strict = ptr.To(true)
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
