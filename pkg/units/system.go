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

package units

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/gonum/unit"
)

// DefaultBaseCurrency is the currency every exchange rate is quoted against.
const DefaultBaseCurrency = "INR"

// DefaultExchangeRates returns indicative rates, in base currency per unit.
func DefaultExchangeRates() map[string]float64 {
	return map[string]float64{
		"USD": 83.0,
		"EUR": 90.0,
	}
}

type definition struct {
	factor float64
	offset float64
	dims   unit.Dimensions
	// short takes SI symbol prefixes (kW), long takes named prefixes (kilowatt)
	short bool
	long  bool
}

func (d definition) scaled(f float64) definition {
	d.factor *= f
	return d
}

type prefix struct {
	name   string
	factor float64
}

var shortPrefixes = []prefix{
	{"T", 1e12}, {"G", 1e9}, {"M", 1e6}, {"k", 1e3}, {"h", 1e2},
	{"c", 1e-2}, {"m", 1e-3}, {"µ", 1e-6}, {"μ", 1e-6}, {"u", 1e-6}, {"n", 1e-9},
}

var longPrefixes = []prefix{
	{"tera", 1e12}, {"giga", 1e9}, {"mega", 1e6}, {"kilo", 1e3}, {"hecto", 1e2},
	{"centi", 1e-2}, {"milli", 1e-3}, {"micro", 1e-6}, {"nano", 1e-9},
}

var (
	dNone        = unit.Dimensions{}
	dMass        = unit.Dimensions{unit.MassDim: 1}
	dLength      = unit.Dimensions{unit.LengthDim: 1}
	dTime        = unit.Dimensions{unit.TimeDim: 1}
	dTemperature = unit.Dimensions{unit.TemperatureDim: 1}
	dCurrent     = unit.Dimensions{unit.CurrentDim: 1}
	dMole        = unit.Dimensions{unit.MoleDim: 1}
	dLuminous    = unit.Dimensions{unit.LuminousIntensityDim: 1}
	dAngle       = unit.Dimensions{unit.AngleDim: 1}
	dVolume      = unit.Dimensions{unit.LengthDim: 3}
	dArea        = unit.Dimensions{unit.LengthDim: 2}
	dFrequency   = unit.Dimensions{unit.TimeDim: -1}
	dForce       = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 1, unit.TimeDim: -2}
	dPressure    = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -1, unit.TimeDim: -2}
	dEnergy      = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2}
	dPower       = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -3}
	dCharge      = unit.Dimensions{unit.CurrentDim: 1, unit.TimeDim: 1}
	dVoltage     = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -3, unit.CurrentDim: -1}
	dResistance  = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -3, unit.CurrentDim: -2}
	dConductance = unit.Dimensions{unit.MassDim: -1, unit.LengthDim: -2, unit.TimeDim: 3, unit.CurrentDim: 2}
	dCapacitance = unit.Dimensions{unit.MassDim: -1, unit.LengthDim: -2, unit.TimeDim: 4, unit.CurrentDim: 2}
	dInductance  = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2, unit.CurrentDim: -2}
	dFlux        = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2, unit.CurrentDim: -1}
	dFluxDensity = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -2, unit.CurrentDim: -1}
)

const (
	minute = 60.0
	hour   = 3600.0
	day    = 86400.0
	year   = 365.25 * day
	pound  = 0.45359237
)

func builtinDefinitions() map[string]definition {
	s := func(f float64, d unit.Dimensions) definition {
		return definition{factor: f, dims: d, short: true}
	}
	l := func(f float64, d unit.Dimensions) definition {
		return definition{factor: f, dims: d, long: true}
	}
	p := func(f float64, d unit.Dimensions) definition {
		return definition{factor: f, dims: d}
	}

	defs := map[string]definition{
		// dimensionless
		Dimensionless: p(1, dNone),
		"count":       p(1, dNone),
		"%":           p(0.01, dNone),
		"percent":     p(0.01, dNone),
		"ppm":         p(1e-6, dNone),

		// mass
		"g":          s(1e-3, dMass),
		"gram":       l(1e-3, dMass),
		"t":          s(1e3, dMass),
		"tonne":      l(1e3, dMass),
		"metric_ton": p(1e3, dMass),
		"MT":         p(1e3, dMass),
		"ton":        p(2000*pound, dMass),
		"short_ton":  p(2000*pound, dMass),
		"lb":         p(pound, dMass),
		"pound":      p(pound, dMass),

		// length, area, volume
		"m":      s(1, dLength),
		"meter":  l(1, dLength),
		"metre":  l(1, dLength),
		"in":     p(0.0254, dLength),
		"inch":   p(0.0254, dLength),
		"ft":     p(0.3048, dLength),
		"foot":   p(0.3048, dLength),
		"mi":     p(1609.344, dLength),
		"mile":   p(1609.344, dLength),
		"ha":     p(1e4, dArea),
		"L":      s(1e-3, dVolume),
		"l":      s(1e-3, dVolume),
		"liter":  l(1e-3, dVolume),
		"litre":  l(1e-3, dVolume),
		"gal":    p(3.785411784e-3, dVolume),
		"gallon": p(3.785411784e-3, dVolume),
		"bbl":    p(0.158987294928, dVolume),
		"barrel": p(0.158987294928, dVolume),

		// time
		"s":      s(1, dTime),
		"sec":    p(1, dTime),
		"second": l(1, dTime),
		"min":    p(minute, dTime),
		"minute": p(minute, dTime),
		"h":      p(hour, dTime),
		"hr":     p(hour, dTime),
		"hour":   p(hour, dTime),
		"d":      p(day, dTime),
		"day":    p(day, dTime),
		"week":   p(7*day, dTime),
		"yr":     p(year, dTime),
		"year":   p(year, dTime),

		// temperature
		"K":                 s(1, dTemperature),
		"kelvin":            l(1, dTemperature),
		"°C":                {factor: 1, offset: 273.15, dims: dTemperature},
		"degC":              {factor: 1, offset: 273.15, dims: dTemperature},
		"celsius":           {factor: 1, offset: 273.15, dims: dTemperature},
		"degree_Celsius":    {factor: 1, offset: 273.15, dims: dTemperature},
		"°F":                {factor: 5.0 / 9.0, offset: 459.67 * 5.0 / 9.0, dims: dTemperature},
		"degF":              {factor: 5.0 / 9.0, offset: 459.67 * 5.0 / 9.0, dims: dTemperature},
		"fahrenheit":        {factor: 5.0 / 9.0, offset: 459.67 * 5.0 / 9.0, dims: dTemperature},
		"degree_Fahrenheit": {factor: 5.0 / 9.0, offset: 459.67 * 5.0 / 9.0, dims: dTemperature},
		"°R":                p(5.0/9.0, dTemperature),
		"rankine":           p(5.0/9.0, dTemperature),

		// remaining SI base units
		"A":       s(1, dCurrent),
		"ampere":  l(1, dCurrent),
		"mol":     s(1, dMole),
		"mole":    l(1, dMole),
		"cd":      p(1, dLuminous),
		"candela": p(1, dLuminous),
		"rad":     s(1, dAngle),
		"radian":  l(1, dAngle),
		"°":       p(math.Pi/180, dAngle),
		"deg":     p(math.Pi/180, dAngle),
		"degree":  p(math.Pi/180, dAngle),

		// derived mechanical and energy units
		"N":          s(1, dForce),
		"newton":     l(1, dForce),
		"Pa":         s(1, dPressure),
		"pascal":     l(1, dPressure),
		"bar":        s(1e5, dPressure),
		"atm":        p(101325, dPressure),
		"atmosphere": p(101325, dPressure),
		"psi":        p(6894.757293168361, dPressure),
		"mmHg":       p(133.322387415, dPressure),
		"J":          s(1, dEnergy),
		"KJ":         p(1e3, dEnergy),
		"joule":      l(1, dEnergy),
		"Wh":         s(hour, dEnergy),
		"watt_hour":  l(hour, dEnergy),
		"cal":        s(4.184, dEnergy),
		"calorie":    l(4.184, dEnergy),
		"BTU":        p(1055.05585262, dEnergy),
		"Btu":        p(1055.05585262, dEnergy),
		"W":          s(1, dPower),
		"watt":       l(1, dPower),
		"hp":         p(745.69987158227, dPower),
		"Hz":         s(1, dFrequency),
		"hertz":      l(1, dFrequency),

		// electromagnetic
		"C":       s(1, dCharge),
		"coulomb": l(1, dCharge),
		"V":       s(1, dVoltage),
		"volt":    l(1, dVoltage),
		"Ω":       s(1, dResistance),
		"ohm":     l(1, dResistance),
		"S":       s(1, dConductance),
		"siemens": l(1, dConductance),
		"F":       s(1, dCapacitance),
		"farad":   l(1, dCapacitance),
		"H":       s(1, dInductance),
		"henry":   l(1, dInductance),
		"Wb":      s(1, dFlux),
		"weber":   l(1, dFlux),
		"T":       s(1, dFluxDensity),
		"tesla":   l(1, dFluxDensity),
	}
	return defs
}

// System resolves unit symbols. It is immutable after construction and safe
// for concurrent use.
type System struct {
	baseCurrency string
	currencies   []string
	defs         map[string]definition
	cache        sync.Map // expression -> Unit
}

type options struct {
	baseCurrency string
	rates        map[string]float64
}

// Option configures a System.
type Option func(*options)

// WithBaseCurrency sets the symbol of the base currency.
func WithBaseCurrency(symbol string) Option {
	return func(o *options) { o.baseCurrency = symbol }
}

// WithExchangeRate registers a currency worth rate units of the base currency.
func WithExchangeRate(symbol string, rate float64) Option {
	return func(o *options) { o.rates[symbol] = rate }
}

// WithExchangeRates replaces all exchange rates.
func WithExchangeRates(rates map[string]float64) Option {
	return func(o *options) {
		o.rates = make(map[string]float64, len(rates))
		for k, v := range rates {
			o.rates[k] = v
		}
	}
}

// NewSystem builds a unit system. Without options it uses DefaultBaseCurrency
// and DefaultExchangeRates.
func NewSystem(opts ...Option) (*System, error) {
	o := &options{baseCurrency: DefaultBaseCurrency, rates: DefaultExchangeRates()}
	for _, opt := range opts {
		opt(o)
	}

	defs := builtinDefinitions()
	if err := validCurrencySymbol(o.baseCurrency, defs); err != nil {
		return nil, fmt.Errorf("base currency: %w", err)
	}
	dCurrency := unit.Dimensions{CurrencyDim: 1}
	defs[o.baseCurrency] = definition{factor: 1, dims: dCurrency}
	currencies := []string{o.baseCurrency}

	symbols := make([]string, 0, len(o.rates))
	for sym := range o.rates {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	for _, sym := range symbols {
		rate := o.rates[sym]
		if err := validCurrencySymbol(sym, defs); err != nil {
			return nil, fmt.Errorf("exchange rate: %w", err)
		}
		if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
			return nil, fmt.Errorf("exchange rate for %s must be a positive number, got %v", sym, rate)
		}
		defs[sym] = definition{factor: rate, dims: dCurrency}
		currencies = append(currencies, sym)
	}

	return &System{baseCurrency: o.baseCurrency, currencies: currencies, defs: defs}, nil
}

// CheckCurrencySymbol reports whether sym can name a currency: it must be a
// single token that does not resolve to a built-in unit, prefixed or not.
func CheckCurrencySymbol(sym string) error {
	return validCurrencySymbol(sym, builtinDefinitions())
}

func validCurrencySymbol(sym string, defs map[string]definition) error {
	if sym == "" || strings.ContainsAny(sym, " */^()") {
		return fmt.Errorf("invalid currency symbol %q", sym)
	}
	if _, taken := lookupIn(defs, sym); taken {
		return fmt.Errorf("currency symbol %q collides with an existing unit", sym)
	}
	return nil
}

var (
	defaultOnce   sync.Once
	defaultSystem *System
)

// Default returns the shared system built with default options.
func Default() *System {
	defaultOnce.Do(func() {
		sys, err := NewSystem()
		if err != nil {
			panic(fmt.Sprintf("units: default system: %v", err))
		}
		defaultSystem = sys
	})
	return defaultSystem
}

// BaseCurrency returns the base currency symbol.
func (s *System) BaseCurrency() string { return s.baseCurrency }

// Currencies returns the base currency followed by the other known currencies.
func (s *System) Currencies() []string { return append([]string(nil), s.currencies...) }

// Known reports whether symbol resolves, with or without a prefix.
func (s *System) Known(symbol string) bool {
	_, ok := s.lookup(symbol)
	return ok
}

func (s *System) lookup(symbol string) (definition, bool) {
	return lookupIn(s.defs, symbol)
}

// lookupIn resolves symbol against defs, trying SI prefixes after an exact match.
func lookupIn(defs map[string]definition, symbol string) (definition, bool) {
	if d, ok := defs[symbol]; ok {
		return d, true
	}
	for _, p := range longPrefixes {
		if rest, ok := strings.CutPrefix(symbol, p.name); ok && rest != "" {
			if d, ok := defs[rest]; ok && d.long {
				return d.scaled(p.factor), true
			}
		}
	}
	for _, p := range shortPrefixes {
		if rest, ok := strings.CutPrefix(symbol, p.name); ok && rest != "" {
			if d, ok := defs[rest]; ok && d.short {
				return d.scaled(p.factor), true
			}
		}
	}
	return definition{}, false
}

// Parse resolves a unit expression.
func (s *System) Parse(expr string) (Unit, error) {
	key := strings.TrimSpace(expr)
	if u, ok := s.cache.Load(key); ok {
		return u.(Unit), nil
	}
	prod, err := parse(key)
	if err != nil {
		return Unit{}, err
	}

	base := newCarrier(prod.scale, nil)
	offset := 0.0
	for _, t := range prod.terms {
		def, ok := s.lookup(t.symbol)
		if !ok {
			return Unit{}, &UnknownUnitError{Symbol: t.symbol, Expr: key}
		}
		f := newCarrier(def.factor, def.dims)
		for i := 0; i < abs(t.power); i++ {
			if t.power > 0 {
				base.Mul(f)
			} else {
				base.Div(f)
			}
		}
		if len(prod.terms) == 1 && t.power == 1 && prod.scale == 1 {
			offset = def.offset
		}
	}

	u := Unit{expr: key, prod: prod, base: base, offset: offset}
	s.cache.Store(key, u)
	return u, nil
}

// MustParse is Parse for static expressions; it panics on error.
func (s *System) MustParse(expr string) Unit {
	u, err := s.Parse(expr)
	if err != nil {
		panic(err)
	}
	return u
}

// Convert converts v between two unit expressions.
func (s *System) Convert(v float64, from, to string) (float64, error) {
	fu, err := s.Parse(from)
	if err != nil {
		return 0, err
	}
	tu, err := s.Parse(to)
	if err != nil {
		return 0, err
	}
	return ConvertValue(v, fu, tu)
}
