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

package dimension

import (
	"fmt"
	"sync"

	"github.com/climact/climate-action-tool/pkg/units"
)

// Keys of the standard catalog that other packages refer to directly.
const (
	Mass             = "mass"
	Volume           = "volume"
	Energy           = "energy"
	Currency         = "currency"
	Temperature      = "temperature"
	Pressure         = "pressure"
	Power            = "power"
	Time             = "time"
	DimensionlessKey = "dimensionless"
	MassFlowRate     = "mass_flow_rate"
	SpecificEnergy   = "specific_energy"
	CostPerMass      = "cost_per_mass"
	Frequency        = "frequency"
	Voltage          = "voltage"
)

func def(key, canonical string, unitList ...string) Definition {
	return Definition{Key: key, Canonical: canonical, Units: unitList}
}

func styled(d Definition, color, icon string) Definition {
	d.Color, d.Icon = color, icon
	return d
}

// flowDefinitions are the dimensions offered on graph edges, with their display metadata.
func flowDefinitions(sys *units.System) []Definition {
	return []Definition{
		styled(def(Mass, "kilogram", "gram", "kilogram", "metric_ton"), "#78cad2", "mdi.weight-gram"),
		styled(def(Volume, "meter**3", "L", "m³", "gal"), "#87ceeb", "mdi.cube"),
		styled(def(Energy, "joule", "J", "kJ", "MJ", "GJ"), "#ffa500", "mdi.fire"),
		styled(def(Currency, sys.BaseCurrency(), sys.Currencies()...), "#5eb616", "mdi.cash-multiple"),
		styled(def(Temperature, "kelvin", "K", "°C", "°F"), "#ff6347", "mdi.thermometer"),
		styled(def(Pressure, "pascal", "Pa", "kPa", "MPa", "bar", "atm"), "#4682b4", "mdi.gauge"),
		styled(def(Power, "watt", "W", "kW", "MW", "GW"), "#8491a3", "mdi.flash"),
		styled(def(Time, "second", "s", "min", "hr", "day", "yr"), "#808080", "mdi.clock-outline"),
	}
}

func physicalDefinitions(sys *units.System) []Definition {
	cur := sys.BaseCurrency()
	return []Definition{
		// SI base
		def("length", "meter", "mm", "cm", "m", "km"),
		def("electric_current", "ampere", "mA", "A", "kA"),
		def("luminous_intensity", "candela"),
		def("amount_of_substance", "mole", "mol", "kmol"),

		// mechanical
		def("area", "meter**2", "m²", "ha", "km²"),
		def("velocity", "meter/second", "m/s", "km/hr"),
		def("acceleration", "meter/second**2"),
		def("force", "newton", "N", "kN", "MN"),
		def("momentum", "kilogram*meter/second"),
		def("angular_velocity", "radian/second"),
		def("surface_tension", "newton/meter"),

		// thermodynamic
		def("entropy", "joule/kelvin", "J/K", "kJ/K"),
		def("specific_heat_capacity", "joule/(kilogram*kelvin)", "J/(kg*K)", "kJ/(kg*K)"),
		def(SpecificEnergy, "joule/kilogram", "J/kg", "kJ/kg", "MJ/kg", "GJ/t", "kWh/kg"),
		def("chemical_potential", "joule/mole", "J/mol", "kJ/mol"),
		def("molar_entropy", "joule/(mole*kelvin)"),
		def("thermal_conductivity", "watt/(meter*kelvin)"),
		def("heat_transfer_coefficient", "watt/(meter**2*kelvin)"),
		def("thermal_resistance", "kelvin/watt"),
		def("thermal_expansion_coefficient", "1/kelvin"),

		// fluid
		def("dynamic_viscosity", "pascal*second", "Pa*s", "mPa*s"),

		// dimensionless
		def(DimensionlessKey, units.Dimensionless, units.Dimensionless, "%", "ppm"),

		// electromagnetic
		def("electric_charge", "coulomb", "C", "A*hr"),
		def(Voltage, "volt", "V", "kV"),
		def("resistance", "ohm"),
		def("capacitance", "farad"),
		def("magnetic_flux", "weber"),
		def("magnetic_flux_density", "tesla"),
		def("inductance", "henry"),
		def("electrical_conductivity", "siemens/meter"),
		def("resistivity", "ohm*meter"),

		// chemical and transport
		def("diffusivity", "meter**2/second"),
		def("catalytic_activity", "mole/second"),
		def(Frequency, "hertz", "Hz", "kHz"),
		def("density", "kilogram/meter**3", "kg/m³", "g/L", "t/m³"),
		def("molar_mass", "kilogram/mole", "kg/mol", "g/mol"),
		def("concentration", "mole/meter**3", "mol/m³", "mol/L"),
		def("volumetric_flow_rate", "meter**3/second", "m³/s", "m³/hr", "L/s", "L/min"),
		def(MassFlowRate, "kilogram/second", "kg/s", "kg/hr", "t/hr", "t/day", "t/yr"),
		def("mass_flux", "kilogram/(meter**2*second)"),
		def("energy_flux", "joule/(meter**2*second)", "W/m²", "kW/m²"),
		def("power_density", "watt/meter**3"),
		def("specific_power", "watt/kilogram", "W/kg", "kW/t"),
		def("carbon_intensity", "kilogram/joule", "kg/MJ", "kg/kWh", "kg/MWh", "t/MWh"),
		def("ramp_rate", "watt/second", "W/s", "MW/min"),

		// economic
		def("cost_per_energy", cur+"/joule", cur+"/J", cur+"/kWh", cur+"/MWh", cur+"/GJ"),
		def(CostPerMass, cur+"/kilogram", cur+"/kg", cur+"/t"),
		def("cost_per_power", cur+"/watt", cur+"/W", cur+"/kW", cur+"/MW"),
		def("cost_per_volume", cur+"/meter**3", cur+"/m³", cur+"/L"),
	}
}

// variantDefinitions share an owner's dimensionality and are reachable by key only.
func variantDefinitions() []Definition {
	return []Definition{
		def("emissivity", units.Dimensionless),
		def("absorptivity", units.Dimensionless),
		def("reflectivity", units.Dimensionless),
		def("transmittance", units.Dimensionless),
		def("heat_flux", "watt/meter**2", "W/m²", "kW/m²"),
		def("energy_flow_rate", "watt", "W", "kW", "MW"),
	}
}

// Standard builds the standard catalog against sys.
func Standard(sys *units.System) (*Registry, error) {
	b := NewBuilder(sys)
	for _, d := range flowDefinitions(sys) {
		b.Add(New(d))
	}
	for _, d := range physicalDefinitions(sys) {
		b.Add(New(d))
	}
	for _, d := range variantDefinitions() {
		b.AddVariant(New(d))
	}
	return b.Build()
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the standard catalog over units.Default().
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Standard(units.Default())
		if err != nil {
			panic(fmt.Sprintf("dimension: standard catalog: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
