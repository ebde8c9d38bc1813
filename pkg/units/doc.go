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

// Package units parses unit-of-measure expressions and converts magnitudes
// between compatible units.
//
// Dimension vectors are carried by gonum's unit package. Money is modelled as
// one extra base dimension, CurrencyDim, whose base symbol and exchange rates
// are configured per System.
//
// # Expressions
//
// A unit expression is a product of symbols with integer exponents:
//
//	kg/s            kilogram/second       J/(kg*K)
//	m**3  m^3  m³   s⁻¹  1/K              INR/kWh
//
// Symbols may carry an SI prefix (kW, MJ, Mt, mbar) or a long prefix on a long
// name (kilowatt, megajoule). The tokens "", "-", "dimensionless", "0-1" and
// "count" are dimensionless.
//
// # Temperature
//
// Celsius and Fahrenheit carry an additive offset when they appear alone.
// Inside a compound expression (°C/min) they are read as temperature
// intervals and the offset is dropped.
package units
