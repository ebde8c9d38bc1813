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

// Package quantity implements unit-aware magnitudes.
//
// A Quantity pairs a Magnitude (scalar or array) with a unit and is typed by
// a dimension.Dimension. Quantities are created through a Space, which binds
// them to one dimension registry:
//
//	space := quantity.Default()
//	flow, _ := space.New(dimension.MassFlowRate, quantity.Scalar(12), "t/hr")
//	perKg, _ := space.New(dimension.CostPerMass, quantity.Scalar(50), "INR/kg")
//	cost, _ := flow.Mul(perKg) // typed by whatever owns currency/time, else generic
//
// # Result typing
//
// Arithmetic results are typed by looking up their dimensionality in the
// registry. Dimensionalities without an owner produce generic quantities,
// whose serialization tag is "Quantity".
//
// # Serialization
//
// Quantities serialize to {"type", "value", "units"}. A Codec reverses this,
// resolving the type tag through the registry.
package quantity
