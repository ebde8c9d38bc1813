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
	"errors"
	"fmt"
)

var (
	// ErrUnknownUnit matches any UnknownUnitError.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrIncompatibleUnits matches any IncompatibleUnitError.
	ErrIncompatibleUnits = errors.New("incompatible units")
	// ErrSyntax matches any SyntaxError.
	ErrSyntax = errors.New("invalid unit expression")
)

// UnknownUnitError reports a symbol missing from the unit system.
type UnknownUnitError struct {
	Symbol string
	Expr   string
}

func (e *UnknownUnitError) Error() string {
	if e.Expr == "" || e.Expr == e.Symbol {
		return fmt.Sprintf("unknown unit %q", e.Symbol)
	}
	return fmt.Sprintf("unknown unit %q in %q", e.Symbol, e.Expr)
}

func (e *UnknownUnitError) Is(target error) bool { return target == ErrUnknownUnit }

// IncompatibleUnitError reports a conversion between units of different dimensionality.
type IncompatibleUnitError struct {
	From    string
	To      string
	FromDim Dimensionality
	ToDim   Dimensionality
}

func (e *IncompatibleUnitError) Error() string {
	return fmt.Sprintf("cannot convert from %q (%s) to %q (%s)", e.From, e.FromDim, e.To, e.ToDim)
}

func (e *IncompatibleUnitError) Is(target error) bool { return target == ErrIncompatibleUnits }

// SyntaxError reports a malformed unit expression.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid unit expression %q at offset %d: %s", e.Expr, e.Pos, e.Msg)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }
