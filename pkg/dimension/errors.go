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
	"errors"
	"fmt"

	"github.com/climact/climate-action-tool/pkg/units"
)

var (
	// ErrUnknownDimension matches any UnknownDimensionError.
	ErrUnknownDimension = errors.New("unknown dimension")
	// ErrDimensionalityConflict matches any DimensionalityConflictError.
	ErrDimensionalityConflict = errors.New("dimensionality already registered")
	// ErrDuplicateDimension is returned when a key or name is registered twice.
	ErrDuplicateDimension = errors.New("duplicate dimension")
)

// UnknownDimensionError reports a lookup of an unregistered key.
type UnknownDimensionError struct {
	Key string
}

func (e *UnknownDimensionError) Error() string {
	return fmt.Sprintf("unknown dimension %q", e.Key)
}

func (e *UnknownDimensionError) Is(target error) bool { return target == ErrUnknownDimension }

// DimensionalityConflictError reports two dispatching dimensions with the same dimensionality.
type DimensionalityConflictError struct {
	Dimensionality units.Dimensionality
	Existing       string
	Incoming       string
}

func (e *DimensionalityConflictError) Error() string {
	return fmt.Sprintf("dimensionality %q is owned by %q, cannot register %q (register it as a variant)",
		e.Dimensionality, e.Existing, e.Incoming)
}

func (e *DimensionalityConflictError) Is(target error) bool {
	return target == ErrDimensionalityConflict
}
