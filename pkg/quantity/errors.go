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

package quantity

import (
	"errors"
	"fmt"
)

var (
	// ErrOffsetArithmetic is returned for arithmetic on affine temperature units (°C, °F).
	ErrOffsetArithmetic = errors.New("arithmetic on offset units is ambiguous, convert to an absolute unit first")
	// ErrShapeMismatch matches any ShapeMismatchError.
	ErrShapeMismatch = errors.New("magnitude shapes do not match")
	// ErrUnknownQuantityType matches any UnknownQuantityTypeError.
	ErrUnknownQuantityType = errors.New("unknown quantity type")
	// ErrMalformedRecord is returned when a serialized quantity lacks required fields.
	ErrMalformedRecord = errors.New("malformed quantity record")
)

// ShapeMismatchError reports element-wise arithmetic on arrays of different lengths.
type ShapeMismatchError struct {
	Left, Right int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("cannot combine arrays of length %d and %d", e.Left, e.Right)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// UnknownQuantityTypeError reports a serialization tag missing from the registry.
type UnknownQuantityTypeError struct {
	Type string
}

func (e *UnknownQuantityTypeError) Error() string {
	return fmt.Sprintf("unknown quantity type %q", e.Type)
}

func (e *UnknownQuantityTypeError) Is(target error) bool { return target == ErrUnknownQuantityType }
