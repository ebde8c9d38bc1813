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

package resource

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCompositeType matches any UnknownCompositeTypeError.
	ErrUnknownCompositeType = errors.New("unknown composite type")
	// ErrUnknownField matches any UnknownFieldError.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidSchema is returned when a catalog entry cannot be resolved.
	ErrInvalidSchema = errors.New("invalid composite schema")
	// ErrMalformedComposite is returned when a serialized composite is not shaped as expected.
	ErrMalformedComposite = errors.New("malformed composite")
)

// UnknownCompositeTypeError reports a type tag missing from the catalog.
type UnknownCompositeTypeError struct {
	Type string
}

func (e *UnknownCompositeTypeError) Error() string {
	return fmt.Sprintf("unknown composite type %q", e.Type)
}

func (e *UnknownCompositeTypeError) Is(target error) bool { return target == ErrUnknownCompositeType }

// UnknownFieldError reports a keyword that names no field of the composite.
type UnknownFieldError struct {
	Type  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s has no field %q", e.Type, e.Field)
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }
