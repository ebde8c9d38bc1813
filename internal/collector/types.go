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

package collector

import (
	"fmt"

	"github.com/climact/climate-action-tool/pkg/profile"
)

// FieldMetric is the metric name of sampled composite fields.
const FieldMetric = "resource_field_value"

// Labels attached to every sampled series.
const (
	LabelNode       = "node"
	LabelTechnology = "technology"
	LabelDirection  = "direction"
	LabelResource   = "resource"
	LabelField      = "field"
	LabelType       = "type"
)

// SeriesLabels are the labels a series can be grouped by, in display order.
var SeriesLabels = []string{LabelNode, LabelTechnology, LabelDirection, LabelResource, LabelField}

// Horizon is the model time range sampled by a collection.
type Horizon struct {
	From float64
	To   float64
	Step float64
}

// Times expands the horizon into sample times.
func (h Horizon) Times() ([]float64, error) {
	times, err := profile.Horizon(h.From, h.To, h.Step)
	if err != nil {
		return nil, fmt.Errorf("horizon %g..%g step %g: %w", h.From, h.To, h.Step, err)
	}
	return times, nil
}
