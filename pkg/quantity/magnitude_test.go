package quantity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagnitudeOf(t *testing.T) {
	tests := []struct {
		name      string
		in        any
		want      []float64
		wantArray bool
		wantErr   bool
	}{
		{name: "Test case 1: float", in: 2.5, want: []float64{2.5}},
		{name: "Test case 2: int", in: 3, want: []float64{3}},
		{name: "Test case 3: json number", in: json.Number("1e3"), want: []float64{1000}},
		{name: "Test case 4: numeric string", in: " 7 ", want: []float64{7}},
		{name: "Test case 5: decoded list", in: []any{1.0, 2, "3"}, want: []float64{1, 2, 3}, wantArray: true},
		{name: "Test case 6: float slice", in: []float64{4, 5}, want: []float64{4, 5}, wantArray: true},
		{name: "Test case 7: nested list", in: []any{[]any{1.0}}, wantErr: true},
		{name: "Test case 8: bool", in: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MagnitudeOf(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Values())
			assert.Equal(t, tt.wantArray, got.IsArray())
		})
	}
}

func TestMagnitudeJSON(t *testing.T) {
	var m Magnitude
	require.NoError(t, json.Unmarshal([]byte(` [1, 2.5] `), &m))
	assert.True(t, m.IsArray())
	assert.Equal(t, 2, m.Len())

	require.NoError(t, json.Unmarshal([]byte(`4`), &m))
	assert.False(t, m.IsArray())
	assert.Equal(t, 4.0, m.Float())

	data, err := json.Marshal(Array())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	var zero Magnitude
	assert.Equal(t, []float64{0}, zero.Values())
	assert.Equal(t, "0", zero.String())
	assert.Equal(t, "[1 2]", Array(1, 2).String())
}
