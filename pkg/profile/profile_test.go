package profile

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestLinearValueAt(t *testing.T) {
	p, err := NewLinear([]float64{0, 10}, []float64{0, 100})
	if err != nil {
		t.Fatalf("NewLinear() error = %v", err)
	}
	tests := []struct {
		name string
		at   float64
		want float64
	}{
		{name: "Test case 1: midpoint interpolates", at: 5, want: 50},
		{name: "Test case 2: before range clamps to first value", at: -5, want: 0},
		{name: "Test case 3: after range clamps to last value", at: 15, want: 100},
		{name: "Test case 4: exact first breakpoint", at: 0, want: 0},
		{name: "Test case 5: exact last breakpoint", at: 10, want: 100},
		{name: "Test case 6: quarter point", at: 2.5, want: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ValueAt(tt.at); got != tt.want {
				t.Errorf("ValueAt(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestLinearRepeatedTimePoint(t *testing.T) {
	p, err := NewLinear([]float64{0, 5, 5, 10}, []float64{0, 10, 20, 30})
	if err != nil {
		t.Fatalf("NewLinear() error = %v", err)
	}
	if got := p.ValueAt(7.5); got != 25 {
		t.Errorf("ValueAt(7.5) = %v, want 25", got)
	}
	if got := p.ValueAt(2.5); got != 5 {
		t.Errorf("ValueAt(2.5) = %v, want 5", got)
	}
}

func TestSteppedValueAt(t *testing.T) {
	p, err := NewStepped([]float64{0, 5, 10}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("NewStepped() error = %v", err)
	}
	tests := []struct {
		name string
		at   float64
		want float64
	}{
		{name: "Test case 1: inside first step", at: 3, want: 1},
		{name: "Test case 2: inside second step", at: 7, want: 2},
		{name: "Test case 3: before first breakpoint is zero", at: -1, want: 0},
		{name: "Test case 4: on a breakpoint takes the new value", at: 5, want: 2},
		{name: "Test case 5: after last breakpoint holds", at: 99, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ValueAt(tt.at); got != tt.want {
				t.Errorf("ValueAt(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestFixed(t *testing.T) {
	p := NewFixed(42)
	for _, at := range []float64{-1e9, 0, 1e9} {
		if got := p.ValueAt(at); got != 42 {
			t.Errorf("ValueAt(%v) = %v, want 42", at, got)
		}
	}
}

func TestConstructionErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
	}{
		{name: "Test case 1: linear with descending times", build: func() error {
			_, err := NewLinear([]float64{5, 0}, []float64{1, 2})
			return err
		}},
		{name: "Test case 2: linear with one point", build: func() error {
			_, err := NewLinear([]float64{0}, []float64{1})
			return err
		}},
		{name: "Test case 3: linear with length mismatch", build: func() error {
			_, err := NewLinear([]float64{0, 1}, []float64{1})
			return err
		}},
		{name: "Test case 4: stepped with no points", build: func() error {
			_, err := NewStepped(nil, nil)
			return err
		}},
		{name: "Test case 5: stepped with descending times", build: func() error {
			_, err := NewStepped([]float64{0, 3, 2}, []float64{1, 2, 3})
			return err
		}},
		{name: "Test case 6: NaN time point", build: func() error {
			_, err := NewStepped([]float64{0, nan()}, []float64{1, 2})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("error = %v, want ErrInvalidProfile", err)
			}
		})
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestBreakpointsAreCopied(t *testing.T) {
	times := []float64{0, 10}
	values := []float64{0, 100}
	p, err := NewLinear(times, values)
	if err != nil {
		t.Fatal(err)
	}
	values[1] = -1
	if got := p.ValueAt(10); got != 100 {
		t.Errorf("profile changed after caller mutated input: got %v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	linear, _ := NewLinear([]float64{0, 10}, []float64{0, 100})
	stepped, _ := NewStepped([]float64{0, 5, 10}, []float64{1, 2, 3})
	profiles := []Profile{NewFixed(3.5), linear, stepped}

	for _, p := range profiles {
		t.Run(string(p.Type()), func(t *testing.T) {
			data, err := Marshal(p)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Unmarshal(data)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, p) {
				t.Errorf("round trip = %#v, want %#v", got, p)
			}
		})
	}
}

func TestUnknownType(t *testing.T) {
	_, err := Unmarshal([]byte(`{"type":"sinusoidal","value":1}`))
	if !errors.Is(err, ErrUnknownProfileType) {
		t.Errorf("error = %v, want ErrUnknownProfileType", err)
	}
	var unknown *UnknownProfileTypeError
	if !errors.As(err, &unknown) || unknown.Type != "sinusoidal" {
		t.Errorf("error = %#v, want UnknownProfileTypeError{sinusoidal}", err)
	}
}

func TestRef(t *testing.T) {
	stepped, _ := NewStepped([]float64{0, 5}, []float64{10, 20})
	ref := NewRef(stepped, "INR/kWh", "tariff")

	data, err := json.Marshal(ref)
	if err != nil {
		t.Fatal(err)
	}
	var got Ref
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, ref) {
		t.Errorf("round trip = %#v, want %#v", got, ref)
	}
	if v := got.ValueAt(6); v != 20 {
		t.Errorf("ValueAt(6) = %v, want 20", v)
	}
	if v := (Ref{}).ValueAt(1); v != 0 {
		t.Errorf("empty ref ValueAt = %v, want 0", v)
	}

	_, err = RefFromMap(map[string]any{"profile": map[string]any{"type": "cubic"}})
	if !errors.Is(err, ErrUnknownProfileType) {
		t.Errorf("error = %v, want ErrUnknownProfileType", err)
	}
	_, err = RefFromMap(map[string]any{"units": "kg"})
	if !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("error = %v, want ErrInvalidProfile", err)
	}
}

func TestSampleAndHorizon(t *testing.T) {
	times, err := Horizon(0, 10, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{0, 2.5, 5, 7.5, 10}; !reflect.DeepEqual(times, want) {
		t.Errorf("Horizon() = %v, want %v", times, want)
	}
	linear, _ := NewLinear([]float64{0, 10}, []float64{0, 100})
	if got, want := Sample(linear, times), []float64{0, 25, 50, 75, 100}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sample() = %v, want %v", got, want)
	}
	if _, err := Horizon(0, 1, 0); err == nil {
		t.Error("Horizon() with zero step should fail")
	}
	if _, err := Horizon(5, 1, 1); err == nil {
		t.Error("Horizon() with end before start should fail")
	}
}

func TestNaNTime(t *testing.T) {
	linear, _ := NewLinear([]float64{0, 10}, []float64{0, 100})
	stepped, _ := NewStepped([]float64{0, 5}, []float64{1, 2})
	for _, p := range []Profile{linear, stepped} {
		if got := p.ValueAt(math.NaN()); !math.IsNaN(got) {
			t.Errorf("%v.ValueAt(NaN) = %v, want NaN", p, got)
		}
	}
}

func TestHorizonRejectsUnboundedRanges(t *testing.T) {
	tests := []struct {
		name             string
		start, end, step float64
	}{
		{name: "Test case 1: NaN start", start: math.NaN(), end: 10, step: 1},
		{name: "Test case 2: NaN end", start: 0, end: math.NaN(), step: 1},
		{name: "Test case 3: infinite end", start: 0, end: math.Inf(1), step: 1},
		{name: "Test case 4: infinite start", start: math.Inf(-1), end: 0, step: 1},
		{name: "Test case 5: NaN step", start: 0, end: 1, step: math.NaN()},
		{name: "Test case 6: too many samples", start: 0, end: 1e12, step: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Horizon(tt.start, tt.end, tt.step); err == nil {
				t.Errorf("Horizon(%v, %v, %v) should fail", tt.start, tt.end, tt.step)
			}
		})
	}
}
