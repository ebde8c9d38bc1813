package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climact/climate-action-tool/pkg/dimension"
	"github.com/climact/climate-action-tool/pkg/quantity"
	"github.com/climact/climate-action-tool/pkg/units"
)

func TestBuiltinCatalog(t *testing.T) {
	cat := DefaultCatalog()
	want := []string{"Material", "Product", "Fuel", "Electricity", "Fluid", "Steel"}
	if diff := cmp.Diff(want, cat.Types()); diff != "" {
		t.Errorf("Types() mismatch (-want +got):\n%s", diff)
	}

	fuel, err := cat.Schema("Fuel")
	require.NoError(t, err)
	assert.Equal(t, "mass", fuel.Primary().Name())
	assert.Equal(t, "kilogram/second", fuel.Primary().Unit())
	require.Len(t, fuel.Primary().Alternates(), 1)
	assert.Equal(t, dimension.Mass, fuel.Primary().Alternates()[0].Key())

	order, groups := fuel.Groups()
	if diff := cmp.Diff([]string{"Primary", "Chemical", "Emissions"}, order); diff != "" {
		t.Errorf("Groups() order mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, groups["Chemical"], "carbon_fraction")

	cost, ok := fuel.Field("cost")
	require.True(t, ok)
	assert.Equal(t, "INR/kilogram", cost.Unit())
	assert.Equal(t, dimension.CostPerMass, cost.Dimension().Key())
	assert.True(t, cost.IsVariable())
	assert.Contains(t, cost.Parameter().Units(), "USD/kilogram")

	emissions, ok := fuel.Field("CO2_emissions")
	require.True(t, ok)
	assert.Equal(t, units.Dimensionless, emissions.Unit())
	assert.Equal(t, []string{"-", units.Dimensionless}, emissions.Parameter().Units())
}

func TestCatalogFollowsBaseCurrency(t *testing.T) {
	sys, err := units.NewSystem(units.WithBaseCurrency("USD"), units.WithExchangeRates(map[string]float64{"INR": 0.012}))
	require.NoError(t, err)
	reg, err := dimension.Standard(sys)
	require.NoError(t, err)

	cat, err := NewCatalog(quantity.NewSpace(reg), BuiltinSpecs())
	require.NoError(t, err)
	el, err := cat.New("Electricity", nil)
	require.NoError(t, err)
	tariff, _ := el.Field("tariff")
	assert.Equal(t, "USD/kWh", tariff.Units())
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yaml")
	doc := `
composites:
  - type: Hydrogen
    color: "#00bfff"
    primary: {name: mass, dimension: mass_flow_rate, alternates: [mass]}
    fields:
      - {name: cost, ratio: [currency, mass], variable: true}
      - {name: purity, factor: true, default: 0.999}
      - {name: pressure, dimension: pressure, units: bar, variable: true}
  - type: Fuel
    primary: {name: volume, dimension: volume}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cat, err := LoadCatalog(quantity.Default(), []string{path})
	require.NoError(t, err)
	assert.Contains(t, cat.Types(), "Hydrogen")

	// the built-in Fuel is kept
	fuel, err := cat.Schema("Fuel")
	require.NoError(t, err)
	assert.Equal(t, "mass", fuel.Primary().Name())

	h, err := cat.New("Hydrogen", Kwargs{"value": 3.0, "units": "kg/hr"})
	require.NoError(t, err)
	purity, _ := h.Field("purity")
	assert.Equal(t, 0.999, purity.Value())
	assert.Equal(t, "Hydrogen", h.Schema().Label())
	assert.Equal(t, dimension.DefaultIcon, h.Schema().Icon())
}

func TestCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name: "Test case 1: unknown dimension",
			doc: `
composites:
  - type: Bad
    primary: {name: x, dimension: flux_capacitance}
`,
			wantErr: dimension.ErrUnknownDimension,
		},
		{
			name: "Test case 2: two field kinds",
			doc: `
composites:
  - type: Bad
    primary: {name: x, dimension: mass, factor: true}
`,
			wantErr: ErrInvalidSchema,
		},
		{
			name: "Test case 3: unit does not fit the dimension",
			doc: `
composites:
  - type: Bad
    primary: {name: x, dimension: mass, units: kWh}
`,
			wantErr: units.ErrIncompatibleUnits,
		},
		{
			name: "Test case 4: unknown key",
			doc: `
composites:
  - type: Bad
    primary: {name: x, dimension: mass, colour: red}
`,
			wantErr: ErrInvalidSchema,
		},
		{
			name: "Test case 5: duplicate field",
			doc: `
composites:
  - type: Bad
    primary: {name: x, dimension: mass}
    fields:
      - {name: y, factor: true}
      - {name: y, factor: true}
`,
			wantErr: ErrInvalidSchema,
		},
		{
			name: "Test case 6: reserved field name",
			doc: `
composites:
  - type: Bad
    primary: {name: x, dimension: mass}
    fields:
      - {name: units, factor: true}
`,
			wantErr: ErrInvalidSchema,
		},
		{
			name: "Test case 7: ratio unit mismatch",
			doc: `
composites:
  - type: Bad
    primary: {name: x, dimension: mass}
    fields:
      - {name: y, ratio: [currency, mass], units: "{currency}/kWh"}
`,
			wantErr: units.ErrIncompatibleUnits,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := ParseSpecs([]byte(tt.doc))
			if err == nil {
				_, err = NewCatalog(quantity.Default(), specs)
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
