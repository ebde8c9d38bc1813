package dimension_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/climact/climate-action-tool/pkg/dimension"
	"github.com/climact/climate-action-tool/pkg/units"
)

var _ = Describe("Registry", func() {
	var sys *units.System

	BeforeEach(func() {
		sys = units.Default()
	})

	Context("with the standard catalog", func() {
		var reg *dimension.Registry

		BeforeEach(func() {
			var err error
			reg, err = dimension.Standard(sys)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should resolve flow dimensions by key with their metadata", func() {
			mass, err := reg.Get(dimension.Mass)
			Expect(err).NotTo(HaveOccurred())
			Expect(mass.Canonical()).To(Equal("kilogram"))
			Expect(mass.Units()).To(Equal([]string{"gram", "kilogram", "metric_ton"}))
			Expect(mass.Color()).To(Equal("#78cad2"))
			Expect(mass.Label()).To(Equal("Mass"))
			Expect(mass.Name()).To(Equal("Mass"))
		})

		It("should offer the configured currencies", func() {
			Expect(reg.MustGet(dimension.Currency).Units()).To(Equal([]string{"INR", "EUR", "USD"}))
			Expect(reg.MustGet(dimension.Currency).Canonical()).To(Equal("INR"))
		})

		It("should fail with UnknownDimensionError for an unknown key", func() {
			_, err := reg.Get("phlogiston")
			Expect(errors.Is(err, dimension.ErrUnknownDimension)).To(BeTrue())
			var unknown *dimension.UnknownDimensionError
			Expect(errors.As(err, &unknown)).To(BeTrue())
			Expect(unknown.Key).To(Equal("phlogiston"))
		})

		It("should dispatch a dimensionality to its owner", func() {
			owner, ok := reg.Lookup(sys.MustParse("t/hr").Dimensionality())
			Expect(ok).To(BeTrue())
			Expect(owner.Key()).To(Equal(dimension.MassFlowRate))
			Expect(owner.Name()).To(Equal("MassFlowRate"))
		})

		It("should keep variants out of dispatch", func() {
			owner, ok := reg.Lookup(units.Dimensionless)
			Expect(ok).To(BeTrue())
			Expect(owner.Key()).To(Equal(dimension.DimensionlessKey))

			emissivity, err := reg.Get("emissivity")
			Expect(err).NotTo(HaveOccurred())
			Expect(emissivity.Dimensionality()).To(Equal(units.Dimensionality(units.Dimensionless)))

			power, _ := reg.Lookup(sys.MustParse("W").Dimensionality())
			Expect(power.Key()).To(Equal(dimension.Power))
		})

		It("should resolve serialization tags", func() {
			d, ok := reg.ByName("SpecificHeatCapacity")
			Expect(ok).To(BeTrue())
			Expect(d.Key()).To(Equal("specific_heat_capacity"))
			_, ok = reg.ByName("Phlogiston")
			Expect(ok).To(BeFalse())
		})

		It("should list keys in registration order", func() {
			Expect(reg.Keys()[:4]).To(Equal([]string{dimension.Mass, dimension.Volume, dimension.Energy, dimension.Currency}))
			Expect(reg.Len()).To(Equal(len(reg.All())))
		})
	})

	Context("when building a custom registry", func() {
		It("should reject a second owner of the same dimensionality", func() {
			_, err := dimension.NewBuilder(sys).
				Add(dimension.New(dimension.Definition{Key: "energy", Canonical: "J"})).
				Add(dimension.New(dimension.Definition{Key: "torque", Canonical: "N*m"})).
				Build()
			Expect(errors.Is(err, dimension.ErrDimensionalityConflict)).To(BeTrue())
			var conflict *dimension.DimensionalityConflictError
			Expect(errors.As(err, &conflict)).To(BeTrue())
			Expect(conflict.Existing).To(Equal("energy"))
			Expect(conflict.Incoming).To(Equal("torque"))
		})

		It("should accept the same dimensionality as a variant", func() {
			reg, err := dimension.NewBuilder(sys).
				Add(dimension.New(dimension.Definition{Key: "energy", Canonical: "J"})).
				AddVariant(dimension.New(dimension.Definition{Key: "torque", Canonical: "N*m"})).
				Build()
			Expect(err).NotTo(HaveOccurred())
			owner, _ := reg.Lookup(reg.MustGet("torque").Dimensionality())
			Expect(owner.Key()).To(Equal("energy"))
		})

		It("should reject offered units that do not match the canonical unit", func() {
			_, err := dimension.NewBuilder(sys).
				Add(dimension.New(dimension.Definition{Key: "mass", Canonical: "kg", Units: []string{"kg", "s"}})).
				Build()
			Expect(errors.Is(err, units.ErrIncompatibleUnits)).To(BeTrue())
		})

		It("should reject unparseable canonical units", func() {
			_, err := dimension.NewBuilder(sys).Add(dimension.New(dimension.Definition{Key: "x", Canonical: "furlong"})).Build()
			Expect(errors.Is(err, units.ErrUnknownUnit)).To(BeTrue())
		})

		It("should reject duplicate keys", func() {
			_, err := dimension.NewBuilder(sys).
				Add(dimension.New(dimension.Definition{Key: "mass", Canonical: "kg"})).
				AddVariant(dimension.New(dimension.Definition{Key: "mass", Canonical: "g"})).
				Build()
			Expect(errors.Is(err, dimension.ErrDuplicateDimension)).To(BeTrue())
		})
	})
})

var _ = Describe("Cross", func() {
	It("should build numerator-major unit combinations", func() {
		currency := dimension.New(dimension.Definition{Key: "currency", Canonical: "INR", Units: []string{"INR", "USD"}})
		mass := dimension.New(dimension.Definition{Key: "mass", Canonical: "kg", Units: []string{"kg", "ton"}})
		Expect(dimension.Cross(currency, mass)).To(Equal([]string{"INR/kg", "INR/ton", "USD/kg", "USD/ton"}))
	})

	It("should collapse a self ratio to a dash", func() {
		mass := dimension.New(dimension.Definition{Key: "mass", Canonical: "kg", Units: []string{"kg", "ton"}})
		Expect(dimension.Cross(mass, mass)).To(Equal([]string{"-"}))
	})
})

var _ = Describe("New", func() {
	It("should derive name and label from the key", func() {
		d := dimension.New(dimension.Definition{Key: "heat_transfer_coefficient", Canonical: "W/(m**2*K)"})
		Expect(d.Name()).To(Equal("HeatTransferCoefficient"))
		Expect(d.Label()).To(Equal("Heat Transfer Coefficient"))
		Expect(d.Units()).To(Equal([]string{"W/(m**2*K)"}))
		Expect(d.Color()).To(Equal(dimension.DefaultColor))
		Expect(d.Icon()).To(Equal(dimension.DefaultIcon))
	})
})
