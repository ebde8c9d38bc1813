package graph

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/climact/climate-action-tool/pkg/dimension"
	"github.com/climact/climate-action-tool/pkg/profile"
	"github.com/climact/climate-action-tool/pkg/quantity"
	"github.com/climact/climate-action-tool/pkg/resource"
)

var _ = Describe("Document", func() {
	var codec *Codec

	BeforeEach(func() {
		codec = NewCodec(resource.DefaultCatalog())
	})

	buildPlant := func() *Graph {
		g := New(WithIDGenerator(sequentialIDs()))
		plant := g.CreateNode("Plant", 1.5, -2, map[string]any{"region": "west"})
		mill := g.CreateNode("Mill", 3, 4, nil)

		price, err := profile.NewLinear([]float64{0, 10}, []float64{40, 60})
		Expect(err).NotTo(HaveOccurred())
		fuel, err := resource.DefaultCatalog().New("Fuel", resource.Kwargs{
			"mass": 1000.0, "mass_units": "kg",
			"cost": 50.0, "cost_units": "INR/kg",
			"cost_profile": profile.Ref{Profile: price},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(plant.SetResource(Consumed, "BF-BOF", "coal", fuel, true)).To(Succeed())
		Expect(plant.SetResource(Produced, "BF-BOF", "steel", material(2), true)).To(Succeed())
		Expect(mill.SetResource(Consumed, "rolling", "steel", material(2), true)).To(Succeed())

		capacity, err := quantity.Default().New(dimension.Mass, quantity.Array(1, 2, 3), "t")
		Expect(err).NotTo(HaveOccurred())
		Expect(plant.SetParam("BF-BOF", "capacity", capacity, true)).To(Succeed())
		plant.AddEquation("BF-BOF", "steel = 0.8 * coal")

		_, err = g.CreateEdge(plant.ID, mill.ID, "material", map[string]any{"label": "hot coil"})
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	It("should round trip a graph through JSON", func() {
		g := buildPlant()
		var buf bytes.Buffer
		Expect(codec.Write(&buf, g)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`"version": 1`))

		loaded, err := codec.Read(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.NodeCount()).To(Equal(2))
		Expect(loaded.EdgeCount()).To(Equal(1))

		plant, err := loaded.Node("id-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(plant.Name).To(Equal("Plant"))
		Expect([]float64{plant.X, plant.Y}).To(Equal([]float64{1.5, -2}))
		Expect(plant.Properties).To(HaveKeyWithValue("region", "west"))

		orig, _ := g.Node("id-1")
		tech, err := plant.Technology("BF-BOF", false)
		Expect(err).NotTo(HaveOccurred())
		origTech, _ := orig.Technology("BF-BOF", false)
		Expect(tech.Consumed["coal"].Equal(origTech.Consumed["coal"])).To(BeTrue())
		Expect(tech.Produced["steel"].Equal(origTech.Produced["steel"])).To(BeTrue())
		Expect(tech.Params["capacity"].Equal(origTech.Params["capacity"])).To(BeTrue())
		Expect(tech.Equations).To(Equal([]string{"steel = 0.8 * coal"}))

		cost, err := tech.Consumed["coal"].ValueAt("cost", 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(cost.Value()).To(BeNumerically("~", 50, 1e-9))

		edge, err := loaded.Edge("id-3")
		Expect(err).NotTo(HaveOccurred())
		Expect(edge.Source).To(Equal("id-1"))
		Expect(edge.Target).To(Equal("id-2"))
		Expect(edge.Properties).To(HaveKeyWithValue("label", "hot coil"))
	})

	It("should save and load files", func() {
		path := filepath.Join(GinkgoT().TempDir(), "plant.json")
		Expect(codec.Save(path, buildPlant())).To(Succeed())
		_, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())

		g, err := codec.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.NodeCount()).To(Equal(2))
		Expect(g.CheckStreams()).To(BeEmpty())
	})

	It("should encode an empty graph with empty lists", func() {
		var buf bytes.Buffer
		Expect(codec.Write(&buf, New())).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`"nodes": []`))
		Expect(buf.String()).To(ContainSubstring(`"edges": []`))
	})

	Context("validation", func() {
		It("should report every problem at once", func() {
			doc := `{
  "version": 1,
  "nodes": [
    {"id": "a", "name": "A", "technologies": {"t": {
      "consumed": {"x": {"type": "Unobtainium", "value": 1, "units": "kg"}},
      "params": {"p": {"type": "Mass", "value": 1, "units": "parsec"}}
    }}},
    {"id": "a", "name": "A again"},
    {"id": "b", "name": "B"}
  ],
  "edges": [
    {"id": "e1", "source": "a", "target": "ghost", "type": "flow"},
    {"id": "e2", "source": "nobody", "target": "b", "type": "flow"}
  ]
}`
			parsed, err := ReadDocument(strings.NewReader(doc))
			Expect(err).NotTo(HaveOccurred())

			report := codec.Validate(parsed)
			Expect(report.OK()).To(BeFalse())
			Expect(report.Problems).To(HaveLen(5))

			err = report.Err()
			Expect(errors.Is(err, ErrDanglingEdge)).To(BeTrue())
			Expect(errors.Is(err, ErrInvalidResource)).To(BeTrue())
			Expect(errors.Is(err, ErrDuplicateID)).To(BeTrue())
			Expect(errors.Is(err, resource.ErrUnknownCompositeType)).To(BeTrue())

			var dangling *DanglingEdgeError
			Expect(errors.As(err, &dangling)).To(BeTrue())
			Expect(dangling.EdgeID).To(Equal("e1"))
			Expect(dangling.NodeID).To(Equal("ghost"))

			g, err := codec.Decode(parsed)
			Expect(err).To(HaveOccurred())
			Expect(g).To(BeNil())
		})

		It("should warn but load when streams do not match", func() {
			g := buildPlant()
			mill, _ := g.Node("id-2")
			delete(mill.Technologies, "rolling")
			Expect(mill.SetResource(Consumed, "rolling", "slab", material(1), true)).To(Succeed())

			report := codec.Validate(codec.Encode(g))
			Expect(report.OK()).To(BeTrue())
			Expect(report.Warnings).To(HaveLen(1))
			Expect(errors.Is(report.Warnings[0], ErrNoMatchingStream)).To(BeTrue())
		})

		It("should refuse newer document versions", func() {
			_, err := codec.Decode(Document{Version: DocumentVersion + 1})
			Expect(errors.Is(err, ErrUnsupportedVersion)).To(BeTrue())
		})

		It("should fail on malformed JSON", func() {
			_, err := codec.Read(strings.NewReader("{"))
			Expect(err).To(HaveOccurred())
		})
	})
})
