package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/climact/climate-action-tool/pkg/graph"
	"github.com/climact/climate-action-tool/pkg/profile"
	"github.com/climact/climate-action-tool/pkg/resource"
	"github.com/climact/climate-action-tool/pkg/units"
)

type result struct {
	out    string
	errOut string
	err    error
}

func run(args ...string) result {
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func decodeJSON(s string) map[string]any {
	var m map[string]any
	Expect(json.Unmarshal([]byte(s), &m)).To(Succeed())
	return m
}

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

// writePlant saves a two-node graph: a Plant burning coal with a rising cost
// profile and producing steel, and a Yard, joined by one edge.
func writePlant(dir string) string {
	n := 0
	g := graph.New(graph.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	plant := g.CreateNode("Plant", 0, 0, nil)
	yard := g.CreateNode("Yard", 10, 0, nil)

	cat := resource.DefaultCatalog()
	price, err := profile.NewLinear([]float64{0, 10}, []float64{40, 60})
	Expect(err).NotTo(HaveOccurred())
	coal, err := cat.New("Fuel", resource.Kwargs{
		"value": 1000.0, "units": "kg/s",
		"cost": 50.0, "cost_units": "INR/kg",
		"cost_profile": profile.Ref{Profile: price},
	})
	Expect(err).NotTo(HaveOccurred())
	steel, err := cat.New("Material", resource.Kwargs{"value": 800.0, "units": "kg/s", "cost": 30.0, "cost_units": "INR/kg"})
	Expect(err).NotTo(HaveOccurred())
	Expect(plant.SetResource(graph.Consumed, "BF-BOF", "coal", coal, true)).To(Succeed())
	Expect(plant.SetResource(graph.Produced, "BF-BOF", "steel", steel, true)).To(Succeed())
	_, err = g.CreateEdge(plant.ID, yard.ID, "material", nil)
	Expect(err).NotTo(HaveOccurred())

	path := filepath.Join(dir, "plant.json")
	Expect(graph.NewCodec(cat).Save(path, g)).To(Succeed())
	return path
}

var _ = Describe("climact", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Context("units", func() {
		It("should list every dimension", func() {
			r := run("units")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(HavePrefix("KEY"))
			Expect(r.out).To(MatchRegexp(`(?m)^mass\s+Mass\s+kilogram\s`))
		})

		It("should list the units of one dimension by key or type name", func() {
			byKey := run("units", "mass")
			Expect(byKey.err).NotTo(HaveOccurred())
			Expect(byKey.out).To(Equal("gram\nkilogram\t(canonical)\nmetric_ton\n"))

			byName := run("units", "Mass")
			Expect(byName.out).To(Equal(byKey.out))
		})

		It("should fail for an unknown dimension", func() {
			Expect(run("units", "charm").err).To(HaveOccurred())
		})
	})

	Context("convert", func() {
		It("should convert between compatible units", func() {
			r := run("convert", "3.6", "t/h", "kg/s", "-o", "json")
			Expect(r.err).NotTo(HaveOccurred())
			m := decodeJSON(r.out)
			Expect(m["value"]).To(BeNumerically("~", 1.0, 1e-12))
			Expect(m["units"]).To(Equal("kg/s"))
		})

		It("should apply temperature offsets", func() {
			r := run("convert", "25", "degC", "K", "-o", "json")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(decodeJSON(r.out)["value"]).To(BeNumerically("~", 298.15, 1e-9))
		})

		It("should refuse incompatible units and count the failure", func() {
			r := run("convert", "1", "kg", "m", "--print-metrics")
			Expect(errors.Is(r.err, units.ErrIncompatibleUnits)).To(BeTrue())
			Expect(r.errOut).To(ContainSubstring(`climact_unit_conversions_total{outcome="error"} 1`))
		})

		It("should reject a value that is not a number", func() {
			Expect(run("convert", "ten", "kg", "g").err).To(MatchError(ContainSubstring("not a number")))
		})

		It("should honour the configured base currency", func() {
			r := run("--base-currency", "USD", "convert", "2", "EUR", "USD", "-o", "json")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(decodeJSON(r.out)["value"]).To(BeNumerically("~", 180, 1e-9))

			Expect(run("--base-currency", "USD", "units", "currency").out).To(ContainSubstring("USD\t(canonical)"))
		})
	})

	Context("profile eval", func() {
		It("should evaluate a profile reference at the given times", func() {
			path := writeFile(dir, "price.json",
				`{"profile": {"type": "stepped", "time_points": [0, 5], "values": [1, 2]}, "units": "USD/t"}`)
			r := run("profile", "eval", path, "--at", "-1,0,7")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(MatchRegexp(`(?m)^-1\s+0\s+USD/t$`))
			Expect(r.out).To(MatchRegexp(`(?m)^0\s+1\s+USD/t$`))
			Expect(r.out).To(MatchRegexp(`(?m)^7\s+2\s+USD/t$`))
		})

		It("should evaluate a bare profile over a horizon", func() {
			path := writeFile(dir, "ramp.json", `{"type": "linear", "time_points": [0, 10], "values": [0, 100]}`)
			r := run("profile", "eval", path, "--from", "0", "--to", "10", "--step", "5")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(MatchRegexp(`(?m)^5\s+50\s*$`))
			Expect(r.out).To(MatchRegexp(`(?m)^10\s+100\s*$`))
		})

		It("should require times", func() {
			path := writeFile(dir, "flat.json", `{"type": "fixed", "value": 3}`)
			Expect(run("profile", "eval", path).err).To(HaveOccurred())
		})

		It("should reject unknown profile types", func() {
			path := writeFile(dir, "bad.json", `{"type": "sinusoidal"}`)
			r := run("profile", "eval", path, "--at", "0")
			Expect(errors.Is(r.err, profile.ErrUnknownProfileType)).To(BeTrue())
		})
	})

	Context("resource", func() {
		It("should list composite types and their fields", func() {
			r := run("resource", "types")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(MatchRegexp(`(?m)^Fuel\s+mass\s`))

			r = run("resource", "types", "Fuel")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(MatchRegexp(`(?m)^cost\s+Primary\s+\S+\s+0\s+true$`))
		})

		It("should build and print a composite", func() {
			r := run("resource", "new", "Fuel", "value=1000", "units=kg", "cost=50", "cost_units=INR/kg")
			Expect(r.err).NotTo(HaveOccurred())
			m := decodeJSON(r.out)
			Expect(m["type"]).To(Equal("Fuel"))
			Expect(m["value"]).To(BeNumerically("==", 1000))
			Expect(m["units"]).To(Equal("kg"))
			cost, ok := m["cost"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(cost["units"]).To(Equal("INR/kg"))
			Expect(cost["value"]).To(BeNumerically("==", 50))
		})

		It("should evaluate profiled fields", func() {
			r := run("resource", "new", "Fuel", "cost=50", "cost_units=INR/kg",
				`cost_profile={"type":"linear","time_points":[0,10],"values":[40,60]}`, "--at", "0,5")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(MatchRegexp(`(?m)^cost\s+0\s+40 INR/kg$`))
			Expect(r.out).To(MatchRegexp(`(?m)^cost\s+5\s+50 INR/kg$`))
		})

		It("should reject unknown types and fields", func() {
			Expect(errors.Is(run("resource", "new", "Plutonium").err, resource.ErrUnknownCompositeType)).To(BeTrue())
			Expect(errors.Is(run("resource", "new", "Fuel", "flavour=1").err, resource.ErrUnknownField)).To(BeTrue())
			Expect(run("resource", "new", "Fuel", "value").err).To(MatchError(ContainSubstring("key=value")))
		})
	})

	Context("graph", func() {
		var plant string

		BeforeEach(func() {
			plant = writePlant(dir)
		})

		It("should validate a good document", func() {
			r := run("graph", "validate", plant)
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(ContainSubstring("ok (2 nodes, 1 edges, 0 warnings)"))
		})

		It("should report every problem of a bad document", func() {
			path := writeFile(dir, "bad.json", `{"version": 1,
  "nodes": [{"id": "a", "name": "A"}],
  "edges": [{"id": "e1", "source": "a", "target": "ghost", "type": "flow"},
            {"id": "e2", "source": "nowhere", "target": "a", "type": "flow"}]}`)
			r := run("graph", "validate", path)
			Expect(r.err).To(MatchError(ContainSubstring("2 problem(s)")))
			Expect(r.out).To(ContainSubstring(`missing node "ghost"`))
			Expect(r.out).To(ContainSubstring(`missing node "nowhere"`))
		})

		It("should summarize nodes, technologies and edges", func() {
			r := run("graph", "summary", plant)
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(HavePrefix("2 nodes, 1 edges"))
			Expect(r.out).To(MatchRegexp(`(?m)^id-1\s+Plant\s+BF-BOF\s+coal\(Fuel\)\s+steel\(Material\)$`))
			Expect(r.out).To(MatchRegexp(`(?m)^id-3\s+id-1\s+id-2\s+material$`))
		})

		It("should sample profiled fields over a horizon", func() {
			r := run("graph", "sample", plant, "--to", "10", "--step", "5", "--agg", "max", "--match", "field=cost")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(MatchRegexp(`(?m)^id-1\s+BF-BOF\s+consumed\s+coal\s+cost\s+60\s+INR/kg$`))
			Expect(r.out).To(MatchRegexp(`(?m)^id-1\s+BF-BOF\s+produced\s+steel\s+cost\s+30\s+INR/kg$`))
		})

		It("should pool series by label", func() {
			r := run("graph", "sample", plant, "--to", "10", "--step", "5", "--agg", "count", "--group-by", "direction")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(MatchRegexp(`(?m)^direction=consumed\s+3$`))
			Expect(r.out).To(MatchRegexp(`(?m)^direction=produced\s+3$`))
		})

		It("should reject unknown aggregations and labels", func() {
			Expect(run("graph", "sample", plant, "--agg", "median").err).To(HaveOccurred())
			Expect(run("graph", "sample", plant, "--group-by", "colour").err).To(MatchError(ContainSubstring("unknown label")))
		})

		It("should apply, group and undo edits", func() {
			out := filepath.Join(dir, "edited.json")
			r := run("graph", "edit", plant,
				"--op", "add-node Mill 3 4",
				"--op", "connect Plant Mill material",
				"--op", "delete-node Yard; move Mill 5 5",
				"--op", "undo",
				"--out", out,
				"--print-metrics")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.out).To(ContainSubstring("3 nodes, 2 edges (history: 2 undo, 1 redo)"))
			Expect(r.errOut).To(ContainSubstring(`climact_graph_mutations_total{event="node_created"}`))

			g, err := graph.NewCodec(resource.DefaultCatalog()).Load(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.NodeCount()).To(Equal(3))
			Expect(g.EdgeCount()).To(Equal(2))
			mill, err := resolveNode(g, "Mill")
			Expect(err).NotTo(HaveOccurred())
			n, _ := g.Node(mill)
			Expect([]float64{n.X, n.Y}).To(Equal([]float64{3, 4}))

			orig, err := graph.NewCodec(resource.DefaultCatalog()).Load(plant)
			Expect(err).NotTo(HaveOccurred())
			Expect(orig.NodeCount()).To(Equal(2))
		})

		It("should roll back a failing group and save nothing", func() {
			before, err := os.ReadFile(plant)
			Expect(err).NotTo(HaveOccurred())

			r := run("graph", "edit", plant, "--op", "add-node Mill 0 0; connect Mill Nowhere flow")
			Expect(errors.Is(r.err, graph.ErrNodeNotFound)).To(BeTrue())

			after, err := os.ReadFile(plant)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})

		It("should bound the history by the configured length", func() {
			cfg := writeFile(dir, "climact.yaml", "history:\n  maxUndo: 1\nlogging:\n  level: debug\n")
			r := run("--config", cfg, "graph", "edit", plant, "--dry-run",
				"--op", "add-node A 0 0", "--op", "add-node B 0 0", "--op", "undo", "--op", "undo")
			Expect(r.err).To(MatchError(ContainSubstring("nothing to undo")))
		})
	})

	Context("configuration", func() {
		It("should reject invalid settings before running a command", func() {
			r := run("--max-undo", "0", "units")
			Expect(r.err).To(MatchError(ContainSubstring("invalid config")))
			Expect(r.out).To(BeEmpty())
		})

		It("should write the metrics textfile on exit", func() {
			path := filepath.Join(dir, "climact.prom")
			r := run("--metrics-textfile", path, "resource", "new", "Material", "value=1", "units=kg/s")
			Expect(r.err).NotTo(HaveOccurred())
			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`climact_record_decodes_total{kind="composite",outcome="success"} 1`))
		})
	})
})
