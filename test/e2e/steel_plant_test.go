package e2e

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/climact/climate-action-tool/pkg/resource"
)

var _ = Describe("Steel plant model", Ordered, func() {
	var (
		document string
		catalog  string
		edited   string
		textfile string
	)

	BeforeAll(func() {
		document = testdata("steel_plant.json")
		catalog = testdata("hydrogen_catalog.yaml")
		edited = filepath.Join(workDir, "steel_plant_edited.json")
		textfile = filepath.Join(workDir, "climact.prom")
	})

	It("should reject the document without the hydrogen catalog", func() {
		out, _, err := climact("graph", "validate", document)
		Expect(err).To(MatchError(ContainSubstring("1 problem(s)")))
		Expect(out).To(ContainSubstring("Hydrogen"))

		_, _, err = climact("graph", "summary", document)
		Expect(errors.Is(err, resource.ErrUnknownCompositeType)).To(BeTrue())
	})

	It("should validate with the hydrogen catalog and warn about the unmatched edge", func() {
		out, _, err := climact("--catalog", catalog, "graph", "validate", document)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("warning: no matching stream: edge e2"))
		Expect(out).To(ContainSubstring("ok (4 nodes, 3 edges, 1 warnings)"))
	})

	It("should describe the extra composite type", func() {
		out, _, err := climact("--catalog", catalog, "resource", "types", "Hydrogen")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchRegexp(`(?m)^purity\s+Quality\s+\S+\s+1\s+false$`))
		Expect(out).To(MatchRegexp(`(?m)^pressure\s+Thermodynamic\s+bar\s+0\s+false$`))
	})

	It("should summarize the plant", func() {
		out, _, err := climact("--catalog", catalog, "graph", "summary", document)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HavePrefix("4 nodes, 3 edges"))
		Expect(out).To(MatchRegexp(`(?m)^plant\s+Blast furnace\s+BF-BOF\s+coal\(Fuel\),iron_ore\(Material\),power\(Electricity\)\s+steel\(Material\)$`))
		Expect(out).To(MatchRegexp(`(?m)^e3\s+plant\s+mill\s+material$`))
	})

	It("should sample the coal price ramp", func() {
		out, _, err := climact("--catalog", catalog, "graph", "sample", document,
			"--from", "0", "--to", "10", "--step", "5", "--agg", "avg", "--match", "resource=coal")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchRegexp(`(?m)^plant\s+BF-BOF\s+consumed\s+coal\s+cost\s+10\s+INR/kg$`))
	})

	It("should sample the stepped electricity tariff", func() {
		out, _, err := climact("--catalog", catalog, "graph", "sample", document,
			"--to", "10", "--step", "5", "--agg", "last", "--match", "resource=power,field=tariff")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchRegexp(`(?m)^plant\s+BF-BOF\s+consumed\s+power\s+tariff\s+9\s+INR/kWh$`))
	})

	It("should pool the sampled costs per node", func() {
		out, _, err := climact("--catalog", catalog, "graph", "sample", document,
			"--to", "10", "--step", "5", "--agg", "max", "--match", "field=cost", "--group-by", "node")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchRegexp(`(?m)^node=electrolyser\s+300$`))
		Expect(out).To(MatchRegexp(`(?m)^node=plant\s+45$`))
		Expect(out).To(MatchRegexp(`(?m)^node=mine\s+6$`))
	})

	It("should edit the plant and keep the result loadable", func() {
		out, _, err := climact("--catalog", catalog, "--metrics-textfile", textfile,
			"graph", "edit", document,
			"--op", "add-node Storage 600 300; connect mill Storage material",
			"--op", "add-node Yard 900 100",
			"--op", "connect mill Yard material",
			"--op", "set plant commissioned 2031",
			"--op", "undo",
			"--out", edited)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("6 nodes, 5 edges (history: 3 undo, 1 redo)"))

		out, _, err = climact("--catalog", catalog, "graph", "validate", edited)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("ok (6 nodes, 5 edges, 1 warnings)"))

		data, err := os.ReadFile(textfile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`climact_graph_mutations_total{event="edge_created"} 2`))
		Expect(string(data)).To(ContainSubstring(`climact_record_decodes_total{kind="graph",outcome="success"} 1`))
	})

	It("should keep the original document untouched", func() {
		out, _, err := climact("--catalog", catalog, "graph", "validate", document)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("ok (4 nodes, 3 edges, 1 warnings)"))
	})

	It("should convert plant capacity between units", func() {
		out, _, err := climact("convert", "5000", "t", "kg")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("5e+06 kg\n"))
	})
})
