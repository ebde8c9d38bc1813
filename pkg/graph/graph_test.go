package graph

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/climact/climate-action-tool/pkg/dimension"
	"github.com/climact/climate-action-tool/pkg/quantity"
	"github.com/climact/climate-action-tool/pkg/resource"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func material(rate float64) *resource.Composite {
	c, err := resource.DefaultCatalog().New("Material", resource.Kwargs{"value": rate, "units": "kg/s"})
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("Graph", func() {
	var (
		g      *Graph
		events []Event
	)

	BeforeEach(func() {
		g = New(WithIDGenerator(sequentialIDs()))
		events = nil
		g.Observe(func(e Event) { events = append(events, e) })
	})

	It("should create nodes with fresh ids in insertion order", func() {
		a := g.CreateNode("Furnace", 10, 20, map[string]any{"color": "red"})
		b := g.CreateNode("Mill", 0, 0, nil)
		Expect(a.ID).To(Equal("id-1"))
		Expect(b.ID).To(Equal("id-2"))
		Expect(g.Nodes()).To(Equal([]*Node{a, b}))
		Expect(a.Properties).To(HaveKeyWithValue("color", "red"))
		Expect(events).To(HaveLen(2))
		Expect(events[0]).To(Equal(Event{Kind: NodeCreated, NodeID: "id-1"}))
	})

	It("should use UUIDs by default", func() {
		n := New().CreateNode("x", 0, 0, nil)
		Expect(n.ID).To(MatchRegexp(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`))
	})

	It("should reject duplicate node ids", func() {
		n := g.CreateNode("a", 0, 0, nil)
		err := g.AddNode(&Node{ID: n.ID})
		Expect(errors.Is(err, ErrDuplicateID)).To(BeTrue())
	})

	It("should return the previous position when moving", func() {
		n := g.CreateNode("a", 1, 2, nil)
		oldX, oldY, err := g.MoveNode(n.ID, 5, 6)
		Expect(err).NotTo(HaveOccurred())
		Expect([]float64{oldX, oldY}).To(Equal([]float64{1, 2}))
		Expect([]float64{n.X, n.Y}).To(Equal([]float64{5, 6}))

		_, _, err = g.MoveNode("missing", 0, 0)
		Expect(errors.Is(err, ErrNodeNotFound)).To(BeTrue())
	})

	It("should report the previous property value", func() {
		n := g.CreateNode("a", 0, 0, nil)
		_, had, err := g.SetNodeProperty(n.ID, "k", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(had).To(BeFalse())
		old, had, _ := g.SetNodeProperty(n.ID, "k", 2)
		Expect(had).To(BeTrue())
		Expect(old).To(Equal(1))
		Expect(events[len(events)-1]).To(Equal(Event{Kind: NodeChanged, NodeID: n.ID, Key: "k"}))
	})

	Context("with edges", func() {
		var a, b, c *Node

		BeforeEach(func() {
			a = g.CreateNode("a", 0, 0, nil)
			b = g.CreateNode("b", 0, 0, nil)
			c = g.CreateNode("c", 0, 0, nil)
		})

		It("should refuse unknown endpoints", func() {
			_, err := g.CreateEdge(a.ID, "nowhere", "flow", nil)
			Expect(errors.Is(err, ErrNodeNotFound)).To(BeTrue())
			Expect(g.EdgeCount()).To(BeZero())
		})

		It("should cascade node deletion to touching edges", func() {
			ab, err := g.CreateEdge(a.ID, b.ID, "flow", nil)
			Expect(err).NotTo(HaveOccurred())
			bc, err := g.CreateEdge(b.ID, c.ID, "flow", nil)
			Expect(err).NotTo(HaveOccurred())
			ac, err := g.CreateEdge(a.ID, c.ID, "flow", nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(g.EdgesFrom(a.ID)).To(Equal([]*Edge{ab, ac}))
			Expect(g.EdgesTo(c.ID)).To(Equal([]*Edge{bc, ac}))

			removed, edges, err := g.DeleteNode(b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeIdenticalTo(b))
			Expect(edges).To(Equal([]*Edge{ab, bc}))
			Expect(g.Edges()).To(Equal([]*Edge{ac}))
			Expect(g.NodeCount()).To(Equal(2))

			var kinds []EventKind
			for _, e := range events[len(events)-3:] {
				kinds = append(kinds, e.Kind)
			}
			Expect(kinds).To(Equal([]EventKind{EdgeDeleted, EdgeDeleted, NodeDeleted}))
		})

		It("should delete a single edge", func() {
			e, _ := g.CreateEdge(a.ID, b.ID, "flow", map[string]any{"w": 1})
			got, err := g.DeleteEdge(e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Properties).To(HaveKeyWithValue("w", 1))
			_, err = g.DeleteEdge(e.ID)
			Expect(errors.Is(err, ErrEdgeNotFound)).To(BeTrue())
		})

		It("should clone without sharing maps", func() {
			e, _ := g.CreateEdge(a.ID, b.ID, "flow", nil)
			cl := g.Clone()
			_, _, err := cl.SetEdgeProperty(e.ID, "k", "v")
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Properties).NotTo(HaveKey("k"))
			Expect(cl.NodeCount()).To(Equal(3))
		})

		It("should reset everything", func() {
			_, _ = g.CreateEdge(a.ID, b.ID, "flow", nil)
			g.Reset()
			Expect(g.NodeCount()).To(BeZero())
			Expect(g.EdgeCount()).To(BeZero())
			Expect(events[len(events)-1].Kind).To(Equal(GraphReset))
		})
	})

	Context("technologies", func() {
		var n *Node

		BeforeEach(func() {
			n = g.CreateNode("Plant", 0, 0, nil)
		})

		It("should only create branches and streams when asked", func() {
			err := n.SetResource(Consumed, "BF-BOF", "iron_ore", material(1), false)
			Expect(errors.Is(err, ErrNotFound)).To(BeTrue())

			Expect(n.SetResource(Consumed, "BF-BOF", "iron_ore", material(1), true)).To(Succeed())
			Expect(n.SetResource(Consumed, "BF-BOF", "iron_ore", material(2), false)).To(Succeed())
			err = n.SetResource(Consumed, "BF-BOF", "coal", material(1), false)
			Expect(errors.Is(err, ErrNotFound)).To(BeTrue())

			t, err := n.Technology("BF-BOF", false)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Consumed["iron_ore"].Primary().Value()).To(Equal(2.0))
		})

		It("should store params and equations", func() {
			q, err := quantity.Default().New(dimension.Mass, quantity.Scalar(5), "t")
			Expect(err).NotTo(HaveOccurred())
			err = n.SetParam("EAF", "capacity", q, false)
			Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
			Expect(n.SetParam("EAF", "capacity", q, true)).To(Succeed())
			n.AddEquation("EAF", "steel = 0.9 * scrap")

			t, _ := n.Technology("EAF", false)
			Expect(t.Params["capacity"].Units()).To(Equal("t"))
			Expect(t.Equations).To(Equal([]string{"steel = 0.9 * scrap"}))
			Expect(n.TechnologyNames()).To(Equal([]string{"EAF"}))
		})

		It("should warn when connected nodes share no stream", func() {
			m := g.CreateNode("Mill", 0, 0, nil)
			Expect(n.SetResource(Produced, "t", "steel", material(1), true)).To(Succeed())
			Expect(m.SetResource(Consumed, "t", "scrap", material(1), true)).To(Succeed())
			_, err := g.CreateEdge(n.ID, m.ID, "flow", nil)
			Expect(err).NotTo(HaveOccurred())

			warnings := g.CheckStreams()
			Expect(warnings).To(HaveLen(1))
			Expect(errors.Is(warnings[0], ErrNoMatchingStream)).To(BeTrue())

			Expect(m.SetResource(Consumed, "t", "steel", material(1), true)).To(Succeed())
			Expect(g.CheckStreams()).To(BeEmpty())
		})
	})
})
