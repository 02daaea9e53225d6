package generator_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ruleforge/zodgen/cmd/zodgen/generator"
)

func groupFields(meta map[string]generator.FieldMeta, fields ...generator.FieldRules) []*generator.GroupedNode {
	g := generator.NewGrouper(fields, meta)
	return g.Group(fields)
}

func rules(names ...string) []generator.RuleEntry {
	out := make([]generator.RuleEntry, 0, len(names))
	for _, n := range names {
		out = append(out, generator.RuleEntry{Name: n})
	}
	return out
}

var _ = Describe("Grouper", func() {
	It("reconstructs the wildcard tree with rules at the right depth", func() {
		nodes := groupFields(nil,
			generator.FieldRules{Path: "items", Rules: rules("array")},
			generator.FieldRules{Path: "items.*.name", Rules: rules("required", "string")},
			generator.FieldRules{Path: "items.*.qty", Rules: rules("integer")},
		)
		Expect(nodes).To(HaveLen(1))

		items := nodes[0]
		Expect(items.Name).To(Equal("items"))
		Expect(items.IsArray()).To(BeTrue())

		item := items.Wildcard()
		Expect(item.Children()).To(HaveLen(2))
		Expect(item.Child("name").Rules).To(HaveLen(2))
		Expect(item.Child("qty").Path).To(Equal("items.*.qty"))
	})

	It("supports unbounded nesting depth", func() {
		nodes := groupFields(nil,
			generator.FieldRules{Path: "a.*.b.*.c", Rules: rules("required")},
		)
		Expect(nodes).To(HaveLen(1))
		c := nodes[0].Wildcard().Child("b").Wildcard().Child("c")
		Expect(c).NotTo(BeNil())
		Expect(c.Rules).To(HaveLen(1))
	})

	It("splits dotted paths into nested objects by default", func() {
		nodes := groupFields(nil,
			generator.FieldRules{Path: "address.street", Rules: rules("required")},
			generator.FieldRules{Path: "address.zip", Rules: rules("required")},
		)
		Expect(nodes).To(HaveLen(1))
		Expect(nodes[0].Name).To(Equal("address"))
		Expect(nodes[0].Children()).To(HaveLen(2))
	})

	It("keeps a dotted key flat when the parent is declared scalar", func() {
		nodes := groupFields(nil,
			generator.FieldRules{Path: "meta", Rules: rules("string")},
			generator.FieldRules{Path: "meta.data", Rules: rules("string")},
		)
		Expect(nodes).To(HaveLen(2))
		Expect(nodes[0].Name).To(Equal("meta"))
		Expect(nodes[0].IsLeaf()).To(BeTrue())
		Expect(nodes[1].Name).To(Equal("meta.data"))
	})

	It("honors the explicit nested-object marker over the rule heuristic", func() {
		meta := map[string]generator.FieldMeta{"profile": {IsNestedObject: true}}
		nodes := groupFields(meta,
			generator.FieldRules{Path: "profile.name", Rules: rules("required")},
		)
		Expect(nodes).To(HaveLen(1))
		Expect(nodes[0].Name).To(Equal("profile"))
		Expect(nodes[0].IsNestedObject).To(BeTrue())
		Expect(nodes[0].Child("name")).NotTo(BeNil())
	})

	It("prunes a bare scalar wildcard child without rules", func() {
		nodes := groupFields(nil,
			generator.FieldRules{Path: "tags", Rules: rules("array")},
			generator.FieldRules{Path: "tags.*"},
		)
		Expect(nodes).To(HaveLen(1))
		Expect(nodes[0].IsArray()).To(BeFalse())
		Expect(nodes[0].IsLeaf()).To(BeTrue())
	})

	It("keeps a wildcard child that carries rules", func() {
		nodes := groupFields(nil,
			generator.FieldRules{Path: "tags", Rules: rules("array")},
			generator.FieldRules{Path: "tags.*", Rules: rules("string")},
		)
		Expect(nodes[0].IsArray()).To(BeTrue())
		Expect(nodes[0].Wildcard().Rules).To(HaveLen(1))
	})
})
