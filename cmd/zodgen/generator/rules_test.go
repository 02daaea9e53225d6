package generator_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ruleforge/zodgen/cmd/zodgen/generator"
)

var _ = Describe("NormalizeRules", func() {
	It("parses a pipe-delimited string", func() {
		rules, fragment, err := generator.NormalizeRules("required|string|max:10")
		Expect(err).NotTo(HaveOccurred())
		Expect(fragment).To(BeNil())
		Expect(rules).To(HaveLen(3))
		Expect(rules[0].Name).To(Equal("required"))
		Expect(rules[2].Name).To(Equal("max"))
		Expect(rules[2].Params).To(Equal([]string{"10"}))
	})

	It("does not split pipes inside regex groups", func() {
		rules, _, err := generator.NormalizeRules(`required|regex:/^(foo|bar)$/`)
		Expect(err).NotTo(HaveOccurred())
		Expect(rules).To(HaveLen(2))
		Expect(rules[1].Name).To(Equal("regex"))
		Expect(rules[1].Params).To(Equal([]string{"/^(foo|bar)$/"}))
	})

	It("keeps commas inside the regex parameter", func() {
		rules, _, err := generator.NormalizeRules(`regex:/^a{1,3}$/`)
		Expect(err).NotTo(HaveOccurred())
		Expect(rules[0].Params).To(Equal([]string{"/^a{1,3}$/"}))
	})

	It("normalizes camelCase and kebab-case rule names", func() {
		rules, _, err := generator.NormalizeRules("requiredIf:type,a|alpha-dash")
		Expect(err).NotTo(HaveOccurred())
		Expect(rules[0].Name).To(Equal("required_if"))
		Expect(rules[1].Name).To(Equal("alpha_dash"))
	})

	It("de-duplicates repeated rule names keeping the first parameters", func() {
		rules, _, err := generator.NormalizeRules([]string{"max:5", "string", "max:9"})
		Expect(err).NotTo(HaveOccurred())
		Expect(rules).To(HaveLen(2))
		Expect(rules[0].Params).To(Equal([]string{"5"}))
	})

	It("extracts a fragment from a rule object", func() {
		rules, fragment, err := generator.NormalizeRules([]any{
			"required",
			generator.RuleObject{Name: "trimmed", Fragment: &generator.SchemaFragment{Code: ".trim()", Mode: generator.FragmentAppend}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(rules).To(HaveLen(2))
		Expect(fragment).NotTo(BeNil())
		Expect(fragment.Code).To(Equal(".trim()"))
	})

	It("keeps the first fragment and ignores an identical later one", func() {
		frag := &generator.SchemaFragment{Code: ".trim()", Mode: generator.FragmentAppend}
		_, fragment, err := generator.NormalizeRules([]any{
			generator.RuleObject{Fragment: frag},
			generator.RuleObject{Fragment: &generator.SchemaFragment{Code: ".trim()", Mode: generator.FragmentAppend}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(fragment.Code).To(Equal(".trim()"))
	})

	It("concatenates a later append fragment with different code", func() {
		_, fragment, err := generator.NormalizeRules([]any{
			generator.RuleObject{Fragment: &generator.SchemaFragment{Code: ".trim()", Mode: generator.FragmentAppend}},
			generator.RuleObject{Fragment: &generator.SchemaFragment{Code: ".toLowerCase()", Mode: generator.FragmentAppend}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(fragment.Code).To(Equal(".trim().toLowerCase()"))
	})

	It("rejects unsupported representations", func() {
		_, _, err := generator.NormalizeRules(42)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("MessageResolver", func() {
	resolve := func(messages map[string]string, field string, rule generator.RuleEntry, all ...generator.RuleEntry) string {
		r := generator.NewMessageResolver(messages, generator.EnglishCatalog)
		if len(all) == 0 {
			all = []generator.RuleEntry{rule}
		}
		msg, err := r.Resolve(field, rule, all)
		Expect(err).NotTo(HaveOccurred())
		return msg
	}

	It("returns a custom message unmodified", func() {
		msg := resolve(map[string]string{"name.min": "Too short!"}, "name",
			generator.RuleEntry{Name: "min", Params: []string{"3"}})
		Expect(msg).To(Equal("Too short!"))
	})

	It("answers an in lookup from the enum alias", func() {
		msg := resolve(map[string]string{"status.enum": "Pick a real status."}, "status",
			generator.RuleEntry{Name: "in", Params: []string{"a", "b"}})
		Expect(msg).To(Equal("Pick a real status."))
	})

	It("selects the numeric variant when the rule set is numeric", func() {
		all := []generator.RuleEntry{{Name: "integer"}, {Name: "max", Params: []string{"10"}}}
		msg := resolve(nil, "age", all[1], all...)
		Expect(msg).To(Equal("The age field must not be greater than 10."))
	})

	It("selects the array variant when the rule set is an array", func() {
		all := []generator.RuleEntry{{Name: "array"}, {Name: "min", Params: []string{"2"}}}
		msg := resolve(nil, "tags", all[1], all...)
		Expect(msg).To(Equal("The tags field must have at least 2 items."))
	})

	It("substitutes the attribute display name from the leaf segment", func() {
		msg := resolve(nil, "items.*.unit_price", generator.RuleEntry{Name: "required"})
		Expect(msg).To(Equal("The unit price field is required."))
	})

	It("normalizes bare sibling names in required_if messages", func() {
		msg := resolve(nil, "items.*.tax_id",
			generator.RuleEntry{Name: "required_if", Params: []string{"type", "company"}})
		Expect(msg).To(Equal("The tax id field is required when type is company."))
	})

	It("rewrites only standalone field tokens in custom messages", func() {
		msg := resolve(map[string]string{"first_name.required": "A first_name is needed; first_name_kana is separate."},
			"first_name", generator.RuleEntry{Name: "required"})
		Expect(msg).To(Equal("A first name is needed; first_name_kana is separate."))
	})

	It("synthesizes a fallback for rules with no template", func() {
		msg := resolve(nil, "thing", generator.RuleEntry{Name: "frobnicate"})
		Expect(msg).To(Equal("The thing field validation failed."))
	})

	It("rejects resolution without a field name", func() {
		r := generator.NewMessageResolver(nil, generator.EnglishCatalog)
		_, err := r.Resolve("", generator.RuleEntry{Name: "min"}, nil)
		Expect(err).To(HaveOccurred())
	})

	It("rejects resolution without a catalog", func() {
		r := generator.NewMessageResolver(nil, nil)
		_, err := r.Resolve("name", generator.RuleEntry{Name: "min"}, nil)
		Expect(err).To(HaveOccurred())
	})
})
