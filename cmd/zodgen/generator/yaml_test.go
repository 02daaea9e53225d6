package generator_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ruleforge/zodgen/cmd/zodgen/generator"
)

var _ = Describe("ParseYAML", func() {
	It("parses schemas, rules, messages, and metadata in declaration order", func() {
		doc := []byte(`
schemas:
  StoreOrder:
    rules:
      name: required|string|max:10
      items: array
      items.*.qty: [integer, "min:1"]
    messages:
      name.required: A name is required.
    metadata:
      address:
        object: true
        optional: true
  Address:
    rules:
      street: required|string
`)
		classes, err := generator.ParseYAML(doc, "test.zod.yaml")
		Expect(err).NotTo(HaveOccurred())
		Expect(classes).To(HaveLen(2))
		Expect(classes[0].Name).To(Equal("StoreOrder"))
		Expect(classes[1].Name).To(Equal("Address"))

		order := classes[0]
		Expect(order.Fields).To(HaveLen(3))
		Expect(order.Fields[0].Path).To(Equal("name"))
		Expect(order.Fields[2].Path).To(Equal("items.*.qty"))
		Expect(order.Messages).To(HaveKeyWithValue("name.required", "A name is required."))
		Expect(order.Meta["address"].IsNestedObject).To(BeTrue())
		Expect(order.Meta["address"].IsOptional).To(BeTrue())
	})

	It("parses the fragment mapping form", func() {
		doc := []byte(`
schemas:
  User:
    rules:
      name:
        rules: required|string
        append: .trim()
`)
		classes, err := generator.ParseYAML(doc, "test.zod.yaml")
		Expect(err).NotTo(HaveOccurred())

		rules, fragment, err := generator.NormalizeRules(classes[0].Fields[0].Value)
		Expect(err).NotTo(HaveOccurred())
		Expect(rules[0].Name).To(Equal("required"))
		Expect(fragment).NotTo(BeNil())
		Expect(fragment.Code).To(Equal(".trim()"))
		Expect(fragment.Mode).To(Equal(generator.FragmentAppend))
	})

	It("parses literal metadata overrides", func() {
		doc := []byte(`
schemas:
  User:
    rules:
      avatar: required
    metadata:
      avatar:
        literal: z.instanceof(File)
`)
		classes, err := generator.ParseYAML(doc, "test.zod.yaml")
		Expect(err).NotTo(HaveOccurred())
		meta := classes[0].Meta["avatar"]
		Expect(meta.Override).NotTo(BeNil())
		Expect(meta.Override.Mode).To(Equal(generator.FragmentReplace))
	})

	It("parses inherits shorthand and mapping forms", func() {
		doc := []byte(`
schemas:
  Child:
    inherits:
      billing: CommonFields.address
      shipping:
        from: CommonFields
        field: address
`)
		classes, err := generator.ParseYAML(doc, "test.zod.yaml")
		Expect(err).NotTo(HaveOccurred())
		Expect(classes[0].Inherits).To(HaveLen(2))
		Expect(classes[0].Inherits[0]).To(Equal(generator.InheritDecl{
			TargetField: "billing", SourceClass: "CommonFields", SourceField: "address",
		}))
		Expect(classes[0].Inherits[1].Field()).To(Equal("address"))
	})

	It("rejects a document without a schemas key", func() {
		_, err := generator.ParseYAML([]byte("rules: {}"), "test.zod.yaml")
		Expect(err).To(HaveOccurred())
	})
})
