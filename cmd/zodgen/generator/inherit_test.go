package generator_test

import (
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ruleforge/zodgen/cmd/zodgen/generator"
	"github.com/ruleforge/zodgen/zodkit"
)

func resolveClasses(name string, classes ...*generator.ClassInput) *generator.NormalizedClass {
	r := generator.NewClassResolver(classes, zodkit.NewLoggerWithWriter(io.Discard))
	nc, err := r.Resolve(name)
	Expect(err).NotTo(HaveOccurred())
	return nc
}

var _ = Describe("ClassResolver", func() {
	It("unions inherited rules with the target's own, without duplicates", func() {
		base := &generator.ClassInput{
			Name: "Base",
			Fields: []generator.FieldDecl{
				{Path: "address", Value: "required|string|max:255"},
			},
		}
		child := &generator.ClassInput{
			Name: "Child",
			Fields: []generator.FieldDecl{
				{Path: "address", Value: "max:100|lowercase"},
			},
			Inherits: []generator.InheritDecl{
				{TargetField: "address", SourceClass: "Base"},
			},
		}

		nc := resolveClasses("Child", base, child)
		f, ok := nc.Field("address")
		Expect(ok).To(BeTrue())

		var names []string
		for _, r := range f.Rules {
			names = append(names, r.Name)
		}
		Expect(names).To(Equal([]string{"max", "lowercase", "required", "string"}))
		// the target's own max wins
		Expect(f.Rules[0].Params).To(Equal([]string{"100"}))
	})

	It("copies nested sub-paths onto target-relative paths", func() {
		base := &generator.ClassInput{
			Name: "Base",
			Fields: []generator.FieldDecl{
				{Path: "lines", Value: "required|array"},
				{Path: "lines.*.sku", Value: "required|string"},
			},
		}
		child := &generator.ClassInput{
			Name: "Child",
			Inherits: []generator.InheritDecl{
				{TargetField: "entries", SourceClass: "Base", SourceField: "lines"},
			},
		}

		nc := resolveClasses("Child", base, child)
		_, ok := nc.Field("entries")
		Expect(ok).To(BeTrue())
		sku, ok := nc.Field("entries.*.sku")
		Expect(ok).To(BeTrue())
		Expect(sku.Rules).To(HaveLen(2))
	})

	It("keeps a target-declared fragment over the inherited one", func() {
		base := &generator.ClassInput{
			Name: "Base",
			Fields: []generator.FieldDecl{
				{Path: "name", Value: []any{
					"required",
					generator.RuleObject{Fragment: &generator.SchemaFragment{Code: ".trim()", Mode: generator.FragmentAppend}},
				}},
			},
		}
		child := &generator.ClassInput{
			Name: "Child",
			Fields: []generator.FieldDecl{
				{Path: "name", Value: []any{
					"string",
					generator.RuleObject{Fragment: &generator.SchemaFragment{Code: ".toUpperCase()", Mode: generator.FragmentAppend}},
				}},
			},
			Inherits: []generator.InheritDecl{
				{TargetField: "name", SourceClass: "Base"},
			},
		}

		nc := resolveClasses("Child", base, child)
		f, _ := nc.Field("name")
		Expect(f.Fragment.Code).To(Equal(".toUpperCase()"))
	})

	It("copies inherited custom messages under target keys", func() {
		base := &generator.ClassInput{
			Name:     "Base",
			Fields:   []generator.FieldDecl{{Path: "email", Value: "required|email"}},
			Messages: map[string]string{"email.required": "We need your email."},
		}
		child := &generator.ClassInput{
			Name: "Child",
			Inherits: []generator.InheritDecl{
				{TargetField: "contact", SourceClass: "Base", SourceField: "email"},
			},
		}

		nc := resolveClasses("Child", base, child)
		Expect(nc.Messages).To(HaveKeyWithValue("contact.required", "We need your email."))
	})

	It("copies schema reference metadata so typed collections survive", func() {
		base := &generator.ClassInput{
			Name:   "Base",
			Fields: []generator.FieldDecl{{Path: "lines", Value: "array"}},
			Meta:   map[string]generator.FieldMeta{"lines": {SchemaRef: "OrderLine"}},
		}
		child := &generator.ClassInput{
			Name: "Child",
			Inherits: []generator.InheritDecl{
				{TargetField: "lines", SourceClass: "Base"},
			},
		}

		nc := resolveClasses("Child", base, child)
		Expect(nc.Meta["lines"].SchemaRef).To(Equal("OrderLine"))
	})

	It("never mutates the source class when merging into a target", func() {
		base := &generator.ClassInput{
			Name:   "Base",
			Fields: []generator.FieldDecl{{Path: "name", Value: "required|string"}},
		}
		child := &generator.ClassInput{
			Name:     "Child",
			Fields:   []generator.FieldDecl{{Path: "name", Value: "max:5"}},
			Inherits: []generator.InheritDecl{{TargetField: "name", SourceClass: "Base"}},
		}

		r := generator.NewClassResolver([]*generator.ClassInput{base, child}, zodkit.NewLoggerWithWriter(io.Discard))
		_, err := r.Resolve("Child")
		Expect(err).NotTo(HaveOccurred())

		nb, err := r.Resolve("Base")
		Expect(err).NotTo(HaveOccurred())
		f, _ := nb.Field("name")
		Expect(f.Rules).To(HaveLen(2))
	})

	It("is idempotent across repeated resolution", func() {
		base := &generator.ClassInput{
			Name:   "Base",
			Fields: []generator.FieldDecl{{Path: "name", Value: "required"}},
		}
		child := &generator.ClassInput{
			Name:     "Child",
			Inherits: []generator.InheritDecl{{TargetField: "name", SourceClass: "Base"}},
		}

		r := generator.NewClassResolver([]*generator.ClassInput{base, child}, zodkit.NewLoggerWithWriter(io.Discard))
		first, err := r.Resolve("Child")
		Expect(err).NotTo(HaveOccurred())
		second, err := r.Resolve("Child")
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(BeIdenticalTo(first))
	})

	It("terminates on mutually inheriting classes", func() {
		a := &generator.ClassInput{
			Name:     "A",
			Fields:   []generator.FieldDecl{{Path: "x", Value: "required"}},
			Inherits: []generator.InheritDecl{{TargetField: "y", SourceClass: "B", SourceField: "y"}},
		}
		b := &generator.ClassInput{
			Name:     "B",
			Fields:   []generator.FieldDecl{{Path: "y", Value: "string"}},
			Inherits: []generator.InheritDecl{{TargetField: "x", SourceClass: "A", SourceField: "x"}},
		}

		r := generator.NewClassResolver([]*generator.ClassInput{a, b}, zodkit.NewLoggerWithWriter(io.Discard))
		na, err := r.Resolve("A")
		Expect(err).NotTo(HaveOccurred())
		_, ok := na.Field("y")
		Expect(ok).To(BeTrue())
	})

	It("aborts on an unresolvable source class", func() {
		child := &generator.ClassInput{
			Name:     "Child",
			Inherits: []generator.InheritDecl{{TargetField: "x", SourceClass: "Missing"}},
		}
		r := generator.NewClassResolver([]*generator.ClassInput{child}, zodkit.NewLoggerWithWriter(io.Discard))
		_, err := r.Resolve("Child")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("Missing"))
	})
})
