package generator_test

import (
	"context"
	"io"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ruleforge/zodgen/cmd/zodgen/generator"
	"github.com/ruleforge/zodgen/zodkit"
)

func TestGenerator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Zodgen Generator Suite")
}

// compile runs one class through the full pipeline and returns its source.
func compile(class *generator.ClassInput) string {
	return compileAll(class)[0].Source
}

func compileAll(classes ...*generator.ClassInput) []*generator.CompiledSchema {
	gen := generator.New(zodkit.DefaultConfig(), zodkit.NewLoggerWithWriter(io.Discard))
	schemas, err := gen.Run(context.Background(), classes)
	Expect(err).NotTo(HaveOccurred())
	Expect(schemas).To(HaveLen(len(classes)))
	return schemas
}

func class(fields ...generator.FieldDecl) *generator.ClassInput {
	return &generator.ClassInput{Name: "Test", ClassName: "Test", Fields: fields}
}

func field(path string, value any) generator.FieldDecl {
	return generator.FieldDecl{Path: path, Value: value}
}

var _ = Describe("Generator", func() {
	Describe("basic fields", func() {
		It("compiles a required string with a max length", func() {
			src := compile(class(field("name", "required|string|max:10")))
			Expect(src).To(ContainSubstring(
				"name: z.string().min(1, 'The name field is required.').max(10, 'The name field must not be greater than 10 characters.'),",
			))
		})

		It("compiles a nullable optional integer with a floor", func() {
			src := compile(class(field("age", "nullable|integer|min:0")))
			Expect(src).To(ContainSubstring(
				"age: z.number().int('The age field must be an integer.').min(0, 'The age field must be at least 0.').nullable().optional(),",
			))
		})

		It("emits a defined-ness check for required numbers and keeps nullable without optional", func() {
			src := compile(class(field("count", "required|numeric|nullable")))
			Expect(src).To(ContainSubstring(".refine((val) => val !== undefined, 'The count field is required.')"))
			Expect(src).To(ContainSubstring(".nullable()"))
			Expect(src).NotTo(ContainSubstring(".optional()"))
		})

		It("appends nullable before optional", func() {
			src := compile(class(field("nickname", "nullable|string")))
			Expect(src).To(ContainSubstring("z.string().nullable().optional()"))
		})

		It("keeps a filled-only field omittable while barring empty values", func() {
			src := compile(class(field("nickname", "filled|string|max:10")))
			Expect(src).To(ContainSubstring(
				"nickname: z.string().min(1, 'The nickname field must have a value.').max(10, 'The nickname field must not be greater than 10 characters.').optional(),",
			))
		})

		It("skips unknown rules without failing", func() {
			src := compile(class(field("name", "required|string|exists:users,id")))
			Expect(src).To(ContainSubstring("name: z.string().min(1, 'The name field is required.'),"))
			Expect(src).NotTo(ContainSubstring("exists"))
		})

		It("quotes messages with embedded single quotes", func() {
			src := compile(class(field("note", "required|string|max:5")))
			Expect(src).To(ContainSubstring(`'The note field is required.'`))

			custom := class(field("note", "required|string"))
			custom.Messages = map[string]string{"note.required": "It's required."}
			Expect(compile(custom)).To(ContainSubstring(`'It\'s required.'`))
		})
	})

	Describe("enums", func() {
		It("compiles an in rule to a literal enum without a message argument", func() {
			src := compile(class(field("status", "in:pending,active,done")))
			Expect(src).To(ContainSubstring("status: z.enum(['pending', 'active', 'done']).optional(),"))
		})

		It("attaches a message argument only for custom messages", func() {
			c := class(field("status", "required|in:a,b"))
			c.Messages = map[string]string{"status.in": "Pick one."}
			Expect(compile(c)).To(ContainSubstring("z.enum(['a', 'b'], { message: 'Pick one.' })"))
		})

		It("emits a nativeEnum reference for named enums", func() {
			c := class(field("status", "required"))
			c.Meta = map[string]generator.FieldMeta{"status": {EnumRef: "OrderStatus"}}
			Expect(compile(c)).To(ContainSubstring("status: z.nativeEnum(OrderStatus),"))
		})
	})

	Describe("arrays and objects", func() {
		It("compiles an array of objects with the item's own properties", func() {
			src := compile(class(
				field("items", "array"),
				field("items.*.name", "required|string|max:10"),
				field("items.*.qty", "integer|min:1"),
			))
			Expect(src).To(ContainSubstring("items: z.array(z.object({"))
			Expect(src).To(ContainSubstring(
				"name: z.string().min(1, 'The name field is required.').max(10, 'The name field must not be greater than 10 characters.'),",
			))
			Expect(src).To(ContainSubstring(
				"qty: z.number().int('The qty field must be an integer.').min(1, 'The qty field must be at least 1.').optional(),",
			))
		})

		It("applies array rules to the array and item rules to the item", func() {
			src := compile(class(
				field("tags", "required|array|max:5"),
				field("tags.*", "string|max:20"),
			))
			Expect(src).To(ContainSubstring("z.array(z.string().max(20, 'The tags field must not be greater than 20 characters.'))"))
			Expect(src).To(ContainSubstring(".min(1, 'The tags field is required.').max(5, 'The tags field must not have more than 5 items.')"))
		})

		It("uses an explicit min instead of the required check when both exist", func() {
			src := compile(class(field("tags", "required|array|min:2")))
			Expect(src).To(ContainSubstring(".min(2, 'The tags field must have at least 2 items.')"))
			Expect(src).NotTo(ContainSubstring(".min(1,"))
		})

		It("compiles nested objects from sibling paths", func() {
			src := compile(class(
				field("address.street", "required|string"),
				field("address.zip", "required|string|size:5"),
			))
			Expect(src).To(ContainSubstring("address: z.object({"))
			Expect(src).To(ContainSubstring("street: z.string().min(1, 'The street field is required.'),"))
			Expect(src).To(ContainSubstring(".length(5, 'The zip field must be 5 characters.')"))
		})

		It("keeps a dotted key flat when its parent is declared scalar", func() {
			src := compile(class(
				field("meta", "required|string"),
				field("meta.data", "string"),
			))
			Expect(src).To(ContainSubstring("meta: z.string().min(1, 'The meta field is required.'),"))
			Expect(src).NotTo(ContainSubstring("meta.data"))
		})
	})

	Describe("cross-field rules", func() {
		It("collects required_if into a whole-object post-validation step", func() {
			src := compile(class(
				field("type", "required|string"),
				field("tax_id", "string|required_if:type,company"),
			))
			Expect(src).To(ContainSubstring(".superRefine((data, ctx) => {"))
			Expect(src).To(ContainSubstring("if ((data.type === 'company') && data.tax_id === undefined) {"))
			Expect(src).To(ContainSubstring("message: 'The tax id field is required when type is company.',"))
			Expect(src).To(ContainSubstring("path: ['tax_id'],"))
		})

		It("keeps cross-field rules off the owning field's chain", func() {
			src := compile(class(
				field("a", "required|string"),
				field("b", "string|required_with:a"),
			))
			Expect(src).To(ContainSubstring("b: z.string().optional(),"))
			Expect(src).To(ContainSubstring("if ((data.a !== undefined) && data.b === undefined) {"))
		})
	})

	Describe("fragments", func() {
		It("appends an append-mode fragment after the compiled chain", func() {
			src := compile(class(field("name", []any{
				"required|string",
				generator.RuleObject{Fragment: &generator.SchemaFragment{Code: ".trim()", Mode: generator.FragmentAppend}},
			})))
			Expect(src).To(ContainSubstring("z.string().min(1, 'The name field is required.').trim()"))
		})

		It("replaces the whole chain with a replace-mode fragment but keeps suffixes", func() {
			src := compile(class(field("raw", []any{
				"nullable|string|max:10",
				generator.RuleObject{Fragment: &generator.SchemaFragment{Code: "z.custom<Raw>()", Mode: generator.FragmentReplace}},
			})))
			Expect(src).To(ContainSubstring("raw: z.custom<Raw>().nullable().optional(),"))
			Expect(src).NotTo(ContainSubstring(".max(10"))
		})

		It("records the schema dependency when a replace fragment covers a reference", func() {
			c := class(field("shipping", "required"))
			c.Meta = map[string]generator.FieldMeta{
				"shipping": {
					SchemaRef: "Address",
					Override:  &generator.SchemaFragment{Code: "addressSchema.pick({ street: true })", Mode: generator.FragmentReplace},
				},
			}
			cs := compileAll(c)[0]
			Expect(cs.Source).To(ContainSubstring("shipping: addressSchema.pick({ street: true }),"))
			Expect(cs.Data.Dependencies).To(ContainElement("Address"))
		})

		It("applies a metadata literal override to the property", func() {
			c := class(field("blob", "required|string"))
			c.Meta = map[string]generator.FieldMeta{
				"blob": {Override: &generator.SchemaFragment{Code: "z.instanceof(Blob)", Mode: generator.FragmentReplace}},
			}
			Expect(compile(c)).To(ContainSubstring("blob: z.instanceof(Blob),"))
		})
	})

	Describe("idempotence", func() {
		It("yields byte-identical output across runs", func() {
			build := func() string {
				return compile(class(
					field("name", "required|string|max:10"),
					field("items", "array"),
					field("items.*.qty", "integer|min:1"),
					field("status", "in:a,b,c"),
				))
			}
			Expect(build()).To(Equal(build()))
		})
	})

	Describe("string rules", func() {
		It("translates regex parameters to bare literals", func() {
			src := compile(class(field("slug", `required|string|regex:/^[a-z0-9\-]+$/`)))
			Expect(src).To(ContainSubstring(".regex(/^[a-z0-9\\-]+$/, 'The slug field format is invalid.')"))
		})

		It("translates date_format to an anchored pattern", func() {
			src := compile(class(field("day", "required|date_format:Y-m-d")))
			Expect(src).To(ContainSubstring(`.regex(/^\d{4}-\d{2}-\d{2}$/, 'The day field must match the format Y-m-d.')`))
		})

		It("falls back to a non-empty check for unknown date formats", func() {
			src := compile(class(field("day", "required|date_format:Q")))
			Expect(src).To(ContainSubstring(".min(1, 'The day field must match the format Q.')"))
		})

		It("uses email, url and uuid chain calls", func() {
			src := compile(class(
				field("email", "required|email"),
				field("site", "url"),
				field("id", "uuid"),
			))
			Expect(src).To(ContainSubstring(".email('The email field must be a valid email address.')"))
			Expect(src).To(ContainSubstring(".url('The site field must be a valid URL.')"))
			Expect(src).To(ContainSubstring(".uuid('The id field must be a valid UUID.')"))
		})
	})
})
