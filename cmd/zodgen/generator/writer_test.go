package generator_test

import (
	"io"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ruleforge/zodgen/cmd/zodgen/generator"
	"github.com/ruleforge/zodgen/zodkit"
)

var _ = Describe("Writer", func() {
	var (
		cfg *zodkit.Config
		log *zodkit.Logger
	)

	BeforeEach(func() {
		cfg = zodkit.DefaultConfig()
		cfg.OutDir = GinkgoT().TempDir()
		log = zodkit.NewLoggerWithWriter(io.Discard)
	})

	orderWithAddress := func() []*generator.CompiledSchema {
		address := &generator.ClassInput{
			Name: "Address",
			Fields: []generator.FieldDecl{
				{Path: "street", Value: "required|string"},
			},
		}
		order := &generator.ClassInput{
			Name: "StoreOrder",
			Fields: []generator.FieldDecl{
				{Path: "shipping", Value: "required"},
			},
			Meta: map[string]generator.FieldMeta{
				"shipping": {SchemaRef: "Address"},
			},
		}
		// dependent first on purpose, the writer must reorder
		return compileAll(order, address)
	}

	It("emits per-schema files with relative schema imports", func() {
		schemas := orderWithAddress()
		files, err := generator.NewWriter(cfg, log).DryRun(schemas)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(2))

		order := string(files[filepath.Join(cfg.OutDir, "storeOrder.ts")])
		Expect(order).To(ContainSubstring("import { z } from 'zod';"))
		Expect(order).To(ContainSubstring("import { addressSchema } from './address';"))
		Expect(order).To(ContainSubstring("shipping: addressSchema,"))
		Expect(order).To(ContainSubstring("export type StoreOrder = z.infer<typeof storeOrderSchema>;"))
	})

	It("orders a single file topologically", func() {
		cfg.SingleFile = true
		schemas := orderWithAddress()
		files, err := generator.NewWriter(cfg, log).DryRun(schemas)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(1))

		content := string(files[filepath.Join(cfg.OutDir, "schemas.ts")])
		addr := "export const addressSchema"
		ord := "export const storeOrderSchema"
		Expect(content).To(ContainSubstring(addr))
		Expect(content).To(ContainSubstring(ord))
		Expect(strings.Index(content, addr)).To(BeNumerically("<", strings.Index(content, ord)))
	})

	It("marks every file with the generated header", func() {
		schemas := orderWithAddress()
		files, err := generator.NewWriter(cfg, log).DryRun(schemas)
		Expect(err).NotTo(HaveOccurred())
		for _, content := range files {
			Expect(string(content)).To(HavePrefix(zodkit.GeneratedHeader))
		}
	})

	It("imports named enums from the configured module", func() {
		cfg.EnumImports = map[string]string{"OrderStatus": "../enums"}
		c := &generator.ClassInput{
			Name:   "StoreOrder",
			Fields: []generator.FieldDecl{{Path: "status", Value: "required"}},
			Meta:   map[string]generator.FieldMeta{"status": {EnumRef: "OrderStatus"}},
		}
		files, err := generator.NewWriter(cfg, log).DryRun(compileAll(c))
		Expect(err).NotTo(HaveOccurred())

		content := string(files[filepath.Join(cfg.OutDir, "storeOrder.ts")])
		Expect(content).To(ContainSubstring("import { OrderStatus } from '../enums';"))
		Expect(content).To(ContainSubstring("z.nativeEnum(OrderStatus)"))
	})
})
