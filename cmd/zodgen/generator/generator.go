package generator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ruleforge/zodgen/zodkit"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Generator runs the full pipeline for one generation run: normalization
// and inheritance, grouping, type and message resolution, and compilation.
// All caches live on the run and are never shared across runs.
type Generator struct {
	cfg      *zodkit.Config
	log      *zodkit.Logger
	registry *Registry
	tracer   trace.Tracer
	diags    *zodkit.DiagnosticCollector
}

// New creates a generator with the built-in handler registry.
func New(cfg *zodkit.Config, log *zodkit.Logger) *Generator {
	if cfg == nil {
		cfg = zodkit.DefaultConfig()
	}
	if log == nil {
		log = zodkit.NewLogger()
	}
	return &Generator{
		cfg:      cfg,
		log:      log,
		registry: NewRegistry(),
		tracer:   otel.Tracer("github.com/ruleforge/zodgen"),
		diags:    zodkit.NewDiagnosticCollector(),
	}
}

// Registry exposes the handler registry for caller-supplied handlers.
func (g *Generator) Registry() *Registry { return g.registry }

// Diagnostics returns the diagnostics collected so far.
func (g *Generator) Diagnostics() []zodkit.Diagnostic { return g.diags.Collect() }

// Run compiles every class input, in declaration order, into rendered
// schemas. A broken class declaration aborts the whole run.
func (g *Generator) Run(ctx context.Context, inputs []*ClassInput) ([]*CompiledSchema, error) {
	ctx, span := g.tracer.Start(ctx, "zodgen.Run",
		trace.WithAttributes(attribute.Int("zodgen.classes", len(inputs))))
	defer span.End()

	catalog, ok := Catalogs[g.cfg.Locale]
	if !ok {
		g.log.Warn("locale %s has no message catalog, falling back to en", g.cfg.Locale)
		catalog = EnglishCatalog
	}

	resolver := NewClassResolver(inputs, g.log)
	compiler := NewCompiler(g.registry, g.log)

	schemas := make([]*CompiledSchema, 0, len(inputs))
	for _, input := range inputs {
		cs, err := g.generateClass(ctx, resolver, compiler, catalog, input)
		if err != nil {
			g.diags.Errorf("E001", input.ClassName, "", "%v", err)
			return nil, err
		}
		schemas = append(schemas, cs)
	}
	return schemas, nil
}

// generateClass runs one class through the pipeline.
func (g *Generator) generateClass(ctx context.Context, resolver *ClassResolver, compiler *Compiler, catalog *Catalog, input *ClassInput) (*CompiledSchema, error) {
	_, span := g.tracer.Start(ctx, "zodgen.generateClass",
		trace.WithAttributes(attribute.String("zodgen.class", input.Name)))
	defer span.End()

	nc, err := resolver.Resolve(input.Name)
	if err != nil {
		return nil, err
	}

	data, err := g.resolveClass(nc, catalog)
	if err != nil {
		return nil, err
	}

	cs, err := compiler.CompileSchema(data)
	if err != nil {
		return nil, err
	}
	g.log.Item("compiled %s (%d fields, %d deps)", data.Name, len(data.Properties), len(data.Dependencies))
	return cs, nil
}

// resolveClass turns a normalized class into the compiler's input: grouped,
// typed, message-resolved property trees.
func (g *Generator) resolveClass(nc *NormalizedClass, catalog *Catalog) (*ExtractedSchemaData, error) {
	messages := NewMessageResolver(nc.Messages, catalog)
	fields := withMetaOnlyFields(nc)
	grouper := NewGrouper(fields, nc.Meta)
	resolver := NewResolver(messages, nc.Meta)

	data := &ExtractedSchemaData{
		Name:      nc.Name,
		ClassName: nc.ClassName,
		Type:      "object",
	}
	for _, node := range grouper.Group(fields) {
		set, err := resolver.ResolveNode(node)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", nc.Name, err)
		}
		prop := &SchemaPropertyData{
			Name:        node.Name,
			Validations: set,
		}
		if m, ok := nc.Meta[node.Path]; ok {
			prop.IsOptional = m.IsOptional
			prop.SchemaOverride = m.Override
		}
		data.Properties = append(data.Properties, prop)
	}
	return data, nil
}

// withMetaOnlyFields appends empty rule entries for metadata paths with no
// rule declaration, so reference-only and override-only fields still get a
// node in the grouped tree. Synthetic entries follow declared fields in
// path order to keep output deterministic.
func withMetaOnlyFields(nc *NormalizedClass) []FieldRules {
	declared := make(map[string]bool, len(nc.Fields))
	for _, f := range nc.Fields {
		declared[f.Path] = true
	}
	var missing []string
	for path := range nc.Meta {
		if !declared[path] && !strings.Contains(path, "*") {
			missing = append(missing, path)
		}
	}
	sort.Strings(missing)

	// copy so the cached class's field slice never grows under a caller
	fields := make([]FieldRules, len(nc.Fields), len(nc.Fields)+len(missing))
	copy(fields, nc.Fields)
	for _, path := range missing {
		fields = append(fields, FieldRules{Path: path})
	}
	return fields
}
