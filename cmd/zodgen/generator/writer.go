package generator

import (
	"path/filepath"

	"github.com/ruleforge/zodgen/zodkit"
)

// Writer renders compiled schemas into TypeScript files: one file per
// schema, or a single schemas.ts. Output order is topological so every
// schema constant is declared before its first use.
type Writer struct {
	cfg *zodkit.Config
	log *zodkit.Logger
}

// NewWriter creates a writer for the run's configuration.
func NewWriter(cfg *zodkit.Config, log *zodkit.Logger) *Writer {
	if log == nil {
		log = zodkit.NewLogger()
	}
	return &Writer{cfg: cfg, log: log}
}

// Write renders and writes all output files. Existing files not carrying
// the generated header are only overwritten when force is set.
func (w *Writer) Write(schemas []*CompiledSchema, force bool) error {
	out := w.plan(schemas)
	if err := out.Write(force); err != nil {
		return err
	}
	for _, f := range out.Files() {
		w.log.Write("%s", f.Filename())
	}
	return nil
}

// DryRun renders all output files without touching disk.
func (w *Writer) DryRun(schemas []*CompiledSchema) (map[string][]byte, error) {
	return w.plan(schemas).DryRun()
}

func (w *Writer) plan(schemas []*CompiledSchema) *zodkit.Output {
	ordered := topoSort(schemas)
	out := zodkit.NewOutput()
	if w.cfg.SingleFile {
		w.planSingle(out, ordered)
	} else {
		w.planPerSchema(out, ordered)
	}
	return out
}

func (w *Writer) planSingle(out *zodkit.Output, schemas []*CompiledSchema) {
	g := out.NewGeneratedFile(filepath.Join(w.cfg.OutDir, "schemas.ts"))
	g.ImportNamed("zod", "z")
	for _, cs := range schemas {
		w.importEnums(g, cs)
	}
	for i, cs := range schemas {
		if i > 0 {
			g.P()
		}
		w.emitSchema(g, cs)
	}
}

func (w *Writer) planPerSchema(out *zodkit.Output, schemas []*CompiledSchema) {
	for _, cs := range schemas {
		filename := filepath.Join(w.cfg.OutDir, schemaFileName(cs.Data.Name))
		g := out.NewGeneratedFile(filename)
		g.ImportNamed("zod", "z")
		for _, dep := range cs.Data.Dependencies {
			depFile := filepath.Join(w.cfg.OutDir, schemaFileName(dep))
			g.ImportNamed(zodkit.RelativeModule(filename, depFile), schemaConstName(dep))
		}
		w.importEnums(g, cs)
		w.emitSchema(g, cs)
	}
}

// importEnums wires imports for named enums referenced via z.nativeEnum.
// An enum with no configured import module is emitted unqualified; the
// consuming project must have it in scope.
func (w *Writer) importEnums(g *zodkit.GeneratedFile, cs *CompiledSchema) {
	for _, name := range cs.EnumRefs {
		module, ok := w.cfg.EnumImports[name]
		if !ok {
			w.log.Warn("enum %s referenced by %s has no enum_imports entry", name, cs.Data.Name)
			continue
		}
		g.ImportNamed(module, name)
	}
}

func (w *Writer) emitSchema(g *zodkit.GeneratedFile, cs *CompiledSchema) {
	name := cs.Data.Name
	g.P("export const ", schemaConstName(name), " = ", cs.Source, ";")
	g.P()
	g.P("export type ", upperFirst(name), " = z.infer<typeof ", schemaConstName(name), ">;")
}

// schemaFileName maps a schema name to its output file.
func schemaFileName(name string) string {
	return lowerFirst(name) + ".ts"
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-('a'-'A')) + s[1:]
	}
	return s
}

// topoSort orders schemas so dependencies come first. Unknown dependencies
// are ignored and cycles are tolerated: the member reached first is
// emitted first.
func topoSort(schemas []*CompiledSchema) []*CompiledSchema {
	byName := make(map[string]*CompiledSchema, len(schemas))
	for _, cs := range schemas {
		byName[cs.Data.Name] = cs
	}

	var ordered []*CompiledSchema
	state := make(map[string]int, len(schemas)) // 0 unseen, 1 visiting, 2 done

	var visit func(cs *CompiledSchema)
	visit = func(cs *CompiledSchema) {
		if state[cs.Data.Name] != 0 {
			return
		}
		state[cs.Data.Name] = 1
		for _, dep := range cs.Data.Dependencies {
			if d, ok := byName[dep]; ok && state[dep] == 0 {
				visit(d)
			}
		}
		state[cs.Data.Name] = 2
		ordered = append(ordered, cs)
	}
	for _, cs := range schemas {
		visit(cs)
	}
	return ordered
}
