package zodkit

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Loader loads Go packages and extracts the struct and enum declarations
// the generator scans for zodgen:@schema annotations.
type Loader struct {
	// Packages are the loaded packages.
	Packages []*Package

	// Fset is the token file set.
	Fset *token.FileSet

	opts LoadOptions
}

// LoadOptions configures the loader.
type LoadOptions struct {
	// Tags are build tags to use when loading packages.
	Tags []string

	// Dir is the working directory. If empty, uses current directory.
	Dir string
}

// NewLoader creates a new Loader.
func NewLoader(opts ...LoadOptions) *Loader {
	l := &Loader{Fset: token.NewFileSet()}
	if len(opts) > 0 {
		l.opts = opts[0]
	}
	return l
}

// Load loads packages matching the given patterns.
// Patterns follow Go's standard conventions ("./...", "./pkg", ".").
func (l *Loader) Load(patterns ...string) error {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
		Fset:       l.Fset,
		Dir:        l.opts.Dir,
		BuildFlags: buildFlags(l.opts.Tags),
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		l.Packages = append(l.Packages, l.buildPackage(pkg))
	}
	return nil
}

func buildFlags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	return []string{"-tags=" + strings.Join(tags, ",")}
}

func (l *Loader) buildPackage(pkg *packages.Package) *Package {
	p := &Package{
		Name:     pkg.Name,
		PkgPath:  pkg.PkgPath,
		Dir:      pkgDir(pkg),
		TypesPkg: pkg.Types,
	}

	typesByName := make(map[string]*Type)
	for _, file := range pkg.Syntax {
		if file == nil {
			continue
		}
		l.extractTypes(p, file, typesByName)
	}
	for _, file := range pkg.Syntax {
		if file == nil {
			continue
		}
		l.extractEnums(p, file, typesByName)
	}
	return p
}

func pkgDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}
	return ""
}

func (l *Loader) extractTypes(pkg *Package, file *ast.File, typesByName map[string]*Type) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			typ := &Type{
				Name: ts.Name.Name,
				Doc:  docText(gd.Doc),
				Pkg:  pkg,
			}
			if st, ok := ts.Type.(*ast.StructType); ok {
				typ.Fields = extractFields(l.Fset, st)
			}
			pkg.Types = append(pkg.Types, typ)
			typesByName[typ.Name] = typ
		}
	}
}

func (l *Loader) extractEnums(pkg *Package, file *ast.File, typesByName map[string]*Type) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.CONST {
			continue
		}

		enumsByType := make(map[string]*Enum)
		var currentType string

		for _, spec := range gd.Specs {
			vs := spec.(*ast.ValueSpec)
			if vs.Type != nil {
				currentType = ExprString(vs.Type)
			}
			if currentType == "" {
				continue
			}

			enum := enumsByType[currentType]
			if enum == nil {
				enum = &Enum{Name: currentType, Pkg: pkg}
				if typ, ok := typesByName[currentType]; ok {
					enum.Doc = typ.Doc
				}
				enumsByType[currentType] = enum
			}

			for i, name := range vs.Names {
				ev := &EnumValue{Name: name.Name}
				if i < len(vs.Values) {
					ev.Value = ExprString(vs.Values[i])
				}
				enum.Values = append(enum.Values, ev)
			}
		}

		for _, enum := range enumsByType {
			if len(enum.Values) > 0 {
				pkg.Enums = append(pkg.Enums, enum)
			}
		}
	}
}

func extractFields(fset *token.FileSet, st *ast.StructType) []*Field {
	var fields []*Field
	for _, f := range st.Fields.List {
		for _, name := range f.Names {
			field := &Field{
				Name: name.Name,
				Type: ExprString(f.Type),
				Doc:  docText(f.Doc),
				Pos:  fset.Position(name.Pos()),
			}
			if f.Tag != nil {
				field.Tag = strings.Trim(f.Tag.Value, "`")
			}
			fields = append(fields, field)
		}
	}
	return fields
}

func docText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return cg.Text()
}

// ExprString renders a type expression to its source form.
func ExprString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return ExprString(e.X) + "." + e.Sel.Name
	case *ast.StarExpr:
		return "*" + ExprString(e.X)
	case *ast.ArrayType:
		if e.Len == nil {
			return "[]" + ExprString(e.Elt)
		}
		return fmt.Sprintf("[%s]%s", ExprString(e.Len), ExprString(e.Elt))
	case *ast.MapType:
		return fmt.Sprintf("map[%s]%s", ExprString(e.Key), ExprString(e.Value))
	case *ast.BasicLit:
		return e.Value
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// Package represents a loaded Go package.
type Package struct {
	Name     string
	PkgPath  string
	Dir      string
	TypesPkg *types.Package
	Types    []*Type
	Enums    []*Enum
}

// Type represents a Go type declaration.
type Type struct {
	Name   string
	Doc    string
	Pkg    *Package
	Fields []*Field
}

// Field represents a struct field.
type Field struct {
	Name string
	Type string
	Tag  string
	Doc  string
	Pos  token.Position
}

// TagValue extracts the value of a struct tag key, e.g. TagValue("validate").
func (f *Field) TagValue(key string) string {
	tag := f.Tag
	for tag != "" {
		// skip leading space
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}
		// find key
		i = 0
		for i < len(tag) && tag[i] != ':' && tag[i] != ' ' {
			i++
		}
		if i >= len(tag) || tag[i] != ':' || i+1 >= len(tag) || tag[i+1] != '"' {
			break
		}
		name := tag[:i]
		tag = tag[i+2:]
		// find closing quote
		j := 0
		for j < len(tag) && tag[j] != '"' {
			if tag[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(tag) {
			break
		}
		value := tag[:j]
		tag = tag[j+1:]
		if name == key {
			return value
		}
	}
	return ""
}

// Enum represents a Go enum (type with const values).
type Enum struct {
	Name   string
	Doc    string
	Pkg    *Package
	Values []*EnumValue
}

// EnumValue represents an enum constant.
type EnumValue struct {
	Name  string
	Value string
}
