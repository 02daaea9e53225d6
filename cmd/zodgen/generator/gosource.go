package generator

import (
	"fmt"
	"strings"

	"github.com/ruleforge/zodgen/zodkit"
)

// SourceExtractor scans Go packages for structs annotated zodgen:@schema
// and converts their validate tags and field annotations into class
// inputs, the same shape the YAML front-end produces.
//
// Field annotations:
//
//	zodgen:@message(rule, "text")  custom message for one rule
//	zodgen:@inherit(Class, field)  copy rules from another schema's field
//	zodgen:@literal(".trim()", append)  literal fragment override
//	zodgen:@optional               mark the field optional
type SourceExtractor struct {
	loader *zodkit.Loader
	log    *zodkit.Logger
}

// NewSourceExtractor creates an extractor loading packages from dir.
func NewSourceExtractor(dir string, log *zodkit.Logger) *SourceExtractor {
	if log == nil {
		log = zodkit.NewLogger()
	}
	return &SourceExtractor{
		loader: zodkit.NewLoader(zodkit.LoadOptions{Dir: dir}),
		log:    log,
	}
}

// Extract loads the given package patterns and returns one class input per
// annotated struct, in declaration order.
func (e *SourceExtractor) Extract(patterns ...string) ([]*ClassInput, error) {
	if err := e.loader.Load(patterns...); err != nil {
		return nil, err
	}

	var classes []*ClassInput
	for _, pkg := range e.loader.Packages {
		for _, typ := range pkg.Types {
			ann := zodkit.GetAnnotation(typ.Doc, "schema")
			if ann == nil {
				continue
			}
			name := ann.Arg(0)
			if name == "" {
				name = typ.Name
			}
			class := &ClassInput{
				Name:      name,
				ClassName: typ.Name,
				Messages:  make(map[string]string),
				Meta:      make(map[string]FieldMeta),
			}
			e.walkStruct(class, pkg, typ, "")
			e.log.Load("schema %s (%s, %d fields)", name, typ.Name, len(class.Fields))
			classes = append(classes, class)
		}
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("no zodgen:@schema structs found in %s", strings.Join(patterns, " "))
	}
	return classes, nil
}

// walkStruct converts one struct's fields into field declarations rooted
// at prefix, recursing into inline nested structs and slices.
func (e *SourceExtractor) walkStruct(class *ClassInput, pkg *zodkit.Package, typ *zodkit.Type, prefix string) {
	for _, field := range typ.Fields {
		jsonName := fieldJSONName(field)
		if jsonName == "-" {
			continue
		}
		path := prefix + jsonName
		meta := e.fieldMeta(class, field, path)

		rules := field.TagValue("validate")

		fieldType := strings.TrimPrefix(field.Type, "*")
		if strings.HasPrefix(field.Type, "*") {
			meta.IsOptional = true
		}

		switch {
		case strings.HasPrefix(fieldType, "[]"):
			elem := strings.TrimPrefix(fieldType, "[]")
			if rules == "" {
				rules = "array"
			}
			e.bindElement(class, pkg, path, elem, &meta)
		default:
			e.bindScalar(class, pkg, path, fieldType, &meta)
		}

		if meta != (FieldMeta{}) {
			class.Meta[path] = meta
		}
		if rules != "" {
			class.Fields = append(class.Fields, FieldDecl{Path: path, Value: rules})
		}

		// inline object fields contribute their children after themselves
		if meta.IsNestedObject {
			if nested := findType(pkg, fieldType); nested != nil {
				e.walkStruct(class, pkg, nested, path+".")
			}
		}
		if strings.HasPrefix(fieldType, "[]") {
			elem := strings.TrimPrefix(strings.TrimPrefix(fieldType, "[]"), "*")
			if nested := findType(pkg, elem); nested != nil && meta.SchemaRef == "" && !isEnum(pkg, elem) && len(nested.Fields) > 0 {
				e.walkStruct(class, pkg, nested, path+".*.")
			}
		}
	}
}

// bindElement classifies a slice's element type: a schema-annotated struct
// becomes a schema reference, an enum type becomes an enum reference on
// the item path, and plain structs are walked inline by the caller.
func (e *SourceExtractor) bindElement(class *ClassInput, pkg *zodkit.Package, path, elem string, meta *FieldMeta) {
	elem = strings.TrimPrefix(elem, "*")
	if ref := schemaRefName(pkg, elem); ref != "" {
		meta.SchemaRef = ref
		return
	}
	if isEnum(pkg, elem) {
		itemMeta := class.Meta[path+".*"]
		itemMeta.EnumRef = elem
		class.Meta[path+".*"] = itemMeta
	}
}

// bindScalar classifies a non-slice field type.
func (e *SourceExtractor) bindScalar(class *ClassInput, pkg *zodkit.Package, path, fieldType string, meta *FieldMeta) {
	if ref := schemaRefName(pkg, fieldType); ref != "" {
		meta.SchemaRef = ref
		return
	}
	if isEnum(pkg, fieldType) {
		meta.EnumRef = fieldType
		return
	}
	if nested := findType(pkg, fieldType); nested != nil && len(nested.Fields) > 0 {
		meta.IsNestedObject = true
	}
}

// fieldMeta reads the field's doc annotations into class state and the
// field's metadata.
func (e *SourceExtractor) fieldMeta(class *ClassInput, field *zodkit.Field, path string) FieldMeta {
	var meta FieldMeta
	for _, ann := range zodkit.ParseAnnotations(field.Doc) {
		switch ann.Name {
		case "message":
			if ann.Arg(0) != "" && ann.Arg(1) != "" {
				class.Messages[path+"."+lowerFirst(ann.Arg(0))] = ann.Arg(1)
			}
		case "inherit":
			if ann.Arg(0) != "" {
				class.Inherits = append(class.Inherits, InheritDecl{
					TargetField: path,
					SourceClass: ann.Arg(0),
					SourceField: ann.Arg(1),
				})
			}
		case "literal":
			mode := FragmentReplace
			if ann.Arg(1) == string(FragmentAppend) {
				mode = FragmentAppend
			}
			meta.Override = &SchemaFragment{Code: ann.Arg(0), Mode: mode}
		case "optional":
			meta.IsOptional = true
		case "schema":
			// struct-level annotation, not a field annotation
		default:
			e.log.Skip("unknown annotation @%s on %s", ann.Name, path)
		}
	}
	return meta
}

// fieldJSONName returns the json tag name, falling back to the snake_cased
// Go field name.
func fieldJSONName(field *zodkit.Field) string {
	tag := field.TagValue("json")
	if tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	return snakeCase(field.Name)
}

// schemaRefName returns the schema name for a type declared with its own
// zodgen:@schema annotation, or empty.
func schemaRefName(pkg *zodkit.Package, typeName string) string {
	typ := findType(pkg, typeName)
	if typ == nil {
		return ""
	}
	ann := zodkit.GetAnnotation(typ.Doc, "schema")
	if ann == nil {
		return ""
	}
	if ann.Arg(0) != "" {
		return ann.Arg(0)
	}
	return typ.Name
}

func findType(pkg *zodkit.Package, name string) *zodkit.Type {
	for _, t := range pkg.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func isEnum(pkg *zodkit.Package, name string) bool {
	for _, e := range pkg.Enums {
		if e.Name == name {
			return true
		}
	}
	return false
}

func snakeCase(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
