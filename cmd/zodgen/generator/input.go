package generator

// FieldDecl is one raw field declaration as extracted from a source class:
// a field path and its rule representation (pipe string, list, rule object,
// or a mix).
type FieldDecl struct {
	Path  string
	Value any
}

// InheritDecl declares that a target field copies its rules from a field
// declared on another class. SourceField defaults to TargetField.
type InheritDecl struct {
	TargetField string
	SourceClass string
	SourceField string
}

// Field returns the effective source field name.
func (d InheritDecl) Field() string {
	if d.SourceField != "" {
		return d.SourceField
	}
	return d.TargetField
}

// ClassInput is the raw description of one source class as produced by an
// extraction front-end. Both the YAML loader and the Go source scanner
// emit this shape; everything downstream is front-end agnostic.
type ClassInput struct {
	// Name is the schema name, e.g. "StoreOrder".
	Name string

	// ClassName is the declaring class identifier used in diagnostics.
	ClassName string

	// File is the source file the class came from.
	File string

	// Fields is the ordered raw rule map.
	Fields []FieldDecl

	// Messages holds custom messages keyed "field.ruleName" with the rule
	// name's first letter lowercased.
	Messages map[string]string

	// Meta carries optional per-path metadata.
	Meta map[string]FieldMeta

	// Inherits lists inheritance declarations for this class's fields.
	Inherits []InheritDecl
}

// NormalizedClass is a class after rule normalization and inheritance
// propagation: ordered normalized rule lists per path, with fragments,
// messages, and metadata merged from inherited sources.
type NormalizedClass struct {
	Name      string
	ClassName string
	File      string
	Fields    []FieldRules
	Messages  map[string]string
	Meta      map[string]FieldMeta
}

// Field returns the normalized rules for an exact path, if declared.
func (c *NormalizedClass) Field(path string) (*FieldRules, bool) {
	for i := range c.Fields {
		if c.Fields[i].Path == path {
			return &c.Fields[i], true
		}
	}
	return nil, false
}
