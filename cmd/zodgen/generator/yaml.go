package generator

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAMLFile parses one *.zod.yaml definition file into class inputs.
// Declaration order of schemas and fields is preserved.
func LoadYAMLFile(path string) ([]*ClassInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	classes, err := ParseYAML(data, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return classes, nil
}

// ParseYAML parses YAML schema definitions. The document shape is:
//
//	schemas:
//	  StoreOrder:
//	    rules:
//	      name: required|string|max:10
//	      items.*.qty: [integer, "min:1"]
//	    messages:
//	      name.required: A name is required.
//	    metadata:
//	      address: { object: true }
//	    inherits:
//	      billing: { from: CommonFields, field: address }
func ParseYAML(data []byte, file string) ([]*ClassInput, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping")
	}

	schemas := mappingValue(root, "schemas")
	if schemas == nil {
		return nil, fmt.Errorf("missing top-level schemas key")
	}
	if schemas.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schemas must be a mapping")
	}

	var classes []*ClassInput
	for i := 0; i < len(schemas.Content); i += 2 {
		name := schemas.Content[i].Value
		class, err := parseClass(name, schemas.Content[i+1], file)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		classes = append(classes, class)
	}
	return classes, nil
}

func parseClass(name string, node *yaml.Node, file string) (*ClassInput, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema body must be a mapping")
	}
	class := &ClassInput{Name: name, ClassName: name, File: file}

	if rules := mappingValue(node, "rules"); rules != nil {
		if rules.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("rules must be a mapping")
		}
		for i := 0; i < len(rules.Content); i += 2 {
			path := rules.Content[i].Value
			value, err := parseRuleValue(rules.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", path, err)
			}
			class.Fields = append(class.Fields, FieldDecl{Path: path, Value: value})
		}
	}

	if messages := mappingValue(node, "messages"); messages != nil {
		class.Messages = make(map[string]string)
		for i := 0; i < len(messages.Content); i += 2 {
			class.Messages[messages.Content[i].Value] = messages.Content[i+1].Value
		}
	}

	if metadata := mappingValue(node, "metadata"); metadata != nil {
		class.Meta = make(map[string]FieldMeta)
		for i := 0; i < len(metadata.Content); i += 2 {
			path := metadata.Content[i].Value
			meta, err := parseMeta(metadata.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("metadata %s: %w", path, err)
			}
			class.Meta[path] = meta
		}
	}

	if inherits := mappingValue(node, "inherits"); inherits != nil {
		for i := 0; i < len(inherits.Content); i += 2 {
			decl, err := parseInherit(inherits.Content[i].Value, inherits.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("inherits %s: %w", inherits.Content[i].Value, err)
			}
			class.Inherits = append(class.Inherits, decl)
		}
	}

	return class, nil
}

// parseRuleValue converts a YAML rule value into the representation the
// normalizer accepts: a pipe string, a list, or rule objects carrying
// fragments.
func parseRuleValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value, nil
	case yaml.SequenceNode:
		var items []any
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				items = append(items, item.Value)
			case yaml.MappingNode:
				obj, err := parseRuleObject(item)
				if err != nil {
					return nil, err
				}
				items = append(items, obj)
			default:
				return nil, fmt.Errorf("unsupported rule list item")
			}
		}
		return items, nil
	case yaml.MappingNode:
		return parseFragmentForm(node)
	}
	return nil, fmt.Errorf("unsupported rule representation")
}

// parseFragmentForm handles the mapping form combining a rule list with an
// append or replace fragment:
//
//	rules: required|string
//	append: .trim()
func parseFragmentForm(node *yaml.Node) (any, error) {
	var items []any
	if rules := mappingValue(node, "rules"); rules != nil {
		parsed, err := parseRuleValue(rules)
		if err != nil {
			return nil, err
		}
		switch v := parsed.(type) {
		case string:
			items = append(items, v)
		case []any:
			items = append(items, v...)
		}
	}
	if frag := fragmentFrom(node); frag != nil {
		items = append(items, RuleObject{Fragment: frag})
	}
	if len(items) == 0 {
		obj, err := parseRuleObject(node)
		if err != nil {
			return nil, err
		}
		return []any{obj}, nil
	}
	return items, nil
}

// parseRuleObject handles an explicit rule-object mapping with name,
// params, and an optional fragment.
func parseRuleObject(node *yaml.Node) (RuleObject, error) {
	obj := RuleObject{Fragment: fragmentFrom(node)}
	if name := mappingValue(node, "name"); name != nil {
		obj.Name = name.Value
	}
	if params := mappingValue(node, "params"); params != nil {
		switch params.Kind {
		case yaml.ScalarNode:
			for _, p := range strings.Split(params.Value, ",") {
				obj.Params = append(obj.Params, strings.TrimSpace(p))
			}
		case yaml.SequenceNode:
			for _, p := range params.Content {
				obj.Params = append(obj.Params, p.Value)
			}
		default:
			return obj, fmt.Errorf("params must be a scalar or list")
		}
	}
	if obj.Name == "" && obj.Fragment == nil {
		return obj, fmt.Errorf("rule object needs a name, append, or replace")
	}
	return obj, nil
}

func fragmentFrom(node *yaml.Node) *SchemaFragment {
	if v := mappingValue(node, "append"); v != nil {
		return &SchemaFragment{Code: v.Value, Mode: FragmentAppend}
	}
	if v := mappingValue(node, "replace"); v != nil {
		return &SchemaFragment{Code: v.Value, Mode: FragmentReplace}
	}
	return nil
}

func parseMeta(node *yaml.Node) (FieldMeta, error) {
	var meta FieldMeta
	if node.Kind != yaml.MappingNode {
		return meta, fmt.Errorf("metadata entry must be a mapping")
	}
	if v := mappingValue(node, "object"); v != nil {
		meta.IsNestedObject = v.Value == "true"
	}
	if v := mappingValue(node, "optional"); v != nil {
		meta.IsOptional = v.Value == "true"
	}
	if v := mappingValue(node, "enum"); v != nil {
		meta.EnumRef = v.Value
	}
	if v := mappingValue(node, "schema"); v != nil {
		meta.SchemaRef = v.Value
	}
	if v := mappingValue(node, "literal"); v != nil {
		mode := FragmentReplace
		if m := mappingValue(node, "literal_mode"); m != nil && m.Value == string(FragmentAppend) {
			mode = FragmentAppend
		}
		meta.Override = &SchemaFragment{Code: v.Value, Mode: mode}
	}
	return meta, nil
}

// parseInherit accepts the shorthand "SourceClass" / "SourceClass.field"
// scalar or the explicit {from, field} mapping.
func parseInherit(target string, node *yaml.Node) (InheritDecl, error) {
	decl := InheritDecl{TargetField: target}
	switch node.Kind {
	case yaml.ScalarNode:
		class, field, found := strings.Cut(node.Value, ".")
		decl.SourceClass = class
		if found {
			decl.SourceField = field
		}
	case yaml.MappingNode:
		if v := mappingValue(node, "from"); v != nil {
			decl.SourceClass = v.Value
		}
		if v := mappingValue(node, "field"); v != nil {
			decl.SourceField = v.Value
		}
	default:
		return decl, fmt.Errorf("unsupported inherits form")
	}
	if decl.SourceClass == "" {
		return decl, fmt.Errorf("missing source class")
	}
	return decl, nil
}

// mappingValue returns the value node for a key of a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
