package generator

import (
	"fmt"
	"strings"

	"github.com/ruleforge/zodgen/zodkit"
)

// ClassResolver normalizes class inputs and propagates field inheritance.
// Resolution is memoized for the duration of one generation run; a class
// re-entered while still resolving short-circuits to its partial result,
// which keeps mutual and self-referential inheritance graphs terminating.
type ClassResolver struct {
	classes map[string]*ClassInput
	cache   map[string]*NormalizedClass
	log     *zodkit.Logger
}

// NewClassResolver indexes the run's class inputs by name.
func NewClassResolver(classes []*ClassInput, log *zodkit.Logger) *ClassResolver {
	if log == nil {
		log = zodkit.NewLogger()
	}
	index := make(map[string]*ClassInput, len(classes))
	for _, c := range classes {
		index[c.Name] = c
	}
	return &ClassResolver{
		classes: index,
		cache:   make(map[string]*NormalizedClass),
		log:     log,
	}
}

// Resolve returns the normalized class with all inherited rules merged in.
// An unresolvable source class in an inheritance declaration aborts the
// run: it indicates a broken class declaration, not a data edge case.
func (r *ClassResolver) Resolve(name string) (*NormalizedClass, error) {
	if cached, ok := r.cache[name]; ok {
		return cached, nil
	}
	input, ok := r.classes[name]
	if !ok {
		return nil, fmt.Errorf("class %q is not declared in this run", name)
	}

	resolved := &NormalizedClass{
		Name:      input.Name,
		ClassName: input.ClassName,
		File:      input.File,
		Messages:  copyMessages(input.Messages),
		Meta:      copyMeta(input.Meta),
	}
	// publish the partial result before resolving inherited sources so a
	// cycle re-entering this class sees it instead of recursing forever
	r.cache[name] = resolved

	for _, decl := range input.Fields {
		rules, fragment, err := NormalizeRules(decl.Value)
		if err != nil {
			return nil, fmt.Errorf("class %s field %s: %w", name, decl.Path, err)
		}
		resolved.Fields = append(resolved.Fields, FieldRules{
			Path:     decl.Path,
			Rules:    rules,
			Fragment: fragment,
		})
	}

	for _, decl := range input.Inherits {
		if err := r.inherit(resolved, decl); err != nil {
			return nil, fmt.Errorf("class %s field %s: %w", name, decl.TargetField, err)
		}
	}

	return resolved, nil
}

// inherit merges one source field (and its nested sub-paths) into the
// target class. The source class's resolved form is never mutated.
func (r *ClassResolver) inherit(target *NormalizedClass, decl InheritDecl) error {
	source, err := r.Resolve(decl.SourceClass)
	if err != nil {
		return fmt.Errorf("inherit from %s.%s: %w", decl.SourceClass, decl.Field(), err)
	}

	srcField := decl.Field()
	found := false
	for i := range source.Fields {
		src := &source.Fields[i]
		if src.Path != srcField && !strings.HasPrefix(src.Path, srcField+".") {
			continue
		}
		found = true
		targetPath := decl.TargetField + strings.TrimPrefix(src.Path, srcField)
		r.mergeField(target, targetPath, src)
	}
	if !found {
		return fmt.Errorf("inherit from %s.%s: source field not declared", decl.SourceClass, srcField)
	}

	r.mergeMessages(target, decl, source)
	r.mergeMeta(target, decl, source)
	return nil
}

// mergeField unions the source rules into the target path. Named rules are
// de-duplicated by exact name; synthesized names for non-string rule
// entries are always appended. A target-declared fragment always wins.
func (r *ClassResolver) mergeField(target *NormalizedClass, targetPath string, src *FieldRules) {
	dst, ok := target.Field(targetPath)
	if !ok {
		target.Fields = append(target.Fields, FieldRules{
			Path:     targetPath,
			Rules:    copyRules(src.Rules),
			Fragment: copyFragment(src.Fragment),
		})
		return
	}

	for _, rule := range src.Rules {
		if !isSyntheticRuleName(rule.Name) && containsRule(dst.Rules, rule.Name) {
			continue
		}
		dst.Rules = append(dst.Rules, copyRule(rule))
	}
	if dst.Fragment == nil {
		dst.Fragment = copyFragment(src.Fragment)
	}
}

// mergeMessages copies source custom messages for the inherited field onto
// target-relative keys, keeping any message the target declared itself.
func (r *ClassResolver) mergeMessages(target *NormalizedClass, decl InheritDecl, source *NormalizedClass) {
	srcField := decl.Field()
	for key, msg := range source.Messages {
		if key != srcField && !strings.HasPrefix(key, srcField+".") {
			continue
		}
		targetKey := decl.TargetField + strings.TrimPrefix(key, srcField)
		if _, ok := target.Messages[targetKey]; ok {
			continue
		}
		if target.Messages == nil {
			target.Messages = make(map[string]string)
		}
		target.Messages[targetKey] = msg
	}
}

// mergeMeta copies source field metadata (nested-object markers, enum and
// schema references) onto target-relative paths. A source field declared
// as a collection of schema-referencing items keeps that relationship on
// the target through the copied SchemaRef.
func (r *ClassResolver) mergeMeta(target *NormalizedClass, decl InheritDecl, source *NormalizedClass) {
	srcField := decl.Field()
	for path, meta := range source.Meta {
		if path != srcField && !strings.HasPrefix(path, srcField+".") {
			continue
		}
		targetPath := decl.TargetField + strings.TrimPrefix(path, srcField)
		if _, ok := target.Meta[targetPath]; ok {
			continue
		}
		if target.Meta == nil {
			target.Meta = make(map[string]FieldMeta)
		}
		target.Meta[targetPath] = meta
	}
}

func isSyntheticRuleName(name string) bool {
	return strings.HasPrefix(name, "custom_rule_")
}

func containsRule(rules []RuleEntry, name string) bool {
	for _, r := range rules {
		if r.Name == name {
			return true
		}
	}
	return false
}

func copyRule(r RuleEntry) RuleEntry {
	out := RuleEntry{Name: r.Name}
	out.Params = append([]string(nil), r.Params...)
	return out
}

func copyRules(rules []RuleEntry) []RuleEntry {
	out := make([]RuleEntry, 0, len(rules))
	for _, r := range rules {
		out = append(out, copyRule(r))
	}
	return out
}

func copyFragment(f *SchemaFragment) *SchemaFragment {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

func copyMessages(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyMeta(m map[string]FieldMeta) map[string]FieldMeta {
	if m == nil {
		return nil
	}
	out := make(map[string]FieldMeta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
