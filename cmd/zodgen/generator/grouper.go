package generator

import "strings"

// FieldRules is one field path with its normalized rules, in declaration
// order.
type FieldRules struct {
	Path     string
	Rules    []RuleEntry
	Fragment *SchemaFragment
}

// FieldMeta is per-path metadata supplied by the extraction layer. Absent
// for plain rule-map classes.
type FieldMeta struct {
	// IsNestedObject marks the path as a declared nested typed object
	// rather than a flat dotted property name.
	IsNestedObject bool

	// IsOptional marks the top-level field optional regardless of rules.
	IsOptional bool

	// EnumRef names a reusable enum the field references; the compiler
	// emits the reference instead of literal values.
	EnumRef string

	// SchemaRef names another schema this field references; the compiler
	// emits a schema reference and records a dependency.
	SchemaRef string

	// Override is a literal fragment declared at the field site, applied
	// as the property's schema override during compilation.
	Override *SchemaFragment
}

// GroupedNode is one node of the grouped rule tree. A node is a leaf
// (no children), an array container (its only structural child is the
// wildcard "*"), or an object container (named children).
type GroupedNode struct {
	// Name is the child key: a property name, a literal "*" for array
	// items, or a still-dotted flat name the grouping heuristic declined
	// to split.
	Name string

	// Path is the full field path of this node.
	Path string

	Rules    []RuleEntry
	Fragment *SchemaFragment

	// IsNestedObject is set when the node was classified as a nested
	// typed object via marker or heuristic.
	IsNestedObject bool

	children   []*GroupedNode
	childIndex map[string]*GroupedNode
}

// Children returns the child nodes in insertion order.
func (n *GroupedNode) Children() []*GroupedNode { return n.children }

// Child returns the named child or nil.
func (n *GroupedNode) Child(name string) *GroupedNode {
	if n.childIndex == nil {
		return nil
	}
	return n.childIndex[name]
}

// Wildcard returns the "*" child or nil.
func (n *GroupedNode) Wildcard() *GroupedNode { return n.Child("*") }

// IsLeaf reports whether the node has no structural children.
func (n *GroupedNode) IsLeaf() bool { return len(n.children) == 0 }

// IsArray reports whether the node is an array container.
func (n *GroupedNode) IsArray() bool { return n.Wildcard() != nil }

func (n *GroupedNode) ensureChild(name, path string) *GroupedNode {
	if c := n.Child(name); c != nil {
		return c
	}
	c := &GroupedNode{Name: name, Path: path}
	if n.childIndex == nil {
		n.childIndex = make(map[string]*GroupedNode)
	}
	n.childIndex[name] = c
	n.children = append(n.children, c)
	return c
}

// Grouper converts a flat rule map into grouped trees. It must see the
// whole class at once: classifying the segments of a dotted path needs
// the sibling declarations and marker metadata.
type Grouper struct {
	meta  map[string]FieldMeta
	rules map[string][]RuleEntry // declared rules per path
}

// NewGrouper builds a grouper over one class's declared paths and metadata.
func NewGrouper(fields []FieldRules, meta map[string]FieldMeta) *Grouper {
	rules := make(map[string][]RuleEntry, len(fields))
	for _, f := range fields {
		rules[f.Path] = f.Rules
	}
	return &Grouper{meta: meta, rules: rules}
}

// Group builds one grouped tree per top-level field, in declaration order.
func (g *Grouper) Group(fields []FieldRules) []*GroupedNode {
	root := &GroupedNode{}
	for _, f := range fields {
		g.insert(root, f)
	}
	for _, n := range root.children {
		prune(n)
	}
	return root.children
}

// insert walks the path's segments into the tree, applying the
// object-vs-flat-name policy at every non-wildcard multi-segment run.
func (g *Grouper) insert(root *GroupedNode, f FieldRules) {
	segments := strings.Split(f.Path, ".")
	node := root
	prefix := ""

	appendPrefix := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}

	for len(segments) > 0 {
		if segments[0] == "*" {
			path := appendPrefix("*")
			node = node.ensureChild("*", path)
			prefix = path
			segments = segments[1:]
			continue
		}

		run := segments
		if wc := indexOf(segments, "*"); wc >= 0 {
			run = segments[:wc]
		}

		if len(run) == 1 {
			path := appendPrefix(run[0])
			node = node.ensureChild(run[0], path)
			prefix = path
			segments = segments[1:]
			continue
		}

		// Multi-segment run: split off the leading segment when it is a
		// declared nested object (marker wins) or the best-effort sibling
		// heuristic says so; otherwise keep the dotted name verbatim.
		leading := run[0]
		leadingPath := appendPrefix(leading)
		if g.isNestedObject(leadingPath) {
			child := node.ensureChild(leading, leadingPath)
			child.IsNestedObject = true
			node = child
			prefix = leadingPath
			segments = segments[1:]
			continue
		}

		// Flat dotted property name: consume the whole run as one key.
		name := strings.Join(run, ".")
		path := appendPrefix(name)
		node = node.ensureChild(name, path)
		prefix = path
		segments = segments[len(run):]
	}

	node.Rules = f.Rules
	if f.Fragment != nil && node.Fragment == nil {
		node.Fragment = f.Fragment
	}
}

// isNestedObject decides whether a dotted path splits at this segment.
// The marker-first policy: explicit metadata is authoritative; a parent
// declared with its own rules is a scalar or array leaf, which makes the
// remaining dotted run a literal flat name; otherwise dots mean nesting.
// The rule-based fallback is best effort and can misclassify a naturally
// dotted key whose parent segment is never declared.
func (g *Grouper) isNestedObject(path string) bool {
	if m, ok := g.meta[path]; ok && m.IsNestedObject {
		return true
	}
	if rules, ok := g.rules[path]; ok && scalarClassified(rules) {
		return false
	}
	return true
}

// scalarClassified reports whether the rule list pins the path to a
// scalar type. Presence-only or array rules leave room for nesting.
func scalarClassified(rules []RuleEntry) bool {
	set := NewRuleSet(rules)
	if set.Has("string") || set.Has(booleanTypeRules...) || set.Has(numericTypeRules...) ||
		set.Has(dateTypeRules...) || set.Has(fileTypeRules...) || set.Has(enumTypeRules...) {
		return true
	}
	for _, r := range rules {
		if _, ok := stringSubtypeRules[r.Name]; ok {
			return true
		}
	}
	return false
}

// prune demotes containers whose nested map ended up empty back to leaves
// and recurses. A wildcard child with neither rules nor children marks a
// plain array-of-scalars and is kept only when it carries rules.
func prune(n *GroupedNode) {
	kept := n.children[:0]
	for _, c := range n.children {
		prune(c)
		if c.Name == "*" && c.IsLeaf() && len(c.Rules) == 0 && c.Fragment == nil {
			delete(n.childIndex, c.Name)
			continue
		}
		kept = append(kept, c)
	}
	n.children = kept
	if len(n.children) == 0 {
		n.childIndex = nil
	}
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return -1
}
