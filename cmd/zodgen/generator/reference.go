package generator

import "sort"

// RuleInfo describes one supported rule for the CLI's rules listing and
// IDE integrations.
type RuleInfo struct {
	Name     string `json:"name" toml:"name"`
	Category string `json:"category" toml:"category"`
}

// RuleReference returns every rule name the pipeline understands, with its
// classification, sorted by name.
func RuleReference() []RuleInfo {
	var infos []RuleInfo
	add := func(category string, names ...string) {
		for _, n := range names {
			infos = append(infos, RuleInfo{Name: n, Category: category})
		}
	}

	add("presence", requiredClassRules...)
	add("presence", nullableClassRules...)
	add("presence", optionalClassRules...)
	add("presence", crossFieldRuleNames...)
	add("boolean", booleanTypeRules...)
	add("numeric", numericTypeRules...)
	add("array", arrayTypeRules...)
	add("array", "distinct")
	add("date", dateTypeRules...)
	add("file", fileTypeRules...)
	add("enum", enumTypeRules...)
	add("enum", "not_in")
	add("size", sizeFamilyRules...)
	add("string",
		"string", "regex", "not_regex", "alpha", "alpha_num", "alpha_dash",
		"ascii", "lowercase", "uppercase", "starts_with", "ends_with",
		"doesnt_start_with", "doesnt_end_with", "ip", "ipv4", "ipv6",
	)
	for name := range stringSubtypeRules {
		infos = append(infos, RuleInfo{Name: name, Category: "string"})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	out := infos[:0]
	var prev string
	for _, info := range infos {
		if info.Name == prev {
			continue
		}
		prev = info.Name
		out = append(out, info)
	}
	return out
}
