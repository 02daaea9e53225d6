package generator

// Catalog is a locale's default validation message catalog. Size-family
// rules carry per-context variants keyed by "numeric", "string", "array"
// and "file"; every other rule has a single template.
type Catalog struct {
	Locale   string
	Simple   map[string]string
	Variants map[string]map[string]string
}

// Lookup returns the template for rule in the given context ("numeric",
// "string", "array", "file"). Context variants win over the plain template.
func (c *Catalog) Lookup(rule, context string) (string, bool) {
	if variants, ok := c.Variants[rule]; ok {
		if t, ok := variants[context]; ok {
			return t, true
		}
		if t, ok := variants["string"]; ok {
			return t, true
		}
	}
	t, ok := c.Simple[rule]
	return t, ok
}

// Catalogs maps locale names to built-in catalogs.
var Catalogs = map[string]*Catalog{
	"en": EnglishCatalog,
}

// EnglishCatalog holds the built-in English templates.
var EnglishCatalog = &Catalog{
	Locale: "en",
	Simple: map[string]string{
		"accepted":         "The :attribute field must be accepted.",
		"accepted_if":      "The :attribute field must be accepted when :other is :value.",
		"after":            "The :attribute field must be a date after :date.",
		"after_or_equal":   "The :attribute field must be a date after or equal to :date.",
		"alpha":            "The :attribute field must only contain letters.",
		"alpha_dash":       "The :attribute field must only contain letters, numbers, dashes, and underscores.",
		"alpha_num":        "The :attribute field must only contain letters and numbers.",
		"array":            "The :attribute field must be an array.",
		"before":           "The :attribute field must be a date before :date.",
		"before_or_equal":  "The :attribute field must be a date before or equal to :date.",
		"boolean":          "The :attribute field must be true or false.",
		"confirmed":        "The :attribute field confirmation does not match.",
		"date":             "The :attribute field must be a valid date.",
		"date_equals":      "The :attribute field must be a date equal to :date.",
		"date_format":      "The :attribute field must match the format :format.",
		"decimal":          "The :attribute field must have :decimal decimal places.",
		"declined":         "The :attribute field must be declined.",
		"declined_if":      "The :attribute field must be declined when :other is :value.",
		"different":        "The :attribute field and :other must be different.",
		"digits":           "The :attribute field must be :digits digits.",
		"digits_between":   "The :attribute field must be between :min and :max digits.",
		"distinct":         "The :attribute field has a duplicate value.",
		"email":            "The :attribute field must be a valid email address.",
		"ends_with":        "The :attribute field must end with one of the following: :values.",
		"enum":             "The selected :attribute is invalid.",
		"extensions":       "The :attribute field must have one of the following extensions: :values.",
		"file":             "The :attribute field must be a file.",
		"filled":           "The :attribute field must have a value.",
		"image":            "The :attribute field must be an image.",
		"in":               "The selected :attribute is invalid.",
		"integer":          "The :attribute field must be an integer.",
		"json":             "The :attribute field must be a valid JSON string.",
		"list":             "The :attribute field must be a list.",
		"lowercase":        "The :attribute field must be lowercase.",
		"max_digits":       "The :attribute field must not have more than :max digits.",
		"mimes":            "The :attribute field must be a file of type: :values.",
		"mimetypes":        "The :attribute field must be a file of type: :values.",
		"min_digits":       "The :attribute field must have at least :min digits.",
		"multiple_of":      "The :attribute field must be a multiple of :value.",
		"not_in":           "The selected :attribute is invalid.",
		"not_regex":        "The :attribute field format is invalid.",
		"numeric":          "The :attribute field must be a number.",
		"present":          "The :attribute field must be present.",
		"regex":            "The :attribute field format is invalid.",
		"required":         "The :attribute field is required.",
		"required_if":      "The :attribute field is required when :other is :value.",
		"required_unless":  "The :attribute field is required unless :other is in :values.",
		"required_with":    "The :attribute field is required when :values is present.",
		"required_without": "The :attribute field is required when :values is not present.",
		"same":             "The :attribute field must match :other.",
		"starts_with":      "The :attribute field must start with one of the following: :values.",
		"string":           "The :attribute field must be a string.",
		"ulid":             "The :attribute field must be a valid ULID.",
		"uppercase":        "The :attribute field must be uppercase.",
		"url":              "The :attribute field must be a valid URL.",
		"uuid":             "The :attribute field must be a valid UUID.",
	},
	Variants: map[string]map[string]string{
		"between": {
			"array":   "The :attribute field must have between :min and :max items.",
			"file":    "The :attribute field must be between :min and :max kilobytes.",
			"numeric": "The :attribute field must be between :min and :max.",
			"string":  "The :attribute field must be between :min and :max characters.",
		},
		"gt": {
			"array":   "The :attribute field must have more than :value items.",
			"file":    "The :attribute field must be greater than :value kilobytes.",
			"numeric": "The :attribute field must be greater than :value.",
			"string":  "The :attribute field must be greater than :value characters.",
		},
		"gte": {
			"array":   "The :attribute field must have :value items or more.",
			"file":    "The :attribute field must be greater than or equal to :value kilobytes.",
			"numeric": "The :attribute field must be greater than or equal to :value.",
			"string":  "The :attribute field must be greater than or equal to :value characters.",
		},
		"lt": {
			"array":   "The :attribute field must have less than :value items.",
			"file":    "The :attribute field must be less than :value kilobytes.",
			"numeric": "The :attribute field must be less than :value.",
			"string":  "The :attribute field must be less than :value characters.",
		},
		"lte": {
			"array":   "The :attribute field must not have more than :value items.",
			"file":    "The :attribute field must be less than or equal to :value kilobytes.",
			"numeric": "The :attribute field must be less than or equal to :value.",
			"string":  "The :attribute field must be less than or equal to :value characters.",
		},
		"max": {
			"array":   "The :attribute field must not have more than :max items.",
			"file":    "The :attribute field must not be greater than :max kilobytes.",
			"numeric": "The :attribute field must not be greater than :max.",
			"string":  "The :attribute field must not be greater than :max characters.",
		},
		"min": {
			"array":   "The :attribute field must have at least :min items.",
			"file":    "The :attribute field must be at least :min kilobytes.",
			"numeric": "The :attribute field must be at least :min.",
			"string":  "The :attribute field must be at least :min characters.",
		},
		"size": {
			"array":   "The :attribute field must contain :size items.",
			"file":    "The :attribute field must be :size kilobytes.",
			"numeric": "The :attribute field must be :size.",
			"string":  "The :attribute field must be :size characters.",
		},
	},
}

// sizeFamilyRules are the rules whose message depends on the field context.
var sizeFamilyRules = []string{"size", "min", "max", "between", "gt", "lt", "gte", "lte"}

// IsSizeFamilyRule reports whether name belongs to the size-comparison
// family.
func IsSizeFamilyRule(name string) bool { return containsName(sizeFamilyRules, name) }
