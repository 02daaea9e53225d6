package zodkit

import "testing"

func TestFieldTagValue(t *testing.T) {
	tests := []struct {
		tag  string
		key  string
		want string
	}{
		{`json:"name"`, "json", "name"},
		{`json:"name" validate:"required|max:10"`, "validate", "required|max:10"},
		{`json:"name,omitempty" validate:"required"`, "json", "name,omitempty"},
		{`json:"-"`, "json", "-"},
		{`json:"name"`, "validate", ""},
		{``, "json", ""},
		{`validate:"regex:/^[a-z]+$/"`, "validate", "regex:/^[a-z]+$/"},
	}
	for _, tt := range tests {
		f := &Field{Tag: tt.tag}
		if got := f.TagValue(tt.key); got != tt.want {
			t.Errorf("TagValue(%q) on %q = %q, want %q", tt.key, tt.tag, got, tt.want)
		}
	}
}
