package zodkit

import (
	"fmt"
	"regexp"
	"strings"
)

// DiagnosticSeverity represents the severity of a diagnostic.
type DiagnosticSeverity string

const (
	DiagnosticError   DiagnosticSeverity = "error"
	DiagnosticWarning DiagnosticSeverity = "warning"
	DiagnosticInfo    DiagnosticSeverity = "info"
)

// Diagnostic represents a single error or warning attributed to a schema
// class and field. Used for reporting broken declarations to the CLI and,
// via --json, to IDE integrations.
type Diagnostic struct {
	Severity DiagnosticSeverity `json:"severity"`
	Message  string             `json:"message"`
	Class    string             `json:"class,omitempty"`
	Field    string             `json:"field,omitempty"`
	File     string             `json:"file,omitempty"`
	Line     int                `json:"line,omitempty"`
	Code     string             `json:"code,omitempty"` // e.g., "E001"
}

// DryRunResult contains the result of a dry-run execution.
type DryRunResult struct {
	Success     bool              `json:"success"`
	Files       map[string]string `json:"files,omitempty"` // filename -> content preview
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
	Stats       DryRunStats       `json:"stats"`
}

// DryRunStats contains statistics from a dry-run execution.
type DryRunStats struct {
	ClassesLoaded  int `json:"classesLoaded"`
	FilesGenerated int `json:"filesGenerated"`
	ErrorCount     int `json:"errorCount"`
	WarningCount   int `json:"warningCount"`
}

// AddDiagnostic adds a diagnostic to the result and updates stats.
func (r *DryRunResult) AddDiagnostic(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case DiagnosticError:
		r.Stats.ErrorCount++
		r.Success = false
	case DiagnosticWarning:
		r.Stats.WarningCount++
	}
}

// DiagnosticCollector accumulates diagnostics during a generation run.
type DiagnosticCollector struct {
	diagnostics []Diagnostic
}

// NewDiagnosticCollector creates a new collector.
func NewDiagnosticCollector() *DiagnosticCollector {
	return &DiagnosticCollector{}
}

// Errorf adds an error diagnostic with a formatted message.
func (c *DiagnosticCollector) Errorf(code, class, field, format string, args ...any) *DiagnosticCollector {
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: DiagnosticError,
		Message:  fmt.Sprintf(format, args...),
		Class:    class,
		Field:    field,
		Code:     code,
	})
	return c
}

// Warningf adds a warning diagnostic with a formatted message.
func (c *DiagnosticCollector) Warningf(code, class, field, format string, args ...any) *DiagnosticCollector {
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: DiagnosticWarning,
		Message:  fmt.Sprintf(format, args...),
		Class:    class,
		Field:    field,
		Code:     code,
	})
	return c
}

// Collect returns all collected diagnostics.
func (c *DiagnosticCollector) Collect() []Diagnostic {
	return c.diagnostics
}

// HasErrors returns true if any error diagnostics were collected.
func (c *DiagnosticCollector) HasErrors() bool {
	for _, d := range c.diagnostics {
		if d.Severity == DiagnosticError {
			return true
		}
	}
	return false
}

// Annotation represents a parsed annotation from a doc comment.
// Annotations follow the format: zodgen:@name or zodgen:@name(arg1, arg2).
// Example: zodgen:@message(required, "A name is required.")
type Annotation struct {
	Name string   // annotation name (e.g., "schema", "message")
	Args []string // positional args, quotes stripped
	Raw  string
}

// Arg returns the i-th positional arg or empty string.
func (a *Annotation) Arg(i int) string {
	if i < len(a.Args) {
		return a.Args[i]
	}
	return ""
}

var annotationRe = regexp.MustCompile(`zodgen:@(\w+)(?:\(([^)]*)\))?`)

// ParseAnnotations extracts zodgen annotations from a doc comment.
func ParseAnnotations(doc string) []*Annotation {
	var annotations []*Annotation
	for _, match := range annotationRe.FindAllStringSubmatch(doc, -1) {
		ann := &Annotation{
			Name: match[1],
			Raw:  match[0],
		}
		if len(match) > 2 && match[2] != "" {
			for _, arg := range splitArgs(match[2]) {
				arg = strings.TrimSpace(arg)
				if arg == "" {
					continue
				}
				ann.Args = append(ann.Args, strings.Trim(arg, `"'`))
			}
		}
		annotations = append(annotations, ann)
	}
	return annotations
}

// splitArgs splits on commas outside quotes, so message texts may contain
// commas.
func splitArgs(s string) []string {
	var args []string
	var sb strings.Builder
	var quote rune
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			sb.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			sb.WriteRune(r)
		case r == ',':
			args = append(args, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	args = append(args, sb.String())
	return args
}

// HasAnnotation checks if doc contains a specific annotation.
func HasAnnotation(doc, name string) bool {
	return GetAnnotation(doc, name) != nil
}

// GetAnnotation returns the first annotation with the given name.
func GetAnnotation(doc, name string) *Annotation {
	for _, ann := range ParseAnnotations(doc) {
		if ann.Name == name {
			return ann
		}
	}
	return nil
}

// GetAnnotations returns every annotation with the given name.
func GetAnnotations(doc, name string) []*Annotation {
	var out []*Annotation
	for _, ann := range ParseAnnotations(doc) {
		if ann.Name == name {
			out = append(out, ann)
		}
	}
	return out
}
