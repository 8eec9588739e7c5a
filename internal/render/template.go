package render

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Language identifies the syntax of a generated file. It controls how typed
// field values are spelled as literals, notably booleans.
type Language string

const (
	LangShell  Language = "shell"
	LangPython Language = "python"
	LangINI    Language = "ini"
)

// Template is a named output document with placeholder tokens of the form
// {{field}}. Rendering validates every token against the field schema before
// producing output.
type Template struct {
	Name       string
	Language   Language
	OutputFile string
	Mode       os.FileMode
	Body       string
}

// Fields is the value schema a template is rendered against. Supported value
// types are string, bool, int and []string.
type Fields map[string]interface{}

// Merge returns a copy of the fields with extra entries added. Extra entries
// win on key collision.
func (f Fields) Merge(extra Fields) Fields {
	merged := make(Fields, len(f)+len(extra))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// TemplateError reports a placeholder that has no corresponding field.
// It is fatal: a template referencing unknown fields must never produce
// a half-substituted artifact.
type TemplateError struct {
	Template    string
	Placeholder string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s references unknown placeholder '%s'", e.Template, e.Placeholder)
}

var placeholderPattern = regexp.MustCompile(`\{\{([a-z0-9_]+)\}\}`)

// RenderTemplate substitutes every placeholder in the template body with the
// corresponding field value formatted for the template's language. All
// placeholders are validated before any substitution happens.
func RenderTemplate(tmpl Template, fields Fields) (string, error) {
	for _, match := range placeholderPattern.FindAllStringSubmatch(tmpl.Body, -1) {
		name := match[1]
		if _, ok := fields[name]; !ok {
			return "", &TemplateError{Template: tmpl.Name, Placeholder: name}
		}
		if _, err := formatValue(fields[name], tmpl.Language); err != nil {
			return "", fmt.Errorf("template %s field '%s': %w", tmpl.Name, name, err)
		}
	}

	result := placeholderPattern.ReplaceAllStringFunc(tmpl.Body, func(token string) string {
		name := placeholderPattern.FindStringSubmatch(token)[1]
		literal, _ := formatValue(fields[name], tmpl.Language)
		return literal
	})

	return result, nil
}

// formatValue renders a field value as a literal in the target language
func formatValue(value interface{}, lang Language) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		if lang == LangPython {
			if v {
				return "True", nil
			}
			return "False", nil
		}
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case []string:
		return strings.Join(v, " "), nil
	default:
		return "", fmt.Errorf("unsupported field type %T", value)
	}
}
