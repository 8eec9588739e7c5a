package diag

import "regexp"

// Redactor strips credential-looking values from collected text before
// it lands in a package that might be attached to a public issue.
type Redactor struct {
	patterns []redactionPattern
}

type redactionPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a redactor with common secret patterns
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []redactionPattern{
			// YAML-style secrets
			{
				regex:       regexp.MustCompile(`(?i)(api[_-]?key|token|secret|password):\s*(.+)`),
				replacement: `$1: [REDACTED]`,
			},
			// Credentials embedded in repository URLs
			{
				regex:       regexp.MustCompile(`(?i)(https?|ssh)://([^:/@\s]+):([^@\s]+)@`),
				replacement: `$1://$2:[REDACTED]@`,
			},
			// Exported environment secrets in shell artifacts
			{
				regex:       regexp.MustCompile(`(?i)export\s+([A-Z_]*(?:KEY|TOKEN|SECRET|PASSWORD)[A-Z_]*)\s*=\s*["']?([^"'\s]+)["']?`),
				replacement: `export $1=[REDACTED]`,
			},
		},
	}
}

// Redact applies all redaction patterns to the input text
func (r *Redactor) Redact(input string) string {
	result := input
	for _, pattern := range r.patterns {
		result = pattern.regex.ReplaceAllString(result, pattern.replacement)
	}
	return result
}
