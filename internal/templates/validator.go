package templates

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxServiceNameLength bounds service names so they stay usable as directory,
// package, and container names.
const MaxServiceNameLength = 64

var serviceNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Validation is the outcome of checking a service name.
type Validation struct {
	Valid      bool
	Error      string
	Suggestion string
}

// ValidateServiceName checks that name is lowercase kebab-case, starts with a
// letter, and does not collide with a Python keyword once converted to a
// package name. Invalid names carry a suggestion when one can be derived.
func ValidateServiceName(name string) Validation {
	if name == "" {
		return Validation{Error: "service name cannot be empty"}
	}

	if len(name) > MaxServiceNameLength {
		return Validation{
			Error:      fmt.Sprintf("service name must be at most %d characters", MaxServiceNameLength),
			Suggestion: suggest(name[:MaxServiceNameLength], name),
		}
	}

	if !serviceNameRegex.MatchString(name) {
		return Validation{
			Error:      fmt.Sprintf("invalid service name %q: use lowercase letters, digits and single hyphens, starting with a letter", name),
			Suggestion: suggest(name, name),
		}
	}

	if isReservedWord(SanitizeName(name)) {
		return Validation{
			Error:      fmt.Sprintf("invalid service name %q: %q is a reserved word in Python", name, SanitizeName(name)),
			Suggestion: name + "-service",
		}
	}

	return Validation{Valid: true}
}

// suggest normalizes raw into a valid name, or returns "" when nothing
// usable remains or the result equals the original.
func suggest(raw, original string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.':
			b.WriteByte('-')
		}
	}

	s := b.String()
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.TrimLeft(s, "-0123456789")
	s = strings.TrimRight(s, "-")

	if s == "" || s == original || !serviceNameRegex.MatchString(s) {
		return ""
	}
	if isReservedWord(SanitizeName(s)) {
		s += "-service"
	}
	return s
}

// SanitizeName converts a service name to a valid Python package name.
func SanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			result = append(result, c+('a'-'A'))
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_':
			result = append(result, c)
		case c == '-' || c == '.' || c == ' ':
			result = append(result, '_')
		}
	}

	// Python identifiers cannot start with a digit
	if len(result) > 0 && result[0] >= '0' && result[0] <= '9' {
		result = append([]byte{'_'}, result...)
	}

	if len(result) == 0 {
		return "service"
	}

	return string(result)
}

// isReservedWord checks if a name is a Python keyword.
func isReservedWord(name string) bool {
	reserved := map[string]bool{
		"and":      true,
		"as":       true,
		"assert":   true,
		"async":    true,
		"await":    true,
		"break":    true,
		"class":    true,
		"continue": true,
		"def":      true,
		"del":      true,
		"elif":     true,
		"else":     true,
		"except":   true,
		"finally":  true,
		"for":      true,
		"from":     true,
		"global":   true,
		"if":       true,
		"import":   true,
		"in":       true,
		"is":       true,
		"lambda":   true,
		"nonlocal": true,
		"not":      true,
		"or":       true,
		"pass":     true,
		"raise":    true,
		"return":   true,
		"try":      true,
		"while":    true,
		"with":     true,
		"yield":    true,
	}
	return reserved[name]
}
