package filtering

import (
	"fmt"
	"strings"
)

// ValidationError represents a filter validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateTypeName checks that name can be registered and written as an
// XML section name and as one element of a Names() list.
func ValidateTypeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "type", Message: "filter type name is required"}
	}
	if strings.ContainsAny(name, ":\"<>&") {
		return &ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("filter type name %q must not contain ':', '\"', '<', '>' or '&'", name),
		}
	}
	return nil
}

// ValidateFilter checks a raw filter (pattern with optional ";range")
// without adding it anywhere: the level spec must parse and the pattern must
// compile under syntax.
func ValidateFilter(syntax Syntax, raw string) error {
	pattern, spec, _ := SplitLevelSpec(raw)
	if strings.TrimSpace(pattern) == "" {
		return &ValidationError{Field: "pattern", Message: "pattern cannot be empty"}
	}
	if _, err := ParseLevelSpec(spec); err != nil {
		return &ValidationError{Field: "level", Message: err.Error()}
	}
	return validatePattern(syntax, pattern)
}

func validatePattern(syntax Syntax, pattern string) error {
	if syntax == nil {
		syntax = RegexSyntax
	}
	if _, err := syntax.Compile(syntax.Normalize(pattern), false); err != nil {
		return &ValidationError{Field: "pattern", Message: err.Error()}
	}
	return nil
}

// ValidateFilterYAML validates an exported filter entry
func ValidateFilterYAML(syntax Syntax, filter *FilterYAML) error {
	if filter.Pattern == "" {
		return &ValidationError{Field: "pattern", Message: "filter pattern is required"}
	}
	if filter.MaxLevel != 0 && filter.MaxLevel < filter.MinLevel {
		return &ValidationError{
			Field:   "max_level",
			Message: fmt.Sprintf("max_level %d is below min_level %d", filter.MaxLevel, filter.MinLevel),
		}
	}
	return validatePattern(syntax, filter.Pattern)
}
