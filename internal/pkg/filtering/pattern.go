package filtering

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher reports whether a compiled pattern is found anywhere in s.
// *regexp.Regexp satisfies it.
type Matcher interface {
	MatchString(s string) bool
}

// Syntax is the pattern-matching capability injected into expressions:
// it rewrites raw pattern text and compiles it with case-sensitivity control.
type Syntax interface {
	// Name identifies the syntax in configuration ("regex", "glob").
	Name() string
	// Normalize applies domain rewrites to raw pattern text before compiling.
	// The result is the expression's identity within a category.
	Normalize(pattern string) string
	// Compile builds an unanchored matcher for a normalized pattern.
	Compile(pattern string, caseSensitive bool) (Matcher, error)
}

const (
	SyntaxRegex = "regex"
	SyntaxGlob  = "glob"
)

// RegexSyntax compiles patterns with the standard regexp package.
var RegexSyntax Syntax = regexSyntax{}

// SyntaxByName returns the syntax registered under name. An empty name
// selects RegexSyntax.
func SyntaxByName(name string) (Syntax, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SyntaxRegex:
		return RegexSyntax, nil
	case SyntaxGlob:
		return GlobSyntax, nil
	default:
		return nil, &ValidationError{Field: "syntax", Message: fmt.Sprintf("unknown pattern syntax: %s", name)}
	}
}

// nameField finds the Name field label so a leading '#' in the value,
// used to tell apart entities sharing a name, is optional in matches.
var nameField = regexp.MustCompile(`(?i)name:`)

type regexSyntax struct{}

func (regexSyntax) Name() string { return SyntaxRegex }

func (regexSyntax) Normalize(pattern string) string {
	return nameField.ReplaceAllString(pattern, "${0}#?")
}

func (regexSyntax) Compile(pattern string, caseSensitive bool) (Matcher, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return re, nil
}
