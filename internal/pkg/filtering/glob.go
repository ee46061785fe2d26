package filtering

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/gobwas/glob"
)

// LoadPatternsFromFile loads patterns from a file, one per line.
// Empty lines and lines starting with # are ignored.
func LoadPatternsFromFile(filename string) ([]string, error) {
	// #nosec G304 -- Path is supplied by the operator
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return patterns, nil
}

// GlobSyntax compiles shell-style patterns with gobwas/glob. Patterns match
// anywhere in the candidate, as regex patterns do:
//   - "Name:*Orc*"   -> any candidate with an Orc in its Name field
//   - "Race:{Troll,Ogre}" -> either race
//   - "Class:?arrior" -> one character wildcard
//
// The optional '#' before Name values is not inserted for glob patterns.
var GlobSyntax Syntax = globSyntax{}

type globSyntax struct{}

func (globSyntax) Name() string { return SyntaxGlob }

func (globSyntax) Normalize(pattern string) string { return pattern }

func (globSyntax) Compile(pattern string, caseSensitive bool) (Matcher, error) {
	if !caseSensitive {
		pattern = strings.ToLower(pattern)
	}
	// No separators: * spans ':' and every other character
	g, err := glob.Compile("*" + pattern + "*")
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	return &globMatcher{glob: g, caseSensitive: caseSensitive}, nil
}

type globMatcher struct {
	glob          glob.Glob
	caseSensitive bool
}

func (m *globMatcher) MatchString(s string) bool {
	if !m.caseSensitive {
		s = strings.ToLower(s)
	}
	return m.glob.Match(s)
}
