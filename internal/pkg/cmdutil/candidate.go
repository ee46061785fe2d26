package cmdutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/endorses/seqfilter/internal/pkg/filtering"
)

// ParseCandidateLine splits a "LEVEL<TAB>CANDIDATE" line. A line without a
// tab is a bare candidate at defaultLevel.
func ParseCandidateLine(line string, defaultLevel uint8) (string, uint8, error) {
	levelText, candidate, ok := strings.Cut(line, "\t")
	if !ok {
		return line, defaultLevel, nil
	}
	level, err := strconv.ParseUint(strings.TrimSpace(levelText), 10, 8)
	if err != nil {
		return "", 0, &filtering.ValidationError{Field: "level", Message: fmt.Sprintf("invalid level %q", levelText)}
	}
	return candidate, uint8(level), nil
}

// ParseKeyValues parses KEY=VALUE arguments.
func ParseKeyValues(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, &filtering.ValidationError{Field: "field", Message: fmt.Sprintf("expected KEY=VALUE, got %q", arg)}
		}
		values[strings.TrimSpace(key)] = value
	}
	return values, nil
}
