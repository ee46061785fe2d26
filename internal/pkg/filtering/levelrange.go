package filtering

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LevelRange is an inclusive level band. Both bounds 0 means unrestricted;
// equal bounds mean an exact level.
type LevelRange struct {
	Min uint8
	Max uint8
}

// IsSet reports whether the range restricts levels at all.
func (r LevelRange) IsSet() bool {
	return r.Min != 0 || r.Max != 0
}

// Contains applies the range to level.
func (r LevelRange) Contains(level uint8) bool {
	switch {
	case !r.IsSet():
		return true
	case r.Min == r.Max:
		return level == r.Min
	default:
		return r.Min <= level && level <= r.Max
	}
}

// RaiseMax lifts Max to Min when the bounds are reversed.
func (r LevelRange) RaiseMax() LevelRange {
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}

// Ordered swaps reversed bounds.
func (r LevelRange) Ordered() LevelRange {
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// String renders the range in level-spec form ("5-10").
func (r LevelRange) String() string {
	return strconv.Itoa(int(r.Min)) + "-" + strconv.Itoa(int(r.Max))
}

// SplitLevelSpec splits raw at its last ';' into the pattern and the level
// spec. ok is false when raw carries no ';'.
func SplitLevelSpec(raw string) (pattern, spec string, ok bool) {
	idx := strings.LastIndexByte(raw, ';')
	if idx < 0 {
		return raw, "", false
	}
	return raw[:idx], raw[idx+1:], true
}

// ParseLevelSpec parses "N", "N-M", "N-" or "-M". Bounds that fail to parse
// keep their default and are reported in the returned error; the range is
// always usable. Reversed bounds are returned as written.
func ParseLevelSpec(spec string) (LevelRange, error) {
	var r LevelRange
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return r, nil
	}

	before, after, hasDash := strings.Cut(spec, "-")
	if !hasDash {
		v, err := parseLevel(spec)
		if err != nil {
			return r, fmt.Errorf("invalid level %q: %w", spec, err)
		}
		return LevelRange{Min: v, Max: v}, nil
	}

	var errs []error
	before = strings.TrimSpace(before)
	after = strings.TrimSpace(after)

	if before != "" {
		v, err := parseLevel(before)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid minimum level %q: %w", before, err))
		} else {
			r.Min = v
		}
	}

	if after == "" {
		r.Max = MaxLevel
	} else {
		v, err := parseLevel(after)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid maximum level %q: %w", after, err))
		} else {
			r.Max = v
		}
	}

	return r, errors.Join(errs...)
}

func parseLevel(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}
