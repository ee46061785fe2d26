// Package filtering implements the filter-expression engine: a registry of
// bit-flagged categories, compiled pattern+level expressions, per-category
// collections and the filter sets that aggregate them into a category mask.
package filtering

const (
	// MaxTypes is the capacity of a TypeRegistry, one bit of a uint32 each.
	MaxTypes = 32

	// UnknownType is returned for names that are not registered.
	UnknownType uint8 = 255

	// MaxLevel is the highest representable level. An open-ended range
	// ("10-") extends up to it.
	MaxLevel uint8 = 255
)

// FilterConfig represents the YAML structure of an exported filter set
type FilterConfig struct {
	Sections []*SectionYAML `yaml:"sections" json:"sections"`
}

// SectionYAML holds the filters of one category
type SectionYAML struct {
	Name    string        `yaml:"name" json:"name"`
	Filters []*FilterYAML `yaml:"filters" json:"filters"`
}

// FilterYAML represents a filter in YAML/JSON format
type FilterYAML struct {
	Pattern  string `yaml:"pattern" json:"pattern"`
	MinLevel uint8  `yaml:"min_level,omitempty" json:"min_level,omitempty"`
	MaxLevel uint8  `yaml:"max_level,omitempty" json:"max_level,omitempty"`
}
