// Package fieldmap converts between the flattened filter grammar
// ("Name:Bob:Level:10:;5-10") and a structured map of field values used
// when filters are edited field by field.
package fieldmap

import (
	"slices"
	"strings"
)

// Out-of-band keys carrying the level range.
const (
	KeyMinLevel = "MinLevel"
	KeyMaxLevel = "MaxLevel"
)

const (
	FieldName  = "Name"
	FieldInfo  = "Info"
	FieldSpawn = "Spawn"

	// InfoPrefix namespaces Info sub-fields in a FieldMap ("Info.H").
	InfoPrefix = "Info."

	// wildcard marks one or more skipped fields.
	wildcard = ".*"
	// infoGap separates two Info sub-fields with skipped ones between them.
	infoGap = "( | .* )"
)

// Fields is the fixed order primary fields are encoded in.
var Fields = []string{
	"Name", "Level", "Race", "Class", "NPC", "X", "Y", "Z", "Light", "Deity",
	"RTeam", "DTeam", "Type", "LastName", "Guild", "Spawn", "Info", "GM",
}

// InfoFields is the fixed order of the sub-fields of the Info composite.
var InfoFields = []string{"Light", "H", "C", "A", "W", "G", "L", "F", "1", "2"}

// InfoFieldLabels names the equipment slots behind the Info abbreviations.
var InfoFieldLabels = map[string]string{
	"Light": "Light",
	"H":     "Head",
	"C":     "Chest",
	"A":     "Arms",
	"W":     "Waist",
	"G":     "Gloves",
	"L":     "Legs",
	"F":     "Feet",
	"1":     "Primary",
	"2":     "Secondary",
}

var (
	fieldSet     = toSet(Fields)
	infoFieldSet = toSet(InfoFields)
)

func toSet(names []string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// IsField reports whether name is a primary field.
func IsField(name string) bool {
	_, ok := fieldSet[name]
	return ok
}

// IsInfoField reports whether name is an Info sub-field.
func IsInfoField(name string) bool {
	_, ok := infoFieldSet[name]
	return ok
}

// IsKey reports whether key is a FieldMap key the codec encodes.
func IsKey(key string) bool {
	if key == KeyMinLevel || key == KeyMaxLevel {
		return true
	}
	if sub, ok := strings.CutPrefix(key, InfoPrefix); ok {
		return IsInfoField(sub)
	}
	return IsField(key) && key != FieldInfo
}

// InfoKey returns the FieldMap key of an Info sub-field.
func InfoKey(sub string) string {
	return InfoPrefix + sub
}

// FieldMap is the structured view of one flattened filter string.
type FieldMap map[string]string

// Get returns the trimmed value of key.
func (m FieldMap) Get(key string) string {
	return strings.TrimSpace(m[key])
}

// Keys returns the keys present in m in encoding order. Info sub-fields take
// the place of Info, the level keys follow, and any other keys come last,
// sorted.
func (m FieldMap) Keys() []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]struct{}, len(m))
	add := func(k string) {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	for _, f := range Fields {
		if f == FieldInfo {
			for _, sub := range InfoFields {
				add(InfoKey(sub))
			}
			continue
		}
		add(f)
	}
	add(KeyMinLevel)
	add(KeyMaxLevel)

	var rest []string
	for k := range m {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}
