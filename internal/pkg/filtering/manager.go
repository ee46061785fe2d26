package filtering

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/endorses/seqfilter/internal/pkg/constants"
	"github.com/endorses/seqfilter/internal/pkg/logger"
)

// Scope selects one of the filter sets a Manager combines.
type Scope int

const (
	// ScopeGlobal filters apply everywhere and live in the global file.
	ScopeGlobal Scope = iota
	// ScopeZone filters apply to the current zone and live in its file.
	ScopeZone
	// ScopeRuntime filters are never persisted.
	ScopeRuntime

	numScopes
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeZone:
		return "zone"
	case ScopeRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// ParseScope converts a scope name to a Scope.
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "global":
		return ScopeGlobal, nil
	case "zone":
		return ScopeZone, nil
	case "runtime":
		return ScopeRuntime, nil
	default:
		return 0, &ValidationError{Field: "scope", Message: fmt.Sprintf("unknown filter scope: %s", name)}
	}
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Dir holds the global and zone filter files.
	Dir string
	// GlobalFile overrides constants.GlobalFilterFile.
	GlobalFile    string
	CaseSensitive bool
	// Syntax defaults to RegexSyntax.
	Syntax Syntax
	// Logger defaults to logger.Get().
	Logger logger.Sink
}

// Manager combines the global, zone and runtime filter sets over one type
// registry seeded with constants.DefaultFilterTypes.
type Manager struct {
	config   ManagerConfig
	registry *TypeRegistry
	sets     [numScopes]*FilterSet
	zone     string
}

// NewManager creates a manager with empty sets and the default types
// registered. Nothing is loaded.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.GlobalFile == "" {
		config.GlobalFile = constants.GlobalFilterFile
	}
	if config.Syntax == nil {
		config.Syntax = RegexSyntax
	}
	if config.Logger == nil {
		config.Logger = logger.Get()
	}

	m := &Manager{
		config:   config,
		registry: NewTypeRegistry(),
	}
	for _, name := range constants.DefaultFilterTypes {
		if _, _, err := m.registry.RegisterType(name); err != nil {
			return nil, fmt.Errorf("failed to register filter type %s: %w", name, err)
		}
	}

	opts := []Option{
		WithLogger(config.Logger),
		WithSyntax(config.Syntax),
		WithCaseSensitive(config.CaseSensitive),
	}
	m.sets[ScopeGlobal] = NewFilterSet(m.registry, m.GlobalPath(), opts...)
	m.sets[ScopeZone] = NewFilterSet(m.registry, "", opts...)
	m.sets[ScopeRuntime] = NewFilterSet(m.registry, "", opts...)
	return m, nil
}

// Registry returns the shared type registry.
func (m *Manager) Registry() *TypeRegistry {
	return m.registry
}

// Set returns the filter set for scope, or nil for an unknown scope.
func (m *Manager) Set(scope Scope) *FilterSet {
	if scope < 0 || scope >= numScopes {
		return nil
	}
	return m.sets[scope]
}

// Syntax returns the pattern syntax every set compiles with.
func (m *Manager) Syntax() Syntax {
	return m.config.Syntax
}

// Zone returns the zone whose filters are loaded, or "".
func (m *Manager) Zone() string {
	return m.zone
}

// GlobalPath returns the global filter file.
func (m *Manager) GlobalPath() string {
	return filepath.Join(m.config.Dir, m.config.GlobalFile)
}

// ZonePath returns the filter file for zone.
func (m *Manager) ZonePath(zone string) string {
	return filepath.Join(m.config.Dir, strings.ToLower(zone)+constants.ZoneFilterExt)
}

// RegisterType validates name and registers it.
func (m *Manager) RegisterType(name string) (uint8, error) {
	if err := ValidateTypeName(name); err != nil {
		return UnknownType, err
	}
	t, _, err := m.registry.RegisterType(name)
	return t, err
}

// Load loads the global filters and, when zone is not empty, the zone's.
func (m *Manager) Load(zone string) error {
	if err := m.LoadGlobal(); err != nil {
		return err
	}
	if zone == "" {
		return nil
	}
	return m.LoadZone(zone)
}

// LoadGlobal reloads the global filter file.
func (m *Manager) LoadGlobal() error {
	return m.sets[ScopeGlobal].Load(m.GlobalPath())
}

// LoadZone switches the zone set to zone and loads its file.
func (m *Manager) LoadZone(zone string) error {
	if err := validateZone(zone); err != nil {
		return err
	}
	m.zone = zone
	return m.sets[ScopeZone].Load(m.ZonePath(zone))
}

// SaveGlobal writes the global filter file.
func (m *Manager) SaveGlobal() error {
	return m.sets[ScopeGlobal].Save(m.GlobalPath())
}

// SaveZone writes the current zone's filter file.
func (m *Manager) SaveZone() error {
	if m.zone == "" {
		return &ValidationError{Field: "zone", Message: "no zone loaded"}
	}
	return m.sets[ScopeZone].Save(m.ZonePath(m.zone))
}

// Save writes the file backing scope. Runtime filters are not persisted.
func (m *Manager) Save(scope Scope) error {
	switch scope {
	case ScopeGlobal:
		return m.SaveGlobal()
	case ScopeZone:
		return m.SaveZone()
	default:
		return nil
	}
}

func (m *Manager) lookup(scope Scope, typeName string) (*FilterSet, uint8, error) {
	set := m.Set(scope)
	if set == nil {
		return nil, 0, &ValidationError{Field: "scope", Message: fmt.Sprintf("unknown filter scope: %d", int(scope))}
	}
	if scope == ScopeZone && m.zone == "" {
		return nil, 0, &ValidationError{Field: "zone", Message: "no zone loaded"}
	}
	t := m.registry.Type(typeName)
	if t == UnknownType {
		return nil, 0, &ValidationError{Field: "type", Message: fmt.Sprintf("unknown filter type: %s", typeName)}
	}
	return set, t, nil
}

// AddFilter adds raw to the typeName category of scope. The bool is false
// for duplicates and patterns that do not compile.
func (m *Manager) AddFilter(scope Scope, typeName, raw string) (bool, error) {
	set, t, err := m.lookup(scope, typeName)
	if err != nil {
		return false, err
	}
	return set.AddFilter(t, raw), nil
}

// RemFilter removes pattern from the typeName category of scope.
func (m *Manager) RemFilter(scope Scope, typeName, pattern string) (bool, error) {
	set, t, err := m.lookup(scope, typeName)
	if err != nil {
		return false, err
	}
	return set.RemFilter(t, pattern), nil
}

// FilterMask ORs the masks of the global, zone and runtime sets.
func (m *Manager) FilterMask(candidate string, level uint8) uint32 {
	var mask uint32
	for _, set := range m.sets {
		mask |= set.FilterMask(candidate, level)
	}
	return mask
}

// FilterNames returns the registered names in mask, colon terminated.
func (m *Manager) FilterNames(mask uint32) string {
	return m.registry.Names(mask)
}

// SetCaseSensitive switches every set.
func (m *Manager) SetCaseSensitive(caseSensitive bool) {
	m.config.CaseSensitive = caseSensitive
	for _, set := range m.sets {
		set.SetCaseSensitive(caseSensitive)
	}
}

func validateZone(zone string) error {
	if strings.TrimSpace(zone) == "" {
		return &ValidationError{Field: "zone", Message: "zone name is required"}
	}
	if strings.ContainsAny(zone, `/\`) || zone == "." || zone == ".." {
		return &ValidationError{Field: "zone", Message: fmt.Sprintf("invalid zone name: %s", zone)}
	}
	return nil
}
