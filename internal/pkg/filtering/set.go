package filtering

// FilterSet holds the categories of one filter file, keyed by type index
// so that iteration is in ascending mask order.
type FilterSet struct {
	registry   *TypeRegistry
	categories [MaxTypes]*Category
	path       string
	opts       options
}

// NewFilterSet returns an empty set bound to registry and associated with
// path (which may be empty for sets that are never persisted).
func NewFilterSet(registry *TypeRegistry, path string, opts ...Option) *FilterSet {
	return &FilterSet{
		registry: registry,
		path:     path,
		opts:     newOptions(opts),
	}
}

// Registry returns the registry the set resolves category names with.
func (s *FilterSet) Registry() *TypeRegistry {
	return s.registry
}

// Path returns the file the set was created for or last loaded from.
func (s *FilterSet) Path() string {
	return s.path
}

// SetPath changes the associated file.
func (s *FilterSet) SetPath(path string) {
	s.path = path
}

// Clear drops every category.
func (s *FilterSet) Clear() {
	s.categories = [MaxTypes]*Category{}
}

func (s *FilterSet) category(t uint8) *Category {
	if s.categories[t] == nil {
		s.categories[t] = newCategory(s.opts)
	}
	return s.categories[t]
}

// Category returns the category for type t, or nil if none was created.
func (s *FilterSet) Category(t uint8) *Category {
	if t >= MaxTypes {
		return nil
	}
	return s.categories[t]
}

func (s *FilterSet) checkType(t uint8, op string) bool {
	if t < MaxTypes && s.registry.ValidMask(uint32(1)<<t) {
		return true
	}
	s.opts.log.Warn("filter type not registered",
		"operation", op,
		"type", t)
	return false
}

// AddFilter adds raw (with optional ";range") to type t. It returns false if
// t is not registered, the pattern is a duplicate, or it fails to compile.
func (s *FilterSet) AddFilter(t uint8, raw string) bool {
	if !s.checkType(t, "add") {
		return false
	}
	return s.category(t).AddFilter(raw)
}

// AddRangeFilter adds pattern with explicit bounds to type t.
func (s *FilterSet) AddRangeFilter(t uint8, pattern string, minLevel, maxLevel uint8) bool {
	if !s.checkType(t, "add") {
		return false
	}
	return s.category(t).AddRangeFilter(pattern, minLevel, maxLevel)
}

// RemFilter removes pattern from type t and reports whether it was present.
func (s *FilterSet) RemFilter(t uint8, pattern string) bool {
	if !s.checkType(t, "remove") {
		return false
	}
	c := s.categories[t]
	if c == nil {
		return false
	}
	return c.RemFilter(pattern)
}

// IsFiltered reports whether candidate matches type t.
func (s *FilterSet) IsFiltered(t uint8, candidate string, level uint8) bool {
	c := s.Category(t)
	return c != nil && c.IsFiltered(candidate, level)
}

// FilterMask returns the OR of the masks of every category that matches.
func (s *FilterSet) FilterMask(candidate string, level uint8) uint32 {
	var mask uint32
	for t, c := range s.categories {
		if c != nil && c.IsFiltered(candidate, level) {
			mask |= uint32(1) << t
		}
	}
	return mask
}

// CaseSensitive reports the set-wide case sensitivity.
func (s *FilterSet) CaseSensitive() bool {
	return s.opts.caseSensitive
}

// SetCaseSensitive switches every category, and the ones created later.
func (s *FilterSet) SetCaseSensitive(caseSensitive bool) {
	s.opts.caseSensitive = caseSensitive
	for _, c := range s.categories {
		if c != nil {
			c.SetCaseSensitive(caseSensitive)
		}
	}
}

// Len returns the total number of expressions across categories.
func (s *FilterSet) Len() int {
	n := 0
	for _, c := range s.categories {
		if c != nil {
			n += c.Len()
		}
	}
	return n
}

// NumFilters returns the number of expressions for type t.
func (s *FilterSet) NumFilters(t uint8) int {
	c := s.Category(t)
	if c == nil {
		return 0
	}
	return c.Len()
}

func (s *FilterSet) expression(t uint8, i int) *Expression {
	c := s.Category(t)
	if c == nil {
		return nil
	}
	return c.Expression(i)
}

// FilterString returns the normalized pattern of the i-th expression of
// type t, or "" when out of range.
func (s *FilterSet) FilterString(t uint8, i int) string {
	if e := s.expression(t, i); e != nil {
		return e.Pattern()
	}
	return ""
}

// OrigFilterString returns the pattern as written, or "" when out of range.
func (s *FilterSet) OrigFilterString(t uint8, i int) string {
	if e := s.expression(t, i); e != nil {
		return e.Orig()
	}
	return ""
}

// MinLevel returns the lower bound of the i-th expression of type t, or -1.
func (s *FilterSet) MinLevel(t uint8, i int) int {
	if e := s.expression(t, i); e != nil {
		return int(e.MinLevel())
	}
	return -1
}

// MaxLevel returns the upper bound of the i-th expression of type t, or -1.
func (s *FilterSet) MaxLevel(t uint8, i int) int {
	if e := s.expression(t, i); e != nil {
		return int(e.MaxLevel())
	}
	return -1
}
