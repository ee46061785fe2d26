package filtering

// Category is the ordered rule set for one filter type. A candidate is
// filtered when any of its expressions matches.
type Category struct {
	exprs []*Expression
	opts  options
}

// NewCategory returns an empty category.
func NewCategory(opts ...Option) *Category {
	return &Category{opts: newOptions(opts)}
}

func newCategory(o options) *Category {
	return &Category{opts: o}
}

// AddFilter compiles raw (with optional ";range") and appends it. It
// returns false without adding when an expression with the same normalized
// pattern exists, otherwise whether the new expression is valid.
func (c *Category) AddFilter(raw string) bool {
	pattern, _, _ := SplitLevelSpec(raw)
	if c.indexOf(c.opts.syntax.Normalize(pattern)) >= 0 {
		return false
	}
	return c.add(NewExpression(raw, c.exprOptions()...))
}

// AddRangeFilter is AddFilter with explicit bounds.
func (c *Category) AddRangeFilter(pattern string, minLevel, maxLevel uint8) bool {
	if c.indexOf(c.opts.syntax.Normalize(pattern)) >= 0 {
		return false
	}
	return c.add(NewRangeExpression(pattern, minLevel, maxLevel, c.exprOptions()...))
}

func (c *Category) add(e *Expression) bool {
	c.exprs = append(c.exprs, e)
	return e.Valid()
}

// RemFilter removes the first expression whose normalized pattern equals
// pattern, or equals pattern once normalized. It reports whether one was
// removed.
func (c *Category) RemFilter(pattern string) bool {
	i := c.indexOf(pattern)
	if i < 0 {
		bare, _, _ := SplitLevelSpec(pattern)
		i = c.indexOf(c.opts.syntax.Normalize(bare))
	}
	if i < 0 {
		return false
	}
	c.exprs = append(c.exprs[:i], c.exprs[i+1:]...)
	return true
}

func (c *Category) indexOf(pattern string) int {
	for i, e := range c.exprs {
		if e.Pattern() == pattern {
			return i
		}
	}
	return -1
}

// IsFiltered reports whether any expression matches, in insertion order.
func (c *Category) IsFiltered(candidate string, level uint8) bool {
	for _, e := range c.exprs {
		if e.IsFiltered(candidate, level) {
			return true
		}
	}
	return false
}

// CaseSensitive reports the category-wide case sensitivity.
func (c *Category) CaseSensitive() bool {
	return c.opts.caseSensitive
}

// SetCaseSensitive switches every expression in the category.
func (c *Category) SetCaseSensitive(caseSensitive bool) {
	c.opts.caseSensitive = caseSensitive
	for _, e := range c.exprs {
		e.SetCaseSensitive(caseSensitive)
	}
}

// Len returns the number of expressions.
func (c *Category) Len() int {
	return len(c.exprs)
}

// Expression returns the i-th expression, or nil when out of range.
func (c *Category) Expression(i int) *Expression {
	if i < 0 || i >= len(c.exprs) {
		return nil
	}
	return c.exprs[i]
}

// Expressions returns the expressions in insertion order.
func (c *Category) Expressions() []*Expression {
	out := make([]*Expression, len(c.exprs))
	copy(out, c.exprs)
	return out
}

func (c *Category) exprOptions() []Option {
	return []Option{
		WithLogger(c.opts.log),
		WithSyntax(c.opts.syntax),
		WithCaseSensitive(c.opts.caseSensitive),
	}
}
