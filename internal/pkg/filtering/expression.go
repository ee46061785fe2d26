package filtering

import (
	"github.com/endorses/seqfilter/internal/pkg/logger"
)

// Option configures expressions, categories and filter sets.
type Option func(*options)

type options struct {
	log           logger.Sink
	syntax        Syntax
	caseSensitive bool
}

// WithLogger routes diagnostics to l instead of the default logger.
func WithLogger(l logger.Sink) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSyntax selects the pattern syntax. The default is RegexSyntax.
func WithSyntax(s Syntax) Option {
	return func(o *options) {
		if s != nil {
			o.syntax = s
		}
	}
}

// WithCaseSensitive sets the initial case sensitivity. The default is
// case-insensitive matching.
func WithCaseSensitive(caseSensitive bool) Option {
	return func(o *options) {
		o.caseSensitive = caseSensitive
	}
}

func newOptions(opts []Option) options {
	o := options{syntax: RegexSyntax}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get()
	}
	return o
}

// Expression is one compiled pattern with an optional level range.
// An expression whose pattern fails to compile never matches.
type Expression struct {
	orig          string
	pattern       string
	levels        LevelRange
	syntax        Syntax
	log           logger.Sink
	matcher       Matcher
	caseSensitive bool
	warned        bool
}

// NewExpression compiles raw, which may end in a ";range" level spec
// ("Name:.*Orc.*:;10-20"). Unparsable bounds are reported and left at 0.
func NewExpression(raw string, opts ...Option) *Expression {
	o := newOptions(opts)
	pattern, spec, _ := SplitLevelSpec(raw)
	levels, err := ParseLevelSpec(spec)
	if err != nil {
		o.log.Warn("unparsable filter level range",
			"filter", raw,
			"error", err)
	}
	return newExpression(pattern, levels.RaiseMax(), o)
}

// NewRangeExpression compiles pattern with explicit bounds. A max below min
// is raised to min.
func NewRangeExpression(pattern string, minLevel, maxLevel uint8, opts ...Option) *Expression {
	return newExpression(pattern, LevelRange{Min: minLevel, Max: maxLevel}.RaiseMax(), newOptions(opts))
}

func newExpression(pattern string, levels LevelRange, o options) *Expression {
	e := &Expression{
		orig:          pattern,
		pattern:       o.syntax.Normalize(pattern),
		levels:        levels,
		syntax:        o.syntax,
		log:           o.log,
		caseSensitive: o.caseSensitive,
	}
	e.compile()
	return e
}

func (e *Expression) compile() {
	m, err := e.syntax.Compile(e.pattern, e.caseSensitive)
	if err != nil {
		e.matcher = nil
		if !e.warned {
			e.warned = true
			e.log.Warn("invalid filter pattern",
				"pattern", e.orig,
				"syntax", e.syntax.Name(),
				"error", err)
		}
		return
	}
	e.matcher = m
}

// IsFiltered reports whether candidate matches the pattern and level
// satisfies the range.
func (e *Expression) IsFiltered(candidate string, level uint8) bool {
	if e.matcher == nil || !e.matcher.MatchString(candidate) {
		return false
	}
	return e.levels.Contains(level)
}

// Valid reports whether the pattern compiled.
func (e *Expression) Valid() bool {
	return e.matcher != nil
}

// Pattern returns the normalized pattern text that was compiled.
func (e *Expression) Pattern() string {
	return e.pattern
}

// Orig returns the pattern as written, without its level spec.
func (e *Expression) Orig() string {
	return e.orig
}

// Levels returns the normalized level range.
func (e *Expression) Levels() LevelRange {
	return e.levels
}

func (e *Expression) MinLevel() uint8 { return e.levels.Min }
func (e *Expression) MaxLevel() uint8 { return e.levels.Max }

// CaseSensitive reports the current case sensitivity.
func (e *Expression) CaseSensitive() bool {
	return e.caseSensitive
}

// SetCaseSensitive recompiles the pattern if the sensitivity changes.
func (e *Expression) SetCaseSensitive(caseSensitive bool) {
	if e.caseSensitive == caseSensitive {
		return
	}
	e.caseSensitive = caseSensitive
	e.compile()
}

// String renders the expression in flattened form, with a level spec when
// one is set.
func (e *Expression) String() string {
	if !e.levels.IsSet() {
		return e.orig
	}
	return e.orig + ";" + e.levels.String()
}
