package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Solarized accents
var (
	colorBase01 = lipgloss.Color("#586e75")
	colorYellow = lipgloss.Color("#b58900")
	colorOrange = lipgloss.Color("#cb4b16")
	colorBlue   = lipgloss.Color("#268bd2")
	colorCyan   = lipgloss.Color("#2aa198")
	colorGreen  = lipgloss.Color("#859900")
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	typeStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	patternStyle = lipgloss.NewStyle().Foreground(colorCyan)
	levelStyle   = lipgloss.NewStyle().Foreground(colorBase01)
	matchStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(colorOrange)
)

// FilterRow is one filter as shown by list commands.
type FilterRow struct {
	Scope    string `json:"scope"`
	Type     string `json:"type"`
	Pattern  string `json:"pattern"`
	MinLevel int    `json:"min_level"`
	MaxLevel int    `json:"max_level"`
}

// Levels renders the level range, or "any" when unrestricted.
func (r FilterRow) Levels() string {
	switch {
	case r.MinLevel == 0 && r.MaxLevel == 0:
		return "any"
	case r.MinLevel == r.MaxLevel:
		return fmt.Sprintf("%d", r.MinLevel)
	default:
		return fmt.Sprintf("%d-%d", r.MinLevel, r.MaxLevel)
	}
}

// RenderFilters writes rows grouped by scope as an aligned table.
func RenderFilters(w io.Writer, rows []FilterRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, warnStyle.Render("no filters"))
		return
	}

	typeWidth := len("TYPE")
	for _, r := range rows {
		typeWidth = max(typeWidth, lipgloss.Width(r.Type))
	}
	typeCol := lipgloss.NewStyle().Width(typeWidth + 2)

	scope := ""
	for _, r := range rows {
		if r.Scope != scope {
			if scope != "" {
				fmt.Fprintln(w)
			}
			scope = r.Scope
			fmt.Fprintln(w, headerStyle.Render("["+strings.ToUpper(scope)+"]"))
		}
		fmt.Fprintln(w, typeCol.Render(typeStyle.Render(r.Type))+
			patternStyle.Render(r.Pattern)+" "+
			levelStyle.Render("("+r.Levels()+")"))
	}
}

// RenderMatch writes one classified candidate. names is the colon-joined
// type list; an empty list renders as unfiltered.
func RenderMatch(w io.Writer, candidate string, level uint8, names string) {
	label := levelStyle.Render("-")
	if names != "" {
		label = matchStyle.Render(strings.TrimSuffix(names, ":"))
	}
	fmt.Fprintf(w, "%s %s %s\n", label, levelStyle.Render(fmt.Sprintf("[%d]", level)), candidate)
}

// RenderFields writes key/value pairs in the given order.
func RenderFields(w io.Writer, keys []string, values map[string]string) {
	width := 0
	for _, k := range keys {
		width = max(width, lipgloss.Width(k))
	}
	keyCol := lipgloss.NewStyle().Width(width + 2)
	for _, k := range keys {
		fmt.Fprintln(w, keyCol.Render(typeStyle.Render(k))+patternStyle.Render(values[k]))
	}
}
