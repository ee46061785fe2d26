package filter

import (
	"github.com/endorses/seqfilter/internal/pkg/filtering"
	"github.com/endorses/seqfilter/internal/pkg/output"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List filters",
	Long: `List the global filters and, with --zone, the zone's filters.

Output is a table on a terminal and JSON with --json.

Examples:
  seqfilter filter list
  seqfilter filter list --zone qeynos --json`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output JSON")
}

func runList(cmd *cobra.Command, args []string) {
	m, err := newManager()
	if err != nil {
		OutputError(cmd, err, ExitCodeFor(err))
		return
	}

	rows := collectRows(m)
	if listJSON {
		if err := OutputJSON(cmd, rows); err != nil {
			OutputError(cmd, err, ExitGeneralError)
		}
		return
	}
	output.RenderFilters(cmd.OutOrStdout(), rows)
}

// collectRows flattens every set of m into rows, scope by scope in type order.
func collectRows(m *filtering.Manager) []output.FilterRow {
	rows := make([]output.FilterRow, 0)
	for _, scope := range []filtering.Scope{filtering.ScopeGlobal, filtering.ScopeZone, filtering.ScopeRuntime} {
		set := m.Set(scope)
		registry := set.Registry()
		for _, t := range registry.Types() {
			c := set.Category(t)
			if c == nil {
				continue
			}
			for _, e := range c.Expressions() {
				rows = append(rows, output.FilterRow{
					Scope:    scope.String(),
					Type:     registry.Name(t),
					Pattern:  e.Orig(),
					MinLevel: int(e.MinLevel()),
					MaxLevel: int(e.MaxLevel()),
				})
			}
		}
	}
	return rows
}
