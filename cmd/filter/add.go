package filter

import (
	"github.com/endorses/seqfilter/internal/pkg/filtering"
	"github.com/spf13/cobra"
)

var (
	addType    string
	addRuntime bool
)

// ChangeResult reports an add or remove
type ChangeResult struct {
	Status    string `json:"status"`
	Scope     string `json:"scope"`
	Type      string `json:"type"`
	Pattern   string `json:"pattern"`
	Persisted bool   `json:"persisted"`
}

var addCmd = &cobra.Command{
	Use:   "add --type TYPE PATTERN",
	Short: "Add a filter",
	Long: `Add a filter to the global file or, with --zone, to the zone's file.

PATTERN may end in a level range: ";N", ";N-M", ";N-" or ";-M".
With --runtime the filter is validated but not persisted.

Examples:
  seqfilter filter add --type Hunt 'Name:.*Orc.*:;5-10'
  seqfilter filter add --type Danger --zone qeynos 'Name:Fippy'`,
	Args: cobra.ExactArgs(1),
	Run:  runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addType, "type", "t", "", "Filter type (Hunt, Caution, Danger, ...)")
	addCmd.Flags().BoolVar(&addRuntime, "runtime", false, "Add to the runtime set without saving")
	_ = addCmd.MarkFlagRequired("type")
}

func runAdd(cmd *cobra.Command, args []string) {
	raw := args[0]
	if addRuntime && zoneName != "" {
		OutputError(cmd, &filtering.ValidationError{Field: "runtime", Message: "--runtime cannot be combined with --zone"}, ExitValidationError)
		return
	}

	m, err := newManager()
	if err != nil {
		OutputError(cmd, err, ExitCodeFor(err))
		return
	}

	if err := filtering.ValidateFilter(m.Syntax(), raw); err != nil {
		OutputError(cmd, err, ExitValidationError)
		return
	}

	scope := currentScope()
	if addRuntime {
		scope = filtering.ScopeRuntime
	}

	added, err := m.AddFilter(scope, addType, raw)
	if err != nil {
		OutputError(cmd, err, ExitCodeFor(err))
		return
	}
	if !added {
		OutputError(cmd, &filtering.ValidationError{Field: "pattern", Message: "filter already exists"}, ExitValidationError)
		return
	}

	if err := m.Save(scope); err != nil {
		OutputError(cmd, err, ExitGeneralError)
		return
	}

	if err := OutputJSON(cmd, ChangeResult{
		Status:    "added",
		Scope:     scope.String(),
		Type:      addType,
		Pattern:   raw,
		Persisted: scope != filtering.ScopeRuntime,
	}); err != nil {
		OutputError(cmd, err, ExitGeneralError)
	}
}
