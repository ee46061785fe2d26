package filter

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmType string

var rmCmd = &cobra.Command{
	Use:   "rm --type TYPE PATTERN",
	Short: "Remove a filter",
	Long: `Remove a filter from the global file or, with --zone, from the zone's file.

PATTERN is compared as written, with or without its level range.

Examples:
  seqfilter filter rm --type Hunt 'Name:.*Orc.*:'
  seqfilter filter rm --type Danger --zone qeynos 'Name:Fippy'`,
	Args: cobra.ExactArgs(1),
	Run:  runRm,
}

func init() {
	rmCmd.Flags().StringVarP(&rmType, "type", "t", "", "Filter type")
	_ = rmCmd.MarkFlagRequired("type")
}

func runRm(cmd *cobra.Command, args []string) {
	pattern := args[0]

	m, err := newManager()
	if err != nil {
		OutputError(cmd, err, ExitCodeFor(err))
		return
	}

	scope := currentScope()
	removed, err := m.RemFilter(scope, rmType, pattern)
	if err != nil {
		OutputError(cmd, err, ExitCodeFor(err))
		return
	}
	if !removed {
		OutputError(cmd, fmt.Errorf("filter not found: %s", pattern), ExitNotFoundError)
		return
	}

	if err := m.Save(scope); err != nil {
		OutputError(cmd, err, ExitGeneralError)
		return
	}

	if err := OutputJSON(cmd, ChangeResult{
		Status:    "removed",
		Scope:     scope.String(),
		Type:      rmType,
		Pattern:   pattern,
		Persisted: true,
	}); err != nil {
		OutputError(cmd, err, ExitGeneralError)
	}
}
