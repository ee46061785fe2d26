package filter

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// TransferResult reports an export or import
type TransferResult struct {
	Status   string   `json:"status"`
	Scope    string   `json:"scope"`
	File     string   `json:"file"`
	Filters  int      `json:"filters"`
	Rejected []string `json:"rejected,omitempty"`
}

var exportCmd = &cobra.Command{
	Use:   "export FILE.yaml",
	Short: "Export filters to YAML",
	Long: `Write the global filters or, with --zone, the zone's filters to a YAML file.

Examples:
  seqfilter filter export global.yaml
  seqfilter filter export --zone qeynos qeynos.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE.yaml",
	Short: "Import filters from YAML",
	Long: `Add the filters of a YAML file to the global filters or, with --zone, to
the zone's filters, then save. Sections for unknown types and invalid or
duplicate filters are reported and skipped.

Examples:
  seqfilter filter import global.yaml
  seqfilter filter import --zone qeynos qeynos.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func runExport(cmd *cobra.Command, args []string) {
	m, err := newManager()
	if err != nil {
		OutputError(cmd, err, ExitCodeFor(err))
		return
	}

	scope := currentScope()
	set := m.Set(scope)
	if err := set.Export(args[0]); err != nil {
		OutputError(cmd, err, ExitGeneralError)
		return
	}

	if err := OutputJSON(cmd, TransferResult{
		Status:  "exported",
		Scope:   scope.String(),
		File:    args[0],
		Filters: set.Len(),
	}); err != nil {
		OutputError(cmd, err, ExitGeneralError)
	}
}

func runImport(cmd *cobra.Command, args []string) {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		OutputError(cmd, fmt.Errorf("failed to open import file: %w", err), ExitCodeFor(err))
		return
	}

	m, err := newManager()
	if err != nil {
		OutputError(cmd, err, ExitCodeFor(err))
		return
	}

	scope := currentScope()
	set := m.Set(scope)
	before := set.Len()
	rejected, err := set.Import(path)
	if err != nil {
		OutputError(cmd, err, ExitCodeFor(err))
		return
	}

	if err := m.Save(scope); err != nil {
		OutputError(cmd, err, ExitGeneralError)
		return
	}

	result := TransferResult{
		Status:  "imported",
		Scope:   scope.String(),
		File:    path,
		Filters: set.Len() - before,
	}
	for _, r := range rejected {
		result.Rejected = append(result.Rejected, r.Error())
	}
	if err := OutputJSON(cmd, result); err != nil {
		OutputError(cmd, err, ExitGeneralError)
	}
}
