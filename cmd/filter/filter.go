// Package filter provides CLI commands for managing and testing the filter
// files of the global scope and of individual zones.
package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/endorses/seqfilter/internal/pkg/cmdutil"
	"github.com/endorses/seqfilter/internal/pkg/constants"
	"github.com/endorses/seqfilter/internal/pkg/filtering"
	"github.com/endorses/seqfilter/internal/pkg/logger"
	"github.com/endorses/seqfilter/internal/pkg/output"
	"github.com/spf13/cobra"
)

// Exit codes for CLI commands
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitValidationError = 3
	ExitNotFoundError   = 4
)

// Common flags used across filter commands
var (
	zoneName        string
	showDiagnostics bool
	diagnostics     *logger.Buffer
)

// osExit is replaced in tests
var osExit = os.Exit

// FilterCmd groups the filter subcommands
var FilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Manage and test filters",
	Long: `Manage the filters stored in the filter directory and test candidates
against them.

Filters live in global.xml and in one <zone>.xml file per zone. Commands act on
the global file unless --zone is given.

Examples:
  # List global and zone filters
  seqfilter filter list --zone qeynos

  # Hunt orcs between levels 5 and 10 everywhere
  seqfilter filter add --type Hunt 'Name:.*Orc.*:;5-10'

  # Classify a candidate
  seqfilter filter match --level 7 'Name:Orc Pawn:Race:Orc:'`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushDiagnostics(cmd)
	},
}

func init() {
	FilterCmd.PersistentFlags().StringVarP(&zoneName, "zone", "z", "", "Zone whose filter file to use")
	FilterCmd.PersistentFlags().BoolVar(&showDiagnostics, "diagnostics", false, "Print filter diagnostics to stderr")

	FilterCmd.AddCommand(listCmd)
	FilterCmd.AddCommand(addCmd)
	FilterCmd.AddCommand(rmCmd)
	FilterCmd.AddCommand(matchCmd)
	FilterCmd.AddCommand(decodeCmd)
	FilterCmd.AddCommand(encodeCmd)
	FilterCmd.AddCommand(exportCmd)
	FilterCmd.AddCommand(importCmd)
}

// sink returns the logger engine diagnostics go to. With --diagnostics they
// are captured and printed after the command.
func sink() logger.Sink {
	if !showDiagnostics {
		return logger.Get()
	}
	if diagnostics == nil {
		l, buf := logger.NewCapture(constants.DiagnosticsBufferSize, slog.LevelDebug)
		logger.SetLogger(l)
		diagnostics = buf
	}
	return logger.Get()
}

func flushDiagnostics(cmd *cobra.Command) {
	if diagnostics == nil {
		return
	}
	for _, entry := range diagnostics.GetAll() {
		fmt.Fprintln(cmd.ErrOrStderr(), entry.String())
	}
	diagnostics.Clear()
}

// newManager builds a manager from configuration and loads the global file
// and, with --zone, the zone file.
func newManager() (*filtering.Manager, error) {
	cfg, err := cmdutil.ManagerConfig("")
	if err != nil {
		return nil, err
	}
	cfg.Logger = sink()

	m, err := filtering.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	if err := m.Load(zoneName); err != nil {
		return nil, err
	}
	return m, nil
}

// currentScope is the persisted scope commands act on.
func currentScope() filtering.Scope {
	if zoneName != "" {
		return filtering.ScopeZone
	}
	return filtering.ScopeGlobal
}

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// OutputError writes an error response to stderr in JSON format and exits
func OutputError(cmd *cobra.Command, err error, exitCode int) {
	flushDiagnostics(cmd)

	resp := ErrorResponse{
		Error: err.Error(),
		Code:  mapExitCodeToString(exitCode),
	}
	data, _ := json.Marshal(resp)
	fmt.Fprintln(cmd.ErrOrStderr(), string(data))
	osExit(exitCode)
}

// OutputJSON writes a value to stdout as JSON
func OutputJSON(cmd *cobra.Command, v any) error {
	return output.WriteJSON(cmd.OutOrStdout(), v)
}

// ExitCodeFor maps an error to an exit code
func ExitCodeFor(err error) int {
	var verr *filtering.ValidationError
	switch {
	case errors.As(err, &verr):
		return ExitValidationError
	case errors.Is(err, fs.ErrNotExist):
		return ExitNotFoundError
	default:
		return ExitGeneralError
	}
}

func mapExitCodeToString(code int) string {
	switch code {
	case ExitSuccess:
		return "OK"
	case ExitValidationError:
		return "INVALID_ARGUMENT"
	case ExitNotFoundError:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}
