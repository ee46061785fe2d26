package filter

import (
	"fmt"
	"strings"

	"github.com/endorses/seqfilter/internal/pkg/cmdutil"
	"github.com/endorses/seqfilter/internal/pkg/filtering"
	"github.com/endorses/seqfilter/internal/pkg/output"
	"github.com/spf13/cobra"
)

var (
	matchLevel uint8
	matchFile  string
	matchJSON  bool
)

// MatchResult is the classification of one candidate
type MatchResult struct {
	Candidate string   `json:"candidate"`
	Level     uint8    `json:"level"`
	Mask      uint32   `json:"mask"`
	Types     []string `json:"types"`
}

var matchCmd = &cobra.Command{
	Use:   "match [CANDIDATE...]",
	Short: "Classify candidates against the filters",
	Long: `Match candidate strings against the global, zone and runtime filters and
print the filter types each one falls into.

With --file, candidates are read one per line as LEVEL<TAB>CANDIDATE; lines
without a tab use --level. Blank lines and lines starting with # are skipped.

Examples:
  seqfilter filter match --level 7 'Name:Orc Pawn:Race:Orc:'
  seqfilter filter match --zone qeynos --file spawns.tsv --json`,
	Run: runMatch,
}

func init() {
	matchCmd.Flags().Uint8VarP(&matchLevel, "level", "l", 1, "Level of the candidates")
	matchCmd.Flags().StringVarP(&matchFile, "file", "f", "", "Read LEVEL<TAB>CANDIDATE lines from a file")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Output JSON")
}

func runMatch(cmd *cobra.Command, args []string) {
	if matchFile == "" && len(args) == 0 {
		OutputError(cmd, &filtering.ValidationError{Field: "candidate", Message: "at least one candidate or --file is required"}, ExitValidationError)
		return
	}

	type candidate struct {
		text  string
		level uint8
	}
	var candidates []candidate
	for _, arg := range args {
		candidates = append(candidates, candidate{arg, matchLevel})
	}
	if matchFile != "" {
		lines, err := filtering.LoadPatternsFromFile(matchFile)
		if err != nil {
			OutputError(cmd, err, ExitCodeFor(err))
			return
		}
		for i, line := range lines {
			text, level, err := cmdutil.ParseCandidateLine(line, matchLevel)
			if err != nil {
				OutputError(cmd, fmt.Errorf("%s entry %d: %w", matchFile, i+1, err), ExitValidationError)
				return
			}
			candidates = append(candidates, candidate{text, level})
		}
	}

	m, err := newManager()
	if err != nil {
		OutputError(cmd, err, ExitCodeFor(err))
		return
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, classify(m, c.text, c.level))
	}

	if matchJSON {
		if err := OutputJSON(cmd, results); err != nil {
			OutputError(cmd, err, ExitGeneralError)
		}
		return
	}
	for _, r := range results {
		output.RenderMatch(cmd.OutOrStdout(), r.Candidate, r.Level, strings.Join(r.Types, ":"))
	}
}

func classify(m *filtering.Manager, text string, level uint8) MatchResult {
	mask := m.FilterMask(text, level)
	types := make([]string, 0)
	if names := strings.TrimSuffix(m.FilterNames(mask), ":"); names != "" {
		types = strings.Split(names, ":")
	}
	return MatchResult{
		Candidate: text,
		Level:     level,
		Mask:      mask,
		Types:     types,
	}
}
