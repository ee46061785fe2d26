// Package watch provides the watch command, which classifies candidates read
// from stdin while reloading the filter files as they change.
package watch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/endorses/seqfilter/internal/pkg/cmdutil"
	"github.com/endorses/seqfilter/internal/pkg/constants"
	"github.com/endorses/seqfilter/internal/pkg/logger"
	"github.com/endorses/seqfilter/internal/pkg/output"
	"github.com/endorses/seqfilter/internal/pkg/signals"
	"github.com/endorses/seqfilter/internal/pkg/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	zoneName     string
	level        uint8
	pollInterval time.Duration
	forcePolling bool
	jsonOutput   bool
	runtimeSpecs []string
)

// WatchCmd classifies stdin lines with hot-reloaded filters
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Classify stdin with live filter reload",
	Long: `Read LEVEL<TAB>CANDIDATE lines from stdin and print the filter types each
candidate matches. The global and zone filter files are watched and reloaded
when they change; SIGHUP forces a reload.

Examples:
  tail -f spawns.tsv | seqfilter watch --zone qeynos
  seqfilter watch --runtime 'Tracer=Name:Fippy' --json < spawns.tsv`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().StringVarP(&zoneName, "zone", "z", "", "Zone whose filter file to watch")
	WatchCmd.Flags().Uint8VarP(&level, "level", "l", 1, "Level of lines without a LEVEL column")
	WatchCmd.Flags().DurationVar(&pollInterval, "poll-interval", constants.WatchPollInterval, "Polling interval when fsnotify is unavailable")
	WatchCmd.Flags().BoolVar(&forcePolling, "poll", false, "Poll instead of using fsnotify")
	WatchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output one JSON object per line")
	WatchCmd.Flags().StringArrayVar(&runtimeSpecs, "runtime", nil, "Runtime filter as TYPE=PATTERN (repeatable)")

	_ = viper.BindPFlag("watch.poll_interval", WatchCmd.Flags().Lookup("poll-interval"))
}

type matchLine struct {
	Candidate string   `json:"candidate"`
	Level     uint8    `json:"level"`
	Mask      uint32   `json:"mask"`
	Types     []string `json:"types"`
}

func runtimeFilters(specs []string) ([]watcher.RuntimeFilter, error) {
	filters := make([]watcher.RuntimeFilter, 0, len(specs))
	for _, spec := range specs {
		kv, err := cmdutil.ParseKeyValues([]string{spec})
		if err != nil {
			return nil, err
		}
		for t, p := range kv {
			filters = append(filters, watcher.RuntimeFilter{Type: t, Pattern: p})
		}
	}
	return filters, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	mcfg, err := cmdutil.ManagerConfig("")
	if err != nil {
		return err
	}
	runtime, err := runtimeFilters(runtimeSpecs)
	if err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{
		Manager:      mcfg,
		Zone:         zoneName,
		Runtime:      runtime,
		PollInterval: cmdutil.GetDurationConfig("watch.poll_interval", pollInterval),
		ForcePolling: forcePolling,
	})
	if err != nil {
		return fmt.Errorf("failed to load filters: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cleanup := signals.SetupHandler(ctx, cancel, func() {
		_ = w.Reload()
	})
	defer cleanup()

	if err := w.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := w.Stop(); err != nil {
			logger.Error("failed to stop watcher", "error", err)
		}
	}()

	return classifyStream(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), w)
}

// classifyStream classifies each input line until EOF or cancellation.
func classifyStream(ctx context.Context, in io.Reader, out io.Writer, w *watcher.Watcher) error {
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()

	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
				continue
			}
			candidate, lvl, err := cmdutil.ParseCandidateLine(line, level)
			if err != nil {
				logger.Warn("skipping unparsable line", "line", line, "error", err)
				continue
			}

			mask := w.FilterMask(candidate, lvl)
			names := strings.TrimSuffix(w.FilterNames(mask), ":")
			if !jsonOutput {
				output.RenderMatch(out, candidate, lvl, names)
				continue
			}
			types := make([]string, 0)
			if names != "" {
				types = strings.Split(names, ":")
			}
			if err := enc.Encode(matchLine{Candidate: candidate, Level: lvl, Mask: mask, Types: types}); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
		}
	}
}
