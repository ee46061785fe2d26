package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/endorses/seqfilter/internal/pkg/filtering"
	"github.com/endorses/seqfilter/internal/pkg/logger"
	"github.com/endorses/seqfilter/internal/pkg/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) *watcher.Watcher {
	t.Helper()
	l, _ := logger.NewCapture(100, slog.LevelDebug)
	w, err := watcher.New(watcher.Config{
		Manager: filtering.ManagerConfig{Dir: t.TempDir(), Logger: l},
		Runtime: []watcher.RuntimeFilter{
			{Type: "Hunt", Pattern: "Name:.*Orc.*:;5-10"},
			{Type: "Tracer", Pattern: "Name:Fippy"},
		},
	})
	require.NoError(t, err)
	return w
}

func TestRuntimeFilters(t *testing.T) {
	filters, err := runtimeFilters([]string{"Tracer=Name:Fippy", "Hunt=Race:Orc;5-10"})
	require.NoError(t, err)
	assert.Equal(t, []watcher.RuntimeFilter{
		{Type: "Tracer", Pattern: "Name:Fippy"},
		{Type: "Hunt", Pattern: "Race:Orc;5-10"},
	}, filters)

	_, err = runtimeFilters([]string{"Name:Fippy"})
	assert.Error(t, err)
}

func TestClassifyStreamJSON(t *testing.T) {
	jsonOutput, level = true, 1
	defer func() { jsonOutput = false }()

	w := newTestWatcher(t)
	in := strings.NewReader("7\tName:Orc Pawn:\n\n# skipped\nName:Fippy Darkpaw:\nbad\tName:Orc:\n20\tName:Orc Pawn:\n")
	var out bytes.Buffer

	require.NoError(t, classifyStream(context.Background(), in, &out, w))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var first, second, third matchLine
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))

	assert.Equal(t, []string{"Hunt"}, first.Types)
	assert.Equal(t, uint8(7), first.Level)
	assert.Equal(t, []string{"Tracer"}, second.Types)
	assert.Equal(t, uint8(1), second.Level)
	assert.Empty(t, third.Types)
}

func TestClassifyStreamText(t *testing.T) {
	jsonOutput, level = false, 8

	w := newTestWatcher(t)
	var out bytes.Buffer
	require.NoError(t, classifyStream(context.Background(), strings.NewReader("Name:Orc Pawn:\r\n"), &out, w))
	assert.Contains(t, out.String(), "Hunt")
	assert.Contains(t, out.String(), "[8]")
}

func TestClassifyStreamCancelled(t *testing.T) {
	w := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &blockingReader{ch: make(chan struct{})}
	defer close(r.ch)

	var out bytes.Buffer
	assert.NoError(t, classifyStream(ctx, r, &out, w))
	assert.Empty(t, out.String())
}

// blockingReader blocks until ch is closed, then reports EOF.
type blockingReader struct{ ch chan struct{} }

func (b *blockingReader) Read(p []byte) (int, error) {
	<-b.ch
	return 0, io.EOF
}
