package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogEntry represents a single captured log record
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   string // Formatted key=value pairs
}

// String renders the entry as "LVL message key=value".
func (e LogEntry) String() string {
	if e.Attrs == "" {
		return FormatLevel(e.Level) + " " + e.Message
	}
	return FormatLevel(e.Level) + " " + e.Message + " " + e.Attrs
}

// Buffer is a ring buffer for log entries
type Buffer struct {
	entries []LogEntry
	size    int
	head    int
	count   int
	mu      sync.RWMutex
}

// NewBuffer creates a new ring buffer with the given capacity
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer{
		entries: make([]LogEntry, capacity),
		size:    capacity,
	}
}

// Add adds a log entry to the buffer
func (b *Buffer) Add(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.head] = entry
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
}

// GetAll returns all entries in chronological order (oldest first)
func (b *Buffer) GetAll() []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]LogEntry, b.count)
	if b.count == 0 {
		return result
	}

	start := 0
	if b.count == b.size {
		start = b.head // head points to oldest when full
	}

	for i := 0; i < b.count; i++ {
		result[i] = b.entries[(start+i)%b.size]
	}

	return result
}

// Clear empties the buffer
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.count = 0
}

// Count returns the number of entries in the buffer
func (b *Buffer) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// CountLevel returns the number of buffered entries at exactly level.
func (b *Buffer) CountLevel(level slog.Level) int {
	n := 0
	for _, e := range b.GetAll() {
		if e.Level == level {
			n++
		}
	}
	return n
}

// CaptureHandler is a slog handler that records into a Buffer
type CaptureHandler struct {
	buffer *Buffer
	level  slog.Level
	attrs  []slog.Attr
	group  string
}

// NewCaptureHandler creates a handler that captures logs to the buffer
func NewCaptureHandler(buffer *Buffer, level slog.Level) *CaptureHandler {
	return &CaptureHandler{
		buffer: buffer,
		level:  level,
	}
}

// NewCapture returns a logger recording every record at or above level into
// a fresh buffer of the given capacity.
func NewCapture(capacity int, level slog.Level) (*slog.Logger, *Buffer) {
	buf := NewBuffer(capacity)
	return slog.New(NewCaptureHandler(buf, level)), buf
}

// Enabled reports whether the handler handles records at the given level
func (h *CaptureHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle handles the log record
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	add := func(a slog.Attr) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		fmt.Fprintf(&sb, "%s=%v", key, a.Value.Any())
	}

	r.Attrs(func(a slog.Attr) bool {
		add(a)
		return true
	})
	for _, a := range h.attrs {
		add(a)
	}

	h.buffer.Add(LogEntry{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   sb.String(),
	})
	return nil
}

// WithAttrs returns a new handler with the given attributes
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &CaptureHandler{
		buffer: h.buffer,
		level:  h.level,
		attrs:  make([]slog.Attr, len(h.attrs)+len(attrs)),
		group:  h.group,
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

// WithGroup returns a new handler with the given group name
func (h *CaptureHandler) WithGroup(name string) slog.Handler {
	return &CaptureHandler{
		buffer: h.buffer,
		level:  h.level,
		attrs:  h.attrs,
		group:  name,
	}
}

// FormatLevel returns a short string for the log level
func FormatLevel(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DBG"
	case slog.LevelInfo:
		return "INF"
	case slog.LevelWarn:
		return "WRN"
	case slog.LevelError:
		return "ERR"
	default:
		return "???"
	}
}
