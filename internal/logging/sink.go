package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const DefaultMaxEntries = 300

// Entry is a single captured log record.
type Entry struct {
	Timestamp time.Time
	Level     slog.Level
	Message   string
}

// MemorySink is an slog.Handler that buffers recent log records in memory so
// the TUI can show them in a log panel instead of writing over the screen. It
// is safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
	maxSize int
	level   slog.Leveler
}

// NewMemorySink creates a MemorySink retaining at most maxSize entries.
func NewMemorySink(maxSize int) *MemorySink {
	if maxSize <= 0 {
		maxSize = DefaultMaxEntries
	}
	return &MemorySink{maxSize: maxSize, level: slog.LevelDebug}
}

// Enabled implements slog.Handler.
func (s *MemorySink) Enabled(_ context.Context, level slog.Level) bool {
	return level >= s.level.Level()
}

// Handle implements slog.Handler.
func (s *MemorySink) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	r.Attrs(func(a slog.Attr) bool {
		msg += " " + a.Key + "=" + fmt.Sprintf("%v", a.Value.Any())
		return true
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Timestamp: r.Time, Level: r.Level, Message: msg})
	if len(s.entries) > s.maxSize {
		s.entries = s.entries[len(s.entries)-s.maxSize:]
	}
	return nil
}

// WithAttrs implements slog.Handler. Attrs are rendered per-record in Handle.
func (s *MemorySink) WithAttrs(_ []slog.Attr) slog.Handler { return s }

// WithGroup implements slog.Handler.
func (s *MemorySink) WithGroup(_ string) slog.Handler { return s }

// Entries returns a snapshot of the buffered entries.
func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Render formats the buffer for a TUI viewport, truncating lines to width.
func (s *MemorySink) Render(width int) string {
	entries := s.Entries()
	if len(entries) == 0 {
		return "(no log entries yet)"
	}
	var b strings.Builder
	for _, e := range entries {
		line := fmt.Sprintf("%s [%s] %s", e.Timestamp.Format("15:04:05"), levelLabel(e.Level), e.Message)
		if width > 10 && len(line) > width-2 {
			line = line[:width-5] + "..."
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func levelLabel(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DBG"
	case l < slog.LevelWarn:
		return "INF"
	case l < slog.LevelError:
		return "WRN"
	default:
		return "ERR"
	}
}
