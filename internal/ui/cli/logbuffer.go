package cli

import (
	"context"
	"log/slog"
	"sync"
)

// pendingLog holds records logged before the configured handler exists,
// such as unknown-key warnings from the config loader. replay hands them
// to the real handler, which applies its own level and format.
type pendingLog struct {
	mu      *sync.Mutex
	entries *[]pendingEntry
	derive  func(slog.Handler) slog.Handler
}

type pendingEntry struct {
	derive func(slog.Handler) slog.Handler
	record slog.Record
}

func newPendingLog() *pendingLog {
	return &pendingLog{
		mu:      &sync.Mutex{},
		entries: &[]pendingEntry{},
		derive:  func(h slog.Handler) slog.Handler { return h },
	}
}

func (h *pendingLog) Enabled(context.Context, slog.Level) bool { return true }

func (h *pendingLog) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	*h.entries = append(*h.entries, pendingEntry{derive: h.derive, record: r.Clone()})
	return nil
}

func (h *pendingLog) WithAttrs(attrs []slog.Attr) slog.Handler {
	parent := h.derive
	return &pendingLog{mu: h.mu, entries: h.entries, derive: func(next slog.Handler) slog.Handler {
		return parent(next).WithAttrs(attrs)
	}}
}

func (h *pendingLog) WithGroup(name string) slog.Handler {
	parent := h.derive
	return &pendingLog{mu: h.mu, entries: h.entries, derive: func(next slog.Handler) slog.Handler {
		return parent(next).WithGroup(name)
	}}
}

// replay writes the held records to target in order and forgets them.
func (h *pendingLog) replay(ctx context.Context, target slog.Handler) {
	h.mu.Lock()
	entries := *h.entries
	*h.entries = nil
	h.mu.Unlock()
	for _, e := range entries {
		handler := e.derive(target)
		if handler.Enabled(ctx, e.record.Level) {
			_ = handler.Handle(ctx, e.record)
		}
	}
}
