// Package history keeps a bounded list of recent calculations, most recent
// first, backed by persistent storage.
package history

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// DefaultMaxItems is the number of items kept when no MaxItems option is given.
const DefaultMaxItems = 10

// Item is one saved calculation.
type Item struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// Backend persists the full list of items. Items are always passed and
// returned most recent first.
type Backend interface {
	Load(ctx context.Context) ([]Item, error)
	Store(ctx context.Context, items []Item) error
}

// History is a bounded list of calculations. It is safe for concurrent use.
type History struct {
	mu      sync.Mutex
	items   []Item
	backend Backend
	max     int
	log     *slog.Logger
}

// Option configures a History.
type Option func(*History)

// MaxItems sets the number of items kept. Values below 1 are treated as 1.
func MaxItems(n int) Option {
	return func(h *History) {
		h.max = max(n, 1)
	}
}

// WithLogger sets the logger that receives load and store failures.
func WithLogger(l *slog.Logger) Option {
	return func(h *History) {
		if l != nil {
			h.log = l
		}
	}
}

// New creates a history and loads its items from backend. A nil backend keeps
// items in memory only. A store that cannot be read or decoded is logged and
// treated as empty.
func New(ctx context.Context, backend Backend, opts ...Option) *History {
	h := &History{
		backend: backend,
		max:     DefaultMaxItems,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	if backend == nil {
		return h
	}
	items, err := backend.Load(ctx)
	if err != nil {
		h.log.WarnContext(ctx, "history unreadable, starting empty", slog.Any("err", err))
		return h
	}
	if len(items) > h.max {
		items = items[:h.max]
	}
	h.items = items
	h.log.DebugContext(ctx, "history loaded", slog.Int("items", len(items)))
	return h
}

// Save records a calculation as the most recent item, drops the oldest items
// beyond the limit, and persists the result. The item is kept in memory even
// if persisting fails.
func (h *History) Save(ctx context.Context, expr, result string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	items := make([]Item, 0, min(len(h.items)+1, h.max))
	items = append(items, Item{Expression: expr, Result: result})
	for _, it := range h.items {
		if len(items) == h.max {
			break
		}
		items = append(items, it)
	}
	h.items = items
	return h.store(ctx)
}

// Items returns a copy of the saved items, most recent first.
func (h *History) Items() []Item {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Item(nil), h.items...)
}

// Len returns the number of saved items.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

// Clear removes all items and persists the empty list.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = nil
	return h.store(ctx)
}

func (h *History) store(ctx context.Context) error {
	if h.backend == nil {
		return nil
	}
	if err := h.backend.Store(ctx, h.items); err != nil {
		h.log.WarnContext(ctx, "history not saved", slog.Any("err", err))
		return err
	}
	return nil
}

// DisplayWidth is the longest expression Display shows in full.
const DisplayWidth = 30

// Display formats an item as "expression = result". Expressions longer than
// DisplayWidth characters are shortened with a trailing "...".
func Display(it Item) string {
	expr := it.Expression
	if r := []rune(expr); len(r) > DisplayWidth {
		expr = string(r[:DisplayWidth-3]) + "..."
	}
	return expr + " = " + it.Result
}
