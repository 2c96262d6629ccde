// Package ledger keeps a bounded in-memory history of wagers and persists it
// to an append-only JSON Lines file on overflow and on shutdown.
package ledger

import (
	"encoding/json"
	"os"
	"sync"

	"BetForge/internal/domain/models"
	"BetForge/pkg/logger"
)

// DefaultCapacity bounds the in-memory buffer before a flush is forced.
const DefaultCapacity = 10_000

// Option configures a History.
type Option func(*History)

// WithCapacity overrides the in-memory buffer bound.
func WithCapacity(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.capacity = n
		}
	}
}

// WithForwarder registers a callback receiving each successfully flushed
// batch, used to mirror history into long-term storage.
func WithForwarder(fn func([]models.Wager)) Option {
	return func(h *History) { h.forward = fn }
}

// WithFlushHook registers a callback observing each flush attempt's result,
// "ok" or "error".
func WithFlushHook(fn func(result string)) Option {
	return func(h *History) { h.onFlush = fn }
}

// History is an insertion-ordered ring of wager records. Append and Flush are
// safe for concurrent use; a failed flush keeps the buffer intact so the next
// trigger retries the same records.
type History struct {
	path     string
	capacity int
	logger   *logger.Logger
	forward  func([]models.Wager)
	onFlush  func(string)

	mu     sync.Mutex
	buffer []models.Wager
}

// NewHistory creates a ledger persisting to path. An empty path disables the
// durable file; overflowed records are then forwarded (if a forwarder is set)
// and evicted.
func NewHistory(path string, log *logger.Logger, opts ...Option) *History {
	h := &History{
		path:     path,
		capacity: DefaultCapacity,
		logger:   log,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.buffer = make([]models.Wager, 0, h.capacity)
	return h
}

// Append adds a wager to the tail. Reaching capacity triggers a flush before
// return; a failed flush is logged and the records stay buffered.
func (h *History) Append(w models.Wager) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buffer = append(h.buffer, w)
	if len(h.buffer) >= h.capacity {
		if err := h.flushLocked(); err != nil {
			h.logger.Error("history flush on overflow failed, keeping buffer",
				logger.Int("buffered", len(h.buffer)),
				logger.Error(err))
		}
	}
}

// Flush persists every buffered record and clears the buffer on success. On
// I/O failure the buffer is left intact and the error returned.
func (h *History) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.flushLocked()
}

// Len reports the number of buffered records.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.buffer)
}

// Recent returns up to limit of the most recent buffered wagers, newest
// first. A non-positive limit returns the whole buffer.
func (h *History) Recent(limit int) []models.Wager {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.buffer)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.Wager, limit)
	for i := 0; i < limit; i++ {
		out[i] = h.buffer[n-1-i]
	}
	return out
}

func (h *History) flushLocked() error {
	if len(h.buffer) == 0 {
		return nil
	}

	if h.path != "" {
		if err := h.writeFile(h.buffer); err != nil {
			if h.onFlush != nil {
				h.onFlush("error")
			}
			return err
		}
	}

	flushed := h.buffer
	h.buffer = make([]models.Wager, 0, h.capacity)

	h.logger.Debug("history flushed",
		logger.Int("records", len(flushed)),
		logger.String("path", h.path))
	if h.onFlush != nil {
		h.onFlush("ok")
	}
	if h.forward != nil {
		h.forward(flushed)
	}
	return nil
}

func (h *History) writeFile(batch []models.Wager) error {
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := range batch {
		if err := enc.Encode(batch[i].Flat()); err != nil {
			return err
		}
	}
	return nil
}
