// Package journal provides an append-only JSON Lines writer with an
// asynchronous in-process queue, so a slow or failing disk never blocks the
// caller producing records.
package journal

import (
	"encoding/json"
	"os"
	"sync"

	"BetForge/pkg/logger"
)

// Option configures a Writer.
type Option func(*Writer)

// WithDepthGauge registers a callback observing queue depth after each
// enqueue and drain.
func WithDepthGauge(fn func(int)) Option {
	return func(w *Writer) { w.depth = fn }
}

// WithFailureHook registers a callback invoked once per failed write attempt.
func WithFailureHook(fn func()) Option {
	return func(w *Writer) { w.onFailure = fn }
}

// Writer appends one JSON object per line to a file. Records are enqueued to
// an unbounded queue drained by a single background goroutine; the only
// backpressure bound is process memory. Construct explicitly and share by
// reference when several producers target the same log.
type Writer struct {
	path      string
	logger    *logger.Logger
	depth     func(int)
	onFailure func()

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []map[string]interface{}
	closed bool

	done chan struct{}
}

// NewWriter creates a stopped writer targeting path. Call Start before Write.
func NewWriter(path string, log *logger.Logger, opts ...Option) *Writer {
	w := &Writer{
		path:   path,
		logger: log,
		done:   make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the background drain goroutine.
func (w *Writer) Start() {
	go w.run()
}

// Write enqueues a record. Never blocks on I/O; records offered after Stop
// are dropped with a warning.
func (w *Writer) Write(record map[string]interface{}) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("journal write after stop, record dropped")
		return
	}
	w.queue = append(w.queue, record)
	n := len(w.queue)
	w.mu.Unlock()

	if w.depth != nil {
		w.depth(n)
	}
	w.cond.Signal()
}

// Stop closes the queue and joins the worker, guaranteeing every queued
// write is attempted before return.
func (w *Writer) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.cond.Broadcast()
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)

	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		batch := w.queue
		w.queue = nil
		closed := w.closed
		w.mu.Unlock()

		if w.depth != nil {
			w.depth(0)
		}
		if len(batch) > 0 {
			w.drain(batch)
		}
		if closed {
			w.mu.Lock()
			rest := w.queue
			w.queue = nil
			w.mu.Unlock()
			if len(rest) > 0 {
				w.drain(rest)
			}
			return
		}
	}
}

func (w *Writer) drain(batch []map[string]interface{}) {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		w.logger.Error("journal open failed, dropping batch",
			logger.String("path", w.path),
			logger.Int("records", len(batch)),
			logger.Error(err))
		w.failed()
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, record := range batch {
		if err := enc.Encode(record); err != nil {
			w.logger.Error("journal write failed",
				logger.String("path", w.path),
				logger.Error(err))
			w.failed()
		}
	}
}

func (w *Writer) failed() {
	if w.onFailure != nil {
		w.onFailure()
	}
}
