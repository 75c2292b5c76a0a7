package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/novalux/backend/pkg/logger"
	"github.com/novalux/backend/pkg/metrics"
)

// FetchFunc loads the full table snapshot, newest first.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Snapshot is what readers get: the current rows plus refresh state.
type Snapshot[T any] struct {
	Rows        []T
	Loading     bool
	LastRefresh time.Time
}

// Watcher keeps an in-memory snapshot of one table and refetches the whole
// thing whenever it is signalled. Change events carry no payload, so any
// signal means "refetch everything and replace the snapshot wholesale".
type Watcher[T any] struct {
	table   string
	fetch   FetchFunc[T]
	logg    *logger.Logger
	metrics *metrics.SyncMetrics

	signal chan struct{}
	done   chan struct{}
	cancel context.CancelFunc

	mu          sync.RWMutex
	rows        []T
	loading     bool
	lastErr     error
	lastRefresh time.Time
	generation  uint64
	closed      bool
}

// NewWatcher builds a watcher for one table. Call Start to load the initial
// snapshot and begin listening for signals.
func NewWatcher[T any](table string, fetch FetchFunc[T], logg *logger.Logger, m *metrics.SyncMetrics) (*Watcher[T], error) {
	if table == "" {
		return nil, fmt.Errorf("table name required")
	}
	if fetch == nil {
		return nil, fmt.Errorf("fetch func required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Watcher[T]{
		table:   table,
		fetch:   fetch,
		logg:    logg,
		metrics: m,
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		loading: true,
	}, nil
}

// Start performs the initial fetch and launches the refresh loop. It blocks
// until the first fetch settles so callers start with a populated snapshot.
func (w *Watcher[T]) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		cancel()
		return fmt.Errorf("watcher for %s is closed", w.table)
	}
	w.cancel = cancel
	w.mu.Unlock()

	w.refresh(runCtx)
	go w.run(runCtx)
	return nil
}

// Signal requests a refresh. Multiple signals before the loop picks one up
// coalesce into a single refetch.
func (w *Watcher[T]) Signal() {
	select {
	case w.signal <- struct{}{}:
	default:
	}
}

// Refetch re-runs the snapshot fetch immediately and returns its error.
func (w *Watcher[T]) Refetch(ctx context.Context) error {
	w.refresh(ctx)
	return w.LastError()
}

// Snapshot returns the current rows and refresh state. The returned slice is
// shared and must be treated as read-only.
func (w *Watcher[T]) Snapshot() Snapshot[T] {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Snapshot[T]{
		Rows:        w.rows,
		Loading:     w.loading,
		LastRefresh: w.lastRefresh,
	}
}

// LastError reports the error from the most recent fetch, nil after success.
func (w *Watcher[T]) LastError() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastErr
}

// Close stops the refresh loop. A fetch already in flight finishes but its
// result is discarded.
func (w *Watcher[T]) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-w.done
	}
}

func (w *Watcher[T]) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.signal:
			w.refresh(ctx)
		}
	}
}

func (w *Watcher[T]) refresh(ctx context.Context) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.generation++
	gen := w.generation
	w.loading = true
	w.mu.Unlock()

	start := time.Now()
	rows, err := w.fetch(ctx)
	w.metrics.ObserveRefresh(w.table, time.Since(start))

	w.mu.Lock()
	defer w.mu.Unlock()
	// A newer refresh finished first, or the watcher was closed mid-fetch.
	// Either way this result is stale and must not land.
	if w.closed || gen != w.generation {
		return
	}
	w.loading = false
	w.lastRefresh = time.Now()
	if err != nil {
		w.rows = nil
		w.lastErr = err
		w.metrics.IncRefreshFailure(w.table)
		w.logg.Error(w.logg.WithTable(ctx, w.table), "snapshot refresh failed", err)
		return
	}
	w.rows = rows
	w.lastErr = nil
	w.metrics.IncRefreshSuccess(w.table)
}
