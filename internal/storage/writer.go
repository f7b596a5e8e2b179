package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pastelsoft.com/medimap/internal/metrics"
	"pastelsoft.com/medimap/internal/roster"
)

// Writer serializes roster snapshot writes onto a single consumer
// goroutine so the last mutation's snapshot is always the last one
// persisted. It is latest-wins: a snapshot still waiting while an earlier
// write is in flight gets replaced, never written out of order. A failed
// write is logged and counted, never retried; the in-memory roster stays
// authoritative.
type Writer struct {
	store   Store
	timeout time.Duration

	mu     sync.Mutex
	latest []roster.Patient
	seen   bool

	kick chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewWriter starts the consumer goroutine. timeout bounds each individual
// Save call.
func NewWriter(store Store, timeout time.Duration) *Writer {
	w := &Writer{
		store:   store,
		timeout: timeout,
		kick:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue hands a snapshot to the writer without blocking. Callers must
// pass snapshots in mutation order; the store's change hook does.
func (w *Writer) Enqueue(snapshot []roster.Patient) {
	w.mu.Lock()
	w.latest = snapshot
	w.seen = true
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Close writes any still-pending snapshot and stops the consumer. Enqueue
// must not be called after Close.
func (w *Writer) Close() {
	close(w.stop)
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.kick:
			w.flush()
		case <-w.stop:
			w.flush()
			return
		}
	}
}

// flush persists the newest pending snapshot, if any.
func (w *Writer) flush() {
	w.mu.Lock()
	snap, pending := w.latest, w.seen
	w.latest, w.seen = nil, false
	w.mu.Unlock()

	if !pending {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.store.Save(ctx, snap); err != nil {
		metrics.SnapshotSaveFailuresTotal.Inc()
		log.Error().Err(err).Msg("Failed to save roster snapshot")
	}
}
