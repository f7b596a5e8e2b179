package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pastelsoft.com/medimap/internal/roster"
)

// gatedStore blocks every Save until the test releases it, so write
// ordering can be forced.
type gatedStore struct {
	mu    sync.Mutex
	saves [][]roster.Patient
	err   error

	entered chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}, 16),
	}
}

func (g *gatedStore) Load(context.Context) ([]roster.Patient, error) { return nil, nil }

func (g *gatedStore) Save(_ context.Context, patients []roster.Patient) error {
	g.entered <- struct{}{}
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saves = append(g.saves, patients)
	return g.err
}

func (g *gatedStore) Close() error { return nil }

func (g *gatedStore) saved() [][]roster.Patient {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([][]roster.Patient, len(g.saves))
	copy(out, g.saves)
	return out
}

func waitEntered(t *testing.T, g *gatedStore) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a save to start")
	}
}

func TestWriterKeepsLatestSnapshotLast(t *testing.T) {
	g := newGatedStore()
	w := NewWriter(g, time.Second)

	full := []roster.Patient{{ID: "p1", Name: "Nguyen A", RoomID: "waiting"}}
	afterDelete := []roster.Patient{}

	w.Enqueue(full)
	waitEntered(t, g) // first write stalled in flight

	// the deletion's snapshot arrives while the older write is blocked
	w.Enqueue(afterDelete)

	g.release <- struct{}{}
	waitEntered(t, g)
	g.release <- struct{}{}

	w.Close()

	saves := g.saved()
	require.Len(t, saves, 2)
	require.Len(t, saves[0], 1)
	require.Empty(t, saves[1], "the post-deletion roster must be the durable one")
}

func TestWriterSkipsSupersededSnapshots(t *testing.T) {
	g := newGatedStore()
	w := NewWriter(g, time.Second)

	w.Enqueue([]roster.Patient{{ID: "p1"}})
	waitEntered(t, g)

	// two more mutations land while the first write is blocked; only the
	// newest of them should ever reach the store
	w.Enqueue([]roster.Patient{{ID: "p1"}, {ID: "p2"}})
	w.Enqueue([]roster.Patient{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}})

	g.release <- struct{}{}
	waitEntered(t, g)
	g.release <- struct{}{}

	w.Close()

	saves := g.saved()
	require.Len(t, saves, 2, "superseded snapshot must be skipped")
	require.Len(t, saves[1], 3)
}

func TestWriterSurvivesSaveFailure(t *testing.T) {
	g := newGatedStore()
	g.err = errors.New("upsert failed")
	w := NewWriter(g, time.Second)

	w.Enqueue([]roster.Patient{{ID: "p1"}})
	waitEntered(t, g)
	g.release <- struct{}{}

	// a failed write must not stop later snapshots from being attempted
	w.Enqueue([]roster.Patient{{ID: "p1"}, {ID: "p2"}})
	waitEntered(t, g)
	g.release <- struct{}{}

	w.Close()

	require.Len(t, g.saved(), 2)
}
