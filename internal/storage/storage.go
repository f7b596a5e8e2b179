package storage

import (
	"context"

	"pastelsoft.com/medimap/internal/roster"
)

// Store persists the full roster as one snapshot. The core never blocks on
// it: load failures yield an empty roster and save failures are logged and
// swallowed at the boundary.
type Store interface {
	Load(ctx context.Context) ([]roster.Patient, error)
	Save(ctx context.Context, patients []roster.Patient) error
	Close() error
}

// Noop keeps the roster in memory only.
type Noop struct{}

// Load implements Store.
func (Noop) Load(context.Context) ([]roster.Patient, error) { return nil, nil }

// Save implements Store.
func (Noop) Save(context.Context, []roster.Patient) error { return nil }

// Close implements Store.
func (Noop) Close() error { return nil }
