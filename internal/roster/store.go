package roster

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pastelsoft.com/medimap/internal/rooms"
)

// Store is the authoritative in-memory patient roster. All mutations run to
// completion before the next one is applied; callers on other goroutines are
// serialized by the mutex. Mutations that change nothing (same-room move,
// unknown id) do not fire the change hook.
type Store struct {
	mu       sync.Mutex
	patients []Patient
	onChange func([]Patient)
}

// NewStore builds a store seeded with an initial roster, typically the
// snapshot loaded at startup.
func NewStore(initial []Patient) *Store {
	s := &Store{patients: make([]Patient, len(initial))}
	copy(s.patients, initial)
	return s
}

// OnChange registers the hook fired with a full roster copy after every
// effective mutation. The persistence boundary hangs off this. The hook
// runs while the store lock is held so it observes snapshots in mutation
// order; it must hand the snapshot off without blocking and must not call
// back into the store.
func (s *Store) OnChange(fn func([]Patient)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// CreateBatch appends already-screened candidates to the roster. Each gets a
// fresh id, the waiting room, and zeroed monitoring defaults. Returns the
// created patients in input order.
func (s *Store) CreateBatch(candidates []Candidate) []Patient {
	if len(candidates) == 0 {
		return nil
	}

	s.mu.Lock()
	created := make([]Patient, 0, len(candidates))
	for _, c := range candidates {
		p := Patient{
			ID:             uuid.NewString(),
			Name:           c.Name,
			DOB:            c.DOB,
			Rank:           c.Rank,
			Role:           c.Role,
			Unit:           c.Unit,
			Diagnosis:      c.Diagnosis,
			AdmissionDate:  c.AdmissionDate,
			RoomID:         rooms.WaitingRoomID,
			MonitoringType: MonitoringNone,
		}
		s.patients = append(s.patients, p)
		created = append(created, p)
	}
	s.notifyLocked()
	s.mu.Unlock()

	log.Info().
		Int("count", len(created)).
		Msg("Created patient batch")

	return created
}

// UpdateFields merges a partial patch into the matching patient. An unknown
// id is a silent no-op: it can only come from stale UI state after a
// deletion in the same session.
func (s *Store) UpdateFields(id string, patch FieldPatch) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		log.Debug().Str("id", id).Msg("Update for absent patient ignored")
		return false
	}
	s.patients[i].apply(patch)
	s.notifyLocked()
	s.mu.Unlock()

	return true
}

// MoveRoom reassigns the patient to targetRoomID. Moving a patient to the
// room it already occupies leaves the store untouched and fires no change
// event.
func (s *Store) MoveRoom(id, targetRoomID string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		log.Debug().Str("id", id).Msg("Move for absent patient ignored")
		return false
	}
	if s.patients[i].RoomID == targetRoomID {
		s.mu.Unlock()
		return false
	}
	from := s.patients[i].RoomID
	s.patients[i].RoomID = targetRoomID
	s.notifyLocked()
	s.mu.Unlock()

	log.Info().
		Str("id", id).
		Str("from", from).
		Str("to", targetRoomID).
		Msg("Patient moved")

	return true
}

// Delete removes the patient entirely, discharge record included. Unknown
// ids are ignored.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.patients = append(s.patients[:i], s.patients[i+1:]...)
	s.notifyLocked()
	s.mu.Unlock()

	log.Info().Str("id", id).Msg("Patient deleted")

	return true
}

// Get returns a copy of the patient with the given id.
func (s *Store) Get(id string) (Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Patient{}, false
	}
	return s.patients[i], true
}

// All returns a copy of the roster in insertion order.
func (s *Store) All() []Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Patient, len(s.patients))
	copy(out, s.patients)
	return out
}

// Len returns the roster size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patients)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.patients {
		if s.patients[i].ID == id {
			return i
		}
	}
	return -1
}

// notifyLocked fires the change hook with a roster copy while the lock is
// still held. Firing under the lock keeps hook invocations in mutation
// order: without it, two mutations on different goroutines could hand
// their snapshots to the persistence boundary reversed, and the older
// roster would become the durable one.
func (s *Store) notifyLocked() {
	if s.onChange == nil {
		return
	}
	snap := make([]Patient, len(s.patients))
	copy(snap, s.patients)
	s.onChange(snap)
}
