package gesture

import (
	"github.com/rs/zerolog/log"

	"pastelsoft.com/medimap/internal/roster"
	"pastelsoft.com/medimap/internal/rooms"
)

// TrashTarget is the drop target that deletes the dragged patient instead of
// moving it.
const TrashTarget = "trash-zone"

// Mover is the slice of the patient store the gesture handler mutates
// through.
type Mover interface {
	Get(id string) (roster.Patient, bool)
	MoveRoom(id, targetRoomID string) bool
	Delete(id string) bool
}

// Outcome reports what completing a gesture actually did to the store.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeMoved
	OutcomeDeleted
)

// Handler interprets one in-flight move gesture at a time. The interaction
// model is single-pointer, so at most one patient is ever active; a second
// Start while one is in flight is an invariant violation and replaces the
// stale gesture.
type Handler struct {
	mover  Mover
	active string
}

// NewHandler builds a gesture handler over the given store.
func NewHandler(m Mover) *Handler {
	return &Handler{mover: m}
}

// Start begins a gesture for the given patient.
func (h *Handler) Start(patientID string) {
	if h.active != "" {
		log.Warn().
			Str("active", h.active).
			Str("starting", patientID).
			Msg("Gesture started while another was active")
	}
	h.active = patientID
}

// End completes the gesture against a drop target. The trash sentinel
// deletes the patient; a valid room different from the current one moves it;
// anything else (no target, unknown target, current room) mutates nothing.
// The handler returns to idle either way. The returned outcome reflects the
// store's answer, so a drop on an already-deleted patient reports
// OutcomeNone.
func (h *Handler) End(targetID string) Outcome {
	patientID := h.active
	h.active = ""
	if patientID == "" {
		return OutcomeNone
	}

	switch {
	case targetID == TrashTarget:
		if h.mover.Delete(patientID) {
			return OutcomeDeleted
		}
	case rooms.IsValid(targetID):
		if p, ok := h.mover.Get(patientID); ok && p.RoomID != targetID {
			if h.mover.MoveRoom(patientID, targetID) {
				return OutcomeMoved
			}
		}
	default:
		log.Debug().
			Str("id", patientID).
			Str("target", targetID).
			Msg("Gesture dropped outside any room")
	}
	return OutcomeNone
}

// Cancel abandons the gesture without touching the store.
func (h *Handler) Cancel() {
	h.active = ""
}

// Active returns the patient id of the in-flight gesture, if any.
func (h *Handler) Active() (string, bool) {
	return h.active, h.active != ""
}
