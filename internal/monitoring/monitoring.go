package monitoring

import (
	"sort"

	"pastelsoft.com/medimap/internal/rooms"
	"pastelsoft.com/medimap/internal/roster"
)

// Service holds the per-patient monitoring flags. Each setter is a thin
// field update; grid and report layout based on these flags belongs to the
// reporting collaborator.
type Service struct {
	store *roster.Store
}

// NewService wraps the store.
func NewService(store *roster.Store) *Service {
	return &Service{store: store}
}

// SetType changes the vitals-check cadence.
func (s *Service) SetType(id string, t roster.MonitoringType) bool {
	return s.store.UpdateFields(id, roster.FieldPatch{MonitoringType: &t})
}

// SetExtendedVitals toggles the extended vitals marker.
func (s *Service) SetExtendedVitals(id string, v bool) bool {
	return s.store.UpdateFields(id, roster.FieldPatch{ExtendedVitals: &v})
}

// SetFlagged toggles the long-term treatment marker.
func (s *Service) SetFlagged(id string, v bool) bool {
	return s.store.UpdateFields(id, roster.FieldPatch{LongTerm: &v})
}

// SheetEntries returns the patients that belong on the vitals sheet:
// everyone except the waiting bucket and the unmonitored, ordered by room
// display order then name. Data only; the sheet's formatting lives in the
// reporting collaborator.
func SheetEntries(patients []roster.Patient) []roster.Patient {
	out := make([]roster.Patient, 0, len(patients))
	for _, p := range patients {
		if p.RoomID == rooms.WaitingRoomID || p.MonitoringType == roster.MonitoringNone {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := rooms.DisplayOrder(out[i].RoomID), rooms.DisplayOrder(out[j].RoomID)
		if oi != oj {
			return oi < oj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
