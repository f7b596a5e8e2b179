package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"pastelsoft.com/medimap/internal/discharge"
	"pastelsoft.com/medimap/internal/gesture"
	"pastelsoft.com/medimap/internal/importer"
	"pastelsoft.com/medimap/internal/metrics"
	"pastelsoft.com/medimap/internal/monitoring"
	"pastelsoft.com/medimap/internal/rooms"
	"pastelsoft.com/medimap/internal/roster"
)

// HealthHandler reports service liveness
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// RoomsHandler returns the static room catalogue in display order
func RoomsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(rooms.All())
}

// ListPatientsHandler returns the filtered, room-grouped roster projection
func (s *Server) ListPatientsHandler(w http.ResponseWriter, r *http.Request) {
	criteria := roster.Criteria{
		Search: r.URL.Query().Get("search"),
		Rank:   r.URL.Query().Get("rank"),
		Date:   r.URL.Query().Get("date"),
	}

	filtered := roster.Project(s.store.All(), criteria)

	log.Debug().
		Str("search", criteria.Search).
		Str("rank", criteria.Rank).
		Str("date", criteria.Date).
		Int("matched", len(filtered)).
		Msg("Roster projection requested")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(RosterResponse{
		Rooms:  roster.GroupByRoom(filtered),
		Counts: roster.RoomCounts(filtered),
		Total:  len(filtered),
	})
}

// ImportHandler runs the full import pipeline: raw text or xlsx upload,
// parse, screen against the existing roster, append survivors
func (s *Server) ImportHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	raw, err := s.importText(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read import payload")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": err.Error(),
		})
		return
	}

	candidates, err := s.parser.Parse(r.Context(), raw)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse import payload")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Parsing failed",
		})
		return
	}

	result := importer.Screen(candidates, s.store.All())
	created := s.store.CreateBatch(result.Accepted)

	metrics.RecordImportResults("accepted", len(result.Accepted))
	metrics.RecordImportResults("duplicate", result.DuplicateCount)
	metrics.RecordImportResults("invalid", result.InvalidCount)
	metrics.RosterSize.Set(float64(s.store.Len()))

	log.Info().
		Int("accepted", len(result.Accepted)).
		Int("duplicates", result.DuplicateCount).
		Int("invalid", result.InvalidCount).
		Msg("Import batch processed")

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ImportResponse{
		Accepted:       created,
		DuplicateCount: result.DuplicateCount,
		InvalidCount:   result.InvalidCount,
	})
}

// importText pulls the raw report text out of the request: either a JSON
// body with a text field, or a multipart xlsx upload under "file".
func (s *Server) importText(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportUpload); err != nil {
			return "", err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", err
		}
		defer file.Close()
		return importer.ReadWorkbook(file)
	}

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	return req.Text, nil
}

// UpdatePatientHandler merges a partial field patch into a patient
func (s *Server) UpdatePatientHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var patch roster.FieldPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to decode patch")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Invalid JSON format",
		})
		return
	}

	updated := s.store.UpdateFields(id, patch)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{
		"updated": updated,
	})
}

// MovePatientHandler applies a move intent through the gesture state
// machine: a room id relocates the patient, the trash sentinel deletes it
func (s *Server) MovePatientHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to decode move request")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Invalid JSON format",
		})
		return
	}

	s.gestureMu.Lock()
	s.gestures.Start(id)
	outcome := s.gestures.End(req.RoomID)
	s.gestureMu.Unlock()

	if req.RoomID == gesture.TrashTarget {
		if outcome == gesture.OutcomeDeleted {
			metrics.PatientDeletionsTotal.Inc()
			metrics.RosterSize.Set(float64(s.store.Len()))
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MoveResponse{Deleted: outcome == gesture.OutcomeDeleted})
		return
	}

	if outcome == gesture.OutcomeMoved {
		metrics.RoomMovesTotal.Inc()
	}
	p, ok := s.store.Get(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Patient not found",
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(MoveResponse{Patient: &p})
}

// DeletePatientHandler removes a patient outright
func (s *Server) DeletePatientHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	deleted := s.store.Delete(id)
	if deleted {
		metrics.PatientDeletionsTotal.Inc()
		metrics.RosterSize.Set(float64(s.store.Len()))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{
		"deleted": deleted,
	})
}

// DischargeDefaultsHandler returns the record to pre-fill the discharge
// editor with, plus the current paper-number hint
func (s *Server) DischargeDefaultsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	p, ok := s.store.Get(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Patient not found",
		})
		return
	}

	hint := discharge.NextPaperNumber(s.store.All())

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(DischargeDefaultsResponse{
		Record:          discharge.OpenDefaults(p, hint),
		NextPaperNumber: hint,
		ExpandedUnit:    discharge.ExpandUnit(p.Unit),
	})
}

// SaveDischargeHandler replaces a patient's discharge record wholesale
func (s *Server) SaveDischargeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var rec roster.DischargeRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to decode discharge record")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Invalid JSON format",
		})
		return
	}

	saved := discharge.Save(s.store, id, rec)

	log.Info().
		Str("id", id).
		Str("paper_number", rec.PaperNumber).
		Bool("saved", saved).
		Msg("Discharge record save requested")

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{
		"saved": saved,
	})
}

// ExportHandler returns the patients holding discharge records in paper
// export order
func (s *Server) ExportHandler(w http.ResponseWriter, r *http.Request) {
	all := s.store.All()
	withRecords := make([]roster.Patient, 0, len(all))
	for _, p := range all {
		if p.Discharge != nil {
			withRecords = append(withRecords, p)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(discharge.SortForExport(withRecords))
}

// MonitoringHandler applies the per-patient monitoring flags
func (s *Server) MonitoringHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var req MonitoringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to decode monitoring request")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Invalid JSON format",
		})
		return
	}

	updated := false
	if req.MonitoringType != nil {
		updated = s.monitoring.SetType(id, *req.MonitoringType) || updated
	}
	if req.ExtendedVitals != nil {
		updated = s.monitoring.SetExtendedVitals(id, *req.ExtendedVitals) || updated
	}
	if req.LongTerm != nil {
		updated = s.monitoring.SetFlagged(id, *req.LongTerm) || updated
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{
		"updated": updated,
	})
}

// SheetHandler returns the vitals-sheet entries for the reporting
// collaborator
func (s *Server) SheetHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(monitoring.SheetEntries(s.store.All()))
}
