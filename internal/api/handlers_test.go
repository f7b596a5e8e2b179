package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"pastelsoft.com/medimap/internal/importer"
	"pastelsoft.com/medimap/internal/metrics"
	"pastelsoft.com/medimap/internal/roster"
)

func newTestServer() (*Server, http.Handler) {
	s := NewServer(roster.NewStore(nil), importer.FallbackParser{Local: importer.HeuristicParser{}})
	return s, s.SetupRoutes()
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealthHandler(t *testing.T) {
	_, router := newTestServer()

	rr := doJSON(t, router, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
}

func TestRoomsHandler(t *testing.T) {
	_, router := newTestServer()

	rr := doJSON(t, router, "GET", "/rooms", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var rooms []map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(rooms) != 10 {
		t.Errorf("Expected 10 rooms, got %d", len(rooms))
	}
}

func TestImportEndToEnd(t *testing.T) {
	srv, router := newTestServer()

	// Import one patient against an empty roster
	rr := doJSON(t, router, "POST", "/patients/import", ImportRequest{
		Text: "Nguyen A\t01/01/2000\th1\tcs\tc1\tSốt\t01/01/2024",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var imported ImportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &imported); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if len(imported.Accepted) != 1 || imported.DuplicateCount != 0 || imported.InvalidCount != 0 {
		t.Fatalf("Expected 1 accepted, 0 duplicate, 0 invalid, got %+v", imported)
	}
	id := imported.Accepted[0].ID
	if imported.Accepted[0].RoomID != "waiting" {
		t.Errorf("Expected new patient in waiting, got %q", imported.Accepted[0].RoomID)
	}

	// Move to bn1
	rr = doJSON(t, router, "POST", "/patients/"+id+"/move", MoveRequest{RoomID: "bn1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	// Unfiltered projection groups under bn1
	rr = doJSON(t, router, "GET", "/patients", nil)
	var projection RosterResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &projection); err != nil {
		t.Fatalf("decode roster response: %v", err)
	}
	if projection.Total != 1 {
		t.Fatalf("Expected 1 patient, got %d", projection.Total)
	}
	if len(projection.Rooms["bn1"]) != 1 {
		t.Errorf("Expected patient grouped under bn1, got %+v", projection.Rooms)
	}
	if projection.Counts["bn1"] != 1 {
		t.Errorf("Expected bn1 count 1, got %d", projection.Counts["bn1"])
	}

	// Re-importing the same row is a duplicate
	rr = doJSON(t, router, "POST", "/patients/import", ImportRequest{
		Text: "NGUYEN A\t01/01/2000\th1\tcs\tc1\tSốt\t01/01/2024",
	})
	if err := json.Unmarshal(rr.Body.Bytes(), &imported); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if len(imported.Accepted) != 0 || imported.DuplicateCount != 1 {
		t.Errorf("Expected duplicate rejection, got %+v", imported)
	}
	if srv.store.Len() != 1 {
		t.Errorf("Expected roster to stay at 1, got %d", srv.store.Len())
	}
}

func TestImportCountsInvalidRows(t *testing.T) {
	_, router := newTestServer()

	// second row has no unit column content
	rr := doJSON(t, router, "POST", "/patients/import", ImportRequest{
		Text: "Nguyen A\t01/01/2000\th1\tcs\tc1\tSốt\t01/01/2024\n" +
			"Nguyen B\t02/02/2001\th3\tat",
	})

	var imported ImportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &imported); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if len(imported.Accepted) != 1 {
		t.Errorf("Expected 1 accepted, got %d", len(imported.Accepted))
	}
	if imported.InvalidCount != 1 {
		t.Errorf("Expected 1 invalid, got %d", imported.InvalidCount)
	}
}

func TestFilterQueries(t *testing.T) {
	srv, router := newTestServer()
	srv.store.CreateBatch([]roster.Candidate{
		{Name: "Anh", Rank: "h1", Role: "cs", Unit: "c1", Diagnosis: "Sốt", AdmissionDate: "20/11/2025"},
		{Name: "Binh", Rank: "h3", Role: "at", Unit: "c2", Diagnosis: "Viêm họng", AdmissionDate: "21/11/2025"},
	})

	tests := []struct {
		name      string
		query     string
		wantTotal int
	}{
		{name: "no filters return everything", query: "", wantTotal: 2},
		{name: "search and rank ANDed", query: "?search=An&rank=h1", wantTotal: 1},
		{name: "mismatching rank excludes", query: "?search=An&rank=h3", wantTotal: 0},
		{name: "date substring", query: "?date=21/11", wantTotal: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, router, "GET", "/patients"+tt.query, nil)
			var projection RosterResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &projection); err != nil {
				t.Fatalf("decode roster response: %v", err)
			}
			if projection.Total != tt.wantTotal {
				t.Errorf("Expected %d matches, got %d", tt.wantTotal, projection.Total)
			}
		})
	}
}

func TestMoveToTrashDeletes(t *testing.T) {
	srv, router := newTestServer()
	p := srv.store.CreateBatch([]roster.Candidate{
		{Name: "Anh", Rank: "h1", Role: "cs", Unit: "c1"},
	})[0]

	rr := doJSON(t, router, "POST", "/patients/"+p.ID+"/move", MoveRequest{RoomID: "trash-zone"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var moved MoveResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &moved); err != nil {
		t.Fatalf("decode move response: %v", err)
	}
	if !moved.Deleted {
		t.Errorf("Expected deleted=true")
	}
	if _, ok := srv.store.Get(p.ID); ok {
		t.Errorf("Expected patient gone from store")
	}
}

func TestMoveMetricsCountOnlyEffectiveMutations(t *testing.T) {
	srv, router := newTestServer()
	p := srv.store.CreateBatch([]roster.Candidate{
		{Name: "Anh", Rank: "h1", Role: "cs", Unit: "c1"},
	})[0]

	// same-room move, unknown target and unknown patient change nothing
	// and must not count as applied reassignments
	movesBefore := testutil.ToFloat64(metrics.RoomMovesTotal)
	doJSON(t, router, "POST", "/patients/"+p.ID+"/move", MoveRequest{RoomID: "waiting"})
	doJSON(t, router, "POST", "/patients/"+p.ID+"/move", MoveRequest{RoomID: "bn9"})
	doJSON(t, router, "POST", "/patients/no-such-id/move", MoveRequest{RoomID: "bn1"})
	if got := testutil.ToFloat64(metrics.RoomMovesTotal); got != movesBefore {
		t.Errorf("Expected no room moves counted, got %v new", got-movesBefore)
	}

	doJSON(t, router, "POST", "/patients/"+p.ID+"/move", MoveRequest{RoomID: "bn1"})
	if got := testutil.ToFloat64(metrics.RoomMovesTotal); got != movesBefore+1 {
		t.Errorf("Expected exactly 1 room move counted, got %v new", got-movesBefore)
	}

	// trash-dropping an id that no longer exists is not a deletion
	deletionsBefore := testutil.ToFloat64(metrics.PatientDeletionsTotal)
	rr := doJSON(t, router, "POST", "/patients/no-such-id/move", MoveRequest{RoomID: "trash-zone"})
	if got := testutil.ToFloat64(metrics.PatientDeletionsTotal); got != deletionsBefore {
		t.Errorf("Expected no deletions counted, got %v new", got-deletionsBefore)
	}
	var moved MoveResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &moved); err != nil {
		t.Fatalf("decode move response: %v", err)
	}
	if moved.Deleted {
		t.Errorf("Expected deleted=false for unknown id")
	}

	doJSON(t, router, "POST", "/patients/"+p.ID+"/move", MoveRequest{RoomID: "trash-zone"})
	if got := testutil.ToFloat64(metrics.PatientDeletionsTotal); got != deletionsBefore+1 {
		t.Errorf("Expected exactly 1 deletion counted, got %v new", got-deletionsBefore)
	}
}

func TestDeleteHandler(t *testing.T) {
	srv, router := newTestServer()
	p := srv.store.CreateBatch([]roster.Candidate{
		{Name: "Anh", Rank: "h1", Role: "cs", Unit: "c1"},
	})[0]

	rr := doJSON(t, router, "DELETE", "/patients/"+p.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if srv.store.Len() != 0 {
		t.Errorf("Expected empty roster after delete")
	}

	// deleting again is a no-op, not an error
	rr = doJSON(t, router, "DELETE", "/patients/"+p.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on repeat delete, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "false") {
		t.Errorf("Expected deleted=false, got %s", rr.Body.String())
	}
}

func TestUpdatePatientHandler(t *testing.T) {
	srv, router := newTestServer()
	p := srv.store.CreateBatch([]roster.Candidate{
		{Name: "Anh", Rank: "h1", Role: "cs", Unit: "c1"},
	})[0]

	rr := doJSON(t, router, "PATCH", "/patients/"+p.ID, map[string]string{
		"diagnosis": "Viêm phế quản",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	got, _ := srv.store.Get(p.ID)
	if got.Diagnosis != "Viêm phế quản" {
		t.Errorf("Expected diagnosis updated, got %q", got.Diagnosis)
	}

	// unknown id: 200 with updated=false
	rr = doJSON(t, router, "PATCH", "/patients/no-such-id", map[string]string{"name": "x"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for unknown id, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "false") {
		t.Errorf("Expected updated=false, got %s", rr.Body.String())
	}
}

func TestDischargeFlow(t *testing.T) {
	srv, router := newTestServer()
	p := srv.store.CreateBatch([]roster.Candidate{
		{Name: "Anh", Rank: "h1", Role: "cs", Unit: "c12-d8", Diagnosis: "Sốt, viêm họng cấp N2"},
	})[0]

	// defaults derived from the diagnosis
	rr := doJSON(t, router, "GET", "/patients/"+p.ID+"/discharge/defaults", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var defaults DischargeDefaultsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &defaults); err != nil {
		t.Fatalf("decode defaults: %v", err)
	}
	if defaults.NextPaperNumber != "01" {
		t.Errorf("Expected paper hint 01, got %q", defaults.NextPaperNumber)
	}
	if defaults.Record.Rank != "Hạ sĩ" {
		t.Errorf("Expected mapped rank, got %q", defaults.Record.Rank)
	}
	if defaults.ExpandedUnit != "Đại đội 12 - Tiểu đoàn 8" {
		t.Errorf("Expected expanded unit, got %q", defaults.ExpandedUnit)
	}

	// save, then export includes the patient
	defaults.Record.Hometown = "Hải Phòng"
	rr = doJSON(t, router, "POST", "/patients/"+p.ID+"/discharge", defaults.Record)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	rr = doJSON(t, router, "GET", "/discharge/export", nil)
	var exported []roster.Patient
	if err := json.Unmarshal(rr.Body.Bytes(), &exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(exported) != 1 || exported[0].Discharge == nil {
		t.Fatalf("Expected 1 exported patient with record, got %+v", exported)
	}
	if exported[0].Discharge.Hometown != "Hải Phòng" {
		t.Errorf("Expected saved hometown, got %q", exported[0].Discharge.Hometown)
	}

	// hint advances once a record exists
	rr = doJSON(t, router, "GET", "/patients/"+p.ID+"/discharge/defaults", nil)
	if err := json.Unmarshal(rr.Body.Bytes(), &defaults); err != nil {
		t.Fatalf("decode defaults: %v", err)
	}
	if defaults.Record.Hometown != "Hải Phòng" {
		t.Errorf("Expected existing record verbatim, got %+v", defaults.Record)
	}

	// defaults for a missing patient are a 404
	rr = doJSON(t, router, "GET", "/patients/no-such-id/discharge/defaults", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestMonitoringEndpoints(t *testing.T) {
	srv, router := newTestServer()
	batch := srv.store.CreateBatch([]roster.Candidate{
		{Name: "Anh", Rank: "h1", Role: "cs", Unit: "c1"},
		{Name: "Binh", Rank: "h3", Role: "at", Unit: "c2"},
	})
	srv.store.MoveRoom(batch[0].ID, "bn1")

	rr := doJSON(t, router, "POST", "/patients/"+batch[0].ID+"/monitoring", map[string]interface{}{
		"monitoringType": "3h",
		"isLongTerm":     true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	// only the monitored, non-waiting patient lands on the sheet
	rr = doJSON(t, router, "GET", "/monitoring/sheet", nil)
	var sheet []roster.Patient
	if err := json.Unmarshal(rr.Body.Bytes(), &sheet); err != nil {
		t.Fatalf("decode sheet: %v", err)
	}
	if len(sheet) != 1 || sheet[0].ID != batch[0].ID {
		t.Fatalf("Expected only the monitored bn1 patient, got %+v", sheet)
	}
	if !sheet[0].LongTerm {
		t.Errorf("Expected long-term flag set")
	}
}

func TestInvalidJSONBodies(t *testing.T) {
	srv, router := newTestServer()
	p := srv.store.CreateBatch([]roster.Candidate{
		{Name: "Anh", Rank: "h1", Role: "cs", Unit: "c1"},
	})[0]

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "move", method: "POST", path: "/patients/" + p.ID + "/move"},
		{name: "patch", method: "PATCH", path: "/patients/" + p.ID},
		{name: "discharge save", method: "POST", path: "/patients/" + p.ID + "/discharge"},
		{name: "monitoring", method: "POST", path: "/patients/" + p.ID + "/monitoring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{not json"))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected JSON content type on error, got %q", ct)
			}
		})
	}
}

func TestErrorResponsesCarryJSONContentType(t *testing.T) {
	srv, router := newTestServer()
	p := srv.store.CreateBatch([]roster.Candidate{
		{Name: "Anh", Rank: "h1", Role: "cs", Unit: "c1"},
	})[0]

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "import bad body", method: "POST", path: "/patients/import", body: "{not json", wantStatus: http.StatusBadRequest},
		{name: "defaults unknown patient", method: "GET", path: "/patients/no-such-id/discharge/defaults", wantStatus: http.StatusNotFound},
		{name: "move unknown patient", method: "POST", path: "/patients/no-such-id/move", body: `{"roomId":"bn1"}`, wantStatus: http.StatusNotFound},
		{name: "move bad body", method: "POST", path: "/patients/" + p.ID + "/move", body: "{not json", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected JSON content type, got %q", ct)
			}
		})
	}
}
