package api

import "pastelsoft.com/medimap/internal/roster"

// Request Types
type ImportRequest struct {
	Text string `json:"text"`
}

type MoveRequest struct {
	RoomID string `json:"roomId"`
}

type MonitoringRequest struct {
	MonitoringType *roster.MonitoringType `json:"monitoringType,omitempty"`
	ExtendedVitals *bool                  `json:"extendedVitals,omitempty"`
	LongTerm       *bool                  `json:"isLongTerm,omitempty"`
}

// Response Types
type ImportResponse struct {
	Accepted       []roster.Patient `json:"accepted"`
	DuplicateCount int              `json:"duplicateCount"`
	InvalidCount   int              `json:"invalidCount"`
}

type RosterResponse struct {
	Rooms  map[string][]roster.Patient `json:"rooms"`
	Counts map[string]int              `json:"counts"`
	Total  int                         `json:"total"`
}

type MoveResponse struct {
	Deleted bool            `json:"deleted"`
	Patient *roster.Patient `json:"patient,omitempty"`
}

type DischargeDefaultsResponse struct {
	Record          roster.DischargeRecord `json:"record"`
	NextPaperNumber string                 `json:"nextPaperNumber"`
	ExpandedUnit    string                 `json:"expandedUnit"`
}

// Constants
const (
	// Maximum accepted upload size for xlsx imports
	maxImportUpload = 10 << 20
)
