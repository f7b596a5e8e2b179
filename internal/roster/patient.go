package roster

// MonitoringType is the vitals-check cadence attached to a patient. The wire
// values match what existing saved rosters already contain.
type MonitoringType string

const (
	// MonitoringNone means the patient is not on the vitals sheet.
	MonitoringNone MonitoringType = "none"
	// MonitoringEvery3Hours is the three-hour cadence.
	MonitoringEvery3Hours MonitoringType = "3h"
	// MonitoringMorningNoonEvening is the sáng/trưa/chiều cadence.
	MonitoringMorningNoonEvening MonitoringType = "stc"
)

// DischargeRecord holds the finalized wording used to produce discharge
// papers. Rank, role and diagnosis are snapshots and may diverge from the
// live patient fields once edited.
type DischargeRecord struct {
	PaperNumber   string `json:"paperNumber"`
	Hometown      string `json:"hometown"`
	DischargeDate string `json:"dischargeDate"`
	Meds          string `json:"meds"`
	Condition     string `json:"condition"`
	Rank          string `json:"rank"`
	Role          string `json:"role"`
	Diagnosis     string `json:"diagnosis"`
	Discipline    string `json:"discipline"`
}

// Patient is one roster entry. A patient always belongs to exactly one room;
// RoomID resolves to the room catalogue or the waiting bucket.
type Patient struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	DOB            string           `json:"dob"`
	Rank           string           `json:"rank"`
	Role           string           `json:"role"`
	Unit           string           `json:"unit"`
	Diagnosis      string           `json:"diagnosis"`
	AdmissionDate  string           `json:"admissionDate"`
	RoomID         string           `json:"roomId"`
	MonitoringType MonitoringType   `json:"monitoringType"`
	LongTerm       bool             `json:"isLongTerm"`
	ExtendedVitals bool             `json:"extendedVitals"`
	Discharge      *DischargeRecord `json:"dischargeInfo,omitempty"`
}

// Candidate is an externally parsed patient row before it gets an id and a
// room assignment.
type Candidate struct {
	Name          string `json:"name"`
	DOB           string `json:"dob"`
	Rank          string `json:"rank"`
	Role          string `json:"role"`
	Unit          string `json:"unit"`
	Diagnosis     string `json:"diagnosis"`
	AdmissionDate string `json:"admissionDate"`
}

// FieldPatch is a partial patient update. Nil fields are left untouched.
// Discharge replaces the whole record when set; records are never removed
// through a patch.
type FieldPatch struct {
	Name           *string          `json:"name,omitempty"`
	DOB            *string          `json:"dob,omitempty"`
	Rank           *string          `json:"rank,omitempty"`
	Role           *string          `json:"role,omitempty"`
	Unit           *string          `json:"unit,omitempty"`
	Diagnosis      *string          `json:"diagnosis,omitempty"`
	AdmissionDate  *string          `json:"admissionDate,omitempty"`
	MonitoringType *MonitoringType  `json:"monitoringType,omitempty"`
	LongTerm       *bool            `json:"isLongTerm,omitempty"`
	ExtendedVitals *bool            `json:"extendedVitals,omitempty"`
	Discharge      *DischargeRecord `json:"dischargeInfo,omitempty"`
}

func (p *Patient) apply(patch FieldPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.DOB != nil {
		p.DOB = *patch.DOB
	}
	if patch.Rank != nil {
		p.Rank = *patch.Rank
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.Diagnosis != nil {
		p.Diagnosis = *patch.Diagnosis
	}
	if patch.AdmissionDate != nil {
		p.AdmissionDate = *patch.AdmissionDate
	}
	if patch.MonitoringType != nil {
		p.MonitoringType = *patch.MonitoringType
	}
	if patch.LongTerm != nil {
		p.LongTerm = *patch.LongTerm
	}
	if patch.ExtendedVitals != nil {
		p.ExtendedVitals = *patch.ExtendedVitals
	}
	if patch.Discharge != nil {
		rec := *patch.Discharge
		p.Discharge = &rec
	}
}
