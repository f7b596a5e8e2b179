package roster

import "strings"

// Criteria is the transient, session-scoped filter state. Blank fields are
// inactive and always match.
type Criteria struct {
	Search string `json:"search"`
	Rank   string `json:"rank"`
	Date   string `json:"date"`
}

// Project returns the patients matching every active criterion. Search
// matches name or diagnosis case-insensitively; rank and date are
// case-insensitive substring matches against rank and admission date.
func Project(patients []Patient, c Criteria) []Patient {
	search := strings.ToLower(c.Search)
	rank := strings.ToLower(c.Rank)
	date := strings.ToLower(c.Date)

	out := make([]Patient, 0, len(patients))
	for _, p := range patients {
		matchSearch := search == "" ||
			strings.Contains(strings.ToLower(p.Name), search) ||
			strings.Contains(strings.ToLower(p.Diagnosis), search)
		matchRank := rank == "" || strings.Contains(strings.ToLower(p.Rank), rank)
		matchDate := date == "" || strings.Contains(strings.ToLower(p.AdmissionDate), date)

		if matchSearch && matchRank && matchDate {
			out = append(out, p)
		}
	}
	return out
}

// GroupByRoom partitions patients by room id, preserving input order within
// each room.
func GroupByRoom(patients []Patient) map[string][]Patient {
	out := make(map[string][]Patient)
	for _, p := range patients {
		out[p.RoomID] = append(out[p.RoomID], p)
	}
	return out
}

// RoomCounts returns the partition sizes per room id.
func RoomCounts(patients []Patient) map[string]int {
	out := make(map[string]int)
	for _, p := range patients {
		out[p.RoomID]++
	}
	return out
}
