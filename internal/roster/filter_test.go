package roster

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixture() []Patient {
	return []Patient{
		{ID: "p1", Name: "Anh", Rank: "h1", Diagnosis: "Sốt", AdmissionDate: "20/11/2025", RoomID: "bn1"},
		{ID: "p2", Name: "Bình", Rank: "h3", Diagnosis: "Viêm họng cấp", AdmissionDate: "21/11/2025", RoomID: "bn1"},
		{ID: "p3", Name: "Cường", Rank: "h1", Diagnosis: "Viêm hạch", AdmissionDate: "21/11/2025", RoomID: "waiting"},
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		wantIDs  []string
	}{
		{
			name:     "blank criteria return everything",
			criteria: Criteria{},
			wantIDs:  []string{"p1", "p2", "p3"},
		},
		{
			name:     "search matches name case-insensitively",
			criteria: Criteria{Search: "an"},
			wantIDs:  []string{"p1"},
		},
		{
			name:     "search matches diagnosis too",
			criteria: Criteria{Search: "viêm"},
			wantIDs:  []string{"p2", "p3"},
		},
		{
			name:     "search and rank are ANDed",
			criteria: Criteria{Search: "An", Rank: "h1"},
			wantIDs:  []string{"p1"},
		},
		{
			name:     "mismatching rank excludes the same patient",
			criteria: Criteria{Search: "An", Rank: "h3"},
			wantIDs:  []string{},
		},
		{
			name:     "date is a substring match on admission date",
			criteria: Criteria{Date: "21/11"},
			wantIDs:  []string{"p2", "p3"},
		},
		{
			name:     "all three criteria combined",
			criteria: Criteria{Search: "viêm", Rank: "h1", Date: "21/11"},
			wantIDs:  []string{"p3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(fixture(), tt.criteria)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			require.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestProjectPreservesOrder(t *testing.T) {
	got := Project(fixture(), Criteria{})
	require.Equal(t, "p1", got[0].ID)
	require.Equal(t, "p2", got[1].ID)
	require.Equal(t, "p3", got[2].ID)
}

func TestGroupByRoom(t *testing.T) {
	groups := GroupByRoom(fixture())
	require.Len(t, groups["bn1"], 2)
	require.Len(t, groups["waiting"], 1)
	// order-preserving partition
	require.Equal(t, "p1", groups["bn1"][0].ID)
	require.Equal(t, "p2", groups["bn1"][1].ID)
}

func TestRoomCounts(t *testing.T) {
	counts := RoomCounts(fixture())
	require.Equal(t, map[string]int{"bn1": 2, "waiting": 1}, counts)
}
