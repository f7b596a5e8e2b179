package monitoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pastelsoft.com/medimap/internal/roster"
)

func TestSetters(t *testing.T) {
	s := roster.NewStore(nil)
	p := s.CreateBatch([]roster.Candidate{{Name: "A", Rank: "h1", Role: "cs", Unit: "c1"}})[0]
	svc := NewService(s)

	require.True(t, svc.SetType(p.ID, roster.MonitoringEvery3Hours))
	require.True(t, svc.SetExtendedVitals(p.ID, true))
	require.True(t, svc.SetFlagged(p.ID, true))

	got, _ := s.Get(p.ID)
	require.Equal(t, roster.MonitoringEvery3Hours, got.MonitoringType)
	require.True(t, got.ExtendedVitals)
	require.True(t, got.LongTerm)

	// unknown id is a silent no-op
	require.False(t, svc.SetType("no-such-id", roster.MonitoringNone))
}

func TestSheetEntries(t *testing.T) {
	patients := []roster.Patient{
		{Name: "Waiting", RoomID: "waiting", MonitoringType: roster.MonitoringEvery3Hours},
		{Name: "Unmonitored", RoomID: "bn1", MonitoringType: roster.MonitoringNone},
		{Name: "Binh", RoomID: "bn1", MonitoringType: roster.MonitoringMorningNoonEvening},
		{Name: "Anh", RoomID: "bn1", MonitoringType: roster.MonitoringEvery3Hours},
		{Name: "Cach", RoomID: "isolation", MonitoringType: roster.MonitoringEvery3Hours},
	}

	got := SheetEntries(patients)

	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name
	}
	// isolation comes before bn1 in room display order; names break ties
	require.Equal(t, []string{"Cach", "Anh", "Binh"}, names)
}

func TestSheetEntriesEmpty(t *testing.T) {
	require.Empty(t, SheetEntries(nil))
	require.Empty(t, SheetEntries([]roster.Patient{
		{Name: "Waiting", RoomID: "waiting", MonitoringType: roster.MonitoringEvery3Hours},
	}))
}
