package rooms

// Kind classifies what a room is used for.
type Kind string

const (
	KindWard      Kind = "ward"
	KindIsolation Kind = "isolation"
	KindOffice    Kind = "office"
	KindPostOp    Kind = "post_op"
	KindInjection Kind = "injection"
	KindWaiting   Kind = "waiting"
	KindEmergency Kind = "emergency"
)

// WaitingRoomID is the holding bucket newly imported patients land in.
const WaitingRoomID = "waiting"

// Room is one entry of the static room catalogue.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"type"`
}

// directory is the fixed clinic layout. Order matters: reports sort
// patients by this order before sorting by name.
var directory = []Room{
	{ID: "isolation", Name: "Cách Ly", Kind: KindIsolation},
	{ID: "emergency", Name: "Cấp Cứu", Kind: KindEmergency},
	{ID: "ke_bn3", Name: "Kế BN3", Kind: KindWard},
	{ID: "bn3", Name: "Phòng BN3", Kind: KindWard},
	{ID: "bn2", Name: "Phòng BN2", Kind: KindWard},
	{ID: "bn1", Name: "Phòng BN1", Kind: KindWard},
	{ID: "officer", Name: "Sĩ Quan", Kind: KindOffice},
	{ID: "injection", Name: "Tiêm", Kind: KindInjection},
	{ID: "post_op", Name: "Hậu Phẫu", Kind: KindPostOp},
	{ID: WaitingRoomID, Name: "Chờ Xếp Phòng", Kind: KindWaiting},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(directory))
	for i, r := range directory {
		m[r.ID] = i
	}
	return m
}()

// All returns the full catalogue in display order.
func All() []Room {
	out := make([]Room, len(directory))
	copy(out, directory)
	return out
}

// Get looks up a room by id.
func Get(id string) (Room, bool) {
	i, ok := byID[id]
	if !ok {
		return Room{}, false
	}
	return directory[i], true
}

// IsValid reports whether id resolves to a catalogue entry.
func IsValid(id string) bool {
	_, ok := byID[id]
	return ok
}

// DisplayOrder returns the catalogue position of a room, or len(catalogue)
// for unknown ids so they sort after every known room.
func DisplayOrder(id string) int {
	if i, ok := byID[id]; ok {
		return i
	}
	return len(directory)
}
