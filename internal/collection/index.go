package collection

// IndexState describes what the id index knows about a key.
type IndexState int

const (
	// Absent means the key was never indexed (or was dropped by a Flush).
	Absent IndexState = iota
	// Live means the key maps to a record currently in the sequence.
	Live
	// Tombstoned means the key's record was removed.
	Tombstoned
)

// String returns the state name.
func (s IndexState) String() string {
	switch s {
	case Live:
		return "live"
	case Tombstoned:
		return "tombstoned"
	default:
		return "absent"
	}
}

// idIndex maps stringified ids to the record holding them. A present key
// with a nil record is a tombstone.
type idIndex struct {
	entries map[string]Record
}

func newIDIndex() *idIndex {
	return &idIndex{entries: make(map[string]Record)}
}

// put indexes rec under its id when the id is truthy.
func (x *idIndex) put(rec Record) {
	if rec == nil {
		return
	}
	if id := rec.ID(); Truthy(id) {
		x.entries[KeyOf(id)] = rec
	}
}

// tombstone marks key as removed if it currently points at rec.
// Reports whether the entry changed.
func (x *idIndex) tombstone(key string, rec Record) bool {
	cur, ok := x.entries[key]
	if !ok || !same(cur, rec) {
		return false
	}
	x.entries[key] = nil
	return true
}

func (x *idIndex) lookup(key string) (Record, IndexState) {
	rec, ok := x.entries[key]
	switch {
	case !ok:
		return nil, Absent
	case rec == nil:
		return nil, Tombstoned
	default:
		return rec, Live
	}
}

// repair re-points tombstoned keys at any record in seq still carrying that
// id, the last such record winning. Needed when duplicates share an id.
func (x *idIndex) repair(seq []Record, keys map[string]struct{}) {
	if len(keys) == 0 {
		return
	}
	for _, rec := range seq {
		if rec == nil || !Truthy(rec.ID()) {
			continue
		}
		key := KeyOf(rec.ID())
		if _, ok := keys[key]; ok {
			x.entries[key] = rec
		}
	}
}

// rebuild replaces the index with one built from seq. Keys that were live
// before and have no record in seq become tombstones.
func (x *idIndex) rebuild(seq []Record) {
	previous := x.entries
	x.entries = make(map[string]Record, len(seq))
	for _, rec := range seq {
		x.put(rec)
	}
	for key, rec := range previous {
		if rec == nil {
			continue
		}
		if _, ok := x.entries[key]; !ok {
			x.entries[key] = nil
		}
	}
}

// len counts live entries.
func (x *idIndex) len() int {
	n := 0
	for _, rec := range x.entries {
		if rec != nil {
			n++
		}
	}
	return n
}
