package collection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_Match(t *testing.T) {
	rec := Record{
		"id":    int64(1),
		"name":  "Ada",
		"tags":  []any{"x", "y"},
		"owner": map[string]any{"name": "Grace", "team": "core"},
		"nil":   nil,
	}

	testCases := []struct {
		name  string
		query Query
		want  bool
	}{
		{"empty query", Query{}, true},
		{"nil query", nil, true},
		{"single field", Query{"name": "Ada"}, true},
		{"number across kinds", Query{"id": 1}, true},
		{"number as float", Query{"id": 1.0}, true},
		{"number mismatch", Query{"id": 2}, false},
		{"number vs string", Query{"id": "1"}, false},
		{"missing field", Query{"age": 3}, false},
		{"all fields", Query{"id": 1, "name": "Ada"}, true},
		{"one field wrong", Query{"id": 1, "name": "Bob"}, false},
		{"nested partial", Query{"owner": map[string]any{"team": "core"}}, true},
		{"nested record", Query{"owner": Record{"name": "Grace"}}, true},
		{"nested mismatch", Query{"owner": map[string]any{"team": "ops"}}, false},
		{"slice equal", Query{"tags": []any{"x", "y"}}, true},
		{"slice typed", Query{"tags": []string{"x", "y"}}, true},
		{"slice shorter", Query{"tags": []any{"x"}}, false},
		{"explicit nil", Query{"nil": nil}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.query.Match(rec))
		})
	}
}

func TestQuery_LargeIntegersCompareExactly(t *testing.T) {
	const base = int64(1) << 53
	rec := Record{"id": base + 1, "u": uint64(1<<63 + 1)}

	assert.True(t, Query{"id": base + 1}.Match(rec))
	assert.False(t, Query{"id": base}.Match(rec), "2^53 and 2^53+1 are the same float64")
	assert.True(t, Query{"id": json.Number("9007199254740993")}.Match(rec))
	assert.True(t, Query{"u": uint64(1<<63 + 1)}.Match(rec))
	assert.False(t, Query{"u": uint64(1 << 63)}.Match(rec))
	assert.False(t, Query{"u": int64(-1)}.Match(rec))

	// An integer against a float still compares by value.
	assert.True(t, Query{"id": 2.0}.Match(Record{"id": 2}))
}

func TestQuery_EmptySlotNeverMatches(t *testing.T) {
	assert.False(t, Query{}.Match(nil))
}

func TestPredicate_Match(t *testing.T) {
	p := Predicate(func(r Record) bool { return r["ok"] == true })

	assert.True(t, p.Match(Record{"ok": true}))
	assert.False(t, p.Match(Record{}))
	assert.False(t, p.Match(nil))
	assert.True(t, Predicate(nil).Match(Record{}))
}

func TestKey_SelectQuery(t *testing.T) {
	assert.Equal(t, Query{"id": 3}, Key("id").selectQuery(Record{"id": 3, "x": 1}))
	assert.Equal(t, Query{}, Key("id").selectQuery(Record{"x": 1}))
	assert.Equal(t, Query{}, Key("id").selectQuery(Record{"id": ""}))
	assert.Equal(t, Query{"slug": "a"}, Key("slug").selectQuery(Record{"slug": "a"}))
}

func TestQuery_SelectQueryIsItself(t *testing.T) {
	q := Query{"kind": "task"}
	assert.Equal(t, q, q.selectQuery(Record{"kind": "note"}))
}
