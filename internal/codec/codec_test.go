package codec

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElement stands in for a live UI node.
type fakeElement struct{}

func (fakeElement) ElementTag() string { return "div" }

func namedHandler() {}

func TestEncode_Golden(t *testing.T) {
	records := []map[string]any{
		{"id": 1, "name": "Ada", "tags": []any{"a", "b"}},
		nil,
		{
			"id":      "x<y>",
			"onClick": Script{Src: "function () { return 1; }"},
			"node":    fakeElement{},
			"nested":  map[string]any{"b": 2.5, "a": true},
		},
	}

	data, err := Encode(records)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "mixed_records", data)
}

func TestEncode_CallableForms(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		contains string
	}{
		{"script", Script{Src: "x => x + 1"}, `"(x => x + 1);"`},
		{"named go func", namedHandler, `namedHandler);"`},
		{"anonymous go func", func(int) int { return 0 }, `"(`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode([]map[string]any{{"fn": tc.value}})
			require.NoError(t, err)
			assert.Contains(t, string(data), tc.contains)
		})
	}
}

func TestEncode_DropsElementsAndUnrepresentable(t *testing.T) {
	records := []map[string]any{{
		"el":   fakeElement{},
		"ch":   make(chan int),
		"keep": "yes",
	}}

	data, err := Encode(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"keep":"yes"}]`, string(data))
}

func TestEncode_NestedNonDataFollowsJSONRules(t *testing.T) {
	records := []map[string]any{{
		"list": []any{1, Script{Src: "f"}, fakeElement{}},
		"obj":  map[string]any{"fn": namedHandler, "n": 1},
	}}

	data, err := Encode(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"list":[1,null,null],"obj":{"n":1}}]`, string(data))
}

func TestEncode_Scalars(t *testing.T) {
	records := []map[string]any{{
		"u":    uint8(7),
		"i":    int32(-3),
		"f":    1.5,
		"nan":  math.NaN(),
		"inf":  math.Inf(1),
		"nil":  nil,
		"ptr":  (*int)(nil),
		"html": "<b>&</b>",
	}}

	data, err := Encode(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"f":1.5,"html":"<b>&</b>","i":-3,"inf":null,"nan":null,"nil":null,"ptr":null,"u":7}]`, string(data))
}

func TestRoundTrip_DecomposedTextUnchanged(t *testing.T) {
	// "e" + U+0301 and U+00E9 render alike but are different strings, and
	// different keys.
	records := []map[string]any{{
		"name":    "cafe\u0301",
		"e\u0301": "decomposed",
		"\u00e9":  "precomposed",
	}}

	data, err := Encode(records)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"name\":\"cafe\u0301\"")

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Len(t, decoded[0], 3)
	assert.Equal(t, "cafe\u0301", decoded[0]["name"])
	assert.Equal(t, "decomposed", decoded[0]["e\u0301"])
	assert.Equal(t, "precomposed", decoded[0]["\u00e9"])
}

func TestEncode_SelfReferenceIsError(t *testing.T) {
	direct := map[string]any{"id": 1}
	direct["self"] = direct

	nested := map[string]any{"id": 2}
	nested["child"] = map[string]any{"parent": nested}

	list := []any{"x"}
	list[0] = list
	viaSlice := map[string]any{"items": list}

	for name, rec := range map[string]map[string]any{
		"direct":    direct,
		"nested":    nested,
		"via slice": viaSlice,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Encode([]map[string]any{rec})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCycle)
			assert.Contains(t, err.Error(), "record[0]")
		})
	}
}

func TestEncode_SharedValueIsNotCycle(t *testing.T) {
	shared := map[string]any{"n": 1}
	tags := []any{"a"}
	rec := map[string]any{"left": shared, "right": shared, "t1": tags, "t2": tags}

	data, err := Encode([]map[string]any{rec, rec})
	require.NoError(t, err)
	assert.Equal(t,
		`[{"left":{"n":1},"right":{"n":1},"t1":["a"],"t2":["a"]},{"left":{"n":1},"right":{"n":1},"t1":["a"],"t2":["a"]}]`,
		string(data))
}

func TestEncode_NilMarshalerPointer(t *testing.T) {
	var when *time.Time
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	data, err := Encode([]map[string]any{{"when": when, "at": &at}})
	require.NoError(t, err)
	assert.Equal(t, `[{"at":"2024-01-02T03:04:05Z","when":null}]`, string(data))
}

func TestEncode_KeysUTF16Order(t *testing.T) {
	// U+1F600 sorts after U+FF61 in UTF-8 byte order but before it in UTF-16.
	data, err := Encode([]map[string]any{{"\U0001F600": 1, "\uFF61": 2}})
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(data), "\U0001F600"), strings.Index(string(data), "\uFF61"))
}

func TestEncode_Empty(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestEncodeRecord(t *testing.T) {
	data, err := EncodeRecord(map[string]any{"b": 1, "a": "x", "el": fakeElement{}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1}`, string(data))

	data, err = EncodeRecord(nil)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestEncode_UnsupportedMapKey(t *testing.T) {
	_, err := Encode([]map[string]any{{"m": map[int]string{1: "a"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record[0]")
}

func TestDecode_Numbers(t *testing.T) {
	records, err := Decode([]byte(`[{"i":42,"big":9007199254740993,"f":2.5,"nested":{"n":[1,2.0]}}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, int64(42), rec["i"])
	assert.Equal(t, int64(9007199254740993), rec["big"])
	assert.Equal(t, 2.5, rec["f"])
	assert.Equal(t, map[string]any{"n": []any{int64(1), 2.0}}, rec["nested"])
}

func TestDecode_NullIsEmptySlot(t *testing.T) {
	records, err := Decode([]byte(`[{"id":1},null]`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Nil(t, records[1])
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"malformed", `[{"id":`},
		{"empty", ``},
		{"object", `{"id":1}`},
		{"scalar element", `[1]`},
		{"trailing data", `[] []`},
		{"null document", `null`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestDecode_NotArraySentinel(t *testing.T) {
	_, err := Decode([]byte(`"text"`))
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"id":7,"score":1.5,"tags":[1]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": int64(7), "score": 1.5, "tags": []any{int64(1)}}, rec)

	_, err = DecodeRecord([]byte(`[{"id":7}]`))
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = DecodeRecord([]byte(`{"id":7} {"id":8}`))
	assert.Error(t, err)
}

func TestRoundTrip_PlainData(t *testing.T) {
	original := []map[string]any{
		{"id": int64(1), "name": "Ada", "score": 9.5, "ok": true, "tags": []any{"x"}},
		{"id": "b", "meta": map[string]any{"depth": int64(2)}},
	}

	data, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestRoundTrip_CallableBecomesText(t *testing.T) {
	data, err := Encode([]map[string]any{{"fn": Script{Src: "function () {}", Fn: func(args ...any) any { return 1 }}}})
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "(function () {});", decoded[0]["fn"])
}

func TestScript_Call(t *testing.T) {
	s := Script{Src: "double", Fn: func(args ...any) any { return args[0].(int) * 2 }}
	assert.Equal(t, 4, s.Call(2))
	assert.Nil(t, Script{}.Call())
}
