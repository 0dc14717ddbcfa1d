package collection

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	var nilMap map[string]any
	var nilSlice []any
	var nilPtr *int

	testCases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"string", "a", true},
		{"zero int", 0, false},
		{"int", -3, true},
		{"zero uint", uint8(0), false},
		{"zero float", 0.0, false},
		{"NaN", math.NaN(), false},
		{"float", 0.5, true},
		{"json number zero", json.Number("0"), false},
		{"json number", json.Number("12"), true},
		{"nil map", nilMap, false},
		{"empty map", map[string]any{}, true},
		{"nil slice", nilSlice, false},
		{"empty slice", []any{}, true},
		{"nil pointer", nilPtr, false},
		{"struct", struct{}{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Truthy(tc.value))
		})
	}
}

func TestKeyOf(t *testing.T) {
	testCases := []struct {
		name string
		id   any
		want string
	}{
		{"string", "abc", "abc"},
		{"int", 1, "1"},
		{"int64", int64(-9), "-9"},
		{"uint", uint(7), "7"},
		{"integral float", 1.0, "1"},
		{"fraction", 2.5, "2.5"},
		{"large float", 1e21, "1e+21"},
		{"json number", json.Number("42"), "42"},
		{"json float number", json.Number("4.0"), "4"},
		{"bool", true, "true"},
		{"slice", []int{1, 2}, "[1 2]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KeyOf(tc.id))
		})
	}
}

func TestIncrement_PreservesKind(t *testing.T) {
	testCases := []struct {
		in   any
		want any
	}{
		{1, 2},
		{int32(1), int32(2)},
		{int64(9), int64(10)},
		{uint16(3), uint16(4)},
		{1.5, 2.5},
		{float32(0.5), float32(1.5)},
		{json.Number("4"), int64(5)},
	}

	for _, tc := range testCases {
		got, ok := increment(tc.in)
		assert.True(t, ok, "%T", tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, ok := increment("1")
	assert.False(t, ok)
	_, ok = increment(nil)
	assert.False(t, ok)
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, 3, Record{"id": 3}.ID())
	assert.Nil(t, Record(nil).ID())
}

func TestSame(t *testing.T) {
	a := Record{"x": 1}
	b := Record{"x": 1}

	assert.True(t, same(a, a))
	assert.False(t, same(a, b))
	assert.True(t, same(nil, nil))
	assert.False(t, same(a, nil))
}
