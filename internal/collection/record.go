package collection

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// IDField is the field holding a record's identifier.
const IDField = "id"

// Record is an open-ended mapping from field name to value.
//
// A nil Record marks an empty slot in the sequence; Move creates these when
// it relocates past the end.
type Record map[string]any

// ID returns the record's identifier field.
func (r Record) ID() any {
	return r[IDField]
}

// Truthy reports whether v counts as set: nil, false, zero, NaN and the
// empty string do not; nil maps, slices and pointers do not; everything else does.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// KeyOf stringifies an identifier for the index. Numbers of different Go
// kinds with the same value share a key, so 1, int64(1) and 1.0 all map to "1".
func KeyOf(id any) string {
	switch val := id.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		if f, err := val.Float64(); err == nil {
			return formatFloat(f)
		}
		return val.String()
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(id)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float())
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprint(id)
}

// formatFloat renders f without a trailing ".0" for integral values and
// switches to exponent form outside [1e-6, 1e21).
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Number reports v as a float64 when it holds a number of any Go kind or a
// json.Number.
func Number(v any) (float64, bool) {
	return numeric(v)
}

// numeric converts numeric values to float64.
func numeric(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// increment returns v + 1 keeping v's Go kind.
func increment(v any) (any, bool) {
	switch n := v.(type) {
	case int:
		return n + 1, true
	case int8:
		return n + 1, true
	case int16:
		return n + 1, true
	case int32:
		return n + 1, true
	case int64:
		return n + 1, true
	case uint:
		return n + 1, true
	case uint8:
		return n + 1, true
	case uint16:
		return n + 1, true
	case uint32:
		return n + 1, true
	case uint64:
		return n + 1, true
	case float32:
		return n + 1, true
	case float64:
		return n + 1, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i + 1, true
		}
		if f, err := n.Float64(); err == nil {
			return f + 1, true
		}
	}
	return nil, false
}

// asMap views v as a string-keyed mapping.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Record:
		return m, m != nil
	case map[string]any:
		return m, m != nil
	}
	return nil, false
}

// same reports whether a and b are the same map, not merely equal ones.
func same(a, b Record) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

// toMaps converts a record sequence for the codec.
func toMaps(seq []Record) []map[string]any {
	out := make([]map[string]any, len(seq))
	for i, r := range seq {
		out[i] = r
	}
	return out
}

// fromMaps converts decoded maps into a record sequence.
func fromMaps(maps []map[string]any) []Record {
	out := make([]Record, len(maps))
	for i, m := range maps {
		out[i] = m
	}
	return out
}
