package collection

import (
	"encoding/json"
	"math/big"
	"reflect"
)

// Matcher decides whether a record belongs to a query result.
// Implemented by Query (field equality) and Predicate (arbitrary function).
type Matcher interface {
	Match(rec Record) bool
}

// Predicate adapts a function to Matcher. It is called for empty slots too,
// with a nil Record.
type Predicate func(rec Record) bool

// Match calls p.
func (p Predicate) Match(rec Record) bool {
	if p == nil {
		return true
	}
	return p(rec)
}

// Query matches records whose fields are a superset of its key/value pairs.
//
// Comparison rules:
//   - Numbers compare by value across Go kinds (1 == int64(1) == 1.0);
//     two integers compare exactly, even beyond float64 precision
//   - Nested mappings match partially, recursively
//   - Slices match element-wise and must have equal length
//   - Everything else uses reflect.DeepEqual
//
// The empty Query matches every record. Empty slots never match a Query.
type Query map[string]any

// Match reports whether rec satisfies every pair in q.
func (q Query) Match(rec Record) bool {
	if rec == nil {
		return false
	}
	for k, want := range q {
		got, ok := rec[k]
		if !ok {
			return false
		}
		if !valuesMatch(want, got) {
			return false
		}
	}
	return true
}

// Selector picks the records an Update applies to, given the incoming record.
// Implemented by Key and Query.
type Selector interface {
	selectQuery(rec Record) Query
}

// Key selects records whose field equals the incoming record's value for the
// same field. When the incoming value is falsy the selection is the empty
// Query, which matches every record.
type Key string

func (k Key) selectQuery(rec Record) Query {
	if v := rec[string(k)]; Truthy(v) {
		return Query{string(k): v}
	}
	return Query{}
}

func (q Query) selectQuery(Record) Query {
	return q
}

// orAll treats a missing matcher as the empty Query.
func orAll(m Matcher) Matcher {
	if m == nil {
		return Query{}
	}
	return m
}

// valuesMatch compares a query value against a record value.
func valuesMatch(want, got any) bool {
	if wi, ok := integer(want); ok {
		if gi, ok := integer(got); ok {
			return wi.Cmp(gi) == 0
		}
	}
	if wf, ok := numeric(want); ok {
		gf, ok := numeric(got)
		return ok && wf == gf
	}

	if wm, ok := asMap(want); ok {
		gm, ok := asMap(got)
		if !ok {
			return false
		}
		for k, wv := range wm {
			gv, ok := gm[k]
			if !ok || !valuesMatch(wv, gv) {
				return false
			}
		}
		return true
	}

	wv := reflect.ValueOf(want)
	if wv.Kind() == reflect.Slice || wv.Kind() == reflect.Array {
		gv := reflect.ValueOf(got)
		if gv.Kind() != reflect.Slice && gv.Kind() != reflect.Array {
			return false
		}
		if wv.Len() != gv.Len() {
			return false
		}
		for i := 0; i < wv.Len(); i++ {
			if !valuesMatch(wv.Index(i).Interface(), gv.Index(i).Interface()) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(want, got)
}

// integer returns v's exact value when v is an integer: any Go integer kind,
// or a json.Number without fraction or exponent.
func integer(v any) (*big.Int, bool) {
	if n, ok := v.(json.Number); ok {
		return new(big.Int).SetString(n.String(), 10)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true
	}
	return nil, false
}
