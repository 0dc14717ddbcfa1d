package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"unicode/utf16"
)

// ErrCycle is returned when a record contains itself through a nested map
// or slice.
var ErrCycle = errors.New("collectionize: record contains a cycle")

// encodeState is the output buffer plus the maps and slices currently being
// written, used to stop on self-referencing values.
type encodeState struct {
	bytes.Buffer
	active map[any]struct{}
}

func newEncodeState() *encodeState {
	return &encodeState{active: make(map[any]struct{})}
}

// enter marks a map or slice as being written. It fails if the value is
// already on the current path.
func (e *encodeState) enter(id any) error {
	if _, ok := e.active[id]; ok {
		return ErrCycle
	}
	e.active[id] = struct{}{}
	return nil
}

func (e *encodeState) leave(id any) {
	delete(e.active, id)
}

type sliceID struct {
	ptr uintptr
	len int
}

// Encode serializes records to the persisted format.
func Encode(records []map[string]any) ([]byte, error) {
	e := newEncodeState()
	e.WriteByte('[')

	for i, rec := range records {
		if i > 0 {
			e.WriteByte(',')
		}
		if err := e.encodeRecord(rec); err != nil {
			return nil, fmt.Errorf("record[%d]: %w", i, err)
		}
	}

	e.WriteByte(']')
	return e.Bytes(), nil
}

// EncodeRecord serializes a single record the way Encode writes each element.
func EncodeRecord(rec map[string]any) ([]byte, error) {
	e := newEncodeState()
	if err := e.encodeRecord(rec); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// encodeRecord writes one record, applying the top-level callable and
// element rules before falling through to plain JSON.
func (e *encodeState) encodeRecord(rec map[string]any) error {
	if rec != nil {
		id := reflect.ValueOf(rec).Pointer()
		if err := e.enter(id); err != nil {
			return err
		}
		defer e.leave(id)
	}

	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		if src, ok := callableSource(v); ok {
			fields[k] = Invocation(src)
			continue
		}
		if isElement(v) {
			continue
		}
		fields[k] = v
	}
	return e.encodeObject(reflect.ValueOf(fields))
}

// encodeValue writes v as JSON. Callers must filter unrepresentable values.
func (e *encodeState) encodeValue(v any) error {
	switch val := v.(type) {
	case nil:
		e.WriteString("null")
		return nil
	case string:
		return e.encodeString(val)
	case bool:
		e.WriteString(strconv.FormatBool(val))
		return nil
	case json.Number:
		e.WriteString(val.String())
		return nil
	case float64:
		return e.encodeFloat(val)
	case float32:
		return e.encodeFloat(float64(val))
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		e.WriteString("null")
		return nil
	}

	if m, ok := v.(json.Marshaler); ok {
		data, err := m.MarshalJSON()
		if err != nil {
			return err
		}
		e.Write(data)
		return nil
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.WriteString(strconv.FormatInt(rv.Int(), 10))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.WriteString(strconv.FormatUint(rv.Uint(), 10))
		return nil
	case reflect.Float32, reflect.Float64:
		return e.encodeFloat(rv.Float())
	case reflect.String:
		return e.encodeString(rv.String())
	case reflect.Bool:
		e.WriteString(strconv.FormatBool(rv.Bool()))
		return nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			e.WriteString("null")
			return nil
		}
		return e.encodeValue(rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("unsupported map key type: %s", rv.Type().Key())
		}
		if rv.IsNil() {
			e.WriteString("{}")
			return nil
		}
		id := rv.Pointer()
		if err := e.enter(id); err != nil {
			return err
		}
		defer e.leave(id)
		return e.encodeObject(rv)
	case reflect.Slice:
		if rv.IsNil() {
			e.WriteString("[]")
			return nil
		}
		id := sliceID{ptr: rv.Pointer(), len: rv.Len()}
		if err := e.enter(id); err != nil {
			return err
		}
		defer e.leave(id)
		return e.encodeArray(rv)
	case reflect.Array:
		return e.encodeArray(rv)
	}

	// Structs and anything else: let encoding/json decide.
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.Write(data)
	return nil
}

// encodeObject writes a string-keyed map with canonical key ordering,
// omitting values that have no JSON form.
func (e *encodeState) encodeObject(rv reflect.Value) error {
	keys := make([]string, 0, rv.Len())
	values := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		v := iter.Value().Interface()
		if unrepresentable(v) {
			continue
		}
		keys = append(keys, k)
		values[k] = v
	}
	slices.SortFunc(keys, compareUTF16)

	e.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.WriteByte(',')
		}
		if err := e.encodeString(k); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		e.WriteByte(':')
		if err := e.encodeValue(values[k]); err != nil {
			return fmt.Errorf("%q: %w", k, err)
		}
	}
	e.WriteByte('}')
	return nil
}

// encodeArray writes a slice or array; non-data elements become null.
func (e *encodeState) encodeArray(rv reflect.Value) error {
	e.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			e.WriteByte(',')
		}
		elem := rv.Index(i).Interface()
		if unrepresentable(elem) {
			e.WriteString("null")
			continue
		}
		if err := e.encodeValue(elem); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	e.WriteByte(']')
	return nil
}

// encodeString writes s as a JSON string without HTML escaping. The text is
// written as given: no Unicode normalization.
func (e *encodeState) encodeString(s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// json.Encoder appends a newline.
	e.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

// encodeFloat writes f the way JSON.stringify would; NaN and infinities
// have no JSON form and become null.
func (e *encodeState) encodeFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		e.WriteString("null")
		return nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	e.Write(data)
	return nil
}

// compareUTF16 orders strings by UTF-16 code units rather than UTF-8 bytes.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
