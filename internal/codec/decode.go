package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotArray is returned when persisted text decodes to something other
// than a JSON array.
var ErrNotArray = errors.New("collectionize: persisted data is not an array")

// ErrNotObject is returned by DecodeRecord for anything but a JSON object.
var ErrNotObject = errors.New("collectionize: record is not an object")

// Decode parses persisted text into records. A JSON null element decodes to
// a nil record (an empty slot).
func Decode(data []byte) ([]map[string]any, error) {
	raw, err := decodeValue(data)
	if err != nil {
		return nil, err
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("decode: %w (got %T)", ErrNotArray, raw)
	}

	records := make([]map[string]any, len(items))
	for i, item := range items {
		switch val := item.(type) {
		case nil:
			records[i] = nil
		case map[string]any:
			records[i] = convertObject(val)
		default:
			return nil, fmt.Errorf("decode: record[%d] is %T, not an object", i, item)
		}
	}
	return records, nil
}

// DecodeRecord parses a single JSON object with the same number handling as
// Decode.
func DecodeRecord(data []byte) (map[string]any, error) {
	raw, err := decodeValue(data)
	if err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode: %w (got %T)", ErrNotObject, raw)
	}
	return convertObject(obj), nil
}

func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode: unexpected data after top-level value")
	}
	return raw, nil
}

// convertValue replaces json.Number leaves with int64 or float64.
func convertValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		f, err := val.Float64()
		if err != nil {
			// Out of float64 range; keep the literal text.
			return val.String()
		}
		return f
	case map[string]any:
		return convertObject(val)
	case []any:
		for i, elem := range val {
			val[i] = convertValue(elem)
		}
		return val
	default:
		return v
	}
}

func convertObject(obj map[string]any) map[string]any {
	for k, v := range obj {
		obj[k] = convertValue(v)
	}
	return obj
}
