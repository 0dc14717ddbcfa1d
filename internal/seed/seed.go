// Package seed reads record files used to bulk-replace a collection.
//
// A record file holds an array of objects in one of three formats, chosen by
// file extension:
//
//	.json         [{"id": 1, "title": "a"}, ...]
//	.yaml, .yml   - id: 1
//	                title: a
//	.cue          [{id: 1, title: "a"}, ...]
//
// YAML and CUE files may instead wrap the array in a top-level "records"
// field, which lets CUE files declare constraints alongside the data.
// Every format is normalized through JSON, so numbers come back as int64 or
// float64 exactly as they do from persisted data.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/collectionize/internal/codec"
	"github.com/roach88/collectionize/internal/collection"
)

// Format identifies a record file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// RecordsField is the wrapper field accepted by YAML and CUE files.
const RecordsField = "records"

// ErrUnsupportedFormat is returned for an unrecognized file extension or format.
var ErrUnsupportedFormat = errors.New("collectionize: unsupported record file format")

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// Load reads the record file at path.
func Load(path string) ([]collection.Record, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	records, err := Parse(data, format, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Parse decodes data in the given format. name is used in CUE error positions.
func Parse(data []byte, format Format, name string) ([]collection.Record, error) {
	var (
		jsonData []byte
		err      error
	)

	switch format {
	case FormatJSON:
		jsonData = data
	case FormatYAML:
		jsonData, err = yamlToJSON(data)
	case FormatCUE:
		jsonData, err = cueToJSON(data, name)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	maps, err := codec.Decode(jsonData)
	if err != nil {
		return nil, err
	}

	records := make([]collection.Record, len(maps))
	for i, m := range maps {
		records[i] = m
	}
	return records, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	doc = unwrapRecords(doc)

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	return out, nil
}

func unwrapRecords(doc any) any {
	if m, ok := doc.(map[string]any); ok {
		if inner, ok := m[RecordsField]; ok {
			return inner
		}
	}
	return doc
}

func cueToJSON(data []byte, name string) ([]byte, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile cue: %w", err)
	}

	if value.Kind() == cue.StructKind {
		records := value.LookupPath(cue.ParsePath(RecordsField))
		if !records.Exists() {
			return nil, fmt.Errorf("cue: top-level struct has no %q field", RecordsField)
		}
		value = records
	}

	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate cue: %w", err)
	}

	out, err := value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("export cue: %w", err)
	}
	return out, nil
}
