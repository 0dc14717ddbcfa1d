package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/collectionize/internal/codec"
	"github.com/roach88/collectionize/internal/collection"
)

var wantTodos = []collection.Record{
	{"id": int64(1), "title": "write", "done": false},
	{"id": int64(2), "title": "ship", "done": true, "score": 2.5},
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json",
			file:    "todos.json",
			content: `[{"id":1,"title":"write","done":false},{"id":2,"title":"ship","done":true,"score":2.5}]`,
		},
		{
			name: "yaml list",
			file: "todos.yaml",
			content: `
- id: 1
  title: write
  done: false
- id: 2
  title: ship
  done: true
  score: 2.5
`,
		},
		{
			name: "yaml wrapped",
			file: "todos.yml",
			content: `
records:
  - {id: 1, title: write, done: false}
  - {id: 2, title: ship, done: true, score: 2.5}
`,
		},
		{
			name: "cue wrapped",
			file: "todos.cue",
			content: `
#Todo: {id: int, title: string, done: bool | *false, score?: number}

records: [...#Todo] & [
	{id: 1, title: "write"},
	{id: 2, title: "ship", done: true, score: 2.5},
]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, wantTodos, got)
		})
	}
}

func TestLoad_NullIsEmptySlot(t *testing.T) {
	got, err := Load(writeFile(t, "slots.json", `[{"id":"a"},null]`))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[1])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		is      error
	}{
		{name: "extension", file: "todos.txt", content: "[]", is: ErrUnsupportedFormat},
		{name: "json object", file: "todos.json", content: `{"id":1}`, is: codec.ErrNotArray},
		{name: "yaml scalar", file: "todos.yaml", content: "hello", is: codec.ErrNotArray},
		{name: "yaml syntax", file: "todos.yaml", content: "- [unclosed"},
		{name: "cue missing records", file: "todos.cue", content: "items: []"},
		{name: "cue conflict", file: "todos.cue", content: "records: [{id: 1}] & [{id: 2}]"},
		{name: "cue incomplete", file: "todos.cue", content: "records: [{id: int}]"},
		{name: "non-object element", file: "todos.json", content: "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json": FormatJSON,
		"a.YAML": FormatYAML,
		"a.yml":  FormatYAML,
		"a.cue":  FormatCUE,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}
