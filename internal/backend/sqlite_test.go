package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "Collectionize.a", "[1]"))
	require.NoError(t, s.Close())

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		require.NoError(t, err, "reopen %d", i)
		require.NoError(t, s.Close())
	}

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "Collectionize.a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1]", v)
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	mode, err := s.pragma("journal_mode")
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)

	timeout, err := s.pragma("busy_timeout")
	require.NoError(t, err)
	assert.Equal(t, "5000", timeout)

	version, err := s.pragma("user_version")
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestSQLite_Keys(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "Collectionize.todos", "[]"))
	require.NoError(t, s.Set(ctx, "Collectionize.notes", "[]"))
	require.NoError(t, s.Set(ctx, "other.key", "[]"))

	keys, err := s.Keys(ctx, "Collectionize.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Collectionize.notes", "Collectionize.todos"}, keys)

	keys, err = s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestSQLite_CanceledContext(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.Set(ctx, "k", "v"))
}
