package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func TestOpenBolt_CreatesBucket(t *testing.T) {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "kv.bolt"))
	require.NoError(t, err)
	defer b.Close()

	err = b.db.View(func(tx *bolt.Tx) error {
		assert.NotNil(t, tx.Bucket([]byte(DefaultBoltBucket)))
		return nil
	})
	require.NoError(t, err)
}

func TestBolt_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.bolt")

	b, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "Collectionize.todos", `[{"id":1}]`))
	require.NoError(t, b.Close())

	b, err = OpenBolt(path)
	require.NoError(t, err)
	defer b.Close()

	v, ok, err := b.Get(ctx, "Collectionize.todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)
}

func TestBolt_CanceledContext(t *testing.T) {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "kv.bolt"))
	require.NoError(t, err)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, b.Set(ctx, "k", "v"), context.Canceled)
}
