package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/collectionize/internal/codec"
)

// DefaultKeyPrefix is prepended to collection names to form storage keys.
const DefaultKeyPrefix = "Collectionize."

// ErrNoBackend is returned by persistence operations on a collection created
// without a Storage.
var ErrNoBackend = errors.New("collectionize: no storage backend configured")

// Storage is the key/value capability persistence needs. Get reports
// whether the key exists.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

var (
	prefixMu  sync.RWMutex
	keyPrefix = DefaultKeyPrefix
)

// KeyPrefix returns the process-wide storage key prefix.
func KeyPrefix() string {
	prefixMu.RLock()
	defer prefixMu.RUnlock()
	return keyPrefix
}

// SetKeyPrefix overrides the storage key prefix for every collection in the
// process and returns the previous value.
func SetKeyPrefix(prefix string) string {
	prefixMu.Lock()
	defer prefixMu.Unlock()
	prev := keyPrefix
	keyPrefix = prefix
	return prev
}

// StorageKey returns the key this collection persists under.
func (c *Collection) StorageKey() string {
	return KeyPrefix() + c.name
}

// ClientSave writes the sequence to storage. Callable fields are stored as
// source text and UI elements are dropped; see package codec.
func (c *Collection) ClientSave(ctx context.Context) error {
	if c.storage == nil {
		return fmt.Errorf("client save: %w", ErrNoBackend)
	}

	data, err := codec.Encode(toMaps(c.seq))
	if err != nil {
		return fmt.Errorf("client save: encode: %w", err)
	}

	key := c.StorageKey()
	if err := c.storage.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("client save: %w", err)
	}

	c.logger.Debug("collection saved", "key", key, "records", len(c.seq), "bytes", len(data))
	return nil
}

// ClientLoad reads the persisted sequence without installing it.
//
// A missing key yields an empty sequence. Text that fails to decode fires
// parseError(raw, err) and also yields an empty sequence with a nil error;
// only storage failures are returned as errors.
func (c *Collection) ClientLoad(ctx context.Context) ([]Record, error) {
	if c.storage == nil {
		return nil, fmt.Errorf("client load: %w", ErrNoBackend)
	}

	key := c.StorageKey()
	raw, ok, err := c.storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("client load: %w", err)
	}
	if !ok {
		return []Record{}, nil
	}

	decoded, err := codec.Decode([]byte(raw))
	if err != nil {
		c.logger.Warn("persisted collection unreadable", "key", key, "error", err)
		c.hub.Trigger(EventParseError, raw, err)
		return []Record{}, nil
	}

	return fromMaps(decoded), nil
}

// Restore loads the persisted sequence and flushes it into the collection.
func (c *Collection) Restore(ctx context.Context) error {
	seq, err := c.ClientLoad(ctx)
	if err != nil {
		return err
	}
	c.Flush(seq)
	return nil
}
