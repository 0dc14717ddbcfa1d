package backend

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnknownDriver is returned by Open for an unrecognized driver name.
	ErrUnknownDriver = errors.New("collectionize: unknown storage driver")

	// ErrMissingPath is returned by Open when a file-backed driver has no path.
	ErrMissingPath = errors.New("collectionize: storage path required")

	// ErrMissingTable is returned by Open when the dynamodb driver has no table.
	ErrMissingTable = errors.New("collectionize: dynamodb table required")

	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("collectionize: storage backend closed")
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverBolt     = "bolt"
	DriverDynamoDB = "dynamodb"
)

// Drivers lists the accepted driver names.
var Drivers = []string{DriverMemory, DriverSQLite, DriverBolt, DriverDynamoDB}

// Backend is a string key/value store.
type Backend interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases the backend's resources.
	Close() error
}

// Lister is implemented by backends that can enumerate their keys. Keys come
// back in byte order. Dynamo does not implement it: listing would need a
// full table scan.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Config selects and parameterizes a backend.
type Config struct {
	Driver string // one of Drivers
	Path   string // database file for sqlite and bolt
	Table  string // table name for dynamodb
	Region string // AWS region for dynamodb; empty uses the SDK default chain
}

// Open creates the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("open %s: %w", cfg.Driver, ErrMissingPath)
		}
		return OpenSQLite(cfg.Path)
	case DriverBolt:
		if cfg.Path == "" {
			return nil, fmt.Errorf("open %s: %w", cfg.Driver, ErrMissingPath)
		}
		return OpenBolt(cfg.Path)
	case DriverDynamoDB:
		if cfg.Table == "" {
			return nil, fmt.Errorf("open %s: %w", cfg.Driver, ErrMissingTable)
		}
		return OpenDynamo(ctx, cfg.Table, cfg.Region)
	default:
		return nil, fmt.Errorf("open %q: %w", cfg.Driver, ErrUnknownDriver)
	}
}
