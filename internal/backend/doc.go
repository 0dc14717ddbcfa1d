// Package backend provides the key/value storage backends collections
// persist to.
//
// Every backend stores opaque string values under string keys and reports
// missing keys with ok=false rather than an error:
//   - Memory: process-local map, for tests and throwaway sessions
//   - SQLite: single kv table in a WAL-mode database file
//   - Bolt: single bucket in a bbolt file
//   - Dynamo: one DynamoDB table keyed by a string partition key
//
// Open selects a backend from a Config. A driver that cannot be resolved is a
// configuration error reported at Open time, never a silent no-op.
package backend
