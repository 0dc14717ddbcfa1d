// Package collection implements an in-memory, ordered, named collection of
// records with an id index, lifecycle events and opt-in persistence.
//
// # Index Consistency
//
// Every mutating operation keeps the id index in step with the sequence
// before it returns:
//   - Each record with a truthy "id" is reachable through GetByID, and the
//     index entry is the very map stored in the sequence
//   - Removed or flushed-away ids are tombstoned (present but empty), so
//     Lookup can tell "removed" from "never indexed"
//   - Only Flush rebuilds the index wholesale
//
// When several records share an id, the index holds the last one indexed.
//
// # Events
//
// Mutations announce themselves through the collection's event.Hub:
//
//	beforeAdd(rec)    added(rec)
//	beforeUpdate(rec) updated(rec)
//	removed(rec)      moved()
//	beforeFlush()     flushed()
//	parseError(raw, err)
//
// Listeners run synchronously inside the mutating call. A listener may call
// back into the same collection; an "added" listener that adds again
// recurses without bound, and guarding against that is up to the caller.
//
// # Concurrency
//
// A Collection has a single logical owner and performs no locking. Callers
// sharing one across goroutines must serialize access.
//
// # Persistence
//
// ClientSave and ClientLoad move the whole sequence through a Storage
// backend under the key KeyPrefix() + name, using the format in package codec.
package collection
