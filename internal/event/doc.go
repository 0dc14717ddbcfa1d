// Package event implements the per-collection publish/subscribe hub.
//
// Listeners are registered under dot-namespaced names such as
// "added.sidebar". Triggering an event E invokes every listener whose name
// is exactly E or starts with E + ".", so a bare trigger reaches all
// namespaced listeners while a namespaced Off removes only its own group.
//
// # Execution Model
//
// Dispatch is synchronous and re-entrant:
//   - Listeners run inline, in registration order, on the caller's stack
//   - A listener may call back into the collection that triggered it
//   - Panics raised by a listener are not recovered
//
// The hub performs no locking. A Hub belongs to exactly one logical owner;
// hosts that share it across goroutines must serialize access themselves.
package event
