// Package harness runs scripted collection scenarios.
//
// A scenario seeds a collection, applies a list of operations to it, and
// then checks the events that fired, the final record sequence, the id index
// and the persisted text. Scenarios are YAML files:
//
//	name: remove_tombstones
//	description: "Removing a record tombstones its id"
//	seed:
//	  - {id: 1, title: a}
//	  - {id: 2, title: b}
//	steps:
//	  - op: remove
//	    where: {id: 1}
//	    expect: {count: 1, events: [removed]}
//	  - op: save
//	assertions:
//	  - type: index_state
//	    id: 1
//	    state: tombstoned
//	  - type: final_state
//	    records:
//	      - {id: 2, title: b}
//
// # Operations
//
//   - add: record
//   - update: record, plus where or key (default "id")
//   - update_by_id: record
//   - remove: where
//   - move: from, to
//   - flush: records
//   - incr: where, field
//   - save, load, restore
//   - corrupt: raw (written straight to storage under the collection's key)
//
// # Assertion Types
//
//   - event_order: events fired in this relative order across the run
//   - event_count: event fired exactly count times
//   - final_state: the sequence equals records (compared in persisted form)
//   - index_state: the id index reports state for id
//   - record: the record indexed under id matches expect (subset match)
//   - stored: the persisted text equals raw
//
// Every scenario runs against a fresh in-memory backend with a step clock,
// so traces are reproducible and can be compared against golden files with
// RunWithGolden.
package harness
