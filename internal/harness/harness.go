package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/collectionize/internal/backend"
	"github.com/roach88/collectionize/internal/codec"
	"github.com/roach88/collectionize/internal/collection"
	"github.com/roach88/collectionize/internal/testutil"
)

// recordedEvents are the events the harness listens for.
var recordedEvents = []string{
	collection.EventBeforeAdd,
	collection.EventAdded,
	collection.EventBeforeUpdate,
	collection.EventUpdated,
	collection.EventRemoved,
	collection.EventMoved,
	collection.EventBeforeFlush,
	collection.EventFlushed,
	collection.EventParseError,
}

// Harness applies scenario steps to one collection.
type Harness struct {
	coll     *collection.Collection
	store    *backend.Memory
	recorder *testutil.Recorder
	clock    *testutil.StepClock
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory backend. The returned error
// reports a scenario that could not be executed at all; failed expectations
// and assertions are reported through Result.Errors.
//
// Execution flow:
// 1. Create the collection over a fresh Memory backend
// 2. Flush the seed records (not recorded)
// 3. Apply each step, recording the events it fires
// 4. Evaluate assertions against the final state
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	store := backend.NewMemory()
	defer store.Close()

	name := scenario.Collection
	if name == "" {
		name = scenario.Name
	}

	coll := collection.New(name,
		collection.WithStorage(store),
		collection.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)
	if len(scenario.Seed) > 0 {
		coll.Flush(toRecords(scenario.Seed))
	}

	h := &Harness{
		coll:     coll,
		store:    store,
		recorder: testutil.NewRecorder(coll.Events(), recordedEvents...),
		clock:    testutil.NewStepClock(),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		trace, err := h.apply(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] %s: %w", i, step.Op, err)
		}
		result.Trace = append(result.Trace, trace)
		checkStep(i, step, trace, result)
	}

	result.Records = slices.Clone(coll.All())

	actx := &AssertionContext{
		Ctx:        ctx,
		Collection: coll,
		Store:      store,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// apply runs one step and records what it did.
func (h *Harness) apply(ctx context.Context, step Step) (TraceEvent, error) {
	h.recorder.Reset()
	trace := TraceEvent{Seq: h.clock.Next(), Op: step.Op}
	var returned []collection.Record

	switch step.Op {
	case OpAdd:
		returned = []collection.Record{h.coll.Add(cloneRecord(step.Record))}
	case OpUpdate:
		rec := cloneRecord(step.Record)
		var sel collection.Selector
		switch {
		case step.Where != nil:
			sel = collection.Query(step.Where)
		case step.Key != "":
			sel = collection.Key(step.Key)
		}
		returned = h.coll.Update(rec, sel)
	case OpUpdateByID:
		returned = h.coll.UpdateByID(cloneRecord(step.Record))
	case OpRemove:
		returned = h.coll.Remove(collection.Query(step.Where))
	case OpMove:
		ok := h.coll.Move(*step.From, *step.To)
		trace.OK = &ok
	case OpFlush:
		h.coll.Flush(toRecords(step.Records))
	case OpIncr:
		q := collection.Query(step.Where)
		returned = h.coll.Filter(q)
		h.coll.Incr(q, step.Field)
	case OpSave:
		if err := h.coll.ClientSave(ctx); err != nil {
			return trace, err
		}
	case OpLoad:
		loaded, err := h.coll.ClientLoad(ctx)
		if err != nil {
			return trace, err
		}
		returned = loaded
	case OpRestore:
		if err := h.coll.Restore(ctx); err != nil {
			return trace, err
		}
	case OpCorrupt:
		if err := h.store.Set(ctx, h.coll.StorageKey(), step.Raw); err != nil {
			return trace, err
		}
	default:
		return trace, fmt.Errorf("unknown op %q", step.Op)
	}

	encoded, err := snapshot(returned)
	if err != nil {
		return trace, err
	}
	trace.Returned = encoded
	trace.Events = h.recorder.Names()
	return trace, nil
}

// snapshot encodes returned records at the time the step ran; later steps
// may mutate the same maps.
func snapshot(records []collection.Record) ([]string, error) {
	if records == nil {
		return nil, nil
	}
	out := make([]string, len(records))
	for i, rec := range records {
		data, err := codec.EncodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("returned[%d]: %w", i, err)
		}
		out[i] = string(data)
	}
	return out, nil
}

// checkStep compares a step's outcome with its expect clause.
func checkStep(index int, step Step, trace TraceEvent, result *Result) {
	exp := step.Expect
	if exp == nil {
		return
	}

	if exp.Count != nil && len(trace.Returned) != *exp.Count {
		result.AddError(fmt.Sprintf("steps[%d] %s: returned %d records, expected %d",
			index, step.Op, len(trace.Returned), *exp.Count))
	}
	if exp.OK != nil {
		got := trace.OK != nil && *trace.OK
		if got != *exp.OK {
			result.AddError(fmt.Sprintf("steps[%d] %s: ok = %t, expected %t", index, step.Op, got, *exp.OK))
		}
	}
	if exp.Events != nil && !slices.Equal(trace.Events, exp.Events) {
		result.AddError(fmt.Sprintf("steps[%d] %s: fired %v, expected %v", index, step.Op, trace.Events, exp.Events))
	}
}

// toRecords copies scenario maps so a run never mutates its scenario.
func toRecords(src []map[string]any) []collection.Record {
	out := make([]collection.Record, len(src))
	for i, m := range src {
		out[i] = cloneRecord(m)
	}
	return out
}

func cloneRecord(m map[string]any) collection.Record {
	return collection.Record(maps.Clone(m))
}
