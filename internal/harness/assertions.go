package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/collectionize/internal/backend"
	"github.com/roach88/collectionize/internal/codec"
	"github.com/roach88/collectionize/internal/collection"
)

// AssertionContext gives assertions access to the finished collection.
type AssertionContext struct {
	Ctx        context.Context
	Collection *collection.Collection
	Store      backend.Backend
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, step := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v\n", step.Seq, step.Op, step.Events)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a, actx); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertEventOrder:
		return assertEventOrder(result, a)
	case AssertEventCount:
		return assertEventCount(result, a)
	case AssertFinalState:
		return assertFinalState(result, a)
	case AssertIndexState:
		return assertIndexState(result, a, actx)
	case AssertRecord:
		return assertRecord(result, a, actx)
	case AssertStored:
		return assertStored(result, a, actx)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertEventOrder checks that the events appear in the given relative
// order. Other events may occur in between.
func assertEventOrder(result *Result, a Assertion) error {
	fired := result.EventNames()

	pos := 0
	for _, want := range a.Events {
		found := false
		for pos < len(fired) {
			name := fired[pos]
			pos++
			if name == want {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertEventOrder,
				Expected: fmt.Sprintf("events in order %v", a.Events),
				Actual:   fmt.Sprintf("%q missing or out of order in %v", want, fired),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// assertEventCount checks how often an event fired across the run.
func assertEventCount(result *Result, a Assertion) error {
	count := 0
	for _, name := range result.EventNames() {
		if name == a.Event {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%s fired %d times", a.Event, a.Count),
			Actual:   fmt.Sprintf("fired %d times", count),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertFinalState compares the final sequence with the expected records,
// element by element in persisted form.
func assertFinalState(result *Result, a Assertion) error {
	got, err := snapshot(result.Records)
	if err != nil {
		return err
	}
	want, err := snapshot(toRecords(a.Records))
	if err != nil {
		return err
	}

	mismatch := len(got) != len(want)
	for i := 0; !mismatch && i < len(got); i++ {
		mismatch = got[i] != want[i]
	}
	if mismatch {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: "[" + strings.Join(want, ",") + "]",
			Actual:   "[" + strings.Join(got, ",") + "]",
		}
	}
	return nil
}

// assertIndexState checks what the id index reports for an id.
func assertIndexState(result *Result, a Assertion, actx *AssertionContext) error {
	_, state := actx.Collection.Lookup(a.ID)
	if state.String() != a.State {
		return &AssertionError{
			Type:     AssertIndexState,
			Expected: fmt.Sprintf("id %v is %s", a.ID, a.State),
			Actual:   state.String(),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertRecord checks the indexed record for an id against a field subset.
func assertRecord(result *Result, a Assertion, actx *AssertionContext) error {
	rec := actx.Collection.GetByID(a.ID)
	if rec == nil {
		return &AssertionError{
			Type:     AssertRecord,
			Expected: fmt.Sprintf("a record indexed under %v", a.ID),
			Actual:   "none",
			Trace:    result.Trace,
		}
	}
	if !collection.Query(a.Expect).Match(rec) {
		data, _ := codec.EncodeRecord(rec)
		return &AssertionError{
			Type:     AssertRecord,
			Expected: fmt.Sprintf("record %v to contain %v", a.ID, a.Expect),
			Actual:   string(data),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertStored compares the persisted text byte for byte.
func assertStored(result *Result, a Assertion, actx *AssertionContext) error {
	raw, ok, err := actx.Store.Get(actx.Ctx, actx.Collection.StorageKey())
	if err != nil {
		return err
	}
	if !ok {
		raw = "<absent>"
	}
	if raw != a.Raw {
		return &AssertionError{
			Type:     AssertStored,
			Expected: a.Raw,
			Actual:   raw,
			Trace:    result.Trace,
		}
	}
	return nil
}
