package harness

import "github.com/roach88/collectionize/internal/collection"

// TraceEvent records one applied step.
type TraceEvent struct {
	Seq      int64    // step number, from 1
	Op       string   // operation name
	Events   []string // event names fired during the step, in order
	Returned []string // records the operation returned, in persisted form
	OK       *bool    // move's result
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall success: every step expectation and assertion held.
	Pass bool

	// Trace has one entry per step.
	Trace []TraceEvent

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string

	// Records is the final sequence.
	Records []collection.Record
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// EventNames flattens the trace into the full event sequence.
func (r *Result) EventNames() []string {
	var names []string
	for _, step := range r.Trace {
		names = append(names, step.Events...)
	}
	return names
}
