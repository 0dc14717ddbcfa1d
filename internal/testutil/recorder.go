package testutil

import (
	"strings"

	"github.com/roach88/collectionize/internal/event"
)

// Emitted is one dispatched event as seen by a Recorder.
type Emitted struct {
	Name string
	Args []any
}

// Recorder captures events dispatched by a hub, in dispatch order.
//
// Thread-safety: none. Hubs dispatch synchronously on the caller's goroutine.
type Recorder struct {
	events []Emitted
}

// NewRecorder creates a Recorder listening on hub for each name in names.
//
// Names are registered individually so that the recorded name is the event
// name that fired rather than the list it was registered with.
func NewRecorder(hub *event.Hub, names ...string) *Recorder {
	r := &Recorder{}
	for _, name := range names {
		for _, field := range strings.Fields(name) {
			r.attach(hub, field)
		}
	}
	return r
}

func (r *Recorder) attach(hub *event.Hub, name string) {
	hub.On(name, func(args ...any) {
		r.events = append(r.events, Emitted{Name: name, Args: args})
	})
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Name
	}
	return names
}

// Events returns everything recorded so far.
func (r *Recorder) Events() []Emitted {
	return r.events
}

// Count returns how many times name was recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, e := range r.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

// Reset discards recorded events.
//
// Used between phases of a test; listeners stay registered.
func (r *Recorder) Reset() {
	r.events = nil
}
