package event

import (
	"strings"
)

// Handler receives the arguments passed to Trigger.
type Handler func(args ...any)

// listener pairs a registered (possibly namespaced) event name with its handler.
type listener struct {
	name string
	fn   Handler
}

// Hub is a namespace-aware synchronous event dispatcher.
//
// The zero value is not usable; create hubs with NewHub.
type Hub struct {
	listeners []listener
	tokens    TokenGenerator
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithTokens sets the generator used by UniqueOn.
//
// Default: UUIDv7Tokens{}
func WithTokens(gen TokenGenerator) HubOption {
	return func(h *Hub) {
		if gen != nil {
			h.tokens = gen
		}
	}
}

// NewHub creates an empty Hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{tokens: UUIDv7Tokens{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// On registers fn for every name in the space-separated list names.
// Each name becomes an independent listener sharing the same handler.
func (h *Hub) On(names string, fn Handler) {
	if fn == nil {
		return
	}
	for _, name := range strings.Fields(names) {
		h.listeners = append(h.listeners, listener{name: name, fn: fn})
	}
}

// UniqueOn registers fn under a freshly generated namespace and returns the
// namespace token. Off(name + "." + token) later removes exactly this group.
func (h *Hub) UniqueOn(names string, fn Handler) string {
	token := h.tokens.Generate()

	fields := strings.Fields(names)
	for i, name := range fields {
		fields[i] = name + "." + token
	}
	h.On(strings.Join(fields, " "), fn)

	return token
}

// Trigger invokes every listener matching name with args.
//
// The set of listeners is fixed when Trigger is entered: listeners added or
// removed by a handler take effect on the next Trigger.
func (h *Hub) Trigger(name string, args ...any) {
	// Snapshot so handlers can call On/Off without disturbing this dispatch.
	snapshot := make([]listener, len(h.listeners))
	copy(snapshot, h.listeners)

	for _, l := range snapshot {
		if matches(l.name, name) {
			l.fn(args...)
		}
	}
}

// Off removes every listener matching name.
func (h *Hub) Off(name string) {
	kept := h.listeners[:0]
	for _, l := range h.listeners {
		if !matches(l.name, name) {
			kept = append(kept, l)
		}
	}
	// Clear the tail so removed handlers can be collected.
	for i := len(kept); i < len(h.listeners); i++ {
		h.listeners[i] = listener{}
	}
	h.listeners = kept
}

// Len returns the number of registered listeners.
func (h *Hub) Len() int {
	return len(h.listeners)
}

// Names returns the registered listener names in registration order.
func (h *Hub) Names() []string {
	names := make([]string, len(h.listeners))
	for i, l := range h.listeners {
		names[i] = l.name
	}
	return names
}

// matches reports whether a listener registered as registered is selected by
// the event name event.
func matches(registered, event string) bool {
	return registered == event || strings.HasPrefix(registered, event+".")
}
