package collection

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/collectionize/internal/event"
)

// Collection is a named, ordered set of records with an id index and an
// event hub.
type Collection struct {
	name     string
	seq      []Record
	index    *idIndex
	hub      *event.Hub
	provider Provider
	storage  Storage
	logger   *slog.Logger
}

// Option configures a Collection.
type Option func(*collectionConfig)

type collectionConfig struct {
	provider Provider
	storage  Storage
	tokens   event.TokenGenerator
	logger   *slog.Logger
}

// WithProvider replaces the default SliceProvider.
func WithProvider(p Provider) Option {
	return func(c *collectionConfig) {
		c.provider = p
	}
}

// WithStorage sets the backend used by ClientSave and ClientLoad.
func WithStorage(s Storage) Option {
	return func(c *collectionConfig) {
		c.storage = s
	}
}

// WithTokens sets the namespace token generator used by UniqueOn.
//
// Default: event.UUIDv7Tokens{}
func WithTokens(gen event.TokenGenerator) Option {
	return func(c *collectionConfig) {
		c.tokens = gen
	}
}

// WithLogger sets the logger for mutation and persistence diagnostics.
//
// Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(c *collectionConfig) {
		c.logger = l
	}
}

// New creates an empty collection. The name forms the persistence key.
func New(name string, opts ...Option) *Collection {
	cfg := collectionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.provider == nil {
		cfg.provider = NewSliceProvider(nil)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Collection{
		name:     name,
		seq:      []Record{},
		index:    newIDIndex(),
		hub:      event.NewHub(event.WithTokens(cfg.tokens)),
		provider: cfg.provider,
		storage:  cfg.storage,
		logger:   cfg.logger.With("collection", name),
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Events returns the collection's hub.
func (c *Collection) Events() *event.Hub {
	return c.hub
}

// On registers fn for each space-separated event name. See event.Hub.On.
func (c *Collection) On(names string, fn event.Handler) {
	c.hub.On(names, fn)
}

// UniqueOn registers fn under a fresh namespace and returns it.
func (c *Collection) UniqueOn(names string, fn event.Handler) string {
	return c.hub.UniqueOn(names, fn)
}

// Off removes listeners registered as name or under name's namespaces.
func (c *Collection) Off(name string) {
	c.hub.Off(name)
}

// Trigger dispatches a custom event to the collection's listeners.
func (c *Collection) Trigger(name string, args ...any) {
	c.hub.Trigger(name, args...)
}

// Add appends rec and returns it.
func (c *Collection) Add(rec Record) Record {
	c.hub.Trigger(EventBeforeAdd, rec)
	c.seq = append(c.seq, rec)
	c.index.put(rec)
	c.logger.Debug("record added", "id", rec.ID(), "len", len(c.seq))
	c.hub.Trigger(EventAdded, rec)

	return rec
}

// Update merges rec into every record chosen by sel and returns them. A nil
// sel means Key(IDField). When nothing is chosen rec is added instead and
// the result is just rec.
//
// For each match the merge is applied first, then beforeUpdate fires, the
// index is brought up to date, and updated fires.
func (c *Collection) Update(rec Record, sel Selector) []Record {
	if sel == nil {
		sel = Key(IDField)
	}

	matches := c.provider.Filter(c.seq, sel.selectQuery(rec))
	if len(matches) == 0 {
		return []Record{c.Add(rec)}
	}

	for _, match := range matches {
		c.merge(match, rec)
	}
	return matches
}

// UpdateByID merges rec into the record indexed under rec's id. Records
// without a truthy id go through Update; unknown ids are added.
func (c *Collection) UpdateByID(rec Record) []Record {
	id := rec.ID()
	if !Truthy(id) {
		return c.Update(rec, nil)
	}

	match, state := c.index.lookup(KeyOf(id))
	if state != Live {
		return []Record{c.Add(rec)}
	}

	c.merge(match, rec)
	return []Record{match}
}

// merge copies rec's fields onto match and re-indexes it.
func (c *Collection) merge(match, rec Record) {
	oldID := match.ID()
	maps.Copy(match, rec)

	c.hub.Trigger(EventBeforeUpdate, match)
	c.reindex(match, oldID)
	c.logger.Debug("record updated", "id", match.ID())
	c.hub.Trigger(EventUpdated, match)
}

// reindex brings the index up to date after rec's id may have changed
// from oldID.
func (c *Collection) reindex(rec Record, oldID any) {
	newID := rec.ID()
	if Truthy(oldID) && (!Truthy(newID) || KeyOf(oldID) != KeyOf(newID)) {
		key := KeyOf(oldID)
		if c.index.tombstone(key, rec) {
			c.index.repair(c.seq, map[string]struct{}{key: {}})
		}
	}
	c.index.put(rec)
}

// Remove deletes every record matching m, tombstones their ids, and fires
// removed once per record in sequence order. It returns the removed records.
// A nil m matches every record.
func (c *Collection) Remove(m Matcher) []Record {
	m = orAll(m)
	removed := c.provider.Filter(c.seq, m)
	if len(removed) == 0 {
		return removed
	}
	c.seq = c.provider.Reject(c.seq, m)

	stale := make(map[string]struct{})
	for _, rec := range removed {
		if rec == nil || !Truthy(rec.ID()) {
			continue
		}
		key := KeyOf(rec.ID())
		if c.index.tombstone(key, rec) {
			stale[key] = struct{}{}
		}
	}
	c.index.repair(c.seq, stale)
	c.logger.Debug("records removed", "count", len(removed), "len", len(c.seq))

	for _, rec := range removed {
		c.hub.Trigger(EventRemoved, rec)
	}
	return removed
}

// Move relocates the record at oldIndex to newIndex. A newIndex past the end
// pads the sequence with empty slots so the record lands exactly there.
//
// A negative index or an oldIndex outside the sequence is a no-op: nothing
// moves, no event fires, and Move reports false.
func (c *Collection) Move(oldIndex, newIndex int) bool {
	if oldIndex < 0 || oldIndex >= len(c.seq) || newIndex < 0 {
		c.logger.Debug("move ignored", "old_index", oldIndex, "new_index", newIndex, "len", len(c.seq))
		return false
	}

	if newIndex >= len(c.seq) {
		c.seq = append(c.seq, make([]Record, newIndex+1-len(c.seq))...)
	}
	rec := c.seq[oldIndex]
	c.seq = slices.Delete(c.seq, oldIndex, oldIndex+1)
	c.seq = slices.Insert(c.seq, newIndex, rec)

	c.hub.Trigger(EventMoved)
	return true
}

// Flush replaces the whole sequence (nil means empty) and rebuilds the index.
// Ids that were live before and are missing from seq become tombstones.
func (c *Collection) Flush(seq []Record) {
	c.hub.Trigger(EventBeforeFlush)
	if seq == nil {
		seq = []Record{}
	}
	c.seq = seq
	c.index.rebuild(c.seq)
	c.logger.Debug("collection flushed", "len", len(c.seq), "indexed", c.index.len())
	c.hub.Trigger(EventFlushed)
}

// GetByID returns the record indexed under id, or nil.
func (c *Collection) GetByID(id any) Record {
	rec, _ := c.index.lookup(KeyOf(id))
	return rec
}

// Lookup returns the record indexed under id together with the index state
// for that id.
func (c *Collection) Lookup(id any) (Record, IndexState) {
	return c.index.lookup(KeyOf(id))
}

// IsEmpty reports whether no record matches m. A nil m matches every record.
func (c *Collection) IsEmpty(m Matcher) bool {
	return len(c.provider.Filter(c.seq, orAll(m))) == 0
}

// Incr increments field on every record matching m. Non-numeric or missing
// values are set to int64(0). No event fires. A nil m matches every record.
func (c *Collection) Incr(m Matcher, field string) {
	for _, rec := range c.provider.Filter(c.seq, orAll(m)) {
		if rec == nil {
			continue
		}
		old := rec[field]
		if next, ok := increment(old); ok {
			rec[field] = next
		} else {
			rec[field] = int64(0)
		}
		if field == IDField {
			c.reindex(rec, old)
		}
	}
}

// All returns the live sequence. It is not a copy: it reflects the state at
// the time of the call and aliases the collection's storage.
func (c *Collection) All() []Record {
	return c.seq
}

// Len returns the sequence length, empty slots included.
func (c *Collection) Len() int {
	return len(c.seq)
}
