package collection

// Read-only queries over the live sequence. Each one hands the sequence as it
// stands at call time to the Provider; none of them touch the index.

// Filter returns the records matching m. A nil m matches every record.
func (c *Collection) Filter(m Matcher) []Record {
	return c.provider.Filter(c.seq, orAll(m))
}

// Search is an alias for Filter.
func (c *Collection) Search(m Matcher) []Record {
	return c.Filter(m)
}

// Where returns the records whose fields match q.
func (c *Collection) Where(q Query) []Record {
	return c.provider.Filter(c.seq, q)
}

// Reject returns the records not matching m.
func (c *Collection) Reject(m Matcher) []Record {
	return c.provider.Reject(c.seq, orAll(m))
}

// Find returns the first record matching m.
func (c *Collection) Find(m Matcher) (Record, bool) {
	return c.provider.Find(c.seq, orAll(m))
}

// Get is an alias for Find.
func (c *Collection) Get(m Matcher) (Record, bool) {
	return c.Find(m)
}

// FindIndex returns the position of the first record matching m, or -1.
func (c *Collection) FindIndex(m Matcher) int {
	return c.provider.FindIndex(c.seq, orAll(m))
}

// Index is an alias for FindIndex.
func (c *Collection) Index(m Matcher) int {
	return c.FindIndex(m)
}

// FindLastIndex returns the position of the last record matching m, or -1.
func (c *Collection) FindLastIndex(m Matcher) int {
	return c.provider.FindLastIndex(c.seq, orAll(m))
}

// Some reports whether any record matches m.
func (c *Collection) Some(m Matcher) bool {
	return c.provider.FindIndex(c.seq, orAll(m)) >= 0
}

// Every reports whether all records match m. It is true for an empty sequence.
func (c *Collection) Every(m Matcher) bool {
	return len(c.provider.Reject(c.seq, orAll(m))) == 0
}

// First returns the first slot of the sequence.
func (c *Collection) First() (Record, bool) {
	return c.provider.First(c.seq)
}

// Last returns the last slot of the sequence.
func (c *Collection) Last() (Record, bool) {
	return c.provider.Last(c.seq)
}

// At returns the slots at the given positions; out-of-range positions
// yield nil. Negative positions count from the end.
func (c *Collection) At(indexes ...int) []Record {
	return c.provider.At(c.seq, indexes...)
}

// Each calls fn for every slot in order.
func (c *Collection) Each(fn func(rec Record, i int)) {
	c.provider.Each(c.seq, fn)
}

// SortBy returns a sorted copy of the sequence; the collection keeps its order.
func (c *Collection) SortBy(cmp func(a, b Record) int) []Record {
	return c.provider.SortBy(c.seq, cmp)
}

// Sample returns a random slot.
func (c *Collection) Sample() (Record, bool) {
	return c.provider.Sample(c.seq)
}

// Shuffle returns a shuffled copy of the sequence.
func (c *Collection) Shuffle() []Record {
	return c.provider.Shuffle(c.seq)
}

// Size returns the number of slots.
func (c *Collection) Size() int {
	return c.provider.Size(c.seq)
}

// Length is an alias for Size.
func (c *Collection) Length() int {
	return c.Size()
}

// Max returns the record with the greatest score; ties keep the earliest.
func (c *Collection) Max(score func(rec Record) float64) (Record, bool) {
	return c.provider.Max(c.seq, score)
}

// Min returns the record with the smallest score; ties keep the earliest.
func (c *Collection) Min(score func(rec Record) float64) (Record, bool) {
	return c.provider.Min(c.seq, score)
}

// Map applies fn to every slot of c through the Provider. It is a function
// rather than a method because methods cannot introduce type parameters.
func Map[T any](c *Collection, fn func(rec Record, i int) T) []T {
	mapped := c.provider.Map(c.seq, func(rec Record, i int) any { return fn(rec, i) })
	out := make([]T, len(mapped))
	for i, v := range mapped {
		out[i], _ = v.(T)
	}
	return out
}

// Reduce folds the sequence from the left.
func Reduce[T any](c *Collection, fn func(acc T, rec Record, i int) T, initial T) T {
	return reduceWith(c.provider.Reduce, c.seq, fn, initial)
}

// ReduceRight folds the sequence from the right.
func ReduceRight[T any](c *Collection, fn func(acc T, rec Record, i int) T, initial T) T {
	return reduceWith(c.provider.ReduceRight, c.seq, fn, initial)
}

type reducer func(seq []Record, fn func(acc any, rec Record, i int) any, initial any) any

// reduceWith adapts a typed fold to the Provider's untyped one. A nil
// accumulator reads as T's zero value.
func reduceWith[T any](reduce reducer, seq []Record, fn func(acc T, rec Record, i int) T, initial T) T {
	result := reduce(seq, func(acc any, rec Record, i int) any {
		a, _ := acc.(T)
		return fn(a, rec, i)
	}, initial)
	out, _ := result.(T)
	return out
}

// Pluck collects field from every slot; empty slots and missing fields give nil.
func Pluck(c *Collection, field string) []any {
	return Map(c, func(rec Record, _ int) any { return rec[field] })
}
