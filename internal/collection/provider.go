package collection

import (
	"math/rand/v2"
	"slices"
)

// Provider supplies the sequence queries and transforms the collection
// delegates to. Every method reads seq and must not modify it or the records
// in it. The collection never passes a nil Matcher.
type Provider interface {
	Filter(seq []Record, m Matcher) []Record
	Reject(seq []Record, m Matcher) []Record
	Find(seq []Record, m Matcher) (Record, bool)
	FindIndex(seq []Record, m Matcher) int
	FindLastIndex(seq []Record, m Matcher) int
	SortBy(seq []Record, cmp func(a, b Record) int) []Record
	Sample(seq []Record) (Record, bool)
	Shuffle(seq []Record) []Record
	Size(seq []Record) int

	First(seq []Record) (Record, bool)
	Last(seq []Record) (Record, bool)
	At(seq []Record, indexes ...int) []Record
	Each(seq []Record, fn func(rec Record, i int))
	Map(seq []Record, fn func(rec Record, i int) any) []any
	Reduce(seq []Record, fn func(acc any, rec Record, i int) any, initial any) any
	ReduceRight(seq []Record, fn func(acc any, rec Record, i int) any, initial any) any
	Max(seq []Record, score func(rec Record) float64) (Record, bool)
	Min(seq []Record, score func(rec Record) float64) (Record, bool)
}

// SliceProvider is the default Provider, built on package slices.
type SliceProvider struct {
	rng *rand.Rand
}

// NewSliceProvider creates a SliceProvider. A nil rng uses the global
// random source for Sample and Shuffle.
func NewSliceProvider(rng *rand.Rand) *SliceProvider {
	return &SliceProvider{rng: rng}
}

// Filter returns the records matching m, in sequence order.
func (p *SliceProvider) Filter(seq []Record, m Matcher) []Record {
	out := make([]Record, 0)
	for _, rec := range seq {
		if m.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Reject returns the records not matching m, in sequence order.
func (p *SliceProvider) Reject(seq []Record, m Matcher) []Record {
	out := make([]Record, 0, len(seq))
	for _, rec := range seq {
		if !m.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Find returns the first record matching m.
func (p *SliceProvider) Find(seq []Record, m Matcher) (Record, bool) {
	i := p.FindIndex(seq, m)
	if i < 0 {
		return nil, false
	}
	return seq[i], true
}

// FindIndex returns the position of the first match, or -1.
func (p *SliceProvider) FindIndex(seq []Record, m Matcher) int {
	return slices.IndexFunc(seq, m.Match)
}

// FindLastIndex returns the position of the last match, or -1.
func (p *SliceProvider) FindLastIndex(seq []Record, m Matcher) int {
	for i := len(seq) - 1; i >= 0; i-- {
		if m.Match(seq[i]) {
			return i
		}
	}
	return -1
}

// SortBy returns a stably sorted copy of seq.
func (p *SliceProvider) SortBy(seq []Record, cmp func(a, b Record) int) []Record {
	out := slices.Clone(seq)
	slices.SortStableFunc(out, cmp)
	return out
}

// Sample returns a random element of seq.
func (p *SliceProvider) Sample(seq []Record) (Record, bool) {
	if len(seq) == 0 {
		return nil, false
	}
	return seq[p.intN(len(seq))], true
}

// Shuffle returns a shuffled copy of seq.
func (p *SliceProvider) Shuffle(seq []Record) []Record {
	out := slices.Clone(seq)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if p.rng != nil {
		p.rng.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}
	return out
}

// Size returns len(seq).
func (p *SliceProvider) Size(seq []Record) int {
	return len(seq)
}

// First returns the first slot of seq.
func (p *SliceProvider) First(seq []Record) (Record, bool) {
	if len(seq) == 0 {
		return nil, false
	}
	return seq[0], true
}

// Last returns the last slot of seq.
func (p *SliceProvider) Last(seq []Record) (Record, bool) {
	if len(seq) == 0 {
		return nil, false
	}
	return seq[len(seq)-1], true
}

// At returns the slots at the given positions; out-of-range positions
// yield nil. Negative positions count from the end.
func (p *SliceProvider) At(seq []Record, indexes ...int) []Record {
	out := make([]Record, len(indexes))
	for i, idx := range indexes {
		if idx < 0 {
			idx += len(seq)
		}
		if idx >= 0 && idx < len(seq) {
			out[i] = seq[idx]
		}
	}
	return out
}

// Each calls fn for every slot in order.
func (p *SliceProvider) Each(seq []Record, fn func(rec Record, i int)) {
	for i, rec := range seq {
		fn(rec, i)
	}
}

// Map applies fn to every slot in order.
func (p *SliceProvider) Map(seq []Record, fn func(rec Record, i int) any) []any {
	out := make([]any, len(seq))
	for i, rec := range seq {
		out[i] = fn(rec, i)
	}
	return out
}

// Reduce folds seq from the left.
func (p *SliceProvider) Reduce(seq []Record, fn func(acc any, rec Record, i int) any, initial any) any {
	acc := initial
	for i, rec := range seq {
		acc = fn(acc, rec, i)
	}
	return acc
}

// ReduceRight folds seq from the right.
func (p *SliceProvider) ReduceRight(seq []Record, fn func(acc any, rec Record, i int) any, initial any) any {
	acc := initial
	for i := len(seq) - 1; i >= 0; i-- {
		acc = fn(acc, seq[i], i)
	}
	return acc
}

// Max returns the record with the greatest score; ties keep the earliest.
// Empty slots are skipped.
func (p *SliceProvider) Max(seq []Record, score func(rec Record) float64) (Record, bool) {
	return extreme(seq, score, func(a, b float64) bool { return a > b })
}

// Min returns the record with the smallest score; ties keep the earliest.
// Empty slots are skipped.
func (p *SliceProvider) Min(seq []Record, score func(rec Record) float64) (Record, bool) {
	return extreme(seq, score, func(a, b float64) bool { return a < b })
}

func extreme(seq []Record, score func(Record) float64, better func(a, b float64) bool) (Record, bool) {
	var (
		best      Record
		bestScore float64
		found     bool
	)
	for _, rec := range seq {
		if rec == nil {
			continue
		}
		s := score(rec)
		if !found || better(s, bestScore) {
			best, bestScore, found = rec, s, true
		}
	}
	return best, found
}

func (p *SliceProvider) intN(n int) int {
	if p.rng != nil {
		return p.rng.IntN(n)
	}
	return rand.IntN(n)
}
