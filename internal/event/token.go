package event

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// TokenGenerator produces namespace tokens for UniqueOn.
// Implemented by UUIDv7Tokens (production) and FixedTokens (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Tokens generates time-sortable UUIDv7 namespace tokens.
//
// Tokens contain no dots, so a namespaced name always splits cleanly into
// event and namespace at the first dot after the event name.
type UUIDv7Tokens struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Tokens) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedTokens returns predetermined tokens in order.
//
// Example:
//
//	gen := NewFixedTokens("ns1", "ns2")
//	gen.Generate() // "ns1"
//	gen.Generate() // "ns2"
//	gen.Generate() // panic: all tokens exhausted
type FixedTokens struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokens creates a generator that returns tokens in order.
func NewFixedTokens(tokens ...string) *FixedTokens {
	return &FixedTokens{tokens: tokens}
}

// Generate returns the next predetermined token.
//
// Panics once all tokens have been consumed so that a test registering more
// unique groups than it planned for fails loudly.
func (g *FixedTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic(fmt.Sprintf("FixedTokens: all %d tokens exhausted", len(g.tokens)))
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
