package parse

import (
	"github.com/bits-and-blooms/bitset"
)

// A TokenSet is an immutable set of token kinds.
type TokenSet[T TokenKind] struct {
	bits *bitset.BitSet
}

func NewTokenSet[T TokenKind](tokens ...T) TokenSet[T] {
	bits := bitset.New(0)
	for _, token := range tokens {
		bits.Set(uint(token))
	}
	return TokenSet[T]{bits: bits}
}

func (s TokenSet[T]) Contains(token T) bool {
	return s.bits != nil && s.bits.Test(uint(token))
}

func (s TokenSet[T]) Len() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

func (s TokenSet[T]) Union(other TokenSet[T]) TokenSet[T] {
	switch {
	case s.bits == nil:
		return other
	case other.bits == nil:
		return s
	}
	return TokenSet[T]{bits: s.bits.Union(other.bits)}
}

// Tokens returns the members of the set in increasing order.
func (s TokenSet[T]) Tokens() []T {
	if s.bits == nil {
		return nil
	}

	tokens := make([]T, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		tokens = append(tokens, T(i))
	}
	return tokens
}
