package parse

import (
	"fmt"

	"github.com/viletech/doomfront/internal/syntax"
	"golang.org/x/exp/constraints"
)

// TokenKind is satisfied by the token enumeration of every language.
type TokenKind interface {
	constraints.Unsigned
}

// A Span is a half-open byte range in the source.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// A Lexeme is a classified and positioned token.
type Lexeme[T TokenKind] struct {
	Kind T    `json:"kind"`
	Span Span `json:"span"`
}

// A Lexer produces the lexemes of a source. Every byte must belong to exactly
// one lexeme, unrecognized bytes are reported with an 'unknown' kind.
type Lexer[T TokenKind] interface {
	// Next returns the next lexeme, ok is false at the end of the input.
	Next() (kind T, span Span, ok bool)
}

// A Language ties a token enumeration to a syntax kind enumeration. Lexer
// options (the 'extras') are fields of the implementation.
type Language[T TokenKind, S syntax.Kinded] interface {
	Lexer(source string) Lexer[T]

	// EOF is the kind reported by the lookahead functions past the last lexeme.
	EOF() T

	// ErrorNode is the syntax kind of the nodes wrapping erroneous tokens.
	ErrorNode() S
}

func lex[T TokenKind, S syntax.Kinded](source string, lang Language[T, S]) []Lexeme[T] {
	lexer := lang.Lexer(source)
	lexemes := make([]Lexeme[T], 0, len(source)/4+1)

	for {
		kind, span, ok := lexer.Next()
		if !ok {
			break
		}
		lexemes = append(lexemes, Lexeme[T]{Kind: kind, Span: span})
	}
	return lexemes
}
