package parse

import (
	"fmt"
	"strings"
)

// ExpectedSets is a list of groups of human-readable descriptions of what the
// parser expected. Grammars usually declare them as package-level variables
// so that groups can be shared.
type ExpectedSets [][]string

// Flatten returns all descriptions in order.
func (sets ExpectedSets) Flatten() []string {
	var flattened []string
	for _, set := range sets {
		flattened = append(flattened, set...)
	}
	return flattened
}

// A Diagnostic is a non-fatal parsing error. Each diagnostic is paired with
// an error node or with a missing token in the tree.
type Diagnostic[T TokenKind] struct {
	Expected ExpectedSets `json:"expected"`
	Found    Lexeme[T]    `json:"found"`
}

func (d Diagnostic[T]) Error() string {
	return fmt.Sprintf("found %v at %s - expected one of the following: %s",
		d.Found.Kind, d.Found.Span, strings.Join(d.Expected.Flatten(), "/"))
}
