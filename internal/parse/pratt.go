package parse

// A PrecedenceTable lists operator levels from the weakest to the strongest.
type PrecedenceTable[T TokenKind] []TokenSet[T]

func NewPrecedenceTable[T TokenKind](levels ...[]T) PrecedenceTable[T] {
	table := make(PrecedenceTable[T], len(levels))
	for i, level := range levels {
		table[i] = NewTokenSet(level...)
	}
	return table
}

// Strength returns the level of token, ok is false if token is not an operator.
func (table PrecedenceTable[T]) Strength(token T) (level int, ok bool) {
	for i, set := range table {
		if set.Contains(token) {
			return i, true
		}
	}
	return -1, false
}

// Pratt returns true if right binds more strongly than left in an infix
// expression. A right token absent from the table never binds, which ends
// the expression at non-operator tokens and at the end of input. A left token
// absent from the table (the start of an expression) binds weaker than any operator.
func Pratt[T TokenKind](left, right T, table PrecedenceTable[T]) bool {
	rightStrength, ok := table.Strength(right)
	if !ok {
		return false
	}

	leftStrength, ok := table.Strength(left)
	if !ok {
		return true
	}

	return rightStrength > leftStrength
}
