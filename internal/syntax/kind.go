package syntax

// A Kind is the language-independent tag of a green token or node.
// Concrete languages declare their own ~uint16 enumeration and convert to Kind
// at the boundary with the tree library.
type Kind uint16

// Kinded is satisfied by every language-specific syntax kind enumeration.
type Kinded interface {
	~uint16
}

func Raw[S Kinded](kind S) Kind {
	return Kind(kind)
}

func As[S Kinded](kind Kind) S {
	return S(kind)
}
