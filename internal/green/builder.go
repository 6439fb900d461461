package green

import (
	"fmt"

	"github.com/viletech/doomfront/internal/syntax"
)

// An InvariantError is the value of the panics caused by a misuse of the tree
// construction API. It indicates a bug in a grammar rule, not malformed input.
type InvariantError struct {
	Message string
}

func (err *InvariantError) Error() string {
	return err.Message
}

func invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{Message: fmt.Sprintf(format, args...)}
}

// A Builder constructs a green tree bottom-up. Tokens and nodes are requested
// from the Cache, so the resulting tree may share elements with other trees
// built with the same cache.
type Builder struct {
	cache    Cache
	parents  []openParent
	children []Child
}

type openParent struct {
	kind       syntax.Kind
	firstChild int
}

// A Checkpoint marks a position in the children of the current branch, see Builder.OpenAt.
type Checkpoint struct {
	index int
}

// NewBuilder creates a Builder, a nil cache is equivalent to NoopCache{}.
func NewBuilder(cache Cache) *Builder {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Builder{cache: cache}
}

// Token adds a token to the current branch.
func (b *Builder) Token(kind syntax.Kind, text string) {
	hash, token := b.cache.Token(kind, text)
	b.children = append(b.children, Child{Hash: hash, Element: token})
}

// Open starts a new branch and makes it current.
func (b *Builder) Open(kind syntax.Kind) {
	b.parents = append(b.parents, openParent{kind: kind, firstChild: len(b.children)})
}

// Close finishes the current branch and restores the previous branch as current.
func (b *Builder) Close() {
	if len(b.parents) == 0 {
		panic(invariantf("tried to close an absent node"))
	}

	parent := b.parents[len(b.parents)-1]
	b.parents = b.parents[:len(b.parents)-1]

	hash, node := b.cache.Node(parent.kind, b.children[parent.firstChild:])

	clear(b.children[parent.firstChild:])
	b.children = b.children[:parent.firstChild]
	b.children = append(b.children, Child{Hash: hash, Element: node})
}

// Cancel drops the current branch and its children if it has the given kind.
func (b *Builder) Cancel(kind syntax.Kind) {
	b.CancelIf(func(k syntax.Kind) bool { return k == kind })
}

// CancelIf drops the current branch and its children if its kind satisfies predicate.
func (b *Builder) CancelIf(predicate func(syntax.Kind) bool) {
	if len(b.parents) == 0 {
		panic(invariantf("tried to cancel an absent node"))
	}

	parent := b.parents[len(b.parents)-1]
	if !predicate(parent.kind) {
		return
	}
	b.parents = b.parents[:len(b.parents)-1]
	clear(b.children[parent.firstChild:])
	b.children = b.children[:parent.firstChild]
}

// Checkpoint prepares for maybe wrapping the next elements: place the elements
// to wrap and then maybe call OpenAt.
func (b *Builder) Checkpoint() Checkpoint {
	return Checkpoint{index: len(b.children)}
}

// OpenAt wraps the elements added since checkpoint in a new branch and makes it current.
func (b *Builder) OpenAt(checkpoint Checkpoint, kind syntax.Kind) {
	if checkpoint.index > len(b.children) {
		panic(invariantf("checkpoint no longer valid, was Close called early?"))
	}

	if len(b.parents) > 0 {
		if parent := b.parents[len(b.parents)-1]; checkpoint.index < parent.firstChild {
			panic(invariantf("checkpoint no longer valid, was an unmatched OpenAt called?"))
		}
	}

	b.parents = append(b.parents, openParent{kind: kind, firstChild: checkpoint.index})
}

// CancelCheckpoint drops all elements added since checkpoint.
func (b *Builder) CancelCheckpoint(checkpoint Checkpoint) {
	if checkpoint.index > len(b.children) {
		panic(invariantf("checkpoint no longer valid, was Close called early?"))
	}
	clear(b.children[checkpoint.index:])
	b.children = b.children[:checkpoint.index]
}

func (b *Builder) ParentCount() int {
	return len(b.parents)
}

// Finish completes the tree and returns its root. Open and Close calls should be paired
// and the root should be a node.
func (b *Builder) Finish() *Node {
	if len(b.parents) != 0 {
		panic(invariantf("a branch was never closed (%d still open, innermost kind: %d)", len(b.parents), b.parents[len(b.parents)-1].kind))
	}

	if len(b.children) != 1 {
		panic(invariantf("the tree should have exactly one root, got %d elements", len(b.children)))
	}

	root, ok := b.children[0].Element.(*Node)
	if !ok {
		panic(invariantf("a green token cannot be the root of a green tree"))
	}

	b.children = nil
	return root
}
