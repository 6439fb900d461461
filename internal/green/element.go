package green

import (
	"fmt"
	"strings"

	"github.com/viletech/doomfront/internal/syntax"
)

// An Element is either a *Token or a *Node. Elements are immutable and may be
// shared by any number of trees.
type Element interface {
	Kind() syntax.Kind
	TextLen() int
	writeText(b *strings.Builder)
}

// A Token is a green leaf: a kind and the exact source text it covers.
type Token struct {
	kind syntax.Kind
	text string
}

func NewToken(kind syntax.Kind, text string) *Token {
	return &Token{kind: kind, text: text}
}

func (t *Token) Kind() syntax.Kind {
	return t.kind
}

func (t *Token) Text() string {
	return t.text
}

func (t *Token) TextLen() int {
	return len(t.text)
}

func (t *Token) String() string {
	return fmt.Sprintf("%d %q", t.kind, t.text)
}

func (t *Token) writeText(b *strings.Builder) {
	b.WriteString(t.text)
}

// A Node is a green branch. It knows its kind, its children and the length of
// the text it covers, but not its position nor its parent.
type Node struct {
	kind     syntax.Kind
	textLen  int
	children []Element
}

// NewNode creates a node; the children slice is copied.
func NewNode(kind syntax.Kind, children []Element) *Node {
	node := &Node{
		kind:     kind,
		children: make([]Element, len(children)),
	}
	copy(node.children, children)

	for _, child := range children {
		node.textLen += child.TextLen()
	}
	return node
}

func newNodeFromChildren(kind syntax.Kind, children []Child) *Node {
	node := &Node{
		kind:     kind,
		children: make([]Element, len(children)),
	}

	for i, child := range children {
		node.children[i] = child.Element
		node.textLen += child.Element.TextLen()
	}
	return node
}

func (n *Node) Kind() syntax.Kind {
	return n.kind
}

func (n *Node) TextLen() int {
	return n.textLen
}

// Children returns the children of the node, the returned slice should not be modified.
func (n *Node) Children() []Element {
	return n.children
}

func (n *Node) ChildCount() int {
	return len(n.children)
}

func (n *Node) Child(i int) Element {
	return n.children[i]
}

// Text concatenates the text of all the tokens of the subtree.
func (n *Node) Text() string {
	var b strings.Builder
	b.Grow(n.textLen)
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, child := range n.children {
		child.writeText(b)
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%d (%d children, %d bytes)", n.kind, len(n.children), n.textLen)
}

// StructurallyEqual reports whether a and b have the same shape and text,
// regardless of whether they share allocations.
func StructurallyEqual(a, b Element) bool {
	if a.Kind() != b.Kind() || a.TextLen() != b.TextLen() {
		return false
	}

	switch a := a.(type) {
	case *Token:
		b, ok := b.(*Token)
		return ok && a.text == b.text
	case *Node:
		b, ok := b.(*Node)
		if !ok || len(a.children) != len(b.children) {
			return false
		}
		for i, child := range a.children {
			if !StructurallyEqual(child, b.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}
