package red

import (
	"github.com/viletech/doomfront/internal/green"
	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/syntax"
)

// An Element is either a *Node or a *Token.
type Element[S syntax.Kinded] interface {
	Kind() S
	Offset() int
	Span() parse.Span
	Text() string
	Parent() *Node[S]
}

// A Node is a cursor over a green node: it adds the absolute offset of the
// node and a link to its parent. Nodes are created on demand and are cheap,
// two cursors over the same element are equal but not identical.
type Node[S syntax.Kinded] struct {
	green  *green.Node
	parent *Node[S]
	index  int //index in the children of the parent
	offset int
}

// A Token is a cursor over a green token.
type Token[S syntax.Kinded] struct {
	green  *green.Token
	parent *Node[S]
	index  int
	offset int
}

// NewRoot returns a cursor over root, at offset 0.
func NewRoot[S syntax.Kinded](root *green.Node) *Node[S] {
	return &Node[S]{green: root}
}

func (n *Node[S]) Kind() S {
	return syntax.As[S](n.green.Kind())
}

func (n *Node[S]) Green() *green.Node {
	return n.green
}

func (n *Node[S]) Offset() int {
	return n.offset
}

func (n *Node[S]) Span() parse.Span {
	return parse.Span{Start: n.offset, End: n.offset + n.green.TextLen()}
}

func (n *Node[S]) Text() string {
	return n.green.Text()
}

// Parent returns nil for the root.
func (n *Node[S]) Parent() *Node[S] {
	return n.parent
}

// Index returns the position of the node among the elements of its parent.
func (n *Node[S]) Index() int {
	return n.index
}

// ChildrenWithTokens returns all children, including tokens.
func (n *Node[S]) ChildrenWithTokens() []Element[S] {
	children := make([]Element[S], 0, n.green.ChildCount())
	n.forEachChild(func(child Element[S]) bool {
		children = append(children, child)
		return true
	})
	return children
}

// Children returns the child nodes, tokens are skipped.
func (n *Node[S]) Children() []*Node[S] {
	var children []*Node[S]
	n.forEachChild(func(child Element[S]) bool {
		if node, ok := child.(*Node[S]); ok {
			children = append(children, node)
		}
		return true
	})
	return children
}

func (n *Node[S]) forEachChild(fn func(child Element[S]) bool) {
	offset := n.offset
	for i, child := range n.green.Children() {
		if !fn(n.wrap(i, offset, child)) {
			return
		}
		offset += child.TextLen()
	}
}

func (n *Node[S]) wrap(index, offset int, child green.Element) Element[S] {
	switch c := child.(type) {
	case *green.Node:
		return &Node[S]{green: c, parent: n, index: index, offset: offset}
	case *green.Token:
		return &Token[S]{green: c, parent: n, index: index, offset: offset}
	}
	panic("unreachable")
}

// childAt returns the element at index, or nil.
func (n *Node[S]) childAt(index int) Element[S] {
	if index < 0 || index >= n.green.ChildCount() {
		return nil
	}

	offset := n.offset
	for i := 0; i < index; i++ {
		offset += n.green.Child(i).TextLen()
	}
	return n.wrap(index, offset, n.green.Child(index))
}

// FirstChild returns the first child node, or nil.
func (n *Node[S]) FirstChild() *Node[S] {
	var first *Node[S]
	n.forEachChild(func(child Element[S]) bool {
		if node, ok := child.(*Node[S]); ok {
			first = node
			return false
		}
		return true
	})
	return first
}

// LastChild returns the last child node, or nil.
func (n *Node[S]) LastChild() *Node[S] {
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	return children[len(children)-1]
}

// FirstToken returns the first leaf of the subtree, or nil if the subtree has no tokens.
func (n *Node[S]) FirstToken() *Token[S] {
	var first *Token[S]
	n.forEachChild(func(child Element[S]) bool {
		switch c := child.(type) {
		case *Token[S]:
			first = c
		case *Node[S]:
			first = c.FirstToken()
		}
		return first == nil
	})
	return first
}

// Tokens returns the leaves of the subtree in source order.
func (n *Node[S]) Tokens() []*Token[S] {
	var tokens []*Token[S]

	var collect func(node *Node[S])
	collect = func(node *Node[S]) {
		node.forEachChild(func(child Element[S]) bool {
			switch c := child.(type) {
			case *Token[S]:
				tokens = append(tokens, c)
			case *Node[S]:
				collect(c)
			}
			return true
		})
	}
	collect(n)
	return tokens
}

// TokenAt returns the leaf covering offset, or nil if offset is outside the node.
// At the boundary between two tokens the second one is returned.
func (n *Node[S]) TokenAt(offset int) *Token[S] {
	span := n.Span()
	if offset < span.Start || offset >= span.End {
		return nil
	}

	var found *Token[S]
	n.forEachChild(func(child Element[S]) bool {
		childSpan := child.Span()
		if offset < childSpan.Start || offset >= childSpan.End {
			return true
		}
		switch c := child.(type) {
		case *Token[S]:
			found = c
		case *Node[S]:
			found = c.TokenAt(offset)
		}
		return false
	})
	return found
}

// NextSibling returns the next sibling node, or nil. Tokens are skipped.
func (n *Node[S]) NextSibling() *Node[S] {
	if n.parent == nil {
		return nil
	}

	for i := n.index + 1; i < n.parent.green.ChildCount(); i++ {
		if node, ok := n.parent.childAt(i).(*Node[S]); ok {
			return node
		}
	}
	return nil
}

// PrevSibling returns the previous sibling node, or nil. Tokens are skipped.
func (n *Node[S]) PrevSibling() *Node[S] {
	if n.parent == nil {
		return nil
	}

	for i := n.index - 1; i >= 0; i-- {
		if node, ok := n.parent.childAt(i).(*Node[S]); ok {
			return node
		}
	}
	return nil
}

// Ancestors returns the parent, the grandparent, ... up to the root.
func (n *Node[S]) Ancestors() []*Node[S] {
	var ancestors []*Node[S]
	for p := n.parent; p != nil; p = p.parent {
		ancestors = append(ancestors, p)
	}
	return ancestors
}

func (t *Token[S]) Kind() S {
	return syntax.As[S](t.green.Kind())
}

func (t *Token[S]) Green() *green.Token {
	return t.green
}

func (t *Token[S]) Offset() int {
	return t.offset
}

func (t *Token[S]) Span() parse.Span {
	return parse.Span{Start: t.offset, End: t.offset + t.green.TextLen()}
}

func (t *Token[S]) Text() string {
	return t.green.Text()
}

func (t *Token[S]) Parent() *Node[S] {
	return t.parent
}

func (t *Token[S]) Index() int {
	return t.index
}

// NextSiblingOrToken returns the element following the token in its parent, or nil.
func (t *Token[S]) NextSiblingOrToken() Element[S] {
	return t.parent.childAt(t.index + 1)
}

// PrevSiblingOrToken returns the element preceding the token in its parent, or nil.
func (t *Token[S]) PrevSiblingOrToken() Element[S] {
	return t.parent.childAt(t.index - 1)
}
