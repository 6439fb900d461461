package red

import (
	"fmt"

	"github.com/viletech/doomfront/internal/syntax"
)

type TraversalAction int

const (
	ContinueTraversal TraversalAction = iota
	Prune
	StopTraversal
)

type NodeHandler[S syntax.Kinded] func(node *Node[S], ancestorChain []*Node[S], after bool) (TraversalAction, error)

// Walk performs a pre-order traversal of the nodes of a tree (depth first), tokens are not visited.
// postHandle is called on a node after all its descendants have been visited.
func Walk[S syntax.Kinded](node *Node[S], handle, postHandle NodeHandler[S]) (err error) {
	defer func() {
		v := recover()

		switch val := v.(type) {
		case error:
			err = fmt.Errorf("walk: %w", val)
		case nil:
		case TraversalAction:
		default:
			panic(v)
		}
	}()

	ancestorChain := make([]*Node[S], 0)
	walk(node, &ancestorChain, handle, postHandle)
	return
}

func walk[S syntax.Kinded](node *Node[S], ancestorChain *[]*Node[S], fn, afterFn NodeHandler[S]) {
	if node == nil {
		return
	}

	if fn != nil {
		action, err := fn(node, *ancestorChain, false)

		if err != nil {
			panic(err)
		}

		switch action {
		case StopTraversal:
			panic(StopTraversal)
		case Prune:
			return
		}
	}

	*ancestorChain = append(*ancestorChain, node)
	for _, child := range node.Children() {
		walk(child, ancestorChain, fn, afterFn)
	}
	*ancestorChain = (*ancestorChain)[:len(*ancestorChain)-1]

	if afterFn != nil {
		action, err := afterFn(node, *ancestorChain, true)

		if err != nil {
			panic(err)
		}

		switch action {
		case StopTraversal:
			panic(StopTraversal)
		}
	}
}

// CountNodes returns the number of nodes in the tree, tokens are not counted.
func CountNodes[S syntax.Kinded](n *Node[S]) (count int) {
	Walk(n, func(node *Node[S], _ []*Node[S], _ bool) (TraversalAction, error) {
		count += 1
		return ContinueTraversal, nil
	}, nil)

	return
}

// FindNodes returns the nodes of the given kind in pre-order.
func FindNodes[S syntax.Kinded](root *Node[S], kind S) []*Node[S] {
	var found []*Node[S]

	Walk(root, func(node *Node[S], _ []*Node[S], _ bool) (TraversalAction, error) {
		if node.Kind() == kind {
			found = append(found, node)
		}
		return ContinueTraversal, nil
	}, nil)

	return found
}
