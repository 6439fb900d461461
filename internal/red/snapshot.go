package red

import (
	"fmt"

	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/syntax"
	"github.com/viletech/doomfront/internal/utils"
)

// A Snapshot is a plain representation of a tree, suitable for serialization.
type Snapshot struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Span     parse.Span `json:"span" yaml:"span"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	Children []Snapshot `json:"children,omitempty" yaml:"children,omitempty"`
}

// TakeSnapshot copies the tree rooted at node. Kinds are formatted with %v,
// so kinds implementing fmt.Stringer are represented by their names.
func TakeSnapshot[S syntax.Kinded](node *Node[S]) Snapshot {
	snapshot := Snapshot{
		Kind: fmt.Sprint(node.Kind()),
		Span: node.Span(),
	}

	for _, child := range node.ChildrenWithTokens() {
		switch c := child.(type) {
		case *Token[S]:
			snapshot.Children = append(snapshot.Children, Snapshot{
				Kind: fmt.Sprint(c.Kind()),
				Span: c.Span(),
				Text: c.Text(),
			})
		case *Node[S]:
			snapshot.Children = append(snapshot.Children, TakeSnapshot(c))
		}
	}
	return snapshot
}

// MarshalJSON serializes the snapshot of node, token texts are not HTML-escaped.
func MarshalJSON[S syntax.Kinded](node *Node[S]) ([]byte, error) {
	return utils.MarshalJsonNoHTMLEspace(TakeSnapshot(node))
}

func MarshalIndentJSON[S syntax.Kinded](node *Node[S], prefix, indent string) ([]byte, error) {
	return utils.MarshalIndentJsonNoHTMLEspace(TakeSnapshot(node), prefix, indent)
}
