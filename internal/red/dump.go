package red

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/viletech/doomfront/internal/syntax"
)

const DUMP_INDENT_UNIT = "  "

// Dump writes an indented representation of the tree to w, one element per line:
//
//	Root@0..3
//	  BinExpr@0..3
//	    Ident@0..1 "a"
func Dump[S syntax.Kinded](w io.Writer, node *Node[S]) error {
	buf := bufio.NewWriter(w)
	dump[S](buf, node, 0)
	return buf.Flush()
}

// DumpString is like Dump but returns the result.
func DumpString[S syntax.Kinded](node *Node[S]) string {
	b := new(strings.Builder)
	Dump(b, node)
	return b.String()
}

func dump[S syntax.Kinded](w *bufio.Writer, element Element[S], depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString(DUMP_INDENT_UNIT)
	}

	span := element.Span()

	switch e := element.(type) {
	case *Token[S]:
		fmt.Fprintf(w, "%v@%s %q\n", e.Kind(), span, e.Text())
	case *Node[S]:
		fmt.Fprintf(w, "%v@%s\n", e.Kind(), span)
		for _, child := range e.ChildrenWithTokens() {
			dump(w, child, depth+1)
		}
	}
}
