package prettyprint

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/viletech/doomfront/internal/red"
	"github.com/viletech/doomfront/internal/syntax"
)

// PrintTree writes the same representation as red.Dump with colorized kinds, spans and
// token texts. Nodes of kind invalidKind and their descendants are highlighted.
func PrintTree[S syntax.Kinded](w io.Writer, node *red.Node[S], invalidKind S, colors PrettyPrintColors) (err error) {
	defer recoverWriteError(&err)

	writer := NewWriter(bufio.NewWriter(w), colors)
	printElement[S](writer, node, invalidKind, false)
	return writer.Flush()
}

func printElement[S syntax.Kinded](w PrettyPrintWriter, element red.Element[S], invalidKind S, insideInvalid bool) {
	w.WriteIndent()

	colors := w.Colors()
	kindColor := colors.TokenKind
	if insideInvalid || element.Kind() == invalidKind {
		kindColor = colors.InvalidNode
	} else if _, ok := element.(*red.Node[S]); ok {
		kindColor = colors.NodeKind
	}

	w.WriteColored(kindColor, fmt.Sprint(element.Kind()))
	w.WriteColored(colors.DiscreteColor, "@"+element.Span().String())

	switch e := element.(type) {
	case *red.Token[S]:
		w.WriteByte(' ')
		w.WriteColored(colors.TokenText, strconv.Quote(e.Text()))
		w.WriteByte('\n')
	case *red.Node[S]:
		w.WriteByte('\n')

		childWriter := w.IncrDepth()
		for _, child := range e.ChildrenWithTokens() {
			printElement(childWriter, child, invalidKind, insideInvalid || e.Kind() == invalidKind)
		}
	}
}
