package expr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viletech/doomfront/internal/green"
	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/red"
	"github.com/viletech/doomfront/internal/zdoom"
)

// sexpr prints the nodes of the tree as s-expressions, trivia is omitted.
func sexpr(node *red.Node[Syntax]) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(node.Kind().String())

	for _, child := range node.ChildrenWithTokens() {
		switch c := child.(type) {
		case *red.Node[Syntax]:
			b.WriteString(" ")
			b.WriteString(sexpr(c))
		case *red.Token[Syntax]:
			switch c.Kind() {
			case Whitespace, Comment, RegionStart, RegionEnd:
				continue
			}
			b.WriteString(" ")
			b.WriteString(c.Text())
		}
	}

	b.WriteString(")")
	return b.String()
}

func parseExpr(t *testing.T, source string) (*red.Node[Syntax], []parse.Diagnostic[zdoom.Token]) {
	root, diagnostics := Parse(source, nil, zdoom.Options{})
	cursor := red.NewRoot[Syntax](root)

	require.Equal(t, Root, cursor.Kind())
	assert.Equal(t, source, cursor.Text())
	return cursor, diagnostics
}

func TestParse(t *testing.T) {

	t.Run("binary expression", func(t *testing.T) {
		root, diagnostics := parseExpr(t, "a+b")
		assert.Empty(t, diagnostics)
		assert.Equal(t, parse.Span{Start: 0, End: 3}, root.Span())

		bin := root.FirstChild()
		require.Equal(t, BinExpr, bin.Kind())

		children := bin.ChildrenWithTokens()
		require.Len(t, children, 3)
		assert.Equal(t, IdentExpr, children[0].Kind())
		assert.Equal(t, Plus, children[1].Kind())
		assert.Equal(t, IdentExpr, children[2].Kind())
		assert.Equal(t, "b", children[2].Text())
	})

	t.Run("missing right operand", func(t *testing.T) {
		root, diagnostics := parseExpr(t, "a+")
		assert.Equal(t, parse.Span{Start: 0, End: 2}, root.Span())

		require.Len(t, diagnostics, 1)
		assert.Equal(t, zdoom.Eof, diagnostics[0].Found.Kind)
		assert.Equal(t, parse.Span{Start: 2, End: 2}, diagnostics[0].Found.Span)
		assert.Equal(t, "(Root (BinExpr (IdentExpr a) + (Error)))", sexpr(root))
	})

	t.Run("empty input", func(t *testing.T) {
		root, diagnostics := parseExpr(t, "")
		assert.Len(t, diagnostics, 1)
		assert.Equal(t, "(Root (Error))", sexpr(root))
	})

	testCases := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(Root (BinExpr (Literal 1) + (BinExpr (Literal 2) * (Literal 3))))"},
		{"1 * 2 + 3", "(Root (BinExpr (BinExpr (Literal 1) * (Literal 2)) + (Literal 3)))"},
		{"a - b - c", "(Root (BinExpr (BinExpr (IdentExpr a) - (IdentExpr b)) - (IdentExpr c)))"},
		{"a || b && c", "(Root (BinExpr (IdentExpr a) || (BinExpr (IdentExpr b) && (IdentExpr c))))"},
		{"x << 1 | y", "(Root (BinExpr (BinExpr (IdentExpr x) << (Literal 1)) | (IdentExpr y)))"},
		{"-a * b", "(Root (PrefixExpr - (BinExpr (IdentExpr a) * (IdentExpr b))))"},
		{"-a + b", "(Root (BinExpr (PrefixExpr - (IdentExpr a)) + (IdentExpr b)))"},
		{"!done", "(Root (PrefixExpr ! (IdentExpr done)))"},
		{"i++", "(Root (PostfixExpr (IdentExpr i) ++))"},
		{"(1 + 2) * 3", "(Root (BinExpr (GroupExpr ( (BinExpr (Literal 1) + (Literal 2)) )) * (Literal 3)))"},
		{"a ? b : c", "(Root (TernaryExpr (IdentExpr a) ? (IdentExpr b) : (IdentExpr c)))"},
		{"f(1, x)", "(Root (CallExpr (IdentExpr f) (ArgList ( (Literal 1) , (IdentExpr x) ))))"},
		{"f()", "(Root (CallExpr (IdentExpr f) (ArgList ( ))))"},
		{"a[0]", "(Root (IndexExpr (IdentExpr a) [ (Literal 0) ]))"},
		{"A_Jump(256, 'Spawn')", "(Root (CallExpr (IdentExpr A_Jump) (ArgList ( (Literal 256) , (Literal 'Spawn') ))))"},
		{`"text"`, `(Root (Literal "text"))`},
		{"true", "(Root (Literal true))"},
		{"none", "(Root (NoneExpr none))"},
		{"00ff00", "(Root (ColorExpr 00ff00))"},
		{"int", "(Root (IdentExpr int))"},
		{" a /* c */ + b ", "(Root (BinExpr (IdentExpr a) + (IdentExpr b)))"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			root, diagnostics := parseExpr(t, testCase.input)
			assert.Empty(t, diagnostics)
			assert.Equal(t, testCase.expected, sexpr(root))
		})
	}

	t.Run("color literal is a single leaf", func(t *testing.T) {
		root, _ := parseExpr(t, "00ff00")
		tokens := root.Tokens()
		require.Len(t, tokens, 1)
		assert.Equal(t, HexLit, tokens[0].Kind())
		assert.Equal(t, "00ff00", tokens[0].Text())
	})

	t.Run("trailing tokens", func(t *testing.T) {
		root, diagnostics := parseExpr(t, "a b c")
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "(Root (IdentExpr a) (Error b c))", sexpr(root))
	})

	t.Run("unclosed group", func(t *testing.T) {
		root, diagnostics := parseExpr(t, "(a")
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "(Root (GroupExpr ( (IdentExpr a)))", sexpr(root))
	})

	t.Run("invalid operand", func(t *testing.T) {
		root, diagnostics := parseExpr(t, "a + ; b")
		require.NotEmpty(t, diagnostics)
		assert.Equal(t, zdoom.Semicolon, diagnostics[0].Found.Kind)
		assert.Len(t, red.FindNodes(root, Error), 2)
	})

	t.Run("deep nesting", func(t *testing.T) {
		source := strings.Repeat("(", 100) + "a" + strings.Repeat(")", 100)
		_, diagnostics := parseExpr(t, source)
		assert.Empty(t, diagnostics)
	})

	t.Run("structural sharing", func(t *testing.T) {
		cache := green.NewSharedCache()

		first, _ := Parse("a+b", cache, zdoom.Options{})
		second, _ := Parse("a+b", cache, zdoom.Options{})
		assert.Same(t, first, second)
	})
}

func TestPrecedence(t *testing.T) {
	assert.True(t, parse.Pratt(zdoom.Plus, zdoom.Asterisk, Precedence))
	assert.False(t, parse.Pratt(zdoom.Asterisk, zdoom.Plus, Precedence))
	assert.False(t, parse.Pratt(zdoom.Plus, zdoom.Minus, Precedence))
	assert.True(t, parse.Pratt(zdoom.Eof, zdoom.Eq, Precedence))
	assert.False(t, parse.Pratt(zdoom.Plus, zdoom.ParenR, Precedence))
}
