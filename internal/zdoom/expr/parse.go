package expr

import (
	"github.com/viletech/doomfront/internal/green"
	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/zdoom"
)

type Parser = parse.Parser[zdoom.Token, Syntax]

var (
	Language = zdoom.Language[Syntax]{Error: Error}

	// Precedence is the binding strength of the infix, prefix and postfix
	// operators, weakest first.
	Precedence = parse.NewPrecedenceTable(
		[]zdoom.Token{
			zdoom.Eq,
			zdoom.AsteriskEq,
			zdoom.SlashEq,
			zdoom.PercentEq,
			zdoom.PlusEq,
			zdoom.MinusEq,
			zdoom.AngleL2Eq,
			zdoom.AngleR2Eq,
			zdoom.AmpersandEq,
			zdoom.PipeEq,
			zdoom.CaretEq,
			zdoom.AngleR3Eq,
		},
		[]zdoom.Token{zdoom.Question},
		[]zdoom.Token{zdoom.Pipe2},
		[]zdoom.Token{zdoom.Ampersand2},
		[]zdoom.Token{zdoom.Eq2, zdoom.BangEq},
		[]zdoom.Token{zdoom.AngleL, zdoom.AngleR, zdoom.AngleLEq, zdoom.AngleREq},
		[]zdoom.Token{zdoom.Pipe},
		[]zdoom.Token{zdoom.Caret},
		[]zdoom.Token{zdoom.Ampersand},
		[]zdoom.Token{zdoom.AngleL2, zdoom.AngleR2, zdoom.AngleR3},
		[]zdoom.Token{zdoom.Plus, zdoom.Minus},
		[]zdoom.Token{zdoom.Asterisk, zdoom.Slash, zdoom.Percent},
		[]zdoom.Token{zdoom.Asterisk2},
		[]zdoom.Token{zdoom.Minus2, zdoom.Plus2, zdoom.Bang, zdoom.Tilde},
	)

	expectedPrimary = parse.ExpectedSets{{
		"an integer",
		"a floating-point number",
		"a string",
		"a name literal",
		"`true` or `false`",
		"`(`",
		"`!`",
		"`--` or `++`",
		"`-` or `+`",
		"`~`",
	}}
)

// Parse parses source as a single expression, cache can be nil.
// Tokens following the expression are wrapped in an error node.
func Parse(source string, cache green.Cache, lexOpts zdoom.Options, opts ...parse.ParserOptions) (*green.Node, []parse.Diagnostic[zdoom.Token]) {
	lang := Language
	lang.Options = lexOpts

	p := parse.NewParser[zdoom.Token, Syntax](source, lang, opts...)

	root := p.Open()
	trivia0Plus(p)
	Expr(p)
	trivia0Plus(p)

	if !p.Eof() {
		rest := p.Open()
		p.Raise(parse.ExpectedSets{{"end of input"}})
		for !p.Eof() {
			p.Advance(FromToken(p.Nth(0)))
		}
		p.Close(rest, Error)
	}

	p.Close(root, Root)
	return p.Finish(cache)
}

// Expr builds an expression node.
func Expr(p *Parser) {
	recur(p, zdoom.Eof)
}

func recur(p *Parser, left zdoom.Token) {
	lhs := primary(p)

	for {
		next := p.Find(0, isNotTrivia)

		//postfix operators, calls and indexing bind more strongly than any infix operator
		switch next {
		case zdoom.Minus2, zdoom.Plus2:
			m := p.OpenBefore(lhs)
			trivia0Plus(p)
			p.Advance(FromToken(next))
			lhs = p.Close(m, PostfixExpr)
			continue
		case zdoom.ParenL:
			m := p.OpenBefore(lhs)
			trivia0Plus(p)
			argList(p)
			lhs = p.Close(m, CallExpr)
			continue
		case zdoom.BracketL:
			m := p.OpenBefore(lhs)
			trivia0Plus(p)
			p.Advance(BracketL)
			trivia0Plus(p)
			Expr(p)
			trivia0Plus(p)
			p.Expect(zdoom.BracketR, BracketR, parse.ExpectedSets{{"`]`"}})
			lhs = p.Close(m, IndexExpr)
			continue
		}

		if !parse.Pratt(left, next, Precedence) {
			break
		}

		m := p.OpenBefore(lhs)
		trivia0Plus(p)

		if next == zdoom.Question {
			p.Advance(Question)
			trivia0Plus(p)
			Expr(p)
			trivia0Plus(p)
			p.Expect(zdoom.Colon, Colon, parse.ExpectedSets{{"`:`"}})
			trivia0Plus(p)
			Expr(p)
			lhs = p.Close(m, TernaryExpr)
		} else {
			p.Advance(FromToken(next))
			trivia0Plus(p)
			recur(p, next)
			lhs = p.Close(m, BinExpr)
		}
	}
}

func primary(p *Parser) parse.CloseMark {
	ex := p.Open()
	token := p.Nth(0)

	if token.IsIdentLax() {
		p.Advance(Ident)
		return p.Close(ex, IdentExpr)
	}

	switch token {
	case zdoom.IntLit, zdoom.FloatLit:
		if next := p.Nth(1); next == zdoom.Ident || next == zdoom.IntLit {
			if zdoom.IsHex(p.NthSlice(1)) {
				p.AdvanceN(HexLit, 2)
				return p.Close(ex, ColorExpr)
			}
		}

		p.Advance(FromToken(token))
		return p.Close(ex, Literal)
	case zdoom.KwTrue, zdoom.KwFalse, zdoom.StringLit, zdoom.NameLit:
		p.Advance(FromToken(token))
		return p.Close(ex, Literal)
	case zdoom.KwNone:
		p.Advance(KwNone)
		return p.Close(ex, NoneExpr)
	case zdoom.ParenL:
		p.Advance(ParenL)
		trivia0Plus(p)
		Expr(p)
		trivia0Plus(p)
		p.Expect(zdoom.ParenR, ParenR, parse.ExpectedSets{{"`)`"}})
		return p.Close(ex, GroupExpr)
	case zdoom.Bang, zdoom.Minus2, zdoom.Plus2, zdoom.Minus, zdoom.Plus, zdoom.Tilde:
		p.Advance(FromToken(token))
		trivia0Plus(p)
		recur(p, token)
		return p.Close(ex, PrefixExpr)
	default:
		return p.AdvanceErrAndClose(ex, FromToken(token), Error, expectedPrimary)
	}
}

// argList builds an ArgList node, the delimiting parentheses are included.
func argList(p *Parser) {
	p.AssertAt(zdoom.ParenL)

	list := p.Open()
	p.Advance(ParenL)
	trivia0Plus(p)

	for !p.At(zdoom.ParenR) && !p.Eof() {
		Expr(p)

		if p.Find(0, isNotTrivia) != zdoom.Comma {
			break
		}

		trivia0Plus(p)
		p.Advance(Comma)
		trivia0Plus(p)
	}

	trivia0Plus(p)
	p.Expect(zdoom.ParenR, ParenR, parse.ExpectedSets{{"`)`"}})
	p.Close(list, ArgList)
}

func isNotTrivia(token zdoom.Token) bool {
	return !token.IsTrivia()
}

func trivia0Plus(p *Parser) {
	for !p.Eof() && p.AtIf(zdoom.Token.IsTrivia) {
		p.Advance(FromToken(p.Nth(0)))
	}
}
