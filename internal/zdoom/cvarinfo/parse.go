package cvarinfo

import (
	"github.com/viletech/doomfront/internal/green"
	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/zdoom"
)

type Parser = parse.Parser[zdoom.Token, Syntax]

type choice = parse.Choice[zdoom.Token, Syntax]

var (
	Language = zdoom.Language[Syntax]{Error: Error}

	typeSpecs = []choice{
		{Token: zdoom.KwInt, Kind: KwInt},
		{Token: zdoom.KwFloat, Kind: KwFloat},
		{Token: zdoom.KwBool, Kind: KwBool},
		{Token: zdoom.KwColor, Kind: KwColor},
		{Token: zdoom.KwString, Kind: KwString},
	}

	literals = []choice{
		{Token: zdoom.FloatLit, Kind: FloatLit},
		{Token: zdoom.IntLit, Kind: IntLit},
		{Token: zdoom.KwFalse, Kind: FalseLit},
		{Token: zdoom.KwTrue, Kind: TrueLit},
		{Token: zdoom.StringLit, Kind: StringLit},
	}

	trivias = []choice{
		{Token: zdoom.Whitespace, Kind: Whitespace},
		{Token: zdoom.Comment, Kind: Comment},
		{Token: zdoom.DocComment, Kind: Comment},
		{Token: zdoom.RegionStart, Kind: RegionStart},
		{Token: zdoom.RegionEnd, Kind: RegionEnd},
	}

	flags = []parse.StrChoice[zdoom.Token, Syntax]{
		{Token: zdoom.Ident, Str: "server", Kind: KwServer},
		{Token: zdoom.Ident, Str: "user", Kind: KwUser},
		{Token: zdoom.Ident, Str: "nosave", Kind: KwNoSave},
		{Token: zdoom.Ident, Str: "noarchive", Kind: KwNoArchive},
		{Token: zdoom.Ident, Str: "cheat", Kind: KwCheat},
		{Token: zdoom.Ident, Str: "latch", Kind: KwLatch},
	}

	expectedFlag = parse.ExpectedSets{{
		"`server` or `user` or `nosave`",
		"`nosave` or `noarchive` or `cheat` or `latch`",
		"whitespace",
		"a comment",
	}}
)

// Parse parses a whole CVARINFO lump, cache can be nil.
func Parse(source string, cache green.Cache, lexOpts zdoom.Options, opts ...parse.ParserOptions) (*green.Node, []parse.Diagnostic[zdoom.Token]) {
	lang := Language
	lang.Options = lexOpts

	p := parse.NewParser[zdoom.Token, Syntax](source, lang, opts...)
	File(p)
	return p.Finish(cache)
}

// File builds a Root node.
func File(p *Parser) {
	root := p.Open()

	for !p.Eof() {
		if trivia(p) {
			continue
		}

		if p.At(zdoom.Ident) {
			definition(p)
		} else {
			p.AdvanceWithError(FromToken(p.Nth(0)), expectedFlag)
		}
	}

	p.Close(root, Root)
}

// definition builds a Definition node: flags, a type specifier, a name and an optional default.
func definition(p *Parser) {
	def := p.Open()

	flagsNode := p.Open()
	flag(p)
	trivia1Plus(p)

	for !p.AtAny(zdoom.KwInt, zdoom.KwFloat, zdoom.KwBool, zdoom.KwColor, zdoom.KwString) && !p.Eof() {
		flag(p)
		trivia1Plus(p)
	}
	p.Close(flagsNode, Flags)

	p.ExpectAny(typeSpecs, parse.ExpectedSets{{"`int` or `float` or `bool` or `color` or `string`"}})
	trivia1Plus(p)

	p.Expect(zdoom.Ident, Ident, parse.ExpectedSets{{"an identifier"}})
	trivia0Plus(p)

	if p.At(zdoom.Eq) {
		defaultDef(p)
	}

	trivia0Plus(p)
	p.Expect(zdoom.Semicolon, Semicolon, parse.ExpectedSets{{"`;`"}})
	p.Close(def, Definition)
}

// flag always makes progress: a token that is not a flag is consumed as an error.
func flag(p *Parser) {
	for _, f := range flags {
		if p.EatStrNC(f.Token, f.Str, f.Kind) {
			return
		}
	}

	if p.Eof() {
		p.Raise(expectedFlag)
		return
	}
	p.AdvanceWithError(FromToken(p.Nth(0)), expectedFlag)
}

// defaultDef builds a DefaultDef node.
func defaultDef(p *Parser) {
	p.AssertAt(zdoom.Eq)

	def := p.Open()
	p.Advance(Eq)
	trivia0Plus(p)

	p.ExpectAny(literals, parse.ExpectedSets{{
		"an integer",
		"a floating-point number",
		"a string",
		"`false` or `true`",
	}})

	p.Close(def, DefaultDef)
}

func trivia(p *Parser) bool {
	return p.EatAny(trivias...)
}

func trivia0Plus(p *Parser) {
	for trivia(p) {
	}
}

func trivia1Plus(p *Parser) {
	p.ExpectAny(trivias, parse.ExpectedSets{{"whitespace or a comment (one or more)"}})
	trivia0Plus(p)
}
