package expr

import (
	"fmt"

	"github.com/viletech/doomfront/internal/zdoom"
)

// A Syntax is the kind of a node or token in an expression tree.
type Syntax uint16

const (
	// nodes

	ArgList Syntax = iota //parenthesized arguments of a call, delimiters included
	BinExpr
	CallExpr
	ColorExpr //integer or float literal immediately followed by hexadecimal digits
	Error
	GroupExpr
	IdentExpr
	IndexExpr
	Literal
	NoneExpr
	PostfixExpr
	PrefixExpr
	Root
	TernaryExpr

	// literals

	FloatLit
	HexLit
	IntLit
	NameLit
	StringLit
	KwFalse
	KwNone
	KwTrue

	Ident

	// glyphs

	Ampersand
	Ampersand2
	AmpersandEq
	AngleL
	AngleL2
	AngleL2Eq
	AngleLEq
	AngleR
	AngleR2
	AngleR2Eq
	AngleR3
	AngleR3Eq
	AngleREq
	Asterisk
	Asterisk2
	AsteriskEq
	Bang
	BangEq
	BracketL
	BracketR
	Caret
	CaretEq
	Colon
	Comma
	Eq
	Eq2
	Minus
	Minus2
	MinusEq
	ParenL
	ParenR
	Percent
	PercentEq
	Pipe
	Pipe2
	PipeEq
	Plus
	Plus2
	PlusEq
	Question
	Slash
	SlashEq
	Tilde

	// trivia

	Comment
	RegionEnd
	RegionStart
	Whitespace

	Unknown

	syntaxCount
)

var syntaxNames = [syntaxCount]string{
	ArgList:     "ArgList",
	BinExpr:     "BinExpr",
	CallExpr:    "CallExpr",
	ColorExpr:   "ColorExpr",
	Error:       "Error",
	GroupExpr:   "GroupExpr",
	IdentExpr:   "IdentExpr",
	IndexExpr:   "IndexExpr",
	Literal:     "Literal",
	NoneExpr:    "NoneExpr",
	PostfixExpr: "PostfixExpr",
	PrefixExpr:  "PrefixExpr",
	Root:        "Root",
	TernaryExpr: "TernaryExpr",

	FloatLit:  "FloatLit",
	HexLit:    "HexLit",
	IntLit:    "IntLit",
	NameLit:   "NameLit",
	StringLit: "StringLit",
	KwFalse:   "KwFalse",
	KwNone:    "KwNone",
	KwTrue:    "KwTrue",
	Ident:     "Ident",

	Ampersand:   "Ampersand",
	Ampersand2:  "Ampersand2",
	AmpersandEq: "AmpersandEq",
	AngleL:      "AngleL",
	AngleL2:     "AngleL2",
	AngleL2Eq:   "AngleL2Eq",
	AngleLEq:    "AngleLEq",
	AngleR:      "AngleR",
	AngleR2:     "AngleR2",
	AngleR2Eq:   "AngleR2Eq",
	AngleR3:     "AngleR3",
	AngleR3Eq:   "AngleR3Eq",
	AngleREq:    "AngleREq",
	Asterisk:    "Asterisk",
	Asterisk2:   "Asterisk2",
	AsteriskEq:  "AsteriskEq",
	Bang:        "Bang",
	BangEq:      "BangEq",
	BracketL:    "BracketL",
	BracketR:    "BracketR",
	Caret:       "Caret",
	CaretEq:     "CaretEq",
	Colon:       "Colon",
	Comma:       "Comma",
	Eq:          "Eq",
	Eq2:         "Eq2",
	Minus:       "Minus",
	Minus2:      "Minus2",
	MinusEq:     "MinusEq",
	ParenL:      "ParenL",
	ParenR:      "ParenR",
	Percent:     "Percent",
	PercentEq:   "PercentEq",
	Pipe:        "Pipe",
	Pipe2:       "Pipe2",
	PipeEq:      "PipeEq",
	Plus:        "Plus",
	Plus2:       "Plus2",
	PlusEq:      "PlusEq",
	Question:    "Question",
	Slash:       "Slash",
	SlashEq:     "SlashEq",
	Tilde:       "Tilde",

	Comment:     "Comment",
	RegionEnd:   "RegionEnd",
	RegionStart: "RegionStart",
	Whitespace:  "Whitespace",
	Unknown:     "Unknown",
}

var tokenSyntaxes = map[zdoom.Token]Syntax{
	zdoom.FloatLit:  FloatLit,
	zdoom.IntLit:    IntLit,
	zdoom.NameLit:   NameLit,
	zdoom.StringLit: StringLit,
	zdoom.KwFalse:   KwFalse,
	zdoom.KwNone:    KwNone,
	zdoom.KwTrue:    KwTrue,
	zdoom.Ident:     Ident,

	zdoom.Ampersand:   Ampersand,
	zdoom.Ampersand2:  Ampersand2,
	zdoom.AmpersandEq: AmpersandEq,
	zdoom.AngleL:      AngleL,
	zdoom.AngleL2:     AngleL2,
	zdoom.AngleL2Eq:   AngleL2Eq,
	zdoom.AngleLEq:    AngleLEq,
	zdoom.AngleR:      AngleR,
	zdoom.AngleR2:     AngleR2,
	zdoom.AngleR2Eq:   AngleR2Eq,
	zdoom.AngleR3:     AngleR3,
	zdoom.AngleR3Eq:   AngleR3Eq,
	zdoom.AngleREq:    AngleREq,
	zdoom.Asterisk:    Asterisk,
	zdoom.Asterisk2:   Asterisk2,
	zdoom.AsteriskEq:  AsteriskEq,
	zdoom.Bang:        Bang,
	zdoom.BangEq:      BangEq,
	zdoom.BracketL:    BracketL,
	zdoom.BracketR:    BracketR,
	zdoom.Caret:       Caret,
	zdoom.CaretEq:     CaretEq,
	zdoom.Colon:       Colon,
	zdoom.Comma:       Comma,
	zdoom.Eq:          Eq,
	zdoom.Eq2:         Eq2,
	zdoom.Minus:       Minus,
	zdoom.Minus2:      Minus2,
	zdoom.MinusEq:     MinusEq,
	zdoom.ParenL:      ParenL,
	zdoom.ParenR:      ParenR,
	zdoom.Percent:     Percent,
	zdoom.PercentEq:   PercentEq,
	zdoom.Pipe:        Pipe,
	zdoom.Pipe2:       Pipe2,
	zdoom.PipeEq:      PipeEq,
	zdoom.Plus:        Plus,
	zdoom.Plus2:       Plus2,
	zdoom.PlusEq:      PlusEq,
	zdoom.Question:    Question,
	zdoom.Slash:       Slash,
	zdoom.SlashEq:     SlashEq,
	zdoom.Tilde:       Tilde,

	zdoom.Comment:     Comment,
	zdoom.DocComment:  Comment,
	zdoom.RegionEnd:   RegionEnd,
	zdoom.RegionStart: RegionStart,
	zdoom.Whitespace:  Whitespace,
}

func (s Syntax) String() string {
	if s < syntaxCount {
		return syntaxNames[s]
	}
	return fmt.Sprintf("Syntax(%d)", uint16(s))
}

// FromToken returns the leaf kind of token. Tokens without a counterpart
// (keywords other than literals, unsupported glyphs) are Unknown.
func FromToken(token zdoom.Token) Syntax {
	if s, ok := tokenSyntaxes[token]; ok {
		return s
	}
	return Unknown
}
