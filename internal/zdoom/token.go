package zdoom

import "fmt"

// A Token is the kind of a lexeme produced by the (G)ZDoom common scanner.
// The same token set is shared by all (G)ZDoom languages (ZScript, DECORATE,
// CVARINFO, LANGUAGE...), smaller languages recognize their own keywords
// among identifiers.
type Token uint8

const (
	Eof Token = iota
	Unknown

	// trivia

	Whitespace
	Comment
	DocComment
	RegionStart
	RegionEnd

	// literals

	IntLit
	FloatLit
	StringLit
	NameLit

	Ident

	// keywords

	KwAction
	KwBool
	KwBreak
	KwCase
	KwClass
	KwColor
	KwConst
	KwContinue
	KwDefault
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwExtend
	KwFalse
	KwFinal
	KwFloat
	KwFor
	KwForeach
	KwGoto
	KwIf
	KwInt
	KwIs
	KwLet
	KwName
	KwNative
	KwNone
	KwNull
	KwReplaces
	KwReturn
	KwSound
	KwState
	KwStates
	KwStatic
	KwString
	KwStruct
	KwSuper
	KwSwitch
	KwTrue
	KwUInt
	KwUntil
	KwVector2
	KwVector3
	KwVoid
	KwWhile

	// glyphs

	Ampersand
	Ampersand2
	AmpersandEq
	AngleL
	AngleL2
	AngleLEq
	AngleL2Eq
	AngleLAngleREq
	AngleR
	AngleREq
	AngleR2
	AngleR3
	AngleR2Eq
	AngleR3Eq
	Asterisk
	Asterisk2
	AsteriskEq
	AtSign
	Bang
	BangEq
	BraceL
	BraceR
	BracketL
	BracketR
	Caret
	CaretEq
	Colon
	Colon2
	Comma
	Dollar
	Dot
	Dot2
	Dot3
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
	Pound
	PoundInclude
	Question
	Semicolon
	Slash
	SlashEq
	ThinArrow
	Tilde
	TildeEq2

	tokenCount
)

var tokenNames = [tokenCount]string{
	Eof:     "end of input",
	Unknown: "unknown",

	Whitespace:  "whitespace",
	Comment:     "comment",
	DocComment:  "doc comment",
	RegionStart: "#region",
	RegionEnd:   "#endregion",

	IntLit:    "integer",
	FloatLit:  "float",
	StringLit: "string",
	NameLit:   "name",
	Ident:     "identifier",

	KwAction:   "`action`",
	KwBool:     "`bool`",
	KwBreak:    "`break`",
	KwCase:     "`case`",
	KwClass:    "`class`",
	KwColor:    "`color`",
	KwConst:    "`const`",
	KwContinue: "`continue`",
	KwDefault:  "`default`",
	KwDo:       "`do`",
	KwDouble:   "`double`",
	KwElse:     "`else`",
	KwEnum:     "`enum`",
	KwExtend:   "`extend`",
	KwFalse:    "`false`",
	KwFinal:    "`final`",
	KwFloat:    "`float`",
	KwFor:      "`for`",
	KwForeach:  "`foreach`",
	KwGoto:     "`goto`",
	KwIf:       "`if`",
	KwInt:      "`int`",
	KwIs:       "`is`",
	KwLet:      "`let`",
	KwName:     "`name`",
	KwNative:   "`native`",
	KwNone:     "`none`",
	KwNull:     "`null`",
	KwReplaces: "`replaces`",
	KwReturn:   "`return`",
	KwSound:    "`sound`",
	KwState:    "`state`",
	KwStates:   "`states`",
	KwStatic:   "`static`",
	KwString:   "`string`",
	KwStruct:   "`struct`",
	KwSuper:    "`super`",
	KwSwitch:   "`switch`",
	KwTrue:     "`true`",
	KwUInt:     "`uint`",
	KwUntil:    "`until`",
	KwVector2:  "`vector2`",
	KwVector3:  "`vector3`",
	KwVoid:     "`void`",
	KwWhile:    "`while`",

	Ampersand:      "`&`",
	Ampersand2:     "`&&`",
	AmpersandEq:    "`&=`",
	AngleL:         "`<`",
	AngleL2:        "`<<`",
	AngleLEq:       "`<=`",
	AngleL2Eq:      "`<<=`",
	AngleLAngleREq: "`<>=`",
	AngleR:         "`>`",
	AngleREq:       "`>=`",
	AngleR2:        "`>>`",
	AngleR3:        "`>>>`",
	AngleR2Eq:      "`>>=`",
	AngleR3Eq:      "`>>>=`",
	Asterisk:       "`*`",
	Asterisk2:      "`**`",
	AsteriskEq:     "`*=`",
	AtSign:         "`@`",
	Bang:           "`!`",
	BangEq:         "`!=`",
	BraceL:         "`{`",
	BraceR:         "`}`",
	BracketL:       "`[`",
	BracketR:       "`]`",
	Caret:          "`^`",
	CaretEq:        "`^=`",
	Colon:          "`:`",
	Colon2:         "`::`",
	Comma:          "`,`",
	Dollar:         "`$`",
	Dot:            "`.`",
	Dot2:           "`..`",
	Dot3:           "`...`",
	Eq:             "`=`",
	Eq2:            "`==`",
	Minus:          "`-`",
	Minus2:         "`--`",
	MinusEq:        "`-=`",
	ParenL:         "`(`",
	ParenR:         "`)`",
	Percent:        "`%`",
	PercentEq:      "`%=`",
	Pipe:           "`|`",
	Pipe2:          "`||`",
	PipeEq:         "`|=`",
	Plus:           "`+`",
	Plus2:          "`++`",
	PlusEq:         "`+=`",
	Pound:          "`#`",
	PoundInclude:   "`#include`",
	Question:       "`?`",
	Semicolon:      "`;`",
	Slash:          "`/`",
	SlashEq:        "`/=`",
	ThinArrow:      "`->`",
	Tilde:          "`~`",
	TildeEq2:       "`~==`",
}

func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("Token(%d)", uint8(t))
}

func (t Token) IsTrivia() bool {
	switch t {
	case Whitespace, Comment, DocComment, RegionStart, RegionEnd:
		return true
	}
	return false
}

func (t Token) IsKeyword() bool {
	return t >= KwAction && t <= KwWhile
}

func (t Token) IsGlyph() bool {
	return t >= Ampersand && t <= TildeEq2
}

// IsIdentLax returns true for identifiers and for the keywords that
// DECORATE-like languages accept as identifiers.
func (t Token) IsIdentLax() bool {
	switch t {
	case Ident,
		KwAction, KwBool, KwColor, KwDouble, KwExtend, KwFinal, KwFloat, KwInt,
		KwIs, KwLet, KwName, KwNative, KwReplaces, KwSound, KwState, KwStates,
		KwString, KwSuper, KwUInt, KwVector2, KwVector3:
		return true
	}
	return false
}
