package cvarinfo

import (
	"fmt"

	"github.com/viletech/doomfront/internal/zdoom"
)

// A Syntax is the kind of a node or token in a CVARINFO tree.
type Syntax uint16

const (
	// nodes

	Definition Syntax = iota //a whole CVar definition
	DefaultDef               //`=` followed by a literal
	Error
	Flags
	Root
	TypeSpec

	// literals

	FalseLit
	FloatLit
	IntLit
	StringLit
	TrueLit

	// type specifiers

	KwBool
	KwColor
	KwFloat
	KwInt
	KwString

	// flags and scope specifiers

	KwCheat
	KwNoArchive
	KwNoSave
	KwLatch
	KwServer
	KwUser

	Eq
	Semicolon

	Ident
	Comment
	Unknown
	Whitespace
	RegionStart
	RegionEnd

	syntaxCount
)

var syntaxNames = [syntaxCount]string{
	Definition:  "Definition",
	DefaultDef:  "DefaultDef",
	Error:       "Error",
	Flags:       "Flags",
	Root:        "Root",
	TypeSpec:    "TypeSpec",
	FalseLit:    "FalseLit",
	FloatLit:    "FloatLit",
	IntLit:      "IntLit",
	StringLit:   "StringLit",
	TrueLit:     "TrueLit",
	KwBool:      "KwBool",
	KwColor:     "KwColor",
	KwFloat:     "KwFloat",
	KwInt:       "KwInt",
	KwString:    "KwString",
	KwCheat:     "KwCheat",
	KwNoArchive: "KwNoArchive",
	KwNoSave:    "KwNoSave",
	KwLatch:     "KwLatch",
	KwServer:    "KwServer",
	KwUser:      "KwUser",
	Eq:          "Eq",
	Semicolon:   "Semicolon",
	Ident:       "Ident",
	Comment:     "Comment",
	Unknown:     "Unknown",
	Whitespace:  "Whitespace",
	RegionStart: "RegionStart",
	RegionEnd:   "RegionEnd",
}

func (s Syntax) String() string {
	if s < syntaxCount {
		return syntaxNames[s]
	}
	return fmt.Sprintf("Syntax(%d)", uint16(s))
}

func (s Syntax) IsTrivia() bool {
	switch s {
	case Whitespace, Comment, RegionStart, RegionEnd:
		return true
	}
	return false
}

// FromToken returns the leaf kind of a token that is consumed out of place.
func FromToken(token zdoom.Token) Syntax {
	switch token {
	case zdoom.Whitespace:
		return Whitespace
	case zdoom.Comment, zdoom.DocComment:
		return Comment
	case zdoom.RegionStart:
		return RegionStart
	case zdoom.RegionEnd:
		return RegionEnd
	case zdoom.IntLit:
		return IntLit
	case zdoom.FloatLit:
		return FloatLit
	case zdoom.StringLit:
		return StringLit
	case zdoom.KwTrue:
		return TrueLit
	case zdoom.KwFalse:
		return FalseLit
	case zdoom.KwBool:
		return KwBool
	case zdoom.KwColor:
		return KwColor
	case zdoom.KwFloat:
		return KwFloat
	case zdoom.KwInt:
		return KwInt
	case zdoom.KwString:
		return KwString
	case zdoom.Eq:
		return Eq
	case zdoom.Semicolon:
		return Semicolon
	case zdoom.Ident:
		return Ident
	default:
		return Unknown
	}
}
