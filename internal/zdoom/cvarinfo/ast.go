package cvarinfo

import (
	"strconv"

	"github.com/viletech/doomfront/internal/red"
)

// A CVar wraps a Definition node.
type CVar struct {
	node *red.Node[Syntax]
}

// Definitions returns the CVars declared under root.
func Definitions(root *red.Node[Syntax]) []CVar {
	var cvars []CVar
	for _, child := range root.Children() {
		if cvar, ok := CastCVar(child); ok {
			cvars = append(cvars, cvar)
		}
	}
	return cvars
}

func CastCVar(node *red.Node[Syntax]) (CVar, bool) {
	if node == nil || node.Kind() != Definition {
		return CVar{}, false
	}
	return CVar{node: node}, true
}

func (c CVar) Node() *red.Node[Syntax] {
	return c.node
}

// Flags returns nil if the definition has no Flags node.
func (c CVar) Flags() *CVarFlags {
	for _, child := range c.node.Children() {
		if child.Kind() == Flags {
			return &CVarFlags{node: child}
		}
	}
	return nil
}

// TypeSpec returns the type specifier token or nil if it is missing.
func (c CVar) TypeSpec() *red.Token[Syntax] {
	return c.findToken(func(kind Syntax) bool {
		switch kind {
		case KwInt, KwFloat, KwBool, KwColor, KwString:
			return true
		}
		return false
	})
}

// Name returns the identifier given to the CVar, or nil if it is missing.
func (c CVar) Name() *red.Token[Syntax] {
	return c.findToken(func(kind Syntax) bool {
		return kind == Ident
	})
}

// Default returns nil if the definition has no default value.
func (c CVar) Default() *Default {
	for _, child := range c.node.Children() {
		if child.Kind() == DefaultDef {
			return &Default{node: child}
		}
	}
	return nil
}

func (c CVar) findToken(predicate func(Syntax) bool) *red.Token[Syntax] {
	for _, elem := range c.node.ChildrenWithTokens() {
		if token, ok := elem.(*red.Token[Syntax]); ok && predicate(token.Kind()) {
			return token
		}
	}
	return nil
}

// CVarFlags wraps a Flags node.
type CVarFlags struct {
	node *red.Node[Syntax]
}

// Scope returns the `server`, `user` or `nosave` token, or nil.
func (f CVarFlags) Scope() *red.Token[Syntax] {
	for _, token := range f.node.Tokens() {
		switch token.Kind() {
		case KwServer, KwUser, KwNoSave:
			return token
		}
	}
	return nil
}

// Qualifiers returns the `noarchive`, `cheat` and `latch` tokens.
func (f CVarFlags) Qualifiers() []*red.Token[Syntax] {
	var qualifiers []*red.Token[Syntax]
	for _, token := range f.node.Tokens() {
		switch token.Kind() {
		case KwNoArchive, KwCheat, KwLatch:
			qualifiers = append(qualifiers, token)
		}
	}
	return qualifiers
}

// Default wraps a DefaultDef node.
type Default struct {
	node *red.Node[Syntax]
}

// Literal returns the last token of the node, it may be the `=` if the literal is missing.
func (d Default) Literal() Literal {
	tokens := d.node.Tokens()
	return Literal{token: tokens[len(tokens)-1]}
}

type Literal struct {
	token *red.Token[Syntax]
}

func (l Literal) Token() *red.Token[Syntax] {
	return l.token
}

func (l Literal) Kind() Syntax {
	return l.token.Kind()
}

func (l Literal) Text() string {
	return l.token.Text()
}

// Bool returns false if the literal is not a boolean.
func (l Literal) Bool() (value bool, ok bool) {
	switch l.token.Kind() {
	case TrueLit:
		return true, true
	case FalseLit:
		return false, true
	}
	return false, false
}

// Float parses a float literal, an optional `f` suffix is ignored.
func (l Literal) Float() (float64, bool, error) {
	if l.token.Kind() != FloatLit {
		return 0, false, nil
	}

	text := l.token.Text()
	if last := text[len(text)-1]; last == 'f' || last == 'F' {
		text = text[:len(text)-1]
	}

	f, err := strconv.ParseFloat(text, 64)
	return f, true, err
}

// Int parses an integer literal (decimal, octal or hexadecimal), suffixes are ignored.
func (l Literal) Int() (uint64, bool, error) {
	if l.token.Kind() != IntLit {
		return 0, false, nil
	}

	text := l.token.Text()
	for len(text) > 1 {
		switch text[len(text)-1] {
		case 'u', 'U', 'l', 'L':
			text = text[:len(text)-1]
			continue
		}
		break
	}

	i, err := strconv.ParseUint(text, 0, 64)
	return i, true, err
}

// Str returns the content of a string literal without the delimiting quotes,
// the closing quote of an unterminated literal is missing.
func (l Literal) Str() (string, bool) {
	if l.token.Kind() != StringLit {
		return "", false
	}
	text := l.token.Text()[1:]
	if len(text) > 0 && text[len(text)-1] == '"' {
		text = text[:len(text)-1]
	}
	return text, true
}
