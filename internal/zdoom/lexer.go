package zdoom

import (
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/syntax"
)

var (
	V1_0_0  = semver.MustParse("1.0.0")
	V4_10_0 = semver.MustParse("4.10.0")
)

type Options struct {
	// If false doc comments (`/// ...`) are lexed as comments.
	DocComments bool

	// Keywords introduced after Version are lexed as identifiers, a nil Version
	// enables all keywords.
	Version *semver.Version
}

type keyword struct {
	token Token
	since *semver.Version
}

var keywords = map[string]keyword{
	"action":   {KwAction, V1_0_0},
	"bool":     {KwBool, nil},
	"break":    {KwBreak, nil},
	"case":     {KwCase, nil},
	"class":    {KwClass, nil},
	"color":    {KwColor, nil},
	"const":    {KwConst, nil},
	"continue": {KwContinue, nil},
	"default":  {KwDefault, nil},
	"do":       {KwDo, nil},
	"double":   {KwDouble, nil},
	"else":     {KwElse, nil},
	"enum":     {KwEnum, nil},
	"extend":   {KwExtend, V1_0_0},
	"false":    {KwFalse, nil},
	"final":    {KwFinal, V1_0_0},
	"float":    {KwFloat, nil},
	"for":      {KwFor, nil},
	"foreach":  {KwForeach, V4_10_0},
	"goto":     {KwGoto, nil},
	"if":       {KwIf, nil},
	"int":      {KwInt, nil},
	"is":       {KwIs, V1_0_0},
	"let":      {KwLet, V1_0_0},
	"name":     {KwName, V1_0_0},
	"native":   {KwNative, nil},
	"none":     {KwNone, nil},
	"null":     {KwNull, nil},
	"replaces": {KwReplaces, V1_0_0},
	"return":   {KwReturn, nil},
	"sound":    {KwSound, nil},
	"state":    {KwState, nil},
	"states":   {KwStates, nil},
	"static":   {KwStatic, nil},
	"string":   {KwString, nil},
	"struct":   {KwStruct, nil},
	"super":    {KwSuper, V1_0_0},
	"switch":   {KwSwitch, nil},
	"true":     {KwTrue, nil},
	"uint":     {KwUInt, nil},
	"until":    {KwUntil, nil},
	"vector2":  {KwVector2, nil},
	"vector3":  {KwVector3, nil},
	"void":     {KwVoid, nil},
	"while":    {KwWhile, nil},
}

// glyphs sorted by decreasing length for maximal munch.
var glyphs = []struct {
	text  string
	token Token
}{
	{">>>=", AngleR3Eq},

	{"<<=", AngleL2Eq},
	{"<>=", AngleLAngleREq},
	{">>>", AngleR3},
	{">>=", AngleR2Eq},
	{"...", Dot3},
	{"~==", TildeEq2},

	{"&&", Ampersand2},
	{"&=", AmpersandEq},
	{"<<", AngleL2},
	{"<=", AngleLEq},
	{">=", AngleREq},
	{">>", AngleR2},
	{"**", Asterisk2},
	{"*=", AsteriskEq},
	{"!=", BangEq},
	{"^=", CaretEq},
	{"::", Colon2},
	{"..", Dot2},
	{"==", Eq2},
	{"--", Minus2},
	{"-=", MinusEq},
	{"->", ThinArrow},
	{"%=", PercentEq},
	{"||", Pipe2},
	{"|=", PipeEq},
	{"++", Plus2},
	{"+=", PlusEq},
	{"/=", SlashEq},

	{"&", Ampersand},
	{"<", AngleL},
	{">", AngleR},
	{"*", Asterisk},
	{"@", AtSign},
	{"!", Bang},
	{"{", BraceL},
	{"}", BraceR},
	{"[", BracketL},
	{"]", BracketR},
	{"^", Caret},
	{":", Colon},
	{",", Comma},
	{"$", Dollar},
	{".", Dot},
	{"=", Eq},
	{"-", Minus},
	{"(", ParenL},
	{")", ParenR},
	{"%", Percent},
	{"|", Pipe},
	{"+", Plus},
	{"#", Pound},
	{"?", Question},
	{";", Semicolon},
	{"/", Slash},
	{"~", Tilde},
}

// A Lexer is a re-implementation of the (G)ZDoom common scanner. It never
// fails: bytes it does not recognize are reported as Unknown lexemes.
type Lexer struct {
	source string
	i      int
	opts   Options
}

func NewLexer(source string, opts Options) *Lexer {
	return &Lexer{source: source, opts: opts}
}

// Tokenize returns all the lexemes of source.
func Tokenize(source string, opts Options) []parse.Lexeme[Token] {
	var lexemes []parse.Lexeme[Token]

	lexer := NewLexer(source, opts)
	for {
		kind, span, ok := lexer.Next()
		if !ok {
			return lexemes
		}
		lexemes = append(lexemes, parse.Lexeme[Token]{Kind: kind, Span: span})
	}
}

func (l *Lexer) Next() (Token, parse.Span, bool) {
	if l.i >= len(l.source) {
		return Eof, parse.Span{Start: len(l.source), End: len(l.source)}, false
	}

	start := l.i
	kind, end := l.scan()
	l.i = end
	return kind, parse.Span{Start: start, End: end}, true
}

// scan recognizes the lexeme starting at l.i and returns its kind and end.
func (l *Lexer) scan() (Token, int) {
	s := l.source
	i := l.i
	c := s[i]

	switch {
	case c <= ' ':
		j := i + 1
		for j < len(s) && s[j] <= ' ' {
			j++
		}
		return Whitespace, j
	case isIdentStart(c):
		j := i + 1
		for j < len(s) && isIdentContinue(s[j]) {
			j++
		}
		return l.identOrKeyword(s[i:j]), j
	case isDigit(c), c == '.' && i+1 < len(s) && isDigit(s[i+1]):
		return l.number()
	case c == '"':
		return l.stringLit()
	case c == '\'':
		j := i + 1
		for j < len(s) && s[j] != '\'' && s[j] != '\n' {
			j++
		}
		if j < len(s) && s[j] == '\'' {
			return NameLit, j + 1
		}
		return Unknown, i + 1
	case c == '/' && strings.HasPrefix(s[i:], "//"):
		end := lineEnd(s, i)
		if l.opts.DocComments && strings.HasPrefix(s[i:], "///") && !strings.HasPrefix(s[i:], "////") {
			return DocComment, end
		}
		return Comment, end
	case c == '/' && strings.HasPrefix(s[i:], "/*"):
		closing := strings.Index(s[i+2:], "*/")
		if closing < 0 {
			return Unknown, len(s)
		}
		return Comment, i + 2 + closing + 2
	case c == '#':
		rest := s[i:]
		switch {
		case hasPrefixFold(rest, "#include"):
			return PoundInclude, i + len("#include")
		case hasPrefixFold(rest, "#region"):
			return RegionStart, lineEnd(s, i)
		case hasPrefixFold(rest, "#endregion"):
			return RegionEnd, lineEnd(s, i)
		}
	}

	for _, glyph := range glyphs {
		if strings.HasPrefix(s[i:], glyph.text) {
			return glyph.token, i + len(glyph.text)
		}
	}

	_, size := utf8.DecodeRuneInString(s[i:])
	return Unknown, i + size
}

func (l *Lexer) identOrKeyword(ident string) Token {
	kw, ok := keywords[strings.ToLower(ident)]
	if !ok {
		return Ident
	}
	if kw.since != nil && l.opts.Version != nil && l.opts.Version.LessThan(kw.since) {
		return Ident
	}
	return kw.token
}

func (l *Lexer) number() (Token, int) {
	s := l.source
	i := l.i

	if s[i] == '0' && i+2 < len(s) && (s[i+1] == 'x' || s[i+1] == 'X') && isHexDigit(s[i+2]) {
		j := i + 2
		for j < len(s) && isHexDigit(s[j]) {
			j++
		}
		return IntLit, intSuffix(s, j)
	}

	j := digits(s, i)

	if j < len(s) && s[j] == '.' {
		j = digits(s, j+1)
		j = exponent(s, j)
		return FloatLit, floatSuffix(s, j)
	}

	if e := exponent(s, j); e != j {
		return FloatLit, floatSuffix(s, e)
	}

	return IntLit, intSuffix(s, j)
}

func (l *Lexer) stringLit() (Token, int) {
	s := l.source
	j := l.i + 1

	for j < len(s) {
		switch {
		case s[j] == '\\' && j+1 < len(s) && s[j+1] == '"':
			j += 2
		case s[j] == '"':
			return StringLit, j + 1
		default:
			j++
		}
	}

	return Unknown, l.i + 1
}

// Language is the (G)ZDoom lexer combined with the syntax kinds of a grammar.
type Language[S syntax.Kinded] struct {
	Options

	// Error is the syntax kind of error nodes.
	Error S
}

func (lang Language[S]) Lexer(source string) parse.Lexer[Token] {
	return NewLexer(source, lang.Options)
}

func (Language[S]) EOF() Token {
	return Eof
}

func (lang Language[S]) ErrorNode() S {
	return lang.Error
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// IsHex returns true if s is a non-empty sequence of hexadecimal digits.
func IsHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

func digits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func exponent(s string, i int) int {
	if i >= len(s) || (s[i] != 'e' && s[i] != 'E') {
		return i
	}

	j := i + 1
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}

	if j >= len(s) || !isDigit(s[j]) {
		return i
	}
	return digits(s, j)
}

func floatSuffix(s string, i int) int {
	if i < len(s) && (s[i] == 'f' || s[i] == 'F') {
		return i + 1
	}
	return i
}

func intSuffix(s string, i int) int {
	for n := 0; n < 2 && i < len(s); n++ {
		switch s[i] {
		case 'u', 'U', 'l', 'L':
			i++
		default:
			return i
		}
	}
	return i
}

func lineEnd(s string, i int) int {
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(s)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
