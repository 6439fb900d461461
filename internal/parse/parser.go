package parse

import (
	"github.com/rs/zerolog"
	"github.com/viletech/doomfront/internal/green"
	"github.com/viletech/doomfront/internal/syntax"
)

const (
	DEFAULT_FUEL = 256
)

// A Parser records the shape of a syntax tree as a flat list of events, the
// tree is only built by Finish. Grammar rules drive the parser with the
// Open/Close, lookahead (At*, Nth), consumption (Advance*, Eat*) and recovery
// (Expect*, AdvanceWithError, Merge) methods.
//
// Malformed input never stops the parser: the mistakes are recorded as
// diagnostics and the tree keeps covering every byte of the source. Misuses of
// the API by a grammar rule (unbalanced marks, advancing past the end, a rule
// that does not make progress) panic with an *InvariantError.
type Parser[T TokenKind, S syntax.Kinded] struct {
	source  string
	lang    Language[T, S]
	lexemes []Lexeme[T]
	pos     int

	fuel    int
	maxFuel int

	events      []event
	opens       []int //indexes of the Open events whose mark has not been consumed yet
	diagnostics []Diagnostic[T]

	logger zerolog.Logger
}

type ParserOptions struct {
	//Maximum number of lookaheads between two advances, defaults to DEFAULT_FUEL if <= 0.
	Fuel int

	//Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// An OpenMark is returned by Open and OpenBefore, it should be consumed by
// exactly one call to Close or Cancel before Finish.
type OpenMark struct {
	index int
}

// A CloseMark is returned by Close, it allows a closed subtree to be wrapped by OpenBefore.
type CloseMark struct {
	index int
}

// NewParser lexes the entire source.
func NewParser[T TokenKind, S syntax.Kinded](source string, lang Language[T, S], opts ...ParserOptions) *Parser[T, S] {
	p := &Parser[T, S]{
		source:  source,
		lang:    lang,
		lexemes: lex(source, lang),
		maxFuel: DEFAULT_FUEL,
		logger:  zerolog.Nop(),
	}

	if len(opts) > 0 {
		opt := opts[0]
		if opt.Fuel > 0 {
			p.maxFuel = opt.Fuel
		}
		if opt.Logger != nil {
			p.logger = *opt.Logger
		}
	}

	p.fuel = p.maxFuel
	p.events = make([]event, 0, 2*len(p.lexemes)+2)
	return p
}

func (p *Parser[T, S]) Source() string {
	return p.source
}

func (p *Parser[T, S]) Lexemes() []Lexeme[T] {
	return p.lexemes
}

// Pos returns the index of the current lexeme.
func (p *Parser[T, S]) Pos() int {
	return p.pos
}

func (p *Parser[T, S]) Diagnostics() []Diagnostic[T] {
	return p.diagnostics
}

// Open starts a new subtree. Its kind is the error kind of the language until Close is called.
func (p *Parser[T, S]) Open() OpenMark {
	mark := OpenMark{index: len(p.events)}
	p.events = append(p.events, event{tag: openEvent, kind: syntax.Raw(p.lang.ErrorNode())})
	p.opens = append(p.opens, mark.index)
	return mark
}

// Close finishes the subtree started by mark and gives it its kind.
// mark should be the most recently opened mark that is not yet consumed.
func (p *Parser[T, S]) Close(mark OpenMark, kind S) CloseMark {
	p.consumeMark(mark, "close")
	p.events[mark.index] = event{tag: openEvent, kind: syntax.Raw(kind)}
	p.events = append(p.events, event{tag: closeEvent})
	return CloseMark{index: mark.index}
}

// OpenBefore starts a new subtree whose first child is the subtree closed by mark,
// all the elements added since then are also included. This is how left-recursive
// constructs (binary expressions, calls) are parsed.
func (p *Parser[T, S]) OpenBefore(mark CloseMark) OpenMark {
	if mark.index < 0 || mark.index >= len(p.events) || p.events[mark.index].tag != openEvent {
		panic(invariantf("invalid close mark %d", mark.index))
	}

	for _, open := range p.opens {
		if open >= mark.index {
			panic(invariantf("cannot open before a subtree that contains an unclosed mark (%d >= %d)", open, mark.index))
		}
	}

	p.events = append(p.events, event{})
	copy(p.events[mark.index+1:], p.events[mark.index:])
	p.events[mark.index] = event{tag: openEvent, kind: syntax.Raw(p.lang.ErrorNode())}

	p.opens = append(p.opens, mark.index)
	return OpenMark{index: mark.index}
}

// Cancel abandons the subtree started by mark, the elements added since then
// become children of the enclosing subtree.
func (p *Parser[T, S]) Cancel(mark OpenMark) {
	p.consumeMark(mark, "cancel")
	p.events[mark.index] = event{tag: tombstoneEvent}
}

func (p *Parser[T, S]) consumeMark(mark OpenMark, operation string) {
	if len(p.opens) == 0 {
		panic(invariantf("tried to %s mark %d but no subtree is open", operation, mark.index))
	}

	last := p.opens[len(p.opens)-1]
	if last != mark.index {
		panic(invariantf("tried to %s mark %d but the innermost open mark is %d (consumed twice or out of order)", operation, mark.index, last))
	}
	p.opens = p.opens[:len(p.opens)-1]
}

// Advance consumes the current token as a leaf of the given kind.
func (p *Parser[T, S]) Advance(kind S) {
	if p.Eof() {
		panic(invariantf("tried to advance past the end of the input"))
	}

	p.fuel = p.maxFuel
	p.events = append(p.events, event{tag: advanceEvent, kind: syntax.Raw(kind), count: 1})
	p.pos++
}

// AdvanceN consumes count tokens as a single leaf of the given kind.
func (p *Parser[T, S]) AdvanceN(kind S, count int) {
	if count < 1 {
		panic(invariantf("AdvanceN was passed %d at %s (`%s`)", count, p.NthSpan(0), p.NthSlice(0)))
	}

	if p.pos+count > len(p.lexemes) {
		panic(invariantf("tried to advance %d tokens past the end of the input", p.pos+count-len(p.lexemes)))
	}

	p.fuel = p.maxFuel
	p.events = append(p.events, event{tag: advanceEvent, kind: syntax.Raw(kind), count: count})
	p.pos += count
}

func (p *Parser[T, S]) Eof() bool {
	return p.pos == len(p.lexemes)
}

// Nth returns the kind of the token lookahead positions after the current one,
// or the EOF kind. Each call consumes fuel, the parser panics if it runs out
// of fuel before the next advance.
func (p *Parser[T, S]) Nth(lookahead int) T {
	p.burnFuel()
	return p.peek(lookahead)
}

func (p *Parser[T, S]) burnFuel() {
	if p.fuel <= 0 {
		span := p.NthSpan(0)

		p.logger.Error().
			Int("pos", p.pos).
			Int("start", span.Start).
			Int("end", span.End).
			Msg("parser is not advancing")

		panic(invariantf("parser is not advancing (stuck at %s)", span))
	}
	p.fuel--
}

func (p *Parser[T, S]) peek(lookahead int) T {
	i := p.pos + lookahead
	if i < len(p.lexemes) {
		return p.lexemes[i].Kind
	}
	return p.lang.EOF()
}

// NthSpan does not consume fuel, past the last lexeme it returns an empty span at the end of the source.
func (p *Parser[T, S]) NthSpan(lookahead int) Span {
	i := p.pos + lookahead
	if i < len(p.lexemes) {
		return p.lexemes[i].Span
	}
	return Span{Start: len(p.source), End: len(p.source)}
}

// NthSlice does not consume fuel, past the last lexeme it returns an empty string.
func (p *Parser[T, S]) NthSlice(lookahead int) string {
	span := p.NthSpan(lookahead)
	return p.source[span.Start:span.End]
}

func (p *Parser[T, S]) At(token T) bool {
	return p.Nth(0) == token
}

func (p *Parser[T, S]) AtAny(choices ...T) bool {
	token := p.Nth(0)
	for _, choice := range choices {
		if choice == token {
			return true
		}
	}
	return false
}

func (p *Parser[T, S]) AtIf(predicate func(T) bool) bool {
	return predicate(p.Nth(0))
}

func (p *Parser[T, S]) AtSet(set TokenSet[T]) bool {
	return set.Contains(p.Nth(0))
}

// AtStrNC is like At but the text of the token should also be equal to str,
// ignoring ASCII case. Small languages use it to recognize their keywords
// among identifiers.
func (p *Parser[T, S]) AtStrNC(token T, str string) bool {
	return p.Nth(0) == token && equalFoldASCII(p.NthSlice(0), str)
}

func (p *Parser[T, S]) Eat(token T, kind S) bool {
	if p.At(token) {
		p.Advance(kind)
		return true
	}
	return false
}

// A Choice maps a token kind to the syntax kind of the leaf it becomes.
type Choice[T TokenKind, S syntax.Kinded] struct {
	Token T
	Kind  S
}

// A StrChoice is a Choice that only matches tokens whose text is Str, ignoring ASCII case.
type StrChoice[T TokenKind, S syntax.Kinded] struct {
	Token T
	Str   string
	Kind  S
}

// EatAny tries the choices in order.
func (p *Parser[T, S]) EatAny(choices ...Choice[T, S]) bool {
	for _, choice := range choices {
		if p.At(choice.Token) {
			p.Advance(choice.Kind)
			return true
		}
	}
	return false
}

func (p *Parser[T, S]) EatIf(predicate func(T) bool, kind S) bool {
	if p.AtIf(predicate) {
		p.Advance(kind)
		return true
	}
	return false
}

func (p *Parser[T, S]) EatStrNC(token T, str string, kind S) bool {
	if p.AtStrNC(token, str) {
		p.Advance(kind)
		return true
	}
	return false
}

// Expect eats token or records a diagnostic, nothing is consumed in the latter case.
func (p *Parser[T, S]) Expect(token T, kind S, expected ExpectedSets) {
	if !p.Eat(token, kind) {
		p.raise(expected)
	}
}

func (p *Parser[T, S]) ExpectAny(choices []Choice[T, S], expected ExpectedSets) {
	if !p.EatAny(choices...) {
		p.raise(expected)
	}
}

func (p *Parser[T, S]) ExpectIf(predicate func(T) bool, kind S, expected ExpectedSets) {
	if !p.EatIf(predicate, kind) {
		p.raise(expected)
	}
}

func (p *Parser[T, S]) ExpectStrNC(token T, str string, kind S, expected ExpectedSets) {
	if !p.EatStrNC(token, str, kind) {
		p.raise(expected)
	}
}

func (p *Parser[T, S]) ExpectAnyStrNC(choices []StrChoice[T, S], expected ExpectedSets) {
	for _, choice := range choices {
		if p.EatStrNC(choice.Token, choice.Str, choice.Kind) {
			return
		}
	}
	p.raise(expected)
}

// Raise records a diagnostic about the current token without consuming it.
func (p *Parser[T, S]) Raise(expected ExpectedSets) {
	p.raise(expected)
}

func (p *Parser[T, S]) raise(expected ExpectedSets) {
	found := Lexeme[T]{Kind: p.lang.EOF(), Span: Span{Start: len(p.source), End: len(p.source)}}
	if !p.Eof() {
		found = p.lexemes[p.pos]
	}

	p.diagnostics = append(p.diagnostics, Diagnostic[T]{Expected: expected, Found: found})
}

// AdvanceWithError wraps the current token (if any) in an error node and records a diagnostic.
func (p *Parser[T, S]) AdvanceWithError(kind S, expected ExpectedSets) {
	mark := p.Open()
	p.raise(expected)

	if !p.Eof() {
		p.Advance(kind)
	}

	p.Close(mark, p.lang.ErrorNode())
}

// AdvanceErrAndClose records a diagnostic, consumes the current token (if any)
// and closes the subtree started by mark with the err kind.
func (p *Parser[T, S]) AdvanceErrAndClose(mark OpenMark, token S, err S, expected ExpectedSets) CloseMark {
	p.raise(expected)

	if !p.Eof() {
		p.Advance(token)
	}

	return p.Close(mark, err)
}

// Merge consumes the longest run of tokens satisfying advanceIf as a single leaf.
// If the current token does not satisfy advanceIf it is consumed by AdvanceWithError
// with the kind returned by fallback.
func (p *Parser[T, S]) Merge(kind S, advanceIf func(T) bool, fallback func(T) S, expected ExpectedSets) {
	current := p.Nth(0)

	n := 0
	for p.pos+n < len(p.lexemes) && advanceIf(p.lexemes[p.pos+n].Kind) {
		n++
	}

	if n > 0 {
		p.AdvanceN(kind, n)
	} else {
		p.AdvanceWithError(fallback(current), expected)
	}
}

// Find returns the first token kind satisfying predicate, starting offset
// tokens after the current one. It returns the EOF kind if there is none.
// Find does not consume fuel.
func (p *Parser[T, S]) Find(offset int, predicate func(T) bool) T {
	start := p.pos + offset
	if start >= len(p.lexemes) {
		return p.lang.EOF()
	}

	for _, lexeme := range p.lexemes[start:] {
		if predicate(lexeme.Kind) {
			return lexeme.Kind
		}
	}
	return p.lang.EOF()
}

// AssertAt panics if the parser is not at token. Grammar rules call it before
// opening a node to check that they were invoked at the right place.
func (p *Parser[T, S]) AssertAt(token T) {
	if current := p.Nth(0); current != token {
		panic(invariantf("parser expected to be at %v but is at %v (position %d, span %s, slice: `%s`)",
			token, current, p.pos, p.NthSpan(0), p.NthSlice(0)))
	}
}

func (p *Parser[T, S]) AssertAtAny(choices ...T) {
	if !p.AtAny(choices...) {
		p.panicCurrentTokenDidNotPass()
	}
}

func (p *Parser[T, S]) AssertAtIf(predicate func(T) bool) {
	if !p.AtIf(predicate) {
		p.panicCurrentTokenDidNotPass()
	}
}

func (p *Parser[T, S]) panicCurrentTokenDidNotPass() {
	panic(invariantf("parser's current token did not pass a predicate (at %v, position %d, span %s, slice: `%s`)",
		p.peek(0), p.pos, p.NthSpan(0), p.NthSlice(0)))
}

// Finish builds the tree by replaying the events. Every lexeme should have been
// consumed and every mark should have been consumed. cache can be nil.
func (p *Parser[T, S]) Finish(cache green.Cache) (*green.Node, []Diagnostic[T]) {
	if len(p.opens) != 0 {
		panic(invariantf("%d subtree(s) were opened but never closed nor cancelled", len(p.opens)))
	}

	builder := green.NewBuilder(cache)
	next := 0

	for _, e := range p.events {
		switch e.tag {
		case openEvent:
			builder.Open(e.kind)
		case closeEvent:
			builder.Close()
		case advanceEvent:
			first := p.lexemes[next]
			last := p.lexemes[next+e.count-1]
			next += e.count

			builder.Token(e.kind, p.source[first.Span.Start:last.Span.End])
		case tombstoneEvent:
		}
	}

	if next != len(p.lexemes) {
		panic(invariantf("not all tokens were consumed (%d/%d)", next, len(p.lexemes)))
	}

	root := builder.Finish()

	p.logger.Debug().
		Int("lexemes", len(p.lexemes)).
		Int("events", len(p.events)).
		Int("diagnostics", len(p.diagnostics)).
		Msg("parse finished")

	return root, p.diagnostics
}

func equalFoldASCII(s, t string) bool {
	if len(s) != len(t) {
		return false
	}

	for i := 0; i < len(s); i++ {
		a, b := s[i], t[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}
