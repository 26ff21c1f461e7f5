package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/oxhq/gdlint/internal/token"
)

// lexer is the reading-state driver of spec.md §4.1: it streams characters
// one at a time through a small stack of frame contexts (bracket depth,
// indentation) and emits tokens, including synthetic INDENT/DEDENT markers
// that still occupy a form position so the original whitespace survives
// round-tripping (I2).
type lexer struct {
	src        string
	pos        int // byte offset
	line, col  int
	bracketDep int // > 0 inside (), [], {} — newlines become structurally transparent but are still tokens

	indentStack []string // the exact whitespace prefix for each open indent level
	atLineStart bool

	pending []token.Token // lookahead buffer for INDENT/DEDENT batching
}

func newLexer(src string) *lexer {
	return &lexer{
		src:         src,
		pos:         0,
		line:        1,
		col:         1,
		indentStack: []string{""},
		atLineStart: true,
	}
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.src) }

func (lx *lexer) peekByte() byte {
	if lx.eof() {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *lexer) peekByteAt(off int) byte {
	if lx.pos+off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+off]
}

func (lx *lexer) advanceByte() byte {
	b := lx.src[lx.pos]
	lx.pos++
	if b == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return b
}

func (lx *lexer) here() token.Position { return token.Position{Line: lx.line, Column: lx.col} }

// Next returns the next grammatically meaningful token in the stream,
// folding any pure inter-token horizontal whitespace into the returned
// token's Lead field rather than handing it back as a separate token —
// resolvers only ever see tokens that carry grammatical weight.
func (lx *lexer) Next() token.Token {
	var lead strings.Builder
	leadStart := lx.here()
	for {
		t := lx.rawNext()
		if t.Kind == token.Punctuation && isWhitespaceText(t.Sequence) {
			lead.WriteString(t.Sequence)
			continue
		}
		if lead.Len() > 0 {
			t.Lead = lead.String()
			t.Span.Start = leadStart
		}
		return t
	}
}

func isWhitespaceText(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}

// rawNext performs one dispatch step of the lexer, possibly returning a
// pure-whitespace punctuation token that Next() folds away.
func (lx *lexer) rawNext() token.Token {
	if len(lx.pending) > 0 {
		t := lx.pending[0]
		lx.pending = lx.pending[1:]
		return t
	}

	if lx.atLineStart && lx.bracketDep == 0 {
		if t, ok := lx.lexIndentation(); ok {
			return t
		}
	}
	lx.atLineStart = false

	if lx.eof() {
		return token.New(token.EOF, "", token.Span{Start: lx.here(), End: lx.here()})
	}

	start := lx.here()
	b := lx.peekByte()

	switch {
	case b == ' ' || b == '\t':
		return lx.lexWhitespace(start)
	case b == '\r':
		lx.advanceByte()
		if lx.peekByte() == '\n' {
			return lx.lexNewline(start)
		}
		return token.New(token.Invalid, "\r", token.Span{Start: start, End: lx.here()})
	case b == '\n':
		return lx.lexNewline(start)
	case b == '#':
		return lx.lexComment(start)
	case b == '"' || b == '\'':
		return lx.lexString(start, "")
	case (b == '&' || b == '^' || b == 'r') && lx.isStringPrefix():
		return lx.lexPrefixedString(start)
	case isDigit(b):
		return lx.lexNumber(start)
	case isIdentStart(b):
		return lx.lexIdentifierOrKeyword(start)
	case strings.ContainsRune("([{", rune(b)):
		lx.bracketDep++
		lx.advanceByte()
		return token.New(token.Punctuation, string(b), token.Span{Start: start, End: lx.here()})
	case strings.ContainsRune(")]}", rune(b)):
		if lx.bracketDep > 0 {
			lx.bracketDep--
		}
		lx.advanceByte()
		return token.New(token.Punctuation, string(b), token.Span{Start: start, End: lx.here()})
	default:
		return lx.lexOperatorOrInvalid(start)
	}
}

func (lx *lexer) isStringPrefix() bool {
	b := lx.peekByte()
	var n byte
	if b == 'r' {
		n = lx.peekByteAt(1)
	} else {
		n = lx.peekByteAt(1)
	}
	return n == '"' || n == '\''
}

func (lx *lexer) lexPrefixedString(start token.Position) token.Token {
	prefix := string(lx.advanceByte())
	return lx.lexString(start, prefix)
}

// lexIndentation consumes the leading whitespace of a logical line and
// emits INDENT/DEDENT tokens as needed, buffering extras in lx.pending.
// Returns ok=false if there was nothing to report (caller falls through to
// normal tokenizing of the line's first real token).
func (lx *lexer) lexIndentation() (token.Token, bool) {
	start := lx.here()
	startPos := lx.pos
	for !lx.eof() {
		b := lx.peekByte()
		if b == ' ' || b == '\t' {
			lx.advanceByte()
			continue
		}
		break
	}
	indent := lx.src[startPos:lx.pos]

	// Blank line or comment-only line: do not affect indent stack, but
	// still stop treating this as "line start" until the next newline.
	if lx.eof() || lx.peekByte() == '\n' || lx.peekByte() == '\r' || lx.peekByte() == '#' {
		lx.atLineStart = false
		if indent == "" {
			return token.Token{}, false
		}
		return token.New(token.Punctuation, indent, token.Span{Start: start, End: lx.here()}), true
	}

	current := lx.indentStack[len(lx.indentStack)-1]
	switch {
	case indent == current:
		if indent == "" {
			return token.Token{}, false
		}
		return token.New(token.Punctuation, indent, token.Span{Start: start, End: lx.here()}), true
	case strings.HasPrefix(indent, current):
		lx.indentStack = append(lx.indentStack, indent)
		return token.New(token.Indent, indent, token.Span{Start: start, End: lx.here()}), true
	default:
		// Dedent: pop until we find a matching (or shorter) level.
		var dedents []token.Token
		for len(lx.indentStack) > 1 && !strings.HasPrefix(indent, lx.indentStack[len(lx.indentStack)-1]) {
			lx.indentStack = lx.indentStack[:len(lx.indentStack)-1]
			dedents = append(dedents, token.New(token.Dedent, "", token.Span{Start: start, End: lx.here()}))
		}
		if len(dedents) == 0 {
			dedents = append(dedents, token.New(token.Dedent, "", token.Span{Start: start, End: lx.here()}))
		}
		if indent != "" {
			dedents = append(dedents, token.New(token.Punctuation, indent, token.Span{Start: start, End: lx.here()}))
		}
		first := dedents[0]
		lx.pending = append(lx.pending, dedents[1:]...)
		return first, true
	}
}

func (lx *lexer) lexWhitespace(start token.Position) token.Token {
	startPos := lx.pos
	for !lx.eof() && (lx.peekByte() == ' ' || lx.peekByte() == '\t') {
		lx.advanceByte()
	}
	return token.New(token.Punctuation, lx.src[startPos:lx.pos], token.Span{Start: start, End: lx.here()})
}

func (lx *lexer) lexNewline(start token.Position) token.Token {
	startPos := lx.pos
	if lx.peekByte() == '\r' {
		lx.advanceByte()
	}
	if lx.peekByte() == '\n' {
		lx.advanceByte()
	}
	lx.atLineStart = lx.bracketDep == 0
	return token.New(token.Newline, lx.src[startPos:lx.pos], token.Span{Start: start, End: lx.here()})
}

func (lx *lexer) lexComment(start token.Position) token.Token {
	startPos := lx.pos
	for !lx.eof() && lx.peekByte() != '\n' && lx.peekByte() != '\r' {
		lx.advanceByte()
	}
	return token.New(token.Comment, lx.src[startPos:lx.pos], token.Span{Start: start, End: lx.here()})
}

func (lx *lexer) lexString(start token.Position, prefix string) token.Token {
	startPos := lx.pos
	quote := lx.advanceByte()
	triple := false
	if lx.peekByte() == quote && lx.peekByteAt(1) == quote {
		lx.advanceByte()
		lx.advanceByte()
		triple = true
	}
	for !lx.eof() {
		b := lx.peekByte()
		if b == '\\' && !lx.eof() {
			lx.advanceByte()
			if !lx.eof() {
				lx.advanceByte()
			}
			continue
		}
		if b == quote {
			if triple {
				if lx.peekByteAt(1) == quote && lx.peekByteAt(2) == quote {
					lx.advanceByte()
					lx.advanceByte()
					lx.advanceByte()
					break
				}
				lx.advanceByte()
				continue
			}
			lx.advanceByte()
			break
		}
		if b == '\n' && !triple {
			// unterminated single-line string: stop here, let the
			// surrounding resolver see an invalid/short token rather
			// than consuming past the line.
			break
		}
		lx.advanceByte()
	}
	t := token.New(token.String, lx.src[startPos:lx.pos], token.Span{Start: start, End: lx.here()})
	t.Meta = &token.StringMeta{TripleQuoted: triple, Prefix: prefix}
	return t
}

func (lx *lexer) lexNumber(start token.Position) token.Token {
	startPos := lx.pos
	if lx.peekByte() == '0' && (lx.peekByteAt(1) == 'x' || lx.peekByteAt(1) == 'X') {
		lx.advanceByte()
		lx.advanceByte()
		for !lx.eof() && (isHexDigit(lx.peekByte()) || lx.peekByte() == '_') {
			lx.advanceByte()
		}
		return token.New(token.Number, lx.src[startPos:lx.pos], token.Span{Start: start, End: lx.here()})
	}
	if lx.peekByte() == '0' && (lx.peekByteAt(1) == 'b' || lx.peekByteAt(1) == 'B') {
		lx.advanceByte()
		lx.advanceByte()
		for !lx.eof() && (lx.peekByte() == '0' || lx.peekByte() == '1' || lx.peekByte() == '_') {
			lx.advanceByte()
		}
		return token.New(token.Number, lx.src[startPos:lx.pos], token.Span{Start: start, End: lx.here()})
	}
	for !lx.eof() && (isDigit(lx.peekByte()) || lx.peekByte() == '_') {
		lx.advanceByte()
	}
	if lx.peekByte() == '.' && isDigit(lx.peekByteAt(1)) {
		lx.advanceByte()
		for !lx.eof() && (isDigit(lx.peekByte()) || lx.peekByte() == '_') {
			lx.advanceByte()
		}
	}
	if lx.peekByte() == 'e' || lx.peekByte() == 'E' {
		save := lx.pos
		lx.advanceByte()
		if lx.peekByte() == '+' || lx.peekByte() == '-' {
			lx.advanceByte()
		}
		if isDigit(lx.peekByte()) {
			for !lx.eof() && isDigit(lx.peekByte()) {
				lx.advanceByte()
			}
		} else {
			lx.pos = save
		}
	}
	return token.New(token.Number, lx.src[startPos:lx.pos], token.Span{Start: start, End: lx.here()})
}

func (lx *lexer) lexIdentifierOrKeyword(start token.Position) token.Token {
	startPos := lx.pos
	for !lx.eof() && isIdentCont(lx.peekByte()) {
		lx.advanceByte()
	}
	text := lx.src[startPos:lx.pos]
	kind := token.Identifier
	if keywords[text] {
		kind = token.Keyword
	}
	return token.New(kind, text, token.Span{Start: start, End: lx.here()})
}

var operatorRunes = []string{
	"<<=", ">>=", "**=", "!=", "==", "<=", ">=", "&&", "||", "->", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "&", "|", "^", "~",
	".", ",", ":", ";", "$", "@", "?",
}

func (lx *lexer) lexOperatorOrInvalid(start token.Position) token.Token {
	rest := lx.src[lx.pos:]
	for _, op := range operatorRunes {
		if strings.HasPrefix(rest, op) {
			for range op {
				lx.advanceByte()
			}
			return token.New(token.Punctuation, op, token.Span{Start: start, End: lx.here()})
		}
	}
	r, size := utf8.DecodeRuneInString(rest)
	for i := 0; i < size; i++ {
		lx.advanceByte()
	}
	return token.New(token.Invalid, string(r), token.Span{Start: start, End: lx.here()})
}

func isDigit(b byte) bool    { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool { return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') }
func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentCont(b byte) bool { return isIdentStart(b) || isDigit(b) }

var keywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"match": true, "break": true, "continue": true, "pass": true, "return": true,
	"class": true, "class_name": true, "extends": true, "is": true, "in": true,
	"as": true, "self": true, "signal": true, "func": true, "static": true,
	"const": true, "enum": true, "var": true, "breakpoint": true, "preload": true,
	"await": true, "yield": true, "assert": true, "void": true, "PI": true,
	"TAU": true, "INF": true, "NAN": true, "true": true, "false": true, "null": true,
	"and": true, "or": true, "not": true, "setget": true, "onready": true,
	"export": true, "tool": true, "remote": true, "master": true, "puppet": true,
	"remotesync": true, "mastersync": true, "puppetsync": true, "get": true, "set": true,
	"super": true, "namespace": true, "trait": true, "abstract": true,
}
