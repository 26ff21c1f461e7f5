package parser

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/parsefail"
	"github.com/oxhq/gdlint/internal/token"
)

// defaultMaxDepth bounds resolver recursion (spec.md §5 "Stack discipline",
// default ~200 frames; §6 "Parsing limits: {max_depth: int}").
const defaultMaxDepth = 200

// reader is the L2 "reading state": it drives resolvers (L3) over a token
// stream pulled one token at a time from the lexer, exposing a small
// lookahead buffer. depth tracks the resolver stack's logical nesting so
// pathologically deep input raises parsefail.StackOverflow instead of
// overflowing the Go call stack.
type reader struct {
	lx       *lexer
	buf      []token.Token
	depth    int
	maxDepth int
}

func newReader(src string, maxDepth int) *reader {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &reader{lx: newLexer(src), maxDepth: maxDepth}
}

func (r *reader) fill(n int) {
	for len(r.buf) <= n {
		r.buf = append(r.buf, r.lx.Next())
	}
}

// Peek returns the token n positions ahead without consuming it (0 = next).
func (r *reader) Peek(n int) token.Token {
	r.fill(n)
	return r.buf[n]
}

// Advance consumes and returns the next token.
func (r *reader) Advance() token.Token {
	r.fill(0)
	t := r.buf[0]
	r.buf = r.buf[1:]
	return t
}

// AdvanceAsElement consumes the next token and wraps it for form insertion.
func (r *reader) AdvanceAsElement() *cst.TokenElement {
	return cst.NewToken(r.Advance())
}

// AtEOF reports whether the next token is EOF.
func (r *reader) AtEOF() bool { return r.Peek(0).Kind == token.EOF }

// enter pushes a logical resolver frame; leave pops it. Every recursive
// resolver call must bracket its body with these so stack-overflow
// protection (spec.md §4.1 "Must not allocate pathologically") is uniform.
func (r *reader) enter() error {
	r.depth++
	if r.depth > r.maxDepth {
		return &parsefail.StackOverflow{Limit: r.maxDepth}
	}
	return nil
}

func (r *reader) leave() { r.depth-- }

// skipTrivia consumes and appends comment/blank-whitespace tokens that
// appear where a grammatical token is expected, attaching them to dst in
// form order (spec.md §4.1 "Comments are attached as children of the
// currently open frame at the point they appear").
func (r *reader) skipTrivia(dst *cst.Node) {
	for {
		switch r.Peek(0).Kind {
		case token.Comment:
			dst.Append(r.AdvanceAsElement())
		default:
			return
		}
	}
}

// skipNewlinesAndComments consumes blank lines/comments between
// statements, attaching them to dst.
func (r *reader) skipNewlinesAndComments(dst *cst.Node) {
	for {
		switch r.Peek(0).Kind {
		case token.Newline, token.Comment:
			dst.Append(r.AdvanceAsElement())
		default:
			return
		}
	}
}

// isKeyword reports whether the next token is the keyword kw.
func (r *reader) isKeyword(kw string) bool {
	t := r.Peek(0)
	return t.Kind == token.Keyword && t.Sequence == kw
}

// isPunct reports whether the next token is the punctuation p.
func (r *reader) isPunct(p string) bool {
	t := r.Peek(0)
	return t.Kind == token.Punctuation && t.Sequence == p
}

// invalidWrap consumes one token into an invalid-token wrapper node,
// preserving I1/I2 for input no resolver can accept (spec.md §4.1 "Error
// recovery").
func (r *reader) invalidWrap() *cst.Node {
	n := cst.NewNode(cst.KindInvalidWrapper)
	tok := r.Advance()
	tok.Kind = token.Invalid
	n.Append(cst.NewToken(tok))
	return n
}
