package parser

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/token"
)

// binaryPrecedence mirrors the language's precedence table (spec.md §4.1
// "Expression precedence"): unary binds tightest, assignment loosest.
// Higher numbers bind tighter; parseBinary is precedence-climbing, so an
// operator whose precedence falls below the caller's floor is left
// unconsumed and returned upward.
var binaryPrecedence = map[string]int{
	"**":  100,
	"*":   90,
	"/":   90,
	"%":   90,
	"+":   80,
	"-":   80,
	"<<":  70,
	">>":  70,
	"&":   60,
	"^":   60,
	"|":   60,
	"==":  50,
	"!=":  50,
	"<":   50,
	"<=":  50,
	">":   50,
	">=":  50,
	"and": 20,
	"&&":  20,
	"or":  10,
	"||":  10,
}

const precedenceIsAsIn = 40

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, "**=": true,
}

// parseExpression is the resolver entry point: assignment is the loosest
// binding form, so it wraps everything else.
func (p *Parser) parseExpression() (*cst.Node, error) {
	if err := p.r.enter(); err != nil {
		return nil, err
	}
	defer p.r.leave()

	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	tok := p.r.Peek(0)
	if tok.Kind == token.Punctuation && assignOps[tok.Sequence] {
		n := cst.NewNode(cst.KindBinaryExpr)
		n.Append(left)
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Append(right)
		return n, nil
	}
	return left, nil
}

// parseTernary handles the "if-expression": `a if c else b`.
func (p *Parser) parseTernary() (*cst.Node, error) {
	left, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.r.isKeyword("if") {
		n := cst.NewNode(cst.KindTernaryExpr)
		n.Append(left)
		n.Append(p.r.AdvanceAsElement()) // if
		p.r.skipTrivia(n)
		cond, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		n.Append(cond)
		p.r.skipTrivia(n)
		if p.r.isKeyword("else") {
			n.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(n)
			elseVal, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			n.Append(elseVal)
		} else {
			n.Append(p.r.invalidWrap())
		}
		return n, nil
	}
	return left, nil
}

// parseBinary implements precedence climbing, also handling the special
// `is`/`as`/`in` forms at their own precedence slot.
func (p *Parser) parseBinary(floor int) (*cst.Node, error) {
	if err := p.r.enter(); err != nil {
		return nil, err
	}
	defer p.r.leave()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.r.Peek(0)

		if tok.Kind == token.Keyword && (tok.Sequence == "is" || tok.Sequence == "as" || tok.Sequence == "in") {
			if precedenceIsAsIn < floor {
				return left, nil
			}
			kind := cst.KindInExpr
			if tok.Sequence == "is" {
				kind = cst.KindIsExpr
			} else if tok.Sequence == "as" {
				kind = cst.KindAsExpr
			}
			n := cst.NewNode(kind)
			n.Append(left)
			n.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(n)
			var rhs *cst.Node
			if kind == cst.KindInExpr {
				rhs, err = p.parseBinary(precedenceIsAsIn + 1)
			} else {
				rhs, err = p.parseTypeNode()
			}
			if err != nil {
				return nil, err
			}
			n.Append(rhs)
			left = n
			continue
		}

		if tok.Kind != token.Punctuation && tok.Kind != token.Keyword {
			return left, nil
		}
		prec, ok := binaryPrecedence[tok.Sequence]
		if !ok || prec < floor {
			return left, nil
		}
		n := cst.NewNode(cst.KindBinaryExpr)
		n.Append(left)
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		n.Append(right)
		left = n
	}
}

var unaryOps = map[string]bool{"-": true, "+": true, "~": true}

// parseUnary handles prefix unary operators and logical-not (`not`/`!`),
// then await, then falls through to postfix (calls, member access, index).
func (p *Parser) parseUnary() (*cst.Node, error) {
	if err := p.r.enter(); err != nil {
		return nil, err
	}
	defer p.r.leave()

	tok := p.r.Peek(0)
	if tok.Kind == token.Keyword && tok.Sequence == "not" ||
		tok.Kind == token.Punctuation && (tok.Sequence == "!" || unaryOps[tok.Sequence]) {
		n := cst.NewNode(cst.KindUnaryExpr)
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n.Append(operand)
		return n, nil
	}
	if tok.Kind == token.Keyword && tok.Sequence == "await" {
		n := cst.NewNode(cst.KindAwaitExpr)
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n.Append(operand)
		return n, nil
	}
	return p.parsePostfix()
}

// parsePostfix chains calls, member access, and indexing onto a primary
// expression.
func (p *Parser) parsePostfix() (*cst.Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.r.Peek(0)
		switch {
		case tok.Kind == token.Punctuation && tok.Sequence == ".":
			n := cst.NewNode(cst.KindMemberExpr)
			n.Append(left)
			n.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(n)
			if p.r.Peek(0).Kind == token.Identifier {
				n.Attrs["name"] = len(n.Form())
				n.Append(p.r.AdvanceAsElement())
			} else {
				n.Append(p.r.invalidWrap())
			}
			left = n
		case tok.Kind == token.Punctuation && tok.Sequence == "(":
			n := cst.NewNode(cst.KindCallExpr)
			n.Append(left)
			if err := p.parseArgList(n); err != nil {
				return nil, err
			}
			left = n
		case tok.Kind == token.Punctuation && tok.Sequence == "[":
			n := cst.NewNode(cst.KindIndexExpr)
			n.Append(left)
			n.Append(p.r.AdvanceAsElement()) // [
			p.r.skipTrivia(n)
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			n.Append(idx)
			p.r.skipTrivia(n)
			if p.r.isPunct("]") {
				n.Append(p.r.AdvanceAsElement())
			} else {
				n.Append(p.r.invalidWrap())
			}
			left = n
		default:
			return left, nil
		}
	}
}

// parseArgList consumes `(args...)` and appends it to call, which already
// holds the callee as its first form element.
func (p *Parser) parseArgList(call *cst.Node) error {
	call.Append(p.r.AdvanceAsElement()) // (
	p.r.skipNewlinesAndComments(call)
	for !p.r.isPunct(")") && !p.r.AtEOF() {
		arg, err := p.parseExpression()
		if err != nil {
			return err
		}
		call.Append(arg)
		p.r.skipNewlinesAndComments(call)
		if p.r.isPunct(",") {
			call.Append(p.r.AdvanceAsElement())
			p.r.skipNewlinesAndComments(call)
			continue
		}
		break
	}
	if p.r.isPunct(")") {
		call.Append(p.r.AdvanceAsElement())
	} else {
		call.Append(p.r.invalidWrap())
	}
	return nil
}

// parsePrimary handles literals, identifiers, parenthesized expressions,
// array/dict initializers, lambdas, get-node/unique-node shorthands.
func (p *Parser) parsePrimary() (*cst.Node, error) {
	if err := p.r.enter(); err != nil {
		return nil, err
	}
	defer p.r.leave()

	tok := p.r.Peek(0)
	switch {
	case tok.Kind == token.Number, tok.Kind == token.String:
		n := cst.NewNode(cst.KindLiteral)
		n.Append(p.r.AdvanceAsElement())
		return n, nil
	case tok.Kind == token.Keyword && (tok.Sequence == "true" || tok.Sequence == "false" ||
		tok.Sequence == "null" || tok.Sequence == "PI" || tok.Sequence == "TAU" ||
		tok.Sequence == "INF" || tok.Sequence == "NAN"):
		n := cst.NewNode(cst.KindLiteral)
		n.Append(p.r.AdvanceAsElement())
		return n, nil
	case tok.Kind == token.Keyword && (tok.Sequence == "self" || tok.Sequence == "super"):
		n := cst.NewNode(cst.KindIdentifier)
		n.Append(p.r.AdvanceAsElement())
		return n, nil
	case tok.Kind == token.Identifier:
		n := cst.NewNode(cst.KindIdentifier)
		n.Append(p.r.AdvanceAsElement())
		return n, nil
	case tok.Kind == token.Punctuation && tok.Sequence == "(":
		open := p.r.AdvanceAsElement()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n := cst.NewNode(cst.KindUnaryExpr) // parenthesized: treated as a transparent grouping wrapper
		n.Append(open)
		n.Append(inner)
		p.r.skipTrivia(n)
		if p.r.isPunct(")") {
			n.Append(p.r.AdvanceAsElement())
		} else {
			n.Append(p.r.invalidWrap())
		}
		return n, nil
	case tok.Kind == token.Punctuation && tok.Sequence == "[":
		return p.parseArrayLiteral()
	case tok.Kind == token.Punctuation && tok.Sequence == "{":
		return p.parseDictLiteral()
	case tok.Kind == token.Punctuation && tok.Sequence == "$":
		return p.parseGetNode()
	case tok.Kind == token.Punctuation && tok.Sequence == "%":
		return p.parseUniqueNode()
	case tok.Kind == token.Keyword && tok.Sequence == "func":
		return p.parseLambda()
	case tok.Kind == token.Keyword && tok.Sequence == "preload":
		n := cst.NewNode(cst.KindCallExpr)
		callee := cst.NewNode(cst.KindIdentifier)
		callee.Append(p.r.AdvanceAsElement())
		n.Append(callee)
		if err := p.parseArgList(n); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return p.r.invalidWrap(), nil
	}
}

func (p *Parser) parseArrayLiteral() (*cst.Node, error) {
	n := cst.NewNode(cst.KindArrayExpr)
	n.Append(p.r.AdvanceAsElement()) // [
	p.r.skipNewlinesAndComments(n)
	for !p.r.isPunct("]") && !p.r.AtEOF() {
		el, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Append(el)
		p.r.skipNewlinesAndComments(n)
		if p.r.isPunct(",") {
			n.Append(p.r.AdvanceAsElement())
			p.r.skipNewlinesAndComments(n)
			continue
		}
		break
	}
	if p.r.isPunct("]") {
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
	}
	return n, nil
}

func (p *Parser) parseDictLiteral() (*cst.Node, error) {
	n := cst.NewNode(cst.KindDictExpr)
	n.Append(p.r.AdvanceAsElement()) // {
	p.r.skipNewlinesAndComments(n)
	for !p.r.isPunct("}") && !p.r.AtEOF() {
		key, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Append(key)
		p.r.skipTrivia(n)
		if p.r.isPunct(":") {
			n.Append(p.r.AdvanceAsElement())
		} else if p.r.isPunct("=") {
			n.Append(p.r.AdvanceAsElement())
		} else {
			n.Append(p.r.invalidWrap())
		}
		p.r.skipNewlinesAndComments(n)
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Append(val)
		p.r.skipNewlinesAndComments(n)
		if p.r.isPunct(",") {
			n.Append(p.r.AdvanceAsElement())
			p.r.skipNewlinesAndComments(n)
			continue
		}
		break
	}
	if p.r.isPunct("}") {
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
	}
	return n, nil
}

func (p *Parser) parseGetNode() (*cst.Node, error) {
	n := cst.NewNode(cst.KindGetNodeExpr)
	n.Append(p.r.AdvanceAsElement()) // $
	for {
		tok := p.r.Peek(0)
		if tok.Kind == token.Identifier || tok.Kind == token.String || tok.Kind == token.Punctuation && tok.Sequence == "/" {
			n.Append(p.r.AdvanceAsElement())
			continue
		}
		break
	}
	return n, nil
}

func (p *Parser) parseUniqueNode() (*cst.Node, error) {
	n := cst.NewNode(cst.KindUniqueNodeExpr)
	n.Append(p.r.AdvanceAsElement()) // %
	for {
		tok := p.r.Peek(0)
		if tok.Kind == token.Identifier || tok.Kind == token.Punctuation && tok.Sequence == "/" {
			n.Append(p.r.AdvanceAsElement())
			continue
		}
		break
	}
	return n, nil
}

func (p *Parser) parseLambda() (*cst.Node, error) {
	n := cst.NewNode(cst.KindLambdaExpr)
	n.Append(p.r.AdvanceAsElement()) // func
	p.r.skipTrivia(n)
	if p.r.Peek(0).Kind == token.Identifier {
		n.Attrs["name"] = len(n.Form())
		n.Append(p.r.AdvanceAsElement())
	}
	if err := p.parseParameterList(n); err != nil {
		return nil, err
	}
	p.r.skipTrivia(n)
	if p.r.isPunct("->") {
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		ret, err := p.parseTypeNode()
		if err != nil {
			return nil, err
		}
		n.Append(ret)
	}
	p.r.skipTrivia(n)
	if p.r.isPunct(":") {
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	n.Append(body)
	return n, nil
}
