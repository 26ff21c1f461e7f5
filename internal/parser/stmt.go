package parser

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/token"
)

// parseBlock parses the body of any compound statement or function: either
// an indented suite (`: NEWLINE INDENT stmt+ DEDENT`) or a single inline
// statement on the same line as the colon.
func (p *Parser) parseBlock() (*cst.Node, error) {
	if err := p.r.enter(); err != nil {
		return nil, err
	}
	defer p.r.leave()

	blk := cst.NewNode(cst.KindBlock)
	p.r.skipTrivia(blk)

	if p.r.Peek(0).Kind != token.Newline {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		blk.Append(stmt)
		if p.r.Peek(0).Kind == token.Newline {
			blk.Append(p.r.AdvanceAsElement())
		}
		return blk, nil
	}

	blk.Append(p.r.AdvanceAsElement())
	p.r.skipNewlinesAndComments(blk)
	if p.r.Peek(0).Kind != token.Indent {
		blk.Append(p.r.invalidWrap())
		return blk, nil
	}
	blk.Append(p.r.AdvanceAsElement())
	for p.r.Peek(0).Kind != token.Dedent && !p.r.AtEOF() {
		p.r.skipNewlinesAndComments(blk)
		if p.r.Peek(0).Kind == token.Dedent || p.r.AtEOF() {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		blk.Append(stmt)
		p.r.skipTrivia(blk)
		if p.r.Peek(0).Kind == token.Newline {
			blk.Append(p.r.AdvanceAsElement())
		}
	}
	if p.r.Peek(0).Kind == token.Dedent {
		blk.Append(p.r.AdvanceAsElement())
	}
	return blk, nil
}

func (p *Parser) parseStatement() (*cst.Node, error) {
	if err := p.r.enter(); err != nil {
		return nil, err
	}
	defer p.r.leave()

	switch {
	case p.r.isKeyword("if"):
		return p.parseIfStmt()
	case p.r.isKeyword("for"):
		return p.parseForStmt()
	case p.r.isKeyword("while"):
		return p.parseWhileStmt()
	case p.r.isKeyword("match"):
		return p.parseMatchStmt()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseSimpleStatement() (*cst.Node, error) {
	switch {
	case p.r.isKeyword("pass"):
		n := cst.NewNode(cst.KindPassStmt)
		n.Append(p.r.AdvanceAsElement())
		return n, nil
	case p.r.isKeyword("break"):
		n := cst.NewNode(cst.KindBreakStmt)
		n.Append(p.r.AdvanceAsElement())
		return n, nil
	case p.r.isKeyword("continue"):
		n := cst.NewNode(cst.KindContinueStmt)
		n.Append(p.r.AdvanceAsElement())
		return n, nil
	case p.r.isKeyword("breakpoint"):
		n := cst.NewNode(cst.KindPassStmt)
		n.Append(p.r.AdvanceAsElement())
		return n, nil
	case p.r.isKeyword("return"):
		n := cst.NewNode(cst.KindReturnStmt)
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		if p.r.Peek(0).Kind != token.Newline && p.r.Peek(0).Kind != token.Dedent && !p.r.AtEOF() {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			n.Append(expr)
		}
		return n, nil
	case p.r.isKeyword("assert"):
		n := cst.NewNode(cst.KindAssertStmt)
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		if !p.r.isPunct("(") {
			n.Append(p.r.invalidWrap())
			return n, nil
		}
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Append(cond)
		p.r.skipTrivia(n)
		if p.r.isPunct(",") {
			n.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(n)
			msg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			n.Append(msg)
			p.r.skipTrivia(n)
		}
		if p.r.isPunct(")") {
			n.Append(p.r.AdvanceAsElement())
		} else {
			n.Append(p.r.invalidWrap())
		}
		return n, nil
	case p.r.isKeyword("var"):
		return p.parseLocalVarStmt()
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n := cst.NewNode(cst.KindExprStmt)
		n.Append(expr)
		return n, nil
	}
}

func (p *Parser) parseLocalVarStmt() (*cst.Node, error) {
	n := cst.NewNode(cst.KindVarStmt)
	n.Append(p.r.AdvanceAsElement()) // var
	p.r.skipTrivia(n)
	if p.r.Peek(0).Kind == token.Identifier {
		n.Attrs["name"] = len(n.Form())
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
	}
	p.r.skipTrivia(n)

	if p.r.isPunct(":=") {
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Append(val)
		return n, nil
	}
	if p.r.isPunct(":") {
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		typ, err := p.parseTypeNode()
		if err != nil {
			return nil, err
		}
		n.Append(typ)
		p.r.skipTrivia(n)
	}
	if p.r.isPunct("=") {
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Append(val)
	}
	return n, nil
}

func (p *Parser) parseIfStmt() (*cst.Node, error) {
	n := cst.NewNode(cst.KindIfStmt)
	n.Append(p.r.AdvanceAsElement()) // if
	p.r.skipTrivia(n)
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	n.Append(cond)
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

	for {
		p.r.skipNewlinesAndComments(n)
		if p.r.isKeyword("elif") {
			clause := cst.NewNode(cst.KindElifClause)
			clause.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(clause)
			c2, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			clause.Append(c2)
			p.r.skipTrivia(clause)
			if p.r.isPunct(":") {
				clause.Append(p.r.AdvanceAsElement())
			} else {
				clause.Append(p.r.invalidWrap())
			}
			b2, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			clause.Append(b2)
			n.Append(clause)
			continue
		}
		if p.r.isKeyword("else") {
			clause := cst.NewNode(cst.KindElseClause)
			clause.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(clause)
			if p.r.isPunct(":") {
				clause.Append(p.r.AdvanceAsElement())
			} else {
				clause.Append(p.r.invalidWrap())
			}
			b2, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			clause.Append(b2)
			n.Append(clause)
		}
		break
	}
	return n, nil
}

func (p *Parser) parseForStmt() (*cst.Node, error) {
	n := cst.NewNode(cst.KindForStmt)
	n.Append(p.r.AdvanceAsElement()) // for
	p.r.skipTrivia(n)
	if p.r.Peek(0).Kind == token.Identifier {
		n.Attrs["name"] = len(n.Form())
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
	}
	p.r.skipTrivia(n)
	if p.r.isPunct(":") {
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		typ, err := p.parseTypeNode()
		if err != nil {
			return nil, err
		}
		n.Append(typ)
		p.r.skipTrivia(n)
	}
	if p.r.isKeyword("in") {
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
	}
	p.r.skipTrivia(n)
	iter, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	n.Append(iter)
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

func (p *Parser) parseWhileStmt() (*cst.Node, error) {
	n := cst.NewNode(cst.KindWhileStmt)
	n.Append(p.r.AdvanceAsElement()) // while
	p.r.skipTrivia(n)
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	n.Append(cond)
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

func (p *Parser) parseMatchStmt() (*cst.Node, error) {
	n := cst.NewNode(cst.KindMatchStmt)
	n.Append(p.r.AdvanceAsElement()) // match
	p.r.skipTrivia(n)
	subject, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	n.Append(subject)
	p.r.skipTrivia(n)
	if p.r.isPunct(":") {
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
		return n, nil
	}
	p.r.skipTrivia(n)
	if p.r.Peek(0).Kind != token.Newline {
		n.Append(p.r.invalidWrap())
		return n, nil
	}
	n.Append(p.r.AdvanceAsElement())
	p.r.skipNewlinesAndComments(n)
	if p.r.Peek(0).Kind != token.Indent {
		n.Append(p.r.invalidWrap())
		return n, nil
	}
	n.Append(p.r.AdvanceAsElement())
	for p.r.Peek(0).Kind != token.Dedent && !p.r.AtEOF() {
		p.r.skipNewlinesAndComments(n)
		if p.r.Peek(0).Kind == token.Dedent || p.r.AtEOF() {
			break
		}
		c, err := p.parseMatchCase()
		if err != nil {
			return nil, err
		}
		n.Append(c)
		p.r.skipNewlinesAndComments(n)
	}
	if p.r.Peek(0).Kind == token.Dedent {
		n.Append(p.r.AdvanceAsElement())
	}
	return n, nil
}

func (p *Parser) parseMatchCase() (*cst.Node, error) {
	n := cst.NewNode(cst.KindMatchCase)
	pat, err := p.parseMatchPattern()
	if err != nil {
		return nil, err
	}
	n.Append(pat)
	p.r.skipTrivia(n)
	for p.r.isPunct(",") {
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		pat2, err := p.parseMatchPattern()
		if err != nil {
			return nil, err
		}
		n.Append(pat2)
		p.r.skipTrivia(n)
	}
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

// parseMatchPattern parses one match arm pattern: a `var name` binding, a
// wildcard/literal/array/dict pattern, or any other expression used
// structurally (spec.md §3 "Match patterns reuse expression grammar").
func (p *Parser) parseMatchPattern() (*cst.Node, error) {
	if p.r.isKeyword("var") {
		n := cst.NewNode(cst.KindUnaryExpr)
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		if p.r.Peek(0).Kind == token.Identifier {
			ident := cst.NewNode(cst.KindIdentifier)
			ident.Append(p.r.AdvanceAsElement())
			n.Append(ident)
		} else {
			n.Append(p.r.invalidWrap())
		}
		return n, nil
	}
	return p.parseExpression()
}
