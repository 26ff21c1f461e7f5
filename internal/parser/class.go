package parser

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/token"
)

var modifierKeywords = map[string]bool{
	"static": true, "export": true, "onready": true, "tool": true,
	"remote": true, "master": true, "puppet": true,
	"remotesync": true, "mastersync": true, "puppetsync": true,
	"abstract": true,
}

// parseClassBody parses the root file as an (implicit) class declaration:
// a sequence of top-level members until EOF (spec.md §3 "Root is always a
// class_decl, named or not").
func (p *Parser) parseClassBody() (*cst.Node, error) {
	n := cst.NewNode(cst.KindClassDecl)
	p.r.skipNewlinesAndComments(n)
	for !p.r.AtEOF() {
		member, err := p.parseClassMember()
		if err != nil {
			return nil, err
		}
		n.Append(member)
		p.r.skipNewlinesAndComments(n)
	}
	return n, nil
}

// parseMemberSuite parses the `: NEWLINE INDENT member+ DEDENT` (or inline
// single-member) suite following an inner class header, appending it to
// dst in place.
func (p *Parser) parseMemberSuite(dst *cst.Node) error {
	p.r.skipTrivia(dst)
	if p.r.Peek(0).Kind != token.Newline {
		member, err := p.parseClassMember()
		if err != nil {
			return err
		}
		dst.Append(member)
		return nil
	}
	dst.Append(p.r.AdvanceAsElement())
	p.r.skipNewlinesAndComments(dst)
	if p.r.Peek(0).Kind != token.Indent {
		dst.Append(p.r.invalidWrap())
		return nil
	}
	dst.Append(p.r.AdvanceAsElement())
	for p.r.Peek(0).Kind != token.Dedent && !p.r.AtEOF() {
		p.r.skipNewlinesAndComments(dst)
		if p.r.Peek(0).Kind == token.Dedent || p.r.AtEOF() {
			break
		}
		member, err := p.parseClassMember()
		if err != nil {
			return err
		}
		dst.Append(member)
		p.r.skipNewlinesAndComments(dst)
	}
	if p.r.Peek(0).Kind == token.Dedent {
		dst.Append(p.r.AdvanceAsElement())
	}
	return nil
}

// parseClassMember dispatches a single class-level construct: an
// annotation, a modifier-prefixed or bare var/const/signal/enum/func/class
// declaration, or a class_name/extends directive.
func (p *Parser) parseClassMember() (*cst.Node, error) {
	if err := p.r.enter(); err != nil {
		return nil, err
	}
	defer p.r.leave()

	if p.r.isPunct("@") {
		return p.parseAttribute()
	}

	n := cst.NewNode(cst.KindVarDecl)
	for {
		tok := p.r.Peek(0)
		if tok.Kind == token.Keyword && modifierKeywords[tok.Sequence] {
			n.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(n)
			continue
		}
		break
	}

	switch {
	case p.r.isKeyword("var"):
		n.Kind = cst.KindVarDecl
		return p.finishVarDecl(n)
	case p.r.isKeyword("const"):
		n.Kind = cst.KindConstDecl
		return p.finishConstDecl(n)
	case p.r.isKeyword("signal"):
		n.Kind = cst.KindSignalDecl
		return p.finishSignalDecl(n)
	case p.r.isKeyword("enum"):
		n.Kind = cst.KindEnumDecl
		return p.finishEnumDecl(n)
	case p.r.isKeyword("func"):
		n.Kind = cst.KindMethodDecl
		return p.finishMethodDecl(n)
	case p.r.isKeyword("class"):
		n.Kind = cst.KindInnerClassDecl
		return p.finishInnerClassDecl(n)
	case p.r.isKeyword("class_name"):
		n.Kind = cst.KindClassNameDecl
		return p.finishClassNameDecl(n)
	case p.r.isKeyword("extends"):
		n.Kind = cst.KindExtendsDecl
		return p.finishExtendsDecl(n)
	default:
		if len(n.Form()) > 0 {
			// modifiers were consumed but nothing recognizable followed;
			// keep them attached to an invalid wrapper rather than losing them.
			n.Append(p.r.invalidWrap())
			return n, nil
		}
		return p.r.invalidWrap(), nil
	}
}

func (p *Parser) parseAttribute() (*cst.Node, error) {
	n := cst.NewNode(cst.KindAttribute)
	n.Append(p.r.AdvanceAsElement()) // @
	if p.r.Peek(0).Kind == token.Identifier {
		n.Attrs["name"] = len(n.Form())
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
		return n, nil
	}
	if p.r.isPunct("(") {
		if err := p.parseArgList(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *Parser) finishClassNameDecl(n *cst.Node) (*cst.Node, error) {
	n.Append(p.r.AdvanceAsElement()) // class_name
	p.r.skipTrivia(n)
	if p.r.Peek(0).Kind == token.Identifier {
		n.Attrs["name"] = len(n.Form())
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
	}
	p.r.skipTrivia(n)
	if p.r.isPunct(",") {
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		if p.r.Peek(0).Kind == token.String {
			n.Append(p.r.AdvanceAsElement()) // icon path
		}
	}
	return n, nil
}

func (p *Parser) finishExtendsDecl(n *cst.Node) (*cst.Node, error) {
	n.Append(p.r.AdvanceAsElement()) // extends
	p.r.skipTrivia(n)
	base, err := p.parseTypeNode()
	if err != nil {
		return nil, err
	}
	n.Append(base)
	return n, nil
}

func (p *Parser) finishVarDecl(n *cst.Node) (*cst.Node, error) {
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
		return p.maybeFinishProperty(n)
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
	return p.maybeFinishProperty(n)
}

// maybeFinishProperty detects the `var x: T: get: ... set(v): ...` property
// accessor suffix (spec.md §3 "PropertyDecl"), promoting n to a
// KindPropertyDecl when present.
func (p *Parser) maybeFinishProperty(n *cst.Node) (*cst.Node, error) {
	if !p.r.isPunct(":") {
		return n, nil
	}
	// Lookahead: `var x: ... :` followed by NEWLINE+INDENT containing
	// get/set is a property block; otherwise this colon belongs to
	// whatever comes after the declaration (unusual, but bail safely).
	n.Kind = cst.KindPropertyDecl
	n.Append(p.r.AdvanceAsElement())
	if err := p.parsePropertyAccessorSuite(n); err != nil {
		return nil, err
	}
	return n, nil
}

// parsePropertyAccessorSuite parses the `get:`/`set(v):` accessor bodies
// that follow a property declaration's trailing colon.
func (p *Parser) parsePropertyAccessorSuite(dst *cst.Node) error {
	p.r.skipTrivia(dst)
	if p.r.Peek(0).Kind != token.Newline {
		return p.parsePropertyAccessor(dst)
	}
	dst.Append(p.r.AdvanceAsElement())
	p.r.skipNewlinesAndComments(dst)
	if p.r.Peek(0).Kind != token.Indent {
		dst.Append(p.r.invalidWrap())
		return nil
	}
	dst.Append(p.r.AdvanceAsElement())
	for p.r.Peek(0).Kind != token.Dedent && !p.r.AtEOF() {
		p.r.skipNewlinesAndComments(dst)
		if p.r.Peek(0).Kind == token.Dedent || p.r.AtEOF() {
			break
		}
		if err := p.parsePropertyAccessor(dst); err != nil {
			return err
		}
		p.r.skipNewlinesAndComments(dst)
	}
	if p.r.Peek(0).Kind == token.Dedent {
		dst.Append(p.r.AdvanceAsElement())
	}
	return nil
}

func (p *Parser) parsePropertyAccessor(dst *cst.Node) error {
	accessor := cst.NewNode(cst.KindMethodDecl)
	switch {
	case p.r.isKeyword("get"):
		accessor.Attrs["name"] = len(accessor.Form())
		accessor.Append(p.r.AdvanceAsElement())
		if p.r.isPunct("(") {
			if err := p.parseParameterList(accessor); err != nil {
				return err
			}
		}
	case p.r.isKeyword("set"):
		accessor.Attrs["name"] = len(accessor.Form())
		accessor.Append(p.r.AdvanceAsElement())
		if p.r.isPunct("(") {
			if err := p.parseParameterList(accessor); err != nil {
				return err
			}
		}
	default:
		dst.Append(p.r.invalidWrap())
		return nil
	}
	p.r.skipTrivia(accessor)
	if p.r.isPunct(":") {
		accessor.Append(p.r.AdvanceAsElement())
		body, err := p.parseBlock()
		if err != nil {
			return err
		}
		accessor.Append(body)
	} else if p.r.Peek(0).Kind == token.Punctuation && p.r.Peek(0).Sequence == "=" {
		accessor.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(accessor)
		expr, err := p.parseExpression()
		if err != nil {
			return err
		}
		accessor.Append(expr)
	}
	dst.Append(accessor)
	return nil
}

func (p *Parser) finishConstDecl(n *cst.Node) (*cst.Node, error) {
	n.Append(p.r.AdvanceAsElement()) // const
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
	if p.r.isPunct("=") {
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Append(val)
	} else {
		n.Append(p.r.invalidWrap())
	}
	return n, nil
}

func (p *Parser) finishSignalDecl(n *cst.Node) (*cst.Node, error) {
	n.Append(p.r.AdvanceAsElement()) // signal
	p.r.skipTrivia(n)
	if p.r.Peek(0).Kind == token.Identifier {
		n.Attrs["name"] = len(n.Form())
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
	}
	if p.r.isPunct("(") {
		if err := p.parseParameterList(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *Parser) finishEnumDecl(n *cst.Node) (*cst.Node, error) {
	n.Append(p.r.AdvanceAsElement()) // enum
	p.r.skipTrivia(n)
	if p.r.Peek(0).Kind == token.Identifier && !p.r.isPunct("{") {
		n.Attrs["name"] = len(n.Form())
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
	}
	if !p.r.isPunct("{") {
		n.Append(p.r.invalidWrap())
		return n, nil
	}
	n.Append(p.r.AdvanceAsElement())
	p.r.skipNewlinesAndComments(n)
	for !p.r.isPunct("}") && !p.r.AtEOF() {
		val := cst.NewNode(cst.KindEnumValue)
		if p.r.Peek(0).Kind == token.Identifier {
			val.Attrs["name"] = len(val.Form())
			val.Append(p.r.AdvanceAsElement())
		} else {
			val.Append(p.r.invalidWrap())
		}
		p.r.skipTrivia(val)
		if p.r.isPunct("=") {
			val.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(val)
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			val.Append(expr)
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

func (p *Parser) finishMethodDecl(n *cst.Node) (*cst.Node, error) {
	n.Append(p.r.AdvanceAsElement()) // func
	p.r.skipTrivia(n)
	if p.r.Peek(0).Kind == token.Identifier {
		n.Attrs["name"] = len(n.Form())
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
	}
	p.r.skipTrivia(n)
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
		p.r.skipTrivia(n)
	}
	if p.r.isPunct(":") {
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
		return n, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	n.Append(body)
	return n, nil
}

func (p *Parser) finishInnerClassDecl(n *cst.Node) (*cst.Node, error) {
	n.Append(p.r.AdvanceAsElement()) // class
	p.r.skipTrivia(n)
	if p.r.Peek(0).Kind == token.Identifier {
		n.Attrs["name"] = len(n.Form())
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
	}
	p.r.skipTrivia(n)
	if p.r.isKeyword("extends") {
		n.Append(p.r.AdvanceAsElement())
		p.r.skipTrivia(n)
		base, err := p.parseTypeNode()
		if err != nil {
			return nil, err
		}
		n.Append(base)
		p.r.skipTrivia(n)
	}
	if p.r.isPunct(":") {
		n.Append(p.r.AdvanceAsElement())
	} else {
		n.Append(p.r.invalidWrap())
		return n, nil
	}
	if err := p.parseMemberSuite(n); err != nil {
		return nil, err
	}
	return n, nil
}

// parseParameterList parses `(param, param: T, param := v, ...)` and
// appends it to dst, which already holds whatever precedes the opening
// paren (a method/signal/lambda name).
func (p *Parser) parseParameterList(dst *cst.Node) error {
	dst.Append(p.r.AdvanceAsElement()) // (
	p.r.skipNewlinesAndComments(dst)
	for !p.r.isPunct(")") && !p.r.AtEOF() {
		param := cst.NewNode(cst.KindParameter)
		if p.r.Peek(0).Kind == token.Identifier {
			param.Attrs["name"] = len(param.Form())
			param.Append(p.r.AdvanceAsElement())
		} else {
			param.Append(p.r.invalidWrap())
		}
		p.r.skipTrivia(param)
		if p.r.isPunct(":") {
			param.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(param)
			typ, err := p.parseTypeNode()
			if err != nil {
				return err
			}
			param.Append(typ)
			p.r.skipTrivia(param)
		}
		if p.r.isPunct("=") {
			param.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(param)
			def, err := p.parseExpression()
			if err != nil {
				return err
			}
			param.Append(def)
		}
		dst.Append(param)
		p.r.skipNewlinesAndComments(dst)
		if p.r.isPunct(",") {
			dst.Append(p.r.AdvanceAsElement())
			p.r.skipNewlinesAndComments(dst)
			continue
		}
		break
	}
	if p.r.isPunct(")") {
		dst.Append(p.r.AdvanceAsElement())
	} else {
		dst.Append(p.r.invalidWrap())
	}
	return nil
}
