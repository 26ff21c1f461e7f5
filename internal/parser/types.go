package parser

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/token"
)

// parseTypeNode parses a type annotation: a simple name (`int`, `Node`,
// `MyClass.Inner`) or a generic container type (`Array[int]`,
// `Dictionary[String, int]`).
func (p *Parser) parseTypeNode() (*cst.Node, error) {
	if err := p.r.enter(); err != nil {
		return nil, err
	}
	defer p.r.leave()

	if p.r.Peek(0).Kind != token.Identifier && !p.r.isKeyword("void") {
		return p.r.invalidWrap(), nil
	}

	n := cst.NewNode(cst.KindTypeSimple)
	n.Append(p.r.AdvanceAsElement())
	for p.r.isPunct(".") {
		n.Append(p.r.AdvanceAsElement())
		if p.r.Peek(0).Kind == token.Identifier {
			n.Append(p.r.AdvanceAsElement())
		} else {
			n.Append(p.r.invalidWrap())
		}
	}

	if !p.r.isPunct("[") {
		return n, nil
	}

	generic := cst.NewNode(cst.KindTypeGeneric)
	generic.Append(n)
	generic.Append(p.r.AdvanceAsElement()) // [
	for !p.r.isPunct("]") && !p.r.AtEOF() {
		arg, err := p.parseTypeNode()
		if err != nil {
			return nil, err
		}
		generic.Append(arg)
		if p.r.isPunct(",") {
			generic.Append(p.r.AdvanceAsElement())
			p.r.skipTrivia(generic)
			continue
		}
		break
	}
	if p.r.isPunct("]") {
		generic.Append(p.r.AdvanceAsElement())
	} else {
		generic.Append(p.r.invalidWrap())
	}
	return generic, nil
}
