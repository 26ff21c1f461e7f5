package scope

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/token"
)

// Build runs the two-pass declaration collector over a parsed class
// declaration (spec.md §4.3): pass one registers every class-level member
// so forward references resolve (S1); pass two walks method/property
// bodies in declaration order, registering locals in the order they are
// declared, and each block/loop/match-case arm gets its own nested scope
// (S3 "scope isolation"). A function's body block is itself a block scope
// nested under the function scope, which holds only the parameters. The
// collected scopes do not restrict a local to uses after its declaration
// point: Scope.Lookup resolves it anywhere in its scope.
func Build(root *cst.Node) (*Scope, error) {
	return collectClassBody(root, nil), nil
}

func collectClassBody(classNode *cst.Node, parent *Scope) *Scope {
	classScope := newScope(KindClass, classNode, parent)

	for _, m := range classNode.Children() {
		switch m.Kind {
		case cst.KindVarDecl:
			classScope.Declare(&Symbol{Name: attrName(m, "name"), Kind: SymVariable, DeclNode: m, DeclaredType: extractDeclaredType(m), Position: m.Span().Start})
		case cst.KindPropertyDecl:
			classScope.Declare(&Symbol{Name: attrName(m, "name"), Kind: SymProperty, DeclNode: m, DeclaredType: extractDeclaredType(m), Position: m.Span().Start})
		case cst.KindConstDecl:
			classScope.Declare(&Symbol{Name: attrName(m, "name"), Kind: SymConstant, DeclNode: m, DeclaredType: extractDeclaredType(m), Position: m.Span().Start})
		case cst.KindSignalDecl:
			classScope.Declare(&Symbol{Name: attrName(m, "name"), Kind: SymSignal, DeclNode: m, Position: m.Span().Start})
		case cst.KindEnumDecl:
			if name := attrName(m, "name"); name != "" {
				classScope.Declare(&Symbol{Name: name, Kind: SymEnumType, DeclNode: m, Position: m.Span().Start})
			}
			for _, v := range m.Children() {
				if v.Kind == cst.KindEnumValue {
					classScope.Declare(&Symbol{Name: attrName(v, "name"), Kind: SymEnumValue, DeclNode: v, Position: v.Span().Start})
				}
			}
		case cst.KindMethodDecl:
			classScope.Declare(&Symbol{Name: attrName(m, "name"), Kind: SymFunction, DeclNode: m, Position: m.Span().Start})
		case cst.KindInnerClassDecl:
			classScope.Declare(&Symbol{Name: attrName(m, "name"), Kind: SymInnerClass, DeclNode: m, Position: m.Span().Start})
		case cst.KindClassNameDecl:
			classScope.Declare(&Symbol{Name: attrName(m, "name"), Kind: SymClassName, DeclNode: m, Position: m.Span().Start})
		}
	}

	for _, m := range classNode.Children() {
		switch m.Kind {
		case cst.KindMethodDecl:
			buildFunctionScope(m, classScope)
		case cst.KindPropertyDecl:
			for _, acc := range m.Children() {
				if acc.Kind == cst.KindMethodDecl {
					buildFunctionScope(acc, classScope)
				}
			}
		case cst.KindInnerClassDecl:
			collectClassBody(m, classScope)
		}
	}
	return classScope
}

func buildFunctionScope(method *cst.Node, parent *Scope) *Scope {
	fnScope := newScope(KindFunction, method, parent)
	for _, c := range method.Children() {
		if c.Kind == cst.KindParameter {
			fnScope.Declare(&Symbol{Name: attrName(c, "name"), Kind: SymParameter, DeclNode: c, DeclaredType: extractDeclaredType(c), Position: c.Span().Start})
		}
	}
	for _, c := range method.Children() {
		if c.Kind == cst.KindBlock {
			collectBlock(c, fnScope, nil)
		}
	}
	return fnScope
}

// collectBlock creates a new scope for a block, seeds it with any
// bindings the enclosing construct introduces (a loop variable, a match
// pattern's `var` binding), then walks the block's statements in order.
func collectBlock(block *cst.Node, parent *Scope, preDeclare []*Symbol) *Scope {
	s := newScope(KindBlock, block, parent)
	for _, sym := range preDeclare {
		s.Declare(sym)
	}
	for _, stmt := range block.Children() {
		collectStatement(stmt, s)
	}
	return s
}

func collectStatement(stmt *cst.Node, scope *Scope) {
	switch stmt.Kind {
	case cst.KindVarStmt:
		scope.Declare(&Symbol{Name: attrName(stmt, "name"), Kind: SymVariable, DeclNode: stmt, DeclaredType: extractDeclaredType(stmt), Position: stmt.Span().Start})

	case cst.KindIfStmt:
		for _, c := range stmt.Children() {
			switch c.Kind {
			case cst.KindBlock:
				collectBlock(c, scope, nil)
			case cst.KindElifClause, cst.KindElseClause:
				for _, cc := range c.Children() {
					if cc.Kind == cst.KindBlock {
						collectBlock(cc, scope, nil)
					}
				}
			}
		}

	case cst.KindForStmt:
		loopVar := &Symbol{Name: attrName(stmt, "name"), Kind: SymVariable, DeclNode: stmt, Position: stmt.Span().Start}
		for _, c := range stmt.Children() {
			if c.Kind == cst.KindBlock {
				collectBlock(c, scope, []*Symbol{loopVar})
			}
		}

	case cst.KindWhileStmt:
		for _, c := range stmt.Children() {
			if c.Kind == cst.KindBlock {
				collectBlock(c, scope, nil)
			}
		}

	case cst.KindMatchStmt:
		for _, c := range stmt.Children() {
			if c.Kind != cst.KindMatchCase {
				continue
			}
			var binds []*Symbol
			var body *cst.Node
			for _, cc := range c.Children() {
				if cc.Kind == cst.KindUnaryExpr && isVarBindingPattern(cc) {
					if name := firstIdentifierName(cc); name != "" {
						binds = append(binds, &Symbol{Name: name, Kind: SymVariable, DeclNode: c, Position: c.Span().Start})
					}
				}
				if cc.Kind == cst.KindBlock {
					body = cc
				}
			}
			if body != nil {
				collectBlock(body, scope, binds)
			}
		}
	}
}

func isVarBindingPattern(n *cst.Node) bool {
	form := n.Form()
	if len(form) == 0 {
		return false
	}
	te, ok := form[0].(*cst.TokenElement)
	return ok && te.Tok.Kind == token.Keyword && te.Tok.Sequence == "var"
}

func firstIdentifierName(n *cst.Node) string {
	for _, child := range n.Children() {
		if child.Kind == cst.KindIdentifier {
			if t, ok := attrToken(child, "name"); ok {
				return t.Sequence
			}
			for _, te := range child.Tokens() {
				return te.Tok.Sequence
			}
		}
	}
	return ""
}

func extractDeclaredType(n *cst.Node) *cst.Node {
	for _, child := range n.Children() {
		if child.Kind == cst.KindTypeSimple || child.Kind == cst.KindTypeGeneric {
			return child
		}
	}
	return nil
}

func attrToken(n *cst.Node, key string) (token.Token, bool) {
	idx, ok := n.Attrs[key]
	if !ok {
		return token.Token{}, false
	}
	form := n.Form()
	if idx < 0 || idx >= len(form) {
		return token.Token{}, false
	}
	te, ok := form[idx].(*cst.TokenElement)
	if !ok {
		return token.Token{}, false
	}
	return te.Tok, true
}

func attrName(n *cst.Node, key string) string {
	t, ok := attrToken(n, key)
	if !ok {
		return ""
	}
	return t.Sequence
}
