// Package scope holds the 2xxx-range rules: undefined names, duplicate
// declarations, and shadowing (spec.md §4.8, category table "2xxx Scope").
package scope

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/rules"
	gdscope "github.com/oxhq/gdlint/internal/scope"
	"github.com/oxhq/gdlint/internal/token"
)

// undefinedNameRule flags an identifier used in expression position that
// resolves neither in the scope tree nor in the runtime-type provider's
// catalog (spec.md §4.7 confidence class "None" -> "yields an unresolved
// diagnostic").
type undefinedNameRule struct{}

// UndefinedName is GDL2001, "undefined-name".
var UndefinedName rules.Rule = undefinedNameRule{}

func (undefinedNameRule) Code() string                  { return "GDL2001" }
func (undefinedNameRule) Name() string                   { return "undefined-name" }
func (undefinedNameRule) Category() rules.Category       { return rules.CategoryScope }
func (undefinedNameRule) DefaultSeverity() rules.Severity { return rules.SeverityError }

func (r undefinedNameRule) Check(ctx *rules.Context, emit rules.Emitter) {
	if ctx.Scope == nil {
		return
	}
	idx := rules.BuildScopeIndex(ctx.Scope)
	rules.Walk(ctx.Root, func(n *cst.Node) bool {
		if n.Kind != cst.KindIdentifier {
			return true
		}
		if isDeclarationSite(n) || isMemberAccessName(n) {
			return true
		}
		toks := n.Tokens()
		if len(toks) == 0 {
			return true
		}
		name := toks[0].Tok.Sequence
		if name == "self" || name == "super" {
			return true
		}
		s := idx.ScopeAt(n)
		if s == nil {
			return true
		}
		if s.Lookup(name) != nil {
			return true
		}
		if ctx.Engine != nil && ctx.Engine.Provider.GlobalClass(name) {
			return true
		}
		if ctx.Engine != nil {
			if _, ok := ctx.Engine.Provider.GlobalFunction(name); ok {
				return true
			}
		}
		emit.Emit(rules.Diagnostic{
			Message: "undefined name \"" + name + "\"",
			Range:   n.Span(),
		})
		return true
	})
}

// isDeclarationSite reports whether n is the name token of a declaration
// rather than a use — a crude but effective check: the parent node's kind
// is one that names things, and n is its first identifier child.
func isDeclarationSite(n *cst.Node) bool {
	p := n.Parent()
	if p == nil {
		return false
	}
	switch p.Kind {
	case cst.KindVarDecl, cst.KindConstDecl, cst.KindPropertyDecl, cst.KindSignalDecl,
		cst.KindEnumDecl, cst.KindEnumValue, cst.KindParameter, cst.KindMethodDecl,
		cst.KindInnerClassDecl, cst.KindVarStmt, cst.KindForStmt, cst.KindClassNameDecl:
		children := p.Children()
		return len(children) > 0 && children[0] == n
	}
	return false
}

// isMemberAccessName reports whether n is the member-name position of a
// member expression (e.g. the "bar" in "foo.bar") — those resolve against
// a receiver type, not the enclosing scope, and are checked by the calls
// ruleset instead.
func isMemberAccessName(n *cst.Node) bool {
	p := n.Parent()
	if p == nil || p.Kind != cst.KindMemberExpr {
		return false
	}
	children := p.Children()
	return len(children) > 0 && children[0] != n
}

// duplicateDeclarationRule flags a second declaration of the same name
// within the same scope. It walks each scope's Order, where a repeated name
// marks the redeclaration (scope.Declare keeps only the first binding in
// Symbols), and reports it at the first declaration's span.
type duplicateDeclarationRule struct{}

// DuplicateDeclaration is GDL2002, "duplicate-declaration".
var DuplicateDeclaration rules.Rule = duplicateDeclarationRule{}

func (duplicateDeclarationRule) Code() string                  { return "GDL2002" }
func (duplicateDeclarationRule) Name() string                   { return "duplicate-declaration" }
func (duplicateDeclarationRule) Category() rules.Category       { return rules.CategoryScope }
func (duplicateDeclarationRule) DefaultSeverity() rules.Severity { return rules.SeverityError }

func (r duplicateDeclarationRule) Check(ctx *rules.Context, emit rules.Emitter) {
	if ctx.Scope == nil {
		return
	}
	var walk func(s *gdscope.Scope)
	walk = func(s *gdscope.Scope) {
		seen := map[string]bool{}
		for _, name := range s.Order {
			if seen[name] {
				sym := s.LookupLocal(name)
				if sym != nil {
					emit.Emit(rules.Diagnostic{
						Message: "\"" + name + "\" is already declared in this scope",
						Range:   nodeSpan(sym.DeclNode),
					})
				}
			}
			seen[name] = true
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(ctx.Scope)
}

func nodeSpan(n *cst.Node) token.Span {
	if n == nil {
		return token.Span{}
	}
	return n.Span()
}

// shadowedVariableRule flags a local declaration whose name already
// exists in an enclosing scope (hint severity — shadowing is legal
// GDScript but often a mistake).
type shadowedVariableRule struct{}

// ShadowedVariable is GDL2003, "shadowed-variable".
var ShadowedVariable rules.Rule = shadowedVariableRule{}

func (shadowedVariableRule) Code() string                  { return "GDL2003" }
func (shadowedVariableRule) Name() string                   { return "shadowed-variable" }
func (shadowedVariableRule) Category() rules.Category       { return rules.CategoryScope }
func (shadowedVariableRule) DefaultSeverity() rules.Severity { return rules.SeverityHint }

func (r shadowedVariableRule) Check(ctx *rules.Context, emit rules.Emitter) {
	if ctx.Scope == nil {
		return
	}
	var walk func(s *gdscope.Scope)
	walk = func(s *gdscope.Scope) {
		if s.Parent != nil {
			for name, sym := range s.Symbols {
				if outer := s.Parent.Lookup(name); outer != nil {
					emit.Emit(rules.Diagnostic{
						Message: "\"" + name + "\" shadows a declaration in an enclosing scope",
						Range:   nodeSpanToken(sym),
					})
				}
			}
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(ctx.Scope)
}

func nodeSpanToken(sym *gdscope.Symbol) token.Span {
	if sym == nil || sym.DeclNode == nil {
		return token.Span{}
	}
	return sym.DeclNode.Span()
}

// All is the scope rule-set.
var All = rules.NewRuleSet("scope", UndefinedName, DuplicateDeclaration, ShadowedVariable)
