package style

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/rules"
	gdscope "github.com/oxhq/gdlint/internal/scope"
)

// unusedVariableRule flags a local variable or parameter that is declared
// but never referenced again in its own scope subtree. Class-level members
// are excluded — they may be used from other files once project-wide
// symbol indexing (spec.md §4.9) is wired in, which this single-file rule
// cannot see.
type unusedVariableRule struct{}

// UnusedVariable is GDL-L002, "unused-variable".
var UnusedVariable rules.Rule = unusedVariableRule{}

func (unusedVariableRule) Code() string                  { return "GDL-L002" }
func (unusedVariableRule) Name() string                   { return "unused-variable" }
func (unusedVariableRule) Category() rules.Category       { return rules.CategoryStyle }
func (unusedVariableRule) DefaultSeverity() rules.Severity { return rules.SeverityHint }

func (r unusedVariableRule) Check(ctx *rules.Context, emit rules.Emitter) {
	if ctx.Scope == nil {
		return
	}
	var walk func(s *gdscope.Scope)
	walk = func(s *gdscope.Scope) {
		if s.Kind == gdscope.KindFunction || s.Kind == gdscope.KindBlock || s.Kind == gdscope.KindLambda {
			for _, name := range s.Order {
				sym := s.Symbols[name]
				if sym.Kind != gdscope.SymVariable && sym.Kind != gdscope.SymParameter {
					continue
				}
				if name == "_" || hasUnderscorePrefix(name) {
					continue
				}
				if !referencedWithin(s.Node, name, sym.DeclNode) {
					emit.Emit(rules.Diagnostic{
						Message: "\"" + name + "\" is declared but never used",
						Range:   nodeSpan(sym.DeclNode),
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

func hasUnderscorePrefix(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

// referencedWithin reports whether name appears as an identifier anywhere
// under scopeNode other than at declNode itself.
func referencedWithin(scopeNode *cst.Node, name string, declNode *cst.Node) bool {
	found := false
	if scopeNode == nil {
		return true // conservative: no node to search, assume used
	}
	rules.Walk(scopeNode, func(n *cst.Node) bool {
		if found {
			return false
		}
		if n.Kind == cst.KindIdentifier && n != declNode {
			toks := n.Tokens()
			if len(toks) > 0 && toks[0].Tok.Sequence == name {
				if n.Parent() == nil || n.Parent() != declNode {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}
