// Package calls holds the 4xxx-range rules: arity and method-not-found on
// a typed receiver (spec.md §4.8, category table "4xxx Calls").
package calls

import (
	"fmt"

	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/rules"
	gdscope "github.com/oxhq/gdlint/internal/scope"
	"github.com/oxhq/gdlint/internal/types"
)

// arityMismatchRule flags a call to a user-defined method (resolved
// through scope, same file) with too few or too many arguments, counting
// a parameter with a default value as optional.
type arityMismatchRule struct{}

// ArityMismatch is GDL4001, "call-arity-mismatch".
var ArityMismatch rules.Rule = arityMismatchRule{}

func (arityMismatchRule) Code() string                  { return "GDL4001" }
func (arityMismatchRule) Name() string                   { return "call-arity-mismatch" }
func (arityMismatchRule) Category() rules.Category       { return rules.CategoryCalls }
func (arityMismatchRule) DefaultSeverity() rules.Severity { return rules.SeverityError }

func (r arityMismatchRule) Check(ctx *rules.Context, emit rules.Emitter) {
	if ctx.Scope == nil {
		return
	}
	idx := rules.BuildScopeIndex(ctx.Scope)
	rules.Walk(ctx.Root, func(n *cst.Node) bool {
		if n.Kind != cst.KindCallExpr {
			return true
		}
		children := n.Children()
		if len(children) == 0 || children[0].Kind != cst.KindIdentifier {
			return true
		}
		toks := children[0].Tokens()
		if len(toks) == 0 {
			return true
		}
		name := toks[0].Tok.Sequence
		s := idx.ScopeAt(n)
		if s == nil {
			return true
		}
		sym := s.Lookup(name)
		if sym == nil || sym.Kind != gdscope.SymFunction || sym.DeclNode == nil {
			return true
		}
		minArgs, maxArgs := paramRange(sym.DeclNode)
		given := len(children) - 1
		if given < minArgs || given > maxArgs {
			emit.Emit(rules.Diagnostic{
				Message: fmt.Sprintf("%q expects %s, got %d", name, arityDesc(minArgs, maxArgs), given),
				Range:   n.Span(),
			})
		}
		return true
	})
}

func arityDesc(min, max int) string {
	if min == max {
		return fmt.Sprintf("%d argument(s)", min)
	}
	return fmt.Sprintf("%d to %d argument(s)", min, max)
}

// paramRange reads a KindMethodDecl's KindParameter children, returning
// the minimum (params with no default) and maximum argument counts.
func paramRange(method *cst.Node) (min, max int) {
	for _, c := range method.Children() {
		if c.Kind != cst.KindParameter {
			continue
		}
		max++
		if !hasDefault(c) {
			min++
		}
	}
	return
}

func hasDefault(param *cst.Node) bool {
	for _, te := range param.Tokens() {
		if te.Tok.Sequence == "=" {
			return true
		}
	}
	return false
}

// methodNotFoundRule flags `recv.method(...)` when recv's inferred type is
// a Strict-confidence Concrete type and the provider has no such member.
type methodNotFoundRule struct{}

// MethodNotFound is GDL4002, "method-not-found".
var MethodNotFound rules.Rule = methodNotFoundRule{}

func (methodNotFoundRule) Code() string                  { return "GDL4002" }
func (methodNotFoundRule) Name() string                   { return "method-not-found" }
func (methodNotFoundRule) Category() rules.Category       { return rules.CategoryCalls }
func (methodNotFoundRule) DefaultSeverity() rules.Severity { return rules.SeverityError }

func (r methodNotFoundRule) Check(ctx *rules.Context, emit rules.Emitter) {
	if ctx.Engine == nil {
		return
	}
	idx := rules.BuildScopeIndex(ctx.Scope)
	rules.Walk(ctx.Root, func(n *cst.Node) bool {
		if n.Kind != cst.KindCallExpr {
			return true
		}
		children := n.Children()
		if len(children) == 0 || children[0].Kind != cst.KindMemberExpr {
			return true
		}
		member := children[0]
		memberChildren := member.Children()
		if len(memberChildren) == 0 {
			return true
		}
		s := idx.ScopeAt(n)
		receiver := ctx.Engine.InferExpr(s, ctx.Narrow.NarrowAt(n), memberChildren[0])
		receiverType := receiver.Type
		if nt, ok := receiverType.(*types.Nullable); ok && nt.Inner != nil {
			receiverType = nt.Inner
		}
		rc, ok := receiverType.(*types.Concrete)
		if !ok || receiver.Confidence != types.Strict {
			return true
		}
		name := attrTokenText(member, "name")
		if name == "" {
			return true
		}
		if rc.Name == "self" {
			// self's type isn't a catalogued provider entry — resolve
			// against the enclosing class scope instead.
			if s == nil || s.Lookup(name) == nil {
				emit.Emit(rules.Diagnostic{
					Message: "this class has no member \"" + name + "\"",
					Range:   member.Span(),
				})
			}
			return true
		}
		if _, ok := ctx.Engine.Provider.Member(rc.Name, name); !ok {
			if s == nil || s.Lookup(rc.Name) == nil {
				emit.Emit(rules.Diagnostic{
					Message: rc.Name + " has no method \"" + name + "\"",
					Range:   member.Span(),
				})
			}
		}
		return true
	})
}

func attrTokenText(n *cst.Node, key string) string {
	idx, ok := n.Attrs[key]
	if !ok {
		return ""
	}
	form := n.Form()
	if idx < 0 || idx >= len(form) {
		return ""
	}
	te, ok := form[idx].(*cst.TokenElement)
	if !ok {
		return ""
	}
	return te.Tok.Sequence
}

// All is the calls rule-set.
var All = rules.NewRuleSet("calls", ArityMismatch, MethodNotFound)
