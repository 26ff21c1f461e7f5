// Package typecheck holds the 3xxx-range rules: operand mismatches and
// nullable access (spec.md §4.8, category table "3xxx Types").
package typecheck

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/rules"
	"github.com/oxhq/gdlint/internal/types"
)

// invalidOperandRule flags a binary expression whose operand types the
// provider has no resolution for at all (both sides concrete, known
// types, but no operator overload exists between them).
type invalidOperandRule struct{}

// InvalidOperand is GDL3001, "invalid-operand".
var InvalidOperand rules.Rule = invalidOperandRule{}

func (invalidOperandRule) Code() string                  { return "GDL3001" }
func (invalidOperandRule) Name() string                   { return "invalid-operand" }
func (invalidOperandRule) Category() rules.Category       { return rules.CategoryTypes }
func (invalidOperandRule) DefaultSeverity() rules.Severity { return rules.SeverityError }

func (r invalidOperandRule) Check(ctx *rules.Context, emit rules.Emitter) {
	if ctx.Engine == nil {
		return
	}
	idx := rules.BuildScopeIndex(ctx.Scope)
	rules.Walk(ctx.Root, func(n *cst.Node) bool {
		if n.Kind != cst.KindBinaryExpr {
			return true
		}
		children := n.Children()
		toks := n.Tokens()
		if len(children) < 2 || len(toks) == 0 {
			return true
		}
		op := toks[0].Tok.Sequence
		if isAssignOp(op) || op == "and" || op == "or" || op == "&&" || op == "||" {
			return true
		}
		s := idx.ScopeAt(n)
		narrow := ctx.Narrow.NarrowAt(n)
		left := ctx.Engine.InferExpr(s, narrow, children[0])
		right := ctx.Engine.InferExpr(s, narrow, children[1])
		lc, lok := left.Type.(*types.Concrete)
		rc, rok := right.Type.(*types.Concrete)
		if !lok || !rok {
			return true
		}
		if left.Confidence != types.Strict || right.Confidence != types.Strict {
			return true
		}
		if res := ctx.Engine.Provider.ResolveOperator(lc.Name, op, rc.Name); !res.Known {
			emit.Emit(rules.Diagnostic{
				Message: "operator \"" + op + "\" is not defined between " + lc.Name + " and " + rc.Name,
				Range:   n.Span(),
			})
		}
		return true
	})
}

func isAssignOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=", "**=":
		return true
	}
	return false
}

// nullableMemberAccessRule flags `x.member` when x's inferred type is
// Nullable and has not been narrowed to its non-null inner type on this
// branch (spec.md §3 category table "3xxx ... nullable access").
type nullableMemberAccessRule struct{}

// NullableMemberAccess is GDL3002, "nullable-member-access".
var NullableMemberAccess rules.Rule = nullableMemberAccessRule{}

func (nullableMemberAccessRule) Code() string                  { return "GDL3002" }
func (nullableMemberAccessRule) Name() string                   { return "nullable-member-access" }
func (nullableMemberAccessRule) Category() rules.Category       { return rules.CategoryTypes }
func (nullableMemberAccessRule) DefaultSeverity() rules.Severity { return rules.SeverityWarning }

func (r nullableMemberAccessRule) Check(ctx *rules.Context, emit rules.Emitter) {
	if ctx.Engine == nil {
		return
	}
	idx := rules.BuildScopeIndex(ctx.Scope)
	rules.Walk(ctx.Root, func(n *cst.Node) bool {
		if n.Kind != cst.KindMemberExpr {
			return true
		}
		children := n.Children()
		if len(children) == 0 {
			return true
		}
		s := idx.ScopeAt(n)
		receiver := ctx.Engine.InferExpr(s, ctx.Narrow.NarrowAt(n), children[0])
		if nt, ok := receiver.Type.(*types.Nullable); ok && nt.Inner != nil {
			emit.Emit(rules.Diagnostic{
				Message: "accessing a member on a value that may be null",
				Range:   n.Span(),
			})
		}
		return true
	})
}

// All is the typecheck rule-set.
var All = rules.NewRuleSet("typecheck", InvalidOperand, NullableMemberAccess)
