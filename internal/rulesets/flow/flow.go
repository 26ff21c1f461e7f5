// Package flow holds the 5xxx-range rules: control-flow statements used
// outside the structure that gives them meaning (spec.md §4.8, category
// table "5xxx Control flow").
package flow

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/rules"
)

// loopBoundaries are the kinds a break/continue search must not cross —
// a break inside a nested function/lambda does not reach an outer loop.
var loopBoundaries = []cst.Kind{cst.KindMethodDecl, cst.KindLambdaExpr}

// breakContinueOutsideLoopRule flags `break`/`continue` with no enclosing
// for/while loop.
type breakContinueOutsideLoopRule struct{}

// BreakContinueOutsideLoop is GDL5001, "break-continue-outside-loop".
var BreakContinueOutsideLoop rules.Rule = breakContinueOutsideLoopRule{}

func (breakContinueOutsideLoopRule) Code() string                  { return "GDL5001" }
func (breakContinueOutsideLoopRule) Name() string                   { return "break-continue-outside-loop" }
func (breakContinueOutsideLoopRule) Category() rules.Category       { return rules.CategoryFlow }
func (breakContinueOutsideLoopRule) DefaultSeverity() rules.Severity { return rules.SeverityError }

func (r breakContinueOutsideLoopRule) Check(ctx *rules.Context, emit rules.Emitter) {
	rules.Walk(ctx.Root, func(n *cst.Node) bool {
		if n.Kind != cst.KindBreakStmt && n.Kind != cst.KindContinueStmt {
			return true
		}
		inLoop := rules.AncestorKind(n, cst.KindForStmt, loopBoundaries...) ||
			rules.AncestorKind(n, cst.KindWhileStmt, loopBoundaries...)
		if !inLoop {
			kw := "break"
			if n.Kind == cst.KindContinueStmt {
				kw = "continue"
			}
			emit.Emit(rules.Diagnostic{
				Message: kw + " used outside a loop",
				Range:   n.Span(),
			})
		}
		return true
	})
}

// returnOutsideFunctionRule flags a return statement that is not inside a
// method or lambda body.
type returnOutsideFunctionRule struct{}

// ReturnOutsideFunction is GDL5002, "return-outside-function".
var ReturnOutsideFunction rules.Rule = returnOutsideFunctionRule{}

func (returnOutsideFunctionRule) Code() string                  { return "GDL5002" }
func (returnOutsideFunctionRule) Name() string                   { return "return-outside-function" }
func (returnOutsideFunctionRule) Category() rules.Category       { return rules.CategoryFlow }
func (returnOutsideFunctionRule) DefaultSeverity() rules.Severity { return rules.SeverityError }

func (r returnOutsideFunctionRule) Check(ctx *rules.Context, emit rules.Emitter) {
	rules.Walk(ctx.Root, func(n *cst.Node) bool {
		if n.Kind != cst.KindReturnStmt {
			return true
		}
		if !rules.AncestorKind(n, cst.KindMethodDecl) && !rules.AncestorKind(n, cst.KindLambdaExpr) {
			emit.Emit(rules.Diagnostic{
				Message: "return used outside a function",
				Range:   n.Span(),
			})
		}
		return true
	})
}

// All is the flow rule-set.
var All = rules.NewRuleSet("flow", BreakContinueOutsideLoop, ReturnOutsideFunction)
