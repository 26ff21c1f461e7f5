package rules

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/infer"
	"github.com/oxhq/gdlint/internal/scope"
)

// NarrowIndex maps a CST node to the flow-narrowing context in effect for
// code reached through it (spec.md §4.5): the accumulated refinements from
// every enclosing if/elif/else/while branch condition. Built once per file
// by BuildNarrowIndex so every rule's InferExpr call sees the same
// narrowing instead of starting from an empty context.
type NarrowIndex map[*cst.Node]*infer.NarrowingContext

// BuildNarrowIndex walks root, threading Engine.NarrowCondition through
// every if/elif/else/while branch and recording the narrowing context
// reached at each node. Nodes outside any narrowed branch (or when engine
// is nil) simply inherit the empty root context. Branch contexts are not
// merged at the end of an if statement: statements after it see the
// context from before it.
func BuildNarrowIndex(root *cst.Node, sc *scope.Scope, engine *infer.Engine) NarrowIndex {
	idx := NarrowIndex{}
	if engine == nil || root == nil {
		return idx
	}
	scopeIdx := BuildScopeIndex(sc)

	var walk func(n *cst.Node, current *infer.NarrowingContext)
	walk = func(n *cst.Node, current *infer.NarrowingContext) {
		if n == nil {
			return
		}
		idx[n] = current
		switch n.Kind {
		case cst.KindIfStmt:
			walkIfStmt(n, current, scopeIdx, engine, walk)
		case cst.KindWhileStmt:
			walkWhileStmt(n, current, scopeIdx, engine, walk)
		default:
			for _, c := range n.Children() {
				walk(c, current)
			}
		}
	}
	walk(root, infer.NewNarrowingContext())
	return idx
}

// walkIfStmt threads narrowing through an if/elif*/else? chain: the
// condition's true branch narrows the if-body, its false branch narrows
// the first elif condition, and so on, finally reaching a trailing else
// body unnarrowed by any of the chain's conditions (spec.md §4.5).
func walkIfStmt(n *cst.Node, current *infer.NarrowingContext, scopeIdx ScopeIndex, engine *infer.Engine, walk func(*cst.Node, *infer.NarrowingContext)) {
	children := n.Children()
	if len(children) == 0 {
		return
	}
	cond := children[0]
	whenTrue, falseCtx := engine.NarrowCondition(scopeIdx.ScopeAt(n), current, cond)
	walk(cond, current)
	if len(children) > 1 {
		walk(children[1], whenTrue)
	}

	for _, clause := range children[2:] {
		switch clause.Kind {
		case cst.KindElifClause:
			cchildren := clause.Children()
			if len(cchildren) == 0 {
				continue
			}
			ccond := cchildren[0]
			ct, cf := engine.NarrowCondition(scopeIdx.ScopeAt(clause), falseCtx, ccond)
			walk(ccond, falseCtx)
			if len(cchildren) > 1 {
				walk(cchildren[1], ct)
			}
			falseCtx = cf
		case cst.KindElseClause:
			cchildren := clause.Children()
			if len(cchildren) > 0 {
				walk(cchildren[0], falseCtx)
			}
		}
	}
}

// walkWhileStmt threads the condition's true-branch narrowing into the
// loop body (spec.md §4.5).
func walkWhileStmt(n *cst.Node, current *infer.NarrowingContext, scopeIdx ScopeIndex, engine *infer.Engine, walk func(*cst.Node, *infer.NarrowingContext)) {
	children := n.Children()
	if len(children) == 0 {
		return
	}
	cond := children[0]
	whenTrue, _ := engine.NarrowCondition(scopeIdx.ScopeAt(n), current, cond)
	walk(cond, current)
	if len(children) > 1 {
		walk(children[1], whenTrue)
	}
}

// NarrowAt returns the narrowing context recorded for the nearest indexed
// ancestor of n (inclusive), or an empty context if none was indexed — safe
// to call on a nil index.
func (idx NarrowIndex) NarrowAt(n *cst.Node) *infer.NarrowingContext {
	for cur := n; cur != nil; cur = cur.Parent() {
		if c, ok := idx[cur]; ok {
			return c
		}
	}
	return infer.NewNarrowingContext()
}
