package rules

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/scope"
)

// Walk visits n and every descendant node in pre-order (form order within
// each node). visit returning false skips that node's children.
func Walk(n *cst.Node, visit func(*cst.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, visit)
	}
}

// ScopeIndex maps a scope-owning CST node back to the Scope it produced,
// letting rules find "the scope enclosing this expression" without storing
// a pointer on every node.
type ScopeIndex map[*cst.Node]*scope.Scope

// BuildScopeIndex walks root's scope tree once and indexes it by node.
func BuildScopeIndex(root *scope.Scope) ScopeIndex {
	idx := ScopeIndex{}
	var walk func(s *scope.Scope)
	walk = func(s *scope.Scope) {
		if s == nil {
			return
		}
		if s.Node != nil {
			idx[s.Node] = s
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(root)
	return idx
}

// ScopeAt returns the innermost scope enclosing n, walking n's CST
// ancestry until it finds a node the index recognizes as a scope owner.
func (idx ScopeIndex) ScopeAt(n *cst.Node) *scope.Scope {
	for cur := n; cur != nil; cur = cur.Parent() {
		if s, ok := idx[cur]; ok {
			return s
		}
	}
	return nil
}

// AncestorKind reports whether n has an ancestor (inclusive of itself)
// with the given CST kind, short-circuiting at any boundary kind
// (typically a function/lambda body, so a search for an enclosing loop
// does not escape into an outer method).
func AncestorKind(n *cst.Node, target cst.Kind, boundary ...cst.Kind) bool {
	isBoundary := func(k cst.Kind) bool {
		for _, b := range boundary {
			if k == b {
				return true
			}
		}
		return false
	}
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Kind == target {
			return true
		}
		if isBoundary(cur.Kind) {
			return false
		}
	}
	return false
}
