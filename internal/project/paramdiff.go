package project

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/infer"
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/types"
)

// GetParameterTypeDiff compares a method's declared parameter type against
// the types actually observed at its call sites across the whole project
// (spec.md §4.9 "get_parameter_type_diff(class, method, param)" — a
// project-wide variant of the duck-typing confidence machinery: a
// parameter declared narrower or wider than how callers actually use it
// is itself a signal, surfaced here rather than as a standing diagnostic).
func (p *Project) GetParameterTypeDiff(base provider.Provider, class, method, param string) (declared, observed types.Type, ok bool) {
	sc, found := p.classScripts()[class]
	if !found || sc.Root == nil {
		return nil, nil, false
	}
	methodNode, paramIndex := findMethodParam(sc.Root, method, param)
	if methodNode == nil || paramIndex < 0 {
		return nil, nil, false
	}
	declared = declaredParamType(methodNode, paramIndex)

	prov := &classProvider{Provider: base, classes: p.classScripts()}
	engine := infer.New(prov)

	var observedUnion []types.Type
	for _, other := range p.Scripts() {
		if other.Root == nil {
			continue
		}
		ctx := infer.NewNarrowingContext()
		walkCallSites(other.Root, method, func(call *cst.Node) {
			args := callArgs(call)
			if paramIndex >= len(args) {
				return
			}
			t := engine.InferExpr(other.Scope, ctx, args[paramIndex])
			if t.Type != nil {
				observedUnion = append(observedUnion, t.Type)
			}
		})
	}
	if len(observedUnion) == 0 {
		return declared, nil, true
	}
	return declared, types.NewUnion(observedUnion...), true
}

// findMethodParam locates the method_decl named method within root's class
// body and the positional index of its param-named parameter.
func findMethodParam(root *cst.Node, method, param string) (*cst.Node, int) {
	for _, m := range root.Children() {
		if m.Kind != cst.KindMethodDecl || attrText(m, "name") != method {
			continue
		}
		idx := 0
		for _, c := range m.Children() {
			if c.Kind != cst.KindParameter {
				continue
			}
			if attrText(c, "name") == param {
				return m, idx
			}
			idx++
		}
		return m, -1
	}
	return nil, -1
}

// declaredParamType reads the type annotation of the paramIndex'th
// parameter of methodNode, or nil when the parameter is untyped.
func declaredParamType(methodNode *cst.Node, paramIndex int) types.Type {
	idx := 0
	for _, c := range methodNode.Children() {
		if c.Kind != cst.KindParameter {
			continue
		}
		if idx == paramIndex {
			for _, pc := range c.Children() {
				if pc.Kind == cst.KindTypeSimple || pc.Kind == cst.KindTypeGeneric {
					return infer.TypeFromNode(pc)
				}
			}
			return nil
		}
		idx++
	}
	return nil
}

// walkCallSites visits every call_expr in root whose callee is a
// member_expr named methodName (i.e. `<something>.methodName(...)`).
func walkCallSites(root *cst.Node, methodName string, visit func(call *cst.Node)) {
	var walk func(n *cst.Node)
	walk = func(n *cst.Node) {
		if n == nil {
			return
		}
		if n.Kind == cst.KindCallExpr {
			children := n.Children()
			if len(children) > 0 && children[0].Kind == cst.KindMemberExpr && attrText(children[0], "name") == methodName {
				visit(n)
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
}

// callArgs returns a call_expr's argument expressions (its children minus
// the leading callee).
func callArgs(call *cst.Node) []*cst.Node {
	children := call.Children()
	if len(children) <= 1 {
		return nil
	}
	return children[1:]
}
