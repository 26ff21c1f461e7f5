package infer

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/scope"
	"github.com/oxhq/gdlint/internal/types"
)

// mutatingContainerMethods maps a method name observed on an untyped local
// container to which argument position is the element being inserted
// (spec.md §4.4 "Container element reconstruction": "every append/push/
// insert/index-assign observation's argument type").
var mutatingContainerMethods = map[string]int{
	"append":       0,
	"push_back":    0,
	"push_front":   0,
	"append_array": 0,
	"insert":       1, // Array.insert(idx, value) / Dictionary has no insert
}

// ContainerElementType reconstructs the effective element type of an
// untyped local container symbol from its usage profile: every mutation
// call's argument type observed in its declaring function body, unioned
// together (spec.md §3 "Container usage profile", §4.4). Returns false
// when sym has a declared type (nothing to reconstruct) or no observations
// were found.
func (e *Engine) ContainerElementType(sym *scope.Symbol) (types.Typed, bool) {
	if sym == nil || sym.DeclaredType != nil {
		return types.Typed{}, false
	}
	fnNode := enclosingFunctionNode(sym.Scope)
	if fnNode == nil {
		return types.Typed{}, false
	}

	var elemObs, keyObs []types.Typed
	isDict := false
	e.walkContainerObservations(sym.Scope, fnNode, sym.Name, func(key *types.Typed, val types.Typed) {
		if key != nil {
			isDict = true
			keyObs = append(keyObs, *key)
		}
		elemObs = append(elemObs, val)
	})
	if len(elemObs) == 0 {
		return types.Typed{}, false
	}

	conf := types.Potential
	members := make([]types.Type, 0, len(elemObs))
	for _, o := range elemObs {
		conf = types.Min(conf, o.Confidence)
		members = append(members, o.Type)
	}
	elem := types.NewUnion(members...)

	if isDict {
		keyMembers := make([]types.Type, 0, len(keyObs))
		for _, o := range keyObs {
			keyMembers = append(keyMembers, o.Type)
		}
		return types.Typed{Type: &types.Container{Name: "Dictionary", Key: types.NewUnion(keyMembers...), Element: elem}, Confidence: conf}, true
	}
	return types.Typed{Type: &types.Container{Name: "Array", Element: elem}, Confidence: conf}, true
}

// VariableUsageType reconstructs the effective type of an untyped variable
// from every plain reassignment observed in its declaring function body
// (spec.md §3 "Variable usage profile"): the union of all assigned types.
func (e *Engine) VariableUsageType(sym *scope.Symbol) (types.Typed, bool) {
	if sym == nil || sym.DeclaredType != nil {
		return types.Typed{}, false
	}
	fnNode := enclosingFunctionNode(sym.Scope)
	if fnNode == nil {
		return types.Typed{}, false
	}

	var obs []types.Typed
	e.walkReassignments(sym.Scope, fnNode, sym.Name, func(v types.Typed) {
		obs = append(obs, v)
	})
	if len(obs) == 0 {
		return types.Typed{}, false
	}
	conf := types.Potential
	members := make([]types.Type, 0, len(obs))
	for _, o := range obs {
		conf = types.Min(conf, o.Confidence)
		members = append(members, o.Type)
	}
	return types.Typed{Type: types.NewUnion(members...), Confidence: conf}, true
}

// operatorUsageOps are the binary operators whose result depends on the
// operand types (spec.md §4.6); comparison and logical operators resolve
// to bool regardless of operand type and carry no discriminating signal
// for duck-type candidate filtering.
var operatorUsageOps = map[string]bool{"+": true, "-": true, "*": true, "/": true}

// OperatorUsage reconstructs a duck-type constraint from every arithmetic
// binary expression sym's untyped variable appears in within its declaring
// function body, recording the operator and the other operand's inferred
// type (spec.md §4.6 "every required operator with its operand type
// constraint"). Returns false when sym has a declared type or no
// qualifying usage was found.
func (e *Engine) OperatorUsage(sym *scope.Symbol) (types.Typed, bool) {
	if sym == nil || sym.DeclaredType != nil {
		return types.Typed{}, false
	}
	fnNode := enclosingFunctionNode(sym.Scope)
	if fnNode == nil {
		return types.Typed{}, false
	}

	var reqs []types.OperatorRequirement
	conf := types.Potential
	e.walkOperatorUsage(sym.Scope, fnNode, sym.Name, func(op string, operand types.Typed) {
		reqs = append(reqs, types.OperatorRequirement{Op: op, Operand: operand.Type})
		conf = types.Min(conf, operand.Confidence)
	})
	if len(reqs) == 0 {
		return types.Typed{}, false
	}
	return types.Typed{Type: &types.DuckType{RequiredOperators: reqs}, Confidence: conf}, true
}

// walkOperatorUsage recurses through node looking for `name <op> other` and
// `other <op> name` binary expressions, invoking obs with the operator and
// the other operand's inferred type for each one found.
func (e *Engine) walkOperatorUsage(s *scope.Scope, node *cst.Node, name string, obs func(op string, operand types.Typed)) {
	if node.Kind == cst.KindBinaryExpr {
		toks := node.Tokens()
		children := node.Children()
		if len(toks) > 0 && len(children) >= 2 && operatorUsageOps[toks[0].Tok.Sequence] {
			op := toks[0].Tok.Sequence
			if n, ok := identifierName(children[0]); ok && n == name {
				obs(op, e.InferExpr(s, nil, children[1]))
			} else if n, ok := identifierName(children[1]); ok && n == name {
				obs(op, e.InferExpr(s, nil, children[0]))
			}
		}
	}
	for _, child := range node.Children() {
		e.walkOperatorUsage(s, child, name, obs)
	}
}

func enclosingFunctionNode(s *scope.Scope) *cst.Node {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == scope.KindFunction {
			return cur.Node
		}
	}
	return nil
}

// walkContainerObservations recurses through every descendant of node
// looking for `name.append(x)`-shaped calls and `name[k] = v`-shaped
// index-assignments, invoking obs for each one found. key is non-nil only
// for the dictionary (index-assign) case.
func (e *Engine) walkContainerObservations(s *scope.Scope, node *cst.Node, name string, obs func(key *types.Typed, val types.Typed)) {
	for _, child := range node.Children() {
		switch child.Kind {
		case cst.KindExprStmt:
			e.inspectContainerExprStmt(s, child, name, obs)
		}
		e.walkContainerObservations(s, child, name, obs)
	}
}

func (e *Engine) inspectContainerExprStmt(s *scope.Scope, stmt *cst.Node, name string, obs func(key *types.Typed, val types.Typed)) {
	children := stmt.Children()
	if len(children) == 0 {
		return
	}
	expr := children[0]

	if expr.Kind == cst.KindCallExpr {
		callChildren := expr.Children()
		if len(callChildren) == 0 || callChildren[0].Kind != cst.KindMemberExpr {
			return
		}
		receiver := callChildren[0].Children()
		if len(receiver) == 0 {
			return
		}
		recvName, ok := identifierName(receiver[0])
		if !ok || recvName != name {
			return
		}
		method := memberName(callChildren[0])
		argIdx, mutating := mutatingContainerMethods[method]
		args := callChildren[1:]
		if !mutating || argIdx >= len(args) {
			return
		}
		obs(nil, e.InferExpr(s, nil, args[argIdx]))
		return
	}

	if expr.Kind == cst.KindBinaryExpr {
		toks := expr.Tokens()
		bchildren := expr.Children()
		if len(toks) == 0 || toks[0].Tok.Sequence != "=" || len(bchildren) < 2 {
			return
		}
		if bchildren[0].Kind != cst.KindIndexExpr {
			return
		}
		idxChildren := bchildren[0].Children()
		if len(idxChildren) < 2 {
			return
		}
		recvName, ok := identifierName(idxChildren[0])
		if !ok || recvName != name {
			return
		}
		key := e.InferExpr(s, nil, idxChildren[1])
		val := e.InferExpr(s, nil, bchildren[1])
		obs(&key, val)
	}
}

// walkReassignments recurses through node looking for plain `name = value`
// assignment statements (not a `var` declaration), invoking obs for each
// right-hand-side type observed.
func (e *Engine) walkReassignments(s *scope.Scope, node *cst.Node, name string, obs func(v types.Typed)) {
	for _, child := range node.Children() {
		if child.Kind == cst.KindExprStmt {
			e.inspectReassignExprStmt(s, child, name, obs)
		}
		e.walkReassignments(s, child, name, obs)
	}
}

func (e *Engine) inspectReassignExprStmt(s *scope.Scope, stmt *cst.Node, name string, obs func(v types.Typed)) {
	children := stmt.Children()
	if len(children) == 0 || children[0].Kind != cst.KindBinaryExpr {
		return
	}
	expr := children[0]
	toks := expr.Tokens()
	bchildren := expr.Children()
	if len(toks) == 0 || toks[0].Tok.Sequence != "=" || len(bchildren) < 2 {
		return
	}
	recvName, ok := identifierName(bchildren[0])
	if !ok || recvName != name {
		return
	}
	obs(e.InferExpr(s, nil, bchildren[1]))
}
