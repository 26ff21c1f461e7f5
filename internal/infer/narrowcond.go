package infer

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/scope"
	"github.com/oxhq/gdlint/internal/types"
)

// NarrowCondition inspects a boolean CST expression and returns the
// narrowing to apply on the true branch and on the false branch
// (spec.md §4.5). Patterns recognized: `x is T`, `not <cond>`,
// `x == L` / `x != L` for any literal L (the null literal narrows to/from
// Nullable{}; any other literal narrows to its own concrete type on the
// matching branch), `x.has_method("m")`, `x in <container>`, and
// `and`/`or` composition (conjunction intersects true-branch narrowings;
// disjunction intersects false-branch narrowings, since that is the only
// side guaranteed to hold in both operands).
func (e *Engine) NarrowCondition(s *scope.Scope, base *NarrowingContext, cond *cst.Node) (whenTrue, whenFalse *NarrowingContext) {
	whenTrue, whenFalse = base.Push(), base.Push()
	if cond == nil {
		return
	}

	switch cond.Kind {
	case cst.KindIsExpr:
		e.narrowIs(s, base, cond, whenTrue, whenFalse)
	case cst.KindUnaryExpr:
		e.narrowNot(s, base, cond, &whenTrue, &whenFalse)
	case cst.KindBinaryExpr:
		e.narrowBinaryCondition(s, base, cond, &whenTrue, &whenFalse)
	case cst.KindInExpr:
		e.narrowIn(s, base, cond, whenTrue)
	case cst.KindCallExpr:
		e.narrowHasMethodCall(s, base, cond, whenTrue)
	}
	return
}

func identifierName(n *cst.Node) (string, bool) {
	if n == nil || n.Kind != cst.KindIdentifier {
		return "", false
	}
	toks := n.Tokens()
	if len(toks) == 0 {
		return "", false
	}
	return toks[0].Tok.Sequence, true
}

func (e *Engine) narrowIs(s *scope.Scope, base *NarrowingContext, cond *cst.Node, whenTrue, whenFalse *NarrowingContext) {
	children := cond.Children()
	if len(children) < 2 {
		return
	}
	name, ok := identifierName(children[0])
	if !ok {
		return
	}
	typeName := children[1].ToText()
	current := e.InferExpr(s, base, children[0])

	// True branch: intersected with the tested type (spec.md §4.5 "union
	// intersection on `is`" — narrow a union down to the matching member).
	narrowed := types.Typed{Type: &types.Concrete{Name: typeName}, Confidence: types.Strict}
	if u, ok := current.Type.(*types.Union); ok {
		var matched []types.Type
		for _, m := range u.Members {
			if mc, ok := m.(*types.Concrete); ok && (mc.Name == typeName || e.Provider.IsAssignableTo(mc.Name, typeName)) {
				matched = append(matched, m)
			}
		}
		if len(matched) > 0 {
			narrowed = types.Typed{Type: types.NewUnion(matched...), Confidence: types.Strict}
		}
	}
	whenTrue.Narrow(name, narrowed)

	// False branch: exclude the tested type from a union when it is a
	// known concrete member; otherwise leave the original type (we cannot
	// prove non-membership for a bare Concrete type at this confidence).
	if u, ok := current.Type.(*types.Union); ok {
		var remaining []types.Type
		for _, m := range u.Members {
			if mc, ok := m.(*types.Concrete); ok && mc.Name == typeName {
				continue
			}
			remaining = append(remaining, m)
		}
		if len(remaining) > 0 {
			whenFalse.Narrow(name, types.Typed{Type: types.NewUnion(remaining...), Confidence: types.Potential})
		}
	}
}

func (e *Engine) narrowNot(s *scope.Scope, base *NarrowingContext, cond *cst.Node, whenTrue, whenFalse **NarrowingContext) {
	toks := cond.Tokens()
	children := cond.Children()
	if len(toks) == 0 || len(children) == 0 {
		return
	}
	if toks[0].Tok.Sequence == "(" {
		// parenthesized grouping wrapper: narrow as the inner condition
		*whenTrue, *whenFalse = e.NarrowCondition(s, base, children[0])
		return
	}
	if toks[0].Tok.Sequence != "not" && toks[0].Tok.Sequence != "!" {
		return
	}
	innerTrue, innerFalse := e.NarrowCondition(s, base, children[0])
	*whenTrue, *whenFalse = innerFalse, innerTrue
}

func (e *Engine) narrowBinaryCondition(s *scope.Scope, base *NarrowingContext, cond *cst.Node, whenTrue, whenFalse **NarrowingContext) {
	toks := cond.Tokens()
	children := cond.Children()
	if len(toks) == 0 || len(children) < 2 {
		return
	}
	op := toks[0].Tok.Sequence

	switch op {
	case "and", "&&":
		t1, _ := e.NarrowCondition(s, base, children[0])
		t2, _ := e.NarrowCondition(s, t1, children[1])
		*whenTrue = t2
	case "or", "||":
		_, f1 := e.NarrowCondition(s, base, children[0])
		_, f2 := e.NarrowCondition(s, f1, children[1])
		*whenFalse = f2
	case "==", "!=":
		e.narrowEqualityComparison(s, base, children[0], children[1], op, whenTrue, whenFalse)
		e.narrowEqualityComparison(s, base, children[1], children[0], op, whenTrue, whenFalse)
	}
}

// narrowEqualityComparison handles `x == L` / `x != L` where L is a literal
// (spec.md §4.5). The null literal is special-cased, since it narrows to
// Nullable{} rather than to a concrete type: `x == null` narrows x to
// Nullable{} on the true branch and to its non-null inner type on the
// false branch (and vice-versa for `!=`). Any other literal narrows x to
// the literal's own concrete type on the matching branch only — the
// non-matching branch can't rule anything out from a single inequality.
func (e *Engine) narrowEqualityComparison(s *scope.Scope, base *NarrowingContext, lhs, rhs *cst.Node, op string, whenTrue, whenFalse **NarrowingContext) {
	name, ok := identifierName(lhs)
	if !ok {
		return
	}
	if rhs == nil || rhs.Kind != cst.KindLiteral {
		return
	}
	toks := rhs.Tokens()
	if len(toks) == 0 {
		return
	}

	if toks[0].Tok.Sequence == "null" {
		current := e.InferExpr(s, base, lhs)
		nonNull := current
		if n, ok := current.Type.(*types.Nullable); ok && n.Inner != nil {
			nonNull = types.Typed{Type: n.Inner, Confidence: current.Confidence}
		}
		nullTyped := types.Typed{Type: &types.Nullable{}, Confidence: types.Strict}
		if op == "==" {
			(*whenTrue).Narrow(name, nullTyped)
			(*whenFalse).Narrow(name, nonNull)
		} else {
			(*whenTrue).Narrow(name, nonNull)
			(*whenFalse).Narrow(name, nullTyped)
		}
		return
	}

	literal := e.inferLiteral(rhs)
	if op == "==" {
		(*whenTrue).Narrow(name, literal)
	} else {
		(*whenFalse).Narrow(name, literal)
	}
}

// narrowIn handles `x in C`: in the true branch, x takes C's element type
// (spec.md §4.5 "x in C ... element type of C (reconstructed if C is
// untyped with a usage profile; the element type of range/packed-arrays
// is known directly)").
func (e *Engine) narrowIn(s *scope.Scope, base *NarrowingContext, cond *cst.Node, whenTrue *NarrowingContext) {
	children := cond.Children()
	if len(children) < 2 {
		return
	}
	name, ok := identifierName(children[0])
	if !ok {
		return
	}
	container := e.InferExpr(s, base, children[1])
	elem, ok := elementTypeOf(e, container)
	if !ok {
		return
	}
	whenTrue.Narrow(name, types.Typed{Type: elem, Confidence: types.Min(types.Potential, container.Confidence)})
}

// elementTypeOf resolves the element type that membership in a container
// value t would imply, across typed containers, the runtime-type
// provider's packed-array/iterable catalogue, and (via the caller having
// already consulted the usage profile when resolving t) reconstructed
// untyped containers.
func elementTypeOf(e *Engine, t types.Typed) (types.Type, bool) {
	switch ct := t.Type.(type) {
	case *types.Container:
		if ct.Element != nil {
			return ct.Element, true
		}
	case *types.Concrete:
		if el, ok := e.Provider.PackedArrayElementType(ct.Name); ok {
			return el, true
		}
		if el, ok := e.Provider.IteratorElementType(ct.Name); ok {
			return el, true
		}
	}
	return nil, false
}

// narrowHasMethodCall handles `x.has_method(S)`, `x.has_signal(S)`, and
// `x.has(S)` by recording the corresponding duck-type requirement on the
// true branch (spec.md §4.5).
func (e *Engine) narrowHasMethodCall(s *scope.Scope, base *NarrowingContext, call *cst.Node, whenTrue *NarrowingContext) {
	children := call.Children()
	if len(children) == 0 || children[0].Kind != cst.KindMemberExpr {
		return
	}
	member := children[0]
	predicate := memberName(member)
	if predicate != "has_method" && predicate != "has_signal" && predicate != "has" {
		return
	}
	memberChildren := member.Children()
	if len(memberChildren) == 0 {
		return
	}
	name, ok := identifierName(memberChildren[0])
	if !ok {
		return
	}
	var literalName string
	for _, arg := range children[1:] {
		if arg.Kind == cst.KindLiteral {
			toks := arg.Tokens()
			if len(toks) > 0 {
				literalName = trimQuotes(toks[0].Tok.Sequence)
			}
		}
	}
	if literalName == "" {
		return
	}
	duck := &types.DuckType{}
	switch predicate {
	case "has_method":
		duck.RequiredMethods = []string{literalName}
	case "has_signal":
		duck.RequiredSignals = []string{literalName}
	case "has":
		duck.RequiredProperties = []string{literalName}
	}
	whenTrue.Narrow(name, types.Typed{Type: duck, Confidence: types.Potential})
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
