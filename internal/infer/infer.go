// Package infer implements the expression-level type inference engine
// (spec.md §4.4): given a scope and a runtime-type provider, compute the
// semantic type and confidence of any expression node.
package infer

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/scope"
	"github.com/oxhq/gdlint/internal/types"
)

// Engine ties a runtime-type provider to the inference rules. It holds no
// per-file mutable state beyond what is passed explicitly, so one Engine
// is safely reused across files and goroutines (spec.md §5 "Provider calls
// are read-only").
type Engine struct {
	Provider provider.Provider
}

// New builds an inference engine over p. A nil p uses provider.NullProvider.
func New(p provider.Provider) *Engine {
	if p == nil {
		p = provider.NullProvider{}
	}
	return &Engine{Provider: p}
}

// InferExpr computes the type of expr within scope, honoring any narrowing
// recorded in ctx for the identifiers it touches.
func (e *Engine) InferExpr(s *scope.Scope, ctx *NarrowingContext, expr *cst.Node) types.Typed {
	if expr == nil {
		return types.VariantTyped()
	}
	switch expr.Kind {
	case cst.KindLiteral:
		return e.inferLiteral(expr)
	case cst.KindIdentifier:
		return e.inferIdentifier(s, ctx, expr)
	case cst.KindUnaryExpr:
		return e.inferUnary(s, ctx, expr)
	case cst.KindBinaryExpr:
		return e.inferBinary(s, ctx, expr)
	case cst.KindTernaryExpr:
		return e.inferTernary(s, ctx, expr)
	case cst.KindIsExpr:
		return types.Typed{Type: &types.Concrete{Name: "bool"}, Confidence: types.Strict}
	case cst.KindAsExpr:
		return e.inferAs(expr)
	case cst.KindInExpr:
		return types.Typed{Type: &types.Concrete{Name: "bool"}, Confidence: types.Potential}
	case cst.KindCallExpr:
		return e.inferCall(s, ctx, expr)
	case cst.KindMemberExpr:
		return e.inferMember(s, ctx, expr)
	case cst.KindIndexExpr:
		return e.inferIndex(s, ctx, expr)
	case cst.KindArrayExpr:
		return e.inferArrayLiteral(s, ctx, expr)
	case cst.KindDictExpr:
		return e.inferDictLiteral(s, ctx, expr)
	case cst.KindLambdaExpr:
		return types.Typed{Type: &types.Concrete{Name: "Callable"}, Confidence: types.Strict}
	case cst.KindAwaitExpr:
		return e.inferAwait(s, ctx, expr)
	case cst.KindGetNodeExpr, cst.KindUniqueNodeExpr:
		return types.Typed{Type: &types.Concrete{Name: "Node"}, Confidence: types.Potential}
	default:
		return types.VariantTyped()
	}
}

func (e *Engine) inferLiteral(n *cst.Node) types.Typed {
	toks := n.Tokens()
	if len(toks) == 0 {
		return types.VariantTyped()
	}
	tok := toks[0].Tok
	switch {
	case tok.Sequence == "true" || tok.Sequence == "false":
		return types.Typed{Type: &types.Concrete{Name: "bool"}, Confidence: types.Strict}
	case tok.Sequence == "null":
		return types.Typed{Type: &types.Nullable{}, Confidence: types.Strict}
	case tok.Sequence == "PI" || tok.Sequence == "TAU" || tok.Sequence == "INF" || tok.Sequence == "NAN":
		return types.Typed{Type: &types.Concrete{Name: "float"}, Confidence: types.Strict}
	}
	switch tok.Kind.String() {
	case "string":
		return types.Typed{Type: &types.Concrete{Name: "String"}, Confidence: types.Strict}
	case "number":
		if isFloatLiteral(tok.Sequence) {
			return types.Typed{Type: &types.Concrete{Name: "float"}, Confidence: types.Strict}
		}
		return types.Typed{Type: &types.Concrete{Name: "int"}, Confidence: types.Strict}
	}
	return types.VariantTyped()
}

func isFloatLiteral(seq string) bool {
	for i := 0; i < len(seq); i++ {
		if seq[i] == '.' || seq[i] == 'e' || seq[i] == 'E' {
			return true
		}
	}
	return false
}

func (e *Engine) inferIdentifier(s *scope.Scope, ctx *NarrowingContext, n *cst.Node) types.Typed {
	toks := n.Tokens()
	if len(toks) == 0 {
		return types.VariantTyped()
	}
	name := toks[0].Tok.Sequence
	if name == "self" {
		return types.Typed{Type: &types.Concrete{Name: "self"}, Confidence: types.Strict}
	}

	if ctx != nil {
		if narrowed, ok := ctx.Lookup(name); ok {
			return narrowed
		}
	}

	if s == nil {
		return types.VariantTyped()
	}
	sym := s.Lookup(name)
	if sym == nil {
		if e.Provider.GlobalClass(name) {
			return types.Typed{Type: &types.Concrete{Name: name}, Confidence: types.Strict}
		}
		return types.VariantTyped()
	}
	if sym.DeclaredType != nil {
		t := typeFromNode(sym.DeclaredType)
		if c, ok := t.(*types.Concrete); ok && e.Provider.IsNullable(c.Name) {
			t = &types.Nullable{Inner: c}
		}
		return types.Typed{Type: t, Confidence: types.Strict}
	}
	// Untyped local: reconstruct an effective type from its usage profile
	// before giving up to bare Variant (spec.md §3 "Container usage
	// profile" / "Variable usage profile", §4.4).
	if sym.Kind == scope.SymVariable {
		if t, ok := e.ContainerElementType(sym); ok {
			return t
		}
		if t, ok := e.VariableUsageType(sym); ok {
			return t
		}
		if t, ok := e.OperatorUsage(sym); ok {
			return t
		}
	}
	return types.Typed{Type: &types.Variant{}, Confidence: types.Potential}
}

// TypeFromNode exposes typeFromNode for callers outside this package that
// need to read a declared-type annotation node without a full Engine (the
// project orchestrator's cross-file class provider, for one).
func TypeFromNode(n *cst.Node) types.Type { return typeFromNode(n) }

// typeFromNode reads a KindTypeSimple/KindTypeGeneric annotation node into
// a semantic Type value, at face value (no provider validation — that is
// the caller's job when confidence matters). A generic annotation becomes a
// Container: `Array[T]` carries T as Element, `Dictionary[K,V]` carries K as
// Key and V as Element (spec.md §3 "type nodes ... generic like
// Array[int], Dictionary[K,V]").
func typeFromNode(n *cst.Node) types.Type {
	if n == nil {
		return &types.Variant{}
	}
	if n.Kind == cst.KindTypeGeneric {
		children := n.Children()
		if len(children) == 0 {
			return &types.Variant{}
		}
		base := children[0].ToText()
		args := children[1:]
		switch {
		case base == "Dictionary" && len(args) >= 2:
			return &types.Container{Name: "Dictionary", Key: typeFromNode(args[0]), Element: typeFromNode(args[1])}
		case len(args) >= 1:
			return &types.Container{Name: base, Element: typeFromNode(args[0])}
		default:
			return &types.Concrete{Name: base}
		}
	}
	return &types.Concrete{Name: n.ToText()}
}

func (e *Engine) inferUnary(s *scope.Scope, ctx *NarrowingContext, n *cst.Node) types.Typed {
	toks := n.Tokens()
	children := n.Children()
	if len(toks) == 0 {
		return types.VariantTyped()
	}
	op := toks[0].Tok.Sequence
	if op == "(" {
		// parenthesized grouping wrapper
		if len(children) > 0 {
			return e.InferExpr(s, ctx, children[0])
		}
		return types.VariantTyped()
	}
	if len(children) == 0 {
		return types.VariantTyped()
	}
	inner := e.InferExpr(s, ctx, children[0])
	switch op {
	case "not", "!":
		return types.Typed{Type: &types.Concrete{Name: "bool"}, Confidence: types.Strict}
	default:
		return inner
	}
}

func (e *Engine) inferBinary(s *scope.Scope, ctx *NarrowingContext, n *cst.Node) types.Typed {
	children := n.Children()
	toks := n.Tokens()
	if len(children) < 2 || len(toks) == 0 {
		return types.VariantTyped()
	}
	op := toks[0].Tok.Sequence
	if assignOps[op] {
		return e.InferExpr(s, ctx, children[1])
	}
	left := e.InferExpr(s, ctx, children[0])
	right := e.InferExpr(s, ctx, children[1])
	if lc, ok := left.Type.(*types.Concrete); ok {
		if rc, ok := right.Type.(*types.Concrete); ok {
			if res := e.Provider.ResolveOperator(lc.Name, op, rc.Name); res.Known {
				return types.Typed{Type: res.ResultType, Confidence: types.Min(left.Confidence, right.Confidence)}
			}
		}
	}
	return types.Typed{Type: &types.Variant{}, Confidence: types.NameMatch}
}

func (e *Engine) inferTernary(s *scope.Scope, ctx *NarrowingContext, n *cst.Node) types.Typed {
	children := n.Children()
	if len(children) < 2 {
		return types.VariantTyped()
	}
	thenT := e.InferExpr(s, ctx, children[0])
	var elseT types.Typed
	if len(children) >= 3 {
		elseT = e.InferExpr(s, ctx, children[2])
	} else {
		elseT = types.VariantTyped()
	}
	return types.Typed{
		Type:       types.NewUnion(thenT.Type, elseT.Type),
		Confidence: types.Min(thenT.Confidence, elseT.Confidence),
	}
}

func (e *Engine) inferAs(n *cst.Node) types.Typed {
	children := n.Children()
	for _, c := range children {
		if c.Kind == cst.KindTypeSimple || c.Kind == cst.KindTypeGeneric {
			return types.Typed{Type: typeFromNode(c), Confidence: types.Strict}
		}
	}
	return types.VariantTyped()
}

func (e *Engine) inferAwait(s *scope.Scope, ctx *NarrowingContext, n *cst.Node) types.Typed {
	children := n.Children()
	if len(children) == 0 {
		return types.VariantTyped()
	}
	return e.InferExpr(s, ctx, children[0])
}

// inferCall resolves a call's return type via the callee's member
// resolution when the callee is a member expression, else via global
// functions/constructors. Union-typed receivers use the spec's decided
// tie-break: union of member return types across variants that have the
// method (§9 OQ2), at Strict confidence when every variant has it and at
// Potential when some variant lacks it, never above the receiver's own
// confidence. No diagnostic is emitted for the variants that lack it.
func (e *Engine) inferCall(s *scope.Scope, ctx *NarrowingContext, n *cst.Node) types.Typed {
	children := n.Children()
	if len(children) == 0 {
		return types.VariantTyped()
	}
	callee := children[0]

	if callee.Kind == cst.KindIdentifier {
		toks := callee.Tokens()
		if len(toks) > 0 {
			name := toks[0].Tok.Sequence
			if e.Provider.IsKnownType(name) {
				return types.Typed{Type: &types.Concrete{Name: name}, Confidence: types.Strict}
			}
			if info, ok := e.Provider.GlobalFunction(name); ok {
				return types.Typed{Type: info.Type, Confidence: types.Strict}
			}
		}
		return types.VariantTyped()
	}

	if callee.Kind == cst.KindMemberExpr {
		memberChildren := callee.Children()
		if len(memberChildren) == 0 {
			return types.VariantTyped()
		}
		receiver := e.InferExpr(s, ctx, memberChildren[0])
		name := memberName(callee)
		if name == "" {
			return types.VariantTyped()
		}
		return e.resolveMemberCall(receiver, name)
	}
	return types.VariantTyped()
}

func (e *Engine) resolveMemberCall(receiver types.Typed, name string) types.Typed {
	switch rt := receiver.Type.(type) {
	case *types.Concrete:
		if info, ok := e.Provider.Member(rt.Name, name); ok {
			return types.Typed{Type: info.Type, Confidence: receiver.Confidence}
		}
		return types.Typed{Type: &types.Variant{}, Confidence: types.NameMatch}
	case *types.Union:
		var found []types.Type
		missing := false
		for _, m := range rt.Members {
			mc, ok := m.(*types.Concrete)
			if !ok {
				missing = true
				continue
			}
			info, ok := e.Provider.Member(mc.Name, name)
			if !ok {
				missing = true
				continue
			}
			found = append(found, info.Type)
		}
		if len(found) == 0 {
			return types.Typed{Type: &types.Variant{}, Confidence: types.NameMatch}
		}
		conf := types.Strict
		if missing {
			conf = types.Potential
		}
		return types.Typed{Type: types.NewUnion(found...), Confidence: types.Min(conf, receiver.Confidence)}
	case *types.DuckType:
		return types.Typed{Type: &types.Variant{}, Confidence: types.Potential}
	default:
		return types.Typed{Type: &types.Variant{}, Confidence: types.NameMatch}
	}
}

func (e *Engine) inferMember(s *scope.Scope, ctx *NarrowingContext, n *cst.Node) types.Typed {
	children := n.Children()
	if len(children) == 0 {
		return types.VariantTyped()
	}
	receiver := e.InferExpr(s, ctx, children[0])
	name := memberName(n)
	if name == "" {
		return types.VariantTyped()
	}
	return e.resolveMemberCall(receiver, name)
}

func memberName(memberExpr *cst.Node) string {
	idx, ok := memberExpr.Attrs["name"]
	if !ok {
		return ""
	}
	form := memberExpr.Form()
	if idx < 0 || idx >= len(form) {
		return ""
	}
	te, ok := form[idx].(*cst.TokenElement)
	if !ok {
		return ""
	}
	return te.Tok.Sequence
}

// inferArrayLiteral computes `[e1,...,en]`'s type per spec.md §4.4: the
// element type is the union of every element expression's type, and the
// overall confidence is the minimum of the elements' (Strict for an empty
// array, since there is nothing to contradict a Strict declaration).
func (e *Engine) inferArrayLiteral(s *scope.Scope, ctx *NarrowingContext, n *cst.Node) types.Typed {
	children := n.Children()
	if len(children) == 0 {
		return types.Typed{Type: &types.Container{Name: "Array"}, Confidence: types.Strict}
	}
	var elems []types.Type
	conf := types.Strict
	for _, c := range children {
		t := e.InferExpr(s, ctx, c)
		elems = append(elems, t.Type)
		conf = types.Min(conf, t.Confidence)
	}
	return types.Typed{Type: &types.Container{Name: "Array", Element: types.NewUnion(elems...)}, Confidence: conf}
}

// inferDictLiteral computes `{k1:v1,...}`'s type: key type is the union of
// every key expression's type, value type the union of every value
// expression's type (spec.md §4.4).
func (e *Engine) inferDictLiteral(s *scope.Scope, ctx *NarrowingContext, n *cst.Node) types.Typed {
	children := n.Children()
	if len(children) == 0 {
		return types.Typed{Type: &types.Container{Name: "Dictionary"}, Confidence: types.Strict}
	}
	var keys, vals []types.Type
	conf := types.Strict
	for i := 0; i+1 < len(children); i += 2 {
		k := e.InferExpr(s, ctx, children[i])
		v := e.InferExpr(s, ctx, children[i+1])
		keys = append(keys, k.Type)
		vals = append(vals, v.Type)
		conf = types.Min(conf, types.Min(k.Confidence, v.Confidence))
	}
	return types.Typed{
		Type:       &types.Container{Name: "Dictionary", Key: types.NewUnion(keys...), Element: types.NewUnion(vals...)},
		Confidence: conf,
	}
}

func (e *Engine) inferIndex(s *scope.Scope, ctx *NarrowingContext, n *cst.Node) types.Typed {
	children := n.Children()
	if len(children) == 0 {
		return types.VariantTyped()
	}
	container := e.InferExpr(s, ctx, children[0])

	// An untyped dictionary literal indexed by a constant string/number key
	// resolves to that specific entry's value type when the index node is
	// itself the dictionary literal (spec.md §4.4; §9 OQ1 — a non-literal
	// key or an indirect reference still falls through to Variant, per the
	// preserved open-question default).
	if children[0].Kind == cst.KindDictExpr && len(children) > 1 {
		if v, ok := e.lookupDictLiteralEntry(s, ctx, children[0], children[1]); ok {
			return v
		}
	}

	// Typed Array[T]/Dictionary[K,V]: result is the element type directly
	// (spec.md §4.4 "a[i]" rules), regardless of whether the container came
	// from a literal, a declared type, or a reconstructed usage profile.
	if c, ok := container.Type.(*types.Container); ok {
		elem := c.Element
		if elem == nil {
			elem = &types.Variant{}
		}
		return types.Typed{Type: elem, Confidence: types.Min(types.Potential, container.Confidence)}
	}

	cc, ok := container.Type.(*types.Concrete)
	if !ok {
		return types.Typed{Type: &types.Variant{}, Confidence: types.NameMatch}
	}
	if elem, ok := e.Provider.IndexerElementType(cc.Name); ok {
		return types.Typed{Type: elem, Confidence: types.Min(types.Potential, container.Confidence)}
	}
	return types.Typed{Type: &types.Variant{}, Confidence: types.NameMatch}
}

// lookupDictLiteralEntry finds the value type of a dict literal's entry
// whose key text matches key's text, when key is a constant literal.
func (e *Engine) lookupDictLiteralEntry(s *scope.Scope, ctx *NarrowingContext, dict *cst.Node, key *cst.Node) (types.Typed, bool) {
	if key.Kind != cst.KindLiteral {
		return types.Typed{}, false
	}
	wantText := key.ToText()
	children := dict.Children()
	for i := 0; i+1 < len(children); i += 2 {
		if children[i].Kind == cst.KindLiteral && children[i].ToText() == wantText {
			return e.InferExpr(s, ctx, children[i+1]), true
		}
	}
	return types.Typed{}, false
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, "**=": true,
}
