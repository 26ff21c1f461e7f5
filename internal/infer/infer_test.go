package infer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/infer"
	"github.com/oxhq/gdlint/internal/parser"
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/scope"
	"github.com/oxhq/gdlint/internal/types"
)

func parseScope(t *testing.T, src string) (*cst.Node, *scope.Scope) {
	t.Helper()
	root, err := parser.Parse(src)
	require.NoError(t, err)
	sc, err := scope.Build(root)
	require.NoError(t, err)
	return root, sc
}

// firstOfKind returns the first descendant of root (root included) whose
// Kind matches, in depth-first order.
func firstOfKind(root *cst.Node, kind cst.Kind) *cst.Node {
	var found *cst.Node
	cst.WalkIn(root, cst.VisitorFunc{
		OnEnter: func(n *cst.Node) bool {
			if found != nil {
				return false
			}
			if n.Kind == kind {
				found = n
				return false
			}
			return true
		},
	})
	return found
}

func TestInferArrayLiteralUnionsElementTypes(t *testing.T) {
	root, sc := parseScope(t, "extends Node\n\nfunc f() -> void:\n\tvar items = [1, 2, \"x\"]\n")
	arr := firstOfKind(root, cst.KindArrayExpr)
	require.NotNil(t, arr)

	e := infer.New(nil)
	result := e.InferExpr(sc, nil, arr)
	cont, ok := result.Type.(*types.Container)
	require.True(t, ok)
	require.Equal(t, "Array", cont.Name)
	union, ok := cont.Element.(*types.Union)
	require.True(t, ok)
	require.Len(t, union.Members, 2)
}

func TestInferEmptyArrayLiteralIsStrict(t *testing.T) {
	root, sc := parseScope(t, "extends Node\n\nfunc f() -> void:\n\tvar items = []\n")
	arr := firstOfKind(root, cst.KindArrayExpr)
	require.NotNil(t, arr)

	e := infer.New(nil)
	result := e.InferExpr(sc, nil, arr)
	cont, ok := result.Type.(*types.Container)
	require.True(t, ok)
	require.Equal(t, "Array", cont.Name)
	require.Nil(t, cont.Element)
	require.Equal(t, types.Strict, result.Confidence)
}

func TestInferDictLiteralUnionsKeyAndValueTypes(t *testing.T) {
	root, sc := parseScope(t, "extends Node\n\nfunc f() -> void:\n\tvar d = {\"a\": 1, \"b\": 2.0}\n")
	dict := firstOfKind(root, cst.KindDictExpr)
	require.NotNil(t, dict)

	e := infer.New(nil)
	result := e.InferExpr(sc, nil, dict)
	cont, ok := result.Type.(*types.Container)
	require.True(t, ok)
	require.Equal(t, "Dictionary", cont.Name)
	require.Equal(t, "String", cont.Key.String())
	union, ok := cont.Element.(*types.Union)
	require.True(t, ok)
	require.Len(t, union.Members, 2)
}

func TestInferIndexOnTypedArrayReturnsElementType(t *testing.T) {
	root, sc := parseScope(t, "extends Node\n\nfunc f() -> void:\n\tvar items: Array[int] = [1, 2]\n\tvar v = items[0]\n")
	indexExprs := []*cst.Node{}
	cst.WalkIn(root, cst.VisitorFunc{OnEnter: func(n *cst.Node) bool {
		if n.Kind == cst.KindIndexExpr {
			indexExprs = append(indexExprs, n)
		}
		return true
	}})
	require.Len(t, indexExprs, 1)

	e := infer.New(nil)
	result := e.InferExpr(functionBodyScope(sc), nil, indexExprs[0])
	require.Equal(t, "int", result.Type.String())
	require.Equal(t, types.Potential, result.Confidence)
}

func TestInferIndexOnDictLiteralByLiteralKey(t *testing.T) {
	root, sc := parseScope(t, "extends Node\n\nfunc f() -> void:\n\tvar v = {\"a\": 1, \"b\": 2.0}[\"a\"]\n")
	idx := firstOfKind(root, cst.KindIndexExpr)
	require.NotNil(t, idx)

	e := infer.New(nil)
	result := e.InferExpr(sc, nil, idx)
	require.Equal(t, "int", result.Type.String())
}

func TestInferIndexFallsBackToVariantWithoutProviderInfo(t *testing.T) {
	root, sc := parseScope(t, "extends Node\n\nfunc f() -> void:\n\tvar v = other[0]\n")
	idx := firstOfKind(root, cst.KindIndexExpr)
	require.NotNil(t, idx)

	e := infer.New(provider.NullProvider{})
	result := e.InferExpr(sc, nil, idx)
	_, isVariant := result.Type.(*types.Variant)
	require.True(t, isVariant)
}

// findFunctionSymbol locates the symbol named name anywhere in root's scope
// tree, pre-order (used to reach into a function body's block scope where
// local `var` declarations actually live).
func findFunctionSymbol(t *testing.T, root *scope.Scope, name string) *scope.Symbol {
	t.Helper()
	var found *scope.Symbol
	var walk func(s *scope.Scope)
	walk = func(s *scope.Scope) {
		if found != nil {
			return
		}
		if sym, ok := s.Symbols[name]; ok {
			found = sym
			return
		}
		for _, child := range s.Children {
			walk(child)
		}
	}
	walk(root)
	if found == nil {
		t.Fatalf("symbol %q not found in scope tree", name)
	}
	return found
}

// functionBodyScope returns the block scope holding root's first function's
// top-level statements — the scope local variables and parameters declared
// at the top of that function are visible from.
func functionBodyScope(root *scope.Scope) *scope.Scope {
	fn := root.Children[0]
	return fn.Children[0]
}

func TestContainerElementTypeReconstructsFromAppendCalls(t *testing.T) {
	src := "extends Node\n\nfunc f() -> void:\n\tvar items = []\n\titems.append(1)\n\titems.append(2)\n"
	root, sc := parseScope(t, src)
	_ = root
	sym := findFunctionSymbol(t, sc, "items")

	e := infer.New(nil)
	result, ok := e.ContainerElementType(sym)
	require.True(t, ok)
	cont, ok := result.Type.(*types.Container)
	require.True(t, ok)
	require.Equal(t, "Array", cont.Name)
	require.Equal(t, "int", cont.Element.String())
}

func TestContainerElementTypeReconstructsDictionaryFromIndexAssign(t *testing.T) {
	src := "extends Node\n\nfunc f() -> void:\n\tvar d = {}\n\td[\"a\"] = 1\n\td[\"b\"] = 2\n"
	root, sc := parseScope(t, src)
	_ = root
	sym := findFunctionSymbol(t, sc, "d")

	e := infer.New(nil)
	result, ok := e.ContainerElementType(sym)
	require.True(t, ok)
	cont, ok := result.Type.(*types.Container)
	require.True(t, ok)
	require.Equal(t, "Dictionary", cont.Name)
	require.Equal(t, "String", cont.Key.String())
	require.Equal(t, "int", cont.Element.String())
}

func TestVariableUsageTypeReconstructsFromReassignments(t *testing.T) {
	src := "extends Node\n\nfunc f() -> void:\n\tvar v\n\tv = 1\n\tv = 2\n"
	root, sc := parseScope(t, src)
	_ = root
	sym := findFunctionSymbol(t, sc, "v")

	e := infer.New(nil)
	result, ok := e.VariableUsageType(sym)
	require.True(t, ok)
	require.Equal(t, "int", result.Type.String())
}

func TestOperatorUsageRecordsArithmeticOperandRequirement(t *testing.T) {
	src := "extends Node\n\nfunc f(v) -> void:\n\tvar total = v + 1\n"
	root, sc := parseScope(t, src)
	_ = root
	sym := findFunctionSymbol(t, sc, "v")

	e := infer.New(nil)
	result, ok := e.OperatorUsage(sym)
	require.True(t, ok)
	duck, ok := result.Type.(*types.DuckType)
	require.True(t, ok)
	require.Len(t, duck.RequiredOperators, 1)
	require.Equal(t, "+", duck.RequiredOperators[0].Op)
	require.Equal(t, "int", duck.RequiredOperators[0].Operand.String())
}

func TestOperatorUsageFalseWithoutArithmeticUsage(t *testing.T) {
	src := "extends Node\n\nfunc f(v) -> void:\n\tprint(v)\n"
	_, sc := parseScope(t, src)
	sym := findFunctionSymbol(t, sc, "v")

	e := infer.New(nil)
	_, ok := e.OperatorUsage(sym)
	require.False(t, ok)
}

func TestContainerElementTypeFalseWhenDeclared(t *testing.T) {
	src := "extends Node\n\nfunc f() -> void:\n\tvar items: Array[int] = []\n\titems.append(1)\n"
	_, sc := parseScope(t, src)
	sym := findFunctionSymbol(t, sc, "items")
	require.NotNil(t, sym.DeclaredType)

	e := infer.New(nil)
	_, ok := e.ContainerElementType(sym)
	require.False(t, ok)
}

func TestNarrowInNarrowsElementTypeFromUsageProfile(t *testing.T) {
	src := "extends Node\n\nfunc f(x) -> void:\n\tvar items = []\n\titems.append(1)\n\titems.append(2)\n\tif x in items:\n\t\tpass\n"
	root, sc := parseScope(t, src)

	inExpr := firstOfKind(root, cst.KindInExpr)
	require.NotNil(t, inExpr)

	body := functionBodyScope(sc)
	require.Equal(t, scope.KindBlock, body.Kind)

	e := infer.New(nil)
	base := infer.NewNarrowingContext()
	whenTrue, _ := e.NarrowCondition(body, base, inExpr)

	narrowed, ok := whenTrue.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "int", narrowed.Type.String())
}

func TestNarrowEqualityNarrowsToLiteralConcreteType(t *testing.T) {
	src := "extends Node\n\nfunc f(x) -> void:\n\tif x == 5:\n\t\tpass\n"
	root, sc := parseScope(t, src)

	cond := firstOfKind(root, cst.KindBinaryExpr)
	require.NotNil(t, cond)

	body := functionBodyScope(sc)
	e := infer.New(nil)
	base := infer.NewNarrowingContext()
	whenTrue, whenFalse := e.NarrowCondition(body, base, cond)

	narrowed, ok := whenTrue.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "int", narrowed.Type.String())

	_, ok = whenFalse.Lookup("x")
	require.False(t, ok)
}

func TestNarrowInequalityNarrowsFalseBranchToLiteralConcreteType(t *testing.T) {
	src := "extends Node\n\nfunc f(x) -> void:\n\tif x != \"a\":\n\t\tpass\n"
	root, sc := parseScope(t, src)

	cond := firstOfKind(root, cst.KindBinaryExpr)
	require.NotNil(t, cond)

	body := functionBodyScope(sc)
	e := infer.New(nil)
	base := infer.NewNarrowingContext()
	whenTrue, whenFalse := e.NarrowCondition(body, base, cond)

	_, ok := whenTrue.Lookup("x")
	require.False(t, ok)

	narrowed, ok := whenFalse.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "String", narrowed.Type.String())
}

func TestNarrowHasMethodCallRecordsDuckType(t *testing.T) {
	src := "extends Node\n\nfunc f(x) -> void:\n\tif x.has_method(\"take_damage\"):\n\t\tpass\n"
	root, sc := parseScope(t, src)

	call := firstOfKind(root, cst.KindCallExpr)
	require.NotNil(t, call)

	body := functionBodyScope(sc)
	e := infer.New(nil)
	base := infer.NewNarrowingContext()
	whenTrue, _ := e.NarrowCondition(body, base, call)

	narrowed, ok := whenTrue.Lookup("x")
	require.True(t, ok)
	duck, ok := narrowed.Type.(*types.DuckType)
	require.True(t, ok)
	require.Equal(t, []string{"take_damage"}, duck.RequiredMethods)
}

func TestNarrowHasSignalRecordsSignalRequirement(t *testing.T) {
	src := "extends Node\n\nfunc f(x) -> void:\n\tif x.has_signal(\"died\"):\n\t\tpass\n"
	root, sc := parseScope(t, src)

	call := firstOfKind(root, cst.KindCallExpr)
	require.NotNil(t, call)

	body := functionBodyScope(sc)
	e := infer.New(nil)
	base := infer.NewNarrowingContext()
	whenTrue, _ := e.NarrowCondition(body, base, call)

	narrowed, ok := whenTrue.Lookup("x")
	require.True(t, ok)
	duck, ok := narrowed.Type.(*types.DuckType)
	require.True(t, ok)
	require.Equal(t, []string{"died"}, duck.RequiredSignals)
}
