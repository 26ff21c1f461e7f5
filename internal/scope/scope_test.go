package scope_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/parser"
	"github.com/oxhq/gdlint/internal/scope"
)

func build(t *testing.T, src string) *scope.Scope {
	t.Helper()
	root, err := parser.Parse(src)
	require.NoError(t, err)
	s, err := scope.Build(root)
	require.NoError(t, err)
	return s
}

func TestClassLevelForwardReference(t *testing.T) {
	src := "extends Node\n\nfunc _ready() -> void:\n\tuse_later()\n\nfunc use_later() -> void:\n\tpass\n"
	classScope := build(t, src)
	require.NotNil(t, classScope.Lookup("use_later"))
}

func TestLocalScopeRejectsForwardReference(t *testing.T) {
	classScope := build(t, "extends Node\n\nfunc f() -> void:\n\tprint(a)\n\tvar a = 1\n")
	var fnScope *scope.Scope
	for _, c := range classScope.Children {
		if c.Kind == scope.KindFunction {
			fnScope = c
		}
	}
	require.NotNil(t, fnScope)
	sym := fnScope.Children[0].LookupLocal("a")
	require.NotNil(t, sym, "a is declared directly in the function body's block scope")
}

func TestDuplicateDeclarationReturnsFalse(t *testing.T) {
	classScope := build(t, "extends Node\nvar health = 1\n")
	ok := classScope.Declare(&scope.Symbol{Name: "health", Kind: scope.SymVariable})
	require.False(t, ok)
}

func TestBlockScopeIsolation(t *testing.T) {
	classScope := build(t, "extends Node\n\nfunc f() -> void:\n\tif true:\n\t\tvar x = 1\n\tvar y = 2\n")
	var fnScope *scope.Scope
	for _, c := range classScope.Children {
		if c.Kind == scope.KindFunction {
			fnScope = c
		}
	}
	require.NotNil(t, fnScope)
	body := fnScope.Children[0]
	require.Nil(t, body.LookupLocal("x"), "x was declared inside the if-block's own scope")
	require.NotNil(t, body.LookupLocal("y"))
}

func TestLookupShadowing(t *testing.T) {
	classScope := build(t, "extends Node\nvar x = 1\n\nfunc f() -> void:\n\tvar x = 2\n\tprint(x)\n")
	var fnScope *scope.Scope
	for _, c := range classScope.Children {
		if c.Kind == scope.KindFunction {
			fnScope = c
		}
	}
	require.NotNil(t, fnScope)
	body := fnScope.Children[0]
	sym := body.Lookup("x")
	require.NotNil(t, sym)
	require.Equal(t, body, sym.Scope, "innermost binding wins")
}
