package calls_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/infer"
	"github.com/oxhq/gdlint/internal/parser"
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/rules"
	"github.com/oxhq/gdlint/internal/rulesets/calls"
	"github.com/oxhq/gdlint/internal/scope"
)

func codes(result rules.Result) []string {
	var out []string
	for _, d := range result.Diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func buildContext(t *testing.T, src string) *rules.Context {
	t.Helper()
	root, err := parser.Parse(src)
	require.NoError(t, err)
	sc, err := scope.Build(root)
	require.NoError(t, err)
	return &rules.Context{Root: root, Scope: sc, Engine: infer.New(provider.NewBuiltinProvider())}
}

func TestCallWithTooFewArgumentsIsFlagged(t *testing.T) {
	src := "extends Node\n\nfunc heal(amount) -> void:\n\tpass\n\nfunc f() -> void:\n\theal()\n"
	ctx := buildContext(t, src)
	result := rules.Run(calls.All, ctx, nil, nil)
	require.Contains(t, codes(result), "GDL4001")
}

func TestCallWithTooManyArgumentsIsFlagged(t *testing.T) {
	src := "extends Node\n\nfunc heal(amount) -> void:\n\tpass\n\nfunc f() -> void:\n\theal(1, 2)\n"
	ctx := buildContext(t, src)
	result := rules.Run(calls.All, ctx, nil, nil)
	require.Contains(t, codes(result), "GDL4001")
}

func TestCallWithCorrectArityIsClean(t *testing.T) {
	src := "extends Node\n\nfunc heal(amount) -> void:\n\tpass\n\nfunc f() -> void:\n\theal(5)\n"
	ctx := buildContext(t, src)
	result := rules.Run(calls.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL4001")
}

func TestDefaultParameterMakesArgumentOptional(t *testing.T) {
	src := "extends Node\n\nfunc heal(amount, bonus = 0) -> void:\n\tpass\n\nfunc f() -> void:\n\theal(5)\n"
	ctx := buildContext(t, src)
	result := rules.Run(calls.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL4001")
}

func TestMethodNotFoundOnValueTypeIsFlagged(t *testing.T) {
	src := "extends Node\n\nfunc f() -> void:\n\tvar v: int = 1\n\tv.frobnicate()\n"
	ctx := buildContext(t, src)
	result := rules.Run(calls.All, ctx, nil, nil)
	require.Contains(t, codes(result), "GDL4002")
}

func TestKnownEngineMemberIsClean(t *testing.T) {
	src := "extends Node\n\nfunc f() -> void:\n\tvar n: Node\n\tn.get_parent()\n"
	ctx := buildContext(t, src)
	result := rules.Run(calls.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL4002")
}

func TestSelfMethodCallIsNeverFlaggedAsNotFound(t *testing.T) {
	src := "extends Node\n\nfunc heal(amount) -> void:\n\tpass\n\nfunc f() -> void:\n\tself.heal(1)\n"
	ctx := buildContext(t, src)
	result := rules.Run(calls.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL4002")
}
