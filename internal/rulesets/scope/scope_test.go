package scope_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/infer"
	"github.com/oxhq/gdlint/internal/parser"
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/rules"
	rsscope "github.com/oxhq/gdlint/internal/rulesets/scope"
	gdscope "github.com/oxhq/gdlint/internal/scope"
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
	sc, err := gdscope.Build(root)
	require.NoError(t, err)
	return &rules.Context{Root: root, Scope: sc, Engine: infer.New(provider.NewBuiltinProvider())}
}

func TestUndefinedNameIsFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tprint(mystery)\n")
	result := rules.Run(rsscope.All, ctx, nil, nil)
	require.Contains(t, codes(result), "GDL2001")
}

func TestLocalVariableUseIsClean(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar health = 10\n\tprint(health)\n")
	result := rules.Run(rsscope.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL2001")
}

func TestSelfAndSuperAreNeverUndefined(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tself.queue_free()\n\tsuper.f()\n")
	result := rules.Run(rsscope.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL2001")
}

func TestParameterUseIsClean(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f(amount) -> void:\n\tprint(amount)\n")
	result := rules.Run(rsscope.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL2001")
}

func TestDuplicateClassMemberDeclarationIsFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nvar health = 10\nvar health = 20\n")
	result := rules.Run(rsscope.All, ctx, nil, nil)
	require.Contains(t, codes(result), "GDL2002")
}

func TestDuplicateLocalVariableDeclarationIsFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar x = 1\n\tvar x = 2\n")
	result := rules.Run(rsscope.All, ctx, nil, nil)
	require.Contains(t, codes(result), "GDL2002")
}

func TestDistinctNamesAreNotFlaggedAsDuplicate(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nvar health = 10\nvar mana = 20\n")
	result := rules.Run(rsscope.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL2002")
}

func TestLocalVariableShadowingClassMemberIsFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nvar health = 10\n\nfunc f() -> void:\n\tvar health = 5\n\tprint(health)\n")
	result := rules.Run(rsscope.All, ctx, nil, nil)
	require.Contains(t, codes(result), "GDL2003")
}

func TestParameterNotShadowingAnythingIsClean(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f(amount) -> void:\n\tprint(amount)\n")
	result := rules.Run(rsscope.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL2003")
}
