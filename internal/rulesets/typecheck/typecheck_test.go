package typecheck_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/infer"
	"github.com/oxhq/gdlint/internal/parser"
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/rules"
	"github.com/oxhq/gdlint/internal/rulesets/typecheck"
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

func TestValidArithmeticIsClean(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar v = 1 + 2\n")
	result := rules.Run(typecheck.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL3001")
}

func TestAddingIntAndStringIsFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar v = 1 + \"x\"\n")
	result := rules.Run(typecheck.All, ctx, nil, nil)
	require.Contains(t, codes(result), "GDL3001")
}

func TestLogicalAndIsNeverFlaggedAsInvalidOperand(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar v = true and false\n")
	result := rules.Run(typecheck.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL3001")
}

func TestAssignmentIsNeverFlaggedAsInvalidOperand(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar v = 1\n\tv += \"x\"\n")
	result := rules.Run(typecheck.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL3001")
}

func TestNullableDeclaredMemberAccessIsFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar other: Node2D\n\tother.queue_free()\n")
	result := rules.Run(typecheck.All, ctx, nil, nil)
	require.Contains(t, codes(result), "GDL3002")
}

func TestNullCheckGuardedMemberAccessIsNotFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar other: Node2D\n\tif other != null:\n\t\tother.queue_free()\n")
	result := rules.Run(typecheck.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL3002")
}

func TestNullCheckElseBranchIsNotFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar other: Node2D\n\tif other == null:\n\t\tpass\n\telse:\n\t\tother.queue_free()\n")
	result := rules.Run(typecheck.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL3002")
}

func TestUnguardedNullableAccessInsideUnrelatedIfIsStillFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar other: Node2D\n\tif true:\n\t\tother.queue_free()\n")
	result := rules.Run(typecheck.All, ctx, nil, nil)
	require.Contains(t, codes(result), "GDL3002")
}

func TestNonNullableMemberAccessIsClean(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar v: int = 1\n\tvar s = v.is_equal_approx(1)\n")
	result := rules.Run(typecheck.All, ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL3002")
}
