package style_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/config"
	"github.com/oxhq/gdlint/internal/parser"
	"github.com/oxhq/gdlint/internal/rules"
	"github.com/oxhq/gdlint/internal/rulesets/style"
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
	return &rules.Context{Root: root, Scope: sc}
}

func TestSnakeCaseVariableIsClean(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar hit_points = 10\n\tprint(hit_points)\n")
	result := rules.Run(style.All(style.Options{Naming: config.Default().Naming}), ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL-L001")
}

func TestCamelCaseVariableViolatesSnakeConvention(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar hitPoints = 10\n\tprint(hitPoints)\n")
	result := rules.Run(style.All(style.Options{Naming: config.Default().Naming}), ctx, nil, nil)
	require.Contains(t, codes(result), "GDL-L001")
}

func TestScreamingSnakeConstantIsClean(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nconst MAX_HEALTH = 100\n")
	result := rules.Run(style.All(style.Options{Naming: config.Default().Naming}), ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL-L001")
}

func TestLowercaseConstantViolatesScreamingSnakeConvention(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nconst max_health = 100\n")
	result := rules.Run(style.All(style.Options{Naming: config.Default().Naming}), ctx, nil, nil)
	require.Contains(t, codes(result), "GDL-L001")
}

func TestPascalCaseClassNameIsClean(t *testing.T) {
	ctx := buildContext(t, "class_name Enemy\nextends Node\n")
	result := rules.Run(style.All(style.Options{Naming: config.Default().Naming}), ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL-L001")
}

func TestUnusedLocalVariableIsFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar unused = 10\n")
	result := rules.Run(style.All(style.Options{Naming: config.Default().Naming}), ctx, nil, nil)
	require.Contains(t, codes(result), "GDL-L002")
}

func TestReferencedLocalVariableIsClean(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar hp = 10\n\tprint(hp)\n")
	result := rules.Run(style.All(style.Options{Naming: config.Default().Naming}), ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL-L002")
}

func TestUnderscorePrefixedVariableIsNeverFlaggedUnused(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f() -> void:\n\tvar _ignored = 10\n")
	result := rules.Run(style.All(style.Options{Naming: config.Default().Naming}), ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL-L002")
}

func TestUnusedParameterIsFlagged(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nfunc f(amount) -> void:\n\tpass\n")
	result := rules.Run(style.All(style.Options{Naming: config.Default().Naming}), ctx, nil, nil)
	require.Contains(t, codes(result), "GDL-L002")
}

func TestClassLevelVariableIsNeverFlaggedUnused(t *testing.T) {
	ctx := buildContext(t, "extends Node\n\nvar health = 10\n")
	result := rules.Run(style.All(style.Options{Naming: config.Default().Naming}), ctx, nil, nil)
	require.NotContains(t, codes(result), "GDL-L002")
}
