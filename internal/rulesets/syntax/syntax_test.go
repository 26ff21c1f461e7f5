package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/parser"
	"github.com/oxhq/gdlint/internal/rules"
	"github.com/oxhq/gdlint/internal/rulesets/syntax"
)

func TestInvalidTokenFlagsUnrecognizedConstruct(t *testing.T) {
	root, err := parser.Parse("extends Node\n@ @ @\n")
	require.NoError(t, err)

	ctx := &rules.Context{Root: root}
	result := rules.Run(syntax.All, ctx, nil, nil)

	found := false
	for _, d := range result.Diagnostics {
		if d.Code == "GDL1001" {
			found = true
		}
	}
	require.True(t, found, "malformed attribute tokens should be flagged invalid")
}

func TestInvalidTokenSilentOnCleanSource(t *testing.T) {
	root, err := parser.Parse("extends Node\n\nfunc f() -> void:\n\tpass\n")
	require.NoError(t, err)

	ctx := &rules.Context{Root: root}
	result := rules.Run(syntax.All, ctx, nil, nil)
	require.Empty(t, result.Diagnostics)
}
