package suppress_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/parser"
	"github.com/oxhq/gdlint/internal/suppress"
)

func TestLineIgnoreSuppressesOnlyThatLine(t *testing.T) {
	src := "extends Node\nvar x = 1  # gdlint:ignore=GDL2001\nvar y = 2\n"
	root, err := parser.Parse(src)
	require.NoError(t, err)
	table := suppress.Build(root)

	require.True(t, table.IsSuppressed("GDL2001", 2))
	require.False(t, table.IsSuppressed("GDL2001", 3))
	require.False(t, table.IsSuppressed("GDL3001", 2))
}

func TestDisableEnableBlockRange(t *testing.T) {
	src := "extends Node\n# gdlint:disable=GDL2001\nvar a = 1\nvar b = 2\n# gdlint:enable=GDL2001\nvar c = 3\n"
	root, err := parser.Parse(src)
	require.NoError(t, err)
	table := suppress.Build(root)

	require.True(t, table.IsSuppressed("GDL2001", 3))
	require.True(t, table.IsSuppressed("GDL2001", 4))
	require.False(t, table.IsSuppressed("GDL2001", 6))
}

func TestDisableAllWithoutCodes(t *testing.T) {
	src := "extends Node\n# gdlint:disable\nvar a = 1\n"
	root, err := parser.Parse(src)
	require.NoError(t, err)
	table := suppress.Build(root)

	require.True(t, table.IsSuppressed("GDL1001", 3))
	require.True(t, table.IsSuppressed("GDL9999", 3))
}

func TestOpenBlockNeverCloses(t *testing.T) {
	src := "extends Node\n# gdlint:disable=GDL4001\nvar a = 1\n"
	root, err := parser.Parse(src)
	require.NoError(t, err)
	table := suppress.Build(root)

	require.True(t, table.IsSuppressed("GDL4001", 3))
	require.True(t, table.IsSuppressed("GDL4001", 1000))
}
