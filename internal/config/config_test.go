package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.Default()

	require.Equal(t, config.IndentSpaces, cfg.Indentation.Style)
	require.Equal(t, 4, cfg.Indentation.Size)
	require.Equal(t, config.LineEndingLF, cfg.LineEnding)
	require.Equal(t, config.CaseSnake, cfg.Naming["variable"])
	require.Equal(t, config.CasePascal, cfg.Naming["class_name"])
	require.Equal(t, config.CaseScreamingSnake, cfg.Naming["constant"])
	require.True(t, cfg.Parallel.Enabled)
	require.Equal(t, 0, cfg.Parallel.Degree)
	require.Equal(t, 10, cfg.Parallel.BatchSize)
	require.Equal(t, config.CatalogStorePureGo, cfg.CatalogStore.Driver)
	require.Empty(t, cfg.CatalogStore.Path)
	require.Empty(t, cfg.Overrides)
}
