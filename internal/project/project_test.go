package project

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/config"
	"github.com/oxhq/gdlint/internal/provider"
	rulescope "github.com/oxhq/gdlint/internal/rulesets/scope"
)

const enemySrc = `class_name Enemy
extends CharacterBody2D

var health: int = 10

func take_damage(amount: int) -> void:
	health -= amount
`

const playerSrc = `class_name Player
extends Node2D

func _ready() -> void:
	var e = Enemy.new()
	e.take_damage(5)
`

func loadedProject(t *testing.T) *Project {
	t.Helper()
	p := New(nil)
	p.LoadScripts(map[string]string{
		"res://enemy.gd":  enemySrc,
		"res://player.gd": playerSrc,
	}, config.Default())
	return p
}

func TestLoadScriptsParsesAndCollects(t *testing.T) {
	p := loadedProject(t)

	sc, ok := p.ScriptByResourcePath("res://enemy.gd")
	require.True(t, ok)
	require.NoError(t, sc.ParseErr)
	require.Equal(t, "Enemy", sc.ClassName)
	require.Equal(t, "CharacterBody2D", sc.Extends)
	require.NotNil(t, sc.Scope)
}

func TestScriptsOrderedByCanonicalPath(t *testing.T) {
	p := loadedProject(t)
	scripts := p.Scripts()
	require.Len(t, scripts, 2)
	require.Equal(t, "res://enemy.gd", scripts[0].Path)
	require.Equal(t, "res://player.gd", scripts[1].Path)
}

func TestFindSymbols(t *testing.T) {
	p := loadedProject(t)
	syms := p.FindSymbols("health")
	require.Len(t, syms, 1)
	require.Equal(t, "health", syms[0].Name)
}

func TestAnalyzeAllRunsAcrossScripts(t *testing.T) {
	p := loadedProject(t)
	result := p.AnalyzeAll(provider.NullProvider{}, rulescope.All, nil)
	require.NotEmpty(t, result.Run.ID.String())
	require.Contains(t, result.Diagnostics, "res://enemy.gd")
	require.Contains(t, result.Diagnostics, "res://player.gd")
}

func TestGetParameterTypeDiffDeclaredType(t *testing.T) {
	p := loadedProject(t)
	declared, observed, ok := p.GetParameterTypeDiff(provider.NullProvider{}, "Enemy", "take_damage", "amount")
	require.True(t, ok)
	require.NotNil(t, declared)
	require.Equal(t, "int", declared.String())
	require.NotNil(t, observed)
}

func TestLoadFromDiskRespectsContextCancellation(t *testing.T) {
	p := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.LoadFromDisk(ctx, "/nonexistent", "*.gd", true, config.Default())
	require.Error(t, err)
}
