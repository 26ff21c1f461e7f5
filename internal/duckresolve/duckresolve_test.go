package duckresolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/duckresolve"
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/types"
)

type catalogProvider struct {
	provider.BaseProvider
	members map[string]map[string]provider.MemberInfo
}

func (c *catalogProvider) Member(typeName, memberName string) (provider.MemberInfo, bool) {
	m, ok := c.members[typeName]
	if !ok {
		return provider.MemberInfo{}, false
	}
	info, ok := m[memberName]
	return info, ok
}

func (c *catalogProvider) ResolveOperator(left, op, right string) provider.OperatorResult {
	if left == "Vector2" && op == "+" && right == "Vector2" {
		return provider.OperatorResult{ResultType: &types.Concrete{Name: "Vector2"}, Known: true}
	}
	return provider.OperatorResult{}
}

func newCatalog() *catalogProvider {
	return &catalogProvider{members: map[string]map[string]provider.MemberInfo{
		"Enemy": {
			"take_damage": {Name: "take_damage", Kind: provider.MemberMethod},
			"health":      {Name: "health", Kind: provider.MemberProperty},
		},
		"Chest": {
			"open": {Name: "open", Kind: provider.MemberMethod},
		},
	}}
}

func TestResolveFindsSatisfyingCandidates(t *testing.T) {
	p := newCatalog()
	d := &types.DuckType{RequiredMethods: []string{"take_damage"}}
	resolved := duckresolve.Resolve(p, d, []string{"Enemy", "Chest"})
	require.Equal(t, []string{"Enemy"}, resolved.PossibleTypes)
}

func TestResolveExcludesBaseObjectMembers(t *testing.T) {
	p := newCatalog()
	d := &types.DuckType{RequiredMethods: []string{"has_method", "take_damage"}}
	resolved := duckresolve.Resolve(p, d, []string{"Enemy", "Chest"})
	require.NotContains(t, resolved.RequiredMethods, "has_method")
	require.Equal(t, []string{"Enemy"}, resolved.PossibleTypes)
}

func TestResolveHonorsExcludedTypes(t *testing.T) {
	p := newCatalog()
	d := &types.DuckType{RequiredMethods: []string{"take_damage"}, ExcludedTypes: []string{"Enemy"}}
	resolved := duckresolve.Resolve(p, d, []string{"Enemy", "Chest"})
	require.Empty(t, resolved.PossibleTypes)
}

func TestResolveFiltersCandidatesByRequiredOperators(t *testing.T) {
	p := newCatalog()
	d := &types.DuckType{RequiredOperators: []types.OperatorRequirement{
		{Op: "+", Operand: &types.Concrete{Name: "Vector2"}},
	}}
	resolved := duckresolve.Resolve(p, d, []string{"Vector2", "Chest"})
	require.Equal(t, []string{"Vector2"}, resolved.PossibleTypes)
}

func TestResolveNoMatchesYieldsEmptyPossible(t *testing.T) {
	p := newCatalog()
	d := &types.DuckType{RequiredMethods: []string{"fly"}}
	resolved := duckresolve.Resolve(p, d, []string{"Enemy", "Chest"})
	require.Empty(t, resolved.PossibleTypes)
}
