package catalogstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Connect(":memory:", DriverPureGo, false)
	require.NoError(t, err)
	return NewStore(db)
}

func TestStorePutGetType(t *testing.T) {
	store := openTestStore(t)

	members := []provider.MemberInfo{
		{Name: "attack", Kind: provider.MemberMethod, Type: &types.Concrete{Name: "void"}},
	}
	require.NoError(t, store.PutType(provider.TypeInfo{Name: "Enemy", Base: "CharacterBody2D"}, members))

	info, got, ok := store.GetType("Enemy")
	require.True(t, ok)
	require.Equal(t, "Enemy", info.Name)
	require.Equal(t, "CharacterBody2D", info.Base)
	require.Len(t, got, 1)
	require.Equal(t, "attack", got[0].Name)

	_, _, ok = store.GetType("Missing")
	require.False(t, ok)
}

func TestStoreContainerProfileRoundTrip(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.PutContainerProfile("PackedInt32Array", &types.Concrete{Name: "int"}, nil))

	elem, key, ok := store.GetContainerProfile("PackedInt32Array")
	require.True(t, ok)
	require.Equal(t, "int", elem.String())
	require.Nil(t, key)
}

func TestStoreOperatorRoundTrip(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.PutOperator("int", "+", "float", &types.Concrete{Name: "float"}))

	result, ok := store.GetOperator("int", "+", "float")
	require.True(t, ok)
	require.Equal(t, "float", result.String())

	_, ok = store.GetOperator("int", "+", "String")
	require.False(t, ok)
}

type stubProvider struct {
	provider.BaseProvider
	calls int
}

func (s *stubProvider) TypeInfo(name string) (provider.TypeInfo, bool) {
	s.calls++
	if name == "Enemy" {
		return provider.TypeInfo{Name: "Enemy", Base: "Node2D"}, true
	}
	return provider.TypeInfo{}, false
}

func TestCachedProviderFallsThroughThenCaches(t *testing.T) {
	store := openTestStore(t)
	inner := &stubProvider{}
	cached := NewCachedProvider(inner, store)

	info, ok := cached.TypeInfo("Enemy")
	require.True(t, ok)
	require.Equal(t, "Node2D", info.Base)
	require.Equal(t, 1, inner.calls)

	// Second call is served from the store without touching inner again.
	info, ok = cached.TypeInfo("Enemy")
	require.True(t, ok)
	require.Equal(t, "Node2D", info.Base)
	require.Equal(t, 1, inner.calls)
}
