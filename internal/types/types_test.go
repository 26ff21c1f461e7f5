package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinTakesWeakerConfidence(t *testing.T) {
	require.Equal(t, Potential, Min(Strict, Potential))
	require.Equal(t, NameMatch, Min(NameMatch, Strict))
	require.Equal(t, Strict, Min(Strict, Strict))
}

func TestConcreteString(t *testing.T) {
	require.Equal(t, "int", (&Concrete{Name: "int"}).String())
}

func TestContainerString(t *testing.T) {
	arr := &Container{Name: "Array", Element: &Concrete{Name: "int"}}
	require.Equal(t, "Array[int]", arr.String())

	dict := &Container{Name: "Dictionary", Key: &Concrete{Name: "String"}, Element: &Concrete{Name: "int"}}
	require.Equal(t, "Dictionary[String, int]", dict.String())

	empty := &Container{Name: "Array"}
	require.Equal(t, "Array", empty.String())
}

func TestNullableString(t *testing.T) {
	n := &Nullable{Inner: &Concrete{Name: "Node"}}
	require.Equal(t, "Node?", n.String())
}

func TestNewUnionDedupsAndCollapses(t *testing.T) {
	single := NewUnion(&Concrete{Name: "int"}, &Concrete{Name: "int"})
	c, ok := single.(*Concrete)
	require.True(t, ok)
	require.Equal(t, "int", c.Name)

	multi := NewUnion(&Concrete{Name: "int"}, &Concrete{Name: "String"})
	u, ok := multi.(*Union)
	require.True(t, ok)
	require.Len(t, u.Members, 2)
}

func TestEqualNullableRecurses(t *testing.T) {
	a := &Nullable{Inner: &Concrete{Name: "int"}}
	b := &Nullable{Inner: &Concrete{Name: "int"}}
	require.True(t, Equal(a, b))
}

func TestVariantTyped(t *testing.T) {
	vt := VariantTyped()
	require.Equal(t, "Variant", vt.Type.String())
	require.Equal(t, NameMatch, vt.Confidence)
}
