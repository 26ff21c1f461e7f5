// Package provider defines the runtime-type provider contract (spec.md §6
// "External interfaces"): the pluggable abstraction gdlint uses to ask
// questions about the engine/script type universe without hard-coding a
// particular Godot version's class list.
package provider

import (
	"sync"

	"github.com/oxhq/gdlint/internal/types"
)

// MemberKind classifies what Member/GlobalFunction resolved.
type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberProperty
	MemberSignal
	MemberConstant
	MemberEnumValue
)

// ParamInfo describes one parameter of a resolved method (spec.md §6
// "member(type, name) -> ... parameters with types/defaults").
type ParamInfo struct {
	Name       string
	Type       types.Type
	HasDefault bool
}

// MemberInfo describes one resolved member of a type.
type MemberInfo struct {
	Name       string
	Kind       MemberKind
	Type       types.Type
	Static     bool
	Parameters []ParamInfo // populated for MemberMethod / GlobalFunction
}

// TypeInfo describes a known type's identity.
type TypeInfo struct {
	Name     string
	Base     string // "" for root types (Object, or a built-in with no base)
	IsEngine bool   // true for engine object types, false for built-in value types and script-defined types
}

// OperatorResult is what ResolveOperator returns for a binary operator
// applied to two named types.
type OperatorResult struct {
	ResultType types.Type
	Known      bool
}

// Provider is the runtime-type provider contract. Every method is a pure
// query against whatever catalog backs the implementation — gdlint never
// mutates provider state during analysis.
type Provider interface {
	// IsKnownType reports whether name is a type the provider has any
	// information about at all (engine or script).
	IsKnownType(name string) bool

	// TypeInfo resolves a type's base and origin.
	TypeInfo(name string) (TypeInfo, bool)

	// BaseType is a convenience projection of TypeInfo's Base field.
	BaseType(name string) (string, bool)

	// IsAssignableTo reports whether a value of type from may be assigned
	// to a variable declared as type to (identity, inheritance, or a
	// provider-known implicit conversion).
	IsAssignableTo(from, to string) bool

	// Member resolves a named member (method, property, signal, constant,
	// or enum value) on typeName, including inherited members.
	Member(typeName, memberName string) (MemberInfo, bool)

	// GlobalFunction resolves a built-in global function (e.g. "print",
	// "range", "randi") not scoped to any type.
	GlobalFunction(name string) (MemberInfo, bool)

	// GlobalClass reports whether name is a globally available engine
	// singleton or class name usable without qualification.
	GlobalClass(name string) bool

	// IsBuiltin reports whether name is a built-in value type (int, float,
	// String, Vector2, Array, Dictionary, ...) as opposed to an Object
	// subclass.
	IsBuiltin(name string) bool

	// IsEngineType reports whether name originates from the engine rather
	// than from a user script.
	IsEngineType(name string) bool

	// ResolveOperator resolves the result type of `left op right`, when the
	// provider has that operator overload catalogued.
	ResolveOperator(left, op, right string) OperatorResult

	// IteratorElementType resolves the element type yielded by `for x in
	// <containerType>`.
	IteratorElementType(containerType string) (types.Type, bool)

	// IndexerElementType resolves the element type of `containerType[i]`.
	IndexerElementType(containerType string) (types.Type, bool)

	// PackedArrayElementType resolves the element type of a PackedXArray
	// builtin (e.g. "PackedInt32Array" -> int).
	PackedArrayElementType(name string) (types.Type, bool)

	// Category predicates (spec.md §6): cheap classification queries rules
	// use to avoid hard-coding type-name lists of their own.
	IsNumeric(name string) bool
	IsString(name string) bool
	IsVector(name string) bool
	IsIterable(name string) bool
	IsIndexable(name string) bool
	IsNullable(name string) bool
	IsContainer(name string) bool
	IsPackedArray(name string) bool
}

// BaseProvider is an embeddable Provider with conservative "don't know"
// defaults for every method, mirroring the teacher's BaseProvider
// embedding pattern: a concrete provider embeds this and overrides only
// what it actually has data for.
type BaseProvider struct{}

func (BaseProvider) IsKnownType(string) bool                       { return false }
func (BaseProvider) TypeInfo(string) (TypeInfo, bool)               { return TypeInfo{}, false }
func (BaseProvider) BaseType(string) (string, bool)                 { return "", false }
func (BaseProvider) IsAssignableTo(from, to string) bool            { return from == to }
func (BaseProvider) Member(string, string) (MemberInfo, bool)       { return MemberInfo{}, false }
func (BaseProvider) GlobalFunction(string) (MemberInfo, bool)       { return MemberInfo{}, false }
func (BaseProvider) GlobalClass(string) bool                        { return false }
func (BaseProvider) IsBuiltin(string) bool                          { return false }
func (BaseProvider) IsEngineType(string) bool                       { return false }
func (BaseProvider) ResolveOperator(_, _, _ string) OperatorResult  { return OperatorResult{} }
func (BaseProvider) IteratorElementType(string) (types.Type, bool)  { return nil, false }
func (BaseProvider) IndexerElementType(string) (types.Type, bool)   { return nil, false }
func (BaseProvider) PackedArrayElementType(string) (types.Type, bool) {
	return nil, false
}

func (BaseProvider) IsNumeric(string) bool     { return false }
func (BaseProvider) IsString(string) bool      { return false }
func (BaseProvider) IsVector(string) bool      { return false }
func (BaseProvider) IsIterable(string) bool    { return false }
func (BaseProvider) IsIndexable(string) bool   { return false }
func (BaseProvider) IsNullable(string) bool    { return false }
func (BaseProvider) IsContainer(string) bool   { return false }
func (BaseProvider) IsPackedArray(string) bool { return false }

// NullProvider is the explicit "no information available" provider: every
// analysis runs against it, with no type, member or operator information
// beyond what the script itself states (spec.md §6 "must have a usable
// null default").
type NullProvider struct{ BaseProvider }

// CachingProvider wraps another Provider, memoizing TypeInfo and Member
// lookups behind a RWMutex — the composable caching wrapper spec.md §6
// asks for, grounded on the teacher's BaseProvider.cache/cacheMu fields.
type CachingProvider struct {
	inner Provider

	mu         sync.RWMutex
	typeCache  map[string]cachedType
	memberCache map[memberKey]cachedMember
}

type cachedType struct {
	info TypeInfo
	ok   bool
}

type memberKey struct {
	typeName, memberName string
}

type cachedMember struct {
	info MemberInfo
	ok   bool
}

// NewCachingProvider wraps inner with a memoizing cache.
func NewCachingProvider(inner Provider) *CachingProvider {
	return &CachingProvider{
		inner:       inner,
		typeCache:   make(map[string]cachedType),
		memberCache: make(map[memberKey]cachedMember),
	}
}

func (c *CachingProvider) IsKnownType(name string) bool { return c.inner.IsKnownType(name) }

func (c *CachingProvider) TypeInfo(name string) (TypeInfo, bool) {
	c.mu.RLock()
	if v, ok := c.typeCache[name]; ok {
		c.mu.RUnlock()
		return v.info, v.ok
	}
	c.mu.RUnlock()

	info, ok := c.inner.TypeInfo(name)
	c.mu.Lock()
	c.typeCache[name] = cachedType{info: info, ok: ok}
	c.mu.Unlock()
	return info, ok
}

func (c *CachingProvider) BaseType(name string) (string, bool) {
	info, ok := c.TypeInfo(name)
	if !ok {
		return "", false
	}
	return info.Base, info.Base != ""
}

func (c *CachingProvider) IsAssignableTo(from, to string) bool {
	return c.inner.IsAssignableTo(from, to)
}

func (c *CachingProvider) Member(typeName, memberName string) (MemberInfo, bool) {
	key := memberKey{typeName, memberName}
	c.mu.RLock()
	if v, ok := c.memberCache[key]; ok {
		c.mu.RUnlock()
		return v.info, v.ok
	}
	c.mu.RUnlock()

	info, ok := c.inner.Member(typeName, memberName)
	c.mu.Lock()
	c.memberCache[key] = cachedMember{info: info, ok: ok}
	c.mu.Unlock()
	return info, ok
}

func (c *CachingProvider) GlobalFunction(name string) (MemberInfo, bool) {
	return c.inner.GlobalFunction(name)
}
func (c *CachingProvider) GlobalClass(name string) bool { return c.inner.GlobalClass(name) }
func (c *CachingProvider) IsBuiltin(name string) bool   { return c.inner.IsBuiltin(name) }
func (c *CachingProvider) IsEngineType(name string) bool { return c.inner.IsEngineType(name) }
func (c *CachingProvider) ResolveOperator(left, op, right string) OperatorResult {
	return c.inner.ResolveOperator(left, op, right)
}
func (c *CachingProvider) IteratorElementType(t string) (types.Type, bool) {
	return c.inner.IteratorElementType(t)
}
func (c *CachingProvider) IndexerElementType(t string) (types.Type, bool) {
	return c.inner.IndexerElementType(t)
}
func (c *CachingProvider) PackedArrayElementType(name string) (types.Type, bool) {
	return c.inner.PackedArrayElementType(name)
}

func (c *CachingProvider) IsNumeric(name string) bool     { return c.inner.IsNumeric(name) }
func (c *CachingProvider) IsString(name string) bool      { return c.inner.IsString(name) }
func (c *CachingProvider) IsVector(name string) bool      { return c.inner.IsVector(name) }
func (c *CachingProvider) IsIterable(name string) bool    { return c.inner.IsIterable(name) }
func (c *CachingProvider) IsIndexable(name string) bool   { return c.inner.IsIndexable(name) }
func (c *CachingProvider) IsNullable(name string) bool    { return c.inner.IsNullable(name) }
func (c *CachingProvider) IsContainer(name string) bool   { return c.inner.IsContainer(name) }
func (c *CachingProvider) IsPackedArray(name string) bool { return c.inner.IsPackedArray(name) }
