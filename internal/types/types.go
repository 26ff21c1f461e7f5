// Package types defines the semantic type values the inference engine
// computes and the three-level confidence it attaches to them
// (spec.md §4.4 "Type model").
package types

import "strings"

// Confidence grades how certain a computed type is. Composition always
// takes the minimum of its inputs: a value built from a Potential and a
// Strict source is itself only Potential.
type Confidence int

const (
	NameMatch Confidence = iota
	Potential
	Strict
)

func (c Confidence) String() string {
	switch c {
	case Strict:
		return "strict"
	case Potential:
		return "potential"
	case NameMatch:
		return "name_match"
	default:
		return "unknown"
	}
}

// Min returns the weaker of two confidence grades — the composition rule
// used whenever a type is derived from more than one source.
func Min(a, b Confidence) Confidence {
	if a < b {
		return a
	}
	return b
}

// Type is the common interface every semantic type value satisfies. String
// renders it in GDScript type-annotation syntax where possible.
type Type interface {
	String() string
	typeMarker()
}

// Concrete is a single named engine or script type (e.g. "int", "Node2D",
// "MyClass").
type Concrete struct {
	Name string
}

func (c *Concrete) String() string { return c.Name }
func (*Concrete) typeMarker()      {}

// Union represents a value that can hold any of Members' types — produced
// by branch merging and ternary expressions (spec.md §4.5 "union
// intersection").
type Union struct {
	Members []Type
	// CommonBase is the narrowest shared ancestor of every member, when the
	// runtime-type provider can establish one (used as a fallback type for
	// member access that all variants satisfy).
	CommonBase string
}

func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
func (*Union) typeMarker() {}

// OperatorRequirement is one binary operator a duck-typed value was
// observed used with, together with the type its other operand had at that
// usage site (spec.md §4.6 "every required operator with its operand type
// constraint").
type OperatorRequirement struct {
	Op      string
	Operand Type
}

// DuckType is a structural constraint set: a value of unknown concrete
// type that is used as if it had the given members (spec.md §4.6).
type DuckType struct {
	RequiredMethods    []string
	RequiredProperties []string
	RequiredSignals    []string
	RequiredOperators  []OperatorRequirement
	// ExcludedTypes were narrowed away (e.g. by an `is` check's negative
	// branch); PossibleTypes is the provider's best-effort candidate list
	// satisfying the structural constraints, when resolved.
	ExcludedTypes []string
	PossibleTypes []string
}

func (d *DuckType) String() string {
	if len(d.RequiredMethods) == 0 && len(d.RequiredProperties) == 0 && len(d.RequiredSignals) == 0 {
		return "<Duck>"
	}
	var parts []string
	for _, m := range d.RequiredMethods {
		parts = append(parts, m+"()")
	}
	parts = append(parts, d.RequiredProperties...)
	return "<Duck: " + strings.Join(parts, ", ") + ">"
}
func (*DuckType) typeMarker() {}

// Container is a typed Array[T] or Dictionary[K,V] (spec.md §3 "type
// nodes ... generic like Array[int], Dictionary[K,V]"). Key is nil for
// Array; Element is the value type for both (Dictionary's "value type").
type Container struct {
	Name    string // "Array" or "Dictionary"
	Key     Type   // nil for Array
	Element Type
}

func (c *Container) String() string {
	if c.Key != nil {
		return c.Name + "[" + c.Key.String() + ", " + c.Element.String() + "]"
	}
	if c.Element != nil {
		return c.Name + "[" + c.Element.String() + "]"
	}
	return c.Name
}
func (*Container) typeMarker() {}

// Nullable wraps a type that may also be null (GDScript has no `?` syntax
// but inference produces this when a variable is assigned `null` on some
// path).
type Nullable struct {
	Inner Type
}

func (n *Nullable) String() string {
	if n.Inner == nil {
		return "null"
	}
	return n.Inner.String() + "?"
}
func (*Nullable) typeMarker() {}

// Variant is GDScript's untyped top type: the fallback when nothing more
// specific can be established.
type Variant struct{}

func (*Variant) String() string { return "Variant" }
func (*Variant) typeMarker()    {}

// Typed pairs a Type with the Confidence it was computed at.
type Typed struct {
	Type       Type
	Confidence Confidence
}

// VariantTyped is a convenience constructor for the common "give up, it's
// Variant" result.
func VariantTyped() Typed {
	return Typed{Type: &Variant{}, Confidence: NameMatch}
}

// Equal reports structural equality for the simple concrete case; used by
// deduplication when building Union members.
func Equal(a, b Type) bool {
	ca, aok := a.(*Concrete)
	cb, bok := b.(*Concrete)
	if aok && bok {
		return ca.Name == cb.Name
	}
	_, aNull := a.(*Nullable)
	_, bNull := b.(*Nullable)
	if aNull && bNull {
		return Equal(a.(*Nullable).Inner, b.(*Nullable).Inner)
	}
	return a == b
}

// NewUnion builds a Union from members, deduplicating by structural
// equality and collapsing a single-member result to that member directly.
func NewUnion(members ...Type) Type {
	var out []Type
	for _, m := range members {
		dup := false
		for _, existing := range out {
			if Equal(existing, m) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return &Union{Members: out}
}
