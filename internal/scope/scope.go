// Package scope builds the scope tree and declaration table used by
// inference and rules: one Scope per class body, function body, and
// indentation block, each holding the symbols declared directly in it
// (spec.md §4.3 "Scope tree").
package scope

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/token"
)

// Kind classifies a scope's grammatical origin.
type Kind int

const (
	KindFile Kind = iota
	KindClass
	KindFunction
	KindBlock
	KindLambda
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindBlock:
		return "block"
	case KindLambda:
		return "lambda"
	default:
		return "unknown"
	}
}

// SymbolKind classifies what a declaration introduces.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymConstant
	SymParameter
	SymFunction
	SymSignal
	SymEnumValue
	SymEnumType
	SymClassName
	SymInnerClass
	SymProperty
)

// Symbol is one name bound in a scope.
type Symbol struct {
	Name         string
	Kind         SymbolKind
	DeclNode     *cst.Node // the declaration's CST node
	DeclaredType *cst.Node // the type annotation node, if any (nil when untyped/inferred)
	Position     token.Position
	Scope        *Scope // the scope this symbol is visible in (its declaring scope)
}

// Scope is one node of the scope tree. Symbols maps each name bound
// directly in this scope to its first declaration. For a class scope all
// members are visible throughout the class body regardless of textual
// order (S1 "class-level forward references"). Lookup does not take source
// position into account, so a local name in a function or block scope
// also resolves at uses that come before its declaration.
type Scope struct {
	Kind     Kind
	Node     *cst.Node
	Parent   *Scope
	Children []*Scope
	Symbols  map[string]*Symbol
	// Order records every declared name in declaration order, in every
	// kind of scope, including a repeated name whose Declare returned false.
	Order []string
}

func newScope(kind Kind, node *cst.Node, parent *Scope) *Scope {
	s := &Scope{Kind: kind, Node: node, Parent: parent, Symbols: map[string]*Symbol{}}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Declare adds a symbol to s, returning false if the name is already bound
// directly in this scope (redeclaration — a caller-level diagnostic
// concern, not a collector error). The first binding wins in Symbols, but
// Order still records the later name so a rule walking Order can find and
// report the discarded redeclaration.
func (s *Scope) Declare(sym *Symbol) bool {
	if _, exists := s.Symbols[sym.Name]; exists {
		s.Order = append(s.Order, sym.Name)
		return false
	}
	sym.Scope = s
	s.Symbols[sym.Name] = sym
	s.Order = append(s.Order, sym.Name)
	return true
}

// Lookup resolves name starting at s and walking outward through parent
// scopes, implementing lexical shadowing (innermost binding wins).
func (s *Scope) Lookup(name string) *Symbol {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.Symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal resolves name only within s itself, without walking parents.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.Symbols[name]
}

// IsDescendantOf reports whether s is scope target or nested inside it.
func (s *Scope) IsDescendantOf(target *Scope) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur == target {
			return true
		}
	}
	return false
}
