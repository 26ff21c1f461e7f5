// Package cst implements the concrete syntax tree: a form-based structure
// where every node carries an ordered sequence of child tokens and child
// nodes (its "form"). The form is the single source of truth for both
// byte-exact textual reproduction and structural navigation (I1-I4 in
// spec.md §3).
package cst

import "github.com/oxhq/gdlint/internal/token"

// Kind tags the grammatical role of an interior node. Not exhaustive —
// see spec.md §3 "Concrete node taxonomy".
type Kind int

const (
	KindInvalid Kind = iota
	KindClassDecl
	KindClassNameDecl
	KindExtendsDecl
	KindInnerClassDecl
	KindMethodDecl
	KindVarDecl
	KindConstDecl
	KindPropertyDecl
	KindSignalDecl
	KindEnumDecl
	KindEnumValue
	KindParameter

	KindIfStmt
	KindElifClause
	KindElseClause
	KindForStmt
	KindWhileStmt
	KindMatchStmt
	KindMatchCase
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindPassStmt
	KindAssertStmt
	KindExprStmt
	KindVarStmt
	KindAwaitExpr
	KindBlock

	KindIdentifier
	KindLiteral
	KindUnaryExpr
	KindBinaryExpr
	KindCallExpr
	KindMemberExpr
	KindIndexExpr
	KindArrayExpr
	KindDictExpr
	KindLambdaExpr
	KindTernaryExpr
	KindGetNodeExpr
	KindUniqueNodeExpr
	KindIsExpr
	KindAsExpr
	KindInExpr

	KindAttribute
	KindTypeSimple
	KindTypeGeneric

	KindInvalidWrapper
)

var kindNames = map[Kind]string{
	KindInvalid:        "invalid",
	KindClassDecl:      "class_decl",
	KindClassNameDecl:  "class_name_decl",
	KindExtendsDecl:    "extends_decl",
	KindInnerClassDecl: "inner_class_decl",
	KindMethodDecl:     "method_decl",
	KindVarDecl:        "var_decl",
	KindConstDecl:      "const_decl",
	KindPropertyDecl:   "property_decl",
	KindSignalDecl:     "signal_decl",
	KindEnumDecl:       "enum_decl",
	KindEnumValue:      "enum_value",
	KindParameter:      "parameter",
	KindIfStmt:         "if_stmt",
	KindElifClause:     "elif_clause",
	KindElseClause:     "else_clause",
	KindForStmt:        "for_stmt",
	KindWhileStmt:      "while_stmt",
	KindMatchStmt:      "match_stmt",
	KindMatchCase:      "match_case",
	KindReturnStmt:     "return_stmt",
	KindBreakStmt:      "break_stmt",
	KindContinueStmt:   "continue_stmt",
	KindPassStmt:       "pass_stmt",
	KindAssertStmt:     "assert_stmt",
	KindExprStmt:       "expr_stmt",
	KindVarStmt:        "var_stmt",
	KindAwaitExpr:      "await_expr",
	KindBlock:          "block",
	KindIdentifier:     "identifier",
	KindLiteral:        "literal",
	KindUnaryExpr:      "unary_expr",
	KindBinaryExpr:     "binary_expr",
	KindCallExpr:       "call_expr",
	KindMemberExpr:     "member_expr",
	KindIndexExpr:      "index_expr",
	KindArrayExpr:      "array_expr",
	KindDictExpr:       "dict_expr",
	KindLambdaExpr:     "lambda_expr",
	KindTernaryExpr:    "ternary_expr",
	KindGetNodeExpr:    "get_node_expr",
	KindUniqueNodeExpr: "unique_node_expr",
	KindIsExpr:         "is_expr",
	KindAsExpr:         "as_expr",
	KindInExpr:         "in_expr",
	KindAttribute:      "attribute",
	KindTypeSimple:     "type_simple",
	KindTypeGeneric:    "type_generic",
	KindInvalidWrapper: "invalid_wrapper",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Element is either a *TokenElement (a form leaf wrapping a token.Token) or
// a *Node (a form interior element). Both satisfy Element.
type Element interface {
	elementText() string
	elementSpan() token.Span
}

// TokenElement wraps a token.Token so it can live in a Node's form.
type TokenElement struct {
	Tok token.Token
}

func (t *TokenElement) elementText() string    { return t.Tok.Text() }
func (t *TokenElement) elementSpan() token.Span { return t.Tok.Span }

// NewToken wraps a token for insertion into a form.
func NewToken(tok token.Token) *TokenElement { return &TokenElement{Tok: tok} }

// Node is an interior CST element: a kind tag plus an ordered form of
// children (mixed tokens and nodes). Named accessors read form positions
// that the constructing parser records in Attrs. InsertBefore, InsertAfter
// and Remove do not update those recorded positions, so after an insertion
// or removal at or before a recorded position the accessor no longer
// points at the element it named.
type Node struct {
	Kind   Kind
	form   []Element
	parent *Node // weak back-reference, not an ownership edge (§4.2 "Cyclic and back references")

	// Attrs carries small named-accessor metadata a concrete node kind
	// wants to expose without re-deriving it from the form on every call
	// (e.g. which form index is "the name token"). Keys are kind-specific.
	Attrs map[string]int
}

func NewNode(kind Kind) *Node {
	return &Node{Kind: kind, Attrs: map[string]int{}}
}

func (n *Node) elementText() string {
	return n.ToText()
}

func (n *Node) elementSpan() token.Span {
	if len(n.form) == 0 {
		return token.Span{}
	}
	first := n.form[0].elementSpan()
	last := n.form[len(n.form)-1].elementSpan()
	return token.Span{Start: first.Start, End: last.End}
}

// Parent returns the node's weak back-reference, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Form returns the node's ordered child sequence (tokens interleaved with
// nodes). Callers must not mutate the returned slice directly — use
// InsertBefore/InsertAfter/Remove (I3).
func (n *Node) Form() []Element { return n.form }

// Span derives the node's source span from its first and last form
// elements — positions are always computable, never required to be cached
// (spec.md §3 "Source span").
func (n *Node) Span() token.Span { return n.elementSpan() }

// ToText concatenates every form element's text in order. For any
// successfully-parsed node this equals the exact source substring it
// covers (I1).
func (n *Node) ToText() string {
	var b []byte
	for _, el := range n.form {
		b = append(b, el.elementText()...)
	}
	return string(b)
}

// Append adds a child to the end of the form, adopting it if it is a node.
func (n *Node) Append(el Element) {
	if child, ok := el.(*Node); ok {
		child.parent = n
	}
	n.form = append(n.form, el)
}

// InsertBefore inserts newEl immediately before anchor in the form. If
// anchor is not found, newEl is appended. This and InsertAfter/Remove are
// the only sanctioned structural mutation primitives (I3).
func (n *Node) InsertBefore(newEl, anchor Element) {
	idx := n.indexOf(anchor)
	if idx < 0 {
		n.Append(newEl)
		return
	}
	n.insertAt(idx, newEl)
}

// InsertAfter inserts newEl immediately after anchor in the form.
func (n *Node) InsertAfter(newEl, anchor Element) {
	idx := n.indexOf(anchor)
	if idx < 0 {
		n.Append(newEl)
		return
	}
	n.insertAt(idx+1, newEl)
}

// Remove deletes el from the form, if present.
func (n *Node) Remove(el Element) {
	idx := n.indexOf(el)
	if idx < 0 {
		return
	}
	if child, ok := n.form[idx].(*Node); ok {
		child.parent = nil
	}
	n.form = append(n.form[:idx], n.form[idx+1:]...)
}

func (n *Node) indexOf(el Element) int {
	for i, e := range n.form {
		if e == el {
			return i
		}
	}
	return -1
}

func (n *Node) insertAt(idx int, el Element) {
	if child, ok := el.(*Node); ok {
		child.parent = n
	}
	n.form = append(n.form, nil)
	copy(n.form[idx+1:], n.form[idx:])
	n.form[idx] = el
}

// Children returns only the *Node elements of the form, in order,
// skipping trivia tokens — the projection walk_in uses internally.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, el := range n.form {
		if child, ok := el.(*Node); ok {
			out = append(out, child)
		}
	}
	return out
}

// Tokens returns only the *TokenElement leaves of the form, in order.
func (n *Node) Tokens() []*TokenElement {
	var out []*TokenElement
	for _, el := range n.form {
		if tok, ok := el.(*TokenElement); ok {
			out = append(out, tok)
		}
	}
	return out
}

// Clone produces an independent subtree sharing no identity with the
// original — a fresh *Node graph with copied tokens.
func (n *Node) Clone() *Node {
	clone := &Node{Kind: n.Kind, Attrs: map[string]int{}}
	for k, v := range n.Attrs {
		clone.Attrs[k] = v
	}
	for _, el := range n.form {
		switch v := el.(type) {
		case *TokenElement:
			clone.Append(NewToken(v.Tok))
		case *Node:
			clone.Append(v.Clone())
		}
	}
	return clone
}
