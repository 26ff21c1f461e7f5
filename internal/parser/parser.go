// Package parser implements the one-pass streaming GDScript parser
// (spec.md §4.1): a lexer driving a reader driving a small set of
// recursive-descent resolvers, producing a byte-exact cst.Node tree.
package parser

import "github.com/oxhq/gdlint/internal/cst"

// Parser holds the resolver stack's shared reading state. All resolver
// methods hang off *Parser so they share the one reader.
type Parser struct {
	r *reader
}

// Parse parses source into a root class-declaration node using the default
// depth limit.
func Parse(source string) (*cst.Node, error) {
	return ParseWithDepth(source, 0)
}

// ParseWithDepth parses source, failing with *parsefail.StackOverflow if
// resolver nesting exceeds maxDepth (0 selects the default).
func ParseWithDepth(source string, maxDepth int) (*cst.Node, error) {
	p := &Parser{r: newReader(source, maxDepth)}
	return p.parseClassBody()
}
