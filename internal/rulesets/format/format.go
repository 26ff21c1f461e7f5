// Package format implements F-series formatting rules (spec.md §4.8,
// category table "F-series Formatting"). Format renders a canonical
// re-indented form of a parsed file; the accompanying idempotence rule
// reports a diff-bearing diagnostic instead of a silent rewrite (see
// SPEC_FULL.md §3 "Formatter idempotence diagnostics").
package format

import (
	"strings"

	"github.com/oxhq/gdlint/internal/config"
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/token"
)

// Format renders root's text with every INDENT token's whitespace
// rewritten to the configured indentation style/size, leaving every other
// byte (including comments, blank lines, and trailing newlines) untouched.
// Non-goal: this is not a full pretty-printer — wrapping, blank-line
// collapsing, and token-hint insertion are out of scope here (spec.md §1
// Non-goals "no comment-losing reformatting").
func Format(root *cst.Node, cfg config.Config) string {
	var b strings.Builder
	renderNode(&b, root, 0, cfg)
	return b.String()
}

func unit(cfg config.Config) string {
	if cfg.Indentation.Style == config.IndentTabs {
		return "\t"
	}
	size := cfg.Indentation.Size
	if size <= 0 {
		size = 4
	}
	return strings.Repeat(" ", size)
}

func renderNode(b *strings.Builder, n *cst.Node, depth int, cfg config.Config) {
	childDepth := depth
	if n.Kind == cst.KindBlock {
		childDepth = depth + 1
	}
	for _, el := range n.Form() {
		switch v := el.(type) {
		case *cst.TokenElement:
			renderToken(b, v.Tok, n.Kind, depth, cfg)
		case *cst.Node:
			renderNode(b, v, childDepth, cfg)
		}
	}
}

func renderToken(b *strings.Builder, tok token.Token, ownerKind cst.Kind, depth int, cfg config.Config) {
	b.WriteString(tok.Lead)
	if tok.Kind == token.Indent && ownerKind == cst.KindBlock {
		b.WriteString(strings.Repeat(unit(cfg), depth+1))
		return
	}
	b.WriteString(tok.Sequence)
}
