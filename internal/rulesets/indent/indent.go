// Package indent holds the 6xxx-range rules: mixed tabs/spaces and
// inconsistent indentation step (spec.md §4.8, category table "6xxx
// Indentation").
package indent

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/rules"
	"github.com/oxhq/gdlint/internal/token"
)

// mixedTabsSpacesRule flags any INDENT token whose whitespace contains
// both tabs and spaces.
type mixedTabsSpacesRule struct{}

// MixedTabsSpaces is GDL6001, "mixed-tabs-spaces".
var MixedTabsSpaces rules.Rule = mixedTabsSpacesRule{}

func (mixedTabsSpacesRule) Code() string                  { return "GDL6001" }
func (mixedTabsSpacesRule) Name() string                   { return "mixed-tabs-spaces" }
func (mixedTabsSpacesRule) Category() rules.Category       { return rules.CategoryIndentation }
func (mixedTabsSpacesRule) DefaultSeverity() rules.Severity { return rules.SeverityWarning }

func (r mixedTabsSpacesRule) Check(ctx *rules.Context, emit rules.Emitter) {
	forEachIndentToken(ctx.Root, func(tok token.Token) {
		hasTab, hasSpace := false, false
		for i := 0; i < len(tok.Sequence); i++ {
			switch tok.Sequence[i] {
			case '\t':
				hasTab = true
			case ' ':
				hasSpace = true
			}
		}
		if hasTab && hasSpace {
			emit.Emit(rules.Diagnostic{
				Message: "indentation mixes tabs and spaces",
				Range:   tok.Span,
			})
		}
	})
}

// inconsistentStepRule establishes the file's indentation unit from the
// first INDENT it sees and flags any later INDENT whose added width is not
// a multiple of that unit.
type inconsistentStepRule struct{}

// InconsistentStep is GDL6002, "inconsistent-indent-step".
var InconsistentStep rules.Rule = inconsistentStepRule{}

func (inconsistentStepRule) Code() string                  { return "GDL6002" }
func (inconsistentStepRule) Name() string                   { return "inconsistent-indent-step" }
func (inconsistentStepRule) Category() rules.Category       { return rules.CategoryIndentation }
func (inconsistentStepRule) DefaultSeverity() rules.Severity { return rules.SeverityWarning }

func (r inconsistentStepRule) Check(ctx *rules.Context, emit rules.Emitter) {
	unit := 0
	// Each KindBlock's own INDENT width, minus its lexical parent block's
	// width, is that block's step — recursing by CST structure instead of
	// flat token order keeps sibling blocks from polluting each other's
	// parent width.
	walkBlockSteps(ctx.Root, 0, &unit, emit)
}

// walkBlockSteps recurses the CST by structure (not flat token order) so
// each KindBlock's own INDENT token is compared against its lexical
// parent's width rather than the previous token seen anywhere in the file.
func walkBlockSteps(n *cst.Node, parentWidth int, unit *int, emit rules.Emitter) {
	width := parentWidth
	if n.Kind == cst.KindBlock {
		if tok, ok := firstIndentToken(n); ok {
			step := len(tok.Sequence) - parentWidth
			if *unit == 0 {
				*unit = step
			} else if step%*unit != 0 {
				emit.Emit(rules.Diagnostic{
					Message: "indentation step is inconsistent with the file's established unit",
					Range:   tok.Span,
				})
			}
			width = len(tok.Sequence)
		}
	}
	for _, c := range n.Children() {
		walkBlockSteps(c, width, unit, emit)
	}
}

func firstIndentToken(n *cst.Node) (token.Token, bool) {
	for _, te := range n.Tokens() {
		if te.Tok.Kind == token.Indent {
			return te.Tok, true
		}
	}
	return token.Token{}, false
}

// forEachIndentToken walks root and calls fn for every token.Indent-kind
// token found, in source order — used by the mixed-tabs-spaces rule, which
// has no need for nesting-aware width comparisons.
func forEachIndentToken(root *cst.Node, fn func(tok token.Token)) {
	rules.Walk(root, func(n *cst.Node) bool {
		for _, te := range n.Tokens() {
			if te.Tok.Kind == token.Indent {
				fn(te.Tok)
			}
		}
		return true
	})
}

// All is the indent rule-set.
var All = rules.NewRuleSet("indent", MixedTabsSpaces, InconsistentStep)
