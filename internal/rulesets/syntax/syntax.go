// Package syntax holds the 1xxx-range rules: diagnostics for input the
// parser could not fit into a well-formed construct (spec.md §4.8,
// category table "1xxx Syntax").
package syntax

import (
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/rules"
)

// invalidTokenRule flags every cst.KindInvalidWrapper node the parser
// produced — each one is a single token the grammar could not accept at
// the point it appeared (spec.md §4.1 "Error recovery").
type invalidTokenRule struct{}

// InvalidToken is GDL1001, "invalid-token".
var InvalidToken rules.Rule = invalidTokenRule{}

func (invalidTokenRule) Code() string               { return "GDL1001" }
func (invalidTokenRule) Name() string                { return "invalid-token" }
func (invalidTokenRule) Category() rules.Category    { return rules.CategorySyntax }
func (invalidTokenRule) DefaultSeverity() rules.Severity { return rules.SeverityError }

func (r invalidTokenRule) Check(ctx *rules.Context, emit rules.Emitter) {
	rules.Walk(ctx.Root, func(n *cst.Node) bool {
		if n.Kind == cst.KindInvalidWrapper {
			emit.Emit(rules.Diagnostic{
				Message: "unexpected token " + trimmed(n.ToText()),
				Range:   n.Span(),
			})
			return false
		}
		return true
	})
}

func trimmed(s string) string {
	if len(s) > 24 {
		return s[:24] + "..."
	}
	return s
}

// unterminatedStringRule flags string tokens the lexer had to stop early
// because a closing quote never appeared before end of line.
type unterminatedStringRule struct{}

// UnterminatedString is GDL1002, "unterminated-string".
var UnterminatedString rules.Rule = unterminatedStringRule{}

func (unterminatedStringRule) Code() string               { return "GDL1002" }
func (unterminatedStringRule) Name() string                { return "unterminated-string" }
func (unterminatedStringRule) Category() rules.Category    { return rules.CategorySyntax }
func (unterminatedStringRule) DefaultSeverity() rules.Severity { return rules.SeverityError }

func (r unterminatedStringRule) Check(ctx *rules.Context, emit rules.Emitter) {
	rules.Walk(ctx.Root, func(n *cst.Node) bool {
		if n.Kind != cst.KindLiteral {
			return true
		}
		for _, te := range n.Tokens() {
			text := te.Tok.Sequence
			if len(text) == 0 {
				continue
			}
			quote := text[0]
			if quote != '"' && quote != '\'' {
				continue
			}
			if len(text) < 2 || text[len(text)-1] != quote {
				emit.Emit(rules.Diagnostic{
					Message: "unterminated string literal",
					Range:   te.Tok.Span,
				})
			}
		}
		return true
	})
}

// All is the syntax rule-set.
var All = rules.NewRuleSet("syntax", InvalidToken, UnterminatedString)
