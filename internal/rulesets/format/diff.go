package format

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/gdlint/internal/config"
	"github.com/oxhq/gdlint/internal/rules"
)

// idempotenceRule re-renders the file through Format and, if the result
// differs from the original text, emits a single diagnostic carrying a
// unified diff of what formatting would change — rather than silently
// rewriting (grounded on go-difflib, already part of the teacher's stack
// for diff-based test assertions in internal/util/util.go).
type idempotenceRule struct {
	cfg config.Config
}

// NewIdempotence builds the formatter-idempotence rule bound to cfg.
func NewIdempotence(cfg config.Config) rules.Rule { return idempotenceRule{cfg: cfg} }

func (idempotenceRule) Code() string                  { return "GDL-F001" }
func (idempotenceRule) Name() string                   { return "format-idempotence" }
func (idempotenceRule) Category() rules.Category       { return rules.CategoryFormat }
func (idempotenceRule) DefaultSeverity() rules.Severity { return rules.SeverityHint }

func (r idempotenceRule) Check(ctx *rules.Context, emit rules.Emitter) {
	original := ctx.Root.ToText()
	formatted := Format(ctx.Root, r.cfg)
	if formatted == original {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(formatted),
		FromFile: "current",
		ToFile:   "formatted",
		Context:  2,
	})
	if err != nil {
		diff = ""
	}
	emit.Emit(rules.Diagnostic{
		Message: "formatting this file would change its content:\n" + diff,
		Range:   ctx.Root.Span(),
	})
}

// All builds the format rule-set bound to cfg.
func All(cfg config.Config) *rules.RuleSet {
	return rules.NewRuleSet("format", NewIdempotence(cfg))
}
