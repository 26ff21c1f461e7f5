package rules

import (
	"sort"

	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/infer"
	"github.com/oxhq/gdlint/internal/scope"
	"github.com/oxhq/gdlint/internal/suppress"
)

// Context bundles everything a rule needs to visit a file: the parsed
// tree, the declaration scope tree built over it, and the inference
// engine wired to a runtime-type provider. Rules consume this model; they
// never re-parse (spec.md §4.8 "Rules consume the annotated tree and the
// semantic model; they do not re-parse").
type Context struct {
	Root   *cst.Node
	Scope  *scope.Scope
	Engine *infer.Engine

	// Narrow maps a CST node to the flow-narrowing context in effect inside
	// it — the accumulated refinements from every enclosing if/elif/else/
	// while branch (spec.md §4.5). Run populates it once per Context before
	// any rule runs; rules should look a node up in it instead of starting
	// every InferExpr call from an empty context.
	Narrow NarrowIndex
}

// Emitter is passed to a Rule's Check so it can report zero or more
// diagnostics without needing to know about suppression, ordering, or
// collection — those are the registry's job.
type Emitter struct {
	out *[]Diagnostic
}

// Emit appends a diagnostic to the underlying result.
func (e Emitter) Emit(d Diagnostic) {
	*e.out = append(*e.out, d)
}

// Rule is a CST-visiting object with a category, code, default severity,
// and an emit callback (spec.md §4.8 "Rule base").
type Rule interface {
	Code() string
	Name() string
	Category() Category
	DefaultSeverity() Severity
	Check(ctx *Context, emit Emitter)
}

// RuleSet is a named, ordered collection of rules — spec.md's "validator,
// linter, formatter" groupings are each a RuleSet built from a subset of
// the catalogue.
type RuleSet struct {
	Name  string
	rules []Rule
}

// NewRuleSet builds a named rule-set from the given rules, in registration
// order — that order is preserved as the tie-break for same-position
// diagnostics (spec.md §5 "their order is their registration order
// (stable)").
func NewRuleSet(name string, rs ...Rule) *RuleSet {
	return &RuleSet{Name: name, rules: rs}
}

// Rules returns the rule-set's rules in registration order.
func (rs *RuleSet) Rules() []Rule { return rs.rules }

// SeverityOverride lets configuration enable/disable a rule or override
// its severity, keyed by rule code or name (spec.md §6 "Rule enable/disable
// and severity overrides keyed by rule id").
type SeverityOverride struct {
	Disabled bool
	Severity Severity
}

// Run executes every rule in rs against ctx, applies severity overrides,
// drops suppressed diagnostics via sup, and returns the result sorted by
// source position with registration order as the stable tie-break
// (spec.md §5 "Ordering guarantees").
func Run(rs *RuleSet, ctx *Context, sup *suppress.Table, overrides map[string]SeverityOverride) Result {
	if ctx.Narrow == nil && ctx.Engine != nil {
		ctx.Narrow = BuildNarrowIndex(ctx.Root, ctx.Scope, ctx.Engine)
	}

	var all []Diagnostic
	for i, r := range rs.rules {
		if ov, ok := lookupOverride(overrides, r); ok && ov.Disabled {
			continue
		}
		var local []Diagnostic
		r.Check(ctx, Emitter{out: &local})
		for _, d := range local {
			d.RuleName = r.Name()
			if d.Code == "" {
				d.Code = r.Code()
			}
			if d.Category == "" {
				d.Category = r.Category()
			}
			if d.Severity == "" {
				d.Severity = r.DefaultSeverity()
			}
			if ov, ok := lookupOverride(overrides, r); ok && ov.Severity != "" {
				d.Severity = ov.Severity
			}
			if sup != nil && (sup.IsSuppressed(d.Code, d.Range.Start.Line) || sup.IsSuppressed(d.RuleName, d.Range.Start.Line)) {
				continue
			}
			all = append(all, d)
		}
	}

	// Rules run in registration order above, so all is already in
	// registration order; SliceStable preserves that as the tie-break
	// when sorting by source position (spec.md §5).
	sort.SliceStable(all, func(a, b int) bool {
		da, db := all[a], all[b]
		if da.Range.Start.Line != db.Range.Start.Line {
			return da.Range.Start.Line < db.Range.Start.Line
		}
		return da.Range.Start.Column < db.Range.Start.Column
	})
	return Result{Diagnostics: all}
}

func lookupOverride(overrides map[string]SeverityOverride, r Rule) (SeverityOverride, bool) {
	if overrides == nil {
		return SeverityOverride{}, false
	}
	if ov, ok := overrides[r.Code()]; ok {
		return ov, true
	}
	if ov, ok := overrides[r.Name()]; ok {
		return ov, true
	}
	return SeverityOverride{}, false
}
