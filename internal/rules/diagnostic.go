// Package rules implements the rule framework and diagnostic taxonomy
// (spec.md §4.8): a Rule is a CST-visiting object with a category, code,
// default severity, and an emit callback; rules are composed into named
// rule-sets and gated by configuration and suppression pragmas.
package rules

import (
	"fmt"

	"github.com/oxhq/gdlint/internal/token"
)

// Severity mirrors the teacher's Status-style enum
// (termfx-morfx internal/core/types.go Status) but for per-diagnostic
// levels rather than whole-operation outcomes.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityHint    Severity = "hint"
	SeverityInfo    Severity = "info"
)

// Category groups diagnostic codes into the ranges spec.md §4.8 assigns
// (1xxx syntax ... 8xxx abstractness, plus the non-numeric L/F series).
type Category string

const (
	CategorySyntax       Category = "syntax"       // 1xxx
	CategoryScope        Category = "scope"        // 2xxx
	CategoryTypes        Category = "types"        // 3xxx
	CategoryCalls        Category = "calls"        // 4xxx
	CategoryFlow         Category = "flow"         // 5xxx
	CategoryIndentation  Category = "indentation"  // 6xxx
	CategoryDuckTyping   Category = "duck_typing"  // 7xxx
	CategoryAbstractness Category = "abstractness" // 8xxx
	CategoryStyle        Category = "style"        // L-series
	CategoryFormat       Category = "format"       // F-series
)

// Range returns the diagnostic-code prefix that identifies c, matching the
// table in spec.md §4.8.
func (c Category) Range() string {
	switch c {
	case CategorySyntax:
		return "1"
	case CategoryScope:
		return "2"
	case CategoryTypes:
		return "3"
	case CategoryCalls:
		return "4"
	case CategoryFlow:
		return "5"
	case CategoryIndentation:
		return "6"
	case CategoryDuckTyping:
		return "7"
	case CategoryAbstractness:
		return "8"
	case CategoryStyle:
		return "L"
	case CategoryFormat:
		return "F"
	default:
		return "0"
	}
}

// Diagnostic is a single rule violation (spec.md §4.8 "Diagnostic model").
// It carries both the primary range and any secondary ranges a rule wants
// to point at (e.g. the original declaration in a duplicate-name report).
type Diagnostic struct {
	Code       string
	Name       string
	Category   Category
	Severity   Severity
	Message    string
	Range      token.Span
	Secondary  []token.Span
	RuleName   string
}

// String renders the default user-visible form (spec.md §7
// "<severity> <code>: <message> (<line>:<column>)").
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s (%d:%d)", d.Severity, d.Code, d.Message,
		d.Range.Start.Line, d.Range.Start.Column)
}

// Detailed renders the form that additionally reports the end position.
func (d Diagnostic) Detailed() string {
	return fmt.Sprintf("%s %s: %s (%d:%d-%d:%d)", d.Severity, d.Code, d.Message,
		d.Range.Start.Line, d.Range.Start.Column, d.Range.End.Line, d.Range.End.Column)
}

// Result collects every diagnostic produced for one file and supports the
// severity filtering spec.md §4.8 requires.
type Result struct {
	Diagnostics []Diagnostic
}

// FilterSeverity returns only the diagnostics at or above the given
// minimum severity, in their original (source) order.
func (r Result) FilterSeverity(min Severity) []Diagnostic {
	rank := map[Severity]int{SeverityInfo: 0, SeverityHint: 1, SeverityWarning: 2, SeverityError: 3}
	out := make([]Diagnostic, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		if rank[d.Severity] >= rank[min] {
			out = append(out, d)
		}
	}
	return out
}

// CountBySeverity tallies diagnostics per severity, for exit-code policy
// decisions left to the caller (spec.md §7 "Exit codes are the caller's
// concern; the core exposes counts").
func (r Result) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{}
	for _, d := range r.Diagnostics {
		counts[d.Severity]++
	}
	return counts
}
