// Package style holds the L-series rules: naming convention and unused
// declarations (spec.md §4.8, category table "L-series Style").
package style

import (
	"github.com/oxhq/gdlint/internal/config"
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/rules"
	gdscope "github.com/oxhq/gdlint/internal/scope"
	"github.com/oxhq/gdlint/internal/token"
)

// Options carries the config.Config fields these rules consult; rules in
// this package take it via a constructor instead of ctx, since naming
// convention is caller-configured rather than derived from the file.
type Options struct {
	Naming config.NamingConvention
}

// namingCaseRule flags a declared symbol whose name does not match the
// configured case convention for its symbol kind.
type namingCaseRule struct {
	opts Options
}

// NewNamingCase builds the naming-case rule bound to opts.
func NewNamingCase(opts Options) rules.Rule { return namingCaseRule{opts: opts} }

func (namingCaseRule) Code() string                  { return "GDL-L001" }
func (namingCaseRule) Name() string                   { return "naming-case" }
func (namingCaseRule) Category() rules.Category       { return rules.CategoryStyle }
func (namingCaseRule) DefaultSeverity() rules.Severity { return rules.SeverityWarning }

func (r namingCaseRule) Check(ctx *rules.Context, emit rules.Emitter) {
	if ctx.Scope == nil {
		return
	}
	var walk func(s *gdscope.Scope)
	walk = func(s *gdscope.Scope) {
		for _, name := range s.Order {
			sym := s.Symbols[name]
			kindName := symbolKindName(sym.Kind)
			want, ok := r.opts.Naming[kindName]
			if !ok || want == config.CaseAny {
				continue
			}
			if !matchesCase(name, want) {
				emit.Emit(rules.Diagnostic{
					Message: "\"" + name + "\" does not match the " + string(want) + " naming convention for " + kindName,
					Range:   nodeSpan(sym.DeclNode),
				})
			}
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(ctx.Scope)
}

func symbolKindName(k gdscope.SymbolKind) string {
	switch k {
	case gdscope.SymVariable:
		return "variable"
	case gdscope.SymConstant:
		return "constant"
	case gdscope.SymParameter:
		return "parameter"
	case gdscope.SymFunction:
		return "function"
	case gdscope.SymSignal:
		return "signal"
	case gdscope.SymEnumValue:
		return "enum_value"
	case gdscope.SymEnumType:
		return "enum_type"
	case gdscope.SymClassName:
		return "class_name"
	case gdscope.SymInnerClass:
		return "inner_class"
	case gdscope.SymProperty:
		return "property"
	default:
		return ""
	}
}

func matchesCase(name string, want config.NamingCase) bool {
	if name == "" {
		return true
	}
	switch want {
	case config.CaseSnake:
		return isLowerWithUnderscores(name)
	case config.CaseScreamingSnake:
		return isUpperWithUnderscores(name)
	case config.CasePascal:
		return isUpper(rune(name[0])) && !containsUnderscore(name)
	case config.CaseCamel:
		return isLower(rune(name[0])) && !containsUnderscore(name)
	default:
		return true
	}
}

func isLowerWithUnderscores(s string) bool {
	for _, r := range s {
		if r == '_' || (r >= '0' && r <= '9') {
			continue
		}
		if !isLower(r) {
			return false
		}
	}
	return true
}

func isUpperWithUnderscores(s string) bool {
	for _, r := range s {
		if r == '_' || (r >= '0' && r <= '9') {
			continue
		}
		if !isUpper(r) {
			return false
		}
	}
	return true
}

func containsUnderscore(s string) bool {
	for _, r := range s {
		if r == '_' {
			return true
		}
	}
	return false
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

func nodeSpan(n *cst.Node) token.Span {
	if n == nil {
		return token.Span{}
	}
	return n.Span()
}

// All builds the style rule-set bound to opts.
func All(opts Options) *rules.RuleSet {
	return rules.NewRuleSet("style", NewNamingCase(opts), UnusedVariable)
}
