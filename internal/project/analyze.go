package project

import (
	"github.com/oxhq/gdlint/internal/infer"
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/rules"
	"github.com/oxhq/gdlint/internal/scope"
)

// classProvider layers locally declared class_name scripts on top of an
// inner runtime-type provider, so inference and rules can resolve a type
// declared in one file while analyzing another (spec.md §6 "supply
// ... user-defined classes from other scripts ... through the same
// runtime-type provider abstraction").
type classProvider struct {
	provider.Provider
	classes map[string]*Script
}

func (c *classProvider) IsKnownType(name string) bool {
	if _, ok := c.classes[name]; ok {
		return true
	}
	return c.Provider.IsKnownType(name)
}

func (c *classProvider) TypeInfo(name string) (provider.TypeInfo, bool) {
	if sc, ok := c.classes[name]; ok {
		return provider.TypeInfo{Name: name, Base: sc.Extends, IsEngine: false}, true
	}
	return c.Provider.TypeInfo(name)
}

func (c *classProvider) BaseType(name string) (string, bool) {
	if sc, ok := c.classes[name]; ok {
		return sc.Extends, sc.Extends != ""
	}
	return c.Provider.BaseType(name)
}

func (c *classProvider) IsAssignableTo(from, to string) bool {
	if from == to {
		return true
	}
	seen := map[string]bool{}
	for cur := from; cur != "" && !seen[cur]; {
		seen[cur] = true
		if cur == to {
			return true
		}
		if sc, ok := c.classes[cur]; ok {
			cur = sc.Extends
			continue
		}
		return c.Provider.IsAssignableTo(cur, to)
	}
	return false
}

func (c *classProvider) Member(typeName, memberName string) (provider.MemberInfo, bool) {
	if sc, ok := c.classes[typeName]; ok && sc.Scope != nil {
		if sym := sc.Scope.LookupLocal(memberName); sym != nil {
			return memberFromSymbol(sym), true
		}
		if sc.Extends != "" {
			return c.Member(sc.Extends, memberName)
		}
		return provider.MemberInfo{}, false
	}
	return c.Provider.Member(typeName, memberName)
}

// AnalysisResult is what analyze_all returns: the stamped run and each
// loaded script's diagnostics, keyed by canonical path.
type AnalysisResult struct {
	Run         AnalysisRun
	Diagnostics map[string]rules.Result
}

// AnalyzeAll runs ruleSet against every loaded script (spec.md §4.9
// "analyze_all(providers)"), composing a cross-file class-name provider
// over base so member/type lookups can cross script boundaries. It
// returns one rules.Result per script plus a fresh run id.
func (p *Project) AnalyzeAll(base provider.Provider, ruleSet *rules.RuleSet, overrides map[string]rules.SeverityOverride) *AnalysisResult {
	prov := &classProvider{Provider: base, classes: p.classScripts()}
	engine := infer.New(prov)

	result := &AnalysisResult{Run: NewAnalysisRun(), Diagnostics: map[string]rules.Result{}}
	for _, sc := range p.Scripts() {
		if sc.Root == nil {
			continue
		}
		ctx := &rules.Context{Root: sc.Root, Scope: sc.Scope, Engine: engine}
		result.Diagnostics[sc.Path] = rules.Run(ruleSet, ctx, sc.Suppress, overrides)
	}
	return result
}

func memberFromSymbol(sym *scope.Symbol) provider.MemberInfo {
	kind := provider.MemberProperty
	switch sym.Kind {
	case scope.SymFunction:
		kind = provider.MemberMethod
	case scope.SymSignal:
		kind = provider.MemberSignal
	case scope.SymConstant, scope.SymEnumValue:
		kind = provider.MemberConstant
	}
	return provider.MemberInfo{
		Name: sym.Name,
		Kind: kind,
		Type: infer.TypeFromNode(sym.DeclaredType),
	}
}
