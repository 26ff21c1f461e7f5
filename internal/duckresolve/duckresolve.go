// Package duckresolve resolves duck-type structural constraints against a
// runtime-type provider's catalog, producing concrete candidate types
// (spec.md §4.6). It exists separately from internal/infer because
// candidate resolution is a catalog-wide search, not a per-expression rule.
package duckresolve

import (
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/types"
)

// baseObjectMembers are members every Object subclass inherits; a duck
// type built from usage alone must not credit a candidate for satisfying
// these, since every type trivially does (spec.md §4.6 "duck typing must
// exclude members the provider says are base-object-universal").
var baseObjectMembers = map[string]bool{
	"get_class": true, "is_class": true, "free": true, "queue_free": true,
	"connect": true, "disconnect": true, "is_connected": true,
	"get_instance_id": true, "notification": true, "to_string": true,
	"set": true, "get": true, "has_method": true, "call": true, "call_deferred": true,
}

// Resolve searches p's known types for candidates satisfying d's structural
// requirements (methods, properties, signals), excluding base-object
// members from consideration and excluding any type already listed in
// d.ExcludedTypes (narrowed away on a prior branch).
func Resolve(p provider.Provider, d *types.DuckType, universe []string) *types.DuckType {
	requiredMethods := filterBase(d.RequiredMethods)
	requiredProps := filterBase(d.RequiredProperties)

	excluded := map[string]bool{}
	for _, t := range d.ExcludedTypes {
		excluded[t] = true
	}

	var possible []string
	for _, candidate := range universe {
		if excluded[candidate] {
			continue
		}
		if satisfies(p, candidate, requiredMethods, provider.MemberMethod) &&
			satisfies(p, candidate, requiredProps, provider.MemberProperty) &&
			satisfies(p, candidate, d.RequiredSignals, provider.MemberSignal) &&
			satisfiesOperators(p, candidate, d.RequiredOperators) {
			possible = append(possible, candidate)
		}
	}

	return &types.DuckType{
		RequiredMethods:    requiredMethods,
		RequiredProperties: requiredProps,
		RequiredSignals:    d.RequiredSignals,
		RequiredOperators:  d.RequiredOperators,
		ExcludedTypes:      d.ExcludedTypes,
		PossibleTypes:      possible,
	}
}

func filterBase(members []string) []string {
	var out []string
	for _, m := range members {
		if !baseObjectMembers[m] {
			out = append(out, m)
		}
	}
	return out
}

func satisfies(p provider.Provider, typeName string, names []string, kind provider.MemberKind) bool {
	for _, name := range names {
		info, ok := p.Member(typeName, name)
		if !ok || info.Kind != kind {
			return false
		}
	}
	return true
}

// satisfiesOperators reports whether candidate resolves every required
// operator against the operand type it was observed with. A requirement
// whose operand never pinned down to a concrete type is skipped — there is
// nothing concrete to check the candidate against.
func satisfiesOperators(p provider.Provider, candidate string, reqs []types.OperatorRequirement) bool {
	for _, req := range reqs {
		operand, ok := req.Operand.(*types.Concrete)
		if !ok {
			continue
		}
		if !p.ResolveOperator(candidate, req.Op, operand.Name).Known {
			return false
		}
	}
	return true
}
