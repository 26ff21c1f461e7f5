package infer

import "github.com/oxhq/gdlint/internal/types"

// NarrowingContext carries per-branch type refinements that mirror the
// CST's branch structure (spec.md §4.5): entering an `if`/`elif`/`match`
// branch pushes a child context seeded with whatever the condition
// establishes; leaving the branch discards it. Lookups fall through to
// parent contexts, then to the declared type.
type NarrowingContext struct {
	parent *NarrowingContext
	bindings map[string]types.Typed
}

// NewNarrowingContext returns an empty root context.
func NewNarrowingContext() *NarrowingContext {
	return &NarrowingContext{bindings: map[string]types.Typed{}}
}

// Push returns a child context that inherits parent's bindings until
// overridden.
func (c *NarrowingContext) Push() *NarrowingContext {
	return &NarrowingContext{parent: c, bindings: map[string]types.Typed{}}
}

// Narrow records that name is refined to t within this context.
func (c *NarrowingContext) Narrow(name string, t types.Typed) {
	c.bindings[name] = t
}

// Lookup resolves name, walking outward through parent contexts.
func (c *NarrowingContext) Lookup(name string) (types.Typed, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if t, ok := cur.bindings[name]; ok {
			return t, true
		}
	}
	return types.Typed{}, false
}

// Merge combines sibling branch contexts at a join point (spec.md §4.5
// "merge-on-join"): a name narrowed identically in every branch keeps that
// narrowing; otherwise its possible-type sets union and its required-method
// sets intersect, and a name missing from any branch is dropped entirely
// (it reverts to whatever the enclosing scope/provider says).
func Merge(branches ...*NarrowingContext) *NarrowingContext {
	merged := NewNarrowingContext()
	if len(branches) == 0 {
		return merged
	}
	names := map[string]bool{}
	for _, b := range branches {
		for n := range b.bindings {
			names[n] = true
		}
	}
	for name := range names {
		var vals []types.Typed
		allHave := true
		for _, b := range branches {
			v, ok := b.bindings[name]
			if !ok {
				allHave = false
				break
			}
			vals = append(vals, v)
		}
		if !allHave || len(vals) == 0 {
			continue
		}
		merged.bindings[name] = mergeTyped(vals)
	}
	return merged
}

func mergeTyped(vals []types.Typed) types.Typed {
	if len(vals) == 1 {
		return vals[0]
	}
	conf := vals[0].Confidence
	members := make([]types.Type, 0, len(vals))
	for _, v := range vals {
		conf = types.Min(conf, v.Confidence)
		members = append(members, v.Type)
	}

	allDuck := true
	for _, m := range members {
		if _, ok := m.(*types.DuckType); !ok {
			allDuck = false
			break
		}
	}
	if allDuck {
		return types.Typed{Type: intersectDuckTypes(members), Confidence: conf}
	}
	return types.Typed{Type: types.NewUnion(members...), Confidence: conf}
}

func intersectDuckTypes(members []types.Type) types.Type {
	first := members[0].(*types.DuckType)
	methods := stringSet(first.RequiredMethods)
	props := stringSet(first.RequiredProperties)
	signals := stringSet(first.RequiredSignals)
	ops := operatorSet(first.RequiredOperators)
	var possible []string
	possible = append(possible, first.PossibleTypes...)

	for _, m := range members[1:] {
		d := m.(*types.DuckType)
		methods = intersectSet(methods, stringSet(d.RequiredMethods))
		props = intersectSet(props, stringSet(d.RequiredProperties))
		signals = intersectSet(signals, stringSet(d.RequiredSignals))
		ops = intersectOperatorSet(ops, operatorSet(d.RequiredOperators))
		possible = append(possible, d.PossibleTypes...)
	}
	return &types.DuckType{
		RequiredMethods:    setToSlice(methods),
		RequiredProperties: setToSlice(props),
		RequiredSignals:    setToSlice(signals),
		RequiredOperators:  operatorSetToSlice(ops),
		PossibleTypes:      dedupeStrings(possible),
	}
}

func operatorKey(r types.OperatorRequirement) string {
	operand := "?"
	if r.Operand != nil {
		operand = r.Operand.String()
	}
	return r.Op + "|" + operand
}

func operatorSet(reqs []types.OperatorRequirement) map[string]types.OperatorRequirement {
	m := map[string]types.OperatorRequirement{}
	for _, r := range reqs {
		m[operatorKey(r)] = r
	}
	return m
}

func intersectOperatorSet(a, b map[string]types.OperatorRequirement) map[string]types.OperatorRequirement {
	out := map[string]types.OperatorRequirement{}
	for k, v := range a {
		if _, ok := b[k]; ok {
			out[k] = v
		}
	}
	return out
}

func operatorSetToSlice(m map[string]types.OperatorRequirement) []types.OperatorRequirement {
	var out []types.OperatorRequirement
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func stringSet(ss []string) map[string]bool {
	m := map[string]bool{}
	for _, s := range ss {
		m[s] = true
	}
	return m
}

func intersectSet(a, b map[string]bool) map[string]bool {
	out := map[string]bool{}
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func setToSlice(m map[string]bool) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}

func dedupeStrings(ss []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

