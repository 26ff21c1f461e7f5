package rules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/rules"
	"github.com/oxhq/gdlint/internal/token"
)

type fakeRule struct {
	code, name string
	severity   rules.Severity
	diags      []rules.Diagnostic
}

func (r fakeRule) Code() string                  { return r.code }
func (r fakeRule) Name() string                   { return r.name }
func (r fakeRule) Category() rules.Category       { return rules.CategoryStyle }
func (r fakeRule) DefaultSeverity() rules.Severity { return r.severity }
func (r fakeRule) Check(ctx *rules.Context, emit rules.Emitter) {
	for _, d := range r.diags {
		emit.Emit(d)
	}
}

func at(line, col int) token.Span {
	return token.Span{Start: token.Position{Line: line, Column: col}, End: token.Position{Line: line, Column: col}}
}

func TestRunSortsBySourcePositionThenRegistrationOrder(t *testing.T) {
	first := fakeRule{code: "A1", name: "a", severity: rules.SeverityWarning, diags: []rules.Diagnostic{
		{Range: at(5, 1)}, {Range: at(1, 1)},
	}}
	second := fakeRule{code: "A2", name: "b", severity: rules.SeverityWarning, diags: []rules.Diagnostic{
		{Range: at(1, 1)},
	}}
	rs := rules.NewRuleSet("test", first, second)
	result := rules.Run(rs, &rules.Context{}, nil, nil)

	require.Len(t, result.Diagnostics, 3)
	require.Equal(t, 1, result.Diagnostics[0].Range.Start.Line)
	require.Equal(t, "A1", result.Diagnostics[0].Code, "same line: registration order (first rule) wins the tie-break")
	require.Equal(t, "A2", result.Diagnostics[1].Code)
	require.Equal(t, 5, result.Diagnostics[2].Range.Start.Line)
}

func TestRunAppliesSeverityOverride(t *testing.T) {
	r := fakeRule{code: "A1", name: "a", severity: rules.SeverityWarning, diags: []rules.Diagnostic{{Range: at(1, 1)}}}
	rs := rules.NewRuleSet("test", r)
	overrides := map[string]rules.SeverityOverride{"A1": {Severity: rules.SeverityError}}
	result := rules.Run(rs, &rules.Context{}, nil, overrides)

	require.Len(t, result.Diagnostics, 1)
	require.Equal(t, rules.SeverityError, result.Diagnostics[0].Severity)
}

func TestRunSkipsDisabledRules(t *testing.T) {
	r := fakeRule{code: "A1", name: "a", severity: rules.SeverityWarning, diags: []rules.Diagnostic{{Range: at(1, 1)}}}
	rs := rules.NewRuleSet("test", r)
	overrides := map[string]rules.SeverityOverride{"A1": {Disabled: true}}
	result := rules.Run(rs, &rules.Context{}, nil, overrides)

	require.Empty(t, result.Diagnostics)
}

func TestResultCountBySeverity(t *testing.T) {
	result := rules.Result{Diagnostics: []rules.Diagnostic{
		{Severity: rules.SeverityError}, {Severity: rules.SeverityError}, {Severity: rules.SeverityWarning},
	}}
	counts := result.CountBySeverity()
	require.Equal(t, 2, counts[rules.SeverityError])
	require.Equal(t, 1, counts[rules.SeverityWarning])
}

func TestResultFilterSeverity(t *testing.T) {
	result := rules.Result{Diagnostics: []rules.Diagnostic{
		{Severity: rules.SeverityHint}, {Severity: rules.SeverityError},
	}}
	filtered := result.FilterSeverity(rules.SeverityWarning)
	require.Len(t, filtered, 1)
	require.Equal(t, rules.SeverityError, filtered[0].Severity)
}
