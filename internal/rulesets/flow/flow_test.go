package flow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/parser"
	"github.com/oxhq/gdlint/internal/rules"
	"github.com/oxhq/gdlint/internal/rulesets/flow"
)

func codes(result rules.Result) []string {
	var out []string
	for _, d := range result.Diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func TestBreakInsideLoopIsClean(t *testing.T) {
	root, err := parser.Parse("extends Node\n\nfunc f() -> void:\n\twhile true:\n\t\tbreak\n")
	require.NoError(t, err)
	result := rules.Run(flow.All, &rules.Context{Root: root}, nil, nil)
	require.NotContains(t, codes(result), "GDL5001")
}

func TestContinueInsideForLoopIsClean(t *testing.T) {
	root, err := parser.Parse("extends Node\n\nfunc f() -> void:\n\tfor i in range(10):\n\t\tcontinue\n")
	require.NoError(t, err)
	result := rules.Run(flow.All, &rules.Context{Root: root}, nil, nil)
	require.NotContains(t, codes(result), "GDL5001")
}

// buildBareBreak constructs a minimal CST: a break_stmt with no enclosing
// loop, wrapped only in a block — exercising the rule's ancestor search
// directly without depending on the parser accepting invalid placement.
func buildBareBreak() *cst.Node {
	block := cst.NewNode(cst.KindBlock)
	brk := cst.NewNode(cst.KindBreakStmt)
	block.Append(brk)
	return block
}

func TestBreakOutsideLoopIsFlagged(t *testing.T) {
	root := buildBareBreak()
	result := rules.Run(flow.All, &rules.Context{Root: root}, nil, nil)
	require.Contains(t, codes(result), "GDL5001")
}

func TestBreakInsideNestedFunctionDoesNotReachOuterLoop(t *testing.T) {
	loopBody := cst.NewNode(cst.KindBlock)
	whileStmt := cst.NewNode(cst.KindWhileStmt)
	method := cst.NewNode(cst.KindMethodDecl)
	methodBody := cst.NewNode(cst.KindBlock)
	brk := cst.NewNode(cst.KindBreakStmt)

	methodBody.Append(brk)
	method.Append(methodBody)
	loopBody.Append(method)
	whileStmt.Append(loopBody)

	result := rules.Run(flow.All, &rules.Context{Root: whileStmt}, nil, nil)
	require.Contains(t, codes(result), "GDL5001", "a method boundary inside a loop body still blocks the search")
}

func TestReturnInsideFunctionIsClean(t *testing.T) {
	root, err := parser.Parse("extends Node\n\nfunc f() -> int:\n\treturn 1\n")
	require.NoError(t, err)
	result := rules.Run(flow.All, &rules.Context{Root: root}, nil, nil)
	require.NotContains(t, codes(result), "GDL5002")
}

func TestReturnOutsideFunctionIsFlagged(t *testing.T) {
	block := cst.NewNode(cst.KindBlock)
	ret := cst.NewNode(cst.KindReturnStmt)
	block.Append(ret)

	result := rules.Run(flow.All, &rules.Context{Root: block}, nil, nil)
	require.Contains(t, codes(result), "GDL5002")
}
