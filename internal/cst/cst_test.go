package cst_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/token"
)

func tok(kind token.Kind, seq string) *cst.TokenElement {
	return cst.NewToken(token.New(kind, seq, token.Span{}))
}

func TestToTextConcatenatesFormInOrder(t *testing.T) {
	n := cst.NewNode(cst.KindBinaryExpr)
	n.Append(tok(token.Identifier, "a"))
	n.Append(tok(token.Punctuation, "+"))
	n.Append(tok(token.Identifier, "b"))

	require.Equal(t, "a+b", n.ToText())
}

func TestAppendAdoptsChildNodeAsParent(t *testing.T) {
	parent := cst.NewNode(cst.KindCallExpr)
	child := cst.NewNode(cst.KindIdentifier)
	parent.Append(child)

	require.Equal(t, parent, child.Parent())
	require.Equal(t, []*cst.Node{child}, parent.Children())
}

func TestInsertBeforeAndAfterPreserveOrder(t *testing.T) {
	n := cst.NewNode(cst.KindArrayExpr)
	first := tok(token.Punctuation, "[")
	last := tok(token.Punctuation, "]")
	n.Append(first)
	n.Append(last)

	middle := tok(token.Number, "1")
	n.InsertBefore(middle, last)
	require.Equal(t, "[1]", n.ToText())

	trailing := tok(token.Punctuation, ",")
	n.InsertAfter(trailing, middle)
	require.Equal(t, "[1,]", n.ToText())
}

func TestInsertBeforeMissingAnchorAppends(t *testing.T) {
	n := cst.NewNode(cst.KindArrayExpr)
	n.Append(tok(token.Punctuation, "["))
	unrelated := tok(token.Punctuation, "?")
	n.InsertBefore(tok(token.Punctuation, "]"), unrelated)

	require.Equal(t, "[]", n.ToText())
}

func TestRemoveDropsElementAndClearsParent(t *testing.T) {
	parent := cst.NewNode(cst.KindBlock)
	child := cst.NewNode(cst.KindPassStmt)
	parent.Append(child)
	parent.Remove(child)

	require.Empty(t, parent.Children())
	require.Nil(t, child.Parent())
}

func TestChildrenSkipsTokensAndTokensSkipsNodes(t *testing.T) {
	n := cst.NewNode(cst.KindMemberExpr)
	identNode := cst.NewNode(cst.KindIdentifier)
	identNode.Append(tok(token.Identifier, "health"))
	n.Append(identNode)
	n.Append(tok(token.Punctuation, "."))
	methodNode := cst.NewNode(cst.KindIdentifier)
	methodNode.Append(tok(token.Identifier, "take_damage"))
	n.Append(methodNode)

	require.Len(t, n.Children(), 2)
	require.Len(t, n.Tokens(), 1)
}

func TestCloneProducesIndependentSubtree(t *testing.T) {
	n := cst.NewNode(cst.KindBinaryExpr)
	n.Attrs["op"] = 1
	n.Append(tok(token.Identifier, "a"))
	child := cst.NewNode(cst.KindIdentifier)
	child.Append(tok(token.Identifier, "b"))
	n.Append(child)

	clone := n.Clone()
	require.Equal(t, n.ToText(), clone.ToText())
	require.Equal(t, n.Attrs, clone.Attrs)

	clone.Remove(clone.Children()[0])
	require.NotEqual(t, n.ToText(), clone.ToText(), "mutating the clone must not affect the original")
	require.Len(t, n.Children(), 1, "original subtree is untouched by clone mutation")
}

func TestSpanSpansFirstToLastFormElement(t *testing.T) {
	n := cst.NewNode(cst.KindBinaryExpr)
	n.Append(cst.NewToken(token.New(token.Identifier, "a", token.Span{
		Start: token.Position{Line: 1, Column: 1},
		End:   token.Position{Line: 1, Column: 2},
	})))
	n.Append(cst.NewToken(token.New(token.Identifier, "b", token.Span{
		Start: token.Position{Line: 1, Column: 5},
		End:   token.Position{Line: 1, Column: 6},
	})))

	span := n.Span()
	require.Equal(t, 1, span.Start.Column)
	require.Equal(t, 6, span.End.Column)
}

func TestWalkInVisitsDepthFirstAndCanSkipChildren(t *testing.T) {
	root := cst.NewNode(cst.KindBlock)
	a := cst.NewNode(cst.KindIfStmt)
	b := cst.NewNode(cst.KindPassStmt)
	root.Append(a)
	root.Append(b)
	skippedChild := cst.NewNode(cst.KindExprStmt)
	a.Append(skippedChild)

	var visited []cst.Kind
	cst.WalkIn(root, cst.VisitorFunc{
		OnEnter: func(n *cst.Node) bool {
			visited = append(visited, n.Kind)
			return n.Kind != cst.KindIfStmt
		},
	})

	require.Equal(t, []cst.Kind{cst.KindBlock, cst.KindIfStmt, cst.KindPassStmt}, visited)
}

func TestTryGetTokenByPositionFindsDeepestMatch(t *testing.T) {
	root := cst.NewNode(cst.KindBinaryExpr)
	inner := cst.NewNode(cst.KindIdentifier)
	identTok := token.New(token.Identifier, "health", token.Span{
		Start: token.Position{Line: 1, Column: 1},
		End:   token.Position{Line: 1, Column: 7},
	})
	inner.Append(cst.NewToken(identTok))
	root.Append(inner)

	found := cst.TryGetTokenByPosition(root, token.Position{Line: 1, Column: 3})
	require.NotNil(t, found)
	require.Equal(t, "health", found.Sequence)

	notFound := cst.TryGetTokenByPosition(root, token.Position{Line: 2, Column: 1})
	require.Nil(t, notFound)
}
