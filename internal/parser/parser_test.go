package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/parsefail"
)

func TestParseRoundTripsByteExact(t *testing.T) {
	sources := []string{
		"",
		"var x = 1\n",
		"class_name Foo\nextends Node\n\nfunc _ready() -> void:\n\tvar x := 1\n\tprint(x)\n",
		"# a comment\nvar y: int = 2  # trailing\n",
		"var d = {\"a\": 1, \"b\": 2}\n",
		"func f(a: int, b := 2) -> int:\n\treturn a + b\n",
		"if x:\n\tpass\nelif y:\n\tpass\nelse:\n\tpass\n",
	}
	for _, src := range sources {
		root, err := Parse(src)
		require.NoError(t, err)
		require.Equal(t, src, root.ToText(), "round-trip mismatch for %q", src)
	}
}

func TestParseDoesNotErrorOnMalformedInput(t *testing.T) {
	_, err := Parse("func (: :\n\t  var =\n")
	require.NoError(t, err, "malformed input should recover, not error")
}

func TestParseWithDepthReportsStackOverflow(t *testing.T) {
	deep := ""
	for i := 0; i < 5000; i++ {
		deep += "("
	}
	deep += "1"
	for i := 0; i < 5000; i++ {
		deep += ")"
	}
	src := "var x = " + deep + "\n"

	_, err := ParseWithDepth(src, 32)
	require.Error(t, err)
	require.True(t, parsefail.IsStackOverflow(err))
}
