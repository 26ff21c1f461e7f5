package parsefail_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/gdlint/internal/parsefail"
)

func TestStackOverflowErrorMessageCarriesLimit(t *testing.T) {
	err := &parsefail.StackOverflow{Limit: 64}
	require.Equal(t, "parser: nested depth exceeded configured limit of 64 frames", err.Error())
}

func TestIsStackOverflowRecognizesItsOwnType(t *testing.T) {
	require.True(t, parsefail.IsStackOverflow(&parsefail.StackOverflow{Limit: 1}))
}

func TestIsStackOverflowRejectsOtherErrors(t *testing.T) {
	require.False(t, parsefail.IsStackOverflow(errors.New("some other failure")))
	require.False(t, parsefail.IsStackOverflow(nil))
}
