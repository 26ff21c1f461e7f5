// Package parsefail defines the single hard parser failure described in
// spec.md §7: nested-depth exceeded. Every other malformed input is a
// recoverable diagnostic, never an error return from the parser.
package parsefail

import (
	"errors"
	"fmt"
)

// StackOverflow is returned when the resolver stack exceeds its configured
// depth limit. It is distinct from a rules.Diagnostic: it aborts the current
// file's parse rather than being collected alongside other findings.
type StackOverflow struct {
	Limit int
}

func (e *StackOverflow) Error() string {
	return fmt.Sprintf("parser: nested depth exceeded configured limit of %d frames", e.Limit)
}

// IsStackOverflow reports whether err is (or wraps) a *StackOverflow.
func IsStackOverflow(err error) bool {
	var so *StackOverflow
	return errors.As(err, &so)
}
