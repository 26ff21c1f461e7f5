// Package suppress parses suppression pragmas out of GDScript comment
// tokens and answers whether a given diagnostic at a given line is
// suppressed (spec.md §6 "Suppression pragma syntax").
//
// Recognized forms, each written as a trailing or standalone comment:
//
//	# gdlint:ignore=CODE[,CODE...]   — suppresses the listed codes on this line
//	# gdlint:disable=CODE[,CODE...]  — suppresses from here until a matching enable
//	# gdlint:enable=CODE[,CODE...]   — re-enables codes disabled above
//	# gdlint:disable                — suppresses every code from here on
//	# gdlint:enable                 — re-enables every code
package suppress

import (
	"strings"

	"github.com/oxhq/gdlint/internal/cst"
)

const pragmaPrefix = "gdlint:"

// Table answers suppression queries for one file's comment tokens.
type Table struct {
	// lineIgnores maps a line number to the set of codes suppressed only
	// on that line (an allCodesKey entry means "all codes").
	lineIgnores map[int]map[string]bool
	// blocks is the ordered list of disable/enable ranges.
	blocks []block
}

type block struct {
	codes    map[string]bool // nil/empty means "all codes"
	startLine int
	endLine   int // 0 means "still open", treated as +Inf
}

// Build scans every comment token reachable from root and constructs the
// suppression table for the file.
func Build(root *cst.Node) *Table {
	t := &Table{lineIgnores: map[int]map[string]bool{}}
	var openBlocks []block

	var walk func(n *cst.Node)
	walk = func(n *cst.Node) {
		for _, el := range n.Form() {
			switch v := el.(type) {
			case *cst.TokenElement:
				if v.Tok.Kind.String() == "comment" {
					t.handleComment(v.Tok.Sequence, v.Tok.Span.Start.Line, &openBlocks)
				}
			case *cst.Node:
				walk(v)
			}
		}
	}
	walk(root)

	for _, b := range openBlocks {
		b.endLine = 0
		t.blocks = append(t.blocks, b)
	}
	return t
}

func (t *Table) handleComment(text string, line int, open *[]block) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "#")
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, pragmaPrefix) {
		return
	}
	directive := strings.TrimPrefix(text, pragmaPrefix)
	kind, rest, found := strings.Cut(directive, "=")
	kind = strings.TrimSpace(kind)
	var codes map[string]bool
	if found {
		codes = map[string]bool{}
		for _, c := range strings.Split(rest, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				codes[c] = true
			}
		}
	}

	switch kind {
	case "ignore":
		if t.lineIgnores[line] == nil {
			t.lineIgnores[line] = map[string]bool{}
		}
		if codes == nil {
			// "ignore all" marker: the allCodesKey entry matches every
			// code on this line.
			t.lineIgnores[line][allCodesKey] = true
		} else {
			for c := range codes {
				t.lineIgnores[line][c] = true
			}
		}
	case "disable":
		*open = append(*open, block{codes: codes, startLine: line})
	case "enable":
		t.closeBlocks(open, line, codes)
	}
}

const allCodesKey = "*"

func (t *Table) closeBlocks(open *[]block, line int, codes map[string]bool) {
	var stillOpen []block
	for _, b := range *open {
		if blocksOverlap(b.codes, codes) {
			b.endLine = line
			t.blocks = append(t.blocks, b)
			continue
		}
		stillOpen = append(stillOpen, b)
	}
	*open = stillOpen
}

// blocksOverlap reports whether an "enable" with the given codes (nil means
// "all") should close a "disable" block with the given codes (nil means
// "all").
func blocksOverlap(blockCodes, enableCodes map[string]bool) bool {
	if enableCodes == nil || blockCodes == nil {
		return true
	}
	for c := range enableCodes {
		if blockCodes[c] {
			return true
		}
	}
	return false
}

// IsSuppressed reports whether a diagnostic with the given code at the
// given line should be dropped.
func (t *Table) IsSuppressed(code string, line int) bool {
	if ignores, ok := t.lineIgnores[line]; ok {
		if ignores[allCodesKey] || ignores[code] {
			return true
		}
	}
	for _, b := range t.blocks {
		if line < b.startLine {
			continue
		}
		if b.endLine != 0 && line >= b.endLine {
			continue
		}
		if b.codes == nil || b.codes[code] {
			return true
		}
	}
	return false
}
