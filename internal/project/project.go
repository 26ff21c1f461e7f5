// Package project implements the project orchestrator (spec.md §4.9, L9):
// multi-file session coordination — parsing and per-file declaration
// collection in parallel, a project-wide symbol index for cross-file
// resolution, and path-based script lookup.
//
// Grounded on the teacher's internal/core/pipeline.go batch/cancellation
// idiom (deleted — tree-sitter-shaped — but its "thread a context through
// multi-stage processing, check cancellation at boundaries" shape is kept)
// and its core/filewalker.go worker-pool pattern for the parallel fan-out.
package project

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/oxhq/gdlint/internal/config"
	"github.com/oxhq/gdlint/internal/cst"
	"github.com/oxhq/gdlint/internal/fsabs"
	"github.com/oxhq/gdlint/internal/parser"
	"github.com/oxhq/gdlint/internal/parsefail"
	"github.com/oxhq/gdlint/internal/scope"
	"github.com/oxhq/gdlint/internal/suppress"
)

// Script is one loaded and parsed source file's full per-file model.
type Script struct {
	Path      string // canonical project-relative path, e.g. "res://player.gd"
	Source    string
	Root      *cst.Node
	Scope     *scope.Scope
	Suppress  *suppress.Table
	ParseErr  error // non-nil only for the one parser-fatal condition (spec.md §7)
	ClassName string
	Extends   string
}

// Project is a thread-safe multi-file session (spec.md §5 "The public API
// is thread-safe on the project orchestrator only"). Per-file mutation of
// a Script's own tree/scope is the caller's responsibility and is not
// synchronized by Project itself.
type Project struct {
	fs fsabs.FS

	mu      sync.RWMutex
	scripts map[string]*Script
	order   []string // insertion order, for deterministic default iteration
}

// New builds an empty project over the given file-system abstraction. A
// nil fs uses fsabs.OS.
func New(fs fsabs.FS) *Project {
	if fs == nil {
		fs = fsabs.OS{}
	}
	return &Project{fs: fs, scripts: map[string]*Script{}}
}

// LoadScripts ingests in-memory sources keyed by canonical path — the
// entry point for callers that already have file contents (tests, an
// editor buffer) rather than a directory to scan. Each source is parsed
// and collected independently; a per-file parser-fatal condition is
// recorded on that Script rather than aborting the whole load (spec.md §7
// "the orchestrator must continue analyzing remaining files").
func (p *Project) LoadScripts(sources map[string]string, cfg config.Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for path, src := range sources {
		p.loadOne(path, src, cfg)
	}
}

// LoadFromDisk discovers GDScript files under dir via the file-system
// abstraction and loads each one, fanning the parse+collect work out
// across cfg.Parallel.Degree workers (0/auto uses available cores) and
// checking ctx for cancellation every cfg.Parallel.BatchSize files
// (spec.md §5 "checked at batch boundaries, default batch: 10 files").
// Mid-file parsing is never interrupted; only the boundary between files
// is a cancellation point.
func (p *Project) LoadFromDisk(ctx context.Context, dir, pattern string, recursive bool, cfg config.Config) error {
	paths, err := p.fs.GetFiles(dir, pattern, recursive)
	if err != nil {
		return fmt.Errorf("project: discover scripts: %w", err)
	}

	degree := cfg.Parallel.Degree
	if degree <= 0 {
		degree = runtime.NumCPU()
	}
	if !cfg.Parallel.Enabled {
		degree = 1
	}
	batch := cfg.Parallel.BatchSize
	if batch <= 0 {
		batch = 10
	}

	for start := 0; start < len(paths); start += batch {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		end := start + batch
		if end > len(paths) {
			end = len(paths)
		}
		if err := p.loadBatch(paths[start:end], degree, cfg); err != nil {
			return err
		}
	}
	return nil
}

func (p *Project) loadBatch(paths []string, degree int, cfg config.Config) error {
	sem := make(chan struct{}, degree)
	var wg sync.WaitGroup
	var firstErr error
	var errMu sync.Mutex

	for _, path := range paths {
		path := path
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			text, err := p.fs.ReadAllText(path)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			p.mu.Lock()
			p.loadOne(path, text, cfg)
			p.mu.Unlock()
		}()
	}
	wg.Wait()
	return firstErr
}

// loadOne parses+collects one script. Caller holds p.mu.
func (p *Project) loadOne(path, src string, cfg config.Config) {
	canonical := canonicalPath(path)
	sc := &Script{Path: canonical, Source: src}

	root, err := parser.ParseWithDepth(src, cfg.MaxDepth)
	if err != nil {
		sc.ParseErr = err
		if !parsefail.IsStackOverflow(err) {
			sc.ParseErr = fmt.Errorf("project: unexpected parser error for %s: %w", canonical, err)
		}
		p.registerScript(sc)
		return
	}
	sc.Root = root

	if sp, err := scope.Build(root); err == nil {
		sc.Scope = sp
	}
	sc.Suppress = suppress.Build(root)
	sc.ClassName, sc.Extends = classIdentity(root)

	p.registerScript(sc)
}

func (p *Project) registerScript(sc *Script) {
	if _, exists := p.scripts[sc.Path]; !exists {
		p.order = append(p.order, sc.Path)
	}
	p.scripts[sc.Path] = sc
}

// classIdentity reads a parsed class body's class_name/extends directives,
// when present.
func classIdentity(root *cst.Node) (className, extends string) {
	for _, m := range root.Children() {
		switch m.Kind {
		case cst.KindClassNameDecl:
			className = attrText(m, "name")
		case cst.KindExtendsDecl:
			extends = strings.TrimSpace(m.ToText())
			extends = strings.TrimPrefix(extends, "extends")
			extends = strings.TrimSpace(extends)
		}
	}
	return
}

func attrText(n *cst.Node, key string) string {
	idx, ok := n.Attrs[key]
	if !ok {
		return ""
	}
	form := n.Form()
	if idx < 0 || idx >= len(form) {
		return ""
	}
	te, ok := form[idx].(*cst.TokenElement)
	if !ok {
		return ""
	}
	return te.Tok.Sequence
}

// canonicalPath normalizes a loaded path to forward slashes, matching
// Godot's res:// addressing scheme closely enough for use as a stable map
// key without depending on project.godot parsing (out of scope, spec.md §1).
func canonicalPath(path string) string {
	return filepath.ToSlash(path)
}

// ScriptByResourcePath looks up a loaded script by its canonical path
// (spec.md §4.9 "script_by_resource_path").
func (p *Project) ScriptByResourcePath(path string) (*Script, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sc, ok := p.scripts[canonicalPath(path)]
	return sc, ok
}

// Scripts returns every loaded script in deterministic (canonical-path)
// order (spec.md §5 "Across files, ordering is by canonical path unless
// the caller requests otherwise").
func (p *Project) Scripts() []*Script {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Script, 0, len(p.scripts))
	for _, path := range p.order {
		out = append(out, p.scripts[path])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// AnalysisRun stamps one analyze_all pass with a fresh id, carried on
// AnalysisResult.Run for callers (spec.md §2 "stamps each analysis pass
// with a run ID"). Nothing else in the module reads it: catalog-store rows
// and load batches carry no run id.
type AnalysisRun struct {
	ID uuid.UUID
}

// NewAnalysisRun mints a fresh run id.
func NewAnalysisRun() AnalysisRun { return AnalysisRun{ID: uuid.New()} }
