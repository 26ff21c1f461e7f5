package project

import "github.com/oxhq/gdlint/internal/scope"

// FindSymbols returns every symbol named name across every loaded script,
// searching each script's full scope tree (spec.md §4.9 "find_symbols").
// Results are in canonical-path order, and within a script in scope-tree
// pre-order (class scope before its methods' bodies).
func (p *Project) FindSymbols(name string) []*scope.Symbol {
	var out []*scope.Symbol
	for _, sc := range p.Scripts() {
		if sc.Scope == nil {
			continue
		}
		walkScopes(sc.Scope, func(s *scope.Scope) {
			if sym, ok := s.Symbols[name]; ok {
				out = append(out, sym)
			}
		})
	}
	return out
}

func walkScopes(s *scope.Scope, visit func(*scope.Scope)) {
	visit(s)
	for _, child := range s.Children {
		walkScopes(child, visit)
	}
}

// classScripts indexes loaded scripts by their declared class_name, for
// cross-file type resolution (spec.md §6 "supply ... user-defined classes
// from other scripts").
func (p *Project) classScripts() map[string]*Script {
	out := map[string]*Script{}
	for _, sc := range p.Scripts() {
		if sc.ClassName != "" {
			out[sc.ClassName] = sc
		}
	}
	return out
}
