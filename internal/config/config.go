// Package config holds the recognized configuration keys (spec.md §6
// "Configuration options"): a plain struct with defaults, no file-format
// parsing — loading a config file from disk is explicitly out of scope,
// the struct is constructed by the caller (grounded on the teacher's
// internal/config package, which separates the typed struct from its
// CLI-flag binding in a similar way).
package config

import "github.com/oxhq/gdlint/internal/rules"

// IndentStyle selects the whitespace character used for indentation.
type IndentStyle string

const (
	IndentTabs   IndentStyle = "tabs"
	IndentSpaces IndentStyle = "spaces"
)

// LineEnding selects the normalized line terminator a formatter targets.
type LineEnding string

const (
	LineEndingLF       LineEnding = "lf"
	LineEndingCRLF     LineEnding = "crlf"
	LineEndingPlatform LineEnding = "platform"
)

// NamingCase selects the expected case convention for a symbol kind.
type NamingCase string

const (
	CaseSnake         NamingCase = "snake"
	CasePascal        NamingCase = "pascal"
	CaseCamel         NamingCase = "camel"
	CaseScreamingSnake NamingCase = "screaming_snake"
	CaseAny           NamingCase = "any"
)

// Indentation describes the expected indentation convention.
type Indentation struct {
	Style IndentStyle
	Size  int
}

// NamingConvention maps each symbol-kind name to its expected case.
// Keys match scope.SymbolKind's textual names ("variable", "constant",
// "parameter", "function", "signal", "enum_value", "enum_type",
// "class_name", "inner_class", "property").
type NamingConvention map[string]NamingCase

// Parallelism controls whether and how widely the project orchestrator
// fans out per-file analysis (spec.md §5).
type Parallelism struct {
	Enabled bool
	// Degree is the worker count; 0 means "auto" (available cores).
	Degree int
	// BatchSize is the cancellation-check granularity (spec.md §5
	// "checked at batch boundaries, default batch: 10 files").
	BatchSize int
}

// CatalogStoreDriver selects the GORM sqlite dialector the provider
// catalog cache connects through (catalogstore.Driver, restated here so
// config stays the single place callers configure from).
type CatalogStoreDriver string

const (
	CatalogStorePureGo CatalogStoreDriver = "pure-go"
	CatalogStoreCGO    CatalogStoreDriver = "cgo"
)

// CatalogStore configures the optional persistent provider-catalog cache
// (internal/catalogstore). Path == "" disables it; callers that don't need
// a disk-backed cache leave this zero and wrap their provider with
// provider.NewCachingProvider's in-memory cache instead.
type CatalogStore struct {
	Path   string
	Driver CatalogStoreDriver
	Debug  bool
}

// Config is the full set of recognized options. Every field has a usable
// zero-value-adjacent default via Default().
type Config struct {
	Indentation Indentation
	LineEnding  LineEnding
	Naming      NamingConvention
	// Overrides keys a rule code or name to a disable/severity override
	// (spec.md §6 "Rule enable/disable and severity overrides keyed by
	// rule id").
	Overrides map[string]rules.SeverityOverride
	// MaxDepth bounds parser resolver recursion (spec.md §5 "Stack
	// discipline"). 0 means the parser's own default.
	MaxDepth     int
	Parallel     Parallelism
	CatalogStore CatalogStore
}

// Default returns the out-of-the-box configuration: 4-space indentation,
// LF line endings, snake_case variables/functions/parameters,
// PascalCase classes, SCREAMING_SNAKE_CASE constants, auto parallelism.
func Default() Config {
	return Config{
		Indentation: Indentation{Style: IndentSpaces, Size: 4},
		LineEnding:  LineEndingLF,
		Naming: NamingConvention{
			"variable":    CaseSnake,
			"constant":    CaseScreamingSnake,
			"parameter":   CaseSnake,
			"function":    CaseSnake,
			"signal":      CaseSnake,
			"enum_value":  CaseScreamingSnake,
			"enum_type":   CasePascal,
			"class_name":  CasePascal,
			"inner_class": CasePascal,
			"property":    CaseSnake,
		},
		Overrides:    map[string]rules.SeverityOverride{},
		Parallel:     Parallelism{Enabled: true, Degree: 0, BatchSize: 10},
		CatalogStore: CatalogStore{Driver: CatalogStorePureGo},
	}
}
