// Command gdlint is a thin demonstration CLI over the gdlint core: it is
// an external collaborator of the library, not part of it (spec.md §1
// "a library, not a CLI or editor plugin").
//
// Grounded on the teacher's demo/cmd/main.go cobra wiring: a root command
// with subcommands, each building its own runner and reporting failure
// through os.Exit rather than a panic.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/gdlint/internal/config"
	"github.com/oxhq/gdlint/internal/project"
	"github.com/oxhq/gdlint/internal/provider"
	"github.com/oxhq/gdlint/internal/rules"
	"github.com/oxhq/gdlint/internal/rulesets/calls"
	"github.com/oxhq/gdlint/internal/rulesets/flow"
	"github.com/oxhq/gdlint/internal/rulesets/format"
	"github.com/oxhq/gdlint/internal/rulesets/indent"
	rulescope "github.com/oxhq/gdlint/internal/rulesets/scope"
	"github.com/oxhq/gdlint/internal/rulesets/style"
	"github.com/oxhq/gdlint/internal/rulesets/syntax"
	"github.com/oxhq/gdlint/internal/rulesets/typecheck"
)

func fullRuleSet(cfg config.Config) *rules.RuleSet {
	var all []rules.Rule
	all = append(all, syntax.All.Rules()...)
	all = append(all, rulescope.All.Rules()...)
	all = append(all, typecheck.All.Rules()...)
	all = append(all, calls.All.Rules()...)
	all = append(all, flow.All.Rules()...)
	all = append(all, indent.All.Rules()...)
	all = append(all, style.All(style.Options{Naming: cfg.Naming}).Rules()...)
	return rules.NewRuleSet("gdlint", all...)
}

func newLintCmd() *cobra.Command {
	var pattern string
	var recursive bool

	cmd := &cobra.Command{
		Use:   "lint [dir]",
		Short: "Analyze GDScript files under dir and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			cfg := config.Default()

			proj := project.New(nil)
			ctx := context.Background()
			if err := proj.LoadFromDisk(ctx, dir, pattern, recursive, cfg); err != nil {
				return fmt.Errorf("loading scripts from %s: %w", dir, err)
			}

			result := proj.AnalyzeAll(provider.NullProvider{}, fullRuleSet(cfg), cfg.Overrides)
			errCount := 0
			for _, sc := range proj.Scripts() {
				if sc.ParseErr != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", sc.Path, sc.ParseErr)
					errCount++
					continue
				}
				diags := result.Diagnostics[sc.Path]
				for _, d := range diags.Diagnostics {
					fmt.Printf("%s: %s\n", sc.Path, d.String())
					if d.Severity == rules.SeverityError {
						errCount++
					}
				}
			}
			if errCount > 0 {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "*.gd", "glob pattern matched against file names")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "descend into subdirectories")
	return cmd
}

func newFormatCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Print (or, with --write, apply) the formatted form of a GDScript file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg := config.Default()

			proj := project.New(nil)
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			proj.LoadScripts(map[string]string{path: string(source)}, cfg)

			sc, ok := proj.ScriptByResourcePath(path)
			if !ok || sc.Root == nil {
				return fmt.Errorf("%s did not parse cleanly", path)
			}
			formatted := format.Format(sc.Root, cfg)
			if !write {
				fmt.Print(formatted)
				return nil
			}
			return os.WriteFile(path, []byte(formatted), 0o644)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place instead of printing to stdout")
	return cmd
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "gdlint",
		Short: "GDScript static analysis and formatting",
		Long:  "A demonstration CLI over the gdlint analysis library: parse, lint, and format GDScript projects.",
	}
	rootCmd.AddCommand(newLintCmd(), newFormatCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
