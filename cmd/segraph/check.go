package main

import (
	"fmt"
	"go/token"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/go-logr/zapr"

	"github.com/gowalk/segraph"
	"github.com/gowalk/segraph/checkers"
	"github.com/gowalk/segraph/ssacfg"
)

func newCheckCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Walk every function body of the given packages and report issues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level step logging")
	return cmd
}

func runCheck(patterns []string, verbose bool) error {
	initial, err := packages.Load(&packages.Config{
		Mode: packages.LoadAllSyntax,
	}, patterns...)
	if err != nil {
		return err
	} else if packages.PrintErrors(initial) > 0 {
		return fmt.Errorf("packages contain errors")
	}

	prog, pkgs := ssautil.AllPackages(initial, ssa.GlobalDebug)
	for i, pkg := range pkgs {
		if pkg == nil {
			return fmt.Errorf("cannot build SSA for package %s", initial[i])
		}
	}
	prog.Build()

	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}

	registry := segraph.NewRegistry()
	dispatcher := segraph.NewDispatcher(checkers.Ordered()...)
	exceptions := segraph.NewExceptionWalker(ssacfg.NewTryCatchOracle(), nil)
	walker := segraph.NewWalker(segraph.DefaultBounds(), dispatcher, registry, exceptions)
	walker.SetLogger(zapr.NewLogger(logger))

	fns := analyzedFunctions(pkgs)
	for _, fn := range fns {
		adapter := ssacfg.Build(fn)
		outcome := walker.Execute(adapter, adapter.Method(), adapter.Oracle(), adapter.Liveness())
		if outcome != segraph.StepOK {
			logger.Sugar().Infof("%s: %s", fn, outcome)
		}
	}

	fset := fsetOf(initial)
	printIssues(os.Stdout, dispatcher.Issues(), fset)
	return nil
}

// analyzedFunctions returns every function with a real body (skipping
// synthetic wrappers go/ssa generates with no source), across pkgs.
func analyzedFunctions(pkgs []*ssa.Package) []*ssa.Function {
	var out []*ssa.Function
	for _, pkg := range pkgs {
		if pkg == nil {
			continue
		}
		for fn := range ssautil.AllFunctions(pkg.Prog) {
			if fn.Pkg == pkg && len(fn.Blocks) > 0 {
				out = append(out, fn)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func fsetOf(pkgs []*packages.Package) *token.FileSet {
	for _, pkg := range pkgs {
		if pkg.Fset != nil {
			return pkg.Fset
		}
	}
	return token.NewFileSet()
}

func printIssues(w *os.File, issues []segraph.Issue, fset *token.FileSet) {
	sort.Slice(issues, func(i, j int) bool { return issues[i].Pos < issues[j].Pos })
	for _, issue := range issues {
		pos := fset.Position(issue.Pos)
		fmt.Fprintf(w, "%s: [%s] %s\n", pos, issue.Rule, issue.Message)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-4))
		return cfg.Build()
	}
	return zap.NewProduction()
}
