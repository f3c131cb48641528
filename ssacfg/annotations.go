package ssacfg

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/ssa"
)

// nonnull/nullable/checkfornull are doc-comment directives standing in
// for the analyzed language's Nonnull/Nullable/CheckForNull annotations
// (segraph's walker.go and behavior.go hardcode those three fully
// qualified names). Go has no parameter annotations, so ssacfg reads
// them off the function's own doc comment instead:
//
//	// nonnull: buf
//	// nullable: err
//	func Foo(buf []byte, err error) { ... }
const (
	annotationNonnull      = "javax.annotation.Nonnull"
	annotationNullable     = "javax.annotation.Nullable"
	annotationCheckForNull = "javax.annotation.CheckForNull"
)

var directiveFQN = map[string]string{
	"nonnull":      annotationNonnull,
	"nullable":     annotationNullable,
	"checkfornull": annotationCheckForNull,
}

// parseAnnotationComments reads fn's doc comment for the directives
// above, returning a name -> fqn -> present map. fn.Syntax() is the
// *ast.FuncDecl only when the package was built with debug info
// (ssa.GlobalDebug); it is nil for a function with no corresponding
// source (e.g. a synthetic wrapper). In either other case no
// annotations are ever found.
func parseAnnotationComments(fn *ssa.Function) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	fd, ok := fn.Syntax().(*ast.FuncDecl)
	if !ok || fd.Doc == nil {
		return out
	}
	for _, line := range strings.Split(fd.Doc.Text(), "\n") {
		directive, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fqn, ok := directiveFQN[strings.ToLower(strings.TrimSpace(directive))]
		if !ok {
			continue
		}
		for _, name := range strings.Split(rest, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if out[name] == nil {
				out[name] = make(map[string]bool)
			}
			out[name][fqn] = true
		}
	}
	return out
}
