package ssacfg

import (
	"strings"

	"golang.org/x/tools/go/ssa"

	"github.com/gowalk/segraph"
)

// methodSymbol implements both segraph.Symbol and segraph.MethodSymbol
// for one *ssa.Function, and is the key the method-behavior registry
// uses across a whole program walk.
type methodSymbol struct {
	fn     *ssa.Function
	params []segraph.Symbol
}

func (m *methodSymbol) Name() string { return m.fn.Name() }

// IsConstructor treats a "New*" naming convention as Go's closest
// analogue to a constructor — there is no language-level constructor
// concept to ask go/ssa about directly.
func (m *methodSymbol) IsConstructor() bool {
	return strings.HasPrefix(m.fn.Name(), "New")
}

func (m *methodSymbol) IsVoid() bool {
	return m.fn.Signature.Results().Len() == 0
}

func (m *methodSymbol) Parameters() []segraph.Symbol { return m.params }
