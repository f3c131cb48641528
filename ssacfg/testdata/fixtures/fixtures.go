// Package fixtures holds small, hand-written functions exercising the
// ssa.Instruction shapes build.go lowers, loaded by ssacfg's own tests
// via golang.org/x/tools/go/packages rather than a synthetic *ssa.Function.
package fixtures

// Counter is a tiny reference type standing in for a class with one
// field and one method.
type Counter struct {
	n int
}

// IsNil reports whether c is nil.
//
// nonnull: c
func IsNil(c *Counter) bool {
	if c == nil {
		return true
	}
	return false
}

// Bump increments c's counter and returns the new value.
func (c *Counter) Bump() int {
	c.n = c.n + 1
	return c.n
}

// NewCounter constructs a zeroed Counter.
func NewCounter() *Counter {
	return &Counter{}
}

// CallBump calls Bump on c through a plain function, exercising a
// method-invocation element with a non-trivial receiver.
func CallBump(c *Counter) int {
	return c.Bump()
}
