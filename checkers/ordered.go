package checkers

import "github.com/gowalk/segraph"

// Ordered returns the six mandatory checkers in their fixed dispatch
// order. Callers pass the result straight to segraph.NewDispatcher;
// the order here is the order issues are reported in and the order in
// which each checker's hooks see a state relative to its siblings.
func Ordered() []segraph.Checker {
	return []segraph.Checker{
		&AlwaysTrueOrFalse{},
		&NullDereference{},
		NewUnclosedResources(),
		NewLocksNotUnlocked(),
		&NonNullSetToNull{},
		NewNoWayOutLoop(),
	}
}
