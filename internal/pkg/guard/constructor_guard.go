// Package guard provides the constructor guard pattern used by domain objects
// to detect zero-value instances that bypassed their designated constructors.
//
// Embedding a ConstructorGuard in an entity or value object lets Validate
// distinguish properly built instances from accidental zero values, keeping
// domain invariants intact when objects cross persistence or transport
// boundaries.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guarded object
// was not built through its constructor and no specific error was supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed. The zero value
// fails validation, so any struct embedding a guard must go through its
// constructor to be usable.
//
// Example:
//
//	type Command struct {
//	    guard guard.ConstructorGuard
//	}
//
//	func NewCommand() Command {
//	    return Command{guard: guard.NewConstructorGuard()}
//	}
//
//	func (c Command) Validate() error {
//	    return c.guard.Validate(ErrCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that marks its owner as constructed.
// Call this inside the owner's constructor function.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the owner was built through its constructor.
// For zero-value owners it returns validationError, or
// ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
